package rules

import (
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/hextactics/internal/game/core"
)

// End reasons
const (
	ReasonVictory   = "victory"
	ReasonDefeat    = "defeat"
	ReasonMaxRounds = "max_rounds"
)

// Roster is the battlefield view the checker needs
type Roster interface {
	Player() (*core.Entity, bool)
	AliveEntities() []*core.Entity
}

// EndResult is the outcome of one end-condition check
type EndResult struct {
	Over    bool
	Victory bool
	Reason  string
}

// EndConditionChecker handles battle over detection
type EndConditionChecker struct {
	logger    zerolog.Logger
	maxRounds int
}

// NewEndConditionChecker creates a new end condition checker. maxRounds <= 0
// disables the round limit.
func NewEndConditionChecker(logger zerolog.Logger, maxRounds int) *EndConditionChecker {
	return &EndConditionChecker{
		logger:    logger.With().Str("component", "EndConditionChecker").Logger(),
		maxRounds: maxRounds,
	}
}

// MaxRounds returns the configured round limit
func (ec *EndConditionChecker) MaxRounds() int {
	return ec.maxRounds
}

// Check determines whether the battle is over. Defeat wins over victory when
// both hold, and both win over the round limit.
func (ec *EndConditionChecker) Check(roster Roster, roundsCompleted int) EndResult {
	player, ok := roster.Player()
	if !ok || !player.IsAlive() {
		ec.logger.Info().Msg("Player entity is down")
		return EndResult{Over: true, Reason: ReasonDefeat}
	}

	enemies := 0
	for _, e := range roster.AliveEntities() {
		if e.Kind == core.KindEnemy {
			enemies++
		}
	}
	if enemies == 0 {
		ec.logger.Info().Msg("No enemies left")
		return EndResult{Over: true, Victory: true, Reason: ReasonVictory}
	}

	if ec.maxRounds > 0 && roundsCompleted >= ec.maxRounds {
		ec.logger.Info().Int("max_rounds", ec.maxRounds).Msg("Round limit reached")
		return EndResult{Over: true, Reason: ReasonMaxRounds}
	}

	ec.logger.Debug().
		Int("enemies_alive", enemies).
		Int("rounds_completed", roundsCompleted).
		Msg("Battle continues")
	return EndResult{}
}

// SurvivorsByKind counts alive entities per kind name. Kinds with no
// survivors are omitted.
func SurvivorsByKind(roster Roster) map[string]int {
	out := make(map[string]int)
	for _, e := range roster.AliveEntities() {
		out[e.Kind.String()]++
	}
	return out
}
