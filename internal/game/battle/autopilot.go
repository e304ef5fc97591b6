package battle

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/hextactics/internal/game/ai"
	"github.com/mitchelldurbincs/hextactics/internal/game/states"
)

// AutoPilot plays the player's turns with an AI strategy, going through the
// same request/response calls a UI would make
type AutoPilot struct {
	battle   *Battle
	strategy ai.Strategy
	logger   zerolog.Logger
}

// NewAutoPilot creates an autopilot using the named behavior. Unknown names
// fall back to the registry default.
func NewAutoPilot(b *Battle, behavior string) *AutoPilot {
	return &AutoPilot{
		battle:   b,
		strategy: b.registry.Get(behavior),
		logger:   b.logger.With().Str("component", "autopilot").Logger(),
	}
}

// Step plays one player turn. It returns false when the battle was not
// waiting on the player.
func (p *AutoPilot) Step() (bool, error) {
	b := p.battle
	if b.Over() || !b.Phase().AwaitsInput() {
		return false, nil
	}
	if b.Phase() == states.PhaseTargetSelection {
		if err := b.OnActionCancelled(); err != nil {
			return false, err
		}
	}
	actor, ok := b.CurrentActor()
	if !ok {
		return false, fmt.Errorf("autopilot: no current actor in phase %s", b.Phase())
	}

	d := p.strategy.DecideAction(actor, b.toolkit)
	p.logger.Debug().
		Int("round", b.Round()).
		Str("entity_id", actor.ID).
		Str("decision", d.String()).
		Msg("Autopilot decision")

	if !d.Valid || d.IsSkip() {
		return true, b.EndPlayerTurn()
	}
	if _, err := b.OnSubmenuSelection(d.ActionName); err != nil {
		p.logger.Warn().Err(err).Str("action", d.ActionName).Msg("Autopilot action rejected, passing turn")
		return true, b.EndPlayerTurn()
	}
	if _, err := b.OnTargetSelected(d.Target); err != nil {
		if b.Phase() == states.PhaseTargetSelection {
			p.logger.Warn().Err(err).Str("target", d.Target.String()).Msg("Autopilot target rejected, passing turn")
			return true, b.EndPlayerTurn()
		}
		// Execution failed but the turn was consumed
		p.logger.Warn().Err(err).Msg("Autopilot action failed")
	}
	return true, nil
}

// Run starts the battle if needed and plays player turns until it ends
func (p *AutoPilot) Run(ctx context.Context) (Result, error) {
	b := p.battle
	if b.Phase() == states.PhaseSetup && !b.Over() {
		if err := b.StartBattle(); err != nil {
			return Result{}, err
		}
	}

	for !b.Over() {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		stepped, err := p.Step()
		if err != nil {
			return Result{}, err
		}
		if !stepped {
			return Result{}, fmt.Errorf("autopilot: battle stalled in phase %s", b.Phase())
		}
	}

	res, _ := b.Result()
	return res, nil
}
