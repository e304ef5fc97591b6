package states

import (
	"time"

	"github.com/rs/zerolog"
)

// BattleContext provides battle-specific information to states for making decisions
type BattleContext struct {
	// BattleID uniquely identifies this battle instance
	BattleID string

	// Logger for state-specific logging
	Logger zerolog.Logger

	// Round is the current round number, starting at 1
	Round int

	// ActorID is the entity whose turn it is
	ActorID string

	// PendingAction is the action picked in ActionSelection, cleared when the
	// player returns to ActionSelection
	PendingAction string

	// StartTime is when the battle left Setup
	StartTime time.Time

	// Outcome is "victory", "defeat" or "max_rounds" once the battle ends
	Outcome string

	// Metadata for custom state data
	Metadata map[string]interface{}
}

// NewBattleContext creates a new battle context
func NewBattleContext(battleID string, logger zerolog.Logger) *BattleContext {
	return &BattleContext{
		BattleID: battleID,
		Logger:   logger.With().Str("battle_id", battleID).Logger(),
		Metadata: make(map[string]interface{}),
	}
}

// GetElapsedTime returns the time elapsed since the battle started
func (bc *BattleContext) GetElapsedTime() time.Duration {
	if bc.StartTime.IsZero() {
		return 0
	}
	return time.Since(bc.StartTime)
}

// SetMetadata stores custom data for states
func (bc *BattleContext) SetMetadata(key string, value interface{}) {
	bc.Metadata[key] = value
}

// GetMetadata retrieves custom data stored by states
func (bc *BattleContext) GetMetadata(key string) (interface{}, bool) {
	val, exists := bc.Metadata[key]
	return val, exists
}
