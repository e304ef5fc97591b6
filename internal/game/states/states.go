package states

import (
	"errors"
	"time"
)

var (
	errNoActor         = errors.New("no actor assigned to the turn")
	errNoPendingAction = errors.New("no action selected")
	errNoOutcome       = errors.New("battle outcome not set")
)

// SetupState represents battlefield preparation before the first round
type SetupState struct{}

func NewSetupState() State {
	return &SetupState{}
}

func (s *SetupState) Phase() BattlePhase {
	return PhaseSetup
}

func (s *SetupState) Enter(ctx *BattleContext) error {
	ctx.Round = 0
	ctx.ActorID = ""
	ctx.PendingAction = ""
	ctx.Outcome = ""
	ctx.Logger.Debug().Msg("Entering Setup state")
	return nil
}

func (s *SetupState) Exit(ctx *BattleContext) error {
	ctx.StartTime = time.Now()
	ctx.Logger.Debug().Msg("Battle setup complete")
	return nil
}

func (s *SetupState) Validate(ctx *BattleContext) error {
	return nil
}

// ActionSelectionState parks the battle until the player picks an action
type ActionSelectionState struct{}

func NewActionSelectionState() State {
	return &ActionSelectionState{}
}

func (s *ActionSelectionState) Phase() BattlePhase {
	return PhaseActionSelection
}

func (s *ActionSelectionState) Enter(ctx *BattleContext) error {
	ctx.PendingAction = ""
	ctx.Logger.Debug().
		Str("actor_id", ctx.ActorID).
		Msg("Awaiting action selection")
	return nil
}

func (s *ActionSelectionState) Exit(ctx *BattleContext) error {
	return nil
}

func (s *ActionSelectionState) Validate(ctx *BattleContext) error {
	if ctx.ActorID == "" {
		return errNoActor
	}
	return nil
}

// TargetSelectionState parks the battle until the player picks a target or cancels
type TargetSelectionState struct{}

func NewTargetSelectionState() State {
	return &TargetSelectionState{}
}

func (s *TargetSelectionState) Phase() BattlePhase {
	return PhaseTargetSelection
}

func (s *TargetSelectionState) Enter(ctx *BattleContext) error {
	ctx.Logger.Debug().
		Str("actor_id", ctx.ActorID).
		Str("action", ctx.PendingAction).
		Msg("Awaiting target selection")
	return nil
}

func (s *TargetSelectionState) Exit(ctx *BattleContext) error {
	return nil
}

func (s *TargetSelectionState) Validate(ctx *BattleContext) error {
	if ctx.ActorID == "" {
		return errNoActor
	}
	if ctx.PendingAction == "" {
		return errNoPendingAction
	}
	return nil
}

// ActionExecutionState covers applying a decision to the battlefield
type ActionExecutionState struct{}

func NewActionExecutionState() State {
	return &ActionExecutionState{}
}

func (s *ActionExecutionState) Phase() BattlePhase {
	return PhaseActionExecution
}

func (s *ActionExecutionState) Enter(ctx *BattleContext) error {
	return nil
}

func (s *ActionExecutionState) Exit(ctx *BattleContext) error {
	ctx.PendingAction = ""
	return nil
}

func (s *ActionExecutionState) Validate(ctx *BattleContext) error {
	if ctx.ActorID == "" {
		return errNoActor
	}
	return nil
}

// EnemyTurnState covers a non-player actor deciding its action
type EnemyTurnState struct{}

func NewEnemyTurnState() State {
	return &EnemyTurnState{}
}

func (s *EnemyTurnState) Phase() BattlePhase {
	return PhaseEnemyTurn
}

func (s *EnemyTurnState) Enter(ctx *BattleContext) error {
	ctx.Logger.Debug().
		Str("actor_id", ctx.ActorID).
		Msg("Enemy turn")
	return nil
}

func (s *EnemyTurnState) Exit(ctx *BattleContext) error {
	return nil
}

func (s *EnemyTurnState) Validate(ctx *BattleContext) error {
	if ctx.ActorID == "" {
		return errNoActor
	}
	return nil
}

// TurnEndState is where the scheduler advances to the next actor or round
type TurnEndState struct{}

func NewTurnEndState() State {
	return &TurnEndState{}
}

func (s *TurnEndState) Phase() BattlePhase {
	return PhaseTurnEnd
}

func (s *TurnEndState) Enter(ctx *BattleContext) error {
	ctx.PendingAction = ""
	return nil
}

func (s *TurnEndState) Exit(ctx *BattleContext) error {
	return nil
}

func (s *TurnEndState) Validate(ctx *BattleContext) error {
	return nil
}

// BattleEndState is the final state of a battle
type BattleEndState struct{}

func NewBattleEndState() State {
	return &BattleEndState{}
}

func (s *BattleEndState) Phase() BattlePhase {
	return PhaseBattleEnd
}

func (s *BattleEndState) Enter(ctx *BattleContext) error {
	ctx.ActorID = ""
	ctx.PendingAction = ""
	ctx.Logger.Info().
		Str("outcome", ctx.Outcome).
		Int("rounds", ctx.Round).
		Dur("elapsed", ctx.GetElapsedTime()).
		Msg("Battle ended")
	return nil
}

func (s *BattleEndState) Exit(ctx *BattleContext) error {
	ctx.Logger.Debug().Msg("Leaving battle end state")
	return nil
}

func (s *BattleEndState) Validate(ctx *BattleContext) error {
	if ctx.Outcome == "" {
		return errNoOutcome
	}
	return nil
}
