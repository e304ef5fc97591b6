package battle

import (
	"github.com/mitchelldurbincs/hextactics/internal/game/actions"
	"github.com/mitchelldurbincs/hextactics/internal/game/ai"
	"github.com/mitchelldurbincs/hextactics/internal/game/core"
	"github.com/mitchelldurbincs/hextactics/internal/game/states"
)

// Player-facing request/response calls. The battle parks in ActionSelection
// or TargetSelection between them.

// playerActor returns the current actor if the battle is parked in want
func (b *Battle) playerActor(want states.BattlePhase, op string) (*core.Entity, error) {
	if b.Over() {
		return nil, core.ErrBattleOver
	}
	phase := b.Phase()
	if !phase.AwaitsInput() {
		return nil, core.WrapPhaseError(phase.String(), op, core.ErrNotPlayersTurn)
	}
	if phase != want {
		return nil, core.WrapPhaseError(phase.String(), op, core.ErrWrongPhase)
	}
	actor, ok := b.CurrentActor()
	if !ok {
		return nil, core.WrapPhaseError(phase.String(), op, core.ErrEntityNotFound)
	}
	return actor, nil
}

// OnSubmenuSelection picks the action the player wants to use and returns its
// valid targets. The battle moves to TargetSelection.
func (b *Battle) OnSubmenuSelection(actionName string) ([]core.HexCell, error) {
	actor, err := b.playerActor(states.PhaseActionSelection, "select action")
	if err != nil {
		return nil, err
	}
	def, err := actions.Resolve(b.catalog, actor, actionName)
	if err != nil {
		return nil, err
	}

	targets := b.targeting.ValidTargets(actor.Position, def)
	b.context.PendingAction = def.Name
	b.transition(states.PhaseTargetSelection, "selected "+def.Name)

	b.logger.Debug().
		Str("entity_id", actor.ID).
		Str("action", def.Name).
		Int("targets", len(targets)).
		Msg("Player selected action")
	return targets, nil
}

// PendingAction returns the action chosen in the current TargetSelection
func (b *Battle) PendingAction() (*actions.Definition, bool) {
	if b.Phase() != states.PhaseTargetSelection || b.context.PendingAction == "" {
		return nil, false
	}
	def, err := b.catalog.GetActionDefinition(b.context.PendingAction)
	if err != nil {
		return nil, false
	}
	return def, true
}

// PreviewAffected returns the cells the pending action would hit at target
func (b *Battle) PreviewAffected(target core.HexCell) ([]core.HexCell, error) {
	actor, err := b.playerActor(states.PhaseTargetSelection, "preview")
	if err != nil {
		return nil, err
	}
	def, ok := b.PendingAction()
	if !ok {
		return nil, core.WrapPhaseError(b.Phase().String(), "preview", core.ErrActionNotFound)
	}
	if !b.targeting.IsValidTarget(actor.Position, target, def) {
		return nil, core.WrapEntityError(actor.ID, "preview "+def.Name+" at "+target.String(), core.ErrInvalidTarget)
	}
	return b.aoe.AffectedCells(actor.Position, target, def), nil
}

// OnTargetSelected confirms the target of the pending action, executes it and
// ends the player's turn. An invalid target is rejected and the battle stays
// in TargetSelection.
func (b *Battle) OnTargetSelected(target core.HexCell) (ai.Outcome, error) {
	actor, err := b.playerActor(states.PhaseTargetSelection, "select target")
	if err != nil {
		return ai.Outcome{}, err
	}
	def, ok := b.PendingAction()
	if !ok {
		return ai.Outcome{}, core.WrapPhaseError(b.Phase().String(), "select target", core.ErrActionNotFound)
	}
	if !b.targeting.IsValidTarget(actor.Position, target, def) {
		return ai.Outcome{}, core.WrapEntityError(actor.ID, def.Name+" at "+target.String(), core.ErrInvalidTarget)
	}

	b.transition(states.PhaseActionExecution, "executing "+def.Name)
	out, execErr := b.ExecuteDecision(actor, ai.Use(def, target, 0, "player"))
	b.endCurrentTurn(actor)
	b.advance()
	return out, execErr
}

// OnActionCancelled returns from TargetSelection to ActionSelection without
// consuming the turn
func (b *Battle) OnActionCancelled() error {
	actor, err := b.playerActor(states.PhaseTargetSelection, "cancel")
	if err != nil {
		return err
	}
	b.transition(states.PhaseActionSelection, "cancelled")
	b.logger.Debug().Str("entity_id", actor.ID).Msg("Player cancelled target selection")
	return nil
}

// Cancel is OnActionCancelled
func (b *Battle) Cancel() error {
	return b.OnActionCancelled()
}

// EndPlayerTurn passes the player's turn. From TargetSelection the pending
// action is dropped first.
func (b *Battle) EndPlayerTurn() error {
	if b.Phase() == states.PhaseTargetSelection {
		if err := b.OnActionCancelled(); err != nil {
			return err
		}
	}
	actor, err := b.playerActor(states.PhaseActionSelection, "end turn")
	if err != nil {
		return err
	}
	b.endCurrentTurn(actor)
	b.advance()
	return nil
}
