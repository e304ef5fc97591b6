package states

import (
	"fmt"
	"slices"
)

// BattlePhase represents the current phase of a battle
type BattlePhase int

const (
	// PhaseSetup - Battlefield and entities being prepared
	PhaseSetup BattlePhase = iota

	// PhaseActionSelection - Waiting for the player to pick an action
	PhaseActionSelection

	// PhaseTargetSelection - Waiting for the player to pick a target cell
	PhaseTargetSelection

	// PhaseActionExecution - Chosen action is being applied
	PhaseActionExecution

	// PhaseEnemyTurn - A non-player actor is deciding
	PhaseEnemyTurn

	// PhaseTurnEnd - Actor's turn consumed, scheduler advancing
	PhaseTurnEnd

	// PhaseBattleEnd - Victory or defeat reached
	PhaseBattleEnd
)

// String returns the string representation of a BattlePhase
func (p BattlePhase) String() string {
	switch p {
	case PhaseSetup:
		return "Setup"
	case PhaseActionSelection:
		return "ActionSelection"
	case PhaseTargetSelection:
		return "TargetSelection"
	case PhaseActionExecution:
		return "ActionExecution"
	case PhaseEnemyTurn:
		return "EnemyTurn"
	case PhaseTurnEnd:
		return "TurnEnd"
	case PhaseBattleEnd:
		return "BattleEnd"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// IsTerminal returns true if the phase represents a terminal state
func (p BattlePhase) IsTerminal() bool {
	return p == PhaseBattleEnd
}

// AwaitsInput returns true while the battle is parked on an external player call
func (p BattlePhase) AwaitsInput() bool {
	return p == PhaseActionSelection || p == PhaseTargetSelection
}

// AllowedTransitions returns the valid phases this phase can transition to
func (p BattlePhase) AllowedTransitions() []BattlePhase {
	switch p {
	case PhaseSetup:
		return []BattlePhase{PhaseActionSelection, PhaseEnemyTurn, PhaseTurnEnd, PhaseBattleEnd}
	case PhaseActionSelection:
		return []BattlePhase{PhaseTargetSelection, PhaseTurnEnd, PhaseBattleEnd}
	case PhaseTargetSelection:
		return []BattlePhase{PhaseActionSelection, PhaseActionExecution, PhaseBattleEnd}
	case PhaseActionExecution:
		return []BattlePhase{PhaseTurnEnd, PhaseBattleEnd}
	case PhaseEnemyTurn:
		return []BattlePhase{PhaseActionExecution, PhaseTurnEnd, PhaseBattleEnd}
	case PhaseTurnEnd:
		return []BattlePhase{PhaseActionSelection, PhaseEnemyTurn, PhaseBattleEnd}
	case PhaseBattleEnd:
		return []BattlePhase{PhaseSetup}
	default:
		return []BattlePhase{}
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p BattlePhase) CanTransitionTo(target BattlePhase) bool {
	return slices.Contains(p.AllowedTransitions(), target)
}

// ParsePhase converts a string to a BattlePhase
func ParsePhase(s string) (BattlePhase, error) {
	for p := PhaseSetup; p <= PhaseBattleEnd; p++ {
		if p.String() == s {
			return p, nil
		}
	}
	return PhaseSetup, fmt.Errorf("unknown battle phase %q", s)
}
