package ai

import (
	"fmt"

	"github.com/mitchelldurbincs/hextactics/internal/game/actions"
	"github.com/mitchelldurbincs/hextactics/internal/game/core"
)

// ActionKind is what a decision asks the executor to do
type ActionKind string

const (
	ActionSkill ActionKind = "skill"
	ActionMove  ActionKind = "move"
	ActionItem  ActionKind = "item"
	ActionTalk  ActionKind = "talk"
	ActionSkip  ActionKind = "skip"
)

// KindFor maps an action category to the decision kind that executes it
func KindFor(cat actions.Category) ActionKind {
	switch cat {
	case actions.CategoryItem:
		return ActionItem
	case actions.CategoryMove:
		return ActionMove
	case actions.CategoryTalk:
		return ActionTalk
	default:
		return ActionSkill
	}
}

// Decision is one chosen action for one turn. Higher priority wins; a skip
// has priority 0.
type Decision struct {
	ActionKind ActionKind
	ActionName string
	Target     core.HexCell
	Valid      bool
	Priority   int
	// Reason is a short human readable explanation of the choice
	Reason string
}

// Invalid is returned when an entity cannot produce a usable decision
func Invalid(reason string) Decision {
	return Decision{ActionKind: ActionSkip, Reason: reason}
}

// Skip is a usable decision to pass the turn
func Skip(reason string) Decision {
	return Decision{ActionKind: ActionSkip, Valid: true, Reason: reason}
}

// Use builds a decision to use def on target
func Use(def *actions.Definition, target core.HexCell, priority int, reason string) Decision {
	return Decision{
		ActionKind: KindFor(def.Category),
		ActionName: def.Name,
		Target:     target,
		Valid:      true,
		Priority:   priority,
		Reason:     reason,
	}
}

// IsSkip reports whether executing the decision does nothing
func (d Decision) IsSkip() bool {
	return d.ActionKind == ActionSkip
}

func (d Decision) String() string {
	if !d.Valid {
		return fmt.Sprintf("invalid (%s)", d.Reason)
	}
	if d.IsSkip() {
		return fmt.Sprintf("skip (%s)", d.Reason)
	}
	return fmt.Sprintf("%s %s -> %s [p%d] (%s)", d.ActionKind, d.ActionName, d.Target, d.Priority, d.Reason)
}
