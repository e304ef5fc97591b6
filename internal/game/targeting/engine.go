// Package targeting computes which cells an action may be aimed at.
//
// ValidTargets runs a fixed pipeline: base range, whitelist union, blacklist
// subtraction, a per-cell filter pass, then self-targeting reconciliation.
// Later stages assume the earlier ones ran, so the order is fixed.
// Contradictory filters simply produce no targets.
package targeting

import (
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/hextactics/internal/game/actions"
	"github.com/mitchelldurbincs/hextactics/internal/game/core"
)

// Field is the battlefield view targeting needs
type Field interface {
	IsValidCell(c core.HexCell) bool
	IsOccupied(c core.HexCell) bool
	EntityAt(c core.HexCell) (*core.Entity, bool)
	ValidCells() []core.HexCell
}

// Engine evaluates targeting rules against a battlefield
type Engine struct {
	field  Field
	logger zerolog.Logger
}

// NewEngine creates a targeting engine reading from field
func NewEngine(field Field, logger zerolog.Logger) *Engine {
	return &Engine{
		field:  field,
		logger: logger.With().Str("component", "targeting").Logger(),
	}
}

// ValidTargets returns the legal target cells for def cast from origin,
// duplicate-free and ordered by (col,row).
func (e *Engine) ValidTargets(origin core.HexCell, def *actions.Definition) []core.HexCell {
	candidates := e.baseRange(origin, def)

	for _, entry := range def.Whitelist {
		candidates.AddAll(entry.Resolve())
	}
	blacklisted := core.NewCellSet()
	for _, entry := range def.Blacklist {
		blacklisted.AddAll(entry.Resolve())
	}
	for c := range blacklisted {
		candidates.Remove(c)
	}

	casterKind := e.casterKind(origin)
	result := core.NewCellSet()
	for c := range candidates {
		if e.passes(origin, c, casterKind, def) {
			result.Add(c)
		}
	}

	if def.TargetType.PermitsSelf() && !def.ExcludeSelf && !result.Contains(origin) {
		if !blacklisted.Contains(origin) && e.passes(origin, origin, casterKind, def) {
			result.Add(origin)
		}
	}

	cells := result.Cells()
	e.logger.Debug().
		Str("action", def.Name).
		Str("origin", origin.String()).
		Int("candidates", candidates.Len()).
		Int("targets", len(cells)).
		Msg("Computed valid targets")
	return cells
}

// IsValidTarget reports whether target is among ValidTargets(origin, def)
func (e *Engine) IsValidTarget(origin, target core.HexCell, def *actions.Definition) bool {
	for _, c := range e.ValidTargets(origin, def) {
		if c == target {
			return true
		}
	}
	return false
}

func (e *Engine) baseRange(origin core.HexCell, def *actions.Definition) core.CellSet {
	switch def.RangeMethod {
	case actions.RangePattern:
		set := core.NewCellSet()
		for _, off := range def.RangeOffsets {
			set.Add(core.TranslateOffset(origin, off))
		}
		return set
	case actions.RangeAllTiles:
		return core.NewCellSet(e.field.ValidCells()...)
	default:
		return core.NewCellSet(core.CellsInRadius(origin, 1, def.Range)...)
	}
}

// casterKind is the kind ally/enemy tests are judged against. A cell with no
// caster is evaluated as the player's.
func (e *Engine) casterKind(origin core.HexCell) core.Kind {
	if caster, ok := e.field.EntityAt(origin); ok {
		return caster.Kind
	}
	return core.KindPlayer
}

// passes runs the per-cell filters, stopping at the first failure
func (e *Engine) passes(origin, c core.HexCell, casterKind core.Kind, def *actions.Definition) bool {
	if !e.field.IsValidCell(c) {
		return false
	}
	if def.RequiresLineOfSight && !e.HasLineOfSight(origin, c) {
		return false
	}

	occupant, occupied := e.field.EntityAt(c)
	switch def.TargetType {
	case actions.TargetSelf:
		if c != origin {
			return false
		}
	case actions.TargetEnemy:
		if !occupied || !core.IsHostile(casterKind, occupant.Kind) {
			return false
		}
	case actions.TargetAlly:
		if !occupied {
			return false
		}
		if c != origin && !core.IsAllied(casterKind, occupant.Kind) {
			return false
		}
	case actions.TargetMovement:
		if occupied {
			return false
		}
	}

	if def.ExcludeSelf && c == origin {
		return false
	}
	if (def.ExcludeOccupied || def.TargetEmptyCellsOnly) && occupied {
		return false
	}
	if def.TargetSelfOnly && c != origin {
		return false
	}
	if occupied && def.ExcludesKind(occupant.Kind) {
		return false
	}
	return true
}

// HasLineOfSight reports whether no occupied cell lies strictly between
// from and to on the straight hex line.
func (e *Engine) HasLineOfSight(from, to core.HexCell) bool {
	line := core.LineDraw(from, to)
	for i := 1; i < len(line)-1; i++ {
		if e.field.IsOccupied(line[i]) {
			return false
		}
	}
	return true
}
