// Package aoe expands a chosen target cell into the cells an action affects.
package aoe

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/hextactics/internal/game/actions"
	"github.com/mitchelldurbincs/hextactics/internal/game/core"
)

// CellValidator reports whether a cell is on the field and not blocked
type CellValidator interface {
	IsValidCell(c core.HexCell) bool
}

type Engine struct {
	field  CellValidator
	logger zerolog.Logger
}

func NewEngine(field CellValidator, logger zerolog.Logger) *Engine {
	return &Engine{
		field:  field,
		logger: logger.With().Str("component", "aoe").Logger(),
	}
}

// AffectedCells returns the cells hit when def is aimed at target from origin.
// Overlapping sub-shapes may repeat a cell; callers apply effects once per
// distinct cell.
func (e *Engine) AffectedCells(origin, target core.HexCell, def *actions.Definition) []core.HexCell {
	var cells []core.HexCell
	switch def.AOEMethod {
	case actions.AOERadius:
		cells = core.CellsInRadius(target, 1, def.AOERadius)
	case actions.AOEPattern:
		cells = make([]core.HexCell, 0, len(def.AOEOffsets))
		for _, off := range def.AOEOffsets {
			cells = append(cells, core.TranslateOffset(target, off))
		}
	case actions.AOELine:
		cells = lineWithOvershoot(origin, target, def.Overshoot)
	default:
		cells = []core.HexCell{target}
	}

	if def.InverseAOE {
		cells = without(cells, target)
	} else if !contains(cells, target) {
		cells = append([]core.HexCell{target}, cells...)
	}
	if def.ExcludeOrigin {
		cells = without(cells, origin)
	}

	out := cells[:0]
	for _, c := range cells {
		if e.field.IsValidCell(c) {
			out = append(out, c)
		}
	}

	e.logger.Debug().
		Str("action", def.Name).
		Str("origin", origin.String()).
		Str("target", target.String()).
		Int("cells", len(out)).
		Msg("Computed affected cells")
	return out
}

// lineWithOvershoot draws origin..target and then keeps stepping in the same
// cube direction for up to overshoot further cells.
func lineWithOvershoot(origin, target core.HexCell, overshoot int) []core.HexCell {
	line := core.LineDraw(origin, target)
	if overshoot <= 0 || origin == target {
		return line
	}

	oc, tc := origin.ToCube(), target.ToCube()
	delta := tc.Sub(oc)
	scale := float64(max(abs(delta.Q), abs(delta.R), abs(delta.S)))
	dq := float64(delta.Q) / scale
	dr := float64(delta.R) / scale
	ds := float64(delta.S) / scale

	seen := core.NewCellSet(line...)
	added := 0
	// Each step advances at least one whole unit on the dominant axis, so the
	// bound is never reached in practice.
	for k := 1; added < overshoot && k <= overshoot*4; k++ {
		step := core.CubeRound(core.FractionalCube{
			Q: float64(tc.Q) + dq*float64(k),
			R: float64(tc.R) + dr*float64(k),
			S: float64(tc.S) + ds*float64(k),
		})
		c := core.CubeToOffset(step)
		if seen.Contains(c) {
			continue
		}
		seen.Add(c)
		line = append(line, c)
		added++
	}
	return line
}

func contains(cells []core.HexCell, c core.HexCell) bool {
	for _, x := range cells {
		if x == c {
			return true
		}
	}
	return false
}

func without(cells []core.HexCell, c core.HexCell) []core.HexCell {
	out := make([]core.HexCell, 0, len(cells))
	for _, x := range cells {
		if x != c {
			out = append(out, x)
		}
	}
	return out
}

func abs(x int) int {
	return int(math.Abs(float64(x)))
}
