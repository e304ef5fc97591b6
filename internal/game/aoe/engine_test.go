package aoe

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mitchelldurbincs/hextactics/internal/game/actions"
	"github.com/mitchelldurbincs/hextactics/internal/game/battlefield"
	"github.com/mitchelldurbincs/hextactics/internal/game/core"
	"github.com/mitchelldurbincs/hextactics/internal/testutil"
)

func cell(col, row int) core.HexCell {
	return core.HexCell{Col: col, Row: row}
}

func newEngine(w, h int, opts ...battlefield.Option) *Engine {
	return NewEngine(battlefield.New(w, h, opts...), testutil.NopLogger())
}

func TestAffectedCells_None(t *testing.T) {
	e := newEngine(8, 8)
	def := &actions.Definition{Name: "slash"}
	assert.Equal(t, []core.HexCell{cell(3, 3)}, e.AffectedCells(cell(2, 3), cell(3, 3), def))
}

func TestAffectedCells_Radius(t *testing.T) {
	e := newEngine(10, 10)
	target := cell(5, 5)
	def := &actions.Definition{Name: "fireball", AOEMethod: actions.AOERadius, AOERadius: 1}

	cells := e.AffectedCells(cell(1, 1), target, def)
	assert.Len(t, cells, 7)
	assert.Equal(t, target, cells[0])

	def.InverseAOE = true
	cells = e.AffectedCells(cell(1, 1), target, def)
	assert.Len(t, cells, 6)
	assert.NotContains(t, cells, target)
}

func TestAffectedCells_PatternInverseConsistency(t *testing.T) {
	e := newEngine(10, 10)
	patterns := [][]core.HexCell{
		{cell(0, 0), cell(0, 1), cell(0, -1)},
		{cell(1, 0), cell(-1, 0)},
		{cell(0, 2)},
	}

	for _, pattern := range patterns {
		for _, target := range []core.HexCell{cell(4, 4), cell(5, 4)} {
			def := &actions.Definition{Name: "cross", AOEMethod: actions.AOEPattern, AOEOffsets: pattern}
			assert.Contains(t, e.AffectedCells(cell(0, 0), target, def), target)

			def.InverseAOE = true
			assert.NotContains(t, e.AffectedCells(cell(0, 0), target, def), target)
		}
	}
}

func TestAffectedCells_PatternFollowsTarget(t *testing.T) {
	e := newEngine(10, 10)
	def := &actions.Definition{
		Name:       "pillar",
		AOEMethod:  actions.AOEPattern,
		AOEOffsets: []core.HexCell{cell(0, -1), cell(0, 1)},
	}
	assert.Equal(t, []core.HexCell{cell(5, 5), cell(5, 4), cell(5, 6)}, e.AffectedCells(cell(0, 0), cell(5, 5), def))
}

func TestAffectedCells_LineOvershoot(t *testing.T) {
	e := newEngine(10, 10)
	origin, target := cell(0, 0), cell(3, 0)
	def := &actions.Definition{Name: "lightning", AOEMethod: actions.AOELine, Overshoot: 2}

	cells := e.AffectedCells(origin, target, def)
	assert.Equal(t, []core.HexCell{
		cell(0, 0), cell(1, 0), cell(2, 0), cell(3, 0),
		cell(4, 1), cell(5, 0),
	}, cells)
	assert.Equal(t, len(cells), core.NewCellSet(cells...).Len())
	for i := 1; i < len(cells); i++ {
		assert.True(t, cells[i-1].IsAdjacentTo(cells[i]))
	}
}

func TestAffectedCells_LineOvershootStaysConnected(t *testing.T) {
	e := newEngine(30, 30)
	origin := cell(10, 10)
	for _, target := range []core.HexCell{cell(13, 12), cell(10, 6), cell(7, 11), cell(12, 8)} {
		def := &actions.Definition{Name: "beam", AOEMethod: actions.AOELine, Overshoot: 3}
		cells := e.AffectedCells(origin, target, def)
		assert.Len(t, cells, core.Distance(origin, target)+1+3, "target %s", target)
		assert.Equal(t, len(cells), core.NewCellSet(cells...).Len(), "target %s", target)
	}
}

func TestAffectedCells_LineExcludeOriginAndClipping(t *testing.T) {
	e := newEngine(5, 5)
	def := &actions.Definition{Name: "lightning", AOEMethod: actions.AOELine, Overshoot: 3}
	def.ExcludeOrigin = true

	cells := e.AffectedCells(cell(0, 0), cell(3, 0), def)
	assert.NotContains(t, cells, cell(0, 0))
	// (5,0) falls outside the 5x5 grid
	assert.Equal(t, []core.HexCell{cell(1, 0), cell(2, 0), cell(3, 0), cell(4, 1)}, cells)
}

func TestAffectedCells_DropsBlockedCells(t *testing.T) {
	e := newEngine(10, 10, battlefield.WithBlocked(cell(5, 4)))
	def := &actions.Definition{Name: "nova", AOEMethod: actions.AOERadius, AOERadius: 1}

	cells := e.AffectedCells(cell(0, 0), cell(5, 5), def)
	assert.Len(t, cells, 6)
	assert.NotContains(t, cells, cell(5, 4))
}

func TestAffectedCells_ZeroOvershootIsPlainLine(t *testing.T) {
	e := newEngine(10, 10)
	def := &actions.Definition{Name: "beam", AOEMethod: actions.AOELine}
	assert.Equal(t, core.LineDraw(cell(1, 1), cell(1, 5)), e.AffectedCells(cell(1, 1), cell(1, 5), def))
}
