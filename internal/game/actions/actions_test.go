package actions

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/hextactics/internal/game/core"
)

func TestParseEnums(t *testing.T) {
	cat, err := ParseCategory("Items")
	require.NoError(t, err)
	assert.Equal(t, CategoryItem, cat)

	rm, err := ParseRangeMethod("")
	require.NoError(t, err)
	assert.Equal(t, RangeRadius, rm)

	tt, err := ParseTargetType("Movement")
	require.NoError(t, err)
	assert.Equal(t, TargetMovement, tt)

	am, err := ParseAOEMethod("line")
	require.NoError(t, err)
	assert.Equal(t, AOELine, am)

	_, err = ParseAOEMethod("cone")
	assert.Error(t, err)
	_, err = ParseTargetType("everyone")
	assert.Error(t, err)
}

func TestTargetType_PermitsSelf(t *testing.T) {
	assert.True(t, TargetSelf.PermitsSelf())
	assert.True(t, TargetAlly.PermitsSelf())
	assert.False(t, TargetEnemy.PermitsSelf())
	assert.False(t, TargetMovement.PermitsSelf())
}

func TestCellEntry_Resolve(t *testing.T) {
	assert.Equal(t, []core.HexCell{{Col: 2, Row: 2}}, Coordinate(core.HexCell{Col: 2, Row: 2}).Resolve())

	disc := Disc(core.HexCell{Col: 2, Row: 2}, 1).Resolve()
	assert.Len(t, disc, 7)
	assert.Contains(t, disc, core.HexCell{Col: 2, Row: 2})
}

func TestDefinition_Reach(t *testing.T) {
	radius := &Definition{RangeMethod: RangeRadius, Range: 3}
	assert.Equal(t, 3, radius.Reach())

	pattern := &Definition{RangeMethod: RangePattern, RangeOffsets: []core.HexCell{{Col: 1, Row: 0}, {Col: 0, Row: 4}}}
	assert.Equal(t, 4, pattern.Reach())

	all := &Definition{RangeMethod: RangeAllTiles}
	assert.Equal(t, math.MaxInt, all.Reach())
}

func TestDefinition_Validate(t *testing.T) {
	tests := []struct {
		name    string
		def     Definition
		wantErr bool
	}{
		{"Valid", Definition{Name: "slash", Range: 1, Damage: 5}, false},
		{"MissingName", Definition{Range: 1}, true},
		{"NegativeRange", Definition{Name: "x", Range: -1}, true},
		{"EmptyPattern", Definition{Name: "x", RangeMethod: RangePattern}, true},
		{"EmptyAOEPattern", Definition{Name: "x", AOEMethod: AOEPattern}, true},
		{"StatusWithoutDuration", Definition{Name: "x", StatusEffect: "poison"}, true},
		{"NegativeDisc", Definition{Name: "x", Filters: Filters{Blacklist: []CellEntry{Disc(core.HexCell{}, -1)}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefinition_Status(t *testing.T) {
	d := &Definition{Name: "venom", StatusEffect: "poison", StatusDuration: 3, StatusDamagePerTurn: 2}
	assert.True(t, d.AppliesStatus())
	assert.Equal(t, core.StatusEffect{Name: "poison", RemainingDuration: 3, DamagePerTurn: 2}, d.Status())
	assert.False(t, (&Definition{Name: "slash"}).AppliesStatus())
}

func newCatalog(t *testing.T) *MemoryCatalog {
	t.Helper()
	c, err := NewMemoryCatalog(
		&Definition{Name: "slash", Category: CategorySkill, Range: 1, Damage: 5},
		&Definition{Name: "fireball", Category: CategorySkill, Range: 3, Damage: 8, UsableBy: []core.Kind{core.KindPlayer, core.KindEnemy}},
		&Definition{Name: "potion", Category: CategoryItem, Range: 1, HealAmount: 10, TargetType: TargetAlly},
		&Definition{Name: "step", Category: CategoryMove, Range: 2, TargetType: TargetMovement},
	)
	require.NoError(t, err)
	return c
}

func TestMemoryCatalog(t *testing.T) {
	c := newCatalog(t)

	d, err := c.GetActionDefinition("fireball")
	require.NoError(t, err)
	assert.Equal(t, 8.0, d.Damage)

	_, err = c.GetActionDefinition("meteor")
	assert.ErrorIs(t, err, core.ErrActionNotFound)

	assert.Error(t, c.Register(&Definition{Name: "slash", Range: 1}))
	assert.Error(t, c.Register(&Definition{Range: 1}))

	var allyNames []string
	for _, d := range c.GetActionsUsableBy(core.KindAlly) {
		allyNames = append(allyNames, d.Name)
	}
	assert.Equal(t, []string{"slash", "potion", "step"}, allyNames)
	assert.Equal(t, []string{"slash", "fireball", "potion", "step"}, c.Names())
}

func TestUsableActions(t *testing.T) {
	c := newCatalog(t)

	t.Run("EmptyAllowListsPermitEverything", func(t *testing.T) {
		e := &core.Entity{ID: "orc", Kind: core.KindEnemy}
		assert.Len(t, UsableActions(c, e), 4)
	})

	t.Run("AllowListNarrowsItsCategoryOnly", func(t *testing.T) {
		e := &core.Entity{ID: "orc", Kind: core.KindEnemy, Actions: core.ActionLists{Skills: []string{"fireball"}}}
		var names []string
		for _, d := range UsableActions(c, e) {
			names = append(names, d.Name)
		}
		assert.Equal(t, []string{"fireball", "potion", "step"}, names)

		moves := UsableOfCategory(c, e, CategoryMove)
		require.Len(t, moves, 1)
		assert.Equal(t, "step", moves[0].Name)
	})

	t.Run("Resolve", func(t *testing.T) {
		ally := &core.Entity{ID: "squire", Kind: core.KindAlly}
		_, err := Resolve(c, ally, "fireball")
		assert.ErrorIs(t, err, core.ErrActionNotUsable)

		_, err = Resolve(c, ally, "meteor")
		assert.ErrorIs(t, err, core.ErrActionNotFound)

		d, err := Resolve(c, ally, "slash")
		require.NoError(t, err)
		assert.Equal(t, "slash", d.Name)
	})
}
