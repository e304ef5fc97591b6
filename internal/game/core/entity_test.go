package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindPlayer, "Player"},
		{KindAlly, "Ally"},
		{KindEnemy, "Enemy"},
		{KindNPC, "NPC"},
		{KindNeutral, "Neutral"},
		{Kind(42), "Unknown(42)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.String())
		})
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range AllKinds {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	parsed, err := ParseKind("  ENEMY ")
	require.NoError(t, err)
	assert.Equal(t, KindEnemy, parsed)

	_, err = ParseKind("dragon")
	assert.Error(t, err)
}

func TestFactionPredicates(t *testing.T) {
	assert.True(t, IsAllied(KindPlayer, KindAlly))
	assert.True(t, IsAllied(KindEnemy, KindEnemy))
	assert.False(t, IsAllied(KindPlayer, KindEnemy))
	assert.False(t, IsAllied(KindNPC, KindNPC))
	assert.False(t, IsAllied(KindNeutral, KindPlayer))

	assert.True(t, IsHostile(KindPlayer, KindEnemy))
	assert.True(t, IsHostile(KindEnemy, KindAlly))
	assert.False(t, IsHostile(KindPlayer, KindAlly))
	assert.False(t, IsHostile(KindEnemy, KindNPC))
	assert.False(t, IsHostile(KindNeutral, KindEnemy))
}

func TestEntity_HitPoints(t *testing.T) {
	e := &Entity{ID: "hero", CurrentHP: 10, MaxHP: 20}

	assert.Equal(t, 0.5, e.HealthRatio())
	assert.Equal(t, 10.0, e.Heal(15), "healing is capped at MaxHP")
	assert.Equal(t, 20.0, e.CurrentHP)

	assert.Equal(t, 20.0, e.TakeDamage(50))
	assert.Equal(t, 0.0, e.CurrentHP)
	assert.False(t, e.IsAlive())

	// Dead entities neither heal nor take further damage
	assert.Equal(t, 0.0, e.Heal(5))
	assert.Equal(t, 0.0, e.TakeDamage(5))

	assert.Equal(t, 0.0, (&Entity{MaxHP: 0}).HealthRatio())
}

func TestEntity_AddStatusRefreshesInsteadOfStacking(t *testing.T) {
	e := &Entity{ID: "orc", CurrentHP: 10, MaxHP: 10}

	e.AddStatus(StatusEffect{Name: "poison", RemainingDuration: 2, DamagePerTurn: 1})
	e.AddStatus(StatusEffect{Name: "poison", RemainingDuration: 5, DamagePerTurn: 1})
	require.Len(t, e.ActiveStatuses, 1)
	assert.Equal(t, 5, e.ActiveStatuses[0].RemainingDuration)

	e.AddStatus(StatusEffect{Name: "poison", RemainingDuration: 1, DamagePerTurn: 1})
	assert.Equal(t, 5, e.ActiveStatuses[0].RemainingDuration)

	e.AddStatus(StatusEffect{Name: "regen", RemainingDuration: 3, HealPerTurn: 2})
	assert.Len(t, e.ActiveStatuses, 2)
	assert.True(t, e.HasStatus("regen"))
	assert.False(t, e.HasStatus("stun"))
}

func TestEntity_CanAct(t *testing.T) {
	e := &Entity{ID: "orc", CurrentHP: 10, MaxHP: 10}
	assert.True(t, e.CanAct())

	e.AddStatus(StatusEffect{Name: "stun", RemainingDuration: 1, Incapacitating: true})
	assert.True(t, e.IsIncapacitated())
	assert.False(t, e.CanAct())

	e.ActiveStatuses = nil
	e.CurrentHP = 0
	assert.False(t, e.CanAct())
}

func TestEntity_Clone(t *testing.T) {
	e := &Entity{
		ID:             "hero",
		ActiveStatuses: []StatusEffect{{Name: "regen", RemainingDuration: 2}},
		Actions:        ActionLists{Skills: []string{"slash"}},
	}
	c := e.Clone()
	c.ActiveStatuses[0].RemainingDuration = 9
	c.Actions.Skills[0] = "fireball"

	assert.Equal(t, 2, e.ActiveStatuses[0].RemainingDuration)
	assert.Equal(t, "slash", e.Actions.Skills[0])
}
