package subscribers_test

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/hextactics/internal/game/core"
	"github.com/mitchelldurbincs/hextactics/internal/game/events"
	"github.com/mitchelldurbincs/hextactics/internal/game/events/subscribers"
)

func TestStatsSubscriber_Interest(t *testing.T) {
	stats := subscribers.NewStatsSubscriber("stats", zerolog.Nop())

	assert.Equal(t, "stats", stats.ID())
	assert.True(t, stats.InterestedIn(events.TypeEntityDamaged))
	assert.True(t, stats.InterestedIn(events.TypeActionExecuted))
	assert.False(t, stats.InterestedIn(events.TypeStateTransition))
	assert.False(t, stats.InterestedIn(events.TypeDecisionMade))
}

func TestStatsSubscriber_Totals(t *testing.T) {
	bus := events.NewEventBus(zerolog.Nop())
	stats := subscribers.NewStatsSubscriber("stats", zerolog.Nop())
	bus.Subscribe(stats)

	cell := core.HexCell{Col: 1, Row: 1}
	bus.Publish(events.NewEntityDamagedEvent("b", 1, "orc", "hero", 6, 4, cell))
	bus.Publish(events.NewEntityDamagedEvent("b", 1, "hero", "orc", 3, 17, cell))
	bus.Publish(events.NewEntityHealedEvent("b", 1, "hero", "cleric", 2, 19, cell))
	bus.Publish(events.NewEntityHealedEvent("b", 1, "hero", events.SourceStatus, 1, 20, cell))
	bus.Publish(events.NewEntityMovedEvent("b", 1, "orc", cell, core.HexCell{Col: 2, Row: 1}))
	bus.Publish(events.NewActionExecutedEvent("b", 1, "hero", "skill", "slash", cell, 1, nil))
	bus.Publish(events.NewActionExecutedEvent("b", 1, "orc", "skill", "meteor", cell, 0, errors.New("boom")))
	bus.Publish(events.NewEntityDamagedEvent("b", 2, "orc", "hero", 6, 0, cell))
	bus.Publish(events.NewEntityDefeatedEvent("b", 2, "orc", core.KindEnemy, cell))
	bus.Publish(events.NewRoundEndedEvent("b", 1))

	snap := stats.Snapshot()
	hero := snap["hero"]
	assert.Equal(t, 12.0, hero.DamageDealt)
	assert.Equal(t, 3.0, hero.DamageTaken)
	assert.Equal(t, 3.0, hero.HealingReceived)
	assert.Equal(t, 1, hero.Kills)
	assert.Equal(t, 1, hero.ActionsTaken)

	orc := snap["orc"]
	assert.True(t, orc.Defeated)
	assert.Equal(t, 2, orc.DefeatedInRound)
	assert.Equal(t, 1, orc.Moves)
	assert.Equal(t, 1, orc.ActionsFailed)
	assert.Equal(t, 0, orc.ActionsTaken)

	assert.Equal(t, 2.0, snap["cleric"].HealingDone)
	assert.NotContains(t, snap, events.SourceStatus)
	assert.Equal(t, 1, stats.RoundsCompleted())
	assert.Equal(t, []string{"hero", "orc"}, stats.TopDamageDealers(0))
	assert.Equal(t, []string{"hero"}, stats.TopDamageDealers(1))
}

func TestStatsSubscriber_StatusDeathCreditsNobody(t *testing.T) {
	stats := subscribers.NewStatsSubscriber("stats", zerolog.Nop())
	cell := core.HexCell{}

	stats.HandleEvent(events.NewEntityDamagedEvent("b", 1, "orc", "hero", 2, 3, cell))
	stats.HandleEvent(events.NewEntityDamagedEvent("b", 1, "orc", events.SourceStatus, 3, 0, cell))
	stats.HandleEvent(events.NewEntityDefeatedEvent("b", 1, "orc", core.KindEnemy, cell))

	snap := stats.Snapshot()
	require.Contains(t, snap, "orc")
	assert.Equal(t, 5.0, snap["orc"].DamageTaken)
	assert.Equal(t, 3.0, snap["orc"].StatusDamage)
	assert.Equal(t, 0, snap["hero"].Kills)
}
