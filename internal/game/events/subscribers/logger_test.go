package subscribers_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/hextactics/internal/game/core"
	"github.com/mitchelldurbincs/hextactics/internal/game/events"
	"github.com/mitchelldurbincs/hextactics/internal/game/events/subscribers"
)

func TestLoggerSubscriber(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).With().Timestamp().Logger()

	logSub := subscribers.NewLoggerSubscriber("test-logger", logger, zerolog.InfoLevel)

	assert.Equal(t, "test-logger", logSub.ID())

	// Interested in all events by default
	assert.True(t, logSub.InterestedIn(events.TypeBattleStarted))
	assert.True(t, logSub.InterestedIn(events.TypeTurnStarted))
	assert.True(t, logSub.InterestedIn("any.event.type"))
}

func TestLoggerSubscriberEventLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	logSub := subscribers.NewLoggerSubscriber("event-logger", logger, zerolog.InfoLevel)

	testCases := []struct {
		name  string
		event events.Event
		check func(t *testing.T, logLine map[string]interface{})
	}{
		{
			name:  "BattleStartedEvent",
			event: events.NewBattleStartedEvent("battle-1", 12, 10, 5, "hero"),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(12), logLine["width"])
				assert.Equal(t, float64(10), logLine["height"])
				assert.Equal(t, float64(5), logLine["entity_count"])
				assert.Equal(t, "hero", logLine["player_id"])
			},
		},
		{
			name:  "RoundStartedEvent",
			event: events.NewRoundStartedEvent("battle-1", 3, []string{"a", "b"}),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(3), logLine["round"])
				assert.Equal(t, []interface{}{"a", "b"}, logLine["turn_order"])
			},
		},
		{
			name:  "EntityDamagedEvent",
			event: events.NewEntityDamagedEvent("battle-1", 2, "orc", "hero", 7.5, 2.5, core.HexCell{Col: 4, Row: 1}),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "orc", logLine["entity_id"])
				assert.Equal(t, "hero", logLine["source_id"])
				assert.Equal(t, 7.5, logLine["amount"])
				assert.Equal(t, 2.5, logLine["remaining_hp"])
			},
		},
		{
			name:  "EntityDefeatedEvent",
			event: events.NewEntityDefeatedEvent("battle-1", 2, "goblin", core.KindEnemy, core.HexCell{Col: 5, Row: 3}),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "goblin", logLine["entity_id"])
				assert.Equal(t, "Enemy", logLine["kind"])
				assert.Equal(t, float64(5), logLine["col"])
				assert.Equal(t, float64(3), logLine["row"])
			},
		},
		{
			name:  "ActionExecutedEventWithError",
			event: events.NewActionExecutedEvent("battle-1", 1, "orc", "skill", "meteor", core.HexCell{Col: 1, Row: 1}, 0, core.ErrActionNotFound),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "meteor", logLine["action_name"])
				assert.Equal(t, "(1,1)", logLine["target"])
				assert.Equal(t, core.ErrActionNotFound.Error(), logLine["error"])
			},
		},
		{
			name:  "BattleEndedEvent",
			event: events.NewBattleEndedEvent("battle-1", false, 9, 4, map[string]int{"Enemy": 2}, "defeat"),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, false, logLine["victory"])
				assert.Equal(t, float64(9), logLine["turns_taken"])
				assert.Equal(t, "defeat", logLine["reason"])
				assert.Equal(t, map[string]interface{}{"Enemy": float64(2)}, logLine["survivors_by_kind"])
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf.Reset()
			logSub.HandleEvent(tc.event)

			logOutput := buf.String()
			require.NotEmpty(t, logOutput, "Log output should not be empty")

			var logLine map[string]interface{}
			err := json.Unmarshal([]byte(logOutput), &logLine)
			require.NoError(t, err, "Should be able to parse log output as JSON")

			assert.Equal(t, "info", logLine["level"])
			assert.Equal(t, "Battle event", logLine["message"])
			assert.Equal(t, tc.event.Type(), logLine["event_type"])
			assert.Equal(t, "battle-1", logLine["battle_id"])

			tc.check(t, logLine)
		})
	}
}

func TestLoggerSubscriberWithFilter(t *testing.T) {
	logSub := subscribers.NewLoggerSubscriber("filtered-logger", zerolog.Nop(), zerolog.InfoLevel)
	logSub.SetEventFilter([]string{events.TypeBattleStarted, events.TypeBattleEnded})

	assert.True(t, logSub.InterestedIn(events.TypeBattleStarted))
	assert.True(t, logSub.InterestedIn(events.TypeBattleEnded))
	assert.False(t, logSub.InterestedIn(events.TypeTurnStarted))
	assert.False(t, logSub.InterestedIn(events.TypeEntityMoved))

	logSub.SetEventFilter(nil)
	assert.True(t, logSub.InterestedIn(events.TypeEntityMoved))
}

func TestLoggerSubscriberOnBus(t *testing.T) {
	var buf bytes.Buffer
	logSub := subscribers.NewLoggerSubscriber("bus-logger", zerolog.New(&buf), zerolog.InfoLevel)
	logSub.SetEventFilter([]string{events.TypeBattleEnded})

	bus := events.NewEventBus(zerolog.Nop())
	bus.Subscribe(logSub)

	bus.Publish(events.NewTurnEndedEvent("battle-2", 1, "hero", 1))
	assert.Empty(t, buf.String())

	bus.Publish(events.NewBattleEndedEvent("battle-2", true, 3, 1, map[string]int{"Player": 1}, "victory"))
	assert.Contains(t, buf.String(), `"event_type":"battle.ended"`)
}

func TestLoggerSubscriberLogLevels(t *testing.T) {
	testCases := []struct {
		name     string
		logLevel zerolog.Level
		expected string
	}{
		{"Debug", zerolog.DebugLevel, "debug"},
		{"Info", zerolog.InfoLevel, "info"},
		{"Warn", zerolog.WarnLevel, "warn"},
		{"Error", zerolog.ErrorLevel, "error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf).Level(tc.logLevel)

			logSub := subscribers.NewLoggerSubscriber("level-logger", logger, tc.logLevel)
			logSub.HandleEvent(events.NewRoundEndedEvent("battle-1", 1))

			require.NotZero(t, buf.Len())
			var logLine map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &logLine))
			assert.Equal(t, tc.expected, logLine["level"])
		})
	}
}

func TestLoggerSubscriberDevelopmentMode(t *testing.T) {
	var buf bytes.Buffer
	logSub := subscribers.NewLoggerSubscriber("dev-logger", zerolog.New(&buf), zerolog.InfoLevel)
	logSub.SetDevMode(true)

	logSub.HandleEvent(events.NewEntityMovedEvent("dev-battle", 1, "hero", core.HexCell{Col: 5, Row: 5}, core.HexCell{Col: 6, Row: 5}))

	var logLine map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logLine))

	eventData, ok := logLine["event_data"].(map[string]interface{})
	require.True(t, ok, "event_data should be present")
	assert.Equal(t, "entity.moved", eventData["type"])
	assert.Equal(t, "hero", eventData["entity_id"])
	assert.Equal(t, float64(6), logLine["to_col"])
}
