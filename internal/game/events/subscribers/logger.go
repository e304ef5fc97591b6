package subscribers

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/hextactics/internal/game/events"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

// ID returns the subscriber's unique identifier
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool)
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables development mode logging
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent processes an event by logging it
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	eventLogger := ls.logger.With().
		Str("event_type", event.Type()).
		Str("battle_id", event.BattleID()).
		Time("timestamp", event.Timestamp()).
		Logger()

	var logEvent *zerolog.Event
	switch ls.logLevel {
	case zerolog.TraceLevel:
		logEvent = eventLogger.Trace()
	case zerolog.DebugLevel:
		logEvent = eventLogger.Debug()
	case zerolog.WarnLevel:
		logEvent = eventLogger.Warn()
	case zerolog.ErrorLevel:
		logEvent = eventLogger.Error()
	default:
		logEvent = eventLogger.Info()
	}

	switch e := event.(type) {
	case *events.BattleStartedEvent:
		logEvent.
			Int("width", e.Width).
			Int("height", e.Height).
			Int("entity_count", e.EntityCount).
			Str("player_id", e.PlayerID)

	case *events.BattleEndedEvent:
		logEvent.
			Bool("victory", e.Victory).
			Int("turns_taken", e.TurnsTaken).
			Int("rounds", e.Rounds).
			Str("reason", e.Reason)
		survivors := zerolog.Dict()
		for kind, n := range e.SurvivorsByKind {
			survivors.Int(kind, n)
		}
		logEvent.Dict("survivors_by_kind", survivors)

	case *events.RoundStartedEvent:
		logEvent.
			Int("round", e.Round).
			Strs("turn_order", e.TurnOrder)

	case *events.RoundEndedEvent:
		logEvent.Int("round", e.Round)

	case *events.TurnStartedEvent:
		logEvent.
			Int("round", e.Round).
			Str("entity_id", e.EntityID).
			Str("kind", e.Kind).
			Bool("player_controlled", e.PlayerControlled)

	case *events.TurnEndedEvent:
		logEvent.
			Int("round", e.Round).
			Str("entity_id", e.EntityID).
			Int("turns_taken", e.TurnsTaken)

	case *events.DecisionMadeEvent:
		logEvent.
			Str("entity_id", e.EntityID).
			Str("action_kind", e.ActionKind).
			Str("action_name", e.ActionName).
			Str("target", e.Target.String()).
			Int("priority", e.Priority).
			Bool("valid", e.Valid).
			Str("reason", e.Reason)

	case *events.ActionExecutedEvent:
		logEvent.
			Str("entity_id", e.EntityID).
			Str("action_kind", e.ActionKind).
			Str("action_name", e.ActionName).
			Str("target", e.Target.String()).
			Int("affected_cells", e.AffectedCells)
		if e.Error != "" {
			logEvent.Str("error", e.Error)
		}

	case *events.EntityDamagedEvent:
		logEvent.
			Str("entity_id", e.EntityID).
			Str("source_id", e.SourceID).
			Float64("amount", e.Amount).
			Float64("remaining_hp", e.RemainingHP)

	case *events.EntityHealedEvent:
		logEvent.
			Str("entity_id", e.EntityID).
			Str("source_id", e.SourceID).
			Float64("amount", e.Amount).
			Float64("remaining_hp", e.RemainingHP)

	case *events.EntityDefeatedEvent:
		logEvent.
			Str("entity_id", e.EntityID).
			Str("kind", e.Kind).
			Int("col", e.Cell.Col).
			Int("row", e.Cell.Row)

	case *events.EntityMovedEvent:
		logEvent.
			Str("entity_id", e.EntityID).
			Int("from_col", e.From.Col).
			Int("from_row", e.From.Row).
			Int("to_col", e.To.Col).
			Int("to_row", e.To.Row)

	case *events.StatusAppliedEvent:
		logEvent.
			Str("entity_id", e.EntityID).
			Str("status", e.Status).
			Int("duration", e.Duration)

	case *events.StatusExpiredEvent:
		logEvent.
			Str("entity_id", e.EntityID).
			Str("status", e.Status)

	case *events.StateTransitionEvent:
		logEvent.
			Str("from_phase", e.FromPhase).
			Str("to_phase", e.ToPhase).
			Str("reason", e.Reason)
	}

	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Battle event")
}
