package events

import (
	"time"
)

// Event is anything published on the battle bus
type Event interface {
	Type() string
	Timestamp() time.Time
	BattleID() string
}

// BaseEvent carries the fields every battle event shares. Concrete events
// embed it and add their payload.
type BaseEvent struct {
	EventType string    `json:"type"`
	Time      time.Time `json:"timestamp"`
	Battle    string    `json:"battle_id"`
}

func newBase(eventType, battleID string) BaseEvent {
	return BaseEvent{
		EventType: eventType,
		Time:      time.Now(),
		Battle:    battleID,
	}
}

func (e BaseEvent) Type() string         { return e.EventType }
func (e BaseEvent) Timestamp() time.Time { return e.Time }
func (e BaseEvent) BattleID() string     { return e.Battle }

// EventHandler handles one event type registered with SubscribeFunc
type EventHandler func(Event)

// Subscriber receives every published event it is interested in.
// HandleEvent runs on the publishing goroutine and must not publish back to
// the same bus.
type Subscriber interface {
	ID() string
	HandleEvent(Event)
	InterestedIn(eventType string) bool
}

// Publisher is what the state machine and scheduler need from a bus
type Publisher interface {
	Publish(Event)
}
