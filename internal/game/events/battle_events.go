package events

import (
	"github.com/mitchelldurbincs/hextactics/internal/game/core"
)

// Event type names
const (
	TypeBattleStarted   = "battle.started"
	TypeRoundStarted    = "round.started"
	TypeRoundEnded      = "round.ended"
	TypeTurnStarted     = "turn.started"
	TypeTurnEnded       = "turn.ended"
	TypeDecisionMade    = "decision.made"
	TypeActionExecuted  = "action.executed"
	TypeEntityDamaged   = "entity.damaged"
	TypeEntityHealed    = "entity.healed"
	TypeEntityDefeated  = "entity.defeated"
	TypeEntityMoved     = "entity.moved"
	TypeStatusApplied   = "status.applied"
	TypeStatusExpired   = "status.expired"
	TypeStateTransition = "state.transition"
	TypeBattleEnded     = "battle.ended"
)

// AllTypes lists every event type the battle publishes
var AllTypes = []string{
	TypeBattleStarted, TypeRoundStarted, TypeRoundEnded,
	TypeTurnStarted, TypeTurnEnded, TypeDecisionMade, TypeActionExecuted,
	TypeEntityDamaged, TypeEntityHealed, TypeEntityDefeated, TypeEntityMoved,
	TypeStatusApplied, TypeStatusExpired, TypeStateTransition, TypeBattleEnded,
}

// Battle lifecycle events

// BattleStartedEvent is published once the battlefield is set up
type BattleStartedEvent struct {
	BaseEvent
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	EntityCount int    `json:"entity_count"`
	PlayerID    string `json:"player_id"`
}

func NewBattleStartedEvent(battleID string, width, height, entityCount int, playerID string) *BattleStartedEvent {
	return &BattleStartedEvent{
		BaseEvent:   newBase(TypeBattleStarted, battleID),
		Width:       width,
		Height:      height,
		EntityCount: entityCount,
		PlayerID:    playerID,
	}
}

// BattleEndedEvent is the battle-end notification
type BattleEndedEvent struct {
	BaseEvent
	Victory         bool           `json:"victory"`
	TurnsTaken      int            `json:"turns_taken"`
	Rounds          int            `json:"rounds"`
	SurvivorsByKind map[string]int `json:"survivors_by_kind"`
	Reason          string         `json:"reason"`
}

func NewBattleEndedEvent(battleID string, victory bool, turnsTaken, rounds int, survivors map[string]int, reason string) *BattleEndedEvent {
	return &BattleEndedEvent{
		BaseEvent:       newBase(TypeBattleEnded, battleID),
		Victory:         victory,
		TurnsTaken:      turnsTaken,
		Rounds:          rounds,
		SurvivorsByKind: survivors,
		Reason:          reason,
	}
}

// RoundStartedEvent carries the frozen turn order of the round
type RoundStartedEvent struct {
	BaseEvent
	Round     int      `json:"round"`
	TurnOrder []string `json:"turn_order"`
}

func NewRoundStartedEvent(battleID string, round int, order []string) *RoundStartedEvent {
	return &RoundStartedEvent{
		BaseEvent: newBase(TypeRoundStarted, battleID),
		Round:     round,
		TurnOrder: order,
	}
}

// RoundEndedEvent is published after round-end status effects resolve
type RoundEndedEvent struct {
	BaseEvent
	Round int `json:"round"`
}

func NewRoundEndedEvent(battleID string, round int) *RoundEndedEvent {
	return &RoundEndedEvent{
		BaseEvent: newBase(TypeRoundEnded, battleID),
		Round:     round,
	}
}

// Turn events

// TurnStartedEvent is published when an actor is dispatched
type TurnStartedEvent struct {
	BaseEvent
	Round            int    `json:"round"`
	EntityID         string `json:"entity_id"`
	Kind             string `json:"kind"`
	PlayerControlled bool   `json:"player_controlled"`
}

func NewTurnStartedEvent(battleID string, round int, entityID string, kind core.Kind, playerControlled bool) *TurnStartedEvent {
	return &TurnStartedEvent{
		BaseEvent:        newBase(TypeTurnStarted, battleID),
		Round:            round,
		EntityID:         entityID,
		Kind:             kind.String(),
		PlayerControlled: playerControlled,
	}
}

// TurnEndedEvent is published when an actor's turn is consumed
type TurnEndedEvent struct {
	BaseEvent
	Round      int    `json:"round"`
	EntityID   string `json:"entity_id"`
	TurnsTaken int    `json:"turns_taken"`
}

func NewTurnEndedEvent(battleID string, round int, entityID string, turnsTaken int) *TurnEndedEvent {
	return &TurnEndedEvent{
		BaseEvent:  newBase(TypeTurnEnded, battleID),
		Round:      round,
		EntityID:   entityID,
		TurnsTaken: turnsTaken,
	}
}

// DecisionMadeEvent records the decision obtained for a non-player actor
type DecisionMadeEvent struct {
	BaseEvent
	Round      int          `json:"round"`
	EntityID   string       `json:"entity_id"`
	ActionKind string       `json:"action_kind"`
	ActionName string       `json:"action_name"`
	Target     core.HexCell `json:"target"`
	Priority   int          `json:"priority"`
	Valid      bool         `json:"valid"`
	Reason     string       `json:"reason,omitempty"`
}

func NewDecisionMadeEvent(battleID string, round int, entityID, actionKind, actionName string, target core.HexCell, priority int, valid bool, reason string) *DecisionMadeEvent {
	return &DecisionMadeEvent{
		BaseEvent:  newBase(TypeDecisionMade, battleID),
		Round:      round,
		EntityID:   entityID,
		ActionKind: actionKind,
		ActionName: actionName,
		Target:     target,
		Priority:   priority,
		Valid:      valid,
		Reason:     reason,
	}
}

// ActionExecutedEvent reports the result of executing a decision. Error is
// set when execution failed and the turn became a no-op.
type ActionExecutedEvent struct {
	BaseEvent
	Round         int          `json:"round"`
	EntityID      string       `json:"entity_id"`
	ActionKind    string       `json:"action_kind"`
	ActionName    string       `json:"action_name"`
	Target        core.HexCell `json:"target"`
	AffectedCells int          `json:"affected_cells"`
	Error         string       `json:"error,omitempty"`
}

func NewActionExecutedEvent(battleID string, round int, entityID, actionKind, actionName string, target core.HexCell, affected int, err error) *ActionExecutedEvent {
	e := &ActionExecutedEvent{
		BaseEvent:     newBase(TypeActionExecuted, battleID),
		Round:         round,
		EntityID:      entityID,
		ActionKind:    actionKind,
		ActionName:    actionName,
		Target:        target,
		AffectedCells: affected,
	}
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// Entity events

// SourceStatus is the SourceID of damage and healing from round-end statuses
const SourceStatus = "status"

// EntityDamagedEvent is published for damage from actions and statuses.
// SourceID is the acting entity or SourceStatus.
type EntityDamagedEvent struct {
	BaseEvent
	Round       int          `json:"round"`
	EntityID    string       `json:"entity_id"`
	SourceID    string       `json:"source_id"`
	Amount      float64      `json:"amount"`
	RemainingHP float64      `json:"remaining_hp"`
	Cell        core.HexCell `json:"cell"`
}

func NewEntityDamagedEvent(battleID string, round int, entityID, sourceID string, amount, remaining float64, cell core.HexCell) *EntityDamagedEvent {
	return &EntityDamagedEvent{
		BaseEvent:   newBase(TypeEntityDamaged, battleID),
		Round:       round,
		EntityID:    entityID,
		SourceID:    sourceID,
		Amount:      amount,
		RemainingHP: remaining,
		Cell:        cell,
	}
}

// EntityHealedEvent mirrors EntityDamagedEvent for healing
type EntityHealedEvent struct {
	BaseEvent
	Round       int          `json:"round"`
	EntityID    string       `json:"entity_id"`
	SourceID    string       `json:"source_id"`
	Amount      float64      `json:"amount"`
	RemainingHP float64      `json:"remaining_hp"`
	Cell        core.HexCell `json:"cell"`
}

func NewEntityHealedEvent(battleID string, round int, entityID, sourceID string, amount, remaining float64, cell core.HexCell) *EntityHealedEvent {
	return &EntityHealedEvent{
		BaseEvent:   newBase(TypeEntityHealed, battleID),
		Round:       round,
		EntityID:    entityID,
		SourceID:    sourceID,
		Amount:      amount,
		RemainingHP: remaining,
		Cell:        cell,
	}
}

// EntityDefeatedEvent is published when an entity drops to 0 HP
type EntityDefeatedEvent struct {
	BaseEvent
	Round    int          `json:"round"`
	EntityID string       `json:"entity_id"`
	Kind     string       `json:"kind"`
	Cell     core.HexCell `json:"cell"`
}

func NewEntityDefeatedEvent(battleID string, round int, entityID string, kind core.Kind, cell core.HexCell) *EntityDefeatedEvent {
	return &EntityDefeatedEvent{
		BaseEvent: newBase(TypeEntityDefeated, battleID),
		Round:     round,
		EntityID:  entityID,
		Kind:      kind.String(),
		Cell:      cell,
	}
}

// EntityMovedEvent is published after a successful move
type EntityMovedEvent struct {
	BaseEvent
	Round    int          `json:"round"`
	EntityID string       `json:"entity_id"`
	From     core.HexCell `json:"from"`
	To       core.HexCell `json:"to"`
}

func NewEntityMovedEvent(battleID string, round int, entityID string, from, to core.HexCell) *EntityMovedEvent {
	return &EntityMovedEvent{
		BaseEvent: newBase(TypeEntityMoved, battleID),
		Round:     round,
		EntityID:  entityID,
		From:      from,
		To:        to,
	}
}

// Status events

type StatusAppliedEvent struct {
	BaseEvent
	Round    int    `json:"round"`
	EntityID string `json:"entity_id"`
	Status   string `json:"status"`
	Duration int    `json:"duration"`
}

func NewStatusAppliedEvent(battleID string, round int, entityID, status string, duration int) *StatusAppliedEvent {
	return &StatusAppliedEvent{
		BaseEvent: newBase(TypeStatusApplied, battleID),
		Round:     round,
		EntityID:  entityID,
		Status:    status,
		Duration:  duration,
	}
}

type StatusExpiredEvent struct {
	BaseEvent
	Round    int    `json:"round"`
	EntityID string `json:"entity_id"`
	Status   string `json:"status"`
}

func NewStatusExpiredEvent(battleID string, round int, entityID, status string) *StatusExpiredEvent {
	return &StatusExpiredEvent{
		BaseEvent: newBase(TypeStatusExpired, battleID),
		Round:     round,
		EntityID:  entityID,
		Status:    status,
	}
}

// StateTransitionEvent is published by the state machine on every phase change
type StateTransitionEvent struct {
	BaseEvent
	FromPhase string `json:"from_phase"`
	ToPhase   string `json:"to_phase"`
	Reason    string `json:"reason"`
}

func NewStateTransitionEvent(battleID, fromPhase, toPhase, reason string) *StateTransitionEvent {
	return &StateTransitionEvent{
		BaseEvent: newBase(TypeStateTransition, battleID),
		FromPhase: fromPhase,
		ToPhase:   toPhase,
		Reason:    reason,
	}
}
