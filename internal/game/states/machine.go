package states

import (
	"fmt"
	"sync"
	"time"

	"github.com/mitchelldurbincs/hextactics/internal/game/events"
)

// DefaultMaxHistory bounds the transition history kept by a StateMachine
const DefaultMaxHistory = 1000

// State represents a battle phase with lifecycle callbacks
type State interface {
	// Phase returns the BattlePhase this state represents
	Phase() BattlePhase

	// Enter is called when transitioning into this state
	Enter(ctx *BattleContext) error

	// Exit is called when transitioning out of this state
	Exit(ctx *BattleContext) error

	// Validate checks if the state can be entered given the context
	Validate(ctx *BattleContext) error
}

// Transition represents a state transition in the history
type Transition struct {
	From      BattlePhase
	To        BattlePhase
	Timestamp time.Time
	Reason    string
}

// StateMachine manages battle phase transitions and history
type StateMachine struct {
	mu             sync.RWMutex
	currentPhase   BattlePhase
	states         map[BattlePhase]State
	context        *BattleContext
	history        []Transition
	maxHistorySize int
	publisher      events.Publisher
}

// NewStateMachine creates a new state machine in PhaseSetup. publisher may be nil.
func NewStateMachine(ctx *BattleContext, publisher events.Publisher) *StateMachine {
	sm := &StateMachine{
		currentPhase:   PhaseSetup,
		states:         make(map[BattlePhase]State),
		context:        ctx,
		history:        make([]Transition, 0, 100),
		maxHistorySize: DefaultMaxHistory,
		publisher:      publisher,
	}

	sm.registerDefaultStates()

	return sm
}

// registerDefaultStates registers the built-in state implementations
func (sm *StateMachine) registerDefaultStates() {
	sm.RegisterState(NewSetupState())
	sm.RegisterState(NewActionSelectionState())
	sm.RegisterState(NewTargetSelectionState())
	sm.RegisterState(NewActionExecutionState())
	sm.RegisterState(NewEnemyTurnState())
	sm.RegisterState(NewTurnEndState())
	sm.RegisterState(NewBattleEndState())
}

// RegisterState registers a state implementation, replacing any for the same phase
func (sm *StateMachine) RegisterState(state State) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.states[state.Phase()] = state
}

// SetMaxHistorySize changes the history bound. Values below 1 are ignored.
func (sm *StateMachine) SetMaxHistorySize(n int) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if n < 1 {
		return
	}
	sm.maxHistorySize = n
	sm.trimHistory()
}

// CurrentPhase returns the current battle phase
func (sm *StateMachine) CurrentPhase() BattlePhase {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.currentPhase
}

// TransitionTo attempts to transition to the specified phase
func (sm *StateMachine) TransitionTo(targetPhase BattlePhase, reason string) error {
	sm.mu.Lock()
	previousPhase, err := sm.transitionLocked(targetPhase, reason)
	sm.mu.Unlock()
	if err != nil {
		return err
	}

	sm.announce(previousPhase, targetPhase, reason)
	return nil
}

func (sm *StateMachine) transitionLocked(targetPhase BattlePhase, reason string) (BattlePhase, error) {
	if !sm.currentPhase.CanTransitionTo(targetPhase) {
		return sm.currentPhase, fmt.Errorf("invalid transition from %s to %s", sm.currentPhase, targetPhase)
	}

	currentState, hasCurrentState := sm.states[sm.currentPhase]
	targetState, hasTargetState := sm.states[targetPhase]

	if !hasTargetState {
		return sm.currentPhase, fmt.Errorf("no state implementation for phase %s", targetPhase)
	}

	if err := targetState.Validate(sm.context); err != nil {
		return sm.currentPhase, fmt.Errorf("target state validation failed: %w", err)
	}

	if hasCurrentState {
		if err := currentState.Exit(sm.context); err != nil {
			sm.context.Logger.Error().
				Err(err).
				Str("from_phase", sm.currentPhase.String()).
				Str("to_phase", targetPhase.String()).
				Msg("Error exiting state")
			// Continue with transition despite exit error
		}
	}

	previousPhase := sm.currentPhase
	sm.currentPhase = targetPhase

	if err := targetState.Enter(sm.context); err != nil {
		// Rollback on enter failure
		sm.currentPhase = previousPhase
		return previousPhase, fmt.Errorf("failed to enter state %s: %w", targetPhase, err)
	}

	sm.addToHistory(Transition{
		From:      previousPhase,
		To:        targetPhase,
		Timestamp: time.Now(),
		Reason:    reason,
	})

	return previousPhase, nil
}

// announce publishes and logs a completed transition. It runs without the
// lock so handlers may query the machine.
func (sm *StateMachine) announce(from, to BattlePhase, reason string) {
	if sm.publisher != nil {
		sm.publisher.Publish(events.NewStateTransitionEvent(
			sm.context.BattleID,
			from.String(),
			to.String(),
			reason,
		))
	}

	sm.context.Logger.Info().
		Str("from_phase", from.String()).
		Str("to_phase", to.String()).
		Str("reason", reason).
		Msg("State transition completed")
}

// addToHistory adds a transition to the history, maintaining max size
func (sm *StateMachine) addToHistory(transition Transition) {
	sm.history = append(sm.history, transition)
	sm.trimHistory()
}

func (sm *StateMachine) trimHistory() {
	if len(sm.history) > sm.maxHistorySize {
		// Keep the most recent entries
		sm.history = append([]Transition(nil), sm.history[len(sm.history)-sm.maxHistorySize:]...)
	}
}

// GetHistory returns a copy of the transition history
func (sm *StateMachine) GetHistory() []Transition {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	history := make([]Transition, len(sm.history))
	copy(history, sm.history)
	return history
}

// GetContext returns the battle context
func (sm *StateMachine) GetContext() *BattleContext {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.context
}

// CanTransitionTo checks if a transition to the target phase is allowed
func (sm *StateMachine) CanTransitionTo(targetPhase BattlePhase) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.currentPhase.CanTransitionTo(targetPhase)
}

// Reset clears the history and forces the machine back to PhaseSetup from
// any phase
func (sm *StateMachine) Reset() error {
	sm.mu.Lock()
	sm.history = sm.history[:0]
	previousPhase := sm.currentPhase
	if current, ok := sm.states[previousPhase]; ok {
		if err := current.Exit(sm.context); err != nil {
			sm.context.Logger.Error().Err(err).Str("from_phase", previousPhase.String()).Msg("Error exiting state")
		}
	}
	sm.currentPhase = PhaseSetup
	var err error
	if setup, ok := sm.states[PhaseSetup]; ok {
		err = setup.Enter(sm.context)
	}
	sm.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to enter state %s: %w", PhaseSetup, err)
	}
	sm.announce(previousPhase, PhaseSetup, "Reset requested")
	return nil
}
