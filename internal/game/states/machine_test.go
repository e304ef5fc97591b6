package states

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/hextactics/internal/game/events"
)

var allPhases = []BattlePhase{
	PhaseSetup, PhaseActionSelection, PhaseTargetSelection, PhaseActionExecution,
	PhaseEnemyTurn, PhaseTurnEnd, PhaseBattleEnd,
}

func TestBattlePhase_String(t *testing.T) {
	tests := []struct {
		phase    BattlePhase
		expected string
	}{
		{PhaseSetup, "Setup"},
		{PhaseActionSelection, "ActionSelection"},
		{PhaseTargetSelection, "TargetSelection"},
		{PhaseActionExecution, "ActionExecution"},
		{PhaseEnemyTurn, "EnemyTurn"},
		{PhaseTurnEnd, "TurnEnd"},
		{PhaseBattleEnd, "BattleEnd"},
		{BattlePhase(999), "Unknown(999)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.phase.String())
		})
	}
}

func TestBattlePhase_Properties(t *testing.T) {
	t.Run("IsTerminal", func(t *testing.T) {
		assert.True(t, PhaseBattleEnd.IsTerminal())
		assert.False(t, PhaseTurnEnd.IsTerminal())
		assert.False(t, PhaseSetup.IsTerminal())
	})

	t.Run("AwaitsInput", func(t *testing.T) {
		assert.True(t, PhaseActionSelection.AwaitsInput())
		assert.True(t, PhaseTargetSelection.AwaitsInput())
		assert.False(t, PhaseEnemyTurn.AwaitsInput())
		assert.False(t, PhaseActionExecution.AwaitsInput())
	})

	t.Run("ParsePhase", func(t *testing.T) {
		for _, p := range allPhases {
			parsed, err := ParsePhase(p.String())
			require.NoError(t, err)
			assert.Equal(t, p, parsed)
		}
		_, err := ParsePhase("Lobby")
		assert.Error(t, err)
	})
}

func TestBattlePhase_Transitions(t *testing.T) {
	tests := []struct {
		from    BattlePhase
		allowed []BattlePhase
	}{
		{PhaseSetup, []BattlePhase{PhaseActionSelection, PhaseEnemyTurn, PhaseTurnEnd, PhaseBattleEnd}},
		{PhaseActionSelection, []BattlePhase{PhaseTargetSelection, PhaseTurnEnd, PhaseBattleEnd}},
		{PhaseTargetSelection, []BattlePhase{PhaseActionSelection, PhaseActionExecution, PhaseBattleEnd}},
		{PhaseActionExecution, []BattlePhase{PhaseTurnEnd, PhaseBattleEnd}},
		{PhaseEnemyTurn, []BattlePhase{PhaseActionExecution, PhaseTurnEnd, PhaseBattleEnd}},
		{PhaseTurnEnd, []BattlePhase{PhaseActionSelection, PhaseEnemyTurn, PhaseBattleEnd}},
		{PhaseBattleEnd, []BattlePhase{PhaseSetup}},
	}

	for _, tt := range tests {
		t.Run(tt.from.String(), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.AllowedTransitions())

			for _, target := range allPhases {
				shouldAllow := false
				for _, allowed := range tt.allowed {
					if target == allowed {
						shouldAllow = true
						break
					}
				}
				assert.Equal(t, shouldAllow, tt.from.CanTransitionTo(target), "%s -> %s", tt.from, target)
			}
		})
	}

	t.Run("CancelIsTheOnlyBackwardEdge", func(t *testing.T) {
		assert.True(t, PhaseTargetSelection.CanTransitionTo(PhaseActionSelection))
		assert.False(t, PhaseActionExecution.CanTransitionTo(PhaseTargetSelection))
		assert.False(t, PhaseActionExecution.CanTransitionTo(PhaseActionSelection))
	})
}

func TestBattleContext(t *testing.T) {
	t.Run("NewBattleContext", func(t *testing.T) {
		ctx := NewBattleContext("test-battle", zerolog.Nop())
		assert.Equal(t, "test-battle", ctx.BattleID)
		assert.Equal(t, 0, ctx.Round)
		assert.NotNil(t, ctx.Metadata)
	})

	t.Run("GetElapsedTime", func(t *testing.T) {
		ctx := NewBattleContext("test-battle", zerolog.Nop())
		assert.Equal(t, time.Duration(0), ctx.GetElapsedTime())

		ctx.StartTime = time.Now().Add(-10 * time.Second)
		elapsed := ctx.GetElapsedTime()
		assert.Greater(t, elapsed, 9*time.Second)
		assert.Less(t, elapsed, 11*time.Second)
	})

	t.Run("Metadata", func(t *testing.T) {
		ctx := NewBattleContext("test-battle", zerolog.Nop())
		ctx.SetMetadata("seed", int64(42))

		val, ok := ctx.GetMetadata("seed")
		assert.True(t, ok)
		assert.Equal(t, int64(42), val)

		_, ok = ctx.GetMetadata("missing")
		assert.False(t, ok)
	})
}

func TestStateMachine(t *testing.T) {
	setup := func() (*StateMachine, *BattleContext, *events.Recorder) {
		ctx := NewBattleContext("test-battle", zerolog.Nop())
		bus := events.NewEventBus(zerolog.Nop())
		rec := events.NewRecorder("rec")
		bus.Subscribe(rec)
		return NewStateMachine(ctx, bus), ctx, rec
	}

	t.Run("NewStateMachine", func(t *testing.T) {
		sm, _, _ := setup()
		assert.Equal(t, PhaseSetup, sm.CurrentPhase())
		assert.Len(t, sm.states, 7)
	})

	t.Run("PlayerTurnWithCancel", func(t *testing.T) {
		sm, ctx, rec := setup()

		ctx.ActorID = "hero"
		require.NoError(t, sm.TransitionTo(PhaseActionSelection, "player turn"))
		assert.False(t, ctx.StartTime.IsZero(), "leaving setup stamps the start time")

		ctx.PendingAction = "fireball"
		require.NoError(t, sm.TransitionTo(PhaseTargetSelection, "action chosen"))

		require.NoError(t, sm.TransitionTo(PhaseActionSelection, "cancelled"))
		assert.Empty(t, ctx.PendingAction)

		ctx.PendingAction = "slash"
		require.NoError(t, sm.TransitionTo(PhaseTargetSelection, "action chosen"))
		require.NoError(t, sm.TransitionTo(PhaseActionExecution, "target chosen"))
		require.NoError(t, sm.TransitionTo(PhaseTurnEnd, "executed"))
		assert.Equal(t, PhaseTurnEnd, sm.CurrentPhase())

		types := rec.Types()
		assert.Len(t, types, 6)
		for _, typ := range types {
			assert.Equal(t, events.TypeStateTransition, typ)
		}
		last := rec.Events()[5].(*events.StateTransitionEvent)
		assert.Equal(t, "ActionExecution", last.FromPhase)
		assert.Equal(t, "TurnEnd", last.ToPhase)
		assert.Equal(t, "test-battle", last.BattleID())
	})

	t.Run("Invalid Transitions", func(t *testing.T) {
		sm, ctx, rec := setup()

		err := sm.TransitionTo(PhaseActionExecution, "skip steps")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid transition")
		assert.Equal(t, PhaseSetup, sm.CurrentPhase())

		ctx.ActorID = "orc"
		require.NoError(t, sm.TransitionTo(PhaseEnemyTurn, "enemy turn"))
		err = sm.TransitionTo(PhaseTargetSelection, "enemies do not select targets")
		assert.Error(t, err)
		assert.Equal(t, PhaseEnemyTurn, sm.CurrentPhase())
		assert.Len(t, rec.Types(), 1)
	})

	t.Run("State Validation", func(t *testing.T) {
		sm, ctx, _ := setup()

		err := sm.TransitionTo(PhaseActionSelection, "nobody to act")
		assert.ErrorIs(t, err, errNoActor)

		ctx.ActorID = "hero"
		require.NoError(t, sm.TransitionTo(PhaseActionSelection, "player turn"))
		err = sm.TransitionTo(PhaseTargetSelection, "nothing picked")
		assert.ErrorIs(t, err, errNoPendingAction)

		err = sm.TransitionTo(PhaseBattleEnd, "no outcome yet")
		assert.ErrorIs(t, err, errNoOutcome)

		ctx.Outcome = "defeat"
		require.NoError(t, sm.TransitionTo(PhaseBattleEnd, "player defeated"))
		assert.True(t, sm.CurrentPhase().IsTerminal())
		assert.Empty(t, ctx.ActorID)
	})

	t.Run("History Tracking", func(t *testing.T) {
		sm, ctx, _ := setup()

		ctx.ActorID = "orc"
		_ = sm.TransitionTo(PhaseEnemyTurn, "reason1")
		_ = sm.TransitionTo(PhaseActionExecution, "reason2")
		_ = sm.TransitionTo(PhaseSetup, "not allowed")
		_ = sm.TransitionTo(PhaseTurnEnd, "reason3")

		history := sm.GetHistory()
		require.Len(t, history, 3)

		assert.Equal(t, PhaseSetup, history[0].From)
		assert.Equal(t, PhaseEnemyTurn, history[0].To)
		assert.Equal(t, "reason1", history[0].Reason)

		assert.Equal(t, PhaseEnemyTurn, history[1].From)
		assert.Equal(t, PhaseActionExecution, history[1].To)

		assert.Equal(t, PhaseActionExecution, history[2].From)
		assert.Equal(t, PhaseTurnEnd, history[2].To)
		assert.Equal(t, "reason3", history[2].Reason)
	})

	t.Run("History Is Bounded", func(t *testing.T) {
		sm, ctx, _ := setup()
		sm.SetMaxHistorySize(4)

		ctx.ActorID = "orc"
		require.NoError(t, sm.TransitionTo(PhaseEnemyTurn, "first"))
		for i := 0; i < 5; i++ {
			require.NoError(t, sm.TransitionTo(PhaseTurnEnd, "end"))
			require.NoError(t, sm.TransitionTo(PhaseEnemyTurn, "next"))
		}

		history := sm.GetHistory()
		require.Len(t, history, 4)
		assert.Equal(t, PhaseEnemyTurn, history[3].To)
		assert.Equal(t, "next", history[3].Reason)
	})

	t.Run("Reset From Any Phase", func(t *testing.T) {
		sm, ctx, rec := setup()

		ctx.ActorID = "hero"
		ctx.Round = 3
		require.NoError(t, sm.TransitionTo(PhaseActionSelection, "player turn"))

		done := make(chan error, 1)
		go func() { done <- sm.Reset() }()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("Reset did not return")
		}

		assert.Equal(t, PhaseSetup, sm.CurrentPhase())
		assert.Empty(t, sm.GetHistory())
		assert.Equal(t, 0, ctx.Round)
		assert.Empty(t, ctx.ActorID)
		assert.Len(t, rec.Types(), 2)
	})

	t.Run("CanTransitionTo", func(t *testing.T) {
		sm, _, _ := setup()

		assert.True(t, sm.CanTransitionTo(PhaseEnemyTurn))
		assert.True(t, sm.CanTransitionTo(PhaseBattleEnd))
		assert.False(t, sm.CanTransitionTo(PhaseTargetSelection))
	})

	t.Run("Handlers May Query The Machine", func(t *testing.T) {
		ctx := NewBattleContext("test-battle", zerolog.Nop())
		bus := events.NewEventBus(zerolog.Nop())
		sm := NewStateMachine(ctx, bus)

		var seen BattlePhase
		bus.SubscribeFunc(events.TypeStateTransition, func(events.Event) {
			seen = sm.CurrentPhase()
		})

		ctx.ActorID = "orc"
		require.NoError(t, sm.TransitionTo(PhaseEnemyTurn, "enemy turn"))
		assert.Equal(t, PhaseEnemyTurn, seen)
	})
}

// MockState for testing custom state implementations
type MockState struct {
	phase       BattlePhase
	enterCalled bool
	exitCalled  bool
	enterError  error
	exitError   error
}

func (m *MockState) Phase() BattlePhase            { return m.phase }
func (m *MockState) Enter(*BattleContext) error    { m.enterCalled = true; return m.enterError }
func (m *MockState) Exit(*BattleContext) error     { m.exitCalled = true; return m.exitError }
func (m *MockState) Validate(*BattleContext) error { return nil }

func TestStateMachine_CustomStates(t *testing.T) {
	t.Run("StateCallbacks", func(t *testing.T) {
		ctx := NewBattleContext("test-battle", zerolog.Nop())
		sm := NewStateMachine(ctx, nil)

		enemyMock := &MockState{phase: PhaseEnemyTurn}
		execMock := &MockState{phase: PhaseActionExecution, exitError: errors.New("exit failed")}
		sm.RegisterState(enemyMock)
		sm.RegisterState(execMock)

		require.NoError(t, sm.TransitionTo(PhaseEnemyTurn, "test"))
		assert.True(t, enemyMock.enterCalled)
		assert.False(t, enemyMock.exitCalled)

		require.NoError(t, sm.TransitionTo(PhaseActionExecution, "test"))
		assert.True(t, enemyMock.exitCalled)
		assert.True(t, execMock.enterCalled)

		// Exit errors are logged, not fatal
		require.NoError(t, sm.TransitionTo(PhaseTurnEnd, "test"))
		assert.Equal(t, PhaseTurnEnd, sm.CurrentPhase())
	})

	t.Run("EnterFailureRollsBack", func(t *testing.T) {
		ctx := NewBattleContext("test-battle", zerolog.Nop())
		sm := NewStateMachine(ctx, nil)

		broken := &MockState{phase: PhaseEnemyTurn, enterError: errors.New("enter failed")}
		sm.RegisterState(broken)

		err := sm.TransitionTo(PhaseEnemyTurn, "test")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to enter state EnemyTurn")
		assert.Equal(t, PhaseSetup, sm.CurrentPhase())
		assert.Empty(t, sm.GetHistory())
	})
}
