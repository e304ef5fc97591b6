// Package battle is the turn scheduler. A Battle wires the battlefield, the
// targeting and AOE engines, the AI registry and the executor behind a phase
// state machine, runs non-player turns synchronously and parks on player
// input until one of the request/response calls resumes it.
//
// A Battle is not safe for concurrent use.
package battle

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/hextactics/internal/game/actions"
	"github.com/mitchelldurbincs/hextactics/internal/game/ai"
	"github.com/mitchelldurbincs/hextactics/internal/game/aoe"
	"github.com/mitchelldurbincs/hextactics/internal/game/battlefield"
	"github.com/mitchelldurbincs/hextactics/internal/game/core"
	"github.com/mitchelldurbincs/hextactics/internal/game/events"
	"github.com/mitchelldurbincs/hextactics/internal/game/rules"
	"github.com/mitchelldurbincs/hextactics/internal/game/states"
	"github.com/mitchelldurbincs/hextactics/internal/game/targeting"
)

// Config holds everything needed to set up a battle
type Config struct {
	BattleID string
	Field    *battlefield.Battlefield
	Catalog  actions.Catalog

	AI              ai.Settings
	DefaultBehavior string
	// MaxRounds ends the battle in defeat once that many rounds complete; 0 disables it
	MaxRounds int

	// EventBus is created when nil
	EventBus *events.EventBus
	Logger   zerolog.Logger
}

// Result is the battle-end notification payload
type Result struct {
	Victory         bool
	TurnsTaken      int
	Rounds          int
	SurvivorsByKind map[string]int
	Reason          string
}

// Battle schedules rounds and turns over one battlefield
type Battle struct {
	id     string
	logger zerolog.Logger

	field     *battlefield.Battlefield
	catalog   actions.Catalog
	targeting *targeting.Engine
	aoe       *aoe.Engine
	registry  *ai.Registry
	toolkit   *ai.Toolkit
	executor  *ai.Executor
	legal     *rules.LegalActionCalculator
	endCheck  *rules.EndConditionChecker

	bus     *events.EventBus
	machine *states.StateMachine
	context *states.BattleContext

	round      int
	order      []string
	turnIndex  int
	turnsTaken int
	result     *Result
	onEnd      []func(Result)
}

// New wires a battle from cfg. The battlefield must have a designated player.
func New(cfg Config) (*Battle, error) {
	if cfg.Field == nil {
		return nil, fmt.Errorf("battle config: nil battlefield")
	}
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("battle config: nil action catalog")
	}
	if _, ok := cfg.Field.Player(); !ok {
		return nil, fmt.Errorf("battle config: no designated player: %w", core.ErrEntityNotFound)
	}
	if cfg.BattleID == "" {
		cfg.BattleID = uuid.NewString()
	}
	if cfg.AI == (ai.Settings{}) {
		cfg.AI = ai.DefaultSettings()
	}
	if cfg.DefaultBehavior == "" {
		cfg.DefaultBehavior = ai.BehaviorBalanced
	}
	if cfg.EventBus == nil {
		cfg.EventBus = events.NewEventBus(cfg.Logger)
	}

	logger := cfg.Logger.With().Str("component", "battle").Str("battle_id", cfg.BattleID).Logger()
	tgt := targeting.NewEngine(cfg.Field, cfg.Logger)
	area := aoe.NewEngine(cfg.Field, cfg.Logger)
	ctx := states.NewBattleContext(cfg.BattleID, cfg.Logger)

	b := &Battle{
		id:        cfg.BattleID,
		logger:    logger,
		field:     cfg.Field,
		catalog:   cfg.Catalog,
		targeting: tgt,
		aoe:       area,
		registry:  ai.NewRegistry(cfg.DefaultBehavior, cfg.Logger),
		toolkit: &ai.Toolkit{
			Field:     cfg.Field,
			Catalog:   cfg.Catalog,
			Targeting: tgt,
			AOE:       area,
			Settings:  cfg.AI,
		},
		executor: ai.NewExecutor(cfg.Field, cfg.Catalog, tgt, area, cfg.Logger),
		legal:    rules.NewLegalActionCalculator(cfg.Catalog, tgt),
		endCheck: rules.NewEndConditionChecker(cfg.Logger, cfg.MaxRounds),
		bus:      cfg.EventBus,
		machine:  states.NewStateMachine(ctx, cfg.EventBus),
		context:  ctx,
	}
	return b, nil
}

// ID returns the battle ID used on every published event
func (b *Battle) ID() string { return b.id }

// Field returns the battlefield this battle mutates
func (b *Battle) Field() *battlefield.Battlefield { return b.field }

// Targeting returns the targeting engine, for previews
func (b *Battle) Targeting() *targeting.Engine { return b.targeting }

// AOE returns the area-of-effect engine, for previews
func (b *Battle) AOE() *aoe.Engine { return b.aoe }

// Registry returns the AI strategy registry
func (b *Battle) Registry() *ai.Registry { return b.registry }

// EventBus returns the bus every battle event is published on
func (b *Battle) EventBus() *events.EventBus { return b.bus }

// Phase returns the current battle phase
func (b *Battle) Phase() states.BattlePhase { return b.machine.CurrentPhase() }

// History returns the recorded phase transitions
func (b *Battle) History() []states.Transition { return b.machine.GetHistory() }

// Round returns the current round number, 0 before the battle starts
func (b *Battle) Round() int { return b.round }

// TurnsTaken returns the number of completed actor turns
func (b *Battle) TurnsTaken() int { return b.turnsTaken }

// TurnOrder returns the frozen order of the current round
func (b *Battle) TurnOrder() []string {
	return append([]string(nil), b.order...)
}

// CurrentActor returns the entity whose turn it is
func (b *Battle) CurrentActor() (*core.Entity, bool) {
	if b.turnIndex >= len(b.order) {
		return nil, false
	}
	return b.field.Entity(b.order[b.turnIndex])
}

// Over reports whether the battle has ended
func (b *Battle) Over() bool { return b.result != nil }

// Result returns the battle-end notification once the battle is over
func (b *Battle) Result() (Result, bool) {
	if b.result == nil {
		return Result{}, false
	}
	return *b.result, true
}

// OnBattleEnd registers a callback run once when the battle ends
func (b *Battle) OnBattleEnd(fn func(Result)) {
	b.onEnd = append(b.onEnd, fn)
}

// LegalActions lists what an entity may do from where it stands
func (b *Battle) LegalActions(e *core.Entity) []rules.LegalAction {
	return b.legal.LegalActions(e)
}

// GetDecisionForEntity asks the entity's strategy for a decision. It does
// not change the battle.
func (b *Battle) GetDecisionForEntity(e *core.Entity) ai.Decision {
	return b.registry.Decide(e, b.toolkit)
}

// ExecuteDecision applies d for actor and publishes the resulting events.
// It does not advance the turn. On error the battlefield is unchanged.
func (b *Battle) ExecuteDecision(actor *core.Entity, d ai.Decision) (ai.Outcome, error) {
	out, err := b.executor.Execute(actor, d)
	if err != nil {
		b.logger.Warn().
			Err(err).
			Int("round", b.round).
			Str("entity_id", actor.ID).
			Str("decision", d.String()).
			Msg("Decision execution failed, turn is a no-op")
		b.publish(events.NewActionExecutedEvent(b.id, b.round, actor.ID, string(d.ActionKind), d.ActionName, d.Target, 0, err))
		return out, core.NewBattleError(b.round, actor.ID, "execute "+d.ActionName, err)
	}

	if out.Moved {
		b.publish(events.NewEntityMovedEvent(b.id, b.round, actor.ID, out.From, actor.Position))
	}
	for _, fx := range out.Effects {
		b.publishEffect(actor, fx)
	}
	b.publish(events.NewActionExecutedEvent(b.id, b.round, actor.ID, string(d.ActionKind), d.ActionName, d.Target, len(out.Affected), nil))
	return out, nil
}

func (b *Battle) publishEffect(actor *core.Entity, fx ai.CellEffect) {
	target, ok := b.field.Entity(fx.EntityID)
	if !ok {
		return
	}
	if fx.Damage > 0 {
		b.publish(events.NewEntityDamagedEvent(b.id, b.round, target.ID, actor.ID, fx.Damage, target.CurrentHP, fx.Cell))
	}
	if fx.Healed > 0 {
		b.publish(events.NewEntityHealedEvent(b.id, b.round, target.ID, actor.ID, fx.Healed, target.CurrentHP, fx.Cell))
	}
	if fx.Status != "" {
		duration := 0
		for _, s := range target.ActiveStatuses {
			if s.Name == fx.Status {
				duration = s.RemainingDuration
			}
		}
		b.publish(events.NewStatusAppliedEvent(b.id, b.round, target.ID, fx.Status, duration))
	}
	if fx.Defeated {
		b.publish(events.NewEntityDefeatedEvent(b.id, b.round, target.ID, target.Kind, fx.Cell))
	}
}

func (b *Battle) publish(e events.Event) {
	b.bus.Publish(e)
}

// transition moves the state machine. The scheduler only requests legal
// transitions, so a failure is logged rather than returned.
func (b *Battle) transition(to states.BattlePhase, reason string) {
	if err := b.machine.TransitionTo(to, reason); err != nil {
		b.logger.Error().
			Err(err).
			Str("to_phase", to.String()).
			Str("reason", reason).
			Msg("Phase transition rejected")
	}
}
