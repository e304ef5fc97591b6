package battle

import (
	"sort"

	"github.com/mitchelldurbincs/hextactics/internal/game/battlefield"
	"github.com/mitchelldurbincs/hextactics/internal/game/core"
	"github.com/mitchelldurbincs/hextactics/internal/game/events"
	"github.com/mitchelldurbincs/hextactics/internal/game/rules"
	"github.com/mitchelldurbincs/hextactics/internal/game/states"
)

// StartBattle leaves Setup, starts round 1 and runs turns until the player
// must act or the battle ends
func (b *Battle) StartBattle() error {
	if b.Over() {
		return core.ErrBattleOver
	}
	if phase := b.Phase(); phase != states.PhaseSetup {
		return core.WrapPhaseError(phase.String(), "start battle", core.ErrWrongPhase)
	}

	player, _ := b.field.Player()
	b.publish(events.NewBattleStartedEvent(b.id, b.field.Width(), b.field.Height(), len(b.field.AllEntities()), player.ID))
	b.logger.Info().
		Int("width", b.field.Width()).
		Int("height", b.field.Height()).
		Int("entities", len(b.field.AllEntities())).
		Msg("Battle started")

	if res := b.endCheck.Check(b.field, 0); res.Over {
		b.finish(res)
		return nil
	}

	b.startRound()
	b.advance()
	return nil
}

// ComputeTurnOrder returns the IDs of entities able to act, by descending
// initiative then descending speed. Full ties keep registration order.
func ComputeTurnOrder(entities []*core.Entity) []string {
	ready := make([]*core.Entity, 0, len(entities))
	for _, e := range entities {
		if e.CanAct() {
			ready = append(ready, e)
		}
	}
	sort.SliceStable(ready, func(i, j int) bool {
		if ready[i].Initiative != ready[j].Initiative {
			return ready[i].Initiative > ready[j].Initiative
		}
		return ready[i].Speed > ready[j].Speed
	})
	order := make([]string, len(ready))
	for i, e := range ready {
		order[i] = e.ID
	}
	return order
}

// startRound freezes the turn order for a new round
func (b *Battle) startRound() {
	b.round++
	b.context.Round = b.round
	b.order = ComputeTurnOrder(b.field.AliveEntities())
	b.turnIndex = 0

	b.publish(events.NewRoundStartedEvent(b.id, b.round, b.TurnOrder()))
	b.logger.Debug().
		Int("round", b.round).
		Strs("turn_order", b.order).
		Msg("Round started")
}

// advance is ProcessNextActor run as a loop: it dispatches actors in order,
// executing non-player turns immediately, ends rounds when the order is
// exhausted, and returns when the player must act or the battle is over.
func (b *Battle) advance() {
	for !b.Over() {
		if b.turnIndex >= len(b.order) {
			if !b.endRound() {
				return
			}
			b.startRound()
			continue
		}

		actor, ok := b.field.Entity(b.order[b.turnIndex])
		if !ok || !actor.CanAct() {
			// Dead or stunned since the order was frozen
			b.turnIndex++
			continue
		}

		b.context.ActorID = actor.ID
		b.publish(events.NewTurnStartedEvent(b.id, b.round, actor.ID, actor.Kind, actor.IsPlayerControlled()))

		if actor.IsPlayerControlled() {
			b.transition(states.PhaseActionSelection, "player turn")
			return
		}

		b.transition(states.PhaseEnemyTurn, "non-player turn")
		b.runEnemyTurn(actor)
		b.endCurrentTurn(actor)
	}
}

// runEnemyTurn obtains one decision and executes it. Failures become a no-op.
func (b *Battle) runEnemyTurn(actor *core.Entity) {
	d := b.GetDecisionForEntity(actor)
	b.publish(events.NewDecisionMadeEvent(b.id, b.round, actor.ID, string(d.ActionKind), d.ActionName, d.Target, d.Priority, d.Valid, d.Reason))
	b.logger.Debug().
		Int("round", b.round).
		Str("entity_id", actor.ID).
		Str("behavior", actor.BehaviorKind).
		Str("decision", d.String()).
		Msg("Decision made")

	if !d.Valid || d.IsSkip() {
		return
	}
	b.transition(states.PhaseActionExecution, "executing "+d.ActionName)
	_, _ = b.ExecuteDecision(actor, d)
}

// endCurrentTurn consumes the actor's turn, checks for battle end and moves
// the index forward
func (b *Battle) endCurrentTurn(actor *core.Entity) {
	actor.ActedThisTurn = true
	b.turnsTaken++
	b.transition(states.PhaseTurnEnd, "turn consumed")
	b.publish(events.NewTurnEndedEvent(b.id, b.round, actor.ID, b.turnsTaken))

	if res := b.endCheck.Check(b.field, b.round-1); res.Over {
		b.finish(res)
		return
	}
	b.turnIndex++
}

// endRound fires round-end status effects on every living entity, checking
// for battle end after each one. Returns false when the battle ended.
func (b *Battle) endRound() bool {
	for _, e := range b.field.AliveEntities() {
		tick, err := b.field.TickStatuses(e.ID)
		if err != nil {
			b.logger.Warn().Err(err).Str("entity_id", e.ID).Msg("Status tick failed")
			continue
		}
		b.publishTick(e, tick)

		if res := b.endCheck.Check(b.field, b.round-1); res.Over {
			b.finish(res)
			return false
		}
	}

	for _, e := range b.field.AllEntities() {
		e.ActedThisTurn = false
	}
	b.publish(events.NewRoundEndedEvent(b.id, b.round))

	if res := b.endCheck.Check(b.field, b.round); res.Over {
		b.finish(res)
		return false
	}
	return true
}

func (b *Battle) publishTick(e *core.Entity, tick battlefield.StatusTick) {
	if tick.Damage > 0 {
		b.publish(events.NewEntityDamagedEvent(b.id, b.round, e.ID, events.SourceStatus, tick.Damage, e.CurrentHP, e.Position))
	}
	if tick.Healed > 0 {
		b.publish(events.NewEntityHealedEvent(b.id, b.round, e.ID, events.SourceStatus, tick.Healed, e.CurrentHP, e.Position))
	}
	for _, name := range tick.Expired {
		b.publish(events.NewStatusExpiredEvent(b.id, b.round, e.ID, name))
	}
	if tick.Defeated {
		b.publish(events.NewEntityDefeatedEvent(b.id, b.round, e.ID, e.Kind, e.Position))
	}
}

// finish records the result, enters BattleEnd and notifies listeners once
func (b *Battle) finish(res rules.EndResult) {
	if b.result != nil {
		return
	}
	result := Result{
		Victory:         res.Victory,
		TurnsTaken:      b.turnsTaken,
		Rounds:          b.round,
		SurvivorsByKind: rules.SurvivorsByKind(b.field),
		Reason:          res.Reason,
	}
	b.result = &result

	b.context.Outcome = res.Reason
	b.transition(states.PhaseBattleEnd, res.Reason)
	b.publish(events.NewBattleEndedEvent(b.id, result.Victory, result.TurnsTaken, result.Rounds, result.SurvivorsByKind, result.Reason))

	b.logger.Info().
		Bool("victory", result.Victory).
		Str("reason", result.Reason).
		Int("turns_taken", result.TurnsTaken).
		Int("rounds", result.Rounds).
		Msg("Battle over")

	for _, fn := range b.onEnd {
		fn(result)
	}
}
