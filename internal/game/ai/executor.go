package ai

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/hextactics/internal/game/actions"
	"github.com/mitchelldurbincs/hextactics/internal/game/aoe"
	"github.com/mitchelldurbincs/hextactics/internal/game/battlefield"
	"github.com/mitchelldurbincs/hextactics/internal/game/core"
	"github.com/mitchelldurbincs/hextactics/internal/game/targeting"
)

var ErrInvalidDecision = errors.New("decision is not valid")

// CellEffect records what one action did to the occupant of one cell
type CellEffect struct {
	Cell     core.HexCell
	EntityID string
	Damage   float64
	Healed   float64
	Status   string
	Defeated bool
}

// Outcome summarizes an executed decision
type Outcome struct {
	ActorID  string
	Decision Decision
	From     core.HexCell
	Moved    bool
	Affected []core.HexCell
	Effects  []CellEffect
}

// Executor applies decisions to the battlefield. It is shared by AI and
// player-driven turns.
type Executor struct {
	field     *battlefield.Battlefield
	catalog   actions.Catalog
	targeting *targeting.Engine
	aoe       *aoe.Engine
	logger    zerolog.Logger
}

func NewExecutor(field *battlefield.Battlefield, catalog actions.Catalog, tgt *targeting.Engine, area *aoe.Engine, logger zerolog.Logger) *Executor {
	return &Executor{
		field:     field,
		catalog:   catalog,
		targeting: tgt,
		aoe:       area,
		logger:    logger.With().Str("component", "executor").Logger(),
	}
}

// Execute carries out d for actor. On error the battlefield is unchanged.
func (x *Executor) Execute(actor *core.Entity, d Decision) (Outcome, error) {
	out := Outcome{ActorID: actor.ID, Decision: d, From: actor.Position}
	if !d.Valid {
		return out, core.WrapEntityError(actor.ID, "execute", ErrInvalidDecision)
	}
	if !actor.IsAlive() {
		return out, core.WrapEntityError(actor.ID, "execute", core.ErrEntityDead)
	}
	if d.IsSkip() {
		return out, nil
	}

	def, err := actions.Resolve(x.catalog, actor, d.ActionName)
	if err != nil {
		return out, err
	}
	if KindFor(def.Category) != d.ActionKind {
		return out, core.WrapEntityError(actor.ID, fmt.Sprintf("execute %s as %s", def.Name, d.ActionKind), core.ErrActionNotUsable)
	}
	if !x.targeting.IsValidTarget(actor.Position, d.Target, def) {
		return out, core.WrapEntityError(actor.ID, fmt.Sprintf("%s at %s", def.Name, d.Target), core.ErrInvalidTarget)
	}

	switch d.ActionKind {
	case ActionTalk:
		x.logger.Info().
			Str("entity_id", actor.ID).
			Str("action", def.Name).
			Str("target", d.Target.String()).
			Msg("Talk action has no battle effect")
		return out, nil
	case ActionMove:
		if err := x.field.Move(actor.ID, d.Target); err != nil {
			return out, err
		}
		out.Moved = true
		out.Affected = []core.HexCell{d.Target}
		return out, nil
	default:
		x.applyEffects(actor, def, d.Target, &out)
		return out, nil
	}
}

// applyEffects hits every distinct affected cell once
func (x *Executor) applyEffects(actor *core.Entity, def *actions.Definition, target core.HexCell, out *Outcome) {
	affected := x.aoe.AffectedCells(actor.Position, target, def)
	seen := core.NewCellSet()
	for _, c := range affected {
		if seen.Contains(c) {
			continue
		}
		seen.Add(c)
		out.Affected = append(out.Affected, c)

		occ, ok := x.field.EntityAt(c)
		if !ok {
			continue
		}
		effect := CellEffect{Cell: c, EntityID: occ.ID}
		if def.IsDamaging() {
			dealt, err := x.field.ApplyDamage(c, def.Damage)
			if err != nil {
				x.warnEffect(actor, def, occ, "damage", err)
			}
			effect.Damage = dealt
		}
		if occ.IsAlive() && def.IsHealing() {
			healed, err := x.field.ApplyHealing(c, def.HealAmount)
			if err != nil {
				x.warnEffect(actor, def, occ, "heal", err)
			}
			effect.Healed = healed
		}
		if occ.IsAlive() && def.AppliesStatus() {
			if err := x.field.ApplyStatus(c, def.Status()); err != nil {
				x.warnEffect(actor, def, occ, "status", err)
			} else {
				effect.Status = def.StatusEffect
			}
		}
		effect.Defeated = !occ.IsAlive()
		out.Effects = append(out.Effects, effect)

		x.logger.Debug().
			Str("entity_id", actor.ID).
			Str("action", def.Name).
			Str("target_id", occ.ID).
			Float64("damage", effect.Damage).
			Float64("healed", effect.Healed).
			Bool("defeated", effect.Defeated).
			Msg("Applied action effect")
	}
}

func (x *Executor) warnEffect(actor *core.Entity, def *actions.Definition, target *core.Entity, effect string, err error) {
	x.logger.Warn().
		Err(err).
		Str("entity_id", actor.ID).
		Str("action", def.Name).
		Str("target_id", target.ID).
		Str("effect", effect).
		Msg("Effect not applied")
}
