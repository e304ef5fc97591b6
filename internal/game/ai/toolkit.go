package ai

import (
	"math"
	"sort"

	"github.com/mitchelldurbincs/hextactics/internal/game/actions"
	"github.com/mitchelldurbincs/hextactics/internal/game/aoe"
	"github.com/mitchelldurbincs/hextactics/internal/game/core"
	"github.com/mitchelldurbincs/hextactics/internal/game/targeting"
)

// Field is the battlefield view strategies read from
type Field interface {
	targeting.Field
	AliveEntities() []*core.Entity
}

// Settings tunes strategy thresholds
type Settings struct {
	// LowHealthThreshold is the HP ratio below which defensive branches kick in
	LowHealthThreshold float64
	// AttackPriorityThreshold is the minimum balanced attack score taken
	// before repositioning is considered
	AttackPriorityThreshold int
	// IdealRange is the distance to the nearest enemy balanced units aim for
	IdealRange int
}

func DefaultSettings() Settings {
	return Settings{
		LowHealthThreshold:      0.35,
		AttackPriorityThreshold: 8,
		IdealRange:              3,
	}
}

// maxDistance stands in for "no hostile alive"
const maxDistance = math.MaxInt

// Toolkit bundles the engines and helpers every strategy shares. It is passed
// explicitly to each decision call.
type Toolkit struct {
	Field     Field
	Catalog   actions.Catalog
	Targeting *targeting.Engine
	AOE       *aoe.Engine
	Settings  Settings
}

// UsableActions returns every action the actor may use
func (tk *Toolkit) UsableActions(actor *core.Entity) []*actions.Definition {
	return actions.UsableActions(tk.Catalog, actor)
}

// DamagingSkills returns the actor's damaging skills by descending damage
func (tk *Toolkit) DamagingSkills(actor *core.Entity) []*actions.Definition {
	var out []*actions.Definition
	for _, d := range actions.UsableOfCategory(tk.Catalog, actor, actions.CategorySkill) {
		if d.IsDamaging() {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Damage > out[j].Damage
	})
	return out
}

// HealingActions returns the actor's healing actions of one category
func (tk *Toolkit) HealingActions(actor *core.Entity, cat actions.Category) []*actions.Definition {
	var out []*actions.Definition
	for _, d := range actions.UsableOfCategory(tk.Catalog, actor, cat) {
		if d.IsHealing() {
			out = append(out, d)
		}
	}
	return out
}

// Targets returns the valid targets of def from the actor's position
func (tk *Toolkit) Targets(actor *core.Entity, def *actions.Definition) []core.HexCell {
	return tk.Targeting.ValidTargets(actor.Position, def)
}

// Hostiles returns the living entities fighting against the actor
func (tk *Toolkit) Hostiles(actor *core.Entity) []*core.Entity {
	var out []*core.Entity
	for _, e := range tk.Field.AliveEntities() {
		if core.IsHostile(actor.Kind, e.Kind) {
			out = append(out, e)
		}
	}
	return out
}

// IsHostileOccupied reports whether a hostile of the actor stands on c
func (tk *Toolkit) IsHostileOccupied(actor *core.Entity, c core.HexCell) (*core.Entity, bool) {
	occ, ok := tk.Field.EntityAt(c)
	if !ok || !core.IsHostile(actor.Kind, occ.Kind) {
		return nil, false
	}
	return occ, true
}

// IsAllyOccupied reports whether the actor or one of its allies stands on c
func (tk *Toolkit) IsAllyOccupied(actor *core.Entity, c core.HexCell) (*core.Entity, bool) {
	occ, ok := tk.Field.EntityAt(c)
	if !ok {
		return nil, false
	}
	if occ.ID != actor.ID && !core.IsAllied(actor.Kind, occ.Kind) {
		return nil, false
	}
	return occ, true
}

// HarmsSelf reports whether aiming def at target would catch the actor in
// its own area of effect
func (tk *Toolkit) HarmsSelf(actor *core.Entity, def *actions.Definition, target core.HexCell) bool {
	if !def.IsDamaging() {
		return false
	}
	for _, c := range tk.AOE.AffectedCells(actor.Position, target, def) {
		if c == actor.Position {
			return true
		}
	}
	return false
}

// AttackTargets returns the cells def may hit that hold a hostile, skipping
// aims that would damage the actor itself
func (tk *Toolkit) AttackTargets(actor *core.Entity, def *actions.Definition) []core.HexCell {
	var out []core.HexCell
	for _, c := range tk.Targets(actor, def) {
		if _, ok := tk.IsHostileOccupied(actor, c); ok && !tk.HarmsSelf(actor, def, c) {
			out = append(out, c)
		}
	}
	return out
}

// DistanceToNearestHostile measures from c to the closest hostile of actor.
// Returns maxDistance when no hostile is alive.
func (tk *Toolkit) DistanceToNearestHostile(actor *core.Entity, c core.HexCell) int {
	best := maxDistance
	for _, h := range tk.Hostiles(actor) {
		best = min(best, core.Distance(c, h.Position))
	}
	return best
}

// Nearest returns the cell in cells closest to from; ties keep the earlier cell
func Nearest(from core.HexCell, cells []core.HexCell) (core.HexCell, bool) {
	if len(cells) == 0 {
		return core.HexCell{}, false
	}
	best := cells[0]
	bestDist := core.Distance(from, best)
	for _, c := range cells[1:] {
		if d := core.Distance(from, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, true
}

// MoveOption is a reachable cell together with the move action reaching it
type MoveOption struct {
	Action *actions.Definition
	Cell   core.HexCell
}

// MoveOptions lists every cell the actor can reach with its usable move actions
func (tk *Toolkit) MoveOptions(actor *core.Entity) []MoveOption {
	var out []MoveOption
	seen := core.NewCellSet()
	for _, def := range actions.UsableOfCategory(tk.Catalog, actor, actions.CategoryMove) {
		for _, c := range tk.Targets(actor, def) {
			if c == actor.Position || seen.Contains(c) || tk.Field.IsOccupied(c) {
				continue
			}
			seen.Add(c)
			out = append(out, MoveOption{Action: def, Cell: c})
		}
	}
	return out
}

// FarthestFromHostiles picks the reachable cell maximizing distance to the
// nearest hostile. ok is false when there is no move option or no hostile.
func (tk *Toolkit) FarthestFromHostiles(actor *core.Entity) (MoveOption, int, bool) {
	if len(tk.Hostiles(actor)) == 0 {
		return MoveOption{}, 0, false
	}
	var best MoveOption
	bestDist := -1
	for _, opt := range tk.MoveOptions(actor) {
		if d := tk.DistanceToNearestHostile(actor, opt.Cell); d > bestDist {
			best, bestDist = opt, d
		}
	}
	return best, bestDist, bestDist >= 0
}

// SelfHeal finds a healing skill, then item, that can target the actor's own
// cell. It only applies while the actor is wounded.
func (tk *Toolkit) SelfHeal(actor *core.Entity, priority int) (Decision, bool) {
	if actor.CurrentHP >= actor.MaxHP {
		return Decision{}, false
	}
	for _, cat := range []actions.Category{actions.CategorySkill, actions.CategoryItem} {
		for _, def := range tk.HealingActions(actor, cat) {
			for _, c := range tk.Targets(actor, def) {
				if c == actor.Position {
					return Use(def, c, priority, "self heal"), true
				}
			}
		}
	}
	return Decision{}, false
}

// Retreat moves to the cell farthest from the nearest hostile, but only when
// that is strictly farther than where the actor stands now
func (tk *Toolkit) Retreat(actor *core.Entity, priority int) (Decision, bool) {
	opt, dist, ok := tk.FarthestFromHostiles(actor)
	if !ok || dist <= tk.DistanceToNearestHostile(actor, actor.Position) {
		return Decision{}, false
	}
	return Use(opt.Action, opt.Cell, priority, "retreat"), true
}

// IsLowHealth compares the actor's HP ratio against the configured threshold
func (tk *Toolkit) IsLowHealth(actor *core.Entity) bool {
	return actor.HealthRatio() < tk.Settings.LowHealthThreshold
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
