package ai

import (
	"fmt"
	"sort"

	"github.com/mitchelldurbincs/hextactics/internal/game/actions"
	"github.com/mitchelldurbincs/hextactics/internal/game/core"
)

// Priorities used by the built-in strategies
const (
	PriorityAggressiveAttack = 10
	PrioritySelfHeal         = 15
	PriorityRetreat          = 12
	PriorityDefensiveAttack  = 8
	PriorityHealSkill        = 15
	PriorityHealItem         = 14
	PrioritySupportStatus    = 10
	PrioritySupportAttack    = 5
	PriorityReposition       = 6
	PriorityFlee             = 15
)

// Aggressive attacks with its hardest-hitting skill that reaches a hostile,
// aiming at the nearest one
type Aggressive struct{}

func (Aggressive) Name() string { return BehaviorAggressive }

func (Aggressive) DecideAction(actor *core.Entity, tk *Toolkit) Decision {
	for _, def := range tk.DamagingSkills(actor) {
		if target, ok := Nearest(actor.Position, tk.AttackTargets(actor, def)); ok {
			return Use(def, target, PriorityAggressiveAttack, "attack nearest enemy")
		}
	}
	return Skip("no enemy in reach")
}

// Defensive heals or retreats when hurt, otherwise attacks preferring its
// longest-reaching skill
type Defensive struct{}

func (Defensive) Name() string { return BehaviorDefensive }

func (Defensive) DecideAction(actor *core.Entity, tk *Toolkit) Decision {
	if tk.IsLowHealth(actor) {
		if d, ok := tk.SelfHeal(actor, PrioritySelfHeal); ok {
			return d
		}
		if d, ok := tk.Retreat(actor, PriorityRetreat); ok {
			return d
		}
	}

	skills := tk.DamagingSkills(actor)
	sort.SliceStable(skills, func(i, j int) bool {
		return skills[i].Reach() > skills[j].Reach()
	})
	for _, def := range skills {
		if target, ok := Nearest(actor.Position, tk.AttackTargets(actor, def)); ok {
			return Use(def, target, PriorityDefensiveAttack, "ranged attack")
		}
	}
	return Skip("no enemy in reach")
}

// Support keeps allies alive: heal the most wounded, then buff the nearest,
// then attack the weakest enemy
type Support struct{}

func (Support) Name() string { return BehaviorSupport }

func (Support) DecideAction(actor *core.Entity, tk *Toolkit) Decision {
	if d, ok := supportHeal(actor, tk); ok {
		return d
	}
	if d, ok := supportStatus(actor, tk); ok {
		return d
	}
	if d, ok := attackWeakest(actor, tk); ok {
		return d
	}
	return Skip("nothing to support")
}

func supportHeal(actor *core.Entity, tk *Toolkit) (Decision, bool) {
	var (
		best      Decision
		bestRatio = 2.0
	)
	sources := []struct {
		cat      actions.Category
		priority int
	}{
		{actions.CategorySkill, PriorityHealSkill},
		{actions.CategoryItem, PriorityHealItem},
	}
	for _, src := range sources {
		for _, def := range tk.HealingActions(actor, src.cat) {
			for _, c := range tk.Targets(actor, def) {
				occ, ok := tk.IsAllyOccupied(actor, c)
				if !ok || occ.CurrentHP >= occ.MaxHP {
					continue
				}
				if r := occ.HealthRatio(); r < bestRatio {
					bestRatio = r
					best = Use(def, c, src.priority, fmt.Sprintf("heal %s", occ.ID))
				}
			}
		}
	}
	return best, best.Valid
}

func supportStatus(actor *core.Entity, tk *Toolkit) (Decision, bool) {
	for _, def := range actions.UsableOfCategory(tk.Catalog, actor, actions.CategorySkill) {
		if def.IsDamaging() || !def.AppliesStatus() {
			continue
		}
		var cells []core.HexCell
		for _, c := range tk.Targets(actor, def) {
			occ, ok := tk.IsAllyOccupied(actor, c)
			if !ok || occ.ID == actor.ID || occ.HasStatus(def.StatusEffect) {
				continue
			}
			cells = append(cells, c)
		}
		if target, ok := Nearest(actor.Position, cells); ok {
			return Use(def, target, PrioritySupportStatus, "buff nearest ally"), true
		}
	}
	return Decision{}, false
}

func attackWeakest(actor *core.Entity, tk *Toolkit) (Decision, bool) {
	var (
		best      Decision
		bestRatio = 2.0
	)
	for _, def := range tk.DamagingSkills(actor) {
		for _, c := range tk.AttackTargets(actor, def) {
			occ, _ := tk.Field.EntityAt(c)
			if r := occ.HealthRatio(); r < bestRatio {
				bestRatio = r
				best = Use(def, c, PrioritySupportAttack, fmt.Sprintf("attack weakest %s", occ.ID))
			}
		}
	}
	return best, best.Valid
}

// Balanced weighs attacks against positioning around an ideal range
type Balanced struct{}

func (Balanced) Name() string { return BehaviorBalanced }

func (Balanced) DecideAction(actor *core.Entity, tk *Toolkit) Decision {
	if tk.IsLowHealth(actor) {
		if d, ok := tk.SelfHeal(actor, PrioritySelfHeal); ok {
			return d
		}
		if d, ok := tk.Retreat(actor, PriorityRetreat); ok {
			return d
		}
	}

	attack, found := bestScoredAttack(actor, tk)
	if found && attack.Priority >= tk.Settings.AttackPriorityThreshold {
		return attack
	}
	if d, ok := reposition(actor, tk); ok {
		return d
	}
	if found {
		return attack
	}
	return Skip("no useful action")
}

// AttackScore rates hitting target with def: base 5, +3 below 25% HP or +2
// below 50%, +damage/10, +2 when adjacent
func AttackScore(actor *core.Entity, target *core.Entity, def *actions.Definition) int {
	score := 5
	switch ratio := target.HealthRatio(); {
	case ratio < 0.25:
		score += 3
	case ratio < 0.5:
		score += 2
	}
	score += int(def.Damage / 10)
	if core.Distance(actor.Position, target.Position) <= 1 {
		score += 2
	}
	return score
}

func bestScoredAttack(actor *core.Entity, tk *Toolkit) (Decision, bool) {
	var best Decision
	for _, def := range tk.DamagingSkills(actor) {
		for _, c := range tk.AttackTargets(actor, def) {
			occ, _ := tk.Field.EntityAt(c)
			if score := AttackScore(actor, occ, def); !best.Valid || score > best.Priority {
				best = Use(def, c, score, fmt.Sprintf("scored attack on %s", occ.ID))
			}
		}
	}
	return best, best.Valid
}

func reposition(actor *core.Entity, tk *Toolkit) (Decision, bool) {
	current := tk.DistanceToNearestHostile(actor, actor.Position)
	if current == maxDistance {
		return Decision{}, false
	}
	ideal := tk.Settings.IdealRange
	bestGap := abs(current - ideal)
	var best Decision
	for _, opt := range tk.MoveOptions(actor) {
		gap := abs(tk.DistanceToNearestHostile(actor, opt.Cell) - ideal)
		if gap < bestGap {
			bestGap = gap
			best = Use(opt.Action, opt.Cell, PriorityReposition, "move toward ideal range")
		}
	}
	return best, best.Valid
}

// Cowardly never fights; it always runs from the nearest hostile
type Cowardly struct{}

func (Cowardly) Name() string { return BehaviorCowardly }

func (Cowardly) DecideAction(actor *core.Entity, tk *Toolkit) Decision {
	opt, _, ok := tk.FarthestFromHostiles(actor)
	if !ok {
		return Skip("nowhere to flee")
	}
	return Use(opt.Action, opt.Cell, PriorityFlee, "flee")
}
