package core

import (
	"fmt"
	"strings"
)

// Kind classifies an entity for targeting and turn dispatch
type Kind int

const (
	KindPlayer Kind = iota
	KindAlly
	KindEnemy
	KindNPC
	KindNeutral
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "Player"
	case KindAlly:
		return "Ally"
	case KindEnemy:
		return "Enemy"
	case KindNPC:
		return "NPC"
	case KindNeutral:
		return "Neutral"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// ParseKind converts a case-insensitive name to a Kind
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "player":
		return KindPlayer, nil
	case "ally":
		return KindAlly, nil
	case "enemy":
		return KindEnemy, nil
	case "npc":
		return KindNPC, nil
	case "neutral":
		return KindNeutral, nil
	default:
		return KindNeutral, fmt.Errorf("unknown entity kind %q", s)
	}
}

// AllKinds lists every kind in declaration order
var AllKinds = []Kind{KindPlayer, KindAlly, KindEnemy, KindNPC, KindNeutral}

// Faction groups kinds that fight on the same side
type Faction int

const (
	FactionNone Faction = iota
	FactionParty
	FactionHostile
)

// Faction returns the side this kind fights on
func (k Kind) Faction() Faction {
	switch k {
	case KindPlayer, KindAlly:
		return FactionParty
	case KindEnemy:
		return FactionHostile
	default:
		return FactionNone
	}
}

// IsAllied reports whether two kinds fight on the same side.
// NPC and Neutral kinds are allied with nobody.
func IsAllied(a, b Kind) bool {
	fa := a.Faction()
	return fa != FactionNone && fa == b.Faction()
}

// IsHostile reports whether two kinds fight on opposing sides
func IsHostile(a, b Kind) bool {
	fa, fb := a.Faction(), b.Faction()
	return fa != FactionNone && fb != FactionNone && fa != fb
}

// StatusEffect is a timed effect that fires at round end
type StatusEffect struct {
	Name              string
	RemainingDuration int
	DamagePerTurn     float64
	HealPerTurn       float64
	// Incapacitating statuses keep the entity out of the turn order while active.
	Incapacitating bool
}

// ActionLists are per-entity allow-lists of usable action names, one per
// category. An empty list allows every action of that category.
type ActionLists struct {
	Skills []string
	Items  []string
	Moves  []string
	Talk   []string
}

// Entity is a combatant on the battlefield
type Entity struct {
	ID           string
	Name         string
	Kind         Kind
	Position     HexCell
	CurrentHP    float64
	MaxHP        float64
	Initiative   int
	Speed        int
	BehaviorKind string

	ActiveStatuses []StatusEffect
	ActedThisTurn  bool
	Actions        ActionLists
}

// IsAlive returns true while the entity has hit points left
func (e *Entity) IsAlive() bool {
	return e.CurrentHP > 0
}

// IsPlayerControlled returns true for entities driven by external input
func (e *Entity) IsPlayerControlled() bool {
	return e.Kind == KindPlayer
}

// HealthRatio returns CurrentHP/MaxHP, or 0 when MaxHP is not positive
func (e *Entity) HealthRatio() float64 {
	if e.MaxHP <= 0 {
		return 0
	}
	return e.CurrentHP / e.MaxHP
}

// IsIncapacitated returns true if any active status prevents acting
func (e *Entity) IsIncapacitated() bool {
	for _, s := range e.ActiveStatuses {
		if s.Incapacitating && s.RemainingDuration > 0 {
			return true
		}
	}
	return false
}

// CanAct returns true if the entity belongs in a round's turn order
func (e *Entity) CanAct() bool {
	return e.IsAlive() && !e.IsIncapacitated()
}

// HasStatus reports whether a status with the given name is active
func (e *Entity) HasStatus(name string) bool {
	for _, s := range e.ActiveStatuses {
		if s.Name == name {
			return true
		}
	}
	return false
}

// AddStatus applies a status. Re-applying a status with the same name
// refreshes its duration to the larger of the two instead of stacking.
func (e *Entity) AddStatus(status StatusEffect) {
	for i := range e.ActiveStatuses {
		if e.ActiveStatuses[i].Name == status.Name {
			if status.RemainingDuration > e.ActiveStatuses[i].RemainingDuration {
				e.ActiveStatuses[i].RemainingDuration = status.RemainingDuration
			}
			return
		}
	}
	e.ActiveStatuses = append(e.ActiveStatuses, status)
}

// TakeDamage lowers HP, flooring at 0, and returns the amount actually removed
func (e *Entity) TakeDamage(amount float64) float64 {
	if amount <= 0 || !e.IsAlive() {
		return 0
	}
	before := e.CurrentHP
	e.CurrentHP -= amount
	if e.CurrentHP < 0 {
		e.CurrentHP = 0
	}
	return before - e.CurrentHP
}

// Heal raises HP, capped at MaxHP, and returns the amount actually restored
func (e *Entity) Heal(amount float64) float64 {
	if amount <= 0 || !e.IsAlive() {
		return 0
	}
	before := e.CurrentHP
	e.CurrentHP += amount
	if e.CurrentHP > e.MaxHP {
		e.CurrentHP = e.MaxHP
	}
	return e.CurrentHP - before
}

// Clone returns a deep copy of the entity
func (e *Entity) Clone() *Entity {
	c := *e
	c.ActiveStatuses = append([]StatusEffect(nil), e.ActiveStatuses...)
	c.Actions = ActionLists{
		Skills: append([]string(nil), e.Actions.Skills...),
		Items:  append([]string(nil), e.Actions.Items...),
		Moves:  append([]string(nil), e.Actions.Moves...),
		Talk:   append([]string(nil), e.Actions.Talk...),
	}
	return &c
}
