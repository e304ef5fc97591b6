// Package ai drives non-player combatants. Each behavior kind maps to a
// Strategy that inspects the battlefield through a shared Toolkit and returns
// one Decision per turn.
package ai

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/hextactics/internal/game/core"
)

// Behavior names understood by the default registry
const (
	BehaviorAggressive = "aggressive"
	BehaviorDefensive  = "defensive"
	BehaviorSupport    = "support"
	BehaviorBalanced   = "balanced"
	BehaviorCowardly   = "cowardly"
)

// Strategy picks an action for one entity's turn
type Strategy interface {
	Name() string
	DecideAction(actor *core.Entity, tk *Toolkit) Decision
}

// Registry dispatches behavior kinds to strategies. Unknown kinds resolve to
// the fallback strategy.
type Registry struct {
	strategies map[string]Strategy
	fallback   string
	logger     zerolog.Logger
}

// NewRegistry creates a registry holding the five built-in strategies
func NewRegistry(fallback string, logger zerolog.Logger) *Registry {
	r := &Registry{
		strategies: make(map[string]Strategy),
		fallback:   normalize(fallback),
		logger:     logger.With().Str("component", "ai_registry").Logger(),
	}
	r.Register(Aggressive{})
	r.Register(Defensive{})
	r.Register(Support{})
	r.Register(Balanced{})
	r.Register(Cowardly{})
	if _, ok := r.strategies[r.fallback]; !ok {
		r.fallback = BehaviorBalanced
	}
	return r
}

// IsBuiltinBehavior reports whether name is one of the built-in strategies
func IsBuiltinBehavior(name string) bool {
	switch normalize(name) {
	case BehaviorAggressive, BehaviorDefensive, BehaviorSupport, BehaviorBalanced, BehaviorCowardly:
		return true
	}
	return false
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds or replaces a strategy under its name
func (r *Registry) Register(s Strategy) {
	r.strategies[normalize(s.Name())] = s
}

// Get returns the strategy for a behavior kind, or the fallback
func (r *Registry) Get(behavior string) Strategy {
	if s, ok := r.strategies[normalize(behavior)]; ok {
		return s
	}
	r.logger.Debug().
		Str("behavior", behavior).
		Str("fallback", r.fallback).
		Msg("Unknown behavior, using fallback strategy")
	return r.strategies[r.fallback]
}

// Names lists registered behavior kinds alphabetically
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Decide runs the actor's strategy. Dead or incapacitated actors and actors
// with no strategy get an invalid decision.
func (r *Registry) Decide(actor *core.Entity, tk *Toolkit) Decision {
	if actor == nil || !actor.IsAlive() {
		return Invalid("actor is not alive")
	}
	if actor.IsIncapacitated() {
		return Invalid("actor is incapacitated")
	}
	s := r.Get(actor.BehaviorKind)
	if s == nil {
		return Invalid("no strategy registered")
	}
	d := s.DecideAction(actor, tk)
	r.logger.Debug().
		Str("entity_id", actor.ID).
		Str("strategy", s.Name()).
		Str("decision", d.String()).
		Msg("Decision made")
	return d
}
