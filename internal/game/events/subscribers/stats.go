package subscribers

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/hextactics/internal/game/events"
)

// EntityStats are the running totals for one entity
type EntityStats struct {
	DamageDealt     float64 `json:"damage_dealt"`
	DamageTaken     float64 `json:"damage_taken"`
	HealingDone     float64 `json:"healing_done"`
	HealingReceived float64 `json:"healing_received"`
	StatusDamage    float64 `json:"status_damage"`
	Kills           int     `json:"kills"`
	ActionsTaken    int     `json:"actions_taken"`
	ActionsFailed   int     `json:"actions_failed"`
	Moves           int     `json:"moves"`
	Defeated        bool    `json:"defeated"`
	DefeatedInRound int     `json:"defeated_in_round,omitempty"`
}

// StatsSubscriber accumulates per-entity battle statistics from events.
// Kills go to the last entity that damaged the victim; status deaths are
// credited to nobody.
type StatsSubscriber struct {
	id     string
	logger zerolog.Logger

	mu        sync.Mutex
	entities  map[string]*EntityStats
	lastHitBy map[string]string
	rounds    int
}

// NewStatsSubscriber creates a new statistics subscriber
func NewStatsSubscriber(id string, logger zerolog.Logger) *StatsSubscriber {
	return &StatsSubscriber{
		id:        id,
		logger:    logger.With().Str("component", "battle_stats").Logger(),
		entities:  make(map[string]*EntityStats),
		lastHitBy: make(map[string]string),
	}
}

func (s *StatsSubscriber) ID() string {
	return s.id
}

func (s *StatsSubscriber) InterestedIn(eventType string) bool {
	switch eventType {
	case events.TypeEntityDamaged, events.TypeEntityHealed, events.TypeEntityDefeated,
		events.TypeEntityMoved, events.TypeActionExecuted, events.TypeRoundEnded:
		return true
	}
	return false
}

func (s *StatsSubscriber) HandleEvent(event events.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch e := event.(type) {
	case *events.EntityDamagedEvent:
		s.entity(e.EntityID).DamageTaken += e.Amount
		if e.SourceID == events.SourceStatus {
			s.entity(e.EntityID).StatusDamage += e.Amount
			delete(s.lastHitBy, e.EntityID)
			return
		}
		s.entity(e.SourceID).DamageDealt += e.Amount
		s.lastHitBy[e.EntityID] = e.SourceID

	case *events.EntityHealedEvent:
		s.entity(e.EntityID).HealingReceived += e.Amount
		if e.SourceID != events.SourceStatus {
			s.entity(e.SourceID).HealingDone += e.Amount
		}

	case *events.EntityDefeatedEvent:
		victim := s.entity(e.EntityID)
		victim.Defeated = true
		victim.DefeatedInRound = e.Round
		if killer, ok := s.lastHitBy[e.EntityID]; ok && killer != e.EntityID {
			s.entity(killer).Kills++
		}
		s.logger.Debug().
			Str("entity_id", e.EntityID).
			Str("killer", s.lastHitBy[e.EntityID]).
			Int("round", e.Round).
			Msg("Recorded defeat")

	case *events.EntityMovedEvent:
		s.entity(e.EntityID).Moves++

	case *events.ActionExecutedEvent:
		if e.Error != "" {
			s.entity(e.EntityID).ActionsFailed++
			return
		}
		s.entity(e.EntityID).ActionsTaken++

	case *events.RoundEndedEvent:
		s.rounds = e.Round
	}
}

func (s *StatsSubscriber) entity(id string) *EntityStats {
	st, ok := s.entities[id]
	if !ok {
		st = &EntityStats{}
		s.entities[id] = st
	}
	return st
}

// Snapshot returns a copy of the per-entity statistics
func (s *StatsSubscriber) Snapshot() map[string]EntityStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]EntityStats, len(s.entities))
	for id, st := range s.entities {
		out[id] = *st
	}
	return out
}

// RoundsCompleted is the last round that fully ended
func (s *StatsSubscriber) RoundsCompleted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rounds
}

// TopDamageDealers returns entity IDs by descending damage dealt, ties by ID
func (s *StatsSubscriber) TopDamageDealers(n int) []string {
	snap := s.Snapshot()
	ids := make([]string, 0, len(snap))
	for id, st := range snap {
		if st.DamageDealt > 0 {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		di, dj := snap[ids[i]].DamageDealt, snap[ids[j]].DamageDealt
		if di != dj {
			return di > dj
		}
		return ids[i] < ids[j]
	})
	if n > 0 && len(ids) > n {
		ids = ids[:n]
	}
	return ids
}
