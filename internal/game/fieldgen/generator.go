package fieldgen

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/hextactics/internal/game/ai"
	"github.com/mitchelldurbincs/hextactics/internal/game/battlefield"
	"github.com/mitchelldurbincs/hextactics/internal/game/core"
)

// ErrNoSpawnCell is returned when an entity cannot be placed anywhere
var ErrNoSpawnCell = errors.New("no free cell to spawn entity")

// Config holds configuration for battlefield generation
type Config struct {
	Width           int
	Height          int
	ObstacleRatio   int // 1 blocked tile per N cells, 0 disables obstacles
	MinSpawnSpacing int
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig(w, h int) Config {
	return Config{
		Width:           w,
		Height:          h,
		ObstacleRatio:   12,
		MinSpawnSpacing: 4,
	}
}

// Generator builds battlefields with deterministic RNG
type Generator struct {
	config Config
	rng    *rand.Rand
	logger zerolog.Logger
}

// NewGenerator creates a new battlefield generator
func NewGenerator(config Config, rng *rand.Rand, logger zerolog.Logger) *Generator {
	return &Generator{
		config: config,
		rng:    rng,
		logger: logger.With().Str("component", "fieldgen").Logger(),
	}
}

// Generate creates a battlefield with blocked tiles and places the roster.
// Entity positions are overwritten. The first Player becomes the designated
// player.
func (g *Generator) Generate(roster []*core.Entity) (*battlefield.Battlefield, error) {
	if g.config.Width <= 0 || g.config.Height <= 0 {
		return nil, fmt.Errorf("generate %dx%d battlefield: non-positive size", g.config.Width, g.config.Height)
	}
	field := battlefield.New(g.config.Width, g.config.Height, battlefield.WithLogger(g.logger))

	blocked := g.placeObstacles(field)
	if err := g.placeEntities(field, roster); err != nil {
		return nil, err
	}

	g.logger.Debug().
		Int("width", g.config.Width).
		Int("height", g.config.Height).
		Int("blocked", blocked).
		Int("entities", len(roster)).
		Msg("Generated battlefield")
	return field, nil
}

func (g *Generator) placeObstacles(field *battlefield.Battlefield) int {
	if g.config.ObstacleRatio <= 0 {
		return 0
	}
	want := (g.config.Width * g.config.Height) / g.config.ObstacleRatio
	placed := 0

	maxAttempts := want * 10
	for attempts := 0; placed < want && attempts < maxAttempts; attempts++ {
		c := g.randomCell()
		if field.IsBlocked(c) {
			continue
		}
		if err := field.SetBlocked(c, true); err == nil {
			placed++
		}
	}
	return placed
}

func (g *Generator) placeEntities(field *battlefield.Battlefield, roster []*core.Entity) error {
	var placed []core.HexCell
	for _, e := range roster {
		cell, err := g.findSpawn(field, placed)
		if err != nil {
			return core.WrapEntityError(e.ID, "spawn", err)
		}
		e.Position = cell
		if err := field.AddEntity(e); err != nil {
			return err
		}
		if e.Kind == core.KindPlayer && field.PlayerID() == "" {
			if err := field.SetPlayer(e.ID); err != nil {
				return err
			}
		}
		placed = append(placed, cell)
	}
	return nil
}

func (g *Generator) findSpawn(field *battlefield.Battlefield, existing []core.HexCell) (core.HexCell, error) {
	free := func(c core.HexCell) bool {
		return field.IsValidCell(c) && !field.IsOccupied(c)
	}

	maxAttempts := g.config.Width * g.config.Height
	for attempts := 0; attempts < maxAttempts; attempts++ {
		c := g.randomCell()
		if !free(c) {
			continue
		}
		spaced := true
		for _, other := range existing {
			if core.Distance(c, other) < g.config.MinSpawnSpacing {
				spaced = false
				break
			}
		}
		if spaced {
			return c, nil
		}
	}

	// Spacing could not be met, take the first free cell
	for _, c := range field.ValidCells() {
		if free(c) {
			g.logger.Debug().Str("cell", c.String()).Msg("Spawn spacing relaxed")
			return c, nil
		}
	}
	return core.HexCell{}, ErrNoSpawnCell
}

func (g *Generator) randomCell() core.HexCell {
	return core.HexCell{Col: g.rng.Intn(g.config.Width), Row: g.rng.Intn(g.config.Height)}
}

// SkirmishRoster builds a player and a number of enemies cycling through the
// built-in behaviors. Positions are assigned by Generate.
func SkirmishRoster(enemies int) []*core.Entity {
	behaviors := []string{
		ai.BehaviorAggressive,
		ai.BehaviorBalanced,
		ai.BehaviorDefensive,
		ai.BehaviorSupport,
		ai.BehaviorCowardly,
	}
	roster := []*core.Entity{{
		ID: "hero", Name: "Hero", Kind: core.KindPlayer,
		CurrentHP: 40, MaxHP: 40, Initiative: 12, Speed: 6,
		BehaviorKind: ai.BehaviorBalanced,
	}}
	for i := 0; i < enemies; i++ {
		roster = append(roster, &core.Entity{
			ID:           fmt.Sprintf("enemy-%d", i+1),
			Name:         fmt.Sprintf("Enemy %d", i+1),
			Kind:         core.KindEnemy,
			CurrentHP:    20,
			MaxHP:        20,
			Initiative:   10 - i%3,
			Speed:        5,
			BehaviorKind: behaviors[i%len(behaviors)],
		})
	}
	return roster
}
