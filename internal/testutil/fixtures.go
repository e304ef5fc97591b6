package testutil

import (
	"github.com/mitchelldurbincs/hextactics/internal/game/battlefield"
	"github.com/mitchelldurbincs/hextactics/internal/game/core"
)

// NewEntity creates a living entity with full hit points
func NewEntity(id string, kind core.Kind, col, row int, hp float64) *core.Entity {
	return &core.Entity{
		ID:         id,
		Name:       id,
		Kind:       kind,
		Position:   core.HexCell{Col: col, Row: row},
		CurrentHP:  hp,
		MaxHP:      hp,
		Initiative: 10,
		Speed:      10,
	}
}

// NewTestBattlefield creates a battlefield and registers the given entities.
// The first KindPlayer entity becomes the designated player.
func NewTestBattlefield(width, height int, entities ...*core.Entity) *battlefield.Battlefield {
	bf := battlefield.New(width, height)
	for _, e := range entities {
		if err := bf.AddEntity(e); err != nil {
			panic(err)
		}
		if e.Kind == core.KindPlayer && bf.PlayerID() == "" {
			_ = bf.SetPlayer(e.ID)
		}
	}
	return bf
}
