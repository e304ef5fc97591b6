// Package battlefield holds the mutable state of one battle: grid bounds,
// permanently blocked tiles and the entity registry.
//
// Entities live in an arena keyed by stable ID. A separate cell index maps
// each occupied cell to the ID of its living occupant; Move updates both in
// one step so a cell never has two occupants. Defeated entities stay in the
// arena (AllEntities still reports them) but release their cell.
package battlefield

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/hextactics/internal/game/core"
)

type Battlefield struct {
	width, height int
	blocked       core.CellSet

	entities  map[string]*core.Entity
	order     []string
	cellIndex map[core.HexCell]string
	playerID  string

	logger zerolog.Logger
}

// Option configures a Battlefield
type Option func(*Battlefield)

// WithBlocked marks cells as permanently impassable
func WithBlocked(cells ...core.HexCell) Option {
	return func(b *Battlefield) {
		b.blocked.AddAll(cells)
	}
}

// WithLogger sets the logger used for registry changes
func WithLogger(logger zerolog.Logger) Option {
	return func(b *Battlefield) {
		b.logger = logger.With().Str("component", "battlefield").Logger()
	}
}

// New creates an empty battlefield of the given size
func New(width, height int, opts ...Option) *Battlefield {
	b := &Battlefield{
		width:     width,
		height:    height,
		blocked:   core.NewCellSet(),
		entities:  make(map[string]*core.Entity),
		cellIndex: make(map[core.HexCell]string),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Battlefield) Width() int  { return b.width }
func (b *Battlefield) Height() int { return b.height }

// InBounds checks if a cell is inside the configured grid
func (b *Battlefield) InBounds(c core.HexCell) bool {
	return c.Col >= 0 && c.Col < b.width && c.Row >= 0 && c.Row < b.height
}

// IsBlocked reports whether a cell is a permanently blocked tile
func (b *Battlefield) IsBlocked(c core.HexCell) bool {
	return b.blocked.Contains(c)
}

// SetBlocked marks or clears a blocked tile. Occupied cells cannot be blocked.
func (b *Battlefield) SetBlocked(c core.HexCell, blocked bool) error {
	if !blocked {
		b.blocked.Remove(c)
		return nil
	}
	if !b.InBounds(c) {
		return fmt.Errorf("block %s: %w", c, core.ErrInvalidCell)
	}
	if b.IsOccupied(c) {
		return fmt.Errorf("block %s: %w", c, core.ErrCellOccupied)
	}
	b.blocked.Add(c)
	return nil
}

// BlockedCells returns the blocked tiles in (col,row) order
func (b *Battlefield) BlockedCells() []core.HexCell {
	return b.blocked.Cells()
}

// IsValidCell checks the cell is inside the grid and not blocked
func (b *Battlefield) IsValidCell(c core.HexCell) bool {
	return b.InBounds(c) && !b.blocked.Contains(c)
}

// ValidCells returns every valid cell in (col,row) order
func (b *Battlefield) ValidCells() []core.HexCell {
	cells := make([]core.HexCell, 0, b.width*b.height)
	for col := 0; col < b.width; col++ {
		for row := 0; row < b.height; row++ {
			c := core.HexCell{Col: col, Row: row}
			if !b.blocked.Contains(c) {
				cells = append(cells, c)
			}
		}
	}
	return cells
}

// AddEntity registers an entity at its Position. An empty ID is replaced by
// a generated one.
func (b *Battlefield) AddEntity(e *core.Entity) error {
	if e == nil {
		return fmt.Errorf("add entity: nil entity")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if _, exists := b.entities[e.ID]; exists {
		return core.WrapEntityError(e.ID, "add", core.ErrDuplicateEntity)
	}
	if !b.IsValidCell(e.Position) {
		return core.WrapEntityError(e.ID, "add", core.ErrInvalidCell)
	}
	if e.IsAlive() && b.IsOccupied(e.Position) {
		return core.WrapEntityError(e.ID, "add", core.ErrCellOccupied)
	}
	if e.CurrentHP > e.MaxHP {
		e.CurrentHP = e.MaxHP
	}

	b.entities[e.ID] = e
	b.order = append(b.order, e.ID)
	if e.IsAlive() {
		b.cellIndex[e.Position] = e.ID
	}

	b.logger.Debug().
		Str("entity_id", e.ID).
		Str("kind", e.Kind.String()).
		Str("cell", e.Position.String()).
		Msg("Entity registered")
	return nil
}

// SetPlayer designates the entity whose defeat loses the battle
func (b *Battlefield) SetPlayer(id string) error {
	if _, ok := b.entities[id]; !ok {
		return core.WrapEntityError(id, "set player", core.ErrEntityNotFound)
	}
	b.playerID = id
	return nil
}

// PlayerID returns the designated player entity ID
func (b *Battlefield) PlayerID() string {
	return b.playerID
}

// Player returns the designated player entity
func (b *Battlefield) Player() (*core.Entity, bool) {
	return b.Entity(b.playerID)
}

// PlayerPosition returns the designated player's cell
func (b *Battlefield) PlayerPosition() (core.HexCell, bool) {
	p, ok := b.Player()
	if !ok {
		return core.HexCell{}, false
	}
	return p.Position, true
}

// Entity looks up an entity by ID, alive or not
func (b *Battlefield) Entity(id string) (*core.Entity, bool) {
	e, ok := b.entities[id]
	return e, ok
}

// EntityAt returns the living occupant of a cell
func (b *Battlefield) EntityAt(c core.HexCell) (*core.Entity, bool) {
	id, ok := b.cellIndex[c]
	if !ok {
		return nil, false
	}
	return b.entities[id], true
}

// IsOccupied reports whether a living entity stands on the cell
func (b *Battlefield) IsOccupied(c core.HexCell) bool {
	_, ok := b.cellIndex[c]
	return ok
}

// AllEntities returns every registered entity in registration order
func (b *Battlefield) AllEntities() []*core.Entity {
	out := make([]*core.Entity, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.entities[id])
	}
	return out
}

// AliveEntities returns living entities in registration order
func (b *Battlefield) AliveEntities() []*core.Entity {
	out := make([]*core.Entity, 0, len(b.order))
	for _, id := range b.order {
		if e := b.entities[id]; e.IsAlive() {
			out = append(out, e)
		}
	}
	return out
}

// CountAlive returns the number of living entities per kind
func (b *Battlefield) CountAlive() map[core.Kind]int {
	counts := make(map[core.Kind]int)
	for _, e := range b.AliveEntities() {
		counts[e.Kind]++
	}
	return counts
}

// ApplyDamage damages the living occupant of a cell and returns the HP removed
func (b *Battlefield) ApplyDamage(c core.HexCell, amount float64) (float64, error) {
	e, ok := b.EntityAt(c)
	if !ok {
		return 0, fmt.Errorf("damage %s: %w", c, core.ErrEntityNotFound)
	}
	dealt := e.TakeDamage(amount)
	b.releaseIfDefeated(e)
	return dealt, nil
}

// ApplyHealing heals the living occupant of a cell and returns the HP restored
func (b *Battlefield) ApplyHealing(c core.HexCell, amount float64) (float64, error) {
	e, ok := b.EntityAt(c)
	if !ok {
		return 0, fmt.Errorf("heal %s: %w", c, core.ErrEntityNotFound)
	}
	return e.Heal(amount), nil
}

// ApplyStatus applies a status to the living occupant of a cell
func (b *Battlefield) ApplyStatus(c core.HexCell, status core.StatusEffect) error {
	e, ok := b.EntityAt(c)
	if !ok {
		return fmt.Errorf("apply status %s to %s: %w", status.Name, c, core.ErrEntityNotFound)
	}
	if status.RemainingDuration <= 0 {
		return nil
	}
	e.AddStatus(status)
	return nil
}

// Move relocates a living entity. The old cell is vacated and the new one
// claimed together; on error nothing changes.
func (b *Battlefield) Move(id string, to core.HexCell) error {
	e, ok := b.entities[id]
	if !ok {
		return core.WrapEntityError(id, "move", core.ErrEntityNotFound)
	}
	if !e.IsAlive() {
		return core.WrapEntityError(id, "move", core.ErrEntityDead)
	}
	if to == e.Position {
		return nil
	}
	if !b.IsValidCell(to) {
		return core.WrapEntityError(id, "move", core.ErrInvalidCell)
	}
	if b.IsOccupied(to) {
		return core.WrapEntityError(id, "move", core.ErrCellOccupied)
	}

	from := e.Position
	delete(b.cellIndex, from)
	b.cellIndex[to] = id
	e.Position = to

	b.logger.Debug().
		Str("entity_id", id).
		Str("from", from.String()).
		Str("to", to.String()).
		Msg("Entity moved")
	return nil
}

// StatusTick reports what a round-end status pass did to one entity
type StatusTick struct {
	EntityID string
	Damage   float64
	Healed   float64
	Expired  []string
	Defeated bool
}

// TickStatuses fires every active status on the entity once, then decrements
// durations and drops expired statuses.
func (b *Battlefield) TickStatuses(id string) (StatusTick, error) {
	tick := StatusTick{EntityID: id}
	e, ok := b.entities[id]
	if !ok {
		return tick, core.WrapEntityError(id, "tick statuses", core.ErrEntityNotFound)
	}
	if !e.IsAlive() {
		return tick, core.WrapEntityError(id, "tick statuses", core.ErrEntityDead)
	}

	kept := e.ActiveStatuses[:0]
	for _, s := range e.ActiveStatuses {
		tick.Damage += e.TakeDamage(s.DamagePerTurn)
		tick.Healed += e.Heal(s.HealPerTurn)
		s.RemainingDuration--
		if s.RemainingDuration <= 0 {
			tick.Expired = append(tick.Expired, s.Name)
			continue
		}
		kept = append(kept, s)
	}
	e.ActiveStatuses = kept

	tick.Defeated = b.releaseIfDefeated(e)
	return tick, nil
}

func (b *Battlefield) releaseIfDefeated(e *core.Entity) bool {
	if e.IsAlive() {
		return false
	}
	if b.cellIndex[e.Position] == e.ID {
		delete(b.cellIndex, e.Position)
	}
	b.logger.Debug().
		Str("entity_id", e.ID).
		Str("cell", e.Position.String()).
		Msg("Entity defeated")
	return true
}
