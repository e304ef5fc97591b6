// Package actions describes what skills, items, moves and talk options do:
// where they may be aimed, what they hit and which filters narrow both.
package actions

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/mitchelldurbincs/hextactics/internal/game/core"
)

// Category groups actions the way an entity's allow-lists do
type Category int

const (
	CategorySkill Category = iota
	CategoryItem
	CategoryMove
	CategoryTalk
)

func (c Category) String() string {
	switch c {
	case CategorySkill:
		return "skill"
	case CategoryItem:
		return "item"
	case CategoryMove:
		return "move"
	case CategoryTalk:
		return "talk"
	default:
		return fmt.Sprintf("Category(%d)", c)
	}
}

// ParseCategory converts a case-insensitive name to a Category
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "skill", "skills":
		return CategorySkill, nil
	case "item", "items":
		return CategoryItem, nil
	case "move", "moves", "movement":
		return CategoryMove, nil
	case "talk":
		return CategoryTalk, nil
	default:
		return CategorySkill, fmt.Errorf("unknown action category %q", s)
	}
}

// RangeMethod selects how the base set of target cells is produced
type RangeMethod int

const (
	// RangeRadius keeps cells at cube distance 1..Range from the origin
	RangeRadius RangeMethod = iota
	// RangePattern translates RangeOffsets relative to the origin
	RangePattern
	// RangeAllTiles starts from every valid cell
	RangeAllTiles
)

func (m RangeMethod) String() string {
	switch m {
	case RangeRadius:
		return "radius"
	case RangePattern:
		return "pattern"
	case RangeAllTiles:
		return "all"
	default:
		return fmt.Sprintf("RangeMethod(%d)", m)
	}
}

// ParseRangeMethod converts a case-insensitive name to a RangeMethod
func ParseRangeMethod(s string) (RangeMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "radius":
		return RangeRadius, nil
	case "pattern":
		return RangePattern, nil
	case "all", "all_tiles":
		return RangeAllTiles, nil
	default:
		return RangeRadius, fmt.Errorf("unknown range method %q", s)
	}
}

// TargetType decides which cells pass the occupant test
type TargetType int

const (
	TargetSelf TargetType = iota
	TargetSingle
	TargetArea
	TargetEnemy
	TargetAlly
	TargetMovement
)

func (t TargetType) String() string {
	switch t {
	case TargetSelf:
		return "self"
	case TargetSingle:
		return "single"
	case TargetArea:
		return "area"
	case TargetEnemy:
		return "enemy"
	case TargetAlly:
		return "ally"
	case TargetMovement:
		return "movement"
	default:
		return fmt.Sprintf("TargetType(%d)", t)
	}
}

// ParseTargetType converts a case-insensitive name to a TargetType
func ParseTargetType(s string) (TargetType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "self":
		return TargetSelf, nil
	case "", "single":
		return TargetSingle, nil
	case "area":
		return TargetArea, nil
	case "enemy":
		return TargetEnemy, nil
	case "ally":
		return TargetAlly, nil
	case "movement", "move":
		return TargetMovement, nil
	default:
		return TargetSingle, fmt.Errorf("unknown target type %q", s)
	}
}

// PermitsSelf reports whether the caster's own cell is a legal target
func (t TargetType) PermitsSelf() bool {
	return t == TargetSelf || t == TargetAlly
}

// AOEMethod selects how a chosen target expands into affected cells
type AOEMethod int

const (
	AOENone AOEMethod = iota
	AOERadius
	AOEPattern
	AOELine
)

func (m AOEMethod) String() string {
	switch m {
	case AOENone:
		return "none"
	case AOERadius:
		return "radius"
	case AOEPattern:
		return "pattern"
	case AOELine:
		return "line"
	default:
		return fmt.Sprintf("AOEMethod(%d)", m)
	}
}

// ParseAOEMethod converts a case-insensitive name to an AOEMethod
func ParseAOEMethod(s string) (AOEMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "single":
		return AOENone, nil
	case "radius":
		return AOERadius, nil
	case "pattern":
		return AOEPattern, nil
	case "line":
		return AOELine, nil
	default:
		return AOENone, fmt.Errorf("unknown aoe method %q", s)
	}
}

// CellEntry is a whitelist/blacklist item: one cell, or a disc of cells
// within Radius of Cell (center included) when Disc is set.
type CellEntry struct {
	Cell   core.HexCell
	Radius int
	Disc   bool
}

// Coordinate creates an entry for a single cell
func Coordinate(c core.HexCell) CellEntry {
	return CellEntry{Cell: c}
}

// Disc creates an entry for every cell within radius of center
func Disc(center core.HexCell, radius int) CellEntry {
	return CellEntry{Cell: center, Radius: radius, Disc: true}
}

// Resolve expands the entry into concrete cells
func (e CellEntry) Resolve() []core.HexCell {
	if !e.Disc {
		return []core.HexCell{e.Cell}
	}
	return core.CellsInRadius(e.Cell, 0, e.Radius)
}

// Filters are independent toggles applied on top of the base range.
// Every filter that is set is enforced.
type Filters struct {
	ExcludeSelf          bool
	ExcludeOccupied      bool
	TargetEmptyCellsOnly bool
	TargetSelfOnly       bool
	ExcludeOrigin        bool
	InverseAOE           bool
	RequiresLineOfSight  bool
	ExcludeTypes         []core.Kind

	Whitelist []CellEntry
	Blacklist []CellEntry
}

// ExcludesKind reports whether occupants of this kind are filtered out
func (f Filters) ExcludesKind(k core.Kind) bool {
	return slices.Contains(f.ExcludeTypes, k)
}

// Definition is the full description of one action
type Definition struct {
	Name        string
	Description string
	Category    Category
	// UsableBy limits which kinds may use the action. Empty means every kind.
	UsableBy []core.Kind

	Damage              float64
	HealAmount          float64
	StatusEffect        string
	StatusDuration      int
	StatusDamagePerTurn float64
	StatusHealPerTurn   float64
	StatusIncapacitates bool

	RangeMethod  RangeMethod
	Range        int
	RangeOffsets []core.HexCell

	TargetType TargetType

	AOEMethod  AOEMethod
	AOERadius  int
	AOEOffsets []core.HexCell
	Overshoot  int

	Filters
}

func (d *Definition) IsDamaging() bool { return d.Damage > 0 }
func (d *Definition) IsHealing() bool  { return d.HealAmount > 0 }

// AppliesStatus reports whether the action carries a status payload
func (d *Definition) AppliesStatus() bool {
	return d.StatusEffect != "" && d.StatusDuration > 0
}

// Status builds the status effect this action applies
func (d *Definition) Status() core.StatusEffect {
	return core.StatusEffect{
		Name:              d.StatusEffect,
		RemainingDuration: d.StatusDuration,
		DamagePerTurn:     d.StatusDamagePerTurn,
		HealPerTurn:       d.StatusHealPerTurn,
		Incapacitating:    d.StatusIncapacitates,
	}
}

// UsableByKind reports whether the given kind may use the action
func (d *Definition) UsableByKind(k core.Kind) bool {
	return len(d.UsableBy) == 0 || slices.Contains(d.UsableBy, k)
}

// Reach is the farthest distance the base range can extend from the origin.
// All-tiles actions report math.MaxInt.
func (d *Definition) Reach() int {
	switch d.RangeMethod {
	case RangeRadius:
		return d.Range
	case RangePattern:
		reach := 0
		for _, off := range d.RangeOffsets {
			reach = max(reach, core.Distance(core.HexCell{}, off))
		}
		return reach
	default:
		return math.MaxInt
	}
}

// Validate checks the definition is internally consistent
func (d *Definition) Validate() error {
	var errs []error
	if d.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if d.Range < 0 {
		errs = append(errs, fmt.Errorf("range must be non-negative, got %d", d.Range))
	}
	if d.RangeMethod == RangePattern && len(d.RangeOffsets) == 0 {
		errs = append(errs, errors.New("pattern range requires at least one offset"))
	}
	if d.AOERadius < 0 || d.Overshoot < 0 {
		errs = append(errs, errors.New("aoe radius and overshoot must be non-negative"))
	}
	if d.AOEMethod == AOEPattern && len(d.AOEOffsets) == 0 {
		errs = append(errs, errors.New("pattern aoe requires at least one offset"))
	}
	if d.Damage < 0 || d.HealAmount < 0 {
		errs = append(errs, errors.New("damage and heal amount must be non-negative"))
	}
	if d.StatusEffect != "" && d.StatusDuration <= 0 {
		errs = append(errs, fmt.Errorf("status %q requires a positive duration", d.StatusEffect))
	}
	for _, e := range append(append([]CellEntry(nil), d.Whitelist...), d.Blacklist...) {
		if e.Disc && e.Radius < 0 {
			errs = append(errs, fmt.Errorf("disc at %s has negative radius", e.Cell))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("action %q: %w", d.Name, err)
	}
	return nil
}
