// Package scenario loads battle setups from YAML, JSON or TOML files: the
// grid with its blocked tiles, the entity roster and the action catalog.
package scenario

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mitchelldurbincs/hextactics/internal/game/actions"
	"github.com/mitchelldurbincs/hextactics/internal/game/battlefield"
	"github.com/mitchelldurbincs/hextactics/internal/game/core"
)

//go:embed skirmish.yaml
var skirmish []byte

// File is the decoded form of a scenario file
type File struct {
	Name      string       `mapstructure:"name"`
	MaxRounds int          `mapstructure:"max_rounds"`
	Grid      GridSpec     `mapstructure:"grid"`
	Player    string       `mapstructure:"player"`
	Entities  []EntitySpec `mapstructure:"entities"`
	Actions   []ActionSpec `mapstructure:"actions"`
}

// CellSpec is an offset coordinate
type CellSpec struct {
	Col int `mapstructure:"col"`
	Row int `mapstructure:"row"`
}

func (c CellSpec) cell() core.HexCell {
	return core.HexCell{Col: c.Col, Row: c.Row}
}

// GridSpec describes the battlefield bounds and its blocked tiles
type GridSpec struct {
	Width   int        `mapstructure:"width"`
	Height  int        `mapstructure:"height"`
	Blocked []CellSpec `mapstructure:"blocked"`
}

// StatusSpec is a status an entity starts the battle with
type StatusSpec struct {
	Name           string  `mapstructure:"name"`
	Duration       int     `mapstructure:"duration"`
	DamagePerTurn  float64 `mapstructure:"damage_per_turn"`
	HealPerTurn    float64 `mapstructure:"heal_per_turn"`
	Incapacitating bool    `mapstructure:"incapacitating"`
}

// EntitySpec describes one combatant
type EntitySpec struct {
	ID         string       `mapstructure:"id"`
	Name       string       `mapstructure:"name"`
	Kind       string       `mapstructure:"kind"`
	Col        int          `mapstructure:"col"`
	Row        int          `mapstructure:"row"`
	HP         float64      `mapstructure:"hp"`
	MaxHP      float64      `mapstructure:"max_hp"`
	Initiative int          `mapstructure:"initiative"`
	Speed      int          `mapstructure:"speed"`
	Behavior   string       `mapstructure:"behavior"`
	Skills     []string     `mapstructure:"skills"`
	Items      []string     `mapstructure:"items"`
	Moves      []string     `mapstructure:"moves"`
	Talk       []string     `mapstructure:"talk"`
	Statuses   []StatusSpec `mapstructure:"statuses"`
}

// ActionStatusSpec is the status payload of an action
type ActionStatusSpec struct {
	Name          string  `mapstructure:"name"`
	Duration      int     `mapstructure:"duration"`
	DamagePerTurn float64 `mapstructure:"damage_per_turn"`
	HealPerTurn   float64 `mapstructure:"heal_per_turn"`
	Incapacitates bool    `mapstructure:"incapacitates"`
}

// RangeSpec selects the base target cells
type RangeSpec struct {
	Method   string     `mapstructure:"method"`
	Distance int        `mapstructure:"distance"`
	Offsets  []CellSpec `mapstructure:"offsets"`
}

// AOESpec selects the cells a chosen target expands into
type AOESpec struct {
	Method    string     `mapstructure:"method"`
	Radius    int        `mapstructure:"radius"`
	Offsets   []CellSpec `mapstructure:"offsets"`
	Overshoot int        `mapstructure:"overshoot"`
}

// CellEntrySpec is a whitelist or blacklist item
type CellEntrySpec struct {
	Col    int  `mapstructure:"col"`
	Row    int  `mapstructure:"row"`
	Disc   bool `mapstructure:"disc"`
	Radius int  `mapstructure:"radius"`
}

// FilterSpec mirrors actions.Filters
type FilterSpec struct {
	ExcludeSelf          bool            `mapstructure:"exclude_self"`
	ExcludeOccupied      bool            `mapstructure:"exclude_occupied"`
	TargetEmptyCellsOnly bool            `mapstructure:"target_empty_cells_only"`
	TargetSelfOnly       bool            `mapstructure:"target_self_only"`
	ExcludeOrigin        bool            `mapstructure:"exclude_origin"`
	InverseAOE           bool            `mapstructure:"inverse_aoe"`
	RequiresLineOfSight  bool            `mapstructure:"requires_line_of_sight"`
	ExcludeTypes         []string        `mapstructure:"exclude_types"`
	Whitelist            []CellEntrySpec `mapstructure:"whitelist"`
	Blacklist            []CellEntrySpec `mapstructure:"blacklist"`
}

// ActionSpec describes one catalog entry
type ActionSpec struct {
	Name        string            `mapstructure:"name"`
	Description string            `mapstructure:"description"`
	Category    string            `mapstructure:"category"`
	UsableBy    []string          `mapstructure:"usable_by"`
	Damage      float64           `mapstructure:"damage"`
	Heal        float64           `mapstructure:"heal"`
	Status      *ActionStatusSpec `mapstructure:"status"`
	Range       RangeSpec         `mapstructure:"range"`
	TargetType  string            `mapstructure:"target_type"`
	AOE         AOESpec           `mapstructure:"aoe"`
	Filters     FilterSpec        `mapstructure:"filters"`
}

// Load reads a scenario file. The format follows the file extension.
func Load(path string) (*File, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}
	return decode(v, path)
}

// Parse reads a scenario in the given format ("yaml", "json", "toml")
func Parse(r io.Reader, format string) (*File, error) {
	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("parse %s scenario: %w", format, err)
	}
	return decode(v, "<"+format+">")
}

// Default returns the built-in skirmish scenario
func Default() (*File, error) {
	return Parse(bytes.NewReader(skirmish), "yaml")
}

func decode(v *viper.Viper, source string) (*File, error) {
	f := &File{}
	if err := v.Unmarshal(f); err != nil {
		return nil, fmt.Errorf("decode scenario %s: %w", source, err)
	}
	if f.Name == "" {
		f.Name = source
	}
	return f, nil
}

// Catalog builds the action catalog. Every invalid action is reported.
func (f *File) Catalog() (*actions.MemoryCatalog, error) {
	catalog, _ := actions.NewMemoryCatalog()
	var errs []error
	for _, spec := range f.Actions {
		def, err := spec.Definition()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := catalog.Register(def); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("scenario %s catalog: %w", f.Name, err)
	}
	return catalog, nil
}

// Roster builds the entities in file order
func (f *File) Roster() ([]*core.Entity, error) {
	roster := make([]*core.Entity, 0, len(f.Entities))
	var errs []error
	for _, spec := range f.Entities {
		e, err := spec.Entity()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		roster = append(roster, e)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("scenario %s roster: %w", f.Name, err)
	}
	return roster, nil
}

// Battlefield builds the grid, registers the roster and designates the
// player: the named one, or else the first Player entity
func (f *File) Battlefield(logger zerolog.Logger) (*battlefield.Battlefield, error) {
	if f.Grid.Width <= 0 || f.Grid.Height <= 0 {
		return nil, fmt.Errorf("scenario %s: grid %dx%d must be positive", f.Name, f.Grid.Width, f.Grid.Height)
	}
	blocked := make([]core.HexCell, 0, len(f.Grid.Blocked))
	for _, c := range f.Grid.Blocked {
		blocked = append(blocked, c.cell())
	}
	field := battlefield.New(f.Grid.Width, f.Grid.Height,
		battlefield.WithBlocked(blocked...),
		battlefield.WithLogger(logger),
	)

	roster, err := f.Roster()
	if err != nil {
		return nil, err
	}
	for _, e := range roster {
		if err := field.AddEntity(e); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", f.Name, err)
		}
	}

	playerID := f.Player
	if playerID == "" {
		for _, e := range roster {
			if e.Kind == core.KindPlayer {
				playerID = e.ID
				break
			}
		}
	}
	if playerID == "" {
		return nil, fmt.Errorf("scenario %s: no player entity: %w", f.Name, core.ErrEntityNotFound)
	}
	if err := field.SetPlayer(playerID); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", f.Name, err)
	}
	return field, nil
}

// Entity converts the spec. MaxHP defaults to HP.
func (s EntitySpec) Entity() (*core.Entity, error) {
	kind, err := core.ParseKind(s.Kind)
	if err != nil {
		return nil, fmt.Errorf("entity %q: %w", s.ID, err)
	}
	maxHP := s.MaxHP
	if maxHP == 0 {
		maxHP = s.HP
	}
	name := s.Name
	if name == "" {
		name = s.ID
	}
	e := &core.Entity{
		ID:           s.ID,
		Name:         name,
		Kind:         kind,
		Position:     core.HexCell{Col: s.Col, Row: s.Row},
		CurrentHP:    s.HP,
		MaxHP:        maxHP,
		Initiative:   s.Initiative,
		Speed:        s.Speed,
		BehaviorKind: s.Behavior,
		Actions: core.ActionLists{
			Skills: s.Skills,
			Items:  s.Items,
			Moves:  s.Moves,
			Talk:   s.Talk,
		},
	}
	for _, st := range s.Statuses {
		e.AddStatus(core.StatusEffect{
			Name:              st.Name,
			RemainingDuration: st.Duration,
			DamagePerTurn:     st.DamagePerTurn,
			HealPerTurn:       st.HealPerTurn,
			Incapacitating:    st.Incapacitating,
		})
	}
	return e, nil
}

// Definition converts the spec and validates the result. An empty category
// means skill.
func (s ActionSpec) Definition() (*actions.Definition, error) {
	var errs []error
	parse := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	category := actions.CategorySkill
	if strings.TrimSpace(s.Category) != "" {
		c, err := actions.ParseCategory(s.Category)
		parse(err)
		category = c
	}
	rangeMethod, err := actions.ParseRangeMethod(s.Range.Method)
	parse(err)
	targetType, err := actions.ParseTargetType(s.TargetType)
	parse(err)
	aoeMethod, err := actions.ParseAOEMethod(s.AOE.Method)
	parse(err)
	usableBy, err := parseKinds(s.UsableBy)
	parse(err)
	excluded, err := parseKinds(s.Filters.ExcludeTypes)
	parse(err)
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("action %q: %w", s.Name, err)
	}

	def := &actions.Definition{
		Name:         s.Name,
		Description:  s.Description,
		Category:     category,
		UsableBy:     usableBy,
		Damage:       s.Damage,
		HealAmount:   s.Heal,
		RangeMethod:  rangeMethod,
		Range:        s.Range.Distance,
		RangeOffsets: cells(s.Range.Offsets),
		TargetType:   targetType,
		AOEMethod:    aoeMethod,
		AOERadius:    s.AOE.Radius,
		AOEOffsets:   cells(s.AOE.Offsets),
		Overshoot:    s.AOE.Overshoot,
		Filters: actions.Filters{
			ExcludeSelf:          s.Filters.ExcludeSelf,
			ExcludeOccupied:      s.Filters.ExcludeOccupied,
			TargetEmptyCellsOnly: s.Filters.TargetEmptyCellsOnly,
			TargetSelfOnly:       s.Filters.TargetSelfOnly,
			ExcludeOrigin:        s.Filters.ExcludeOrigin,
			InverseAOE:           s.Filters.InverseAOE,
			RequiresLineOfSight:  s.Filters.RequiresLineOfSight,
			ExcludeTypes:         excluded,
			Whitelist:            entries(s.Filters.Whitelist),
			Blacklist:            entries(s.Filters.Blacklist),
		},
	}
	if s.Status != nil {
		def.StatusEffect = s.Status.Name
		def.StatusDuration = s.Status.Duration
		def.StatusDamagePerTurn = s.Status.DamagePerTurn
		def.StatusHealPerTurn = s.Status.HealPerTurn
		def.StatusIncapacitates = s.Status.Incapacitates
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

func parseKinds(names []string) ([]core.Kind, error) {
	if len(names) == 0 {
		return nil, nil
	}
	kinds := make([]core.Kind, 0, len(names))
	for _, n := range names {
		k, err := core.ParseKind(n)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func cells(specs []CellSpec) []core.HexCell {
	if len(specs) == 0 {
		return nil
	}
	out := make([]core.HexCell, len(specs))
	for i, c := range specs {
		out[i] = c.cell()
	}
	return out
}

func entries(specs []CellEntrySpec) []actions.CellEntry {
	if len(specs) == 0 {
		return nil
	}
	out := make([]actions.CellEntry, len(specs))
	for i, s := range specs {
		c := core.HexCell{Col: s.Col, Row: s.Row}
		if s.Disc {
			out[i] = actions.Disc(c, s.Radius)
		} else {
			out[i] = actions.Coordinate(c)
		}
	}
	return out
}
