package actions

//go:generate mockgen -destination=mock/mock_catalog.go -package=actionsmock github.com/mitchelldurbincs/hextactics/internal/game/actions Catalog

import (
	"fmt"

	"github.com/mitchelldurbincs/hextactics/internal/game/core"
)

// Catalog resolves action definitions
type Catalog interface {
	// GetActionDefinition returns the named definition
	// Returns core.ErrActionNotFound if no definition has that name
	GetActionDefinition(name string) (*Definition, error)

	// GetActionsUsableBy returns every definition the kind may use, in
	// catalog order
	GetActionsUsableBy(kind core.Kind) []*Definition
}

// MemoryCatalog is an in-memory Catalog preserving registration order
type MemoryCatalog struct {
	defs  map[string]*Definition
	order []string
}

// NewMemoryCatalog creates a catalog holding the given definitions
func NewMemoryCatalog(defs ...*Definition) (*MemoryCatalog, error) {
	c := &MemoryCatalog{defs: make(map[string]*Definition, len(defs))}
	for _, d := range defs {
		if err := c.Register(d); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Register validates and adds a definition. Names must be unique.
func (c *MemoryCatalog) Register(d *Definition) error {
	if d == nil {
		return fmt.Errorf("register action: nil definition")
	}
	if err := d.Validate(); err != nil {
		return err
	}
	if _, exists := c.defs[d.Name]; exists {
		return fmt.Errorf("action %q already registered", d.Name)
	}
	c.defs[d.Name] = d
	c.order = append(c.order, d.Name)
	return nil
}

func (c *MemoryCatalog) GetActionDefinition(name string) (*Definition, error) {
	d, ok := c.defs[name]
	if !ok {
		return nil, fmt.Errorf("action %q: %w", name, core.ErrActionNotFound)
	}
	return d, nil
}

func (c *MemoryCatalog) GetActionsUsableBy(kind core.Kind) []*Definition {
	var out []*Definition
	for _, name := range c.order {
		if d := c.defs[name]; d.UsableByKind(kind) {
			out = append(out, d)
		}
	}
	return out
}

// Names returns every registered name in registration order
func (c *MemoryCatalog) Names() []string {
	return append([]string(nil), c.order...)
}

func allowList(e *core.Entity, cat Category) []string {
	switch cat {
	case CategorySkill:
		return e.Actions.Skills
	case CategoryItem:
		return e.Actions.Items
	case CategoryMove:
		return e.Actions.Moves
	case CategoryTalk:
		return e.Actions.Talk
	default:
		return nil
	}
}

func allowed(e *core.Entity, d *Definition) bool {
	list := allowList(e, d.Category)
	if len(list) == 0 {
		return true
	}
	for _, name := range list {
		if name == d.Name {
			return true
		}
	}
	return false
}

// UsableActions returns the definitions the entity may use: those its kind may
// use, narrowed by the entity's allow-list for each category.
func UsableActions(catalog Catalog, e *core.Entity) []*Definition {
	var out []*Definition
	for _, d := range catalog.GetActionsUsableBy(e.Kind) {
		if allowed(e, d) {
			out = append(out, d)
		}
	}
	return out
}

// UsableOfCategory filters UsableActions to a single category
func UsableOfCategory(catalog Catalog, e *core.Entity, cat Category) []*Definition {
	var out []*Definition
	for _, d := range UsableActions(catalog, e) {
		if d.Category == cat {
			out = append(out, d)
		}
	}
	return out
}

// Resolve looks up a named action and checks the entity may use it
func Resolve(catalog Catalog, e *core.Entity, name string) (*Definition, error) {
	d, err := catalog.GetActionDefinition(name)
	if err != nil {
		return nil, err
	}
	if !d.UsableByKind(e.Kind) || !allowed(e, d) {
		return nil, core.WrapEntityError(e.ID, "use "+name, core.ErrActionNotUsable)
	}
	return d, nil
}
