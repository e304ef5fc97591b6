package rules

import (
	"github.com/mitchelldurbincs/hextactics/internal/game/actions"
	"github.com/mitchelldurbincs/hextactics/internal/game/core"
	"github.com/mitchelldurbincs/hextactics/internal/game/targeting"
)

// LegalAction is a usable action together with every cell it may target
type LegalAction struct {
	Action  *actions.Definition
	Targets []core.HexCell
}

// LegalActionCalculator computes what an entity may do from where it stands
type LegalActionCalculator struct {
	catalog   actions.Catalog
	targeting *targeting.Engine
}

// NewLegalActionCalculator creates a new legal action calculator
func NewLegalActionCalculator(catalog actions.Catalog, tgt *targeting.Engine) *LegalActionCalculator {
	return &LegalActionCalculator{catalog: catalog, targeting: tgt}
}

// LegalActions returns the usable actions of e that have at least one valid
// target, in catalog order. Dead entities have none.
func (lc *LegalActionCalculator) LegalActions(e *core.Entity) []LegalAction {
	if !e.IsAlive() {
		return nil
	}
	var out []LegalAction
	for _, def := range actions.UsableActions(lc.catalog, e) {
		targets := lc.targeting.ValidTargets(e.Position, def)
		if len(targets) == 0 {
			continue
		}
		out = append(out, LegalAction{Action: def, Targets: targets})
	}
	return out
}
