package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mitchelldurbincs/hextactics/internal/config"
	"github.com/mitchelldurbincs/hextactics/internal/game/actions"
	"github.com/mitchelldurbincs/hextactics/internal/game/battle"
	"github.com/mitchelldurbincs/hextactics/internal/game/core"
)

var (
	targetsScenario string
	targetsEntity   string
	targetsAt       []int
)

var targetsCmd = &cobra.Command{
	Use:   "targets [action]",
	Short: "Print the valid targets of an action, and optionally the cells it would hit",
	Long:  "Without an action, lists every action the caster can use from where it stands.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  printTargets,
}

func init() {
	targetsCmd.Flags().StringVar(&targetsScenario, "scenario", "", "Scenario file; empty uses the built-in skirmish")
	targetsCmd.Flags().StringVar(&targetsEntity, "entity", "", "Caster entity ID (default: the player)")
	targetsCmd.Flags().IntSliceVar(&targetsAt, "at", nil, "Target cell as col,row to preview affected cells")
}

func printTargets(cmd *cobra.Command, args []string) error {
	bc, err := loadSetup(setupOptions{scenarioPath: targetsScenario, maxRounds: -1}, config.Get(), log.Logger)
	if err != nil {
		return fmt.Errorf("failed to set up battle: %w", err)
	}
	b, err := battle.New(bc)
	if err != nil {
		return fmt.Errorf("failed to create battle: %w", err)
	}

	caster, ok := b.Field().Player()
	if targetsEntity != "" {
		caster, ok = b.Field().Entity(targetsEntity)
	}
	if !ok {
		return core.WrapEntityError(targetsEntity, "preview", core.ErrEntityNotFound)
	}
	out := cmd.OutOrStdout()
	if len(args) == 0 {
		printLegalActions(out, b, caster)
		return nil
	}

	def, err := actions.Resolve(bc.Catalog, caster, args[0])
	if err != nil {
		return err
	}

	targets := b.Targeting().ValidTargets(caster.Position, def)
	fmt.Fprintf(out, "%s from %s %s: %d valid targets\n", def.Name, caster.ID, caster.Position, len(targets))
	for _, c := range targets {
		fmt.Fprintf(out, "  %s%s\n", c, occupantLabel(b, c))
	}

	if len(targetsAt) == 0 {
		return nil
	}
	if len(targetsAt) != 2 {
		return fmt.Errorf("--at needs col,row, got %d values", len(targetsAt))
	}
	target := core.HexCell{Col: targetsAt[0], Row: targetsAt[1]}
	if !b.Targeting().IsValidTarget(caster.Position, target, def) {
		return core.WrapEntityError(caster.ID, def.Name+" at "+target.String(), core.ErrInvalidTarget)
	}
	affected := b.AOE().AffectedCells(caster.Position, target, def)
	fmt.Fprintf(out, "affected by %s at %s: %d cells\n", def.Name, target, len(affected))
	for _, c := range affected {
		fmt.Fprintf(out, "  %s%s\n", c, occupantLabel(b, c))
	}
	return nil
}

// printLegalActions lists the usable actions of caster that have a target
func printLegalActions(out io.Writer, b *battle.Battle, caster *core.Entity) {
	legal := b.LegalActions(caster)
	fmt.Fprintf(out, "%s at %s: %d usable actions\n", caster.ID, caster.Position, len(legal))
	for _, la := range legal {
		fmt.Fprintf(out, "  %-12s %-5s %d targets\n", la.Action.Name, la.Action.Category, len(la.Targets))
	}
}

func occupantLabel(b *battle.Battle, c core.HexCell) string {
	e, ok := b.Field().EntityAt(c)
	if !ok {
		return ""
	}
	return " " + e.ID + " [" + e.Kind.String() + " hp=" + strconv.FormatFloat(e.CurrentHP, 'f', -1, 64) + "]"
}
