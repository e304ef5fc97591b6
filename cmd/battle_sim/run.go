package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mitchelldurbincs/hextactics/internal/config"
	"github.com/mitchelldurbincs/hextactics/internal/game/ai"
	"github.com/mitchelldurbincs/hextactics/internal/game/battle"
	"github.com/mitchelldurbincs/hextactics/internal/game/events/subscribers"
)

var (
	runOpts      = setupOptions{maxRounds: -1}
	autopilot    string
	logEvents    bool
	eventTypes   []string
	eventDevMode bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate a battle with an autopilot playing the player",
	Long: `Simulate a full battle. The player is driven by an AI strategy through the
same select-action / select-target calls a UI would make.`,
	RunE: runBattle,
}

func init() {
	runCmd.Flags().StringVar(&runOpts.scenarioPath, "scenario", "", "Scenario file (yaml, json or toml); empty uses the built-in skirmish")
	runCmd.Flags().BoolVar(&runOpts.generate, "generate", false, "Generate a random battlefield instead of using the skirmish layout")
	runCmd.Flags().IntVar(&runOpts.enemies, "enemies", 3, "Number of enemies on a generated battlefield")
	runCmd.Flags().Int64Var(&runOpts.seed, "seed", 0, "RNG seed for generated battlefields (0 to use config, then time)")
	runCmd.Flags().IntVar(&runOpts.maxRounds, "max-rounds", -1, "Round limit (-1 to use scenario or config default, 0 for none)")
	runCmd.Flags().StringVar(&autopilot, "autopilot", ai.BehaviorBalanced, "Strategy that plays the player's turns")
	runCmd.Flags().BoolVar(&logEvents, "events", false, "Log every battle event")
	runCmd.Flags().StringSliceVar(&eventTypes, "event-types", nil, "Only log these event types (with --events)")
	runCmd.Flags().BoolVar(&eventDevMode, "events-dev", false, "Include full event payloads in event logs")
}

type runSummary struct {
	BattleID        string                             `json:"battle_id"`
	Victory         bool                               `json:"victory"`
	Reason          string                             `json:"reason"`
	Rounds          int                                `json:"rounds"`
	TurnsTaken      int                                `json:"turns_taken"`
	SurvivorsByKind map[string]int                     `json:"survivors_by_kind"`
	TopDamage       []string                           `json:"top_damage"`
	Entities        map[string]subscribers.EntityStats `json:"entities"`
}

func runBattle(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info().Str("signal", sig.String()).Msg("Received shutdown signal, stopping battle")
			cancel()
		case <-ctx.Done():
		}
	}()

	bc, err := loadSetup(runOpts, config.Get(), log.Logger)
	if err != nil {
		return fmt.Errorf("failed to set up battle: %w", err)
	}
	b, err := battle.New(bc)
	if err != nil {
		return fmt.Errorf("failed to create battle: %w", err)
	}

	stats := subscribers.NewStatsSubscriber("stats", log.Logger)
	b.EventBus().Subscribe(stats)
	if logEvents {
		sub := subscribers.NewLoggerSubscriber("event-log", log.Logger, zerolog.InfoLevel)
		sub.SetEventFilter(eventTypes)
		sub.SetDevMode(eventDevMode)
		b.EventBus().Subscribe(sub)
	}

	log.Info().
		Str("battle_id", b.ID()).
		Int("width", b.Field().Width()).
		Int("height", b.Field().Height()).
		Str("autopilot", autopilot).
		Msg("Starting battle")

	res, err := battle.NewAutoPilot(b, autopilot).Run(ctx)
	if err != nil {
		return fmt.Errorf("battle aborted: %w", err)
	}

	data, err := json.MarshalIndent(runSummary{
		BattleID:        b.ID(),
		Victory:         res.Victory,
		Reason:          res.Reason,
		Rounds:          res.Rounds,
		TurnsTaken:      res.TurnsTaken,
		SurvivorsByKind: res.SurvivorsByKind,
		TopDamage:       stats.TopDamageDealers(3),
		Entities:        stats.Snapshot(),
	}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
