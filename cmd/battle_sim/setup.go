package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/hextactics/internal/config"
	"github.com/mitchelldurbincs/hextactics/internal/game/battle"
	"github.com/mitchelldurbincs/hextactics/internal/game/battlefield"
	"github.com/mitchelldurbincs/hextactics/internal/game/fieldgen"
	"github.com/mitchelldurbincs/hextactics/internal/scenario"
)

// setupOptions selects where the battlefield comes from
type setupOptions struct {
	scenarioPath string
	generate     bool
	enemies      int
	seed         int64
	maxRounds    int
}

// loadSetup builds the battlefield and catalog. A scenario file wins; with
// generate set the field is random and the catalog comes from the built-in
// skirmish; otherwise the built-in skirmish is used as is.
func loadSetup(opts setupOptions, cfg *config.Config, logger zerolog.Logger) (battle.Config, error) {
	settings := cfg.BattleSettings()
	bc := battle.Config{
		AI:              settings.AI,
		DefaultBehavior: settings.DefaultBehavior,
		MaxRounds:       settings.MaxRounds,
		Logger:          logger,
	}

	var (
		file *scenario.File
		err  error
	)
	if opts.scenarioPath != "" {
		file, err = scenario.Load(opts.scenarioPath)
	} else {
		file, err = scenario.Default()
	}
	if err != nil {
		return bc, err
	}
	catalog, err := file.Catalog()
	if err != nil {
		return bc, err
	}
	bc.Catalog = catalog

	var field *battlefield.Battlefield
	if opts.generate && opts.scenarioPath == "" {
		field, err = generateField(opts, cfg, logger)
	} else {
		field, err = file.Battlefield(logger)
		if file.MaxRounds > 0 {
			bc.MaxRounds = file.MaxRounds
		}
	}
	if err != nil {
		return bc, err
	}
	bc.Field = field

	if opts.maxRounds >= 0 {
		bc.MaxRounds = opts.maxRounds
	}
	return bc, nil
}

func generateField(opts setupOptions, cfg *config.Config, logger zerolog.Logger) (*battlefield.Battlefield, error) {
	seed := opts.seed
	if seed == 0 {
		seed = cfg.Sim.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info().Int64("seed", seed).Msg("Generating battlefield")

	if opts.enemies < 1 {
		return nil, fmt.Errorf("generated battle needs at least one enemy, got %d", opts.enemies)
	}
	gen := fieldgen.NewGenerator(cfg.FieldSettings(), rand.New(rand.NewSource(seed)), logger)
	// Generated entities have empty allow-lists and may use the whole catalog
	return gen.Generate(fieldgen.SkirmishRoster(opts.enemies))
}
