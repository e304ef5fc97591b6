package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/mitchelldurbincs/hextactics/internal/game/ai"
	"github.com/mitchelldurbincs/hextactics/internal/game/fieldgen"
)

// Config holds all configuration for the application
type Config struct {
	Battle BattleConfig `mapstructure:"battle"`
	AI     AIConfig     `mapstructure:"ai"`
	Log    LogConfig    `mapstructure:"log"`
	Sim    SimConfig    `mapstructure:"sim"`
}

// BattleConfig holds battle rules settings
type BattleConfig struct {
	Grid      GridConfig `mapstructure:"grid"`
	MaxRounds int        `mapstructure:"max_rounds"`
}

// GridConfig holds the battlefield size used when no scenario is loaded
type GridConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// AIConfig holds decision tuning shared by every strategy
type AIConfig struct {
	LowHealthThreshold      float64 `mapstructure:"low_health_threshold"`
	AttackPriorityThreshold int     `mapstructure:"attack_priority_threshold"`
	IdealRange              int     `mapstructure:"ideal_range"`
	DefaultBehavior         string  `mapstructure:"default_behavior"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SimConfig holds settings for simulated battles on generated fields
type SimConfig struct {
	Seed            int64 `mapstructure:"seed"` // 0 means time based
	ObstacleRatio   int   `mapstructure:"obstacle_ratio"`
	MinSpawnSpacing int   `mapstructure:"min_spawn_spacing"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

var validLogFormats = []string{"console", "json"}

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	// Battle defaults
	v.SetDefault("battle.grid.width", 12)
	v.SetDefault("battle.grid.height", 10)
	v.SetDefault("battle.max_rounds", 100)

	// AI defaults
	defaults := ai.DefaultSettings()
	v.SetDefault("ai.low_health_threshold", defaults.LowHealthThreshold)
	v.SetDefault("ai.attack_priority_threshold", defaults.AttackPriorityThreshold)
	v.SetDefault("ai.ideal_range", defaults.IdealRange)
	v.SetDefault("ai.default_behavior", ai.BehaviorBalanced)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Simulation defaults
	v.SetDefault("sim.seed", 0)
	v.SetDefault("sim.obstacle_ratio", 12)
	v.SetDefault("sim.min_spawn_spacing", 4)
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()

	// Set defaults before loading any config
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/hextactics")
	}

	v.SetEnvPrefix("HEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing file at an explicit path falls back to defaults; for the
		// search paths only ConfigFileNotFoundError is ignored
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath == "" {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// LoadEnvironmentConfig merges config.<env>.yaml over the loaded config
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	envFile := fmt.Sprintf("config.%s.yaml", env)

	v.SetConfigFile(envFile)
	if err := v.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error merging environment config %s: %w", envFile, err)
		}
	}

	merged := &Config{}
	if err := v.Unmarshal(merged); err != nil {
		return fmt.Errorf("unable to decode merged config into struct: %w", err)
	}
	if err := Validate(merged); err != nil {
		return fmt.Errorf("merged config validation failed: %w", err)
	}
	cfg = merged

	return nil
}

// Set allows runtime config updates
func Set(key string, value interface{}) {
	v.Set(key, value)
	_ = v.Unmarshal(cfg)
}

// GetString gets a string value from config
func GetString(key string) string {
	return v.GetString(key)
}

// GetInt gets an int value from config
func GetInt(key string) int {
	return v.GetInt(key)
}

// GetBool gets a bool value from config
func GetBool(key string) bool {
	return v.GetBool(key)
}

// GetFloat64 gets a float64 value from config
func GetFloat64(key string) float64 {
	return v.GetFloat64(key)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of the config file. onChange receives
// the new config only when it validates; an invalid file keeps the old one.
func WatchConfig(onChange func(*Config)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		handleConfigChange(e, onChange)
	})
	v.WatchConfig()
}

func handleConfigChange(e fsnotify.Event, onChange func(*Config)) {
	if err := reload(e, onChange); err != nil {
		log.Warn().Err(err).Str("file", e.Name).Msg("Config reload rejected, keeping previous config")
		return
	}
	log.Info().Str("file", e.Name).Msg("Config reloaded")
}

func reload(e fsnotify.Event, onChange func(*Config)) error {
	next := &Config{}
	if err := v.Unmarshal(next); err != nil {
		return fmt.Errorf("reload %s: %w", e.Name, err)
	}
	if err := Validate(next); err != nil {
		return fmt.Errorf("reload %s: %w", e.Name, err)
	}
	cfg = next
	if onChange != nil {
		onChange(next)
	}
	return nil
}

// Validate validates the configuration values
func Validate(c *Config) error {
	if c.Battle.Grid.Width <= 0 || c.Battle.Grid.Height <= 0 {
		return fmt.Errorf("battle.grid dimensions must be positive")
	}
	if c.Battle.MaxRounds < 0 {
		return fmt.Errorf("battle.max_rounds must be non-negative")
	}

	if c.AI.LowHealthThreshold < 0 || c.AI.LowHealthThreshold > 1 {
		return fmt.Errorf("ai.low_health_threshold must be between 0 and 1")
	}
	if c.AI.AttackPriorityThreshold < 0 {
		return fmt.Errorf("ai.attack_priority_threshold must be non-negative")
	}
	if c.AI.IdealRange < 1 {
		return fmt.Errorf("ai.ideal_range must be at least 1")
	}
	if !ai.IsBuiltinBehavior(c.AI.DefaultBehavior) {
		return fmt.Errorf("ai.default_behavior %q is not a known behavior", c.AI.DefaultBehavior)
	}

	if !isValidLogFormat(c.Log.Format) {
		return fmt.Errorf("log.format must be one of %v", validLogFormats)
	}

	if c.Sim.ObstacleRatio < 0 {
		return fmt.Errorf("sim.obstacle_ratio must be non-negative")
	}
	if c.Sim.MinSpawnSpacing < 1 {
		return fmt.Errorf("sim.min_spawn_spacing must be at least 1")
	}

	return nil
}

func isValidLogFormat(f string) bool {
	for _, valid := range validLogFormats {
		if f == valid {
			return true
		}
	}
	return false
}

// AISettings projects the ai section into the kernel's settings struct
func (c *Config) AISettings() ai.Settings {
	return ai.Settings{
		LowHealthThreshold:      c.AI.LowHealthThreshold,
		AttackPriorityThreshold: c.AI.AttackPriorityThreshold,
		IdealRange:              c.AI.IdealRange,
	}
}

// BattleSettings holds the battle rules a scheduler is configured with
type BattleSettings struct {
	MaxRounds       int
	DefaultBehavior string
	AI              ai.Settings
}

// BattleSettings projects the battle and ai sections for the scheduler
func (c *Config) BattleSettings() BattleSettings {
	return BattleSettings{
		MaxRounds:       c.Battle.MaxRounds,
		DefaultBehavior: strings.ToLower(strings.TrimSpace(c.AI.DefaultBehavior)),
		AI:              c.AISettings(),
	}
}

// FieldSettings projects the grid and sim sections for the field generator
func (c *Config) FieldSettings() fieldgen.Config {
	return fieldgen.Config{
		Width:           c.Battle.Grid.Width,
		Height:          c.Battle.Grid.Height,
		ObstacleRatio:   c.Sim.ObstacleRatio,
		MinSpawnSpacing: c.Sim.MinSpawnSpacing,
	}
}
