// Package config provides the server configuration, loaded from an
// optional YAML file with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"pokerarena-server/internal/util"
	"pokerarena-server/pkg/arena"
	"pokerarena-server/pkg/deck"
	"pokerarena-server/pkg/poker/ai"
	"pokerarena-server/pkg/poker/holdem"
	"pokerarena-server/pkg/poker/scoreboard"
)

// Config provides configuration for the poker arena server
type Config struct {
	loaded         bool
	Addr           string `yaml:"addr" envconfig:"addr"`
	LogLevel       string `yaml:"logLevel" envconfig:"log_level"`
	LogFormat      string `yaml:"logFormat" envconfig:"log_format"`
	PGDSN          string `yaml:"pgDsn" envconfig:"pg_dsn"`
	MigrationsPath string `yaml:"migrationsPath" envconfig:"migrations_path"`
	JWT            struct {
		PublicKey  string `yaml:"publicKey" envconfig:"public_key"`
		PrivateKey string `yaml:"privateKey" envconfig:"private_key"`
	}
	Game struct {
		Variant      string `yaml:"variant" envconfig:"variant"`
		SmallBlind   int    `yaml:"smallBlind" envconfig:"small_blind"`
		BigBlind     int    `yaml:"bigBlind" envconfig:"big_blind"`
		InitialChips int    `yaml:"initialChips" envconfig:"initial_chips"`
		MaxHands     int    `yaml:"maxHands" envconfig:"max_hands"`
	}
	Delays struct {
		StreetMS int `yaml:"streetMs" envconfig:"street_ms"`
		ThinkMS  int `yaml:"thinkMs" envconfig:"think_ms"`
		RunoutMS int `yaml:"runoutMs" envconfig:"runout_ms"`
	}
	AI struct {
		Providers []ai.ProviderConfig `yaml:"providers"`
	}
}

var config Config

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration. A missing config file is not an
// error; defaults and environment variables still apply.
func Load() error {
	config = DefaultConfig()

	configFile := util.Getenv("ARENA_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		defer func() {
			_ = file.Close()
		}()

		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("arena", &config); err != nil {
		return err
	}

	config.loaded = true
	return nil
}

// DefaultConfig returns the configuration before any file or
// environment overrides
func DefaultConfig() Config {
	c := Config{
		Addr:           ":5080",
		LogLevel:       "info",
		LogFormat:      "text",
		MigrationsPath: "./sql",
	}

	c.Game.Variant = string(deck.Standard)
	c.Game.SmallBlind = holdem.DefaultSmallBlind
	c.Game.BigBlind = holdem.DefaultBigBlind
	c.Game.InitialChips = holdem.DefaultInitialChips
	c.Game.MaxHands = scoreboard.DefaultMaxRounds

	delays := arena.DefaultDelays()
	c.Delays.StreetMS = int(delays.Street / time.Millisecond)
	c.Delays.ThinkMS = int(delays.Think / time.Millisecond)
	c.Delays.RunoutMS = int(delays.Runout / time.Millisecond)

	return c
}

// GameOptions converts the game section into table options
func (c Config) GameOptions() (holdem.Options, error) {
	variant, err := deck.VariantFromString(c.Game.Variant)
	if err != nil {
		return holdem.Options{}, fmt.Errorf("config: %w", err)
	}

	return holdem.Options{
		Variant:      variant,
		SmallBlind:   c.Game.SmallBlind,
		BigBlind:     c.Game.BigBlind,
		InitialChips: c.Game.InitialChips,
	}, nil
}

// ArenaDelays converts the delay section into session pacing
func (c Config) ArenaDelays() arena.Delays {
	return arena.Delays{
		Street: time.Duration(c.Delays.StreetMS) * time.Millisecond,
		Think:  time.Duration(c.Delays.ThinkMS) * time.Millisecond,
		Runout: time.Duration(c.Delays.RunoutMS) * time.Millisecond,
	}
}
