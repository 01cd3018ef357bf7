// Package config loads the AI's tunable cadences and thresholds from a
// TOML file, the same way engine/network/../whitelist.go persists its
// player list: a typed round-trip through github.com/pelletier/go-toml,
// sentinel errors for the caller-recoverable cases, wrapped errors for
// everything else.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"

	"github.com/ironhearth/tribeai/engine/attack"
	"github.com/ironhearth/tribeai/engine/hostapi"
	"github.com/ironhearth/tribeai/engine/scheduler"
)

// ErrInvalidPersonality is returned by Config.Personality when
// PersonalityName is not a recognized personality. Load does not check it.
var ErrInvalidPersonality = errors.New("config: invalid personality")

// Cadences holds the per-phase reschedule intervals spec.md §4.1 names.
// Every field mirrors one of engine/scheduler's named constants — this is
// the override an operator supplies in place of the built-in default.
type Cadences struct {
	BuildableSweepSeconds  int `toml:"buildable_sweep_seconds"`
	UnusableSweepSeconds   int `toml:"unusable_sweep_seconds"`
	RoadImprovementSeconds int `toml:"road_improvement_seconds"`
	StatisticsSeconds      int `toml:"statistics_seconds"`
	ConstructionSeconds    int `toml:"construction_seconds"`
	ProductionCheckSeconds int `toml:"production_check_seconds"`
	MineCheckSeconds       int `toml:"mine_check_seconds"`
	MilitaryCheckSeconds   int `toml:"military_check_seconds"`
	AttackMinSeconds       int `toml:"attack_min_seconds"`
	AttackMaxSeconds       int `toml:"attack_max_seconds"`
	HelperSiteSeconds      int `toml:"helper_site_seconds"`
}

// Config is the full set of operator-tunable AI knobs (spec.md §4.1, §4.7).
type Config struct {
	PersonalityName string   `toml:"personality"`
	Cadences        Cadences `toml:"cadences"`
}

// Default returns the configuration matching the built-in constants —
// engine/scheduler's named cadences and a normal-aggressiveness Attack
// Planner.
func Default() Config {
	return Config{
		PersonalityName: "normal",
		Cadences: Cadences{
			BuildableSweepSeconds:  int(scheduler.BuildableSweepInterval / hostapi.Second),
			UnusableSweepSeconds:   int(scheduler.UnusableSweepInterval / hostapi.Second),
			RoadImprovementSeconds: int(scheduler.RoadImprovementInterval / hostapi.Second),
			StatisticsSeconds:      int(scheduler.StatisticsInterval / hostapi.Second),
			ConstructionSeconds:    int(scheduler.ConstructionInterval / hostapi.Second),
			ProductionCheckSeconds: int(scheduler.ProductionCheckInterval / hostapi.Second),
			MineCheckSeconds:       int(scheduler.MineCheckInterval / hostapi.Second),
			MilitaryCheckSeconds:   int(scheduler.MilitaryCheckInterval / hostapi.Second),
			AttackMinSeconds:       int(scheduler.AttackMinInterval / hostapi.Second),
			AttackMaxSeconds:       int(scheduler.AttackMaxInterval / hostapi.Second),
			HelperSiteSeconds:      int(scheduler.HelperSiteInterval / hostapi.Second),
		},
	}
}

// Load reads path, falling back to Default (written to path for next time)
// if the file does not yet exist.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := Default()
			if werr := Save(path, cfg); werr != nil {
				return Config{}, werr
			}
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as TOML, creating parent directories as needed.
func Save(path string, cfg Config) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0777); err != nil {
			return fmt.Errorf("config: create directory for %s: %w", path, err)
		}
	}
	encoded, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, encoded, 0644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Personality parses the configured aggressiveness into an
// engine/attack.Personality.
func (c Config) Personality() (attack.Personality, error) {
	switch c.PersonalityName {
	case "", "normal":
		return attack.Normal, nil
	case "aggressive":
		return attack.Aggressive, nil
	case "defensive":
		return attack.Defensive, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidPersonality, c.PersonalityName)
	}
}
