package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Sim         SimConfig         `toml:"sim"`
	Scheduler   SchedulerConfig   `toml:"scheduler"`
	Combat      CombatConfig      `toml:"combat"`
	Progression ProgressionConfig `toml:"progression"`
	Data        DataConfig        `toml:"data"`
	Logging     LoggingConfig     `toml:"logging"`
}

type SimConfig struct {
	Name            string        `toml:"name"`
	StepRate        time.Duration `toml:"step_rate"`
	Seed            int64         `toml:"seed"`
	MaxTurnsPerStep int           `toml:"max_turns_per_step"` // turns resolved before yielding to the frame loop
	MaxSteps        int           `toml:"max_steps"`          // headless driver stop condition (0 = unbounded)
}

type SchedulerConfig struct {
	RecoveryUnit          int `toml:"recovery_unit"`           // debt recovered per recovery pass
	MaxRecoveryIterations int `toml:"max_recovery_iterations"` // bound before the loop is a fatal fault
	DefaultTurnLength     int `toml:"default_turn_length"`
}

type CombatConfig struct {
	BloodFraction       float64 `toml:"blood_fraction"` // share of max health deposited on death
	MinBlood            int     `toml:"min_blood"`
	MaxTransactionDepth int     `toml:"max_transaction_depth"` // nested resolver entries allowed
	AttackMultiplier    float64 `toml:"attack_multiplier"`     // multiplier of a plain melee attack
}

type ProgressionConfig struct {
	ExpBase        int     `toml:"exp_base"`
	ExpGrowth      float64 `toml:"exp_growth"`
	HealthPerLevel int     `toml:"health_per_level"`
	MaxLevel       int     `toml:"max_level"`
}

type DataConfig struct {
	Abilities  string `toml:"abilities"`
	Statuses   string `toml:"statuses"`
	Monsters   string `toml:"monsters"`
	ScriptsDir string `toml:"scripts_dir"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values that would make the scheduler or resolver loop.
func (c *Config) Validate() error {
	if c.Scheduler.RecoveryUnit <= 0 {
		return fmt.Errorf("scheduler.recovery_unit must be positive, got %d", c.Scheduler.RecoveryUnit)
	}
	if c.Scheduler.MaxRecoveryIterations <= 0 {
		return fmt.Errorf("scheduler.max_recovery_iterations must be positive, got %d", c.Scheduler.MaxRecoveryIterations)
	}
	if c.Scheduler.DefaultTurnLength <= 0 {
		return fmt.Errorf("scheduler.default_turn_length must be positive, got %d", c.Scheduler.DefaultTurnLength)
	}
	if c.Combat.MaxTransactionDepth <= 0 {
		return fmt.Errorf("combat.max_transaction_depth must be positive, got %d", c.Combat.MaxTransactionDepth)
	}
	if c.Sim.MaxTurnsPerStep <= 0 {
		return fmt.Errorf("sim.max_turns_per_step must be positive, got %d", c.Sim.MaxTurnsPerStep)
	}
	return nil
}

// Defaults returns the built-in configuration. Load starts from it.
func Defaults() *Config {
	return &Config{
		Sim: SimConfig{
			Name:            "DarkRelic",
			StepRate:        16 * time.Millisecond,
			Seed:            1,
			MaxTurnsPerStep: 64,
			MaxSteps:        2000,
		},
		Scheduler: SchedulerConfig{
			RecoveryUnit:          1,
			MaxRecoveryIterations: 10000,
			DefaultTurnLength:     10,
		},
		Combat: CombatConfig{
			BloodFraction:       0.25,
			MinBlood:            1,
			MaxTransactionDepth: 3,
			AttackMultiplier:    1.0,
		},
		Progression: ProgressionConfig{
			ExpBase:        10,
			ExpGrowth:      1.5,
			HealthPerLevel: 5,
			MaxLevel:       30,
		},
		Data: DataConfig{
			Abilities:  "data/yaml/abilities.yaml",
			Statuses:   "data/yaml/statuses.yaml",
			Monsters:   "data/yaml/monsters.yaml",
			ScriptsDir: "scripts",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
