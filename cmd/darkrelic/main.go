package main

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ejohnd98/DarkRelic-sub001/internal/config"
	"github.com/ejohnd98/DarkRelic-sub001/internal/core/ecs"
	coresys "github.com/ejohnd98/DarkRelic-sub001/internal/core/system"
	"github.com/ejohnd98/DarkRelic-sub001/internal/data"
	"github.com/ejohnd98/DarkRelic-sub001/internal/scripting"
	"github.com/ejohnd98/DarkRelic-sub001/internal/system"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(name string, seed int64) {
	fmt.Println()
	fmt.Println("\033[31;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[31;1m  │\033[0m             DarkRelic  v0.1.0             \033[31;1m│\033[0m")
	fmt.Println("\033[31;1m  │\033[0m       headless turn simulation core       \033[31;1m│\033[0m")
	fmt.Println("\033[31;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mRun:\033[0m %s \033[90m(seed: %d)\033[0m\n\n", name, seed)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Simulation driver ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/sim.toml"
	if p := os.Getenv("DARKRELIC_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Sim.Name, cfg.Sim.Seed)

	// 3. Load data tables
	printSection("Data")
	abilities, err := data.LoadAbilityTable(cfg.Data.Abilities)
	if err != nil {
		return fmt.Errorf("abilities: %w", err)
	}
	printStat("Abilities", abilities.Count())
	statuses, err := data.LoadStatusTable(cfg.Data.Statuses)
	if err != nil {
		return fmt.Errorf("statuses: %w", err)
	}
	printStat("Statuses", statuses.Count())
	monsters, err := data.LoadMonsterTable(cfg.Data.Monsters)
	if err != nil {
		return fmt.Errorf("monsters: %w", err)
	}
	printStat("Monsters", monsters.Count())

	// 4. Lua formulas
	luaEngine, err := scripting.NewEngine(cfg.Data.ScriptsDir, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer luaEngine.Close()
	printOK("Lua formulas loaded")
	fmt.Println()

	// 5. Build the simulation
	printSection("Arena")
	rng := rand.New(rand.NewSource(cfg.Sim.Seed))
	descent := &dungeon{}
	journal := &consoleJournal{}
	level, err := newArena()
	if err != nil {
		return fmt.Errorf("arena: %w", err)
	}
	view := newSight(level)
	sim := system.New(system.Deps{
		Config:    cfg,
		Log:       log,
		Level:     level,
		Abilities: abilities,
		Statuses:  statuses,
		Monsters:  monsters,
		Formulas:  luaEngine,
		Presenter: &logPresenter{log: log},
		Journal:   journal,
		Knowledge: view,
		Dungeon:   descent,
	})
	spawned, err := populate(sim, level, monsters, rng)
	if err != nil {
		return fmt.Errorf("populate: %w", err)
	}
	printStat("Monsters spawned", spawned)
	fmt.Println()

	sched := system.NewScheduler(sim)
	turns := system.NewTurnSystem(sim, sched, newAutopilot(sim, log))

	actions := 0
	sim.AddListener(func(*system.Action) { actions++ })
	stats := trackPlayer(sim)

	// 6. Create systems and register with runner
	runner := coresys.NewRunner()
	runner.Register(turns)
	runner.Register(system.NewStatusTickSystem(sim))
	runner.Register(system.NewCleanupSystem(sim))

	// 7. Start frame loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Sim.StepRate)
	defer ticker.Stop()

	printSection("Running")
	printReady(fmt.Sprintf("Frame loop started (step: %s)", cfg.Sim.StepRate))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			err := runner.Tick(cfg.Sim.StepRate)
			if errors.Is(err, system.ErrNoActors) {
				log.Info("no one left to act")
				return summary(sim, runner, stats, actions, len(view.explored))
			}
			if err != nil {
				return fmt.Errorf("simulation: %w", err)
			}
			switch {
			case !sim.Alive(sim.Player()):
				log.Info("the player has fallen")
				return summary(sim, runner, stats, actions, len(view.explored))
			case descent.descended:
				log.Info("the player escaped down the stairs")
				return summary(sim, runner, stats, actions, len(view.explored))
			case cfg.Sim.MaxSteps > 0 && runner.Steps() >= uint64(cfg.Sim.MaxSteps):
				log.Info("step limit reached", zap.Int("steps", cfg.Sim.MaxSteps))
				return summary(sim, runner, stats, actions, len(view.explored))
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			return summary(sim, runner, stats, actions, len(view.explored))
		}
	}
}

// runStats holds the player's progress. It is captured when the player
// leaves play, before Cleanup flushes its components.
type runStats struct {
	level int
	blood int
}

func trackPlayer(sim *system.Sim) *runStats {
	st := &runStats{}
	sim.OnRemove(func(id ecs.EntityID) {
		if id == sim.Player() {
			st.capture(sim)
		}
	})
	return st
}

func (r *runStats) capture(sim *system.Sim) {
	id := sim.Player()
	if xp, ok := sim.Experience.Get(id); ok {
		r.level = xp.Level
	}
	if pool, ok := sim.Pools.Get(id); ok {
		r.blood = pool.Blood
	}
}

func summary(sim *system.Sim, runner *coresys.Runner, stats *runStats, actions, explored int) error {
	if sim.Valid(sim.Player()) {
		stats.capture(sim)
	}
	fmt.Println()
	printSection("Summary")
	printStat("Steps", int(runner.Steps()))
	printStat("Actions", actions)
	printStat("Tiles explored", explored)
	printStat("Player level", stats.level)
	printStat("Blood", stats.blood)
	return nil
}

// newLogger creates a zap logger from config.
func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
