package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/morphogen/config"
	"github.com/pthm-cable/morphogen/lab"
	"github.com/pthm-cable/morphogen/metrics"
	"github.com/pthm-cable/morphogen/sim"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Log every metrics sample via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV metrics and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config, then time-based)")
	maxSteps := flag.Int("max-steps", 0, "Stop after N integration steps (0 = unlimited)")
	share := flag.String("share", "", "Share link to load on startup")
	preset := flag.String("preset", "", "Preset to apply on startup")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = cfg.Sim.Seed
	}
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	ctrl, err := sim.New(rngSeed)
	if err != nil {
		slog.Error("failed to build simulation", "error", err)
		os.Exit(1)
	}
	defer ctrl.Close()

	if *share != "" {
		if err := ctrl.ApplyShare(*share); err != nil {
			slog.Error("failed to load share link", "error", err, "link", *share)
			os.Exit(1)
		}
	}
	if *preset != "" {
		ctrl.ApplyPreset(*preset)
	}
	if *logStats {
		ctrl.OnMetrics(func(m metrics.Metrics) { m.LogStats() })
	}

	out, err := metrics.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to set up output directory", "error", err)
		os.Exit(1)
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		slog.Warn("failed to write config snapshot", "error", err)
	}
	ctrl.OnMetrics(func(m metrics.Metrics) {
		if err := out.WriteMetrics(m); err != nil {
			slog.Error("failed to write metrics row", "error", err)
		}
	})

	if *headless {
		// Headless mode - pure CPU simulation, no raylib needed
		slog.Info("starting headless run",
			"seed", rngSeed,
			"model", ctrl.Model().ID(),
			"grid_size", ctrl.Size(),
			"max_steps", *maxSteps,
		)

		ctrl.Play()
		for {
			ctrl.Update()

			if *maxSteps > 0 && ctrl.StepCount() >= *maxSteps {
				slog.Info("max steps reached", "step", ctrl.StepCount())
				ctrl.Perf().Log()
				return
			}
		}
	}

	// Graphical mode
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Morphogen")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	l := lab.New(ctrl)
	defer l.Unload()

	for !rl.WindowShouldClose() {
		l.Update()
		l.Draw()

		if *maxSteps > 0 && ctrl.StepCount() >= *maxSteps {
			break
		}
	}
}
