package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/andrescamacho/lpg-dispatch/internal/adapters/api"
	"github.com/andrescamacho/lpg-dispatch/internal/adapters/metrics"
	"github.com/andrescamacho/lpg-dispatch/internal/adapters/persistence"
	"github.com/andrescamacho/lpg-dispatch/internal/application/common"
	"github.com/andrescamacho/lpg-dispatch/internal/application/control"
	"github.com/andrescamacho/lpg-dispatch/internal/application/planner"
	"github.com/andrescamacho/lpg-dispatch/internal/application/simulation"
	"github.com/andrescamacho/lpg-dispatch/internal/domain/planning"
	"github.com/andrescamacho/lpg-dispatch/internal/infrastructure/config"
	"github.com/andrescamacho/lpg-dispatch/internal/infrastructure/database"
)

const (
	exitInterrupt = 130

	runProgressInterval = 30 * time.Second
)

func main() {
	root := &cobra.Command{
		Use:           "lpg-dispatch",
		Short:         "LPG tanker fleet dispatch simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCommand())

	if err := root.Execute(); err != nil {
		log.Printf("error: %v", err)
		os.Exit(1)
	}
}

func newServeCommand() *cobra.Command {
	var (
		port       int
		dataDir    string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the data directory and serve the control API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.Server.Port = port
			}
			if dataDir != "" {
				cfg.Server.DataDir = dataDir
			}
			return serve(cfg)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "port to bind the control API (overrides config)")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "directory with initial orders/blockages/maintenance files")
	cmd.Flags().StringVar(&configPath, "config", "", "path to config file")
	return cmd
}

func serve(cfg *config.Config) error {
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	var simCollector *metrics.SimulationMetricsCollector
	var commandCollector *metrics.CommandMetricsCollector
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		simCollector = metrics.NewSimulationMetricsCollector()
		if err := simCollector.Register(); err != nil {
			return fmt.Errorf("failed to register simulation metrics: %w", err)
		}
		commandCollector = metrics.NewCommandMetricsCollector()
		if err := commandCollector.Register(); err != nil {
			return fmt.Errorf("failed to register command metrics: %w", err)
		}
	}

	env, monthBase, err := buildEnvironment()
	if err != nil {
		return fmt.Errorf("failed to build environment: %w", err)
	}

	timing := planning.DefaultTiming()
	timing.TransferMinutes = cfg.Planner.TransferMinutes
	builder := planning.NewBuilder(env.Grid(), timing)

	plannerCfg := planner.Config{
		MaxIterations:      cfg.Planner.MaxIterations,
		NeighborhoodSize:   cfg.Planner.NeighborhoodSize,
		TabuCapacity:       cfg.Planner.TabuCapacity,
		InitialTemperature: cfg.Planner.InitialTemperature,
		CoolingRate:        cfg.Planner.CoolingRate,
		StallRatio:         cfg.Planner.StallRatio,
		ClusterRadiusKm:    cfg.Planner.ClusterRadiusKm,
		WallClockBudget:    cfg.Planner.WallClockBudget,
		RandomSeed:         cfg.Planner.RandomSeed,
	}
	evaluator := planner.NewEvaluator(planner.DefaultEvaluatorWeights())
	seeder := planner.NewSeedConstructor(cfg.Planner.RandomSeed, cfg.Planner.MinSplitM3)
	optimizer := planner.NewTabuOptimizer(plannerCfg, builder, evaluator, seeder, nil)

	runID := uuid.NewString()
	deliveryLog := persistence.NewGormDeliveryLogRepository(db, runID)
	recorder := simulation.MultiDeliveryRecorder{deliveryLog}
	var simMetrics simulation.MetricsRecorder = simulation.NopMetrics{}
	if simCollector != nil {
		recorder = append(recorder, metrics.NewDeliveryMetricsRecorder(simCollector))
		simMetrics = simCollector
	}
	executor := simulation.NewExecutor(recorder)

	simCfg := simulation.Config{
		TickDelta:       cfg.Simulation.TickDelta,
		TickPeriodMs:    cfg.Simulation.TickPeriodMs,
		MinTickPeriodMs: cfg.Simulation.MinTickPeriodMs,
		MaxTickPeriodMs: cfg.Simulation.MaxTickPeriodMs,
	}
	sim := simulation.New(env, optimizer, builder, executor, simCfg, nil, simMetrics)

	if cfg.Server.DataDir != "" {
		if err := bootstrapDataDir(sim, env, cfg.Server.DataDir, monthBase); err != nil {
			return fmt.Errorf("failed to load data directory: %w", err)
		}
	}

	runRepo := persistence.NewGormSimulationRunRepository(db)
	if err := runRepo.Begin(context.Background(), runID, nowUTC(), env.CurrentTime()); err != nil {
		log.Printf("warning: could not record simulation run: %v", err)
	}
	tracker := persistence.NewRunTracker(runRepo, runID)

	med := common.NewMediator()
	if commandCollector != nil {
		med.RegisterMiddleware(metrics.PrometheusMiddleware(commandCollector))
	}
	if err := control.RegisterHandlers(med, sim); err != nil {
		return fmt.Errorf("failed to register control handlers: %w", err)
	}

	server := api.NewServer(cfg.Server, med)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sim.Run(ctx)

	go func() {
		ticker := time.NewTicker(runProgressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := tracker.Record(ctx, sim.Status()); err != nil {
					log.Printf("warning: could not record run progress: %v", err)
				}
			}
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-signals:
		log.Printf("received %s, shutting down", sig)
		cancel()
		if err := tracker.Close(context.Background(), nowUTC(), sim.Status()); err != nil {
			log.Printf("warning: could not finalize run: %v", err)
		}
		if err := server.Shutdown(context.Background()); err != nil {
			log.Printf("warning: shutdown: %v", err)
		}
		if sig == syscall.SIGINT {
			os.Exit(exitInterrupt)
		}
		return nil

	case err := <-serverErr:
		cancel()
		if closeErr := tracker.Close(context.Background(), nowUTC(), sim.Status()); closeErr != nil {
			log.Printf("warning: could not finalize run: %v", closeErr)
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
