package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/andrescamacho/skirmish-go/internal/adapters/metrics"
	"github.com/andrescamacho/skirmish-go/internal/adapters/persistence"
	"github.com/andrescamacho/skirmish-go/internal/adapters/scenario"
	"github.com/andrescamacho/skirmish-go/internal/adapters/world"
	"github.com/andrescamacho/skirmish-go/internal/application/common"
	playerQueries "github.com/andrescamacho/skirmish-go/internal/application/player/queries"
	"github.com/andrescamacho/skirmish-go/internal/application/setup"
	"github.com/andrescamacho/skirmish-go/internal/application/simulation"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/infrastructure/config"
	"github.com/andrescamacho/skirmish-go/internal/infrastructure/database"
	"github.com/andrescamacho/skirmish-go/internal/infrastructure/logging"
	"github.com/andrescamacho/skirmish-go/pkg/utils"
)

type simulateOptions struct {
	scenarioPath string
	ticks        int
	deltaTime    float64
	realtime     bool
	persist      bool
	noDB         bool
}

// NewSimulateCommand creates the simulate command
func NewSimulateCommand() *cobra.Command {
	opts := &simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a scenario",
		Long: `Load a scenario, play its order timeline and print a summary.

Tick length and tick count come from the flags, then the scenario, then the
simulation section of the config. With --realtime the loop is paced at
simulation.realtime_rate ticks per second and can be interrupted with Ctrl-C.

Examples:
  skirmish simulate --scenario scenarios/skirmish.yaml
  skirmish simulate --scenario scenarios/skirmish.yaml --ticks 100 --dt 0.05
  skirmish simulate --scenario scenarios/skirmish.yaml --realtime --persist`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.scenarioPath, "scenario", "s", "", "Scenario file (required)")
	cmd.Flags().IntVar(&opts.ticks, "ticks", 0, "Ticks to run (overrides scenario and config)")
	cmd.Flags().Float64Var(&opts.deltaTime, "dt", 0, "Seconds per tick (overrides scenario and config)")
	cmd.Flags().BoolVar(&opts.realtime, "realtime", false, "Pace ticks against the wall clock")
	cmd.Flags().BoolVar(&opts.persist, "persist", false, "Write the event log to the database (default: logging.persist)")
	cmd.Flags().BoolVar(&opts.noDB, "no-db", false, "Skip the database: no event log, no snapshots")
	_ = cmd.MarkFlagRequired("scenario")

	return cmd
}

func runSimulate(cmd *cobra.Command, opts *simulateOptions) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	persist := cfg.Logging.Persist
	if cmd.Flags().Changed("persist") {
		persist = opts.persist
	}

	baseLogger, closer, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		return err
	}
	defer closer.Close()

	sc, err := scenario.Load(opts.scenarioPath)
	if err != nil {
		return err
	}
	deltaTime := firstPositiveFloat(opts.deltaTime, sc.TickLength, cfg.Simulation.TickLength)
	ticks := firstPositiveInt(opts.ticks, sc.Ticks, cfg.Simulation.Ticks)
	searchRadius := firstPositiveFloat(sc.NodeSearchRadius, cfg.Simulation.NodeSearchRadius)

	clock := shared.NewSimulationClock(time.Now().UTC())
	runID := utils.GenerateRunID()
	var logger shared.Logger = baseLogger

	var db *gorm.DB
	var persistingLogger *logging.PersistingLogger
	if !opts.noDB {
		db, err = database.NewConnection(&cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close(db)
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		if persist {
			eventRepo := persistence.NewGormEventLogRepository(db, clock)
			eventRepo.SetDedupWindow(cfg.Simulation.DedupWindow)
			persistingLogger = logging.NewPersistingLogger(baseLogger, eventRepo, runID, clock)
			logger = persistingLogger
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = common.WithLogger(ctx, logger)

	var recorder common.MetricsRecorder = common.NoOpMetrics{}
	var commandMetrics *metrics.CommandMetricsCollector
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		gameplay := metrics.NewGameplayMetricsCollector()
		if err := gameplay.Register(); err != nil {
			return fmt.Errorf("failed to register gameplay metrics: %w", err)
		}
		commandMetrics = metrics.NewCommandMetricsCollector()
		if err := commandMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register command metrics: %w", err)
		}
		recorder = gameplay

		server, err := metrics.NewServer(cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
		if err != nil {
			return err
		}
		go func() {
			if err := server.Serve(ctx); err != nil {
				logger.Log(shared.LevelError, fmt.Sprintf("metrics server stopped: %v", err), nil)
			}
		}()
		logger.Log(shared.LevelInfo, "metrics server listening", map[string]interface{}{
			"addr": server.Addr(),
			"path": cfg.Metrics.Path,
		})
	}

	registry := world.NewRegistry(searchRadius)
	sim, err := simulation.NewSimulation(registry, clock, logger, recorder)
	if err != nil {
		return err
	}
	sim.SetRunID(runID)
	events := simulation.NewEventRecorder(sim)
	sim.Ticked.Subscribe(func(int64) { registry.Prune() })

	if err := sc.Build(sim, registry.UnitFactory(), cfg.Simulation.MaxQueueSize); err != nil {
		return fmt.Errorf("failed to build scenario: %w", err)
	}

	mediator, err := setup.NewHandlerRegistry(sim).CreateConfiguredMediator()
	if err != nil {
		return fmt.Errorf("failed to create mediator: %w", err)
	}
	if commandMetrics != nil {
		mediator.RegisterMiddleware(metrics.PrometheusMiddleware(commandMetrics))
	}

	timeline, err := sc.Timeline()
	if err != nil {
		return err
	}
	runner, err := scenario.NewRunner(mediator, timeline, deltaTime)
	if err != nil {
		return err
	}
	if opts.realtime {
		runner.Pace(cfg.Simulation.RealtimeRate)
	}

	logger.Log(shared.LevelInfo, fmt.Sprintf("starting %s", sc.Name), map[string]interface{}{
		"run_id":     runID,
		"ticks":      ticks,
		"delta_time": deltaTime,
	})
	result, runErr := runner.Run(ctx, ticks)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	// the run context may be cancelled; the summary still reads state
	summaryCtx := common.WithLogger(context.Background(), logger)
	if db != nil {
		if err := saveSnapshots(summaryCtx, persistence.NewGormPlayerSnapshotRepository(db), sim); err != nil {
			return err
		}
	}

	return printSummary(summaryCtx, sc.Name, runID, mediator, sim, result, events, persistingLogger, runErr != nil)
}

func saveSnapshots(ctx context.Context, repo *persistence.GormPlayerSnapshotRepository, sim *simulation.Simulation) error {
	sim.Lock()
	defer sim.Unlock()
	tick := sim.Clock().Ticks()
	for _, p := range sim.Players() {
		if err := repo.Save(ctx, p.Snapshot(tick)); err != nil {
			return fmt.Errorf("failed to save snapshot for player %d: %w", p.ID().Value(), err)
		}
	}
	return nil
}

func printSummary(
	ctx context.Context,
	name, runID string,
	mediator common.Mediator,
	sim *simulation.Simulation,
	result *scenario.RunResult,
	events *simulation.EventRecorder,
	persisting *logging.PersistingLogger,
	interrupted bool,
) error {
	fmt.Printf("Scenario: %s\n", name)
	fmt.Println("══════════════════════════════════════════════")
	fmt.Printf("  Run ID:           %s\n", runID)
	if interrupted {
		fmt.Printf("  Status:           interrupted\n")
	}
	fmt.Printf("  Ticks:            %d (%.1fs simulated)\n", result.Ticks, result.Elapsed)
	fmt.Printf("  Orders:           %d issued, %d rejected\n", result.OrdersIssued, result.OrdersRejected)
	fmt.Printf("  Running jobs:     %d\n", result.RunningJobs)
	if persisting != nil && persisting.Failures() > 0 {
		fmt.Printf("  Log write errors: %d\n", persisting.Failures())
	}

	fmt.Println("\nPlayers:")
	fmt.Printf("  %-4s %-12s %-12s %s\n", "ID", "NAME", "POPULATION", "RESOURCES")
	for _, p := range sim.Players() {
		resp, err := mediator.Send(ctx, &playerQueries.GetPlayerStateQuery{PlayerID: p.ID().Value()})
		if err != nil {
			return fmt.Errorf("failed to get player state: %w", err)
		}
		state, ok := resp.(*playerQueries.GetPlayerStateResponse)
		if !ok {
			return fmt.Errorf("invalid response type: expected *GetPlayerStateResponse")
		}
		s := state.Snapshot
		fmt.Printf("  %-4d %-12s %-12s %s\n",
			s.PlayerID,
			truncate(s.Name, 12),
			fmt.Sprintf("%d/%d", s.Population, s.MaxPopulation),
			formatResources(s.Resources),
		)
	}

	counts := events.Counts()
	if len(counts) > 0 {
		kinds := make([]string, 0, len(counts))
		for kind := range counts {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)
		fmt.Println("\nEvents:")
		for _, kind := range kinds {
			fmt.Printf("  %-22s %d\n", kind, counts[kind])
		}
	}
	return nil
}

func firstPositiveFloat(values ...float64) float64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func firstPositiveInt(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
