package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shoestock/backend/internal/application/reconcile"
	"github.com/shoestock/backend/internal/domain/catalog"
	"github.com/shoestock/backend/internal/infrastructure/cache"
	"github.com/shoestock/backend/internal/infrastructure/config"
	"github.com/shoestock/backend/internal/infrastructure/logger"
	"github.com/shoestock/backend/internal/infrastructure/persistence"
	"github.com/shoestock/backend/internal/infrastructure/scheduler"
	"github.com/shoestock/backend/internal/infrastructure/sheets"
)

func main() {
	var (
		fullPass  bool
		sinceFlag string
		docsFlag  string
		orderDocs string
		migrate   bool
	)

	flag.BoolVar(&fullPass, "full", false, "Reprocess every sheet and prune catalog entries no sheet mentions")
	flag.StringVar(&sinceFlag, "since", "", "Skip order sheets dated before this date (D.M.YYYY)")
	flag.StringVar(&docsFlag, "products", "", "Comma-separated product workbook paths (overrides config)")
	flag.StringVar(&orderDocs, "orders", "", "Comma-separated order workbook paths (overrides config)")
	flag.BoolVar(&migrate, "migrate", false, "Run schema migration before the pass")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting reconciler",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.Bool("full_pass", fullPass),
	)

	runCfg, err := buildRunConfig(cfg, fullPass, sinceFlag, docsFlag, orderDocs)
	if err != nil {
		log.Fatal("Invalid arguments", zap.Error(err))
	}

	// Initialize database connection
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if migrate {
		if err := db.Migrate(); err != nil {
			log.Fatal("Migration failed", zap.Error(err))
		}
		log.Info("Schema migrated")
	}

	// Sheet fingerprint cache: Redis when configured, in-memory otherwise.
	// The in-memory fallback means every pass behaves like a first pass.
	var sheetCache reconcile.SheetStateCache
	if cfg.Redis.Host != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		sheetCache = cache.NewRedisFingerprints(client)
		log.Info("Redis connected successfully", zap.String("addr", cfg.Redis.Addr()))
	} else {
		sheetCache = cache.NewMemoryFingerprints()
		log.Warn("Redis not configured, sheet state will not survive this run")
	}

	// Source with quota pacing
	source := sheets.NewFetcher(sheets.NewExcelSource(), sheets.FetcherConfig{
		RequestsPerMinute: cfg.Sources.RequestsPerMinute,
		MaxRetries:        cfg.Sources.MaxRetries,
		RetryBaseDelay:    cfg.Sources.RetryBaseDelay,
	}, log)

	// Initialize repositories
	clientRepo := persistence.NewGormClientRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	catalogRefRepo := persistence.NewGormReferenceRepository(db.DB)
	tradeRefRepo := persistence.NewGormTradeReferenceRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	service := reconcile.NewService(source, sheetCache,
		clientRepo, productRepo, catalogRefRepo, tradeRefRepo, orderRepo, db, log)

	runner, err := scheduler.NewRunScheduler(scheduler.RunSchedulerConfig{
		RunTimeout: cfg.Scheduler.RunTimeout,
		MaxHistory: cfg.Scheduler.HistorySize,
	}, service, log)
	if err != nil {
		log.Fatal("Failed to create run scheduler", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runner.Start(ctx); err != nil {
		log.Fatal("Failed to start run scheduler", zap.Error(err))
	}

	run, err := runner.Submit(ctx, runCfg)
	if err != nil {
		log.Fatal("Failed to submit run", zap.Error(err))
	}

	final := awaitRun(ctx, runner, run.ID)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := runner.Stop(shutdownCtx); err != nil {
		log.Error("Scheduler shutdown failed", zap.Error(err))
	}

	switch final.Status {
	case scheduler.RunStatusSuccess:
		log.Info("Reconciliation finished", zap.String("run_id", final.ID.String()))
	case scheduler.RunStatusCancelled:
		log.Warn("Reconciliation cancelled", zap.String("run_id", final.ID.String()))
		os.Exit(1)
	default:
		log.Error("Reconciliation failed",
			zap.String("run_id", final.ID.String()),
			zap.String("error", final.Error),
		)
		os.Exit(1)
	}
}

// buildRunConfig merges file configuration with command-line overrides
func buildRunConfig(cfg *config.Config, fullPass bool, sinceFlag, docsFlag, orderDocs string) (reconcile.Config, error) {
	runCfg := reconcile.Config{
		ProductDocuments: cfg.Sources.ProductDocuments,
		OrderDocuments:   cfg.Sources.OrderDocuments,
		CommitEvery:      cfg.Run.CommitEvery,
		FullPass:         fullPass,
		MergePolicy:      catalog.MergePolicy{StrictVariant: cfg.Run.StrictVariant},
	}
	if docsFlag != "" {
		runCfg.ProductDocuments = splitList(docsFlag)
	}
	if orderDocs != "" {
		runCfg.OrderDocuments = splitList(orderDocs)
	}
	if sinceFlag != "" {
		since, _, ok := sheets.ParseTitle(sinceFlag)
		if !ok {
			return reconcile.Config{}, fmt.Errorf("invalid -since value %q, expected D.M.YYYY", sinceFlag)
		}
		runCfg.Since = since
	}
	if len(runCfg.ProductDocuments) == 0 && len(runCfg.OrderDocuments) == 0 {
		return reconcile.Config{}, errors.New("no source documents configured")
	}
	return runCfg, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// awaitRun polls until the run reaches a terminal status or the context is
// cancelled, in which case the active run is cancelled and awaited.
func awaitRun(ctx context.Context, runner *scheduler.RunScheduler, id uuid.UUID) *scheduler.Run {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	cancelled := false
	for {
		select {
		case <-ctx.Done():
			if !cancelled {
				_ = runner.CancelActive()
				cancelled = true
			}
		case <-ticker.C:
		}

		run, err := runner.GetRun(id)
		if err == nil && run.Done() {
			return run
		}
	}
}
