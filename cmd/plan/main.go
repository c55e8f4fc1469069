// Package main runs one planning pass over a snapshot and writes the
// plan artifacts.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"

	"media-mix-lab/internal/attribution"
	"media-mix-lab/internal/config"
	"media-mix-lab/internal/domain"
	"media-mix-lab/internal/fixtures"
	"media-mix-lab/internal/observability"
	"media-mix-lab/internal/optimizer"
	"media-mix-lab/internal/orchestrator"
	"media-mix-lab/internal/report"
	chstore "media-mix-lab/internal/storage/clickhouse"
	"media-mix-lab/internal/storage/memory"
	"media-mix-lab/internal/storage/migrations"
	"media-mix-lab/internal/storage/postgres"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Flags override environment configuration.
	budget := flag.Float64("budget", cfg.Planning.Budget, "Total budget to allocate")
	outputDir := flag.String("output-dir", cfg.App.OutputDir, "Output directory for plan artifacts")
	postgresDSN := flag.String("postgres-dsn", cfg.Storage.PostgresDSN, "PostgreSQL DSN (empty: in-memory)")
	clickhouseDSN := flag.String("clickhouse-dsn", cfg.Storage.ClickhouseDSN, "ClickHouse DSN (empty: in-memory)")
	useFixtures := flag.Bool("use-fixtures", cfg.Storage.UseFixtures, "Load the demo snapshot before planning")
	flag.Parse()

	logger := logrus.New()
	if level, err := logrus.ParseLevel(cfg.App.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Infof("received signal %v, cancelling run", sig)
		cancel()
	}()

	stores, cleanup, err := buildStores(ctx, *postgresDSN, *clickhouseDSN, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting storage: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	if *useFixtures {
		if err := fixtures.Load(ctx, stores); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading fixtures: %v\n", err)
			os.Exit(1)
		}
		logger.Info("demo snapshot loaded")
	}

	orch := orchestrator.New(orchestrator.Options{
		ChannelStore:           stores.Channels,
		TouchpointStore:        stores.Touchpoints,
		ExposureBucketStore:    stores.Buckets,
		SpendSeriesStore:       stores.Spend,
		OutcomeSeriesStore:     stores.Outcome,
		CoExposureStore:        stores.CoExposure,
		HourlyPerformanceStore: stores.Hourly,
		Budget:                 *budget,
		TopSynergyPairs:        cfg.Planning.TopSynergyPairs,
		TopDaypartHours:        cfg.Planning.TopDaypartHours,
		SeasonPeriod:           cfg.Planning.ContributionSeason,
		Optimizer: optimizer.Options{
			FrequencyThreshold:  cfg.Planning.FrequencyThreshold,
			FrequencySaturation: cfg.Planning.FrequencySaturation,
		},
		Attribution: attribution.Config{
			ExactLimit:  cfg.Attribution.ExactLimit,
			SampleCount: cfg.Attribution.SampleCount,
			Seed:        cfg.Attribution.Seed,
		},
		Logger:  logger,
		Metrics: observability.NewMetrics(""),
	})

	plan, err := orch.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Planning run failed: %v\n", err)
		os.Exit(1)
	}

	if err := writeArtifacts(*outputDir, plan); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing artifacts: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Planning run completed:")
	fmt.Printf("  - %s/plan.md\n", *outputDir)
	fmt.Printf("  - %s/plan.json\n", *outputDir)
	if len(plan.Warnings) > 0 {
		fmt.Printf("  Warnings: %d (see report)\n", len(plan.Warnings))
	}
}

// buildStores wires the snapshot stores. Relational data (channels,
// touchpoints, exposure buckets) lives in Postgres, time series in
// ClickHouse; an empty DSN falls back to the in-memory store.
func buildStores(ctx context.Context, postgresDSN, clickhouseDSN string, logger *logrus.Logger) (fixtures.Stores, func(), error) {
	stores := fixtures.Stores{
		Channels:    memory.NewChannelStore(),
		Touchpoints: memory.NewTouchpointStore(),
		Buckets:     memory.NewExposureBucketStore(),
		Spend:       memory.NewSpendSeriesStore(),
		Outcome:     memory.NewOutcomeSeriesStore(),
		CoExposure:  memory.NewCoExposureStore(),
		Hourly:      memory.NewHourlyPerformanceStore(),
	}
	cleanup := func() {}

	if postgresDSN != "" {
		pool, err := postgres.NewPool(ctx, postgresDSN)
		if err != nil {
			return stores, cleanup, fmt.Errorf("connect postgres: %w", err)
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return stores, cleanup, fmt.Errorf("migrate postgres: %w", err)
		}
		stores.Channels = postgres.NewChannelStore(pool)
		stores.Touchpoints = postgres.NewTouchpointStore(pool)
		stores.Buckets = postgres.NewExposureBucketStore(pool)

		prev := cleanup
		cleanup = func() { pool.Close(); prev() }
		logger.Info("postgres storage connected")
	}

	if clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
		if err != nil {
			cleanup()
			return stores, func() {}, fmt.Errorf("migrate clickhouse: %w", err)
		}
		stores.Spend = chstore.NewSpendSeriesStore(conn)
		stores.Outcome = chstore.NewOutcomeSeriesStore(conn)
		stores.CoExposure = chstore.NewCoExposureStore(conn)
		stores.Hourly = chstore.NewHourlyPerformanceStore(conn)

		prev := cleanup
		cleanup = func() { conn.Close(); prev() }
		logger.Info("clickhouse storage connected")
	}

	return stores, cleanup, nil
}

func writeArtifacts(outputDir string, plan *domain.PlanningReport) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	md := report.RenderMarkdown(plan)
	if err := os.WriteFile(filepath.Join(outputDir, "plan.md"), []byte(md), 0o644); err != nil {
		return fmt.Errorf("write plan.md: %w", err)
	}

	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, "plan.json"), data, 0o644); err != nil {
		return fmt.Errorf("write plan.json: %w", err)
	}

	return nil
}
