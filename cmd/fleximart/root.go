package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rishabhsingroha/bitsom-ba-25071660-fleximart-data-architecture/internal/config"
	"github.com/rishabhsingroha/bitsom-ba-25071660-fleximart-data-architecture/internal/csvio"
	"github.com/rishabhsingroha/bitsom-ba-25071660-fleximart-data-architecture/internal/etl"
	"github.com/rishabhsingroha/bitsom-ba-25071660-fleximart-data-architecture/internal/logging"
	"github.com/rishabhsingroha/bitsom-ba-25071660-fleximart-data-architecture/internal/store"
)

// rootCmd runs the full ETL pipeline. There are no processing flags:
// the run is configured entirely through the environment (and an
// optional .env file), and the exit code reports success or failure.
var rootCmd = &cobra.Command{
	Use:   "fleximart",
	Short: "Load the FlexiMart CSV extracts into the relational schema",
	Long: `fleximart ingests the three raw CSV extracts (customers, products,
sales transactions), cleans and normalizes them, and loads them into the
FlexiMart PostgreSQL schema. Row-level data problems are counted and
summarized in a plain-text data quality report; structural and database
errors abort the run with a non-zero exit code.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func run(ctx context.Context) error {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return err
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	runID := uuid.NewString()
	logger := logging.WithRun(runID)
	logger.Info("configuration loaded",
		"data_dir", cfg.Input.DataDir,
		"report_path", cfg.Report.Path,
		"db_max_conns", cfg.Database.MaxConns,
	)

	pool, err := connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return err
	}
	defer pool.Close()

	st := store.New(pool)
	if err := st.CreateSchemaIfAbsent(ctx); err != nil {
		logger.Error("failed to create schema", "error", err)
		return err
	}

	src := csvio.NewDirSource(cfg.Input.DataDir,
		cfg.Input.CustomersFile, cfg.Input.ProductsFile, cfg.Input.SalesFile)

	stats, err := etl.NewPipeline(src, st, logger).Run(ctx)
	if err != nil {
		// An aborted run emits log lines for the failure point, not a report.
		logger.Error("pipeline failed", "error", err)
		return err
	}

	if err := writeReport(cfg.Report.Path, stats, runID); err != nil {
		logger.Error("failed to write report", "error", err)
		return err
	}
	logger.Info("pipeline completed", "report", cfg.Report.Path)

	return nil
}

// connect builds the pool from config and verifies the connection.
func connect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, err
	}

	if u, err := url.Parse(cfg.Database.URL); err == nil {
		logger.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		logger.Info("connected to database")
	}

	return pool, nil
}

// writeReport renders the quality report to the configured path and to
// stdout, as the run's final user-visible output.
func writeReport(path string, stats *etl.QualityStats, runID string) error {
	now := time.Now()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()

	if err := stats.Render(f, runID, now); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return stats.Render(os.Stdout, runID, now)
}
