package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urfave/cli/v2"

	"github.com/altvest/perfstat/internal/api"
	"github.com/altvest/perfstat/internal/config"
	"github.com/altvest/perfstat/internal/database"
	"github.com/altvest/perfstat/internal/export"
	"github.com/altvest/perfstat/internal/forecast"
	"github.com/altvest/perfstat/internal/investment"
	"github.com/altvest/perfstat/internal/worker"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func main() {
	app := &cli.App{
		Name:  "perfstat",
		Usage: "private-markets performance analytics service",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API and the report worker",
				Action: runServe,
			},
			{
				Name:  "export",
				Usage: "generate the performance report once and exit",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "as-of",
						Usage: "report date in YYYY-MM-DD format (default: today)",
					},
				},
				Action: runExport,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// setup connects to the database, applies migrations, and builds the
// service graph shared by both commands.
func setup(ctx context.Context, cfg config.Config) (*pgxpool.Pool, *investment.Service, *export.Service, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil, nil, fmt.Errorf("DATABASE_URL is required")
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connecting to database: %w", err)
	}

	migrationsSub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("creating migrations sub-fs: %w", err)
	}
	if err := database.RunMigrations(ctx, pool, migrationsSub); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("running migrations: %w", err)
	}

	repo := investment.NewPgRepository(pool)
	performanceSvc := investment.NewService(repo)
	exportSvc, err := buildExportService(ctx, cfg, repo, performanceSvc)
	if err != nil {
		pool.Close()
		return nil, nil, nil, err
	}

	return pool, performanceSvc, exportSvc, nil
}

// buildExportService assembles the report exporter with every writer
// the configuration enables.
func buildExportService(ctx context.Context, cfg config.Config, repo investment.Repository, performance *investment.Service) (*export.Service, error) {
	writers := []export.ReportWriter{export.NewExcelWriter(cfg.ExcelExportPath)}

	if cfg.SheetsSpreadsheetID != "" && cfg.SheetsCredentials != "" {
		sheetsWriter, err := export.NewSheetsWriter(ctx, cfg.SheetsSpreadsheetID, cfg.SheetsCredentials)
		if err != nil {
			return nil, fmt.Errorf("creating sheets writer: %w", err)
		}
		writers = append(writers, sheetsWriter)
	} else {
		slog.Info("Google Sheets export disabled, writing Excel only")
	}

	return export.NewService(repo, performance, writers...), nil
}

func runServe(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	pool, performanceSvc, exportSvc, err := setup(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	sources := forecast.NewPgSourceRepository(pool)
	forecastSvc := forecast.NewService(sources, sources, sources)

	reportWorker := worker.NewReportWorker(exportSvc, cfg.ReportWorkerInterval)
	go reportWorker.Run(ctx)

	if cfg.AdminAPIKey == "" {
		slog.Warn("ADMIN_API_KEY not set, report endpoint is unprotected")
	}

	handler := api.NewHandler(performanceSvc)
	forecastHandler := api.NewForecastHandler(forecastSvc, cfg.ForecastScenario, cfg.ForecastHorizonDays)
	srv := api.NewServer(cfg.HTTPPort, handler, forecastHandler, exportSvc, cfg.AdminAPIKey)

	go func() {
		log.Printf("HTTP server listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
	return nil
}

func runExport(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	asOf := time.Now().UTC().Truncate(24 * time.Hour)
	if raw := c.String("as-of"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return fmt.Errorf("parsing as-of date: %w", err)
		}
		asOf = parsed
	}

	pool, _, exportSvc, err := setup(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := exportSvc.Export(ctx, asOf); err != nil {
		return fmt.Errorf("exporting report: %w", err)
	}

	log.Printf("Report generated as of %s", asOf.Format("2006-01-02"))
	return nil
}
