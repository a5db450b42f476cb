// Команда report выгружает бронирования за год в xlsx.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Freeeeeet/salon_admin/internal/app"
	"github.com/Freeeeeet/salon_admin/internal/config"
	"github.com/Freeeeeet/salon_admin/internal/report"
	"github.com/Freeeeeet/salon_admin/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	year := flag.Int("year", time.Now().Year(), "Год отчёта")
	out := flag.String("out", "", "Файл отчёта (по умолчанию bookings-<год>.xlsx)")
	flag.Parse()

	if *out == "" {
		*out = fmt.Sprintf("bookings-%d.xlsx", *year)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Store != config.StorePostgres {
		log.Fatalf("Report needs STORE=%s, got %q", config.StorePostgres, cfg.Store)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	if err := run(cfg, *year, *out, logger); err != nil {
		logger.Error("Failed to build report", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, year int, out string, logger *zap.Logger) error {
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		return fmt.Errorf("create pool: %w", err)
	}
	defer pool.Close()

	stats := service.NewStatsService(app.PostgresStores(pool, cfg.StoreTimeout), logger)
	filter := service.PeriodFilter{Year: &year}

	bookings, err := stats.EnrichedBookings(ctx, filter)
	if err != nil {
		return err
	}
	summary, err := stats.PaymentSummary(ctx, filter)
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	data := report.Data{
		Title:    fmt.Sprintf("Bokningar %d", year),
		Bookings: bookings,
		Summary:  summary,
	}
	if err := report.Write(f, data); err != nil {
		return err
	}

	logger.Info("✅ Report written",
		zap.String("file", out),
		zap.Int("year", year),
		zap.Int("bookings", len(bookings)),
	)
	return nil
}
