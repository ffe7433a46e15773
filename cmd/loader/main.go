// Command loader bootstraps the schema and imports a CSV of legacy queries.
// Recognized columns: created_by, mail_id, mobile_number, query_heading,
// query_description, status, priority, query_created_time, query_closed_time.
// Missing status falls back to Open, missing priority to Medium, and a blank
// closed time loads as NULL.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/query-tracker/internal/config"
	"github.com/spec-kit/query-tracker/internal/domain"
	"github.com/spec-kit/query-tracker/internal/observability"
	"github.com/spec-kit/query-tracker/internal/persistence"
)

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func main() {
	csvPath := flag.String("csv", "", "path to the legacy query CSV")
	flag.Parse()
	if *csvPath == "" {
		log.Fatal("usage: loader -csv <path>")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	count, err := loadCSV(ctx, pg, *csvPath)
	if err != nil {
		logger.Fatal("csv import failed", zap.Error(err))
	}
	logger.Info("csv imported", zap.Int("rows", count))
}

func loadCSV(ctx context.Context, pg *persistence.Postgres, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return 0, err
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}

	const insert = `
        INSERT INTO queries (created_by, mail_id, mobile_number, query_heading,
            query_description, status, priority, query_created_time, query_closed_time)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

	count := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, err
		}

		created := timestamp(row, col, "query_created_time")
		if created == nil {
			now := time.Now()
			created = &now
		}

		_, err = pg.PoolHandle().Exec(ctx, insert,
			field(row, col, "created_by"),
			field(row, col, "mail_id"),
			field(row, col, "mobile_number"),
			field(row, col, "query_heading"),
			field(row, col, "query_description"),
			status(row, col),
			string(domain.NormalizePriority(domain.QueryPriority(field(row, col, "priority")))),
			created,
			timestamp(row, col, "query_closed_time"),
		)
		if err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func field(row []string, col map[string]int, name string) string {
	idx, ok := col[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func status(row []string, col map[string]int) string {
	parsed, ok := domain.ParseStatus(field(row, col, "status"))
	if !ok {
		parsed = domain.StatusOpen
	}
	return string(parsed)
}

func timestamp(row []string, col map[string]int, name string) *time.Time {
	raw := field(row, col, name)
	if raw == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
