package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Apurer/cat-haven/internal/platform/migrations"
	platformpostgres "github.com/Apurer/cat-haven/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	dsn := strings.TrimSpace(os.Getenv("POSTGRES_DSN"))
	if dsn == "" {
		log.Fatal("POSTGRES_DSN not set; nothing to migrate")
	}
	db, err := platformpostgres.Connect(ctx, dsn)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer platformpostgres.Close(db)

	if err := migrations.Run(db.WithContext(ctx)); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	logger.Info("migration completed", slog.Any("tables", migrations.Tables()))
}
