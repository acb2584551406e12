package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/tldpricer/tldpricer-backend/pkg/config"
	"github.com/tldpricer/tldpricer-backend/pkg/logger"
	"github.com/tldpricer/tldpricer-backend/pkg/migrate"
)

func main() {
	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "goose command: up, down, status, version, up-to, create, validate")
	dir := flag.String("dir", migrate.DefaultDir, "migrations directory")
	name := flag.String("name", "", "migration name (create)")
	target := flag.String("version", "", "target version (up-to)")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "tldpricer-migrate"})
	ctx := context.Background()

	if err := run(ctx, *cmd, *dir, *name, *target); err != nil {
		logg.Error(ctx, "migration failed", err)
		os.Exit(1)
	}
	logg.Info(logg.WithField(ctx, "cmd", *cmd), "migration command finished")
}

func run(ctx context.Context, cmd, dir, name, target string) error {
	switch cmd {
	case "create":
		if name == "" {
			return fmt.Errorf("-name is required for create")
		}
		path, err := migrate.CreateSQLMigration(dir, name)
		if err != nil {
			return err
		}
		fmt.Println("created", path)
		return nil
	case "validate":
		return migrate.ValidateDir(dir)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	conn, err := sql.Open("postgres", cfg.DB.DSN)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer conn.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		return fmt.Errorf("ping db: %w", err)
	}

	if cmd == "up-to" {
		return migrate.MigrateToVersion(ctx, conn, dir, target)
	}
	return migrate.Run(ctx, conn, dir, cmd)
}
