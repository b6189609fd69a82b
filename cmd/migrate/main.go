package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"bookmood/internal/platform/logger"
	"bookmood/internal/platform/postgres"
)

var dbCommands = []string{"up", "down", "redo", "status", "version"}

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, redo, status, version, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = zlog.Sync() }()

	if err := run(cfg, *command, *name, zlog); err != nil {
		zlog.Fatal("migration failed", zap.String("command", *command), zap.Error(err))
	}
}

func run(cfg migrateConfig, command, name string, zlog *zap.Logger) error {
	dir := cfg.Dir

	if command == "create" {
		if name == "" {
			return fmt.Errorf("name is required for 'create' command")
		}
		if err := goose.Create(nil, dir, name, "sql"); err != nil {
			return err
		}
		zlog.Info("migration created", zap.String("name", name), zap.String("dir", dir))
		return nil
	}

	if !slices.Contains(dbCommands, command) {
		return fmt.Errorf("unknown command %q, use: up, down, redo, status, version, create", command)
	}

	dsn := cfg.DSN
	pool, err := postgres.NewPool(context.Background(), dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(nil)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	switch command {
	case "up":
		err = goose.Up(db, dir)
	case "down":
		err = goose.Down(db, dir)
	case "redo":
		err = goose.Redo(db, dir)
	case "status":
		err = goose.Status(db, dir)
	case "version":
		err = goose.Version(db, dir)
	default:
		return fmt.Errorf("unknown command %q, use: up, down, redo, status, version, create", command)
	}
	if err != nil {
		return err
	}
	zlog.Info("migrations done", zap.String("command", command), zap.String("db", postgres.RedactDSN(dsn)))
	return nil
}
