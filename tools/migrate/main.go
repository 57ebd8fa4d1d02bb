// Command migrate applies or inspects the captured-post schema.
//
//	migrate up | down | status | reset | version | redo
//	migrate create <name>
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	_ "github.com/orgball2608/squirrel-collector/internal/migrations"
	"github.com/orgball2608/squirrel-collector/pkg/config"
	"github.com/pressly/goose/v3"
)

const migrationsDir = "internal/migrations"

var commands = map[string]bool{
	"up": true, "down": true, "status": true, "reset": true, "version": true, "redo": true, "create": true,
}

func main() {
	if len(os.Args) < 2 || !commands[os.Args[1]] {
		log.Fatal("usage: migrate up|down|status|reset|version|redo|create <name>")
	}
	command, args := os.Args[1], os.Args[2:]
	if command == "create" && len(args) == 0 {
		log.Fatal("usage: migrate create <name>")
	}
	if command == "create" {
		// new migrations are Go files so they compile into the service
		args = append(args[:1], "go")
	}

	if err := run(context.Background(), command, args); err != nil {
		log.Fatalf("migrate %s: %v", command, err)
	}
}

func run(ctx context.Context, command string, args []string) error {
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	defer db.Close()

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	dir := filepath.Join(wd, migrationsDir)
	fmt.Printf("%s (db %s@%s)\n", dir, cfg.Postgres.Name, cfg.Postgres.Host)

	return goose.RunContext(ctx, command, db, dir, args...)
}
