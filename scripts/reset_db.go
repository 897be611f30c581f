package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"consign-backend/internal/config"
	"consign-backend/internal/db"
	"consign-backend/internal/logger"
)

// Tables in dependency order; TRUNCATE ... CASCADE handles the rest.
var tables = []string{
	"logs",
	"manual_commissions",
	"case_items",
	"cases",
	"agents",
	"products",
}

func main() {
	skipConfirm := flag.Bool("yes", false, "skip the confirmation prompt")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{Service: "reset-db", Level: cfg.Log.Level, Format: "console"})

	fmt.Println("========================================")
	fmt.Println("   Reset Database for Testing")
	fmt.Println("========================================")
	fmt.Printf("Database: %s on %s\n", cfg.Database.Name, cfg.Database.Host)
	fmt.Println("This deletes every product, agent, case, commission and log entry.")

	if !*skipConfirm {
		fmt.Print("Type 'yes' to confirm: ")
		var confirm string
		fmt.Scanln(&confirm)
		if strings.TrimSpace(confirm) != "yes" {
			fmt.Println("Reset cancelled.")
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to connect to database")
	}
	defer pool.Close()

	_, err = pool.Exec(ctx, "TRUNCATE TABLE "+strings.Join(tables, ", ")+" RESTART IDENTITY CASCADE")
	if err != nil {
		log.Fatal().Err(err).Msg("reset failed")
	}

	log.Info().Strs("tables", tables).Msg("database reset")
}
