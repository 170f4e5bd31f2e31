package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/rmacedo/opsdesk-api/internal/config"
	"github.com/rmacedo/opsdesk-api/internal/database"
	"github.com/rmacedo/opsdesk-api/internal/services"
)

// One-shot admin tool: pre-approves an email on the whitelist so the first
// operators can log in before any admin exists in the console itself.
func main() {
	if len(os.Args) != 3 {
		fmt.Println("Usage: grant-access <email> <role>")
		os.Exit(1)
	}

	email := os.Args[1]
	role := os.Args[2]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	whitelist := services.NewWhitelistService(db)
	entry, err := whitelist.Upsert(ctx, email, role, nil)
	if err != nil {
		log.Fatalf("Failed to grant access: %v", err)
	}

	fmt.Printf("Access granted to %s with role %q\n", entry.Email, entry.Role)
}
