package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"finch/internal/domain/sync"
	"finch/internal/infrastructure/crypto"
	"finch/internal/infrastructure/postgres"
	"finch/internal/infrastructure/provider"
	"finch/internal/shared/config"
)

const usage = `Finch Admin CLI - Management commands for the Finch API

Usage:
  admin <command> [options]

Commands:
  sync      Run transaction reconciliation for specific items or all items

Examples:
  # Sync a single item
  admin sync --item-id=6f1c...

  # Sync several items
  admin sync --item-id=6f1c...,9a2b...

  # Sync every linked item
  admin sync --all

  # Run with a timeout
  admin sync --all --timeout=30m`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "sync":
		runSync(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Println(usage)
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		fmt.Println(usage)
		os.Exit(1)
	}
}

func runSync(args []string) {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)

	itemIDStr := fs.String("item-id", "", "Item ID(s) to sync (comma-separated for multiple)")
	allItems := fs.Bool("all", false, "Sync all linked items")
	timeoutStr := fs.String("timeout", "30m", "Timeout for the operation (e.g., 5m, 1h)")

	fs.Usage = func() {
		fmt.Println("Usage: admin sync [options]")
		fmt.Println("\nOptions:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *itemIDStr == "" && !*allItems {
		fmt.Println("Error: must specify --item-id or --all")
		fs.Usage()
		os.Exit(1)
	}

	timeout, err := time.ParseDuration(*timeoutStr)
	if err != nil {
		log.Fatalf("Invalid timeout format: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to database")

	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		log.Fatalf("Failed to create encryptor: %v", err)
	}

	itemRepo := postgres.NewItemRepository(db, encryptor)
	accountRepo := postgres.NewAccountRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)

	client := provider.NewClient(cfg.Provider.BaseURL, cfg.Provider.ClientID, cfg.Provider.Secret)
	syncService := sync.NewService(client, itemRepo, accountRepo, transactionRepo)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var itemIDs []string
	if *allItems {
		items, err := itemRepo.ListAll(ctx)
		if err != nil {
			log.Fatalf("Failed to list items: %v", err)
		}
		for _, it := range items {
			itemIDs = append(itemIDs, it.ID)
		}
		log.Printf("Found %d linked items", len(itemIDs))
	} else {
		for _, p := range strings.Split(*itemIDStr, ",") {
			p = strings.TrimSpace(p)
			if p != "" {
				itemIDs = append(itemIDs, p)
			}
		}
	}

	if len(itemIDs) == 0 {
		log.Println("No items to sync")
		return
	}

	log.Printf("Starting sync for %d item(s)", len(itemIDs))
	startTime := time.Now()

	failures := 0
	for _, itemID := range itemIDs {
		result, err := syncService.SyncItem(ctx, itemID)
		if err != nil {
			log.Printf("Sync failed for item %s: %v", itemID, err)
			failures++
			continue
		}
		printResult(itemID, result)
	}

	log.Printf("Sync completed in %v (%d succeeded, %d failed)",
		time.Since(startTime), len(itemIDs)-failures, failures)
	if failures > 0 {
		os.Exit(1)
	}
}

func printResult(itemID string, result *sync.SyncResult) {
	fmt.Printf("\n=== Item %s ===\n", itemID)
	fmt.Printf("  Added:    %d\n", result.Added)
	fmt.Printf("  Modified: %d\n", result.Modified)
	fmt.Printf("  Removed:  %d\n", result.Removed)
	fmt.Printf("  Skipped:  %d\n", result.Skipped)
	for _, e := range result.Errors {
		fmt.Printf("  Error:    %s\n", e)
	}
}
