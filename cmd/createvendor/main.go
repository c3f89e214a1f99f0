package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/pagocadm-web/redimi-loyalty/internal/config"
	"github.com/pagocadm-web/redimi-loyalty/internal/repository"
	"github.com/pagocadm-web/redimi-loyalty/internal/service"
)

// Bootstraps a vendor account so the first login is possible.
// Usage: createvendor <username> <email> <password>
func main() {
	_ = godotenv.Load()

	if len(os.Args) < 4 {
		fmt.Fprintln(os.Stderr, "Usage: createvendor <username> <email> <password>")
		os.Exit(1)
	}
	username, email, password := os.Args[1], os.Args[2], os.Args[3]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store, err := repository.NewPostgres(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	if _, err := store.GetVendorByUsername(ctx, username); err == nil {
		log.Fatalf("Vendor %q already exists", username)
	}

	vendorSvc := service.NewVendorService(store)
	vendor, err := vendorSvc.CreateVendor(ctx, username, email, password)
	if err != nil {
		log.Fatalf("Failed to create vendor: %v", err)
	}

	log.Printf("Vendor created: %s (%s)", vendor.Username, vendor.ID)
}
