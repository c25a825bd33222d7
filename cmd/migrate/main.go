package main

import (
	"context"

	"taskboard/internal/config" // Custom import path (Config)
	"taskboard/internal/db"     // Custom import path (Database)
	"taskboard/internal/store"  // Custom import path (Stores)

	"github.com/sirupsen/logrus"
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("%v", err)
	}
	// Provision the first-run account alongside the schema
	users := store.NewUserStore(gdb)
	if err := store.ProvisionAdmin(context.Background(), users, store.AdminCredentials{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}); err != nil {
		logrus.Fatalf("failed to bootstrap admin: %v", err)
	}
}
