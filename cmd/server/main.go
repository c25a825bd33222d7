package main

import (
	"context" // context package is needed for startup operations

	"taskboard/internal/api"     // Custom package for HTTP handlers
	"taskboard/internal/config"  // Custom package for configuration
	"taskboard/internal/db"      // Custom package for database setup
	"taskboard/internal/session" // Custom package for cookie sessions
	"taskboard/internal/store"   // Custom package for persistence
	"taskboard/internal/utils"   // Custom package for the Redis cache

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration
	ctx := context.Background()

	// Setup logger
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	} else {
		logrus.Warnf("unknown LOG_LEVEL %q, using info", cfg.LogLevel)
	}

	// Connect to the database and create the schema on first run
	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("%v", err)
	}

	users := store.NewUserStore(gdb)
	tasks := store.NewTaskStore(gdb)
	if err := store.ProvisionAdmin(ctx, users, store.AdminCredentials{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}); err != nil {
		logrus.Fatalf("failed to bootstrap admin: %v", err)
	}

	// Setup Redis client, optional
	redisClient, err := utils.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}
	if redisClient == nil {
		logrus.Info("REDIS_ADDR not set, dashboard cache disabled")
	}

	// Session signing key
	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		if secret, err = session.RandomSecret(); err != nil {
			logrus.Fatalf("failed to generate session secret: %v", err)
		}
		logrus.Warn("SESSION_SECRET not set, sessions will not survive a restart")
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r, err := api.NewRouter(api.Deps{
		DB:       gdb,
		Users:    users,
		Tasks:    tasks,
		Redis:    redisClient,
		Sessions: session.NewManager(secret, cfg.IsProd),
	})
	if err != nil {
		logrus.Fatalf("failed to build router: %v", err)
	}

	logrus.WithField("port", cfg.AppPort).Info("Server running") // Log server start
	if err := r.Run(":" + cfg.AppPort); err != nil {             // Start the server on port cfg.AppPort
		logrus.Fatalf("server stopped: %v", err)
	}
}
