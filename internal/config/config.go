package config

import (
	"fmt"     // For DSN formatting
	"os"      // For environment variables
	"strconv" // For string to int conversion

	"github.com/joho/godotenv" // For loading .env files
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Config holds the application configuration
type Config struct {
	AppPort       string // Application port
	DBDriver      string // Database driver: sqlite, mysql or postgres
	DBPath        string // SQLite database file
	DBUser        string // Database user
	DBPassword    string // Database password
	DBHost        string // Database host
	DBPort        string // Database port
	DBName        string // Database name
	SessionSecret string // Session cookie signing key
	RedisAddr     string // Redis server address, cache disabled when empty
	RedisPass     string // Redis password
	RedisDB       int    // Redis database number
	IsProd        bool   // Is production environment
	LogLevel      string // Logrus level name
	AdminUsername string // First-run account username
	AdminEmail    string // First-run account email
	AdminPassword string // First-run account password, generated when empty
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:       getEnv("APP_PORT", "8080"),                 // Application port
		DBDriver:      getEnv("DB_DRIVER", DriverSQLite),          // Database driver
		DBPath:        getEnv("DB_PATH", "task_manager.db"),       // SQLite file
		DBUser:        os.Getenv("DB_USER"),                       // Database user
		DBPassword:    os.Getenv("DB_PASSWORD"),                   // Database password
		DBHost:        getEnv("DB_HOST", "localhost"),             // Database host
		DBPort:        os.Getenv("DB_PORT"),                       // Database port
		DBName:        os.Getenv("DB_NAME"),                       // Database name
		SessionSecret: os.Getenv("SESSION_SECRET"),                // Session signing key
		RedisAddr:     os.Getenv("REDIS_ADDR"),                    // Redis server address
		RedisPass:     os.Getenv("REDIS_PASS"),                    // Redis password
		RedisDB:       redisDB,                                    // Redis database number
		IsProd:        os.Getenv("IS_PROD") == "true",             // Is production environment
		LogLevel:      getEnv("LOG_LEVEL", "info"),                // Log level
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),          // First-run username
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@example.com"), // First-run email
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),                // First-run password
	}
}

// DSN returns the data source name for the configured driver
func (c *Config) DSN() (string, error) {
	switch c.DBDriver {
	case DriverSQLite:
		// Foreign keys are off by default in SQLite
		return c.DBPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", nil
	case DriverMySQL:
		port := c.DBPort
		if port == "" {
			port = "3306"
		}
		return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + port + ")/" + c.DBName + "?parseTime=true", nil
	case DriverPostgres:
		port := c.DBPort
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			c.DBHost, c.DBUser, c.DBPassword, c.DBName, port), nil
	default:
		return "", fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
}

// getEnv returns the environment value for key or fallback when unset
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
