package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// MigrationsDir holds the golang-migrate SQL files.
	MigrationsDir string

	// JWT
	JWTSecret string

	// CronAPIKey guards the /internal/cron endpoints.
	CronAPIKey string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Cycle worker
	WorkerInterval    time.Duration
	WorkerConcurrency int
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Get values from environment variables with defaults
	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "payday"),
		DBPassword: getEnv("DB_PASSWORD", "payday"),
		DBName:     getEnv("DB_NAME", "payday"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		CronAPIKey: getEnv("CRON_API_KEY", ""),

		// AMQP
		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "payday.events"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "payday.reminders"),
	}

	intervalStr := getEnv("WORKER_INTERVAL", "15m")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil || interval <= 0 {
		log.Printf("Warning: invalid WORKER_INTERVAL value '%s', falling back to 15m\n", intervalStr)
		interval = 15 * time.Minute
	}
	config.WorkerInterval = interval

	concurrencyStr := getEnv("WORKER_CONCURRENCY", "4")
	concurrency, err := strconv.Atoi(concurrencyStr)
	if err != nil || concurrency < 1 {
		log.Printf("Warning: invalid WORKER_CONCURRENCY value '%s', falling back to 4\n", concurrencyStr)
		concurrency = 4
	}
	config.WorkerConcurrency = concurrency

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
