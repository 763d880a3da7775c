package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type (
	// Config represents an application configuration.
	Config struct {
		// The data source name (DSN) for connecting to the database.
		DSN string `yaml:"dsn" env:"DATABASE_URI"`
		// Subconfigs.
		HTTPServer HTTPServer `yaml:"http_server"`
		JWT        JWT        `yaml:"jwt"`
		Logger     Logger     `yaml:"logger"`
		Broker     Broker     `yaml:"broker"`
		RateLimit  RateLimit  `yaml:"rate_limit"`
		// Cost of the password to hash. Must be grater than 3.
		PasswordHashCost int `yaml:"password_hash_cost" env:"PASSWORD_HASH_COST" env-default:"14"`
	}
	// Config for HTTP server.
	HTTPServer struct {
		// The server startup address.
		Address string `yaml:"run_address" env:"RUN_ADDRESS" env-default:"127.0.0.1:8080"`
		// Read Header Timeout in seconds.
		Timeout time.Duration `yaml:"timeout" env-default:"5s"`
		// Idle timeout in seconds.
		IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
		// Shutdown timeout in seconds.
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"30s"`
	}
	// Config for application's logger.
	Logger struct {
		// Path to store log files.
		Path string `yaml:"path" env:"LOG_PATH"`
		// Application logging level.
		Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
		// Log files details.
		MaxSizeMB  int `yaml:"max_size_mb" env-default:"100"`
		MaxBackups int `yaml:"max_backups" env-default:"3"`
		MaxAgeDays int `yaml:"max_age_days" env-default:"28"`
	}
	// Config for JWT.
	JWT struct {
		// JWT signing key.
		SigningKey string `yaml:"signing_key" env:"JWT_SIGNING_KEY"`
		// JWT expiration in hours.
		Expiration time.Duration `yaml:"expiration" env:"JWT_EXPIRATION" env-default:"24h"`
	}
	// Config for the message broker status events are published to.
	Broker struct {
		// AMQP URL. Events are only logged if empty.
		URL string `yaml:"url" env:"BROKER_URL"`
		// Topic exchange name.
		Exchange string `yaml:"exchange" env:"BROKER_EXCHANGE" env-default:"orders.status"`
		// Publish timeout.
		Timeout time.Duration `yaml:"timeout" env-default:"5s"`
		// Consecutive publish failures that open the circuit breaker.
		BreakerFailures uint32 `yaml:"breaker_failures" env-default:"5"`
		// Time the breaker stays open before letting a trial request through.
		BreakerTimeout time.Duration `yaml:"breaker_timeout" env-default:"30s"`
	}
	// Config for the limiter of status changing requests.
	RateLimit struct {
		// One token is added every interval.
		Interval time.Duration `yaml:"interval" env:"RATE_LIMIT_INTERVAL" env-default:"10ms"`
		// Bucket size.
		Burst int `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"50"`
	}
)

// MustLoad returns an application configuration which is populated
// from the given configuration file, environment variables and flags.
// Priority: env > flags > file > defaults.
func MustLoad() *Config {
	cfg, err := Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return cfg
}

// Load parses args and builds the configuration.
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("order-workflow", flag.ContinueOnError)

	configPath := fs.String("config", "", "path to the config file")
	address := fs.String("a", "", "server startup address")
	dsn := fs.String("d", "", "server data source name")
	broker := fs.String("m", "", "message broker URL")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	var cfg Config

	// Load from YAML cfg file.
	if *configPath != "" {
		if _, err := os.Stat(*configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", *configPath)
		}
		if err := cleanenv.ReadConfig(*configPath, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", *configPath, err)
		}
	} else {
		// Apply env-default tags and environment variables only.
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment variables: %w", err)
		}
	}

	// Read given flags. Environment variables win over flags.
	if *address != "" && os.Getenv("RUN_ADDRESS") == "" {
		cfg.HTTPServer.Address = *address
	}
	if *dsn != "" && os.Getenv("DATABASE_URI") == "" {
		cfg.DSN = *dsn
	}
	if *broker != "" && os.Getenv("BROKER_URL") == "" {
		cfg.Broker.URL = *broker
	}

	if cfg.PasswordHashCost < 4 {
		return nil, fmt.Errorf("password hash cost must be grater than 3, got %d", cfg.PasswordHashCost)
	}

	if cfg.JWT.SigningKey == "" {
		return nil, errors.New("jwt signing key required")
	}

	return &cfg, nil
}
