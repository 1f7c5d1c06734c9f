package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort                = "8080"
	DefaultHistoryRetention    = 2 * time.Hour
	DefaultPurgeInterval       = 5 * time.Minute
	DefaultPersistenceTimeout  = 60 * time.Second
	DefaultConnectRateLimit    = "60-M"
	DefaultMessageRate         = 1.0
	DefaultMessageBurst        = 5
	DefaultMaxConnectionsPerIP = 10
)

// returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Port:                DefaultPort,
		Environment:         "development",
		HistoryRetention:    DefaultHistoryRetention,
		PurgeInterval:       DefaultPurgeInterval,
		PersistenceTimeout:  DefaultPersistenceTimeout,
		ConnectRateLimit:    DefaultConnectRateLimit,
		MessageRate:         DefaultMessageRate,
		MessageBurst:        DefaultMessageBurst,
		MaxConnectionsPerIP: DefaultMaxConnectionsPerIP,
	}
}

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	cfg := Default()

	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}

	if env := os.Getenv("ENVIRONMENT"); env != "" {
		cfg.Environment = env
	}

	cfg.LogLevel = os.Getenv("LOG_LEVEL")
	cfg.CensorTermsFile = os.Getenv("CENSOR_TERMS_FILE")

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = parseOrigins(origins)
	}

	var err error

	if cfg.HistoryRetention, err = durationVar("HISTORY_RETENTION", cfg.HistoryRetention); err != nil {
		return nil, err
	}

	if cfg.PurgeInterval, err = durationVar("PURGE_INTERVAL", cfg.PurgeInterval); err != nil {
		return nil, err
	}

	if cfg.PersistenceTimeout, err = durationVar("PERSISTENCE_TIMEOUT", cfg.PersistenceTimeout); err != nil {
		return nil, err
	}

	if rate := os.Getenv("CONNECT_RATE_LIMIT"); rate != "" {
		cfg.ConnectRateLimit = rate
	}

	if v := os.Getenv("MESSAGE_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil || rate <= 0 {
			return nil, fmt.Errorf("MESSAGE_RATE must be a positive number, got %q", v)
		}
		cfg.MessageRate = rate
	}

	if cfg.MessageBurst, err = positiveIntVar("MESSAGE_BURST", cfg.MessageBurst); err != nil {
		return nil, err
	}

	if cfg.MaxConnectionsPerIP, err = positiveIntVar("MAX_CONNECTIONS_PER_IP", cfg.MaxConnectionsPerIP); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// checks cross-field constraints
func (c *Config) Validate() error {
	if c.HistoryRetention <= 0 {
		return fmt.Errorf("history retention must be positive")
	}

	if c.PurgeInterval <= 0 {
		return fmt.Errorf("purge interval must be positive")
	}

	if c.PersistenceTimeout <= 0 {
		return fmt.Errorf("persistence timeout must be positive")
	}

	return nil
}

// reads a duration; accepts Go duration syntax ("90s", "2h") or bare seconds ("7200")
func durationVar(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}

	d, err := ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}

	return d, nil
}

func ParseDuration(v string) (time.Duration, error) {
	if seconds, err := strconv.Atoi(v); err == nil {
		if seconds <= 0 {
			return 0, fmt.Errorf("duration must be positive, got %q", v)
		}
		return time.Duration(seconds) * time.Second, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", v, err)
	}

	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %q", v)
	}

	return d, nil
}

func positiveIntVar(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}

	return n, nil
}

func parseOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}

	return result
}
