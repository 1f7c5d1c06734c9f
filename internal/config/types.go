package config

import "time"

type Config struct {
	Port           string
	Environment    string
	LogLevel       string
	AllowedOrigins []string

	// how long a message stays in history
	HistoryRetention time.Duration

	// how often the purge sweep runs
	PurgeInterval time.Duration

	// how long a released alias can be reclaimed
	PersistenceTimeout time.Duration

	// optional YAML file replacing the built-in censor terms
	CensorTermsFile string

	// ulule limiter rate for websocket upgrades per IP, e.g. "60-M"
	ConnectRateLimit string

	// token bucket for chat messages per connection
	MessageRate  float64
	MessageBurst int

	MaxConnectionsPerIP int
}

type Flags struct {
	Port               string
	HistoryRetention   time.Duration
	PurgeInterval      time.Duration
	PersistenceTimeout time.Duration
	CensorTermsFile    string
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
