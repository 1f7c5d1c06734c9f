package config

import (
	"flag"
	"io"
)

// parses CLI flags for the server binary. zero values mean "not set".
func ParseServerFlags(args []string) (Flags, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	port := fs.String("port", "", "port to listen on (overrides PORT)")
	retention := fs.Duration("history-retention", 0, "how long messages stay in history")
	purge := fs.Duration("purge-interval", 0, "how often old messages are purged")
	persistence := fs.Duration("persistence-timeout", 0, "how long a disconnected alias stays reserved")
	terms := fs.String("censor-terms", "", "YAML file with censored terms")

	if err := fs.Parse(args); err != nil {
		return Flags{}, err
	}

	return Flags{
		Port:               *port,
		HistoryRetention:   *retention,
		PurgeInterval:      *purge,
		PersistenceTimeout: *persistence,
		CensorTermsFile:    *terms,
	}, nil
}

// overlays set flags onto cfg
func (c *Config) ApplyFlags(f Flags) error {
	if f.Port != "" {
		c.Port = f.Port
	}

	if f.HistoryRetention != 0 {
		c.HistoryRetention = f.HistoryRetention
	}

	if f.PurgeInterval != 0 {
		c.PurgeInterval = f.PurgeInterval
	}

	if f.PersistenceTimeout != 0 {
		c.PersistenceTimeout = f.PersistenceTimeout
	}

	if f.CensorTermsFile != "" {
		c.CensorTermsFile = f.CensorTermsFile
	}

	return c.Validate()
}
