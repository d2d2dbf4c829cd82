package config

import "time"

// Config holds runtime settings for the labdrive CLI.
type Config struct {
	BaseURL             string
	Project             string
	Run                 string
	Kind                string
	Language            string
	AllowedExtensions   []string
	DBPath              string
	LogLevel            string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://127.0.0.1:8000"
	c.Kind = "raw_data"
	c.Language = "en"
	c.AllowedExtensions = []string{"h5", "hdf5", "csv", "txt", "json", "pdf", "png", "jpg", "jpeg"}
	c.DBPath = "labdrive.db"
	c.LogLevel = "warn"
	c.RequestTimeout = 30 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
