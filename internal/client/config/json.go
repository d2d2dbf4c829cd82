package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/labdrive/internal/flagx"
	"github.com/dmitrijs2005/labdrive/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Intervals
// are timex.Duration so they can be "3s" or integer nanoseconds.
type JsonConfig struct {
	BaseURL             string         `json:"base_url"`
	Project             string         `json:"project"`
	Run                 string         `json:"run"`
	Kind                string         `json:"kind"`
	Language            string         `json:"language"`
	AllowedExtensions   []string       `json:"allowed_extensions"`
	DBPath              string         `json:"db_path"`
	LogLevel            string         `json:"log_level"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
}

// parseJson overlays Config with the values present in the JSON file named
// by -c/-config. Absent keys keep their current value. Read and decode
// errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.BaseURL, jc.BaseURL)
	setString(&cfg.Project, jc.Project)
	setString(&cfg.Run, jc.Run)
	setString(&cfg.Kind, jc.Kind)
	setString(&cfg.Language, jc.Language)
	setString(&cfg.DBPath, jc.DBPath)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.AllowedExtensions != nil {
		cfg.AllowedExtensions = jc.AllowedExtensions
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
