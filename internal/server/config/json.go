package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/labdrive/internal/flagx"
	"github.com/dmitrijs2005/labdrive/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Durations accept "15m" or
// integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	SessionValidityDuration      timex.Duration `json:"session_validity_duration"`
	PresignValidityDuration      timex.Duration `json:"presign_validity_duration"`
	ImageStorageValidityDuration timex.Duration `json:"image_storage_validity_duration"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
	DevUserName                  string         `json:"dev_user_name"`
	DevUserPassword              string         `json:"dev_user_password"`
	LogLevel                     string         `json:"log_level"`
}

// parseJson overlays values from the file named by -c or -config.
// Empty fields keep what the target already holds. Unreadable or invalid
// files panic.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.SessionValidityDuration, c.SessionValidityDuration)
	setDuration(&config.PresignValidityDuration, c.PresignValidityDuration)
	setDuration(&config.ImageStorageValidityDuration, c.ImageStorageValidityDuration)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.DevUserName, c.DevUserName)
	setString(&config.DevUserPassword, c.DevUserPassword)
	setString(&config.LogLevel, c.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
