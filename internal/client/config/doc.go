// Package config loads runtime configuration for the labdrive CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// # JSON schema
//
//	{
//	  "base_url": "https://labs.example.org",
//	  "project": "cryo-em",
//	  "run": "2024-06-run-3",
//	  "kind": "raw_data",
//	  "language": "fr",
//	  "allowed_extensions": ["h5", "csv"],
//	  "db_path": "labdrive.db",
//	  "log_level": "info",
//	  "request_timeout": "30s",
//	  "online_check_interval": "3s"
//	}
package config
