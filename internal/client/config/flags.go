package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/labdrive/internal/flagx"
)

var knownFlags = []string{"-a", "-p", "-r", "-k", "-l", "-x", "-d", "-v", "-t", "-i"}

// parseFlags populates Config fields from command-line flags.
//
//	-a string   backend base URL
//	-p string   project slug
//	-r string   run name
//	-k string   file kind (raw_data, processed_data)
//	-l string   interface language (en, fr)
//	-x list     accepted extensions, comma separated
//	-d string   local database path
//	-v string   log level
//	-t duration request timeout
//	-i int      online check interval (in seconds)
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "backend base url")
	fs.StringVar(&cfg.Project, "p", cfg.Project, "project slug")
	fs.StringVar(&cfg.Run, "r", cfg.Run, "run name")
	fs.StringVar(&cfg.Kind, "k", cfg.Kind, "file kind")
	fs.StringVar(&cfg.Language, "l", cfg.Language, "interface language")
	fs.Var(flagx.ListValue{Items: &cfg.AllowedExtensions}, "x", "accepted file extensions")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "local database path")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
