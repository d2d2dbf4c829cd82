package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd", "-a", "https://labs.example", "-p", "proj", "-r", "run-1", "-k", "processed_data",
				"-l", "fr", "-x", "csv, h5", "-d", "/tmp/l.db", "-v", "debug", "-t", "5s", "-i", "10"},
			expected: &Config{
				BaseURL: "https://labs.example", Project: "proj", Run: "run-1", Kind: "processed_data",
				Language: "fr", AllowedExtensions: []string{"csv", "h5"}, DBPath: "/tmp/l.db", LogLevel: "debug",
				RequestTimeout: 5 * time.Second, OnlineCheckInterval: 10 * time.Second,
			},
		},
		{
			name:     "unknown flags are ignored",
			args:     []string{"cmd", "-c", "cfg.json", "-p", "proj", "-zzz"},
			expected: &Config{Project: "proj"},
		},
		{name: "incorrect check interval", args: []string{"cmd", "-i", "abc"}, expectPanic: true},
		{name: "incorrect timeout", args: []string{"cmd", "-t", "soon"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
