// Package cmd implements the provmgr command line interface.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"provmgr/config"
	"provmgr/internal/crypto"
	"provmgr/internal/logging"
)

// Version information, injected at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersionInfo sets the version information shown by --version.
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

var (
	configPath string
	keyPath    string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "provmgr",
	Short: "AI provider configuration manager",
	Long: `provmgr manages AI provider entries (base URL, API key, model list) in a
local JSON config file, with API keys encrypted at rest. It serves a browser
UI for editing and can probe OpenAI-compatible endpoints to discover models
and test connectivity.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(logging.ParseLevel(logLevel), os.Stderr)
	},
}

// Execute runs the root command.
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(`provmgr {{.Version}}
Commit: ` + commit + `
Date: ` + date + `
`)
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: $XDG_CONFIG_HOME/provmgr/config.json)")
	rootCmd.PersistentFlags().StringVar(&keyPath, "key-file", "", "master key file path (default: alongside the config directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
}

// newStore builds the configuration store from the global flags, falling
// back to environment variables and the default locations.
func newStore() *config.Store {
	path := configPath
	if path == "" {
		path = os.Getenv("PROVMGR_CONFIG")
	}
	if path == "" {
		path = config.DefaultConfigPath()
	}

	key := keyPath
	if key == "" {
		key = os.Getenv("PROVMGR_KEY_FILE")
	}
	if key == "" {
		key = crypto.DefaultKeyPath()
	}

	return config.NewStore(path, crypto.New(key))
}
