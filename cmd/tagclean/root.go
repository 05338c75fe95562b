package main

import (
	"github.com/spf13/cobra"

	"github.com/gyeh/tagclean/internal/config"
)

// cfg is filled from the environment before any init runs, so environment
// values become flag defaults and explicit flags win.
var cfg, envErr = envConfig()

var rootCmd = &cobra.Command{
	Use:   "tagclean",
	Short: "Normalize OSM tag values in Postgres",
	Long:  "Audits and rewrites phone numbers, postcodes and street names stored in the osm tag tables.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return envErr
	},
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", cfg.DSN, "Postgres connection string (or set TAGCLEAN_DB_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text or json")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
}

func envConfig() (config.Config, error) {
	var c config.Config
	err := c.LoadEnv()
	return c, err
}
