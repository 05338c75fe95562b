package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/gyeh/tagclean/internal/clean"
	"github.com/gyeh/tagclean/internal/config"
	"github.com/gyeh/tagclean/internal/db"
	"github.com/gyeh/tagclean/internal/exitcode"
	"github.com/gyeh/tagclean/internal/logging"
	"github.com/gyeh/tagclean/internal/store"
)

var configPath string

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Normalize tag classes and replace them in the store",
	RunE:  runClean,
}

func init() {
	f := cleanCmd.Flags()
	f.StringVar(&configPath, "config", "", "YAML file with classes and parallelism")
	f.StringSliceVar(&cfg.Classes, "classes", nil, "Classes to normalize (default: all)")
	f.IntVar(&cfg.Parallelism, "parallelism", cfg.Parallelism, "Classes normalized concurrently")
	f.BoolVar(&cfg.DryRun, "dry-run", false, "Fetch and normalize without writing")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if configPath != "" {
		if err := mergeConfigFile(cmd, &cfg, configPath); err != nil {
			log.Error().Err(err).Msg("config file invalid")
			os.Exit(exitcode.UsageError)
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN, int32(cfg.Parallelism))
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	summary, err := clean.Run(ctx, store.New(pool), log, &cfg)
	if err != nil {
		var pe *clean.PhaseError
		if errors.As(err, &pe) {
			log.Error().Err(pe.Err).Str("class", pe.Class).Str("phase", pe.Phase).Msg("clean failed")
		} else {
			log.Error().Err(err).Msg("clean failed")
		}
		pool.Close()
		os.Exit(exitcode.ReplaceError)
	}

	for _, s := range summary.Classes {
		fmt.Printf("%-14s fetched %6d  produced %6d  dropped %6d  deleted %6d  inserted %6d\n",
			s.Class, s.Fetched, s.Produced, s.Dropped, s.Deleted, s.Inserted)
	}
	mode := "applied"
	if summary.DryRun {
		mode = "dry run"
	}
	fmt.Printf("Clean %s: %d classes (%.1fs)\n", mode, len(summary.Classes), summary.DurationTotal.Seconds())
	return nil
}

// mergeConfigFile reads path into c. Flags set explicitly on cmd keep
// their values over the file.
func mergeConfigFile(cmd *cobra.Command, c *config.Config, path string) error {
	flagClasses, flagParallelism := c.Classes, c.Parallelism
	if err := c.LoadFromFile(path); err != nil {
		return err
	}
	if cmd.Flags().Changed("classes") {
		c.Classes = flagClasses
	}
	if cmd.Flags().Changed("parallelism") {
		c.Parallelism = flagParallelism
	}
	return nil
}
