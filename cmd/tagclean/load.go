package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/tagclean/internal/db"
	"github.com/gyeh/tagclean/internal/exitcode"
	"github.com/gyeh/tagclean/internal/load"
	"github.com/gyeh/tagclean/internal/logging"
	"github.com/gyeh/tagclean/internal/model"
	"github.com/gyeh/tagclean/internal/parquetread"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Bulk-load tag rows from a Parquet file",
	RunE:  runLoad,
}

func init() {
	f := loadCmd.Flags()
	f.StringVar(&cfg.FilePath, "file", "", "Path to Parquet file (required)")
	f.StringVar(&cfg.Table, "table", model.WayTags, "Target tag table: node_tags or way_tags")
	_ = loadCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	if err := cfg.ValidateLoad(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN, 1)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	summary, err := load.Run(ctx, pool, log, cfg.FilePath, cfg.Table)
	if err != nil {
		log.Error().Err(err).Msg("load failed")
		pool.Close()
		if errors.Is(err, parquetread.ErrSchema) {
			os.Exit(exitcode.ValidationError)
		}
		os.Exit(exitcode.LoadError)
	}

	fmt.Printf("Load complete: %d rows loaded into %s, %d rejected (%.1fs)\n",
		summary.RowsLoaded, summary.Table, summary.RowsRejected, summary.Duration.Seconds())
	return nil
}
