package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/tagclean/internal/audit"
	"github.com/gyeh/tagclean/internal/db"
	"github.com/gyeh/tagclean/internal/exitcode"
	"github.com/gyeh/tagclean/internal/logging"
	"github.com/gyeh/tagclean/internal/store"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Report invalid postcodes, phone numbers and unusual street types (no writes)",
	RunE:  runAudit,
}

func init() {
	f := auditCmd.Flags()
	f.StringVar(&cfg.ReportPath, "report", "", "Write the JSON report here instead of stdout")
	f.StringSliceVar(&cfg.Classes, "classes", nil, "Classes to audit (default: all)")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
	classes, err := cfg.SelectedClasses()
	if err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN, 1)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	report, err := audit.Build(ctx, store.New(pool), log, classes)
	if err != nil {
		log.Error().Err(err).Msg("audit failed")
		pool.Close()
		os.Exit(exitcode.AuditError)
	}

	out := os.Stdout
	if cfg.ReportPath != "" {
		f, err := os.Create(cfg.ReportPath)
		if err != nil {
			log.Error().Err(err).Msg("create report file")
			pool.Close()
			os.Exit(exitcode.AuditError)
		}
		defer f.Close()
		out = f
	}
	if err := audit.WriteJSON(out, report); err != nil {
		log.Error().Err(err).Msg("write report")
		pool.Close()
		os.Exit(exitcode.AuditError)
	}
	return nil
}
