// Package clean runs the normalizers against the tag store, one attribute
// class at a time, replacing each class atomically.
package clean

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gyeh/tagclean/internal/config"
	"github.com/gyeh/tagclean/internal/model"
	"github.com/gyeh/tagclean/internal/store"
)

// Store is the tag store contract the pipeline depends on.
type Store interface {
	Fetch(ctx context.Context, sel model.Selector) ([]model.TagRecord, error)
	ReplaceClass(ctx context.Context, sel model.Selector, records []model.TagRecord) (store.ReplaceResult, error)
}

// PhaseError wraps an error with the class and phase where it occurred.
type PhaseError struct {
	Class string
	Phase string
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Class, e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

// Run normalizes every configured class. Classes run concurrently up to
// cfg.Parallelism; the first failure cancels classes that have not finished.
// A class that fails keeps its original records.
func Run(ctx context.Context, st Store, log zerolog.Logger, cfg *config.Config) (*model.RunSummary, error) {
	totalStart := time.Now()

	classes, err := cfg.SelectedClasses()
	if err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	log = log.With().Str("run_id", runID).Logger()
	log.Info().Strs("classes", cfg.Classes).Bool("dry_run", cfg.DryRun).Msg("starting clean run")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Parallelism, 1))

	summaries := make([]model.ClassSummary, len(classes))
	for i, cls := range classes {
		g.Go(func() error {
			s, err := RunClass(gctx, st, log, cls, cfg.DryRun)
			if err != nil {
				return err
			}
			summaries[i] = *s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &model.RunSummary{
		RunID:         runID,
		DryRun:        cfg.DryRun,
		Classes:       summaries,
		DurationTotal: time.Since(totalStart),
	}

	log.Info().
		Int("classes", len(summaries)).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("clean run complete")

	return summary, nil
}
