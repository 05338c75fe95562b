package clean

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/tagclean/internal/model"
	"github.com/gyeh/tagclean/internal/normalize"
)

// RunClass fetches one class, normalizes it in memory and replaces it.
// With dryRun set the store is only read.
func RunClass(ctx context.Context, st Store, log zerolog.Logger, cls model.Class, dryRun bool) (*model.ClassSummary, error) {
	start := time.Now()
	log = log.With().Str("class", cls.Name).Str("table", cls.Selector.Table).Logger()

	fn, ok := normalize.ForAttribute(cls.Attribute)
	if !ok {
		return nil, &PhaseError{Class: cls.Name, Phase: "normalize", Err: fmt.Errorf("no normalizer for attribute %q", cls.Attribute)}
	}

	records, err := st.Fetch(ctx, cls.Selector)
	if err != nil {
		return nil, &PhaseError{Class: cls.Name, Phase: "fetch", Err: err}
	}

	produced, dropped := normalize.All(fn, records)
	summary := &model.ClassSummary{
		Class:    cls.Name,
		Fetched:  len(records),
		Produced: len(produced),
		Dropped:  dropped,
	}

	if dryRun {
		summary.Duration = time.Since(start)
		log.Info().
			Int("fetched", summary.Fetched).
			Int("produced", summary.Produced).
			Int("dropped", summary.Dropped).
			Dur("duration", summary.Duration).
			Msg("dry run, class left unchanged")
		return summary, nil
	}

	res, err := st.ReplaceClass(ctx, cls.Selector, produced)
	if err != nil {
		return nil, &PhaseError{Class: cls.Name, Phase: "replace", Err: err}
	}
	summary.Deleted = res.Deleted
	summary.Inserted = res.Inserted
	summary.Duration = time.Since(start)

	log.Info().
		Int("fetched", summary.Fetched).
		Int("produced", summary.Produced).
		Int("dropped", summary.Dropped).
		Int64("deleted", summary.Deleted).
		Int64("inserted", summary.Inserted).
		Dur("duration", summary.Duration).
		Msg("class replaced")

	return summary, nil
}
