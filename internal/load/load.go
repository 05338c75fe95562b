// Package load bulk-copies tag rows from a Parquet file into a tag table.
package load

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/gyeh/tagclean/internal/db"
	"github.com/gyeh/tagclean/internal/model"
	"github.com/gyeh/tagclean/internal/parquetread"
	"github.com/gyeh/tagclean/internal/store"
)

// Copier is the subset of pgxpool.Pool used for COPY.
type Copier interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// Run streams rows from the Parquet file at path into table via COPY.
// Rows without a key are rejected and counted.
func Run(ctx context.Context, pool Copier, log zerolog.Logger, path, table string) (*model.LoadSummary, error) {
	start := time.Now()

	if _, ok := model.ParentColumn(table); !ok {
		return nil, fmt.Errorf("load %q: %w", table, store.ErrUnknownTable)
	}

	sha, err := FileHash(path)
	if err != nil {
		return nil, err
	}

	reader, err := parquetread.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load open: %w", err)
	}
	defer reader.Close()

	log.Info().Str("file", path).Str("sha256", sha).Int64("rows", reader.NumRows()).Str("table", table).Msg("starting load")

	res, err := copyRows(ctx, pool, log, reader, table)
	if err != nil {
		return nil, err
	}

	summary := &model.LoadSummary{
		FilePath:     path,
		FileSHA256:   sha,
		Table:        table,
		RowsRead:     res.read,
		RowsLoaded:   res.loaded,
		RowsRejected: res.rejected,
		Duration:     time.Since(start),
	}
	log.Info().
		Int64("rows_read", res.read).
		Int64("rows_loaded", res.loaded).
		Int64("rows_rejected", res.rejected).
		Str("duration", summary.Duration.String()).
		Msg("load complete")

	return summary, nil
}

// rowSource yields Parquet row batches; parquetread.Reader implements it.
type rowSource interface {
	Next() ([]model.TagRow, error)
}

type copyResult struct {
	read, loaded, rejected int64
}

// copyRows streams rows from src into table through one COPY. A read error
// is reported to the COPY source so the statement aborts and nothing from
// the file is committed.
func copyRows(ctx context.Context, pool Copier, log zerolog.Logger, src rowSource, table string) (copyResult, error) {
	var res copyResult

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch := make(chan model.TagRecord, parquetread.BatchSize)
	copySrc := db.NewChannelSource(ch)
	errCh := make(chan error, 1)

	// Producer: read Parquet -> push to channel
	go func() {
		defer close(ch)
		fail := func(err error) {
			copySrc.Fail(err)
			errCh <- err
		}
		for {
			rows, readErr := src.Next()
			for i := range rows {
				res.read++
				if rows[i].Key == "" {
					res.rejected++
					log.Warn().Int64("row", res.read).Msg("row rejected: empty key")
					continue
				}
				select {
				case ch <- rows[i].Record():
				case <-ctx.Done():
					fail(ctx.Err())
					return
				}
			}
			if readErr == io.EOF {
				break
			}
			if readErr != nil {
				fail(fmt.Errorf("read parquet at row %d: %w", res.read, readErr))
				return
			}
		}
		errCh <- nil
	}()

	loaded, err := pool.CopyFrom(ctx,
		pgx.Identifier{store.Schema, table},
		db.TagColumns(table),
		copySrc,
	)
	if err != nil {
		cancel()
	}

	prodErr := <-errCh
	if prodErr != nil && !errors.Is(prodErr, context.Canceled) {
		return res, fmt.Errorf("load read: %w", prodErr)
	}
	if err != nil {
		return res, fmt.Errorf("load copy: %w", err)
	}
	if prodErr != nil {
		return res, fmt.Errorf("load read: %w", prodErr)
	}
	res.loaded = loaded
	return res, nil
}

// FileHash computes the hex-encoded SHA-256 of the file at path.
func FileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for hash: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
