// Package store reads and rewrites attribute classes in the Postgres tag tables.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/gyeh/tagclean/internal/model"
)

// Schema is the Postgres schema holding the tag tables.
const Schema = "osm"

// insertBatchSize bounds the rows per INSERT to stay under the bind parameter limit.
const insertBatchSize = 1000

// ErrUnknownTable is returned for selectors naming a table other than the tag tables.
var ErrUnknownTable = errors.New("unknown tag table")

// DB is the subset of pgxpool.Pool used by the store.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ReplaceResult reports the row counts of one class replacement.
type ReplaceResult struct {
	Deleted  int64
	Inserted int64
}

// PgStore implements the tag store on Postgres.
type PgStore struct {
	db DB
}

// New returns a PgStore over db.
func New(db DB) *PgStore {
	return &PgStore{db: db}
}

// Fetch returns every record matching sel, ordered by parent id.
func (s *PgStore) Fetch(ctx context.Context, sel model.Selector) ([]model.TagRecord, error) {
	parent, ok := model.ParentColumn(sel.Table)
	if !ok {
		return nil, fmt.Errorf("fetch %q: %w", sel.Table, ErrUnknownTable)
	}
	keyPred, typePred := matches(sel)
	query, args, err := squirrel.Select(parent+" AS parent_id", "key", "value", "COALESCE(type, '') AS type").
		From(qualified(sel.Table)).
		Where(keyPred).
		Where(typePred).
		OrderBy(parent).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build fetch query: %w", err)
	}

	var records []model.TagRecord
	if err := pgxscan.Select(ctx, s.db, &records, query, args...); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", sel.Table, err)
	}
	return records, nil
}

// ReplaceClass deletes every record matching sel and inserts records in one
// transaction. On any error the transaction is rolled back and the class is
// left as it was.
func (s *PgStore) ReplaceClass(ctx context.Context, sel model.Selector, records []model.TagRecord) (ReplaceResult, error) {
	var res ReplaceResult
	parent, ok := model.ParentColumn(sel.Table)
	if !ok {
		return res, fmt.Errorf("replace %q: %w", sel.Table, ErrUnknownTable)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return res, fmt.Errorf("begin transaction: %w", err)
	}

	res, err = replaceInTx(ctx, tx, sel, parent, records)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return ReplaceResult{}, fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return ReplaceResult{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return ReplaceResult{}, fmt.Errorf("commit transaction: %w", err)
	}
	return res, nil
}

func replaceInTx(ctx context.Context, tx pgx.Tx, sel model.Selector, parent string, records []model.TagRecord) (ReplaceResult, error) {
	var res ReplaceResult

	keyPred, typePred := matches(sel)
	query, args, err := squirrel.Delete(qualified(sel.Table)).
		Where(keyPred).
		Where(typePred).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return res, fmt.Errorf("build delete: %w", err)
	}
	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return res, fmt.Errorf("delete %s: %w", sel.Table, err)
	}
	res.Deleted = tag.RowsAffected()

	for start := 0; start < len(records); start += insertBatchSize {
		end := min(start+insertBatchSize, len(records))
		ib := squirrel.Insert(qualified(sel.Table)).
			Columns(parent, "key", "value", "type").
			PlaceholderFormat(squirrel.Dollar)
		for _, rec := range records[start:end] {
			ib = ib.Values(rec.InsertValues()...)
		}
		query, args, err := ib.ToSql()
		if err != nil {
			return res, fmt.Errorf("build insert: %w", err)
		}
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return res, fmt.Errorf("insert %s rows %d-%d: %w", sel.Table, start, end, err)
		}
		res.Inserted += tag.RowsAffected()
	}
	return res, nil
}

func qualified(table string) string {
	return Schema + "." + table
}

func matches(sel model.Selector) (squirrel.Like, squirrel.Eq) {
	return squirrel.Like{"key": sel.KeyPattern}, squirrel.Eq{"type": sel.Types}
}
