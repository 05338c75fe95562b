package load

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"

	"github.com/gyeh/tagclean/internal/model"
	"github.com/gyeh/tagclean/internal/store"
)

type fakeCopier struct {
	table   pgx.Identifier
	columns []string
	rows    [][]any
	err     error
	srcErr  error
}

func (f *fakeCopier) CopyFrom(_ context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error) {
	f.table = table
	f.columns = columns
	if f.err != nil {
		return 0, f.err
	}
	for src.Next() {
		vals, err := src.Values()
		if err != nil {
			return 0, err
		}
		f.rows = append(f.rows, vals)
	}
	// pgx aborts the COPY when the source reports an error; nothing is committed.
	if f.srcErr = src.Err(); f.srcErr != nil {
		return 0, f.srcErr
	}
	return int64(len(f.rows)), nil
}

// batchSource returns its batches in order, then err.
type batchSource struct {
	batches [][]model.TagRow
	err     error
}

func (b *batchSource) Next() ([]model.TagRow, error) {
	if len(b.batches) == 0 {
		return nil, b.err
	}
	next := b.batches[0]
	b.batches = b.batches[1:]
	return next, nil
}

func writeTags(t *testing.T, rows []model.TagRow) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tags.parquet")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	w := parquet.NewGenericWriter[model.TagRow](f)
	if _, err := w.Write(rows); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return path
}

func TestRun(t *testing.T) {
	path := writeTags(t, []model.TagRow{
		{ParentID: 10, Key: "postcode", Value: "tw89gs", Type: "addr"},
		{ParentID: 11, Key: "", Value: "orphan", Type: "addr"},
		{ParentID: 12, Key: "street", Value: "baker st", Type: "addr"},
	})
	cp := &fakeCopier{}

	summary, err := Run(context.Background(), cp, zerolog.Nop(), path, model.WayTags)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.RowsRead != 3 || summary.RowsLoaded != 2 || summary.RowsRejected != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if len(summary.FileSHA256) != 64 {
		t.Errorf("expected hex sha256, got %q", summary.FileSHA256)
	}
	if cp.table.Sanitize() != `"osm"."way_tags"` {
		t.Errorf("copied into %s", cp.table.Sanitize())
	}
	if cp.columns[0] != "way_id" {
		t.Errorf("columns: %v", cp.columns)
	}
	if cp.rows[1][2] != "baker st" {
		t.Errorf("rows: %v", cp.rows)
	}
}

func TestRun_CopyError(t *testing.T) {
	path := writeTags(t, []model.TagRow{{ParentID: 1, Key: "phone", Value: "020 7946 0958", Type: "contact"}})
	boom := errors.New("copy failed")

	_, err := Run(context.Background(), &fakeCopier{err: boom}, zerolog.Nop(), path, model.NodeTags)
	if !errors.Is(err, boom) {
		t.Fatalf("expected copy error, got %v", err)
	}
}

func TestRun_UnknownTable(t *testing.T) {
	_, err := Run(context.Background(), &fakeCopier{}, zerolog.Nop(), "unused.parquet", "nodes")
	if !errors.Is(err, store.ErrUnknownTable) {
		t.Fatalf("expected ErrUnknownTable, got %v", err)
	}
}

func TestCopyRows_ReadErrorAbortsCopy(t *testing.T) {
	corrupt := errors.New("corrupt column chunk")
	src := &batchSource{
		batches: [][]model.TagRow{{
			{ParentID: 10, Key: "postcode", Value: "tw89gs", Type: "addr"},
			{ParentID: 12, Key: "street", Value: "baker st", Type: "addr"},
		}},
		err: corrupt,
	}
	cp := &fakeCopier{}

	res, err := copyRows(context.Background(), cp, zerolog.Nop(), src, model.WayTags)
	if !errors.Is(err, corrupt) {
		t.Fatalf("expected read error, got %v", err)
	}
	if !errors.Is(cp.srcErr, corrupt) {
		t.Errorf("COPY source did not report the read error: %v", cp.srcErr)
	}
	if res.loaded != 0 {
		t.Errorf("loaded = %d after failed read, want 0", res.loaded)
	}
	if res.read != 2 {
		t.Errorf("read = %d, want 2", res.read)
	}
}

func TestCopyRows_EOF(t *testing.T) {
	src := &batchSource{
		batches: [][]model.TagRow{
			{{ParentID: 1, Key: "phone", Value: "020 7946 0958", Type: "contact"}},
			{{ParentID: 2, Key: "phone", Value: "020 7946 0959", Type: "contact"}},
		},
		err: io.EOF,
	}
	cp := &fakeCopier{}

	res, err := copyRows(context.Background(), cp, zerolog.Nop(), src, model.NodeTags)
	if err != nil {
		t.Fatalf("copyRows: %v", err)
	}
	if res.loaded != 2 || res.read != 2 || cp.srcErr != nil {
		t.Errorf("unexpected result %+v, source err %v", res, cp.srcErr)
	}
}
