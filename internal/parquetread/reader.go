// Package parquetread streams tag rows out of Parquet files.
package parquetread

import (
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/tagclean/internal/model"
)

// BatchSize is the number of rows returned by each call to Next.
const BatchSize = 1024

// Reader yields TagRow batches from one Parquet file.
type Reader struct {
	file   *os.File
	reader *parquet.GenericReader[model.TagRow]
	buf    []model.TagRow
}

// Open opens path and checks its schema before any row is read.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat parquet file: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	if err := ValidateSchema(pf.Schema()); err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &Reader{
		file:   f,
		reader: parquet.NewGenericReader[model.TagRow](pf),
		buf:    make([]model.TagRow, BatchSize),
	}, nil
}

// NumRows returns the row count recorded in the file footer.
func (r *Reader) NumRows() int64 {
	return r.reader.NumRows()
}

// Next returns the next batch of rows. The slice is reused by the following
// call. The last batch may come back together with io.EOF.
func (r *Reader) Next() ([]model.TagRow, error) {
	n, err := r.reader.Read(r.buf)
	if err != nil && err != io.EOF {
		return r.buf[:n], fmt.Errorf("read parquet rows: %w", err)
	}
	return r.buf[:n], err
}

func (r *Reader) Close() error {
	if err := r.reader.Close(); err != nil {
		r.file.Close()
		return err
	}
	return r.file.Close()
}
