package db

import (
	"github.com/jackc/pgx/v5"

	"github.com/gyeh/tagclean/internal/model"
)

// TagColumns returns the COPY column order for a tag table.
func TagColumns(table string) []string {
	parent, _ := model.ParentColumn(table)
	return []string{parent, "key", "value", "type"}
}

// ChannelSource implements pgx.CopyFromSource by reading TagRecords from a channel.
// The channel gives backpressure between the file reader and the COPY writer.
type ChannelSource struct {
	ch      <-chan model.TagRecord
	current model.TagRecord
	err     error
}

// NewChannelSource creates a CopyFromSource backed by a channel.
func NewChannelSource(ch <-chan model.TagRecord) *ChannelSource {
	return &ChannelSource{ch: ch}
}

// Next advances to the next record. Returns false when the channel is closed.
func (s *ChannelSource) Next() bool {
	rec, ok := <-s.ch
	if !ok {
		return false
	}
	s.current = rec
	return true
}

// Values returns the current record in COPY column order.
func (s *ChannelSource) Values() ([]any, error) {
	return s.current.InsertValues(), nil
}

// Fail records err for Err. The producer must call it before closing the
// channel so a short read aborts the COPY instead of committing it.
func (s *ChannelSource) Fail(err error) {
	s.err = err
}

// Err returns the error passed to Fail, if any.
func (s *ChannelSource) Err() error {
	return s.err
}

var _ pgx.CopyFromSource = (*ChannelSource)(nil)
