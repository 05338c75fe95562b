package parquetread

import (
	"errors"
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// ErrSchema is wrapped by every schema validation error.
var ErrSchema = errors.New("invalid tag file schema")

// tagColumns lists the physical type expected for each tag column.
var tagColumns = []struct {
	name     string
	kind     parquet.Kind
	optional bool
}{
	{"id", parquet.Int64, false},
	{"key", parquet.ByteArray, false},
	{"value", parquet.ByteArray, false},
	{"type", parquet.ByteArray, true},
}

// ValidateSchema checks that schema carries the tag columns with usable types.
func ValidateSchema(schema *parquet.Schema) error {
	fields := make(map[string]parquet.Field)
	for _, field := range schema.Fields() {
		fields[strings.ToLower(field.Name())] = field
	}

	for _, col := range tagColumns {
		field, ok := fields[col.name]
		if !ok {
			if col.optional {
				continue
			}
			return fmt.Errorf("%w: missing required column: %s", ErrSchema, col.name)
		}
		if !field.Leaf() {
			return fmt.Errorf("%w: column %s: nested columns are not supported", ErrSchema, col.name)
		}
		if kind := field.Type().Kind(); kind != col.kind {
			return fmt.Errorf("%w: column %s: got %v, want %v", ErrSchema, col.name, kind, col.kind)
		}
	}
	return nil
}
