// Package normalize holds the pure normalization rules for tag values.
// Nothing here performs I/O or keeps state.
package normalize

import "github.com/gyeh/tagclean/internal/model"

// Func turns one input record into zero or more canonical records.
type Func func(model.TagRecord) []model.TagRecord

// ForAttribute returns the normalizer registered for an attribute.
func ForAttribute(attr string) (Func, bool) {
	switch attr {
	case model.AttrPhone:
		return Phone, true
	case model.AttrPostcode:
		return postcodeFunc, true
	case model.AttrStreet:
		return streetFunc, true
	}
	return nil, false
}

func postcodeFunc(rec model.TagRecord) []model.TagRecord {
	if out, ok := Postcode(rec); ok {
		return []model.TagRecord{out}
	}
	return nil
}

func streetFunc(rec model.TagRecord) []model.TagRecord {
	return []model.TagRecord{Street(rec)}
}

// All applies fn to every record and returns the produced records together
// with the number of inputs that produced nothing.
func All(fn Func, records []model.TagRecord) (produced []model.TagRecord, dropped int) {
	produced = make([]model.TagRecord, 0, len(records))
	for _, rec := range records {
		out := fn(rec)
		if len(out) == 0 {
			dropped++
			continue
		}
		produced = append(produced, out...)
	}
	return produced, dropped
}
