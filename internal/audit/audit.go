// Package audit reports tag values the normalizers would reject or rewrite,
// without touching the store.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/tagclean/internal/model"
	"github.com/gyeh/tagclean/internal/normalize"
)

// Fetcher reads tag records for a selector.
type Fetcher interface {
	Fetch(ctx context.Context, sel model.Selector) ([]model.TagRecord, error)
}

// Report is the JSON document written by an audit run.
type Report struct {
	RunID       string              `json:"run_id"`
	GeneratedAt time.Time           `json:"generated_at"`
	PostCodes   []string            `json:"post_codes"`
	StreetTypes map[string][]string `json:"street_types"`
	Phones      []string            `json:"phones"`
}

// InvalidPostcodes returns the distinct values that contain no well-formed postcode.
func InvalidPostcodes(records []model.TagRecord) []string {
	set := make(map[string]struct{})
	for _, rec := range records {
		if !normalize.ContainsPostcode(rec.Value) {
			set[rec.Value] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// UnexpectedStreetTypes groups street names by their trailing street type,
// for every type outside the standard list.
func UnexpectedStreetTypes(records []model.TagRecord) map[string][]string {
	byType := make(map[string]map[string]struct{})
	for _, rec := range records {
		t := normalize.StreetType(rec.Value)
		if t == "" || normalize.ExpectedStreetType(t) {
			continue
		}
		if byType[t] == nil {
			byType[t] = make(map[string]struct{})
		}
		byType[t][rec.Value] = struct{}{}
	}
	out := make(map[string][]string, len(byType))
	for t, names := range byType {
		out[t] = sortedKeys(names)
	}
	return out
}

// RejectedPhones returns the distinct raw values that yield no valid number.
func RejectedPhones(records []model.TagRecord) []string {
	set := make(map[string]struct{})
	for _, rec := range records {
		if len(normalize.Phone(rec)) == 0 {
			set[rec.Value] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// Build fetches every class and collects the findings for its attribute.
func Build(ctx context.Context, st Fetcher, log zerolog.Logger, classes []model.Class) (*Report, error) {
	start := time.Now()
	r := &Report{
		RunID:       uuid.New().String(),
		GeneratedAt: start.UTC(),
		PostCodes:   []string{},
		StreetTypes: map[string][]string{},
		Phones:      []string{},
	}

	for _, cls := range classes {
		records, err := st.Fetch(ctx, cls.Selector)
		if err != nil {
			return nil, fmt.Errorf("audit %s: %w", cls.Name, err)
		}
		switch cls.Attribute {
		case model.AttrPostcode:
			r.PostCodes = mergeSorted(r.PostCodes, InvalidPostcodes(records))
		case model.AttrStreet:
			for t, names := range UnexpectedStreetTypes(records) {
				r.StreetTypes[t] = mergeSorted(r.StreetTypes[t], names)
			}
		case model.AttrPhone:
			r.Phones = mergeSorted(r.Phones, RejectedPhones(records))
		}
		log.Debug().Str("class", cls.Name).Int("records", len(records)).Msg("class audited")
	}

	log.Info().
		Str("run_id", r.RunID).
		Int("invalid_postcodes", len(r.PostCodes)).
		Int("street_types", len(r.StreetTypes)).
		Int("rejected_phones", len(r.Phones)).
		Dur("duration", time.Since(start)).
		Msg("audit complete")

	return r, nil
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func mergeSorted(a, b []string) []string {
	out := append(slices.Clone(a), b...)
	slices.Sort(out)
	return slices.Compact(out)
}
