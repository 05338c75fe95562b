package normalize

import (
	"regexp"
	"strings"

	"github.com/gyeh/tagclean/internal/model"
)

// phoneSeparators are tried in order; the first one present in a value splits it.
var phoneSeparators = []string{";", ",", "/", ":"}

var nonDialable = regexp.MustCompile(`[^0-9+]`)

// Country code prefixes, with and without a redundant trunk zero.
const (
	countryCodeTrunk = "440"
	countryCode      = "44"
	londonAreaCode   = "20"
)

const (
	minPhoneLength  = 7
	maxPhoneLength  = 10
	badPhoneLength  = 8
	areaPhoneLength = 10
)

// Phone expands a phone tag into one record per valid embedded number.
// Every emitted record carries the canonical "phone" key. Values with no
// valid number produce nil.
func Phone(rec model.TagRecord) []model.TagRecord {
	var out []model.TagRecord
	for _, candidate := range SplitPhones(rec.Value) {
		number := CleanPhone(candidate)
		if !ValidPhone(number) {
			continue
		}
		out = append(out, rec.WithKeyValue(model.AttrPhone, number))
	}
	return out
}

// SplitPhones splits a multi-number value on the first separator it contains.
func SplitPhones(value string) []string {
	for _, sep := range phoneSeparators {
		if strings.Contains(value, sep) {
			return strings.Split(value, sep)
		}
	}
	return []string{value}
}

// CleanPhone reduces a candidate to its national significant number:
// formatting, leading '+' and '0', and the country code are stripped.
func CleanPhone(candidate string) string {
	s := nonDialable.ReplaceAllString(candidate, "")
	s = strings.TrimLeft(s, "+")
	s = strings.TrimLeft(s, "0")
	switch {
	case strings.HasPrefix(s, countryCodeTrunk):
		return s[len(countryCodeTrunk):]
	case strings.HasPrefix(s, countryCode):
		return s[len(countryCode):]
	}
	return s
}

// ValidPhone reports whether a cleaned number has an acceptable length.
// Eight digit numbers never occur, and London area numbers are always ten digits.
func ValidPhone(number string) bool {
	n := len(number)
	if n > maxPhoneLength || n < minPhoneLength || n == badPhoneLength {
		return false
	}
	if strings.HasPrefix(number, londonAreaCode) && n != areaPhoneLength {
		return false
	}
	return true
}
