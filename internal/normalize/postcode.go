package normalize

import (
	"regexp"
	"strings"

	"github.com/gyeh/tagclean/internal/model"
)

// outwardCodes are the valid outward code shapes (L = letter, D = digit),
// written longest first so the alternation prefers the fullest match.
var outwardCodes = []string{
	`[A-Z]{2}\d[A-Z]`, // LLDL
	`[A-Z]\d[A-Z]`,    // LDL
	`[A-Z]{2}\d{2}`,   // LLDD
	`[A-Z]\d{2}`,      // LDD
	`[A-Z]{2}\d`,      // LLD
	`[A-Z]\d`,         // LD
}

const inwardCode = `\d[A-Z]{2}`

var (
	postcodeGrammar = `(?:` + strings.Join(outwardCodes, "|") + `) ` + inwardCode
	postcodeExact   = regexp.MustCompile(`^` + postcodeGrammar + `$`)
	postcodeAny     = regexp.MustCompile(postcodeGrammar)
)

// minPostcodeLength is the shortest space-less value worth repairing (LD + inward).
const minPostcodeLength = 5

// inwardLength is the fixed length of the inward code.
const inwardLength = 3

// ContainsPostcode reports whether a well-formed postcode appears anywhere in raw.
// Audits use it to collect invalid values.
func ContainsPostcode(raw string) bool {
	return postcodeAny.MatchString(raw)
}

// CanonicalPostcode returns the upper-case, space-separated form of raw,
// or ok=false when raw cannot be repaired into a valid postcode.
func CanonicalPostcode(raw string) (string, bool) {
	s := upperASCII(raw)
	if !strings.Contains(s, " ") {
		if len(s) < minPostcodeLength {
			return "", false
		}
		cut := len(s) - inwardLength
		s = s[:cut] + " " + s[cut:]
	}
	if !postcodeExact.MatchString(s) {
		return "", false
	}
	return s, true
}

// upperASCII upper-cases a-z only; non-ASCII letters such as 'ı' and 'ſ'
// stay as they are and fail the grammar.
func upperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'a' <= c && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}

// Postcode rewrites a postcode tag into canonical form, or drops it.
func Postcode(rec model.TagRecord) (model.TagRecord, bool) {
	code, ok := CanonicalPostcode(rec.Value)
	if !ok {
		return model.TagRecord{}, false
	}
	return rec.WithValue(code), true
}
