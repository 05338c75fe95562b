package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gyeh/tagclean/internal/model"
)

// streetCorrections maps observed street-type tokens (after capitalization)
// to their standard form. Entries come from audit output; there is no
// general correction rule behind them.
var streetCorrections = map[string]string{
	"Ave":         "Avenue",
	"Rd":          "Road",
	"Rd.":         "Road",
	"Road,":       "Road",
	"St.":         "Street",
	"St":          "Street",
	"Sq":          "Square",
	"Sr":          "Street",
	"Ln":          "Lane",
	"Rpad":        "Road",
	"Strret":      "Street",
	"Rad":         "Road",
	"Avenuen":     "Avenue",
	"Place?":      "Place",
	"By-pass":     "Bypass",
	"Riad":        "Road",
	"Wqalk":       "Walk",
	"Road--":      "Road",
	"Road3":       "Road",
	"Ct":          "Court",
	"Berrylands'": "Berrylands",
	"N":           "North",
}

// Street types that need no correction.
var expectedStreetTypes = []string{
	"Street", "Avenue", "Boulevard", "Drive", "Court", "Place", "Square", "Lane", "Road",
	"Trail", "Parkway", "Commons", "Circle", "Crescent", "Gate", "Terrace", "Grove", "Way",
}

// metadataSuffix is the capitalized tail of values shaped like
// <val='Cobham Avenue',<Priority; inDataSet: false, ...: false>>.
const metadataSuffix = "False>>"

var (
	streetType  = regexp.MustCompile(`\b\S+\.?$`)
	brackets    = regexp.MustCompile(`[()]`)
	quotedValue = regexp.MustCompile(`'([^']*)'`)
)

// Street rewrites a street tag into title case with a standard street type.
// It never drops a record.
func Street(rec model.TagRecord) model.TagRecord {
	return rec.WithValue(CanonicalStreet(rec.Value))
}

// CanonicalStreet capitalizes each word of name, strips brackets and
// replaces a known misspelled or abbreviated street type.
func CanonicalStreet(name string) string {
	s := capitalizeStreet(name)
	loc := streetType.FindStringIndex(s)
	if loc == nil {
		return s
	}
	if s[loc[0]:] == metadataSuffix {
		m := quotedValue.FindStringSubmatch(s)
		if m == nil {
			return s
		}
		// Re-normalized so a second pass leaves the value unchanged.
		return correctStreetType(capitalizeStreet(m[1]))
	}
	return correctStreetType(s)
}

// StreetType returns the trailing street-type token of name, or "".
func StreetType(name string) string {
	return streetType.FindString(name)
}

// ExpectedStreetType reports whether t is a standard street type.
func ExpectedStreetType(t string) bool {
	for _, e := range expectedStreetTypes {
		if e == t {
			return true
		}
	}
	return false
}

func correctStreetType(s string) string {
	loc := streetType.FindStringIndex(s)
	if loc == nil {
		return s
	}
	if fixed, ok := streetCorrections[s[loc[0]:]]; ok {
		return s[:loc[0]] + fixed
	}
	return s
}

func capitalizeStreet(name string) string {
	s := strings.Trim(name, " ")
	s = brackets.ReplaceAllString(s, "")
	tokens := strings.Split(s, " ")
	for i, tok := range tokens {
		tokens[i] = capitalize(tok)
	}
	return strings.Join(tokens, " ")
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(tok string) string {
	r, size := utf8.DecodeRuneInString(tok)
	if size == 0 {
		return tok
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(tok[size:])
}
