// Package textutil normalises user supplied names for search and display.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds case and strips diacritics so that "Crème Brûlée" and
// "creme brulee" compare equal. Inner whitespace is collapsed.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	out = cases.Fold().String(out)
	return strings.Join(strings.Fields(out), " ")
}

// Title capitalises each word of a display name.
func Title(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return cases.Title(language.Und, cases.NoLower).String(s)
}
