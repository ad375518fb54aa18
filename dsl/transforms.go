package dsl

import (
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Trim removes leading and trailing white space.
func Trim(s string) string { return strings.TrimSpace(s) }

// Lower lower-cases s.
func Lower(s string) string { return cases.Lower(language.Und).String(s) }

// Upper upper-cases s.
func Upper(s string) string { return cases.Upper(language.Und).String(s) }

// TitleCase trims s and upper-cases the first letter of every space
// separated word. The rest of each word and the inner spacing are kept as
// typed: "joão silva" becomes "João Silva", "ana-maria" stays "Ana-maria".
func TitleCase(s string) string {
	words := strings.Split(strings.TrimSpace(s), " ")
	upper := cases.Upper(language.Und)
	for i, w := range words {
		if w == "" {
			continue
		}
		_, n := utf8.DecodeRuneInString(w)
		words[i] = upper.String(w[:n]) + w[n:]
	}
	return strings.Join(words, " ")
}

// CollapseSpaces trims s and folds inner runs of white space into one space.
func CollapseSpaces(s string) string { return strings.Join(strings.Fields(s), " ") }

// Round rounds to the nearest integer, half away from zero.
func Round(v float64) float64 { return math.Round(v) }
