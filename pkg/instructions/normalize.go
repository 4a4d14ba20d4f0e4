package instructions

import (
	"regexp"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/azybler/map_instructions/pkg/phrase"
)

// Each match is replaced once, so three spaces become two.
var doubleSpace = regexp.MustCompile(`\s\s`)

// Finish folds pairs of whitespace characters into one space and, when the
// dictionary asks for it, upper-cases the first letter using the locale's
// casing rules.
func Finish(s string, meta phrase.Meta, tag language.Tag) string {
	s = doubleSpace.ReplaceAllString(s, " ")
	if !meta.CapitalizeFirstLetter || s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	return cases.Upper(tag).String(s[:size]) + s[size:]
}
