// Package ordinal formats ordinal numbers ("1st", "2e", "3.") for a locale.
package ordinal

import (
	"strconv"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
)

// Suffixes maps a CLDR ordinal category to the suffix appended to the digits.
type Suffixes map[plural.Form]string

// rules is keyed by base language.
var rules = map[string]Suffixes{
	"en": {plural.One: "st", plural.Two: "nd", plural.Few: "rd", plural.Other: "th"},
	"fr": {plural.One: "er", plural.Other: "e"},
	"de": {plural.Other: "."},
	"nl": {plural.Other: "e"},
	"es": {plural.Other: "º"},
	"it": {plural.Other: "º"},
	"pt": {plural.Other: "º"},
	"sv": {plural.One: ":a", plural.Other: ":e"},
	"da": {plural.Other: "."},
	"nb": {plural.Other: "."},
	"pl": {plural.Other: "."},
}

// Format returns n as an ordinal in the given locale. A phrase for n in
// overrides (keyed by the decimal digits, as in a dictionary's "ordinalize"
// table) wins over the suffix rules. Locales without rules get bare digits.
func Format(n int, tag language.Tag, overrides map[string]string) string {
	digits := strconv.Itoa(n)
	if s, ok := overrides[digits]; ok {
		return s
	}
	base, _ := tag.Base()
	suffixes, ok := rules[base.String()]
	if !ok || n < 0 {
		return digits
	}
	form := plural.Ordinal.MatchPlural(tag, n, 0, 0, 0, 0)
	if s, ok := suffixes[form]; ok {
		return digits + s
	}
	return digits + suffixes[plural.Other]
}
