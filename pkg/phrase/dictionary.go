// Package phrase holds locale phrase dictionaries: the nested template tables
// used to turn a maneuver into an instruction, parsed once into typed records.
package phrase

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
)

// FormatVersion is the dictionary section read by this package.
const FormatVersion = "v5"

var (
	// ErrMissingTemplate means a "default" entry is absent somewhere the
	// selection cascade can reach. The dictionary is incomplete.
	ErrMissingTemplate = errors.New("missing default template")

	// ErrMissingResource means no usable dictionary resource exists for the
	// requested locale or its fallback, or the resource could not be parsed.
	ErrMissingResource = errors.New("missing dictionary resource")
)

// Template set discriminators, in selection priority order.
const (
	ExitDestination = "exit_destination"
	Destination     = "destination"
	Exit            = "exit"
	Name            = "name"
	Default         = "default"
)

// Circular junction discriminators.
const (
	NameExit = "name_exit"
	NoLanes  = "no_lanes"
)

// Meta holds dictionary-wide formatting flags.
type Meta struct {
	CapitalizeFirstLetter bool
}

// Constants are the lookup tables shared by all maneuver types.
type Constants struct {
	Ordinalize map[string]string // "1" -> "1st"
	Direction  map[string]string // "north" -> "north"
	Modifier   map[string]string // "sharp left" -> "sharp left"
	Lanes      map[string]string // lane signature -> phrase
}

// TemplateSet maps a content discriminator to a template string.
type TemplateSet map[string]string

// Lookup returns the template for key, if present.
func (s TemplateSet) Lookup(key string) (string, bool) {
	t, ok := s[key]
	return t, ok
}

// Default returns the "default" template.
func (s TemplateSet) Default() (string, error) {
	t, ok := s[Default]
	if !ok {
		return "", ErrMissingTemplate
	}
	return t, nil
}

// ModifierTable maps a modifier (or "default") to its template set.
type ModifierTable map[string]TemplateSet

// CircularTable maps the rotary discriminators (name_exit, name, exit,
// default) to template sets. It is the level below the fixed "default" key.
type CircularTable map[string]TemplateSet

// Dictionary is an immutable, validated phrase dictionary for one locale.
type Dictionary struct {
	Locale    language.Tag
	Version   string
	Meta      Meta
	Constants Constants

	Modes    map[string]TemplateSet
	Steps    map[string]ModifierTable
	Circular map[string]CircularTable

	// Phrases are the composite phrases of the "phrase" section.
	Phrases map[string]string
}

// PhraseNameAndRef joins a street name and its road ref, e.g.
// "{name} ({ref})".
const PhraseNameAndRef = "name and ref"

const defaultNameAndRef = "{name} ({ref})"

// NameAndRef returns the PhraseNameAndRef template, or "{name} ({ref})"
// when the dictionary has none.
func (d *Dictionary) NameAndRef() string {
	if p, ok := d.Phrases[PhraseNameAndRef]; ok && p != "" {
		return p
	}
	return defaultNameAndRef
}

// HasType reports whether the dictionary has templates for a maneuver type.
func (d *Dictionary) HasType(t string) bool {
	if _, ok := d.Steps[t]; ok {
		return true
	}
	_, ok := d.Circular[t]
	return ok
}

// Mode returns the mode override set, if any.
func (d *Dictionary) Mode(mode string) (TemplateSet, bool) {
	if mode == "" {
		return nil, false
	}
	s, ok := d.Modes[mode]
	return s, ok
}

// ModifierSet returns the template set for a modifier of a generic type,
// falling back to the type's "default" set.
func (d *Dictionary) ModifierSet(typ, modifier string) (TemplateSet, error) {
	table, ok := d.Steps[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingTemplate, typ)
	}
	if s, ok := table[modifier]; ok && modifier != "" {
		return s, nil
	}
	if s, ok := table[Default]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %s/%s", ErrMissingTemplate, typ, Default)
}

// Stats summarises what a dictionary contains.
type Stats struct {
	Types     int
	Modes     int
	Templates int
}

// Stats counts the types, modes and templates in d.
func (d *Dictionary) Stats() Stats {
	st := Stats{Types: len(d.Steps) + len(d.Circular), Modes: len(d.Modes)}
	for _, s := range d.Modes {
		st.Templates += len(s)
	}
	for _, table := range d.Steps {
		for _, s := range table {
			st.Templates += len(s)
		}
	}
	for _, table := range d.Circular {
		for _, s := range table {
			st.Templates += len(s)
		}
	}
	return st
}
