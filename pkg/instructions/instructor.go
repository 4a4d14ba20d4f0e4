// Package instructions turns a maneuver into a localized, human-readable
// instruction using a phrase dictionary.
package instructions

import (
	"fmt"
	"sync/atomic"

	"github.com/azybler/map_instructions/pkg/maneuver"
	"github.com/azybler/map_instructions/pkg/phrase"
)

// Format renders m with d. ok is false when the maneuver is not describable
// and should be skipped.
func Format(d *phrase.Dictionary, m *maneuver.Maneuver, opts Options) (string, bool, error) {
	template, ctx, ok, err := Select(d, m, opts)
	if err != nil || !ok {
		return "", ok, err
	}
	return Finish(Render(template, &ctx, opts.Hook), d.Meta, d.Locale), true, nil
}

// Instructor formats maneuvers for one locale. The dictionary can be swapped
// while other goroutines are formatting; each call sees exactly one
// dictionary.
type Instructor struct {
	dict atomic.Pointer[phrase.Dictionary]
}

// NewInstructor returns an Instructor using d.
func NewInstructor(d *phrase.Dictionary) *Instructor {
	in := &Instructor{}
	in.dict.Store(d)
	return in
}

// Dictionary returns the dictionary currently in use.
func (in *Instructor) Dictionary() *phrase.Dictionary {
	return in.dict.Load()
}

// Swap installs d and returns the previous dictionary.
func (in *Instructor) Swap(d *phrase.Dictionary) *phrase.Dictionary {
	return in.dict.Swap(d)
}

// Format renders m with the current dictionary.
func (in *Instructor) Format(m *maneuver.Maneuver, opts Options) (string, bool, error) {
	d := in.dict.Load()
	if d == nil {
		return "", false, fmt.Errorf("%w: instructor has no dictionary", phrase.ErrMissingResource)
	}
	return Format(d, m, opts)
}
