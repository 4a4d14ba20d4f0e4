package instructions

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/azybler/map_instructions/pkg/maneuver"
	"github.com/azybler/map_instructions/pkg/ordinal"
	"github.com/azybler/map_instructions/pkg/phrase"
)

// Options are the per-call inputs that are not part of the maneuver.
type Options struct {
	// LegIndex and LegCount place an arrival within a multi-leg route.
	// The waypoint ordinal is only filled for arrivals before the last leg.
	LegIndex int
	LegCount int

	// Hook, when set, rewrites every token value before insertion.
	Hook TokenHook
}

// maxExitOrdinal is the largest exit number spelled as an ordinal.
const maxExitOrdinal = 10

// Select picks the template for m and computes every token value. ok is
// false when the maneuver cannot be described (no modifier on a turn-like
// type). err is only set when the dictionary lacks a required default.
func Select(d *phrase.Dictionary, m *maneuver.Maneuver, opts Options) (template string, ctx RenderContext, ok bool, err error) {
	typ := m.Type
	if !d.HasType(string(typ)) {
		typ = maneuver.Turn
	}
	if typ != maneuver.Depart && typ != maneuver.Arrive && m.Modifier == "" {
		return "", RenderContext{}, false, nil
	}

	var set phrase.TemplateSet
	if typ.IsCircular() {
		set, err = circularSet(d, typ, m, &ctx)
		if err != nil {
			return "", RenderContext{}, false, err
		}
		ctx.WayName = hooked(opts.Hook, TokenWayName, first(m.ExitNames))
	} else {
		if s, found := d.Mode(string(m.Mode)); found {
			set = s
		} else if set, err = d.ModifierSet(string(typ), string(m.Modifier)); err != nil {
			return "", RenderContext{}, false, err
		}
		ctx.WayName = wayName(d, m, opts.Hook)
	}

	if typ == maneuver.UseLane {
		sig := ""
		if len(m.Intersections) > 0 {
			sig = IntersectionSignature(m.Intersections[0])
		}
		if p, found := d.Constants.Lanes[sig]; found && sig != "" {
			ctx.LaneInstruction = p
		} else {
			s, found := d.Steps[string(maneuver.UseLane)][phrase.NoLanes]
			if !found {
				return "", RenderContext{}, false, fmt.Errorf("%w: %s/%s", phrase.ErrMissingTemplate, maneuver.UseLane, phrase.NoLanes)
			}
			set = s
		}
	}

	template, err = pick(set, m, ctx.WayName != "")
	if err != nil {
		return "", RenderContext{}, false, fmt.Errorf("%s/%s: %w", typ, m.Modifier, err)
	}

	fillContext(d, m, opts, &ctx)
	return template, ctx, true, nil
}

// circularSet walks name_exit, name, exit, default for rotaries and
// roundabouts. The rotary name is recorded in ctx when a named set is used.
func circularSet(d *phrase.Dictionary, typ maneuver.Type, m *maneuver.Maneuver, ctx *RenderContext) (phrase.TemplateSet, error) {
	table := d.Circular[string(typ)]
	name := first(m.Names)

	if name != "" && m.ExitIndex > 0 {
		if s, ok := table[phrase.NameExit]; ok {
			ctx.RotaryName = name
			return s, nil
		}
	}
	if name != "" {
		if s, ok := table[phrase.Name]; ok {
			ctx.RotaryName = name
			return s, nil
		}
	}
	if m.ExitIndex > 0 {
		if s, ok := table[phrase.Exit]; ok {
			return s, nil
		}
	}
	if s, ok := table[phrase.Default]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %s/%s/%s", phrase.ErrMissingTemplate, typ, phrase.Default, phrase.Default)
}

// pick chooses within a template set by the content available, most
// specific first.
func pick(set phrase.TemplateSet, m *maneuver.Maneuver, hasWayName bool) (string, error) {
	if m.HasDestination() {
		if first(m.ExitCodes) != "" {
			if t, ok := set.Lookup(phrase.ExitDestination); ok {
				return t, nil
			}
		}
		if t, ok := set.Lookup(phrase.Destination); ok {
			return t, nil
		}
	}
	if first(m.ExitCodes) != "" {
		if t, ok := set.Lookup(phrase.Exit); ok {
			return t, nil
		}
	}
	if hasWayName {
		if t, ok := set.Lookup(phrase.Name); ok {
			return t, nil
		}
	}
	return set.Default()
}

// wayName combines the street name and road ref for generic maneuvers,
// using the dictionary's "name and ref" phrase when both are shown. The
// parts are hooked individually and the result is inserted as is.
func wayName(d *phrase.Dictionary, m *maneuver.Maneuver, hook TokenHook) Rendered {
	name := first(m.Names)
	ref := first(m.Codes)
	motorway := m.RoadClasses.Contains(maneuver.ClassMotorway)

	switch {
	case name != "" && ref != "" && name != ref && !motorway:
		parts := RenderContext{WayName: Rendered(apply(hook, TokenWayName, name)), Code: ref}
		return Rendered(Render(d.NameAndRef(), &parts, hook))
	case ref != "" && motorway && hasDigit(ref):
		return Rendered(apply(hook, TokenCode, ref))
	case name == "" && ref != "":
		return Rendered(apply(hook, TokenCode, ref))
	case name != "":
		return Rendered(apply(hook, TokenWayName, name))
	}
	return ""
}

func fillContext(d *phrase.Dictionary, m *maneuver.Maneuver, opts Options, ctx *RenderContext) {
	ctx.Code = first(m.Codes)
	ctx.ExitCode = first(m.ExitCodes)
	ctx.Destination = joinNonEmpty(": ", first(m.DestinationCodes), first(m.Destinations))

	if m.ExitIndex >= 1 && m.ExitIndex <= maxExitOrdinal {
		ctx.ExitIndex = ordinal.Format(m.ExitIndex, d.Locale, d.Constants.Ordinalize)
	}

	mod := m.Modifier
	if mod == "" {
		mod = maneuver.Straight
	}
	ctx.Modifier = d.Constants.Modifier[string(mod)]
	ctx.Direction = CompassDirection(d.Constants.Direction, m.FinalHeading)

	if opts.LegCount > 0 && opts.LegIndex != opts.LegCount-1 {
		ctx.WayPoint = ordinal.Format(opts.LegIndex+1, d.Locale, d.Constants.Ordinalize)
	}
}

func hooked(hook TokenHook, kind TokenKind, v string) Rendered {
	if v == "" {
		return ""
	}
	return Rendered(apply(hook, kind, v))
}

func apply(hook TokenHook, kind TokenKind, v string) string {
	if hook == nil {
		return v
	}
	return hook(kind, v)
}

func first(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
