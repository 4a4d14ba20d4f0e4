package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/azybler/map_instructions/pkg/geo"
	"github.com/azybler/map_instructions/pkg/instructions"
	"github.com/azybler/map_instructions/pkg/maneuver"
	"github.com/azybler/map_instructions/pkg/phrase"
)

// fieldError reports an unusable request field by its JSON path.
type fieldError struct {
	field string
	err   error
}

func (e *fieldError) Error() string { return e.field + ": " + e.err.Error() }
func (e *fieldError) Unwrap() error { return e.err }

var (
	errRequired      = errors.New("required")
	errBadCoordinate = errors.New("must be [lng, lat] within range")
	errNegativeExit  = errors.New("must not be negative")
)

// Maneuvers converts every step of every leg. A conversion error names the
// offending field by its JSON path.
func (req *InstructionsRequest) Maneuvers() ([][]maneuver.Maneuver, error) {
	legs := make([][]maneuver.Maneuver, len(req.Legs))
	for li, leg := range req.Legs {
		legs[li] = make([]maneuver.Maneuver, len(leg.Steps))
		for si := range leg.Steps {
			m, err := leg.Steps[si].toManeuver(fmt.Sprintf("legs[%d].steps[%d]", li, si))
			if err != nil {
				return nil, err
			}
			legs[li][si] = m
		}
	}
	return legs, nil
}

// FormatRoute formats each maneuver with d, passing the leg position so
// intermediate arrivals name their waypoint. It stops when ctx is done.
func FormatRoute(ctx context.Context, d *phrase.Dictionary, legs [][]maneuver.Maneuver, hook instructions.TokenHook) ([]LegInstructions, error) {
	out := make([]LegInstructions, 0, len(legs))
	for li, leg := range legs {
		steps := make([]StepInstruction, 0, len(leg))
		for si := range leg {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			text, ok, err := instructions.Format(d, &leg[si], instructions.Options{
				LegIndex: li,
				LegCount: len(legs),
				Hook:     hook,
			})
			if err != nil {
				return nil, fmt.Errorf("legs[%d].steps[%d]: %w", li, si, err)
			}
			steps = append(steps, StepInstruction{Instruction: text, Skipped: !ok})
		}
		out = append(out, LegInstructions{Steps: steps})
	}
	return out, nil
}

// FieldOf returns the JSON path of the request field err complains about,
// or "" if err is not about a field.
func FieldOf(err error) string {
	var fe *fieldError
	if errors.As(err, &fe) {
		return fe.field
	}
	return ""
}

// toManeuver converts an OSRM step. path is the step's JSON path, used to
// name the offending field in errors.
func (s *StepJSON) toManeuver(path string) (maneuver.Maneuver, error) {
	m := maneuver.Maneuver{
		Type:      maneuver.Type(strings.TrimSpace(s.Maneuver.Type)),
		Modifier:  maneuver.Modifier(strings.TrimSpace(s.Maneuver.Modifier)),
		Mode:      maneuver.Mode(strings.TrimSpace(s.Mode)),
		Codes:     maneuver.SplitList(s.Ref),
		ExitCodes: maneuver.SplitList(s.Exits),
		ExitIndex: s.Maneuver.Exit,
	}
	if m.Type == "" {
		return m, &fieldError{path + ".maneuver.type", errRequired}
	}
	if m.ExitIndex < 0 {
		return m, &fieldError{path + ".maneuver.exit", errNegativeExit}
	}
	m.DestinationCodes, m.Destinations = maneuver.ParseDestinations(s.Destinations)

	// On rotaries the step name is the road taken on exit.
	name := strings.TrimSpace(s.Name)
	if m.Type.IsCircular() {
		if rotary := strings.TrimSpace(s.RotaryName); rotary != "" {
			m.Names = []string{rotary}
		}
		if name != "" {
			m.ExitNames = []string{name}
		}
	} else if name != "" {
		m.Names = []string{name}
	}

	for _, x := range s.Intersections {
		in := maneuver.Intersection{Lanes: make([]maneuver.Lane, 0, len(x.Lanes))}
		for _, l := range x.Lanes {
			in.Lanes = append(in.Lanes, maneuver.Lane{Indications: l.Indications, Valid: l.Valid})
		}
		m.Intersections = append(m.Intersections, in)
	}
	if len(s.Intersections) > 0 {
		m.RoadClasses = maneuver.ParseRoadClasses(s.Intersections[0].Classes)
	}

	if loc := s.Maneuver.Location; loc != nil {
		ll, err := lngLat(loc)
		if err != nil {
			return m, &fieldError{path + ".maneuver.location", err}
		}
		m.Location = &ll
	}

	if b := s.Maneuver.BearingAfter; b != nil {
		if math.IsNaN(*b) || math.IsInf(*b, 0) {
			return m, &fieldError{path + ".maneuver.bearing_after", errors.New("must be finite")}
		}
		m.FinalHeading = maneuver.Heading(*b)
	} else {
		heading, err := geometryHeading(s.Geometry)
		if err != nil {
			return m, &fieldError{path + ".geometry", err}
		}
		m.FinalHeading = heading
	}
	return m, nil
}

// geometryHeading is the bearing of the first segment of a GeoJSON
// LineString with distinct end points. Encoded polylines are ignored.
func geometryHeading(raw json.RawMessage) (*float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, nil
	}
	var g GeometryJSON
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, err
	}
	if g.Type != "" && g.Type != "LineString" {
		return nil, fmt.Errorf("unsupported geometry type %q", g.Type)
	}
	if len(g.Coordinates) < 2 {
		return nil, nil
	}
	start, err := lngLat(g.Coordinates[0])
	if err != nil {
		return nil, err
	}
	for _, c := range g.Coordinates[1:] {
		next, err := lngLat(c)
		if err != nil {
			return nil, err
		}
		if next != start {
			return maneuver.Heading(geo.Bearing(start.Lat, start.Lng, next.Lat, next.Lng)), nil
		}
	}
	return nil, nil
}

func lngLat(c []float64) (maneuver.LatLng, error) {
	if len(c) != 2 {
		return maneuver.LatLng{}, errBadCoordinate
	}
	ll := maneuver.LatLng{Lat: c[1], Lng: c[0]}
	if err := validateCoord(ll); err != nil {
		return maneuver.LatLng{}, err
	}
	return ll, nil
}

func validateCoord(ll maneuver.LatLng) error {
	if math.IsNaN(ll.Lat) || math.IsNaN(ll.Lng) || math.IsInf(ll.Lat, 0) || math.IsInf(ll.Lng, 0) {
		return errBadCoordinate
	}
	if ll.Lat < -90 || ll.Lat > 90 || ll.Lng < -180 || ll.Lng > 180 {
		return errBadCoordinate
	}
	return nil
}
