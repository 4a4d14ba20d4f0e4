package roads

import (
	"math"

	"github.com/azybler/map_instructions/pkg/maneuver"
)

// Enricher fills gaps in maneuvers from the nearest indexed road.
type Enricher struct {
	index       *Index
	maxDistance float64
}

// NewEnricher returns an Enricher that matches within maxMeters. A
// non-positive distance uses DefaultMaxDistance.
func NewEnricher(x *Index, maxMeters float64) *Enricher {
	if maxMeters <= 0 {
		maxMeters = DefaultMaxDistance
	}
	return &Enricher{index: x, maxDistance: maxMeters}
}

// Index returns the road index the enricher matches against.
func (e *Enricher) Index() *Index { return e.index }

// headingTolerance is how far, in degrees, a segment's direction may differ
// from the maneuver's heading and still count as the road taken.
const headingTolerance = 45.0

// Enrich looks up the road at m.Location and copies its names, refs,
// destinations and classes into the fields m leaves empty. Fields that are
// already set are never changed. It reports whether a road was found.
//
// The location is usually a junction, where the road arrived on is as close
// as the road taken. When m has a heading only segments travelled within
// headingTolerance of it are considered. Without a heading the nearest road
// is used, and a one-way road also supplies the missing heading.
//
// Rotaries and roundabouts take their name only from a roundabout road. The
// exit road, found by heading, supplies ExitNames and the remaining fields.
func (e *Enricher) Enrich(m *maneuver.Maneuver) bool {
	if m.Location == nil {
		return false
	}
	if m.Type.IsCircular() {
		return e.enrichCircular(m)
	}

	var accept func(*Road, int) bool
	if m.FinalHeading != nil {
		accept = travelledAlong(*m.FinalHeading)
	}
	match, err := e.index.NearestFunc(m.Location.Lat, m.Location.Lng, e.maxDistance, accept)
	if err != nil {
		return false
	}
	r := match.Road

	if len(m.Names) == 0 {
		m.Names = clone(r.Names)
	}
	copyDetails(m, r)
	if m.FinalHeading == nil && r.Oneway {
		m.FinalHeading = maneuver.Heading(match.Bearing())
	}
	return true
}

func (e *Enricher) enrichCircular(m *maneuver.Maneuver) bool {
	lat, lng := m.Location.Lat, m.Location.Lng
	found := false

	ring, err := e.index.NearestFunc(lat, lng, e.maxDistance, func(r *Road, _ int) bool {
		return r.Roundabout
	})
	if err == nil {
		found = true
		if len(m.Names) == 0 {
			m.Names = clone(ring.Road.Names)
		}
	}

	if m.FinalHeading == nil {
		return found
	}
	along := travelledAlong(*m.FinalHeading)
	exit, err := e.index.NearestFunc(lat, lng, e.maxDistance, func(r *Road, seg int) bool {
		return !r.Roundabout && along(r, seg)
	})
	if err != nil {
		return found
	}
	if len(m.ExitNames) == 0 {
		m.ExitNames = clone(exit.Road.Names)
	}
	copyDetails(m, exit.Road)
	return true
}

// copyDetails fills refs, destinations and classes m leaves empty.
func copyDetails(m *maneuver.Maneuver, r *Road) {
	if len(m.Codes) == 0 {
		m.Codes = clone(r.Refs)
	}
	if !m.HasDestination() {
		m.Destinations = clone(r.Destinations)
		m.DestinationCodes = clone(r.DestinationRefs)
	}
	if m.RoadClasses == 0 {
		m.RoadClasses = r.Classes
	}
}

// travelledAlong accepts segments that can be driven within
// headingTolerance of heading. Two-way roads are tried in both directions.
func travelledAlong(heading float64) func(*Road, int) bool {
	return func(r *Road, seg int) bool {
		b := r.SegmentBearing(seg)
		if angleDiff(b, heading) <= headingTolerance {
			return true
		}
		return !r.Oneway && angleDiff(b+180, heading) <= headingTolerance
	}
}

// angleDiff returns the smallest angle between two bearings, 0 to 180.
func angleDiff(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}

func clone(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return append([]string(nil), s...)
}
