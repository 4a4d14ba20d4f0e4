// Package roads stores named road geometry extracted from OpenStreetMap and
// answers "which road is this point on" for maneuvers that arrive without
// names or refs.
package roads

import (
	"errors"

	"github.com/paulmach/orb"

	"github.com/azybler/map_instructions/pkg/geo"
	"github.com/azybler/map_instructions/pkg/maneuver"
)

// ErrNoRoad is returned when no road lies within the search distance.
var ErrNoRoad = errors.New("no road near point")

// Road is one OSM way with the attributes used in instructions. Geometry
// points are (lng, lat) and ordered in the direction of travel for one-way
// roads.
type Road struct {
	WayID           int64
	Names           []string
	Refs            []string
	Destinations    []string
	DestinationRefs []string
	Classes         maneuver.RoadClasses
	Roundabout      bool
	Oneway          bool
	Geometry        orb.LineString
}

// Length returns the road length in meters.
func (r *Road) Length() float64 {
	var total float64
	for i := 1; i < len(r.Geometry); i++ {
		a, b := r.Geometry[i-1], r.Geometry[i]
		total += geo.Haversine(a.Lat(), a.Lon(), b.Lat(), b.Lon())
	}
	return total
}

// SegmentBearing returns the bearing of segment i, from point i to i+1.
func (r *Road) SegmentBearing(i int) float64 {
	a, b := r.Geometry[i], r.Geometry[i+1]
	return geo.Bearing(a.Lat(), a.Lon(), b.Lat(), b.Lon())
}
