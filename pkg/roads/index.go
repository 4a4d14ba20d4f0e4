package roads

import (
	"math"

	"github.com/tidwall/rtree"

	"github.com/azybler/map_instructions/pkg/geo"
)

// DefaultMaxDistance is the snap radius used when none is configured.
const DefaultMaxDistance = 30.0

type segmentRef struct {
	road int32
	seg  int32
}

// Index is an R-tree over road segments. It is read-only after NewIndex and
// safe for concurrent use.
type Index struct {
	roads []Road
	tree  rtree.RTreeG[segmentRef]
}

// NewIndex indexes every segment of roads.
func NewIndex(roads []Road) *Index {
	x := &Index{roads: roads}
	for ri := range roads {
		g := roads[ri].Geometry
		for si := 0; si+1 < len(g); si++ {
			a, b := g[si], g[si+1]
			lo := [2]float64{math.Min(a[0], b[0]), math.Min(a[1], b[1])}
			hi := [2]float64{math.Max(a[0], b[0]), math.Max(a[1], b[1])}
			x.tree.Insert(lo, hi, segmentRef{road: int32(ri), seg: int32(si)})
		}
	}
	return x
}

// Roads returns the indexed roads.
func (x *Index) Roads() []Road { return x.roads }

// Segments returns the number of indexed segments.
func (x *Index) Segments() int { return x.tree.Len() }

// Match is the closest point on a road to a query point.
type Match struct {
	Road     *Road
	Segment  int     // index of the segment's first point
	Ratio    float64 // position along the segment, 0 to 1
	Distance float64 // meters
}

// Bearing is the direction of travel along the matched segment.
func (m Match) Bearing() float64 {
	return m.Road.SegmentBearing(m.Segment)
}

// Nearest returns the road segment closest to (lat, lng) within maxMeters.
func (x *Index) Nearest(lat, lng, maxMeters float64) (Match, error) {
	return x.NearestFunc(lat, lng, maxMeters, nil)
}

// NearestFunc is Nearest restricted to the segments accept reports true
// for. A nil accept takes every segment.
func (x *Index) NearestFunc(lat, lng, maxMeters float64, accept func(r *Road, seg int) bool) (Match, error) {
	dLat, dLng := geo.Window(lat, maxMeters)
	lo := [2]float64{lng - dLng, lat - dLat}
	hi := [2]float64{lng + dLng, lat + dLat}

	best := Match{Distance: math.Inf(1)}
	bestRoad := int32(-1)
	x.tree.Search(lo, hi, func(_, _ [2]float64, ref segmentRef) bool {
		r := &x.roads[ref.road]
		if accept != nil && !accept(r, int(ref.seg)) {
			return true
		}
		a, b := r.Geometry[ref.seg], r.Geometry[ref.seg+1]
		d, ratio := geo.PointToSegmentDist(lat, lng, a.Lat(), a.Lon(), b.Lat(), b.Lon())
		// Ties go to the lower road index so results do not depend on tree order.
		if d < best.Distance || (d == best.Distance && ref.road < bestRoad) {
			best = Match{Road: r, Segment: int(ref.seg), Ratio: ratio, Distance: d}
			bestRoad = ref.road
		}
		return true
	})

	if best.Road == nil || best.Distance > maxMeters {
		return Match{}, ErrNoRoad
	}
	return best, nil
}
