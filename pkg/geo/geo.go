// Package geo has the small amount of spherical geometry needed to match
// maneuver locations to road geometry.
package geo

import "math"

const earthRadiusMeters = 6_371_000.0

// metersPerDegree is the length of one degree of latitude.
const metersPerDegree = math.Pi / 180 * earthRadiusMeters

func rad(deg float64) float64 { return deg * math.Pi / 180 }

// Haversine returns the great-circle distance in meters between two points.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)
	s := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(s), math.Sqrt(1-s))
}

// Bearing returns the initial compass bearing in degrees [0, 360) for
// travelling from the first point to the second. Identical points give 0.
func Bearing(lat1, lng1, lat2, lng2 float64) float64 {
	if lat1 == lat2 && lng1 == lng2 {
		return 0
	}
	phi1, phi2 := rad(lat1), rad(lat2)
	dLng := rad(lng2 - lng1)
	y := math.Sin(dLng) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLng)
	deg := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}

// Window returns the half-size in degrees of a box that contains every point
// within meters of a point at lat.
func Window(lat, meters float64) (dLat, dLng float64) {
	dLat = meters / metersPerDegree
	cosLat := math.Cos(rad(lat))
	if cosLat < 1e-6 {
		return dLat, 180
	}
	return dLat, dLat / cosLat
}

// PointToSegmentDist returns the distance in meters from P to segment AB and
// where the closest point lies along AB as a ratio in [0, 1]. It uses an
// equirectangular projection, which is accurate for the short distances
// involved in snapping.
func PointToSegmentDist(pLat, pLng, aLat, aLng, bLat, bLng float64) (dist, ratio float64) {
	k := math.Cos(rad((aLat + bLat) / 2))
	ax, ay := aLng*k, aLat
	px, py := pLng*k, pLat

	// Compare the raw coordinates; projected ones can differ by rounding.
	if aLat == bLat && aLng == bLng {
		return math.Hypot(px-ax, py-ay) * metersPerDegree, 0
	}

	dx, dy := bLng*k-ax, bLat-ay
	if lenSq := dx*dx + dy*dy; lenSq > 0 {
		ratio = ((px-ax)*dx + (py-ay)*dy) / lenSq
		ratio = math.Max(0, math.Min(1, ratio))
	}
	return math.Hypot(px-(ax+ratio*dx), py-(ay+ratio*dy)) * metersPerDegree, ratio
}
