package instructions

import "math"

// CompassDirection maps a heading in degrees to one of the eight phrases in
// directions (keyed "north", "northeast", ...). A nil heading yields "".
// Fractions of a degree are dropped before bucketing, so 20.5 is north.
func CompassDirection(directions map[string]string, heading *float64) string {
	if heading == nil || math.IsNaN(*heading) || math.IsInf(*heading, 0) {
		return ""
	}
	h := math.Mod(*heading, 360)
	if h < 0 {
		h += 360
	}
	return directions[compassPoint(int(h))]
}

// compassPoint buckets whole degrees. Boundaries are shared between the
// cardinal and intercardinal points; the cardinal point wins.
func compassPoint(deg int) string {
	switch {
	case deg >= 340 && deg <= 360, deg >= 0 && deg <= 20:
		return "north"
	case deg > 20 && deg < 70:
		return "northeast"
	case deg >= 70 && deg <= 110:
		return "east"
	case deg > 110 && deg < 160:
		return "southeast"
	case deg >= 160 && deg <= 200:
		return "south"
	case deg > 200 && deg < 250:
		return "southwest"
	case deg >= 250 && deg <= 290:
		return "west"
	case deg > 290 && deg < 340:
		return "northwest"
	default:
		return ""
	}
}
