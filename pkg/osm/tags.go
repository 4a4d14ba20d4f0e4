package osm

import (
	"github.com/paulmach/osm"

	"github.com/azybler/map_instructions/pkg/maneuver"
)

// carHighways lists highway values drivable by car.
var carHighways = map[string]bool{
	"motorway":       true,
	"motorway_link":  true,
	"trunk":          true,
	"trunk_link":     true,
	"primary":        true,
	"primary_link":   true,
	"secondary":      true,
	"secondary_link": true,
	"tertiary":       true,
	"tertiary_link":  true,
	"unclassified":   true,
	"residential":    true,
	"living_street":  true,
	"service":        true,
}

// isCarAccessible reports whether a way is a drivable road or a car ferry.
func isCarAccessible(tags osm.Tags) bool {
	if tags.Find("route") == "ferry" {
		return tags.Find("motor_vehicle") != "no"
	}
	if !carHighways[tags.Find("highway")] {
		return false
	}
	if tags.Find("area") == "yes" {
		return false
	}
	switch tags.Find("access") {
	case "no", "private":
		return false
	}
	return tags.Find("motor_vehicle") != "no"
}

// directionFlags returns whether the way may be driven along (forward) and
// against (backward) its node order.
func directionFlags(tags osm.Tags) (forward, backward bool) {
	forward, backward = true, true

	hw := tags.Find("highway")
	if hw == "motorway" || hw == "motorway_link" || tags.Find("junction") == "roundabout" {
		backward = false
	}

	switch tags.Find("oneway") {
	case "yes", "true", "1":
		forward, backward = true, false
	case "-1", "reverse":
		forward, backward = false, true
	case "no":
		forward, backward = true, true
	case "reversible":
		// Direction changes by time of day.
		forward, backward = false, false
	}
	return forward, backward
}

// roadClasses derives the class flags shown to drivers.
func roadClasses(tags osm.Tags) maneuver.RoadClasses {
	var c maneuver.RoadClasses
	switch tags.Find("highway") {
	case "motorway", "motorway_link":
		c |= maneuver.ClassMotorway
	}
	if tags.Find("toll") == "yes" {
		c |= maneuver.ClassToll
	}
	switch tags.Find("tunnel") {
	case "yes", "building_passage", "culvert":
		c |= maneuver.ClassTunnel
	}
	if tags.Find("route") == "ferry" {
		c |= maneuver.ClassFerry
	}
	switch tags.Find("access") {
	case "destination", "delivery", "customers":
		c |= maneuver.ClassRestricted
	}
	return c
}

// isRoundabout reports circular junctions of either kind.
func isRoundabout(tags osm.Tags) bool {
	switch tags.Find("junction") {
	case "roundabout", "circular":
		return true
	}
	return false
}
