// Package maneuver describes a single route step as it arrives from the
// routing engine, before any text is produced for it.
package maneuver

// Type classifies the action taken at a step. It is string backed so that
// types introduced by newer routing engines pass through unchanged.
type Type string

// Maneuver types known to the v5 phrase dictionaries.
const (
	Depart         Type = "depart"
	Arrive         Type = "arrive"
	Turn           Type = "turn"
	Continue       Type = "continue"
	NewName        Type = "new name"
	Merge          Type = "merge"
	OnRamp         Type = "on ramp"
	OffRamp        Type = "off ramp"
	Fork           Type = "fork"
	EndOfRoad      Type = "end of road"
	UseLane        Type = "use lane"
	TakeRotary     Type = "rotary"
	TakeRoundabout Type = "roundabout"
	RoundaboutTurn Type = "roundabout turn"
	ExitRoundabout Type = "exit roundabout"
	ExitRotary     Type = "exit rotary"
	Notification   Type = "notification"
)

// IsCircular reports whether t is entered through a circular junction and
// uses the extra "default" nesting level in the phrase dictionary.
func (t Type) IsCircular() bool {
	return t == TakeRotary || t == TakeRoundabout
}

// Modifier is the directional qualifier of a maneuver. The zero value means
// no modifier was given.
type Modifier string

const (
	UTurn       Modifier = "uturn"
	SharpRight  Modifier = "sharp right"
	Right       Modifier = "right"
	SlightRight Modifier = "slight right"
	Straight    Modifier = "straight"
	SlightLeft  Modifier = "slight left"
	Left        Modifier = "left"
	SharpLeft   Modifier = "sharp left"
)

// Mode is the transport mode of a step.
type Mode string

const (
	Driving       Mode = "driving"
	Ferry         Mode = "ferry"
	MovableBridge Mode = "movable bridge"
	Unaccessible  Mode = "unaccessible"
	Walking       Mode = "walking"
	Cycling       Mode = "cycling"
	Train         Mode = "train"
	PushingBike   Mode = "pushing bike"
)

// RoadClasses is a bit set of road properties along a step.
type RoadClasses uint8

const (
	ClassToll RoadClasses = 1 << iota
	ClassRestricted
	ClassMotorway
	ClassFerry
	ClassTunnel
)

var classNames = []struct {
	class RoadClasses
	name  string
}{
	{ClassToll, "toll"},
	{ClassRestricted, "restricted"},
	{ClassMotorway, "motorway"},
	{ClassFerry, "ferry"},
	{ClassTunnel, "tunnel"},
}

// Contains reports whether every class in other is set in c.
func (c RoadClasses) Contains(other RoadClasses) bool {
	return c&other == other
}

// Names returns the OSRM class names set in c, in a fixed order.
func (c RoadClasses) Names() []string {
	var names []string
	for _, cn := range classNames {
		if c.Contains(cn.class) {
			names = append(names, cn.name)
		}
	}
	return names
}

// ParseRoadClasses converts OSRM class names into a bit set. Unknown names
// are ignored.
func ParseRoadClasses(names []string) RoadClasses {
	var c RoadClasses
	for _, n := range names {
		for _, cn := range classNames {
			if cn.name == n {
				c |= cn.class
			}
		}
	}
	return c
}

// Lane is one approach lane at an intersection.
type Lane struct {
	Indications []string
	Valid       bool
}

// Intersection holds the approach lanes of a step's intersection, ordered
// left to right.
type Intersection struct {
	Lanes []Lane
}

// UsableLanes returns the indices of lanes that may be used to follow the route.
func (i Intersection) UsableLanes() []int {
	var usable []int
	for idx, l := range i.Lanes {
		if l.Valid {
			usable = append(usable, idx)
		}
	}
	return usable
}

// LatLng is a WGS84 coordinate.
type LatLng struct {
	Lat float64
	Lng float64
}

// Maneuver is everything known about a single step. All fields other than
// Type are optional.
type Maneuver struct {
	Type     Type
	Modifier Modifier
	Mode     Mode

	Names     []string // street names, first is used
	Codes     []string // road refs such as "US 1"
	ExitNames []string // road taken when leaving a rotary

	Destinations     []string
	DestinationCodes []string
	ExitCodes        []string
	ExitIndex        int // 1-based; 0 when absent

	Intersections []Intersection
	FinalHeading  *float64 // degrees
	RoadClasses   RoadClasses

	Location *LatLng
}

// HasDestination reports whether any destination names or codes are set.
func (m *Maneuver) HasDestination() bool {
	return len(m.DestinationCodes) > 0 || len(m.Destinations) > 0
}

// Heading returns a pointer to deg, for filling FinalHeading.
func Heading(deg float64) *float64 {
	return &deg
}
