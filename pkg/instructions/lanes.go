package instructions

import (
	"strings"

	"github.com/azybler/map_instructions/pkg/maneuver"
)

// LaneSignature encodes lane usability left to right as "o" (usable) and
// "x" (not usable), collapsing runs: 3 lanes with only the middle usable is
// "xox", 4 lanes with the two right ones usable is "xo". Indices outside
// [0, laneCount) are ignored.
func LaneSignature(laneCount int, usable []int) string {
	if laneCount <= 0 {
		return ""
	}
	config := make([]byte, laneCount)
	for i := range config {
		config[i] = 'x'
	}
	for _, idx := range usable {
		if idx >= 0 && idx < laneCount {
			config[idx] = 'o'
		}
	}

	var b strings.Builder
	var last byte
	for _, c := range config {
		if c != last {
			b.WriteByte(c)
			last = c
		}
	}
	return b.String()
}

// IntersectionSignature is the lane signature of an intersection's approach
// lanes.
func IntersectionSignature(i maneuver.Intersection) string {
	return LaneSignature(len(i.Lanes), i.UsableLanes())
}
