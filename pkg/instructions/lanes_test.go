package instructions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/azybler/map_instructions/pkg/maneuver"
)

func TestLaneSignature(t *testing.T) {
	tests := []struct {
		name   string
		count  int
		usable []int
		want   string
	}{
		{"no lanes", 0, nil, ""},
		{"no lanes with indices", 0, []int{0}, ""},
		{"middle of three", 3, []int{1}, "xox"},
		{"right two of four", 4, []int{2, 3}, "xo"},
		{"left two of four", 4, []int{0, 1}, "ox"},
		{"outer lanes", 5, []int{0, 4}, "oxo"},
		{"all usable", 3, []int{0, 1, 2}, "o"},
		{"none usable", 3, nil, "x"},
		{"unordered duplicates", 3, []int{2, 0, 2}, "oxo"},
		{"out of range ignored", 2, []int{-1, 5}, "x"},
		{"alternating", 4, []int{0, 2}, "oxox"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LaneSignature(tt.count, tt.usable))
		})
	}
}

func TestLaneSignature_Uniform(t *testing.T) {
	for n := 1; n <= 8; n++ {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		assert.Equal(t, "o", LaneSignature(n, all), "%d usable lanes", n)
		assert.Equal(t, "x", LaneSignature(n, nil), "%d unusable lanes", n)
	}
}

func TestLaneSignature_NoRepeats(t *testing.T) {
	sig := LaneSignature(9, []int{0, 1, 4, 5, 8})
	assert.Equal(t, "oxoxo", sig)
	assert.False(t, strings.Contains(sig, "oo") || strings.Contains(sig, "xx"))
}

func TestIntersectionSignature(t *testing.T) {
	i := maneuver.Intersection{Lanes: []maneuver.Lane{
		{Indications: []string{"left"}, Valid: false},
		{Indications: []string{"straight"}, Valid: true},
		{Indications: []string{"right"}, Valid: false},
	}}
	assert.Equal(t, "xox", IntersectionSignature(i))
	assert.Empty(t, IntersectionSignature(maneuver.Intersection{}))
}
