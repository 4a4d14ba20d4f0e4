package instructions

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/azybler/map_instructions/pkg/maneuver"
)

var testDirections = map[string]string{
	"north":     "N",
	"northeast": "NE",
	"east":      "E",
	"southeast": "SE",
	"south":     "S",
	"southwest": "SW",
	"west":      "W",
	"northwest": "NW",
}

func TestCompassDirection_Boundaries(t *testing.T) {
	tests := []struct {
		heading float64
		want    string
	}{
		{0, "N"},
		{20, "N"},
		{20.9, "N"},
		{21, "NE"},
		{69, "NE"},
		{70, "E"},
		{110, "E"},
		{111, "SE"},
		{159.9, "SE"},
		{160, "S"},
		{200, "S"},
		{201, "SW"},
		{249, "SW"},
		{250, "W"},
		{290, "W"},
		{291, "NW"},
		{339, "NW"},
		{340, "N"},
		{359.99, "N"},
		{360, "N"},
		{-90, "W"},
		{450, "E"},
		{725, "N"},
	}
	for _, tt := range tests {
		got := CompassDirection(testDirections, maneuver.Heading(tt.heading))
		assert.Equal(t, tt.want, got, "heading %v", tt.heading)
	}
}

// Headings are truncated to whole degrees before bucketing, so a fraction
// past a boundary stays in the lower bucket.
func TestCompassDirection_FractionalHeadings(t *testing.T) {
	tests := []struct {
		heading float64
		want    string
	}{
		{20.5, "N"},
		{69.9, "NE"},
		{110.5, "E"},
		{200.99, "S"},
		{290.7, "W"},
		{339.5, "NW"},
		{-0.5, "N"},
	}
	for _, tt := range tests {
		got := CompassDirection(testDirections, maneuver.Heading(tt.heading))
		assert.Equal(t, tt.want, got, "heading %v", tt.heading)
	}
}

func TestCompassDirection_NoHeading(t *testing.T) {
	assert.Empty(t, CompassDirection(testDirections, nil))
	assert.Empty(t, CompassDirection(testDirections, maneuver.Heading(math.NaN())))
	assert.Empty(t, CompassDirection(testDirections, maneuver.Heading(math.Inf(1))))
}

func TestCompassDirection_DefinedEverywhere(t *testing.T) {
	for h := 0.0; h < 360; h += 0.5 {
		got := CompassDirection(testDirections, maneuver.Heading(h))
		if !assert.NotEmpty(t, got, "heading %v", h) {
			return
		}
		assert.Equal(t, got, CompassDirection(testDirections, maneuver.Heading(h+360)), "heading %v+360", h)
		assert.Equal(t, got, CompassDirection(testDirections, maneuver.Heading(h-360)), "heading %v-360", h)
	}
}

func TestCompassDirection_MissingPhrase(t *testing.T) {
	partial := map[string]string{"north": "north"}
	assert.Equal(t, "north", CompassDirection(partial, maneuver.Heading(5)))
	assert.Empty(t, CompassDirection(partial, maneuver.Heading(180)))
}
