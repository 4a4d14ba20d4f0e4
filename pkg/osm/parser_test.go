package osm

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azybler/map_instructions/pkg/maneuver"
)

func tags(kv ...string) osm.Tags {
	var t osm.Tags
	for i := 0; i+1 < len(kv); i += 2 {
		t = append(t, osm.Tag{Key: kv[i], Value: kv[i+1]})
	}
	return t
}

func TestIsCarAccessible(t *testing.T) {
	tests := []struct {
		name string
		tags osm.Tags
		want bool
	}{
		{"residential", tags("highway", "residential"), true},
		{"motorway", tags("highway", "motorway"), true},
		{"service", tags("highway", "service"), true},
		{"footway", tags("highway", "footway"), false},
		{"cycleway", tags("highway", "cycleway"), false},
		{"private", tags("highway", "residential", "access", "private"), false},
		{"access no", tags("highway", "residential", "access", "no"), false},
		{"destination only", tags("highway", "residential", "access", "destination"), true},
		{"motor_vehicle no", tags("highway", "residential", "motor_vehicle", "no"), false},
		{"pedestrian plaza", tags("highway", "service", "area", "yes"), false},
		{"car ferry", tags("route", "ferry"), true},
		{"foot ferry", tags("route", "ferry", "motor_vehicle", "no"), false},
		{"no highway tag", tags("name", "Some Street"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isCarAccessible(tt.tags))
		})
	}
}

func TestDirectionFlags(t *testing.T) {
	tests := []struct {
		name         string
		tags         osm.Tags
		wantForward  bool
		wantBackward bool
	}{
		{"two way", tags("highway", "residential"), true, true},
		{"motorway implied", tags("highway", "motorway"), true, false},
		{"motorway link implied", tags("highway", "motorway_link"), true, false},
		{"roundabout implied", tags("highway", "residential", "junction", "roundabout"), true, false},
		{"oneway yes", tags("highway", "primary", "oneway", "yes"), true, false},
		{"oneway 1", tags("highway", "primary", "oneway", "1"), true, false},
		{"oneway -1", tags("highway", "primary", "oneway", "-1"), false, true},
		{"oneway reverse", tags("highway", "primary", "oneway", "reverse"), false, true},
		{"oneway no overrides motorway", tags("highway", "motorway", "oneway", "no"), true, true},
		{"reversible", tags("highway", "primary", "oneway", "reversible"), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fwd, bwd := directionFlags(tt.tags)
			assert.Equal(t, tt.wantForward, fwd, "forward")
			assert.Equal(t, tt.wantBackward, bwd, "backward")
		})
	}
}

func TestRoadClasses(t *testing.T) {
	tests := []struct {
		name string
		tags osm.Tags
		want maneuver.RoadClasses
	}{
		{"plain", tags("highway", "primary"), 0},
		{"motorway", tags("highway", "motorway"), maneuver.ClassMotorway},
		{"toll motorway link", tags("highway", "motorway_link", "toll", "yes"), maneuver.ClassMotorway | maneuver.ClassToll},
		{"tunnel", tags("highway", "primary", "tunnel", "yes"), maneuver.ClassTunnel},
		{"ferry", tags("route", "ferry"), maneuver.ClassFerry},
		{"restricted", tags("highway", "service", "access", "delivery"), maneuver.ClassRestricted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, roadClasses(tt.tags))
		})
	}
}

func TestBBox(t *testing.T) {
	assert.True(t, BBox{}.IsZero())
	b := BBox{MinLat: 1.2, MaxLat: 1.5, MinLng: 103.6, MaxLng: 104.1}
	assert.False(t, b.IsZero())
	assert.True(t, b.Contains(1.3, 103.8))
	assert.True(t, b.Contains(1.2, 103.6))
	assert.False(t, b.Contains(1.6, 103.8))
	assert.False(t, b.Contains(1.3, 104.2))
}

const testOSM = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
  <node id="1" lat="1.2800" lon="103.8500" version="1"/>
  <node id="2" lat="1.2800" lon="103.8510" version="1"/>
  <node id="3" lat="1.2800" lon="103.8520" version="1"/>
  <node id="4" lat="1.2900" lon="103.8600" version="1"/>
  <node id="5" lat="1.2910" lon="103.8600" version="1"/>
  <node id="6" lat="5.0000" lon="100.0000" version="1"/>
  <node id="7" lat="5.0010" lon="100.0000" version="1"/>
  <way id="10" version="1">
    <nd ref="1"/><nd ref="2"/><nd ref="3"/>
    <tag k="highway" v="primary"/>
    <tag k="name" v="Main St"/>
    <tag k="ref" v="US 1;US 9"/>
  </way>
  <way id="20" version="1">
    <nd ref="4"/><nd ref="5"/>
    <tag k="highway" v="motorway_link"/>
    <tag k="oneway" v="-1"/>
    <tag k="destination" v="Hamburg;Kiel"/>
    <tag k="destination:ref" v="A 7"/>
    <tag k="toll" v="yes"/>
  </way>
  <way id="30" version="1">
    <nd ref="1"/><nd ref="4"/>
    <tag k="highway" v="footway"/>
    <tag k="name" v="Path"/>
  </way>
  <way id="40" version="1">
    <nd ref="2"/><nd ref="3"/>
    <tag k="highway" v="service"/>
  </way>
  <way id="50" version="1">
    <nd ref="6"/><nd ref="7"/>
    <tag k="highway" v="residential"/>
    <tag k="name" v="Far Rd"/>
  </way>
  <way id="60" version="1">
    <nd ref="3"/><nd ref="99"/>
    <tag k="highway" v="residential"/>
    <tag k="name" v="Broken Rd"/>
  </way>
</osm>`

func TestParseXML(t *testing.T) {
	open := XML(strings.NewReader(testOSM))
	got, err := Parse(context.Background(), open, ParseOptions{
		BBox:      BBox{MinLat: 1, MaxLat: 2, MinLng: 103, MaxLng: 104},
		NamedOnly: true,
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	main := got[0]
	assert.Equal(t, int64(10), main.WayID)
	assert.Equal(t, []string{"Main St"}, main.Names)
	assert.Equal(t, []string{"US 1", "US 9"}, main.Refs)
	assert.False(t, main.Oneway)
	assert.Equal(t, orb.LineString{{103.85, 1.28}, {103.851, 1.28}, {103.852, 1.28}}, main.Geometry)

	link := got[1]
	assert.Equal(t, int64(20), link.WayID)
	assert.Empty(t, link.Names)
	assert.Equal(t, []string{"Hamburg", "Kiel"}, link.Destinations)
	assert.Equal(t, []string{"A 7"}, link.DestinationRefs)
	assert.Equal(t, maneuver.ClassMotorway|maneuver.ClassToll, link.Classes)
	assert.True(t, link.Oneway)
	assert.Equal(t, orb.LineString{{103.86, 1.291}, {103.86, 1.29}}, link.Geometry, "reversed to travel direction")
}

func TestParseXML_Unfiltered(t *testing.T) {
	got, err := Parse(context.Background(), XML(strings.NewReader(testOSM)), ParseOptions{})
	require.NoError(t, err)

	var ids []int64
	for _, r := range got {
		ids = append(ids, r.WayID)
	}
	assert.Equal(t, []int64{10, 20, 40, 50}, ids)
}

func TestOpenFile_UnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extract.csv")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	_, _, err := OpenFile(path)
	assert.ErrorContains(t, err, "unsupported")
}
