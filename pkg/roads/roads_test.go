package roads

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azybler/map_instructions/pkg/maneuver"
)

// testRoads is a small grid near Raffles Place. Points are (lng, lat).
func testRoads() []Road {
	return []Road{
		{
			WayID:   100,
			Names:   []string{"Main St"},
			Refs:    []string{"US 1"},
			Classes: maneuver.ClassToll,
			Geometry: orb.LineString{
				{103.8500, 1.2800}, {103.8510, 1.2800}, {103.8520, 1.2800},
			},
		},
		{
			WayID:           200,
			Refs:            []string{"A 7"},
			Destinations:    []string{"Hamburg", "Kiel"},
			DestinationRefs: []string{"A 7"},
			Classes:         maneuver.ClassMotorway,
			Oneway:          true,
			Geometry: orb.LineString{
				{103.8600, 1.2800}, {103.8600, 1.2810},
			},
		},
		{
			WayID:      300,
			Names:      []string{"Grand Circle"},
			Roundabout: true,
			Oneway:     true,
			Geometry: orb.LineString{
				{103.8700, 1.2800}, {103.8701, 1.2801}, {103.8700, 1.2802}, {103.8700, 1.2800},
			},
		},
		{WayID: 400},
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	original := testRoads()
	path := filepath.Join(t.TempDir(), "roads.bin")

	require.NoError(t, WriteBinary(path, original))
	loaded, err := ReadBinary(path)
	require.NoError(t, err)

	// Empty geometry comes back as an empty, non-nil line string.
	original[3].Geometry = orb.LineString{}
	if diff := cmp.Diff(original, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file left behind")
}

func TestBinaryEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roads.bin")
	require.NoError(t, WriteBinary(path, nil))
	loaded, err := ReadBinary(path)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestBinaryCorruption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roads.bin")
	require.NoError(t, WriteBinary(path, testRoads()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	t.Run("flipped payload byte", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[len(bad)/2] ^= 0xFF
		p := filepath.Join(t.TempDir(), "bad.bin")
		require.NoError(t, os.WriteFile(p, bad, 0o644))
		_, err := ReadBinary(p)
		assert.Error(t, err)
	})

	t.Run("bad magic", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		copy(bad, "NOTROADS")
		p := filepath.Join(t.TempDir(), "bad.bin")
		require.NoError(t, os.WriteFile(p, bad, 0o644))
		_, err := ReadBinary(p)
		assert.ErrorContains(t, err, "magic")
	})

	t.Run("truncated", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "short.bin")
		require.NoError(t, os.WriteFile(p, data[:len(data)-10], 0o644))
		_, err := ReadBinary(p)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadBinary(filepath.Join(t.TempDir(), "nope.bin"))
		assert.Error(t, err)
	})
}

func TestValidateOffsets(t *testing.T) {
	assert.NoError(t, validateOffsets([]uint32{0, 2, 2, 5}, 5))
	assert.Error(t, validateOffsets([]uint32{1, 2}, 2))
	assert.Error(t, validateOffsets([]uint32{0, 3, 2}, 2))
	assert.Error(t, validateOffsets([]uint32{0, 2}, 3))
	assert.Error(t, validateOffsets(nil, 0))
}

func TestIndexNearest(t *testing.T) {
	x := NewIndex(testRoads())
	assert.Equal(t, 2+1+3, x.Segments())

	m, err := x.Nearest(1.28005, 103.8515, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(100), m.Road.WayID)
	assert.Equal(t, 1, m.Segment)
	assert.InDelta(t, 0.5, m.Ratio, 0.01)
	assert.InDelta(t, 5.6, m.Distance, 0.5)
	assert.InDelta(t, 90, m.Bearing(), 0.5)

	m, err = x.Nearest(1.2805, 103.86002, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(200), m.Road.WayID)
	assert.InDelta(t, 0, m.Bearing(), 0.5)

	_, err = x.Nearest(1.2900, 103.8515, 30)
	assert.ErrorIs(t, err, ErrNoRoad)

	_, err = NewIndex(nil).Nearest(1.28, 103.85, 1000)
	assert.ErrorIs(t, err, ErrNoRoad)
}

func TestRoadLength(t *testing.T) {
	r := testRoads()[0]
	assert.InDelta(t, 222.4, r.Length(), 1)
	empty := Road{}
	assert.Zero(t, empty.Length())
}

func TestEnrich(t *testing.T) {
	e := NewEnricher(NewIndex(testRoads()), 0)

	t.Run("fills missing fields", func(t *testing.T) {
		m := maneuver.Maneuver{
			Type: maneuver.Turn, Modifier: maneuver.Left,
			Location: &maneuver.LatLng{Lat: 1.2805, Lng: 103.86002},
		}
		require.True(t, e.Enrich(&m))
		assert.Empty(t, m.Names)
		assert.Equal(t, []string{"A 7"}, m.Codes)
		assert.Equal(t, []string{"Hamburg", "Kiel"}, m.Destinations)
		assert.Equal(t, []string{"A 7"}, m.DestinationCodes)
		assert.Equal(t, maneuver.ClassMotorway, m.RoadClasses)
		require.NotNil(t, m.FinalHeading)
		assert.InDelta(t, 0, *m.FinalHeading, 0.5)
	})

	t.Run("keeps existing fields", func(t *testing.T) {
		m := maneuver.Maneuver{
			Type: maneuver.Turn, Modifier: maneuver.Left,
			Names:        []string{"Given Rd"},
			Destinations: []string{"Downtown"},
			FinalHeading: maneuver.Heading(270),
			Location:     &maneuver.LatLng{Lat: 1.28005, Lng: 103.8515},
		}
		require.True(t, e.Enrich(&m))
		assert.Equal(t, []string{"Given Rd"}, m.Names)
		assert.Equal(t, []string{"US 1"}, m.Codes)
		assert.Equal(t, []string{"Downtown"}, m.Destinations)
		assert.Empty(t, m.DestinationCodes)
		assert.Equal(t, maneuver.ClassToll, m.RoadClasses)
		assert.Equal(t, 270.0, *m.FinalHeading)
	})

	t.Run("two-way road leaves heading unset", func(t *testing.T) {
		m := maneuver.Maneuver{Location: &maneuver.LatLng{Lat: 1.28005, Lng: 103.8515}}
		require.True(t, e.Enrich(&m))
		assert.Nil(t, m.FinalHeading)
	})

	t.Run("copies are independent", func(t *testing.T) {
		m := maneuver.Maneuver{Location: &maneuver.LatLng{Lat: 1.28005, Lng: 103.8515}}
		require.True(t, e.Enrich(&m))
		m.Names[0] = "changed"
		assert.Equal(t, "Main St", e.index.Roads()[0].Names[0])
	})

	t.Run("no location", func(t *testing.T) {
		m := maneuver.Maneuver{}
		assert.False(t, e.Enrich(&m))
	})

	t.Run("too far", func(t *testing.T) {
		m := maneuver.Maneuver{Location: &maneuver.LatLng{Lat: 1.30, Lng: 103.85}}
		assert.False(t, e.Enrich(&m))
		assert.Empty(t, m.Names)
	})
}

// junctionRoads meet at (1.28, 103.85): Incoming Ave arrives from the south,
// Outgoing St leaves east and Grand Circle is a roundabout just north.
func junctionRoads() []Road {
	return []Road{
		{
			WayID:    1,
			Names:    []string{"Incoming Ave"},
			Oneway:   true,
			Geometry: orb.LineString{{103.85, 1.27}, {103.85, 1.28}},
		},
		{
			WayID:    2,
			Names:    []string{"Outgoing St"},
			Refs:     []string{"PIE"},
			Geometry: orb.LineString{{103.85, 1.28}, {103.86, 1.28}},
		},
		{
			WayID:      3,
			Names:      []string{"Grand Circle"},
			Roundabout: true,
			Oneway:     true,
			Geometry: orb.LineString{
				{103.8500, 1.2801}, {103.8501, 1.2802}, {103.8500, 1.2803}, {103.8499, 1.2802}, {103.8500, 1.2801},
			},
		},
	}
}

func TestIndexNearestFunc(t *testing.T) {
	x := NewIndex(junctionRoads())

	m, err := x.Nearest(1.28, 103.85, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(1), m.Road.WayID)

	m, err = x.NearestFunc(1.28, 103.85, 30, func(r *Road, _ int) bool { return r.WayID == 2 })
	require.NoError(t, err)
	assert.Equal(t, int64(2), m.Road.WayID)

	_, err = x.NearestFunc(1.28, 103.85, 30, func(*Road, int) bool { return false })
	assert.ErrorIs(t, err, ErrNoRoad)
}

func TestEnrich_Junction(t *testing.T) {
	e := NewEnricher(NewIndex(junctionRoads()), 0)
	at := func() *maneuver.LatLng { return &maneuver.LatLng{Lat: 1.28, Lng: 103.85} }

	tests := []struct {
		name      string
		m         maneuver.Maneuver
		wantOK    bool
		wantNames []string
		wantExit  []string
		wantCodes []string
	}{
		{
			name:      "turn takes the road along the heading",
			m:         maneuver.Maneuver{Type: maneuver.Turn, Modifier: maneuver.Right, FinalHeading: maneuver.Heading(90)},
			wantOK:    true,
			wantNames: []string{"Outgoing St"},
			wantCodes: []string{"PIE"},
		},
		{
			name:      "heading within tolerance",
			m:         maneuver.Maneuver{Type: maneuver.Turn, Modifier: maneuver.Right, FinalHeading: maneuver.Heading(120)},
			wantOK:    true,
			wantNames: []string{"Outgoing St"},
			wantCodes: []string{"PIE"},
		},
		{
			name:      "two-way road matches against its direction",
			m:         maneuver.Maneuver{Type: maneuver.Turn, Modifier: maneuver.Left, FinalHeading: maneuver.Heading(270)},
			wantOK:    true,
			wantNames: []string{"Outgoing St"},
			wantCodes: []string{"PIE"},
		},
		{
			name:      "rotary name comes from the roundabout",
			m:         maneuver.Maneuver{Type: maneuver.TakeRotary, FinalHeading: maneuver.Heading(90)},
			wantOK:    true,
			wantNames: []string{"Grand Circle"},
			wantExit:  []string{"Outgoing St"},
			wantCodes: []string{"PIE"},
		},
		{
			name:      "roundabout without heading leaves the exit empty",
			m:         maneuver.Maneuver{Type: maneuver.TakeRoundabout},
			wantOK:    true,
			wantNames: []string{"Grand Circle"},
		},
		{
			name:      "given exit names are kept",
			m:         maneuver.Maneuver{Type: maneuver.TakeRotary, ExitNames: []string{"Given Rd"}, FinalHeading: maneuver.Heading(90)},
			wantOK:    true,
			wantNames: []string{"Grand Circle"},
			wantExit:  []string{"Given Rd"},
			wantCodes: []string{"PIE"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.m
			m.Location = at()
			assert.Equal(t, tt.wantOK, e.Enrich(&m))
			assert.Equal(t, tt.wantNames, m.Names)
			assert.Equal(t, tt.wantExit, m.ExitNames)
			assert.Equal(t, tt.wantCodes, m.Codes)
		})
	}
}

func TestEnrich_RotaryWithoutRoundabout(t *testing.T) {
	e := NewEnricher(NewIndex(junctionRoads()[:2]), 0)
	m := maneuver.Maneuver{
		Type:         maneuver.TakeRotary,
		FinalHeading: maneuver.Heading(90),
		Location:     &maneuver.LatLng{Lat: 1.28, Lng: 103.85},
	}
	require.True(t, e.Enrich(&m))
	assert.Empty(t, m.Names)
	assert.Equal(t, []string{"Outgoing St"}, m.ExitNames)
}

func TestEnrich_OnewayAgainstHeading(t *testing.T) {
	e := NewEnricher(NewIndex(junctionRoads()[:1]), 0)
	m := maneuver.Maneuver{
		Type: maneuver.Turn, Modifier: maneuver.UTurn,
		FinalHeading: maneuver.Heading(180),
		Location:     &maneuver.LatLng{Lat: 1.275, Lng: 103.85},
	}
	assert.False(t, e.Enrich(&m))
	assert.Empty(t, m.Names)
}

func TestAngleDiff(t *testing.T) {
	tests := []struct {
		a, b, want float64
	}{
		{0, 0, 0},
		{10, 350, 20},
		{350, 10, 20},
		{90, 270, 180},
		{450, 90, 0},
		{-45, 45, 90},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, angleDiff(tt.a, tt.b), 1e-9, "%v vs %v", tt.a, tt.b)
	}
}
