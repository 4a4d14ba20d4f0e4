package geo

import (
	"math"
	"testing"
)

func TestHaversine(t *testing.T) {
	tests := []struct {
		name       string
		lat1, lng1 float64
		lat2, lng2 float64
		want       float64
		tolerance  float64 // percent
	}{
		{"Raffles Place to Changi", 1.2830, 103.8513, 1.3644, 103.9915, 18_023, 1},
		{"London to Paris", 51.5074, -0.1278, 48.8566, 2.3522, 343_500, 1},
		{"about 100m north", 1.3521, 103.8198, 1.3530, 103.8198, 100, 5},
		{"same point", 1.3521, 103.8198, 1.3521, 103.8198, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			if tt.want == 0 {
				if got != 0 {
					t.Errorf("Haversine = %f, want 0", got)
				}
				return
			}
			if diff := math.Abs(got-tt.want) / tt.want * 100; diff > tt.tolerance {
				t.Errorf("Haversine = %f m, want ~%f m (off by %.2f%%)", got, tt.want, diff)
			}
		})
	}
}

func TestBearing(t *testing.T) {
	tests := []struct {
		name       string
		lat1, lng1 float64
		lat2, lng2 float64
		want       float64
	}{
		{"north", 0, 0, 1, 0, 0},
		{"east", 0, 0, 0, 1, 90},
		{"south", 1, 0, 0, 0, 180},
		{"west", 0, 1, 0, 0, 270},
		{"northeast at equator", 0, 0, 0.001, 0.001, 45},
		{"same point", 1.35, 103.8, 1.35, 103.8, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bearing(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			if math.Abs(got-tt.want) > 0.1 {
				t.Errorf("Bearing = %f, want %f", got, tt.want)
			}
			if got < 0 || got >= 360 {
				t.Errorf("Bearing = %f, outside [0, 360)", got)
			}
		})
	}
}

func TestWindow(t *testing.T) {
	dLat, dLng := Window(0, 111_195)
	if math.Abs(dLat-1) > 0.001 || math.Abs(dLng-1) > 0.001 {
		t.Errorf("Window at equator = (%f, %f), want about (1, 1)", dLat, dLng)
	}

	dLat, dLng = Window(60, 1000)
	if math.Abs(dLng-2*dLat) > 1e-6 {
		t.Errorf("Window at 60N: dLng = %f, want twice dLat %f", dLng, dLat)
	}

	if _, dLng = Window(90, 1000); dLng != 180 {
		t.Errorf("Window at pole: dLng = %f, want 180", dLng)
	}
}

func TestPointToSegmentDist(t *testing.T) {
	tests := []struct {
		name       string
		pLat, pLng float64
		aLat, aLng float64
		bLat, bLng float64
		wantRatio  float64
		maxDist    float64
	}{
		{"at start", 1.35, 103.82, 1.35, 103.82, 1.36, 103.82, 0, 1},
		{"at end", 1.36, 103.82, 1.35, 103.82, 1.36, 103.82, 1, 1},
		{"beside midpoint", 1.355, 103.821, 1.35, 103.82, 1.36, 103.82, 0.5, 200},
		{"beyond end clamps", 1.37, 103.82, 1.35, 103.82, 1.36, 103.82, 1, 1200},
		{"degenerate segment", 1.35, 103.821, 1.35, 103.82, 1.35, 103.82, 0, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist, ratio := PointToSegmentDist(tt.pLat, tt.pLng, tt.aLat, tt.aLng, tt.bLat, tt.bLng)
			if dist > tt.maxDist {
				t.Errorf("dist = %f m, want <= %f m", dist, tt.maxDist)
			}
			if math.Abs(ratio-tt.wantRatio) > 0.05 {
				t.Errorf("ratio = %f, want ~%f", ratio, tt.wantRatio)
			}
		})
	}
}

func BenchmarkPointToSegmentDist(b *testing.B) {
	for b.Loop() {
		PointToSegmentDist(1.3521, 103.8198, 1.35, 103.81, 1.36, 103.83)
	}
}
