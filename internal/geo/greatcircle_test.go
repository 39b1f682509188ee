package geo

import (
	"math"
	"testing"
)

func TestDistance_QuarterMeridian(t *testing.T) {
	got := Distance(Coordinate{0, 0}, Coordinate{0, 90})
	if !almostEqual(got, 10007.5, 0.5) {
		t.Errorf("equator to pole = %g km, want ~10007.5", got)
	}
}

func TestDistance_Properties(t *testing.T) {
	pairs := []struct{ a, b Coordinate }{
		{Coordinate{0, 0}, Coordinate{0, 90}},
		{Coordinate{-122.3849, 37.6221}, Coordinate{2.3522, 48.8566}},
		{Coordinate{179, 0}, Coordinate{-179, 0}},
		{Coordinate{13.4, 52.5}, Coordinate{13.4, 52.5}},
	}
	for _, p := range pairs {
		ab := Distance(p.a, p.b)
		ba := Distance(p.b, p.a)
		if ab != ba {
			t.Errorf("Distance(%v,%v)=%g != Distance(%v,%v)=%g", p.a, p.b, ab, p.b, p.a, ba)
		}
		if ab < 0 {
			t.Errorf("Distance(%v,%v)=%g negative", p.a, p.b, ab)
		}
	}
	if d := Distance(Coordinate{10, 10}, Coordinate{10, 10}); d != 0 {
		t.Errorf("self distance = %g, want 0", d)
	}
}

func TestDistance_DatelineWrap(t *testing.T) {
	// 2 degrees of longitude at the equator across the antimeridian.
	got := Distance(Coordinate{179, 0}, Coordinate{-179, 0})
	want := 2 * math.Pi * EarthRadiusKm * 2 / 360
	if !almostEqual(got, want, 0.5) {
		t.Errorf("dateline distance = %g, want ~%g", got, want)
	}
}

func TestBearing_Cardinal(t *testing.T) {
	tests := []struct {
		name string
		a, b Coordinate
		want float64
	}{
		{"due north", Coordinate{0, 0}, Coordinate{0, 10}, 0},
		{"due east", Coordinate{0, 0}, Coordinate{10, 0}, 90},
		{"due south", Coordinate{0, 10}, Coordinate{0, 0}, 180},
		{"due west", Coordinate{10, 0}, Coordinate{0, 0}, 270},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bearing(tt.a, tt.b)
			if !almostEqual(got, tt.want, 1e-6) {
				t.Errorf("Bearing = %g, want %g", got, tt.want)
			}
		})
	}
}

func TestBearing_Range(t *testing.T) {
	for lon := -180.0; lon <= 180.0; lon += 31 {
		for lat := -80.0; lat <= 80.0; lat += 17 {
			b := Bearing(Coordinate{lon, lat}, Coordinate{-lon / 2, lat / 3})
			if b < 0 || b >= 360 {
				t.Fatalf("Bearing out of [0,360): %g", b)
			}
		}
	}
}

func TestInterpolatePath_EndpointsAndCount(t *testing.T) {
	a := Coordinate{Lon: -122.3849, Lat: 37.6221}
	b := Coordinate{Lon: 139.7811, Lat: 35.5533}
	for _, segments := range []int{2, 3, 16, 100} {
		path := InterpolatePath(a, b, segments)
		if len(path) != segments+1 {
			t.Fatalf("segments=%d: got %d points, want %d", segments, len(path), segments+1)
		}
		if path[0] != a {
			t.Errorf("segments=%d: first=%v, want %v", segments, path[0], a)
		}
		if path[len(path)-1] != b {
			t.Errorf("segments=%d: last=%v, want %v", segments, path[len(path)-1], b)
		}
	}
}

func TestInterpolatePath_Degenerate(t *testing.T) {
	a := Coordinate{0, 0}
	b := Coordinate{10, 10}
	for _, segments := range []int{1, 0, -5} {
		path := InterpolatePath(a, b, segments)
		if len(path) != 2 || path[0] != a || path[1] != b {
			t.Errorf("segments=%d: got %v, want [a b]", segments, path)
		}
	}
}

func TestInterpolatePath_CoincidentEndpoints(t *testing.T) {
	a := Coordinate{42, -17}
	path := InterpolatePath(a, a, 4)
	if len(path) != 5 {
		t.Fatalf("got %d points, want 5", len(path))
	}
	for i, p := range path {
		if p != a {
			t.Errorf("point %d = %v, want %v", i, p, a)
		}
	}
}

func TestInterpolatePath_MidpointOnGreatCircle(t *testing.T) {
	// The midpoint of an equatorial path stays on the equator.
	path := InterpolatePath(Coordinate{0, 0}, Coordinate{90, 0}, 2)
	mid := path[1]
	if !almostEqual(mid.Lat, 0, 1e-9) || !almostEqual(mid.Lon, 45, 1e-9) {
		t.Errorf("equatorial midpoint = %v, want (45, 0)", mid)
	}
}

func TestAdaptiveResample(t *testing.T) {
	ring := []Coordinate{{0, 0}, {90, 0}}
	out := AdaptiveResample(ring, 1000)
	if len(out) <= 2 {
		t.Fatalf("expected inserted points, got %d", len(out))
	}
	if out[0] != ring[0] || out[len(out)-1] != ring[1] {
		t.Errorf("endpoints not preserved: %v ... %v", out[0], out[len(out)-1])
	}
	for i := 1; i < len(out); i++ {
		if d := Distance(out[i-1], out[i]); d > 1000+1 {
			t.Errorf("segment %d spans %g km, want <= 1000", i, d)
		}
	}

	// Short segments pass through untouched.
	short := []Coordinate{{0, 0}, {0.1, 0}, {0.2, 0.1}}
	if got := AdaptiveResample(short, 1000); len(got) != len(short) {
		t.Errorf("short ring resampled: %d points, want %d", len(got), len(short))
	}
}
