package geo

import "math"

// EarthRadiusKm is the mean Earth radius used for all great-circle
// calculations (kilometres).
const EarthRadiusKm = 6371.0

// Distance returns the great-circle distance between a and b in
// kilometres, via the haversine formula.
//
// Symmetric: Distance(a, b) == Distance(b, a), Distance(a, a) == 0.
// For near-antipodal pairs the haversine term saturates and precision
// drops to a few metres; that is a known property of the formula.
func Distance(a, b Coordinate) float64 {
	lat1 := a.Lat * degToRad
	lat2 := b.Lat * degToRad
	dLat := (b.Lat - a.Lat) * degToRad
	dLon := (b.Lon - a.Lon) * degToRad

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	if h > 1 {
		h = 1
	}
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// Bearing returns the initial bearing (forward azimuth) from a to b,
// in degrees in [0, 360).
func Bearing(a, b Coordinate) float64 {
	lat1 := a.Lat * degToRad
	lat2 := b.Lat * degToRad
	dLon := (b.Lon - a.Lon) * degToRad

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	deg := math.Atan2(y, x) / degToRad
	deg = math.Mod(deg+360, 360)
	if deg == 360 {
		deg = 0
	}
	return deg
}

// InterpolatePath returns segments+1 coordinates along the great circle
// from a to b, inclusive of both endpoints, spaced at equal angular
// steps (spherical linear interpolation). segments <= 1 degenerates to
// the two-point path [a, b].
func InterpolatePath(a, b Coordinate, segments int) []Coordinate {
	if segments <= 1 {
		return []Coordinate{a, b}
	}

	lat1 := a.Lat * degToRad
	lon1 := a.Lon * degToRad
	lat2 := b.Lat * degToRad
	lon2 := b.Lon * degToRad

	// Central angle between the endpoints.
	delta := Distance(a, b) / EarthRadiusKm

	path := make([]Coordinate, 0, segments+1)
	path = append(path, a)

	sinDelta := math.Sin(delta)
	for i := 1; i < segments; i++ {
		f := float64(i) / float64(segments)
		if sinDelta == 0 {
			// Coincident endpoints: every step is the start point.
			path = append(path, a)
			continue
		}
		fa := math.Sin((1-f)*delta) / sinDelta
		fb := math.Sin(f*delta) / sinDelta

		x := fa*math.Cos(lat1)*math.Cos(lon1) + fb*math.Cos(lat2)*math.Cos(lon2)
		y := fa*math.Cos(lat1)*math.Sin(lon1) + fb*math.Cos(lat2)*math.Sin(lon2)
		z := fa*math.Sin(lat1) + fb*math.Sin(lat2)

		path = append(path, Coordinate{
			Lon: NormalizeLon(math.Atan2(y, x) / degToRad),
			Lat: math.Atan2(z, math.Sqrt(x*x+y*y)) / degToRad,
		})
	}

	path = append(path, b)
	return path
}

// AdaptiveResample walks a ring and inserts interpolated points wherever
// two consecutive points are further apart than maxSegmentKm, keeping
// long boundary segments visually smooth after simplification. Rings of
// fewer than two points are returned unchanged.
func AdaptiveResample(ring []Coordinate, maxSegmentKm float64) []Coordinate {
	if len(ring) < 2 || maxSegmentKm <= 0 {
		return ring
	}

	out := make([]Coordinate, 0, len(ring))
	out = append(out, ring[0])
	for i := 1; i < len(ring); i++ {
		prev := ring[i-1]
		cur := ring[i]
		if d := Distance(prev, cur); d > maxSegmentKm {
			segments := int(math.Ceil(d / maxSegmentKm))
			mid := InterpolatePath(prev, cur, segments)
			// Endpoints are already present (prev appended, cur below).
			out = append(out, mid[1:len(mid)-1]...)
		}
		out = append(out, cur)
	}
	return out
}
