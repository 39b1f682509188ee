package geo

import "math"

const degToRad = math.Pi / 180.0

// Project maps a geographic coordinate onto a sphere of the given radius.
// Right-handed, Y-up: the prime meridian at the equator lands on +X and
// longitude 90°E lands on -Z.
//
// Stateless and safe for concurrent use.
func Project(c Coordinate, radius float64) Vertex {
	lambda := c.Lon * degToRad
	phi := c.Lat * degToRad
	cosPhi := math.Cos(phi)
	return Vertex{
		X: radius * cosPhi * math.Cos(lambda),
		Y: radius * math.Sin(phi),
		Z: -radius * cosPhi * math.Sin(lambda),
	}
}

// Unproject inverts Project for a vertex on a sphere of the given radius.
// The round trip Unproject(Project(c, r), r) holds within 1e-6 degrees.
// At the poles longitude is undefined; the value falls out of atan2 as-is.
func Unproject(v Vertex, radius float64) Coordinate {
	sinPhi := v.Y / radius
	// Guard asin against FP drift just past ±1.
	if sinPhi > 1 {
		sinPhi = 1
	} else if sinPhi < -1 {
		sinPhi = -1
	}
	lat := math.Asin(sinPhi) / degToRad
	lon := math.Atan2(-v.Z, v.X) / degToRad
	return Coordinate{Lon: NormalizeLon(lon), Lat: lat}
}

// NormalizeLon brings a longitude into [-180, 180] by ±360 adjustment.
func NormalizeLon(lon float64) float64 {
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lon
}
