package elevation

import "math"

// DisplaceConfig tunes how sampled elevation displaces the sphere
// surface. The power curve exaggerates mountains and compresses the
// ocean floor visually.
type DisplaceConfig struct {
	// MaxScale is the maximum radial displacement at elevation 1.0.
	MaxScale float64 `yaml:"maxScale" json:"maxScale"`
	// Power is the curve exponent applied to the normalized sample.
	Power float64 `yaml:"power" json:"power"`
}

// DefaultDisplace is the tuning used when the manifest does not
// override it.
var DefaultDisplace = DisplaceConfig{MaxScale: 10, Power: 1.6}

// Radius returns the displaced sphere radius for a normalized elevation
// sample: base - 1 + maxScale * elev^power.
func (c DisplaceConfig) Radius(baseRadius, elev float64) float64 {
	if elev < 0 {
		elev = 0
	} else if elev > 1 {
		elev = 1
	}
	power := c.Power
	if power <= 0 {
		power = DefaultDisplace.Power
	}
	return baseRadius - 1 + c.MaxScale*math.Pow(elev, power)
}
