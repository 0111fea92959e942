package pdfoutline

import "math"

// rotationTolerance is how far, in degrees, a glyph may deviate from upright before it
// is treated as rotated.
const rotationTolerance = 10.0

// normalizeAngle normalizes an angle to [0, 360) range
func normalizeAngle(angle float64) float64 {
	angle = math.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}
	return angle
}

// isUpright reports whether a glyph angle in radians is close to horizontal
// left-to-right text. Rotated runs such as margin identifiers and watermarks never form
// heading lines, so they are dropped at extraction.
func isUpright(radians float32) bool {
	degrees := normalizeAngle(float64(radians) * 180 / math.Pi)
	return degrees <= rotationTolerance || degrees >= 360-rotationTolerance
}
