// SPDX-License-Identifier: EPL-2.0

// Package utils holds the sample arithmetic shared by the audio adapters.
package utils

import "math"

// Clamp16 saturates v to the int16 range.
func Clamp16(v int) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// Float32ToInt16 maps x in [-1, 1] to 16-bit PCM, rounding to nearest.
// Values outside the range saturate.
func Float32ToInt16(x float32) int16 {
	return Clamp16(int(math.Round(float64(x) * 32768)))
}

// ScaleToInt16 converts a sample of the given bit depth to 16 bits.
func ScaleToInt16(v, bitDepth int) int16 {
	switch {
	case bitDepth == 8:
		// v must already be signed; WAV callers remove the 128 offset first.
		return Clamp16(v << 8)
	case bitDepth > 16:
		return Clamp16(v >> (bitDepth - 16))
	case bitDepth > 0 && bitDepth < 16:
		return Clamp16(v << (16 - bitDepth))
	}
	return Clamp16(v)
}

// CubicInterpolate evaluates the Catmull-Rom spline through four
// consecutive samples at x in [0, 1] between y1 and y2.
func CubicInterpolate(y0, y1, y2, y3 int16, x float64) int16 {
	p0, p1, p2, p3 := float64(y0), float64(y1), float64(y2), float64(y3)

	a0 := -0.5*p0 + 1.5*p1 - 1.5*p2 + 0.5*p3
	a1 := p0 - 2.5*p1 + 2*p2 - 0.5*p3
	a2 := -0.5*p0 + 0.5*p2
	a3 := p1

	return Clamp16(int(math.Round(((a0*x+a1)*x+a2)*x + a3)))
}
