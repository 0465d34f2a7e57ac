package colors

import (
	"fmt"
	"math"
)

// Gradient is linear interpolation between two colors.
type Gradient struct {
	start, end Color
}

// NewGradient creates gradient going from start to end color.
func NewGradient(start, end Color) Gradient {
	return Gradient{start: start, end: end}
}

// Interpolate returns color at position a, 0 being start and 1 being end.
func (g Gradient) Interpolate(a float64) (Color, error) {
	if !(a >= 0.0 && a <= 1.0) {
		return Color{}, fmt.Errorf("%w: %v not in [0, 1]", ErrRange, a)
	}
	return New(
		interpolate(g.start.r, g.end.r, a),
		interpolate(g.start.g, g.end.g, a),
		interpolate(g.start.b, g.end.b, a),
	), nil
}

func interpolate(x, y uint8, a float64) uint8 {
	return uint8(math.Round(float64(x)*(1.0-a) + float64(y)*a))
}
