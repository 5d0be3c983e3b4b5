package heatmap

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Ramp is a continuous colour ramp evaluated on [0,1].
type Ramp struct {
	stops []colorful.Color
}

// rdYlBu is the eleven-class red-yellow-blue diverging scheme, red first.
var rdYlBu = []string{
	"#a50026", "#d73027", "#f46d43", "#fdae61", "#fee090", "#ffffbf",
	"#e0f3f8", "#abd9e9", "#74add1", "#4575b4", "#313695",
}

// RdYlBu returns the red-yellow-blue ramp: 0 is deep red, 1 is deep blue.
func RdYlBu() Ramp {
	return MustRamp(rdYlBu...)
}

// NewRamp builds a ramp from at least two hex colours.
func NewRamp(hexes ...string) (Ramp, error) {
	if len(hexes) < 2 {
		return Ramp{}, fmt.Errorf("ramp needs at least two colours, got %d", len(hexes))
	}
	stops := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return Ramp{}, fmt.Errorf("ramp colour %d: %w", i, err)
		}
		stops[i] = c
	}
	return Ramp{stops: stops}, nil
}

func MustRamp(hexes ...string) Ramp {
	r, err := NewRamp(hexes...)
	if err != nil {
		panic(err)
	}
	return r
}

// At evaluates the ramp at t with a uniform cubic B-spline through the stops.
// The spline passes through the first and last stop exactly.
func (r Ramp) At(t float64) string {
	return r.Color(t).Hex()
}

// Color is At without the hex formatting.
func (r Ramp) Color(t float64) colorful.Color {
	n := len(r.stops) - 1
	if n < 1 {
		return colorful.Color{}
	}

	var i int
	switch {
	case t <= 0 || math.IsNaN(t):
		t, i = 0, 0
	case t >= 1:
		t, i = 1, n-1
	default:
		i = int(math.Floor(t * float64(n)))
	}

	v1 := r.stops[i]
	v2 := r.stops[i+1]
	v0 := extrapolate(v1, v2)
	if i > 0 {
		v0 = r.stops[i-1]
	}
	v3 := extrapolate(v2, v1)
	if i < n-1 {
		v3 = r.stops[i+2]
	}

	u := (t - float64(i)/float64(n)) * float64(n)
	return colorful.Color{
		R: basis(u, v0.R, v1.R, v2.R, v3.R),
		G: basis(u, v0.G, v1.G, v2.G, v3.G),
		B: basis(u, v0.B, v1.B, v2.B, v3.B),
	}.Clamped()
}

// extrapolate mirrors b through a.
func extrapolate(a, b colorful.Color) colorful.Color {
	return colorful.Color{R: 2*a.R - b.R, G: 2*a.G - b.G, B: 2*a.B - b.B}
}

func basis(t, v0, v1, v2, v3 float64) float64 {
	t2 := t * t
	t3 := t2 * t
	return ((1-3*t+3*t2-t3)*v0 +
		(4-6*t2+3*t3)*v1 +
		(1+3*t+3*t2-3*t3)*v2 +
		t3*v3) / 6
}
