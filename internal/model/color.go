package model

// Color is a linear RGB color.
type Color struct {
	R, G, B float64
}

// Eye colors per behavior phase.
var (
	EyeDormant = Color{0, 0, 0}
	EyeScan    = Color{0, 1, 1}
	EyeDetect  = Color{1, 0.4, 0}
	EyeChase   = Color{1, 0, 0}
)

// Lerp eases c toward to by t (clamped to [0,1]).
func (c Color) Lerp(to Color, t float64) Color {
	return Color{
		R: Lerp(c.R, to.R, t),
		G: Lerp(c.G, to.G, t),
		B: Lerp(c.B, to.B, t),
	}
}

// Scale multiplies every channel by k (emission = color * intensity).
func (c Color) Scale(k float64) Color {
	return Color{c.R * k, c.G * k, c.B * k}
}
