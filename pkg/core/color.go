package core

// Color is a linear RGB value. Channels are not clamped until display encoding.
type Color struct {
	R, G, B float64
}

var (
	Black   = Color{0, 0, 0}
	Red     = Color{1, 0, 0}
	Green   = Color{0, 1, 0}
	Blue    = Color{0, 0, 1}
	SkyBlue = Color{0.5, 0.7, 1.0}
	White   = Color{1, 1, 1}
)

// NewColor creates a new Color
func NewColor(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// Add returns the componentwise sum of two colors
func (c Color) Add(other Color) Color {
	return Color{c.R + other.R, c.G + other.G, c.B + other.B}
}

// Sub returns the componentwise difference of two colors
func (c Color) Sub(other Color) Color {
	return Color{c.R - other.R, c.G - other.G, c.B - other.B}
}

// Mul returns the color scaled by a scalar
func (c Color) Mul(scalar float64) Color {
	return Color{c.R * scalar, c.G * scalar, c.B * scalar}
}

// Div returns the color divided by a scalar
func (c Color) Div(scalar float64) Color {
	return Color{c.R / scalar, c.G / scalar, c.B / scalar}
}

// MulColor returns the componentwise product of two colors
func (c Color) MulColor(other Color) Color {
	return Color{c.R * other.R, c.G * other.G, c.B * other.B}
}

// Lerp interpolates from c to other by t. t is not clamped, so values
// outside [0, 1] extrapolate.
func (c Color) Lerp(other Color, t float64) Color {
	return c.Add(other.Sub(c).Mul(t))
}

// RGBA8 converts the color to 8-bit display encoding with alpha fixed at 255
func (c Color) RGBA8() [4]uint8 {
	return [4]uint8{
		uint8(Clamp(c.R, 0, 1) * 255),
		uint8(Clamp(c.G, 0, 1) * 255),
		uint8(Clamp(c.B, 0, 1) * 255),
		255,
	}
}
