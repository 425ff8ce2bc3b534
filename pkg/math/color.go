package math

// Color3 is a linear RGB color.
type Color3 struct {
	R, G, B float32
}

// Color4 is a linear RGBA color.
type Color4 struct {
	R, G, B, A float32
}

// RGB drops the alpha channel.
func (c Color4) RGB() Color3 {
	return Color3{c.R, c.G, c.B}
}

// Color4FromBytes converts 8-bit RGBA to a normalized float color.
func Color4FromBytes(c [4]uint8) Color4 {
	return Color4{
		R: float32(c[0]) / 255.0,
		G: float32(c[1]) / 255.0,
		B: float32(c[2]) / 255.0,
		A: float32(c[3]) / 255.0,
	}
}
