package gfx

import "image/color"

// RendererOptions configures per-frame fixed state of a FrameRenderer.
// A nil ClearColor clears to opaque black.
type RendererOptions struct {
	ClearColor color.Color
	DepthTest  bool
}

func (o RendererOptions) clearMask() ClearMask {
	if o.DepthTest {
		return ClearColorBit | ClearDepthBit
	}
	return ClearColorBit
}

func colorToFloat(c color.Color) [4]float32 {
	if c == nil {
		return [4]float32{0, 0, 0, 1}
	}
	r, g, b, a := c.RGBA()
	const inv = 1.0 / 65535.0
	return [4]float32{
		float32(r) * inv,
		float32(g) * inv,
		float32(b) * inv,
		float32(a) * inv,
	}
}

// Clear clears the framebuffer the way a FrameRenderer with these options
// does at the start of every frame.
func (o RendererOptions) Clear(dev Device) {
	dev.SetClearColor(colorToFloat(o.ClearColor))
	dev.Clear(o.clearMask())
}
