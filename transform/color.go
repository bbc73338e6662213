package transform

import "github.com/Skryldev/image-editor/core"

func mapPixels(src *core.PixelBuffer, fn func(core.Color) core.Color) *core.PixelBuffer {
	dst := core.NewPixelBuffer(src.Width, src.Height)
	for i, p := range src.Pixels {
		dst.Pixels[i] = fn(p)
	}
	return dst
}

func invertPixel(p core.Color) core.Color {
	return core.RGB(255-p.R, 255-p.G, 255-p.B)
}

func grayscalePixel(p core.Color) core.Color {
	l := p.Luma()
	return core.RGB(l, l, l)
}

func brightnessPixel(factor float32) func(core.Color) core.Color {
	return func(p core.Color) core.Color {
		return core.ColorFromFloat(
			float32(p.R)*factor,
			float32(p.G)*factor,
			float32(p.B)*factor,
		)
	}
}

func contrastPixel(factor float32) func(core.Color) core.Color {
	adjust := func(v uint8) float32 { return (float32(v)-128)*factor + 128 }
	return func(p core.Color) core.Color {
		return core.ColorFromFloat(adjust(p.R), adjust(p.G), adjust(p.B))
	}
}

func tintPixel(c core.Color, intensity float32) func(core.Color) core.Color {
	blend := func(src, tint uint8) float32 {
		return float32(src)*(1-intensity) + float32(tint)*intensity
	}
	return func(p core.Color) core.Color {
		return core.ColorFromFloat(blend(p.R, c.R), blend(p.G, c.G), blend(p.B, c.B))
	}
}

func colorizePixel(c core.Color) func(core.Color) core.Color {
	return func(p core.Color) core.Color {
		factor := float32(p.Luma()) / 255
		return core.ColorFromFloat(
			float32(c.R)*factor,
			float32(c.G)*factor,
			float32(c.B)*factor,
		)
	}
}
