package decoder

import (
	"context"
	"image/png"
	"io"

	"github.com/Skryldev/image-editor/core"
)

// PNG decodes PNG images. Alpha is discarded.
type PNG struct {
	Limits Limits
}

func NewPNG(lim Limits) *PNG { return &PNG{Limits: lim} }

func (p *PNG) CanDecode(format core.Format) bool { return format == core.FormatPNG }

func (p *PNG) Decode(ctx context.Context, r io.Reader) (*core.PixelBuffer, error) {
	return decode(ctx, "png.decode", r, p.Limits, png.DecodeConfig, png.Decode)
}
