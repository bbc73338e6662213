package decoder

import (
	"context"
	"image"
	"io"

	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder

	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WEBP decoder

	"github.com/Skryldev/image-editor/core"
)

// Auto sniffs the stream and decodes any format registered with the image
// package. It backs GIF, BMP and TIFF, and is the fallback for unknown input.
type Auto struct {
	Limits Limits
}

func NewAuto(lim Limits) *Auto { return &Auto{Limits: lim} }

func (a *Auto) CanDecode(format core.Format) bool {
	switch format {
	case core.FormatJPEG, core.FormatPNG, core.FormatGIF, core.FormatBMP,
		core.FormatTIFF, core.FormatWebP, core.FormatUnknown:
		return true
	}
	return false
}

func (a *Auto) Decode(ctx context.Context, r io.Reader) (*core.PixelBuffer, error) {
	cfgFn := func(r io.Reader) (image.Config, error) {
		c, _, err := image.DecodeConfig(r)
		return c, err
	}
	fn := func(r io.Reader) (image.Image, error) {
		img, _, err := image.Decode(r)
		return img, err
	}
	return decode(ctx, "auto.decode", r, a.Limits, cfgFn, fn)
}

// RegisterAll installs the built-in decoders into reg.
func RegisterAll(reg core.Registry, lim Limits) {
	auto := NewAuto(lim)
	reg.RegisterDecoder(core.FormatJPEG, NewJPEG(lim))
	reg.RegisterDecoder(core.FormatPNG, NewPNG(lim))
	reg.RegisterDecoder(core.FormatWebP, NewWebP(lim))
	reg.RegisterDecoder(core.FormatGIF, auto)
	reg.RegisterDecoder(core.FormatBMP, auto)
	reg.RegisterDecoder(core.FormatTIFF, auto)
	reg.RegisterDecoder(core.FormatUnknown, auto)
}
