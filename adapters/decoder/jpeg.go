package decoder

import (
	"context"
	"image/jpeg"
	"io"

	"github.com/Skryldev/image-editor/core"
)

// JPEG decodes JPEG images using the standard library.
type JPEG struct {
	Limits Limits
}

// NewJPEG returns an initialised JPEG decoder.
func NewJPEG(lim Limits) *JPEG { return &JPEG{Limits: lim} }

func (j *JPEG) CanDecode(format core.Format) bool {
	return format == core.FormatJPEG
}

func (j *JPEG) Decode(ctx context.Context, r io.Reader) (*core.PixelBuffer, error) {
	return decode(ctx, "jpeg.decode", r, j.Limits, jpeg.DecodeConfig, jpeg.Decode)
}
