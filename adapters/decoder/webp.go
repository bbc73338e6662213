package decoder

import (
	"context"
	"io"

	"golang.org/x/image/webp"

	"github.com/Skryldev/image-editor/core"
)

// WebP decodes WebP images using golang.org/x/image/webp.
// NOTE: animated WebP is not supported; only the first frame layout is read.
type WebP struct {
	Limits Limits
}

func NewWebP(lim Limits) *WebP { return &WebP{Limits: lim} }

func (w *WebP) CanDecode(format core.Format) bool {
	return format == core.FormatWebP
}

func (w *WebP) Decode(ctx context.Context, r io.Reader) (*core.PixelBuffer, error) {
	return decode(ctx, "webp.decode", r, w.Limits, webp.DecodeConfig, webp.Decode)
}
