// Package vips provides a libvips-backed Decoder and LossyEncoder.
package vips

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"io"
	"runtime"
	"sync"

	govips "github.com/davidbyttow/govips/v2/vips"

	"github.com/Skryldev/image-editor/core"
	apperrors "github.com/Skryldev/image-editor/errors"
	"github.com/Skryldev/image-editor/utils"
)

// BackendConfig configures the libvips backend.
type BackendConfig struct {
	MaxPixels    int // 0 = no limit
	MaxCacheSize int
	MaxWorkers   int
	ReportLeaks  bool
}

var startOnce sync.Once

// Backend is a unified libvips-powered Decoder and LossyEncoder.
type Backend struct {
	cfg BackendConfig

	// The budget search encodes the same buffer repeatedly; keep its vips
	// image around between calls.
	mu      sync.Mutex
	lastBuf *core.PixelBuffer
	lastRef *govips.ImageRef
}

// NewBackend initialises libvips (once per process) and returns a ready Backend.
// Call Shutdown() when the process exits.
func NewBackend(cfg BackendConfig) *Backend {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = runtime.NumCPU()
	}
	startOnce.Do(func() {
		govips.LoggingSettings(nil, govips.LogLevelWarning)
		govips.Startup(&govips.Config{
			ConcurrencyLevel: cfg.MaxWorkers,
			MaxCacheSize:     cfg.MaxCacheSize,
			ReportLeaks:      cfg.ReportLeaks,
		})
	})
	return &Backend{cfg: cfg}
}

// Shutdown releases all libvips resources. Call once at process exit.
func (b *Backend) Shutdown() {
	b.mu.Lock()
	if b.lastRef != nil {
		b.lastRef.Close()
		b.lastRef, b.lastBuf = nil, nil
	}
	b.mu.Unlock()
	govips.Shutdown()
}

// ─── Decoder ──────────────────────────────────────────────────────────────────

func (b *Backend) CanDecode(f core.Format) bool {
	switch f {
	case core.FormatJPEG, core.FormatPNG, core.FormatWebP, core.FormatGIF, core.FormatTIFF, core.FormatUnknown:
		return true
	}
	return false
}

func (b *Backend) Decode(ctx context.Context, r io.Reader) (*core.PixelBuffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "vips.decode", err)
	}

	buf, err := utils.DrainReader(ctx, r, 32*1024)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "vips.decode.drain", err)
	}
	raw := utils.CloneBytes(buf.Bytes())
	utils.ReleaseBuffer(buf)

	ref, err := govips.NewImageFromBuffer(raw)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "vips.decode", err)
	}
	defer ref.Close()

	w, h := ref.Width(), ref.Height()
	if b.cfg.MaxPixels > 0 && w*h > b.cfg.MaxPixels {
		return nil, apperrors.New(apperrors.CategoryDecode, "vips.decode",
			fmt.Errorf("%w: %dx%d exceeds %d pixels", apperrors.ErrImageTooLarge, w, h, b.cfg.MaxPixels))
	}

	if err := ref.ToColorSpace(govips.InterpretationSRGB); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "vips.decode.colorspace", err)
	}
	if ref.BandFormat() != govips.BandFormatUchar {
		if err := ref.Cast(govips.BandFormatUchar); err != nil {
			return nil, apperrors.Wrap(apperrors.CategoryDecode, "vips.decode.cast", err)
		}
	}

	pix, err := ref.ToBytes()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "vips.decode.memory", err)
	}
	return flatten(pix, w, h, ref.Bands())
}

// flatten converts interleaved 8-bit samples to a PixelBuffer, dropping any
// alpha band.
func flatten(pix []byte, w, h, bands int) (*core.PixelBuffer, error) {
	if bands < 3 || len(pix) < w*h*bands {
		return nil, apperrors.New(apperrors.CategoryDecode, "vips.decode",
			fmt.Errorf("%w: unexpected layout %dx%d with %d bands", apperrors.ErrUnsupportedFormat, w, h, bands))
	}
	out := core.NewPixelBuffer(w, h)
	for i := range out.Pixels {
		o := i * bands
		out.Pixels[i] = core.RGB(pix[o], pix[o+1], pix[o+2])
	}
	return out, nil
}

// ─── Encoder ──────────────────────────────────────────────────────────────────

func (b *Backend) Format() core.Format { return core.FormatJPEG }

func (b *Backend) Encode(ctx context.Context, buf *core.PixelBuffer, quality int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryEncode, "vips.encode", err)
	}
	if buf == nil || buf.Empty() {
		return nil, apperrors.New(apperrors.CategoryEncode, "vips.encode", apperrors.ErrEmptyInput)
	}
	if quality < 1 || quality > 100 {
		return nil, apperrors.New(apperrors.CategoryEncode, "vips.encode",
			fmt.Errorf("%w: quality %d outside 1..100", apperrors.ErrInvalidArgument, quality))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	ref, err := b.refFor(buf)
	if err != nil {
		return nil, err
	}

	ep := govips.NewJpegExportParams()
	ep.Quality = quality
	ep.StripMetadata = true
	data, _, err := ref.ExportJpeg(ep)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryEncode, "vips.encode.jpeg", err)
	}
	return data, nil
}

// refFor returns a vips image holding buf's pixels. Callers hold b.mu.
func (b *Backend) refFor(buf *core.PixelBuffer) (*govips.ImageRef, error) {
	if b.lastBuf == buf && b.lastRef != nil {
		return b.lastRef, nil
	}

	// PNG is lossless, so the handoff to libvips keeps every pixel exact.
	var lossless bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.NoCompression}
	if err := enc.Encode(&lossless, buf.ToImage()); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryEncode, "vips.encode.handoff", err)
	}
	ref, err := govips.NewImageFromBuffer(lossless.Bytes())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryEncode, "vips.encode.load", err)
	}

	if b.lastRef != nil {
		b.lastRef.Close()
	}
	b.lastBuf, b.lastRef = buf, ref
	return ref, nil
}

// ─── RegisterBackend ──────────────────────────────────────────────────────────

// RegisterBackend replaces the Go codecs with libvips for every format it
// decodes and installs it as the lossy encoder.
func RegisterBackend(reg core.Registry, b *Backend) {
	for _, f := range []core.Format{core.FormatJPEG, core.FormatPNG, core.FormatWebP, core.FormatGIF, core.FormatTIFF} {
		reg.RegisterDecoder(f, b)
	}
	reg.SetEncoder(b)
}

// compile-time interface checks
var _ core.Decoder = (*Backend)(nil)
var _ core.LossyEncoder = (*Backend)(nil)
