package core

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	xdraw "golang.org/x/image/draw"
)

// Format identifies an image codec.
type Format string

const (
	FormatJPEG    Format = "jpeg"
	FormatPNG     Format = "png"
	FormatGIF     Format = "gif"
	FormatBMP     Format = "bmp"
	FormatTIFF    Format = "tiff"
	FormatWebP    Format = "webp"
	FormatUnknown Format = "unknown"
)

// Color is an opaque 8-bit RGB pixel.
type Color struct {
	R, G, B uint8
}

// RGB builds a Color from its channels.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b} }

// ColorFromHex unpacks a 0xRRGGBB value. Bits above 24 are ignored.
func ColorFromHex(hex uint32) Color {
	return Color{
		R: uint8(hex >> 16),
		G: uint8(hex >> 8),
		B: uint8(hex),
	}
}

// ColorFromFloat clamps each channel to [0, 255] and truncates toward zero.
func ColorFromFloat(r, g, b float32) Color {
	return Color{R: clampChannel(r), G: clampChannel(g), B: clampChannel(b)}
}

// ParseHexColor accepts "#RRGGBB", "0xRRGGBB" or "RRGGBB".
func ParseHexColor(s string) (Color, error) {
	v := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(s), "#"), "0x")
	if len(v) != 6 {
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return ColorFromHex(uint32(n)), nil
}

// Hex packs the color as 0xRRGGBB.
func (c Color) Hex() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Luma is the unweighted channel average, rounded down.
func (c Color) Luma() uint8 {
	return uint8((uint16(c.R) + uint16(c.G) + uint16(c.B)) / 3)
}

func (c Color) String() string { return fmt.Sprintf("#%06x", c.Hex()) }

func clampChannel(v float32) uint8 {
	// NaN fails every comparison and lands on 0.
	if !(v > 0) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// PixelBuffer is the in-memory image every transform works on. Pixels are
// stored row-major: (x, y) lives at y*Width+x. A PixelBuffer is treated as
// immutable once built; transforms always return a fresh one.
type PixelBuffer struct {
	Width  int
	Height int
	Pixels []Color
}

// NewPixelBuffer allocates a zeroed (black) w×h buffer.
func NewPixelBuffer(w, h int) *PixelBuffer {
	if w < 0 || h < 0 {
		panic(fmt.Sprintf("core: negative buffer dimensions %dx%d", w, h))
	}
	return &PixelBuffer{Width: w, Height: h, Pixels: make([]Color, w*h)}
}

// NewPixelBufferFrom wraps pixels as a w×h buffer. It panics when
// len(pixels) != w*h.
func NewPixelBufferFrom(w, h int, pixels []Color) *PixelBuffer {
	if w < 0 || h < 0 || len(pixels) != w*h {
		panic(fmt.Sprintf("core: %d pixels do not fill a %dx%d buffer", len(pixels), w, h))
	}
	return &PixelBuffer{Width: w, Height: h, Pixels: pixels}
}

// Filled returns a w×h buffer with every pixel set to c.
func Filled(w, h int, c Color) *PixelBuffer {
	buf := NewPixelBuffer(w, h)
	for i := range buf.Pixels {
		buf.Pixels[i] = c
	}
	return buf
}

// Index returns the flat offset of (x, y).
func (b *PixelBuffer) Index(x, y int) int { return y*b.Width + x }

// At returns the pixel at (x, y).
func (b *PixelBuffer) At(x, y int) Color { return b.Pixels[y*b.Width+x] }

// Empty reports whether the buffer holds no pixels.
func (b *PixelBuffer) Empty() bool { return b.Width == 0 || b.Height == 0 }

// Clone returns a deep copy.
func (b *PixelBuffer) Clone() *PixelBuffer {
	px := make([]Color, len(b.Pixels))
	copy(px, b.Pixels)
	return &PixelBuffer{Width: b.Width, Height: b.Height, Pixels: px}
}

// Equal reports whether both buffers have the same dimensions and pixels.
func (b *PixelBuffer) Equal(o *PixelBuffer) bool {
	if b == nil || o == nil {
		return b == o
	}
	if b.Width != o.Width || b.Height != o.Height || len(b.Pixels) != len(o.Pixels) {
		return false
	}
	for i := range b.Pixels {
		if b.Pixels[i] != o.Pixels[i] {
			return false
		}
	}
	return true
}

func (b *PixelBuffer) String() string {
	return fmt.Sprintf("%dx%d", b.Width, b.Height)
}

// ToImage renders the buffer as an opaque *image.RGBA for encoders.
func (b *PixelBuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for i, p := range b.Pixels {
		o := i * 4
		img.Pix[o] = p.R
		img.Pix[o+1] = p.G
		img.Pix[o+2] = p.B
		img.Pix[o+3] = 0xff
	}
	return img
}

// FromImage flattens any decoded image into a PixelBuffer. Alpha is dropped
// without compositing, so transparent areas keep their underlying color.
func FromImage(src image.Image) *PixelBuffer {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	nrgba, ok := src.(*image.NRGBA)
	if !ok || nrgba.Rect.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, w, h))
		xdraw.Draw(nrgba, nrgba.Bounds(), src, bounds.Min, xdraw.Src)
	}

	buf := NewPixelBuffer(w, h)
	for y := 0; y < h; y++ {
		row := nrgba.Pix[y*nrgba.Stride:]
		for x := 0; x < w; x++ {
			o := x * 4
			buf.Pixels[y*w+x] = Color{R: row[o], G: row[o+1], B: row[o+2]}
		}
	}
	return buf
}
