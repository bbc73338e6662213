// Package transform implements the pure buffer-to-buffer operations: geometric
// reshaping, per-pixel color remapping and kernel convolution.
//
// Every operation is described by a Transform value and executed through
// Apply. The input buffer is never modified; the result is always a fresh
// allocation, even when the dimensions are unchanged.
package transform

import (
	"fmt"

	"github.com/Skryldev/image-editor/core"
	apperrors "github.com/Skryldev/image-editor/errors"
)

// Kind tags the operation a Transform performs.
type Kind int

const (
	KindCrop Kind = iota + 1
	KindFlip
	KindRotate
	KindFit
	KindInvert
	KindGrayscale
	KindBrightness
	KindContrast
	KindTint
	KindColorize
	KindConvolve
)

var kindNames = map[Kind]string{
	KindCrop:       "crop",
	KindFlip:       "flip",
	KindRotate:     "rotate",
	KindFit:        "fit",
	KindInvert:     "invert",
	KindGrayscale:  "grayscale",
	KindBrightness: "brightness",
	KindContrast:   "contrast",
	KindTint:       "tint",
	KindColorize:   "colorize",
	KindConvolve:   "convolve",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Axis selects the mirror line for Flip.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

func (a Axis) String() string {
	if a == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Angle is a clockwise rotation in degrees.
type Angle int

const (
	Rotate90  Angle = 90
	Rotate180 Angle = 180
	Rotate270 Angle = 270
)

// Rect is a crop region anchored at its top-left corner.
type Rect struct {
	X, Y, Width, Height int
}

// Transform describes one operation. Only the fields relevant to Kind are
// read; build values with the constructors below.
type Transform struct {
	Kind Kind

	Rect      Rect               // crop
	Axis      Axis               // flip
	Angle     Angle              // rotate
	MaxWidth  int                // fit
	MaxHeight int                // fit
	Factor    float32            // brightness, contrast; tint intensity
	Color     core.Color         // tint, colorize
	Filter    *ConvolutionFilter // convolve
}

// Crop keeps the w×h rectangle whose top-left corner is (x, y).
func Crop(x, y, w, h int) Transform {
	return Transform{Kind: KindCrop, Rect: Rect{X: x, Y: y, Width: w, Height: h}}
}

// Flip mirrors the buffer across the given axis.
func Flip(axis Axis) Transform { return Transform{Kind: KindFlip, Axis: axis} }

// Rotate turns the buffer clockwise by 90, 180 or 270 degrees.
func Rotate(angle Angle) Transform { return Transform{Kind: KindRotate, Angle: angle} }

// Fit scales the buffer down, preserving aspect ratio, so it fits inside
// maxW×maxH. It never upscales.
func Fit(maxW, maxH int) Transform {
	return Transform{Kind: KindFit, MaxWidth: maxW, MaxHeight: maxH}
}

// Invert replaces every channel with 255 minus its value.
func Invert() Transform { return Transform{Kind: KindInvert} }

// Grayscale sets every channel to the pixel's luma.
func Grayscale() Transform { return Transform{Kind: KindGrayscale} }

// Brightness multiplies every channel by factor.
func Brightness(factor float32) Transform {
	return Transform{Kind: KindBrightness, Factor: factor}
}

// Contrast scales every channel's distance from mid-gray by factor.
func Contrast(factor float32) Transform {
	return Transform{Kind: KindContrast, Factor: factor}
}

// Tint blends every pixel toward c. Intensities outside [0, 1] extrapolate.
func Tint(c core.Color, intensity float32) Transform {
	return Transform{Kind: KindTint, Color: c, Factor: intensity}
}

// Colorize maps each pixel's luma onto a ramp from black to c.
func Colorize(c core.Color) Transform { return Transform{Kind: KindColorize, Color: c} }

// Convolve runs f over the buffer.
func Convolve(f *ConvolutionFilter) Transform { return Transform{Kind: KindConvolve, Filter: f} }

// Name is the short label used by hooks, logs and metrics.
func (t Transform) Name() string {
	if t.Kind == KindConvolve && t.Filter != nil {
		return t.Filter.Name()
	}
	return t.Kind.String()
}

func (t Transform) String() string {
	switch t.Kind {
	case KindCrop:
		return fmt.Sprintf("crop(%d,%d %dx%d)", t.Rect.X, t.Rect.Y, t.Rect.Width, t.Rect.Height)
	case KindFlip:
		return "flip(" + t.Axis.String() + ")"
	case KindRotate:
		return fmt.Sprintf("rotate(%d)", t.Angle)
	case KindFit:
		return fmt.Sprintf("fit(%dx%d)", t.MaxWidth, t.MaxHeight)
	case KindBrightness, KindContrast:
		return fmt.Sprintf("%s(%g)", t.Kind, t.Factor)
	case KindTint:
		return fmt.Sprintf("tint(%s, %g)", t.Color, t.Factor)
	case KindColorize:
		return fmt.Sprintf("colorize(%s)", t.Color)
	}
	return t.Name()
}

// Apply executes t on buf and returns the new buffer.
func (t Transform) Apply(buf *core.PixelBuffer) (*core.PixelBuffer, error) {
	return Apply(t, buf)
}

// Apply is the single entry point for every transform kind. Geometric
// transforms may fail with an OutOfBounds error; every other failure is an
// invalid descriptor.
func Apply(t Transform, buf *core.PixelBuffer) (*core.PixelBuffer, error) {
	if buf == nil {
		return nil, apperrors.New(apperrors.CategoryInput, t.Name(), apperrors.ErrEmptyInput)
	}

	switch t.Kind {
	case KindCrop:
		return crop(buf, t.Rect)
	case KindFlip:
		return flip(buf, t.Axis)
	case KindRotate:
		return rotate(buf, t.Angle)
	case KindFit:
		return fit(buf, t.MaxWidth, t.MaxHeight)
	case KindInvert:
		return mapPixels(buf, invertPixel), nil
	case KindGrayscale:
		return mapPixels(buf, grayscalePixel), nil
	case KindBrightness:
		return mapPixels(buf, brightnessPixel(t.Factor)), nil
	case KindContrast:
		return mapPixels(buf, contrastPixel(t.Factor)), nil
	case KindTint:
		return mapPixels(buf, tintPixel(t.Color, t.Factor)), nil
	case KindColorize:
		return mapPixels(buf, colorizePixel(t.Color)), nil
	case KindConvolve:
		if t.Filter == nil {
			return nil, apperrors.New(apperrors.CategoryInput, t.Name(),
				fmt.Errorf("%w: convolve without a filter", apperrors.ErrInvalidArgument))
		}
		return t.Filter.Apply(buf), nil
	}
	return nil, apperrors.New(apperrors.CategoryInput, "apply",
		fmt.Errorf("%w: unknown transform %s", apperrors.ErrInvalidArgument, t.Kind))
}
