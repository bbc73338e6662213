package transform

import (
	"fmt"

	"github.com/Skryldev/image-editor/core"
	apperrors "github.com/Skryldev/image-editor/errors"
)

func crop(src *core.PixelBuffer, r Rect) (*core.PixelBuffer, error) {
	if r.X < 0 || r.Y < 0 || r.Width < 0 || r.Height < 0 {
		return nil, apperrors.OutOfBounds("crop", "negative region %d,%d %dx%d", r.X, r.Y, r.Width, r.Height)
	}
	if r.X+r.Width > src.Width || r.Y+r.Height > src.Height {
		return nil, apperrors.OutOfBounds("crop", "region %d,%d %dx%d exceeds %s",
			r.X, r.Y, r.Width, r.Height, src)
	}

	dst := core.NewPixelBuffer(r.Width, r.Height)
	for dy := 0; dy < r.Height; dy++ {
		row := src.Index(r.X, r.Y+dy)
		copy(dst.Pixels[dy*r.Width:(dy+1)*r.Width], src.Pixels[row:row+r.Width])
	}
	return dst, nil
}

func flip(src *core.PixelBuffer, axis Axis) (*core.PixelBuffer, error) {
	w, h := src.Width, src.Height
	dst := core.NewPixelBuffer(w, h)

	switch axis {
	case Horizontal:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				dst.Pixels[y*w+(w-1-x)] = src.Pixels[y*w+x]
			}
		}
	case Vertical:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				dst.Pixels[(h-1-y)*w+x] = src.Pixels[y*w+x]
			}
		}
	default:
		return nil, apperrors.New(apperrors.CategoryInput, "flip",
			fmt.Errorf("%w: axis %d", apperrors.ErrInvalidArgument, int(axis)))
	}
	return dst, nil
}

// rotate turns src clockwise. Destination coordinates are measured from the
// top-left origin with y growing downward.
func rotate(src *core.PixelBuffer, angle Angle) (*core.PixelBuffer, error) {
	w, h := src.Width, src.Height

	switch angle {
	case Rotate90:
		// (x, y) -> (h-1-y, x) in an h×w buffer.
		dst := core.NewPixelBuffer(h, w)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				dst.Pixels[x*h+(h-1-y)] = src.Pixels[y*w+x]
			}
		}
		return dst, nil
	case Rotate180:
		dst := core.NewPixelBuffer(w, h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				dst.Pixels[(h-1-y)*w+(w-1-x)] = src.Pixels[y*w+x]
			}
		}
		return dst, nil
	case Rotate270:
		// (x, y) -> (y, w-1-x) in an h×w buffer.
		dst := core.NewPixelBuffer(h, w)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				dst.Pixels[(w-1-x)*h+y] = src.Pixels[y*w+x]
			}
		}
		return dst, nil
	}
	return nil, apperrors.New(apperrors.CategoryInput, "rotate",
		fmt.Errorf("%w: angle %d, want 90, 180 or 270", apperrors.ErrInvalidArgument, int(angle)))
}

// FitDimensions returns the size fit produces for a w×h source bounded by
// maxW×maxH: scale = min(maxW/w, maxH/h, 1), each side floored and clamped
// to at least 1. The ratio is compared in integers so exact fits are never
// lost to float rounding.
func FitDimensions(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return w, h
	}
	if maxW < 0 {
		maxW = 0
	}
	if maxH < 0 {
		maxH = 0
	}
	if maxW >= w && maxH >= h {
		return w, h
	}

	var nw, nh int
	// maxW/w <= maxH/h  <=>  maxW*h <= maxH*w
	if maxW*h <= maxH*w {
		nw, nh = maxW, h*maxW/w
	} else {
		nw, nh = w*maxH/h, maxH
	}
	return max(nw, 1), max(nh, 1)
}

func fit(src *core.PixelBuffer, maxW, maxH int) (*core.PixelBuffer, error) {
	if src.Empty() {
		return src.Clone(), nil
	}
	w, h := src.Width, src.Height
	nw, nh := FitDimensions(w, h, maxW, maxH)

	// Nearest-neighbour: destination (dx, dy) samples (dx*w/nw, dy*h/nh).
	dst := core.NewPixelBuffer(nw, nh)
	for dy := 0; dy < nh; dy++ {
		sy := dy * h / nh
		for dx := 0; dx < nw; dx++ {
			sx := dx * w / nw
			dst.Pixels[dy*nw+dx] = src.Pixels[sy*w+sx]
		}
	}
	return dst, nil
}
