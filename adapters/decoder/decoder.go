// Package decoder provides format-specific image decoders that flatten their
// output into a core.PixelBuffer.
package decoder

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"

	"github.com/Skryldev/image-editor/core"
	apperrors "github.com/Skryldev/image-editor/errors"
)

// Limits guards against decompression bombs. Zero means unlimited.
type Limits struct {
	MaxPixels int
}

type decodeFunc func(io.Reader) (image.Image, error)
type configFunc func(io.Reader) (image.Config, error)

// decode checks the header dimensions against lim before decoding the full
// image, then flattens the result.
func decode(ctx context.Context, op string, r io.Reader, lim Limits, cfgFn configFunc, fn decodeFunc) (*core.PixelBuffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, op, err)
	}

	if lim.MaxPixels > 0 && cfgFn != nil {
		var head bytes.Buffer
		c, err := cfgFn(io.TeeReader(r, &head))
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CategoryDecode, op+".config", err)
		}
		if c.Width*c.Height > lim.MaxPixels {
			return nil, apperrors.New(apperrors.CategoryDecode, op,
				fmt.Errorf("%w: %dx%d exceeds %d pixels", apperrors.ErrImageTooLarge, c.Width, c.Height, lim.MaxPixels))
		}
		r = io.MultiReader(&head, r)
	}

	img, err := fn(r)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, op, err)
	}
	return core.FromImage(img), nil
}
