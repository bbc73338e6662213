// Package encoder provides the lossy encoder used for saving and for
// size-targeted compression.
package encoder

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"

	"github.com/Skryldev/image-editor/core"
	apperrors "github.com/Skryldev/image-editor/errors"
)

// JPEG encodes buffers to baseline JPEG with the standard library.
type JPEG struct{}

func NewJPEG() *JPEG { return &JPEG{} }

func (j *JPEG) Format() core.Format { return core.FormatJPEG }

func (j *JPEG) Encode(ctx context.Context, buf *core.PixelBuffer, quality int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryEncode, "jpeg.encode", err)
	}
	if buf == nil || buf.Empty() {
		return nil, apperrors.New(apperrors.CategoryEncode, "jpeg.encode", apperrors.ErrEmptyInput)
	}
	if quality < 1 || quality > 100 {
		return nil, apperrors.New(apperrors.CategoryEncode, "jpeg.encode",
			fmt.Errorf("%w: quality %d outside 1..100", apperrors.ErrInvalidArgument, quality))
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, buf.ToImage(), &jpeg.Options{Quality: quality}); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryEncode, "jpeg.encode", err)
	}
	return out.Bytes(), nil
}
