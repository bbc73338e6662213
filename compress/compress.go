// Package compress finds the highest encoder quality whose output fits a
// byte budget.
//
// The search is a binary search over integer quality and assumes encoded size
// never shrinks as quality grows. Real encoders occasionally break that
// assumption; when they do, the result still fits the budget but may not be
// the best quality that would have.
package compress

import (
	"context"
	"fmt"

	"github.com/Skryldev/image-editor/core"
	apperrors "github.com/Skryldev/image-editor/errors"
)

// Options bounds the search. The zero value is replaced by DefaultOptions.
type Options struct {
	MinQuality int
	MaxQuality int
	// FloorQuality is encoded to report the smallest achievable size when
	// nothing in range fits.
	FloorQuality int
	// GoodEnough stops the search as soon as a fitting result reaches this
	// fraction of the budget.
	GoodEnough float64
}

// DefaultOptions searches the full 1..100 range, stops within 1% of the
// budget and reports the minimum size at quality 10.
func DefaultOptions() Options {
	return Options{MinQuality: 1, MaxQuality: 100, FloorQuality: 10, GoodEnough: 0.99}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MinQuality <= 0 {
		o.MinQuality = d.MinQuality
	}
	if o.MaxQuality <= 0 || o.MaxQuality > 100 {
		o.MaxQuality = d.MaxQuality
	}
	if o.FloorQuality <= 0 {
		o.FloorQuality = d.FloorQuality
	}
	if o.GoodEnough <= 0 || o.GoodEnough > 1 {
		o.GoodEnough = d.GoodEnough
	}
	return o
}

// Result is the chosen encoding.
type Result struct {
	Quality  int
	Data     []byte
	Attempts int // encoder calls made by the search
}

// Size is len(Data).
func (r Result) Size() int { return len(r.Data) }

// Search encodes buf at successive qualities and returns the highest one
// whose size is at most maxBytes. When no quality fits it returns a
// *errors.TargetTooSmallError carrying the size at the floor quality.
// Encoder failures are returned as encode-category errors.
func Search(ctx context.Context, enc core.LossyEncoder, buf *core.PixelBuffer, maxBytes int, opts Options) (Result, error) {
	if enc == nil {
		return Result{}, apperrors.New(apperrors.CategoryEncode, "compress", apperrors.ErrNoEncoder)
	}
	if buf == nil {
		return Result{}, apperrors.New(apperrors.CategoryInput, "compress", apperrors.ErrEmptyInput)
	}
	if maxBytes < 0 {
		return Result{}, apperrors.New(apperrors.CategoryInput, "compress",
			fmt.Errorf("%w: budget must not be negative, got %d", apperrors.ErrInvalidArgument, maxBytes))
	}
	opts = opts.withDefaults()

	var (
		low, high = opts.MinQuality, opts.MaxQuality
		best      Result
		found     bool
		attempts  int
	)
	goodEnough := float64(maxBytes) * opts.GoodEnough

	for low <= high {
		if err := ctx.Err(); err != nil {
			return Result{}, apperrors.Wrap(apperrors.CategoryEncode, "compress", err)
		}
		mid := (low + high) / 2
		data, err := encode(ctx, enc, buf, mid)
		attempts++
		if err != nil {
			return Result{}, err
		}

		if len(data) > maxBytes {
			high = mid - 1
			continue
		}
		// Later fits are always at a higher quality than earlier ones.
		best, found = Result{Quality: mid, Data: data}, true
		if float64(len(data)) >= goodEnough {
			break
		}
		low = mid + 1
	}

	if found {
		best.Attempts = attempts
		return best, nil
	}

	floor, err := encode(ctx, enc, buf, opts.FloorQuality)
	if err != nil {
		return Result{}, err
	}
	return Result{}, &apperrors.TargetTooSmallError{
		TargetBytes:  maxBytes,
		MinBytes:     len(floor),
		FloorQuality: opts.FloorQuality,
	}
}

func encode(ctx context.Context, enc core.LossyEncoder, buf *core.PixelBuffer, quality int) ([]byte, error) {
	data, err := enc.Encode(ctx, buf, quality)
	if err != nil {
		if apperrors.IsCategory(err, apperrors.CategoryEncode) {
			return nil, err
		}
		return nil, apperrors.Wrap(apperrors.CategoryEncode, fmt.Sprintf("compress.q%d", quality), err)
	}
	return data, nil
}
