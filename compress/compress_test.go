package compress_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/image-editor/compress"
	"github.com/Skryldev/image-editor/core"
	apperrors "github.com/Skryldev/image-editor/errors"
)

// sizeEncoder produces size(quality) bytes and records every quality asked for.
type sizeEncoder struct {
	size  func(q int) int
	err   error
	calls []int
}

func (e *sizeEncoder) Format() core.Format { return core.FormatJPEG }

func (e *sizeEncoder) Encode(_ context.Context, _ *core.PixelBuffer, q int) ([]byte, error) {
	e.calls = append(e.calls, q)
	if e.err != nil {
		return nil, e.err
	}
	return make([]byte, e.size(q)), nil
}

func linear(q int) int { return q * 100 }

func search(t *testing.T, enc core.LossyEncoder, budget int) (compress.Result, error) {
	t.Helper()
	return compress.Search(context.Background(), enc, core.Filled(2, 2, core.RGB(1, 2, 3)), budget, compress.Options{})
}

func TestSearch_GenerousBudgetReachesTop(t *testing.T) {
	enc := &sizeEncoder{size: linear}
	res, err := search(t, enc, 20000)
	require.NoError(t, err)
	assert.Equal(t, 100, res.Quality)
	assert.Equal(t, 10000, res.Size())
	assert.Equal(t, []int{50, 75, 88, 94, 97, 99, 100}, enc.calls)
	assert.Equal(t, 7, res.Attempts)
}

func TestSearch_BudgetAtTopSizeStopsWithinOnePercent(t *testing.T) {
	enc := &sizeEncoder{size: linear}
	res, err := search(t, enc, 10000)
	require.NoError(t, err)
	if res.Quality != 100 {
		assert.GreaterOrEqual(t, float64(res.Size()), 0.99*10000)
	}
	assert.LessOrEqual(t, res.Size(), 10000)
}

func TestSearch_EarlyExit(t *testing.T) {
	enc := &sizeEncoder{size: linear}
	res, err := search(t, enc, 5000)
	require.NoError(t, err)
	assert.Equal(t, 50, res.Quality)
	assert.Equal(t, []int{50}, enc.calls, "size 5000 hits the budget exactly")
}

func TestSearch_FindsHighestFittingQuality(t *testing.T) {
	enc := &sizeEncoder{size: linear}
	res, err := search(t, enc, 3333)
	require.NoError(t, err)
	assert.Equal(t, 33, res.Quality)
	assert.LessOrEqual(t, len(enc.calls), 7)
	for _, q := range enc.calls {
		assert.True(t, q >= 1 && q <= 100)
	}
}

func TestSearch_TargetTooSmall(t *testing.T) {
	enc := &sizeEncoder{size: func(q int) int { return 1000 + q*10 }}
	_, err := search(t, enc, 500)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrTargetTooSmall)

	var tts *apperrors.TargetTooSmallError
	require.True(t, errors.As(err, &tts))
	assert.Equal(t, 500, tts.TargetBytes)
	assert.Equal(t, 1100, tts.MinBytes, "minimum is measured at quality 10")
	assert.Equal(t, 10, tts.FloorQuality)
	assert.Equal(t, 600, tts.Shortfall())
	assert.Equal(t, 10, enc.calls[len(enc.calls)-1])
	assert.Contains(t, tts.Error(), "quality 10")
}

func TestSearch_EncoderFailure(t *testing.T) {
	enc := &sizeEncoder{err: errors.New("codec exploded")}
	_, err := search(t, enc, 1000)
	require.Error(t, err)
	assert.True(t, apperrors.IsCategory(err, apperrors.CategoryEncode))
	assert.NotErrorIs(t, err, apperrors.ErrTargetTooSmall)
}

func TestSearch_NonMonotonicEncoderStillFitsBudget(t *testing.T) {
	// Size dips at quality 80, above a band that overshoots.
	enc := &sizeEncoder{size: func(q int) int {
		if q > 60 && q != 80 {
			return 9000
		}
		return q * 50
	}}
	res, err := search(t, enc, 4100)
	require.NoError(t, err)
	assert.LessOrEqual(t, res.Size(), 4100)
}

func TestSearch_InvalidArguments(t *testing.T) {
	enc := &sizeEncoder{size: linear}
	_, err := search(t, enc, -1)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	assert.Empty(t, enc.calls)

	_, err = compress.Search(context.Background(), nil, core.Filled(1, 1, core.Color{}), 10, compress.Options{})
	assert.ErrorIs(t, err, apperrors.ErrNoEncoder)

	_, err = compress.Search(context.Background(), enc, nil, 10, compress.Options{})
	assert.ErrorIs(t, err, apperrors.ErrEmptyInput)
}

func TestSearch_ZeroBudgetReportsFloorSize(t *testing.T) {
	enc := &sizeEncoder{size: linear}
	_, err := search(t, enc, 0)
	require.Error(t, err)

	var tts *apperrors.TargetTooSmallError
	require.True(t, errors.As(err, &tts))
	assert.Equal(t, 0, tts.TargetBytes)
	assert.Equal(t, 1000, tts.MinBytes)
	assert.Equal(t, 10, tts.FloorQuality)
	assert.False(t, errors.Is(err, apperrors.ErrInvalidArgument))
}

func TestSearch_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	enc := &sizeEncoder{size: linear}
	_, err := compress.Search(ctx, enc, core.Filled(1, 1, core.Color{}), 1000, compress.Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, enc.calls)
}

func TestSearch_CustomRange(t *testing.T) {
	enc := &sizeEncoder{size: linear}
	res, err := compress.Search(context.Background(), enc, core.Filled(1, 1, core.Color{}), 100000,
		compress.Options{MinQuality: 20, MaxQuality: 80})
	require.NoError(t, err)
	assert.Equal(t, 80, res.Quality)
}
