package transform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/image-editor/core"
	"github.com/Skryldev/image-editor/transform"
)

func TestKernelSums(t *testing.T) {
	tests := []struct {
		filter *transform.ConvolutionFilter
		want   float32
	}{
		{transform.GaussianBlur, 1},
		{transform.BoxBlur, 1},
		{transform.Sharpen, 1},
		{transform.EdgeDetect, 0},
		{transform.Emboss, 1},
	}
	for _, tc := range tests {
		t.Run(tc.filter.Name(), func(t *testing.T) {
			assert.InDelta(t, tc.want, tc.filter.Kernel().Sum(), 1e-6)
			assert.Equal(t, 3, tc.filter.Kernel().Size())
		})
	}
}

func TestKernelNormalized(t *testing.T) {
	k := transform.NewKernel(3, 1, 2, 1, 2, 4, 2, 1, 2, 1)
	n := k.Normalized()

	assert.InDelta(t, 4.0/16, n.At(0, 0), 1e-7)
	assert.InDelta(t, 1.0/16, n.At(-1, -1), 1e-7)
	assert.InDelta(t, 2.0/16, n.At(1, 0), 1e-7)
	// The source kernel is untouched.
	assert.Equal(t, float32(4), k.At(0, 0))

	zero := transform.NewKernel(3, -1, -1, -1, -1, 8, -1, -1, -1, -1)
	assert.Equal(t, zero.Values(), zero.Normalized().Values())
}

func TestKernelAddressing(t *testing.T) {
	k := transform.NewKernel(3, -2, -1, 0, -1, 1, 1, 0, 1, 2)
	assert.Equal(t, float32(-2), k.At(-1, -1))
	assert.Equal(t, float32(0), k.At(1, -1))
	assert.Equal(t, float32(2), k.At(1, 1))
	assert.Equal(t, 1, k.Radius())
}

func TestNewKernelPanicsOnBadShape(t *testing.T) {
	assert.Panics(t, func() { transform.NewKernel(2, 1, 1, 1, 1) })
	assert.Panics(t, func() { transform.NewKernel(3, 1, 1, 1) })
	assert.Panics(t, func() { transform.NewKernel(0) })
}

func TestConvolveSinglePixel(t *testing.T) {
	p := core.RGB(90, 150, 210)
	src := core.Filled(1, 1, p)

	sharp := mustApply(t, transform.Convolve(transform.Sharpen), src)
	require.Equal(t, 1, sharp.Width)
	require.Equal(t, 1, sharp.Height)
	assert.Equal(t, p, sharp.Pixels[0])

	edge := mustApply(t, transform.Convolve(transform.EdgeDetect), src)
	assert.Equal(t, core.RGB(0, 0, 0), edge.Pixels[0])

	// Emboss weights sum to 1, so a fully clamped window returns the pixel.
	emb := mustApply(t, transform.Convolve(transform.Emboss), src)
	assert.Equal(t, p, emb.Pixels[0])
}

func TestBlurOnUniformBufferStaysNearUniform(t *testing.T) {
	src := core.Filled(5, 4, core.RGB(200, 100, 50))
	for _, f := range []*transform.ConvolutionFilter{transform.GaussianBlur, transform.BoxBlur} {
		out := mustApply(t, transform.Convolve(f), src)
		require.Equal(t, src.Width, out.Width)
		require.Equal(t, src.Height, out.Height)
		for _, px := range out.Pixels {
			// Float accumulation may land a hair under the true value.
			assert.InDelta(t, 200, int(px.R), 1, f.Name())
			assert.InDelta(t, 100, int(px.G), 1, f.Name())
			assert.InDelta(t, 50, int(px.B), 1, f.Name())
		}
	}
}

func TestEdgeDetectClampsBorders(t *testing.T) {
	// A single bright pixel in the middle of a dark 3×3 field.
	src := core.Filled(3, 3, core.RGB(0, 0, 0))
	src.Pixels[4] = core.RGB(10, 10, 10)

	out := mustApply(t, transform.Convolve(transform.EdgeDetect), src)
	assert.Equal(t, core.RGB(80, 80, 80), out.At(1, 1))
	// Neighbours see one -1 weight on the bright pixel and clamp to 0.
	assert.Equal(t, core.RGB(0, 0, 0), out.At(0, 0))
	assert.Equal(t, core.RGB(0, 0, 0), out.At(2, 1))
}

func TestSharpenUsesEdgePixelsOutsideBounds(t *testing.T) {
	// Left column 100, right column 0. At (0,0) the clamped left neighbour is
	// the pixel itself, so only the right neighbour pulls the value up.
	src := core.NewPixelBufferFrom(2, 1, []core.Color{core.RGB(100, 100, 100), core.RGB(0, 0, 0)})
	out := mustApply(t, transform.Convolve(transform.Sharpen), src)
	// 5*100 - 100(left, clamped) - 0(right) - 100(up) - 100(down) = 200
	assert.Equal(t, core.RGB(200, 200, 200), out.At(0, 0))
	// 5*0 - 100(left) - 0 - 0 - 0 = -100 -> 0
	assert.Equal(t, core.RGB(0, 0, 0), out.At(1, 0))
}

func TestCustomFilter(t *testing.T) {
	identity := transform.NewConvolutionFilter("identity", transform.NewKernel(5,
		0, 0, 0, 0, 0,
		0, 0, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 0, 0,
		0, 0, 0, 0, 0,
	))
	src := randomBuffer(t, 6, 6, 11)
	out := mustApply(t, transform.Convolve(identity), src)
	assert.True(t, out.Equal(src))
	assert.Equal(t, "identity", transform.Convolve(identity).Name())
}

func BenchmarkGaussianBlur_640x480(b *testing.B) {
	src := randomBuffer(b, 640, 480, 1)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		transform.GaussianBlur.Apply(src)
	}
}
