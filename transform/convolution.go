package transform

import (
	"fmt"
	"math"

	"github.com/Skryldev/image-editor/core"
)

// Kernel is a square, odd-sized matrix of weights addressed by signed offset
// from its center. Kernels are immutable; Normalized returns a new one.
type Kernel struct {
	size   int
	values []float32
}

// NewKernel builds a size×size kernel from row-major values. It panics when
// size is not odd and positive or len(values) != size*size: kernels are
// fixed at compile time, so a bad one is a programming error.
func NewKernel(size int, values ...float32) Kernel {
	if size <= 0 || size%2 != 1 {
		panic(fmt.Sprintf("transform: kernel size %d must be odd and positive", size))
	}
	if len(values) != size*size {
		panic(fmt.Sprintf("transform: kernel of size %d needs %d values, got %d", size, size*size, len(values)))
	}
	v := make([]float32, len(values))
	copy(v, values)
	return Kernel{size: size, values: v}
}

// Size is the kernel's side length.
func (k Kernel) Size() int { return k.size }

// Radius is size/2, the largest offset At accepts.
func (k Kernel) Radius() int { return k.size / 2 }

// At returns the weight at offset (dx, dy) from the center.
func (k Kernel) At(dx, dy int) float32 {
	c := k.size / 2
	return k.values[(c+dy)*k.size+(c+dx)]
}

// Values returns a copy of the weights in row-major order.
func (k Kernel) Values() []float32 {
	v := make([]float32, len(k.values))
	copy(v, k.values)
	return v
}

// Sum adds every weight.
func (k Kernel) Sum() float32 {
	var s float32
	for _, v := range k.values {
		s += v
	}
	return s
}

// Normalized divides every weight by the kernel's sum. A kernel whose sum is
// indistinguishable from zero is returned unchanged (as a copy).
func (k Kernel) Normalized() Kernel {
	sum := k.Sum()
	out := NewKernel(k.size, k.values...)
	if float32(math.Abs(float64(sum))) <= epsilon32 {
		return out
	}
	for i := range out.values {
		out.values[i] /= sum
	}
	return out
}

// epsilon32 is the gap between 1 and the next float32.
const epsilon32 = float32(1.1920929e-07)

// ConvolutionFilter evaluates a kernel over every pixel of a buffer.
type ConvolutionFilter struct {
	name   string
	kernel Kernel
}

// NewConvolutionFilter pairs a name with a kernel.
func NewConvolutionFilter(name string, k Kernel) *ConvolutionFilter {
	return &ConvolutionFilter{name: name, kernel: k}
}

func (f *ConvolutionFilter) Name() string   { return f.name }
func (f *ConvolutionFilter) Kernel() Kernel { return f.kernel }

// Apply convolves src with the kernel. Neighbours that fall outside the
// buffer are clamped to the nearest edge pixel along each axis. Channels are
// accumulated in float32 and converted back with core.ColorFromFloat.
func (f *ConvolutionFilter) Apply(src *core.PixelBuffer) *core.PixelBuffer {
	w, h := src.Width, src.Height
	dst := core.NewPixelBuffer(w, h)
	k := f.kernel
	r := k.Radius()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sr, sg, sb float32
			for dy := -r; dy <= r; dy++ {
				sy := clampInt(y+dy, 0, h-1)
				for dx := -r; dx <= r; dx++ {
					sx := clampInt(x+dx, 0, w-1)
					p := src.Pixels[sy*w+sx]
					wt := k.At(dx, dy)
					sr += float32(p.R) * wt
					sg += float32(p.G) * wt
					sb += float32(p.B) * wt
				}
			}
			dst.Pixels[y*w+x] = core.ColorFromFloat(sr, sg, sb)
		}
	}
	return dst
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// The canonical 3×3 filters.
var (
	GaussianBlur = NewConvolutionFilter("gaussian_blur", NewKernel(3,
		1, 2, 1,
		2, 4, 2,
		1, 2, 1,
	).Normalized())

	BoxBlur = NewConvolutionFilter("box_blur", NewKernel(3,
		1, 1, 1,
		1, 1, 1,
		1, 1, 1,
	).Normalized())

	Sharpen = NewConvolutionFilter("sharpen", NewKernel(3,
		0, -1, 0,
		-1, 5, -1,
		0, -1, 0,
	))

	EdgeDetect = NewConvolutionFilter("edge_detect", NewKernel(3,
		-1, -1, -1,
		-1, 8, -1,
		-1, -1, -1,
	))

	Emboss = NewConvolutionFilter("emboss", NewKernel(3,
		-2, -1, 0,
		-1, 1, 1,
		0, 1, 2,
	))
)

// Filters lists the canonical filters by name.
var Filters = map[string]*ConvolutionFilter{
	GaussianBlur.Name(): GaussianBlur,
	BoxBlur.Name():      BoxBlur,
	Sharpen.Name():      Sharpen,
	EdgeDetect.Name():   EdgeDetect,
	Emboss.Name():       Emboss,
}
