// Package pipeline runs an ordered list of steps over a pixel buffer with
// hook notifications and per-step timings.
package pipeline

import (
	"context"
	"time"

	"github.com/Skryldev/image-editor/core"
	apperrors "github.com/Skryldev/image-editor/errors"
)

// Pipeline executes a sequence of Steps.  Each step receives the previous
// step's output; the input buffer is never modified.
type Pipeline struct {
	steps []core.Step
	hooks []core.Hook
}

// New returns an empty Pipeline.
func New() *Pipeline { return &Pipeline{} }

// Use appends steps to the pipeline.  Returns the same Pipeline for chaining.
func (p *Pipeline) Use(s ...core.Step) *Pipeline {
	p.steps = append(p.steps, s...)
	return p
}

// AddHook registers observers.
func (p *Pipeline) AddHook(h ...core.Hook) *Pipeline {
	p.hooks = append(p.hooks, h...)
	return p
}

// Len returns the number of steps.
func (p *Pipeline) Len() int { return len(p.steps) }

// Names returns the step names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name()
	}
	return names
}

// Run executes the pipeline on buf.  It returns the final buffer and the
// cumulative time spent per step name.  An empty pipeline returns buf.
func (p *Pipeline) Run(ctx context.Context, buf *core.PixelBuffer) (*core.PixelBuffer, map[string]time.Duration, error) {
	if buf == nil {
		return nil, nil, apperrors.New(apperrors.CategoryPipeline, "pipeline", apperrors.ErrEmptyInput)
	}
	timings := make(map[string]time.Duration, len(p.steps))
	current := buf

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return nil, timings, apperrors.Wrap(apperrors.CategoryPipeline, step.Name(), err)
		}

		result, elapsed, err := p.runStep(ctx, step, current)
		timings[step.Name()] += elapsed
		if err != nil {
			return nil, timings, err
		}
		current = result
	}
	return current, timings, nil
}

func (p *Pipeline) runStep(ctx context.Context, step core.Step, buf *core.PixelBuffer) (*core.PixelBuffer, time.Duration, error) {
	p.callHooksBefore(ctx, step.Name(), buf)
	start := time.Now()
	result, err := step.Apply(buf)
	elapsed := time.Since(start)
	p.callHooksAfter(ctx, step.Name(), result, elapsed, err)
	return result, elapsed, err
}

func (p *Pipeline) callHooksBefore(ctx context.Context, name string, buf *core.PixelBuffer) {
	for _, h := range p.hooks {
		h.BeforeStep(ctx, name, buf)
	}
}

func (p *Pipeline) callHooksAfter(ctx context.Context, name string, buf *core.PixelBuffer, d time.Duration, err error) {
	for _, h := range p.hooks {
		h.AfterStep(ctx, name, buf, d, err)
	}
}

// Clone returns a shallow copy of the pipeline so a template can be extended
// without affecting the original.
func (p *Pipeline) Clone() *Pipeline {
	cp := &Pipeline{
		steps: make([]core.Step, len(p.steps)),
		hooks: make([]core.Hook, len(p.hooks)),
	}
	copy(cp.steps, p.steps)
	copy(cp.hooks, p.hooks)
	return cp
}
