package core

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"time"

	"github.com/Skryldev/image-editor/config"
	apperrors "github.com/Skryldev/image-editor/errors"
	"github.com/Skryldev/image-editor/utils"
)

// Source is an encoded image to load.  Format is an optional hint; when empty
// the format is sniffed from the leading bytes.
type Source struct {
	Reader io.Reader
	Format Format
	Name   string
}

// Step is one pure buffer-to-buffer operation.  transform.Transform
// satisfies it.
type Step interface {
	Name() string
	Apply(buf *PixelBuffer) (*PixelBuffer, error)
}

// PipelineRunner is a minimal interface over pipeline.Pipeline so that core
// does not import the pipeline package (avoiding a circular dependency).
type PipelineRunner interface {
	Run(ctx context.Context, buf *PixelBuffer) (*PixelBuffer, map[string]time.Duration, error)
}

// Processor loads, transforms, encodes and persists images.  It never starts
// goroutines; the counters are atomic so a shared Processor stays consistent.
type Processor struct {
	cfg       config.Config
	registry  Registry
	persister Persister
	hooks     []Hook
	logger    Logger
	metrics   MetricsCollector

	// Atomic counters for lightweight internal metrics.
	processedCount int64
	errorCount     int64
}

// New creates a Processor with the given config and codec registry.
func New(cfg config.Config, reg Registry) *Processor {
	return &Processor{
		cfg:      cfg,
		registry: reg,
		logger:   NopLogger,
	}
}

// SetLogger attaches a structured logger.
func (p *Processor) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger
	}
	p.logger = l
}

// SetMetrics attaches a metrics collector.
func (p *Processor) SetMetrics(m MetricsCollector) { p.metrics = m }

// SetPersister attaches the storage adapter used by Persist.
func (p *Processor) SetPersister(s Persister) { p.persister = s }

// Persister returns the attached storage adapter, or nil.
func (p *Processor) Persister() Persister { return p.persister }

// AddHook registers a step observer.
func (p *Processor) AddHook(h Hook) { p.hooks = append(p.hooks, h) }

// Hooks returns the registered observers.
func (p *Processor) Hooks() []Hook { return append([]Hook(nil), p.hooks...) }

// Registry returns the underlying registry so callers can register
// decoders/encoders after construction.
func (p *Processor) Registry() Registry { return p.registry }

// Config returns the configuration the processor was built with.
func (p *Processor) Config() config.Config { return p.cfg }

// Logger returns the attached logger.
func (p *Processor) Logger() Logger { return p.logger }

// Metrics returns the attached collector, or nil.
func (p *Processor) Metrics() MetricsCollector { return p.metrics }

// Load drains src (respecting the configured size limit), picks a decoder
// for its format and returns the decoded buffer.
func (p *Processor) Load(ctx context.Context, src Source) (*PixelBuffer, error) {
	if src.Reader == nil {
		return nil, p.fail("load", apperrors.New(apperrors.CategoryInput, "load", apperrors.ErrEmptyInput))
	}
	start := time.Now()

	var limitedR = src.Reader
	if p.cfg.Decode.MaxImageBytes > 0 {
		limitedR = &utils.LimitedReader{R: src.Reader, Max: p.cfg.Decode.MaxImageBytes}
	}

	raw, err := utils.DrainReader(ctx, limitedR, p.cfg.Decode.ChunkSize)
	if err != nil {
		if errors.Is(err, utils.ErrLimitExceeded) {
			err = apperrors.ErrImageTooLarge
		}
		return nil, p.fail("load", apperrors.Wrap(apperrors.CategoryDecode, "load.drain", err))
	}
	defer utils.ReleaseBuffer(raw)

	if raw.Len() == 0 {
		return nil, p.fail("load", apperrors.New(apperrors.CategoryDecode, "load", apperrors.ErrEmptyInput))
	}

	format := src.Format
	if format == "" {
		format = Format(utils.DetectFormat(raw.Bytes()))
	}

	dec, ok := p.registry.DecoderFor(format)
	if !ok {
		return nil, p.fail("load", apperrors.New(apperrors.CategoryDecode, "load", apperrors.ErrUnsupportedFormat))
	}

	buf, err := dec.Decode(ctx, raw)
	if err != nil {
		return nil, p.fail("load", apperrors.Ensure(apperrors.CategoryDecode, "load.decode", err))
	}

	p.logger.Info("image loaded",
		"name", src.Name,
		"format", format,
		"size", buf.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return buf, nil
}

// Apply runs a single step on buf, notifying hooks around it.  buf is
// never modified.
func (p *Processor) Apply(ctx context.Context, buf *PixelBuffer, step Step) (*PixelBuffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, p.fail(step.Name(), apperrors.Wrap(apperrors.CategoryPipeline, step.Name(), err))
	}
	if buf == nil {
		return nil, p.fail(step.Name(), apperrors.New(apperrors.CategoryInput, step.Name(), apperrors.ErrEmptyInput))
	}

	p.notifyBefore(ctx, step.Name(), buf)
	t := time.Now()
	out, err := step.Apply(buf)
	elapsed := time.Since(t)
	p.notifyAfter(ctx, step.Name(), out, elapsed, err)
	if err != nil {
		return nil, p.fail(step.Name(), err)
	}

	atomic.AddInt64(&p.processedCount, 1)
	return out, nil
}

// Run executes a pipeline on buf and logs the per-step timings.
func (p *Processor) Run(ctx context.Context, buf *PixelBuffer, r PipelineRunner) (*PixelBuffer, error) {
	start := time.Now()
	out, timings, err := r.Run(ctx, buf)
	if err != nil {
		atomic.AddInt64(&p.errorCount, 1)
		return nil, err
	}
	atomic.AddInt64(&p.processedCount, 1)
	p.logger.Debug("pipeline.done",
		"steps", len(timings),
		"output", out.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// Encoder returns the registered lossy encoder.
func (p *Processor) Encoder() (LossyEncoder, error) {
	enc, ok := p.registry.Encoder()
	if !ok {
		return nil, apperrors.New(apperrors.CategoryEncode, "encoder", apperrors.ErrNoEncoder)
	}
	return enc, nil
}

// Encode serialises buf at a fixed quality.
func (p *Processor) Encode(ctx context.Context, buf *PixelBuffer, quality int) ([]byte, error) {
	enc, err := p.Encoder()
	if err != nil {
		return nil, p.fail("encode", err)
	}
	t := time.Now()
	data, err := enc.Encode(ctx, buf, quality)
	if err != nil {
		return nil, p.fail("encode", apperrors.Ensure(apperrors.CategoryEncode, "encode", err))
	}
	if p.metrics != nil {
		p.metrics.RecordProcessingTime("encode", time.Since(t))
		p.metrics.RecordThroughput(int64(len(data)))
	}
	return data, nil
}

// Persist writes encoded bytes through the attached storage adapter.
// Failures are reported in the storage category, distinct from encode errors.
func (p *Processor) Persist(ctx context.Context, key StorageKey, data []byte) error {
	if p.persister == nil {
		return p.fail("persist", apperrors.New(apperrors.CategoryStorage, "persist",
			errors.New("no storage adapter configured")))
	}
	if err := p.persister.Put(ctx, key, data); err != nil {
		return p.fail("persist", apperrors.Ensure(apperrors.CategoryStorage, "persist", err))
	}
	p.logger.Info("image saved", "path", key.Path, "bytes", len(data))
	return nil
}

// fail counts and reports an error, then returns it unchanged.
func (p *Processor) fail(op string, err error) error {
	atomic.AddInt64(&p.errorCount, 1)
	if p.metrics != nil {
		var pe *apperrors.ProcessingError
		cat := string(apperrors.CategoryPipeline)
		if errors.As(err, &pe) {
			cat = string(pe.Category)
		}
		p.metrics.RecordError(op, cat)
	}
	p.logger.Debug("operation failed", "op", op, "error", err)
	return err
}

func (p *Processor) notifyBefore(ctx context.Context, name string, buf *PixelBuffer) {
	for _, h := range p.hooks {
		h.BeforeStep(ctx, name, buf)
	}
}

func (p *Processor) notifyAfter(ctx context.Context, name string, buf *PixelBuffer, d time.Duration, err error) {
	for _, h := range p.hooks {
		h.AfterStep(ctx, name, buf, d, err)
	}
}

// ProcessedCount returns the number of successful steps and pipeline runs.
func (p *Processor) ProcessedCount() int64 { return atomic.LoadInt64(&p.processedCount) }

// ErrorCount returns the total number of failed operations.
func (p *Processor) ErrorCount() int64 { return atomic.LoadInt64(&p.errorCount) }
