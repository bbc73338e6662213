// Package imageeditor loads raster images into flat RGB buffers, applies
// pure transforms to them and encodes the result as JPEG, optionally
// searching for the highest quality that fits a byte budget.
package imageeditor

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/Skryldev/image-editor/adapters/decoder"
	"github.com/Skryldev/image-editor/adapters/encoder"
	"github.com/Skryldev/image-editor/adapters/storage"
	"github.com/Skryldev/image-editor/compress"
	"github.com/Skryldev/image-editor/config"
	"github.com/Skryldev/image-editor/core"
	apperrors "github.com/Skryldev/image-editor/errors"
	"github.com/Skryldev/image-editor/hooks"
	"github.com/Skryldev/image-editor/pipeline"
	"github.com/Skryldev/image-editor/transform"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() config.Config { return config.Default() }

// Option customises an Editor during New.
type Option func(*options)

type options struct {
	logger    core.Logger
	hooks     []core.Hook
	persister core.Persister
	encoder   core.LossyEncoder
	codecs    []func(core.Registry)
	s3        storage.S3Client
}

// WithLogger attaches a structured logger and a step-logging hook.
func WithLogger(l core.Logger) Option { return func(o *options) { o.logger = l } }

// WithHook registers an additional step observer.
func WithHook(h core.Hook) Option { return func(o *options) { o.hooks = append(o.hooks, h) } }

// WithPersister overrides the storage adapter selected by the config.
func WithPersister(p core.Persister) Option { return func(o *options) { o.persister = p } }

// WithEncoder overrides the lossy encoder selected by the config.
func WithEncoder(e core.LossyEncoder) Option { return func(o *options) { o.encoder = e } }

// WithCodecs runs register against the registry after the built-in codecs
// are installed, letting an alternative backend replace them.
func WithCodecs(register func(core.Registry)) Option {
	return func(o *options) { o.codecs = append(o.codecs, register) }
}

// WithS3Client supplies the object-store client used when storage is "s3".
func WithS3Client(c storage.S3Client) Option { return func(o *options) { o.s3 = c } }

// Editor is the primary entry point.
type Editor struct {
	inner   *core.Processor
	reg     *core.DefaultRegistry
	metrics *hooks.InMemoryMetrics
	search  compress.Options
	quality int
}

// New creates a fully wired Editor: built-in decoders, the JPEG encoder, the
// configured storage adapter and in-memory metrics.
func New(cfg config.Config, opts ...Option) (*Editor, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, apperrors.New(apperrors.CategoryConfig, "new", err)
	}
	var o options
	for _, fn := range opts {
		fn(&o)
	}

	e := &Editor{
		reg:     core.NewRegistry(),
		metrics: hooks.NewInMemoryMetrics(),
		quality: cfg.Compression.DefaultQuality,
		search: compress.Options{
			MinQuality:   cfg.Compression.MinQuality,
			MaxQuality:   cfg.Compression.MaxQuality,
			FloorQuality: cfg.Compression.FloorQuality,
			GoodEnough:   cfg.Compression.GoodEnough,
		},
	}

	decoder.RegisterAll(e.reg, decoder.Limits{MaxPixels: cfg.Decode.MaxPixels})
	e.reg.SetEncoder(encoder.NewJPEG())
	for _, register := range o.codecs {
		register(e.reg)
	}
	if o.encoder != nil {
		e.reg.SetEncoder(o.encoder)
	}

	persister := o.persister
	if persister == nil {
		p, err := newPersister(cfg, o.s3)
		if err != nil {
			return nil, apperrors.New(apperrors.CategoryConfig, "new", err)
		}
		persister = p
	}

	e.inner = core.New(cfg, e.reg)
	e.inner.SetPersister(persister)
	e.inner.SetMetrics(e.metrics)
	e.inner.AddHook(hooks.NewMetricsHook(e.metrics))
	if o.logger != nil {
		e.inner.SetLogger(o.logger)
		e.inner.AddHook(hooks.NewLoggingHook(o.logger))
	}
	for _, h := range o.hooks {
		e.inner.AddHook(h)
	}
	return e, nil
}

func newPersister(cfg config.Config, client storage.S3Client) (core.Persister, error) {
	switch cfg.Storage {
	case config.StorageS3:
		return storage.NewS3(client, cfg.S3.Bucket)
	default:
		return storage.NewLocal(cfg.Local.RootDir, os.FileMode(cfg.Local.Permissions))
	}
}

// Inner exposes the underlying core.Processor for advanced use.
func (e *Editor) Inner() *core.Processor { return e.inner }

// RegisterDecoder registers a custom decoder for the given format.
func (e *Editor) RegisterDecoder(f core.Format, d core.Decoder) { e.reg.RegisterDecoder(f, d) }

// ── Loading ───────────────────────────────────────────────────────────────────

// Load decodes an image from r, sniffing its format.
func (e *Editor) Load(ctx context.Context, r io.Reader) (*core.PixelBuffer, error) {
	return e.inner.Load(ctx, core.Source{Reader: r})
}

// Open loads the image stored at path.  The storage adapter is used when it
// can read back; otherwise path is opened from the local filesystem.
func (e *Editor) Open(ctx context.Context, path string) (*core.PixelBuffer, error) {
	rc, err := e.open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return e.inner.Load(ctx, core.Source{Reader: rc, Name: path})
}

func (e *Editor) open(ctx context.Context, path string) (io.ReadCloser, error) {
	if path == "" {
		return nil, apperrors.New(apperrors.CategoryInput, "open", apperrors.ErrInvalidArgument)
	}
	if f, ok := e.persister().(core.Fetcher); ok {
		return f.Get(ctx, core.StorageKey{Path: path})
	}
	fd, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "open", err)
	}
	return fd, nil
}

func (e *Editor) persister() core.Persister { return e.inner.Persister() }

// ── Transforms ────────────────────────────────────────────────────────────────

// Apply runs one transform on buf and returns the new buffer.
func (e *Editor) Apply(ctx context.Context, buf *core.PixelBuffer, t transform.Transform) (*core.PixelBuffer, error) {
	return e.inner.Apply(ctx, buf, t)
}

// Run applies transforms in order, stopping at the first failure.
func (e *Editor) Run(ctx context.Context, buf *core.PixelBuffer, ts ...transform.Transform) (*core.PixelBuffer, error) {
	return e.inner.Run(ctx, buf, e.NewPipeline(ts...))
}

// NewPipeline creates a reusable pipeline that reports to the editor's hooks.
func (e *Editor) NewPipeline(ts ...transform.Transform) *pipeline.Pipeline {
	pl := pipeline.New().AddHook(e.inner.Hooks()...)
	for _, t := range ts {
		pl.Use(t)
	}
	return pl
}

// ── Encoding and saving ───────────────────────────────────────────────────────

// Encode serialises buf at quality; a non-positive quality uses the
// configured default.
func (e *Editor) Encode(ctx context.Context, buf *core.PixelBuffer, quality int) ([]byte, error) {
	if quality <= 0 {
		quality = e.quality
	}
	return e.inner.Encode(ctx, buf, quality)
}

// EncodeWithBudget returns the highest-quality encoding of buf that is at
// most maxBytes long.  When even the floor quality is too large the error
// is a *errors.TargetTooSmallError.
func (e *Editor) EncodeWithBudget(ctx context.Context, buf *core.PixelBuffer, maxBytes int) (compress.Result, error) {
	enc, err := e.inner.Encoder()
	if err != nil {
		return compress.Result{}, err
	}
	res, err := compress.Search(ctx, enc, buf, maxBytes, e.search)
	if err != nil {
		if !errors.Is(err, apperrors.ErrTargetTooSmall) {
			e.metrics.RecordError("compress", "encode")
		}
		return compress.Result{}, err
	}
	e.metrics.RecordEncodeAttempts(res.Attempts)
	e.metrics.RecordThroughput(int64(res.Size()))
	e.inner.Logger().Info("budget encode",
		"quality", res.Quality,
		"bytes", res.Size(),
		"budget", maxBytes,
		"attempts", res.Attempts,
	)
	return res, nil
}

// Save encodes buf at the default quality and writes it to path.
func (e *Editor) Save(ctx context.Context, buf *core.PixelBuffer, path string) (int, error) {
	data, err := e.Encode(ctx, buf, 0)
	if err != nil {
		return 0, err
	}
	if err := e.inner.Persist(ctx, core.StorageKey{Path: path}, data); err != nil {
		return 0, err
	}
	return len(data), nil
}

// SaveWithBudget encodes buf within maxBytes and writes it to path.
// Encoding failures keep the encode category; write failures are reported
// in the storage category.
func (e *Editor) SaveWithBudget(ctx context.Context, buf *core.PixelBuffer, path string, maxBytes int) (compress.Result, error) {
	res, err := e.EncodeWithBudget(ctx, buf, maxBytes)
	if err != nil {
		return compress.Result{}, err
	}
	if err := e.inner.Persist(ctx, core.StorageKey{Path: path}, res.Data); err != nil {
		return compress.Result{}, err
	}
	return res, nil
}

// ── Stats ─────────────────────────────────────────────────────────────────────

// Stats returns lightweight processing statistics.
func (e *Editor) Stats() (processed, failed int64) {
	return e.inner.ProcessedCount(), e.inner.ErrorCount()
}

// Metrics returns a snapshot of the in-memory metrics.
func (e *Editor) Metrics() hooks.MetricsSnapshot { return e.metrics.Snapshot() }
