package core

import (
	"context"
	"io"
	"time"
)

// Decoder converts an encoded image stream into a PixelBuffer.
// Implementations live in adapters/decoder/ and adapters/vips/.
type Decoder interface {
	// Decode reads from r and returns the flattened RGB buffer.
	Decode(ctx context.Context, r io.Reader) (*PixelBuffer, error)
	// CanDecode reports whether this decoder handles the given format hint.
	CanDecode(format Format) bool
}

// LossyEncoder serialises a PixelBuffer at a quality in [1, 100]. Higher
// quality generally means larger output.
type LossyEncoder interface {
	Encode(ctx context.Context, buf *PixelBuffer, quality int) ([]byte, error)
	Format() Format
}

// StorageKey identifies where encoded bytes are written. For local storage
// Bucket is a subdirectory (or empty) and Path is the file path.
type StorageKey struct {
	Bucket string
	Path   string
}

// Persister writes encoded bytes. Implementations live in adapters/storage/.
type Persister interface {
	Put(ctx context.Context, key StorageKey, data []byte) error
}

// Fetcher opens previously stored images. Storage adapters that can read
// back implement it alongside Persister.
type Fetcher interface {
	Get(ctx context.Context, key StorageKey) (io.ReadCloser, error)
}

// MetricsCollector receives performance observations from the editor.
type MetricsCollector interface {
	RecordProcessingTime(stepName string, d time.Duration)
	RecordEncodeAttempts(n int)
	RecordThroughput(bytes int64)
	RecordError(stepName string, category string)
}

// Logger is a minimal structured logging interface.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}

// Hook is an optional observer invoked around each transform.
type Hook interface {
	BeforeStep(ctx context.Context, stepName string, buf *PixelBuffer)
	AfterStep(ctx context.Context, stepName string, buf *PixelBuffer, d time.Duration, err error)
}

// Registry maps formats to decoders and holds the lossy encoder.
type Registry interface {
	DecoderFor(format Format) (Decoder, bool)
	RegisterDecoder(format Format, d Decoder)
	Encoder() (LossyEncoder, bool)
	SetEncoder(e LossyEncoder)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// NopLogger discards everything.
var NopLogger Logger = nopLogger{}
