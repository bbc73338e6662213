// Package hooks provides Hook, Logger and MetricsCollector implementations.
package hooks

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Skryldev/image-editor/core"
)

// ── Structured logger adapter ─────────────────────────────────────────────────

// SlogLogger wraps the standard library slog.Logger to satisfy core.Logger.
type SlogLogger struct {
	log *slog.Logger
}

// NewSlogLogger creates a logger backed by slog.
func NewSlogLogger(l *slog.Logger) *SlogLogger { return &SlogLogger{log: l} }

func (s *SlogLogger) Debug(msg string, fields ...interface{}) { s.log.Debug(msg, fields...) }
func (s *SlogLogger) Info(msg string, fields ...interface{})  { s.log.Info(msg, fields...) }
func (s *SlogLogger) Warn(msg string, fields ...interface{})  { s.log.Warn(msg, fields...) }
func (s *SlogLogger) Error(msg string, fields ...interface{}) { s.log.Error(msg, fields...) }

// ParseLevel maps a config level name to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// ── Logging hook ──────────────────────────────────────────────────────────────

// LoggingHook logs before/after each transform.
type LoggingHook struct {
	logger core.Logger
}

// NewLoggingHook creates a LoggingHook.
func NewLoggingHook(l core.Logger) *LoggingHook { return &LoggingHook{logger: l} }

func (h *LoggingHook) BeforeStep(_ context.Context, stepName string, buf *core.PixelBuffer) {
	h.logger.Debug("pipeline.step.start",
		"step", stepName,
		"width", buf.Width,
		"height", buf.Height,
	)
}

func (h *LoggingHook) AfterStep(_ context.Context, stepName string, buf *core.PixelBuffer, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("pipeline.step.error",
			"step", stepName,
			"duration_ms", d.Milliseconds(),
			"error", err.Error(),
		)
		return
	}
	h.logger.Debug("pipeline.step.done",
		"step", stepName,
		"duration_ms", d.Milliseconds(),
		"output", buf.String(),
	)
}

// ── In-memory metrics collector ───────────────────────────────────────────────

// InMemoryMetrics accumulates metrics; safe for concurrent use.
type InMemoryMetrics struct {
	mu sync.RWMutex

	stepDurations map[string]time.Duration // cumulative per step
	stepCalls     map[string]int64
	stepErrors    map[string]int64

	totalThroughputB int64
	encodeAttempts   int64
	encodeSearches   int64
}

// NewInMemoryMetrics creates an empty metrics store.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		stepDurations: make(map[string]time.Duration),
		stepCalls:     make(map[string]int64),
		stepErrors:    make(map[string]int64),
	}
}

func (m *InMemoryMetrics) RecordProcessingTime(stepName string, d time.Duration) {
	m.mu.Lock()
	m.stepDurations[stepName] += d
	m.stepCalls[stepName]++
	m.mu.Unlock()
}

// RecordEncodeAttempts records one budgeted search that called the encoder n times.
func (m *InMemoryMetrics) RecordEncodeAttempts(n int) {
	atomic.AddInt64(&m.encodeAttempts, int64(n))
	atomic.AddInt64(&m.encodeSearches, 1)
}

func (m *InMemoryMetrics) RecordThroughput(bytes int64) {
	atomic.AddInt64(&m.totalThroughputB, bytes)
}

func (m *InMemoryMetrics) RecordError(stepName string, _ string) {
	m.mu.Lock()
	m.stepErrors[stepName]++
	m.mu.Unlock()
}

// Snapshot returns a copy of current metrics.
func (m *InMemoryMetrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := MetricsSnapshot{
		StepDurations:    make(map[string]time.Duration, len(m.stepDurations)),
		StepCalls:        make(map[string]int64, len(m.stepCalls)),
		StepErrors:       make(map[string]int64, len(m.stepErrors)),
		TotalThroughputB: atomic.LoadInt64(&m.totalThroughputB),
		EncodeAttempts:   atomic.LoadInt64(&m.encodeAttempts),
		EncodeSearches:   atomic.LoadInt64(&m.encodeSearches),
	}
	for k, v := range m.stepDurations {
		snap.StepDurations[k] = v
	}
	for k, v := range m.stepCalls {
		snap.StepCalls[k] = v
	}
	for k, v := range m.stepErrors {
		snap.StepErrors[k] = v
	}
	return snap
}

// MetricsSnapshot is an immutable point-in-time copy of metrics.
type MetricsSnapshot struct {
	StepDurations    map[string]time.Duration
	StepCalls        map[string]int64
	StepErrors       map[string]int64
	TotalThroughputB int64
	EncodeAttempts   int64
	EncodeSearches   int64
}

// ── Metrics hook ──────────────────────────────────────────────────────────────

// MetricsHook feeds pipeline events into a MetricsCollector.
type MetricsHook struct {
	collector core.MetricsCollector
}

// NewMetricsHook creates a MetricsHook.
func NewMetricsHook(c core.MetricsCollector) *MetricsHook { return &MetricsHook{collector: c} }

func (h *MetricsHook) BeforeStep(_ context.Context, _ string, _ *core.PixelBuffer) {}

func (h *MetricsHook) AfterStep(_ context.Context, stepName string, buf *core.PixelBuffer, d time.Duration, err error) {
	h.collector.RecordProcessingTime(stepName, d)
	if err != nil {
		h.collector.RecordError(stepName, "pipeline")
		return
	}
	if buf != nil {
		h.collector.RecordThroughput(int64(len(buf.Pixels)) * 3)
	}
}
