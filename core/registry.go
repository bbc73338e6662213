package core

import "sync"

// ── Registry ──────────────────────────────────────────────────────────────────

// DefaultRegistry is a thread-safe implementation of Registry.
type DefaultRegistry struct {
	mu       sync.RWMutex
	decoders map[Format]Decoder
	encoder  LossyEncoder
}

// NewRegistry returns an empty DefaultRegistry.
func NewRegistry() *DefaultRegistry {
	return &DefaultRegistry{
		decoders: make(map[Format]Decoder),
	}
}

func (r *DefaultRegistry) RegisterDecoder(f Format, d Decoder) {
	r.mu.Lock()
	r.decoders[f] = d
	r.mu.Unlock()
}

func (r *DefaultRegistry) SetEncoder(e LossyEncoder) {
	r.mu.Lock()
	r.encoder = e
	r.mu.Unlock()
}

// DecoderFor returns the decoder registered for f, falling back to one
// registered under FormatUnknown (a sniffing decoder) when f has none.
func (r *DefaultRegistry) DecoderFor(f Format) (Decoder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if d, ok := r.decoders[f]; ok {
		return d, true
	}
	d, ok := r.decoders[FormatUnknown]
	return d, ok
}

func (r *DefaultRegistry) Encoder() (LossyEncoder, bool) {
	r.mu.RLock()
	e := r.encoder
	r.mu.RUnlock()
	return e, e != nil
}
