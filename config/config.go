package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
)

// StorageBackend selects the storage adapter.
type StorageBackend string

const (
	StorageLocal StorageBackend = "local"
	StorageS3    StorageBackend = "s3"
)

// CodecBackend selects the decode/encode implementation.
type CodecBackend string

const (
	BackendStdlib CodecBackend = "stdlib"
	BackendVips   CodecBackend = "vips"
)

// Config is the top-level configuration struct.  All fields have safe defaults
// so callers can start with Default() and override only what they need.
type Config struct {
	Compression CompressionConfig `toml:"compression"`
	Decode      DecodeConfig      `toml:"decode"`

	// Storage.
	Storage StorageBackend `toml:"storage"`
	Local   LocalConfig    `toml:"local"`
	S3      S3Config       `toml:"s3"`

	Backend CodecBackend `toml:"backend"`

	// Logging.
	LogLevel string `toml:"log_level"` // "debug", "info", "warn", "error"
}

// CompressionConfig controls the size-targeted quality search.
type CompressionConfig struct {
	MinQuality     int     `toml:"min_quality"`     // default 1
	MaxQuality     int     `toml:"max_quality"`     // default 100
	FloorQuality   int     `toml:"floor_quality"`   // fallback when nothing fits; default 10
	GoodEnough     float64 `toml:"good_enough"`     // early exit ratio; default 0.99
	DefaultQuality int     `toml:"default_quality"` // plain saves; default 90
}

// DecodeConfig bounds what the editor is willing to load.
type DecodeConfig struct {
	MaxImageBytes int64 `toml:"max_image_bytes"` // 0 = no limit
	MaxPixels     int   `toml:"max_pixels"`      // 0 = no limit
	ChunkSize     int   `toml:"chunk_size"`      // read chunk in bytes; default 32 KiB
}

// LocalConfig configures the local filesystem storage adapter.
type LocalConfig struct {
	RootDir     string `toml:"root_dir"`
	Permissions uint32 `toml:"permissions"` // default 0644
}

// S3Config configures the S3 storage adapter.
type S3Config struct {
	Bucket   string `toml:"bucket"`
	Region   string `toml:"region"`
	Endpoint string `toml:"endpoint"` // optional custom endpoint (MinIO, etc.)
}

// Default returns a Config populated with sensible defaults.
func Default() Config {
	return Config{
		Compression: CompressionConfig{
			MinQuality:     1,
			MaxQuality:     100,
			FloorQuality:   10,
			GoodEnough:     0.99,
			DefaultQuality: 90,
		},
		Decode: DecodeConfig{
			MaxImageBytes: 64 << 20,
			MaxPixels:     64 << 20,
			ChunkSize:     32 * 1024,
		},
		Storage:  StorageLocal,
		Local:    LocalConfig{Permissions: 0o644},
		Backend:  BackendStdlib,
		LogLevel: "info",
	}
}

// Load reads a TOML file over Default().  An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	fd, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer fd.Close()

	dec := toml.NewDecoder(fd)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, Validate(cfg)
}

func validQuality(q int) bool { return q >= 1 && q <= 100 }

// Validate returns an error if the configuration is inconsistent.
func Validate(c Config) error {
	cc := c.Compression
	if !validQuality(cc.MinQuality) || !validQuality(cc.MaxQuality) {
		return errors.New("config: compression quality bounds must be between 1 and 100")
	}
	if cc.MinQuality > cc.MaxQuality {
		return errors.New("config: compression.min_quality must not exceed max_quality")
	}
	if !validQuality(cc.FloorQuality) {
		return errors.New("config: compression.floor_quality must be between 1 and 100")
	}
	if !validQuality(cc.DefaultQuality) {
		return errors.New("config: compression.default_quality must be between 1 and 100")
	}
	if cc.GoodEnough <= 0 || cc.GoodEnough > 1 {
		return errors.New("config: compression.good_enough must be in (0, 1]")
	}
	if c.Decode.ChunkSize <= 0 {
		return errors.New("config: decode.chunk_size must be positive")
	}
	if c.Decode.MaxImageBytes < 0 || c.Decode.MaxPixels < 0 {
		return errors.New("config: decode limits must not be negative")
	}
	switch c.Storage {
	case StorageLocal:
	case StorageS3:
		if c.S3.Bucket == "" {
			return errors.New("config: s3.bucket is required for s3 storage")
		}
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage)
	}
	switch c.Backend {
	case BackendStdlib, BackendVips:
	default:
		return fmt.Errorf("config: unknown codec backend %q", c.Backend)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	return nil
}
