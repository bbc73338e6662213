package errors

import (
	"errors"
	"fmt"
)

// Category classifies error types for targeted handling and monitoring.
type Category string

const (
	CategoryBounds   Category = "bounds"
	CategoryDecode   Category = "decode"
	CategoryEncode   Category = "encode"
	CategoryPipeline Category = "pipeline"
	CategoryStorage  Category = "storage"
	CategoryConfig   Category = "config"
	CategoryInput    Category = "input"
)

// ProcessingError is the structured error type used throughout the module.
type ProcessingError struct {
	Category Category
	Op       string // operation name
	Err      error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Category, e.Op, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// New creates a ProcessingError.
func New(category Category, op string, err error) *ProcessingError {
	return &ProcessingError{Category: category, Op: op, Err: err}
}

// Wrap wraps an existing error with context.
func Wrap(category Category, op string, err error) error {
	if err == nil {
		return nil
	}
	return New(category, op, err)
}

// Ensure wraps err unless it already carries a category.
func Ensure(category Category, op string, err error) error {
	var pe *ProcessingError
	if err == nil || errors.As(err, &pe) {
		return err
	}
	return New(category, op, err)
}

// OutOfBounds reports a geometric transform whose region leaves the buffer.
func OutOfBounds(op, format string, args ...interface{}) *ProcessingError {
	return New(CategoryBounds, op, fmt.Errorf("%w: %s", ErrOutOfBounds, fmt.Sprintf(format, args...)))
}

// IsCategory reports whether err belongs to the given category.
func IsCategory(err error, cat Category) bool {
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return pe.Category == cat
	}
	return false
}

// IsOutOfBounds reports whether err is a bounds violation.
func IsOutOfBounds(err error) bool { return errors.Is(err, ErrOutOfBounds) }

// TargetTooSmallError is returned when no quality in range fits the byte
// budget. MinBytes is the size produced at FloorQuality.
type TargetTooSmallError struct {
	TargetBytes  int
	MinBytes     int
	FloorQuality int
}

func (e *TargetTooSmallError) Error() string {
	return fmt.Sprintf("target size %d KB (%d bytes) is too small; minimum achievable size is %d KB (%d bytes) at quality %d",
		e.TargetBytes/1024, e.TargetBytes, e.MinBytes/1024, e.MinBytes, e.FloorQuality)
}

// Is lets errors.Is(err, ErrTargetTooSmall) match.
func (e *TargetTooSmallError) Is(target error) bool { return target == ErrTargetTooSmall }

// Shortfall returns how many bytes the budget must grow to be reachable.
func (e *TargetTooSmallError) Shortfall() int { return e.MinBytes - e.TargetBytes }

// Sentinel errors for common failure modes.
var (
	ErrOutOfBounds       = errors.New("region is out of bounds")
	ErrTargetTooSmall    = errors.New("target size too small")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrEmptyInput        = errors.New("empty input")
	ErrImageTooLarge     = errors.New("image is too large")
	ErrNoEncoder         = errors.New("no lossy encoder registered")
)
