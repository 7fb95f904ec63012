package harness

import "fmt"

// ErrorCode categorizes configuration errors.
type ErrorCode string

const (
	// ErrCodeCorpusNotFound indicates the corpus path does not exist.
	ErrCodeCorpusNotFound ErrorCode = "E_CORPUS_NOT_FOUND"

	// ErrCodeCorpusUnreadable indicates the corpus exists but cannot be read.
	ErrCodeCorpusUnreadable ErrorCode = "E_CORPUS_UNREADABLE"

	// ErrCodeInvalidRange indicates a malformed line range.
	ErrCodeInvalidRange ErrorCode = "E_INVALID_RANGE"
)

// ConfigurationError is a fatal problem detected before any rendering.
type ConfigurationError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Path is the corpus path, when relevant.
	Path string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Path != "" {
		msg += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func newRangeError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{
		Code:    ErrCodeInvalidRange,
		Message: fmt.Sprintf(format, args...),
	}
}
