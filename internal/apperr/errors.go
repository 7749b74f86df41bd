// Package apperr defines the error taxonomy shared by the setup engine.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrMalformedDocument = errors.New("malformed document")
	ErrCorruptConfig     = errors.New("corrupt config")
	ErrUnknownTarget     = errors.New("unknown host target")
	ErrPartialInstall    = errors.New("partial install")
	ErrInvalidInput      = errors.New("invalid input")
)

// Error kinds reported to the presentation layer.
const (
	KindMalformed      = "malformed"
	KindCorruptConfig  = "corrupt_config"
	KindIO             = "io"
	KindNotFound       = "not_found"
	KindUnknownTarget  = "unknown_target"
	KindPartialInstall = "partial_install"
	KindInvalidInput   = "invalid_input"
	KindInternal       = "internal"
)

// MalformedError reports a file that exists but cannot be parsed.
// It matches ErrMalformedDocument under errors.Is.
type MalformedError struct {
	Path string
	Err  error
}

func (e *MalformedError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("malformed host config %s", e.Path)
	}
	return fmt.Sprintf("malformed host config %s: %v", e.Path, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

func (e *MalformedError) Is(target error) bool { return target == ErrMalformedDocument }

// IOError wraps a filesystem failure with the operation and path involved.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Kind classifies err into one of the Kind* constants.
func Kind(err error) string {
	var ioErr *IOError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMalformedDocument):
		return KindMalformed
	case errors.Is(err, ErrCorruptConfig):
		return KindCorruptConfig
	case errors.Is(err, ErrUnknownTarget):
		return KindUnknownTarget
	case errors.Is(err, ErrPartialInstall):
		return KindPartialInstall
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.As(err, &ioErr):
		return KindIO
	default:
		return KindInternal
	}
}
