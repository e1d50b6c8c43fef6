package dataset

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned when a dataset path has an extension
// no loader is registered for.
var ErrUnsupportedFormat = errors.New("unsupported dataset format")

// ParseError reports malformed dataset content. The path and the
// underlying decoder error are preserved for diagnostics.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
