package generator

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ResourceError reports an artifact or directory that could not be created,
// deleted or written. It aborts the run.
type ResourceError struct {
	Op   string // "mkdir", "delete", "create", "write", "close"
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// LookupError reports a type reference that cannot be turned into a name,
// such as a type variable with no concrete raw type.
type LookupError struct {
	Type  string // canonical name of the type being emitted
	Field string // empty when not tied to a field
	Err   error
}

func (e *LookupError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("resolve %s: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("resolve %s#%s: %v", e.Type, e.Field, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

func resourceErr(op, path string, err error) error {
	return errors.WithStack(&ResourceError{Op: op, Path: path, Err: err})
}

// IsResourceError reports whether err, or an error it wraps, is a ResourceError.
func IsResourceError(err error) bool {
	var re *ResourceError
	return errors.As(err, &re)
}

// IsLookupError reports whether err, or an error it wraps, is a LookupError.
func IsLookupError(err error) bool {
	var le *LookupError
	return errors.As(err, &le)
}
