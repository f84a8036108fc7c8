// Package failure defines the typed errors returned across the workspace.
//
// Every error that leaves a domain package is either a *Error carrying a
// Kind, or one of the sentinels below wrapped inside one. Callers branch on
// the kind with KindOf or Is, and on specific causes with errors.Is.
package failure

import (
	"errors"
	"fmt"
)

// Kind classifies a failure by how the caller should react to it.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindCapacity
	KindConflict
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindCapacity:
		return "capacity_exceeded"
	case KindConflict:
		return "conflict"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// Sentinel causes. Each is wrapped in an *Error of the kind noted.
var (
	// Validation
	ErrDuplicateName    = errors.New("name already exists")
	ErrInvalidPosition  = errors.New("invalid position")
	ErrInvalidSizeRange = errors.New("invalid size range")
	ErrInvalidName      = errors.New("invalid name")
	ErrInvalidSortKey   = errors.New("invalid sort key")
	ErrInvalidQuery     = errors.New("invalid search query")
	ErrNotDocument      = errors.New("only document files can be edited")
	ErrIsDirectory      = errors.New("entry is a directory")

	// Not found
	ErrNotFound     = errors.New("not found")
	ErrInvalidIndex = errors.New("invalid recycle bin index")

	// Capacity
	ErrCapacityExceeded = errors.New("recycle bin is full")

	// Conflict
	ErrTargetOccupied = errors.New("target path is occupied")
)

// Error is a failure annotated with its kind, the operation and the path
// that triggered it.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Path != "":
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error. A nil err is replaced by the kind's name.
func New(kind Kind, op, path string, err error) *Error {
	if err == nil {
		err = errors.New(kind.String())
	}
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// Validation wraps err as a validation failure.
func Validation(op, path string, err error) *Error { return New(KindValidation, op, path, err) }

// NotFound wraps err as a not-found failure.
func NotFound(op, path string, err error) *Error { return New(KindNotFound, op, path, err) }

// Capacity wraps err as a capacity failure.
func Capacity(op, path string, err error) *Error { return New(KindCapacity, op, path, err) }

// Conflict wraps err as a conflict failure.
func Conflict(op, path string, err error) *Error { return New(KindConflict, op, path, err) }

// IO wraps err as a backing-store failure.
func IO(op, path string, err error) *Error { return New(KindIO, op, path, err) }

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
