package utils

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an error so callers can tell persistence problems apart
// from fatal terminal problems.
type ErrorKind int

const (
	KindIO ErrorKind = iota
	KindPath
	KindSerialization
	KindDeserialization
	KindTime
	KindTerminal
)

// String returns a short name for the kind
func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindPath:
		return "path"
	case KindSerialization:
		return "serialization"
	case KindDeserialization:
		return "deserialization"
	case KindTime:
		return "time"
	case KindTerminal:
		return "terminal"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is the typed error returned by exoshell packages
type Error struct {
	Kind ErrorKind
	Op   string
	Path string
	Err  error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Kind.String() + " error"
	if e.Op != "" {
		msg += " during " + e.Op
	}
	if e.Path != "" {
		msg += fmt.Sprintf(" (%s)", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for compatibility with errors.Is and errors.As
func (e *Error) Unwrap() error {
	return e.Err
}

// NewIOError creates a filesystem error for the given operation and path
func NewIOError(op, path string, err error) *Error {
	return &Error{Kind: KindIO, Op: op, Path: path, Err: err}
}

// NewPathError creates a path resolution error
func NewPathError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindPath, Op: "resolve path", Err: fmt.Errorf(format, args...)}
}

// NewSerializationError creates an encoding error
func NewSerializationError(path string, err error) *Error {
	return &Error{Kind: KindSerialization, Op: "serialize", Path: path, Err: err}
}

// NewDeserializationError creates a decoding error
func NewDeserializationError(path string, err error) *Error {
	return &Error{Kind: KindDeserialization, Op: "deserialize", Path: path, Err: err}
}

// NewTimeError creates a clock error
func NewTimeError(err error) *Error {
	return &Error{Kind: KindTime, Op: "read clock", Err: err}
}

// NewTerminalError creates a terminal I/O error
func NewTerminalError(op string, err error) *Error {
	return &Error{Kind: KindTerminal, Op: op, Err: err}
}

// IsKind reports whether any error in err's chain is an *Error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	for err != nil {
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Err
	}
	return false
}
