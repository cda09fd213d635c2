package template

import (
	"errors"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
var (
	// ErrVersion reports a document whose version does not exactly match
	// the supported Version.
	ErrVersion = NewError("unsupported template version")

	// ErrInvalid reports a structurally invalid document, such as a
	// missing template body.
	ErrInvalid = NewError("invalid template document")

	// ErrFile reports a document file that cannot be read or written.
	ErrFile = NewError("template file error")
)

// Error represents an error with optional structured logging attributes.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is matches wrapped and attributed copies against the sentinels above.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && e.msg == t.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// invalidIn reports whether err carries ErrInvalid anywhere in its
// chain, which distinguishes a malformed template body from a file
// that failed to decode at all.
func invalidIn(err error) bool {
	return errors.Is(err, ErrInvalid)
}

// WrapErrorPath annotates a document error with the file it came from.
func WrapErrorPath(err error, path string) error {
	var e *Error
	if errors.As(err, &e) {
		return e.With(slog.String("path", path))
	}

	return err
}
