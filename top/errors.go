package top

import (
	"fmt"
	"strings"
)

// ErrorKind classifies the errors produced while reading a topology.
type ErrorKind int

const (
	MissingDirective ErrorKind = iota + 1
	MalformedRecord
	UnresolvedAtomReference
	UnsupportedFunction
	InvalidNumericField
)

func (k ErrorKind) String() string {
	switch k {
	case MissingDirective:
		return "missing directive"
	case MalformedRecord:
		return "malformed record"
	case UnresolvedAtomReference:
		return "unresolved atom reference"
	case UnsupportedFunction:
		return "unsupported function"
	case InvalidNumericField:
		return "invalid numeric field"
	}
	return "unknown error"
}

// Sentinels to use with errors.Is. Only the Kind is compared.
var (
	ErrMissingDirective        = &Error{Kind: MissingDirective}
	ErrMalformedRecord         = &Error{Kind: MalformedRecord}
	ErrUnresolvedAtomReference = &Error{Kind: UnresolvedAtomReference}
	ErrUnsupportedFunction     = &Error{Kind: UnsupportedFunction}
	ErrInvalidNumericField     = &Error{Kind: InvalidNumericField}
)

// Error is the error type for everything in this package. All errors
// are critical: the topology being read can't be used after one.
type Error struct {
	Kind      ErrorKind
	Directive string //the directive being read, if any.
	Line      string //the offending record, if any.
	Funct     int    //only set for UnsupportedFunction
	message   string
	deco      []string
	wrapped   error
}

func newError(kind ErrorKind, directive, line, format string, a ...any) *Error {
	return &Error{Kind: kind, Directive: directive, Line: line, message: fmt.Sprintf(format, a...)}
}

func (E *Error) Error() string {
	var b strings.Builder
	b.WriteString(E.Kind.String())
	if E.Directive != "" {
		b.WriteString(" in [ " + E.Directive + " ]")
	}
	if E.message != "" {
		b.WriteString(": " + E.message)
	}
	if E.Line != "" {
		b.WriteString(fmt.Sprintf(" (record: %q)", E.Line))
	}
	if E.wrapped != nil {
		b.WriteString(": " + E.wrapped.Error())
	}
	return b.String()
}

// Decorate adds the caller information deco to the error, and returns
// the whole list of decorations. An empty deco only returns the list.
func (E *Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func (E *Error) Critical() bool { return true }

func (E *Error) Unwrap() error { return E.wrapped }

// Is reports whether target is an *Error of the same Kind.
func (E *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == E.Kind
}

// errDecorate decorates err with caller if it is an *Error, and returns it.
func errDecorate(err error, caller string) error {
	if e, ok := err.(*Error); ok {
		e.Decorate(caller)
	}
	return err
}
