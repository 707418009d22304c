// Copyright 2020 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package errors implements an error type carrying an interpretable
// kind and severity, so that callers can decide uniformly whether a
// failed operation is worth retrying. Errors chain: an error may be
// attributed to an underlying cause, and the full chain is rendered by
// Error. The design follows the error packages of the Upspin and
// Reflow projects.
package errors

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/grailbio/tfrecord/log"
)

// Separator is inserted between chained errors when rendering an
// error message.
var Separator = ":\n\t"

// Kind classifies an error. Kinds are semantically meaningful and may
// be interpreted by the receiver of an error, for example to decide
// whether an operation should be retried.
type Kind int

const (
	// Other indicates an unclassified error.
	Other Kind = iota
	// Canceled indicates a context cancellation.
	Canceled
	// Timeout indicates an operation that timed out.
	Timeout
	// NotExist indicates a nonexistent resource.
	NotExist
	// Integrity indicates a data integrity failure.
	Integrity
	// Unavailable indicates that a resource was unavailable.
	Unavailable
	// Invalid indicates that the caller supplied invalid parameters.
	Invalid
	// TooManyTries indicates an exhausted retry budget.
	TooManyTries
	// Precondition indicates an unmet precondition.
	Precondition

	maxKind
)

var kinds = map[Kind]string{
	Other:        "unknown error",
	Canceled:     "operation was canceled",
	Timeout:      "operation timed out",
	NotExist:     "resource does not exist",
	Integrity:    "integrity error",
	Unavailable:  "resource unavailable",
	Invalid:      "invalid argument",
	TooManyTries: "too many tries",
	Precondition: "precondition failed",
}

// String returns a human-readable explanation of the error kind k.
func (k Kind) String() string {
	return kinds[k]
}

// Severity qualifies how permanent an Error's condition is, and thus
// whether the failed operation may be retried.
type Severity int

const (
	// Retriable indicates that the failing operation can be safely
	// retried, regardless of application context.
	Retriable Severity = -2
	// Temporary indicates that the underlying condition is likely
	// transient, and that retrying may succeed, though the decision
	// belongs to the application.
	Temporary Severity = -1
	// Unknown indicates that the severity is not known. It is the
	// default.
	Unknown Severity = 0
	// Fatal indicates an unrecoverable condition; retrying is unlikely
	// to help.
	Fatal Severity = 1
)

var severities = map[Severity]string{
	Retriable: "retriable",
	Temporary: "temporary",
	Unknown:   "unknown",
	Fatal:     "fatal",
}

// String returns a human-readable explanation of the error severity s.
func (s Severity) String() string {
	return severities[s]
}

// Error is the standard error type: a kind, an optional severity, an
// optional message, and an optional underlying cause through which
// errors chain. Construct Errors with E, which interprets its
// arguments by type.
type Error struct {
	// Kind is the error's classification.
	Kind Kind
	// Severity is the error's severity, if known.
	Severity Severity
	// Message is an optional message attached to the error.
	Message string
	// Err is the underlying cause, if any. Error renders the whole
	// chain.
	Err error
}

// E builds an error from its arguments, as a convenient way to
// construct, annotate, and wrap errors. Each argument is interpreted
// by its type:
//
//	- Kind: sets the error's kind
//	- Severity: sets the error's severity
//	- string: sets the error's message; multiple strings are joined
//	  with a single space
//	- *Error: copies the error and sets it as the cause
//	- error: sets the error's cause
//
// An argument of any other type yields an error of kind Invalid.
//
// When no kind is given but a cause is, E interprets the cause by
// convention, in order: an error satisfying os.IsNotExist becomes
// NotExist; context.Canceled becomes Canceled; an error with a method
// Timeout() bool returning true becomes Timeout. A cause with a method
// Temporary() bool returning true raises the severity to at least
// Temporary. A cause that is itself an *Error passes its kind and
// severity to the new error when they are not otherwise set.
func E(args ...interface{}) error {
	if len(args) == 0 {
		panic("no args")
	}
	e := new(Error)
	var msg strings.Builder
	for _, arg := range args {
		switch arg := arg.(type) {
		case Kind:
			e.Kind = arg
		case Severity:
			e.Severity = arg
		case string:
			if msg.Len() > 0 {
				msg.WriteString(" ")
			}
			msg.WriteString(arg)
		case *Error:
			copy := *arg
			if len(args) == 1 {
				// Nothing to add; return the copy directly.
				return &copy
			}
			e.Err = &copy
		case error:
			e.Err = arg
		default:
			_, file, line, _ := runtime.Caller(1)
			log.Error.Printf("errors.E: bad call (type %T) from %s:%d: %v", arg, file, line, arg)
			return &Error{
				Kind:    Invalid,
				Message: fmt.Sprintf("unknown type %T, value %v in error call", arg, arg),
			}
		}
	}
	e.Message = msg.String()
	if e.Err == nil {
		return e
	}
	switch prev := e.Err.(type) {
	case *Error:
		if prev.Kind == e.Kind || e.Kind == Other {
			e.Kind = prev.Kind
			prev.Kind = Other
		}
		if prev.Severity == e.Severity || e.Severity == Unknown {
			e.Severity = prev.Severity
			prev.Severity = Unknown
		}
	default:
		if err, ok := e.Err.(interface {
			Temporary() bool
		}); ok && err.Temporary() && e.Severity == Unknown {
			e.Severity = Temporary
		}
		if e.Kind != Other {
			break
		}
		if os.IsNotExist(e.Err) {
			e.Kind = NotExist
		} else if e.Err == context.Canceled {
			e.Kind = Canceled
		} else if err, ok := e.Err.(interface {
			Timeout() bool
		}); ok && err.Timeout() {
			e.Kind = Timeout
		}
	}
	return e
}

// Recover coerces any error into an *Error: an *Error is returned as
// is, anything else is wrapped.
func Recover(err error) *Error {
	if err == nil {
		return nil
	}
	if err, ok := err.(*Error); ok {
		return err
	}
	return E(err).(*Error)
}

// Error renders the error and its chain, using Separator between
// chained *Errors.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b bytes.Buffer
	e.writeError(&b)
	return b.String()
}

func (e *Error) writeError(b *bytes.Buffer) {
	if e.Message != "" {
		pad(b, ": ")
		b.WriteString(e.Message)
	}
	if e.Kind != Other {
		pad(b, ": ")
		b.WriteString(e.Kind.String())
	}
	if e.Severity != Unknown {
		pad(b, " ")
		b.WriteByte('(')
		b.WriteString(e.Severity.String())
		b.WriteByte(')')
	}

	if e.Err == nil {
		return
	}
	if err, ok := e.Err.(*Error); ok {
		pad(b, Separator)
		b.WriteString(err.Error())
	} else {
		pad(b, ": ")
		b.WriteString(e.Err.Error())
	}
}

// Timeout tells whether this error is a timeout error.
func (e *Error) Timeout() bool {
	return e.Kind == Timeout
}

// Temporary tells whether this error is temporary.
func (e *Error) Temporary() bool {
	return e.Severity <= Temporary
}

// Is tells whether err has the given kind. The indeterminate kind
// Other never matches directly; instead the chain is walked until a
// classified error is found.
func Is(kind Kind, err error) bool {
	if err == nil {
		return false
	}
	return is(kind, Recover(err))
}

func is(kind Kind, e *Error) bool {
	if e.Kind != Other {
		return e.Kind == kind
	}
	if e.Err != nil {
		if e2, ok := e.Err.(*Error); ok {
			return is(kind, e2)
		}
	}
	return false
}

// IsTemporary tells whether the provided error is likely temporary.
func IsTemporary(err error) bool {
	return Recover(err).Temporary()
}

// Match tells whether every nonempty field of err1 matches the
// corresponding field of err2, recursing on chained errors. Match is
// designed to aid in testing errors.
func Match(err1, err2 error) bool {
	var (
		e1 = Recover(err1)
		e2 = Recover(err2)
	)
	if e1.Kind != Other && e1.Kind != e2.Kind {
		return false
	}
	if e1.Severity != Unknown && e1.Severity != e2.Severity {
		return false
	}
	if e1.Message != "" && e1.Message != e2.Message {
		return false
	}
	if e1.Err != nil {
		if e2.Err == nil {
			return false
		}
		switch e1.Err.(type) {
		case *Error:
			return Match(e1.Err, e2.Err)
		default:
			return e1.Err.Error() == e2.Err.Error()
		}
	}
	return true
}

// Visit calls callback for every error in the chain, including err
// itself. Recursion stops at the first error that is not an *Error.
func Visit(err error, callback func(err error)) {
	callback(err)
	for {
		next, ok := err.(*Error)
		if !ok {
			break
		}
		err = next.Err
		callback(err)
	}
}

// New is synonymous with errors.New, and is provided here so that
// users need only import one errors package.
func New(msg string) error {
	return errors.New(msg)
}

func pad(b *bytes.Buffer, s string) {
	if b.Len() == 0 {
		return
	}
	b.WriteString(s)
}
