// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package derrors defines the error values used to categorize the error
// semantics of the completion engine.
package derrors

import (
	"errors"
	"fmt"
	"runtime"
)

//lint:file-ignore ST1012 prefixing error values with Err would stutter

var (
	// BadOrigin indicates that an origin string did not parse as an
	// absolute URL.
	BadOrigin = errors.New("bad origin")

	// SchemaSyntax indicates a malformed path-to-regex schema in a
	// registry configuration.
	SchemaSyntax = errors.New("schema syntax error")

	// RegexCompile indicates that a schema tokenized correctly but its
	// compiled form failed to build.
	RegexCompile = errors.New("regex compile error")

	// InvalidConfig indicates that a registry configuration violated a
	// version or variable-dependency rule.
	InvalidConfig = errors.New("invalid registry configuration")

	// FetchFailed indicates that the artifact fetcher returned an error.
	FetchFailed = errors.New("fetch failed")

	// DecodeFailed indicates that a fetched body did not match the
	// expected JSON shape.
	DecodeFailed = errors.New("decode failed")
)

// Add adds context to the error.
// The result cannot be unwrapped to recover the original error.
// It does nothing when *errp == nil.
//
// Example:
//
//	defer derrors.Add(&err, "Enable(%q)", origin)
//
// See Wrap for an equivalent function that allows
// the result to be unwrapped.
func Add(errp *error, format string, args ...any) {
	if *errp != nil {
		*errp = fmt.Errorf("%s: %v", fmt.Sprintf(format, args...), *errp)
	}
}

// Wrap adds context to the error and allows
// unwrapping the result to recover the original error.
//
// Example:
//
//	defer derrors.Wrap(&err, "Enable(%q)", origin)
//
// See Add for an equivalent function that does not allow
// the result to be unwrapped.
func Wrap(errp *error, format string, args ...any) {
	if *errp != nil {
		*errp = fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), *errp)
	}
}

// WrapStack is like Wrap, but adds a stack trace if there isn't one already.
func WrapStack(errp *error, format string, args ...any) {
	if *errp != nil {
		if se := (*StackError)(nil); !errors.As(*errp, &se) {
			*errp = NewStackError(*errp)
		}
		Wrap(errp, format, args...)
	}
}

// StackError wraps an error and adds a stack trace.
type StackError struct {
	Stack []byte
	err   error
}

// NewStackError returns a StackError, capturing a stack trace.
func NewStackError(err error) *StackError {
	var buf [16 * 1024]byte
	n := runtime.Stack(buf[:], false)
	return &StackError{
		err:   err,
		Stack: buf[:n],
	}
}

func (e *StackError) Error() string {
	return e.err.Error() // ignore the stack
}

func (e *StackError) Unwrap() error {
	return e.err
}
