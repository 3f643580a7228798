// Package fxerr defines the error kinds shared by the filtr packages.
//
// Callers wrap a kind with fmt.Errorf("%w: ...", kind) and test for it with
// errors.Is. There is no out-of-range kind: channel writes are clamped.
package fxerr

import "errors"

var (
	// ErrInvalidArgument reports a contract violation by the caller: a bad
	// kernel, an unknown effect or blend mode, a malformed parameter.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnsupported reports that a buffer of the requested shape cannot be
	// allocated.
	ErrUnsupported = errors.New("unsupported operation")
)
