package core

import (
	"fmt"

	"github.com/jimyag/viommu/internal/viommu/wire"
)

// StatusError carries a wire status code back from a request handler: a
// code plus a human message plus an optional wrapped cause for
// server-side debugging that never reaches the guest.
type StatusError struct {
	Code    wire.Status
	Message string
	Cause   error
}

func NewStatusError(code wire.Status, message string) *StatusError {
	return &StatusError{Code: code, Message: message}
}

func WrapStatusError(code wire.Status, message string, cause error) *StatusError {
	return &StatusError{Code: code, Message: message, Cause: cause}
}

func (e *StatusError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Is lets callers test errors.Is(err, core.ErrNoent) and similar sentinels
// by comparing status codes only.
func (e *StatusError) Is(target error) bool {
	t, ok := target.(*StatusError)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

func (e *StatusError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Sentinel status errors for errors.Is comparisons; messages are
// overridden at the call site via WrapStatusError when more context is
// available.
var (
	ErrNoent  = NewStatusError(wire.StatusNoent, "no such domain or endpoint")
	ErrInval  = NewStatusError(wire.StatusInval, "invalid request")
	ErrRange  = NewStatusError(wire.StatusRange, "operation would split a mapping")
	ErrUnsupp = NewStatusError(wire.StatusUnsupp, "unsupported request type")
	ErrDevErr = NewStatusError(wire.StatusDevErr, "malformed request")
)

// StatusOf extracts the wire status code from err, defaulting to DEVERR
// for an error that isn't a *StatusError (an internal/transport failure
// the guest still needs a status byte for).
func StatusOf(err error) wire.Status {
	if err == nil {
		return wire.StatusOK
	}
	if se, ok := err.(*StatusError); ok {
		return se.Code
	}
	return wire.StatusDevErr
}
