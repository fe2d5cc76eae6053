// internal/ledger/errors.go
package ledger

import (
	"errors"
	"fmt"
)

// ExecError is a ledger-reported rejection, preserved verbatim so the
// caller can tell "already staged" from "not whitelisted" from
// "expired window". Module and Code are the on-ledger abort location
// and code; Message is the node's rendering, if any.
type ExecError struct {
	Module  string
	Code    int64
	Message string
}

func (e *ExecError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("ledger abort %s:%d: %s", e.Module, e.Code, e.Message)
	}
	return fmt.Sprintf("ledger abort %s:%d", e.Module, e.Code)
}

// Abort codes observed from the protocol's staging and execution
// modules. Kept in one place so tests and callers match on codes, not
// message text.
const (
	CodeAlreadyStaged         int64 = 101
	CodeSpecTooLarge          int64 = 102
	CodeNotWhitelisted        int64 = 103
	CodeWrongState            int64 = 201
	CodeWindowExpired         int64 = 202
	CodeWindowNotExpired      int64 = 203
	CodeLosingOutcome         int64 = 204
	CodeInsufficientBalance   int64 = 205
	CodeOutcomeIncomplete     int64 = 301
	CodeInstrumentUnavailable int64 = 302
)

// IsAbort reports whether err carries a ledger abort with the given
// module and code.
func IsAbort(err error, module string, code int64) bool {
	var ee *ExecError
	if !errors.As(err, &ee) {
		return false
	}
	return ee.Module == module && ee.Code == code
}

// IsAbortCode matches on code alone, for callers that do not care
// which module reported it.
func IsAbortCode(err error, code int64) bool {
	var ee *ExecError
	if !errors.As(err, &ee) {
		return false
	}
	return ee.Code == code
}
