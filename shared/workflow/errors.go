package workflow

import (
	"errors"
	"fmt"
)

// Code identifies a workflow failure. The set is closed: every failure an
// operation can return carries exactly one of these values, and callers
// switch on it rather than on error strings.
type Code string

const (
	CodeMissingFields          Code = "MISSING_FIELDS"
	CodeUserExists             Code = "USER_EXISTS"
	CodeAuthCreateFailed       Code = "AUTH_CREATE_FAILED"
	CodeProfileCreateFailed    Code = "PROFILE_CREATE_FAILED"
	CodeMembershipCreateFailed Code = "MEMBERSHIP_CREATE_FAILED"
	CodeInvalidCredentials     Code = "INVALID_CREDENTIALS"
	CodeProfileNotFound        Code = "PROFILE_NOT_FOUND"
	CodeAccountNotApproved     Code = "ACCOUNT_NOT_APPROVED"
	CodeForbidden              Code = "FORBIDDEN"
	CodeServerError            Code = "SERVER_ERROR"
	CodeUnknownError           Code = "UNKNOWN_ERROR"
)

// ErrNotFound is returned by Store lookups when no row matches.
var ErrNotFound = errors.New("workflow: not found")

// Error is the structured result every failed workflow operation returns.
// Status carries the account's current approval status when the code is
// ACCOUNT_NOT_APPROVED.
type Error struct {
	Code    Code
	Message string
	Status  string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError extracts a workflow *Error from err, if it is one.
func AsError(err error) (*Error, bool) {
	var wErr *Error
	if errors.As(err, &wErr) {
		return wErr, true
	}
	return nil, false
}

func newError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func wrapError(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}
