package workflow

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a workflow denial. All denials are returned as
// values; only misuse of the Apply contract panics.
type ErrorCode string

const (
	CodeAccessDenied         ErrorCode = "ACCESS_DENIED"
	CodeInvalidTransition    ErrorCode = "INVALID_TRANSITION"
	CodeMissingPublishedLink ErrorCode = "MISSING_PUBLISHED_LINK"
	CodeNotFound             ErrorCode = "NOT_FOUND"
)

// Error is a typed workflow denial with the specific reason.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// AccessDenied reports that the actor lacks ownership or scope.
func AccessDenied(format string, args ...any) *Error {
	return &Error{Code: CodeAccessDenied, Message: fmt.Sprintf(format, args...)}
}

// InvalidTransition reports that (role, from, to) is not in the table.
func InvalidTransition(role Role, from, to Status) *Error {
	return &Error{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("%s may not move a request from %s to %s", role, from, to),
	}
}

// MissingPublishedLink reports a publish attempt without a link.
func MissingPublishedLink() *Error {
	return &Error{
		Code:    CodeMissingPublishedLink,
		Message: "a published link is required to publish a request",
	}
}

// NotFound reports that a request id resolved to nothing. Produced by the
// boundary, not the validator, but shares the taxonomy so handlers map it
// uniformly.
func NotFound(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the workflow error code from err, or "" if err is not a
// workflow denial.
func CodeOf(err error) ErrorCode {
	var we *Error
	if errors.As(err, &we) {
		return we.Code
	}
	return ""
}
