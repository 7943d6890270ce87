package domain

import (
	"errors"
	"fmt"
)

// Code identifies one of the error categories from the error handling design.
type Code string

const (
	CodeValidation    Code = "validation_error"
	CodeAuthorization Code = "authorization_error"
	CodeNotFound      Code = "not_found"
	CodeIntegrity     Code = "integrity_error"
	CodeUpstream      Code = "upstream_error"
	CodeConfiguration Code = "configuration_error"
	CodeUnexpected    Code = "unexpected_error"
)

// HumanMessages gives a generic, user-facing message per code. Services may
// attach a more specific Message when they construct an *Error directly.
var HumanMessages = map[Code]string{
	CodeValidation:    "That doesn't look right — please check your input and try again.",
	CodeAuthorization: "You don't have permission to do that.",
	CodeNotFound:      "I couldn't find that.",
	CodeIntegrity:     "That already exists.",
	CodeUpstream:      "Something went wrong upstream. Please try again.",
	CodeConfiguration: "This feature isn't configured yet.",
	CodeUnexpected:    "An unexpected error occurred.",
}

// Error is the typed error every repository and service in this codebase
// returns; handlers translate it into an adapter-appropriate reply.
type Error struct {
	Code    Code
	Message string
	Entity  any // optional: the pre-existing entity for integrity_error
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func newErr(code Code, msg string, cause error) *Error {
	if msg == "" {
		msg = HumanMessages[code]
	}
	return &Error{Code: code, Message: msg, cause: cause}
}

func Validation(msg string) *Error    { return newErr(CodeValidation, msg, nil) }
func Authorization(msg string) *Error { return newErr(CodeAuthorization, msg, nil) }
func NotFound(msg string) *Error      { return newErr(CodeNotFound, msg, nil) }
func Integrity(msg string, entity any) *Error {
	e := newErr(CodeIntegrity, msg, nil)
	e.Entity = entity
	return e
}
func Upstream(msg string, cause error) *Error   { return newErr(CodeUpstream, msg, cause) }
func Configuration(msg string) *Error           { return newErr(CodeConfiguration, msg, nil) }
func Unexpected(msg string, cause error) *Error { return newErr(CodeUnexpected, msg, cause) }

// Is reports whether err carries the given code, unwrapping as needed.
func Is(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the Code from err, or CodeUnexpected if err is not a
// domain *Error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeUnexpected
}
