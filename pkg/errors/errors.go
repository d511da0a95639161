package errors

import (
	stdErrors "errors"
	"fmt"
)

type Code string

const (
	CodeValidation      Code = "VALIDATION_ERROR"
	CodeUnauthorized    Code = "UNAUTHORIZED"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeSubmission      Code = "SUBMISSION_FAILED"
	CodeTransport       Code = "TRANSPORT_ERROR"
	CodeSinkUnavailable Code = "SINK_UNAVAILABLE"
	CodeInternal        Code = "INTERNAL_ERROR"
)

// Metadata drives how a failure is surfaced to the cashier.
type Metadata struct {
	UserMessage    string
	ManualRetry    bool
	EndsSession    bool
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		UserMessage:    "validation failed",
		ManualRetry:    true,
		DetailsAllowed: true,
	},
	CodeUnauthorized: {
		UserMessage: "session expired, please sign in again",
		EndsSession: true,
	},
	CodeNotFound: {
		UserMessage: "record not found",
	},
	CodeConflict: {
		UserMessage:    "operation already in progress",
		DetailsAllowed: true,
	},
	CodeSubmission: {
		UserMessage:    "the server rejected the request",
		ManualRetry:    true,
		DetailsAllowed: true,
	},
	CodeTransport: {
		UserMessage: "could not reach the server",
		ManualRetry: true,
	},
	CodeSinkUnavailable: {
		UserMessage: "printer unavailable, receipt was not printed",
		ManualRetry: true,
	},
	CodeInternal: {
		UserMessage: "internal error",
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// CodeOf resolves the taxonomy code for any error, defaulting to internal.
func CodeOf(err error) Code {
	if typed := As(err); typed != nil {
		return typed.Code()
	}
	return CodeInternal
}

// EndsSession reports whether the failure must tear the session down.
func EndsSession(err error) bool {
	return MetadataFor(CodeOf(err)).EndsSession
}
