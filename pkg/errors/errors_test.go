package errors

import (
	stdErrors "errors"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code        Code
		userMsg     string
		manualRetry bool
		endsSession bool
		detailsOK   bool
	}{
		{code: CodeValidation, userMsg: "validation failed", manualRetry: true, detailsOK: true},
		{code: CodeUnauthorized, userMsg: "session expired, please sign in again", endsSession: true},
		{code: CodeNotFound, userMsg: "record not found"},
		{code: CodeConflict, userMsg: "operation already in progress", detailsOK: true},
		{code: CodeSubmission, userMsg: "the server rejected the request", manualRetry: true, detailsOK: true},
		{code: CodeTransport, userMsg: "could not reach the server", manualRetry: true},
		{code: CodeSinkUnavailable, userMsg: "printer unavailable, receipt was not printed", manualRetry: true},
		{code: CodeInternal, userMsg: "internal error"},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.UserMessage != tt.userMsg {
			t.Fatalf("code %s expected user message %q got %q", tt.code, tt.userMsg, meta.UserMessage)
		}
		if meta.ManualRetry != tt.manualRetry {
			t.Fatalf("code %s expected manual retry %v got %v", tt.code, tt.manualRetry, meta.ManualRetry)
		}
		if meta.EndsSession != tt.endsSession {
			t.Fatalf("code %s expected ends session %v got %v", tt.code, tt.endsSession, meta.EndsSession)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.UserMessage != "internal error" {
		t.Fatalf("expected internal metadata, got %q", meta.UserMessage)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing name")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing name" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"field": "name"}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeTransport, cause, "posting sale")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeTransport {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := New(CodeConflict, "submit in flight")
	if got := As(err); got == nil || got.Code() != CodeConflict {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestCodeOfAndEndsSession(t *testing.T) {
	if CodeOf(stdErrors.New("plain")) != CodeInternal {
		t.Fatalf("plain errors should map to internal")
	}
	if !EndsSession(New(CodeUnauthorized, "401")) {
		t.Fatalf("unauthorized must end the session")
	}
	if EndsSession(New(CodeSubmission, "500")) {
		t.Fatalf("submission failures must not end the session")
	}
}
