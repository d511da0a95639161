package validate

import (
	"testing"

	pkgerrors "github.com/n0l0g0/pos-frontend/pkg/errors"
)

type sampleForm struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Stock int    `json:"stock" validate:"gte=0"`
}

func TestStructValid(t *testing.T) {
	t.Parallel()

	form := sampleForm{Name: "Green Tea", Email: "staff@example.com", Stock: 3}
	if err := Struct(form); err != nil {
		t.Fatalf("expected valid form, got %v", err)
	}
}

func TestStructReportsFieldsByJSONTag(t *testing.T) {
	t.Parallel()

	form := sampleForm{Email: "not-an-email", Stock: -1}
	err := Struct(form)
	if err == nil {
		t.Fatal("expected error")
	}

	appErr := pkgerrors.As(err)
	if appErr == nil {
		t.Fatalf("expected *pkgerrors.Error, got %T", err)
	}
	if appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", appErr.Code())
	}

	details, ok := appErr.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected map details, got %T", appErr.Details())
	}
	if details["name"] != "is required" {
		t.Fatalf("unexpected name message %q", details["name"])
	}
	if details["email"] != "must be a valid email" {
		t.Fatalf("unexpected email message %q", details["email"])
	}
	if details["stock"] != "must be 0 or more" {
		t.Fatalf("unexpected stock message %q", details["stock"])
	}
}
