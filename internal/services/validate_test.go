package services

import (
	"errors"
	"testing"

	"github.com/atelierhq/go-studio-backend/internal/domain"
)

func TestCheckInputReportsAllFields(t *testing.T) {
	in := AppendMessageInput{Role: "system", Content: ""}

	err := checkInput(in)
	if err == nil {
		t.Fatal("expected a validation error")
	}
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error type = %T, want *domain.ValidationError", err)
	}
	if len(ve.Fields) != 2 {
		t.Fatalf("Fields = %v, want both role and content reported", ve.Fields)
	}
	if got, want := ve.Fields["role"], "must be one of: user, assistant"; got != want {
		t.Errorf("Fields[role] = %q, want %q", got, want)
	}
	if got, want := ve.Fields["content"], "is required"; got != want {
		t.Errorf("Fields[content] = %q, want %q", got, want)
	}
}

func TestCheckInputUsesJSONFieldNames(t *testing.T) {
	in := CreateProjectInput{Name: "ab"}

	err := checkInput(in)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error type = %T, want *domain.ValidationError", err)
	}
	if got, want := ve.Fields["name"], "must be at least 3 characters"; got != want {
		t.Errorf("Fields[name] = %q, want %q", got, want)
	}
	if _, exists := ve.Fields["Name"]; exists {
		t.Error("field keyed by Go name, want json tag name")
	}
}

func TestCheckInputValid(t *testing.T) {
	if err := checkInput(CreateProjectInput{Name: "Studio Alpha"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := checkInput(UpdateProjectInput{}); err != nil {
		t.Fatalf("empty patch should validate, got %v", err)
	}
}
