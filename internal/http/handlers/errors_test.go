package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/atelierhq/go-studio-backend/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "unauthorized",
			err:        domain.ErrUnauthorized,
			wantStatus: http.StatusUnauthorized,
			wantCode:   "UNAUTHORIZED",
			wantMsg:    "Authentication required",
		},
		{
			name:       "wrapped unauthorized",
			err:        fmt.Errorf("create project: %w", domain.ErrUnauthorized),
			wantStatus: http.StatusUnauthorized,
			wantCode:   "UNAUTHORIZED",
			wantMsg:    "Authentication required",
		},
		{
			name:       "project not found",
			err:        domain.NewNotFound("project", "p-42"),
			wantStatus: http.StatusNotFound,
			wantCode:   "PROJECT_NOT_FOUND",
			wantMsg:    "project not found: p-42",
		},
		{
			name:       "conversation not found",
			err:        domain.NewNotFound("conversation", "c-7"),
			wantStatus: http.StatusNotFound,
			wantCode:   "CONVERSATION_NOT_FOUND",
			wantMsg:    "conversation not found: c-7",
		},
		{
			name:       "access denied",
			err:        domain.NewAccessDenied("project", "p-42"),
			wantStatus: http.StatusForbidden,
			wantCode:   "PROJECT_ACCESS_DENIED",
			wantMsg:    "access denied to project: p-42",
		},
		{
			name:       "slug conflict",
			err:        domain.NewConflict("project", "slug", "my-studio"),
			wantStatus: http.StatusConflict,
			wantCode:   "PROJECT_SLUG_EXISTS",
			wantMsg:    `project with slug "my-studio" already exists`,
		},
		{
			name:       "validation",
			err:        domain.NewValidation(map[string]string{"name": "is required"}),
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
			wantMsg:    "Validation failed",
		},
		{
			name:       "unclassified",
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
			wantMsg:    "Internal server error",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, body := Classify(tc.err)
			if status != tc.wantStatus {
				t.Errorf("status = %d, want %d", status, tc.wantStatus)
			}
			if body.Code != tc.wantCode {
				t.Errorf("code = %q, want %q", body.Code, tc.wantCode)
			}
			if body.Error != tc.wantMsg {
				t.Errorf("message = %q, want %q", body.Error, tc.wantMsg)
			}
		})
	}
}

func TestClassifyNeverLeaksInternalDetail(t *testing.T) {
	err := errors.New("dial tcp 10.0.0.5:5432: connect: connection refused")
	_, body := Classify(err)
	if strings.Contains(body.Error, "10.0.0.5") {
		t.Errorf("internal detail leaked into response: %q", body.Error)
	}
}

func TestClassifyValidationDetails(t *testing.T) {
	err := domain.NewValidation(map[string]string{
		"name": "must be at least 3 characters",
		"role": "must be one of: user, assistant",
	})
	_, body := Classify(err)

	fields, ok := body.Details["fields"].(map[string]string)
	if !ok {
		t.Fatalf("Details[fields] = %T, want map[string]string", body.Details["fields"])
	}
	if fields["name"] != "must be at least 3 characters" {
		t.Errorf("fields[name] = %q", fields["name"])
	}
	if len(fields) != 2 {
		t.Errorf("fields = %v, want both entries", fields)
	}
}
