// Package handlers – error classification.
//
// This file is the single place where domain errors become HTTP responses.
// Classify is a pure function from an arbitrary error to a status code and a
// structured body; it performs no logging and touches no request state, which
// keeps it independently testable. Handlers funnel every failure through
// respondError (response.go), which classifies once and logs at a severity
// matching the status class. No error is re-wrapped or re-classified
// downstream of a service.
//
// Error codes are stable and machine-readable. Resource-specific codes embed
// the resource kind reported by the domain error, e.g.:
//
//	PROJECT_NOT_FOUND, CONVERSATION_ACCESS_DENIED, PROJECT_SLUG_EXISTS
//
// Generic codes cover the rest:
//
//	UNAUTHORIZED, VALIDATION_ERROR, INTERNAL_ERROR, NOT_FOUND, METHOD_NOT_ALLOWED
//
// Example response:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "error": "project not found: 7f0b7c8e-…",
//	  "code": "PROJECT_NOT_FOUND",
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6"
//	}
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/atelierhq/go-studio-backend/internal/domain"
)

const (
	// CodeUnauthorized is returned when authentication is required and absent.
	CodeUnauthorized = "UNAUTHORIZED"
	// CodeValidation is returned when input fails schema validation; details
	// carry per-field messages.
	CodeValidation = "VALIDATION_ERROR"
	// CodeInternal is returned for any unanticipated failure. The message is
	// always the generic one; internal detail goes to logs only.
	CodeInternal = "INTERNAL_ERROR"
	// CodeRouteNotFound is used by the router's no-route fallback.
	CodeRouteNotFound = "NOT_FOUND"
	// CodeMethodNotAllowed is used by the router's no-method fallback.
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	// CodeRateLimited is emitted by the rate limiting middleware.
	CodeRateLimited = "RATE_LIMITED"
)

// internalMessage replaces the text of unclassified errors so internal detail
// never reaches a client.
const internalMessage = "Internal server error"

// Classify maps an error to its HTTP status and response body.
//
// The mapping is checked in priority order, first match wins:
//
//	Unauthorized        → 401 UNAUTHORIZED
//	NotFoundError       → 404 <RESOURCE>_NOT_FOUND   (message includes the id)
//	AccessDeniedError   → 403 <RESOURCE>_ACCESS_DENIED
//	ConflictError       → 409 <RESOURCE>_<FIELD>_EXISTS
//	ValidationError     → 400 VALIDATION_ERROR        (details.fields per field)
//	anything else       → 500 INTERNAL_ERROR          (generic message)
func Classify(err error) (int, ErrorResponse) {
	if errors.Is(err, domain.ErrUnauthorized) {
		return http.StatusUnauthorized, ErrorResponse{
			Error: "Authentication required",
			Code:  CodeUnauthorized,
		}
	}

	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		return http.StatusNotFound, ErrorResponse{
			Error: nf.Error(),
			Code:  codePrefix(nf.Resource) + "_NOT_FOUND",
		}
	}

	var ad *domain.AccessDeniedError
	if errors.As(err, &ad) {
		return http.StatusForbidden, ErrorResponse{
			Error: ad.Error(),
			Code:  codePrefix(ad.Resource) + "_ACCESS_DENIED",
		}
	}

	var cf *domain.ConflictError
	if errors.As(err, &cf) {
		return http.StatusConflict, ErrorResponse{
			Error: cf.Error(),
			Code:  codePrefix(cf.Resource) + "_" + codePrefix(cf.Field) + "_EXISTS",
		}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ErrorResponse{
			Error:   "Validation failed",
			Code:    CodeValidation,
			Details: map[string]any{"fields": ve.Fields},
		}
	}

	return http.StatusInternalServerError, ErrorResponse{
		Error: internalMessage,
		Code:  CodeInternal,
	}
}

// codePrefix normalizes a resource or field name into its error-code form:
// "project" → "PROJECT".
func codePrefix(s string) string {
	return strings.ToUpper(strings.ReplaceAll(s, " ", "_"))
}
