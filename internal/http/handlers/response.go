// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response utilities used across all
// endpoints: a uniform error envelope, the respondError funnel that pairs
// classification with severity-matched logging, and small success helpers.
//
// Conventions:
//   - Every failure goes through respondError exactly once; handlers never
//     build error bodies by hand.
//   - 4xx classifications log at warn, 5xx at error, always with the
//     request-scoped logger so lines carry the correlation id.
//   - ok() and noContent() keep success responses consistent.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atelierhq/go-studio-backend/internal/http/middleware"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
//
// Error is the human-readable message (safe for display); Code is the stable,
// machine-readable identifier clients branch on; Details carries structured
// context where it exists (validation field messages). RequestID echoes the
// X-Request-ID header so clients can correlate with server logs.
type ErrorResponse struct {
	Error     string         `json:"error"`
	Code      string         `json:"code"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

// respondError classifies err, logs it at a severity matching the status
// class, and aborts the request with the structured envelope.
//
// The original error text for 5xx responses is available only in the log
// line; the body carries the generic internal message.
func respondError(c *gin.Context, err error) {
	status, body := Classify(err)
	body.RequestID = c.Writer.Header().Get("X-Request-ID")

	lg := middleware.LoggerFrom(c)
	switch {
	case status >= http.StatusInternalServerError:
		lg.Error().
			Err(err).
			Int("status", status).
			Str("code", body.Code).
			Msg("api error")
	default:
		lg.Warn().
			Int("status", status).
			Str("code", body.Code).
			Str("message", body.Error).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, body)
}

// RespondError is the exported variant of respondError for use outside the
// package (router fallbacks).
func RespondError(c *gin.Context, err error) { respondError(c, err) }

// fail aborts the request with an explicit status/code/message, bypassing
// classification. Used where no domain error exists (route fallbacks,
// malformed JSON bodies).
func fail(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     msg,
		Code:      code,
		RequestID: c.Writer.Header().Get("X-Request-ID"),
	})
}

// Fail is the exported variant of fail().
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes a success JSON response with the given status code.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// noContent writes an HTTP 204 No Content response.
func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
