// Package handlers provides HTTP handler implementations for the public API.
//
// This file holds the response helpers every endpoint goes through: a single
// error envelope, and small wrappers for success bodies. Routing all output
// through these keeps the wire shape uniform whether the request failed in a
// handler, a middleware, or the dialog layer.
//
// Conventions:
//   - Error responses are always an ErrorResponse with a stable `code`.
//   - fail() is the one place 5xx errors get logged with request context.
//   - ok() / noContent() write success responses.
//
// Example error response:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "not_found",
//	  "message": "resource not found"
//	}
//
// Example success response:
//
//	HTTP/1.1 200 OK
//	{ "id": "abc123", "started_at": "2025-03-01T10:00:00Z" }
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-recruit-assistant/internal/http/middleware"
)

// ErrorResponse is the error envelope returned by every endpoint.
//
// RequestID echoes the X-Request-ID header so a client error can be matched
// to server logs. Code is a stable machine-readable string (see errors.go);
// Message is human-readable and safe to surface to end users.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"resource not found"`
}

// fail aborts the request with a structured error envelope.
//
// The response is written via AbortWithStatusJSON so no later handler can
// append to it. Statuses >= 500 are additionally logged through the
// request-scoped logger, since those are the ones operators page on.
func fail(c *gin.Context, status int, code, msg string) {
	resp := ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	}

	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail() for callers outside this package
// (the router's NoRoute/NoMethod handlers use it).
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes body as JSON with the given status.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// noContent writes an HTTP 204 No Content response.
func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
