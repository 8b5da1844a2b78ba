// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements idempotency support for unsafe HTTP methods. Posting a
// turn to a conversation is not naturally idempotent, so clients retrying
// over flaky SMS gateways send an Idempotency-Key header. The middleware
// validates the header, optionally consults a caller-supplied lookup to spot
// previously completed requests, and annotates the request context so
// downstream handlers can:
//   - read the normalized key (GetIdempotencyKey)
//   - detect replayed requests (IsReplay)
//   - bypass rate limiting when a replay is served (internal flag)
//
// Persistence stays out of the middleware: the narrow IdempotencyLookup
// function type is the only coupling point to storage.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey is the request header clients use to convey an
// idempotency key for unsafe operations.
//
// The value must be stable for a given semantic operation so that retries,
// whether client- or network-initiated, deduplicate safely.
const HeaderIdempotencyKey = "Idempotency-Key"

// Context keys for idempotency state. Unexported; use the accessor helpers.
const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay" // bool: true when a stored replay exists
	ctxKeyRateBypass = "rate.bypass" // bool: true to skip rate limiting
)

// GetIdempotencyKey returns the validated idempotency key stashed by
// IdempotencyValidator. The second return reports presence. Handlers should
// call this rather than reading the header, so they only ever see keys that
// passed validation.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyIdemKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// IsReplay reports whether this request would replay a previously completed
// operation for the same (user, conversation, key). Handlers use it to skip
// recomputation and serve the persisted result instead.
func IsReplay(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyIdemReplay)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// IdempotencyOptions configures header validation for IdempotencyValidator.
// TTL enforcement belongs inside the lookup function, not here.
type IdempotencyOptions struct {
	// MaxLen caps the accepted key length. Values <= 0 default to 200.
	MaxLen int
	// Pattern restricts allowed characters. If nil, a conservative
	// RFC7230-like token pattern is used: ^[A-Za-z0-9._~\-:]+$
	Pattern *regexp.Regexp
}

// IdempotencyLookup answers whether a successful, still-valid result exists
// for (userID, conversationID, key) at the given time. Implementations
// typically consult a database row holding the prior response metadata and a
// TTL window.
//
// Return exists=true when the prior response can be replayed. Errors are for
// lookup failures only and must not block normal processing.
type IdempotencyLookup func(ctx context.Context, userID, conversationID, key string, now time.Time) (exists bool, err error)

// IdempotencyValidator validates the Idempotency-Key header when present,
// stashes it in the request context, and checks for a prior completed request
// via the supplied lookup.
//
// Behavior:
//   - Absent header: no-op.
//   - Invalid header: 400 with a compact error body.
//   - Lookup reports a replay: replay and rate-bypass flags are set.
//   - Otherwise the chain continues normally.
//
// It never serves a cached payload itself; handlers decide how to replay
// (e.g., by fetching the previously persisted assistant message).
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	keyPat := opts.Pattern
	if keyPat == nil {
		// RFC-7230-ish token + common safe chars.
		keyPat = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !keyPat.MatchString(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"code":    "bad_idempotency_key",
				"message": "invalid Idempotency-Key",
			})
			return
		}

		c.Set(ctxKeyIdemKey, key)

		if lookup != nil {
			uid := userIDFromCtx(c)
			conversationID := c.Param("id") // POST /conversations/:id/messages
			now := time.Now().UTC()

			if exists, _ := lookup(c.Request.Context(), uid, conversationID, key, now); exists {
				c.Set(ctxKeyIdemReplay, true)
				c.Set(ctxKeyRateBypass, true) // replays never consume rate tokens
			}
		}

		c.Next()
	}
}

// userIDFromCtx extracts the user identifier set by upstream auth middleware,
// falling back to the development identity when none is present.
func userIDFromCtx(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "demo-user"
}
