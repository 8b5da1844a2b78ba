// Message HTTP handlers.
//
// This file exposes REST endpoints for conversation messages:
//   - POST /conversations/{id}/messages   (deliver a user message, returns the assistant reply)
//   - GET  /conversations/{id}/messages   (list paginated transcript)
//
// Handlers are transport-thin:
//   - validate & normalize inputs (including newline and length constraints)
//   - delegate to the conversation service, which serializes turns per conversation
//   - implement idempotency semantics for safe retries
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous successful
// result exists for (user, conversation, key), the handler returns the recorded
// assistant reply and sets `Idempotency-Replayed: true`.
package handlers

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/go-recruit-assistant/internal/domain"
	"github.com/tbourn/go-recruit-assistant/internal/repo"
	"github.com/tbourn/go-recruit-assistant/internal/services"
	"github.com/tbourn/go-recruit-assistant/internal/utils"
)

//
// DTOs
//

// PostMessageRequest is the JSON payload for sending a user message.
//
// Content is normalized by the handler (line endings and excessive blank
// lines) before being passed to the service layer. The service also enforces
// a maximum rune count.
type PostMessageRequest struct {
	// Content is the user message. It must be non-empty.
	Content string `json:"content" binding:"required,min=1"`
}

// ReplyPayload describes a single assistant turn.
type ReplyPayload struct {
	// Text is the assistant's reply, verbatim.
	Text string `json:"text"`
	// Intent labels the routing decision that produced the reply.
	Intent string `json:"intent"`
	// End reports whether the assistant closed the conversation.
	End bool `json:"end"`
}

// PostMessageResponse is the JSON envelope for an assistant reply.
type PostMessageResponse struct {
	Reply ReplyPayload `json:"reply"`
}

// ListMessagesResponse contains a page of transcript messages and pagination
// metadata.
type ListMessagesResponse struct {
	Messages   []domain.Message `json:"messages"`
	Pagination Pagination       `json:"pagination"`
}

//
// Helpers
//

// nlCollapseRE collapses runs of 3+ newlines to two, preserving paragraphs.
var nlCollapseRE = regexp.MustCompile(`\n{3,}`)

// sanitizeContent normalizes user text for consistent downstream behavior:
//   - converts CRLF/CR to LF,
//   - collapses runs of 3+ LFs to exactly two (paragraph separation),
//   - trims surrounding whitespace.
func sanitizeContent(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = nlCollapseRE.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// discoverMaxMessageRunes inspects the concrete ConversationService for a
// configured message-length limit. If unavailable, it returns a conservative
// fallback.
func discoverMaxMessageRunes(svc ConversationService) int {
	const fallback = 4000
	if cs, ok := svc.(*services.ConversationService); ok {
		if cs.MaxMessageLen > 0 {
			return cs.MaxMessageLen
		}
	}
	return fallback
}

// terminalIntent reports whether a recorded assistant intent closed the
// conversation. Used to reconstruct the End flag on idempotent replays.
func terminalIntent(intent *string) bool {
	if intent == nil {
		return false
	}
	switch *intent {
	case "exit", "model_end":
		return true
	}
	return false
}

// middlewareGetIdempotencyKey extracts an idempotency key if an upstream
// middleware has already validated/stashed it. The fallback behavior reads
// the "Idempotency-Key" header directly when no dedicated middleware exists.
func middlewareGetIdempotencyKey(c *gin.Context) (string, bool) {
	if v := strings.TrimSpace(c.GetHeader("Idempotency-Key")); v != "" {
		return v, true
	}
	return "", false
}

//
// Handlers
//

// PostMessage delivers a user message to the assistant and returns its reply.
// Supports idempotency via the Idempotency-Key header (same key, same result).
func (h *Handlers) PostMessage(c *gin.Context) {
	ctx := c.Request.Context()
	conversationID := c.Param("id")

	if _, err := uuid.Parse(conversationID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "conversation id must be a UUID")
		return
	}

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		return
	}

	// Sanitize + early size cap to fail fast at the edge.
	content := sanitizeContent(req.Content)
	maxRunes := discoverMaxMessageRunes(h.convSvc)
	if maxRunes > 0 && utf8.RuneCountInString(content) > maxRunes {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, fmt.Sprintf("content too long: max %d runes", maxRunes))
		return
	}
	if content == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		return
	}

	currentUser := userID(c)

	// Idempotency (replay path) – read validated key if present.
	idemKey, _ := middlewareGetIdempotencyKey(c)
	if idemKey != "" && h.db != nil {
		if rec, err := repo.GetIdempotency(ctx, h.db, currentUser, conversationID, idemKey, time.Now().UTC()); err == nil && rec != nil {
			if prev, err2 := repo.GetMessage(h.db, rec.MessageID); err2 == nil {
				intent := ""
				if prev.Intent != nil {
					intent = *prev.Intent
				}
				c.Header("Idempotency-Replayed", "true")
				ok(c, http.StatusOK, PostMessageResponse{Reply: ReplyPayload{
					Text:   prev.Content,
					Intent: intent,
					End:    terminalIntent(prev.Intent),
				}})
				return
			}
		}
	}

	// Normal processing (service has a second guard for length).
	reply, err := h.convSvc.Post(ctx, currentUser, conversationID, content)
	if err != nil {
		switch err {
		case services.ErrConversationNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "conversation not found")
		case services.ErrConversationEnded:
			fail(c, http.StatusConflict, ErrCodeConflict, "conversation has ended")
		case services.ErrTooLong:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, fmt.Sprintf("content too long: max %d runes", maxRunes))
		case services.ErrEmptyMessage:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeReplyFailed, err.Error())
		}
		return
	}

	// Idempotency (store path) – best effort. The reply was persisted to the
	// transcript by the dialog engine, so the latest assistant row is the one
	// this request produced.
	if idemKey != "" && h.db != nil {
		if m, err := repo.LastAssistantMessage(h.db.WithContext(ctx), conversationID); err == nil {
			ttl := 24 * time.Hour
			_, _ = repo.CreateIdempotency(ctx, h.db, currentUser, conversationID, idemKey, m.ID, http.StatusOK, ttl)
		}
	}

	ok(c, http.StatusOK, PostMessageResponse{Reply: ReplyPayload{
		Text:   reply.Text,
		Intent: reply.Intent.String(),
		End:    reply.End,
	}})
}

// ListMessages returns a paginated transcript for the given conversation.
func (h *Handlers) ListMessages(c *gin.Context) {
	ctx := c.Request.Context()
	conversationID := c.Param("id")

	if _, err := uuid.Parse(conversationID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "conversation id must be a UUID")
		return
	}

	page, pageSize := clampMsgPagination(c)

	items, total, err := h.convSvc.Messages(ctx, userID(c), conversationID, page, pageSize)
	if err != nil {
		switch err {
		case services.ErrConversationNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "conversation not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		}
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListMessagesResponse{
		Messages: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// clampMsgPagination parses page/page_size from query parameters, applies
// transcript-friendly defaults and caps, and returns the validated
// (page, pageSize). Transcripts default to a larger page than resource lists
// so a typical conversation fits in one request.
func clampMsgPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 50
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.ClampInt(utils.AtoiDefault(c.Query("page_size"), defaultPageSize), 1, maxPageSize)
	return
}
