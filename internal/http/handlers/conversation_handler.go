// Conversation HTTP handlers.
//
// This file exposes REST endpoints for conversation resources:
//   - POST /conversations        (open a conversation, returns the welcome line)
//   - GET  /conversations        (list, paginated)
//   - GET  /conversations/{id}   (fetch a single conversation)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-recruit-assistant/internal/agent"
	"github.com/tbourn/go-recruit-assistant/internal/domain"
	"github.com/tbourn/go-recruit-assistant/internal/services"
	"github.com/tbourn/go-recruit-assistant/internal/utils"
)

//
// Service contracts (context-aware)
//

// ConversationService defines conversation lifecycle operations consumed by
// the HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ConversationService interface {
	// Create opens a new conversation for userID and returns it together
	// with the assistant's welcome line.
	Create(ctx context.Context, userID string) (*domain.Conversation, string, error)
	// ListPage returns a page of the user's conversations and the total count.
	ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Conversation, int64, error)
	// Get fetches a conversation that belongs to userID.
	Get(ctx context.Context, userID, conversationID string) (*domain.Conversation, error)
	// Messages returns a page of the conversation transcript and the total count.
	Messages(ctx context.Context, userID, conversationID string, page, pageSize int) ([]domain.Message, int64, error)
	// Post delivers a user message to the assistant and returns its reply.
	Post(ctx context.Context, userID, conversationID, text string) (agent.Reply, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for conversations, messages, and slots.
// It depends on an abstract service interface to keep transport concerns
// separate from dialog logic; the database handle serves read-only slot
// listings and idempotency bookkeeping.
type Handlers struct {
	convSvc ConversationService
	db      *gorm.DB
}

// New constructs a Handlers instance bound to the given service and database.
func New(convSvc ConversationService, db *gorm.DB) *Handlers {
	return &Handlers{convSvc: convSvc, db: db}
}

// userID extracts the authenticated user id from Gin context (set by upstream
// middleware). If absent, it falls back to "X-User-ID" header (tests use it),
// and finally to "demo-user". It never touches c.Request if it's nil.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

//
// DTOs
//

// CreateConversationResponse wraps a freshly opened conversation and the
// assistant's welcome line, which clients should render as the first
// assistant message.
type CreateConversationResponse struct {
	Conversation *domain.Conversation `json:"conversation"`
	Welcome      string               `json:"welcome"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListConversationsResponse wraps a page of conversations and pagination
// information.
type ListConversationsResponse struct {
	Conversations []domain.Conversation `json:"conversations"`
	Pagination    Pagination            `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.ClampInt(utils.AtoiDefault(c.Query("page_size"), defaultPageSize), 1, maxPageSize)
	return
}

//
// Handlers
//

// CreateConversation opens a conversation for the current user and returns
// the resource plus the welcome line.
func (h *Handlers) CreateConversation(c *gin.Context) {
	conv, welcome, err := h.convSvc.Create(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		return
	}
	ok(c, http.StatusCreated, CreateConversationResponse{Conversation: conv, Welcome: welcome})
}

// ListConversations returns a page of the user's conversations.
func (h *Handlers) ListConversations(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)

	items, total, err := h.convSvc.ListPage(ctx, userID(c), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListConversationsResponse{
		Conversations: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// GetConversation fetches a single conversation owned by the current user.
func (h *Handlers) GetConversation(c *gin.Context) {
	conversationID := c.Param("id")
	if _, err := uuid.Parse(conversationID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "conversation id must be a UUID")
		return
	}

	conv, err := h.convSvc.Get(c.Request.Context(), userID(c), conversationID)
	if err != nil {
		if err == services.ErrConversationNotFound {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "conversation not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, conv)
}
