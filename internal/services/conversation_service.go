// Package services – ConversationService
//
// This file implements the ConversationService, which manages conversation
// lifecycle and message posting. It validates inbound text, enforces
// ownership rules, coordinates repository operations for creating and
// listing conversations, and hands accepted messages to the dialog engine.
//
// Service-level errors (e.g., ErrConversationNotFound) are returned for
// predictable cases so handlers can map them to HTTP results consistently.
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/tbourn/go-recruit-assistant/internal/agent"
	"github.com/tbourn/go-recruit-assistant/internal/domain"
	"github.com/tbourn/go-recruit-assistant/internal/repo"
)

// Dialog is the slice of the conversation engine the service needs.
type Dialog interface {
	Handle(ctx context.Context, conversationID, text string) (agent.Reply, error)
}

// ConversationService provides conversation-level operations: creating,
// listing, reading transcripts, and posting messages.
type ConversationService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Engine processes accepted user messages.
	Engine Dialog

	// MaxMessageLen caps posted messages by rune length.
	MaxMessageLen int
}

// NewConversationService constructs a ConversationService with a sane
// message length cap.
func NewConversationService(db *gorm.DB, engine Dialog) *ConversationService {
	return &ConversationService{DB: db, Engine: engine, MaxMessageLen: 4000}
}

// Create starts a new conversation owned by userID and records the fixed
// welcome message as the first assistant turn.
func (s *ConversationService) Create(ctx context.Context, userID string) (*domain.Conversation, string, error) {
	c, err := repo.CreateConversation(ctx, s.DB, userID)
	if err != nil {
		return nil, "", err
	}
	intent := agent.IntentGreeting.String()
	if _, err := repo.CreateMessage(s.DB.WithContext(ctx), c.ID, "assistant", agent.WelcomeMessage, &intent); err != nil {
		return nil, "", err
	}
	return c, agent.WelcomeMessage, nil
}

// ListPage returns a page of the user's conversations plus the total count.
// It applies defaults for invalid page/pageSize.
func (s *ConversationService) ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Conversation, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountConversations(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Conversation{}, 0, nil
	}

	items, err := repo.ListConversationsPage(ctx, s.DB, userID, offset, pageSize)
	return items, total, err
}

// Get fetches one conversation, enforcing ownership.
func (s *ConversationService) Get(ctx context.Context, userID, conversationID string) (*domain.Conversation, error) {
	c, err := repo.GetConversation(ctx, s.DB, conversationID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return c, nil
}

// Messages returns a page of the conversation transcript in chronological
// order, after verifying the conversation belongs to the user.
func (s *ConversationService) Messages(ctx context.Context, userID, conversationID string, page, pageSize int) ([]domain.Message, int64, error) {
	if _, err := s.Get(ctx, userID, conversationID); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	offset := (page - 1) * pageSize

	db := s.DB.WithContext(ctx)
	total, err := repo.CountMessages(db, conversationID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Message{}, 0, nil
	}
	items, err := repo.ListMessagesPage(db, conversationID, offset, pageSize)
	return items, total, err
}

// Post validates and delivers one user message to the dialog engine,
// returning the assistant's reply. Messages to an ended conversation are
// rejected with ErrConversationEnded.
func (s *ConversationService) Post(ctx context.Context, userID, conversationID, text string) (agent.Reply, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return agent.Reply{}, ErrEmptyMessage
	}
	if s.MaxMessageLen > 0 && utf8.RuneCountInString(trimmed) > s.MaxMessageLen {
		return agent.Reply{}, ErrTooLong
	}

	c, err := s.Get(ctx, userID, conversationID)
	if err != nil {
		return agent.Reply{}, err
	}
	if c.EndedAt != nil {
		return agent.Reply{}, ErrConversationEnded
	}

	reply, err := s.Engine.Handle(ctx, conversationID, trimmed)
	if err != nil {
		if errors.Is(err, agent.ErrEmptyMessage) {
			return agent.Reply{}, ErrEmptyMessage
		}
		return agent.Reply{}, err
	}
	return reply, nil
}
