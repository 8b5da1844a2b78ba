package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-recruit-assistant/internal/repo"
)

// TranscriptStore persists the message exchange on behalf of the dialog
// engine. It implements agent.Transcript.
type TranscriptStore struct {
	DB *gorm.DB
}

// RecordUser stores one inbound user message.
func (t *TranscriptStore) RecordUser(ctx context.Context, conversationID, content string) error {
	_, err := repo.CreateMessage(t.DB.WithContext(ctx), conversationID, "user", content, nil)
	return err
}

// RecordAssistant stores one assistant reply together with the routed intent.
func (t *TranscriptStore) RecordAssistant(ctx context.Context, conversationID, content, intent string) error {
	_, err := repo.CreateMessage(t.DB.WithContext(ctx), conversationID, "assistant", content, &intent)
	return err
}

// End stamps the conversation as finished. Idempotent.
func (t *TranscriptStore) End(ctx context.Context, conversationID string) error {
	return repo.MarkConversationEnded(ctx, t.DB, conversationID, time.Now())
}
