// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// Conversation model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-recruit-assistant/internal/domain"
)

// CreateConversation inserts a new Conversation row owned by userID. The ID
// is a randomly generated UUID and CreatedAt is set to UTC.
func CreateConversation(ctx context.Context, db *gorm.DB, userID string) (*domain.Conversation, error) {
	c := &domain.Conversation{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// GetConversation fetches a single conversation by its ID and owner. If the
// record does not exist, it returns ErrNotFound.
func GetConversation(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Conversation, error) {
	var c domain.Conversation
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CountConversations returns the total number of conversations owned by userID.
func CountConversations(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListConversationsPage returns a paginated slice of conversations for
// userID, ordered by creation time descending. The caller computes offset
// and limit (e.g., (page-1)*pageSize).
func ListConversationsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Conversation, error) {
	var out []domain.Conversation
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// MarkConversationEnded stamps EndedAt on a conversation without owner
// scoping. The conversation engine calls it when a dialog reaches a terminal
// farewell; it is idempotent like EndConversation.
func MarkConversationEnded(ctx context.Context, db *gorm.DB, id string, at time.Time) error {
	return db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ? AND ended_at IS NULL", id).
		Update("ended_at", at.UTC()).Error
}

// EndConversation stamps EndedAt on a conversation. It is idempotent: a
// conversation already ended keeps its original timestamp. Returns
// ErrNotFound when the conversation does not exist or is not owned by userID.
func EndConversation(ctx context.Context, db *gorm.DB, id, userID string, at time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ? AND user_id = ? AND ended_at IS NULL", id, userID).
		Update("ended_at", at.UTC())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Either missing or already ended; treat "already ended" as success.
		var count int64
		if err := db.WithContext(ctx).
			Model(&domain.Conversation{}).
			Where("id = ? AND user_id = ?", id, userID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}
