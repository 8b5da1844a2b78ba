// Package domain defines the persistence models for interview slots,
// conversations, messages, and bookings. These types are mapped with GORM
// and form the core data layer of the recruitment assistant.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Conversation represents a single candidate dialog. Exactly one in-process
// session exists per conversation while it is active; the row outlives the
// session and keeps the transcript addressable.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - UserID: identifier of the candidate (e.g. phone-derived); indexed.
//   - EndedAt: set once when the dialog reaches a terminal farewell.
type Conversation struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string         `json:"user_id"    gorm:"type:varchar(64);not null;index:idx_user_convs"`
	EndedAt   *time.Time     `json:"ended_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for Conversation.
func (Conversation) TableName() string { return "conversations" }

// Message represents a single utterance within a conversation, authored by
// either the "user" or the "assistant". Assistant messages record the intent
// the router decided for the triggering user message, which makes transcripts
// auditable and feeds the offline evaluation tooling.
type Message struct {
	ID             string         `json:"id"               gorm:"type:char(36);primaryKey"`
	ConversationID string         `json:"conversation_id"  gorm:"type:char(36);not null;index:idx_conv_msgs,priority:1"`
	Role           string         `json:"role"             gorm:"type:varchar(16);not null;check:role IN ('user','assistant')"`
	Content        string         `json:"content"          gorm:"type:text;not null"`
	Intent         *string        `json:"intent,omitempty" gorm:"type:varchar(32)"` // only for assistant messages
	CreatedAt      time.Time      `json:"created_at"       gorm:"index:idx_conv_msgs,priority:2"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-"                gorm:"index"`

	// Conversation is the parent dialog. Messages are cascade-deleted if
	// their conversation is removed.
	Conversation Conversation `json:"-" gorm:"foreignKey:ConversationID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }

// Booking records a confirmed slot for a conversation. It is inserted in the
// same transaction that flips the slot's Available flag, so a booking row
// exists if and only if the flip succeeded.
type Booking struct {
	ID             string    `json:"id"              gorm:"type:char(36);primaryKey"`
	ConversationID string    `json:"conversation_id" gorm:"type:char(36);not null;index"`
	SlotID         string    `json:"slot_id"         gorm:"type:char(36);not null;uniqueIndex:ux_booking_slot"`
	CreatedAt      time.Time `json:"created_at"`

	Slot Slot `json:"-" gorm:"foreignKey:SlotID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Booking.
func (Booking) TableName() string { return "bookings" }
