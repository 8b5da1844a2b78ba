// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Slot model,
// including the atomic confirm-or-fail booking update.
//
// Error semantics:
//   - When a slot is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - ConfirmSlot returns ErrSlotUnavailable when the identified slot exists
//     but has already been booked; exactly one caller can ever win the flip.
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-recruit-assistant/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrSlotUnavailable is returned by ConfirmSlot when the slot identity exists
// but its availability flag has already been flipped by another booking.
var ErrSlotUnavailable = errors.New("slot unavailable")

// SlotFilter narrows slot queries. Zero values mean "no filter".
type SlotFilter struct {
	Position      string     // exact match, case-insensitive
	Month         time.Month // calendar month of the slot date
	OnlyAvailable bool
}

// ListSlots returns slots matching the filter, ordered chronologically
// (date ASC, time ASC). The month filter relies on the canonical
// "2006-01-02" date encoding, slicing the month digits out in SQL.
func ListSlots(ctx context.Context, db *gorm.DB, f SlotFilter) ([]domain.Slot, error) {
	q := db.WithContext(ctx).Model(&domain.Slot{})
	if f.Position != "" {
		q = q.Where("LOWER(position) = LOWER(?)", f.Position)
	}
	if f.Month >= time.January && f.Month <= time.December {
		q = q.Where("CAST(SUBSTR(date, 6, 2) AS INTEGER) = ?", int(f.Month))
	}
	if f.OnlyAvailable {
		q = q.Where("available = ?", true)
	}
	var out []domain.Slot
	err := q.Order("date ASC, time_of_day ASC").Find(&out).Error
	return out, err
}

// ListSlotsPage returns a page of slots matching the filter plus the total
// count, for the administrative listing endpoint.
func ListSlotsPage(ctx context.Context, db *gorm.DB, f SlotFilter, offset, limit int) ([]domain.Slot, int64, error) {
	q := db.WithContext(ctx).Model(&domain.Slot{})
	if f.Position != "" {
		q = q.Where("LOWER(position) = LOWER(?)", f.Position)
	}
	if f.Month >= time.January && f.Month <= time.December {
		q = q.Where("CAST(SUBSTR(date, 6, 2) AS INTEGER) = ?", int(f.Month))
	}
	if f.OnlyAvailable {
		q = q.Where("available = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []domain.Slot
	err := q.Order("date ASC, time_of_day ASC").Offset(offset).Limit(limit).Find(&out).Error
	return out, total, err
}

// ListPositions returns the distinct position names present in the slot
// table, ordered alphabetically. Used to match free-text criteria against
// known roles.
func ListPositions(ctx context.Context, db *gorm.DB) ([]string, error) {
	var out []string
	err := db.WithContext(ctx).
		Model(&domain.Slot{}).
		Distinct("position").
		Order("position ASC").
		Pluck("position", &out).Error
	return out, err
}

// CountSlots returns the total number of slot rows. Used to decide whether
// startup seeding is needed.
func CountSlots(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Slot{}).Count(&total).Error
	return total, err
}

// InsertSlot inserts a slot row with a fresh UUID. Duplicate identities are
// rejected by the unique index and surface as a DB error.
func InsertSlot(ctx context.Context, db *gorm.DB, position, date, timeOfDay string, available bool) (*domain.Slot, error) {
	s := &domain.Slot{
		ID:        uuid.NewString(),
		Position:  position,
		Date:      date,
		TimeOfDay: timeOfDay,
		Available: available,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// GetSlotByKey fetches a slot by its (position, date, time) identity.
func GetSlotByKey(ctx context.Context, db *gorm.DB, key domain.SlotKey) (*domain.Slot, error) {
	var s domain.Slot
	err := db.WithContext(ctx).
		Where("LOWER(position) = LOWER(?) AND date = ? AND time_of_day = ?",
			key.Position, key.Date, key.TimeOfDay).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ConfirmSlot atomically flips the identified slot from available to booked
// and records a Booking row for the conversation, in one transaction.
//
// The UPDATE carries "available = true" in its WHERE clause, so of any number
// of concurrent confirmations on the same identity exactly one observes
// RowsAffected == 1; every other caller gets ErrSlotUnavailable (or
// ErrNotFound when the identity never existed). The booking insert rides the
// same transaction, so a booking row exists iff the flip succeeded.
func ConfirmSlot(ctx context.Context, db *gorm.DB, conversationID string, key domain.SlotKey) (*domain.Slot, error) {
	var confirmed *domain.Slot

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Slot{}).
			Where("LOWER(position) = LOWER(?) AND date = ? AND time_of_day = ? AND available = ?",
				key.Position, key.Date, key.TimeOfDay, true).
			Update("available", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Distinguish "never existed" from "lost the race".
			var count int64
			if err := tx.Model(&domain.Slot{}).
				Where("LOWER(position) = LOWER(?) AND date = ? AND time_of_day = ?",
					key.Position, key.Date, key.TimeOfDay).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrNotFound
			}
			return ErrSlotUnavailable
		}

		var s domain.Slot
		if err := tx.
			Where("LOWER(position) = LOWER(?) AND date = ? AND time_of_day = ?",
				key.Position, key.Date, key.TimeOfDay).
			First(&s).Error; err != nil {
			return err
		}

		b := &domain.Booking{
			ID:             uuid.NewString(),
			ConversationID: conversationID,
			SlotID:         s.ID,
			CreatedAt:      time.Now().UTC(),
		}
		if err := tx.Create(b).Error; err != nil {
			return err
		}
		confirmed = &s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return confirmed, nil
}

// ListBookings returns the bookings recorded for a conversation, most recent
// first, preloading the booked slot.
func ListBookings(ctx context.Context, db *gorm.DB, conversationID string) ([]domain.Booking, error) {
	var out []domain.Booking
	err := db.WithContext(ctx).
		Preload("Slot").
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}
