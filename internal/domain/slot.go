// Package domain defines the persistence models for interview slots,
// conversations, messages, and bookings. These types are mapped with GORM
// and form the core data layer of the recruitment assistant.
package domain

import (
	"fmt"
	"time"
)

// Slot represents a single bookable interview unit. Its identity is the
// (position, date, time) triple; Available is the only mutable field and is
// flipped to false exactly once when a booking is confirmed. The column has
// no default: every insert states the flag explicitly, so rows imported as
// already booked stay booked.
//
// Date and TimeOfDay are stored as normalized strings ("2006-01-02" and
// "15:04") so that identity comparison is plain value equality and
// ORDER BY date, time_of_day yields chronological order.
type Slot struct {
	ID        string    `json:"id"          gorm:"type:char(36);primaryKey"`
	Position  string    `json:"position"    gorm:"type:varchar(128);not null;uniqueIndex:ux_slot_identity,priority:1"`
	Date      string    `json:"date"        gorm:"type:varchar(10);not null;uniqueIndex:ux_slot_identity,priority:2"`
	TimeOfDay string    `json:"time"        gorm:"column:time_of_day;type:varchar(5);not null;uniqueIndex:ux_slot_identity,priority:3"`
	Available bool      `json:"available"   gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Slot.
func (Slot) TableName() string { return "slots" }

// Key returns the immutable identity of the slot.
func (s Slot) Key() SlotKey {
	return SlotKey{Position: s.Position, Date: s.Date, TimeOfDay: s.TimeOfDay}
}

// StartAt combines the date and time-of-day columns into a single local
// timestamp. It returns an error when either component is malformed.
func (s Slot) StartAt() (time.Time, error) {
	return time.ParseInLocation(slotLayout, s.Date+" "+s.TimeOfDay, time.Local)
}

// Month returns the calendar month of the slot date, or 0 when the date
// cannot be parsed.
func (s Slot) Month() time.Month {
	t, err := time.ParseInLocation(dateLayout, s.Date, time.Local)
	if err != nil {
		return 0
	}
	return t.Month()
}

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
	slotLayout = dateLayout + " " + timeLayout
)

// SlotKey is the structured identity of a slot, compared by value. It is the
// unit of contention for booking: at most one confirm per key ever succeeds.
type SlotKey struct {
	Position  string
	Date      string
	TimeOfDay string
}

// String renders the key for logs and error messages.
func (k SlotKey) String() string {
	return fmt.Sprintf("%s %s (%s)", k.Date, k.TimeOfDay, k.Position)
}

// NormalizeDate parses the given value in "2006-01-02" form and returns it
// re-rendered in the canonical layout, so stored dates compare reliably.
func NormalizeDate(v string) (string, error) {
	t, err := time.ParseInLocation(dateLayout, v, time.Local)
	if err != nil {
		return "", err
	}
	return t.Format(dateLayout), nil
}

// NormalizeTimeOfDay accepts "15:04" or "15:04:05" and returns the canonical
// "15:04" form.
func NormalizeTimeOfDay(v string) (string, error) {
	if t, err := time.Parse("15:04:05", v); err == nil {
		return t.Format(timeLayout), nil
	}
	t, err := time.Parse(timeLayout, v)
	if err != nil {
		return "", err
	}
	return t.Format(timeLayout), nil
}
