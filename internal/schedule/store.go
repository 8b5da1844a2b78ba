// Package schedule exposes the bookable slot pool to the conversation engine.
// It layers query-criteria parsing, the future-or-all temporal cutoff and the
// booking confirm contract over the persistence layer in internal/repo.
package schedule

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-recruit-assistant/internal/domain"
	"github.com/tbourn/go-recruit-assistant/internal/repo"
)

// ErrSlotTaken is returned by Confirm when the slot was already booked, by
// this or any other conversation.
var ErrSlotTaken = errors.New("slot already booked")

// Store is the process-wide slot pool. All conversations share one Store;
// reads run in parallel through the pooled connections and Confirm is
// linearizable per slot identity.
//
// Clock is a seam for tests; when nil, time.Now is used.
type Store struct {
	DB    *gorm.DB
	Clock func() time.Time
}

func (s *Store) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// Positions returns the distinct position names present in the pool. The
// result feeds criteria parsing, which matches user text against it.
func (s *Store) Positions(ctx context.Context) ([]string, error) {
	return repo.ListPositions(ctx, s.DB)
}

// Query returns the available slots matching c, sorted ascending by
// (date, time). When any matching slot starts at or after now the result is
// restricted to those; otherwise the full matching set is returned so a
// stale schedule still yields options instead of a dead end.
//
// The returned slice is a snapshot: a slot in it may be booked by another
// conversation before this one selects it, and Confirm will say so.
func (s *Store) Query(ctx context.Context, c Criteria) ([]domain.Slot, error) {
	slots, err := repo.ListSlots(ctx, s.DB, repo.SlotFilter{
		Position:      c.Position,
		Month:         c.Month,
		OnlyAvailable: true,
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	future := make([]domain.Slot, 0, len(slots))
	for _, sl := range slots {
		if at, err := sl.StartAt(); err == nil && !at.Before(now) {
			future = append(future, sl)
		}
	}
	if len(future) > 0 {
		return future, nil
	}
	return slots, nil
}

// Confirm atomically books the slot identified by key on behalf of the given
// conversation. Exactly one caller ever wins a given identity; later or
// concurrent attempts get ErrSlotTaken. A key that matches no slot at all is
// also reported as ErrSlotTaken: from the caller's side a vanished slot and a
// booked slot are the same recoverable outcome.
func (s *Store) Confirm(ctx context.Context, conversationID string, key domain.SlotKey) (*domain.Slot, error) {
	slot, err := repo.ConfirmSlot(ctx, s.DB, conversationID, key)
	if err != nil {
		if errors.Is(err, repo.ErrSlotUnavailable) || errors.Is(err, repo.ErrNotFound) {
			return nil, ErrSlotTaken
		}
		return nil, err
	}
	return slot, nil
}
