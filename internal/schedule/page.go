package schedule

import (
	"fmt"
	"strings"

	"github.com/tbourn/go-recruit-assistant/internal/domain"
)

// Page is one fixed-size window into a pool snapshot.
type Page struct {
	Slots  []domain.Slot // at most Size entries, starting at Offset
	Offset int
	Size   int
}

// PageAt slices the window of up to size slots starting at offset. It never
// panics on an offset past the end; the caller checks HasSlots.
func PageAt(pool []domain.Slot, offset, size int) Page {
	p := Page{Offset: offset, Size: size}
	if offset < 0 || offset >= len(pool) {
		return p
	}
	end := offset + size
	if end > len(pool) {
		end = len(pool)
	}
	p.Slots = pool[offset:end]
	return p
}

// HasSlots reports whether the window contains anything to present.
func (p Page) HasSlots() bool { return len(p.Slots) > 0 }

// Render formats the window as a numbered menu:
//
//	1. 2025-03-04 10:00 (Python Developer)
//	2. ...
//	4. See more / none of these apply.
//
// Numbering restarts at 1 on every page; the trailing entry is always
// Size+1 regardless of how many slots the final page holds.
func (p Page) Render() string {
	var b strings.Builder
	for i, s := range p.Slots {
		fmt.Fprintf(&b, "%d. %s %s (%s)\n", i+1, s.Date, s.TimeOfDay, s.Position)
	}
	fmt.Fprintf(&b, "%d. See more / none of these apply.", p.Size+1)
	return b.String()
}

// SlotForChoice resolves a 1-based menu choice against the full pool. The
// bool result is false when the choice points past the end of the pool,
// which can happen on the last page.
func (p Page) SlotForChoice(pool []domain.Slot, choice int) (domain.Slot, bool) {
	idx := p.Offset + choice - 1
	if choice < 1 || choice > p.Size || idx >= len(pool) {
		return domain.Slot{}, false
	}
	return pool[idx], true
}
