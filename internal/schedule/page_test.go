package schedule

import (
	"strings"
	"testing"

	"github.com/tbourn/go-recruit-assistant/internal/domain"
)

func sevenSlots() []domain.Slot {
	out := make([]domain.Slot, 0, 7)
	days := []string{"01", "02", "03", "04", "05", "06", "07"}
	for _, d := range days {
		out = append(out, domain.Slot{
			Position: "Python Developer", Date: "2025-03-" + d, TimeOfDay: "10:00",
		})
	}
	return out
}

func TestPageAt_WindowsOfThree(t *testing.T) {
	pool := sevenSlots()

	for _, tc := range []struct {
		offset, wantLen int
	}{
		{0, 3}, {3, 3}, {6, 1}, {9, 0}, {-1, 0},
	} {
		p := PageAt(pool, tc.offset, 3)
		if len(p.Slots) != tc.wantLen {
			t.Errorf("offset %d: %d slots, want %d", tc.offset, len(p.Slots), tc.wantLen)
		}
		if p.HasSlots() != (tc.wantLen > 0) {
			t.Errorf("offset %d: HasSlots = %v", tc.offset, p.HasSlots())
		}
	}
}

func TestPageRender(t *testing.T) {
	p := PageAt(sevenSlots(), 3, 3)
	got := p.Render()

	lines := strings.Split(got, "\n")
	if len(lines) != 4 {
		t.Fatalf("rendered %d lines, want 4:\n%s", len(lines), got)
	}
	if lines[0] != "1. 2025-03-04 10:00 (Python Developer)" {
		t.Errorf("first entry = %q", lines[0])
	}
	if lines[3] != "4. See more / none of these apply." {
		t.Errorf("menu tail = %q", lines[3])
	}
}

func TestSlotForChoice(t *testing.T) {
	pool := sevenSlots()
	last := PageAt(pool, 6, 3) // one real entry on this page

	if s, ok := last.SlotForChoice(pool, 1); !ok || s.Date != "2025-03-07" {
		t.Errorf("choice 1 = %+v ok=%v", s, ok)
	}
	if _, ok := last.SlotForChoice(pool, 2); ok {
		t.Error("choice 2 past the pool end should be rejected")
	}
	if _, ok := last.SlotForChoice(pool, 0); ok {
		t.Error("choice 0 should be rejected")
	}
	if _, ok := last.SlotForChoice(pool, 4); ok {
		t.Error("the see-more entry is not a slot choice")
	}
}
