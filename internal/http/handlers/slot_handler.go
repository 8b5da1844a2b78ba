// Slot HTTP handlers.
//
// This file exposes the read-only slot listing endpoint:
//   - GET /slots   (list, filterable by position / month / availability, paginated)
//
// The endpoint serves the raw slot pool for dashboards and debugging; the
// conversational flow itself goes through the message endpoint.
package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-recruit-assistant/internal/domain"
	"github.com/tbourn/go-recruit-assistant/internal/repo"
)

// ListSlotsResponse wraps a page of slots and pagination information.
type ListSlotsResponse struct {
	Slots      []domain.Slot `json:"slots"`
	Pagination Pagination    `json:"pagination"`
}

// parseMonthParam accepts either a month number ("3") or an English month
// name ("march", case-insensitive). It returns 0 when the value is absent or
// unrecognized.
func parseMonthParam(raw string) time.Month {
	s := strings.TrimSpace(strings.ToLower(raw))
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= 12 {
			return time.Month(n)
		}
		return 0
	}
	for m := time.January; m <= time.December; m++ {
		if strings.ToLower(m.String()) == s {
			return m
		}
	}
	return 0
}

// ListSlots returns a page of interview slots. Query parameters:
//
//	position   exact position name (case-insensitive)
//	month      month number or English name
//	available  "true" restricts to open slots (default lists all)
func (h *Handlers) ListSlots(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)

	f := repo.SlotFilter{
		Position:      strings.TrimSpace(c.Query("position")),
		Month:         parseMonthParam(c.Query("month")),
		OnlyAvailable: strings.EqualFold(strings.TrimSpace(c.Query("available")), "true"),
	}

	items, total, err := repo.ListSlotsPage(ctx, h.db, f, (page-1)*pageSize, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListSlotsResponse{
		Slots: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}
