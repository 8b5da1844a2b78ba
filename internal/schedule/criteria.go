package schedule

import (
	"regexp"
	"strings"
	"time"
)

// Criteria is the parsed slot filter for one scheduling request. Zero values
// mean "no filter": empty Position matches every role, Month 0 every month.
// Criteria are derived per request and never persisted.
type Criteria struct {
	Position string
	Month    time.Month
}

// IsZero reports whether no filter at all was recognized.
func (c Criteria) IsZero() bool {
	return c.Position == "" && c.Month == 0
}

var monthRe = regexp.MustCompile(`\b(january|february|march|april|may|june|july|august|september|october|november|december)\b`)

var monthByName = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// ParseCriteria extracts a position and month filter from free text.
// Positions are matched case-insensitively as substrings, first match wins;
// the month is the first full English month name present as a whole word.
// Anything unrecognized simply leaves that filter unset.
func ParseCriteria(query string, positions []string) Criteria {
	low := strings.ToLower(query)

	var c Criteria
	for _, p := range positions {
		if p != "" && strings.Contains(low, strings.ToLower(p)) {
			c.Position = p
			break
		}
	}
	if m := monthRe.FindString(low); m != "" {
		c.Month = monthByName[m]
	}
	return c
}

var monthWordRe = regexp.MustCompile(`\bmonth\b`)

// MentionsMonth reports whether text names a full English month, or the bare
// word "month" ("this month", "any month"), as a whole word. Used to decide
// whether a scheduling trigger already carries inline criteria or a follow-up
// prompt is needed; the bare word passes the gate but sets no month filter.
func MentionsMonth(text string) bool {
	low := strings.ToLower(text)
	return monthRe.MatchString(low) || monthWordRe.MatchString(low)
}
