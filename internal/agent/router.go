package agent

import (
	"context"
	"strings"

	"github.com/tbourn/go-recruit-assistant/internal/exit"
)

// Keyword sets for the deterministic cascade steps. Exit and greeting are
// exact matches on the whole normalized message; scheduling and info are
// substring matches.
var (
	exitKeywords = map[string]struct{}{
		"exit": {}, "quit": {}, "bye": {},
	}
	greetingKeywords = map[string]struct{}{
		"hi": {}, "hello": {}, "hey": {}, "shalom": {}, "שלום": {},
	}
	schedulePhrases = []string{
		"schedule", "appointment", "interview", "meeting", "book", "booking", "set a meeting",
	}
	infoWords = []string{
		"who", "what", "how", "when", "where", "why", "which",
		"explain", "detail", "clarify", "clarification",
		"responsibility", "responsibilities",
	}
)

// normalize lower-cases and trims a message for matching.
func normalize(message string) string {
	return strings.ToLower(strings.TrimSpace(message))
}

// IsExitKeyword reports whether the whole message is one of the exit words.
// The scheduling flow uses it for in-flow cancellation.
func IsExitKeyword(message string) bool {
	_, ok := exitKeywords[normalize(message)]
	return ok
}

// Router maps one inbound message to an Intent via a fixed-priority cascade.
// The cheap deterministic checks run before the learned end-of-conversation
// check: a user who types an exact exit word always exits, regardless of
// classifier noise.
type Router struct {
	Exit *exit.Advisor
}

// Route decides what to do with message. history is the ordered list of
// prior user messages in this conversation; the caller appends the current
// message after routing. Route never fails: oracle trouble inside the exit
// advisor degrades to continuing the conversation.
func (r *Router) Route(ctx context.Context, message string, history []string) Intent {
	low := normalize(message)

	if _, ok := exitKeywords[low]; ok {
		return IntentExit
	}
	if _, ok := greetingKeywords[low]; ok {
		return IntentGreeting
	}
	for _, kw := range schedulePhrases {
		if strings.Contains(low, kw) {
			return IntentScheduleStart
		}
	}
	for _, kw := range infoWords {
		if strings.Contains(low, kw) {
			return IntentInfoQuery
		}
	}
	if r.Exit != nil && r.Exit.ShouldEnd(ctx, history, message) {
		return IntentModelEnd
	}
	return IntentFallback
}
