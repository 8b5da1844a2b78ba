package agent

import (
	"github.com/tbourn/go-recruit-assistant/internal/domain"
	"github.com/tbourn/go-recruit-assistant/internal/schedule"
)

// Stage is the scheduling state machine's position for one conversation.
type Stage int

const (
	StageIdle Stage = iota
	StageCollectingCriteria
	StageAwaitingSelection
)

func (s Stage) String() string {
	switch s {
	case StageCollectingCriteria:
		return "collecting_criteria"
	case StageAwaitingSelection:
		return "awaiting_selection"
	default:
		return "idle"
	}
}

// Session is the per-conversation mutable state. Exactly one worker
// goroutine touches a Session, so none of it is locked.
//
// Pool is a point-in-time snapshot of the matching slots: another
// conversation may book one of them between presentation and selection, and
// Confirm reports that as an ordinary failure.
type Session struct {
	ID      string
	History []string // prior user messages, append-only, oracle context

	Stage    Stage
	Criteria schedule.Criteria
	Pool     []domain.Slot
	Offset   int
}

// NewSession starts an idle session for the conversation.
func NewSession(id string) *Session {
	return &Session{ID: id}
}

// Remember appends a user message to the history after routing.
func (s *Session) Remember(message string) {
	s.History = append(s.History, message)
}

// ResetFlow drops all scheduling state and returns the session to idle.
func (s *Session) ResetFlow() {
	s.Stage = StageIdle
	s.Criteria = schedule.Criteria{}
	s.Pool = nil
	s.Offset = 0
}

// InFlow reports whether the scheduling flow currently owns inbound
// messages, bypassing the intent cascade.
func (s *Session) InFlow() bool {
	return s.Stage != StageIdle
}
