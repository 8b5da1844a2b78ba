package agent

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-recruit-assistant/internal/schedule"
)

// Fixed replies of the scheduling flow.
const (
	msgCriteriaPrompt = "Sure — what role (e.g. Python Developer) and month (e.g. March) would you like to schedule for? Or type 'exit' to cancel."
	msgCancelled      = "Scheduling canceled."
	msgNoSlots        = "I'm sorry, no available slots match your criteria."
	msgNoMoreSlots    = "No more slots available."
)

// DefaultPageSize is how many slots one menu page shows.
const DefaultPageSize = 3

// roleishRE marks a trigger message that already names its role, so the
// follow-up criteria prompt can be skipped when a month is present too.
var roleishRE = regexp.MustCompile(`\b(role|profession|position|appointment)\b`)

// Flow drives the scheduling state machine for one session at a time. It is
// stateless itself; all per-conversation state lives in the Session.
type Flow struct {
	Store    *schedule.Store
	PageSize int
}

// NewFlow builds a Flow with the default page size.
func NewFlow(store *schedule.Store) *Flow {
	return &Flow{Store: store, PageSize: DefaultPageSize}
}

// Start enters the flow on a ScheduleStart intent. When the trigger message
// already carries recognizable criteria (a month name plus a role-ish word)
// the query runs immediately; otherwise the flow prompts and waits one turn.
func (f *Flow) Start(ctx context.Context, s *Session, message string) string {
	if schedule.MentionsMonth(message) && roleishRE.MatchString(strings.ToLower(message)) {
		return f.runQuery(ctx, s, message)
	}
	s.Stage = StageCollectingCriteria
	return msgCriteriaPrompt
}

// Resume feeds the next message into an in-progress flow. The engine calls
// it whenever the session stage is not idle.
func (f *Flow) Resume(ctx context.Context, s *Session, message string) string {
	switch s.Stage {
	case StageCollectingCriteria:
		return f.handleCriteria(ctx, s, message)
	case StageAwaitingSelection:
		return f.handleSelection(ctx, s, message)
	default:
		// Stale stage value; recover by restarting.
		s.ResetFlow()
		return f.Start(ctx, s, message)
	}
}

func (f *Flow) handleCriteria(ctx context.Context, s *Session, message string) string {
	if IsExitKeyword(message) {
		s.ResetFlow()
		return msgCancelled
	}
	return f.runQuery(ctx, s, message)
}

// runQuery parses criteria from the message, snapshots the matching pool and
// presents the first page. An empty pool ends the flow with the no-slots
// reply; so does a store failure, which is logged but never crashes the
// conversation.
func (f *Flow) runQuery(ctx context.Context, s *Session, message string) string {
	positions, err := f.Store.Positions(ctx)
	if err != nil {
		log.Error().Err(err).Str("conversation_id", s.ID).Msg("loading positions failed")
		s.ResetFlow()
		return msgNoSlots
	}
	criteria := schedule.ParseCriteria(message, positions)

	pool, err := f.Store.Query(ctx, criteria)
	if err != nil {
		log.Error().Err(err).Str("conversation_id", s.ID).Msg("slot query failed")
		s.ResetFlow()
		return msgNoSlots
	}
	if len(pool) == 0 {
		s.ResetFlow()
		return msgNoSlots
	}

	s.Criteria = criteria
	s.Pool = pool
	s.Offset = 0
	s.Stage = StageAwaitingSelection
	return schedule.PageAt(s.Pool, s.Offset, f.PageSize).Render()
}

func (f *Flow) handleSelection(ctx context.Context, s *Session, message string) string {
	if IsExitKeyword(message) {
		s.ResetFlow()
		return msgCancelled
	}

	choice, err := strconv.Atoi(strings.TrimSpace(message))
	if err != nil {
		return f.invalidChoice()
	}

	switch {
	case choice == f.PageSize+1:
		s.Offset += f.PageSize
		if s.Offset >= len(s.Pool) {
			s.ResetFlow()
			return msgNoMoreSlots
		}
		return schedule.PageAt(s.Pool, s.Offset, f.PageSize).Render()

	case choice >= 1 && choice <= f.PageSize:
		page := schedule.PageAt(s.Pool, s.Offset, f.PageSize)
		slot, ok := page.SlotForChoice(s.Pool, choice)
		if !ok {
			// Near the pool end a low number can still point past it;
			// reprompt rather than clamp.
			return f.invalidChoice()
		}
		confirmed, err := f.Store.Confirm(ctx, s.ID, slot.Key())
		if err != nil {
			// Lost the race (or the slot vanished): an ordinary outcome,
			// the user can re-query.
			log.Info().Err(err).Str("conversation_id", s.ID).Str("slot", slot.Key().String()).
				Msg("slot confirm failed")
			s.ResetFlow()
			return msgNoSlots
		}
		s.ResetFlow()
		bookingsConfirmed.Inc()
		return fmt.Sprintf("Your %s appointment is confirmed for %s at %s.",
			confirmed.Position, confirmed.Date, confirmed.TimeOfDay)

	default:
		return f.invalidChoice()
	}
}

func (f *Flow) invalidChoice() string {
	return fmt.Sprintf("Invalid choice. Please enter 1-%d or 'exit'.", f.PageSize+1)
}
