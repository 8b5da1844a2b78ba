package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/tbourn/go-recruit-assistant/internal/exit"
)

type stubOracle struct {
	p     float64
	err   error
	calls int
}

func (s *stubOracle) PredictEndProbability(context.Context, []string, string) (float64, error) {
	s.calls++
	return s.p, s.err
}

func newTestRouter(oracle exit.Oracle) *Router {
	return &Router{Exit: exit.NewAdvisor(oracle)}
}

func TestRoute_ExitBeatsEverything(t *testing.T) {
	oracle := &stubOracle{p: 1.0}
	r := newTestRouter(oracle)
	ctx := context.Background()

	for _, msg := range []string{"exit", "EXIT", "  Quit  ", "bye", "ByE\t"} {
		if got := r.Route(ctx, msg, nil); got != IntentExit {
			t.Errorf("Route(%q) = %v, want exit", msg, got)
		}
	}
	if oracle.calls != 0 {
		t.Errorf("oracle consulted %d times for exact exit words", oracle.calls)
	}
}

func TestRoute_GreetingIsExactMatch(t *testing.T) {
	r := newTestRouter(&stubOracle{p: 0})
	ctx := context.Background()

	for _, msg := range []string{"hi", "Hello", "HEY", "shalom", "שלום"} {
		if got := r.Route(ctx, msg, nil); got != IntentGreeting {
			t.Errorf("Route(%q) = %v, want greeting", msg, got)
		}
	}
	// "hi there" fails exact equality and falls through the cascade; it does
	// not contain a scheduling or info word either.
	if got := r.Route(ctx, "hi there", nil); got != IntentFallback {
		t.Errorf("Route(\"hi there\") = %v, want fallback", got)
	}
}

func TestRoute_SchedulingSubstrings(t *testing.T) {
	r := newTestRouter(&stubOracle{p: 0})
	ctx := context.Background()

	for _, msg := range []string{
		"I'd like to book a slot",
		"can we schedule something",
		"SET A MEETING please",
		"about my upcoming interview",
	} {
		if got := r.Route(ctx, msg, nil); got != IntentScheduleStart {
			t.Errorf("Route(%q) = %v, want schedule_start", msg, got)
		}
	}
}

func TestRoute_InfoWords(t *testing.T) {
	r := newTestRouter(&stubOracle{p: 0})
	ctx := context.Background()

	for _, msg := range []string{
		"what are the responsibilities",
		"explain the process",
		"WHERE is the office",
	} {
		if got := r.Route(ctx, msg, nil); got != IntentInfoQuery {
			t.Errorf("Route(%q) = %v, want info_query", msg, got)
		}
	}
}

func TestRoute_SchedulingBeatsInfo(t *testing.T) {
	r := newTestRouter(&stubOracle{p: 0})
	if got := r.Route(context.Background(), "when can I schedule an interview", nil); got != IntentScheduleStart {
		t.Errorf("Route = %v, want schedule_start (earlier cascade step)", got)
	}
}

func TestRoute_FarewellShortCircuit(t *testing.T) {
	oracle := &stubOracle{p: 0}
	r := newTestRouter(oracle)
	history := []string{"some earlier turn", "talk to you later", "another turn"}

	if got := r.Route(context.Background(), "ok then", history); got != IntentModelEnd {
		t.Errorf("Route = %v, want model_end on farewell in window", got)
	}
	if oracle.calls != 0 {
		t.Errorf("oracle consulted despite farewell short-circuit")
	}
}

func TestRoute_OracleThreshold(t *testing.T) {
	ctx := context.Background()

	if got := newTestRouter(&stubOracle{p: 0.19}).Route(ctx, "alright then", nil); got != IntentFallback {
		t.Errorf("p=0.19 → %v, want fallback", got)
	}
	if got := newTestRouter(&stubOracle{p: 0.2}).Route(ctx, "alright then", nil); got != IntentModelEnd {
		t.Errorf("p=0.2 → %v, want model_end (inclusive threshold)", got)
	}
}

func TestRoute_OracleFailureFallsBack(t *testing.T) {
	r := newTestRouter(&stubOracle{err: errors.New("offline")})
	if got := r.Route(context.Background(), "alright then", nil); got != IntentFallback {
		t.Errorf("Route = %v, want fallback on oracle failure", got)
	}
}

func TestIsExitKeyword(t *testing.T) {
	for msg, want := range map[string]bool{
		"exit": true, " QUIT ": true, "bye": true,
		"exiting": false, "goodbye": false, "": false,
	} {
		if got := IsExitKeyword(msg); got != want {
			t.Errorf("IsExitKeyword(%q) = %v, want %v", msg, got, want)
		}
	}
}
