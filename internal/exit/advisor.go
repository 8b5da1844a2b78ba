// Package exit decides whether a conversation is winding down. The decision
// combines a literal farewell-phrase check with a learned probability oracle;
// the phrase check always runs first so an explicit goodbye never depends on
// model output.
package exit

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
)

// Oracle scores how likely the conversation is concluding, given the recent
// user turns and the current utterance. Implementations return a calibrated
// probability in [0,1]. The Advisor owns thresholding and failure handling;
// the oracle only scores.
type Oracle interface {
	PredictEndProbability(ctx context.Context, history []string, current string) (float64, error)
}

// DefaultThreshold is the inclusive end-probability cutoff.
const DefaultThreshold = 0.2

// DefaultWindow is how many prior user turns feed the decision.
const DefaultWindow = 3

// DefaultFarewells returns the literal phrase set whose presence ends the
// conversation without consulting the oracle. Matching is case-insensitive
// substring over the recent window, nothing smarter.
func DefaultFarewells() []string {
	return []string{
		"bye",
		"please stop texting me",
		"leave me alone",
		"please remove me from your list",
		"thanks for now",
		"i am not interested",
		"maybe i'm not the ideal candidate",
		"let's finish our conversation",
		"thanks for calling; i'll be in touch",
		"that covers everything on the agenda",
		"i look forward to our next meeting",
		"talk to you later",
		"have a great day",
	}
}

// Advisor applies the farewell short-circuit and the threshold comparison on
// top of an Oracle. A failing oracle degrades to probability 0 so routing
// keeps the conversation alive rather than ending it on an error.
type Advisor struct {
	Oracle    Oracle
	Threshold float64  // inclusive; DefaultThreshold when constructed via NewAdvisor
	Window    int      // prior user turns considered
	Farewells []string // lower-case literal phrases
}

// NewAdvisor builds an Advisor with the default threshold, window and
// farewell set.
func NewAdvisor(oracle Oracle) *Advisor {
	return &Advisor{
		Oracle:    oracle,
		Threshold: DefaultThreshold,
		Window:    DefaultWindow,
		Farewells: DefaultFarewells(),
	}
}

// ShouldEnd reports whether the conversation should end now. history is the
// full ordered list of prior user turns; only the last Window of them are
// considered.
func (a *Advisor) ShouldEnd(ctx context.Context, history []string, current string) bool {
	recent := history
	if a.Window >= 0 && len(recent) > a.Window {
		recent = recent[len(recent)-a.Window:]
	}

	raw := strings.ToLower(strings.Join(append(append([]string{}, recent...), current), " "))
	for _, kw := range a.Farewells {
		if kw != "" && strings.Contains(raw, kw) {
			log.Debug().Str("phrase", kw).Msg("farewell phrase matched; ending without oracle")
			return true
		}
	}

	if a.Oracle == nil {
		return false
	}
	p, err := a.Oracle.PredictEndProbability(ctx, recent, current)
	if err != nil {
		log.Warn().Err(err).Msg("exit oracle unavailable; treating end probability as 0")
		return false
	}
	return p >= a.Threshold
}
