// Package info answers candidate questions about open roles by retrieving
// the best-matching sections of the job-description document. Failures never
// escape: the advisor degrades to fixed apology strings so the conversation
// keeps going.
package info

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-recruit-assistant/internal/search"
)

// Fixed replies for the two failure shapes: retrieval broke, or it worked
// but found nothing above the confidence bar.
const (
	FailureApology = "I'm sorry, I'm having trouble retrieving information right now."
	EmptyApology   = "I'm sorry, I don't have that information right now."
)

const (
	cacheSize = 256
	cacheTTL  = 10 * time.Minute
)

// Advisor retrieves answers from the job-description index. Identical
// questions within the TTL are served from an in-memory cache; the document
// does not change while the process runs, so staleness is not a concern.
type Advisor struct {
	Index     search.Index
	Threshold float64 // minimum top-result score to count as an answer

	cache *expirable.LRU[string, string]
}

// NewAdvisor builds an Advisor with the answer cache enabled.
func NewAdvisor(idx search.Index, threshold float64) *Advisor {
	return &Advisor{
		Index:     idx,
		Threshold: threshold,
		cache:     expirable.NewLRU[string, string](cacheSize, nil, cacheTTL),
	}
}

// Answer returns the best snippet for the question, or one of the fixed
// apologies. It never returns an error.
func (a *Advisor) Answer(query string) string {
	key := strings.ToLower(strings.TrimSpace(query))
	if key == "" {
		return EmptyApology
	}
	if a.cache != nil {
		if ans, ok := a.cache.Get(key); ok {
			return ans
		}
	}

	if a.Index == nil {
		log.Error().Msg("info advisor has no index")
		return FailureApology
	}
	results := a.Index.TopK(query, 1)
	if len(results) == 0 || results[0].Score < a.Threshold {
		return EmptyApology
	}

	ans := results[0].Snippet
	if a.cache != nil {
		a.cache.Add(key, ans)
	}
	return ans
}
