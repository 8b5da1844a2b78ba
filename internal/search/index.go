// Package search provides a deterministic, concurrency-safe in-memory index
// over the job-description document. The document is Markdown: prose
// paragraphs plus role tables, which are flattened into standalone facts at
// load time. The index is immutable after construction and safe for
// concurrent readers.
//
// Scoring uses Jaccard similarity between the query token set and each
// section's token set: score = |Q ∩ S| / |Q ∪ S|.
package search

import (
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Result is a ranked section with its similarity score.
type Result struct {
	Snippet string
	Score   float64
}

// Index answers free-text queries with the best-matching sections.
type Index interface {
	TopK(query string, k int) []Result
}

// Option adjusts index construction.
type Option func(*config)

type config struct {
	minSectionRunes int
	stopwords       map[string]struct{}
}

func defaultConfig() config {
	return config{minSectionRunes: 40}
}

// WithMinSectionRunes drops sections shorter than n runes. Short fragments
// (lone headings, separators) score noisily, so the default is 40.
func WithMinSectionRunes(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.minSectionRunes = n
		}
	}
}

// WithStopwords removes the given words from both sections and queries
// before scoring.
func WithStopwords(words []string) Option {
	return func(c *config) {
		m := make(map[string]struct{}, len(words))
		for _, w := range words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w != "" {
				m[w] = struct{}{}
			}
		}
		if len(m) > 0 {
			c.stopwords = m
		}
	}
}

type section struct {
	text   string
	tokens map[string]struct{}
	tLen   int
}

type index struct {
	cfg      config
	sections []section
}

// NewJobSpecIndex reads the job-description Markdown at path, flattens any
// role tables into facts, and builds the index.
func NewJobSpecIndex(path string, opts ...Option) (Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return NewIndexFromReader(f, opts...)
}

// NewIndexFromReader builds an Index from UTF-8 Markdown provided by r.
func NewIndexFromReader(r io.Reader, opts ...Option) (Index, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	all, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return buildIndex(flattenMarkdown(string(all)), cfg), nil
}

// NewIndexFromStrings builds an Index directly from pre-split sections.
func NewIndexFromStrings(sections []string, opts ...Option) Index {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return buildIndex(sections, cfg)
}

func buildIndex(raw []string, cfg config) *index {
	sections := make([]section, 0, len(raw))
	for _, r := range raw {
		t := strings.TrimSpace(collapseSpaces(r))
		if t == "" {
			continue
		}
		if cfg.minSectionRunes > 0 && utf8.RuneCountInString(t) < cfg.minSectionRunes {
			continue
		}
		toks := tokenize(t, cfg.stopwords)
		if len(toks) == 0 {
			continue
		}
		sections = append(sections, section{text: t, tokens: toks, tLen: len(toks)})
	}
	return &index{cfg: cfg, sections: sections}
}

// TopK returns up to k best-matching sections. Ties are broken by shorter
// section first, then lexicographically, so results are stable run to run.
func (i *index) TopK(q string, k int) []Result {
	if len(i.sections) == 0 || strings.TrimSpace(q) == "" {
		return nil
	}
	if k <= 0 {
		k = 3
	}
	qTokens := tokenize(q, i.cfg.stopwords)
	if len(qTokens) == 0 {
		return nil
	}
	qLen := len(qTokens)

	type scored struct {
		snippet  string
		score    float64
		lenRunes int
	}
	buf := make([]scored, 0, len(i.sections))
	for _, s := range i.sections {
		over := overlap(qTokens, s.tokens)
		if over == 0 {
			continue
		}
		score := float64(over) / float64(qLen+s.tLen-over)
		buf = append(buf, scored{
			snippet:  s.text,
			score:    score,
			lenRunes: utf8.RuneCountInString(s.text),
		})
	}
	if len(buf) == 0 {
		return nil
	}

	sort.SliceStable(buf, func(a, b int) bool {
		if buf[a].score != buf[b].score {
			return buf[a].score > buf[b].score
		}
		if buf[a].lenRunes != buf[b].lenRunes {
			return buf[a].lenRunes < buf[b].lenRunes
		}
		return buf[a].snippet < buf[b].snippet
	})

	if k > len(buf) {
		k = len(buf)
	}
	out := make([]Result, k)
	for n := 0; n < k; n++ {
		out[n] = Result{Snippet: buf[n].snippet, Score: buf[n].score}
	}
	return out
}

var wordRE = regexp.MustCompile(`\p{L}+\p{N}*`)

func tokenize(s string, stop map[string]struct{}) map[string]struct{} {
	words := wordRE.FindAllString(strings.ToLower(s), -1)
	if len(words) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		if stop != nil {
			if _, skip := stop[w]; skip {
				continue
			}
		}
		out[w] = struct{}{}
	}
	return out
}

func overlap(a, b map[string]struct{}) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}

func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\r' {
			if !prevSpace {
				b.WriteByte(' ')
				prevSpace = true
			}
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
