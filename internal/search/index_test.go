package search

import (
	"strings"
	"testing"
)

const jobSpecDoc = `# Open Roles

The Python Developer position involves building backend services in Python,
maintaining data pipelines, and working closely with the analytics team.

The QA Engineer position focuses on test automation, regression suites, and
release validation across the recruitment platform.

| Role | Location | Salary band |
| --- | --- | --- |
| Python Developer | Tel Aviv | B3 |
| QA Engineer | Remote | B2 |
`

func TestTopK_RanksRelevantSectionFirst(t *testing.T) {
	idx, err := NewIndexFromReader(strings.NewReader(jobSpecDoc))
	if err != nil {
		t.Fatalf("NewIndexFromReader: %v", err)
	}

	results := idx.TopK("what are the responsibilities of the python developer", 3)
	if len(results) == 0 {
		t.Fatal("no results")
	}
	if !strings.Contains(results[0].Snippet, "backend services") {
		t.Errorf("top result = %q", results[0].Snippet)
	}
	if results[0].Score <= 0 || results[0].Score > 1 {
		t.Errorf("score out of range: %v", results[0].Score)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not sorted by score: %v", results)
		}
	}
}

func TestTopK_EmptyAndUnmatchedQueries(t *testing.T) {
	idx := NewIndexFromStrings([]string{
		"The Python Developer position involves building backend services.",
	}, WithMinSectionRunes(0))

	if got := idx.TopK("   ", 3); got != nil {
		t.Errorf("blank query → %v, want nil", got)
	}
	if got := idx.TopK("zebra xylophone", 3); got != nil {
		t.Errorf("unmatched query → %v, want nil", got)
	}
}

func TestTopK_Stopwords(t *testing.T) {
	idx := NewIndexFromStrings(
		[]string{"the the the salary band is B3 for senior hires"},
		WithMinSectionRunes(0),
		WithStopwords([]string{"the", "is", "for"}),
	)
	if got := idx.TopK("the", 3); got != nil {
		t.Errorf("stopword-only query → %v, want nil", got)
	}
	if got := idx.TopK("salary band", 3); len(got) != 1 {
		t.Errorf("salary band → %v, want 1 result", got)
	}
}

func TestTopK_DeterministicTieBreak(t *testing.T) {
	sections := []string{"bravo token match", "alpha token match"}
	idx := NewIndexFromStrings(sections, WithMinSectionRunes(0))

	got := idx.TopK("token match", 2)
	if len(got) != 2 {
		t.Fatalf("results = %v", got)
	}
	if got[0].Snippet != "alpha token match" {
		t.Errorf("tie broken unexpectedly: %v", got)
	}
}

func TestFlattenMarkdown_TableRows(t *testing.T) {
	sections := flattenMarkdown(jobSpecDoc)

	var rowFacts []string
	for _, s := range sections {
		if strings.Contains(s, "Tel Aviv") || strings.Contains(s, "Remote") {
			rowFacts = append(rowFacts, s)
		}
	}
	if len(rowFacts) != 2 {
		t.Fatalf("row facts = %v, want one per data row", rowFacts)
	}
	if rowFacts[0] != "Python Developer Tel Aviv B3" {
		t.Errorf("first row fact = %q", rowFacts[0])
	}
	for _, s := range sections {
		if strings.Contains(s, "---") {
			t.Errorf("separator row leaked into sections: %q", s)
		}
	}
}

func TestFlattenMarkdown_HeaderRowKept(t *testing.T) {
	sections := flattenMarkdown("| Role | Location |\n| --- | --- |\n| QA Engineer | Remote |")
	want := map[string]bool{"Role Location": true, "QA Engineer Remote": true}
	if len(sections) != 2 || !want[sections[0]] || !want[sections[1]] {
		t.Errorf("sections = %v", sections)
	}
}
