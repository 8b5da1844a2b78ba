package search

import (
	"regexp"
	"strings"
)

var paraSplitRE = regexp.MustCompile(`\n\s*\n`)

// flattenMarkdown splits the document into index sections. Ordinary prose is
// split on blank lines; Markdown table rows become one standalone fact each,
// with the cells joined by spaces, so a query about one role matches that
// role's row rather than the whole table.
func flattenMarkdown(doc string) []string {
	var out []string
	for _, chunk := range paraSplitRE.Split(doc, -1) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		if !strings.Contains(chunk, "|") {
			out = append(out, chunk)
			continue
		}

		var prose []string
		for _, line := range strings.Split(chunk, "\n") {
			line = strings.TrimSpace(line)
			if fact, ok := tableRowFact(line); ok {
				if fact != "" {
					out = append(out, fact)
				}
				continue
			}
			if line != "" {
				prose = append(prose, line)
			}
		}
		if len(prose) > 0 {
			out = append(out, strings.Join(prose, " "))
		}
	}
	return out
}

// tableRowFact converts one "| a | b |" row into "a b". The bool result is
// false for non-table lines; separator rows (|---|:---:|) and header rows
// consisting only of the literal "text" return ("", true) so they are
// dropped.
func tableRowFact(line string) (string, bool) {
	if !strings.HasPrefix(line, "|") || !strings.HasSuffix(line, "|") {
		return "", false
	}
	cols := strings.Split(strings.Trim(line, "|"), "|")

	allSep := true
	cells := make([]string, 0, len(cols))
	for _, c := range cols {
		cell := strings.TrimSpace(c)
		if cell != "" {
			cells = append(cells, cell)
		}
		bare := strings.NewReplacer(":", "", "-", "").Replace(cell)
		if strings.TrimSpace(bare) != "" {
			allSep = false
		}
	}
	if allSep || len(cells) == 0 {
		return "", true
	}
	fact := strings.Join(cells, " ")
	if strings.EqualFold(fact, "text") {
		return "", true
	}
	return fact, true
}
