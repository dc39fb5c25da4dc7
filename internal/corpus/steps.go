package corpus

import (
	"regexp"
	"strings"
)

var numberedLineRe = regexp.MustCompile(`^\s*\d+\.\s*`)

// SplitSteps splits a cell into numbered items. Continuation lines belong to
// the preceding item and text before the first number is ignored. A cell
// without numbered items yields its non-empty lines.
func SplitSteps(cell string) []string {
	var (
		items   []string
		current []string
		open    bool
	)
	flush := func() {
		if open {
			if s := strings.TrimSpace(strings.Join(current, "\n")); s != "" {
				items = append(items, s)
			}
		}
		current = nil
	}

	for _, line := range strings.Split(cell, "\n") {
		if loc := numberedLineRe.FindStringIndex(line); loc != nil {
			flush()
			open = true
			current = append(current, line[loc[1]:])
			continue
		}
		if open {
			current = append(current, line)
		}
	}
	flush()

	if open {
		return items
	}

	for _, line := range strings.Split(cell, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			items = append(items, t)
		}
	}
	return items
}

// CountSteps is the number of numbered items in a cell, or its line count
// when nothing is numbered.
func CountSteps(cell string) int {
	n := 0
	for _, line := range strings.Split(cell, "\n") {
		if numberedLineRe.MatchString(line) {
			n++
		}
	}
	if n > 0 {
		return n
	}
	return strings.Count(cell, "\n") + 1
}
