// Package artifact turns loosely structured generator output into test cases.
package artifact

import (
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/tcgen/internal/domain"
)

// Values used when nothing better can be extracted.
const (
	PaddingResult        = "Action completes successfully"
	FallbackPrecondition = "System is in operational state"
	FallbackStep         = "Step 1: Perform the required action"
)

var (
	// Section headers only count at the start of a line.
	preconditionsRe = regexp.MustCompile(`(?im)^[ \t#*]*(?:PRECONDITIONS?|PRE-CONDITIONS?|PREREQUISITES?)\s*:?\s*`)
	resultsHeaderRe = regexp.MustCompile(`(?im)^[ \t#*]*(?:EXPECTED RESULTS?|EXPECTED OUTCOMES?|EXPECTED BEHAVIOR)\s*:?\s*`)
	numberedItemRe  = regexp.MustCompile(`(?:^|\n)\s*(\d+)\s*\.\s*([^\n]+)`)
	sectionSplitRe  = regexp.MustCompile(`\n\s*\n`)
	leadingNumberRe = regexp.MustCompile(`^\d+\.`)
	stripNumberRe   = regexp.MustCompile(`^\d+\.\s*`)
	// A line that opens another section ends the preconditions.
	sectionHeaderRe = regexp.MustCompile(`(?i)^(?:(?:TEST\s+)?STEPS?\s*(?::.*)?|EXPECTED\s+(?:RESULTS?|OUTCOMES?|BEHAVIOR)\b.*|TEST CASE ID\s*:.*)$`)
)

// Parser extracts preconditions, steps and expected results from artifact text.
type Parser struct {
	logger *logrus.Logger
	ids    *IDGenerator
}

// NewParser creates a Parser that stamps every record with an id from ids.
func NewParser(logger *logrus.Logger, ids *IDGenerator) *Parser {
	if logger == nil {
		logger = logrus.New()
	}
	if ids == nil {
		ids = NewIDGenerator("")
	}
	return &Parser{logger: logger, ids: ids}
}

// Parse is ParseFor with unknown machine type and version.
func (p *Parser) Parse(text string) domain.TestCase {
	return p.ParseFor(text, "", "")
}

// ParseFor parses text into a test case. It never fails: malformed input
// yields a generic record. Every record has at least one step, and at least
// as many results as steps.
func (p *Parser) ParseFor(text, machine, version string) (tc domain.TestCase) {
	tc.ID = p.ids.New(machine, version)

	defer func() {
		if r := recover(); r != nil {
			p.logger.WithField("panic", r).Error("Error parsing artifact, using fallback record")
			tc = domain.TestCase{
				ID:              tc.ID,
				Preconditions:   FallbackPrecondition,
				Steps:           []string{FallbackStep},
				ExpectedResults: []string{PaddingResult},
			}
		}
	}()

	tc.Preconditions = extractPreconditions(text)

	stepsText := text
	if loc := resultsHeaderRe.FindStringIndex(text); loc != nil {
		stepsText = text[:loc[0]]
		tc.ExpectedResults = extractResults(text[loc[1]:])
	}
	tc.Steps = numberedItems(stepsText)

	if len(tc.Steps) == 0 || len(tc.ExpectedResults) == 0 {
		p.logger.Debug("Using fallback parsing for artifact")
		tc.Steps, tc.ExpectedResults = fallbackSections(text, tc.Steps, tc.ExpectedResults)
	}

	if len(tc.Steps) == 0 {
		tc.Steps = []string{FallbackStep}
	}
	// More results than steps is left as is.
	for len(tc.ExpectedResults) < len(tc.Steps) {
		tc.ExpectedResults = append(tc.ExpectedResults, PaddingResult)
	}

	p.logger.WithFields(logrus.Fields{
		"id":      tc.ID,
		"steps":   len(tc.Steps),
		"results": len(tc.ExpectedResults),
	}).Debug("Parsed artifact")
	return tc
}

// extractPreconditions captures the lines after the preconditions header up
// to a blank line, a numbered item or the next section header.
func extractPreconditions(text string) string {
	loc := preconditionsRe.FindStringIndex(text)
	if loc == nil {
		return ""
	}

	var kept []string
	for i, line := range strings.Split(text[loc[1]:], "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || sectionHeaderRe.MatchString(trimmed) {
			break
		}
		if i > 0 && leadingNumberRe.MatchString(trimmed) {
			break
		}
		kept = append(kept, trimmed)
	}
	return strings.Join(kept, "\n")
}

// extractResults prefers numbered items within the results span and falls
// back to one result per non-blank line.
func extractResults(span string) []string {
	if items := numberedItems(span); len(items) > 0 {
		return items
	}
	return nonBlankLines(span)
}

// numberedItems returns the text of every "<n>. text" line in document order.
func numberedItems(text string) []string {
	var items []string
	for _, m := range numberedItemRe.FindAllStringSubmatch(text, -1) {
		items = append(items, strings.TrimSpace(m[2]))
	}
	return items
}

// fallbackSections scans blank-line separated sections for a steps section
// and a results section, filling only the lists that are still empty.
func fallbackSections(text string, steps, results []string) ([]string, []string) {
	for _, section := range sectionSplitRe.Split(text, -1) {
		lower := strings.ToLower(section)

		if strings.Contains(lower, "step") && len(steps) == 0 {
			var found []string
			for _, line := range nonBlankLines(section) {
				if leadingNumberRe.MatchString(line) {
					found = append(found, stripNumberRe.ReplaceAllString(line, ""))
				}
			}
			if len(found) > 0 {
				steps = found
			}
		} else if (strings.Contains(lower, "expected") || strings.Contains(lower, "result")) && len(results) == 0 {
			var found []string
			for _, line := range nonBlankLines(section) {
				if leadingNumberRe.MatchString(line) {
					found = append(found, stripNumberRe.ReplaceAllString(line, ""))
				} else if !strings.HasPrefix(strings.ToLower(line), "expected") {
					found = append(found, line)
				}
			}
			if len(found) > 0 {
				results = found
			}
		}
	}
	return steps, results
}

func nonBlankLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			lines = append(lines, t)
		}
	}
	return lines
}
