// Package segmenter splits requirement documents into requirement records.
package segmenter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/tcgen/internal/domain"
)

var (
	blockSplitRe = regexp.MustCompile(`\n\s*\n`)
	idRe         = regexp.MustCompile(`\b(?:REQ|R)-\d+\b`)
	// Matches an id token at the start of a description.
	leadingIDRe = regexp.MustCompile(`^(?:REQ|R)-\d+\b`)
)

// Segmenter extracts requirements from raw document text.
type Segmenter struct {
	logger      *logrus.Logger
	criticality []compiledRule
	domains     []compiledRule
}

// New creates a Segmenter using the package keyword tables.
func New(logger *logrus.Logger) *Segmenter {
	if logger == nil {
		logger = logrus.New()
	}
	return &Segmenter{
		logger:      logger,
		criticality: compileRules(CriticalityRules),
		domains:     compileRules(DomainRules),
	}
}

// Segment splits text on blank lines and returns one requirement per block
// that carries an id token or a modal keyword. Other blocks are dropped.
func (s *Segmenter) Segment(text, source string) []domain.Requirement {
	var reqs []domain.Requirement

	for _, block := range blockSplitRe.Split(text, -1) {
		if strings.TrimSpace(block) == "" {
			continue
		}

		var id, description string
		if loc := idRe.FindStringIndex(block); loc != nil {
			id = block[loc[0]:loc[1]]
			description = trimDescription(block[loc[1]:])
		} else if containsAny(block, ModalKeywords) {
			id = fmt.Sprintf("REQ-AUTO-%03d", len(reqs)+1)
			description = strings.TrimSpace(block)
		} else {
			s.logger.WithField("source", source).Debugf("Skipping block without id or modal keyword: %.40q", block)
			continue
		}

		reqs = append(reqs, domain.Requirement{
			ID:          id,
			Description: description,
			Source:      source,
			Tags:        s.Tags(description),
			Technical:   containsAny(description, TechnicalTerms),
		})
	}

	s.logger.WithFields(logrus.Fields{
		"source":       source,
		"requirements": len(reqs),
	}).Info("Segmented document")
	return reqs
}

// Tags returns the criticality tag (at most one) followed by every matching domain tag.
func (s *Segmenter) Tags(text string) []string {
	tags := []string{}
	for _, r := range s.criticality {
		if r.re.MatchString(text) {
			tags = append(tags, r.tag)
			break
		}
	}
	for _, r := range s.domains {
		if r.re.MatchString(text) {
			tags = append(tags, r.tag)
		}
	}
	return tags
}

// trimDescription strips whitespace and one ":" or "-" separator after an id.
// A remainder that starts with another id has an empty body.
func trimDescription(rest string) string {
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, ":") || strings.HasPrefix(rest, "-") {
		rest = strings.TrimSpace(rest[1:])
	}
	if leadingIDRe.MatchString(rest) {
		return ""
	}
	return rest
}

// containsAny reports whether text contains any keyword, ignoring case.
func containsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
