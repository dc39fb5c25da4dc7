// Package planner decides how many test cases a requirement gets and of which type.
package planner

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/tcgen/internal/domain"
)

// Coverage levels returned by CoverageLevel.
const (
	CoverageComprehensive = "comprehensive"
	CoverageStandard      = "standard"
	CoverageBasic         = "basic"
)

// Thresholds are the description word counts above which a requirement is
// medium or high complexity.
type Thresholds struct {
	MediumWordCount int
	HighWordCount   int
}

// DefaultThresholds returns the standard word count thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{MediumWordCount: 50, HighWordCount: 100}
}

var planCounts = map[domain.Complexity]int{
	domain.ComplexityLow:    1,
	domain.ComplexityMedium: 2,
	domain.ComplexityHigh:   3,
}

type planTemplate struct {
	testType    domain.TestType
	description string
	focusAreas  []string
	steps       []string
	priority    domain.Priority
}

// planTemplates are emitted in order; a requirement gets the first N.
var planTemplates = []planTemplate{
	{
		testType:    domain.HappyPath,
		description: "Verify basic functionality works as expected",
		focusAreas:  []string{"Core functionality"},
		steps:       []string{"Setup initial conditions", "Perform main action", "Verify expected outcome"},
		priority:    domain.PriorityHigh,
	},
	{
		testType:    domain.BoundaryConditions,
		description: "Verify behavior at boundary conditions",
		focusAreas:  []string{"Min/max values", "Empty/full states"},
		steps:       []string{"Setup boundary condition", "Perform action at boundary", "Verify behavior at boundary"},
		priority:    domain.PriorityMedium,
	},
	{
		testType:    domain.ErrorCases,
		description: "Verify proper error handling",
		focusAreas:  []string{"Invalid input", "System unavailable"},
		steps:       []string{"Setup error condition", "Attempt action that will cause error", "Verify proper error handling"},
		priority:    domain.PriorityMedium,
	},
}

// Planner turns requirements into test plans.
type Planner struct {
	logger     *logrus.Logger
	thresholds Thresholds
}

// New creates a Planner.
func New(logger *logrus.Logger, thresholds Thresholds) *Planner {
	if logger == nil {
		logger = logrus.New()
	}
	return &Planner{logger: logger, thresholds: thresholds}
}

// ClassifyComplexity rates a requirement by the length of its description and
// whether it reads as conditional or multi-part.
func (p *Planner) ClassifyComplexity(req domain.Requirement) domain.Complexity {
	desc := strings.ToLower(req.Description)
	words := len(strings.Fields(desc))
	conditional := strings.Contains(desc, "if") || strings.Contains(desc, "when")
	multiPart := strings.Contains(desc, "then") || strings.Contains(desc, ";")

	switch {
	case words > p.thresholds.HighWordCount || (conditional && multiPart):
		return domain.ComplexityHigh
	case words > p.thresholds.MediumWordCount || conditional || multiPart:
		return domain.ComplexityMedium
	default:
		return domain.ComplexityLow
	}
}

// Plan returns one to three plans in fixed order: happy path, boundary
// conditions, error cases. Common steps of patterns mined for the same test
// type are appended to the generic suggested steps.
func (p *Planner) Plan(req domain.Requirement, patterns []domain.Pattern) []domain.TestPlan {
	complexity := p.ClassifyComplexity(req)
	count := planCounts[complexity]

	plans := make([]domain.TestPlan, 0, count)
	for _, t := range planTemplates[:count] {
		plans = append(plans, domain.TestPlan{
			Type:           t.testType,
			Description:    t.description,
			FocusAreas:     append([]string(nil), t.focusAreas...),
			SuggestedSteps: suggestSteps(t, patterns),
			Priority:       t.priority,
		})
	}

	p.logger.WithFields(logrus.Fields{
		"requirement_id": req.ID,
		"complexity":     complexity,
		"plans":          len(plans),
	}).Info("Planned test cases")
	return plans
}

func suggestSteps(t planTemplate, patterns []domain.Pattern) []string {
	steps := append([]string(nil), t.steps...)
	seen := make(map[string]bool, len(steps))
	for _, s := range steps {
		seen[s] = true
	}
	for _, pattern := range patterns {
		if !hasType(pattern.TestTypes, t.testType) {
			continue
		}
		for _, s := range pattern.CommonSteps {
			if !seen[s] {
				seen[s] = true
				steps = append(steps, s)
			}
		}
	}
	return steps
}

func hasType(types []domain.TestType, t domain.TestType) bool {
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}

// CoverageLevel maps the criticality tag of a requirement to a coverage level.
func CoverageLevel(req domain.Requirement) string {
	switch {
	case req.HasTag("critical"):
		return CoverageComprehensive
	case req.HasTag("important"):
		return CoverageStandard
	default:
		return CoverageBasic
	}
}

// AdaptToMachine returns a copy of plan noting the machine it targets.
func AdaptToMachine(plan domain.TestPlan, machine, version string) domain.TestPlan {
	adapted := plan
	adapted.FocusAreas = append([]string(nil), plan.FocusAreas...)
	adapted.SuggestedSteps = append([]string(nil), plan.SuggestedSteps...)
	adapted.Adaptations = append(append([]string(nil), plan.Adaptations...),
		fmt.Sprintf("Adapted for %s version %s", machine, version))
	return adapted
}
