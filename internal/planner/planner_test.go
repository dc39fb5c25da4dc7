package planner_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/fjglira/tcgen/internal/domain"
	"github.com/fjglira/tcgen/internal/planner"
)

func req(desc string) domain.Requirement {
	return domain.Requirement{ID: "REQ-1", Description: desc}
}

func types(plans []domain.TestPlan) []domain.TestType {
	out := make([]domain.TestType, len(plans))
	for i, p := range plans {
		out[i] = p.Type
	}
	return out
}

var _ = Describe("Planner", func() {
	var (
		p    *planner.Planner
		hook *test.Hook
	)

	BeforeEach(func() {
		logger, h := test.NewNullLogger()
		hook = h
		p = planner.New(logger, planner.DefaultThresholds())
	})

	DescribeTable("ClassifyComplexity",
		func(desc string, expected domain.Complexity) {
			Expect(p.ClassifyComplexity(req(desc))).To(Equal(expected))
		},
		Entry("short plain statement", "The system shall allow users to export data.", domain.ComplexityLow),
		Entry("conditional only", "If configuration fails, the system must display an error and retry.", domain.ComplexityMedium),
		Entry("multi-part only", "The pump shall start; the valve shall open.", domain.ComplexityMedium),
		Entry("conditional and multi-part", "When the door opens then the lamp shall turn on.", domain.ComplexityHigh),
		Entry("case-insensitive keywords", "WHEN the door opens THEN the lamp shall turn on.", domain.ComplexityHigh),
		Entry("substring match inside a word", "The operator shall be notified.", domain.ComplexityMedium),
		Entry("51 words", strings.Repeat("word ", 51), domain.ComplexityMedium),
		Entry("50 words", strings.Repeat("word ", 50), domain.ComplexityLow),
		Entry("101 words", strings.Repeat("word ", 101), domain.ComplexityHigh),
		Entry("empty description", "", domain.ComplexityLow),
	)

	It("should honor configured thresholds", func() {
		strict := planner.New(nil, planner.Thresholds{MediumWordCount: 2, HighWordCount: 4})
		Expect(strict.ClassifyComplexity(req("one two three"))).To(Equal(domain.ComplexityMedium))
		Expect(strict.ClassifyComplexity(req("one two three four five"))).To(Equal(domain.ComplexityHigh))
	})

	Describe("Plan", func() {
		It("should plan a single happy path for a low complexity requirement", func() {
			plans := p.Plan(req("The system shall allow users to export data."), nil)
			Expect(plans).To(HaveLen(1))
			Expect(plans[0]).To(Equal(domain.TestPlan{
				Type:           domain.HappyPath,
				Description:    "Verify basic functionality works as expected",
				FocusAreas:     []string{"Core functionality"},
				SuggestedSteps: []string{"Setup initial conditions", "Perform main action", "Verify expected outcome"},
				Priority:       domain.PriorityHigh,
			}))
		})

		It("should add plans in fixed order", func() {
			Expect(types(p.Plan(req("If configuration fails, the system must retry."), nil))).To(Equal(
				[]domain.TestType{domain.HappyPath, domain.BoundaryConditions}))

			plans := p.Plan(req("When the door opens then the lamp shall turn on."), nil)
			Expect(types(plans)).To(Equal([]domain.TestType{domain.HappyPath, domain.BoundaryConditions, domain.ErrorCases}))
			Expect(plans[1].Priority).To(Equal(domain.PriorityMedium))
			Expect(plans[2].Priority).To(Equal(domain.PriorityMedium))
			Expect(plans[2].FocusAreas).To(Equal([]string{"Invalid input", "System unavailable"}))
		})

		It("should extend suggested steps with common steps of matching patterns", func() {
			patterns := []domain.Pattern{
				{TestTypes: []domain.TestType{domain.HappyPath}, CommonSteps: []string{"Open the login page", "Perform main action"}},
				{TestTypes: []domain.TestType{domain.ErrorCases}, CommonSteps: []string{"Enter invalid data"}},
			}
			plans := p.Plan(req("The system shall allow users to export data."), patterns)
			Expect(plans[0].SuggestedSteps).To(Equal([]string{
				"Setup initial conditions", "Perform main action", "Verify expected outcome", "Open the login page",
			}))
		})

		It("should log the plan count", func() {
			p.Plan(req("plain"), nil)
			Expect(hook.LastEntry().Data).To(HaveKeyWithValue("plans", 1))
		})
	})

	DescribeTable("CoverageLevel",
		func(tags []string, expected string) {
			Expect(planner.CoverageLevel(domain.Requirement{Tags: tags})).To(Equal(expected))
		},
		Entry("critical", []string{"critical", "ui"}, planner.CoverageComprehensive),
		Entry("important", []string{"important"}, planner.CoverageStandard),
		Entry("untagged", nil, planner.CoverageBasic),
	)

	Describe("AdaptToMachine", func() {
		It("should note the target without touching the original", func() {
			plan := p.Plan(req("plain"), nil)[0]
			adapted := planner.AdaptToMachine(plan, "E", "3.2")
			Expect(adapted.Adaptations).To(Equal([]string{"Adapted for E version 3.2"}))
			Expect(plan.Adaptations).To(BeEmpty())
			Expect(adapted.Type).To(Equal(plan.Type))
		})
	})
})
