package corpus_test

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/tcgen/internal/corpus"
	"github.com/fjglira/tcgen/internal/domain"
)

var _ = Describe("Writing style", func() {
	Describe("FromTable", func() {
		It("should view corpus rows as test cases", func() {
			table, err := corpus.LoadCSV(corpusFixture)
			Expect(err).NotTo(HaveOccurred())

			cases := corpus.FromTable(table, corpus.IdentifyKeyColumns(table))
			Expect(cases).To(HaveLen(5))
			Expect(cases[0].ID).To(Equal("TC-001"))
			Expect(cases[0].RequirementID).To(Equal("REQ-001"))
			Expect(cases[0].Steps).To(Equal([]string{"Open the login page", "Enter valid credentials", "Click the login button"}))
			Expect(cases[0].ExpectedResults).To(HaveLen(3))
		})
	})

	Describe("FromTFS", func() {
		It("should rebuild cases from an exported table", func() {
			table, err := corpus.LoadCSV(filepath.Join("..", "..", "testdata", "corpus", "tfs_export.csv"))
			Expect(err).NotTo(HaveOccurred())

			cases := corpus.FromTFS(table)
			Expect(cases).To(HaveLen(2))

			first := cases[0]
			Expect(first.ID).To(Equal("TC-1"))
			Expect(first.WorkItemType).To(Equal(domain.WorkItemTestCase))
			Expect(first.RequirementID).To(Equal("REQ-001"))
			Expect(first.Version).To(Equal("3.2"))
			Expect(first.MachineType).To(BeEmpty())
			Expect(first.Preconditions).To(Equal("System is ready"))
			Expect(first.Steps).To(Equal([]string{"SHARED_STEP: SS-00001", "Open the status page"}))
			Expect(first.ExpectedResults).To(Equal([]string{"", "The status page is displayed"}))

			second := cases[1]
			Expect(second.WorkItemType).To(Equal(domain.WorkItemTestCase))
			Expect(second.MachineType).To(Equal("E"))
			Expect(second.Version).To(BeEmpty())
			Expect(second.Steps).To(Equal([]string{"Check version 2.5"}))
		})

		It("should ignore step rows before the first case", func() {
			table := &domain.Table{
				Columns: domain.RowHeader[:],
				Rows: []map[string]string{
					{"ID": "", "Test Step": "1", "Step Action": "Orphan"},
				},
			}
			Expect(corpus.FromTFS(table)).To(BeEmpty())
		})
	})

	DescribeTable("IsVerb",
		func(word string, expected bool) {
			Expect(corpus.IsVerb(word)).To(Equal(expected))
		},
		Entry("listed verb", "click", true),
		Entry("ing suffix", "loading", true),
		Entry("ed suffix", "displayed", true),
		Entry("noun", "login", false),
		Entry("empty", "", false),
	)

	Describe("AnalyzeWritingStyle", func() {
		It("should detect verb-first steps with articles and passive results", func() {
			cases := []domain.TestCase{
				{Steps: []string{"Open the page", "Click the button"}, ExpectedResults: []string{"The page is displayed", "Form loads successfully"}},
				{Steps: []string{"Select an option"}, ExpectedResults: []string{"The option is highlighted correctly"}},
			}
			style := corpus.AnalyzeWritingStyle(cases)
			Expect(style.StepStartsWithVerb).To(BeTrue())
			Expect(style.StepUsesArticles).To(BeTrue())
			Expect(style.ExpectedStartsWithObject).To(BeTrue())
			Expect(style.ExpectedUsesPassive).To(BeTrue())
			Expect(style.StepFormat).To(Equal(corpus.FormatVerbTheObject))
			Expect(style.ExpectedFormat).To(Equal(corpus.FormatTheObjectIs))
			Expect(style.CommonVerbs).To(Equal([]string{"click", "open", "select"}))
			Expect(style.ResultPhrases).To(Equal([]string{"correctly", "successfully"}))
		})

		It("should detect object-first steps and result-first expectations", func() {
			cases := []domain.TestCase{
				{Steps: []string{"Login form appears"}, ExpectedResults: []string{"Displayed error"}},
				{Steps: []string{"Status report"}, ExpectedResults: []string{"Shown status"}},
			}
			style := corpus.AnalyzeWritingStyle(cases)
			Expect(style.StepStartsWithVerb).To(BeFalse())
			Expect(style.StepFormat).To(Equal(corpus.FormatObjectVerb))
			Expect(style.CommonVerbs).To(BeEmpty())
		})

		It("should default every flag to true without cases", func() {
			style := corpus.DefaultWritingStyle()
			Expect(style.StepFormat).To(Equal(corpus.FormatVerbTheObject))
			Expect(style.ExpectedFormat).To(Equal(corpus.FormatTheObjectIs))
		})

		It("should break ties against the flag", func() {
			cases := []domain.TestCase{
				{Steps: []string{"Open app"}, ExpectedResults: []string{"App is ready"}},
				{Steps: []string{"Status report"}, ExpectedResults: []string{"App ready"}},
			}
			style := corpus.AnalyzeWritingStyle(cases)
			Expect(style.StepStartsWithVerb).To(BeFalse())
			Expect(style.ExpectedUsesPassive).To(BeFalse())
			Expect(style.ExpectedFormat).To(Equal(corpus.FormatObjectResult))
		})
	})

	Describe("Terminology", func() {
		It("should report frequent domain words in first-seen order", func() {
			var cases []domain.TestCase
			for i := 0; i < 3; i++ {
				cases = append(cases, domain.TestCase{
					Steps:           []string{"Read the current sensor"},
					ExpectedResults: []string{"Current reading shown"},
				})
			}
			Expect(corpus.Terminology(cases, 3)).To(Equal([]string{"read", "current", "sensor", "shown"}))
		})

		It("should cap the result at ten terms", func() {
			words := "alpha bravo charlie delta echoes foxtrot golfs hotel india juliet kilos limas mango nectar"
			cases := []domain.TestCase{{Steps: []string{words, words, words}}}
			Expect(corpus.Terminology(cases, 3)).To(HaveLen(10))
		})
	})

	Describe("PlatformPatterns", func() {
		It("should group step shapes by machine type", func() {
			cases := []domain.TestCase{
				{MachineType: "E", Steps: []string{"Set the rate to 10", `Enter "abc" value`}},
				{MachineType: "F", Steps: []string{"Open a valve"}},
				{Steps: []string{"Ignored"}},
				{MachineType: "E", Steps: []string{"Set the rate to 20"}},
			}
			patterns := corpus.PlatformPatterns(cases, 3)
			Expect(patterns).To(HaveLen(2))
			Expect(patterns[0].MachineType).To(Equal("E"))
			Expect(patterns[0].StepShapes).To(Equal([]string{"Set {article} rate to {number}", "Enter {value} value"}))
			Expect(patterns[1].MachineType).To(Equal("F"))
			Expect(patterns[1].StepShapes).To(Equal([]string{"Open {article} valve"}))
		})
	})
})
