package corpus_test

import (
	"fmt"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/fjglira/tcgen/internal/corpus"
	"github.com/fjglira/tcgen/internal/domain"
)

var _ = Describe("Miner", func() {
	var (
		miner *corpus.Miner
		hook  *test.Hook
		table *domain.Table
		keys  domain.KeyColumns
	)

	BeforeEach(func() {
		var logger *logrus.Logger
		logger, hook = test.NewNullLogger()
		miner = corpus.NewMiner(logger, rand.New(rand.NewSource(7)), corpus.DefaultThresholds())

		var err error
		table, err = corpus.LoadCSV(corpusFixture)
		Expect(err).NotTo(HaveOccurred())
		keys = corpus.IdentifyKeyColumns(table)
	})

	Describe("ExtractPatterns", func() {
		It("should group by requirement id in first-seen order", func() {
			patterns := miner.ExtractPatterns(table, keys)
			Expect(patterns).To(HaveLen(2))
			Expect(patterns[0].RequirementID).To(Equal("REQ-001"))
			Expect(patterns[0].TestCount).To(Equal(2))
			Expect(patterns[1].RequirementID).To(Equal("REQ-002"))
			Expect(patterns[1].TestCount).To(Equal(2))
		})

		It("should detect test types from step keywords", func() {
			patterns := miner.ExtractPatterns(table, keys)
			Expect(patterns[0].TestTypes).To(Equal([]domain.TestType{domain.ErrorCases}))
			Expect(patterns[1].TestTypes).To(Equal([]domain.TestType{domain.BoundaryConditions}))
		})

		It("should keep preconditions above the ratio threshold", func() {
			patterns := miner.ExtractPatterns(table, keys)
			Expect(patterns[0].CommonPreconditions).To(Equal([]string{"System is powered on", "User account exists"}))
			Expect(patterns[1].CommonPreconditions).To(Equal([]string{"System is powered on", "Sensor is connected"}))
		})

		It("should keep normalized steps seen at least twice", func() {
			patterns := miner.ExtractPatterns(table, keys)
			Expect(patterns[0].CommonSteps).To(Equal([]string{"Open the login page", "Click the login button"}))
			Expect(patterns[1].CommonSteps).To(Equal([]string{"Navigate to the status screen", "Check sensor X status"}))
		})

		It("should key examples by role", func() {
			patterns := miner.ExtractPatterns(table, keys)
			Expect(patterns[0].Examples).To(HaveLen(2))
			Expect(patterns[0].Examples[0][domain.RoleTestID]).To(Equal("TC-001"))
			Expect(patterns[0].Examples[1][domain.RoleTestID]).To(Equal("TC-002"))
		})

		It("should log a summary", func() {
			miner.ExtractPatterns(table, keys)
			Expect(hook.LastEntry()).NotTo(BeNil())
			Expect(hook.LastEntry().Data).To(HaveKeyWithValue("patterns", 2))
		})

		It("should fall back to a general group without a requirement column", func() {
			delete(keys, domain.RoleRequirementID)
			patterns := miner.ExtractPatterns(table, keys)
			Expect(patterns).To(HaveLen(1))
			Expect(patterns[0].RequirementID).To(Equal(corpus.GeneralGroup))
			Expect(patterns[0].TestCount).To(Equal(5))
			Expect(patterns[0].Examples).To(HaveLen(3))
		})

		It("should fall back to a general group when every requirement id is empty", func() {
			t := &domain.Table{
				Columns: []string{"Req", "Steps"},
				Rows:    []map[string]string{{"Req": " ", "Steps": "1. Open"}, {"Req": "", "Steps": "1. Open"}},
			}
			patterns := miner.ExtractPatterns(t, corpus.IdentifyKeyColumns(t))
			Expect(patterns).To(HaveLen(1))
			Expect(patterns[0].RequirementID).To(Equal(corpus.GeneralGroup))
			Expect(patterns[0].CommonSteps).To(Equal([]string{"Open"}))
			Expect(patterns[0].TestTypes).To(Equal([]domain.TestType{domain.HappyPath}))
		})

		It("should sample examples in table order", func() {
			t := &domain.Table{Columns: []string{"Test ID", "Requirement"}}
			for i := 0; i < 8; i++ {
				t.Rows = append(t.Rows, map[string]string{"Test ID": fmt.Sprintf("TC-%d", i), "Requirement": "REQ-9"})
			}
			patterns := miner.ExtractPatterns(t, corpus.IdentifyKeyColumns(t))
			Expect(patterns).To(HaveLen(1))

			examples := patterns[0].Examples
			Expect(examples).To(HaveLen(3))
			for i := 1; i < len(examples); i++ {
				Expect(examples[i][domain.RoleTestID] > examples[i-1][domain.RoleTestID]).To(BeTrue())
			}
		})

		It("should mine the same steps and preconditions on every run", func() {
			first := miner.ExtractPatterns(table, keys)
			second := miner.ExtractPatterns(table, keys)
			Expect(second).To(HaveLen(len(first)))
			for i := range first {
				Expect(first[i].CommonPreconditions).NotTo(BeEmpty())
				Expect(first[i].CommonSteps).NotTo(BeEmpty())
				Expect(second[i].RequirementID).To(Equal(first[i].RequirementID))
				Expect(second[i].CommonSteps).To(Equal(first[i].CommonSteps))
				Expect(second[i].CommonPreconditions).To(Equal(first[i].CommonPreconditions))
				Expect(second[i].TestTypes).To(Equal(first[i].TestTypes))
			}
		})

		It("should sample the same examples for the same seed", func() {
			other := corpus.NewMiner(nil, rand.New(rand.NewSource(7)), corpus.DefaultThresholds())
			delete(keys, domain.RoleRequirementID)
			Expect(other.ExtractPatterns(table, keys)[0].Examples).To(Equal(miner.ExtractPatterns(table, keys)[0].Examples))
		})
	})

	DescribeTable("NormalizeStep",
		func(step, expected string) {
			Expect(corpus.NormalizeStep(step)).To(Equal(expected))
		},
		Entry("numbers", "Wait 30 seconds", "Wait X seconds"),
		Entry("quoted values", `Enter "admin" in the name field`, `Enter "..." in the name field`),
		Entry("numbers inside words are kept", "Select option A1", "Select option A1"),
	)

	Describe("AnalyzeStyle", func() {
		It("should rank vocabulary verbs by count", func() {
			profile := corpus.AnalyzeStyle(table, keys)
			Expect(profile.CommonVerbs).To(Equal([]domain.VerbCount{
				{Verb: "open", Count: 3},
				{Verb: "check", Count: 2},
				{Verb: "click", Count: 2},
				{Verb: "enter", Count: 2},
				{Verb: "navigate", Count: 2},
				{Verb: "verify", Count: 1},
				{Verb: "save", Count: 1},
			}))
			Expect(profile.Tone).To(Equal(corpus.ToneInstructive))
		})

		It("should measure step length and detect an assertive tone", func() {
			t := &domain.Table{
				Columns: []string{"Steps"},
				Rows:    []map[string]string{{"Steps": "1. Verify the door\n2. Verify the lamp"}},
			}
			profile := corpus.AnalyzeStyle(t, corpus.IdentifyKeyColumns(t))
			Expect(profile.AverageStepLength).To(BeNumerically("==", 15))
			Expect(profile.Tone).To(Equal(corpus.ToneAssertive))
		})

		It("should return an empty profile without a steps column", func() {
			profile := corpus.AnalyzeStyle(table, domain.KeyColumns{})
			Expect(profile.AverageStepLength).To(BeZero())
			Expect(profile.CommonVerbs).To(BeEmpty())
			Expect(profile.Tone).To(Equal(corpus.ToneInstructive))
		})
	})

	Describe("AverageSteps", func() {
		It("should average the step count per row", func() {
			Expect(corpus.AverageSteps(table, keys)).To(BeNumerically("~", 2.8, 1e-9))
		})

		It("should be zero without a steps column", func() {
			Expect(corpus.AverageSteps(table, domain.KeyColumns{})).To(BeZero())
		})
	})
})
