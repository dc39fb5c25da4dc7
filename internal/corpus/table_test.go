package corpus_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/tcgen/internal/corpus"
	"github.com/fjglira/tcgen/internal/domain"
)

var corpusFixture = filepath.Join("..", "..", "testdata", "corpus", "existing_tests.csv")

var _ = Describe("Table", func() {
	Describe("LoadCSV", func() {
		It("should load the fixture corpus", func() {
			table, err := corpus.LoadCSV(corpusFixture)
			Expect(err).NotTo(HaveOccurred())
			Expect(table.Columns).To(Equal([]string{"Test ID", "Requirement ID", "Preconditions", "Test Steps", "Expected Results"}))
			Expect(table.Rows).To(HaveLen(5))
			Expect(table.Rows[0]["Test ID"]).To(Equal("TC-001"))
			Expect(table.Rows[4]["Requirement ID"]).To(BeEmpty())
		})

		It("should decode Windows-1252 cells", func() {
			path := filepath.Join(GinkgoT().TempDir(), "legacy.csv")
			content := []byte("Test ID,Test Steps\nTC-1,Check 25\xb0C reading\n")
			Expect(os.WriteFile(path, content, 0o644)).To(Succeed())

			table, err := corpus.LoadCSV(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(table.Rows[0]["Test Steps"]).To(Equal("Check 25°C reading"))
		})

		It("should return a corpus error for a missing file", func() {
			_, err := corpus.LoadCSV(filepath.Join(GinkgoT().TempDir(), "absent.csv"))
			Expect(err).To(HaveOccurred())

			var derr *domain.Error
			Expect(errors.As(err, &derr)).To(BeTrue())
			Expect(derr.Phase).To(Equal("corpus"))
		})
	})

	Describe("ParseCSV", func() {
		It("should pad short rows", func() {
			table, err := corpus.ParseCSV("inline", strings.NewReader("A,B,C\n1\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(table.Rows).To(HaveLen(1))
			Expect(table.Rows[0]).To(Equal(map[string]string{"A": "1", "B": "", "C": ""}))
		})

		It("should reject an empty file with a hint", func() {
			_, err := corpus.ParseCSV("empty.csv", strings.NewReader(""))
			Expect(err).To(HaveOccurred())

			var derr *domain.Error
			Expect(errors.As(err, &derr)).To(BeTrue())
			Expect(derr.Suggestion).NotTo(BeEmpty())
		})

		It("should report the line of malformed quoting", func() {
			_, err := corpus.ParseCSV("bad.csv", strings.NewReader("A,B\n1,\"open\n"))
			Expect(err).To(HaveOccurred())

			var derr *domain.Error
			Expect(errors.As(err, &derr)).To(BeTrue())
			Expect(derr.LineNumber).To(BeNumerically(">", 0))
		})
	})

	Describe("IdentifyKeyColumns", func() {
		It("should bind every role of the fixture corpus", func() {
			table, err := corpus.LoadCSV(corpusFixture)
			Expect(err).NotTo(HaveOccurred())

			Expect(corpus.IdentifyKeyColumns(table)).To(Equal(domain.KeyColumns{
				domain.RoleTestID:          "Test ID",
				domain.RoleRequirementID:   "Requirement ID",
				domain.RolePreconditions:   "Preconditions",
				domain.RoleSteps:           "Test Steps",
				domain.RoleExpectedResults: "Expected Results",
			}))
		})

		It("should let the first matching column win a role", func() {
			table := &domain.Table{Columns: []string{"Step", "Test Step Notes", "Result"}}
			keys := corpus.IdentifyKeyColumns(table)
			Expect(keys[domain.RoleSteps]).To(Equal("Step"))
			Expect(keys[domain.RoleExpectedResults]).To(Equal("Result"))
		})

		It("should not let a later role go to a column that fell through", func() {
			table := &domain.Table{Columns: []string{"Test ID", "Step ID", "Test Steps", "Expected Results"}}
			Expect(corpus.IdentifyKeyColumns(table)).To(Equal(domain.KeyColumns{
				domain.RoleTestID:          "Test ID",
				domain.RoleSteps:           "Test Steps",
				domain.RoleExpectedResults: "Expected Results",
			}))
		})

		It("should let a column fill a role no other column matched first", func() {
			table := &domain.Table{Columns: []string{"Test ID", "Req ID", "Steps"}}
			keys := corpus.IdentifyKeyColumns(table)
			Expect(keys[domain.RoleRequirementID]).To(Equal("Req ID"))
			Expect(keys[domain.RoleSteps]).To(Equal("Steps"))
		})

		It("should leave unmatched columns unbound", func() {
			table := &domain.Table{Columns: []string{"Owner", "Comments"}}
			Expect(corpus.IdentifyKeyColumns(table)).To(BeEmpty())
		})
	})

	Describe("SplitSteps", func() {
		It("should split numbered items and keep continuation lines", func() {
			cell := "Intro text\n1. Open the page\n   and wait\n2. Click save"
			Expect(corpus.SplitSteps(cell)).To(Equal([]string{"Open the page\n   and wait", "Click save"}))
		})

		It("should fall back to non-empty lines", func() {
			Expect(corpus.SplitSteps("Open app\n\n Close app ")).To(Equal([]string{"Open app", "Close app"}))
		})

		It("should return nothing for an empty cell", func() {
			Expect(corpus.SplitSteps("")).To(BeEmpty())
		})
	})

	DescribeTable("CountSteps",
		func(cell string, expected int) {
			Expect(corpus.CountSteps(cell)).To(Equal(expected))
		},
		Entry("numbered items", "1. a\n2. b\n3. c", 3),
		Entry("plain lines", "a\nb", 2),
		Entry("single line", "a", 1),
	)
})
