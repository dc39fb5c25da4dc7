package export_test

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/tcgen/internal/corpus"
	"github.com/fjglira/tcgen/internal/domain"
	"github.com/fjglira/tcgen/internal/export"
	"github.com/fjglira/tcgen/internal/sharedsteps"
)

var sampleCases = []domain.TestCase{
	{
		ID:              "E_1_abc_3_2",
		RequirementID:   "REQ-001",
		Preconditions:   "System is ready",
		Steps:           []string{"SHARED_STEP: SS-00001", "Open app"},
		ExpectedResults: []string{"Login successful", "App opens"},
	},
	{
		RequirementID:   "REQ-002",
		Steps:           []string{"Click X, then Y"},
		ExpectedResults: []string{"Done"},
	},
}

type fakeResolver map[string]domain.SharedStep

func (f fakeResolver) Reference(id string) domain.SharedStepReference {
	if s, ok := f[id]; ok {
		return domain.SharedStepReference{ID: s.ID, WorkItemType: domain.WorkItemSharedSteps, Title: s.Title}
	}
	return sharedsteps.NotFound(id)
}

var _ = Describe("Exporter", func() {
	Describe("Export", func() {
		It("should match the golden import file byte for byte", func() {
			var buf bytes.Buffer
			Expect(export.WriteCSV(&buf, export.New(nil).Export(sampleCases))).To(Succeed())

			golden, err := os.ReadFile(filepath.Join("..", "..", "testdata", "export", "expected_tfs.csv"))
			Expect(err).NotTo(HaveOccurred())
			Expect(buf.String()).To(Equal(string(golden)))
		})

		It("should emit one header, one preconditions row and one row per step", func() {
			rows := export.New(nil).Export(sampleCases[:1])
			Expect(rows).To(HaveLen(1 + 1 + 2))
			Expect(rows[2][domain.ColTestStep]).To(Equal("1"))
			Expect(rows[3][domain.ColTestStep]).To(Equal("2"))
		})

		It("should keep an explicit title", func() {
			rows := export.New(nil).Export([]domain.TestCase{{ID: "T", Title: "Custom"}})
			Expect(rows).To(Equal([]domain.Row{{"T", "Test case", "Custom", "", "", ""}}))
		})

		It("should drop unpaired steps", func() {
			rows := export.New(nil).Export([]domain.TestCase{{
				ID: "T", Steps: []string{"a", "b", "c"}, ExpectedResults: []string{"x"},
			}})
			Expect(rows).To(HaveLen(2))
		})

		It("should put a placeholder for an unknown shared step", func() {
			resolver := fakeResolver{"SS-00001": {ID: "SS-00001", Title: "Login"}}
			cases := []domain.TestCase{{
				ID:              "T",
				Steps:           []string{"SHARED_STEP: SS-00001", "SHARED_STEP: SS-00404"},
				ExpectedResults: []string{"ok", "ok"},
			}}
			rows := export.New(resolver).Export(cases)
			Expect(rows[1][domain.ColStepAction]).To(Equal("Shared action SS-00001"))
			Expect(rows[2][domain.ColStepAction]).To(Equal("SHARED STEP NOT FOUND: SS-00404"))
		})

		It("should round-trip through the TFS reader", func() {
			var buf bytes.Buffer
			Expect(export.WriteCSV(&buf, export.New(nil).Export(sampleCases))).To(Succeed())

			table, err := corpus.ParseCSV("roundtrip", &buf)
			Expect(err).NotTo(HaveOccurred())

			cases := corpus.FromTFS(table)
			Expect(cases).To(HaveLen(2))
			Expect(cases[0].Steps).To(Equal(sampleCases[0].Steps))
			Expect(cases[0].ExpectedResults).To(Equal(sampleCases[0].ExpectedResults))
			Expect(cases[0].Preconditions).To(Equal(sampleCases[0].Preconditions))
			Expect(cases[1].Steps).To(Equal(sampleCases[1].Steps))
		})
	})

	Describe("ExportWithSharedSteps", func() {
		It("should emit shared step definitions first", func() {
			shared := []domain.SharedStep{{
				ID: "SS-00001", Title: "Login",
				Steps: []string{"Open login", "Submit"}, ExpectedResults: []string{"Form shown"},
			}}
			rows := export.New(nil).ExportWithSharedSteps(shared, sampleCases[:1])
			Expect(rows[0]).To(Equal(domain.Row{"SS-00001", "Shared steps", "Login", "", "", ""}))
			Expect(rows[1]).To(Equal(domain.Row{"", "", "", "1", "Open login", "Form shown"}))
			Expect(rows[2]).To(Equal(domain.Row{"", "", "", "2", "Submit", ""}))
			Expect(rows[3][domain.ColID]).To(Equal("E_1_abc_3_2"))
		})
	})

	Describe("ReferencedSharedSteps", func() {
		It("should list ids in first-use order", func() {
			cases := []domain.TestCase{
				{Steps: []string{"SHARED_STEP: SS-00002", "x"}},
				{Steps: []string{"SHARED_STEP: SS-00001", "SHARED_STEP: SS-00002"}},
			}
			Expect(export.ReferencedSharedSteps(cases)).To(Equal([]string{"SS-00002", "SS-00001"}))
		})
	})

	Describe("WriteFile", func() {
		It("should create parent directories", func() {
			path := filepath.Join(GinkgoT().TempDir(), "out", "nested", "tests.csv")
			Expect(export.WriteFile(path, export.New(nil).Export(sampleCases))).To(Succeed())
			Expect(path).To(BeAnExistingFile())
		})
	})

	DescribeTable("FileName",
		func(doc, machine, version, expected string) {
			Expect(export.FileName(doc, machine, version)).To(Equal(expected))
		},
		Entry("plain document", "docs/srs_sample.txt", "E", "3.2", "srs_sample_E_v3.2.csv"),
		Entry("spaces are replaced", "docs/My Spec.md", "X", "1.0", "My_Spec_X_v1.0.csv"),
	)
})
