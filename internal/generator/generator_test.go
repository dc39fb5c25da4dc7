package generator_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/fjglira/tcgen/internal/config"
	"github.com/fjglira/tcgen/internal/domain"
	"github.com/fjglira/tcgen/internal/generator"
	"github.com/fjglira/tcgen/internal/llm"
	"github.com/fjglira/tcgen/internal/reader"
	"github.com/fjglira/tcgen/internal/scanner"
)

func testdata(parts ...string) string {
	return filepath.Join(append([]string{"..", "..", "testdata"}, parts...)...)
}

var _ = Describe("Generator", func() {
	var (
		gen       *generator.DefaultGenerator
		cfg       *config.Config
		outputDir string
		log       *logrus.Logger
		hook      *test.Hook
	)

	BeforeEach(func() {
		log, hook = test.NewNullLogger()
		log.SetLevel(logrus.DebugLevel)
		outputDir = GinkgoT().TempDir()

		cfg = config.DefaultConfig()
		cfg.Input.Documents = []string{testdata("docs", "srs_sample.txt")}
		cfg.Input.Directories = nil
		cfg.Corpus.Path = testdata("corpus", "existing_tests.csv")
		cfg.SharedSteps.Directory = testdata("shared_steps")
		cfg.SharedSteps.Persist = false
		cfg.Output.Directory = outputDir

		var err error
		gen, err = generator.NewGenerator(
			scanner.New(*cfg.Input.Recursive, cfg.Input.Include, cfg.Input.Exclude),
			reader.NewDefaultRegistry(),
			nil,
			log,
		)
		Expect(err).ToNot(HaveOccurred())
	})

	It("should write one CSV for the document", func() {
		result, err := gen.Generate(context.Background(), cfg)
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Written).To(BeTrue())
		Expect(result.Backend).To(Equal("rule"))
		Expect(result.RunID).ToNot(BeEmpty())
		Expect(result.OutputPath).To(Equal(filepath.Join(outputDir, "srs_sample_E_v3.2.csv")))

		content, err := os.ReadFile(result.OutputPath)
		Expect(err).ToNot(HaveOccurred())
		lines := strings.Split(string(content), "\n")
		Expect(lines[0]).To(Equal("ID,Work Item type,Title,Test Step,Step Action,Step expected"))
		Expect(string(content)).To(ContainSubstring("Test for REQ-001"))
	})

	It("should plan by complexity and keep requirement order", func() {
		cfg.Generation.Concurrency = 4
		result, err := gen.Generate(context.Background(), cfg)
		Expect(err).ToNot(HaveOccurred())

		var order []string
		for _, tc := range result.TestCases {
			order = append(order, tc.RequirementID)
		}
		Expect(order).To(Equal([]string{
			"REQ-001", "REQ-002", "REQ-003", "REQ-003", "R-4", "R-4", "R-4", "REQ-AUTO-005",
		}))
		Expect(result.TestCases[4].TestType).To(Equal(domain.HappyPath))
		Expect(result.TestCases[5].TestType).To(Equal(domain.BoundaryConditions))
		Expect(result.TestCases[6].TestType).To(Equal(domain.ErrorCases))
	})

	It("should stamp every case with the target machine", func() {
		result, err := gen.Generate(context.Background(), cfg)
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Analysis.Machine).To(Equal(domain.MachineInfo{MachineType: "E", Version: "3.2"}))

		ids := make(map[string]bool)
		for _, tc := range result.TestCases {
			Expect(tc.MachineType).To(Equal("E"))
			Expect(tc.Version).To(Equal("3.2"))
			Expect(tc.ID).To(HavePrefix("E_"))
			Expect(tc.ID).To(HaveSuffix("_3_2"))
			Expect(ids[tc.ID]).To(BeFalse())
			ids[tc.ID] = true
		}
	})

	It("should prefer the configured target", func() {
		cfg.Target.MachineType = "X"
		cfg.Target.Version = "1.0"
		result, err := gen.Generate(context.Background(), cfg)
		Expect(err).ToNot(HaveOccurred())
		Expect(result.OutputPath).To(HaveSuffix("srs_sample_X_v1.0.csv"))
	})

	It("should honour output.file", func() {
		cfg.Output.File = "custom.csv"
		result, err := gen.Generate(context.Background(), cfg)
		Expect(err).ToNot(HaveOccurred())
		Expect(filepath.Join(outputDir, "custom.csv")).To(BeAnExistingFile())
		Expect(result.OutputPath).To(HaveSuffix("custom.csv"))
	})

	It("should export referenced shared steps ahead of the cases", func() {
		cfg.Input.Documents = []string{testdata("docs", "srs_sample.md")}
		result, err := gen.Generate(context.Background(), cfg)
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Rows[0][domain.ColID]).To(Equal("SS-00001"))
		Expect(result.Rows[0][domain.ColWorkItemType]).To(Equal(domain.WorkItemSharedSteps))

		var actions []string
		for _, row := range result.Rows {
			actions = append(actions, row[domain.ColStepAction])
		}
		Expect(actions).To(ContainElement("Shared action SS-00001"))
	})

	It("should not write in dry-run mode", func() {
		cfg.DryRun = true
		result, err := gen.Generate(context.Background(), cfg)
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Written).To(BeFalse())
		Expect(result.Rows).ToNot(BeEmpty())
		Expect(result.OutputPath).ToNot(BeAnExistingFile())

		var dryRun bool
		for _, e := range hook.AllEntries() {
			if strings.HasPrefix(e.Message, "[DRY-RUN]") {
				dryRun = true
			}
		}
		Expect(dryRun).To(BeTrue())
	})

	It("should run without a corpus", func() {
		cfg.Corpus.Path = ""
		result, err := gen.Generate(context.Background(), cfg)
		Expect(err).ToNot(HaveOccurred())
		Expect(result.TestCases).To(HaveLen(8))
	})

	It("should read a corpus in the import layout", func() {
		cfg.Corpus.Path = testdata("corpus", "tfs_export.csv")
		cfg.Corpus.Format = "tfs"
		result, err := gen.Generate(context.Background(), cfg)
		Expect(err).ToNot(HaveOccurred())
		Expect(result.TestCases).To(HaveLen(8))
	})

	It("should fail for a missing document", func() {
		cfg.Input.Documents = []string{testdata("docs", "missing.txt")}
		_, err := gen.Generate(context.Background(), cfg)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("[scan]"))
	})

	It("should fail when no document is found", func() {
		cfg.Input.Documents = nil
		cfg.Input.Directories = []string{GinkgoT().TempDir()}
		_, err := gen.Generate(context.Background(), cfg)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("no requirement documents found"))
	})

	It("should fail for a missing corpus", func() {
		cfg.Corpus.Path = testdata("corpus", "missing.csv")
		_, err := gen.Generate(context.Background(), cfg)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("[corpus]"))
	})

	It("should fail when the backend cannot be created", func() {
		failing, err := generator.NewGenerator(
			scanner.New(true, cfg.Input.Include, nil),
			reader.NewDefaultRegistry(),
			func(context.Context, config.GenerationConfig, llm.Deps) (llm.TextGenerator, error) {
				return nil, errors.New("no backend")
			},
			log,
		)
		Expect(err).ToNot(HaveOccurred())
		_, err = failing.Generate(context.Background(), cfg)
		Expect(err).To(MatchError("no backend"))
	})

	It("should stop on a cancelled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := gen.Generate(ctx, cfg)
		Expect(err).To(MatchError(context.Canceled))
	})

	Describe("Analyze", func() {
		It("should segment every document and read the platform", func() {
			analysis, err := gen.Analyze(context.Background(), cfg)
			Expect(err).ToNot(HaveOccurred())
			Expect(analysis.Documents).To(HaveLen(1))
			Expect(analysis.Requirements).To(HaveLen(5))
			Expect(analysis.Platform.Name).To(Equal("Easy Demo"))
			Expect(analysis.Platform.Version).To(Equal("3.2"))
		})
	})
})
