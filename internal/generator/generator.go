// Package generator wires the pipeline from requirement documents to the
// exported test case table.
package generator

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/fjglira/tcgen/internal/artifact"
	"github.com/fjglira/tcgen/internal/config"
	"github.com/fjglira/tcgen/internal/corpus"
	"github.com/fjglira/tcgen/internal/domain"
	"github.com/fjglira/tcgen/internal/export"
	"github.com/fjglira/tcgen/internal/knowledge"
	"github.com/fjglira/tcgen/internal/llm"
	"github.com/fjglira/tcgen/internal/planner"
	"github.com/fjglira/tcgen/internal/prompt"
	"github.com/fjglira/tcgen/internal/scanner"
	"github.com/fjglira/tcgen/internal/segmenter"
	"github.com/fjglira/tcgen/internal/sharedsteps"
	"github.com/fjglira/tcgen/internal/synth"
)

const (
	tracerName     = "github.com/fjglira/tcgen/internal/generator"
	unknownMachine = "Unknown"
)

// Generator is the top-level orchestrator.
type Generator interface {
	Generate(ctx context.Context, cfg *config.Config) (*Result, error)
}

// DocumentReader extracts the text of one document.
type DocumentReader interface {
	ReadFile(path string) (*domain.Document, error)
}

// BackendFactory creates the text generator for a run.
type BackendFactory func(ctx context.Context, cfg config.GenerationConfig, deps llm.Deps) (llm.TextGenerator, error)

// Analysis is what a run learns from its input documents.
type Analysis struct {
	Documents    []string
	Requirements []domain.Requirement
	Platform     domain.PlatformInfo
	Machine      domain.MachineInfo
}

// Result describes a finished run.
type Result struct {
	RunID     string
	Analysis  Analysis
	Backend   string
	TestCases []domain.TestCase
	Rows      []domain.Row
	// OutputPath is where the table was or, in dry-run mode, would be written.
	OutputPath string
	Written    bool
}

// DefaultGenerator implements Generator by wiring all components together.
type DefaultGenerator struct {
	scanner scanner.Scanner
	reader  DocumentReader
	backend BackendFactory
	log     *logrus.Logger
	node    *snowflake.Node
}

// NewGenerator creates a new DefaultGenerator. A nil backend factory selects
// the backend from the generation config.
func NewGenerator(s scanner.Scanner, r DocumentReader, backend BackendFactory, log *logrus.Logger) (*DefaultGenerator, error) {
	if log == nil {
		log = logrus.New()
	}
	if backend == nil {
		backend = llm.New
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, fmt.Errorf("failed to create run id node: %w", err)
	}
	return &DefaultGenerator{
		scanner: s,
		reader:  r,
		backend: backend,
		log:     log,
		node:    node,
	}, nil
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}

// Analyze discovers and reads the input documents, segments them into
// requirements and works out the target machine. Input errors are fatal.
func (g *DefaultGenerator) Analyze(ctx context.Context, cfg *config.Config) (*Analysis, error) {
	ctx, span := startSpan(ctx, "analyze")
	defer span.End()

	files, err := g.scanner.Discover(cfg.Input.Documents, cfg.Input.Directories)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if len(files) == 0 {
		return nil, domain.NewErrorWithSuggestion("scan", "", 0,
			"no requirement documents found",
			"set input.documents or input.directories in tcgen.yaml",
			nil)
	}
	g.log.WithField("documents", len(files)).Info("Found requirement documents")

	seg := segmenter.New(g.log)
	analysis := &Analysis{Documents: files}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := g.reader.ReadFile(path)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}

		info := segmenter.ExtractPlatformInfo(doc.Text)
		if analysis.Platform.Type == "" {
			analysis.Platform.Type = info.Type
			analysis.Platform.Name = info.Name
		}
		if analysis.Platform.Version == "" {
			analysis.Platform.Version = info.Version
		}

		reqs := segmenter.AnalyzePlatform(seg.Segment(doc.Text, doc.Path), info)
		analysis.Requirements = append(analysis.Requirements, reqs...)
	}

	analysis.Machine = resolveMachine(cfg.Target, segmenter.ExtractMachineInfo(analysis.Requirements), analysis.Platform)
	span.SetAttributes(
		attribute.Int("requirements", len(analysis.Requirements)),
		attribute.String("machine_type", analysis.Machine.MachineType),
		attribute.String("version", analysis.Machine.Version),
	)
	return analysis, nil
}

// resolveMachine prefers the configured target, then the machine mentioned by
// the requirements, then the platform stated by the documents.
func resolveMachine(target config.TargetConfig, mentioned domain.MachineInfo, platform domain.PlatformInfo) domain.MachineInfo {
	info := domain.MachineInfo{MachineType: target.MachineType, Version: target.Version}
	for _, candidate := range []string{mentioned.MachineType, platform.Type, unknownMachine} {
		if info.MachineType == "" {
			info.MachineType = candidate
		}
	}
	for _, candidate := range []string{mentioned.Version, platform.Version, unknownMachine} {
		if info.Version == "" {
			info.Version = candidate
		}
	}
	return info
}

// corpusKnowledge mines the corpus into repo and returns the writing style of
// its test cases.
func (g *DefaultGenerator) corpusKnowledge(ctx context.Context, cfg *config.Config, repo *knowledge.Repository, machine domain.MachineInfo) (domain.WritingStyle, error) {
	_, span := startSpan(ctx, "corpus", attribute.String("path", cfg.Corpus.Path))
	defer span.End()

	if cfg.Corpus.Path == "" {
		g.log.Info("No corpus configured, using the default writing style")
		return corpus.DefaultWritingStyle(), nil
	}

	table, err := corpus.LoadCSV(cfg.Corpus.Path)
	if err != nil {
		span.RecordError(err)
		return domain.WritingStyle{}, err
	}

	var cases []domain.TestCase
	switch cfg.Corpus.Format {
	case "tfs":
		cases = corpus.FromTFS(table)
		for _, tc := range cases {
			var tags []string
			if tc.MachineType != "" && tc.Version != "" {
				tags = []string{tc.MachineType, tc.Version}
			}
			repo.AddExample(map[domain.Role]string{
				domain.RoleTestID:          tc.ID,
				domain.RolePreconditions:   tc.Preconditions,
				domain.RoleSteps:           numbered(tc.Steps),
				domain.RoleExpectedResults: numbered(tc.ExpectedResults),
			}, tags)
		}
		for _, p := range corpus.PlatformPatterns(cases, cfg.Thresholds.StepMinCount) {
			details := map[string]string{}
			if len(p.Terminology) > 0 {
				details["terminology"] = strings.Join(p.Terminology, ", ")
			}
			if len(p.StepShapes) > 0 {
				details["typical steps"] = strings.Join(p.StepShapes, "; ")
			}
			repo.AddMachineDetails(p.MachineType, "", details)
		}

	default:
		keys := corpus.IdentifyKeyColumns(table)
		miner := corpus.NewMiner(g.log, nil, corpus.Thresholds{
			PreconditionRatio: cfg.Thresholds.PreconditionRatio,
			StepMinCount:      cfg.Thresholds.StepMinCount,
			ExampleSampleSize: cfg.Thresholds.ExampleSampleSize,
		})
		for _, p := range miner.ExtractPatterns(table, keys) {
			repo.AddPattern(p, map[string]string{"source": table.Source})
			for _, ex := range p.Examples {
				repo.AddExample(ex, nil)
			}
		}

		profile := corpus.AnalyzeStyle(table, keys)
		g.log.WithFields(logrus.Fields{
			"average_step_length": fmt.Sprintf("%.1f", profile.AverageStepLength),
			"average_steps":       fmt.Sprintf("%.1f", corpus.AverageSteps(table, keys)),
			"tone":                profile.Tone,
		}).Info("Analyzed corpus style")
		cases = corpus.FromTable(table, keys)
	}

	if terms := corpus.Terminology(cases, cfg.Thresholds.StepMinCount); len(terms) > 0 {
		repo.AddMachineDetails(machine.MachineType, "", map[string]string{"corpus terminology": strings.Join(terms, ", ")})
	}
	span.SetAttributes(attribute.Int("cases", len(cases)))
	return corpus.AnalyzeWritingStyle(cases), nil
}

func numbered(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = fmt.Sprintf("%d. %s", i+1, item)
	}
	return strings.Join(lines, "\n")
}

type job struct {
	req  domain.Requirement
	plan domain.TestPlan
}

// Generate runs the full pipeline: analyze → mine → plan → synthesize → export → write.
func (g *DefaultGenerator) Generate(ctx context.Context, cfg *config.Config) (*Result, error) {
	runID := g.node.Generate().String()
	log := g.log.WithField("run_id", runID)
	ctx, span := startSpan(ctx, "generate", attribute.String("run_id", runID))
	defer span.End()

	analysis, err := g.Analyze(ctx, cfg)
	if err != nil {
		return nil, err
	}
	machine := analysis.Machine
	log.WithFields(logrus.Fields{
		"requirements": len(analysis.Requirements),
		"machine_type": machine.MachineType,
		"version":      machine.Version,
	}).Info("Analyzed requirements")

	repo := knowledge.New(g.log)
	repo.SetMachineInfo(machine)
	if analysis.Platform.Name != "" {
		repo.AddMachineDetails(machine.MachineType, "", map[string]string{"platform": analysis.Platform.Name})
	}

	style, err := g.corpusKnowledge(ctx, cfg, repo, machine)
	if err != nil {
		return nil, err
	}

	registry := sharedsteps.New(cfg.SharedSteps.Directory, g.log)
	if err := registry.Load(); err != nil {
		return nil, err
	}

	backend, err := g.backend(ctx, cfg.Generation, llm.Deps{Logger: g.log, SharedSteps: registry, Style: style})
	if err != nil {
		return nil, err
	}
	engine, err := prompt.NewEngine(cfg.Generation.TemplateDir, cfg.Generation.Template)
	if err != nil {
		return nil, err
	}

	_, planSpan := startSpan(ctx, "plan")
	plnr := planner.New(g.log, planner.Thresholds{
		MediumWordCount: cfg.Thresholds.MediumWordCount,
		HighWordCount:   cfg.Thresholds.HighWordCount,
	})
	var jobs []job
	for _, req := range analysis.Requirements {
		for _, plan := range plnr.Plan(req, repo.RelevantPatterns(req)) {
			jobs = append(jobs, job{req: req, plan: planner.AdaptToMachine(plan, machine.MachineType, machine.Version)})
		}
	}
	planSpan.SetAttributes(attribute.Int("plans", len(jobs)))
	planSpan.End()
	log.WithField("plans", len(jobs)).Info("Planned test cases")

	cases, err := g.synthesize(ctx, cfg, jobs, repo, engine, backend)
	if err != nil {
		return nil, err
	}

	_, exportSpan := startSpan(ctx, "export")
	var shared []domain.SharedStep
	for _, id := range export.ReferencedSharedSteps(cases) {
		if step, ok := registry.Get(id); ok {
			shared = append(shared, step)
		}
	}
	rows := export.New(registry).ExportWithSharedSteps(shared, cases)
	exportSpan.SetAttributes(attribute.Int("rows", len(rows)), attribute.Int("shared_steps", len(shared)))
	exportSpan.End()

	result := &Result{
		RunID:      runID,
		Analysis:   *analysis,
		Backend:    backend.Name(),
		TestCases:  cases,
		Rows:       rows,
		OutputPath: outputPath(cfg.Output, analysis.Documents[0], machine),
	}

	if cfg.DryRun {
		log.Infof("[DRY-RUN] Would write: %s", result.OutputPath)
		return result, nil
	}

	log.Infof("Writing: %s", result.OutputPath)
	if err := export.WriteFile(result.OutputPath, rows); err != nil {
		span.RecordError(err)
		return nil, err
	}
	result.Written = true
	log.WithField("test_cases", len(cases)).Info("Generation complete")
	return result, nil
}

// synthesize runs the jobs with bounded concurrency. The returned cases keep
// the order of jobs.
func (g *DefaultGenerator) synthesize(ctx context.Context, cfg *config.Config, jobs []job, repo *knowledge.Repository, engine prompt.Engine, backend llm.TextGenerator) ([]domain.TestCase, error) {
	ctx, span := startSpan(ctx, "synthesize", attribute.String("backend", backend.Name()))
	defer span.End()

	parser := artifact.NewParser(g.log, artifact.NewIDGenerator(""))
	s := synth.New(engine, backend, parser, repo, synth.Options{
		Template: cfg.Generation.Template,
		Timeout:  cfg.Generation.TimeoutDuration(),
	}, g.log)

	machine := repo.MachineInfo()
	examples := repo.Examples(machine.MachineType, machine.Version, cfg.Generation.ExampleLimit)

	cases := make([]domain.TestCase, len(jobs))
	eg, egCtx := errgroup.WithContext(ctx)
	limit := cfg.Generation.Concurrency
	if limit < 1 {
		limit = 1
	}
	eg.SetLimit(limit)
	for i, j := range jobs {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			cases[i] = s.Synthesize(egCtx, j.req, j.plan, machine.MachineType, machine.Version, examples)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	for _, tc := range cases {
		repo.RecordGeneration(tc)
	}
	span.SetAttributes(attribute.Int("test_cases", len(cases)))
	return cases, nil
}

func outputPath(out config.OutputConfig, document string, machine domain.MachineInfo) string {
	name := out.File
	if name == "" {
		name = export.FileName(document, machine.MachineType, machine.Version)
	}
	return filepath.Join(out.Directory, name)
}
