// Package synth turns a requirement and a test plan into a test case.
package synth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/tcgen/internal/artifact"
	"github.com/fjglira/tcgen/internal/domain"
	"github.com/fjglira/tcgen/internal/llm"
	"github.com/fjglira/tcgen/internal/prompt"
)

// ContextSource supplies known details about a machine.
type ContextSource interface {
	MachineContext(machine, version string) map[string]string
}

// Options tune synthesis.
type Options struct {
	// Template names the prompt template; empty uses the engine default.
	Template string
	// Timeout bounds each generator call; zero means no limit.
	Timeout time.Duration
}

// Synthesizer renders prompts, calls the generator and parses the artifact.
type Synthesizer struct {
	engine  prompt.Engine
	gen     llm.TextGenerator
	parser  *artifact.Parser
	context ContextSource
	opts    Options
	logger  *logrus.Logger
}

// New creates a Synthesizer. contextSource may be nil.
func New(engine prompt.Engine, gen llm.TextGenerator, parser *artifact.Parser, contextSource ContextSource, opts Options, logger *logrus.Logger) *Synthesizer {
	if logger == nil {
		logger = logrus.New()
	}
	if parser == nil {
		parser = artifact.NewParser(logger, nil)
	}
	return &Synthesizer{
		engine:  engine,
		gen:     gen,
		parser:  parser,
		context: contextSource,
		opts:    opts,
		logger:  logger,
	}
}

// BuildPrompt renders the prompt for one planned test case.
func (s *Synthesizer) BuildPrompt(req domain.Requirement, plan domain.TestPlan, machine, version string, examples []string) (string, error) {
	data := prompt.Data{
		RequirementID:   req.ID,
		Description:     req.Description,
		TestType:        plan.Type,
		MachineType:     machine,
		Version:         version,
		PlanDescription: plan.Description,
		FocusAreas:      plan.FocusAreas,
		SuggestedSteps:  plan.SuggestedSteps,
		Examples:        examples,
	}
	if s.context != nil {
		if details := s.context.MachineContext(machine, version); len(details) > 0 {
			data.Context = details
		}
	}
	return s.engine.Render(s.opts.Template, data)
}

// Assemble parses artifact text and attaches the requirement, machine and plan.
func (s *Synthesizer) Assemble(req domain.Requirement, plan domain.TestPlan, machine, version, text string) domain.TestCase {
	tc := s.parser.ParseFor(text, machine, version)
	tc.Title = "Test for " + req.ID
	tc.WorkItemType = domain.WorkItemTestCase
	tc.RequirementID = req.ID
	tc.MachineType = machine
	tc.Version = version
	tc.TestType = plan.Type
	return tc
}

// Synthesize produces a test case. Prompt and generator failures are logged
// and the parser's fallback record is returned in their place.
func (s *Synthesizer) Synthesize(ctx context.Context, req domain.Requirement, plan domain.TestPlan, machine, version string, examples []string) domain.TestCase {
	log := s.logger.WithFields(logrus.Fields{
		"requirement_id": req.ID,
		"test_type":      plan.Type,
	})

	var text string
	p, err := s.BuildPrompt(req, plan, machine, version, examples)
	if err != nil {
		log.WithError(err).Error("Failed to build prompt")
	} else {
		text, err = s.generate(ctx, p)
		if err != nil {
			log.WithError(err).WithField("generator", s.backendName()).Warn("Generation failed, using fallback record")
			text = ""
		}
	}

	tc := s.Assemble(req, plan, machine, version, text)
	log.WithFields(logrus.Fields{
		"id":    tc.ID,
		"steps": len(tc.Steps),
	}).Debug("Synthesized test case")
	return tc
}

func (s *Synthesizer) backendName() string {
	if s.gen == nil {
		return "none"
	}
	return s.gen.Name()
}

func (s *Synthesizer) generate(ctx context.Context, p string) (text string, err error) {
	if s.gen == nil {
		return "", errors.New("no text generator configured")
	}
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panicked: %v", r)
		}
	}()
	return s.gen.Generate(ctx, p)
}
