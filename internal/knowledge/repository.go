// Package knowledge holds what a run learns from the corpus: mined patterns,
// few-shot examples, machine context and the generation history.
package knowledge

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/tcgen/internal/corpus"
	"github.com/fjglira/tcgen/internal/domain"
)

// Generation records one synthesized test case.
type Generation struct {
	RequirementID string
	TestCaseID    string
	TestType      domain.TestType
	At            time.Time
}

type patternEntry struct {
	pattern domain.Pattern
	meta    map[string]string
}

type taggedExample struct {
	example map[domain.Role]string
	tags    []string
}

// Repository is safe for concurrent use.
type Repository struct {
	mu       sync.RWMutex
	logger   *logrus.Logger
	now      func() time.Time
	patterns []patternEntry
	examples []taggedExample
	contexts map[string]map[string]map[string]string // machine -> version -> info
	machine  domain.MachineInfo
	history  []Generation
}

// New creates an empty Repository.
func New(logger *logrus.Logger) *Repository {
	if logger == nil {
		logger = logrus.New()
	}
	return &Repository{
		logger:   logger,
		now:      time.Now,
		contexts: make(map[string]map[string]map[string]string),
	}
}

// AddPattern stores a mined pattern with free-form metadata such as its source.
func (r *Repository) AddPattern(p domain.Pattern, meta map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patterns = append(r.patterns, patternEntry{pattern: p, meta: meta})
	r.logger.WithField("requirement_id", p.RequirementID).Debug("Added test pattern")
}

// Patterns returns every stored pattern in insertion order.
func (r *Repository) Patterns() []domain.Pattern {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Pattern, len(r.patterns))
	for i, e := range r.patterns {
		out[i] = e.pattern
	}
	return out
}

// PatternMeta returns the metadata stored with the first pattern for requirementID.
func (r *Repository) PatternMeta(requirementID string) (map[string]string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.patterns {
		if e.pattern.RequirementID == requirementID {
			return e.meta, true
		}
	}
	return nil, false
}

// RelevantPatterns returns the patterns mined for the requirement's id, or
// every pattern when none match.
func (r *Repository) RelevantPatterns(req domain.Requirement) []domain.Pattern {
	all := r.Patterns()
	var matched []domain.Pattern
	for _, p := range all {
		if p.RequirementID == req.ID {
			matched = append(matched, p)
		}
	}
	if len(matched) > 0 {
		return matched
	}
	return all
}

// AddExample stores a corpus row for few-shot prompting. Tags are typically
// the machine type and version the example applies to.
func (r *Repository) AddExample(example map[domain.Role]string, tags []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.examples = append(r.examples, taggedExample{example: example, tags: tags})
}

// Examples returns up to limit formatted examples. Examples tagged with both
// machine and version come first, followed by untagged examples.
func (r *Repository) Examples(machine, version string, limit int) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var tagged, untagged []map[domain.Role]string
	for _, ex := range r.examples {
		switch {
		case len(ex.tags) == 0:
			untagged = append(untagged, ex.example)
		case hasTag(ex.tags, machine) && hasTag(ex.tags, version):
			tagged = append(tagged, ex.example)
		}
	}

	var out []string
	for _, ex := range append(tagged, untagged...) {
		if len(out) >= limit {
			break
		}
		out = append(out, FormatExample(ex))
	}
	return out
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// FormatExample renders a corpus row in the layout the artifact parser reads.
func FormatExample(example map[domain.Role]string) string {
	var b strings.Builder
	id := example[domain.RoleTestID]
	if id == "" {
		id = "Unknown"
	}
	fmt.Fprintf(&b, "TEST CASE ID: %s\n", id)
	fmt.Fprintf(&b, "PRECONDITIONS: %s\n", strings.TrimSpace(example[domain.RolePreconditions]))
	b.WriteString("STEPS:\n")
	for i, step := range corpus.SplitSteps(example[domain.RoleSteps]) {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	b.WriteString("EXPECTED RESULTS:\n")
	for i, result := range corpus.SplitSteps(example[domain.RoleExpectedResults]) {
		fmt.Fprintf(&b, "%d. %s\n", i+1, result)
	}
	return b.String()
}

// SetMachineInfo records the target machine of the current run.
func (r *Repository) SetMachineInfo(info domain.MachineInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.machine = info
	r.logger.WithFields(logrus.Fields{
		"machine_type": info.MachineType,
		"version":      info.Version,
	}).Debug("Set machine context")
}

// MachineInfo returns the target machine of the current run.
func (r *Repository) MachineInfo() domain.MachineInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.machine
}

// AddMachineDetails merges info into the context of a machine. An empty
// version stores details shared by every version.
func (r *Repository) AddMachineDetails(machine, version string, info map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	versions, ok := r.contexts[machine]
	if !ok {
		versions = make(map[string]map[string]string)
		r.contexts[machine] = versions
	}
	details, ok := versions[version]
	if !ok {
		details = make(map[string]string)
		versions[version] = details
	}
	for k, v := range info {
		details[k] = v
	}
}

// MachineContext returns the details known for a machine, with
// version-specific values overriding the shared ones. Unknown machines yield
// an empty map.
func (r *Repository) MachineContext(machine, version string) map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string)
	versions, ok := r.contexts[machine]
	if !ok {
		return out
	}
	for k, v := range versions[""] {
		out[k] = v
	}
	if version != "" {
		for k, v := range versions[version] {
			out[k] = v
		}
	}
	return out
}

// RecordGeneration appends a synthesized test case to the history.
func (r *Repository) RecordGeneration(tc domain.TestCase) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, Generation{
		RequirementID: tc.RequirementID,
		TestCaseID:    tc.ID,
		TestType:      tc.TestType,
		At:            r.now(),
	})
}

// History returns the generations for requirementID, or all of them when it is empty.
func (r *Repository) History(requirementID string) []Generation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Generation
	for _, g := range r.history {
		if requirementID == "" || g.RequirementID == requirementID {
			out = append(out, g)
		}
	}
	return out
}
