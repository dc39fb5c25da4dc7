// Package sharedsteps stores reusable step blocks referenced from test cases.
package sharedsteps

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/tcgen/internal/domain"
)

const phase = "sharedsteps"

// markFile records the next id number so removed ids stay retired across runs.
const markFile = ".next"

var idRe = regexp.MustCompile(`^SS-(\d+)$`)

// Registry keeps shared steps in insertion order and optionally persists
// each one as <id>.json in its directory. It is safe for concurrent use.
type Registry struct {
	dir    string
	logger *logrus.Logger

	mu    sync.RWMutex
	steps map[string]domain.SharedStep
	order []string
	// next is the number of the next id to assign. It only grows.
	next int
}

// New creates an empty registry backed by dir.
func New(dir string, logger *logrus.Logger) *Registry {
	if logger == nil {
		logger = logrus.New()
	}
	return &Registry{
		dir:    dir,
		logger: logger,
		steps:  make(map[string]domain.SharedStep),
		next:   1,
	}
}

// Dir returns the backing directory.
func (r *Registry) Dir() string {
	return r.dir
}

// Load reads every *.json file of the directory in file name order. A missing
// directory is an empty registry. Files that cannot be decoded, or that carry
// no id, are skipped with a warning.
func (r *Registry) Load() error {
	entries, err := os.ReadDir(r.dir)
	if errors.Is(err, os.ErrNotExist) {
		r.logger.WithField("dir", r.dir).Debug("Shared steps directory does not exist")
		return nil
	}
	if err != nil {
		return domain.NewError(phase, r.dir, 0, "failed to read shared steps directory", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.readMark(); err != nil {
		r.logger.WithError(err).WithField("file", r.markPath()).Warn("Ignoring shared step id mark")
	}

	loaded := 0
	for _, name := range names {
		path := filepath.Join(r.dir, name)
		step, err := readStep(path)
		if err != nil {
			r.logger.WithError(err).WithField("file", path).Warn("Skipping shared step file")
			continue
		}
		r.put(step)
		loaded++
	}

	r.logger.WithFields(logrus.Fields{
		"dir":   r.dir,
		"count": loaded,
	}).Info("Loaded shared steps")
	return nil
}

func readStep(path string) (domain.SharedStep, error) {
	var step domain.SharedStep
	data, err := os.ReadFile(path)
	if err != nil {
		return step, err
	}
	if err := json.Unmarshal(data, &step); err != nil {
		return step, err
	}
	if step.ID == "" {
		return step, fmt.Errorf("shared step has no id")
	}
	return step, nil
}

// put stores step and advances the id counter past it. Callers hold mu.
func (r *Registry) put(step domain.SharedStep) {
	if _, exists := r.steps[step.ID]; !exists {
		r.order = append(r.order, step.ID)
	}
	r.steps[step.ID] = step
	if m := idRe.FindStringSubmatch(step.ID); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= r.next {
			r.next = n + 1
		}
	}
}

// Create registers a new shared step under the next free SS-NNNNN id and,
// when persist is set, writes it to the directory.
func (r *Registry) Create(title string, steps, results []string, persist bool) (domain.SharedStep, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	step := domain.SharedStep{
		ID:              fmt.Sprintf("SS-%05d", r.next),
		Title:           title,
		Steps:           append([]string{}, steps...),
		ExpectedResults: append([]string{}, results...),
	}
	r.next++

	if persist {
		if err := r.save(step); err != nil {
			return domain.SharedStep{}, err
		}
	}
	r.put(step)
	if persist {
		if err := r.writeMark(); err != nil {
			return domain.SharedStep{}, err
		}
	}

	r.logger.WithFields(logrus.Fields{
		"id":    step.ID,
		"title": title,
	}).Info("Created shared step")
	return step, nil
}

func (r *Registry) save(step domain.SharedStep) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return domain.NewError(phase, r.dir, 0, "failed to create shared steps directory", err)
	}
	data, err := json.MarshalIndent(step, "", "  ")
	if err != nil {
		return domain.NewError(phase, step.ID, 0, "failed to encode shared step", err)
	}
	path := r.path(step.ID)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return domain.NewError(phase, path, 0, "failed to write shared step", err)
	}
	return nil
}

func (r *Registry) path(id string) string {
	return filepath.Join(r.dir, id+".json")
}

func (r *Registry) markPath() string {
	return filepath.Join(r.dir, markFile)
}

// readMark raises next to the persisted mark. A missing mark is not an error.
// Callers hold mu.
func (r *Registry) readMark() error {
	data, err := os.ReadFile(r.markPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return fmt.Errorf("invalid id mark: %w", err)
	}
	if n > r.next {
		r.next = n
	}
	return nil
}

// writeMark persists next. Callers hold mu.
func (r *Registry) writeMark() error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return domain.NewError(phase, r.dir, 0, "failed to create shared steps directory", err)
	}
	if err := os.WriteFile(r.markPath(), []byte(strconv.Itoa(r.next)+"\n"), 0o644); err != nil {
		return domain.NewError(phase, r.markPath(), 0, "failed to write shared step id mark", err)
	}
	return nil
}

// Get returns the shared step with the given id.
func (r *Registry) Get(id string) (domain.SharedStep, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	step, ok := r.steps[id]
	return step, ok
}

// FindByKeywords returns up to limit steps whose title, or else whose joined
// steps, contain any keyword. Matching is case-insensitive.
func (r *Registry) FindByKeywords(keywords []string, limit int) []domain.SharedStep {
	lower := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			lower = append(lower, k)
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []domain.SharedStep
	for _, id := range r.order {
		if len(matches) >= limit {
			break
		}
		step := r.steps[id]
		if containsAny(strings.ToLower(step.Title), lower) ||
			containsAny(strings.ToLower(strings.Join(step.Steps, " ")), lower) {
			matches = append(matches, step)
		}
	}
	return matches
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// Reference returns the export descriptor for a shared step. An unknown id
// yields a placeholder whose action names the missing id.
func (r *Registry) Reference(id string) domain.SharedStepReference {
	step, ok := r.Get(id)
	if !ok {
		r.logger.WithField("id", id).Warn("Shared step not found")
		return NotFound(id)
	}
	return domain.SharedStepReference{
		ID:           step.ID,
		WorkItemType: domain.WorkItemSharedSteps,
		Title:        step.Title,
	}
}

// NotFound is the placeholder reference for an unknown shared step id.
func NotFound(id string) domain.SharedStepReference {
	return domain.SharedStepReference{StepAction: "SHARED STEP NOT FOUND: " + id}
}

// List returns every shared step in insertion order.
func (r *Registry) List() []domain.SharedStep {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.SharedStep, len(r.order))
	for i, id := range r.order {
		out[i] = r.steps[id]
	}
	return out
}

// Remove deletes a shared step and its file. Its id is never reused: the id
// mark in the directory keeps it retired for later loads.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.steps[id]; !ok {
		return domain.NewError(phase, "", 0, fmt.Sprintf("shared step %q not found", id), nil)
	}
	if err := os.Remove(r.path(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return domain.NewError(phase, r.path(id), 0, "failed to remove shared step", err)
	}
	if err := r.writeMark(); err != nil {
		return err
	}

	delete(r.steps, id)
	for i, x := range r.order {
		if x == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.logger.WithField("id", id).Info("Removed shared step")
	return nil
}
