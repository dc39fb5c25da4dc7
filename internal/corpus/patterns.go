package corpus

import (
	"math/rand"
	"regexp"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/tcgen/internal/domain"
)

// GeneralGroup is the requirement id of the pattern covering the whole table.
const GeneralGroup = "general"

// Thresholds tune pattern extraction.
type Thresholds struct {
	// PreconditionRatio is the share of a group's rows a precondition must appear in.
	PreconditionRatio float64
	// StepMinCount is how often a normalized step must occur in a group.
	StepMinCount int
	// ExampleSampleSize caps the examples kept per group.
	ExampleSampleSize int
}

// DefaultThresholds returns the standard extraction thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{PreconditionRatio: 0.3, StepMinCount: 2, ExampleSampleSize: 3}
}

var (
	preconditionSplitRe = regexp.MustCompile(`[\n;]`)
	numberTokenRe       = regexp.MustCompile(`\b\d+\b`)
	quotedRe            = regexp.MustCompile(`"[^"]*"`)
	testTypeRes         = func() []*regexp.Regexp {
		res := make([]*regexp.Regexp, len(TestTypeRules))
		for i, rule := range TestTypeRules {
			quoted := make([]string, len(rule.Words))
			for j, w := range rule.Words {
				quoted[j] = regexp.QuoteMeta(w)
			}
			res[i] = regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
		}
		return res
	}()
)

// Miner extracts per-requirement patterns from a corpus table.
type Miner struct {
	logger     *logrus.Logger
	rng        *rand.Rand
	thresholds Thresholds
}

// NewMiner creates a Miner. rng drives example sampling and may be seeded for
// reproducible output.
func NewMiner(logger *logrus.Logger, rng *rand.Rand, thresholds Thresholds) *Miner {
	if logger == nil {
		logger = logrus.New()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Miner{logger: logger, rng: rng, thresholds: thresholds}
}

// ExtractPatterns groups rows by requirement id, in first-seen order, and
// mines each group. Rows with an empty requirement id are skipped. Without a
// requirement id column, or when no group survives, the whole table becomes
// the "general" group.
func (m *Miner) ExtractPatterns(table *domain.Table, keys domain.KeyColumns) []domain.Pattern {
	var patterns []domain.Pattern

	if _, ok := keys[domain.RoleRequirementID]; ok {
		groups := make(map[string][]map[string]string)
		var order []string
		for _, row := range table.Rows {
			id := strings.TrimSpace(Cell(row, keys, domain.RoleRequirementID))
			if id == "" {
				continue
			}
			if _, seen := groups[id]; !seen {
				order = append(order, id)
			}
			groups[id] = append(groups[id], row)
		}
		for _, id := range order {
			patterns = append(patterns, m.mine(id, groups[id], keys))
		}
	}

	if len(patterns) == 0 {
		patterns = append(patterns, m.mine(GeneralGroup, table.Rows, keys))
	}

	m.logger.WithFields(logrus.Fields{
		"source":   table.Source,
		"patterns": len(patterns),
	}).Info("Extracted test patterns")
	return patterns
}

func (m *Miner) mine(id string, rows []map[string]string, keys domain.KeyColumns) domain.Pattern {
	return domain.Pattern{
		RequirementID:       id,
		TestCount:           len(rows),
		TestTypes:           TestTypes(rows, keys),
		CommonPreconditions: m.commonPreconditions(rows, keys),
		CommonSteps:         m.commonSteps(rows, keys),
		Examples:            m.examples(rows, keys),
	}
}

// TestTypes detects the test types of a group from its joined step text.
// A group without any keyword is a happy path group.
func TestTypes(rows []map[string]string, keys domain.KeyColumns) []domain.TestType {
	var types []domain.TestType
	if _, ok := keys[domain.RoleSteps]; ok {
		cells := make([]string, len(rows))
		for i, row := range rows {
			cells[i] = Cell(row, keys, domain.RoleSteps)
		}
		text := strings.Join(cells, " ")
		for i, re := range testTypeRes {
			if re.MatchString(text) {
				types = append(types, TestTypeRules[i].Type)
			}
		}
	}
	if len(types) == 0 {
		types = append(types, domain.HappyPath)
	}
	return types
}

// commonPreconditions keeps the precondition items found in at least
// PreconditionRatio of the group's rows, in first-seen order.
func (m *Miner) commonPreconditions(rows []map[string]string, keys domain.KeyColumns) []string {
	if _, ok := keys[domain.RolePreconditions]; !ok {
		return nil
	}

	counts := make(map[string]int)
	var order []string
	for _, row := range rows {
		for _, item := range preconditionSplitRe.Split(Cell(row, keys, domain.RolePreconditions), -1) {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			if counts[item] == 0 {
				order = append(order, item)
			}
			counts[item]++
		}
	}

	threshold := m.thresholds.PreconditionRatio * float64(len(rows))
	var common []string
	for _, item := range order {
		if float64(counts[item]) >= threshold {
			common = append(common, item)
		}
	}
	return common
}

// NormalizeStep replaces standalone numbers with X and quoted text with "...".
func NormalizeStep(step string) string {
	step = numberTokenRe.ReplaceAllString(step, "X")
	return quotedRe.ReplaceAllString(step, `"..."`)
}

// commonSteps keeps normalized steps occurring at least StepMinCount times
// in the group, in first-seen order.
func (m *Miner) commonSteps(rows []map[string]string, keys domain.KeyColumns) []string {
	if _, ok := keys[domain.RoleSteps]; !ok {
		return nil
	}

	counts := make(map[string]int)
	var order []string
	for _, row := range rows {
		for _, step := range SplitSteps(Cell(row, keys, domain.RoleSteps)) {
			normalized := NormalizeStep(step)
			if counts[normalized] == 0 {
				order = append(order, normalized)
			}
			counts[normalized]++
		}
	}

	var common []string
	for _, step := range order {
		if counts[step] >= m.thresholds.StepMinCount {
			common = append(common, step)
		}
	}
	return common
}

// examples samples up to ExampleSampleSize rows, keeping their table order,
// and keys each by role.
func (m *Miner) examples(rows []map[string]string, keys domain.KeyColumns) []map[domain.Role]string {
	picked := make([]int, len(rows))
	for i := range picked {
		picked[i] = i
	}
	if size := m.thresholds.ExampleSampleSize; len(rows) > size {
		picked = m.rng.Perm(len(rows))[:size]
		sort.Ints(picked)
	}

	examples := make([]map[domain.Role]string, 0, len(picked))
	for _, i := range picked {
		ex := make(map[domain.Role]string, len(keys))
		for role, col := range keys {
			ex[role] = rows[i][col]
		}
		examples = append(examples, ex)
	}
	return examples
}
