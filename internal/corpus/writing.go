package corpus

import (
	"regexp"
	"sort"
	"strings"

	"github.com/fjglira/tcgen/internal/domain"
)

var (
	requirementRe   = regexp.MustCompile(`REQ-\d+`)
	versionRe       = regexp.MustCompile(`\d+\.\d+`)
	articleWordRe   = regexp.MustCompile(`(?i)\b(?:the|a|an)\b`)
	passiveRe       = regexp.MustCompile(`(?i)\b(?:is|are|was|were)\b`)
	digitsRe        = regexp.MustCompile(`\d+`)
	quotedValueRe   = regexp.MustCompile(`"[^"]+"`)
	sharedActionRe  = regexp.MustCompile(`^Shared action\s+(\S+)$`)
	resultPhraseRes = func() []*regexp.Regexp {
		res := make([]*regexp.Regexp, len(ResultPhrases))
		for i, p := range ResultPhrases {
			res[i] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(p))
		}
		return res
	}()
)

const preconditionsPrefix = "PRECONDITIONS:"

// FromTable views each corpus row as a test case.
func FromTable(table *domain.Table, keys domain.KeyColumns) []domain.TestCase {
	cases := make([]domain.TestCase, 0, len(table.Rows))
	for _, row := range table.Rows {
		cases = append(cases, domain.TestCase{
			ID:              Cell(row, keys, domain.RoleTestID),
			WorkItemType:    domain.WorkItemTestCase,
			RequirementID:   strings.TrimSpace(Cell(row, keys, domain.RoleRequirementID)),
			Preconditions:   Cell(row, keys, domain.RolePreconditions),
			Steps:           SplitSteps(Cell(row, keys, domain.RoleSteps)),
			ExpectedResults: SplitSteps(Cell(row, keys, domain.RoleExpectedResults)),
		})
	}
	return cases
}

// FromTFS reads a table previously written in the six-column import layout.
// Columns are taken by position. A row with a non-empty ID starts a new case;
// a row with a step number adds a step to the current case.
func FromTFS(table *domain.Table) []domain.TestCase {
	var (
		cases   []domain.TestCase
		current *domain.TestCase
	)
	for _, row := range table.Rows {
		var cells domain.Row
		for i := range cells {
			if i < len(table.Columns) {
				cells[i] = strings.TrimSpace(row[table.Columns[i]])
			}
		}

		if cells[domain.ColID] != "" {
			cases = append(cases, newTFSCase(cells))
			current = &cases[len(cases)-1]
			continue
		}
		if current == nil {
			continue
		}

		action := cells[domain.ColStepAction]
		switch {
		case cells[domain.ColTestStep] != "" && action != "":
			if m := sharedActionRe.FindStringSubmatch(action); m != nil {
				action = domain.SharedStepToken(m[1])
			}
			current.Steps = append(current.Steps, action)
			current.ExpectedResults = append(current.ExpectedResults, cells[domain.ColStepExpected])
		case strings.HasPrefix(action, preconditionsPrefix):
			current.Preconditions = strings.TrimSpace(strings.TrimPrefix(action, preconditionsPrefix))
		}
	}
	return cases
}

func newTFSCase(cells domain.Row) domain.TestCase {
	tc := domain.TestCase{
		ID:           cells[domain.ColID],
		WorkItemType: cells[domain.ColWorkItemType],
		Title:        cells[domain.ColTitle],
	}
	if tc.WorkItemType == "" {
		tc.WorkItemType = domain.WorkItemTestCase
	}
	for _, cell := range cells {
		if tc.RequirementID == "" {
			tc.RequirementID = requirementRe.FindString(cell)
		}
		if tc.Version == "" {
			tc.Version = versionRe.FindString(cell)
		}
	}
	if len(tc.Title) == 1 && isLetter(tc.Title[0]) {
		tc.MachineType = tc.Title
	}
	return tc
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(strings.TrimRight(fields[0], ",.:;"))
}

// IsVerb reports whether a lower-cased word is a listed verb or carries a
// verb suffix.
func IsVerb(word string) bool {
	if word == "" {
		return false
	}
	if stepVerbSet[word] {
		return true
	}
	for _, suffix := range verbSuffixes {
		if strings.HasSuffix(word, suffix) {
			return true
		}
	}
	return false
}

type styleVotes struct {
	yes, total int
}

func (v *styleVotes) add(b bool) {
	v.total++
	if b {
		v.yes++
	}
}

// majority is true when more than half the votes agree, or when nobody voted.
func (v styleVotes) majority() bool {
	if v.total == 0 {
		return true
	}
	return v.yes*2 > v.total
}

// AnalyzeWritingStyle derives the dominant phrasing of steps and expected
// results. Each flag is a majority vote over the cases that have the
// relevant text.
func AnalyzeWritingStyle(cases []domain.TestCase) domain.WritingStyle {
	var verbStart, articles, objectStart, passive styleVotes
	verbs := make(map[string]bool)
	phrases := make(map[string]bool)

	for _, tc := range cases {
		if len(tc.Steps) > 0 {
			allVerbs, anyArticle := true, false
			for _, step := range tc.Steps {
				if strings.TrimSpace(step) == "" {
					continue
				}
				w := firstWord(step)
				if IsVerb(w) {
					verbs[w] = true
				} else {
					allVerbs = false
				}
				if articleWordRe.MatchString(step) {
					anyArticle = true
				}
			}
			verbStart.add(allVerbs)
			articles.add(anyArticle)
		}

		if len(tc.ExpectedResults) > 0 {
			allObjects, anyPassive := true, false
			for _, result := range tc.ExpectedResults {
				w := firstWord(result)
				if w == "" {
					continue
				}
				if !articleSet[w] && IsVerb(w) {
					allObjects = false
				}
				if passiveRe.MatchString(result) {
					anyPassive = true
				}
				for i, re := range resultPhraseRes {
					if re.MatchString(result) {
						phrases[ResultPhrases[i]] = true
					}
				}
			}
			objectStart.add(allObjects)
			passive.add(anyPassive)
		}
	}

	style := domain.WritingStyle{
		StepStartsWithVerb:       verbStart.majority(),
		StepUsesArticles:         articles.majority(),
		ExpectedStartsWithObject: objectStart.majority(),
		ExpectedUsesPassive:      passive.majority(),
		CommonVerbs:              sortedKeys(verbs),
		ResultPhrases:            sortedKeys(phrases),
	}

	switch {
	case style.StepStartsWithVerb && style.StepUsesArticles:
		style.StepFormat = FormatVerbTheObject
	case style.StepStartsWithVerb:
		style.StepFormat = FormatVerbObject
	default:
		style.StepFormat = FormatObjectVerb
	}

	switch {
	case style.ExpectedStartsWithObject && style.ExpectedUsesPassive:
		style.ExpectedFormat = FormatTheObjectIs
	case style.ExpectedStartsWithObject:
		style.ExpectedFormat = FormatObjectResult
	default:
		style.ExpectedFormat = FormatResultObject
	}
	return style
}

// DefaultWritingStyle is the style assumed when no corpus is available.
func DefaultWritingStyle() domain.WritingStyle {
	return AnalyzeWritingStyle(nil)
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Terminology returns up to ten words that occur at least minCount times
// across steps and expected results, skipping short words, verbs and common
// words. Words are reported in first-seen order.
func Terminology(cases []domain.TestCase, minCount int) []string {
	counts := make(map[string]int)
	var order []string
	for _, tc := range cases {
		texts := append(append([]string{}, tc.Steps...), tc.ExpectedResults...)
		for _, text := range texts {
			for _, word := range strings.Fields(strings.ToLower(text)) {
				word = strings.Trim(word, `,.;:()"`)
				if len([]rune(word)) <= 3 {
					continue
				}
				if counts[word] == 0 {
					order = append(order, word)
				}
				counts[word]++
			}
		}
	}

	var terms []string
	for _, word := range order {
		if counts[word] < minCount || IsVerb(word) || commonWordSet[word] {
			continue
		}
		terms = append(terms, word)
		if len(terms) == 10 {
			break
		}
	}
	return terms
}

// PlatformPattern is the terminology and step shapes seen for one machine type.
type PlatformPattern struct {
	MachineType string
	Terminology []string
	StepShapes  []string
}

// SimplifyStep replaces articles, numbers and quoted values with placeholders.
func SimplifyStep(step string) string {
	step = articleWordRe.ReplaceAllString(step, "{article}")
	step = digitsRe.ReplaceAllString(step, "{number}")
	return quotedValueRe.ReplaceAllString(step, "{value}")
}

// PlatformPatterns groups cases by machine type, in first-seen order.
// Cases without a machine type are ignored.
func PlatformPatterns(cases []domain.TestCase, minCount int) []PlatformPattern {
	groups := make(map[string][]domain.TestCase)
	var order []string
	for _, tc := range cases {
		if tc.MachineType == "" {
			continue
		}
		if _, seen := groups[tc.MachineType]; !seen {
			order = append(order, tc.MachineType)
		}
		groups[tc.MachineType] = append(groups[tc.MachineType], tc)
	}

	patterns := make([]PlatformPattern, 0, len(order))
	for _, machine := range order {
		p := PlatformPattern{
			MachineType: machine,
			Terminology: Terminology(groups[machine], minCount),
		}
		seen := make(map[string]bool)
		for _, tc := range groups[machine] {
			for _, step := range tc.Steps {
				shape := SimplifyStep(step)
				if seen[shape] || len(p.StepShapes) == 5 {
					continue
				}
				seen[shape] = true
				p.StepShapes = append(p.StepShapes, shape)
			}
		}
		patterns = append(patterns, p)
	}
	return patterns
}
