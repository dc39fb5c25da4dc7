package corpus

import "github.com/fjglira/tcgen/internal/domain"

// KeyColumnKeywords are matched as substrings of the lower-cased column name.
var KeyColumnKeywords = map[domain.Role][]string{
	domain.RoleTestID:          {"id", "test id", "testid", "test_id"},
	domain.RolePreconditions:   {"precondition", "pre-condition", "pre condition"},
	domain.RoleSteps:           {"step", "test step", "teststep", "test_step"},
	domain.RoleExpectedResults: {"expected", "result", "expected result", "expectedresult"},
	domain.RoleRequirementID:   {"req", "requirement", "req id", "reqid"},
}

// StyleVerbs is the closed vocabulary counted by AnalyzeStyle.
var StyleVerbs = []string{"verify", "check", "ensure", "click", "select", "enter", "navigate", "open", "close", "save"}

// TestTypeRule detects a test type from keywords in step text.
type TestTypeRule struct {
	Type  domain.TestType
	Words []string
}

// TestTypeRules are checked in order; a group may match several.
var TestTypeRules = []TestTypeRule{
	{Type: domain.HappyPath, Words: []string{"normal", "standard", "typical", "happy path"}},
	{Type: domain.BoundaryConditions, Words: []string{"boundary", "limit", "maximum", "minimum", "min", "max"}},
	{Type: domain.ErrorCases, Words: []string{"error", "exception", "fail", "invalid", "negative"}},
}

// StepVerbs is the verb list used by the writing style engine. Any word ending
// in e, es, ed or ing also counts as a verb.
var StepVerbs = []string{
	"verify", "check", "ensure", "confirm", "validate",
	"click", "select", "choose", "pick",
	"enter", "input", "type", "fill",
	"navigate", "go", "browse", "open",
	"launch", "start", "begin", "initiate",
	"save", "store", "record", "log",
	"generate", "create", "make", "produce",
	"configure", "set", "adjust", "modify",
	"prepare", "ready", "setup", "initialize",
}

// verbSuffixes mark a word as a likely verb.
var verbSuffixes = []string{"e", "es", "ed", "ing"}

// Articles and demonstratives that open an object phrase.
var Articles = []string{"the", "a", "an", "this", "that", "these", "those"}

// ResultPhrases are the stock phrases collected from expected results.
var ResultPhrases = []string{"successfully", "correctly", "as expected", "properly", "without error"}

// CommonWords are never reported as domain terminology.
var CommonWords = []string{
	"this", "that", "these", "those", "with", "from", "into", "during",
	"before", "after", "above", "below", "between", "under", "over",
	"should", "would", "could", "must", "have", "has", "had",
	"system", "user", "data", "file", "page", "screen", "button", "field",
	"value", "option", "result", "process", "function", "feature",
}

// Step and expected result templates chosen by the writing style.
const (
	FormatVerbTheObject = "{verb} the {object}"
	FormatVerbObject    = "{verb} {object}"
	FormatObjectVerb    = "{object} {verb}"
	FormatTheObjectIs   = "The {object} is {result}"
	FormatObjectResult  = "{object} {result}"
	FormatResultObject  = "{result} {object}"
)

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

var (
	stepVerbSet   = toSet(StepVerbs)
	articleSet    = toSet(Articles)
	commonWordSet = toSet(CommonWords)
)
