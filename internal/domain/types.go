package domain

// Requirement is a single testable statement extracted from a document.
type Requirement struct {
	ID          string   `json:"id" yaml:"id"`
	Description string   `json:"description" yaml:"description"`
	Source      string   `json:"source" yaml:"source"`
	Tags        []string `json:"tags" yaml:"tags"`
	Technical   bool     `json:"technical,omitempty" yaml:"technical,omitempty"`

	// Enrichment fields set by platform analysis.
	PlatformSpecific bool    `json:"platform_specific,omitempty" yaml:"platform_specific,omitempty"`
	VersionSpecific  bool    `json:"version_specific,omitempty" yaml:"version_specific,omitempty"`
	RelevanceScore   float64 `json:"relevance_score,omitempty" yaml:"relevance_score,omitempty"`
}

// HasTag reports whether the requirement carries the given tag.
func (r Requirement) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Document is the plain text extracted from one input file.
type Document struct {
	Path     string
	Format   string // "plaintext", "markdown" or "asciidoc"
	Text     string
	Headings []string
}

// PlatformInfo describes the target platform mentioned in a document.
type PlatformInfo struct {
	Type    string
	Name    string
	Version string
}

// MachineInfo is the machine type and version most often mentioned by requirements.
type MachineInfo struct {
	MachineType string
	Version     string
}

// Table is an in-memory corpus table: a header row plus cell maps keyed by column.
type Table struct {
	Source  string
	Columns []string
	Rows    []map[string]string
}

// Role is the meaning of a corpus column.
type Role string

const (
	RoleTestID          Role = "test_id"
	RolePreconditions   Role = "preconditions"
	RoleSteps           Role = "steps"
	RoleExpectedResults Role = "expected_results"
	RoleRequirementID   Role = "requirement_id"
)

// Roles lists every role in detection priority order.
var Roles = []Role{RoleTestID, RolePreconditions, RoleSteps, RoleExpectedResults, RoleRequirementID}

// KeyColumns maps a role to the corpus column that carries it.
type KeyColumns map[Role]string

// VerbCount is the number of extracted steps using a vocabulary verb.
type VerbCount struct {
	Verb  string
	Count int
}

// StyleProfile summarises the linguistic style of a corpus.
type StyleProfile struct {
	AverageStepLength float64
	CommonVerbs       []VerbCount // sorted by count, descending
	Tone              string      // "assertive" or "instructive"
}

// WritingStyle captures how steps and expected results are phrased.
type WritingStyle struct {
	StepStartsWithVerb       bool
	StepUsesArticles         bool
	ExpectedStartsWithObject bool
	ExpectedUsesPassive      bool
	CommonVerbs              []string
	ResultPhrases            []string
	StepFormat               string
	ExpectedFormat           string
}

// TestType is the kind of coverage a test case provides.
type TestType string

const (
	HappyPath          TestType = "happy_path"
	BoundaryConditions TestType = "boundary_conditions"
	ErrorCases         TestType = "error_cases"
)

// Pattern is a mined description of how a group of existing test cases is structured.
type Pattern struct {
	RequirementID       string
	TestCount           int
	TestTypes           []TestType
	CommonPreconditions []string
	CommonSteps         []string
	Examples            []map[Role]string
}

// Complexity is the rule-based difficulty of a requirement.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// Priority of a planned test case.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
)

// TestPlan is the intent to produce one test case of a given type.
type TestPlan struct {
	Type           TestType
	Description    string
	FocusAreas     []string
	SuggestedSteps []string
	Priority       Priority
	Adaptations    []string
}

// TestCase is a normalized, generated test case.
// Steps and ExpectedResults are index aligned; a step may be a shared-step token.
type TestCase struct {
	ID              string
	Title           string
	WorkItemType    string
	RequirementID   string
	MachineType     string
	Version         string
	TestType        TestType
	Preconditions   string
	Steps           []string
	ExpectedResults []string
}

// SharedStep is a reusable block of steps referenced by id from many test cases.
type SharedStep struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Steps           []string `json:"steps"`
	ExpectedResults []string `json:"expected_results"`
}

// SharedStepReference is the descriptor used to place a shared step in an export.
type SharedStepReference struct {
	ID           string
	WorkItemType string
	Title        string
	TestStep     string
	StepAction   string
	StepExpected string
}

// Found reports whether the reference points at a known shared step.
func (r SharedStepReference) Found() bool {
	return r.ID != ""
}

// Row is one line of the TFS-style import table.
type Row [6]string

// Column positions within a Row.
const (
	ColID = iota
	ColWorkItemType
	ColTitle
	ColTestStep
	ColStepAction
	ColStepExpected
)

// RowHeader is the fixed column header of the import table.
var RowHeader = Row{"ID", "Work Item type", "Title", "Test Step", "Step Action", "Step expected"}

// Work item types used in exports.
const (
	WorkItemTestCase    = "Test case"
	WorkItemSharedSteps = "Shared steps"
)

// SharedStepMarker prefixes a step that references a shared step.
const SharedStepMarker = "SHARED_STEP:"
