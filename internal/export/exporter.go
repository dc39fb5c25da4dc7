// Package export flattens test cases into the six-column TFS import table.
package export

import (
	"fmt"
	"strconv"

	"github.com/fjglira/tcgen/internal/domain"
)

const preconditionsPrefix = "PRECONDITIONS: "

// Resolver looks up shared steps referenced by test cases.
type Resolver interface {
	Reference(id string) domain.SharedStepReference
}

// Exporter turns test cases into rows. With a nil resolver every shared-step
// token is exported as a reference without checking that it exists.
type Exporter struct {
	resolver Resolver
}

// New creates an Exporter.
func New(resolver Resolver) *Exporter {
	return &Exporter{resolver: resolver}
}

// Export emits, per case, a header row, an optional preconditions row and one
// row per step/result pair numbered from 1. Extra steps or results without a
// partner are dropped.
func (e *Exporter) Export(cases []domain.TestCase) []domain.Row {
	var rows []domain.Row
	for i, tc := range cases {
		rows = append(rows, caseRow(i, tc))

		if tc.Preconditions != "" {
			var row domain.Row
			row[domain.ColStepAction] = preconditionsPrefix + tc.Preconditions
			rows = append(rows, row)
		}

		n := len(tc.Steps)
		if len(tc.ExpectedResults) < n {
			n = len(tc.ExpectedResults)
		}
		for j := 0; j < n; j++ {
			var row domain.Row
			row[domain.ColTestStep] = strconv.Itoa(j + 1)
			row[domain.ColStepAction] = e.action(tc.Steps[j])
			row[domain.ColStepExpected] = tc.ExpectedResults[j]
			rows = append(rows, row)
		}
	}
	return rows
}

func caseRow(i int, tc domain.TestCase) domain.Row {
	var row domain.Row
	row[domain.ColID] = tc.ID
	if row[domain.ColID] == "" {
		row[domain.ColID] = fmt.Sprintf("TC-%d", i+1)
	}
	row[domain.ColWorkItemType] = domain.WorkItemTestCase
	row[domain.ColTitle] = tc.Title
	if row[domain.ColTitle] == "" {
		req := tc.RequirementID
		if req == "" {
			req = "Unknown Requirement"
		}
		row[domain.ColTitle] = "Test for " + req
	}
	return row
}

func (e *Exporter) action(step string) string {
	id, ok := domain.ParseSharedStepToken(step)
	if !ok {
		return step
	}
	if e.resolver != nil {
		if ref := e.resolver.Reference(id); !ref.Found() {
			return ref.StepAction
		}
	}
	return "Shared action " + id
}

// ExportWithSharedSteps emits the shared step definitions ahead of the cases
// that reference them.
func (e *Exporter) ExportWithSharedSteps(shared []domain.SharedStep, cases []domain.TestCase) []domain.Row {
	var rows []domain.Row
	for _, s := range shared {
		var header domain.Row
		header[domain.ColID] = s.ID
		header[domain.ColWorkItemType] = domain.WorkItemSharedSteps
		header[domain.ColTitle] = s.Title
		rows = append(rows, header)

		for j, step := range s.Steps {
			var row domain.Row
			row[domain.ColTestStep] = strconv.Itoa(j + 1)
			row[domain.ColStepAction] = step
			if j < len(s.ExpectedResults) {
				row[domain.ColStepExpected] = s.ExpectedResults[j]
			}
			rows = append(rows, row)
		}
	}
	return append(rows, e.Export(cases)...)
}

// ReferencedSharedSteps returns the distinct shared step ids used by cases,
// in first-use order.
func ReferencedSharedSteps(cases []domain.TestCase) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, tc := range cases {
		for _, step := range tc.Steps {
			if id, ok := domain.ParseSharedStepToken(step); ok && !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}
