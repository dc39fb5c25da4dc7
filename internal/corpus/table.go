// Package corpus loads existing test case tables and mines them for patterns.
package corpus

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/fjglira/tcgen/internal/domain"
	"github.com/fjglira/tcgen/internal/reader"
)

// LoadCSV reads a corpus table with a header row. Cells that are not valid
// UTF-8 are decoded as Windows-1252.
func LoadCSV(path string) (*domain.Table, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewError("corpus", path, 0, "failed to read corpus file", err)
	}
	return ParseCSV(path, strings.NewReader(reader.Decode(content)))
}

// ParseCSV reads a corpus table from r. Rows shorter than the header are
// padded with empty cells; cells beyond the header are dropped.
func ParseCSV(source string, r io.Reader) (*domain.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, domain.NewErrorWithSuggestion("corpus", source, 0,
			"corpus file is empty",
			"the first row must name the columns, e.g. Test ID,Requirement ID,Preconditions,Test Steps,Expected Results",
			nil)
	}
	if err != nil {
		return nil, csvError(source, err)
	}

	table := &domain.Table{Source: source}
	for _, col := range header {
		table.Columns = append(table.Columns, strings.TrimSpace(col))
	}

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(source, err)
		}

		row := make(map[string]string, len(table.Columns))
		for i, col := range table.Columns {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

func csvError(source string, err error) error {
	line := 0
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		line = perr.Line
	}
	return domain.NewError("corpus", source, line, "malformed corpus file", err)
}

// Cell returns the value of the column bound to role, or "" when unbound.
func Cell(row map[string]string, keys domain.KeyColumns, role domain.Role) string {
	col, ok := keys[role]
	if !ok {
		return ""
	}
	return row[col]
}

// IdentifyKeyColumns assigns roles to columns by keyword. Each column belongs
// to the first role, in priority order, whose keywords it contains; the first
// such column in source order wins the role. A column whose first role is
// taken may then fill a later matching role that no column claimed.
func IdentifyKeyColumns(table *domain.Table) domain.KeyColumns {
	keys := make(domain.KeyColumns)
	var pending []string
	for _, col := range table.Columns {
		role, ok := firstRole(strings.ToLower(col))
		if !ok {
			continue
		}
		if _, claimed := keys[role]; claimed {
			pending = append(pending, col)
			continue
		}
		keys[role] = col
	}

	for _, col := range pending {
		lower := strings.ToLower(col)
		for _, role := range domain.Roles {
			if _, claimed := keys[role]; claimed {
				continue
			}
			if containsAny(lower, KeyColumnKeywords[role]) {
				keys[role] = col
				break
			}
		}
	}
	return keys
}

func firstRole(lower string) (domain.Role, bool) {
	for _, role := range domain.Roles {
		if containsAny(lower, KeyColumnKeywords[role]) {
			return role, true
		}
	}
	return "", false
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
