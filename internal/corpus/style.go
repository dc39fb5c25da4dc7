package corpus

import (
	"regexp"
	"sort"
	"strings"

	"github.com/fjglira/tcgen/internal/domain"
)

// Tones reported by AnalyzeStyle.
const (
	ToneAssertive   = "assertive"
	ToneInstructive = "instructive"
)

var styleVerbRes = func() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(StyleVerbs))
	for i, v := range StyleVerbs {
		res[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(v) + `\b`)
	}
	return res
}()

// AllSteps returns every step extracted from the steps column, in row order.
func AllSteps(table *domain.Table, keys domain.KeyColumns) []string {
	if _, ok := keys[domain.RoleSteps]; !ok {
		return nil
	}
	var steps []string
	for _, row := range table.Rows {
		steps = append(steps, SplitSteps(Cell(row, keys, domain.RoleSteps))...)
	}
	return steps
}

// AnalyzeStyle measures the average step length in characters, counts the
// steps using each vocabulary verb and classifies the tone. A table without a
// steps column yields an empty instructive profile.
func AnalyzeStyle(table *domain.Table, keys domain.KeyColumns) domain.StyleProfile {
	profile := domain.StyleProfile{Tone: ToneInstructive}

	steps := AllSteps(table, keys)
	if len(steps) == 0 {
		return profile
	}

	total := 0
	counts := make([]int, len(StyleVerbs))
	for _, step := range steps {
		total += len([]rune(step))
		lower := strings.ToLower(step)
		for i, re := range styleVerbRes {
			if re.MatchString(lower) {
				counts[i]++
			}
		}
	}
	profile.AverageStepLength = float64(total) / float64(len(steps))

	var verify, check int
	for i, verb := range StyleVerbs {
		if counts[i] == 0 {
			continue
		}
		profile.CommonVerbs = append(profile.CommonVerbs, domain.VerbCount{Verb: verb, Count: counts[i]})
		switch verb {
		case "verify":
			verify = counts[i]
		case "check":
			check = counts[i]
		}
	}
	sort.SliceStable(profile.CommonVerbs, func(i, j int) bool {
		return profile.CommonVerbs[i].Count > profile.CommonVerbs[j].Count
	})

	if verify > check {
		profile.Tone = ToneAssertive
	}
	return profile
}

// AverageSteps is the mean number of steps per row, or 0 without a steps column.
func AverageSteps(table *domain.Table, keys domain.KeyColumns) float64 {
	if _, ok := keys[domain.RoleSteps]; !ok || len(table.Rows) == 0 {
		return 0
	}
	total := 0
	for _, row := range table.Rows {
		total += CountSteps(Cell(row, keys, domain.RoleSteps))
	}
	return float64(total) / float64(len(table.Rows))
}
