package segmenter

import "regexp"

// ModalKeywords mark a block without an id as a requirement. Matched as
// case-insensitive substrings.
var ModalKeywords = []string{"shall", "must", "should", "will", "requires"}

// TechnicalTerms mark a requirement as technical. Matched as substrings.
var TechnicalTerms = []string{
	"calibrate", "measure", "sensor", "diagnostic", "parameter", "configuration",
	"initialize", "monitor", "control", "signal", "data", "value", "system",
}

// TagRule assigns Tag when any of Words occurs as a whole word.
type TagRule struct {
	Tag   string
	Words []string
}

// CriticalityRules are exclusive: the first matching rule wins.
var CriticalityRules = []TagRule{
	{Tag: "critical", Words: []string{"critical", "essential", "mandatory"}},
	{Tag: "important", Words: []string{"important", "significant"}},
}

// DomainRules are independent of each other and of criticality. Words match
// whole words only, so "GUI" does not carry the ui tag the way a substring
// match would.
var DomainRules = []TagRule{
	{Tag: "ui", Words: []string{"user interface", "ui"}},
	{Tag: "data", Words: []string{"database", "data"}},
	{Tag: "security", Words: []string{"security", "authentication"}},
}

// compiledRule is a TagRule with its words folded into one regexp.
type compiledRule struct {
	tag string
	re  *regexp.Regexp
}

func compileRules(rules []TagRule) []compiledRule {
	out := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		out = append(out, compiledRule{tag: r.Tag, re: wordsRegexp(r.Words)})
	}
	return out
}

// wordsRegexp matches any of words as whole words, case-insensitively.
func wordsRegexp(words []string) *regexp.Regexp {
	pattern := `(?i)\b(?:`
	for i, w := range words {
		if i > 0 {
			pattern += "|"
		}
		pattern += regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(pattern + `)\b`)
}
