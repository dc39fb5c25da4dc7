package reader

import (
	"regexp"
	"strings"

	"github.com/fjglira/tcgen/internal/domain"
)

// AsciiDocReader strips AsciiDoc markup down to the prose.
type AsciiDocReader struct{}

// NewAsciiDocReader creates a new AsciiDocReader.
func NewAsciiDocReader() *AsciiDocReader {
	return &AsciiDocReader{}
}

// SupportedExtensions returns the file extensions this reader handles.
func (p *AsciiDocReader) SupportedExtensions() []string {
	return []string{".adoc", ".asciidoc"}
}

var (
	// Matches = Title, == Heading, === Subheading, etc.
	asciidocHeadingRe = regexp.MustCompile(`^(={1,6})\s+(.+)$`)
	// Matches ----, ====, ****, ...., ____ and |=== delimiters
	asciidocDelimRe = regexp.MustCompile(`^(?:-{4,}|={4,}|\*{4,}|\.{4,}|_{4,}|\|===)\s*$`)
	// Matches :attribute: value document attributes
	asciidocAttrRe = regexp.MustCompile(`^:[\w-]+!?:.*$`)
	// Matches [source,go], [NOTE], [[anchor]] block attribute lines
	asciidocBlockAttrRe = regexp.MustCompile(`^\[.*\]$`)
	// Matches a list marker, keeping numbered items as "N."
	asciidocBulletRe = regexp.MustCompile(`^(?:\*+|-)\s+`)
)

// Read removes comments, attributes and delimiters; headings keep their text.
func (p *AsciiDocReader) Read(filePath string, content []byte) (*domain.Document, error) {
	lines := strings.Split(Decode(content), "\n")

	doc := &domain.Document{
		Path:   filePath,
		Format: "asciidoc",
	}

	var out []string
	inComment := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "////" {
			inComment = !inComment
			continue
		}
		if inComment || strings.HasPrefix(trimmed, "//") {
			continue
		}

		switch {
		case asciidocDelimRe.MatchString(trimmed),
			asciidocAttrRe.MatchString(trimmed),
			asciidocBlockAttrRe.MatchString(trimmed):
			continue
		}

		if m := asciidocHeadingRe.FindStringSubmatch(trimmed); m != nil {
			heading := strings.TrimSpace(m[2])
			doc.Headings = append(doc.Headings, heading)
			// A heading is a block of its own
			out = append(out, "", heading, "")
			continue
		}

		out = append(out, asciidocBulletRe.ReplaceAllString(trimmed, ""))
	}

	doc.Text = strings.TrimSpace(strings.Join(out, "\n"))
	return doc, nil
}
