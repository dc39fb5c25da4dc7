package reader

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/fjglira/tcgen/internal/domain"
)

// MarkdownReader extracts block text from Markdown documents using goldmark.
type MarkdownReader struct {
	md goldmark.Markdown
}

// NewMarkdownReader creates a new MarkdownReader.
func NewMarkdownReader() *MarkdownReader {
	return &MarkdownReader{md: goldmark.New()}
}

// SupportedExtensions returns the file extensions this reader handles.
func (p *MarkdownReader) SupportedExtensions() []string {
	return []string{".md", ".markdown"}
}

// Read walks the Markdown AST and emits every leaf block (heading, paragraph,
// list item, code block) as its own blank-line separated block of text.
func (p *MarkdownReader) Read(filePath string, content []byte) (*domain.Document, error) {
	source := []byte(Decode(content))
	doc := p.md.Parser().Parse(text.NewReader(source))

	parsed := &domain.Document{
		Path:   filePath,
		Format: "markdown",
	}

	var blocks []string
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			heading := blockText(node, source)
			parsed.Headings = append(parsed.Headings, heading)
			blocks = append(blocks, heading)
			return ast.WalkSkipChildren, nil

		case *ast.Paragraph, *ast.TextBlock, *ast.FencedCodeBlock, *ast.CodeBlock:
			if t := blockText(node, source); t != "" {
				blocks = append(blocks, t)
			}
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})

	if err != nil {
		return nil, domain.NewErrorWithSuggestion("read", filePath, 0,
			"failed to walk markdown AST",
			"check the markdown file for syntax issues",
			err)
	}

	parsed.Text = strings.Join(blocks, "\n\n")
	return parsed, nil
}

// blockText joins the source lines of a block node.
func blockText(n ast.Node, source []byte) string {
	var lines []string
	segs := n.Lines()
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		line := string(bytes.TrimRight(seg.Value(source), "\n"))
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimSpace(line))
		}
	}
	return strings.Join(lines, "\n")
}
