package reader

import (
	"strings"

	"github.com/fjglira/tcgen/internal/domain"
)

// PlaintextReader reads generic text files as-is.
type PlaintextReader struct{}

// NewPlaintextReader creates a new PlaintextReader.
func NewPlaintextReader() *PlaintextReader {
	return &PlaintextReader{}
}

// SupportedExtensions returns the file extensions this reader handles.
// The plaintext reader also acts as the fallback.
func (p *PlaintextReader) SupportedExtensions() []string {
	return []string{".txt", ".text", ".rst"}
}

// Read decodes the document and records underlined headings.
func (p *PlaintextReader) Read(filePath string, content []byte) (*domain.Document, error) {
	text := Decode(content)
	doc := &domain.Document{
		Path:   filePath,
		Format: "plaintext",
		Text:   text,
	}

	// Headings are lines followed by --- or === underlines
	lines := strings.Split(text, "\n")
	for i := 0; i < len(lines)-1; i++ {
		line := strings.TrimSpace(lines[i])
		underline := strings.TrimSpace(lines[i+1])
		if line != "" && len(underline) >= 3 && (allChar(underline, '=') || allChar(underline, '-')) {
			doc.Headings = append(doc.Headings, line)
		}
	}

	return doc, nil
}

// allChar checks if s consists entirely of character c.
func allChar(s string, c byte) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] != c {
			return false
		}
	}
	return true
}
