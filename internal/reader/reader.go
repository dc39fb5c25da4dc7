package reader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fjglira/tcgen/internal/domain"
)

// Reader extracts the plain requirement text from a document.
type Reader interface {
	Read(filePath string, content []byte) (*domain.Document, error)
	SupportedExtensions() []string
}

// Registry maps file extensions to readers.
type Registry interface {
	Register(reader Reader)
	ReaderFor(extension string) (Reader, error)
}

// DefaultRegistry is a thread-safe reader registry with fallback support.
type DefaultRegistry struct {
	mu       sync.RWMutex
	readers  map[string]Reader
	fallback Reader
}

// NewRegistry creates a new DefaultRegistry.
func NewRegistry() *DefaultRegistry {
	return &DefaultRegistry{
		readers: make(map[string]Reader),
	}
}

// NewDefaultRegistry returns a registry with the markdown and asciidoc readers
// registered and the plaintext reader as fallback.
func NewDefaultRegistry() *DefaultRegistry {
	r := NewRegistry()
	plain := NewPlaintextReader()
	r.Register(plain)
	r.Register(NewMarkdownReader())
	r.Register(NewAsciiDocReader())
	r.SetFallback(plain)
	return r
}

// Register adds a reader to the registry for each of its supported extensions.
func (r *DefaultRegistry) Register(rd Reader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range rd.SupportedExtensions() {
		ext = strings.ToLower(strings.TrimPrefix(ext, "."))
		r.readers[ext] = rd
	}
}

// SetFallback sets the fallback reader for unregistered extensions.
func (r *DefaultRegistry) SetFallback(rd Reader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = rd
}

// ReaderFor returns the reader registered for the given file extension.
// If no reader is found, it returns the fallback reader if set.
func (r *DefaultRegistry) ReaderFor(extension string) (Reader, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ext := strings.ToLower(strings.TrimPrefix(extension, "."))
	if rd, ok := r.readers[ext]; ok {
		return rd, nil
	}
	if r.fallback != nil {
		return r.fallback, nil
	}
	return nil, fmt.Errorf("no reader registered for extension %q", extension)
}

// ReadFile loads a file from disk and extracts its text with the matching reader.
func (r *DefaultRegistry) ReadFile(path string) (*domain.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewError("read", path, 0, "failed to read document", err)
	}
	rd, err := r.ReaderFor(filepath.Ext(path))
	if err != nil {
		return nil, domain.NewErrorWithSuggestion("read", path, 0,
			"unsupported document type",
			"convert the document to .txt, .md or .adoc",
			err)
	}
	return rd.Read(path, content)
}
