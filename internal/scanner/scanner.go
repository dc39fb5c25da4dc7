package scanner

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fjglira/tcgen/internal/domain"
)

// Scanner discovers requirement documents on disk.
type Scanner interface {
	Discover(documents, directories []string) ([]string, error)
}

// FileScanner implements Scanner using filepath.WalkDir.
type FileScanner struct {
	Recursive bool
	Include   []string
	Exclude   []string
}

// New creates a FileScanner with the given include and exclude globs.
func New(recursive bool, include, exclude []string) *FileScanner {
	return &FileScanner{Recursive: recursive, Include: include, Exclude: exclude}
}

// Discover returns the explicit documents first, in the given order, followed by
// the sorted matches of every directory. Each path appears once.
func (s *FileScanner) Discover(documents, directories []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		key := filepath.Clean(p)
		if !seen[key] {
			seen[key] = true
			files = append(files, p)
		}
	}

	for _, doc := range documents {
		info, err := os.Stat(doc)
		if err != nil {
			return nil, domain.NewError("scan", doc, 0, "document not found", err)
		}
		if info.IsDir() {
			return nil, domain.NewErrorWithSuggestion("scan", doc, 0,
				"document is a directory",
				"list directories under input.directories instead",
				nil)
		}
		add(doc)
	}

	for _, dir := range directories {
		found, err := s.Scan(dir)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}

	return files, nil
}

// Scan walks rootDir and returns sorted file paths matching any include
// pattern while skipping paths that match any exclude pattern.
func (s *FileScanner) Scan(rootDir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(rootDir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, relErr := filepath.Rel(rootDir, p)
		if relErr != nil {
			relPath = p
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if relPath == "." {
				return nil
			}
			if !s.Recursive || s.excluded(relPath) || s.excluded(relPath+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if s.excluded(relPath) {
			return nil
		}
		for _, pattern := range s.Include {
			if matchGlob(relPath, pattern) {
				files = append(files, p)
				return nil
			}
		}
		return nil
	})

	if err != nil {
		return nil, domain.NewError("scan", rootDir, 0, "failed to scan directory", err)
	}

	sort.Strings(files)
	return files, nil
}

func (s *FileScanner) excluded(relPath string) bool {
	for _, exc := range s.Exclude {
		if matchGlob(relPath, exc) {
			return true
		}
	}
	return false
}

// matchGlob matches a slash-separated path against a glob pattern.
// "**" matches any number of path segments; a pattern without a slash
// also matches the base name.
func matchGlob(p, pattern string) bool {
	if strings.Contains(pattern, "**") {
		parts := strings.SplitN(pattern, "**", 2)
		prefix := strings.TrimSuffix(parts[0], "/")
		suffix := strings.TrimPrefix(parts[1], "/")

		if prefix != "" {
			if p != prefix && !strings.HasPrefix(p, prefix+"/") {
				return false
			}
			p = strings.TrimPrefix(strings.TrimPrefix(p, prefix), "/")
		}
		if suffix == "" {
			return true
		}

		segments := strings.Split(p, "/")
		for i := range segments {
			if ok, _ := path.Match(suffix, strings.Join(segments[i:], "/")); ok {
				return true
			}
		}
		return false
	}

	if !strings.Contains(pattern, "/") {
		ok, _ := path.Match(pattern, path.Base(p))
		return ok
	}
	ok, _ := path.Match(strings.TrimSuffix(pattern, "/"), strings.TrimSuffix(p, "/"))
	return ok
}
