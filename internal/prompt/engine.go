// Package prompt renders generation prompts from text/template files.
package prompt

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/fjglira/tcgen/internal/domain"
)

//go:embed templates/*.tmpl
var embedded embed.FS

// Data is the struct passed to templates.
type Data struct {
	RequirementID   string
	Description     string
	TestType        domain.TestType
	MachineType     string
	Version         string
	PlanDescription string
	FocusAreas      []string
	SuggestedSteps  []string
	Context         map[string]string
	Examples        []string
}

// Engine renders prompts.
type Engine interface {
	Render(name string, data Data) (string, error)
	ListTemplates() []string
}

// DefaultEngine implements Engine.
type DefaultEngine struct {
	templates   map[string]*template.Template
	defaultName string
	templateDir string
}

// NewEngine loads the built-in templates, then every .tmpl file of
// templateDir, which may override them. An empty or missing templateDir uses
// the built-in templates only.
func NewEngine(templateDir, defaultTemplate string) (*DefaultEngine, error) {
	engine := &DefaultEngine{
		templates:   make(map[string]*template.Template),
		defaultName: defaultTemplate,
		templateDir: templateDir,
	}

	if err := engine.loadFS(embedded, "templates", "embedded"); err != nil {
		return nil, err
	}
	if templateDir != "" {
		info, err := os.Stat(templateDir)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, domain.NewError("config", templateDir, 0, "failed to read template directory", err)
		case info.IsDir():
			if err := engine.loadFS(os.DirFS(templateDir), ".", templateDir); err != nil {
				return nil, err
			}
		}
	}

	if _, ok := engine.templates[defaultTemplate]; !ok {
		return nil, domain.NewErrorWithSuggestion("config", templateDir, 0,
			fmt.Sprintf("template %q not found (available: %s)", defaultTemplate, strings.Join(engine.ListTemplates(), ", ")),
			"set generation.template to one of the available templates",
			nil)
	}
	return engine, nil
}

// loadFS parses every .tmpl file of dir within fsys.
func (e *DefaultEngine) loadFS(fsys fs.FS, dir, label string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return domain.NewError("config", label, 0, "failed to read template directory", err)
	}

	funcMap := CustomFuncMap()
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tmpl") {
			continue
		}

		path := entry.Name()
		if dir != "." {
			path = dir + "/" + entry.Name()
		}
		content, err := fs.ReadFile(fsys, path)
		if err != nil {
			return domain.NewError("config", filepath.Join(label, entry.Name()), 0, "failed to read template file", err)
		}

		name := strings.TrimSuffix(entry.Name(), ".tmpl")
		tmpl, err := template.New(name).Funcs(funcMap).Parse(string(content))
		if err != nil {
			return domain.NewError("config", filepath.Join(label, entry.Name()), 0, "failed to parse template", err)
		}
		e.templates[name] = tmpl
	}
	return nil
}

// Render executes the named template, or the default one when name is empty.
func (e *DefaultEngine) Render(name string, data Data) (string, error) {
	if name == "" {
		name = e.defaultName
	}
	tmpl, ok := e.templates[name]
	if !ok {
		return "", domain.NewError("generate", "", 0,
			fmt.Sprintf("template %q not found (available: %s)", name, strings.Join(e.ListTemplates(), ", ")), nil)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", domain.NewError("generate", name, 0, "failed to execute template", err)
	}
	return strings.TrimSpace(buf.String()) + "\n", nil
}

// ListTemplates returns the names of all loaded templates, sorted.
func (e *DefaultEngine) ListTemplates() []string {
	names := make([]string, 0, len(e.templates))
	for name := range e.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
