// Package templates serves pull request description templates.
//
// Four templates ship embedded in the binary; a templates directory may
// override any of them by filename.
package templates

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//go:embed defaults/*.md
var defaultFS embed.FS

// Template is one PR template with its content.
type Template struct {
	Filename string `json:"filename"`
	Type     string `json:"type"`
	Content  string `json:"content"`
}

// catalog lists the known templates in presentation order.
var catalog = []struct {
	filename string
	typ      string
}{
	{"bug.md", "Bug Fix"},
	{"feature.md", "Feature"},
	{"refactor.md", "Refactor"},
	{"security.md", "Security"},
}

// fallbackFile is used for change types with no mapping.
const fallbackFile = "feature.md"

// typeMapping maps a change type, lower-cased, to a template filename.
var typeMapping = map[string]string{
	"bug":           "bug.md",
	"fix":           "bug.md",
	"feature":       "feature.md",
	"enhancement":   "feature.md",
	"refactor":      "refactor.md",
	"cleanup":       "refactor.md",
	"security":      "security.md",
	"vulnerability": "security.md",
}

// FileForType returns the template filename for changeType.
func FileForType(changeType string) string {
	if f, ok := typeMapping[strings.ToLower(strings.TrimSpace(changeType))]; ok {
		return f
	}
	return fallbackFile
}

// Store reads templates, preferring files in dir over the embedded copies.
type Store struct {
	dir string
}

// NewStore creates a Store. An empty dir serves only the embedded templates.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// List returns every known template in catalog order.
func (s *Store) List() ([]Template, error) {
	out := make([]Template, 0, len(catalog))
	for _, c := range catalog {
		content, err := s.read(c.filename)
		if err != nil {
			return nil, err
		}
		out = append(out, Template{Filename: c.filename, Type: c.typ, Content: content})
	}
	return out, nil
}

func (s *Store) read(filename string) (string, error) {
	if s.dir != "" {
		data, err := os.ReadFile(filepath.Join(s.dir, filename))
		if err == nil {
			return string(data), nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("reading template %s: %w", filename, err)
		}
	}
	data, err := defaultFS.ReadFile("defaults/" + filename)
	if err != nil {
		return "", fmt.Errorf("reading embedded template %s: %w", filename, err)
	}
	return string(data), nil
}

// Suggestion is the template recommended for a described change.
type Suggestion struct {
	RecommendedTemplate Template `json:"recommended_template"`
	Reasoning           string   `json:"reasoning"`
	TemplateContent     string   `json:"template_content"`
	UsageHint           string   `json:"usage_hint"`
}

// Suggest picks the template for changeType and explains the choice.
func (s *Store) Suggest(summary, changeType string) (*Suggestion, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}

	want := FileForType(changeType)
	chosen := all[0]
	for _, t := range all {
		if t.Filename == want {
			chosen = t
			break
		}
	}

	return &Suggestion{
		RecommendedTemplate: chosen,
		Reasoning:           fmt.Sprintf("Based on your analysis: '%s', this appears to be a %s change.", summary, changeType),
		TemplateContent:     chosen.Content,
		UsageHint:           "Fill in each section of this template from the changes in the pull request.",
	}, nil
}
