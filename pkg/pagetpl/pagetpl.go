// Package pagetpl renders sample markup for each registration page. The
// templates carry the element ids the page controllers expect and are used by
// the CLI preview and by tests.
package pagetpl

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
)

//go:embed templates/*.html
var embedded embed.FS

// Countries listed in the issuing country select, in option order after the
// empty placeholder.
var Countries = []string{"DE", "ES", "FR", "IE", "US"}

// Data pre-populates a rendered page.
type Data struct {
	// Checked lists element ids rendered with the checked attribute.
	Checked []string
	// Values maps input ids to pre-filled values. The sanitiser strips markup
	// and escapes the rest, so the result is emitted without further escaping.
	Values map[string]string
}

// Option configures a Set.
type Option func(*Set)

// WithFS replaces the embedded templates, e.g. with a directory on disk.
func WithFS(fsys fs.FS) Option {
	return func(s *Set) {
		if fsys != nil {
			s.fsys = fsys
		}
	}
}

// WithPolicy overrides the sanitiser applied to pre-filled values.
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(s *Set) {
		if policy != nil {
			s.policy = policy
		}
	}
}

// Set is a loaded template set.
type Set struct {
	fsys   fs.FS
	policy *bluemonday.Policy
	set    *pongo2.TemplateSet
}

// New builds a Set over the embedded templates unless overridden.
func New(opts ...Option) (*Set, error) {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		return nil, fmt.Errorf("pagetpl: embedded templates: %w", err)
	}
	s := &Set{
		fsys:   sub,
		policy: bluemonday.StrictPolicy(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.set = pongo2.NewSet("pagetpl", pongo2.NewFSLoader(s.fsys))
	return s, nil
}

// Names lists the page templates available, excluding layouts.
func (s *Set) Names() ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("pagetpl: list templates: %w", err)
	}
	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".html") || name == "base.html" {
			continue
		}
		names = append(names, strings.TrimSuffix(name, ".html"))
	}
	sort.Strings(names)
	return names, nil
}

// Render produces the markup for the named page.
func (s *Set) Render(name string, data Data) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", errors.New("pagetpl: page name is required")
	}
	tmpl, err := s.set.FromFile(name + ".html")
	if err != nil {
		return "", fmt.Errorf("pagetpl: load %q: %w", name, err)
	}

	checked := make(map[string]bool, len(data.Checked))
	for _, id := range data.Checked {
		checked[id] = true
	}
	values := make(map[string]string, len(data.Values))
	for id, v := range data.Values {
		values[id] = s.policy.Sanitize(v)
	}

	out, err := tmpl.Execute(pongo2.Context{
		"checked":   func(id string) bool { return checked[id] },
		"value":     func(id string) *pongo2.Value { return pongo2.AsSafeValue(values[id]) },
		"countries": Countries,
	})
	if err != nil {
		return "", fmt.Errorf("pagetpl: render %q: %w", name, err)
	}
	return out, nil
}

// Render renders a page from the embedded templates.
func Render(name string, data Data) (string, error) {
	s, err := New()
	if err != nil {
		return "", err
	}
	return s.Render(name, data)
}
