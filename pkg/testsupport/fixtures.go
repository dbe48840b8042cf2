// Package testsupport holds helpers shared by package tests: rendering sample
// pages, parsing markup and wiring a page controller the way a browser would.
package testsupport

import (
	"errors"
	"fmt"
	"testing"

	"github.com/goliatone/go-formtoggle/pkg/controller"
	"github.com/goliatone/go-formtoggle/pkg/dom"
	"github.com/goliatone/go-formtoggle/pkg/pages"
	"github.com/goliatone/go-formtoggle/pkg/pagetpl"
)

// MustParse parses markup or fails the test.
func MustParse(t *testing.T, markup string) *dom.Document {
	t.Helper()

	doc, err := dom.ParseString(markup)
	if err != nil {
		t.Fatalf("parse markup: %v", err)
	}
	return doc
}

// LoadPage renders the named sample page with data and parses it.
func LoadPage(t *testing.T, name string, data pagetpl.Data) *dom.Document {
	t.Helper()

	doc, err := LoadPageDocument(name, data)
	if err != nil {
		t.Fatalf("load page: %v", err)
	}
	return doc
}

// LoadPageDocument is LoadPage without a testing.T.
func LoadPageDocument(name string, data pagetpl.Data) (*dom.Document, error) {
	if name == "" {
		return nil, errors.New("testsupport: page name is required")
	}
	markup, err := pagetpl.Render(name, data)
	if err != nil {
		return nil, fmt.Errorf("testsupport: render page: %w", err)
	}
	doc, err := dom.ParseString(markup)
	if err != nil {
		return nil, fmt.Errorf("testsupport: parse page: %w", err)
	}
	return doc, nil
}

// StartPage renders a sample page, binds its built-in controller and fires
// the ready hook.
func StartPage(t *testing.T, name string, data pagetpl.Data) (*dom.Document, *controller.Controller) {
	t.Helper()

	doc := LoadPage(t, name, data)
	cfg, err := pages.Default().Get(name)
	if err != nil {
		t.Fatalf("page config: %v", err)
	}
	ctrl, err := controller.New(doc, cfg)
	if err != nil {
		t.Fatalf("controller: %v", err)
	}
	ctrl.Bind()
	doc.Load()
	return doc, ctrl
}

// Visibility maps each selector to its current visibility.
func Visibility(doc *dom.Document, selectors ...string) map[string]bool {
	out := make(map[string]bool, len(selectors))
	for _, sel := range selectors {
		out[sel] = doc.Find(sel).Visible()
	}
	return out
}
