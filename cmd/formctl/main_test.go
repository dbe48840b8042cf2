package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/goliatone/go-formtoggle/internal/prompt"
	"github.com/goliatone/go-formtoggle/pkg/dom"
	"github.com/goliatone/go-formtoggle/pkg/pages"
)

func newTestApp(driver prompt.Driver) (*app, *bytes.Buffer) {
	var out bytes.Buffer
	return &app{
		out:      &out,
		logger:   zap.NewNop(),
		registry: pages.Default(),
		driver:   driver,
	}, &out
}

func execute(t *testing.T, a *app, args ...string) error {
	t.Helper()

	cmd := a.rootCommand()
	cmd.SetArgs(args)
	cmd.SetErr(&bytes.Buffer{})
	return cmd.Execute()
}

func TestPagesCommand(t *testing.T) {
	t.Parallel()

	a, out := newTestApp(nil)
	if err := execute(t, a, "pages"); err != nil {
		t.Fatalf("pages: %v", err)
	}
	for _, want := range []string{"client-permission", "permission", "overseas-company", "hasBusinessUniqueId", "nrl", "paysSA"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("pages output missing %q:\n%s", want, out.String())
		}
	}
}

func TestApplyStateClearsOverseasFields(t *testing.T) {
	t.Parallel()

	a, out := newTestApp(nil)
	err := execute(t, a, "apply",
		"--page", "overseas-company",
		"--check", "hasBusinessUniqueId-true",
		"--value", "businessUniqueId=ABC123",
		"--select", "hasBusinessUniqueId=false",
		"--state",
	)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	var states []dom.ElementState
	if err := json.Unmarshal(out.Bytes(), &states); err != nil {
		t.Fatalf("decode state: %v\n%s", err, out.String())
	}
	bySelector := make(map[string]dom.ElementState, len(states))
	for _, st := range states {
		bySelector[st.Selector] = st
	}
	if st := bySelector[pages.SelBusinessUniqueID]; st.Value != "" || !st.Present {
		t.Fatalf("businessUniqueId = %+v", st)
	}
	if st := bySelector[pages.SelHiddenIdentifiers]; st.Visible {
		t.Fatalf("identifiers should be hidden: %+v", st)
	}
	if st := bySelector[pages.SelIssuingCountryIdx]; st.SelectedIndex != 0 {
		t.Fatalf("issuingCountry_ = %+v", st)
	}
}

func TestApplyRendersFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	markup := `<form>
<input type="radio" name="paysSA" value="true"><input type="radio" name="paysSA" value="false">
<div id="hidden-uniqueTaxRef-true"></div><div id="shade-box"></div>
<button id="submit"></button><button id="continue"></button></form>`
	if err := os.WriteFile(path, []byte(markup), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	a, out := newTestApp(nil)
	if err := execute(t, a, "apply", "-p", "nrl", "-f", path, "-s", "paysSA=false"); err != nil {
		t.Fatalf("apply: %v", err)
	}
	html := out.String()
	for _, want := range []string{
		`<div id="hidden-uniqueTaxRef-true" style="display: none"></div>`,
		`<button id="submit" style="display: none"></button>`,
		`<button id="continue"></button>`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("output missing %q:\n%s", want, html)
		}
	}
}

func TestApplyRejectsBadInput(t *testing.T) {
	t.Parallel()

	a, _ := newTestApp(nil)
	if err := execute(t, a, "apply", "--page", "nrl", "--select", "paysSA"); err == nil {
		t.Fatalf("expected error for malformed selection")
	}
	if err := execute(t, a, "apply", "--page", "nope"); err == nil {
		t.Fatalf("expected error for unknown page")
	}
	if err := execute(t, a, "apply", "--page", "nrl", "--file", "page.html", "--check", "paysSA-true"); err == nil || !strings.Contains(err.Error(), "--file") {
		t.Fatalf("expected error combining --file and --check, got %v", err)
	}
	if err := execute(t, a, "apply", "--page", "nrl", "--file", "-", "--value", "utr=1"); err == nil {
		t.Fatalf("expected error combining --file and --value")
	}
}

func TestApplyWithExtraConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := `pages:
  permission-copy:
    trigger: permission
    rules:
      "true": {show: ["#submit"]}
      "false": {hide: ["#submit"]}
`
	if err := os.WriteFile(filepath.Join(dir, "extra.yaml"), []byte(cfg), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	var out bytes.Buffer
	a := &app{out: &out, logger: zap.NewNop()}
	if err := execute(t, a, "--config", dir, "pages"); err != nil {
		t.Fatalf("pages: %v", err)
	}
	if !strings.Contains(out.String(), "permission-copy") {
		t.Fatalf("extra page not listed:\n%s", out.String())
	}
}

func TestSimulateWalksChoices(t *testing.T) {
	t.Parallel()

	var transcript bytes.Buffer
	script := &prompt.Script{Choices: []string{"true", "false", doneOption}, Out: &transcript}
	a, _ := newTestApp(script)

	if err := execute(t, a, "simulate", "--page", "client-permission"); err != nil {
		t.Fatalf("simulate: %v", err)
	}

	text := transcript.String()
	for _, want := range []string{"loaded", "permission=true", "permission=false", "#client-permission-true-hidden"} {
		if !strings.Contains(text, want) {
			t.Fatalf("transcript missing %q:\n%s", want, text)
		}
	}
	if len(script.Choices) != 0 {
		t.Fatalf("unused choices: %v", script.Choices)
	}
}

func TestSimulateDoneOffersFinalHTML(t *testing.T) {
	t.Parallel()

	script := &prompt.Script{Choices: []string{"false", doneOption}, Answers: []bool{true}}
	a, out := newTestApp(script)
	if err := execute(t, a, "simulate", "--page", "nrl"); err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if !strings.Contains(out.String(), `id="hidden-uniqueTaxRef-true"`) {
		t.Fatalf("expected final page HTML:\n%s", out.String())
	}
	if len(script.Answers) != 0 {
		t.Fatalf("confirm not asked: %v", script.Answers)
	}

	declined := &prompt.Script{Choices: []string{doneOption}, Answers: []bool{false}}
	b, quiet := newTestApp(declined)
	if err := execute(t, b, "simulate", "--page", "nrl"); err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if strings.Contains(quiet.String(), "<html") {
		t.Fatalf("declined render still printed HTML:\n%s", quiet.String())
	}
}

func TestSimulateStopsOnAbort(t *testing.T) {
	t.Parallel()

	a, _ := newTestApp(&prompt.Script{})
	if err := execute(t, a, "simulate", "--page", "nrl"); err != nil {
		t.Fatalf("abort should end the session cleanly: %v", err)
	}
}

func TestFormatState(t *testing.T) {
	t.Parallel()

	got := formatState("title", []dom.ElementState{
		{Selector: "#a", Present: true, Visible: true, SelectedIndex: -1},
		{Selector: "#long", Present: true, Value: "x", SelectedIndex: 0},
		{Selector: "#gone", SelectedIndex: -1},
	})
	for _, want := range []string{"title", "#a", "visible", "hidden", `value="x"`, "selectedIndex=0", "missing"} {
		if !strings.Contains(got, want) {
			t.Fatalf("formatted state missing %q:\n%s", want, got)
		}
	}
}
