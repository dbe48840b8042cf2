package pages

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formtoggle/pkg/controller"
)

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()

	reg := Default()
	want := []string{ClientPermission, NRL, NUKUTR, OverseasCompany}
	if diff := cmp.Diff(want, reg.List()); diff != "" {
		t.Fatalf("pages (-want +got):\n%s", diff)
	}
	for _, name := range want {
		if !reg.Has(name) {
			t.Fatalf("expected %s to be registered", name)
		}
	}

	cfg, err := reg.Get(NRL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if cfg.Trigger != "paysSA" {
		t.Fatalf("nrl trigger = %q", cfg.Trigger)
	}

	if _, err := reg.Get("unknown"); !errors.Is(err, ErrPageNotFound) {
		t.Fatalf("expected ErrPageNotFound, got %v", err)
	}
}

func TestRegisterRejectsDuplicatesAndInvalid(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	if err := reg.Register(NRLConfig()); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register(NRLConfig()); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if err := reg.Register(controller.Config{Trigger: "x"}); err == nil {
		t.Fatalf("expected missing name error")
	}
	err := reg.Register(controller.Config{Name: "broken", Trigger: "x"})
	if !errors.Is(err, controller.ErrDefaultBranch) {
		t.Fatalf("expected ErrDefaultBranch, got %v", err)
	}
}

func TestRegistryIsolatesStoredConfigs(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	original := OverseasCompanyConfig()
	if err := reg.Register(original); err != nil {
		t.Fatalf("register: %v", err)
	}
	want := OverseasCompanyConfig()

	// edits to the registered value must not leak in
	original.Rules["false"].Clear[0].Selector = "#changed"
	original.Baseline.Hide = append(original.Baseline.Hide[:0], "#changed")

	got, err := reg.Get(OverseasCompany)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got.Rules["false"] = controller.Effect{}
	got.InitialChecks[0].Effect.Show[0] = "#changed"

	again, err := reg.Get(OverseasCompany)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if diff := cmp.Diff(want, again); diff != "" {
		t.Fatalf("registered page changed (-want +got):\n%s", diff)
	}
}

func TestLoadFS(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"forms/agent.yaml": {Data: []byte(`
pages:
  agent-type:
    trigger: isAgent
    baseline:
      hide: ["#agent-details", "#submit"]
    rules:
      "true":
        show: ["#agent-details", "#submit"]
        hide: ["#continue"]
      "false":
        hide: ["#agent-details", "#submit"]
        show: ["#continue"]
        clear:
          - selector: "#agentRef"
          - selector: "#agentCountry"
            mode: selectedIndex
    initialChecks:
      - selector: "#isAgent-true"
        effect:
          show: ["#agent-details"]
`)},
		"forms/contact.json": {Data: []byte(`{
  "pages": {
    "contact": {
      "name": "contact-preference",
      "trigger": "contactByPost",
      "default": "no",
      "rules": {"yes": {"show": ["#address"]}, "no": {"hide": ["#address"]}},
      "conditionals": [{"when": "contactByPost == \"maybe\"", "effect": {"show": ["#address-hint"]}}]
    }
  }
}`)},
		"README.md": {Data: []byte("ignored")},
	}

	reg := NewRegistry()
	if err := LoadFS(fsys, reg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"agent-type", "contact-preference"}, reg.List()); diff != "" {
		t.Fatalf("pages (-want +got):\n%s", diff)
	}

	agent, err := reg.Get("agent-type")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	wantFalse := controller.Effect{
		Hide: []string{"#agent-details", "#submit"},
		Show: []string{"#continue"},
		Clear: []controller.Clear{
			{Selector: "#agentRef"},
			{Selector: "#agentCountry", Mode: controller.ClearSelectedIndex},
		},
	}
	if diff := cmp.Diff(wantFalse, agent.Rules["false"]); diff != "" {
		t.Fatalf("false rule (-want +got):\n%s", diff)
	}
	if len(agent.InitialChecks) != 1 || agent.InitialChecks[0].Selector != "#isAgent-true" {
		t.Fatalf("initial checks = %+v", agent.InitialChecks)
	}

	contact, err := reg.Get("contact-preference")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if contact.DefaultKey() != "no" || len(contact.Conditionals) != 1 {
		t.Fatalf("contact config = %+v", contact)
	}
}

func TestLoadFSErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]fstest.MapFS{
		"empty":   {"a.yaml": {Data: []byte("  \n")}},
		"invalid": {"a.json": {Data: []byte("{")}},
		"total":   {"a.yaml": {Data: []byte("pages:\n  p:\n    trigger: t\n    rules:\n      \"true\": {}\n")}},
		"dup":     {"a.yaml": {Data: []byte("pages:\n  nrl:\n    trigger: t\n    rules:\n      \"false\": {}\n")}},
	}
	for name, fsys := range cases {
		reg := Default()
		err := LoadFS(fsys, reg)
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		if !strings.HasPrefix(err.Error(), "pages:") {
			t.Fatalf("%s: error not prefixed: %v", name, err)
		}
	}

	if err := LoadFS(nil, NewRegistry()); err != nil {
		t.Fatalf("nil fs should be a no-op: %v", err)
	}
}
