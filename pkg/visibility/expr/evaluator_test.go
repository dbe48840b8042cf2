package expr

import (
	"testing"

	"github.com/goliatone/go-formtoggle/pkg/visibility"
)

func TestEvaluatorRules(t *testing.T) {
	t.Parallel()

	eval := New()
	ctx := visibility.Context{
		Values: map[string]any{
			"paysSA":  "true",
			"nUkUtr":  "false",
			"count":   3,
			"company": map[string]any{"country": "FR"},
		},
		Extras: map[string]any{"agent": true},
	}

	cases := []struct {
		rule string
		want bool
	}{
		{rule: "", want: true},
		{rule: `paysSA == "true"`, want: true},
		{rule: `paysSA == 'true'`, want: true},
		{rule: "paysSA == true", want: true},
		{rule: "paysSA != false", want: true},
		{rule: "nUkUtr == true", want: false},
		{rule: "nUkUtr", want: false},
		{rule: "!nUkUtr", want: true},
		{rule: "paysSA", want: true},
		{rule: "count == 3", want: true},
		{rule: "count != 3", want: false},
		{rule: "company.country == FR", want: true},
		{rule: "missing == null", want: true},
		{rule: "paysSA != null", want: true},
		{rule: "missing == false", want: false},
		{rule: "extras.agent && paysSA == true", want: true},
		{rule: "nUkUtr == true || extras.agent", want: true},
		{rule: `!(paysSA == "true" && nUkUtr == "false")`, want: false},
	}

	for _, tc := range cases {
		got, err := eval.Eval("paysSA", tc.rule, ctx)
		if err != nil {
			t.Fatalf("Eval(%q) returned error: %v", tc.rule, err)
		}
		if got != tc.want {
			t.Fatalf("Eval(%q) = %v, want %v", tc.rule, got, tc.want)
		}
	}
}

func TestEvaluatorErrors(t *testing.T) {
	t.Parallel()

	eval := New()
	for _, rule := range []string{
		"paysSA = true",
		"paysSA & true",
		`paysSA == "true`,
		"(paysSA == true",
		"paysSA == true)",
		"== true",
		"paysSA ==",
	} {
		if _, err := eval.Eval("paysSA", rule, visibility.Context{}); err == nil {
			t.Fatalf("expected error for %q", rule)
		}
		if err := eval.Compile(rule); err == nil {
			t.Fatalf("expected compile error for %q", rule)
		}
	}
}

func TestEvaluatorCachesCompiledRules(t *testing.T) {
	t.Parallel()

	eval := New()
	rule := `permission == "true"`
	for _, value := range []string{"true", "false", "true"} {
		got, err := eval.Eval("permission", rule, visibility.ForTrigger("permission", value))
		if err != nil {
			t.Fatalf("Eval returned error: %v", err)
		}
		if got != (value == "true") {
			t.Fatalf("Eval with %q = %v", value, got)
		}
	}
	if _, ok := eval.cache.Load(rule); !ok {
		t.Fatalf("expected compiled rule to be cached")
	}
}
