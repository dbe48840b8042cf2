package controller

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
)

// DefaultBranch is the rule key used for trigger values no branch claims.
const DefaultBranch = "false"

var (
	// ErrTriggerRequired is returned when a config names no trigger group.
	ErrTriggerRequired = errors.New("controller: trigger group is required")
	// ErrDefaultBranch is returned when the default branch has no rule, which
	// would leave unrecognised values unhandled.
	ErrDefaultBranch = errors.New("controller: default branch has no rule")
)

// ClearMode selects how a field is reset.
type ClearMode string

const (
	// ClearValue sets the field value to the empty string.
	ClearValue ClearMode = "value"
	// ClearSelectedIndex selects the first option of a select.
	ClearSelectedIndex ClearMode = "selectedIndex"
)

// Clear resets one field when a branch applies.
type Clear struct {
	Selector string    `json:"selector" yaml:"selector"`
	Mode     ClearMode `json:"mode,omitempty" yaml:"mode,omitempty"`
}

// Effect is the set of DOM changes one branch makes. Hide runs before Show;
// clears run last.
type Effect struct {
	Show  []string `json:"show,omitempty" yaml:"show,omitempty"`
	Hide  []string `json:"hide,omitempty" yaml:"hide,omitempty"`
	Clear []Clear  `json:"clear,omitempty" yaml:"clear,omitempty"`
}

// Empty reports whether the effect changes nothing.
func (e Effect) Empty() bool {
	return len(e.Show) == 0 && len(e.Hide) == 0 && len(e.Clear) == 0
}

// Conditional is a branch selected by a rule expression instead of an exact
// trigger value.
type Conditional struct {
	When   string `json:"when" yaml:"when"`
	Effect Effect `json:"effect" yaml:"effect"`
}

// InitialCheck probes a selector for a checked state at load time.
type InitialCheck struct {
	Selector string `json:"selector" yaml:"selector"`
	Effect   Effect `json:"effect" yaml:"effect"`
}

// Config describes one page's controller.
type Config struct {
	// Name identifies the page, e.g. "nrl".
	Name string `json:"name" yaml:"name"`
	// Trigger is the radio group name observed for changes.
	Trigger string `json:"trigger" yaml:"trigger"`
	// Rules maps exact trigger values to effects.
	Rules map[string]Effect `json:"rules" yaml:"rules"`
	// Conditionals are tried in order when no exact rule matches.
	Conditionals []Conditional `json:"conditionals,omitempty" yaml:"conditionals,omitempty"`
	// Default names the rule used when nothing else matches. Empty means
	// DefaultBranch.
	Default string `json:"default,omitempty" yaml:"default,omitempty"`
	// Baseline is applied once on initialisation.
	Baseline Effect `json:"baseline" yaml:"baseline"`
	// InitialChecks are probed in order; the first checked one applies.
	InitialChecks []InitialCheck `json:"initialChecks,omitempty" yaml:"initialChecks,omitempty"`
}

// DefaultKey returns the rule key used for unrecognised values.
func (c Config) DefaultKey() string {
	if key := strings.TrimSpace(c.Default); key != "" {
		return key
	}
	return DefaultBranch
}

// Validate checks that the rule set is total and every selector is usable.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Trigger) == "" {
		return ErrTriggerRequired
	}
	if _, ok := c.Rules[c.DefaultKey()]; !ok {
		return fmt.Errorf("%w: %q (page %q)", ErrDefaultBranch, c.DefaultKey(), c.Name)
	}

	check := func(where string, effect Effect) error {
		for _, sel := range append(append([]string(nil), effect.Show...), effect.Hide...) {
			if strings.TrimSpace(sel) == "" {
				return fmt.Errorf("controller: page %q %s has an empty selector", c.Name, where)
			}
		}
		for _, clr := range effect.Clear {
			if strings.TrimSpace(clr.Selector) == "" {
				return fmt.Errorf("controller: page %q %s has an empty clear selector", c.Name, where)
			}
			switch clr.Mode {
			case "", ClearValue, ClearSelectedIndex:
			default:
				return fmt.Errorf("controller: page %q %s has unknown clear mode %q", c.Name, where, clr.Mode)
			}
		}
		return nil
	}

	if err := check("baseline", c.Baseline); err != nil {
		return err
	}
	for _, key := range sortedKeys(c.Rules) {
		if err := check(fmt.Sprintf("rule %q", key), c.Rules[key]); err != nil {
			return err
		}
	}
	for i, cond := range c.Conditionals {
		if strings.TrimSpace(cond.When) == "" {
			return fmt.Errorf("controller: page %q conditional %d has an empty rule", c.Name, i)
		}
		if err := check(fmt.Sprintf("conditional %d", i), cond.Effect); err != nil {
			return err
		}
	}
	for i, probe := range c.InitialChecks {
		if strings.TrimSpace(probe.Selector) == "" {
			return fmt.Errorf("controller: page %q initial check %d has an empty selector", c.Name, i)
		}
		if err := check(fmt.Sprintf("initial check %q", probe.Selector), probe.Effect); err != nil {
			return err
		}
	}
	return nil
}

// Selectors lists every selector the config touches, sorted and unique.
func (c Config) Selectors() []string {
	seen := make(map[string]struct{})
	add := func(effect Effect) {
		for _, sel := range effect.Show {
			seen[sel] = struct{}{}
		}
		for _, sel := range effect.Hide {
			seen[sel] = struct{}{}
		}
		for _, clr := range effect.Clear {
			seen[clr.Selector] = struct{}{}
		}
	}
	add(c.Baseline)
	for _, effect := range c.Rules {
		add(effect)
	}
	for _, cond := range c.Conditionals {
		add(cond.Effect)
	}
	for _, probe := range c.InitialChecks {
		seen[probe.Selector] = struct{}{}
		add(probe.Effect)
	}
	out := make([]string, 0, len(seen))
	for sel := range seen {
		out = append(out, sel)
	}
	sort.Strings(out)
	return out
}

// Clone returns a deep copy of the effect.
func (e Effect) Clone() Effect {
	return Effect{
		Show:  slices.Clone(e.Show),
		Hide:  slices.Clone(e.Hide),
		Clear: slices.Clone(e.Clear),
	}
}

// Clone returns a deep copy of the config; edits to the copy's rules, lists
// or effects do not reach c.
func (c Config) Clone() Config {
	out := c
	out.Baseline = c.Baseline.Clone()
	if c.Rules != nil {
		out.Rules = make(map[string]Effect, len(c.Rules))
		for key, effect := range c.Rules {
			out.Rules[key] = effect.Clone()
		}
	}
	if c.Conditionals != nil {
		out.Conditionals = make([]Conditional, len(c.Conditionals))
		for i, cond := range c.Conditionals {
			out.Conditionals[i] = Conditional{When: cond.When, Effect: cond.Effect.Clone()}
		}
	}
	if c.InitialChecks != nil {
		out.InitialChecks = make([]InitialCheck, len(c.InitialChecks))
		for i, probe := range c.InitialChecks {
			out.InitialChecks[i] = InitialCheck{Selector: probe.Selector, Effect: probe.Effect.Clone()}
		}
	}
	return out
}

func sortedKeys(m map[string]Effect) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
