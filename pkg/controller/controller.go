// Package controller keeps dependent fields, the submit/continue pair and
// cleared inputs consistent with the selected value of a radio trigger group.
//
// One Controller serves one page. It is bound to the document's ready hook,
// applies a baseline and any pre-checked probe, then re-derives the page
// state on every change of the trigger group.
package controller

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-formtoggle/pkg/dom"
	"github.com/goliatone/go-formtoggle/pkg/visibility"
	"github.com/goliatone/go-formtoggle/pkg/visibility/expr"
)

// Option customises a Controller.
type Option func(*Controller)

// WithLogger sets the logger. A nil logger keeps the no-op default.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithEvaluator overrides the evaluator used for conditional branches.
func WithEvaluator(evaluator visibility.Evaluator) Option {
	return func(c *Controller) {
		if evaluator != nil {
			c.evaluator = evaluator
		}
	}
}

// WithExtras exposes page level values to conditional rules under `extras.`.
func WithExtras(extras map[string]any) Option {
	return func(c *Controller) {
		c.extras = extras
	}
}

// Controller is the conditional field visibility controller for one page.
type Controller struct {
	doc       *dom.Document
	cfg       Config
	evaluator visibility.Evaluator
	extras    map[string]any
	logger    *zap.Logger

	initialized bool
}

// New validates cfg and returns a controller bound to doc.
func New(doc *dom.Document, cfg Config, opts ...Option) (*Controller, error) {
	if doc == nil {
		return nil, fmt.Errorf("controller: document is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{
		doc:       doc,
		cfg:       cfg,
		evaluator: expr.New(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if compiler, ok := c.evaluator.(interface{ Compile(string) error }); ok {
		for i, cond := range cfg.Conditionals {
			if err := compiler.Compile(cond.When); err != nil {
				return nil, fmt.Errorf("controller: page %q conditional %d: %w", cfg.Name, i, err)
			}
		}
	}
	c.logger = c.logger.Named("controller").With(zap.String("page", cfg.Name), zap.String("trigger", cfg.Trigger))
	return c, nil
}

// Config returns the controller configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// Bind schedules Initialize on the document ready hook.
func (c *Controller) Bind() {
	c.doc.Ready(c.Initialize)
}

// Initialize applies the baseline, the first checked initial probe, and
// subscribes to trigger changes. Only the first call has an effect.
func (c *Controller) Initialize() {
	if c.initialized {
		return
	}
	c.initialized = true

	c.Apply(c.cfg.Baseline)
	for _, probe := range c.cfg.InitialChecks {
		if !c.doc.Find(probe.Selector).Checked() {
			continue
		}
		c.logger.Debug("initial probe checked", zap.String("selector", probe.Selector))
		c.Apply(probe.Effect)
		break
	}

	c.doc.On(c.triggerSelector(), dom.EventChange, func(ev dom.Event) {
		c.OnTriggerChange(ev.Value)
	})
}

// OnTriggerChange applies the branch for value. Values no branch claims take
// the default branch.
func (c *Controller) OnTriggerChange(value string) {
	key, effect := c.Resolve(value)
	c.logger.Debug("trigger changed", zap.String("value", value), zap.String("branch", key))
	c.Apply(effect)
}

// Resolve returns the branch name and effect for value: an exact rule first,
// then conditionals in order, then the default rule.
func (c *Controller) Resolve(value string) (string, Effect) {
	if effect, ok := c.cfg.Rules[value]; ok {
		return value, effect
	}
	ctx := visibility.ForTrigger(c.cfg.Trigger, value)
	ctx.Extras = c.extras
	for i, cond := range c.cfg.Conditionals {
		ok, err := c.evaluator.Eval(c.cfg.Trigger, cond.When, ctx)
		if err != nil {
			c.logger.Warn("conditional rule failed", zap.Int("index", i), zap.String("rule", cond.When), zap.Error(err))
			continue
		}
		if ok {
			return cond.When, cond.Effect
		}
	}
	key := c.cfg.DefaultKey()
	return key, c.cfg.Rules[key]
}

// Apply performs effect on the document. Missing targets are skipped.
func (c *Controller) Apply(effect Effect) {
	for _, sel := range effect.Hide {
		c.target(sel).Hide()
	}
	for _, sel := range effect.Show {
		c.target(sel).Show()
	}
	for _, clr := range effect.Clear {
		target := c.target(clr.Selector)
		switch clr.Mode {
		case ClearSelectedIndex:
			target.SetSelectedIndex(0)
		default:
			target.SetValue("")
		}
	}
}

// State snapshots every selector the configuration touches.
func (c *Controller) State() []dom.ElementState {
	return c.doc.Snapshot(c.cfg.Selectors()...)
}

func (c *Controller) target(selector string) dom.Selection {
	sel := c.doc.Find(selector)
	if sel.Empty() {
		c.logger.Debug("target not found", zap.String("selector", selector))
	}
	return sel
}

func (c *Controller) triggerSelector() string {
	return fmt.Sprintf("input[type=radio][name=%q]", c.cfg.Trigger)
}
