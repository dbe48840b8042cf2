package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// EventChange is the event dispatched when a radio in a group becomes checked.
const EventChange = "change"

// Event describes a dispatched DOM event.
type Event struct {
	Type   string
	Name   string
	Value  string
	Target Selection
}

// Handler receives dispatched events.
type Handler func(Event)

// Option configures a Document at parse time.
type Option func(*Document)

// WithLogger attaches a logger used for debug output on permissive failures
// such as invalid selectors.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Document) {
		if logger != nil {
			d.logger = logger.Named("dom")
		}
	}
}

type subscription struct {
	matcher cascadia.Matcher
	event   string
	fn      Handler
}

// Document owns one parsed page. It is not safe for concurrent use; like a
// browser document it expects a single event loop.
type Document struct {
	root   *html.Node
	logger *zap.Logger

	selectors map[string]cascadia.Matcher
	subs      []subscription

	ready  []func()
	loaded bool

	dispatching bool
	pending     []Event
}

// Parse reads an HTML page.
func Parse(r io.Reader, opts ...Option) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	doc := &Document{
		root:      root,
		logger:    zap.NewNop(),
		selectors: make(map[string]cascadia.Matcher),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(doc)
		}
	}
	return doc, nil
}

// ParseString is Parse for in-memory markup.
func ParseString(markup string, opts ...Option) (*Document, error) {
	return Parse(strings.NewReader(markup), opts...)
}

// Render writes the current tree as HTML.
func (d *Document) Render(w io.Writer) error {
	if err := html.Render(w, d.root); err != nil {
		return fmt.Errorf("dom: render: %w", err)
	}
	return nil
}

// String renders the current tree, returning an empty string on failure.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// Find returns every element matching selector in document order.
func (d *Document) Find(selector string) Selection {
	matcher := d.compile(selector)
	if matcher == nil {
		return Selection{doc: d}
	}
	return Selection{doc: d, nodes: cascadia.QueryAll(d.root, matcher)}
}

func (d *Document) compile(selector string) cascadia.Matcher {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return nil
	}
	if m, ok := d.selectors[selector]; ok {
		return m
	}
	compiled, err := cascadia.Compile(selector)
	if err != nil {
		d.logger.Debug("invalid selector", zap.String("selector", selector), zap.Error(err))
		d.selectors[selector] = nil
		return nil
	}
	d.selectors[selector] = compiled
	return compiled
}

// On subscribes fn to events of the given type whose target matches selector.
// Handlers run in subscription order.
func (d *Document) On(selector, event string, fn Handler) {
	if fn == nil {
		return
	}
	matcher := d.compile(selector)
	if matcher == nil {
		return
	}
	d.subs = append(d.subs, subscription{
		matcher: matcher,
		event:   event,
		fn:      fn,
	})
}

// Ready queues fn to run when the document loads. Once loaded, fn runs
// immediately.
func (d *Document) Ready(fn func()) {
	if fn == nil {
		return
	}
	if d.loaded {
		fn()
		return
	}
	d.ready = append(d.ready, fn)
}

// Load marks the document ready and runs queued callbacks in order. Calling
// Load again does nothing.
func (d *Document) Load() {
	if d.loaded {
		return
	}
	d.loaded = true
	callbacks := d.ready
	d.ready = nil
	for _, fn := range callbacks {
		fn()
	}
}

// Loaded reports whether Load has run.
func (d *Document) Loaded() bool {
	return d.loaded
}

// Radios returns the radio inputs belonging to the named group.
func (d *Document) Radios(name string) Selection {
	all := d.Find("input[type=radio]")
	out := Selection{doc: d}
	for _, n := range all.nodes {
		if v, _ := attr(n, "name"); v == name {
			out.nodes = append(out.nodes, n)
		}
	}
	return out
}

// SelectedValue returns the value of the checked radio in the group, or ""
// when nothing is checked.
func (d *Document) SelectedValue(name string) string {
	for _, n := range d.Radios(name).nodes {
		if hasAttr(n, "checked") {
			v, _ := attr(n, "value")
			return v
		}
	}
	return ""
}

// Select checks the radio with the given value in the named group, unchecks
// its siblings and dispatches a change event. It reports false when no radio
// carries that value.
func (d *Document) Select(name, value string) bool {
	group := d.Radios(name)
	var target *html.Node
	for _, n := range group.nodes {
		if v, _ := attr(n, "value"); v == value {
			target = n
			break
		}
	}
	if target == nil {
		return false
	}
	for _, n := range group.nodes {
		if n == target {
			setAttr(n, "checked", "checked")
		} else {
			removeAttr(n, "checked")
		}
	}
	d.Dispatch(Event{
		Type:   EventChange,
		Name:   name,
		Value:  value,
		Target: Selection{doc: d, nodes: []*html.Node{target}},
	})
	return true
}

// Dispatch delivers ev to matching subscribers. Events raised while another
// event is being handled are queued and delivered after it completes.
func (d *Document) Dispatch(ev Event) {
	if d.dispatching {
		d.pending = append(d.pending, ev)
		return
	}
	d.dispatching = true
	defer func() {
		// a panicking handler abandons the queue with it
		d.dispatching = false
		d.pending = nil
	}()

	d.deliver(ev)
	for len(d.pending) > 0 {
		next := d.pending[0]
		d.pending = d.pending[1:]
		d.deliver(next)
	}
}

func (d *Document) deliver(ev Event) {
	subs := append([]subscription(nil), d.subs...)
	for _, sub := range subs {
		if sub.event != ev.Type {
			continue
		}
		if !ev.Target.matches(sub.matcher) {
			continue
		}
		sub.fn(ev)
	}
}
