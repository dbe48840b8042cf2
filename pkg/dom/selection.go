package dom

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Selection is an ordered set of elements returned by a query. The zero value
// is an empty selection.
type Selection struct {
	doc   *Document
	nodes []*html.Node
}

// Len reports the number of matched elements.
func (s Selection) Len() int {
	return len(s.nodes)
}

// Empty reports whether nothing matched.
func (s Selection) Empty() bool {
	return len(s.nodes) == 0
}

// Nodes exposes the matched nodes.
func (s Selection) Nodes() []*html.Node {
	return s.nodes
}

// Attr returns the attribute of the first matched element.
func (s Selection) Attr(key string) (string, bool) {
	if len(s.nodes) == 0 {
		return "", false
	}
	return attr(s.nodes[0], key)
}

// Hide sets an inline display:none on every matched element.
func (s Selection) Hide() Selection {
	for _, n := range s.nodes {
		setDisplayNone(n, true)
	}
	return s
}

// Show removes an inline display:none from every matched element.
func (s Selection) Show() Selection {
	for _, n := range s.nodes {
		setDisplayNone(n, false)
	}
	return s
}

// Visible reports whether the selection is non-empty and none of its
// elements carries an inline display:none or the hidden attribute.
func (s Selection) Visible() bool {
	if len(s.nodes) == 0 {
		return false
	}
	for _, n := range s.nodes {
		if isHidden(n) {
			return false
		}
	}
	return true
}

// Checked reports whether any matched element is checked.
func (s Selection) Checked() bool {
	for _, n := range s.nodes {
		if hasAttr(n, "checked") {
			return true
		}
	}
	return false
}

// Value returns the current value of the first matched form control. Selects
// report the value of their selected option, or "" when none is selected.
func (s Selection) Value() string {
	if len(s.nodes) == 0 {
		return ""
	}
	n := s.nodes[0]
	switch n.DataAtom {
	case atom.Textarea:
		return textContent(n)
	case atom.Select:
		for _, opt := range options(n) {
			if hasAttr(opt, "selected") {
				return optionValue(opt)
			}
		}
		return ""
	default:
		v, _ := attr(n, "value")
		return v
	}
}

// SetValue assigns value to every matched form control. For selects the
// option carrying that value becomes selected; when no option matches, none
// stays selected.
func (s Selection) SetValue(value string) Selection {
	for _, n := range s.nodes {
		switch n.DataAtom {
		case atom.Textarea:
			for c := n.FirstChild; c != nil; {
				next := c.NextSibling
				n.RemoveChild(c)
				c = next
			}
			if value != "" {
				n.AppendChild(&html.Node{Type: html.TextNode, Data: value})
			}
		case atom.Select:
			matched := false
			for _, opt := range options(n) {
				if !matched && optionValue(opt) == value {
					setAttr(opt, "selected", "selected")
					matched = true
					continue
				}
				removeAttr(opt, "selected")
			}
		default:
			setAttr(n, "value", value)
		}
	}
	return s
}

// SelectedIndex returns the index of the selected option of the first
// matched select, or -1 when it is not a select or nothing is selected.
func (s Selection) SelectedIndex() int {
	if len(s.nodes) == 0 || s.nodes[0].DataAtom != atom.Select {
		return -1
	}
	for i, opt := range options(s.nodes[0]) {
		if hasAttr(opt, "selected") {
			return i
		}
	}
	return -1
}

// SetSelectedIndex selects the option at index on every matched select.
// Out of range indices leave nothing selected.
func (s Selection) SetSelectedIndex(index int) Selection {
	for _, n := range s.nodes {
		if n.DataAtom != atom.Select {
			continue
		}
		for i, opt := range options(n) {
			if i == index {
				setAttr(opt, "selected", "selected")
			} else {
				removeAttr(opt, "selected")
			}
		}
	}
	return s
}

func (s Selection) matches(m cascadia.Matcher) bool {
	for _, n := range s.nodes {
		if m.Match(n) {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasAttr(n *html.Node, key string) bool {
	_, ok := attr(n, key)
	return ok
}

func setAttr(n *html.Node, key, value string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

func removeAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		out = append(out, a)
	}
	n.Attr = out
}

func options(sel *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Option:
				out = append(out, c)
			case atom.Optgroup:
				walk(c)
			}
		}
	}
	walk(sel)
	return out
}

func optionValue(opt *html.Node) string {
	if v, ok := attr(opt, "value"); ok {
		return v
	}
	return strings.TrimSpace(textContent(opt))
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
