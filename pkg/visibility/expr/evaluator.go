package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-formtoggle/pkg/visibility"
)

// Evaluator compiles and evaluates branch rules such as
//
//	paysSA == "true"
//	nUkUtr != false && extras.agent
//	!(permission == "true" || permission == "yes")
//
// Identifiers resolve against visibility.Context.Values, or Extras when
// prefixed with `extras.`. Compiled rules are cached per rule string.
type Evaluator struct {
	cache sync.Map
}

var _ visibility.Evaluator = (*Evaluator)(nil)

func New() *Evaluator { return &Evaluator{} }

// Eval reports whether rule holds. An empty rule holds.
func (e *Evaluator) Eval(trigger, rule string, ctx visibility.Context) (bool, error) {
	rule = strings.TrimSpace(rule)
	if rule == "" {
		return true, nil
	}
	node, err := e.compile(rule)
	if err != nil {
		return false, err
	}
	return node(ctx), nil
}

// Compile parses rule without evaluating it, so configs can be checked up
// front.
func (e *Evaluator) Compile(rule string) error {
	if strings.TrimSpace(rule) == "" {
		return nil
	}
	_, err := e.compile(strings.TrimSpace(rule))
	return err
}

func (e *Evaluator) compile(rule string) (node, error) {
	if cached, ok := e.cache.Load(rule); ok {
		return cached.(node), nil
	}
	toks, err := lex(rule)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	n, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != kEOF {
		return nil, fmt.Errorf("visibility/expr: unexpected %q", p.peek().text)
	}
	e.cache.Store(rule, n)
	return n, nil
}

type node func(visibility.Context) bool

type kind int

const (
	kEOF kind = iota
	kIdent
	kString
	kNumber
	kTrue
	kFalse
	kNull
	kEq
	kNeq
	kAnd
	kOr
	kNot
	kOpen
	kClose
)

type tok struct {
	kind kind
	text string
}

var twoChar = map[string]kind{"==": kEq, "!=": kNeq, "&&": kAnd, "||": kOr}

func lex(src string) ([]tok, error) {
	var out []tok
	for i := 0; i < len(src); {
		ch := src[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case i+1 < len(src) && twoChar[src[i:i+2]] != 0:
			out = append(out, tok{kind: twoChar[src[i:i+2]], text: src[i : i+2]})
			i += 2
		case ch == '!':
			out = append(out, tok{kind: kNot, text: "!"})
			i++
		case ch == '(':
			out = append(out, tok{kind: kOpen, text: "("})
			i++
		case ch == ')':
			out = append(out, tok{kind: kClose, text: ")"})
			i++
		case ch == '"' || ch == '\'':
			end := i + 1
			for end < len(src) && src[end] != ch {
				if src[end] == '\\' {
					end++
				}
				end++
			}
			if end >= len(src) {
				return nil, errors.New("visibility/expr: unterminated string literal")
			}
			body := src[i+1 : end]
			if ch == '\'' {
				body = strings.ReplaceAll(body, `"`, `\"`)
				body = strings.ReplaceAll(body, `\'`, `'`)
			}
			text, err := strconv.Unquote(`"` + body + `"`)
			if err != nil {
				return nil, fmt.Errorf("visibility/expr: invalid string literal: %w", err)
			}
			out = append(out, tok{kind: kString, text: text})
			i = end + 1
		case ch == '=' || ch == '&' || ch == '|':
			return nil, fmt.Errorf("visibility/expr: unexpected %q at %d", ch, i)
		default:
			start := i
			for i < len(src) && !strings.ContainsRune(" \t\n\r()!=&|\"'", rune(src[i])) {
				i++
			}
			out = append(out, word(src[start:i]))
		}
	}
	return append(out, tok{kind: kEOF}), nil
}

func word(text string) tok {
	switch strings.ToLower(text) {
	case "true":
		return tok{kind: kTrue, text: "true"}
	case "false":
		return tok{kind: kFalse, text: "false"}
	case "null", "nil":
		return tok{kind: kNull, text: "null"}
	}
	if _, err := strconv.ParseFloat(text, 64); err == nil {
		return tok{kind: kNumber, text: text}
	}
	return tok{kind: kIdent, text: text}
}

type parser struct {
	toks []tok
	pos  int
}

func (p *parser) peek() tok { return p.toks[p.pos] }

func (p *parser) accept(k kind) bool {
	if p.toks[p.pos].kind != k {
		return false
	}
	p.pos++
	return true
}

func (p *parser) or() (node, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.accept(kOr) {
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		l := left
		left = func(ctx visibility.Context) bool { return l(ctx) || right(ctx) }
	}
	return left, nil
}

func (p *parser) and() (node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.accept(kAnd) {
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		l := left
		left = func(ctx visibility.Context) bool { return l(ctx) && right(ctx) }
	}
	return left, nil
}

func (p *parser) unary() (node, error) {
	if p.accept(kNot) {
		inner, err := p.unary()
		if err != nil {
			return nil, err
		}
		return func(ctx visibility.Context) bool { return !inner(ctx) }, nil
	}
	if p.accept(kOpen) {
		inner, err := p.or()
		if err != nil {
			return nil, err
		}
		if !p.accept(kClose) {
			return nil, errors.New("visibility/expr: missing closing ')'")
		}
		return inner, nil
	}
	return p.comparison()
}

func (p *parser) comparison() (node, error) {
	ident := p.peek()
	if ident.kind != kIdent {
		if ident.kind == kEOF {
			return nil, errors.New("visibility/expr: unexpected end of rule")
		}
		return nil, fmt.Errorf("visibility/expr: expected identifier, got %q", ident.text)
	}
	p.pos++

	negate := false
	switch {
	case p.accept(kEq):
	case p.accept(kNeq):
		negate = true
	default:
		return func(ctx visibility.Context) bool {
			v, ok := lookup(ctx, ident.text)
			return ok && truthy(v)
		}, nil
	}

	lit := p.peek()
	p.pos++
	var match func(any, bool) bool
	switch lit.kind {
	case kNull:
		match = func(v any, ok bool) bool { return !ok || v == nil }
	case kTrue, kFalse:
		want := lit.kind == kTrue
		match = func(v any, ok bool) bool { return ok && asBool(v) == want }
	case kNumber:
		want, _ := strconv.ParseFloat(lit.text, 64)
		match = func(v any, ok bool) bool {
			got, isNum := asNumber(v)
			return ok && isNum && got == want
		}
	case kString, kIdent:
		// bare words on the right hand side read as strings
		match = func(v any, ok bool) bool { return ok && asString(v) == lit.text }
	default:
		return nil, fmt.Errorf("visibility/expr: expected literal after %q", ident.text)
	}

	return func(ctx visibility.Context) bool {
		v, ok := lookup(ctx, ident.text)
		return match(v, ok) != negate
	}, nil
}

func lookup(ctx visibility.Context, key string) (any, bool) {
	source := ctx.Values
	if rest, ok := strings.CutPrefix(key, "extras."); ok {
		source, key = ctx.Extras, rest
	}
	if v, ok := source[key]; ok {
		return v, true
	}
	var current any = source
	for _, part := range strings.Split(key, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = m[part]; !ok {
			return nil, false
		}
	}
	return current, true
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
			return b
		}
		return strings.TrimSpace(t) != ""
	default:
		if n, ok := asNumber(v); ok {
			return n != 0
		}
		return true
	}
}

func asBool(v any) bool {
	return truthy(v)
}

func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
