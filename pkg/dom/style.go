package dom

import (
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
)

// parseStyle reads an inline style attribute. Malformed trailing input is
// dropped; the declarations parsed before it are kept.
func parseStyle(raw string) []*css.Declaration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	// the parser only finishes a declaration on ';' or '}'
	if !strings.HasSuffix(raw, ";") {
		raw += ";"
	}
	decls, _ := parser.NewParser(raw).ParseDeclarations()
	out := decls[:0]
	for _, d := range decls {
		if d.Property == "" {
			continue
		}
		out = append(out, d)
	}
	return out
}

func formatStyle(decls []*css.Declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, strings.TrimSuffix(d.String(), ";"))
	}
	return strings.Join(parts, "; ")
}

func isDisplay(d *css.Declaration) bool {
	return strings.EqualFold(d.Property, "display")
}

func isHidden(n *html.Node) bool {
	if hasAttr(n, "hidden") {
		return true
	}
	raw, _ := attr(n, "style")
	hidden, important := false, false
	for _, d := range parseStyle(raw) {
		if !isDisplay(d) || (important && !d.Important) {
			continue
		}
		hidden = strings.EqualFold(d.Value, "none")
		important = important || d.Important
	}
	return hidden
}

// setDisplayNone toggles the inline display declaration, leaving other
// declarations in place. Showing also drops the hidden attribute.
func setDisplayNone(n *html.Node, hidden bool) {
	raw, _ := attr(n, "style")
	decls := parseStyle(raw)
	kept := decls[:0]
	for _, d := range decls {
		if isDisplay(d) {
			continue
		}
		kept = append(kept, d)
	}
	if hidden {
		kept = append(kept, &css.Declaration{Property: "display", Value: "none"})
	} else {
		removeAttr(n, "hidden")
	}
	if len(kept) == 0 {
		removeAttr(n, "style")
		return
	}
	setAttr(n, "style", formatStyle(kept))
}
