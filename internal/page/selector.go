package page

import (
	"strings"

	"golang.org/x/net/html"
)

// QuerySelector returns the first element under root matching sel.
// Supported: tag, #id, .class, [attr], [attr=val], their compounds
// (e.g. select#color-scheme) and the descendant combinator.
func QuerySelector(root *html.Node, sel string) *html.Node {
	all := QuerySelectorAll(root, sel)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// QuerySelectorAll returns every element under root matching sel, in
// document order and without duplicates.
func QuerySelectorAll(root *html.Node, sel string) []*html.Node {
	parts := strings.Fields(sel)
	if len(parts) == 0 {
		return nil
	}
	chain := make([]compound, len(parts))
	for i, p := range parts {
		chain[i] = parseCompound(p)
	}

	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && matchesChain(n, chain) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

type compound struct {
	tag     string
	id      string
	classes []string
	attrKey string
	attrVal string
	hasVal  bool
}

func parseCompound(sel string) compound {
	var c compound

	if i := strings.IndexByte(sel, '['); i >= 0 {
		attr := strings.TrimSuffix(sel[i+1:], "]")
		sel = sel[:i]
		if k, v, ok := strings.Cut(attr, "="); ok {
			c.attrKey = k
			c.attrVal = strings.Trim(v, `"'`)
			c.hasVal = true
		} else {
			c.attrKey = attr
		}
	}

	// Split on '#' and '.' while keeping the marker of each piece.
	start := 0
	kind := byte(0)
	flush := func(end int) {
		piece := sel[start:end]
		switch kind {
		case 0:
			c.tag = strings.ToLower(piece)
		case '#':
			c.id = piece
		case '.':
			if piece != "" {
				c.classes = append(c.classes, piece)
			}
		}
	}
	for i := 0; i < len(sel); i++ {
		if sel[i] == '#' || sel[i] == '.' {
			flush(i)
			kind = sel[i]
			start = i + 1
		}
	}
	flush(len(sel))
	return c
}

func (c compound) matches(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if c.tag != "" && c.tag != "*" && n.Data != c.tag {
		return false
	}
	if c.id != "" && Attr(n, "id") != c.id {
		return false
	}
	if len(c.classes) > 0 {
		have := strings.Fields(Attr(n, "class"))
		for _, want := range c.classes {
			if !containsString(have, want) {
				return false
			}
		}
	}
	if c.attrKey != "" {
		v, ok := lookupAttr(n, c.attrKey)
		if !ok || (c.hasVal && v != c.attrVal) {
			return false
		}
	}
	return true
}

// matchesChain checks n against the last compound and walks ancestors for
// the rest, right to left.
func matchesChain(n *html.Node, chain []compound) bool {
	last := len(chain) - 1
	if !chain[last].matches(n) {
		return false
	}
	i := last - 1
	for p := n.Parent; p != nil && i >= 0; p = p.Parent {
		if chain[i].matches(p) {
			i--
		}
	}
	return i < 0
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
