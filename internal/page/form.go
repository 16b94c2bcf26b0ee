package page

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Field is one name/value pair of a form submission.
type Field struct {
	Name  string
	Value string
}

// FormFields returns the form's successful controls in document order,
// the way a browser builds FormData: named, enabled inputs (checkboxes and
// radios only when checked, no buttons or files), textareas and selects.
func FormFields(form *html.Node) []Field {
	if form == nil {
		return nil
	}
	var out []Field
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n != form {
			name := Attr(n, "name")
			if name != "" && !HasAttr(n, "disabled") {
				switch n.DataAtom {
				case atom.Input:
					if v, ok := inputValue(n); ok {
						out = append(out, Field{Name: name, Value: v})
					}
				case atom.Textarea:
					out = append(out, Field{Name: name, Value: TextContent(n)})
				case atom.Select:
					if opt := selectedOption(n); opt != nil {
						out = append(out, Field{Name: name, Value: optionValue(opt)})
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(form)
	return out
}

func inputValue(n *html.Node) (string, bool) {
	switch strings.ToLower(Attr(n, "type")) {
	case "submit", "button", "reset", "image", "file":
		return "", false
	case "checkbox", "radio":
		if !HasAttr(n, "checked") {
			return "", false
		}
		if !HasAttr(n, "value") {
			return "on", true
		}
	}
	return Attr(n, "value"), true
}

// SelectValue returns the value a select currently displays: the selected
// option, else the first option.
func SelectValue(sel *html.Node) string {
	if opt := selectedOption(sel); opt != nil {
		return optionValue(opt)
	}
	return ""
}

// SetSelectValue marks the option with value v as the only selected one.
// It reports false, leaving the select untouched, when no option has v.
func SetSelectValue(sel *html.Node, v string) bool {
	opts := options(sel)
	var target *html.Node
	for _, o := range opts {
		if optionValue(o) == v {
			target = o
			break
		}
	}
	if target == nil {
		return false
	}
	for _, o := range opts {
		RemoveAttr(o, "selected")
	}
	SetAttr(target, "selected", "")
	return true
}

func selectedOption(sel *html.Node) *html.Node {
	opts := options(sel)
	for _, o := range opts {
		if HasAttr(o, "selected") {
			return o
		}
	}
	if len(opts) > 0 {
		return opts[0]
	}
	return nil
}

func options(sel *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.DataAtom == atom.Option {
				out = append(out, c)
				continue
			}
			walk(c)
		}
	}
	walk(sel)
	return out
}

func optionValue(opt *html.Node) string {
	if v, ok := lookupAttr(opt, "value"); ok {
		return v
	}
	return strings.TrimSpace(TextContent(opt))
}
