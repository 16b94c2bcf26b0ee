// Package page exposes a parsed HTML page as a small mutable surface: the
// handful of DOM operations the navigation, theme and contact code need.
package page

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Surface is the part of a document the page scripts touch.
type Surface interface {
	// InsertAtStart makes n the first child of <body>. It reports false
	// when the document has no body.
	InsertAtStart(n *html.Node) bool
	// QueryForm returns the first <form> of the page's own content, or nil.
	QueryForm() *html.Node
	// QuerySelector returns the first element matching sel, or nil.
	QuerySelector(sel string) *html.Node
	// Location is the URL the page was served at.
	Location() *url.URL
	// ColorScheme returns the root element's color-scheme style value.
	ColorScheme() string
	// SetColorScheme sets the root element's color-scheme style value.
	SetColorScheme(v string)
}

// Document is a Surface backed by an x/net/html tree.
type Document struct {
	root     *html.Node
	location *url.URL
}

var _ Surface = (*Document)(nil)

// Parse reads an HTML document served at location.
func Parse(r io.Reader, location *url.URL) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("page: parse: %w", err)
	}
	if location == nil {
		location = &url.URL{Path: "/"}
	}
	return &Document{root: root, location: location}, nil
}

// NewDocument wraps an already parsed tree.
func NewDocument(root *html.Node, location *url.URL) *Document {
	if location == nil {
		location = &url.URL{Path: "/"}
	}
	return &Document{root: root, location: location}
}

// Root returns the document node.
func (d *Document) Root() *html.Node { return d.root }

// Location returns the URL the page was served at.
func (d *Document) Location() *url.URL { return d.location }

// Body returns the <body> element, or nil.
func (d *Document) Body() *html.Node {
	return findAtom(d.root, atom.Body)
}

// InsertAtStart makes n the first child of <body>.
func (d *Document) InsertAtStart(n *html.Node) bool {
	body := d.Body()
	if body == nil {
		return false
	}
	body.InsertBefore(n, body.FirstChild)
	return true
}

// ControlAttr marks elements the site injects into a page. Forms carrying
// it are not the page's own form.
const ControlAttr = "data-control"

// QueryForm returns the first <form> in document order that is not an
// injected control.
func (d *Document) QueryForm() *html.Node {
	for _, f := range QuerySelectorAll(d.root, "form") {
		if !HasAttr(f, ControlAttr) {
			return f
		}
	}
	return nil
}

// QuerySelector returns the first element matching sel in document order.
func (d *Document) QuerySelector(sel string) *html.Node {
	return QuerySelector(d.root, sel)
}

// ColorScheme returns the color-scheme declaration on the <html> element.
func (d *Document) ColorScheme() string {
	el := findAtom(d.root, atom.Html)
	if el == nil {
		return ""
	}
	v, _ := styleProperty(Attr(el, "style"), "color-scheme")
	return v
}

// SetColorScheme writes the color-scheme declaration on the <html> element,
// keeping any other declarations in place.
func (d *Document) SetColorScheme(v string) {
	el := findAtom(d.root, atom.Html)
	if el == nil {
		return
	}
	SetAttr(el, "style", setStyleProperty(Attr(el, "style"), "color-scheme", v))
}

// Render serialises the document.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// Element builds a detached element node with attributes given as
// name/value pairs.
func Element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

// Text builds a detached text node.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// Attr returns the value of attribute key, or "".
func Attr(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

// HasAttr reports whether n carries attribute key.
func HasAttr(n *html.Node, key string) bool {
	_, ok := lookupAttr(n, key)
	return ok
}

// SetAttr sets or replaces attribute key.
func SetAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr drops attribute key if present.
func RemoveAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		out = append(out, a)
	}
	n.Attr = out
}

// TextContent concatenates all descendant text.
func TextContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func findAtom(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findAtom(c, a); found != nil {
			return found
		}
	}
	return nil
}

// styleProperty reads one declaration from an inline style attribute.
func styleProperty(style, name string) (string, bool) {
	for _, decl := range strings.Split(style, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(k), name) {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

// setStyleProperty replaces or appends one declaration.
func setStyleProperty(style, name, value string) string {
	var decls []string
	replaced := false
	for _, decl := range strings.Split(style, ";") {
		if strings.TrimSpace(decl) == "" {
			continue
		}
		k, _, ok := strings.Cut(decl, ":")
		if ok && strings.EqualFold(strings.TrimSpace(k), name) {
			decl = name + ": " + value
			replaced = true
		}
		decls = append(decls, strings.TrimSpace(decl))
	}
	if !replaced {
		decls = append(decls, name+": "+value)
	}
	return strings.Join(decls, "; ") + ";"
}
