package nav

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/starford/folio/internal/page"
	"github.com/starford/folio/internal/theme"
)

func testDoc(t *testing.T, location string) *page.Document {
	t.Helper()
	loc, err := url.Parse(location)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := page.Parse(strings.NewReader(`<html><body><main>content</main></body></html>`), loc)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

var testLinks = []Link{
	{Destination: "/", Label: "Home"},
	{Destination: "/contact", Label: "Contact"},
	{Destination: "https://example.com/contact", Label: "Same page, absolute"},
	{Destination: "https://github.com/someone", Label: "GitHub"},
	{Destination: "http://blog.example.org/", Label: "Blog"},
}

func TestSetup_DOMOrder(t *testing.T) {
	doc := testDoc(t, "https://example.com/contact")
	var ls page.Listeners
	res, err := NewController(testLinks, theme.NewMemoryStore()).Setup(context.Background(), doc, &ls)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	body := doc.Body()
	first := body.FirstChild
	if first == nil || page.Attr(first, "class") != "theme-control" {
		t.Fatalf("first body child = %v, want theme control", first)
	}
	if first.NextSibling != res.Nav || res.Nav.Data != "nav" {
		t.Fatalf("second body child is not the nav")
	}
	if res.Nav.NextSibling == nil || res.Nav.NextSibling.Data != "main" {
		t.Fatalf("page content no longer follows the nav")
	}
}

func TestSetup_LinkMarkers(t *testing.T) {
	doc := testDoc(t, "https://example.com/contact")
	var ls page.Listeners
	res, _ := NewController(testLinks, theme.NewMemoryStore()).Setup(context.Background(), doc, &ls)

	var anchors []*html.Node
	for a := res.Nav.FirstChild; a != nil; a = a.NextSibling {
		anchors = append(anchors, a)
	}
	if len(anchors) != len(testLinks) {
		t.Fatalf("anchors = %d, want %d", len(anchors), len(testLinks))
	}

	type want struct {
		current, blank bool
	}
	wants := []want{
		{false, false}, // "/" is another path
		{true, false},  // relative match
		{true, false},  // absolute match wins over external
		{false, true},
		{false, true},
	}
	for i, a := range anchors {
		if page.Attr(a, "href") != testLinks[i].Destination {
			t.Errorf("anchor %d href = %q", i, page.Attr(a, "href"))
		}
		if page.TextContent(a) != testLinks[i].Label {
			t.Errorf("anchor %d label = %q", i, page.TextContent(a))
		}
		gotCurrent := page.Attr(a, "aria-current") == "page"
		gotBlank := page.Attr(a, "target") == "_blank"
		if gotCurrent != wants[i].current || gotBlank != wants[i].blank {
			t.Errorf("anchor %d (%s): current=%v blank=%v, want %+v",
				i, testLinks[i].Destination, gotCurrent, gotBlank, wants[i])
		}
	}
}

func TestSetup_ThemeControlIsForm(t *testing.T) {
	doc := testDoc(t, "https://example.com/")
	var ls page.Listeners
	res, err := NewController(testLinks, theme.NewMemoryStore()).Setup(context.Background(), doc, &ls)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	form := res.Selector.Parent
	if form == nil || form.Data != "form" {
		t.Fatalf("selector parent = %v, want form", form)
	}
	if page.Attr(form, "method") != "post" || page.Attr(form, "action") != ThemeAction {
		t.Errorf("form method=%q action=%q", page.Attr(form, "method"), page.Attr(form, "action"))
	}
	if page.Attr(res.Selector, "name") != SelectorID {
		t.Errorf("selector name = %q", page.Attr(res.Selector, "name"))
	}
	if page.QuerySelector(form, `button[type=submit]`) == nil {
		t.Error("theme form has no submit button")
	}
	if doc.QueryForm() == form {
		t.Error("QueryForm returned the theme control")
	}
}

func TestSetup_SelectorOptions(t *testing.T) {
	doc := testDoc(t, "https://example.com/")
	var ls page.Listeners
	res, _ := NewController(DefaultLinks(), theme.NewMemoryStore()).Setup(context.Background(), doc, &ls)

	if res.Selector == nil {
		t.Fatal("no selector")
	}
	var values []string
	for o := res.Selector.FirstChild; o != nil; o = o.NextSibling {
		values = append(values, page.Attr(o, "value"))
	}
	if strings.Join(values, ",") != "light dark,dark,light" {
		t.Errorf("option values = %q", values)
	}
	if doc.ColorScheme() != "" {
		t.Errorf("ColorScheme without stored pref = %q", doc.ColorScheme())
	}
	if res.Restored != "" {
		t.Errorf("Restored = %q", res.Restored)
	}
	if ls.Len() != 1 {
		t.Errorf("listeners = %d, want 1", ls.Len())
	}
}

func TestSetup_RestoresStoredPreference(t *testing.T) {
	ctx := context.Background()
	store := theme.NewMemoryStore()
	_ = store.Set(ctx, theme.Dark)

	doc := testDoc(t, "https://example.com/")
	var ls page.Listeners
	res, err := NewController(DefaultLinks(), store).Setup(ctx, doc, &ls)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if doc.ColorScheme() != "dark" {
		t.Errorf("document color-scheme = %q, want dark", doc.ColorScheme())
	}
	if page.SelectValue(res.Selector) != "dark" {
		t.Errorf("selector value = %q, want dark", page.SelectValue(res.Selector))
	}
	if res.Restored != theme.Dark {
		t.Errorf("Restored = %q", res.Restored)
	}
}

func TestChange_AppliesAndPersists(t *testing.T) {
	ctx := context.Background()
	store := theme.NewMemoryStore()
	doc := testDoc(t, "https://example.com/")
	var ls page.Listeners
	ctrl := NewController(DefaultLinks(), store)
	res, _ := ctrl.Setup(ctx, doc, &ls)

	effects := ls.Dispatch(page.Event{Type: page.EventChange, Target: res.Selector, Value: "light"})
	if len(effects) != 1 {
		t.Fatalf("effects = %+v", effects)
	}
	if err := ctrl.Apply(ctx, doc, effects); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if doc.ColorScheme() != "light" {
		t.Errorf("document color-scheme = %q", doc.ColorScheme())
	}
	if got, ok, _ := store.Get(ctx); !ok || got != theme.Light {
		t.Errorf("stored = %q, %v", got, ok)
	}
	if page.SelectValue(res.Selector) != "light" {
		t.Errorf("selector value = %q", page.SelectValue(res.Selector))
	}
}

func TestChangeEffect(t *testing.T) {
	eff := ChangeEffect("light dark")
	if eff.ColorScheme != "light dark" || eff.Persist == nil ||
		eff.Persist.Key != "color-scheme" || eff.Persist.Value != "light dark" {
		t.Errorf("ChangeEffect = %+v", eff)
	}
	if eff.Navigate != "" || eff.PreventDefault {
		t.Errorf("unexpected navigation in %+v", eff)
	}
}

func TestApply_InvalidValueLeavesStateAlone(t *testing.T) {
	ctx := context.Background()
	store := theme.NewMemoryStore()
	_ = store.Set(ctx, theme.Dark)
	doc := testDoc(t, "https://example.com/")
	var ls page.Listeners
	ctrl := NewController(DefaultLinks(), store)
	_, _ = ctrl.Setup(ctx, doc, &ls)

	if err := ctrl.Apply(ctx, doc, []page.Effect{ChangeEffect("sepia")}); err == nil {
		t.Fatal("Apply(sepia) should fail")
	}
	if doc.ColorScheme() != "dark" {
		t.Errorf("document changed to %q", doc.ColorScheme())
	}
	if got, _, _ := store.Get(ctx); got != theme.Dark {
		t.Errorf("store changed to %q", got)
	}
}

func TestDispose(t *testing.T) {
	doc := testDoc(t, "https://example.com/")
	var ls page.Listeners
	res, _ := NewController(DefaultLinks(), theme.NewMemoryStore()).Setup(context.Background(), doc, &ls)
	res.Dispose()
	if ls.Len() != 0 {
		t.Errorf("listeners after dispose = %d", ls.Len())
	}
}

// bodylessSurface is a page without a <body>.
type bodylessSurface struct {
	scheme string
}

func (s *bodylessSurface) InsertAtStart(*html.Node) bool   { return false }
func (s *bodylessSurface) QueryForm() *html.Node           { return nil }
func (s *bodylessSurface) QuerySelector(string) *html.Node { return nil }
func (s *bodylessSurface) Location() *url.URL              { return &url.URL{Path: "/"} }
func (s *bodylessSurface) ColorScheme() string             { return s.scheme }
func (s *bodylessSurface) SetColorScheme(v string)         { s.scheme = v }

func TestSetup_NoBodyIsSilent(t *testing.T) {
	ctx := context.Background()
	store := theme.NewMemoryStore()
	_ = store.Set(ctx, theme.Dark)
	s := &bodylessSurface{}
	var ls page.Listeners

	res, err := NewController(DefaultLinks(), store).Setup(ctx, s, &ls)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if res.Nav != nil || res.Selector != nil {
		t.Error("nothing should be built without a body")
	}
	if s.scheme != "" {
		t.Errorf("scheme restored without a selector: %q", s.scheme)
	}
	if ls.Len() != 0 {
		t.Errorf("listeners = %d", ls.Len())
	}
	res.Dispose()
}

type failingStore struct{}

func (failingStore) Get(context.Context) (theme.Scheme, bool, error) {
	return "", false, errors.New("disk on fire")
}
func (failingStore) Set(context.Context, theme.Scheme) error { return errors.New("disk on fire") }

func TestSetup_StoreErrorStillBuildsPage(t *testing.T) {
	doc := testDoc(t, "https://example.com/")
	var ls page.Listeners
	res, err := NewController(DefaultLinks(), failingStore{}).Setup(context.Background(), doc, &ls)
	if err == nil {
		t.Fatal("expected store error")
	}
	if res.Nav == nil || res.Selector == nil {
		t.Error("page should be built before the restore fails")
	}
}

func TestNewController_CopiesLinks(t *testing.T) {
	links := []Link{{Destination: "/", Label: "Home"}}
	c := NewController(links, theme.NewMemoryStore())
	links[0].Label = "Changed"
	if c.Links()[0].Label != "Home" {
		t.Error("controller shares the caller's slice")
	}
}
