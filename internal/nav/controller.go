package nav

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/starford/folio/internal/page"
	"github.com/starford/folio/internal/theme"
)

// SelectorID is the id of the colour-scheme <select>.
const SelectorID = "color-scheme"

// ThemeAction is where the theme control's form posts.
const ThemeAction = "/theme"

// Controller installs navigation and theme handling into pages.
type Controller struct {
	links []Link
	store theme.Store
}

// NewController creates a Controller for the given links. The slice is
// copied, so later changes by the caller do not affect built pages.
func NewController(links []Link, store theme.Store) *Controller {
	cp := make([]Link, len(links))
	copy(cp, links)
	return &Controller{links: cp, store: store}
}

// Links returns a copy of the controller's links.
func (c *Controller) Links() []Link {
	cp := make([]Link, len(c.links))
	copy(cp, c.links)
	return cp
}

// Setup is the result of installing the controller into a page.
type Setup struct {
	Nav      *html.Node
	Selector *html.Node
	// Restored is the stored scheme applied during setup, if any.
	Restored theme.Scheme
	// Dispose removes the selector's change listener.
	Dispose func()
}

// Setup builds the nav bar and the theme control into surface, registers
// the selector's change listener and restores a stored preference. A page
// without a body is left untouched. The error is only ever a failure to
// read the store; the page is fully built by then.
func (c *Controller) Setup(ctx context.Context, surface page.Surface, listeners *page.Listeners) (*Setup, error) {
	res := &Setup{Dispose: func() {}}

	nav := c.buildNav(surface.Location())
	if !surface.InsertAtStart(nav) {
		return res, nil
	}
	res.Nav = nav

	control := buildThemeControl()
	surface.InsertAtStart(control)

	sel := surface.QuerySelector("select#" + SelectorID)
	if sel == nil {
		return res, nil
	}
	res.Selector = sel
	res.Dispose = listeners.On(sel, page.EventChange, func(ev page.Event) page.Effect {
		return ChangeEffect(ev.Value)
	})

	stored, ok, err := c.store.Get(ctx)
	if err != nil {
		return res, fmt.Errorf("nav: restore scheme: %w", err)
	}
	if ok {
		surface.SetColorScheme(string(stored))
		page.SetSelectValue(sel, string(stored))
		res.Restored = stored
	}
	return res, nil
}

// ChangeEffect is the selector's change handler: apply value to the
// document and persist it under the well-known key.
func ChangeEffect(value string) page.Effect {
	return page.Effect{
		ColorScheme: value,
		Persist:     &page.Entry{Key: theme.StorageKey, Value: value},
	}
}

// Apply carries out effects against surface and the store. The document
// property is only changed once the value has been validated and stored.
func (c *Controller) Apply(ctx context.Context, surface page.Surface, effects []page.Effect) error {
	for _, eff := range effects {
		if eff.Persist != nil && eff.Persist.Key == theme.StorageKey {
			s, err := theme.Parse(eff.Persist.Value)
			if err != nil {
				return err
			}
			if err := c.store.Set(ctx, s); err != nil {
				return err
			}
		}
		if eff.ColorScheme != "" {
			s, err := theme.Parse(eff.ColorScheme)
			if err != nil {
				return err
			}
			surface.SetColorScheme(string(s))
			if sel := surface.QuerySelector("select#" + SelectorID); sel != nil {
				page.SetSelectValue(sel, string(s))
			}
		}
	}
	return nil
}

func (c *Controller) buildNav(loc *url.URL) *html.Node {
	nav := page.Element(atom.Nav)
	for _, l := range c.links {
		a := page.Element(atom.A, "href", l.Destination)
		a.AppendChild(page.Text(l.Label))
		switch {
		case isCurrent(loc, l.Destination):
			page.SetAttr(a, "aria-current", "page")
			page.SetAttr(a, "class", "current")
		case isExternal(l.Destination):
			page.SetAttr(a, "target", "_blank")
			page.SetAttr(a, "rel", "noopener")
		}
		nav.AppendChild(a)
	}
	return nav
}

// buildThemeControl renders the selector inside a form posting to
// ThemeAction, so it works without scripts once submitted.
func buildThemeControl() *html.Node {
	form := page.Element(atom.Form,
		"method", "post",
		"action", ThemeAction,
		"class", "theme-control",
		page.ControlAttr, "theme")

	label := page.Element(atom.Label, "for", SelectorID)
	label.AppendChild(page.Text("Theme"))
	form.AppendChild(label)

	sel := page.Element(atom.Select, "id", SelectorID, "name", SelectorID)
	for _, o := range theme.Options() {
		opt := page.Element(atom.Option, "value", string(o.Value))
		opt.AppendChild(page.Text(o.Label))
		sel.AppendChild(opt)
	}
	form.AppendChild(sel)

	button := page.Element(atom.Button, "type", "submit")
	button.AppendChild(page.Text("Apply"))
	form.AppendChild(button)
	return form
}

// isCurrent reports whether dest, resolved against loc, has loc's host and
// path.
func isCurrent(loc *url.URL, dest string) bool {
	if loc == nil {
		return false
	}
	u, err := url.Parse(dest)
	if err != nil {
		return false
	}
	resolved := loc.ResolveReference(u)
	return strings.EqualFold(resolved.Host, loc.Host) && resolved.Path == loc.Path
}

func isExternal(dest string) bool {
	return strings.HasPrefix(dest, "http")
}
