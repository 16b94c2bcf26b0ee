// Package portfolio renders the site's pages and carries out the actions
// visitors take on them.
package portfolio

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/contact"
	"github.com/starford/folio/internal/nav"
	"github.com/starford/folio/internal/page"
	"github.com/starford/folio/internal/profile"
	"github.com/starford/folio/internal/sse"
	"github.com/starford/folio/internal/storage"
	"github.com/starford/folio/internal/theme"
	"github.com/starford/folio/internal/visitor"
)

// ProfileLoader fetches the profile shown on the home page.
type ProfileLoader interface {
	Load(ctx context.Context) (*profile.PageData, error)
}

// blankPage is the document theme changes are dispatched against when no
// rendered page is needed.
const blankPage = `<!DOCTYPE html><html><head></head><body></body></html>`

// Service coordinates templates, the nav controller, the contact handler
// and preference storage.
type Service struct {
	loader    ProfileLoader
	templates *Templates
	links     []nav.Link
	contact   *contact.Handler
	backend   storage.Backend
	broker    *sse.Broker
	title     string
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLinks sets the nav links. The slice is copied.
func WithLinks(links []nav.Link) Option {
	return func(s *Service) {
		s.links = append([]nav.Link(nil), links...)
	}
}

// WithRecipient sets the contact address.
func WithRecipient(addr string) Option {
	return func(s *Service) {
		s.contact = contact.NewHandler(addr)
	}
}

// WithBackend stores preferences server-side, keyed by visitor. Without it
// preferences live in the visitor's cookies.
func WithBackend(b storage.Backend) Option {
	return func(s *Service) {
		s.backend = b
	}
}

// WithBroker publishes theme changes to the visitor's open pages.
func WithBroker(b *sse.Broker) Option {
	return func(s *Service) {
		s.broker = b
	}
}

// WithTitle sets the site title.
func WithTitle(title string) Option {
	return func(s *Service) {
		s.title = title
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService creates a Service.
func NewService(loader ProfileLoader, templates *Templates, opts ...Option) *Service {
	s := &Service{
		loader:    loader,
		templates: templates,
		links:     nav.DefaultLinks(),
		contact:   contact.NewHandler(contact.DefaultRecipient),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Links returns a copy of the nav links.
func (s *Service) Links() []nav.Link {
	return append([]nav.Link(nil), s.links...)
}

// Contact returns the contact handler.
func (s *Service) Contact() *contact.Handler { return s.contact }

// Profile loads the GitHub profile.
func (s *Service) Profile(ctx context.Context) (*profile.PageData, error) {
	return s.loader.Load(ctx)
}

// Store returns the preference store for the requesting visitor.
func (s *Service) Store(w http.ResponseWriter, r *http.Request) theme.Store {
	if s.backend == nil {
		return theme.NewStore(storage.NewCookie(w, r))
	}
	return theme.NewStore(storage.ForVisitor(s.backend, visitor.FromRequest(r)))
}

// CurrentTheme returns the visitor's stored scheme.
func (s *Service) CurrentTheme(w http.ResponseWriter, r *http.Request) (theme.Scheme, bool, error) {
	return s.Store(w, r).Get(r.Context())
}

// Page is a rendered document with the controller and contact handler
// installed into it.
type Page struct {
	Doc        *page.Document
	Listeners  *page.Listeners
	Controller *nav.Controller
	Setup      *nav.Setup

	disposeContact func()
}

// Close removes every listener the page registered.
func (p *Page) Close() {
	p.Setup.Dispose()
	p.disposeContact()
}

// Bytes renders the document.
func (p *Page) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.Doc.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderPage executes template name with view and installs the nav
// controller and contact handler, as the browser-side scripts would on
// load. A preference store failure is logged; the page is still returned.
func (s *Service) RenderPage(w http.ResponseWriter, r *http.Request, name string, view View) (*Page, error) {
	view.Title = s.title
	view.Recipient = s.contact.Recipient()

	var buf bytes.Buffer
	if err := s.templates.Execute(&buf, name, view); err != nil {
		return nil, err
	}
	return s.install(w, r, &buf)
}

func (s *Service) install(w http.ResponseWriter, r *http.Request, src *bytes.Buffer) (*Page, error) {
	doc, err := page.Parse(src, requestURL(r))
	if err != nil {
		return nil, fmt.Errorf("portfolio: parse page: %w", err)
	}

	p := &Page{
		Doc:        doc,
		Listeners:  &page.Listeners{},
		Controller: nav.NewController(s.links, s.Store(w, r)),
	}
	setup, err := p.Controller.Setup(r.Context(), doc, p.Listeners)
	if err != nil {
		s.logger.Warn("restore colour scheme failed",
			slog.String("visitor", visitor.FromRequest(r)),
			slog.String("error", err.Error()))
	}
	p.Setup = setup
	p.disposeContact = s.contact.Attach(doc, p.Listeners)
	return p, nil
}

// ChangeTheme performs a selector change to value on the visitor's behalf:
// the change is dispatched on a page's selector, its effects are applied
// and persisted, and the visitor's other pages are notified.
func (s *Service) ChangeTheme(w http.ResponseWriter, r *http.Request, value string) (theme.Scheme, error) {
	scheme, err := theme.Parse(value)
	if err != nil {
		return "", err
	}

	p, err := s.install(w, r, bytes.NewBufferString(blankPage))
	if err != nil {
		return "", err
	}
	defer p.Close()

	if p.Setup.Selector == nil {
		return "", fmt.Errorf("portfolio: theme selector missing: %w", apperr.ErrNotFound)
	}
	effects := p.Listeners.Dispatch(page.Event{
		Type:   page.EventChange,
		Target: p.Setup.Selector,
		Value:  string(scheme),
	})
	if err := p.Controller.Apply(r.Context(), p.Doc, effects); err != nil {
		return "", fmt.Errorf("portfolio: apply scheme: %w", err)
	}

	if s.broker != nil {
		s.broker.PublishThemeChange(visitor.FromRequest(r), string(scheme))
	}
	s.logger.Debug("colour scheme changed",
		slog.String("visitor", visitor.FromRequest(r)),
		slog.String("scheme", string(scheme)))
	return scheme, nil
}

// SubmitContact submits fields through the contact page's form and returns
// the URL the submit handler navigates to.
func (s *Service) SubmitContact(w http.ResponseWriter, r *http.Request, fields []page.Field) (string, error) {
	p, err := s.RenderPage(w, r, PageContact, View{Heading: "Contact"})
	if err != nil {
		return "", err
	}
	defer p.Close()

	form := p.Doc.QueryForm()
	if form == nil {
		return "", fmt.Errorf("portfolio: contact form missing: %w", apperr.ErrNotFound)
	}
	for _, eff := range p.Listeners.Dispatch(page.Event{Type: page.EventSubmit, Target: form, Fields: fields}) {
		if eff.PreventDefault && eff.Navigate != "" {
			return eff.Navigate, nil
		}
	}
	return "", fmt.Errorf("portfolio: submit not handled: %w", apperr.ErrNotFound)
}

// requestURL reconstructs the absolute URL the visitor requested.
func requestURL(r *http.Request) *url.URL {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}
	return &url.URL{
		Scheme:   scheme,
		Host:     r.Host,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
	}
}
