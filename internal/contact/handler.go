package contact

import (
	"github.com/starford/folio/internal/page"
)

// Handler intercepts contact-form submissions.
type Handler struct {
	recipient string
}

// NewHandler creates a Handler sending to recipient.
func NewHandler(recipient string) *Handler {
	return &Handler{recipient: recipient}
}

// Recipient returns the address mail is composed to.
func (h *Handler) Recipient() string { return h.recipient }

// Attach registers the submit listener on the page's form. Without a form
// nothing is registered and the returned disposer does nothing.
func (h *Handler) Attach(surface page.Surface, listeners *page.Listeners) (dispose func()) {
	form := surface.QueryForm()
	if form == nil {
		return func() {}
	}
	return listeners.On(form, page.EventSubmit, func(ev page.Event) page.Effect {
		return h.SubmitEffect(ev.Fields)
	})
}

// SubmitEffect suppresses the default submission and navigates to the
// mailto: link for fields.
func (h *Handler) SubmitEffect(fields []page.Field) page.Effect {
	return page.Effect{
		PreventDefault: true,
		Navigate:       Mailto(h.recipient, fields),
	}
}
