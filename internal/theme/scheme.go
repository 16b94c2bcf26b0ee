// Package theme holds the colour-scheme preference and its store.
package theme

import (
	"fmt"
	"strings"

	"github.com/starford/folio/internal/apperr"
)

// Scheme is a colour-scheme preference. Its value is what gets applied to
// the root element's color-scheme property and what gets stored.
type Scheme string

const (
	// Automatic follows the user agent; stored as the CSS value "light dark".
	Automatic Scheme = "light dark"
	Dark      Scheme = "dark"
	Light     Scheme = "light"
)

// StorageKey is the local-storage key holding the preference.
const StorageKey = "color-scheme"

// Option is one entry of the scheme selector.
type Option struct {
	Value Scheme
	Label string
}

// Options returns the selector entries in display order.
func Options() []Option {
	return []Option{
		{Value: Automatic, Label: "Automatic"},
		{Value: Dark, Label: "Dark"},
		{Value: Light, Label: "Light"},
	}
}

// Parse maps a stored or submitted value to a Scheme. "automatic" is
// accepted as an alias of the stored "light dark".
func Parse(s string) (Scheme, error) {
	switch v := Scheme(strings.TrimSpace(s)); v {
	case Automatic, Dark, Light:
		return v, nil
	case "automatic":
		return Automatic, nil
	}
	return "", fmt.Errorf("%w: %q", apperr.ErrInvalidScheme, s)
}

// Label returns the human-readable name of s.
func (s Scheme) Label() string {
	for _, o := range Options() {
		if o.Value == s {
			return o.Label
		}
	}
	return string(s)
}
