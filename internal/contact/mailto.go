// Package contact turns contact-form submissions into mailto: links.
package contact

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/starford/folio/internal/page"
)

// DefaultRecipient receives contact-form mail.
const DefaultRecipient = "example@example.com"

// ErrInvalidUTF8 rejects field text that is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

const upperhex = "0123456789ABCDEF"

// EncodeURIComponent escapes s like ECMAScript's encodeURIComponent:
// everything except A-Z a-z 0-9 - _ . ! ~ * ' ( ) is percent-encoded as
// UTF-8, and a space becomes %20. Bytes of invalid UTF-8, which JavaScript
// strings cannot hold, are escaped one by one rather than rejected;
// ParseFields keeps such values from reaching it.
func EncodeURIComponent(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(upperhex[c>>4])
		sb.WriteByte(upperhex[c&15])
	}
	return sb.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

// Mailto builds mailto:<recipient>?name=value&... with every value
// encoded, field order preserved and the trailing separator kept. Names
// are written as given.
func Mailto(recipient string, fields []page.Field) string {
	var sb strings.Builder
	sb.WriteString("mailto:")
	sb.WriteString(recipient)
	sb.WriteByte('?')
	for _, f := range fields {
		sb.WriteString(f.Name)
		sb.WriteByte('=')
		sb.WriteString(EncodeURIComponent(f.Value))
		sb.WriteByte('&')
	}
	return sb.String()
}

// ParseFields decodes an application/x-www-form-urlencoded body keeping
// the order fields were sent in.
func ParseFields(body string) ([]page.Field, error) {
	var out []page.Field
	for _, pair := range strings.Split(body, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		name, err := url.QueryUnescape(k)
		if err != nil {
			return nil, fmt.Errorf("contact: decode field name %q: %w", k, err)
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			return nil, fmt.Errorf("contact: decode field %q: %w", name, err)
		}
		if !utf8.ValidString(name) || !utf8.ValidString(value) {
			return nil, fmt.Errorf("contact: field %q: %w", name, ErrInvalidUTF8)
		}
		out = append(out, page.Field{Name: name, Value: value})
	}
	return out, nil
}
