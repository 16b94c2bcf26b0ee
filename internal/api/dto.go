package api

import (
	"github.com/starford/folio/internal/nav"
	"github.com/starford/folio/internal/profile"
)

// ProfileResponse is the profile loader's output as served to clients.
type ProfileResponse = profile.PageData

// ThemeRequest is the request body for setting the colour scheme.
type ThemeRequest struct {
	ColorScheme string `json:"colorScheme" example:"dark" validate:"required"`
}

// ThemeResponse reports the visitor's colour scheme. Stored is false when
// the visitor never picked one and the page follows the browser.
type ThemeResponse struct {
	ColorScheme string `json:"colorScheme" example:"light dark" validate:"required"`
	Stored      bool   `json:"stored"`
}

// NavResponse lists the nav links.
type NavResponse struct {
	Links []nav.Link `json:"links" validate:"required"`
}
