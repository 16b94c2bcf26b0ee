package portfolio

import (
	"encoding/json"
	"strconv"

	"github.com/starford/folio/internal/profile"
)

// ProfileView is the handful of GitHub user fields the home page shows.
// Missing or oddly typed fields are left empty.
type ProfileView struct {
	Login       string
	Name        string
	Bio         string
	Location    string
	AvatarURL   string
	HTMLURL     string
	PublicRepos string
	Followers   string
}

// NewProfileView picks display fields out of data. The loader never
// interprets the payload, so nothing here is assumed to be present.
func NewProfileView(data *profile.PageData) ProfileView {
	if data == nil {
		return ProfileView{}
	}
	m, ok := data.GithubData.(map[string]any)
	if !ok {
		return ProfileView{}
	}
	return ProfileView{
		Login:       field(m, "login"),
		Name:        field(m, "name"),
		Bio:         field(m, "bio"),
		Location:    field(m, "location"),
		AvatarURL:   field(m, "avatar_url"),
		HTMLURL:     field(m, "html_url"),
		PublicRepos: field(m, "public_repos"),
		Followers:   field(m, "followers"),
	}
}

func field(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// View is the data every page template receives.
type View struct {
	Title     string
	Heading   string
	Recipient string
	Profile   ProfileView
	Error     string
}
