// Package nav builds the site navigation bar and the colour-scheme
// selector into a page, and restores the visitor's stored scheme.
package nav

// Link is one entry of the navigation bar.
type Link struct {
	Destination string `yaml:"destination" json:"destination"`
	Label       string `yaml:"label" json:"label"`
}

// DefaultLinks returns the site's navigation links in display order.
func DefaultLinks() []Link {
	return []Link{
		{Destination: "/", Label: "Home"},
		{Destination: "/contact", Label: "Contact"},
		{Destination: "https://github.com/casillasenrique", Label: "GitHub"},
	}
}
