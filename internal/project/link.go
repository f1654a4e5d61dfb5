// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package project

import (
	"net/url"
	"strings"

	"github.com/pdiddy/reference-search/internal/table"
)

// LinkLabel is the display text used for every generated link.
const LinkLabel = "Link"

// Link is a label/URL pair derived from a raw URL cell. The zero Link is
// the empty link. Opening the URL in a new tab is left to the renderer.
type Link struct {
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	URL   string `json:"url,omitempty" yaml:"url,omitempty"`
}

// IsEmpty reports whether the link has no target.
func (l Link) IsEmpty() bool { return l.URL == "" }

// String returns the raw URL, or "" for the empty link.
func (l Link) String() string { return l.URL }

// ToLink converts a raw cell into a Link. Missing values and values that are
// not absolute http(s) URLs yield the empty Link.
func ToLink(v table.Value) Link {
	if v.IsNull() {
		return Link{}
	}
	raw := strings.TrimSpace(v.String())
	lower := strings.ToLower(raw)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return Link{}
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return Link{}
	}
	return Link{Label: LinkLabel, URL: raw}
}
