// Package navigation provides helpers for safe URL navigation and redirects.
package navigation

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/httpnav"
)

// BackURLOptions configures the behavior of SafeBackURL.
type BackURLOptions struct {
	// AllowedPrefix is the required URL prefix (e.g., "/projects").
	// If empty, any same-site path is allowed.
	AllowedPrefix string

	// ExcludedSubpaths are subpath patterns to reject (e.g., "/edit", "/new").
	// These prevent redirect loops back to action pages.
	ExcludedSubpaths []string

	// Fallback is the default URL if no valid return URL is found.
	Fallback string
}

// ProjectsBackURL is the standard option set for project pages.
var ProjectsBackURL = BackURLOptions{
	AllowedPrefix:    "/projects",
	ExcludedSubpaths: []string{"/edit", "/new", "/delete"},
	Fallback:         "/projects",
}

// RequestsBackURL is the option set for the resolve action. Accept/reject
// forms appear on both the requests hub and project pages, so any same-site
// path is allowed and only the fallback is pinned.
var RequestsBackURL = BackURLOptions{
	Fallback: "/requests",
}

// SafeBackURL resolves the request's return URL and rejects anything that is
// not a same-site path matching the given options. Off-site and protocol-
// relative URLs are never returned.
func SafeBackURL(r *http.Request, opts BackURLOptions) string {
	ret := httpnav.ResolveBackURL(r, opts.Fallback)

	if !strings.HasPrefix(ret, "/") || strings.HasPrefix(ret, "//") {
		return opts.Fallback
	}
	if opts.AllowedPrefix != "" && !strings.HasPrefix(ret, opts.AllowedPrefix) {
		return opts.Fallback
	}
	for _, sub := range opts.ExcludedSubpaths {
		if strings.Contains(ret, sub) {
			return opts.Fallback
		}
	}
	return ret
}
