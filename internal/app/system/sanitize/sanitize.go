// internal/app/system/sanitize/sanitize.go

// Package sanitize cleans operator-supplied rich text before it is
// stored. Deal and business descriptions come straight from a dashboard
// editor and are later rendered in client apps.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	rich  = bluemonday.UGCPolicy()
	plain = bluemonday.StrictPolicy()
)

// HTML keeps common formatting markup and strips scripts, event
// handlers, and javascript: URLs.
func HTML(s string) string {
	return rich.Sanitize(s)
}

// Text strips all markup, leaving trimmed plain text. Used for fields
// that must never contain HTML (names, designations, addresses).
func Text(s string) string {
	return strings.TrimSpace(plain.Sanitize(s))
}
