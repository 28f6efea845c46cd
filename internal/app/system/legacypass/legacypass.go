// internal/app/system/legacypass/legacypass.go

// Package legacypass reproduces the credential scheme of the system this
// service replaced: a generated placeholder password derived from the
// person's name, mirrored in plaintext on the staff document so an
// administrator can read it back to the new hire.
//
// This is a compatibility shim, not a credential design. The derived value
// is trivially guessable and the plaintext mirror is a standing liability;
// both are kept only because the existing dashboard and its operators
// depend on the behavior. New integrations should move to an invite-link
// flow and delete this package.
package legacypass

import "strings"

const suffix = "321"

// fallback is used when the name yields no usable characters.
const fallback = "campus"

// Generate derives the placeholder password for a display name:
// the lowercased name with whitespace removed, followed by "321".
func Generate(fullName string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(fullName)) {
		if r == ' ' || r == '\t' {
			continue
		}
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return fallback + suffix
	}
	return b.String() + suffix
}
