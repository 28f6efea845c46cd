// internal/app/system/normalize/normalize.go

// Package normalize provides canonical forms for user-supplied identity
// fields. Every comparison and every stored value goes through these
// helpers so that "User@Example.COM " and "user@example.com" are the same
// person everywhere in the system.
package normalize

import "strings"

// Email lowercases and trims an email address. The empty string stays empty.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Status lowercases and trims a status value ("active", "disabled", ...).
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Kind lowercases and trims an organization kind ("hostel", "uniclub").
func Kind(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Phone strips spaces and common separators from a phone number.
func Phone(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch r {
		case ' ', '-', '(', ')', '.':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ID trims an identifier. The sentinel "all" (any case) becomes empty so
// callers can treat it as "no filter".
func ID(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return ""
	}
	return s
}
