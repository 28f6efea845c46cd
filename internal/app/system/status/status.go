// internal/app/system/status/status.go

// Package status defines the record statuses shared by organizations,
// businesses, and subgroups.
package status

const (
	Active   = "active"
	Disabled = "disabled"
)

// IsValid reports whether s is a known status value.
func IsValid(s string) bool {
	return s == Active || s == Disabled
}
