// internal/app/system/permset/scope.go
package permset

// Assignment scopes. An assignment is either organization-wide or targets
// a named subgroup (committee/wing) of a uniclub. Each scope has its own
// fixed key universe; a key valid in one scope is silently dropped when an
// intent is filtered for the other.
const (
	ScopeOrganization = "organization"
	ScopeSubgroup     = "subgroup"
)

var organizationKeys = New(
	"dashboard",
	"announcement",
	"student",
	"employee",
	"payment",
	"complaint",
	"business",
	"deal",
)

var subgroupKeys = New(
	"dashboard",
	"subgroup-announcement",
	"member",
	"event",
)

// ValidKeys returns the key universe for a scope. Unknown scopes have an
// empty universe.
func ValidKeys(scope string) Set {
	switch scope {
	case ScopeOrganization:
		return organizationKeys.Clone()
	case ScopeSubgroup:
		return subgroupKeys.Clone()
	default:
		return New()
	}
}

// FilterScope drops every key of s that is not valid in the given scope.
// Applied at the request boundary before an intent reaches the assigner,
// so a scope switch cannot smuggle keys into the wrong universe.
func FilterScope(s Set, scope string) Set {
	valid := ValidKeys(scope)
	out := make(Set, len(s))
	for k := range s {
		if valid.Has(k) {
			out[k] = struct{}{}
		}
	}
	return out
}
