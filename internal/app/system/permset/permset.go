// internal/app/system/permset/permset.go

// Package permset is the single boundary where permission representations
// are made canonical. The dashboard historically sent permission sets as an
// ordered key slice, a comma-separated string, or a key→bool map; all three
// reduce to a Set here and only a Set travels further into the system.
package permset

import (
	"sort"
	"strings"
)

// Set is a deduplicated collection of capability keys. Order is irrelevant;
// Keys returns a stable sorted slice for storage and comparison.
type Set map[string]struct{}

// New builds a Set from the given keys, trimming, lowercasing, and
// dropping empties.
func New(keys ...string) Set {
	s := make(Set, len(keys))
	for _, k := range keys {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		s[k] = struct{}{}
	}
	return s
}

// FromKeys builds a Set from a slice of keys.
func FromKeys(keys []string) Set {
	return New(keys...)
}

// Normalize accepts the three legacy permission representations and reduces
// each to a Set:
//
//   - []string or []any of strings: ordered key sequence
//   - string: comma-separated keys
//   - map[string]bool or map[string]any: key→enabled mapping
//
// Anything else yields an empty Set.
func Normalize(v any) Set {
	switch t := v.(type) {
	case nil:
		return New()
	case Set:
		return t.Clone()
	case []string:
		return New(t...)
	case []any:
		keys := make([]string, 0, len(t))
		for _, e := range t {
			if k, ok := e.(string); ok {
				keys = append(keys, k)
			}
		}
		return New(keys...)
	case string:
		return New(strings.Split(t, ",")...)
	case map[string]bool:
		keys := make([]string, 0, len(t))
		for k, on := range t {
			if on {
				keys = append(keys, k)
			}
		}
		return New(keys...)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k, e := range t {
			if on, ok := e.(bool); ok && on {
				keys = append(keys, k)
			}
		}
		return New(keys...)
	default:
		return New()
	}
}

// Has reports whether key is in the set.
func (s Set) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Len returns the number of keys.
func (s Set) Len() int { return len(s) }

// Clone returns an independent copy.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// Keys returns the keys in sorted order. Empty sets return a non-nil,
// zero-length slice so the stored bson field is [] rather than null.
func (s Set) Keys() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Union returns a new Set containing every key of s and the others.
// Union is associative, commutative, and idempotent, which makes the
// permission merge performed on reassignment monotonic: keys are never
// dropped by merging, only added.
func (s Set) Union(others ...Set) Set {
	out := s.Clone()
	for _, o := range others {
		for k := range o {
			out[k] = struct{}{}
		}
	}
	return out
}

// Equal reports whether two sets contain exactly the same keys.
func (s Set) Equal(o Set) bool {
	if len(s) != len(o) {
		return false
	}
	for k := range s {
		if _, ok := o[k]; !ok {
			return false
		}
	}
	return true
}
