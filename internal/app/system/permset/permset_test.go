package permset

import (
	"reflect"
	"testing"
)

func TestNormalize_Representations(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  []string
	}{
		{"key slice", []string{"dashboard", "student"}, []string{"dashboard", "student"}},
		{"key slice with dupes", []string{"dashboard", "dashboard", "student"}, []string{"dashboard", "student"}},
		{"comma string", "dashboard,student", []string{"dashboard", "student"}},
		{"comma string spaced", " dashboard , student ", []string{"dashboard", "student"}},
		{"bool map", map[string]bool{"dashboard": true, "student": true, "payment": false}, []string{"dashboard", "student"}},
		{"any slice", []any{"dashboard", "student"}, []string{"dashboard", "student"}},
		{"any map", map[string]any{"dashboard": true, "payment": false}, []string{"dashboard"}},
		{"mixed case keys", []string{"Dashboard", "STUDENT"}, []string{"dashboard", "student"}},
		{"empty string", "", []string{}},
		{"nil", nil, []string{}},
		{"unsupported type", 42, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input).Keys()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize(%v).Keys() = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_EquivalentRepresentations(t *testing.T) {
	asSlice := Normalize([]string{"student", "dashboard"})
	asString := Normalize("dashboard,student")
	asMap := Normalize(map[string]bool{"dashboard": true, "student": true})

	if !asSlice.Equal(asString) || !asString.Equal(asMap) {
		t.Errorf("representations differ: slice=%v string=%v map=%v",
			asSlice.Keys(), asString.Keys(), asMap.Keys())
	}
}

func TestUnion_Monotonic(t *testing.T) {
	prior := New("dashboard")
	incoming := New("student")

	merged := prior.Union(incoming)
	for _, k := range prior.Keys() {
		if !merged.Has(k) {
			t.Errorf("union dropped prior key %q", k)
		}
	}
	for _, k := range incoming.Keys() {
		if !merged.Has(k) {
			t.Errorf("union dropped incoming key %q", k)
		}
	}
}

func TestUnion_OrderIndependent(t *testing.T) {
	p := New("dashboard")
	a := New("student", "payment")
	b := New("announcement", "student")

	left := p.Union(a).Union(b)
	right := p.Union(a.Union(b))
	flat := p.Union(a, b)

	if !left.Equal(right) || !right.Equal(flat) {
		t.Errorf("union not associative: %v vs %v vs %v",
			left.Keys(), right.Keys(), flat.Keys())
	}
}

func TestUnion_DoesNotMutateReceiver(t *testing.T) {
	p := New("dashboard")
	_ = p.Union(New("student"))
	if p.Len() != 1 || !p.Has("dashboard") {
		t.Errorf("Union mutated receiver: %v", p.Keys())
	}
}

func TestKeys_EmptySetIsNonNil(t *testing.T) {
	got := New().Keys()
	if got == nil {
		t.Fatal("Keys() of empty set must be non-nil")
	}
	if len(got) != 0 {
		t.Errorf("expected empty slice, got %v", got)
	}
}

func TestFilterScope(t *testing.T) {
	tests := []struct {
		name  string
		set   Set
		scope string
		want  []string
	}{
		{
			name:  "org keys survive org scope",
			set:   New("dashboard", "student", "payment"),
			scope: ScopeOrganization,
			want:  []string{"dashboard", "payment", "student"},
		},
		{
			name:  "org-only keys dropped in subgroup scope",
			set:   New("dashboard", "student", "payment"),
			scope: ScopeSubgroup,
			want:  []string{"dashboard"},
		},
		{
			name:  "subgroup keys dropped in org scope",
			set:   New("dashboard", "subgroup-announcement", "event"),
			scope: ScopeOrganization,
			want:  []string{"dashboard"},
		},
		{
			name:  "unknown scope drops everything",
			set:   New("dashboard"),
			scope: "bogus",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterScope(tt.set, tt.scope).Keys()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FilterScope(%v, %q) = %v, want %v", tt.set.Keys(), tt.scope, got, tt.want)
			}
		})
	}
}
