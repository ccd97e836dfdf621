package triple

import (
	"reflect"
	"testing"
)

func TestFuzzyMatch(t *testing.T) {
	tests := []struct {
		name  string
		term  string
		label string
		want  bool
	}{
		{
			name:  "exact match",
			term:  "seagull",
			label: "seagull",
			want:  true,
		},
		{
			name:  "case insensitive",
			term:  "Seagull",
			label: "SEAGULL",
			want:  true,
		},
		{
			name:  "term contained in label",
			term:  "flight",
			label: "First Flight",
			want:  true,
		},
		{
			name:  "label contained in term",
			term:  "His First Flight",
			label: "First Flight",
			want:  true,
		},
		{
			name:  "no overlap",
			term:  "geography",
			label: "seagull",
			want:  false,
		},
		{
			name:  "empty term",
			term:  "",
			label: "seagull",
			want:  false,
		},
		{
			name:  "whitespace-only term",
			term:  "   ",
			label: "seagull",
			want:  false,
		},
		{
			name:  "empty label",
			term:  "seagull",
			label: "",
			want:  false,
		},
		{
			name:  "non-latin script",
			term:  "சூரியன்",
			label: "சூரியன் ஒளி",
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FuzzyMatch(tt.term, tt.label); got != tt.want {
				t.Errorf("FuzzyMatch(%q, %q) = %v, want %v", tt.term, tt.label, got, tt.want)
			}
		})
	}
}

func TestScopeContains(t *testing.T) {
	scoped := NewScope("doc-1", "doc-2")
	if !scoped.Contains("doc-1") {
		t.Errorf("Contains(doc-1) = false, want true")
	}
	if scoped.Contains("doc-3") {
		t.Errorf("Contains(doc-3) = true, want false")
	}

	unscoped := Scope{}
	if !unscoped.Contains("anything") {
		t.Errorf("empty scope should contain every document")
	}
}

func TestDedupe(t *testing.T) {
	a := Triple{Subject: "seagull", Predicate: "learns", Object: "to fly", DocumentID: "d1", ChunkID: "c1"}
	b := Triple{Subject: "seagull", Predicate: "learns", Object: "to fly", DocumentID: "d1", ChunkID: "c2"}
	c := Triple{Subject: "seagull", Predicate: "fears", Object: "the sea", DocumentID: "d1", ChunkID: "c1"}

	got := Dedupe([]Triple{a, b, a, c, b})
	want := []Triple{a, b, c}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Dedupe() = %v, want %v", got, want)
	}

	if Dedupe(nil) != nil {
		t.Errorf("Dedupe(nil) should be nil")
	}
}
