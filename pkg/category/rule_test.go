package category

import (
	"slices"
	"testing"
)

func TestNormalizeKeywords(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, []string{}},
		{"trims", []string{"  flight ", "hotel"}, []string{"flight", "hotel"}},
		{"drops blanks", []string{"", "  ", "\t", "trip"}, []string{"trip"}},
		{"dedupes keeping first casing", []string{"NYC", "nyc", "Nyc ", "trip"}, []string{"NYC", "trip"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeKeywords(tt.in)
			if !slices.Equal(got, tt.want) {
				t.Errorf("NormalizeKeywords(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseMatchMode(t *testing.T) {
	tests := map[string]MatchMode{
		"":      MatchAny,
		"any":   MatchAny,
		"ALL":   MatchAll,
		" all ": MatchAll,
		"some":  MatchAny,
	}
	for in, want := range tests {
		if got := ParseMatchMode(in); got != want {
			t.Errorf("ParseMatchMode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewRulesOrdering(t *testing.T) {
	input := []Rule{
		{ID: "h", Label: "Holidays"},
		{ID: "b", Label: "birthdays"},
		{ID: "f", Label: "Family"},
		{ID: "w", Label: "Work"},
	}

	tests := []struct {
		name     string
		priority []string
		want     []string
	}{
		{"alphabetical by label", nil, []string{"b", "f", "h", "w"}},
		{"explicit priority first", []string{"w", "h"}, []string{"w", "h", "b", "f"}},
		{"unknown and duplicate ids ignored", []string{"x", "f", "f", ""}, []string{"f", "b", "h", "w"}},
		{"full priority", []string{"h", "w", "f", "b"}, []string{"h", "w", "f", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewRules(input, tt.priority).IDs()
			if !slices.Equal(got, tt.want) {
				t.Errorf("NewRules order = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewRulesDoesNotMutateInput(t *testing.T) {
	input := []Rule{
		{ID: "z", Label: "Zed", Keywords: []string{" a "}},
		{ID: "a", Label: "Alpha"},
	}
	_ = NewRules(input, nil)
	if input[0].ID != "z" || input[0].Keywords[0] != " a " {
		t.Errorf("input mutated: %+v", input)
	}
}

func TestRulesIndex(t *testing.T) {
	rules := NewRules([]Rule{
		{ID: "b", Label: "B"},
		{ID: "a", Label: "A"},
	}, nil)

	if got := rules.Index("a"); got != 0 {
		t.Errorf("Index(a) = %d, want 0", got)
	}
	if got := rules.Index("b"); got != 1 {
		t.Errorf("Index(b) = %d, want 1", got)
	}
	if got := rules.Index(UncategorizedID); got != 2 {
		t.Errorf("Index(uncategorized) = %d, want 2", got)
	}
	m := rules.IndexMap()
	if m["a"] != 0 || m["b"] != 1 {
		t.Errorf("IndexMap = %v", m)
	}
	if _, ok := rules.Lookup("missing"); ok {
		t.Error("Lookup(missing) should fail")
	}
}
