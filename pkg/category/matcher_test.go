package category

import "testing"

func sampleRules() Rules {
	return NewRules([]Rule{
		{ID: "holidays", Label: "Holidays", Color: "#0ea5e9", Keywords: []string{"flight", "trip"}},
		{ID: "birthdays", Label: "Birthdays", Color: "#ec4899", Keywords: []string{"birthday"}},
		{ID: "family", Label: "Family", Color: "#f97316", Keywords: []string{"family"}},
	}, nil)
}

func TestClassify(t *testing.T) {
	rules := sampleRules()

	tests := []struct {
		name  string
		title string
		opts  Options
		want  Result
	}{
		{"first rule in order wins", "Family trip to NYC", Options{}, Result{"family", "#f97316"}},
		{"single match", "Mom's birthday", Options{}, Result{"birthdays", "#ec4899"}},
		{"case insensitive", "FLIGHT to Lisbon", Options{}, Result{"holidays", "#0ea5e9"}},
		{"no match", "Dentist", Options{}, Uncategorized},
		{"empty title", "", Options{}, Uncategorized},
		{
			"description ignored by default",
			"Dinner",
			Options{Description: "family dinner"},
			Uncategorized,
		},
		{
			"description searched when enabled",
			"Dinner",
			Options{Description: "family dinner", MatchDescription: true},
			Result{"family", "#f97316"},
		},
		{
			"title match beats description",
			"Birthday party",
			Options{Description: "family", MatchDescription: true},
			Result{"birthdays", "#ec4899"},
		},
		{
			"blank description",
			"Dinner",
			Options{Description: "   ", MatchDescription: true},
			Uncategorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.title, rules, tt.opts)
			if got != tt.want {
				t.Errorf("Classify(%q) = %+v, want %+v", tt.title, got, tt.want)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	rules := sampleRules()
	first := Classify("Family trip to NYC", rules, Options{})
	for i := 0; i < 100; i++ {
		if got := Classify("Family trip to NYC", rules, Options{}); got != first {
			t.Fatalf("call %d = %+v, want %+v", i, got, first)
		}
	}
}

func TestClassifyEmptyRules(t *testing.T) {
	if got := Classify("Family trip", nil, Options{}); got != Uncategorized {
		t.Errorf("Classify with no rules = %+v, want fallback", got)
	}
}

func TestClassifyMatchAll(t *testing.T) {
	rules := NewRules([]Rule{
		{ID: "travel", Label: "Travel", Color: "#22c55e", Keywords: []string{"flight", "hotel"}, MatchMode: MatchAll},
	}, nil)

	if got := Classify("Family trip to NYC", rules, Options{}); got != Uncategorized {
		t.Errorf("partial keywords matched: %+v", got)
	}
	if got := Classify("Book flight and hotel", rules, Options{}); got.Category != "travel" {
		t.Errorf("all keywords present, got %+v", got)
	}
	if got := Classify("Book flight", rules, Options{}); got != Uncategorized {
		t.Errorf("one of two keywords matched: %+v", got)
	}
}

func TestClassifyRuleWithoutKeywords(t *testing.T) {
	rules := NewRules([]Rule{
		{ID: "empty", Label: "Aaa", Color: "#000000", Keywords: []string{"  ", ""}},
		{ID: "empty-all", Label: "Bbb", Color: "#000000", MatchMode: MatchAll},
		{ID: "work", Label: "Work", Color: "#111111", Keywords: []string{"standup"}},
	}, nil)

	if got := Classify("Daily standup", rules, Options{}); got.Category != "work" {
		t.Errorf("Classify = %+v, want work", got)
	}
	if got := Classify("anything", rules, Options{}); got != Uncategorized {
		t.Errorf("keywordless rule matched: %+v", got)
	}
}

func TestClassifyUnicodeFolding(t *testing.T) {
	rules := NewRules([]Rule{
		{ID: "sport", Label: "Sport", Color: "#84cc16", Keywords: []string{"STRASSE"}},
	}, nil)
	if got := Classify("Laufen in der Hauptstraße", rules, Options{}); got.Category != "sport" {
		t.Errorf("folded match failed: %+v", got)
	}
}
