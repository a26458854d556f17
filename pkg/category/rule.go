package category

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// MatchMode controls how a rule's keywords combine.
type MatchMode string

const (
	// MatchAny matches when at least one keyword is present.
	MatchAny MatchMode = "any"
	// MatchAll matches when every keyword is present.
	MatchAll MatchMode = "all"
)

// ParseMatchMode maps a config string to a MatchMode. Unknown values fall
// back to MatchAny.
func ParseMatchMode(s string) MatchMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(MatchAll):
		return MatchAll
	default:
		return MatchAny
	}
}

// Rule is a user-defined category with its keyword matcher.
type Rule struct {
	ID        string    `json:"id" toml:"id" yaml:"id"`
	Label     string    `json:"label" toml:"label" yaml:"label"`
	Color     string    `json:"color" toml:"color" yaml:"color"`
	Keywords  []string  `json:"keywords" toml:"keywords" yaml:"keywords"`
	MatchMode MatchMode `json:"match_mode,omitempty" toml:"match_mode" yaml:"match_mode,omitempty"`
}

// NormalizeKeywords trims keywords, drops empty ones and removes
// case-insensitive duplicates. The first-seen casing of each keyword is kept.
func NormalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	seen := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		key := fold(kw)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, kw)
	}
	return out
}

// NormalizeRule returns a copy of r with trimmed fields, normalized keywords
// and a concrete match mode.
func NormalizeRule(r Rule) Rule {
	r.ID = strings.TrimSpace(r.ID)
	r.Label = strings.TrimSpace(r.Label)
	r.Color = strings.TrimSpace(r.Color)
	r.Keywords = NormalizeKeywords(r.Keywords)
	r.MatchMode = ParseMatchMode(string(r.MatchMode))
	return r
}

// Matches reports whether text satisfies the rule. Rules without keywords
// never match.
func (r Rule) Matches(text string) bool {
	if len(r.Keywords) == 0 || text == "" {
		return false
	}
	folded := fold(text)
	if r.MatchMode == MatchAll {
		for _, kw := range r.Keywords {
			if !strings.Contains(folded, fold(kw)) {
				return false
			}
		}
		return true
	}
	for _, kw := range r.Keywords {
		if strings.Contains(folded, fold(kw)) {
			return true
		}
	}
	return false
}

// Rules is an ordered rule list. Its order is both the match order and the
// render priority of categories.
type Rules []Rule

// NewRules normalizes rules and orders them. Rules named in priority come
// first, in priority order; the rest follow label-alphabetically. With an
// empty priority list the whole set is label-alphabetical.
func NewRules(rules []Rule, priority []string) Rules {
	normalized := make([]Rule, len(rules))
	for i, r := range rules {
		normalized[i] = NormalizeRule(r)
	}

	rank := make(map[string]int, len(priority))
	for _, id := range priority {
		id = strings.TrimSpace(id)
		if _, dup := rank[id]; !dup && id != "" {
			rank[id] = len(rank)
		}
	}

	slices.SortStableFunc(normalized, func(a, b Rule) int {
		ra, okA := rank[a.ID]
		rb, okB := rank[b.ID]
		switch {
		case okA && okB:
			return ra - rb
		case okA:
			return -1
		case okB:
			return 1
		}
		return compareLabels(a, b)
	})
	return Rules(normalized)
}

// Index returns the priority of the rule with the given id: its position in
// the list, or len(rs) for unknown ids and [UncategorizedID].
func (rs Rules) Index(id string) int {
	for i, r := range rs {
		if r.ID == id {
			return i
		}
	}
	return len(rs)
}

// IndexMap returns id → priority for every rule, for callers that look up
// priorities in a loop.
func (rs Rules) IndexMap() map[string]int {
	m := make(map[string]int, len(rs))
	for i, r := range rs {
		if _, ok := m[r.ID]; !ok {
			m[r.ID] = i
		}
	}
	return m
}

// Lookup returns the rule with the given id.
func (rs Rules) Lookup(id string) (Rule, bool) {
	for _, r := range rs {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

// IDs returns rule ids in priority order.
func (rs Rules) IDs() []string {
	ids := make([]string, len(rs))
	for i, r := range rs {
		ids[i] = r.ID
	}
	return ids
}

func compareLabels(a, b Rule) int {
	if c := strings.Compare(fold(a.Label), fold(b.Label)); c != 0 {
		return c
	}
	if c := strings.Compare(a.Label, b.Label); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// fold applies Unicode case folding. A Caser keeps state, so each call gets
// its own.
func fold(s string) string {
	return cases.Fold().String(s)
}
