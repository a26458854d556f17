package category

import "strings"

// Fallback category for events no rule claims.
const (
	UncategorizedID    = "uncategorized"
	UncategorizedLabel = "Uncategorized"
	UncategorizedColor = "#9e9e9e"
)

// Uncategorized is the result returned when no rule matches.
var Uncategorized = Result{Category: UncategorizedID, Color: UncategorizedColor}

// Options tunes a single classification.
type Options struct {
	// Description is searched when the title matches no rule and
	// MatchDescription is set.
	Description      string
	MatchDescription bool
}

// Result is the category assigned to an event.
type Result struct {
	Category string `json:"category"`
	Color    string `json:"color"`
}

// Classify returns the first rule in rules matching title, then (optionally)
// the first rule matching the description, then [Uncategorized].
func Classify(title string, rules Rules, opts Options) Result {
	if r, ok := firstMatch(title, rules); ok {
		return Result{Category: r.ID, Color: r.Color}
	}
	if opts.MatchDescription && strings.TrimSpace(opts.Description) != "" {
		if r, ok := firstMatch(opts.Description, rules); ok {
			return Result{Category: r.ID, Color: r.Color}
		}
	}
	return Uncategorized
}

func firstMatch(text string, rules Rules) (Rule, bool) {
	for _, r := range rules {
		if r.Matches(text) {
			return r, true
		}
	}
	return Rule{}, false
}
