// Package category classifies calendar events into user-defined categories.
//
// A category is a [Rule]: an id, a label, a color and an ordered list of
// keywords matched against an event's title (and optionally its
// description). Rules are evaluated in order and the first match wins; there
// is no scoring.
//
// # Ordering
//
// The order of a [Rules] value is significant twice: it decides which rule
// claims a title that several rules match, and it is the z-order used when
// several single-day events share a day cell. [NewRules] builds that order
// explicitly, label-alphabetical by default or following a caller-supplied
// priority list of rule ids.
//
//	rules := category.NewRules([]category.Rule{
//	    {ID: "family", Label: "Family", Color: "#f97316", Keywords: []string{"family"}},
//	    {ID: "trips", Label: "Trips", Color: "#0ea5e9", Keywords: []string{"flight", "trip"}},
//	}, nil)
//
//	res := category.Classify("Family trip to NYC", rules, category.Options{})
//	// res.Category == "family"
//
// # Matching
//
// Keywords are compared as case-folded substrings. [MatchAny] needs one
// keyword to appear, [MatchAll] needs all of them. A rule without keywords
// never matches. Whitespace-only keywords are dropped by [NormalizeRule],
// not at match time.
//
// When nothing matches, [Classify] returns the fixed [Uncategorized] result.
package category
