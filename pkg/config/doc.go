// Package config loads and saves the yeargrid configuration file.
//
// The file is TOML (config.toml) or YAML (config.yaml / config.yml); the
// extension picks the codec. A minimal TOML file:
//
//	year = 2025
//	timezone = "Europe/Berlin"
//	priority = ["birthdays"]
//
//	[display]
//	mode = "stack"
//	density = "compact"
//
//	[[calendars]]
//	id = "home"
//	name = "Home"
//	path = "~/calendars/home.ics"
//
//	[[categories]]
//	label = "Birthdays"
//	color = "#ec4899"
//	keywords = ["birthday", "bday"]
//
// [Load] fills defaults through [Config.Normalize] and checks the result
// with [Config.Validate]. Category rules are validated separately by
// [Config.Rules], which drops unusable rules instead of failing the whole
// file: a rule without a label, keywords or a valid color never matches
// anything, so it is reported and skipped.
package config
