package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// Year bounds accepted by the layout pipeline. civil.Date handles any year,
// but a grid for year 0 or 10000 is almost always a typo.
const (
	MinYear = 1900
	MaxYear = 2200
)

// ValidateYear checks that year is within [MinYear, MaxYear].
func ValidateYear(year int) error {
	if year < MinYear || year > MaxYear {
		return New(ErrCodeInvalidYear, "year %d out of range (%d-%d)", year, MinYear, MaxYear)
	}
	return nil
}

// hexColorRegex matches #rgb and #rrggbb colors.
var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateColor validates a CSS hex color as used by category rules and
// calendar sources.
func ValidateColor(color string) error {
	if color == "" {
		return New(ErrCodeInvalidColor, "color cannot be empty")
	}
	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidColor, "invalid color %q (want #rgb or #rrggbb)", color)
	}
	return nil
}

// ValidateLabel validates a category label or calendar name.
//
// Rules:
//   - Not empty after trimming
//   - Maximum length of 128 characters
//   - No control characters
func ValidateLabel(label string) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return New(ErrCodeInvalidRule, "label cannot be empty")
	}

	const maxLabelLength = 128
	if len(label) > maxLabelLength {
		return New(ErrCodeInvalidRule, "label too long (max %d characters)", maxLabelLength)
	}

	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidRule, "label contains invalid control characters")
		}
	}
	return nil
}

// ValidatePath validates a local file path given on the command line or in
// a config file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateFormat checks that format is one of the allowed output formats.
func ValidateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(allowed, ", "))
}
