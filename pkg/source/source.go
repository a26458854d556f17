package source

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/matzehuels/yeargrid/pkg/errors"
)

// Calendar is one source calendar with its raw events.
type Calendar struct {
	ID     string            `json:"id"`
	Name   string            `json:"name,omitempty"`
	Color  string            `json:"color,omitempty"`
	Events []*calendar.Event `json:"events"`

	// Warnings lists records that were skipped while loading.
	Warnings []error `json:"-"`
}

// LoadFile reads events from path. Files ending in .ics or .ical are parsed
// as iCalendar and expanded for year in loc; everything else is read as
// JSON.
func LoadFile(path string, year int, loc *time.Location) ([]*calendar.Event, []error, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "calendar file %s", path)
		}
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ics", ".ical", ".ifb":
		return ParseICS(data, year, loc)
	default:
		events, err := DecodeEvents(data)
		return events, nil, err
	}
}

// Load fills c.Events and c.Warnings from path.
func (c *Calendar) Load(path string, year int, loc *time.Location) error {
	events, warnings, err := LoadFile(path, year, loc)
	if err != nil {
		return err
	}
	c.Events = events
	c.Warnings = warnings
	return nil
}
