package source

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"google.golang.org/api/calendar/v3"

	"github.com/matzehuels/yeargrid/pkg/errors"
)

// ReadEvents decodes a calendar#events document or a JSON array of events.
func ReadEvents(r io.Reader) ([]*calendar.Event, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read events")
	}
	return DecodeEvents(data)
}

// ReadEventsFile reads events from a JSON file.
func ReadEventsFile(path string) ([]*calendar.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "events file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadEvents(f)
}

// DecodeEvents is ReadEvents over an in-memory document.
func DecodeEvents(data []byte) ([]*calendar.Event, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "empty events document")
	}

	if data[0] == '[' {
		var events []*calendar.Event
		if err := json.Unmarshal(data, &events); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode event array")
		}
		return compact(events), nil
	}

	var doc calendar.Events
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode calendar#events document")
	}
	return compact(doc.Items), nil
}

func compact(events []*calendar.Event) []*calendar.Event {
	out := events[:0]
	for _, ev := range events {
		if ev != nil {
			out = append(out, ev)
		}
	}
	return out
}
