package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/yeargrid/pkg/errors"
)

func TestReadEventsFile(t *testing.T) {
	events, err := ReadEventsFile(filepath.Join("testdata", "events.json"))
	if err != nil {
		t.Fatalf("ReadEventsFile: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].Id != "conf2025" || events[0].Start.Date != "2025-01-30" {
		t.Errorf("first event = %+v", events[0])
	}
	if events[1].Start.TimeZone != "Europe/Berlin" {
		t.Errorf("time zone = %q", events[1].Start.TimeZone)
	}
	if events[2].Status != "cancelled" {
		t.Errorf("status = %q", events[2].Status)
	}
}

func TestDecodeEvents(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr errors.Code
	}{
		{"bare array", `[{"id":"a"},{"id":"b"}]`, 2, ""},
		{"array with null", `[{"id":"a"},null]`, 1, ""},
		{"document", `{"items":[{"id":"a"}]}`, 1, ""},
		{"empty document", `{}`, 0, ""},
		{"blank", "  \n", 0, errors.ErrCodeInvalidFormat},
		{"garbage", `{"items":`, 0, errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := ReadEvents(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("err = %v, want code %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(events) != tt.want {
				t.Errorf("got %d events, want %d", len(events), tt.want)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		events, warnings, err := LoadFile(filepath.Join("testdata", "events.json"), 2025, nil)
		if err != nil || len(warnings) != 0 {
			t.Fatalf("LoadFile: %v %v", err, warnings)
		}
		if len(events) != 3 {
			t.Errorf("got %d events", len(events))
		}
	})

	t.Run("ics", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cal.ics")
		if err := os.WriteFile(path, []byte(ics(crlf(allDayEvent))), 0o600); err != nil {
			t.Fatal(err)
		}
		var c Calendar
		if err := c.Load(path, 2025, time.UTC); err != nil {
			t.Fatalf("Load: %v", err)
		}
		if len(c.Events) != 1 {
			t.Errorf("got %d events", len(c.Events))
		}
	})

	t.Run("missing", func(t *testing.T) {
		_, _, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"), 2025, nil)
		if !errors.Is(err, errors.ErrCodeFileNotFound) {
			t.Errorf("err = %v, want FILE_NOT_FOUND", err)
		}
	})

	t.Run("invalid path", func(t *testing.T) {
		_, _, err := LoadFile("", 2025, nil)
		if !errors.Is(err, errors.ErrCodeInvalidPath) {
			t.Errorf("err = %v, want INVALID_PATH", err)
		}
	})
}
