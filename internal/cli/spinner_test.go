package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
)

// syncBuffer guards a bytes.Buffer for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDrawsAndClears(t *testing.T) {
	var out syncBuffer
	s := newSpinner("Laying out 2025...")
	s.out = &out
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	got := out.String()
	if !strings.Contains(ansi.Strip(got), "Laying out 2025...") {
		t.Errorf("spinner output %q lacks the message", got)
	}
	if !strings.HasSuffix(got, "\r"+ansi.EraseEntireLine) {
		t.Errorf("spinner did not clear its line: %q", got)
	}
}

func TestSpinnerUpdate(t *testing.T) {
	var out syncBuffer
	s := newSpinner("Loading calendars...")
	s.out = &out
	s.Start()
	s.Update("Rendering svg...")
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(ansi.Strip(out.String()), "Rendering svg...") {
		t.Errorf("updated message not drawn: %q", out.String())
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "Testing with context...")
	s.out = &syncBuffer{}
	s.Start()
	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinnerWithContext(ctx, "Testing with timeout...")
	s.out = &syncBuffer{}
	s.Start()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("Testing idempotent stop...")
	s.out = &syncBuffer{}
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithSuccess(t *testing.T) {
	s := newSpinner("Testing success...")
	s.out = &syncBuffer{}
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithSuccess("Done!")
}
