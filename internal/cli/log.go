// Package cli implements the yeargrid command-line interface.
//
// Commands load a TOML or YAML config naming the calendar exports and the
// category rules, run the pipeline and write a layout document or a rendered
// year grid. The CLI is built using cobra; logging goes through
// charmbracelet/log and loggers travel on context.Context.
//
// # Commands
//
//   - layout: classify and lay out a year, write layout.json
//   - render: render a layout (or a config) to SVG or JSON
//   - classify: show which category a title falls into
//   - browse: explore the year grid in the terminal
//   - config: create, show and locate the config file
//   - cache: manage the layout and render cache
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger writing to w at level, with timestamps
// formatted as "HH:MM:SS.ms".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long an operation took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Laid out 2025 (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
