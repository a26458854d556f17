package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/yeargrid/pkg/config"
	"github.com/matzehuels/yeargrid/pkg/observability"
	"github.com/matzehuels/yeargrid/pkg/source"
)

// Load reads every configured calendar. A calendar file that cannot be
// read fails the run; unconvertible records inside a readable file become
// warnings on the returned calendar.
func Load(ctx context.Context, specs []config.Calendar, opts Options) ([]source.Calendar, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()

	out := make([]source.Calendar, 0, len(specs))
	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		cal := source.Calendar{ID: spec.ID, Name: spec.Name, Color: spec.Color}
		err := cal.Load(spec.Path, opts.Year, opts.Location)
		hooks.OnLoadComplete(ctx, spec.ID, len(cal.Events), len(cal.Warnings), err)
		if err != nil {
			return nil, fmt.Errorf("calendar %s: %w", spec.ID, err)
		}
		opts.Logger.Debug("loaded calendar",
			"calendar", spec.ID,
			"path", spec.Path,
			"events", len(cal.Events),
			"warnings", len(cal.Warnings),
			"duration", time.Since(start))
		for _, w := range cal.Warnings {
			opts.Logger.Debug("skipped record", "calendar", spec.ID, "reason", w)
		}
		out = append(out, cal)
	}
	return out, nil
}
