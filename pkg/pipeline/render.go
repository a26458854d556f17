package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/yeargrid/pkg/errors"
	"github.com/matzehuels/yeargrid/pkg/observability"
	"github.com/matzehuels/yeargrid/pkg/render"
)

// RenderFromDocument renders each of opts.Formats.
func RenderFromDocument(ctx context.Context, doc *render.Document, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(ctx, doc, format, opts)
		if err != nil {
			return nil, err
		}
		out[format] = data
	}
	return out, nil
}

func renderFormat(ctx context.Context, doc *render.Document, format string, opts Options) ([]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()

	var (
		data []byte
		err  error
	)
	switch format {
	case render.FormatJSON:
		data, err = render.RenderJSON(doc)
	case render.FormatSVG:
		svgOpts := []render.SVGOption{render.WithPopupMargins(opts.TooltipPadding, opts.TooltipOffset)}
		if opts.Popups {
			svgOpts = append(svgOpts, render.WithPopups())
		}
		data = render.RenderSVG(doc, svgOpts...)
	default:
		err = errors.New(errors.ErrCodeUnsupported, "format %q", format)
	}

	hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("rendered", "format", format, "bytes", len(data), "duration", time.Since(start))
	return data, nil
}
