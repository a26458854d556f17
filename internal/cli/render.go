package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/yeargrid/pkg/config"
	"github.com/matzehuels/yeargrid/pkg/errors"
	"github.com/matzehuels/yeargrid/pkg/pipeline"
	"github.com/matzehuels/yeargrid/pkg/render"
)

// renderFlags are the output flags of the render command.
type renderFlags struct {
	output  string
	formats string
	popups  bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		rf    renderFlags
		flags layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "render [layout.json]",
		Short: "Render a year layout to SVG or JSON",
		Long: `Render a year layout to SVG or JSON.

With a layout.json argument (produced by 'layout') the stored layout is
rendered as-is. Without one, the configured calendars are laid out first.

Output formats: svg (default), json. Use -f svg,json for both.
--popups embeds hover popups with event details in the SVG.`,
		Example: `  yeargrid render
  yeargrid render yeargrid-2025.layout.json --popups
  yeargrid render -m stack --density comfortable -f svg,json -o year`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return c.runRenderLayout(cmd.Context(), args[0], &rf, flags.noCache)
			}
			return c.runRenderConfig(cmd.Context(), &rf, &flags)
		},
	}

	cmd.Flags().StringVarP(&rf.output, "output", "o", "", "output base path (default: yeargrid-<year>)")
	cmd.Flags().StringVarP(&rf.formats, "format", "f", "", "output formats: svg (default), json")
	cmd.Flags().BoolVar(&rf.popups, "popups", false, "embed hover popups in the SVG")
	flags.register(cmd)

	return cmd
}

// runRenderConfig lays out the configured calendars and renders them.
func (c *CLI) runRenderConfig(ctx context.Context, rf *renderFlags, flags *layoutFlags) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	opts := flags.options(c, cfg)
	opts.Formats = parseFormats(rf.formats)
	opts.Popups = rf.popups

	out, err := c.execute(ctx, cfg, flags.noCache, opts, fmt.Sprintf("Rendering %d...", opts.Year))
	if err != nil {
		return err
	}
	paths, err := writeArtifacts(out.Artifacts, outputBase(rf.output, out.Document.Year))
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", strings.Join(opts.Formats, ", "))
	for _, p := range paths {
		printFile(p)
	}
	printStats(out.Stats, out.CacheInfo.LayoutHit && out.CacheInfo.RenderHit)
	return nil
}

// runRenderLayout renders a stored layout document. The config, when
// present, only supplies the cache backend and tooltip margins.
func (c *CLI) runRenderLayout(ctx context.Context, input string, rf *renderFlags, noCache bool) error {
	doc, err := readLayoutFile(input)
	if err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if errors.Is(err, errors.ErrCodeFileNotFound) {
		c.Logger.Debug("no config, using defaults")
		cfg, err = config.DefaultConfig(), nil
	}
	if err != nil {
		return err
	}

	opts := pipeline.Options{
		Year:           doc.Year,
		Mode:           doc.Mode,
		Density:        doc.Density,
		Formats:        parseFormats(rf.formats),
		Popups:         rf.popups,
		TooltipPadding: cfg.Tooltip.Padding,
		TooltipOffset:  cfg.Tooltip.Offset,
		Logger:         c.Logger,
	}

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	artifacts, cached, err := runner.RenderWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return fmt.Errorf("render %s: %w", input, err)
	}
	prog.done(fmt.Sprintf("Rendered %d formats", len(artifacts)))

	paths, err := writeArtifacts(artifacts, outputBase(rf.output, doc.Year))
	if err != nil {
		return err
	}
	printSuccess("Rendered %s", strings.Join(opts.Formats, ", "))
	for _, p := range paths {
		printFile(p)
	}
	printStats(pipeline.Stats{Events: len(doc.Events), Bars: len(doc.Bars), Days: len(doc.Days)}, cached)
	return nil
}

func readLayoutFile(path string) (*render.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open layout %s: %w", path, err)
	}
	defer f.Close()
	doc, err := render.ReadDocument(f)
	if err != nil {
		return nil, fmt.Errorf("read layout %s: %w", path, err)
	}
	return doc, nil
}

// outputBase strips a known format extension from output, or derives the
// default base from the year.
func outputBase(output string, year int) string {
	if output == "" {
		return fmt.Sprintf("%s-%d", appName, year)
	}
	for _, f := range render.Formats() {
		output = strings.TrimSuffix(output, "."+f)
	}
	return output
}

// writeArtifacts writes each artifact to base.<format> in format order.
func writeArtifacts(artifacts map[string][]byte, base string) ([]string, error) {
	var paths []string
	for _, format := range render.Formats() {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + format
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
