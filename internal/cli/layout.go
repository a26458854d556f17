package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/yeargrid/pkg/config"
	"github.com/matzehuels/yeargrid/pkg/pipeline"
	"github.com/matzehuels/yeargrid/pkg/render"
)

// layoutCommand creates the layout command for computing a year layout.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Classify the configured calendars and lay out a year",
		Long: `Classify the configured calendars and lay out a year.

The layout command loads every calendar named in the config, assigns each
event a category and computes the year grid: multi-day bars packed into
rows, single-day events bucketed by date and, in stack mode, the title
lines each event may use. The result is a layout.json file (same format as
'render -f json') that 'render' and 'browse' accept.

Results are cached, keyed by the calendar contents and layout options.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), &flags, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: yeargrid-<year>.layout.json)")
	flags.register(cmd)

	return cmd
}

// runLayout computes the layout document and writes it as JSON.
func (c *CLI) runLayout(ctx context.Context, flags *layoutFlags, output string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	opts := flags.options(c, cfg)
	opts.Formats = []string{render.FormatJSON}

	out, err := c.execute(ctx, cfg, flags.noCache, opts, fmt.Sprintf("Laying out %d...", opts.Year))
	if err != nil {
		return err
	}

	outputPath := output
	if outputPath == "" {
		outputPath = fmt.Sprintf("%s-%d.layout.json", appName, out.Document.Year)
	}
	if err := os.WriteFile(outputPath, out.Artifacts[render.FormatJSON], 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(out.Stats, out.CacheInfo.LayoutHit)
	printNewline()
	printNextStep("Render", appName+" render "+outputPath)
	return nil
}

// execute runs the whole pipeline behind a spinner and reports warnings.
func (c *CLI) execute(ctx context.Context, cfg *config.Config, noCache bool, opts pipeline.Options, message string) (*pipeline.Output, error) {
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, message)
	spinner.Start()

	out, err := runner.Execute(ctx, cfg.Calendars, opts)
	if err != nil {
		spinner.StopWithError("Pipeline failed")
		return nil, err
	}
	spinner.Stop()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	prog.done(fmt.Sprintf("Processed %d events", len(out.Document.Events)))

	for _, w := range out.Warnings {
		c.Logger.Warn("skipped record", "err", w)
	}
	return out, nil
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}
