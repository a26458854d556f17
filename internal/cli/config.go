package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/yeargrid/pkg/config"
)

// configCommand creates the config management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create and inspect the config file",
	}

	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configPathCommand())

	return cmd
}

// configInitCommand creates the "config init" subcommand.
func (c *CLI) configInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file if none exists",
		Long: `Write a default config file if none exists.

The file format follows the extension: .toml (default) or .yaml/.yml.
An existing file is left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.configPath()
			if err != nil {
				return fmt.Errorf("locate config: %w", err)
			}
			cfg, created, err := config.LoadOrInit(path)
			if err != nil {
				return err
			}
			if !created {
				printInfo("Config already exists")
				printFile(path)
				return nil
			}
			printSuccess("Created config with %d categories", len(cfg.Categories))
			printFile(path)
			printNewline()
			printNextStep("Add calendars, then run", appName+" layout")
			return nil
		},
	}
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if raw {
				path, _ := c.configPath()
				data, err := config.Encode(cfg, filepath.Ext(path))
				if err != nil {
					return err
				}
				fmt.Print(string(data))
				return nil
			}
			fmt.Println(configSummary(cfg))
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print the normalized config file instead of a summary")
	return cmd
}

// configPathCommand creates the "config path" subcommand.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.configPath()
			if err != nil {
				return fmt.Errorf("locate config: %w", err)
			}
			fmt.Println(path)
			return nil
		},
	}
}

// configSummary renders the settings, calendars and categories of cfg.
func configSummary(cfg *config.Config) string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Settings") + "\n")
	settings := [][2]string{
		{"year", fmt.Sprint(cfg.Year)},
		{"timezone", cfg.Timezone},
		{"mode", cfg.Display.Mode},
		{"density", string(cfg.Display.Density)},
		{"cache", cfg.Cache.Backend},
	}
	for _, kv := range settings {
		fmt.Fprintf(&b, "  %-12s %s\n", kv[0], StyleValue.Render(kv[1]))
	}

	b.WriteString("\n" + StyleTitle.Render("Calendars") + "\n")
	if len(cfg.Calendars) == 0 {
		b.WriteString(StyleDim.Render("  none configured") + "\n")
	} else {
		rows := make([][]string, 0, len(cfg.Calendars))
		for _, cal := range cfg.Calendars {
			name := cal.Name
			if cal.Color != "" {
				name = swatch(cal.Color) + " " + name
			}
			rows = append(rows, []string{cal.ID, name, cal.Path})
		}
		b.WriteString(newTable(-1, "ID", "Name", "Path").Rows(rows...).Render() + "\n")
	}

	b.WriteString("\n" + StyleTitle.Render("Categories") + "\n")
	rules, _ := cfg.Rules()
	rows := make([][]string, 0, len(rules))
	for i, r := range rules {
		rows = append(rows, []string{fmt.Sprint(i + 1), swatch(r.Color) + " " + r.Label, strings.Join(r.Keywords, ", ")})
	}
	b.WriteString(newTable(-1, "#", "Category", "Keywords").Rows(rows...).Render())
	return b.String()
}
