package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/yeargrid/pkg/category"
	"github.com/matzehuels/yeargrid/pkg/errors"
)

// classifyCommand creates the classify command for testing category rules.
func (c *CLI) classifyCommand() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "classify <title>",
		Short: "Show which category an event title falls into",
		Long: `Show which category an event title falls into.

Rules are tried in priority order; the first rule with a matching keyword
wins. With match_description enabled in the config, --description is tried
when the title matches nothing.`,
		Example: `  yeargrid classify "Mom's birthday"
  yeargrid classify "Offsite" --description "family trip to the lake"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			rules, ruleErrs := cfg.Rules()
			for _, err := range ruleErrs {
				printWarning("skipping category: %s", errors.UserMessage(err))
			}

			title := strings.Join(args, " ")
			res := category.Classify(title, rules, category.Options{
				Description:      description,
				MatchDescription: cfg.MatchDescription,
			})
			c.Logger.Debug("classified", "title", title, "category", res.Category)

			fmt.Println(classifyTable(rules, res))
			label := category.UncategorizedLabel
			if r, ok := rules.Lookup(res.Category); ok {
				label = r.Label
			}
			printSuccess("%s %s %s", StyleValue.Render(title), StyleDim.Render(iconArrow), swatch(res.Color)+" "+StyleHighlight.Render(label))
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "event description to match when the title does not")
	return cmd
}

// classifyTable lists rules in priority order with the matched one
// highlighted.
func classifyTable(rules category.Rules, res category.Result) string {
	highlight := -1
	rows := make([][]string, 0, len(rules))
	for i, r := range rules {
		if r.ID == res.Category {
			highlight = i
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			swatch(r.Color) + " " + r.Label,
			strings.Join(r.Keywords, ", "),
			string(r.MatchMode),
		})
	}
	return newTable(highlight, "#", "Category", "Keywords", "Match").Rows(rows...).Render()
}
