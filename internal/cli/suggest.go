package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/deepgen/famtree/pkg/resolve"
	"github.com/deepgen/famtree/pkg/source"
)

func (c *CLI) suggestCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "suggest <people-file> <query>",
		Short: "List the people a root query matches",
		Long: `Suggest prints the people whose name or identifier contains the query, in
list order. The first row is the person --root would resolve to. When nothing
contains the query, the closest fuzzy matches are shown instead.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSuggest(cmd.Context(), args[0], strings.Join(args[1:], " "), limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", resolve.DefaultLimit, "maximum number of suggestions")
	return cmd
}

func (c *CLI) runSuggest(ctx context.Context, path, query string, limit int) error {
	persons, err := source.NewFile(path).Load(ctx)
	if err != nil {
		return err
	}

	found, fuzzy := resolve.SuggestOrFuzzy(query, persons, limit)
	if len(found) == 0 {
		printInfo(c.out, "No people match %q", query)
		return nil
	}
	if fuzzy {
		printWarning(c.out, "Nobody's name contains %q; closest matches:", query)
	}
	fmt.Fprintln(c.out, suggestionTable(found).Render())
	if !fuzzy {
		printNextStep(c.out, "Render the first match", fmt.Sprintf("famtree render %s --root %q", path, found[0].Xref))
	}
	return nil
}

func suggestionTable(found []resolve.Suggestion) *table.Table {
	rows := make([][]string, len(found))
	for i, s := range found {
		rows[i] = []string{fmt.Sprint(i + 1), s.Name, s.Lifespan, s.Xref}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Name", "Lifespan", "Xref").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == -1: // header
				return headerStyle.Padding(0, 1)
			case col == 0 || col == 3:
				return base.Foreground(colorDim)
			case row == 0:
				return base.Foreground(colorCyan).Bold(true)
			}
			return base
		})
}
