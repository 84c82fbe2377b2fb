package cli

import (
	"fmt"
	"strings"

	"recipe-finder/internal/core/recipe"

	"github.com/spf13/cobra"
)

var (
	searchExclude string
	searchLimit   int
)

var searchCmd = &cobra.Command{
	Use:   "search [ingredient...]",
	Short: "Find recipes that use the given ingredients",
	Long: `Ranks recipes by the share of their ingredients you selected.
In "any" mode one shared ingredient is enough; in "best" mode at least half
of a recipe's ingredients must be selected.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchExclude, "exclude", "x", "", "comma separated allergens to exclude (gluten,nuts,dairy)")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results, 0 for all")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	return withService(cmd, func(svc *recipe.Service) error {
		resp, err := svc.Search(recipe.SearchRequest{
			Ingredients: args,
			Allergens:   splitList(searchExclude),
		})
		if err != nil {
			return err
		}
		if searchLimit > 0 && len(resp.Results) > searchLimit {
			resp.Results = resp.Results[:searchLimit]
		}

		if outputJSON {
			return printJSON(cmd, resp)
		}
		out := cmd.OutOrStdout()
		if resp.Count == 0 {
			fmt.Fprintln(out, "No recipes found.")
			return nil
		}

		fmt.Fprintf(out, "%d recipes (%s match)\n\n", resp.Count, resp.Mode)
		for i, r := range resp.Results {
			fmt.Fprintf(out, "[%d] %s  %d/%d (%.0f%%)  %s\n", i+1, r.Recipe.Name, r.Matched, r.Total, r.Ratio*100, r.Emojis)
			fmt.Fprintf(out, "    id: %s\n", r.Recipe.ID)
		}
		return nil
	})
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// formatTime 顯示準備與烹調時間
func formatTime(r recipe.Recipe) string {
	total, ok := r.TotalTimeMinutes()
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%d min", total)
}
