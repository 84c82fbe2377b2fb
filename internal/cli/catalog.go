package cli

import (
	"fmt"
	"strings"

	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/pkg/common"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List loaded recipes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withService(cmd, func(svc *recipe.Service) error {
			recipes := svc.Catalog().Recipes()
			if outputJSON {
				return printJSON(cmd, recipes)
			}
			for _, r := range recipes {
				fmt.Fprintf(cmd.OutOrStdout(), "%-32s %s\n", r.ID, r.Name)
			}
			return nil
		})
	},
}

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a recipe with its steps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(svc *recipe.Service) error {
			r, ok := svc.Catalog().Get(args[0])
			if !ok {
				return common.ErrRecipeNotFound
			}
			if outputJSON {
				return printJSON(cmd, r)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", r.Name, recipe.Emojis(r))
			fmt.Fprintf(out, "Time: %s\n\n", formatTime(r))
			ingredients := r.IngredientsWithMeasures
			if len(ingredients) == 0 {
				ingredients = r.Ingredients
			}
			fmt.Fprintln(out, "Ingredients:")
			for _, ing := range ingredients {
				fmt.Fprintf(out, "  - %s\n", ing)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, r.Instructions)
			return nil
		})
	},
}

var ingredientsCmd = &cobra.Command{
	Use:   "ingredients",
	Short: "List the normalized ingredients of the loaded recipes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withService(cmd, func(svc *recipe.Service) error {
			ingredients := svc.Catalog().Ingredients()
			if outputJSON {
				return printJSON(cmd, ingredients)
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(ingredients, "\n"))
			return nil
		})
	},
}

type allergenInfo struct {
	Tag      recipe.Allergen `json:"tag"`
	Keywords []string        `json:"keywords"`
}

var allergensCmd = &cobra.Command{
	Use:   "allergens",
	Short: "List the allergens that can be excluded",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if outputJSON {
			tags := recipe.Allergens()
			out := make([]allergenInfo, len(tags))
			for i, a := range tags {
				out[i] = allergenInfo{Tag: a, Keywords: a.Keywords()}
			}
			return printJSON(cmd, out)
		}
		for _, a := range recipe.Allergens() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", a, strings.Join(a.Keywords(), ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd, showCmd, ingredientsCmd, allergensCmd)
}
