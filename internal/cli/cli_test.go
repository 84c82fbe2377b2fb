package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"recipe-finder/internal/core/recipe"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRecipes = `[
  {"id": "grilled-cheese", "name": "Grilled Cheese", "ingredients": ["bread", "cheese", "butter"],
   "instructions": "Butter the bread. Add the cheese between slices. Grill until golden brown.",
   "prep_time_min": 5, "cook_time_min": 10},
  {"id": "caesar", "name": "Caesar Salad", "ingredients": ["lettuce", "parmesan cheese", "croutons", "lemon"],
   "instructions": "Toss the lettuce with dressing and top with croutons."},
  {"id": "tomato-soup", "name": "Tomato Soup", "ingredients": ["tomatoes", "onion", "garlic", "stock"],
   "instructions": "Simmer everything for twenty minutes, then blend until smooth."}
]`

func writeRecipes(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recipes.json")
	require.NoError(t, os.WriteFile(path, []byte(testRecipes), 0o644))
	return path
}

// resetFlags 將所有旗標還原為預設值
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Setenv("CACHE_ENABLED", "false")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestSearchCmd_RequiresIngredient(t *testing.T) {
	_, err := execute(t, "search")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestSearchCmd_HasFlags(t *testing.T) {
	limit := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, limit)
	assert.Equal(t, "n", limit.Shorthand)
	assert.Equal(t, "10", limit.DefValue)

	exclude := searchCmd.Flags().Lookup("exclude")
	require.NotNil(t, exclude)
	assert.Equal(t, "x", exclude.Shorthand)
}

func TestSearchCmd_Table(t *testing.T) {
	out, err := execute(t, "search", "--file", writeRecipes(t), "Bread", "cheese")
	require.NoError(t, err)

	assert.Contains(t, out, "1 recipes (any match)")
	assert.Contains(t, out, "[1] Grilled Cheese  2/3 (67%)")
	assert.Contains(t, out, "id: grilled-cheese")
}

func TestSearchCmd_JSONWithExclusion(t *testing.T) {
	out, err := execute(t, "search", "--file", writeRecipes(t), "--json", "--exclude", "dairy", "tomato", "cheese")
	require.NoError(t, err)

	var resp recipe.SearchResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "tomato-soup", resp.Results[0].Recipe.ID)
	assert.Equal(t, recipe.ModeAny, resp.Mode)
}

func TestSearchCmd_BestMode(t *testing.T) {
	out, err := execute(t, "search", "--file", writeRecipes(t), "--mode", "best", "--json", "cheese", "lemon")
	require.NoError(t, err)

	var resp recipe.SearchResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, recipe.ModeBest, resp.Mode)
	assert.Zero(t, resp.Count, "caesar salad only has lemon selected out of four")
}

func TestSearchCmd_Limit(t *testing.T) {
	out, err := execute(t, "search", "--file", writeRecipes(t), "--limit", "1", "--json", "cheese", "lettuce", "tomato")
	require.NoError(t, err)

	var resp recipe.SearchResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 3, resp.Count)
	assert.Len(t, resp.Results, 1)
}

func TestSearchCmd_UnknownAllergen(t *testing.T) {
	_, err := execute(t, "search", "--file", writeRecipes(t), "--exclude", "soy", "bread")
	assert.Error(t, err)
}

func TestSearchCmd_NoResults(t *testing.T) {
	out, err := execute(t, "search", "--file", writeRecipes(t), "saffron")
	require.NoError(t, err)
	assert.Contains(t, out, "No recipes found.")
}

func TestSearchCmd_MissingFile(t *testing.T) {
	_, err := execute(t, "search", "--file", filepath.Join(t.TempDir(), "missing.json"), "bread")
	assert.Error(t, err)
}

func TestSearchCmd_OverridesAreValidated(t *testing.T) {
	t.Setenv("APP_SOURCE_MEALDB_PER_AREA", "-1")

	_, err := execute(t, "search", "--source", "mealdb", "bread")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "per-list limit")

	_, err = execute(t, "search", "--file", writeRecipes(t), "--mode", "most", "bread")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "match mode")
}

func TestListCmd(t *testing.T) {
	out, err := execute(t, "list", "--file", writeRecipes(t))
	require.NoError(t, err)

	assert.Contains(t, out, "grilled-cheese")
	assert.Contains(t, out, "Tomato Soup")
}

func TestShowCmd(t *testing.T) {
	out, err := execute(t, "show", "--file", writeRecipes(t), "grilled-cheese")
	require.NoError(t, err)

	assert.Contains(t, out, "Grilled Cheese")
	assert.Contains(t, out, "Time: 15 min")
	assert.Contains(t, out, "  - butter")
	assert.Contains(t, out, "1. Butter the bread.")
}

func TestShowCmd_NotFound(t *testing.T) {
	_, err := execute(t, "show", "--file", writeRecipes(t), "nope")
	assert.Error(t, err)
}

func TestIngredientsCmd(t *testing.T) {
	out, err := execute(t, "ingredients", "--file", writeRecipes(t), "--json")
	require.NoError(t, err)

	var got []string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Contains(t, got, "tomato")
	assert.Contains(t, got, "bread")
	assert.IsIncreasing(t, got)
}

func TestAllergensCmd(t *testing.T) {
	out, err := execute(t, "allergens")
	require.NoError(t, err)

	assert.Contains(t, out, "gluten")
	assert.Contains(t, out, "peanut")
	assert.Contains(t, out, "dairy")
}

func TestAllergensCmd_JSON(t *testing.T) {
	out, err := execute(t, "allergens", "--json")
	require.NoError(t, err)

	var got []allergenInfo
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, len(recipe.Allergens()))
	assert.Equal(t, recipe.Gluten, got[0].Tag)
	assert.Contains(t, got[1].Keywords, "peanut")
}
