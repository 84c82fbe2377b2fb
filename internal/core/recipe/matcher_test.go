package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-finder/internal/pkg/common"
)

func recipeOf(name string, ingredients ...string) Recipe {
	return NormalizeFileRecord(FileRecord{Name: name, Ingredients: ingredients})
}

func names(recipes []Recipe) []string {
	out := make([]string, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, r.Name)
	}
	return out
}

func TestMatchGrilledCheese(t *testing.T) {
	recipes := []Recipe{NormalizeFileRecord(grilledCheeseRecord())}
	m := NewMatcher(ModeAny)

	got := m.Match(recipes, NewTokenSet("cheese"), nil)
	assert.Equal(t, []string{"Grilled Cheese"}, names(got))

	got = m.Match(recipes, NewTokenSet("cheese"), NewAllergenSet(Dairy))
	assert.Empty(t, got)
}

func TestMatchEmptySelection(t *testing.T) {
	recipes := []Recipe{recipeOf("Toast", "bread")}
	for _, mode := range []Mode{ModeAny, ModeBest} {
		got := NewMatcher(mode).Rank(recipes, NewTokenSet(), NewAllergenSet(Gluten))
		assert.NotNil(t, got)
		assert.Empty(t, got)

		got = NewMatcher(mode).Rank(recipes, NewTokenSet("  ", ""), nil)
		assert.Empty(t, got)
	}
}

func TestAllergenExclusionIsAbsolute(t *testing.T) {
	latte := recipeOf("Almond Latte", "almond milk", "coffee")
	recipes := []Recipe{latte}
	all := NewTokenSet("almond milk", "coffee")

	for _, mode := range []Mode{ModeAny, ModeBest} {
		m := NewMatcher(mode)
		assert.Len(t, m.Match(recipes, all, nil), 1)
		assert.Empty(t, m.Match(recipes, all, NewAllergenSet(Nuts)))
		assert.Empty(t, m.Match(recipes, all, NewAllergenSet(Dairy)))
		assert.Len(t, m.Match(recipes, all, NewAllergenSet(Gluten)), 1)
	}
}

func TestAllergenMatchesSubstring(t *testing.T) {
	assert.True(t, Nuts.Matches("almond milk"))
	assert.True(t, Dairy.Matches("almond milk"))
	assert.True(t, Dairy.Matches("peanut butter"))
	assert.True(t, Nuts.Matches("peanut butter"))
	assert.True(t, Gluten.Matches("whole wheat flour"))
	assert.False(t, Gluten.Matches("rice"))
}

func TestAnyMatchMonotonic(t *testing.T) {
	recipes := []Recipe{
		recipeOf("Toast", "bread", "butter"),
		recipeOf("Salad", "lettuce", "tomato"),
		recipeOf("Omelette", "eggs", "cheese", "milk"),
		recipeOf("Rice Bowl", "rice", "soy sauce"),
	}
	m := NewMatcher(ModeAny)

	selection := []string{}
	var previous []string
	for _, tok := range []string{"bread", "tomato", "saffron", "eggs", "rice"} {
		selection = append(selection, tok)
		got := names(m.Match(recipes, NewTokenSet(selection...), nil))
		for _, name := range previous {
			assert.Contains(t, got, name, "adding %q removed %q", tok, name)
		}
		previous = got
	}
	assert.Len(t, previous, len(recipes))
}

func TestBestMatchThreshold(t *testing.T) {
	half := recipeOf("Half", "bread", "cheese")
	third := recipeOf("Third", "bread", "cheese", "egg")

	got := NewMatcher(ModeBest).Rank([]Recipe{half, third}, NewTokenSet("cheese"), nil)
	require.Len(t, got, 1)
	assert.Equal(t, "Half", got[0].Recipe.Name)
	assert.Equal(t, 1, got[0].Matched)
	assert.Equal(t, 2, got[0].Total)
	assert.InDelta(t, 0.5, got[0].Ratio, 1e-9)

	got = NewMatcher(ModeAny).Rank([]Recipe{half, third}, NewTokenSet("cheese"), nil)
	assert.Len(t, got, 2)
}

func TestRankOrdersByRatioStable(t *testing.T) {
	recipes := []Recipe{
		recipeOf("A", "bread", "cheese", "ham", "mustard"),
		recipeOf("B", "bread", "cheese"),
		recipeOf("C", "bread", "ham", "pickle", "mustard"),
		recipeOf("D", "cheese", "ham"),
		recipeOf("E", "bread"),
	}

	got := NewMatcher(ModeAny).Rank(recipes, NewTokenSet("bread", "cheese"), nil)

	var order []string
	for _, r := range got {
		order = append(order, r.Recipe.Name)
	}
	assert.Equal(t, []string{"B", "E", "A", "D", "C"}, order)
}

func TestMatchUsesExactTokens(t *testing.T) {
	recipes := []Recipe{recipeOf("Cheesecake", "cream cheese", "sugar")}

	assert.Empty(t, NewMatcher(ModeAny).Match(recipes, NewTokenSet("cheese"), nil))
	assert.Len(t, NewMatcher(ModeAny).Match(recipes, NewTokenSet("Cream Cheese"), nil), 1)
}

func TestMatchNormalizesSelection(t *testing.T) {
	recipes := []Recipe{recipeOf("Pancakes", "All-Purpose Flour", "Eggs", "Milk")}

	got := NewMatcher(ModeBest).Match(recipes, NewTokenSet("flour", "egg"), nil)
	assert.Len(t, got, 1)
}

func TestRecipeWithoutTokensNeverMatches(t *testing.T) {
	empty := recipeOf("Air")
	got := NewMatcherWithPolicy(Policy{MinRatio: 0, Inclusive: true}).Rank([]Recipe{empty}, NewTokenSet("bread"), nil)
	require.Len(t, got, 1)
	assert.Zero(t, got[0].Ratio)

	assert.Empty(t, NewMatcher(ModeAny).Match([]Recipe{empty}, NewTokenSet("bread"), nil))
}

func TestMatchDoesNotMutateInput(t *testing.T) {
	recipes := []Recipe{
		recipeOf("Toast", "bread"),
		recipeOf("Sandwich", "bread", "ham"),
	}
	before := make([]Recipe, len(recipes))
	copy(before, recipes)

	NewMatcher(ModeAny).Rank(recipes, NewTokenSet("bread"), nil)
	assert.Equal(t, before, recipes)
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeAny, false},
		{"any", ModeAny, false},
		{" BEST ", ModeBest, false},
		{"strict", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidMatchMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPolicy(t *testing.T) {
	anyp := ModeAny.Policy()
	assert.False(t, anyp.Accepts(0))
	assert.True(t, anyp.Accepts(0.01))

	best := ModeBest.Policy()
	assert.False(t, best.Accepts(0.49))
	assert.True(t, best.Accepts(0.5))
	assert.True(t, best.Accepts(1))

	assert.Equal(t, best, NewMatcher(ModeBest).Policy())
}

func TestParseAllergenSet(t *testing.T) {
	set, err := ParseAllergenSet([]string{"Dairy", " nuts ", ""})
	require.NoError(t, err)
	assert.True(t, set.Contains(Dairy))
	assert.True(t, set.Contains(Nuts))
	assert.False(t, set.Contains(Gluten))

	_, err = ParseAllergenSet([]string{"shellfish"})
	assert.ErrorIs(t, err, common.ErrInvalidAllergen)

	assert.Equal(t, []Allergen{Gluten, Nuts, Dairy}, Allergens())
}
