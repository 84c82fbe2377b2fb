package recipe

import (
	"fmt"
	"strings"

	"recipe-finder/internal/pkg/common"
)

// MealDBSlots TheMealDB 每筆資料固定的食材欄位數
const MealDBSlots = 20

const untitledRecipe = "Untitled recipe"

// NormalizeFileRecord 將靜態檔案的食譜轉為標準格式；食材原樣轉小寫，不拆分份量
func NormalizeFileRecord(rec FileRecord) Recipe {
	name := recipeName(rec.Name)
	ingredients := make([]string, 0, len(rec.Ingredients))
	for _, ing := range rec.Ingredients {
		ing = strings.ToLower(strings.TrimSpace(ing))
		if ing == "" {
			continue
		}
		ingredients = append(ingredients, ing)
	}
	instructions, steps := FormatInstructions(rec.Instructions)

	r := Recipe{
		ID:              recipeID(rec.ID, name),
		Name:            name,
		Source:          SourceFile,
		Ingredients:     ingredients,
		Tokens:          NormalizeIngredients(ingredients),
		Instructions:    instructions,
		Steps:           steps,
		PrepTimeMinutes: copyInt(rec.PrepTimeMin),
		CookTimeMinutes: copyInt(rec.CookTimeMin),
		Heat:            rec.Heat,
	}
	if rec.Nutrition != nil {
		n := *rec.Nutrition
		r.Nutrition = &n
	}
	return r
}

// NormalizeMeal 將 TheMealDB 詳細資料轉為標準格式
func NormalizeMeal(meal Meal) Recipe {
	name := recipeName(meal.Field("strMeal"))
	ingredients := make([]string, 0, MealDBSlots)
	withMeasures := make([]string, 0, MealDBSlots)

	for i := 1; i <= MealDBSlots; i++ {
		ing := strings.TrimSpace(meal.Field(fmt.Sprintf("strIngredient%d", i)))
		if ing == "" {
			continue
		}
		ingredients = append(ingredients, strings.ToLower(ing))

		measure := strings.TrimSpace(meal.Field(fmt.Sprintf("strMeasure%d", i)))
		if measure != "" {
			withMeasures = append(withMeasures, measure+" "+ing)
		} else {
			withMeasures = append(withMeasures, ing)
		}
	}

	instructions, steps := FormatInstructions(meal.Field("strInstructions"))

	return Recipe{
		ID:                      recipeID(strings.TrimSpace(meal.Field("idMeal")), name),
		Name:                    name,
		Source:                  SourceMealDB,
		Ingredients:             ingredients,
		Tokens:                  NormalizeIngredients(ingredients),
		IngredientsWithMeasures: withMeasures,
		Instructions:            instructions,
		Steps:                   steps,
		Category:                strings.TrimSpace(meal.Field("strCategory")),
		Area:                    strings.TrimSpace(meal.Field("strArea")),
		Thumbnail:               strings.TrimSpace(meal.Field("strMealThumb")),
		Tags:                    splitTags(meal.Field("strTags")),
	}
}

func recipeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return untitledRecipe
	}
	return name
}

// recipeID 來源有 id 時沿用，否則由名稱推導
func recipeID(id, name string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return common.Slugify(name)
}

func splitTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
