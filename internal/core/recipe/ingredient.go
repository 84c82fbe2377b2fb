package recipe

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// synonyms 食材別名對照，值必須是已正規化且不再對應的字串
var synonyms = map[string]string{
	"all-purpose flour":      "flour",
	"all purpose flour":      "flour",
	"plain flour":            "flour",
	"heavy cream":            "cream",
	"double cream":           "cream",
	"heavy whipping cream":   "cream",
	"whipping cream":         "cream",
	"single cream":           "cream",
	"egg":                    "eggs",
	"large eggs":             "eggs",
	"pea":                    "peas",
	"noodle":                 "noodles",
	"oat":                    "oats",
	"scallion":               "spring onion",
	"green onion":            "spring onion",
	"caster sugar":           "sugar",
	"granulated sugar":       "sugar",
	"white sugar":            "sugar",
	"extra virgin olive oil": "olive oil",
	"extra-virgin olive oil": "olive oil",
	"unsalted butter":        "butter",
	"salted butter":          "butter",
	"garlic clove":           "garlic",
	"minced garlic":          "garlic",
	"kosher salt":            "salt",
	"sea salt":               "salt",
	"table salt":             "salt",
	"ground black pepper":    "black pepper",
	"courgette":              "zucchini",
	"aubergine":              "eggplant",
}

// pluralExceptions 本身即為標準複數形的字
var pluralExceptions = map[string]bool{
	"peas":     true,
	"eggs":     true,
	"noodles":  true,
	"oats":     true,
	"grits":    true,
	"molasses": true,
	"greens":   true,
	"lentils":  true,
}

// irregularPlurals 不規則複數
var irregularPlurals = map[string]string{
	"leaves":  "leaf",
	"loaves":  "loaf",
	"halves":  "half",
	"cookies": "cookie",
	"knives":  "knife",
}

// NormalizeIngredient 將原始食材名稱轉為比對用的 token
func NormalizeIngredient(raw string) string {
	s := strings.ToLower(norm.NFKC.String(raw))
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	if syn, ok := synonyms[s]; ok {
		s = syn
	}
	s = singularizePhrase(s)
	if syn, ok := synonyms[s]; ok {
		s = syn
	}
	return s
}

// NormalizeIngredients 逐一正規化，保留順序與重複項目
func NormalizeIngredients(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		out = append(out, NormalizeIngredient(r))
	}
	return out
}

// singularizePhrase 只對最後一個字做單數化
func singularizePhrase(s string) string {
	i := strings.LastIndexByte(s, ' ')
	return s[:i+1] + singularize(s[i+1:])
}

func singularize(w string) string {
	if pluralExceptions[w] {
		return w
	}
	if irr, ok := irregularPlurals[w]; ok {
		return irr
	}
	if len(w) <= 3 {
		return w
	}
	switch {
	case strings.HasSuffix(w, "ies") && len(w) > 4:
		return w[:len(w)-3] + "y"
	case strings.HasSuffix(w, "oes"):
		return w[:len(w)-2]
	case strings.HasSuffix(w, "shes"), strings.HasSuffix(w, "ches"), strings.HasSuffix(w, "sses"):
		return w[:len(w)-2]
	case strings.HasSuffix(w, "ss"), strings.HasSuffix(w, "us"), strings.HasSuffix(w, "is"):
		return w
	case strings.HasSuffix(w, "s"):
		return w[:len(w)-1]
	}
	return w
}

// IngredientUniverse 所有食譜 token 的去重排序集合
func IngredientUniverse(recipes []Recipe) []string {
	seen := make(map[string]struct{})
	for _, r := range recipes {
		for _, t := range r.Tokens {
			if t != "" {
				seen[t] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// emojiTable 依序比對子字串，第一個符合者勝出
var emojiTable = []struct {
	key   string
	emoji string
}{
	{"bread", "🥖"},
	{"pasta", "🍝"},
	{"cheese", "🧀"},
	{"milk", "🥛"},
	{"nuts", "🌰"},
	{"eggs", "🥚"},
	{"butter", "🧈"},
	{"avocado", "🥑"},
	{"tomato", "🍅"},
	{"banana", "🍌"},
	{"strawberry", "🍓"},
	{"lettuce", "🥬"},
	{"rice", "🍚"},
	{"peanut butter", "🥜"},
	{"jelly", "🍇"},
	{"naan", "🍞"},
	{"soy sauce", "🧂"},
	{"olive oil", "🫒"},
	{"salt", "🧂"},
	{"chicken", "🍗"},
	{"beef", "🥩"},
	{"bacon", "🥓"},
	{"shrimp", "🦐"},
	{"fish", "🐟"},
	{"potato", "🥔"},
	{"onion", "🧅"},
	{"garlic", "🧄"},
	{"carrot", "🥕"},
	{"mushroom", "🍄"},
	{"broccoli", "🥦"},
	{"corn", "🌽"},
	{"lemon", "🍋"},
	{"apple", "🍎"},
}

// Emoji 回傳食材對應的表情符號，沒有對應時為空字串
func Emoji(ingredient string) string {
	ingredient = strings.ToLower(ingredient)
	for _, e := range emojiTable {
		if strings.Contains(ingredient, e.key) {
			return e.emoji
		}
	}
	return ""
}

// Emojis 食譜所有食材的表情符號，以空白連接
func Emojis(r Recipe) string {
	var parts []string
	for _, ing := range r.Ingredients {
		if e := Emoji(ing); e != "" {
			parts = append(parts, e)
		}
	}
	return strings.Join(parts, " ")
}
