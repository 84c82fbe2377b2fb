package recipe

import (
	"fmt"
	"strings"

	"recipe-finder/internal/pkg/common"
)

// Allergen 過敏原標籤
type Allergen string

const (
	Gluten Allergen = "gluten"
	Nuts   Allergen = "nuts"
	Dairy  Allergen = "dairy"
)

// allergenOrder 固定輸出順序
var allergenOrder = []Allergen{Gluten, Nuts, Dairy}

// allergenKeywords 以子字串比對食材
var allergenKeywords = map[Allergen][]string{
	Gluten: {"bread", "pasta", "naan", "flour", "noodle", "couscous"},
	Nuts:   {"nuts", "peanut", "almond", "cashew", "walnut", "pecan", "pistachio", "hazelnut"},
	Dairy:  {"cheese", "milk", "butter", "cream", "yogurt"},
}

// Allergens 回傳所有支援的過敏原
func Allergens() []Allergen {
	out := make([]Allergen, len(allergenOrder))
	copy(out, allergenOrder)
	return out
}

// ParseAllergen 解析過敏原標籤，大小寫不拘
func ParseAllergen(s string) (Allergen, error) {
	a := Allergen(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := allergenKeywords[a]; !ok {
		return "", common.ErrInvalidAllergen.Wrap(fmt.Errorf("unknown allergen %q", s))
	}
	return a, nil
}

// Keywords 回傳該過敏原的關鍵字副本
func (a Allergen) Keywords() []string {
	kw := allergenKeywords[a]
	out := make([]string, len(kw))
	copy(out, kw)
	return out
}

// Matches 判斷單一食材字串是否含有此過敏原的關鍵字
func (a Allergen) Matches(ingredient string) bool {
	for _, kw := range allergenKeywords[a] {
		if strings.Contains(ingredient, kw) {
			return true
		}
	}
	return false
}

// AllergenSet 排除的過敏原集合
type AllergenSet map[Allergen]struct{}

// NewAllergenSet 建立過敏原集合
func NewAllergenSet(tags ...Allergen) AllergenSet {
	set := make(AllergenSet, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return set
}

// ParseAllergenSet 解析字串清單，遇到未知標籤回傳錯誤
func ParseAllergenSet(raw []string) (AllergenSet, error) {
	set := make(AllergenSet, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(r) == "" {
			continue
		}
		a, err := ParseAllergen(r)
		if err != nil {
			return nil, err
		}
		set[a] = struct{}{}
	}
	return set, nil
}

// Contains 判斷集合是否包含該過敏原
func (s AllergenSet) Contains(a Allergen) bool {
	_, ok := s[a]
	return ok
}

// Excludes 食譜任一食材（原文或 token）含有集合中任一過敏原關鍵字即排除
func (s AllergenSet) Excludes(r Recipe) bool {
	for a := range s {
		for _, ing := range r.Ingredients {
			if a.Matches(ing) {
				return true
			}
		}
		for _, tok := range r.Tokens {
			if a.Matches(tok) {
				return true
			}
		}
	}
	return false
}
