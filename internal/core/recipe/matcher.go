package recipe

import (
	"fmt"
	"sort"
	"strings"

	"recipe-finder/internal/pkg/common"
)

// Mode 比對模式
type Mode string

const (
	// ModeAny 至少一個食材被選取即保留
	ModeAny Mode = "any"
	// ModeBest 至少一半食材被選取才保留
	ModeBest Mode = "best"
)

// ParseMode 解析比對模式，空字串視為 any
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAny:
		return ModeAny, nil
	case ModeBest:
		return ModeBest, nil
	default:
		return "", common.ErrInvalidMatchMode.Wrap(fmt.Errorf("unknown match mode %q", s))
	}
}

// Policy 以比例門檻描述保留條件
type Policy struct {
	MinRatio  float64
	Inclusive bool
}

// Policy 模式對應的門檻：any 為 > 0，best 為 >= 0.5
func (m Mode) Policy() Policy {
	if m == ModeBest {
		return Policy{MinRatio: 0.5, Inclusive: true}
	}
	return Policy{MinRatio: 0, Inclusive: false}
}

// Accepts 判斷比例是否達到門檻
func (p Policy) Accepts(ratio float64) bool {
	if p.Inclusive {
		return ratio >= p.MinRatio
	}
	return ratio > p.MinRatio
}

// TokenSet 使用者選取的食材 token
type TokenSet map[string]struct{}

// NewTokenSet 正規化後建立集合，忽略空白項目
func NewTokenSet(raw ...string) TokenSet {
	set := make(TokenSet, len(raw))
	for _, r := range raw {
		if t := NormalizeIngredient(r); t != "" {
			set[t] = struct{}{}
		}
	}
	return set
}

// Contains 判斷 token 是否被選取
func (s TokenSet) Contains(token string) bool {
	_, ok := s[token]
	return ok
}

// Result 單筆比對結果
type Result struct {
	Recipe  Recipe  `json:"recipe"`
	Matched int     `json:"matched"`
	Total   int     `json:"total"`
	Ratio   float64 `json:"ratio"`
}

// Matcher 依選取食材與排除過敏原篩選食譜；無狀態，可並行使用
type Matcher struct {
	policy Policy
}

// NewMatcher 以模式建立 Matcher
func NewMatcher(mode Mode) *Matcher {
	return &Matcher{policy: mode.Policy()}
}

// NewMatcherWithPolicy 以自訂門檻建立 Matcher
func NewMatcherWithPolicy(p Policy) *Matcher {
	return &Matcher{policy: p}
}

// Policy 回傳目前的門檻
func (m *Matcher) Policy() Policy {
	return m.policy
}

// Rank 先排除含過敏原的食譜，再依比例篩選並以比例由高到低穩定排序
func (m *Matcher) Rank(recipes []Recipe, selected TokenSet, excluded AllergenSet) []Result {
	results := []Result{}
	if len(selected) == 0 {
		return results
	}

	for _, r := range recipes {
		if excluded.Excludes(r) {
			continue
		}
		matched := 0
		for _, tok := range r.Tokens {
			if selected.Contains(tok) {
				matched++
			}
		}
		ratio := 0.0
		if len(r.Tokens) > 0 {
			ratio = float64(matched) / float64(len(r.Tokens))
		}
		if !m.policy.Accepts(ratio) {
			continue
		}
		results = append(results, Result{
			Recipe:  r,
			Matched: matched,
			Total:   len(r.Tokens),
			Ratio:   ratio,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Ratio > results[j].Ratio
	})
	return results
}

// Match 同 Rank，只回傳食譜
func (m *Matcher) Match(recipes []Recipe, selected TokenSet, excluded AllergenSet) []Recipe {
	ranked := m.Rank(recipes, selected, excluded)
	out := make([]Recipe, len(ranked))
	for i, r := range ranked {
		out[i] = r.Recipe
	}
	return out
}
