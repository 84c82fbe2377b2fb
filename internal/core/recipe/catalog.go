package recipe

import (
	"sync/atomic"
	"time"
)

// Catalog 保存目前載入的食譜集合；重新載入時整批替換，讀取端永遠看到完整的一版
type Catalog struct {
	current atomic.Pointer[snapshot]
}

type snapshot struct {
	recipes     []Recipe
	byID        map[string]int
	ingredients []string
	loadedAt    time.Time
}

// NewCatalog 建立空的食譜集合
func NewCatalog() *Catalog {
	c := &Catalog{}
	c.current.Store(&snapshot{byID: map[string]int{}})
	return c
}

// Replace 以新集合整批替換
func (c *Catalog) Replace(recipes []Recipe) {
	owned := make([]Recipe, len(recipes))
	copy(owned, recipes)

	byID := make(map[string]int, len(owned))
	for i, r := range owned {
		if _, dup := byID[r.ID]; !dup {
			byID[r.ID] = i
		}
	}

	c.current.Store(&snapshot{
		recipes:     owned,
		byID:        byID,
		ingredients: IngredientUniverse(owned),
		loadedAt:    time.Now(),
	})
}

// Recipes 回傳目前所有食譜
func (c *Catalog) Recipes() []Recipe {
	s := c.current.Load()
	out := make([]Recipe, len(s.recipes))
	copy(out, s.recipes)
	return out
}

// Get 依 id 取得食譜
func (c *Catalog) Get(id string) (Recipe, bool) {
	s := c.current.Load()
	i, ok := s.byID[id]
	if !ok {
		return Recipe{}, false
	}
	return s.recipes[i], true
}

// Ingredients 目前集合的食材 token 清單
func (c *Catalog) Ingredients() []string {
	s := c.current.Load()
	out := make([]string, len(s.ingredients))
	copy(out, s.ingredients)
	return out
}

// Len 食譜數量
func (c *Catalog) Len() int {
	return len(c.current.Load().recipes)
}

// Loaded 是否已載入過
func (c *Catalog) Loaded() bool {
	return !c.current.Load().loadedAt.IsZero()
}

// Snapshot 目前集合的摘要
func (c *Catalog) Snapshot() Snapshot {
	s := c.current.Load()
	return Snapshot{
		Count:       len(s.recipes),
		Ingredients: len(s.ingredients),
		LoadedAt:    s.loadedAt,
	}
}

// LoadedAt 最近一次載入時間，未載入時為零值
func (c *Catalog) LoadedAt() time.Time {
	return c.current.Load().loadedAt
}
