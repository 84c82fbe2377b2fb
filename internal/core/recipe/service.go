package recipe

import (
	"context"
	"sync"
	"time"

	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// Loader 取得整批已標準化的食譜
type Loader interface {
	Name() string
	Load(ctx context.Context) ([]Recipe, error)
}

// Service 食譜服務：持有目前的集合、負責重新載入與搜尋
type Service struct {
	catalog *Catalog
	loader  Loader
	mode    Mode

	reloadMu sync.Mutex
}

// SearchRequest 搜尋條件
type SearchRequest struct {
	Ingredients []string `json:"ingredients"`
	Allergens   []string `json:"allergens"`
	Mode        string   `json:"mode,omitempty"`
}

// SearchResult 單筆搜尋結果
type SearchResult struct {
	Result
	Emojis string `json:"emojis"`
}

// SearchResponse 搜尋結果
type SearchResponse struct {
	Mode    Mode           `json:"mode"`
	Count   int            `json:"count"`
	Results []SearchResult `json:"results"`
}

// NewService 創建新的食譜服務，mode 為未指定模式時的預設值
func NewService(catalog *Catalog, loader Loader, mode Mode) *Service {
	return &Service{
		catalog: catalog,
		loader:  loader,
		mode:    mode,
	}
}

// Catalog 目前的食譜集合
func (s *Service) Catalog() *Catalog {
	return s.catalog
}

// Reload 從來源重新載入；失敗時保留原本的集合
func (s *Service) Reload(ctx context.Context) (Snapshot, error) {
	if !s.reloadMu.TryLock() {
		return Snapshot{}, common.ErrReloadInProgress
	}
	defer s.reloadMu.Unlock()

	source := s.loader.Name()
	start := time.Now()
	recipes, err := s.loader.Load(ctx)
	elapsed := time.Since(start)
	recipeLoadDuration.WithLabelValues(source).Observe(elapsed.Seconds())

	if err != nil {
		recipeLoads.WithLabelValues(source, "failure").Inc()
		common.LogError("食譜載入失敗",
			zap.String("source", source),
			zap.Duration("耗時", elapsed),
			zap.Error(err),
		)
		return s.catalog.Snapshot(), common.ErrSourceUnavailable.Wrap(err)
	}

	s.catalog.Replace(recipes)
	snap := s.catalog.Snapshot()
	recipeLoads.WithLabelValues(source, "success").Inc()
	catalogRecipes.Set(float64(snap.Count))
	catalogIngredients.Set(float64(snap.Ingredients))

	common.LogInfo("食譜載入完成",
		zap.String("source", source),
		zap.Int("recipes", snap.Count),
		zap.Int("ingredients", snap.Ingredients),
		zap.Duration("耗時", elapsed),
	)
	return snap, nil
}

// Search 依食材與過敏原搜尋目前的集合
func (s *Service) Search(req SearchRequest) (SearchResponse, error) {
	mode := s.mode
	if req.Mode != "" {
		m, err := ParseMode(req.Mode)
		if err != nil {
			return SearchResponse{}, err
		}
		mode = m
	}

	excluded, err := ParseAllergenSet(req.Allergens)
	if err != nil {
		return SearchResponse{}, err
	}

	ranked := NewMatcher(mode).Rank(s.catalog.Recipes(), NewTokenSet(req.Ingredients...), excluded)
	results := make([]SearchResult, len(ranked))
	for i, r := range ranked {
		results[i] = SearchResult{Result: r, Emojis: Emojis(r.Recipe)}
	}

	searchesTotal.WithLabelValues(string(mode)).Inc()
	searchResults.Observe(float64(len(results)))

	return SearchResponse{
		Mode:    mode,
		Count:   len(results),
		Results: results,
	}, nil
}
