package source

import (
	"context"
	"fmt"

	"recipe-finder/internal/core/cache"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/infrastructure/config"
)

// Loader 從某個來源取得整批標準化食譜；失敗時整批失敗
type Loader interface {
	Name() string
	Load(ctx context.Context) ([]recipe.Recipe, error)
}

var (
	_ Loader        = (*FileLoader)(nil)
	_ Loader        = (*MealDBLoader)(nil)
	_ recipe.Loader = Loader(nil)
)

// NewLoader 依設定建立來源
func NewLoader(cfg config.SourceConfig, c cache.Cache) (Loader, error) {
	switch cfg.Kind {
	case config.SourceFile:
		return NewFileLoader(cfg.FilePath), nil
	case config.SourceMealDB:
		return NewMealDBLoader(NewMealDBClient(cfg.MealDB, c), cfg.MealDB), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
}
