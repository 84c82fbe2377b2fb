package source

import (
	"context"
	"fmt"
	"os"
	"strings"

	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// FileLoader 從本機 JSON 檔讀取食譜陣列
type FileLoader struct {
	Path string
}

// NewFileLoader 建立檔案來源
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{Path: path}
}

func (l *FileLoader) Name() string { return recipe.SourceFile }

// Load 讀取整個檔案；單筆格式錯誤時略過該筆
func (l *FileLoader) Load(ctx context.Context) ([]recipe.Recipe, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("read recipe file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	items, err := common.SplitJSONArray(data)
	if err != nil {
		return nil, fmt.Errorf("parse recipe file %s: %w", l.Path, err)
	}

	recipes := make([]recipe.Recipe, 0, len(items))
	derived := make([]bool, 0, len(items))
	for i, item := range items {
		var rec recipe.FileRecord
		if err := common.ParseJSONBytes(item, &rec); err != nil {
			common.LogWarn("略過格式錯誤的食譜",
				zap.String("file", l.Path),
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		if rec.Ingredients == nil {
			common.LogWarn("略過缺少食材的食譜",
				zap.String("file", l.Path),
				zap.Int("index", i),
				zap.String("name", rec.Name),
			)
			continue
		}
		recipes = append(recipes, recipe.NormalizeFileRecord(rec))
		derived = append(derived, strings.TrimSpace(rec.ID) == "")
	}
	uniqueDerivedIDs(recipes, derived)

	common.LogDebug("食譜檔案已讀取",
		zap.String("file", l.Path),
		zap.Int("records", len(items)),
		zap.Int("recipes", len(recipes)),
	)
	return recipes, nil
}

// uniqueDerivedIDs 名稱推導出的 id 重複時依載入順序加上 -2、-3 後綴；檔案自帶的 id 不變
func uniqueDerivedIDs(recipes []recipe.Recipe, derived []bool) {
	used := make(map[string]bool, len(recipes))
	for i, r := range recipes {
		if !derived[i] {
			used[r.ID] = true
		}
	}
	for i := range recipes {
		if !derived[i] {
			continue
		}
		base := recipes[i].ID
		id := base
		for n := 2; used[id]; n++ {
			id = fmt.Sprintf("%s-%d", base, n)
		}
		used[id] = true
		recipes[i].ID = id
	}
}
