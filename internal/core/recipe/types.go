package recipe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// 食譜來源標記
const (
	SourceFile   = "file"
	SourceMealDB = "themealdb"
)

// Recipe 標準化後的食譜，建立後不可修改；切片欄位一律視為唯讀
type Recipe struct {
	ID                      string     `json:"id"`
	Name                    string     `json:"name"`
	Source                  string     `json:"source"`
	Ingredients             []string   `json:"ingredients"`
	Tokens                  []string   `json:"tokens"`
	IngredientsWithMeasures []string   `json:"ingredients_with_measures,omitempty"`
	Instructions            string     `json:"instructions"`
	Steps                   []string   `json:"steps,omitempty"`
	Nutrition               *Nutrition `json:"nutrition,omitempty"`
	PrepTimeMinutes         *int       `json:"prep_time_min,omitempty"`
	CookTimeMinutes         *int       `json:"cook_time_min,omitempty"`
	Heat                    Heat       `json:"heat,omitempty"`
	Category                string     `json:"category,omitempty"`
	Area                    string     `json:"area,omitempty"`
	Thumbnail               string     `json:"thumbnail,omitempty"`
	Tags                    []string   `json:"tags,omitempty"`
}

// TotalTimeMinutes 準備與烹調時間總和，兩者皆缺時回傳 false
func (r Recipe) TotalTimeMinutes() (int, bool) {
	if r.PrepTimeMinutes == nil && r.CookTimeMinutes == nil {
		return 0, false
	}
	total := 0
	if r.PrepTimeMinutes != nil {
		total += *r.PrepTimeMinutes
	}
	if r.CookTimeMinutes != nil {
		total += *r.CookTimeMinutes
	}
	return total, true
}

// Nutrition 營養資訊
type Nutrition struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	FatG     float64 `json:"fat_g"`
	CarbsG   float64 `json:"carbs_g"`
}

// Heat 辣度，原始資料可能是字串或數字
type Heat string

// UnmarshalJSON 接受字串、數字或 null
func (h *Heat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*h = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*h = Heat(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("heat must be a string or number: %w", err)
	}
	*h = Heat(n.String())
	return nil
}

// FileRecord 靜態 JSON 檔中的單筆食譜
type FileRecord struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Ingredients  []string   `json:"ingredients"`
	Instructions string     `json:"instructions"`
	PrepTimeMin  *int       `json:"prep_time_min"`
	CookTimeMin  *int       `json:"cook_time_min"`
	Heat         Heat       `json:"heat"`
	Nutrition    *Nutrition `json:"nutrition"`
}

// Meal TheMealDB 的單筆詳細資料，欄位為 strXxx 形式的字串或 null
type Meal map[string]any

// Field 取得字串欄位，缺少或型別不符時回傳空字串
func (m Meal) Field(key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

// MealSummary filter.php 回傳的清單項目
type MealSummary struct {
	ID        string `json:"idMeal"`
	Name      string `json:"strMeal"`
	Thumbnail string `json:"strMealThumb"`
}

// Snapshot 目前載入的食譜集合摘要
type Snapshot struct {
	Count       int       `json:"count"`
	Ingredients int       `json:"ingredients"`
	LoadedAt    time.Time `json:"loaded_at"`
}
