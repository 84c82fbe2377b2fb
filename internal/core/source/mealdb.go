package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"recipe-finder/internal/core/cache"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrMealNotFound lookup.php 查無此 id
var ErrMealNotFound = errors.New("meal not found")

// TheMealDB 端點
const (
	endpointFilter = "filter.php"
	endpointLookup = "lookup.php"
	endpointSearch = "search.php"
)

// MealDBClient TheMealDB API 客戶端
type MealDBClient struct {
	client *resty.Client
	cache  cache.Cache
}

// NewMealDBClient 創建 TheMealDB 客戶端；c 為 nil 時不使用緩存
func NewMealDBClient(cfg config.MealDBConfig, c cache.Cache) *MealDBClient {
	if c == nil {
		c = cache.Nop{}
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "recipe-finder")

	return &MealDBClient{
		client: client,
		cache:  c,
	}
}

// FilterByIngredient 依主要食材列出食譜摘要
func (c *MealDBClient) FilterByIngredient(ctx context.Context, ingredient string) ([]recipe.MealSummary, error) {
	return c.filter(ctx, "i", ingredient)
}

// FilterByArea 依地區列出食譜摘要
func (c *MealDBClient) FilterByArea(ctx context.Context, area string) ([]recipe.MealSummary, error) {
	return c.filter(ctx, "a", area)
}

// FilterByCategory 依分類列出食譜摘要
func (c *MealDBClient) FilterByCategory(ctx context.Context, category string) ([]recipe.MealSummary, error) {
	return c.filter(ctx, "c", category)
}

func (c *MealDBClient) filter(ctx context.Context, param, value string) ([]recipe.MealSummary, error) {
	body, err := c.get(ctx, endpointFilter, url.Values{param: {value}})
	if err != nil {
		return nil, err
	}
	return decodeMeals[recipe.MealSummary](body)
}

// Lookup 取得單筆完整資料
func (c *MealDBClient) Lookup(ctx context.Context, id string) (recipe.Meal, error) {
	body, err := c.get(ctx, endpointLookup, url.Values{"i": {id}})
	if err != nil {
		return nil, err
	}
	meals, err := decodeMeals[recipe.Meal](body)
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 || meals[0] == nil {
		return nil, fmt.Errorf("%w: %s", ErrMealNotFound, id)
	}
	return meals[0], nil
}

// SearchByName 依名稱搜尋完整資料
func (c *MealDBClient) SearchByName(ctx context.Context, name string) ([]recipe.Meal, error) {
	body, err := c.get(ctx, endpointSearch, url.Values{"s": {name}})
	if err != nil {
		return nil, err
	}
	return decodeMeals[recipe.Meal](body)
}

// get 發送請求；只有成功且格式正確的響應會寫入緩存
func (c *MealDBClient) get(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	key := cache.Key(endpoint, query.Encode())
	if body, ok := c.cache.Get(ctx, key); ok {
		mealdbRequests.WithLabelValues(endpoint, "cached").Inc()
		return body, nil
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParamsFromValues(query).
		Get("/" + endpoint)
	elapsed := time.Since(start)
	mealdbRequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())

	if err == nil && resp.StatusCode() != http.StatusOK {
		err = fmt.Errorf("unexpected status %d", resp.StatusCode())
	}
	var body []byte
	if err == nil {
		body = resp.Body()
		err = validateEnvelope(body)
	}
	common.LogSourceCall(endpoint+"?"+query.Encode(), elapsed, err)
	if err != nil {
		mealdbRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("TheMealDB %s: %w", endpoint, err)
	}
	mealdbRequests.WithLabelValues(endpoint, "success").Inc()

	if err := c.cache.Set(ctx, key, body); err != nil {
		common.LogWarn("寫入快取失敗", zap.String("endpoint", endpoint), zap.Error(err))
	}
	return body, nil
}

type mealsEnvelope struct {
	Meals json.RawMessage `json:"meals"`
}

func validateEnvelope(body []byte) error {
	_, err := mealsPayload(body)
	return err
}

// mealsPayload 取出 meals 欄位；null 或缺少時回傳 nil
func mealsPayload(body []byte) (json.RawMessage, error) {
	var env mealsEnvelope
	if err := common.ParseJSONBytes(body, &env); err != nil {
		return nil, fmt.Errorf("malformed response: %w", err)
	}
	raw := bytes.TrimSpace(env.Meals)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] != '[' {
		return nil, fmt.Errorf("malformed response: meals is not an array")
	}
	return raw, nil
}

func decodeMeals[T any](body []byte) ([]T, error) {
	raw, err := mealsPayload(body)
	if err != nil || raw == nil {
		return nil, err
	}
	var out []T
	if err := common.ParseJSONBytes(raw, &out); err != nil {
		return nil, fmt.Errorf("malformed meals: %w", err)
	}
	return out, nil
}

// MealDBLoader 依設定的地區與分類從 TheMealDB 組出一批食譜
type MealDBLoader struct {
	client *MealDBClient
	cfg    config.MealDBConfig
}

// NewMealDBLoader 建立 TheMealDB 來源
func NewMealDBLoader(client *MealDBClient, cfg config.MealDBConfig) *MealDBLoader {
	return &MealDBLoader{client: client, cfg: cfg}
}

func (l *MealDBLoader) Name() string { return recipe.SourceMealDB }

// Load 先取得清單再逐筆查詢詳細資料；清單失敗時整批失敗，單筆查詢失敗時略過
func (l *MealDBLoader) Load(ctx context.Context) ([]recipe.Recipe, error) {
	ids, err := l.collectIDs(ctx)
	if err != nil {
		return nil, err
	}

	details := make([]*recipe.Recipe, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(l.cfg.Concurrency, 1))
	for i, id := range ids {
		g.Go(func() error {
			meal, err := l.client.Lookup(gctx, id)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				mealdbSkipped.Inc()
				common.LogWarn("略過無法取得的食譜", zap.String("id", id), zap.Error(err))
				return nil
			}
			r := recipe.NormalizeMeal(meal)
			details[i] = &r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load meal details: %w", err)
	}

	recipes := make([]recipe.Recipe, 0, len(ids))
	for _, r := range details {
		if r != nil {
			recipes = append(recipes, *r)
		}
	}
	return recipes, nil
}

type listQuery struct {
	kind  string
	value string
	limit int
}

// collectIDs 依序合併各清單的前 N 筆，依第一次出現的順序去重
func (l *MealDBLoader) collectIDs(ctx context.Context) ([]string, error) {
	var queries []listQuery
	for _, a := range l.cfg.Areas {
		queries = append(queries, listQuery{kind: "area", value: a, limit: l.cfg.PerArea})
	}
	for _, c := range l.cfg.Categories {
		queries = append(queries, listQuery{kind: "category", value: c, limit: l.cfg.PerCategory})
	}

	lists := make([][]recipe.MealSummary, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(l.cfg.Concurrency, 1))
	for i, q := range queries {
		g.Go(func() error {
			var (
				summaries []recipe.MealSummary
				err       error
			)
			if q.kind == "area" {
				summaries, err = l.client.FilterByArea(gctx, q.value)
			} else {
				summaries, err = l.client.FilterByCategory(gctx, q.value)
			}
			if err != nil {
				return fmt.Errorf("list %s %q: %w", q.kind, q.value, err)
			}
			if len(summaries) > q.limit {
				summaries = summaries[:q.limit]
			}
			lists[i] = summaries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var ids []string
	for _, list := range lists {
		for _, s := range list {
			id := strings.TrimSpace(s.ID)
			if id == "" {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	common.LogDebug("TheMealDB 清單已合併", zap.Int("lists", len(queries)), zap.Int("meals", len(ids)))
	return ids, nil
}
