package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"recipe-finder/internal/core/favorites"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/core/store"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLoader struct {
	recipes []recipe.Recipe
	err     error
}

func (l *stubLoader) Name() string { return "stub" }

func (l *stubLoader) Load(context.Context) ([]recipe.Recipe, error) {
	return l.recipes, l.err
}

func testRecipes() []recipe.Recipe {
	return []recipe.Recipe{
		recipe.NormalizeFileRecord(recipe.FileRecord{
			Name:         "Grilled Cheese",
			Ingredients:  []string{"bread", "cheese", "butter"},
			Instructions: "Toast bread. Add cheese. Grill in butter.",
		}),
		recipe.NormalizeFileRecord(recipe.FileRecord{
			ID:          "salad-1",
			Name:        "Garden Salad",
			Ingredients: []string{"lettuce", "tomatoes", "olive oil"},
		}),
	}
}

type testServer struct {
	router  *gin.Engine
	loader  *stubLoader
	service *recipe.Service
}

func newTestServer(t *testing.T, mutate func(*config.Config)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}

	loader := &stubLoader{recipes: testRecipes()}
	svc := recipe.NewService(recipe.NewCatalog(), loader, recipe.ModeAny)
	router, err := SetupRouter(cfg, Services{
		Recipes:   svc,
		Favorites: favorites.NewService(store.NewMemoryStore()),
	})
	require.NoError(t, err)

	return &testServer{router: router, loader: loader, service: svc}
}

func (s *testServer) load(t *testing.T) {
	t.Helper()
	_, err := s.service.Reload(context.Background())
	require.NoError(t, err)
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestSetupRouterRequiresServices(t *testing.T) {
	_, err := SetupRouter(config.Default(), Services{})
	assert.Error(t, err)
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, nil)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/live", "").Code)
	w := s.do(t, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	notReady := decode[map[string]any](t, w)
	assert.Equal(t, "not_loaded", notReady["status"])
	assert.Equal(t, "CATALOG_NOT_LOADED", notReady["error"].(map[string]any)["code"])

	s.load(t)
	w = s.do(t, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/health", "")
	health := decode[map[string]any](t, w)
	assert.Equal(t, "file", health["source"])

	w = s.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "recipe_finder_http_requests_in_flight")
}

func TestRecipeEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	s.load(t)

	w := s.do(t, http.MethodGet, "/api/v1/recipes", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[map[string]any](t, w)
	assert.EqualValues(t, 2, list["count"])
	assert.NotEmpty(t, list["loaded_at"])

	w = s.do(t, http.MethodGet, "/api/v1/recipes/grilled-cheese", "")
	require.Equal(t, http.StatusOK, w.Code)
	r := decode[recipe.Recipe](t, w)
	assert.Equal(t, "Grilled Cheese", r.Name)

	w = s.do(t, http.MethodGet, "/api/v1/recipes/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "RECIPE_NOT_FOUND", decode[common.ErrorResponse](t, w).Code)

	w = s.do(t, http.MethodGet, "/api/v1/ingredients", "")
	require.Equal(t, http.StatusOK, w.Code)
	ing := decode[struct {
		Count       int      `json:"count"`
		Ingredients []string `json:"ingredients"`
	}](t, w)
	assert.Equal(t, []string{"bread", "butter", "cheese", "lettuce", "olive oil", "tomato"}, ing.Ingredients)

	w = s.do(t, http.MethodGet, "/api/v1/allergens", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"tag":"dairy"`)
}

type searchBody struct {
	Mode    string `json:"mode"`
	Count   int    `json:"count"`
	Results []struct {
		Recipe recipe.Recipe `json:"recipe"`
		Emojis string        `json:"emojis"`
		Ratio  float64       `json:"ratio"`
	} `json:"results"`
}

func TestSearch(t *testing.T) {
	s := newTestServer(t, nil)
	s.load(t)

	w := s.do(t, http.MethodPost, "/api/v1/recipes/search", `{"ingredients":["cheese"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode[searchBody](t, w)
	assert.Equal(t, "any", body.Mode)
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "Grilled Cheese", body.Results[0].Recipe.Name)
	assert.Equal(t, "🥖 🧀 🧈", body.Results[0].Emojis)

	w = s.do(t, http.MethodPost, "/api/v1/recipes/search", `{"ingredients":["cheese"],"allergens":["dairy"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"mode":"any","count":0,"results":[]}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/v1/recipes/search", `{"ingredients":["Tomatoes","lettuce"],"mode":"best"}`)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode[searchBody](t, w)
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "salad-1", body.Results[0].Recipe.ID)
	assert.InDelta(t, 2.0/3.0, body.Results[0].Ratio, 1e-9)
}

func TestSearchRejectsBadInput(t *testing.T) {
	s := newTestServer(t, nil)
	s.load(t)

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"unknown allergen", `{"ingredients":["bread"],"allergens":["shellfish"]}`, "INVALID_ALLERGEN"},
		{"unknown mode", `{"ingredients":["bread"],"mode":"fuzzy"}`, "INVALID_MATCH_MODE"},
		{"malformed json", `{"ingredients":`, "INVALID_REQUEST"},
		{"wrong type", `{"ingredients":"bread"}`, "INVALID_REQUEST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/v1/recipes/search", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantCode, decode[common.ErrorResponse](t, w).Code)
		})
	}
}

func TestReload(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) { c.DedupWindow = time.Millisecond })

	w := s.do(t, http.MethodPost, "/api/v1/recipes/reload", "")
	require.Equal(t, http.StatusOK, w.Code)
	snap := decode[recipe.Snapshot](t, w)
	assert.Equal(t, 2, snap.Count)

	s.loader.err = errors.New("upstream down")
	s.loader.recipes = nil
	time.Sleep(5 * time.Millisecond)

	w = s.do(t, http.MethodPost, "/api/v1/recipes/reload", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	resp := decode[common.ErrorResponse](t, w)
	assert.Equal(t, "SOURCE_UNAVAILABLE", resp.Code)
	assert.Contains(t, resp.Details, "upstream down")

	assert.Equal(t, 2, s.service.Catalog().Len())
}

func TestFavorites(t *testing.T) {
	s := newTestServer(t, nil)
	s.load(t)

	w := s.do(t, http.MethodPost, "/api/v1/users/alice/favorites", `{"recipe_id":"grilled-cheese"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"recipe_id":"grilled-cheese","added":true}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/users/alice/favorites", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Count     int                  `json:"count"`
		Favorites []favorites.Favorite `json:"favorites"`
	}](t, w)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "Grilled Cheese", list.Favorites[0].Name)

	w = s.do(t, http.MethodPost, "/api/v1/users/alice/favorites", `{"recipe_id":"missing"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/users/alice/favorites", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodDelete, "/api/v1/users/alice/favorites/grilled-cheese", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodDelete, "/api/v1/users/alice/favorites/grilled-cheese", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDuplicatePostRejected(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) { c.DedupWindow = time.Minute })
	s.load(t)

	body := `{"ingredients":["bread"]}`
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/v1/recipes/search", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, s.do(t, http.MethodPost, "/api/v1/recipes/search", body).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/v1/recipes/search", `{"ingredients":["butter"]}`).Code)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) {
		c.RateLimit.Enabled = true
		c.RateLimit.Requests = 2
		c.RateLimit.Window = time.Hour
	})

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/allergens", "").Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/allergens", "").Code)
	w := s.do(t, http.MethodGet, "/api/v1/allergens", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", "").Code, "health is not rate limited")
}

func TestBodySizeLimit(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) { c.MaxBodyBytes = 64 })

	big := `{"ingredients":["` + strings.Repeat("a", 100) + `"]}`
	w := s.do(t, http.MethodPost, "/api/v1/recipes/search", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do(t, http.MethodGet, "/live", "")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
