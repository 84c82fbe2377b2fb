package recipe

import (
	"net/http"
	"time"

	"recipe-finder/internal/api/handlers"
	recipeService "recipe-finder/internal/core/recipe"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SearchRequest 搜尋請求
type SearchRequest struct {
	Ingredients []string `json:"ingredients" binding:"max=200,dive,max=100"`
	Allergens   []string `json:"allergens" binding:"max=10,dive,max=32"`
	Mode        string   `json:"mode" binding:"max=16"`
}

// ListResponse 食譜清單
type ListResponse struct {
	Count    int                    `json:"count"`
	LoadedAt *time.Time             `json:"loaded_at,omitempty"`
	Recipes  []recipeService.Recipe `json:"recipes"`
}

// IngredientsResponse 食材清單
type IngredientsResponse struct {
	Count       int      `json:"count"`
	Ingredients []string `json:"ingredients"`
}

// AllergenInfo 過敏原與其關鍵字
type AllergenInfo struct {
	Tag      recipeService.Allergen `json:"tag"`
	Keywords []string               `json:"keywords"`
}

// Handler 食譜處理程序
type Handler struct {
	service *recipeService.Service
}

// NewHandler 創建新的食譜處理程序
func NewHandler(service *recipeService.Service) *Handler {
	return &Handler{service: service}
}

// HandleList 列出目前所有食譜
func (h *Handler) HandleList(c *gin.Context) {
	catalog := h.service.Catalog()
	recipes := catalog.Recipes()

	resp := ListResponse{Count: len(recipes), Recipes: recipes}
	if catalog.Loaded() {
		t := catalog.LoadedAt()
		resp.LoadedAt = &t
	}
	c.JSON(http.StatusOK, resp)
}

// HandleGet 取得單一食譜
func (h *Handler) HandleGet(c *gin.Context) {
	r, ok := h.service.Catalog().Get(c.Param("id"))
	if !ok {
		handlers.RespondError(c, common.ErrRecipeNotFound)
		return
	}
	c.JSON(http.StatusOK, r)
}

// HandleIngredients 列出可選的食材
func (h *Handler) HandleIngredients(c *gin.Context) {
	ingredients := h.service.Catalog().Ingredients()
	c.JSON(http.StatusOK, IngredientsResponse{Count: len(ingredients), Ingredients: ingredients})
}

// HandleAllergens 列出支援的過敏原
func (h *Handler) HandleAllergens(c *gin.Context) {
	tags := recipeService.Allergens()
	out := make([]AllergenInfo, len(tags))
	for i, a := range tags {
		out[i] = AllergenInfo{Tag: a, Keywords: a.Keywords()}
	}
	c.JSON(http.StatusOK, gin.H{"allergens": out})
}

// HandleSearch 依食材與過敏原搜尋
func (h *Handler) HandleSearch(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestid.Get(c)),
		)
		handlers.RespondError(c, common.ErrInvalidRequest.Wrap(err))
		return
	}

	resp, err := h.service.Search(recipeService.SearchRequest{
		Ingredients: req.Ingredients,
		Allergens:   req.Allergens,
		Mode:        req.Mode,
	})
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	common.LogDebug("搜尋完成",
		zap.Strings("ingredients", req.Ingredients),
		zap.Strings("allergens", req.Allergens),
		zap.String("mode", string(resp.Mode)),
		zap.Int("count", resp.Count),
		zap.String("request_id", requestid.Get(c)),
	)
	c.JSON(http.StatusOK, resp)
}

// HandleReload 從來源重新載入食譜
func (h *Handler) HandleReload(c *gin.Context) {
	snap, err := h.service.Reload(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}
