package favorites

import (
	"net/http"

	"recipe-finder/internal/api/handlers"
	favoriteService "recipe-finder/internal/core/favorites"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// ToggleRequest 切換收藏
type ToggleRequest struct {
	RecipeID string `json:"recipe_id" binding:"required"`
}

// Handler 我的最愛處理程序
type Handler struct {
	service *favoriteService.Service
	catalog *recipe.Catalog
}

// NewHandler 創建我的最愛處理程序
func NewHandler(service *favoriteService.Service, catalog *recipe.Catalog) *Handler {
	return &Handler{service: service, catalog: catalog}
}

// HandleList 列出使用者收藏
func (h *Handler) HandleList(c *gin.Context) {
	user := c.Param("user")
	favs, err := h.service.List(c.Request.Context(), user)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":      user,
		"count":     len(favs),
		"favorites": favs,
	})
}

// HandleToggle 加入或移除收藏
func (h *Handler) HandleToggle(c *gin.Context) {
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondError(c, common.ErrInvalidRequest.Wrap(err))
		return
	}

	r, ok := h.catalog.Get(req.RecipeID)
	if !ok {
		handlers.RespondError(c, common.ErrRecipeNotFound)
		return
	}

	added, err := h.service.Toggle(c.Request.Context(), c.Param("user"), r)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"recipe_id": r.ID,
		"added":     added,
	})
}

// HandleRemove 移除收藏
func (h *Handler) HandleRemove(c *gin.Context) {
	removed, err := h.service.Remove(c.Request.Context(), c.Param("user"), c.Param("id"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	if !removed {
		handlers.RespondError(c, common.ErrNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}
