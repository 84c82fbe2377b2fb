package health

import (
	"net/http"
	"runtime"
	"time"

	"recipe-finder/internal/api/handlers"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Source    string                 `json:"source"`
	Catalog   recipe.Snapshot        `json:"catalog"`
	Runtime   map[string]interface{} `json:"runtime"`
}

// Checker 健康檢查處理器
type Checker struct {
	catalog *recipe.Catalog
}

// NewChecker 創建健康檢查處理器
func NewChecker(catalog *recipe.Catalog) *Checker {
	return &Checker{catalog: catalog}
}

// HealthCheck 健康檢查處理器
func (h *Checker) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	resp := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Catalog:   h.catalog.Snapshot(),
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}
	if cfg := handlers.Config(c); cfg != nil {
		resp.Version = cfg.App.Version
		resp.Source = cfg.Source.Kind
	}

	c.JSON(http.StatusOK, resp)
}

// ReadinessCheck 食譜集合載入成功後才算就緒
func (h *Checker) ReadinessCheck(c *gin.Context) {
	if !h.catalog.Loaded() {
		status, resp := common.ToResponse(common.ErrCatalogNotLoaded, false)
		c.JSON(status, gin.H{
			"status": "not_loaded",
			"error":  resp,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"recipes": h.catalog.Len(),
	})
}

// LivenessCheck 存活檢查處理器
func (h *Checker) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
