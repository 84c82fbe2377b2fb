package api

import (
	"fmt"
	"time"

	"recipe-finder/internal/api/handlers"
	favoritesHandler "recipe-finder/internal/api/handlers/favorites"
	"recipe-finder/internal/api/handlers/health"
	recipeHandler "recipe-finder/internal/api/handlers/recipe"
	"recipe-finder/internal/api/middleware"
	"recipe-finder/internal/core/favorites"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Services 路由需要的服務
type Services struct {
	Recipes   *recipe.Service
	Favorites *favorites.Service
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, svc Services) (*gin.Engine, error) {
	if svc.Recipes == nil || svc.Favorites == nil {
		return nil, fmt.Errorf("recipe and favorites services are required")
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(common.GenerateUUID)))
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	router.Use(func(c *gin.Context) {
		c.Set(handlers.ConfigKey, cfg)
		c.Next()
	})

	// 健康檢查路由
	checker := health.NewChecker(svc.Recipes.Catalog())
	router.GET("/health", checker.HealthCheck)
	router.GET("/ready", checker.ReadinessCheck)
	router.GET("/live", checker.LivenessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API 路由組
	api := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	api.Use(middleware.NewDeduplicator(cfg.DedupWindow).Middleware())
	{
		recipes := recipeHandler.NewHandler(svc.Recipes)
		api.GET("/recipes", recipes.HandleList)
		api.GET("/recipes/:id", recipes.HandleGet)
		api.POST("/recipes/search", recipes.HandleSearch)
		api.POST("/recipes/reload", recipes.HandleReload)
		api.GET("/ingredients", recipes.HandleIngredients)
		api.GET("/allergens", recipes.HandleAllergens)

		favs := favoritesHandler.NewHandler(svc.Favorites, svc.Recipes.Catalog())
		userGroup := api.Group("/users/:user/favorites")
		{
			userGroup.GET("", favs.HandleList)
			userGroup.POST("", favs.HandleToggle)
			userGroup.DELETE("/:id", favs.HandleRemove)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.String("source", cfg.Source.Kind),
		zap.String("match_mode", cfg.Match.Mode),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("request_timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.MaxBodyBytes),
	)

	return router, nil
}
