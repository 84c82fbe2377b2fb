package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-finder/internal/api"
	"recipe-finder/internal/core/cache"
	"recipe-finder/internal/core/favorites"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/core/source"
	"recipe-finder/internal/core/store"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("env", cfg.App.Env),
		zap.String("source", cfg.Source.Kind),
		zap.String("match_mode", cfg.Match.Mode),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.String("store_backend", cfg.Store.Backend),
	)

	// 初始化快取
	responseCache, err := cache.New(cfg.Cache)
	if err != nil {
		common.LogFatal("Failed to initialize cache", zap.Error(err))
	}
	defer responseCache.Close()

	// 初始化使用者資料儲存
	kv, err := store.New(cfg.Store)
	if err != nil {
		common.LogFatal("Failed to initialize store", zap.Error(err))
	}
	defer kv.Close()

	loader, err := source.NewLoader(cfg.Source, responseCache)
	if err != nil {
		common.LogFatal("Failed to initialize recipe source", zap.Error(err))
	}
	mode, err := recipe.ParseMode(cfg.Match.Mode)
	if err != nil {
		common.LogFatal("Invalid match mode", zap.Error(err))
	}

	recipes := recipe.NewService(recipe.NewCatalog(), loader, mode)

	// 首次載入失敗時以空集合提供服務，可稍後透過 reload 重試
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), cfg.Server.RequestTimeout)
	if _, err := recipes.Reload(loadCtx); err != nil {
		common.LogError("Initial recipe load failed, serving an empty catalog", zap.Error(err))
	}
	cancelLoad()

	// 設置路由
	router, err := api.SetupRouter(cfg, api.Services{
		Recipes:   recipes,
		Favorites: favorites.NewService(kv),
	})
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		return
	}

	common.LogInfo("Server exited")
}
