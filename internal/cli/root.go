package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"recipe-finder/internal/core/cache"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/core/source"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/spf13/cobra"
)

var (
	sourceKind string
	sourceFile string
	matchMode  string
	logLevel   string
	outputJSON bool
)

var rootCmd = &cobra.Command{
	Use:   "recipectl",
	Short: "Search recipes by the ingredients you have",
	Long: `recipectl loads recipes from a local JSON file or TheMealDB and matches
them against the ingredients you have on hand, skipping recipes that contain
the allergens you exclude.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return common.InitStderrLogger(logLevel)
	},
}

// Execute 執行命令列，收到中斷信號時取消進行中的載入
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	common.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&sourceKind, "source", "", "recipe source: file or mealdb (default from config)")
	rootCmd.PersistentFlags().StringVarP(&sourceFile, "file", "f", "", "recipe JSON file for the file source")
	rootCmd.PersistentFlags().StringVar(&matchMode, "mode", "", "match mode: any or best (default from config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output as JSON")
}

// loadConfig 讀取設定並套用命令列覆寫
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if sourceFile != "" {
		cfg.Source.FilePath = sourceFile
		if sourceKind == "" {
			cfg.Source.Kind = config.SourceFile
		}
	}
	if sourceKind != "" {
		cfg.Source.Kind = sourceKind
	}
	if matchMode != "" {
		cfg.Match.Mode = matchMode
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// withService 建立並載入食譜服務，執行完畢後釋放快取
func withService(cmd *cobra.Command, fn func(*recipe.Service) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	responseCache, err := cache.New(cfg.Cache)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	defer responseCache.Close()

	loader, err := source.NewLoader(cfg.Source, responseCache)
	if err != nil {
		return err
	}
	mode, err := recipe.ParseMode(cfg.Match.Mode)
	if err != nil {
		return err
	}

	svc := recipe.NewService(recipe.NewCatalog(), loader, mode)
	if _, err := svc.Reload(cmd.Context()); err != nil {
		return err
	}
	return fn(svc)
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
