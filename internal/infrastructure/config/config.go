package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 來源類型
const (
	SourceFile   = "file"
	SourceMealDB = "mealdb"
)

// 快取 / 儲存後端
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config 應用配置
type Config struct {
	App          AppConfig       `mapstructure:"app"`
	Server       ServerConfig    `mapstructure:"server"`
	Source       SourceConfig    `mapstructure:"source"`
	Match        MatchConfig     `mapstructure:"match"`
	Cache        CacheConfig     `mapstructure:"cache"`
	Store        StoreConfig     `mapstructure:"store"`
	RateLimit    RateLimitConfig `mapstructure:"rate_limit"`
	DedupWindow  time.Duration   `mapstructure:"dedup_window"`
	MaxBodyBytes int64           `mapstructure:"max_body_bytes"`
	LogLevel     string          `mapstructure:"log_level"`
	LogFile      string          `mapstructure:"log_file"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// SourceConfig 食譜來源設定
type SourceConfig struct {
	Kind     string       `mapstructure:"kind"`
	FilePath string       `mapstructure:"file_path"`
	MealDB   MealDBConfig `mapstructure:"mealdb"`
}

// MealDBConfig TheMealDB 設定
type MealDBConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	Areas       []string      `mapstructure:"areas"`
	Categories  []string      `mapstructure:"categories"`
	PerArea     int           `mapstructure:"per_area"`
	PerCategory int           `mapstructure:"per_category"`
	Concurrency int           `mapstructure:"concurrency"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// MatchConfig 比對設定
type MatchConfig struct {
	Mode string `mapstructure:"mode"`
}

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Backend         string        `mapstructure:"backend"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	RedisAddr       string        `mapstructure:"redis_addr"`
}

// StoreConfig 我的最愛等使用者資料的儲存設定
type StoreConfig struct {
	Backend   string `mapstructure:"backend"`
	RedisAddr string `mapstructure:"redis_addr"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// .env 不存在時直接使用環境變數與預設值
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定常用環境變量
	_ = v.BindEnv("source.kind", "RECIPE_SOURCE")
	_ = v.BindEnv("source.file_path", "RECIPE_FILE")
	_ = v.BindEnv("source.mealdb.base_url", "MEALDB_BASE_URL")
	_ = v.BindEnv("match.mode", "MATCH_MODE")
	_ = v.BindEnv("cache.enabled", "CACHE_ENABLED")
	_ = v.BindEnv("cache.backend", "CACHE_BACKEND")
	_ = v.BindEnv("cache.redis_addr", "REDIS_ADDR")
	_ = v.BindEnv("store.backend", "STORE_BACKEND")
	_ = v.BindEnv("store.redis_addr", "REDIS_ADDR")
	_ = v.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	_ = v.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	_ = v.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	_ = v.BindEnv("dedup_window", "DEDUP_WINDOW")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("log_file", "LOG_FILE")
	_ = v.BindEnv("server.port", "PORT")

	// 設定設定檔名稱和路徑
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	// 讀取設定檔
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate 正規化列舉欄位後驗證設定；呼叫端覆寫設定後需再呼叫一次
func (c *Config) Validate() error {
	c.Source.Kind = strings.ToLower(strings.TrimSpace(c.Source.Kind))
	c.Match.Mode = strings.ToLower(strings.TrimSpace(c.Match.Mode))
	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))

	// 驗證必要設定
	if err := validateConfig(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Default 回傳只含預設值的設定，主要給測試使用
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := unmarshal(v)
	if err != nil {
		panic(fmt.Sprintf("default config is invalid: %v", err))
	}
	return cfg
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "recipe-finder")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "60s")

	// 食譜來源設定
	v.SetDefault("source.kind", SourceFile)
	v.SetDefault("source.file_path", "data/recipes.json")
	v.SetDefault("source.mealdb.base_url", "https://www.themealdb.com/api/json/v1/1")
	v.SetDefault("source.mealdb.areas", []string{"American", "British", "Italian", "French", "Mexican"})
	v.SetDefault("source.mealdb.categories", []string{"Chicken", "Beef", "Pasta"})
	v.SetDefault("source.mealdb.per_area", 8)
	v.SetDefault("source.mealdb.per_category", 5)
	v.SetDefault("source.mealdb.concurrency", 4)
	v.SetDefault("source.mealdb.timeout", "15s")

	// 比對設定
	v.SetDefault("match.mode", "any")

	// 快取設定
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.backend", BackendMemory)
	v.SetDefault("cache.max_size", 1000)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_interval", "10m")
	v.SetDefault("cache.redis_addr", "localhost:6379")

	// 儲存設定
	v.SetDefault("store.backend", BackendMemory)
	v.SetDefault("store.redis_addr", "localhost:6379")

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("dedup_window", "1s")
	v.SetDefault("max_body_bytes", 1<<20) // 1MB
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "logs/app.log")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port <= 0 {
		return fmt.Errorf("server port is required")
	}

	// 驗證來源設定
	switch config.Source.Kind {
	case SourceFile:
		if config.Source.FilePath == "" {
			return fmt.Errorf("source file path is required")
		}
	case SourceMealDB:
		m := config.Source.MealDB
		if m.BaseURL == "" {
			return fmt.Errorf("mealdb base url is required")
		}
		if m.Concurrency <= 0 {
			return fmt.Errorf("invalid mealdb concurrency")
		}
		if m.PerArea < 0 || m.PerCategory < 0 {
			return fmt.Errorf("invalid mealdb per-list limit")
		}
	default:
		return fmt.Errorf("unknown source kind %q", config.Source.Kind)
	}

	if config.Match.Mode != "any" && config.Match.Mode != "best" {
		return fmt.Errorf("unknown match mode %q", config.Match.Mode)
	}

	// 驗證快取設定
	if config.Cache.Enabled {
		switch config.Cache.Backend {
		case BackendMemory:
			if config.Cache.MaxSize <= 0 {
				return fmt.Errorf("invalid cache max size")
			}
			if config.Cache.CleanupInterval <= 0 {
				return fmt.Errorf("invalid cache cleanup interval")
			}
		case BackendRedis:
			if config.Cache.RedisAddr == "" {
				return fmt.Errorf("cache redis address is required")
			}
		default:
			return fmt.Errorf("unknown cache backend %q", config.Cache.Backend)
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
	}

	switch config.Store.Backend {
	case BackendMemory:
	case BackendRedis:
		if config.Store.RedisAddr == "" {
			return fmt.Errorf("store redis address is required")
		}
	default:
		return fmt.Errorf("unknown store backend %q", config.Store.Backend)
	}

	if config.RateLimit.Enabled && (config.RateLimit.Requests <= 0 || config.RateLimit.Window <= 0) {
		return fmt.Errorf("invalid rate limit")
	}

	return nil
}
