package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvProduction 正式環境名稱
const EnvProduction = "PROD"

// productionOrigin 前端正式網域，任何環境都允許
const productionOrigin = "https://app.sharpcooking.net"

// developmentOrigins 非正式環境額外允許的來源
var developmentOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8000",
	"http://localhost:8080",
}

// Config 應用配置
type Config struct {
	App         AppConfig       `mapstructure:"app"`
	Server      ServerConfig    `mapstructure:"server"`
	CORS        CORSConfig      `mapstructure:"cors"`
	Scraper     ScraperConfig   `mapstructure:"scraper"`
	Image       ImageConfig     `mapstructure:"image"`
	Backup      BackupConfig    `mapstructure:"backup"`
	Cache       CacheConfig     `mapstructure:"cache"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	DedupWindow time.Duration   `mapstructure:"dedup_window"`
	LogLevel    string          `mapstructure:"log_level"`
	LogDir      string          `mapstructure:"log_dir"`
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
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	// RequestTimeout 單一請求（含抓取網頁與下載圖片）的上限
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// CORSConfig 跨來源設定，AllowOrigins 為空時依環境產生
type CORSConfig struct {
	AllowOrigins []string      `mapstructure:"allow_origins"`
	MaxAge       time.Duration `mapstructure:"max_age"`
}

// ScraperConfig 網頁抓取設定
type ScraperConfig struct {
	Timeout    time.Duration `mapstructure:"timeout"`
	UserAgent  string        `mapstructure:"user_agent"`
	HostRPS    float64       `mapstructure:"host_rps"`
	MaxRetries int           `mapstructure:"max_retries"`
}

// ImageConfig 圖片配置
type ImageConfig struct {
	MaxSizeBytes int64 `mapstructure:"max_size_bytes"`
	Width        int   `mapstructure:"width"`
	Height       int   `mapstructure:"height"`
	Quality      int   `mapstructure:"quality"`
}

// BackupConfig 備份檔匯入設定
type BackupConfig struct {
	MaxSizeBytes int64 `mapstructure:"max_size_bytes"`
	Workers      int   `mapstructure:"workers"`
}

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Driver          string        `mapstructure:"driver"`
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisDB         int           `mapstructure:"redis_db"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// IsProduction 是否為正式環境
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, EnvProduction)
}

// AllowedOrigins 取得 CORS 允許的來源
func (c *Config) AllowedOrigins() []string {
	if len(c.CORS.AllowOrigins) > 0 {
		return c.CORS.AllowOrigins
	}
	origins := []string{productionOrigin}
	if !c.IsProduction() {
		origins = append(origins, developmentOrigins...)
	}
	return origins
}

// LoadConfig 載入設定，.env 不存在時只使用環境變數與預設值
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()

	// 設定預設值
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	_ = v.BindEnv("app.env", "APP_ENVIRONMENT", "APP_APP_ENV")
	_ = v.BindEnv("server.port", "PORT", "APP_SERVER_PORT")
	_ = v.BindEnv("cache.enabled", "CACHE_ENABLED", "APP_CACHE_ENABLED")
	_ = v.BindEnv("cache.driver", "CACHE_DRIVER", "APP_CACHE_DRIVER")
	_ = v.BindEnv("cache.redis_addr", "REDIS_ADDR", "APP_CACHE_REDIS_ADDR")
	_ = v.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED", "APP_RATE_LIMIT_ENABLED")
	_ = v.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS", "APP_RATE_LIMIT_REQUESTS")
	_ = v.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW", "APP_RATE_LIMIT_WINDOW")
	_ = v.BindEnv("dedup_window", "DEDUP_WINDOW", "APP_DEDUP_WINDOW")
	_ = v.BindEnv("log_level", "LOG_LEVEL", "APP_LOG_LEVEL")
	_ = v.BindEnv("log_dir", "LOG_DIR", "APP_LOG_DIR")

	// 設定檔名稱和路徑
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.Cache.Driver = strings.ToLower(strings.TrimSpace(config.Cache.Driver))

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "DEV")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "sharp-cooking-api")

	// 伺服器設定
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "45s")

	v.SetDefault("cors.allow_origins", []string{})
	v.SetDefault("cors.max_age", "12h")

	// 網頁抓取
	v.SetDefault("scraper.timeout", "15s")
	v.SetDefault("scraper.user_agent", "Mozilla/5.0 (compatible; SharpCookingBot/1.0; +https://sharpcooking.net)")
	v.SetDefault("scraper.host_rps", 2.0)
	v.SetDefault("scraper.max_retries", 1)

	// 圖片設定
	v.SetDefault("image.max_size_bytes", 10*1024*1024) // 10MB
	v.SetDefault("image.width", 1024)
	v.SetDefault("image.height", 768)
	v.SetDefault("image.quality", 85)

	// 備份檔
	v.SetDefault("backup.max_size_bytes", 100*1024*1024)
	v.SetDefault("backup.workers", 4)

	// 快取設定
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.driver", "memory")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.max_size", 500)
	v.SetDefault("cache.ttl", "6h")
	v.SetDefault("cache.cleanup_interval", "10m")

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 60)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("dedup_window", "1s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_dir", "logs")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 {
		return fmt.Errorf("server port is required")
	}
	if config.Server.RequestTimeout <= 0 {
		return fmt.Errorf("invalid request timeout")
	}

	if config.Image.MaxSizeBytes <= 0 {
		return fmt.Errorf("invalid image max size")
	}
	if config.Image.Width <= 0 || config.Image.Height <= 0 {
		return fmt.Errorf("invalid image dimensions %dx%d", config.Image.Width, config.Image.Height)
	}
	if config.Image.Quality < 1 || config.Image.Quality > 100 {
		return fmt.Errorf("invalid image quality %d", config.Image.Quality)
	}

	if config.Backup.MaxSizeBytes <= 0 {
		return fmt.Errorf("invalid backup max size")
	}
	if config.Backup.Workers <= 0 {
		return fmt.Errorf("invalid backup workers")
	}

	if config.Scraper.Timeout <= 0 {
		return fmt.Errorf("invalid scraper timeout")
	}
	if config.Scraper.HostRPS <= 0 {
		return fmt.Errorf("invalid scraper host rps")
	}

	// 驗證快取設定
	if config.Cache.Enabled {
		switch config.Cache.Driver {
		case "memory":
			if config.Cache.MaxSize <= 0 {
				return fmt.Errorf("invalid cache max size")
			}
			if config.Cache.CleanupInterval <= 0 {
				return fmt.Errorf("invalid cache cleanup interval")
			}
		case "redis":
			if config.Cache.RedisAddr == "" {
				return fmt.Errorf("redis address is required")
			}
		default:
			return fmt.Errorf("unknown cache driver %q", config.Cache.Driver)
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
	}

	if config.RateLimit.Enabled {
		if config.RateLimit.Requests <= 0 {
			return fmt.Errorf("invalid rate limit requests")
		}
		if config.RateLimit.Window <= 0 {
			return fmt.Errorf("invalid rate limit window")
		}
	}

	return nil
}
