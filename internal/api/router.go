package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jlucaspains/sharp-cooking-api/internal/api/handlers/health"
	recipeHandler "github.com/jlucaspains/sharp-cooking-api/internal/api/handlers/recipe"
	"github.com/jlucaspains/sharp-cooking-api/internal/api/middleware"
	"github.com/jlucaspains/sharp-cooking-api/internal/core/cache"
	"github.com/jlucaspains/sharp-cooking-api/internal/core/image"
	"github.com/jlucaspains/sharp-cooking-api/internal/core/parser"
	recipeService "github.com/jlucaspains/sharp-cooking-api/internal/core/recipe"
	"github.com/jlucaspains/sharp-cooking-api/internal/core/scraper"
	"github.com/jlucaspains/sharp-cooking-api/internal/infrastructure/config"
	"github.com/jlucaspains/sharp-cooking-api/internal/pkg/common"
)

const (
	// maxJSONBodySize JSON 請求體大小限制 (1MB)
	maxJSONBodySize = 1 << 20
	// multipartOverhead multipart 邊界與標頭預留的空間
	multipartOverhead = 64 << 10
)

// SetupRouter 設置路由並初始化服務，store 為 nil 時不快取；回傳的 func 停止背景清理協程
func SetupRouter(cfg *config.Config, store cache.Store) (*gin.Engine, func(), error) {
	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", store != nil),
		zap.Duration("scraper_timeout", cfg.Scraper.Timeout),
		zap.Float64("scraper_host_rps", cfg.Scraper.HostRPS),
		zap.Int("backup_workers", cfg.Backup.Workers),
	)

	// 網頁與圖片下載共用同一個 HTTP 客戶端
	client := scraper.NewClient(cfg.Scraper)
	hostLimiter := scraper.NewHostLimiter(cfg.Scraper.HostRPS)
	pageScraper := scraper.NewHTMLScraper(client, hostLimiter)
	imageSvc := image.NewService(cfg.Image, client)

	// 單位對照表只在啟動時建立一次，之後唯讀共用
	catalog := parser.DefaultUnitCatalog()

	svc := recipeService.NewService(pageScraper, imageSvc, store, catalog, cfg.Backup.Workers)

	common.LogInfo("Recipe services initialized successfully",
		zap.Int("unit_forms", catalog.Len()),
		zap.String("environment", cfg.App.Env),
	)

	router, closeRouter := NewRouter(cfg, svc, store)
	return router, func() {
		closeRouter()
		hostLimiter.Close()
	}, nil
}

// NewRouter 以既有的服務建立路由，回傳的 func 停止中間件的清理協程
func NewRouter(cfg *config.Config, svc recipeHandler.Service, store cache.Store) (*gin.Engine, func()) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New()) // 自動生成請求 ID
	router.Use(middleware.Logger())

	// CORS 設置
	origins := cfg.AllowedOrigins()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	var closers []func()
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
		closers = append(closers, limiter.Close)
		router.Use(limiter.Middleware())
	}
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	router.NoRoute(func(c *gin.Context) {
		common.WriteError(c, common.ErrNotFound, false)
	})

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg.App.Version, store)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	dedup := middleware.NewDeduplicator(cfg.DedupWindow)
	closers = append(closers, dedup.Close)
	handler := recipeHandler.NewHandler(svc, cfg.App.Debug)

	router.POST("/recipe/parse",
		middleware.BodySizeLimit(maxJSONBodySize), dedup.Middleware(), handler.HandleParse)
	router.POST("/recipe/backup/parse",
		middleware.BodySizeLimit(cfg.Backup.MaxSizeBytes+multipartOverhead), dedup.Middleware(), handler.HandleBackup)
	router.POST("/image/process",
		middleware.BodySizeLimit(cfg.Image.MaxSizeBytes+multipartOverhead), dedup.Middleware(), handler.HandleImage)

	common.LogInfo("Router setup completed successfully",
		zap.Strings("allowed_origins", origins),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Duration("request_timeout", cfg.Server.RequestTimeout),
		zap.Duration("dedup_window", cfg.DedupWindow),
	)

	return router, func() {
		for _, c := range closers {
			c()
		}
	}
}
