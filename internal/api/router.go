package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/fingerprint-calibrator/internal/config"
	"github.com/jengzang/fingerprint-calibrator/internal/handler"
	"github.com/jengzang/fingerprint-calibrator/internal/middleware"
	"github.com/jengzang/fingerprint-calibrator/internal/repository"
	"github.com/jengzang/fingerprint-calibrator/internal/scanner"
	"github.com/jengzang/fingerprint-calibrator/internal/service"
)

// Deps are the collaborators the router is built on
type Deps struct {
	DB          *sql.DB
	Scanner     scanner.Scanner
	ScanLimiter *middleware.RateLimiter // nil disables scan rate limiting
}

// NewScanLimiter builds the per-minute scan limiter from cfg, or nil
func NewScanLimiter(cfg *config.Config) *middleware.RateLimiter {
	if cfg.ScanRateLimit <= 0 {
		return nil
	}
	return middleware.NewRateLimiter(cfg.ScanRateLimit, time.Minute)
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	routerRepo := repository.NewRouterRepository(deps.DB)
	fingerprintRepo := repository.NewFingerprintRepository(deps.DB)
	progressRepo := repository.NewProgressRepository(deps.DB)

	routerService := service.NewRouterService(routerRepo)
	fingerprintService := service.NewFingerprintService(fingerprintRepo, progressRepo, routerService)
	stateService := service.NewStateService(routerService, progressRepo)
	scanService := service.NewScanService(deps.Scanner, cfg.ScanTimeout)
	imageService := service.NewImageService(cfg.MapImage)

	imageHandler := handler.NewImageHandler(imageService)
	routerHandler := handler.NewRouterHandler(routerService)
	scanHandler := handler.NewScanHandler(scanService)
	fingerprintHandler := handler.NewFingerprintHandler(fingerprintService)
	stateHandler := handler.NewStateHandler(stateService)

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		count, err := fingerprintService.Count()
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"message":      "Fingerprint backend is running",
			"fingerprints": count,
		})
	})

	if cfg.StaticDir != "" {
		r.Static("/static", cfg.StaticDir)
	}

	api := r.Group("/api")
	if cfg.JWTSecret != "" {
		api.Use(middleware.Auth(cfg.JWTSecret))
	}
	{
		api.GET("/image-metadata", imageHandler.GetMetadata)
		api.GET("/state", stateHandler.GetState)

		api.GET("/routers", routerHandler.GetRouters)
		api.POST("/routers", routerHandler.SetRouters)

		scan := []gin.HandlerFunc{scanHandler.Scan}
		if deps.ScanLimiter != nil {
			scan = append([]gin.HandlerFunc{middleware.RateLimit(deps.ScanLimiter)}, scan...)
		}
		api.POST("/scan", scan...)

		api.POST("/save", fingerprintHandler.Save)
		api.GET("/fingerprints.csv", fingerprintHandler.ExportCSV)
	}

	return r
}
