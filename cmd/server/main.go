package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/fingerprint-calibrator/internal/api"
	"github.com/jengzang/fingerprint-calibrator/internal/config"
	"github.com/jengzang/fingerprint-calibrator/internal/database"
	"github.com/jengzang/fingerprint-calibrator/internal/scanner"
)

func main() {
	// 加载配置
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	dbConfig := database.Config{
		Path: cfg.DBPath,
	}
	if err := database.Init(dbConfig); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	var sc scanner.Scanner
	switch cfg.Scanner {
	case "fixed":
		log.Printf("Using fixed scanner at %.0f dBm", cfg.FixedRSSI)
		sc = scanner.Fixed{Value: cfg.FixedRSSI}
	default:
		sc = scanner.NewCommand()
	}

	limiter := api.NewScanLimiter(cfg)
	if limiter != nil {
		go func() {
			ticker := time.NewTicker(time.Minute)
			defer ticker.Stop()
			for range ticker.C {
				limiter.Sweep()
			}
		}()
	}

	// 初始化路由
	router := api.SetupRouter(cfg, api.Deps{
		DB:          database.GetDB(),
		Scanner:     sc,
		ScanLimiter: limiter,
	})

	// 启动服务器
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
