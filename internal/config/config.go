package config

import (
	"os"
	"strconv"
	"time"
)

// Config 应用配置
type Config struct {
	Port      string
	DBPath    string
	JWTSecret string // empty disables auth
	GinMode   string

	// Floor plan
	MapImage  string
	StaticDir string

	// Scanning
	Scanner       string  // "command" or "fixed"
	FixedRSSI     float64 // value reported by the fixed scanner
	ScanTimeout   time.Duration
	ScanRateLimit int // scans per minute per client, 0 disables

	// Calibrator client
	BackendURL    string
	PhysicalWidth float64
}

// Load 加载配置
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", ":5000"),
		DBPath:        getEnv("DB_PATH", "./data/fingerprints.db"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		MapImage:      getEnv("MAP_IMAGE", "./static/floor_plan.jpg"),
		StaticDir:     getEnv("STATIC_DIR", "./static"),
		Scanner:       getEnv("SCANNER", "command"),
		FixedRSSI:     getFloat("FIXED_RSSI", -60),
		ScanTimeout:   getDuration("SCAN_TIMEOUT", 15*time.Second),
		ScanRateLimit: getInt("SCAN_RATE_LIMIT", 30),
		BackendURL:    getEnv("BACKEND_URL", "http://127.0.0.1:5000"),
		PhysicalWidth: getFloat("PHYSICAL_WIDTH", 50),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return def
}
