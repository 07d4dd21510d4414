package middleware

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestLoggerRecordsRequestFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(prev)

	r := gin.New()
	r.Use(Logger())
	r.POST("/api/scan", func(c *gin.Context) {
		c.Set(KeyScanSSIDs, 3)
		c.Status(http.StatusOK)
	})
	r.GET("/api/state", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/scan", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/state?x=1", nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("log lines=%q", lines)
	}
	if !strings.Contains(lines[0], "[POST] /api/scan 200") || !strings.HasSuffix(lines[0], " ssids=3") {
		t.Fatalf("scan line %q", lines[0])
	}
	if !strings.Contains(lines[1], "[GET] /api/state 200") || strings.Contains(lines[1], "ssids=") {
		t.Fatalf("state line %q", lines[1])
	}
}
