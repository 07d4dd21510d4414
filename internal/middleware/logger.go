package middleware

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Request context keys handlers set for the access log.
const (
	KeyScanSSIDs   = "scan_ssids"
	KeyReadings    = "readings"
	KeyTokenIssuer = "token_issuer"
)

var logKeys = []struct{ key, label string }{
	{KeyScanSSIDs, "ssids"},
	{KeyReadings, "readings"},
	{KeyTokenIssuer, "issuer"},
}

// Logger logs one line per request, with the scan and fingerprint sizes
// handlers attached to the context.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log.Printf("[%s] %s %d %v%s", c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start).Round(time.Microsecond), requestFields(c))
	}
}

func requestFields(c *gin.Context) string {
	var b strings.Builder
	for _, k := range logKeys {
		if v, ok := c.Get(k.key); ok && v != "" {
			fmt.Fprintf(&b, " %s=%v", k.label, v)
		}
	}
	if len(c.Errors) > 0 {
		fmt.Fprintf(&b, " errors=%q", c.Errors.String())
	}
	return b.String()
}
