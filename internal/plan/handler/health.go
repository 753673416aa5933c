package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is the readiness probe of the storage engine.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RegisterHealthRoutes adds GET /health (liveness) and GET /ready (engine reachable).
func RegisterHealthRoutes(r gin.IRoutes, backend string, p Pinger, started time.Time) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		deps := gin.H{backend: true}
		if err := p.Ping(ctx); err != nil {
			deps[backend] = false
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": time.Since(started).String()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": time.Since(started).String()})
	})
}
