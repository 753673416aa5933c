package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/planstore/internal/config"
	"github.com/gogotex/planstore/internal/plan"
	"github.com/gogotex/planstore/internal/plan/handler"
	"github.com/gogotex/planstore/internal/plan/service"
	"github.com/gogotex/planstore/pkg/logger"
	"github.com/gogotex/planstore/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// newRouter wires middleware and routes. limiterRedis may be nil.
func newRouter(cfg *config.Config, backendName string, store *service.Store, pipeline plan.Pipeline, limiterRedis *redis.Client, started time.Time) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog(), middleware.Metrics())

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && limiterRedis != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(limiterRedis, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
			logger.Infof("rate limiter: redis (%.2f rps, burst %d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
			logger.Infof("rate limiter: memory (%.2f rps, burst %d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		}
	}

	handler.RegisterHealthRoutes(r, backendName, store, started)
	handler.RegisterSwagger(r)
	handler.RegisterPlanRoutes(r, store, pipeline)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}
