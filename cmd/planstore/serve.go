package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/planstore/internal/config"
	"github.com/gogotex/planstore/internal/plan"
	"github.com/gogotex/planstore/internal/plan/schema"
	"github.com/gogotex/planstore/internal/plan/service"
	"github.com/gogotex/planstore/pkg/logger"
	"github.com/gogotex/planstore/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the plan HTTP service",
		Long: `Connect to the configured storage engine and serve the plan API.

The service refuses to start when the engine stays unreachable after
STARTUP_ATTEMPTS tries.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().String("port", "", "listen port (overrides SERVER_PORT)")
	cmd.Flags().String("backend", "", "storage engine: redis, memory, bolt, mongo or minio (overrides STORE_BACKEND)")
	_ = viper.BindPFlag("SERVER_PORT", cmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("STORE_BACKEND", cmd.Flags().Lookup("backend"))
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	started := time.Now()
	logger.Init(cfg.Log.Level)
	logger.SetJSON(cfg.Log.JSON)
	if logger.LevelString() != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.Debugf("startup: LOG_LEVEL=%s backend=%s", logger.LevelString(), cfg.Store.Backend)

	sch, err := schema.NewPlanSchema()
	if err != nil {
		return fmt.Errorf("plan schema: %w", err)
	}

	be, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := be.close(); err != nil {
			logger.Warnf("closing storage backend: %v", err)
		}
	}()

	gate := service.NewReadiness()
	gate.MarkReady()
	store := service.NewStore(be.kv, gate)

	limiterRedis := be.redis
	if cfg.RateLimit.Enabled && cfg.RateLimit.UseRedis && limiterRedis == nil {
		limiterRedis = limiterClient(ctx, cfg)
		if limiterRedis != nil {
			defer limiterRedis.Close()
		}
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	router := newRouter(cfg, be.name, store, plan.WritePipeline(sch), limiterRedis, started)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("planstore listening on %s (backend=%s)", srv.Addr, be.name)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// limiterClient connects to Redis only for rate limiting. On failure the
// in-memory limiter is used instead.
func limiterClient(ctx context.Context, cfg *config.Config) *redis.Client {
	client := newRedisClient(cfg.Redis)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warnf("rate limiter redis %s unreachable, using in-memory limiter: %v", cfg.Redis.Addr(), err)
		_ = client.Close()
		return nil
	}
	return client
}
