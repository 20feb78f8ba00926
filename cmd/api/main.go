package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"demoreplay/internal/api"
	"demoreplay/internal/config"
	"demoreplay/internal/db"
	"demoreplay/internal/demo"
	"demoreplay/internal/logging"
	"demoreplay/internal/processor"
	queue "demoreplay/internal/queue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := logging.Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf("config load failed: %v", err)
		os.Exit(1)
	}

	// Storage and queueing are optional; without them only synchronous parsing is served.
	var (
		catalog api.Catalog
		store   processor.Store
		jobs    api.Enqueuer
	)
	if cfg.RequireDB() == nil {
		pool, err := db.NewPool(ctx, cfg.DBURL)
		if err != nil {
			logger.Errorf("db connection failed: %v", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := db.EnsureSchema(ctx, pool); err != nil {
			logger.Errorf("schema setup failed: %v", err)
			os.Exit(1)
		}
		catalog = db.NewReplayReader(pool)
		store = db.NewReplayWriter(pool)
	} else {
		logger.Warnf("DB_URL not set, replay storage disabled")
	}

	if cfg.RequireRedis() == nil {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Errorf("invalid redis url: %v", err)
			os.Exit(1)
		}
		redisClient := redis.NewClient(redisOpts)
		defer redisClient.Close()
		jobs = queue.NewRedisQueue(redisClient)
	} else {
		logger.Warnf("REDIS_URL not set, async uploads disabled")
	}

	h := api.NewReplayHandler(demo.Parse, catalog, store, jobs, api.Options{
		TickSkip:       cfg.TickSkip,
		MaxUploadBytes: cfg.MaxUploadMB << 20,
		UploadDir:      cfg.UploadDir,
		Queue:          cfg.RedisQueue,
	})

	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		mode = gin.ReleaseMode
	}
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(h, mode),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Infof("listening on %s", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorf("http server failed: %v", err)
		os.Exit(1)
	}
}
