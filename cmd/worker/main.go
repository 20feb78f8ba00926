package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"demoreplay/internal/config"
	"demoreplay/internal/db"
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
	if err := cfg.RequireDB(); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
	if err := cfg.RequireRedis(); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}

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

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Errorf("invalid redis url: %v", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	proc := processor.NewReplayProcessor(ctx, db.NewReplayWriter(pool), cfg.TickSkip)
	q := queue.NewRedisQueue(redisClient)

	logger.Infof("consuming %s with %d workers, tick skip %d", cfg.RedisQueue, cfg.WorkerCount, cfg.TickSkip)
	if err := q.Consume(ctx, cfg.RedisQueue, cfg.WorkerCount, cfg.JobBufferSize, proc.Handle); err != nil && ctx.Err() == nil {
		logger.Errorf("queue consumption ended: %v", err)
		os.Exit(1)
	}
}
