package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration for the replay services.
type Config struct {
	DBURL         string
	RedisURL      string
	RedisQueue    string
	WorkerCount   int
	JobBufferSize int
	TickSkip      int
	HTTPAddr      string
	MaxUploadMB   int64
	UploadDir     string
}

// Load builds a Config from environment variables, reading a .env file first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBURL:      os.Getenv("DB_URL"),
		RedisURL:   os.Getenv("REDIS_URL"),
		RedisQueue: os.Getenv("REDIS_QUEUE"),
		HTTPAddr:   os.Getenv("HTTP_ADDR"),
		UploadDir:  os.Getenv("UPLOAD_DIR"),
	}

	if cfg.RedisQueue == "" {
		cfg.RedisQueue = "replay_jobs"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = os.TempDir()
	}

	var err error
	if cfg.WorkerCount, err = intEnv("WORKER_COUNT", 1); err != nil {
		return nil, err
	}
	if cfg.JobBufferSize, err = intEnv("JOB_BUFFER_SIZE", 16); err != nil {
		return nil, err
	}
	if cfg.TickSkip, err = intEnv("TICK_SKIP", 4); err != nil {
		return nil, err
	}
	maxUpload, err := intEnv("MAX_UPLOAD_MB", 512)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadMB = int64(maxUpload)

	if cfg.TickSkip <= 0 {
		return nil, fmt.Errorf("TICK_SKIP must be positive, got %d", cfg.TickSkip)
	}
	if cfg.WorkerCount <= 0 {
		return nil, fmt.Errorf("WORKER_COUNT must be positive, got %d", cfg.WorkerCount)
	}

	return cfg, nil
}

// RequireDB fails when DB_URL is unset.
func (c *Config) RequireDB() error {
	if c.DBURL == "" {
		return fmt.Errorf("DB_URL is required")
	}
	return nil
}

// RequireRedis fails when REDIS_URL is unset.
func (c *Config) RequireRedis() error {
	if c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}
	return nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
