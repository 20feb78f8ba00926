package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"DB_URL", "REDIS_URL", "REDIS_QUEUE", "WORKER_COUNT", "JOB_BUFFER_SIZE", "TICK_SKIP", "HTTP_ADDR", "MAX_UPLOAD_MB", "UPLOAD_DIR"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RedisQueue != "replay_jobs" || cfg.TickSkip != 4 || cfg.WorkerCount != 1 || cfg.HTTPAddr != ":8080" || cfg.MaxUploadMB != 512 || cfg.UploadDir == "" {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.RequireDB() == nil || cfg.RequireRedis() == nil {
		t.Fatalf("missing urls should fail requirements")
	}
}

func TestLoadRejectsBadTickSkip(t *testing.T) {
	t.Setenv("TICK_SKIP", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for TICK_SKIP=0")
	}

	t.Setenv("TICK_SKIP", "four")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-numeric TICK_SKIP")
	}
}
