package queue

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"demoreplay/internal/logging"
)

const (
	defaultReplayQueueKey = "replay_jobs"
	retrySuffix           = ":retry"
	dlqSuffix             = ":dlq"
	retryCounterSuffix    = ":retry-count:"
	maxRetryAttempts      = 3
	brPopBlock            = 5 * time.Second
)

// ErrPermanent marks handler failures that cannot succeed on retry.
// Jobs failing with it go straight to the DLQ.
var ErrPermanent = errors.New("queue: permanent job failure")

// Handler processes one job payload.
type Handler func(payload []byte) error

// RedisQueue implements a replay job queue on Redis lists.
type RedisQueue struct {
	client redis.Cmdable
	key    string
}

// NewRedisQueue builds a Redis-backed queue helper.
func NewRedisQueue(client redis.Cmdable) *RedisQueue {
	return &RedisQueue{client: client, key: defaultReplayQueueKey}
}

// Enqueue pushes a job onto the queue.
func (q *RedisQueue) Enqueue(ctx context.Context, queueName string, payload []byte) error {
	if queueName == "" {
		queueName = q.key
	}
	if err := q.client.LPush(ctx, queueName, payload).Err(); err != nil {
		return fmt.Errorf("enqueue replay job: %w", err)
	}
	return nil
}

// Consume pops jobs with BRPOP and hands them to workerCount goroutines until ctx is canceled.
// Failed jobs go to the retry list, and to the DLQ after maxRetryAttempts.
func (q *RedisQueue) Consume(ctx context.Context, queueName string, workerCount, bufferSize int, handler Handler) error {
	logger := logging.Logger()
	if queueName == "" {
		queueName = q.key
	}
	if workerCount < 1 {
		workerCount = 1
	}
	retryKey := queueName + retrySuffix
	dlqKey := queueName + dlqSuffix

	jobChan := make(chan []byte, bufferSize)
	var wg sync.WaitGroup

	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for payload := range jobChan {
				q.process(ctx, workerID, queueName, retryKey, dlqKey, payload, handler)
			}
			logger.Debugf("worker %d: exiting", workerID)
		}(i)
	}

	logger.Infof("started %d workers for queue %s", workerCount, queueName)

	stop := func() error {
		close(jobChan)
		wg.Wait()
		return ctx.Err()
	}

	for {
		if ctx.Err() != nil {
			logger.Warnf("redis consumer exiting: %v", ctx.Err())
			return stop()
		}

		result, err := q.client.BRPop(ctx, brPopBlock, retryKey, queueName).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				logger.Warnf("redis BRPOP canceled: %v", ctx.Err())
				return stop()
			}
			logger.Warnf("redis BRPOP error: %v", err)
			continue
		}
		if len(result) < 2 {
			continue
		}

		select {
		case jobChan <- []byte(result[1]):
		case <-ctx.Done():
			return stop()
		}
	}
}

func (q *RedisQueue) process(ctx context.Context, workerID int, queueName, retryKey, dlqKey string, payload []byte, handler Handler) {
	logger := logging.Logger()
	if err := handler(payload); err != nil {
		if errors.Is(err, ErrPermanent) {
			logger.Errorf("worker %d: permanent failure, moving job to DLQ: %v", workerID, err)
			if err := q.client.LPush(ctx, dlqKey, payload).Err(); err != nil {
				logger.Errorf("worker %d: DLQ push failed: %v", workerID, err)
			}
			_ = q.clearRetryCounter(ctx, queueName, payload)
			return
		}
		logger.Warnf("worker %d: handler error, scheduling retry: %v", workerID, err)
		if err := q.handleRetry(ctx, queueName, retryKey, dlqKey, payload); err != nil {
			logger.Errorf("worker %d: retry handling failed: %v", workerID, err)
		}
		return
	}
	_ = q.clearRetryCounter(ctx, queueName, payload)
}

func (q *RedisQueue) handleRetry(ctx context.Context, baseQueue, retryKey, dlqKey string, payload []byte) error {
	logger := logging.Logger()
	attempt, err := q.incrementRetryCounter(ctx, baseQueue, payload)
	if err != nil {
		return err
	}
	if attempt > maxRetryAttempts {
		logger.Warnf("moving replay job to DLQ after %d attempts", attempt-1)
		_ = q.client.LPush(ctx, dlqKey, payload).Err()
		_ = q.clearRetryCounter(ctx, baseQueue, payload)
		return nil
	}
	return q.client.LPush(ctx, retryKey, payload).Err()
}

func (q *RedisQueue) incrementRetryCounter(ctx context.Context, queueName string, payload []byte) (int64, error) {
	key := retryCounterKey(queueName, payload)
	count, err := q.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	_ = q.client.Expire(ctx, key, 24*time.Hour).Err()
	return count, nil
}

func (q *RedisQueue) clearRetryCounter(ctx context.Context, queueName string, payload []byte) error {
	key := retryCounterKey(queueName, payload)
	return q.client.Del(ctx, key).Err()
}

func retryCounterKey(queue string, payload []byte) string {
	sum := sha256.Sum256(payload)
	return fmt.Sprintf("%s%s%s", queue, retryCounterSuffix, hex.EncodeToString(sum[:]))
}
