package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/google/uuid"

	"demoreplay/internal/codec"
	"demoreplay/internal/db"
	"demoreplay/internal/demo"
	"demoreplay/internal/logging"
	"demoreplay/internal/queue"
	"demoreplay/internal/replay"
)

// JobPayload represents the incoming job from the Redis queue.
type JobPayload struct {
	ReplayID string `json:"replay_id"`
	DemoPath string `json:"demo_path"`
}

// Store persists finished replays.
type Store interface {
	Write(ctx context.Context, r *db.StoredReplay) error
}

// ReplayProcessor handles replay build jobs.
type ReplayProcessor struct {
	ctx      context.Context
	store    Store
	tickSkip int
}

// NewReplayProcessor creates a processor that stores replays sampled every tickSkip raw ticks.
func NewReplayProcessor(ctx context.Context, store Store, tickSkip int) *ReplayProcessor {
	return &ReplayProcessor{
		ctx:      ctx,
		store:    store,
		tickSkip: tickSkip,
	}
}

// Handle processes a single replay job from the queue.
func (p *ReplayProcessor) Handle(payload []byte) error {
	startTime := time.Now()

	var job JobPayload
	if err := json.Unmarshal(payload, &job); err != nil {
		return fmt.Errorf("%w: unmarshal job payload: %w", queue.ErrPermanent, err)
	}

	replayID, err := uuid.Parse(job.ReplayID)
	if err != nil {
		return fmt.Errorf("%w: parse replay_id: %w", queue.ErrPermanent, err)
	}
	if job.DemoPath == "" {
		return fmt.Errorf("%w: job %s has no demo_path", queue.ErrPermanent, replayID)
	}

	logger := logging.Logger().With("replay_id", replayID.String())
	logger.Infof("processing replay job for %s", job.DemoPath)

	f, err := demo.Open(job.DemoPath)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", queue.ErrPermanent, err)
	}
	if err != nil {
		return err
	}
	defer f.Close()

	doc, err := demo.Parse(p.ctx, f, demo.Options{TickSkip: p.tickSkip})
	if errors.Is(err, demo.ErrDecode) {
		logger.Errorf("demo %s is not decodable: %v", job.DemoPath, err)
		return fmt.Errorf("%w: parse demo: %w", queue.ErrPermanent, err)
	}
	if err != nil {
		return fmt.Errorf("parse demo: %w", err)
	}

	stored, err := Pack(replayID, doc)
	if err != nil {
		return err
	}

	if err := p.store.Write(p.ctx, stored); err != nil {
		return fmt.Errorf("write replay: %w", err)
	}

	logger.Infof("replay job completed in %v (%d bytes compressed)", time.Since(startTime), len(stored.Compressed))
	return nil
}

// Pack encodes and compresses a document for storage.
func Pack(id uuid.UUID, doc *replay.Document) (*db.StoredReplay, error) {
	data, err := replay.Encode(doc)
	if err != nil {
		return nil, err
	}
	compressed, err := codec.Compress(data)
	if err != nil {
		return nil, fmt.Errorf("compress replay: %w", err)
	}
	return &db.StoredReplay{
		ID:         id,
		Document:   doc,
		Compressed: compressed,
		CreatedAt:  time.Now().UTC(),
	}, nil
}
