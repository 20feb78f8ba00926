package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a replay id is unknown.
var ErrNotFound = errors.New("db: replay not found")

// ReplaySummary is the metadata row of a stored replay.
type ReplaySummary struct {
	ID             uuid.UUID
	MapName        string
	CTScore        int
	TScore         int
	MatchStartTick int
	FrameCount     int
	CreatedAt      time.Time
}

// ReplayReader provides read-only access to stored replays.
type ReplayReader struct {
	pool *pgxpool.Pool
}

// NewReplayReader creates a new replay reader.
func NewReplayReader(pool *pgxpool.Pool) *ReplayReader {
	return &ReplayReader{pool: pool}
}

// GetDocument returns the compressed document of a replay.
func (r *ReplayReader) GetDocument(ctx context.Context, id uuid.UUID) ([]byte, error) {
	var doc []byte
	err := r.pool.QueryRow(ctx, `SELECT document FROM replays WHERE id = $1`, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get replay document: %w", err)
	}
	return doc, nil
}

// ListRecent returns the newest replays first.
func (r *ReplayReader) ListRecent(ctx context.Context, limit int) ([]ReplaySummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, map_name, ct_score, t_score, match_start_tick, frame_count, created_at
		FROM replays
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReplaySummary
	for rows.Next() {
		var s ReplaySummary
		if err := rows.Scan(&s.ID, &s.MapName, &s.CTScore, &s.TScore,
			&s.MatchStartTick, &s.FrameCount, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ReplayExists checks if a replay exists.
func (r *ReplayReader) ReplayExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM replays WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}
