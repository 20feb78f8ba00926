package db

import (
	"context"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"demoreplay/internal/replay"
)

// StoredReplay is a finished document ready for persistence.
type StoredReplay struct {
	ID uuid.UUID
	// Document is the full replay; Compressed is its zstd-compressed JSON encoding.
	Document   *replay.Document
	Compressed []byte
	CreatedAt  time.Time
}

// ReplayWriter handles writing replays to the database.
type ReplayWriter struct {
	pool *pgxpool.Pool
}

// NewReplayWriter creates a new replay writer.
func NewReplayWriter(pool *pgxpool.Pool) *ReplayWriter {
	return &ReplayWriter{pool: pool}
}

// Write stores a replay within a single transaction.
// An advisory lock on the replay id serializes concurrent writes of the same replay,
// and existing rows are purged first so re-processing a job is idempotent.
func (w *ReplayWriter) Write(ctx context.Context, r *StoredReplay) error {
	tx, err := w.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, advisoryLockKey(r.ID)); err != nil {
		return fmt.Errorf("acquire replay lock: %w", err)
	}

	if err := purgeReplay(ctx, tx, r.ID); err != nil {
		return fmt.Errorf("purge replay: %w", err)
	}

	if err := insertReplay(ctx, tx, r); err != nil {
		return fmt.Errorf("insert replay: %w", err)
	}

	if err := insertRounds(ctx, tx, r.ID, r.Document.Rounds); err != nil {
		return fmt.Errorf("insert replay rounds: %w", err)
	}

	if err := insertKills(ctx, tx, r.ID, r.Document.Kills); err != nil {
		return fmt.Errorf("insert replay kills: %w", err)
	}

	return tx.Commit(ctx)
}

// advisoryLockKey generates a stable int64 key from a UUID for pg_advisory_lock.
func advisoryLockKey(id uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write(id[:])
	return int64(binary.BigEndian.Uint64(h.Sum(nil)[:8]))
}

// purgeReplay deletes a replay and its child rows, children first.
func purgeReplay(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	if _, err := tx.Exec(ctx, `DELETE FROM replay_kills WHERE replay_id = $1`, id); err != nil {
		return fmt.Errorf("purge replay_kills: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM replay_rounds WHERE replay_id = $1`, id); err != nil {
		return fmt.Errorf("purge replay_rounds: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM replays WHERE id = $1`, id); err != nil {
		return fmt.Errorf("purge replays: %w", err)
	}
	return nil
}

func insertReplay(ctx context.Context, tx pgx.Tx, r *StoredReplay) error {
	doc := r.Document
	_, err := tx.Exec(ctx, `
		INSERT INTO replays (
			id, map_name, tick_rate, original_tick_rate, ct_score, t_score,
			match_start_tick, frame_count, document, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, r.ID, doc.MapName, doc.TickRate, doc.OriginalTickRate, doc.CTScore, doc.TScore,
		doc.MatchStartTick, len(doc.Frames), r.Compressed, r.CreatedAt)
	return err
}

// insertRounds inserts the round ledger using COPY protocol.
func insertRounds(ctx context.Context, tx pgx.Tx, id uuid.UUID, rounds []replay.Round) error {
	if len(rounds) == 0 {
		return nil
	}

	columns := []string{
		"replay_id", "number", "tick", "freeze_time_tick", "ct_score", "t_score", "winning_team",
	}

	_, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"replay_rounds"},
		columns,
		pgx.CopyFromSlice(len(rounds), func(i int) ([]any, error) {
			r := rounds[i]
			return []any{
				id, r.Number, r.Tick, r.FreezeTimeTick, r.CTScore, r.TScore, nullableString(r.WinningTeam),
			}, nil
		}),
	)
	return err
}

// insertKills inserts the kill log using COPY protocol. Steam ids are stored bit-for-bit as BIGINT.
func insertKills(ctx context.Context, tx pgx.Tx, id uuid.UUID, kills []replay.Kill) error {
	if len(kills) == 0 {
		return nil
	}

	columns := []string{
		"replay_id", "seq", "tick", "killer_id", "victim_id", "assister_id", "is_headshot", "weapon",
	}

	_, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"replay_kills"},
		columns,
		pgx.CopyFromSlice(len(kills), func(i int) ([]any, error) {
			k := kills[i]
			return []any{
				id, i + 1, k.Tick, int64(k.KillerID), int64(k.VictimID), nullableID(k.AssisterID), k.IsHeadshot, k.Weapon,
			}, nil
		}),
	)
	return err
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullableID(id uint64) *int64 {
	if id == 0 {
		return nil
	}
	v := int64(id)
	return &v
}
