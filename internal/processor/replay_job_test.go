package processor

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"demoreplay/internal/codec"
	"demoreplay/internal/db"
	"demoreplay/internal/demo"
	"demoreplay/internal/queue"
	"demoreplay/internal/replay"
)

type fakeStore struct {
	written []*db.StoredReplay
}

func (f *fakeStore) Write(ctx context.Context, r *db.StoredReplay) error {
	f.written = append(f.written, r)
	return nil
}

func TestHandleRejectsBadPayloads(t *testing.T) {
	store := &fakeStore{}
	p := NewReplayProcessor(context.Background(), store, replay.DefaultTickSkip)

	payloads := []string{
		`not json`,
		`{"replay_id":"nope","demo_path":"/tmp/x.dem"}`,
		`{"replay_id":"` + uuid.NewString() + `"}`,
		`{"replay_id":"` + uuid.NewString() + `","demo_path":"/definitely/missing.dem"}`,
	}
	for _, pl := range payloads {
		if err := p.Handle([]byte(pl)); !errors.Is(err, queue.ErrPermanent) {
			t.Fatalf("Handle(%s) = %v, want a permanent failure", pl, err)
		}
	}
	if len(store.written) != 0 {
		t.Fatalf("store written %d times, want 0", len(store.written))
	}
}

func TestHandleDeadLettersUndecodableDemo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.dem")
	if err := os.WriteFile(path, []byte("not a demo at all, just some text padding it out"), 0o644); err != nil {
		t.Fatalf("write demo: %v", err)
	}
	store := &fakeStore{}
	p := NewReplayProcessor(context.Background(), store, replay.DefaultTickSkip)

	payload, _ := json.Marshal(JobPayload{ReplayID: uuid.NewString(), DemoPath: path})
	err := p.Handle(payload)
	if !errors.Is(err, queue.ErrPermanent) || !errors.Is(err, demo.ErrDecode) {
		t.Fatalf("Handle = %v, want a permanent decode failure", err)
	}
	if len(store.written) != 0 {
		t.Fatalf("undecodable demo was stored")
	}
}

func TestPackRoundTrips(t *testing.T) {
	b, err := replay.NewBuilder(replay.Config{TickSkip: 4})
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	doc, _ := b.Finalize(replay.Metadata{MapName: "de_ancient", TickRate: 64})

	id := uuid.New()
	stored, err := Pack(id, doc)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if stored.ID != id || stored.Document != doc {
		t.Fatalf("stored replay does not reference its inputs")
	}

	raw, err := codec.Decompress(stored.Compressed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	var back replay.Document
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.MapName != "de_ancient" || back.TickRate != 16 {
		t.Fatalf("decoded = %+v", back)
	}
}
