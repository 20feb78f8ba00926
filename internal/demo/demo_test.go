package demo

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	common "github.com/markus-wa/demoinfocs-golang/v5/pkg/demoinfocs/common"

	"demoreplay/internal/replay"
)

func TestTeamOf(t *testing.T) {
	cases := map[common.Team]replay.Team{
		common.TeamCounterTerrorists: replay.TeamCT,
		common.TeamTerrorists:        replay.TeamT,
		common.TeamSpectators:        replay.TeamSpectator,
		common.TeamUnassigned:        replay.TeamUnassigned,
	}
	for in, want := range cases {
		if got := teamOf(in); got != want {
			t.Fatalf("teamOf(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestMissingActorsUseDefaults(t *testing.T) {
	if actor(nil) != nil {
		t.Fatalf("actor(nil) should be nil")
	}
	if got := equipmentName(nil); got != "" {
		t.Fatalf("equipmentName(nil) = %q, want empty", got)
	}
	if got := correlationID(nil); got != replay.NoCorrelation {
		t.Fatalf("correlationID(nil) = %d, want %d", got, replay.NoCorrelation)
	}
	if got := correlationID(&common.Equipment{}); got != replay.NoCorrelation {
		t.Fatalf("correlationID without entity = %d, want %d", got, replay.NoCorrelation)
	}
}

func TestOpenPlainAndCompressed(t *testing.T) {
	dir := t.TempDir()
	payload := []byte("HL2DEMO\x00 not really a demo")

	plain := filepath.Join(dir, "match.dem")
	if err := os.WriteFile(plain, payload, 0o644); err != nil {
		t.Fatalf("write plain: %v", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("zstd writer: %v", err)
	}
	compressed := filepath.Join(dir, "match.dem"+CompressedSuffix)
	if err := os.WriteFile(compressed, enc.EncodeAll(payload, nil), 0o644); err != nil {
		t.Fatalf("write compressed: %v", err)
	}
	enc.Close()

	for _, path := range []string{plain, compressed} {
		rc, err := Open(path)
		if err != nil {
			t.Fatalf("Open(%s): %v", path, err)
		}
		got, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		if string(got) != string(payload) {
			t.Fatalf("content of %s = %q, want %q", path, got, payload)
		}
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "absent.dem")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestNewReaderPassesPlainStreamsThrough(t *testing.T) {
	src := io.NopCloser(strings.NewReader("raw"))
	rc, err := NewReader(src, "upload.dem")
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if rc != src {
		t.Fatalf("plain demo should not be wrapped")
	}
}

func TestParseRejectsUndecodableInput(t *testing.T) {
	inputs := map[string][]byte{
		"empty":   nil,
		"garbage": bytes.Repeat([]byte{0xAB}, 160),
	}
	for name, raw := range inputs {
		doc, err := Parse(context.Background(), bytes.NewReader(raw), Options{TickSkip: 4})
		if !errors.Is(err, ErrDecode) {
			t.Fatalf("%s: err = %v, want ErrDecode", name, err)
		}
		if doc != nil {
			t.Fatalf("%s: got a document alongside a decode error", name)
		}
	}
}

func TestParseKeepsTruncatedDemo(t *testing.T) {
	doc, err := Parse(context.Background(), strings.NewReader("PBDEMS2"), Options{TickSkip: 4})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc == nil {
		t.Fatalf("truncated demo produced no document")
	}
	if len(doc.Frames) != 0 || doc.MatchStartTick != -1 {
		t.Fatalf("frames = %d, match start = %d, want 0 and -1", len(doc.Frames), doc.MatchStartTick)
	}
	if doc.OriginalTickRate != 64 || doc.TickRate != 16 {
		t.Fatalf("rates = %v/%v, want 64/16", doc.OriginalTickRate, doc.TickRate)
	}
}

func TestParseKeepsDocumentWhenCanceledAfterDecoding(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// the decoder finishes without error, so the document stands
	doc, err := Parse(ctx, strings.NewReader("PBDEMS2"), Options{TickSkip: 4})
	if err != nil || doc == nil {
		t.Fatalf("Parse = %v, %v; want a document", doc, err)
	}
}
