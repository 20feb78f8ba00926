package codec

import (
	"bytes"
	"testing"
)

func TestCompressShrinksRepetitiveDocuments(t *testing.T) {
	doc := bytes.Repeat([]byte(`{"tick":1,"players":[],"grenades":[]},`), 500)

	packed, err := Compress(doc)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if len(packed) >= len(doc) {
		t.Fatalf("compressed size %d >= raw size %d", len(packed), len(doc))
	}

	unpacked, err := Decompress(packed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(unpacked, doc) {
		t.Fatalf("round trip mismatch")
	}
}

func TestDecompressRejectsGarbage(t *testing.T) {
	if _, err := Decompress([]byte("not zstd")); err == nil {
		t.Fatalf("expected error for garbage input")
	}
}
