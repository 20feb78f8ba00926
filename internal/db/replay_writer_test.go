package db

import (
	"testing"

	"github.com/google/uuid"
)

func TestAdvisoryLockKeyIsStable(t *testing.T) {
	id := uuid.MustParse("6f1c1e1a-5b7a-4c53-9b1e-2f8f3b7c9d10")
	if advisoryLockKey(id) != advisoryLockKey(id) {
		t.Fatalf("lock key not deterministic")
	}
	other := uuid.MustParse("6f1c1e1a-5b7a-4c53-9b1e-2f8f3b7c9d11")
	if advisoryLockKey(id) == advisoryLockKey(other) {
		t.Fatalf("distinct ids share a lock key")
	}
}

func TestNullableHelpers(t *testing.T) {
	if nullableString("") != nil {
		t.Fatalf("empty winner should be NULL")
	}
	if s := nullableString("CT"); s == nil || *s != "CT" {
		t.Fatalf("nullableString(CT) = %v", s)
	}
	if nullableID(0) != nil {
		t.Fatalf("missing assister should be NULL")
	}
	// steam ids above MaxInt64 keep their bits
	if v := nullableID(1<<63 + 5); v == nil || uint64(*v) != 1<<63+5 {
		t.Fatalf("nullableID lost bits: %v", v)
	}
}
