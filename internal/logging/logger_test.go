package logging

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn", "")
	l.Infof("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info written at warn level: %s", buf.String())
	}
	l.Warnf("shown %d", 1)

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if line["message"] != "shown 1" || line["level"] != "warn" {
		t.Fatalf("log line = %v", line)
	}
}

func TestWithAddsField(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "", "").With("replay_id", "abc").Infof("done")

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if line["replay_id"] != "abc" {
		t.Fatalf("replay_id = %v, want abc", line["replay_id"])
	}
}
