package diary

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestEncodeBundle_WireFormat(t *testing.T) {
	mood := "happy"
	created := time.UnixMilli(1767225600000).UTC()
	b := &Bundle{
		Version:    BundleVersion,
		ExportedAt: time.UnixMilli(1767312000000),
		Entries: []*Entry{{
			ID:          "e1",
			EntryDate:   "2026-01-01",
			ContentJSON: `{"type":"doc"}`,
			Mood:        &mood,
			CreatedAt:   created,
			UpdatedAt:   created,
		}},
	}

	var buf bytes.Buffer
	if err := EncodeBundle(&buf, b); err != nil {
		t.Fatalf("EncodeBundle() error = %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if doc["version"] != "1.0" {
		t.Errorf("version = %v, want 1.0", doc["version"])
	}
	if doc["exported_at"] != float64(1767312000000) {
		t.Errorf("exported_at = %v, want epoch millis", doc["exported_at"])
	}
	ops, ok := doc["ai_operations"].([]any)
	if !ok || len(ops) != 0 {
		t.Errorf("ai_operations = %v, want empty array", doc["ai_operations"])
	}

	entries := doc["entries"].([]any)
	entry := entries[0].(map[string]any)
	for _, key := range []string{"id", "entry_date", "content_json", "mood", "mood_emoji", "created_at", "updated_at"} {
		if _, ok := entry[key]; !ok {
			t.Errorf("entry is missing field %q", key)
		}
	}
	if entry["mood_emoji"] != nil {
		t.Errorf("mood_emoji = %v, want null", entry["mood_emoji"])
	}
	if entry["created_at"] != float64(1767225600000) {
		t.Errorf("created_at = %v, want epoch millis", entry["created_at"])
	}
}

func TestDecodeBundle(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		in := &Bundle{
			Version:    BundleVersion,
			ExportedAt: time.UnixMilli(1767312000000).UTC(),
			Entries: []*Entry{{
				ID: "e1", EntryDate: "2026-01-01", ContentJSON: "{}",
				CreatedAt: time.UnixMilli(1000).UTC(), UpdatedAt: time.UnixMilli(2000).UTC(),
			}},
			AIOperations: []*AIOperation{{
				ID: "op1", EntryID: "e1", OpType: "polish", OriginalText: "a", ResultText: "b",
				Provider: "openai", Model: "gpt", CreatedAt: time.UnixMilli(3000).UTC(),
			}},
		}
		var buf bytes.Buffer
		if err := EncodeBundle(&buf, in); err != nil {
			t.Fatalf("EncodeBundle() error = %v", err)
		}

		out, err := DecodeBundle(&buf)
		if err != nil {
			t.Fatalf("DecodeBundle() error = %v", err)
		}
		if !out.ExportedAt.Equal(in.ExportedAt) {
			t.Errorf("ExportedAt = %v, want %v", out.ExportedAt, in.ExportedAt)
		}
		if len(out.Entries) != 1 || out.Entries[0].ID != "e1" || !out.Entries[0].UpdatedAt.Equal(in.Entries[0].UpdatedAt) {
			t.Errorf("Entries = %+v", out.Entries)
		}
		if len(out.AIOperations) != 1 || out.AIOperations[0].Model != "gpt" {
			t.Errorf("AIOperations = %+v", out.AIOperations)
		}
		if out.Malformed != 0 {
			t.Errorf("Malformed = %d, want 0", out.Malformed)
		}
	})

	t.Run("malformed records are counted", func(t *testing.T) {
		doc := `{"version":"1.0","exported_at":1,"entries":[{"id":"e1","entry_date":"2026-01-01","content_json":"{}","created_at":1,"updated_at":1},{"id":42}],"ai_operations":["nope"]}`
		b, err := DecodeBundle(strings.NewReader(doc))
		if err != nil {
			t.Fatalf("DecodeBundle() error = %v", err)
		}
		if len(b.Entries) != 1 {
			t.Errorf("len(Entries) = %d, want 1", len(b.Entries))
		}
		if b.Malformed != 2 {
			t.Errorf("Malformed = %d, want 2", b.Malformed)
		}
	})

	t.Run("rejects non-bundle documents", func(t *testing.T) {
		for _, doc := range []string{`not json`, `[]`, `{"entries":[]}`, `{"version":"2.0","entries":[]}`} {
			if _, err := DecodeBundle(strings.NewReader(doc)); !errors.Is(err, ErrSerialization) {
				t.Errorf("DecodeBundle(%q) error = %v, want ErrSerialization", doc, err)
			}
		}
	})
}
