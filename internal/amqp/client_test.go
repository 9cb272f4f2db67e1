package amqp

import (
	"strings"
	"testing"
	"time"
)

func TestNewEntryMessages(t *testing.T) {
	syncMsg := NewEntrySyncMessage("e-1")
	if syncMsg.Kind != KindEntrySync || syncMsg.EntryID != "e-1" {
		t.Errorf("sync message = %+v", syncMsg)
	}
	if syncMsg.Timestamp.IsZero() || time.Since(syncMsg.Timestamp) > time.Second {
		t.Error("sync message timestamp should be recent")
	}

	delMsg := NewEntryDeleteMessage("e-2")
	if delMsg.Kind != KindEntryDelete || delMsg.EntryID != "e-2" {
		t.Errorf("delete message = %+v", delMsg)
	}
}

func TestEntryMessage_JSON(t *testing.T) {
	msg := &EntryMessage{
		Kind:      KindEntrySync,
		EntryID:   "a1b2c3",
		Timestamp: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := EntryMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("EntryMessageFromJSON() error = %v", err)
	}
	if parsed.Kind != msg.Kind || parsed.EntryID != msg.EntryID {
		t.Errorf("parsed = %+v, want %+v", parsed, msg)
	}
	if !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("parsed timestamp = %v, want %v", parsed.Timestamp, msg.Timestamp)
	}
}

func TestEntryMessageFromJSON_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"malformed json", `{"kind": `, "unexpected end"},
		{"unknown kind", `{"kind":"entry_upsert","entry_id":"x"}`, "unknown message kind"},
		{"missing entry id", `{"kind":"entry_sync"}`, "no entry id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EntryMessageFromJSON([]byte(tt.data))
			if err == nil {
				t.Fatal("want error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
		})
	}
}
