package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Message kinds carried on the archive queue.
const (
	KindEntrySync   = "entry_sync"
	KindEntryDelete = "entry_delete"
)

// EntryMessage is the lightweight notification sent after a ledger
// mutation. It carries only the entry id; the worker fetches the full
// entry from storage, so a stale message archives the current state.
type EntryMessage struct {
	Kind      string    `json:"kind"`
	EntryID   string    `json:"entry_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEntrySyncMessage creates a sync notification for an entry.
func NewEntrySyncMessage(entryID string) *EntryMessage {
	return &EntryMessage{Kind: KindEntrySync, EntryID: entryID, Timestamp: time.Now()}
}

// NewEntryDeleteMessage creates a delete notification for an entry.
func NewEntryDeleteMessage(entryID string) *EntryMessage {
	return &EntryMessage{Kind: KindEntryDelete, EntryID: entryID, Timestamp: time.Now()}
}

// ToJSON converts the message to JSON bytes.
func (m *EntryMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EntryMessageFromJSON decodes a message, rejecting unknown kinds and
// missing ids.
func EntryMessageFromJSON(data []byte) (*EntryMessage, error) {
	var msg EntryMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Kind != KindEntrySync && msg.Kind != KindEntryDelete {
		return nil, fmt.Errorf("unknown message kind %q", msg.Kind)
	}
	if msg.EntryID == "" {
		return nil, fmt.Errorf("message has no entry id")
	}
	return &msg, nil
}
