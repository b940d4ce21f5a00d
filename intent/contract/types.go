package contract

import (
	"time"

	"github.com/google/uuid"
)

type Turn struct {
	IsBot bool   `json:"is_bot"`
	Text  string `json:"text"`
}

// Transcript is one recorded conversation. A corpus is an ordered
// []Transcript so that node and phrase order is reproducible across runs.
type Transcript struct {
	ID    string `json:"id"`
	Turns []Turn `json:"turns"`
}

// SnapshotNode is the flat, storage-friendly view of a phrase node.
type SnapshotNode struct {
	Intent   string   `json:"intent"`
	IsBot    bool     `json:"is_bot"`
	Phrases  []string `json:"phrases"`
	Replies  []string `json:"replies"`
	Position int      `json:"position"`
}

type Snapshot struct {
	RunID         uuid.UUID      `json:"run_id"`
	CreatedAt     time.Time      `json:"created_at"`
	Conversations int            `json:"conversations"`
	Nodes         []SnapshotNode `json:"nodes"`
	Tree          []byte         `json:"tree,omitempty"`
}
