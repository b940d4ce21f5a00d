package store

import (
	"time"

	"github.com/google/uuid"
	contractx "github.com/tanpawarit/Chative-Intent-Graph/intent/contract"
	"github.com/uptrace/bun"
)

type runRow struct {
	bun.BaseModel `bun:"table:intent_graph_runs,alias:r"`

	ID            uuid.UUID `bun:"id,pk,type:uuid"`
	CreatedAt     time.Time `bun:"created_at,notnull"`
	Conversations int       `bun:"conversations,notnull"`
	NodeCount     int       `bun:"node_count,notnull"`
	EdgeCount     int       `bun:"edge_count,notnull"`
	Tree          string    `bun:"tree,type:jsonb,nullzero"`
}

type phraseNodeRow struct {
	bun.BaseModel `bun:"table:phrase_nodes,alias:n"`

	RunID    uuid.UUID `bun:"run_id,pk,type:uuid"`
	Intent   string    `bun:"intent,pk"`
	IsBot    bool      `bun:"is_bot,notnull"`
	Position int       `bun:"position,notnull"`
	Phrases  []string  `bun:"phrases,array"`
}

type replyEdgeRow struct {
	bun.BaseModel `bun:"table:reply_edges,alias:e"`

	RunID      uuid.UUID `bun:"run_id,pk,type:uuid"`
	FromIntent string    `bun:"from_intent,pk"`
	ToIntent   string    `bun:"to_intent,pk"`
	Position   int       `bun:"position,notnull"`
}

// toRows maps a snapshot onto table rows. Edge positions follow the reply
// order of their source node.
func toRows(snap contractx.Snapshot) (runRow, []phraseNodeRow, []replyEdgeRow) {
	nodes := make([]phraseNodeRow, 0, len(snap.Nodes))
	var edges []replyEdgeRow
	for _, n := range snap.Nodes {
		phrases := n.Phrases
		if phrases == nil {
			phrases = []string{}
		}
		nodes = append(nodes, phraseNodeRow{
			RunID:    snap.RunID,
			Intent:   n.Intent,
			IsBot:    n.IsBot,
			Position: n.Position,
			Phrases:  phrases,
		})
		for i, to := range n.Replies {
			edges = append(edges, replyEdgeRow{
				RunID:      snap.RunID,
				FromIntent: n.Intent,
				ToIntent:   to,
				Position:   i,
			})
		}
	}

	run := runRow{
		ID:            snap.RunID,
		CreatedAt:     snap.CreatedAt.UTC(),
		Conversations: snap.Conversations,
		NodeCount:     len(nodes),
		EdgeCount:     len(edges),
		Tree:          string(snap.Tree),
	}
	return run, nodes, edges
}
