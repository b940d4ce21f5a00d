package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	contractx "github.com/tanpawarit/Chative-Intent-Graph/intent/contract"
)

func sampleSnapshot() contractx.Snapshot {
	return contractx.Snapshot{
		RunID:         uuid.MustParse("8f14e45f-ceea-467f-a0e6-3b2b1c2d9f10"),
		CreatedAt:     time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("ICT", 7*3600)),
		Conversations: 2,
		Nodes: []contractx.SnapshotNode{
			{Intent: "start", IsBot: true, Phrases: []string{"Hello"}, Replies: []string{"greet", "bye"}, Position: 0},
			{Intent: "greet", Phrases: []string{"hi", "hey"}, Replies: []string{"greet_reply"}, Position: 1},
			{Intent: "greet_reply", IsBot: true, Position: 2},
		},
		Tree: []byte(`[{"intent":"start"}]`),
	}
}

func TestToRows(t *testing.T) {
	t.Parallel()

	snap := sampleSnapshot()
	run, nodes, edges := toRows(snap)

	if run.ID != snap.RunID || run.Conversations != 2 || run.NodeCount != 3 || run.EdgeCount != 3 {
		t.Fatalf("unexpected run row: %+v", run)
	}
	if run.CreatedAt.Location() != time.UTC || !run.CreatedAt.Equal(snap.CreatedAt) {
		t.Fatalf("CreatedAt = %v, want UTC of %v", run.CreatedAt, snap.CreatedAt)
	}
	if run.Tree != `[{"intent":"start"}]` {
		t.Fatalf("Tree = %q", run.Tree)
	}

	wantNodes := []phraseNodeRow{
		{RunID: snap.RunID, Intent: "start", IsBot: true, Position: 0, Phrases: []string{"Hello"}},
		{RunID: snap.RunID, Intent: "greet", Position: 1, Phrases: []string{"hi", "hey"}},
		{RunID: snap.RunID, Intent: "greet_reply", IsBot: true, Position: 2, Phrases: []string{}},
	}
	if diff := cmp.Diff(wantNodes, nodes); diff != "" {
		t.Fatalf("nodes mismatch (-want +got):\n%s", diff)
	}

	wantEdges := []replyEdgeRow{
		{RunID: snap.RunID, FromIntent: "start", ToIntent: "greet", Position: 0},
		{RunID: snap.RunID, FromIntent: "start", ToIntent: "bye", Position: 1},
		{RunID: snap.RunID, FromIntent: "greet", ToIntent: "greet_reply", Position: 0},
	}
	if diff := cmp.Diff(wantEdges, edges); diff != "" {
		t.Fatalf("edges mismatch (-want +got):\n%s", diff)
	}
}

func TestOpenRequiresDSN(t *testing.T) {
	t.Parallel()

	if (Config{DSN: "  "}).Enabled() {
		t.Fatal("blank dsn must disable the store")
	}
	if _, err := Open(context.Background(), Config{}); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("Open() error = %v, want ErrValidation", err)
	}
}

func TestSavePostgres(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}

	ctx := context.Background()
	s, err := Open(ctx, Config{DSN: dsn})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	snap := sampleSnapshot()
	snap.RunID = uuid.New()
	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	var nodes []phraseNodeRow
	if err := s.db.NewSelect().Model(&nodes).Where("run_id = ?", snap.RunID).Order("position").Scan(ctx); err != nil {
		t.Fatalf("select nodes: %v", err)
	}
	if len(nodes) != 3 || nodes[1].Intent != "greet" || len(nodes[1].Phrases) != 2 {
		t.Fatalf("stored nodes = %+v", nodes)
	}

	if err := s.Save(ctx, snap); err == nil {
		t.Fatal("saving the same run twice must fail")
	}
}
