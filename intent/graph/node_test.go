package graph

import (
	"errors"
	"testing"
)

func TestObserveCreatesOnceAndKeepsOrder(t *testing.T) {
	t.Parallel()

	g := New()
	if _, err := g.Observe("greet", false, "hi"); err != nil {
		t.Fatalf("Observe() error = %v", err)
	}
	if _, err := g.Observe("greet", true, "hi"); err != nil {
		t.Fatalf("Observe() error = %v", err)
	}
	n, err := g.Observe("greet", false, "hey")
	if err != nil {
		t.Fatalf("Observe() error = %v", err)
	}

	if g.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", g.Len())
	}
	if n.IsBot {
		t.Fatal("IsBot must keep the first observation")
	}
	if len(n.Phrases) != 2 || n.Phrases[0] != "hi" || n.Phrases[1] != "hey" {
		t.Fatalf("Phrases = %v, want [hi hey]", n.Phrases)
	}
}

func TestObserveRejectsEmptyIntent(t *testing.T) {
	t.Parallel()

	if _, err := New().Observe("  ", false, "x"); !errors.Is(err, ErrEmptyIntent) {
		t.Fatalf("Observe() error = %v, want ErrEmptyIntent", err)
	}
}

func TestLinkIsIdempotent(t *testing.T) {
	t.Parallel()

	g := New()
	_, _ = g.Observe("a", false, "a")
	_, _ = g.Observe("b", true, "b")

	added, err := g.Link("a", "b")
	if err != nil || !added {
		t.Fatalf("first Link() = %v, %v; want true, nil", added, err)
	}
	added, err = g.Link("a", "b")
	if err != nil || added {
		t.Fatalf("second Link() = %v, %v; want false, nil", added, err)
	}
	if g.EdgeCount() != 1 {
		t.Fatalf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	a, _ := g.Node("a")
	if len(a.Replies) != 1 || a.Replies[0] != "b" {
		t.Fatalf("Replies = %v, want [b]", a.Replies)
	}
}

func TestLinkUnknownNode(t *testing.T) {
	t.Parallel()

	g := New()
	_, _ = g.Observe("a", false, "a")

	if _, err := g.Link("a", "missing"); !errors.Is(err, ErrNodeNotFound) {
		t.Fatalf("Link() error = %v, want ErrNodeNotFound", err)
	}
	if _, err := g.Link("missing", "a"); !errors.Is(err, ErrNodeNotFound) {
		t.Fatalf("Link() error = %v, want ErrNodeNotFound", err)
	}
}

func TestIntentsReturnsCopy(t *testing.T) {
	t.Parallel()

	g := New()
	_, _ = g.Observe("a", false, "a")
	intents := g.Intents()
	intents[0] = "mutated"

	if _, ok := g.Node("a"); !ok || g.Intents()[0] != "a" {
		t.Fatal("Intents() must not expose internal order slice")
	}
}

func TestSnapshotNodesCopiesInOrder(t *testing.T) {
	t.Parallel()

	g := New()
	_, _ = g.Observe("b", false, "b1")
	_, _ = g.Observe("a", true, "a1")
	_, _ = g.Link("b", "a")

	nodes := g.SnapshotNodes()
	if len(nodes) != 2 || nodes[0].Intent != "b" || nodes[1].Intent != "a" {
		t.Fatalf("SnapshotNodes() = %+v", nodes)
	}
	if nodes[1].Position != 1 || !nodes[1].IsBot {
		t.Fatalf("unexpected second node: %+v", nodes[1])
	}
	nodes[0].Replies[0] = "mutated"
	if b, _ := g.Node("b"); b.Replies[0] != "a" {
		t.Fatal("snapshot must not alias node slices")
	}
}
