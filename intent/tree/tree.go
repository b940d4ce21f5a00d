package tree

import (
	"encoding/json"
	"io"

	graphx "github.com/tanpawarit/Chative-Intent-Graph/intent/graph"
)

// Node is one rendered phrase node. Intent is dropped for bot nodes, which
// are identified by their position under the human intent they answer.
type Node struct {
	Intent  string   `json:"intent,omitempty"`
	IsBot   bool     `json:"is_bot"`
	Phrases []string `json:"phrases"`
	Replies []Node   `json:"replies"`
}

type renderer struct {
	g       *graphx.Graph
	visited map[string]struct{}
}

// Render turns the graph into an acyclic forest. The start tree comes first
// when start exists; every intent not placed under it follows as its own
// root in first-encountered order. Each intent appears exactly once.
func Render(g *graphx.Graph) []Node {
	r := &renderer{
		g:       g,
		visited: map[string]struct{}{graphx.StartIntent: {}},
	}

	roots := make([]Node, 0, 1)
	if start, ok := g.Node(graphx.StartIntent); ok {
		roots = append(roots, r.render(start))
	}

	for _, intent := range g.Intents() {
		if r.seen(intent) {
			continue
		}
		n, _ := g.Node(intent)
		r.visited[intent] = struct{}{}
		roots = append(roots, r.render(n))
	}
	return roots
}

func (r *renderer) seen(intent string) bool {
	_, ok := r.visited[intent]
	return ok
}

func (r *renderer) render(n *graphx.PhraseNode) Node {
	out := Node{
		IsBot:   n.IsBot,
		Phrases: append(make([]string, 0, len(n.Phrases)), n.Phrases...),
		Replies: make([]Node, 0, len(n.Replies)),
	}
	if !n.IsBot {
		out.Intent = n.Intent
	}

	for _, intent := range n.Replies {
		if r.seen(intent) {
			continue
		}
		child, ok := r.g.Node(intent)
		if !ok {
			continue
		}
		r.visited[intent] = struct{}{}
		out.Replies = append(out.Replies, r.render(child))
	}
	return out
}

// Encode writes roots as indented JSON without escaping non-ASCII or HTML
// characters.
func Encode(w io.Writer, roots []Node) error {
	if roots == nil {
		roots = []Node{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	return enc.Encode(roots)
}
