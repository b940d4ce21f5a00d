package graph

import contractx "github.com/tanpawarit/Chative-Intent-Graph/intent/contract"

// SnapshotNodes flattens the registry in first-encountered order.
func (g *Graph) SnapshotNodes() []contractx.SnapshotNode {
	out := make([]contractx.SnapshotNode, 0, g.Len())
	for i, intent := range g.Intents() {
		n := g.nodes[intent]
		out = append(out, contractx.SnapshotNode{
			Intent:   n.Intent,
			IsBot:    n.IsBot,
			Phrases:  append([]string(nil), n.Phrases...),
			Replies:  append([]string(nil), n.Replies...),
			Position: i,
		})
	}
	return out
}
