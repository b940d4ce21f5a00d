package graph

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// StartIntent is the sentinel intent active before the first human turn
	// of a conversation and, when observed, the first root of the rendered tree.
	StartIntent = "start"
	ReplySuffix = "_reply"
)

var (
	ErrEmptyIntent  = errors.New("intent is empty")
	ErrNodeNotFound = errors.New("phrase node not found")
)

// PhraseNode aggregates every surface text observed for one intent and the
// intents that followed it. Replies hold intent keys resolved through the
// owning Graph, never node pointers.
type PhraseNode struct {
	Intent  string   `json:"intent"`
	IsBot   bool     `json:"is_bot"`
	Phrases []string `json:"phrases"`
	Replies []string `json:"replies"`

	phraseSet map[string]struct{}
	replySet  map[string]struct{}
}

func newPhraseNode(intent string, isBot bool) *PhraseNode {
	return &PhraseNode{
		Intent:    intent,
		IsBot:     isBot,
		Phrases:   make([]string, 0, 4),
		Replies:   make([]string, 0, 4),
		phraseSet: make(map[string]struct{}, 4),
		replySet:  make(map[string]struct{}, 4),
	}
}

func (n *PhraseNode) HasPhrase(text string) bool {
	_, ok := n.phraseSet[text]
	return ok
}

func (n *PhraseNode) HasReply(intent string) bool {
	_, ok := n.replySet[intent]
	return ok
}

// AddPhrase appends text unless an identical string is already present.
func (n *PhraseNode) AddPhrase(text string) bool {
	if n.HasPhrase(text) {
		return false
	}
	n.phraseSet[text] = struct{}{}
	n.Phrases = append(n.Phrases, text)
	return true
}

func (n *PhraseNode) addReply(intent string) bool {
	if n.HasReply(intent) {
		return false
	}
	n.replySet[intent] = struct{}{}
	n.Replies = append(n.Replies, intent)
	return true
}

// Graph is the registry of phrase nodes for one run: exactly one node per
// intent, kept in first-encountered order. It is not safe for concurrent
// mutation.
type Graph struct {
	nodes map[string]*PhraseNode
	order []string
	edges int
}

func New() *Graph {
	return &Graph{
		nodes: make(map[string]*PhraseNode, 64),
		order: make([]string, 0, 64),
	}
}

// Node returns the node registered for intent.
func (g *Graph) Node(intent string) (*PhraseNode, bool) {
	if g == nil {
		return nil, false
	}
	n, ok := g.nodes[intent]
	return n, ok
}

// Intents lists every registered intent in first-encountered order.
func (g *Graph) Intents() []string {
	if g == nil {
		return nil
	}
	return append([]string(nil), g.order...)
}

func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.order)
}

func (g *Graph) EdgeCount() int {
	if g == nil {
		return 0
	}
	return g.edges
}

// Observe creates the node for intent on first sight, or appends text to its
// phrases. IsBot is fixed by the first observation and never overwritten.
func (g *Graph) Observe(intent string, isBot bool, text string) (*PhraseNode, error) {
	if strings.TrimSpace(intent) == "" {
		return nil, ErrEmptyIntent
	}
	n, ok := g.nodes[intent]
	if !ok {
		n = newPhraseNode(intent, isBot)
		g.nodes[intent] = n
		g.order = append(g.order, intent)
	}
	n.AddPhrase(text)
	return n, nil
}

// Link records that to followed from. Both nodes must exist. It reports
// whether a new edge was added.
func (g *Graph) Link(from, to string) (bool, error) {
	src, ok := g.nodes[from]
	if !ok {
		return false, fmt.Errorf("%w: from=%s", ErrNodeNotFound, from)
	}
	if _, ok := g.nodes[to]; !ok {
		return false, fmt.Errorf("%w: to=%s", ErrNodeNotFound, to)
	}
	if !src.addReply(to) {
		return false, nil
	}
	g.edges++
	return true, nil
}
