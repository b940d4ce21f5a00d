package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/Chative-Intent-Graph/intent/contract"
)

type Builder struct {
	classifier contractx.Classifier
}

func NewBuilder(classifier contractx.Classifier) (*Builder, error) {
	if classifier == nil {
		return nil, errors.New("intent classifier is required")
	}
	return &Builder{classifier: classifier}, nil
}

// Build walks every transcript in order and folds its turns into one Graph.
// Nodes and edges accumulate across conversations; the per-conversation
// cursor does not. Any classifier failure aborts the whole build.
func (b *Builder) Build(ctx context.Context, corpus []contractx.Transcript) (*Graph, error) {
	logger := zerolog.Ctx(ctx)
	g := New()

	for _, tr := range corpus {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := b.walk(ctx, g, tr); err != nil {
			return nil, err
		}
		logger.Debug().
			Str("conversation_id", tr.ID).
			Int("turns", len(tr.Turns)).
			Int("nodes", g.Len()).
			Msg("conversation folded into graph")
	}

	logger.Info().
		Int("conversations", len(corpus)).
		Int("nodes", g.Len()).
		Int("edges", g.EdgeCount()).
		Msg("intent graph built")

	return g, nil
}

func (b *Builder) walk(ctx context.Context, g *Graph, tr contractx.Transcript) error {
	intent := StartIntent
	previous := ""

	for i, turn := range tr.Turns {
		next, err := b.resolve(ctx, intent, turn)
		if err != nil {
			return fmt.Errorf("conversation=%s turn=%d: %w", tr.ID, i, err)
		}
		intent = next

		if _, err := g.Observe(intent, turn.IsBot, turn.Text); err != nil {
			return fmt.Errorf("%w: conversation=%s turn=%d: %v", contractx.ErrValidation, tr.ID, i, err)
		}

		if previous != "" {
			if _, ok := g.Node(previous); ok {
				if _, err := g.Link(previous, intent); err != nil {
					return fmt.Errorf("conversation=%s turn=%d: %w", tr.ID, i, err)
				}
			}
		}
		previous = intent
	}
	return nil
}

// resolve returns the intent a turn is filed under. Human turns are
// classified; a bot turn extends the active intent with ReplySuffix unless
// no human has spoken yet.
func (b *Builder) resolve(ctx context.Context, active string, turn contractx.Turn) (string, error) {
	if !turn.IsBot {
		label, err := b.classifier.Classify(ctx, turn.Text)
		if err != nil {
			return "", err
		}
		return label, nil
	}
	if active == StartIntent {
		return StartIntent, nil
	}
	return active + ReplySuffix, nil
}
