package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/Chative-Intent-Graph/intent/contract"
	dialogx "github.com/tanpawarit/Chative-Intent-Graph/intent/dialog"
	graphx "github.com/tanpawarit/Chative-Intent-Graph/intent/graph"
)

// CorpusLoader turns a transcript directory into an ordered corpus.
type CorpusLoader interface {
	LoadDir(ctx context.Context, dir string) ([]contractx.Transcript, error)
}

type Option func(*Pipeline)

func WithLoader(loader CorpusLoader) Option {
	return func(p *Pipeline) {
		if loader != nil {
			p.loader = loader
		}
	}
}

// WithSink stores a snapshot of every successful run.
func WithSink(sink contractx.GraphSink) Option {
	return func(p *Pipeline) {
		p.sink = sink
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

func WithRunID(newID func() uuid.UUID) Option {
	return func(p *Pipeline) {
		if newID != nil {
			p.newID = newID
		}
	}
}

// Pipeline runs one full build: load transcripts, build the graph, render
// the tree, write it out and optionally persist a snapshot.
type Pipeline struct {
	loader  CorpusLoader
	builder *graphx.Builder
	sink    contractx.GraphSink

	graphRunner compose.Runnable[runRequest, RunOutput]

	now   func() time.Time
	newID func() uuid.UUID
}

func New(classifier contractx.Classifier, opts ...Option) (*Pipeline, error) {
	if classifier == nil {
		return nil, errors.New("classifier is required")
	}
	builder, err := graphx.NewBuilder(classifier)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		loader:  dialogx.NewLoader(),
		builder: builder,
		now:     time.Now,
		newID:   uuid.New,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	graphRunner, err := p.compileRunGraph(context.Background())
	if err != nil {
		return nil, err
	}
	p.graphRunner = graphRunner

	return p, nil
}

// Run executes one build. Every log line emitted during the run carries the
// run_id field.
func (p *Pipeline) Run(ctx context.Context, in RunInput) (RunOutput, error) {
	runID := p.newID()
	logger := zerolog.Ctx(ctx).With().Str("run_id", runID.String()).Logger()
	ctx = logger.WithContext(ctx)

	logger.Info().
		Str("dialog_dir", in.DialogDir).
		Str("output_path", in.OutputPath).
		Msg("intent graph run started")

	out, err := p.graphRunner.Invoke(ctx, runRequest{
		Input:     in,
		RunID:     runID,
		StartedAt: p.now().UTC(),
	})
	if err != nil {
		logger.Error().Err(err).Msg("intent graph run failed")
		return RunOutput{}, err
	}

	logger.Info().
		Int("conversations", out.Conversations).
		Int("nodes", out.Nodes).
		Int("edges", out.Edges).
		Int("roots", out.Roots).
		Bool("persisted", out.Persisted).
		Msg("intent graph run finished")
	return out, nil
}
