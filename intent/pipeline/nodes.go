package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/Chative-Intent-Graph/intent/contract"
	graphx "github.com/tanpawarit/Chative-Intent-Graph/intent/graph"
	treex "github.com/tanpawarit/Chative-Intent-Graph/intent/tree"
)

var ErrInvalidInput = errors.New("invalid pipeline input")

func validateInput(req runRequest) (*runState, error) {
	in := req.Input
	in.DialogDir = strings.TrimSpace(in.DialogDir)
	in.OutputPath = strings.TrimSpace(in.OutputPath)
	if in.DialogDir == "" {
		return nil, fmt.Errorf("%w: dialog dir is required", ErrInvalidInput)
	}
	if in.OutputPath == "" {
		return nil, fmt.Errorf("%w: output path is required", ErrInvalidInput)
	}
	return &runState{RunID: req.RunID, StartedAt: req.StartedAt, Input: in}, nil
}

func loadCorpus(ctx context.Context, st *runState, loader CorpusLoader) (*runState, error) {
	corpus, err := loader.LoadDir(ctx, st.Input.DialogDir)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	st.Corpus = corpus
	return st, nil
}

func buildGraph(ctx context.Context, st *runState, builder *graphx.Builder) (*runState, error) {
	g, err := builder.Build(ctx, st.Corpus)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}
	st.Graph = g
	return st, nil
}

func renderTree(st *runState) (*runState, error) {
	st.Roots = treex.Render(st.Graph)

	var buf bytes.Buffer
	if err := treex.Encode(&buf, st.Roots); err != nil {
		return nil, fmt.Errorf("encode tree: %w", err)
	}
	st.Encoded = buf.Bytes()
	return st, nil
}

// writeResult replaces the output file atomically so a failed run never
// leaves a partial document behind.
func writeResult(ctx context.Context, st *runState) (*runState, error) {
	path := st.Input.OutputPath
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create temp result file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(st.Encoded); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("write result: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close result: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return nil, fmt.Errorf("replace result file: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Str("path", path).
		Int("bytes", len(st.Encoded)).
		Msg("result written")
	return st, nil
}

func persistSnapshot(ctx context.Context, st *runState, sink contractx.GraphSink) (RunOutput, error) {
	if sink == nil {
		return st.output(), nil
	}

	snap := contractx.Snapshot{
		RunID:         st.RunID,
		CreatedAt:     st.StartedAt,
		Conversations: len(st.Corpus),
		Nodes:         st.Graph.SnapshotNodes(),
		Tree:          st.Encoded,
	}
	if err := sink.Save(ctx, snap); err != nil {
		return RunOutput{}, fmt.Errorf("persist snapshot: %w", err)
	}
	st.Persisted = true
	return st.output(), nil
}
