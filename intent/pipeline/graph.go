package pipeline

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
)

func (p *Pipeline) compileRunGraph(ctx context.Context) (compose.Runnable[runRequest, RunOutput], error) {
	graph := compose.NewGraph[runRequest, RunOutput]()

	if err := graph.AddLambdaNode("validate_input",
		compose.InvokableLambda(func(ctx context.Context, in runRequest) (*runState, error) {
			return validateInput(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_input: %w", err)
	}

	if err := graph.AddLambdaNode("load_corpus",
		compose.InvokableLambda(func(ctx context.Context, in *runState) (*runState, error) {
			return loadCorpus(ctx, in, p.loader)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node load_corpus: %w", err)
	}

	if err := graph.AddLambdaNode("build_graph",
		compose.InvokableLambda(func(ctx context.Context, in *runState) (*runState, error) {
			return buildGraph(ctx, in, p.builder)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node build_graph: %w", err)
	}

	if err := graph.AddLambdaNode("render_tree",
		compose.InvokableLambda(func(ctx context.Context, in *runState) (*runState, error) {
			return renderTree(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node render_tree: %w", err)
	}

	if err := graph.AddLambdaNode("write_result",
		compose.InvokableLambda(func(ctx context.Context, in *runState) (*runState, error) {
			return writeResult(ctx, in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node write_result: %w", err)
	}

	if err := graph.AddLambdaNode("persist_snapshot",
		compose.InvokableLambda(func(ctx context.Context, in *runState) (RunOutput, error) {
			return persistSnapshot(ctx, in, p.sink)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node persist_snapshot: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_input"},
		{"validate_input", "load_corpus"},
		{"load_corpus", "build_graph"},
		{"build_graph", "render_tree"},
		{"render_tree", "write_result"},
		{"write_result", "persist_snapshot"},
		{"persist_snapshot", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("intentgraph.run"))
	if err != nil {
		return nil, fmt.Errorf("compile pipeline graph: %w", err)
	}
	return runner, nil
}
