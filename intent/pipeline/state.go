package pipeline

import (
	"time"

	"github.com/google/uuid"
	contractx "github.com/tanpawarit/Chative-Intent-Graph/intent/contract"
	graphx "github.com/tanpawarit/Chative-Intent-Graph/intent/graph"
	treex "github.com/tanpawarit/Chative-Intent-Graph/intent/tree"
)

type RunInput struct {
	DialogDir  string
	OutputPath string
}

type RunOutput struct {
	RunID         uuid.UUID
	Conversations int
	Nodes         int
	Edges         int
	Roots         int
	OutputPath    string
	Persisted     bool
}

type runRequest struct {
	Input     RunInput
	RunID     uuid.UUID
	StartedAt time.Time
}

// runState is threaded through every node of one run.
type runState struct {
	RunID     uuid.UUID
	StartedAt time.Time
	Input     RunInput

	Corpus  []contractx.Transcript
	Graph   *graphx.Graph
	Roots   []treex.Node
	Encoded []byte

	Persisted bool
}

func (s *runState) output() RunOutput {
	out := RunOutput{
		RunID:         s.RunID,
		Conversations: len(s.Corpus),
		Roots:         len(s.Roots),
		OutputPath:    s.Input.OutputPath,
		Persisted:     s.Persisted,
	}
	if s.Graph != nil {
		out.Nodes = s.Graph.Len()
		out.Edges = s.Graph.EdgeCount()
	}
	return out
}
