package contract

import "context"

// Classifier maps one utterance to an intent label.
type Classifier interface {
	Classify(ctx context.Context, text string) (string, error)
}

// LabelCache memoizes classifier labels by utterance text.
type LabelCache interface {
	Get(ctx context.Context, text string) (label string, ok bool, err error)
	Set(ctx context.Context, text string, label string) error
}

type GraphSink interface {
	Save(ctx context.Context, snap Snapshot) error
}
