package classifier

import (
	"context"

	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/Chative-Intent-Graph/intent/contract"
)

type cached struct {
	next  contractx.Classifier
	cache contractx.LabelCache
}

// WithCache memoizes labels by exact utterance text. The cache is best
// effort: lookup or store failures are logged and classification proceeds.
func WithCache(next contractx.Classifier, cache contractx.LabelCache) contractx.Classifier {
	if cache == nil {
		return next
	}
	return &cached{next: next, cache: cache}
}

func (c *cached) Classify(ctx context.Context, text string) (string, error) {
	logger := zerolog.Ctx(ctx)

	label, ok, err := c.cache.Get(ctx, text)
	if err != nil {
		logger.Warn().Err(err).Msg("label cache lookup failed")
	} else if ok {
		logger.Debug().Str("intent", label).Msg("label cache hit")
		return label, nil
	}

	label, err = c.next.Classify(ctx, text)
	if err != nil {
		return "", err
	}

	if err := c.cache.Set(ctx, text, label); err != nil {
		logger.Warn().Err(err).Msg("label cache store failed")
	}
	return label, nil
}
