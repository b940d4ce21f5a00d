package classifier

import (
	"context"
	"fmt"
	"io"

	"github.com/cenkalti/backoff/v5"
	cachex "github.com/tanpawarit/Chative-Intent-Graph/intent/cache"
	contractx "github.com/tanpawarit/Chative-Intent-Graph/intent/contract"
	openrouterx "github.com/tanpawarit/Chative-Intent-Graph/pkg/openrouter"
	twinx "github.com/tanpawarit/Chative-Intent-Graph/pkg/twin"
)

// Deps carries the per-backend configs New may need. Only the sections for
// the selected backend and cache are read.
type Deps struct {
	Twin       twinx.Config
	OpenRouter openrouterx.Config
	Upstash    cachex.UpstashConfig
	Redis      cachex.RedisConfig

	// NewBackOff overrides the wait schedule built from Config.RetryDelay.
	NewBackOff func() backoff.BackOff
}

// Stack is the assembled classifier: cache → retry → backend.
type Stack struct {
	contractx.Classifier
	closers []io.Closer
}

func (s *Stack) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func New(cfg Config, deps Deps) (*Stack, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	backend, err := newBackend(context.Background(), cfg, deps)
	if err != nil {
		return nil, err
	}

	policy := cfg.RetryPolicy()
	if deps.NewBackOff != nil {
		policy.NewBackOff = deps.NewBackOff
	}

	stack := &Stack{}
	cache, err := newCache(cfg, deps, stack)
	if err != nil {
		return nil, err
	}

	stack.Classifier = WithCache(WithRetry(backend, policy), cache)
	return stack, nil
}

func newBackend(ctx context.Context, cfg Config, deps Deps) (contractx.Classifier, error) {
	switch cfg.backend() {
	case BackendChatModel:
		m, err := openrouterx.NewChatModel(ctx, deps.OpenRouter)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", contractx.ErrValidation, err)
		}
		return NewChatModel(m, deps.OpenRouter.Labels)
	case BackendLLM:
		client, err := openrouterx.NewClient(deps.OpenRouter)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", contractx.ErrValidation, err)
		}
		return NewLLM(client, deps.OpenRouter)
	default:
		client, err := twinx.NewClient(deps.Twin)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", contractx.ErrValidation, err)
		}
		return client, nil
	}
}

func newCache(cfg Config, deps Deps, stack *Stack) (contractx.LabelCache, error) {
	opts := []cachex.Option{
		cachex.WithKeyPrefix(cfg.CachePrefix),
		cachex.WithTTL(cfg.CacheTTL),
	}

	switch cfg.cache() {
	case CacheMemory:
		return cachex.NewMemory(), nil
	case CacheUpstash:
		store, err := cachex.NewUpstash(deps.Upstash, opts...)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", contractx.ErrValidation, err)
		}
		return store, nil
	case CacheRedis:
		store, err := cachex.NewRedis(deps.Redis, opts...)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", contractx.ErrValidation, err)
		}
		stack.closers = append(stack.closers, store)
		return store, nil
	default:
		return nil, nil
	}
}
