package classifier

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Intent-Graph/intent/contract"
)

const (
	BackendTwin      = "twin"
	BackendLLM       = "llm"
	BackendChatModel = "chatmodel"

	CacheNone    = "none"
	CacheMemory  = "memory"
	CacheUpstash = "upstash"
	CacheRedis   = "redis"
)

type Config struct {
	Backend     string        `split_words:"true" default:"twin"`
	MaxAttempts uint          `split_words:"true" default:"10"`
	RetryDelay  time.Duration `split_words:"true" default:"1s"`
	Cache       string        `split_words:"true" default:"memory"`
	CacheTTL    time.Duration `split_words:"true" default:"720h"`
	CachePrefix string        `split_words:"true" default:"intentgraph:label:"`
}

func (c Config) Validate() error {
	switch c.backend() {
	case BackendTwin, BackendLLM, BackendChatModel:
	default:
		return fmt.Errorf("%w: unknown classifier backend %q", contractx.ErrValidation, c.Backend)
	}
	switch c.cache() {
	case CacheNone, CacheMemory, CacheUpstash, CacheRedis:
	default:
		return fmt.Errorf("%w: unknown label cache %q", contractx.ErrValidation, c.Cache)
	}
	if c.MaxAttempts == 0 {
		return fmt.Errorf("%w: max attempts must be > 0", contractx.ErrValidation)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("%w: retry delay must be >= 0", contractx.ErrValidation)
	}
	return nil
}

func (c Config) RetryPolicy() RetryPolicy {
	return ConstantRetryPolicy(c.MaxAttempts, c.RetryDelay)
}

func (c Config) backend() string {
	return strings.ToLower(strings.TrimSpace(c.Backend))
}

func (c Config) cache() string {
	v := strings.ToLower(strings.TrimSpace(c.Cache))
	if v == "" {
		return CacheNone
	}
	return v
}
