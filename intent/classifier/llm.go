package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"
	contractx "github.com/tanpawarit/Chative-Intent-Graph/intent/contract"
	promptx "github.com/tanpawarit/Chative-Intent-Graph/intent/prompt"
	openrouterx "github.com/tanpawarit/Chative-Intent-Graph/pkg/openrouter"
)

// LLM classifies utterances with an OpenAI-compatible chat model. Like the
// Twin client it makes exactly one request per call.
type LLM struct {
	client       *openaisdk.Client
	model        string
	temperature  float64
	maxTokens    int64
	systemPrompt string
}

type llmOutput struct {
	Intent string `json:"intent"`
}

func NewLLM(client *openaisdk.Client, cfg openrouterx.Config) (*LLM, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: openai client is required", contractx.ErrValidation)
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, fmt.Errorf("%w: model is required", contractx.ErrValidation)
	}
	return &LLM{
		client:       client,
		model:        model,
		temperature:  cfg.Temperature,
		maxTokens:    cfg.MaxCompletionToken,
		systemPrompt: promptx.Classifier(cfg.Labels),
	}, nil
}

func (l *LLM) Classify(ctx context.Context, text string) (string, error) {
	params := openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(l.model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(l.systemPrompt),
			openaisdk.UserMessage(text),
		},
		Temperature: openaisdk.Float(l.temperature),
	}
	if l.maxTokens > 0 {
		params.MaxCompletionTokens = openaisdk.Int(l.maxTokens)
	}

	resp, err := l.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openaisdk.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: llm http status=%d: %v", contractx.ErrClassifierStatus, apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("%w: llm request: %v", contractx.ErrClassifierTransport, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: llm returned no choices", contractx.ErrMalformedResponse)
	}

	return parseLabel(resp.Choices[0].Message.Content)
}

func parseLabel(content string) (string, error) {
	raw := strings.TrimSpace(content)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var out llmOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return "", fmt.Errorf("%w: decode llm output: %v", contractx.ErrMalformedResponse, err)
	}
	label := strings.TrimSpace(out.Intent)
	if label == "" {
		return "", fmt.Errorf("%w: llm output has empty intent", contractx.ErrMalformedResponse)
	}
	return label, nil
}
