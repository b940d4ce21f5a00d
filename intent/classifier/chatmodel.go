package classifier

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/Chative-Intent-Graph/intent/contract"
	promptx "github.com/tanpawarit/Chative-Intent-Graph/intent/prompt"
)

// ChatModel classifies through any eino chat model. The model's own error
// types are opaque here, so every call failure counts as transport.
type ChatModel struct {
	model        einomodel.BaseChatModel
	systemPrompt string
}

func NewChatModel(m einomodel.BaseChatModel, labels []string) (*ChatModel, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: chat model is required", contractx.ErrValidation)
	}
	return &ChatModel{model: m, systemPrompt: promptx.Classifier(labels)}, nil
}

func (c *ChatModel) Classify(ctx context.Context, text string) (string, error) {
	msg, err := c.model.Generate(ctx, []*schema.Message{
		schema.SystemMessage(c.systemPrompt),
		schema.UserMessage(text),
	})
	if err != nil {
		return "", fmt.Errorf("%w: chat model generate: %v", contractx.ErrClassifierTransport, err)
	}
	if msg == nil {
		return "", fmt.Errorf("%w: chat model returned no message", contractx.ErrMalformedResponse)
	}
	return parseLabel(msg.Content)
}
