// pkg/ai/openai.go

package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

type openAIProvider struct {
	client *openai.Client
	cfg    Config
}

func newOpenAI(cfg Config) *openAIProvider {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.HTTPClient != nil {
		config.HTTPClient = cfg.HTTPClient
	}
	return &openAIProvider{client: openai.NewClientWithConfig(config), cfg: cfg}
}

func (p *openAIProvider) Name() string { return string(KindOpenAI) }

func (p *openAIProvider) Generate(ctx context.Context, req Request) (Response, error) {
	logger := otelzap.Ctx(ctx)
	start := time.Now()

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.cfg.Model,
		Messages:    messages,
		MaxTokens:   p.cfg.MaxTokens,
		Temperature: p.cfg.Temperature,
	})
	if err != nil {
		return Response{}, p.classify(err)
	}
	if len(resp.Choices) == 0 {
		return Response{}, &ProviderError{Code: Unknown, Provider: p.Name(), Message: "response contained no choices"}
	}

	logger.Debug("OpenAI completion received",
		zap.String("model", resp.Model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens))

	return Response{
		Text:     resp.Choices[0].Message.Content,
		Model:    resp.Model,
		Provider: p.Name(),
		Duration: time.Since(start),
	}, nil
}

// HealthCheck looks up the configured model, which exercises the key without spending tokens.
func (p *openAIProvider) HealthCheck(ctx context.Context) error {
	if _, err := p.client.GetModel(ctx, p.cfg.Model); err != nil {
		return p.classify(err)
	}
	return nil
}

func (p *openAIProvider) classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return FromHTTPStatus(p.Name(), apiErr.HTTPStatusCode, apiErr.Message, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return FromHTTPStatus(p.Name(), reqErr.HTTPStatusCode, "request failed", err)
	}
	return unknown(p.Name(), err)
}
