// pkg/ai/ollama.go

package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frkngnc/commitor/pkg/httpclient"
	"github.com/frkngnc/commitor/pkg/ollama"
)

type ollamaProvider struct {
	client *ollama.Client
	cfg    Config
}

func newOllama(cfg Config) *ollamaProvider {
	return &ollamaProvider{client: ollama.NewClient(cfg.BaseURL, cfg.HTTPClient), cfg: cfg}
}

func (p *ollamaProvider) Name() string { return string(KindOllama) }

func (p *ollamaProvider) Generate(ctx context.Context, req Request) (Response, error) {
	start := time.Now()
	resp, err := p.client.Generate(ctx, ollama.GenerateRequest{
		Model:  p.cfg.Model,
		Prompt: req.Prompt,
		System: req.System,
		Options: &ollama.GenerateOptions{
			Temperature: p.cfg.Temperature,
			NumPredict:  p.cfg.MaxTokens,
		},
	})
	if err != nil {
		var se *httpclient.StatusError
		if errors.As(err, &se) {
			return Response{}, FromHTTPStatus(p.Name(), se.StatusCode, string(se.Body), err)
		}
		return Response{}, unknown(p.Name(), err)
	}

	return Response{
		Text:     resp.Response,
		Model:    resp.Model,
		Provider: p.Name(),
		Duration: time.Since(start),
	}, nil
}

// HealthCheck confirms the server is up and the model has been pulled.
func (p *ollamaProvider) HealthCheck(ctx context.Context) error {
	ok, err := p.client.HasModel(ctx, p.cfg.Model)
	if err != nil {
		return unknown(p.Name(), err)
	}
	if !ok {
		return &ProviderError{
			Code:     Unknown,
			Provider: p.Name(),
			Message:  fmt.Sprintf("model %q is not available; run `ollama pull %s`", p.cfg.Model, p.cfg.Model),
		}
	}
	return nil
}
