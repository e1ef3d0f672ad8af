// pkg/ai/anthropic.go

package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/frkngnc/commitor/pkg/httpclient"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const anthropicVersion = "2023-06-01"

type anthropicProvider struct {
	http *http.Client
	cfg  Config
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float32            `json:"temperature"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type anthropicErrorBody struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func newAnthropic(cfg Config) *anthropicProvider {
	client := cfg.HTTPClient
	if client == nil {
		client = httpclient.DefaultClient()
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &anthropicProvider{http: client, cfg: cfg}
}

func (p *anthropicProvider) Name() string { return string(KindAnthropic) }

func (p *anthropicProvider) headers() map[string]string {
	return map[string]string{
		"x-api-key":         p.cfg.APIKey,
		"anthropic-version": anthropicVersion,
	}
}

func (p *anthropicProvider) Generate(ctx context.Context, req Request) (Response, error) {
	logger := otelzap.Ctx(ctx)
	start := time.Now()

	body := anthropicRequest{
		Model:       p.cfg.Model,
		MaxTokens:   p.cfg.MaxTokens,
		Temperature: p.cfg.Temperature,
		System:      req.System,
		Messages:    []anthropicMessage{{Role: "user", Content: req.Prompt}},
	}

	var resp anthropicResponse
	if err := httpclient.DoJSON(ctx, p.http, http.MethodPost, p.cfg.BaseURL+"/v1/messages", p.headers(), body, &resp); err != nil {
		return Response{}, p.classify(err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	logger.Debug("Anthropic completion received",
		zap.String("model", resp.Model),
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens))

	return Response{
		Text:     text.String(),
		Model:    resp.Model,
		Provider: p.Name(),
		Duration: time.Since(start),
	}, nil
}

// HealthCheck lists models, which authenticates the key without generating.
func (p *anthropicProvider) HealthCheck(ctx context.Context) error {
	if err := httpclient.DoJSON(ctx, p.http, http.MethodGet, p.cfg.BaseURL+"/v1/models", p.headers(), nil, nil); err != nil {
		return p.classify(err)
	}
	return nil
}

func (p *anthropicProvider) classify(err error) error {
	var se *httpclient.StatusError
	if errors.As(err, &se) {
		msg := strings.TrimSpace(string(se.Body))
		var eb anthropicErrorBody
		if json.Unmarshal(se.Body, &eb) == nil && eb.Error.Message != "" {
			msg = eb.Error.Message
		}
		return FromHTTPStatus(p.Name(), se.StatusCode, msg, err)
	}
	return unknown(p.Name(), err)
}
