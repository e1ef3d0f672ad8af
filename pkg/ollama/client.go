// Package ollama provides a small client for a local Ollama server: model
// listing for health checks and non-streaming generation for commit messages.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/frkngnc/commitor/pkg/httpclient"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const (
	// DefaultEndpoint is the default Ollama API endpoint
	DefaultEndpoint = "http://localhost:11434"

	// DefaultTimeout for Ollama API calls; local generation can be slow.
	DefaultTimeout = 120 * time.Second
)

// Client represents an Ollama API client
type Client struct {
	endpoint string
	http     *http.Client
}

// ModelInfo contains information about an Ollama model
type ModelInfo struct {
	Name       string    `json:"name"`
	ModifiedAt time.Time `json:"modified_at"`
	Size       int64     `json:"size"`
	Digest     string    `json:"digest"`
}

// ModelListResponse is the response from /api/tags
type ModelListResponse struct {
	Models []ModelInfo `json:"models"`
}

// GenerateOptions are the sampling options Ollama accepts under "options".
type GenerateOptions struct {
	Temperature float32 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// GenerateRequest is the body of /api/generate.
type GenerateRequest struct {
	Model   string           `json:"model"`
	Prompt  string           `json:"prompt"`
	System  string           `json:"system,omitempty"`
	Stream  bool             `json:"stream"`
	Options *GenerateOptions `json:"options,omitempty"`
}

// GenerateResponse is the final (non-streamed) reply of /api/generate.
type GenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// NewClient creates a new Ollama client. A nil httpClient gets DefaultTimeout.
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if httpClient == nil {
		var err error
		httpClient, err = httpclient.NewClient(&httpclient.Config{Timeout: DefaultTimeout})
		if err != nil {
			httpClient = &http.Client{Timeout: DefaultTimeout}
		}
	}

	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     httpClient,
	}
}

// Endpoint returns the base URL the client talks to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// HasModel checks if a specific model is available
// Following ASSESS pattern - check before acting
func (c *Client) HasModel(ctx context.Context, modelName string) (bool, error) {
	logger := otelzap.Ctx(ctx)

	models, err := c.ListModels(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list models: %w", err)
	}

	for _, model := range models {
		// Model names may include tags, e.g., "llama3.2:latest"
		if model.Name == modelName || strings.HasPrefix(model.Name, modelName+":") {
			logger.Debug("Model found",
				zap.String("model", modelName),
				zap.String("full_name", model.Name))
			return true, nil
		}
	}

	logger.Debug("Model not found", zap.String("model", modelName))
	return false, nil
}

// ListModels retrieves all available models from Ollama
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var result ModelListResponse
	if err := httpclient.DoJSON(ctx, c.http, http.MethodGet, c.endpoint+"/api/tags", nil, nil, &result); err != nil {
		return nil, fmt.Errorf("Ollama not accessible at %s: %w", c.endpoint, err)
	}
	return result.Models, nil
}

// Generate runs a single non-streaming completion.
// Non-2xx replies surface as *httpclient.StatusError.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	logger := otelzap.Ctx(ctx)
	req.Stream = false

	start := time.Now()
	var resp GenerateResponse
	if err := httpclient.DoJSON(ctx, c.http, http.MethodPost, c.endpoint+"/api/generate", nil, req, &resp); err != nil {
		return GenerateResponse{}, err
	}

	logger.Debug("Ollama generation finished",
		zap.String("model", req.Model),
		zap.Duration("duration", time.Since(start)),
		zap.Int("response_len", len(resp.Response)))
	return resp, nil
}

// FormatSizeBytes formats byte size in human-readable form
func FormatSizeBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
