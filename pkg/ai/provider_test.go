package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/frkngnc/commitor/pkg/commitor_err"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresKey(t *testing.T) {
	t.Parallel()

	for _, kind := range []Kind{KindOpenAI, KindAnthropic} {
		_, err := New(Config{Kind: kind})
		require.Error(t, err)
		assert.True(t, commitor_err.Is(err, commitor_err.ConfigurationMissing))
	}

	p, err := New(Config{Kind: KindOllama})
	require.NoError(t, err)
	assert.Equal(t, "ollama", p.Name())

	_, err = New(Config{Kind: "browser", APIKey: "x"})
	require.Error(t, err)
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	cfg := Config{Kind: KindOpenAI}.withDefaults()
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, 500, cfg.MaxTokens)
	assert.Equal(t, float32(0.7), cfg.Temperature)

	cfg = Config{Kind: KindAnthropic, Model: "claude-custom"}.withDefaults()
	assert.Equal(t, "claude-custom", cfg.Model)
	assert.Equal(t, 1024, cfg.MaxTokens)
	assert.Equal(t, "https://api.anthropic.com", cfg.BaseURL)

	assert.Equal(t, "llama3.2", Defaults(KindOllama).Model)
}

// statusServer answers every request with status and an OpenAI/Anthropic-shaped error body.
func statusServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":{"type":"error","message":"simulated failure"}}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestStatusMappingAcrossProviders(t *testing.T) {
	statuses := []struct {
		status int
		want   ErrorCode
	}{
		{http.StatusUnauthorized, InvalidCredential},
		{http.StatusTooManyRequests, RateLimited},
		{http.StatusInternalServerError, ServerError},
		{http.StatusBadRequest, Unknown},
	}
	kinds := []Kind{KindOpenAI, KindAnthropic, KindOllama}

	for _, kind := range kinds {
		for _, st := range statuses {
			t.Run(string(kind)+"_"+http.StatusText(st.status), func(t *testing.T) {
				srv := statusServer(t, st.status)
				base := srv.URL
				if kind == KindOpenAI {
					base += "/v1"
				}
				var p Provider
				switch kind {
				case KindOpenAI:
					p = newOpenAI(Config{Kind: kind, APIKey: "sk-test", BaseURL: base}.withDefaults())
				case KindAnthropic:
					p = newAnthropic(Config{Kind: kind, APIKey: "sk-ant-test", BaseURL: base}.withDefaults())
				case KindOllama:
					p = newOllama(Config{Kind: kind, BaseURL: base}.withDefaults())
				}

				_, err := p.Generate(context.Background(), Request{Prompt: "p"})
				require.Error(t, err)
				pe, ok := AsProviderError(err)
				require.True(t, ok, "got %T: %v", err, err)
				assert.Equal(t, st.want, pe.Code)
				assert.Equal(t, st.status, pe.Status)
				assert.Equal(t, string(kind), pe.Provider)
			})
		}
	}
}

func TestOpenAIGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini", body["model"])
		msgs := body["messages"].([]any)
		require.Len(t, msgs, 2)
		assert.Equal(t, "system", msgs[0].(map[string]any)["role"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","model":"gpt-4o-mini","choices":[{"index":0,"message":{"role":"assistant","content":"feat: add thing"}}],"usage":{"prompt_tokens":10,"completion_tokens":3}}`))
	}))
	defer srv.Close()

	p := newOpenAI(Config{Kind: KindOpenAI, APIKey: "sk-test", BaseURL: srv.URL + "/v1/"}.withDefaults())
	resp, err := p.Generate(context.Background(), Request{Prompt: "diff", System: "sys"})
	require.NoError(t, err)
	assert.Equal(t, "feat: add thing", resp.Text)
	assert.Equal(t, "openai", resp.Provider)
}

func TestAnthropicGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant-test", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var body anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "claude-3-5-sonnet-20241022", body.Model)
		assert.Equal(t, 1024, body.MaxTokens)
		assert.Equal(t, "sys", body.System)
		require.Len(t, body.Messages, 1)

		_, _ = w.Write([]byte(`{"model":"claude-3-5-sonnet-20241022","content":[{"type":"text","text":"fix: a"},{"type":"text","text":"\n- b"}]}`))
	}))
	defer srv.Close()

	p := newAnthropic(Config{Kind: KindAnthropic, APIKey: "sk-ant-test", BaseURL: srv.URL}.withDefaults())
	resp, err := p.Generate(context.Background(), Request{Prompt: "diff", System: "sys"})
	require.NoError(t, err)
	assert.Equal(t, "fix: a\n- b", resp.Text)
}

func TestAnthropicHealthCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		if r.Header.Get("x-api-key") != "sk-ant-good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	good := newAnthropic(Config{Kind: KindAnthropic, APIKey: "sk-ant-good", BaseURL: srv.URL}.withDefaults())
	require.NoError(t, good.HealthCheck(context.Background()))

	bad := newAnthropic(Config{Kind: KindAnthropic, APIKey: "sk-ant-bad", BaseURL: srv.URL}.withDefaults())
	err := bad.HealthCheck(context.Background())
	pe, ok := AsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, InvalidCredential, pe.Code)
}

func TestOllamaHealthCheckMissingModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"models":[{"name":"mistral:latest"}]}`))
	}))
	defer srv.Close()

	p := newOllama(Config{Kind: KindOllama, BaseURL: srv.URL}.withDefaults())
	err := p.HealthCheck(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama pull llama3.2")
}
