// pkg/httpclient/httpclient_test.go
package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{name: "default config", config: DefaultConfig()},
		{name: "nil config uses default", config: nil},
		{name: "invalid timeout", config: &Config{Timeout: -1 * time.Second}, wantErr: true, errMsg: "invalid timeout"},
		{name: "missing CA file", config: &Config{RootCAFile: "/nonexistent/ca.pem"}, wantErr: true, errMsg: "failed to read CA certificate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.config)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestDoJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "ua-test", r.Header.Get("User-Agent"))

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["msg"]})
	}))
	defer server.Close()

	client, err := NewClient(&Config{UserAgent: "ua-test"})
	require.NoError(t, err)

	var out map[string]string
	err = DoJSON(context.Background(), client, http.MethodPost, server.URL,
		map[string]string{"x-api-key": "secret"}, map[string]string{"msg": "hi"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "hi", out["echo"])
}

func TestDoJSONStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"slow down"}`))
	}))
	defer server.Close()

	err := DoJSON(context.Background(), nil, http.MethodGet, server.URL, nil, nil, nil)
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	assert.Contains(t, string(se.Body), "slow down")
}
