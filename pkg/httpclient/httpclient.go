// pkg/httpclient/httpclient.go

package httpclient

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/frkngnc/commitor/pkg/shared"
)

// DefaultTimeout bounds a single generation request.
const DefaultTimeout = 60 * time.Second

// Config represents HTTP client configuration options
type Config struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
	// RootCAFile adds a CA bundle, for proxies that re-sign TLS.
	RootCAFile string
}

// DefaultConfig returns the settings used by the provider clients.
func DefaultConfig() *Config {
	return &Config{
		Timeout:   DefaultTimeout,
		UserAgent: "commitor/" + shared.Version,
	}
}

var defaultClient = mustClient(DefaultConfig())

// DefaultClient returns the preconfigured HTTP client shared by providers
func DefaultClient() *http.Client {
	return defaultClient
}

// NewClient builds a client from cfg. A nil cfg uses DefaultConfig.
func NewClient(cfg *Config) (*http.Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("invalid timeout: %s", cfg.Timeout)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	tlsConfig, err := SecureTLSConfig(cfg.RootCAFile)
	if err != nil {
		return nil, err
	}

	transport := &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		TLSClientConfig: tlsConfig,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
		MaxIdleConnsPerHost: 2,
	}

	return &http.Client{
		Timeout: cfg.Timeout,
		Transport: &headerTransport{
			base:      transport,
			userAgent: cfg.UserAgent,
			headers:   cfg.Headers,
		},
	}, nil
}

func mustClient(cfg *Config) *http.Client {
	c, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return c
}

// SecureTLSConfig returns a TLS 1.2+ config, optionally trusting an extra CA file.
func SecureTLSConfig(caCertPath string) (*tls.Config, error) {
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}

	if caCertPath != "" {
		caCert, err := os.ReadFile(caCertPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA certificate from %s: %w", caCertPath, err)
		}

		pool, err := x509.SystemCertPool()
		if err != nil || pool == nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA certificate from %s", caCertPath)
		}
		tlsConfig.RootCAs = pool
	}

	return tlsConfig, nil
}

type headerTransport struct {
	base      http.RoundTripper
	userAgent string
	headers   map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if t.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	for k, v := range t.headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	return t.base.RoundTrip(req)
}
