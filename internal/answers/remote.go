package answers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"chatwidget/internal/config"
	"chatwidget/internal/models"
)

const searchPath = "/answers/search"

// RemoteConfig configures the external search API client.
type RemoteConfig struct {
	BaseURL string

	// APIKey is sent as a static bearer token. It is ignored when client
	// credentials are configured.
	APIKey string

	TokenURL     string
	ClientID     string
	ClientSecret string

	Timeout time.Duration
}

// RemoteSource proxies queries to the external answer search API.
type RemoteSource struct {
	baseURL string
	client  *http.Client
	probe   *http.Client
}

// NewRemoteSource creates a client for cfg. ctx scopes token fetches.
func NewRemoteSource(ctx context.Context, cfg RemoteConfig) (*RemoteSource, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("answer api base url is required")
	}

	var client *http.Client
	switch {
	case cfg.TokenURL != "" && cfg.ClientID != "":
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		client = cc.Client(ctx)
	case cfg.APIKey != "":
		client = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.APIKey,
			TokenType:   "Bearer",
		}))
	default:
		client = &http.Client{}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client.Timeout = timeout

	return &RemoteSource{
		baseURL: base,
		client:  client,
		probe:   &http.Client{Timeout: timeout},
	}, nil
}

// Name returns the source mode.
func (s *RemoteSource) Name() string { return config.SourceRemote }

// BaseURL returns the API root the source posts to.
func (s *RemoteSource) BaseURL() string { return s.baseURL }

// Search posts {"q": query} and decodes the API answer. Failures are
// returned as *UpstreamError.
func (s *RemoteSource) Search(ctx context.Context, query string) (*models.Answer, error) {
	payload, err := json.Marshal(map[string]string{"q": query})
	if err != nil {
		return nil, &UpstreamError{Kind: KindInternal, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+searchPath, bytes.NewReader(payload))
	if err != nil {
		return nil, &UpstreamError{Kind: KindInternal, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &UpstreamError{Kind: KindStatus, StatusCode: resp.StatusCode}
	}

	var answer models.Answer
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return nil, classify(fmt.Errorf("failed to decode answer: %w", err))
	}
	return &answer, nil
}

// Ping checks that the API host answers HTTP at all. Any response counts as
// reachable.
func (s *RemoteSource) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.baseURL, nil)
	if err != nil {
		return &UpstreamError{Kind: KindInternal, Err: err}
	}
	req.Header.Set("User-Agent", "ChatWidget-UpstreamChecker/1.0")

	resp, err := s.probe.Do(req)
	if err != nil {
		return classify(err)
	}
	resp.Body.Close()
	return nil
}
