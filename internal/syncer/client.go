package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2/clientcredentials"
)

// Target receives sync payloads.
type Target interface {
	Push(ctx context.Context, p Payload) error
}

// TargetConfig describes the back-office endpoint and its OAuth2 client.
type TargetConfig struct {
	Endpoint     string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

// HTTPTarget posts payloads as JSON to the back office.
type HTTPTarget struct {
	endpoint   string
	httpClient *http.Client
}

// NewHTTPTarget returns a target for cfg. When a client id is configured the
// requests carry a client-credentials bearer token, refreshed as needed.
func NewHTTPTarget(ctx context.Context, cfg TargetConfig) *HTTPTarget {
	client := &http.Client{}
	if cfg.ClientID != "" {
		cc := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
		}
		client = cc.Client(ctx)
	}
	return &HTTPTarget{endpoint: cfg.Endpoint, httpClient: client}
}

// Push sends p and fails on any non-2xx answer.
func (t *HTTPTarget) Push(ctx context.Context, p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("back office request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("back office error %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}
