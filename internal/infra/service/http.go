package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vietddude/dispatcher/internal/core/domain"
)

// HTTPOperation dispatches items as JSON over HTTP. One pooled client is
// shared by every concurrent call; connections are reused across attempts.
type HTTPOperation struct {
	endpoint   string
	httpClient *http.Client
}

// NewHTTPOperation creates an HTTP-based operation.
func NewHTTPOperation(endpoint string, timeout time.Duration) *HTTPOperation {
	return &HTTPOperation{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Name identifies the operation in logs.
func (o *HTTPOperation) Name() string { return "http" }

// Call posts the item to the endpoint and returns the reply's data field,
// or the raw body when the reply is not the expected shape.
func (o *HTTPOperation) Call(ctx context.Context, item domain.WorkItem) (string, error) {
	jsonData, err := json.Marshal(item)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("service call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("rate limited (429), retry after: %s", resp.Header.Get("Retry-After"))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("http %d: %s", resp.StatusCode, string(body))
	}

	var reply struct {
		Data string `json:"data"`
	}
	if err := json.Unmarshal(body, &reply); err != nil || reply.Data == "" {
		return string(body), nil
	}
	return reply.Data, nil
}

// Close releases idle connections.
func (o *HTTPOperation) Close() error {
	o.httpClient.CloseIdleConnections()
	return nil
}
