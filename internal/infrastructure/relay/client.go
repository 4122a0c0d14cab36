// Package relay implements the HTTP client for the ledger-writing relay
// service. The relay holds custody of the signing key and publishes the
// agreement fingerprint on a public blockchain.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/agreementlog/agreement-log-api/internal/api/metrics"
	"github.com/agreementlog/agreement-log-api/internal/core/ports"
)

const defaultTimeout = 30 * time.Second

type Client struct {
	url  string
	http *http.Client
}

// NewClient builds a relay client for the given endpoint URL. The timeout is
// the only delivery guarantee: no retries, no idempotency key.
func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

type publishRequest struct {
	AgreementHash string `json:"agreementHash"`
	Timestamp     int64  `json:"timestamp"`
}

type publishResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	TxHash  string `json:"txHash"`
	Details string `json:"details"`
}

// Publish submits the fingerprint and countersign timestamp and blocks until
// the relay reports the transaction outcome. Transport failures and
// non-success relay responses are surfaced verbatim to the caller.
func (c *Client) Publish(ctx context.Context, fingerprint string, timestamp int64) (*ports.RelayResult, error) {
	body, err := json.Marshal(publishRequest{AgreementHash: fingerprint, Timestamp: timestamp})
	if err != nil {
		return nil, fmt.Errorf("relay request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.RelayDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("relay call: %w", err)
	}
	defer resp.Body.Close()

	var out publishResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("relay response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := out.Details
		if detail == "" {
			detail = out.Message
		}
		return nil, fmt.Errorf("relay returned %d: %s", resp.StatusCode, detail)
	}

	detail := out.Details
	if detail == "" && out.Status != "success" {
		detail = out.Message
	}
	return &ports.RelayResult{
		Status: out.Status,
		TxHash: out.TxHash,
		Detail: detail,
	}, nil
}
