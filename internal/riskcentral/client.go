// Package riskcentral is the HTTP client for the external risk-scoring
// service. Transient failures (network errors, 5xx) are retried with
// exponential backoff; scorer rejections (4xx) are never retried.
package riskcentral

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"

	"github.com/coopcredit/credit-engine/internal/config"
)

var (
	// ErrUnavailable is returned when the service could not be reached
	// after the configured retries.
	ErrUnavailable = errors.New("risk central unavailable")

	// ErrRejected is returned when the service rejected the request
	// (4xx). Rejections are not retried.
	ErrRejected = errors.New("risk central rejected request")
)

// Evaluation is the scorer's answer for one document/amount pair. RiskLevel
// is the remote tier hint; the evaluation service classifies the score with
// its own configured bands and records the hint only inside Detail.
type Evaluation struct {
	Score     int    `json:"score"`
	RiskLevel string `json:"riskLevel"`
	Detail    string `json:"detail"`
}

type evaluateRequest struct {
	Document        string          `json:"document"`
	RequestedAmount decimal.Decimal `json:"requestedAmount"`
}

// Client encapsulates HTTP interaction with the risk central service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries uint64
	backoff    time.Duration
}

func NewClient(cfg config.RiskCentralConfig) *Client {
	backoff, err := time.ParseDuration(cfg.RetryBackoff)
	if err != nil || backoff <= 0 {
		backoff = 500 * time.Millisecond
	}

	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil || timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: uint64(cfg.MaxRetries),
		backoff:    backoff,
	}
}

// Evaluate requests a risk score for the given document and amount.
func (c *Client) Evaluate(ctx context.Context, document string, requestedAmount decimal.Decimal) (*Evaluation, error) {
	if c == nil || c.baseURL == "" {
		return nil, fmt.Errorf("%w: client not configured", ErrUnavailable)
	}

	body, err := json.Marshal(evaluateRequest{
		Document:        document,
		RequestedAmount: requestedAmount,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var result Evaluation

	policy := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.backoff))

	err = retry.Do(ctx, policy, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.baseURL+"/api/risk/evaluate", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("do request: %w", err))
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 500:
			return retry.RetryableError(fmt.Errorf("server error: %d", resp.StatusCode))
		case resp.StatusCode >= 400:
			return fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			return fmt.Errorf("unexpected status: %d", resp.StatusCode)
		}

		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrRejected) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &result, nil
}
