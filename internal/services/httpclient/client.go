// Package httpclient is the JSON transport shared by the service clients.
// Requests are paced by a token bucket and transient failures (network
// errors, 429, 5xx) are retried a bounded number of times with exponential backoff.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/amaumene/trendarr/internal/services"
)

const (
	defaultTimeout         = 30 * time.Second
	defaultInitialInterval = 500 * time.Millisecond
	maxErrorBody           = 4 * 1024
	userAgent              = "trendarr/1.0"
)

// Options configures a Client
type Options struct {
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerSecond float64 // 0 disables pacing
	InitialInterval   time.Duration
}

// Client performs JSON requests against one service
type Client struct {
	service         string
	httpClient      *http.Client
	limiter         *rate.Limiter
	maxRetries      int
	initialInterval time.Duration
	logger          *logrus.Logger
}

// New creates a client; service names the remote API in errors and logs
func New(service string, opts Options, logger *logrus.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = defaultInitialInterval
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &Client{
		service:         service,
		httpClient:      &http.Client{Timeout: opts.Timeout},
		limiter:         limiter,
		maxRetries:      opts.MaxRetries,
		initialInterval: opts.InitialInterval,
		logger:          logger,
	}
}

// Do sends a request and decodes a JSON response into result (if non-nil).
// body, when non-nil, is encoded as JSON. The response headers are returned
// so callers can follow pagination.
func (c *Client) Do(ctx context.Context, method, url string, header http.Header, body interface{}, result interface{}) (http.Header, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.initialInterval
	retry := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.maxRetries)), ctx)

	var respHeader http.Header
	attempt := 0
	operation := func() error {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(fmt.Errorf("rate limiter: %w", err))
		}

		h, err := c.doOnce(ctx, method, url, header, payload, result)
		if err == nil {
			respHeader = h
			return nil
		}

		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			return err
		}
		var statusErr *services.StatusError
		if errors.As(err, &statusErr) && !statusErr.Temporary() {
			return backoff.Permanent(err)
		}
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}

		c.logger.WithError(err).WithFields(logrus.Fields{
			"service": c.service,
			"method":  method,
			"attempt": attempt,
		}).Debug("Request failed, retrying")
		return err
	}

	if err := backoff.Retry(operation, retry); err != nil {
		return nil, err
	}
	return respHeader, nil
}

func (c *Client) doOnce(ctx context.Context, method, url string, header http.Header, payload []byte, result interface{}) (http.Header, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}

	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.WithFields(logrus.Fields{
		"service": c.service,
		"method":  method,
		"path":    req.URL.Path,
	}).Debug("Making API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", c.service, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &services.StatusError{
			Service:    c.service,
			StatusCode: resp.StatusCode,
			Body:       string(bytes.TrimSpace(bodyBytes)),
		}
	}

	if result != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return nil, backoff.Permanent(fmt.Errorf("failed to decode %s response: %w", c.service, err))
		}
	}

	return resp.Header, nil
}
