package trakt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/trendarr/internal/config"
	"github.com/amaumene/trendarr/internal/services"
	"github.com/amaumene/trendarr/internal/services/httpclient"
)

const (
	defaultBaseURL = "https://api.trakt.tv"
	apiVersion     = "2"

	// Tokens expiring within this window are refreshed before use
	refreshWindow = 24 * time.Hour
)

// Client handles communication with Trakt API
type Client struct {
	clientID     string
	clientSecret string
	baseURL      string
	tokenStore   TokenStore
	pollInterval time.Duration // overrides the device poll interval when set
	http         *httpclient.Client
	logger       *logrus.Logger
}

// NewClient creates a new Trakt API client
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	tokenStore, err := NewFileTokenStore(cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create token store: %w", err)
	}

	baseURL := cfg.TraktBaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		clientID:     cfg.TraktClientID,
		clientSecret: cfg.TraktClientSecret,
		baseURL:      baseURL,
		tokenStore:   tokenStore,
		http:         httpclient.New("trakt", cfg.HTTPOptions(), logger),
		logger:       logger,
	}, nil
}

// doRequest performs an authenticated HTTP request to Trakt API
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) (http.Header, error) {
	token, err := c.validToken(ctx)
	if err != nil {
		return nil, err
	}

	header := c.headers()
	header.Set("Authorization", "Bearer "+token.AccessToken)

	return c.http.Do(ctx, method, c.baseURL+path, header, body, result)
}

// doPublicRequest performs a request that only needs the API key
func (c *Client) doPublicRequest(ctx context.Context, method, path string, body interface{}, result interface{}) (http.Header, error) {
	return c.http.Do(ctx, method, c.baseURL+path, c.headers(), body, result)
}

func (c *Client) headers() http.Header {
	header := http.Header{}
	header.Set("trakt-api-version", apiVersion)
	header.Set("trakt-api-key", c.clientID)
	return header
}

// validToken returns the stored token, refreshing it first if it expires soon.
// A missing token means the user never ran the device login.
func (c *Client) validToken(ctx context.Context) (*Token, error) {
	token, err := c.tokenStore.GetToken()
	if err != nil {
		if errors.Is(err, ErrNoToken) {
			return nil, fmt.Errorf("no trakt token, run 'trendarr auth trakt': %w", services.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to read token: %w", err)
	}

	if time.Until(token.ExpiresAt) < refreshWindow {
		c.logger.Info("Token expires soon, refreshing...")
		return c.RefreshToken(ctx)
	}

	return token, nil
}
