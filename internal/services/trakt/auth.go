package trakt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/trendarr/internal/services"
)

// ErrNoToken is returned by a TokenStore that holds no token yet
var ErrNoToken = errors.New("token not found")

// TokenStore defines the interface for storing and retrieving tokens
type TokenStore interface {
	GetToken() (*Token, error)
	SaveToken(token *Token) error
}

// Token represents a Trakt authentication token
type Token struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// FileTokenStore implements TokenStore using a JSON file
type FileTokenStore struct {
	filepath string
}

// NewFileTokenStore creates a new file-based token store
func NewFileTokenStore(filepath string) (*FileTokenStore, error) {
	if filepath == "" {
		return nil, errors.New("token file path required")
	}
	return &FileTokenStore{filepath: filepath}, nil
}

// GetToken retrieves the token from the file
func (s *FileTokenStore) GetToken() (*Token, error) {
	data, err := os.ReadFile(s.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoToken
		}
		return nil, err
	}

	var token Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}

	return &token, nil
}

// SaveToken saves the token to the file
func (s *FileTokenStore) SaveToken(token *Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.filepath, data, 0600)
}

// DeviceCodeResponse represents the response from device code request
type DeviceCodeResponse struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURL string `json:"verification_url"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
}

// TokenResponse represents the response from token request
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// GetToken retrieves the current token from the token store
func (c *Client) GetToken() (*Token, error) {
	return c.tokenStore.GetToken()
}

// Authenticate performs the device authentication flow. prompt receives the
// verification URL and user code to show to the user.
func (c *Client) Authenticate(ctx context.Context, prompt func(verificationURL, userCode string)) error {
	// Step 1: Request device code
	deviceCodeReq := map[string]string{
		"client_id": c.clientID,
	}

	var deviceResp DeviceCodeResponse
	if _, err := c.doPublicRequest(ctx, http.MethodPost, "/oauth/device/code", deviceCodeReq, &deviceResp); err != nil {
		return fmt.Errorf("failed to get device code: %w", err)
	}

	// Step 2: Display user code and URL
	c.logger.WithFields(logrus.Fields{
		"verification_url": deviceResp.VerificationURL,
		"user_code":        deviceResp.UserCode,
	}).Info("Waiting for Trakt device authorization")
	if prompt != nil {
		prompt(deviceResp.VerificationURL, deviceResp.UserCode)
	}

	// Step 3: Poll for token
	interval := time.Duration(deviceResp.Interval) * time.Second
	if c.pollInterval > 0 {
		interval = c.pollInterval
	} else if interval <= 0 {
		interval = 5 * time.Second
	}
	deadline := time.Now().Add(time.Duration(deviceResp.ExpiresIn) * time.Second)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if time.Now().After(deadline) {
				return fmt.Errorf("authentication timeout")
			}

			tokenReq := map[string]string{
				"code":          deviceResp.DeviceCode,
				"client_id":     c.clientID,
				"client_secret": c.clientSecret,
			}

			var tokenResp TokenResponse
			_, err := c.doPublicRequest(ctx, http.MethodPost, "/oauth/device/token", tokenReq, &tokenResp)
			if err != nil {
				if isPending(err) {
					c.logger.Debug("Waiting for user authorization...")
					continue
				}
				return fmt.Errorf("failed to poll device token: %w", err)
			}

			if _, err := c.saveToken(tokenResp); err != nil {
				return err
			}

			c.logger.Info("Authentication successful!")
			return nil
		}
	}
}

// RefreshToken refreshes the access token using the refresh token
func (c *Client) RefreshToken(ctx context.Context) (*Token, error) {
	token, err := c.tokenStore.GetToken()
	if err != nil {
		return nil, fmt.Errorf("no token to refresh: %w", err)
	}

	refreshReq := map[string]string{
		"refresh_token": token.RefreshToken,
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
		"grant_type":    "refresh_token",
	}

	var tokenResp TokenResponse
	if _, err := c.doPublicRequest(ctx, http.MethodPost, "/oauth/token", refreshReq, &tokenResp); err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}

	newToken, err := c.saveToken(tokenResp)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Token refreshed successfully")
	return newToken, nil
}

func (c *Client) saveToken(resp TokenResponse) (*Token, error) {
	token := &Token{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}

	if err := c.tokenStore.SaveToken(token); err != nil {
		return nil, fmt.Errorf("failed to save token: %w", err)
	}
	return token, nil
}

// isPending reports whether the device token poll should continue.
// Trakt answers 400 until the user approves the code.
func isPending(err error) bool {
	var statusErr *services.StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusBadRequest
}
