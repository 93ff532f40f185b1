package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// AuthUser is the profile returned by the identity provider.
type AuthUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

// DisplayName derives a human-readable name from the profile, falling
// back to the email and then a generic placeholder.
func (u *AuthUser) DisplayName() string {
	if name, ok := u.UserMetadata["name"].(string); ok && strings.TrimSpace(name) != "" {
		return strings.TrimSpace(name)
	}
	if strings.TrimSpace(u.Email) != "" {
		return strings.TrimSpace(u.Email)
	}
	return "User"
}

// AuthClient verifies bearer tokens against the identity provider.
type AuthClient interface {
	GetUser(ctx context.Context, token string) (*AuthUser, error)
}

type supabaseAuthClient struct {
	baseURL string
	anonKey string
	client  *http.Client
	logger  zerolog.Logger
}

func NewSupabaseAuthClient(baseURL, anonKey string, logger zerolog.Logger) AuthClient {
	return &supabaseAuthClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger.With().Str("service", "SupabaseAuthClient").Logger(),
	}
}

func (c *supabaseAuthClient) GetUser(ctx context.Context, token string) (*AuthUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("creating auth request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Identity provider request failed")
		return nil, ErrInvalidToken
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidToken
	}

	var user AuthUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, ErrInvalidToken
	}
	if user.ID == "" {
		return nil, ErrInvalidToken
	}
	return &user, nil
}
