package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/johnquangdev/clientpulse/pkg/config"
)

// GmailReadonlyScope is the only scope the email source needs
const GmailReadonlyScope = "https://www.googleapis.com/auth/gmail.readonly"

// ErrMissingRefreshToken is returned when no refresh token is configured
var ErrMissingRefreshToken = errors.New("google refresh token is not configured")

// GoogleProvider builds authenticated Google API clients from a stored refresh token
type GoogleProvider struct {
	config       *oauth2.Config
	refreshToken string
}

// NewGoogleProvider creates a new Google OAuth provider
func NewGoogleProvider(cfg *config.GoogleOAuthConfig) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Scopes:       []string{GmailReadonlyScope},
			Endpoint:     google.Endpoint,
		},
		refreshToken: cfg.RefreshToken,
	}
}

// Configured reports whether a refresh token is available
func (g *GoogleProvider) Configured() bool {
	return g != nil && g.refreshToken != ""
}

// HTTPClient returns an http.Client that refreshes its access token on demand
func (g *GoogleProvider) HTTPClient(ctx context.Context) (*http.Client, error) {
	if !g.Configured() {
		return nil, ErrMissingRefreshToken
	}
	ts := g.config.TokenSource(ctx, &oauth2.Token{RefreshToken: g.refreshToken})
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(nil, ts)), nil
}

// RefreshToken exchanges the refresh token for a fresh access token
func (g *GoogleProvider) RefreshToken(ctx context.Context) (*oauth2.Token, error) {
	if !g.Configured() {
		return nil, ErrMissingRefreshToken
	}
	token, err := g.config.TokenSource(ctx, &oauth2.Token{RefreshToken: g.refreshToken}).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	return token, nil
}
