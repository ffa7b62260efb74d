// Package spotify refreshes Spotify access tokens through the accounts service.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	oauthspotify "golang.org/x/oauth2/spotify"

	"github.com/laxenta/laxenta-web/internal/domain/model"
	"github.com/laxenta/laxenta-web/internal/ports"
)

// Config holds the Spotify application credentials.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// TokenURL overrides the Spotify token endpoint (tests).
	TokenURL   string
	HTTPClient *http.Client
}

var _ ports.TokenRefresher = (*TokenRefresher)(nil)

// TokenRefresher exchanges refresh tokens at the Spotify token endpoint.
type TokenRefresher struct {
	config     *oauth2.Config
	httpClient *http.Client
}

// NewTokenRefresher creates a TokenRefresher.
func NewTokenRefresher(cfg Config) (*TokenRefresher, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if cfg.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}

	endpoint := oauthspotify.Endpoint
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}
	// Spotify accepts client credentials in the Authorization header.
	endpoint.AuthStyle = oauth2.AuthStyleInHeader

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	return &TokenRefresher{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
		},
		httpClient: httpClient,
	}, nil
}

// Refresh returns a new access token. Spotify may rotate the refresh token;
// when it does not, the returned RefreshToken is empty. A refresh token that
// Spotify rejects yields ports.ErrSpotifyReauthRequired.
func (r *TokenRefresher) Refresh(ctx context.Context, refreshToken string) (model.SpotifyToken, error) {
	if refreshToken == "" {
		return model.SpotifyToken{}, ports.ErrSpotifyReauthRequired
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, r.httpClient)
	src := r.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		if isRejected(err) {
			return model.SpotifyToken{}, fmt.Errorf("%w: %w", ports.ErrSpotifyReauthRequired, err)
		}
		return model.SpotifyToken{}, fmt.Errorf("spotify token refresh: %w", err)
	}

	out := model.SpotifyToken{AccessToken: tok.AccessToken, ExpiresAt: tok.Expiry}
	if tok.RefreshToken != refreshToken {
		out.RefreshToken = tok.RefreshToken
	}
	return out, nil
}

// isRejected reports whether the token endpoint refused the grant itself
// rather than failing transiently.
func isRejected(err error) bool {
	var re *oauth2.RetrieveError
	if !errors.As(err, &re) {
		return false
	}
	if re.ErrorCode == "invalid_grant" || re.ErrorCode == "invalid_client" {
		return true
	}
	return re.Response != nil &&
		(re.Response.StatusCode == http.StatusBadRequest || re.Response.StatusCode == http.StatusUnauthorized)
}
