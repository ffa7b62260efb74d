package ports

import (
	"context"
	"errors"

	"github.com/laxenta/laxenta-web/internal/domain/model"
)

// ErrSpotifyReauthRequired is returned when Spotify rejects a refresh token
// and the user has to link the account again.
var ErrSpotifyReauthRequired = errors.New("spotify reauthorization required")

// TokenRefresher exchanges a Spotify refresh token for a new access token.
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (model.SpotifyToken, error)
}
