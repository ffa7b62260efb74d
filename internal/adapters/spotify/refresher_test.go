package spotify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laxenta/laxenta-web/internal/ports"
)

func tokenServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "old-refresh", r.PostForm.Get("refresh_token"))

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "client", user)
		assert.Equal(t, "secret", pass)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newRefresher(t *testing.T, srv *httptest.Server) *TokenRefresher {
	t.Helper()
	r, err := NewTokenRefresher(Config{
		ClientID:     "client",
		ClientSecret: "secret",
		TokenURL:     srv.URL,
		HTTPClient:   srv.Client(),
	})
	require.NoError(t, err)
	return r
}

func TestRefresh_Success(t *testing.T) {
	srv := tokenServer(t, http.StatusOK,
		`{"access_token":"new-access","token_type":"Bearer","expires_in":3600}`)
	r := newRefresher(t, srv)

	before := time.Now()
	tok, err := r.Refresh(context.Background(), "old-refresh")
	require.NoError(t, err)
	assert.Equal(t, "new-access", tok.AccessToken)
	assert.Empty(t, tok.RefreshToken, "unchanged refresh token is not echoed back")
	assert.WithinDuration(t, before.Add(time.Hour), tok.ExpiresAt, 10*time.Second)
}

func TestRefresh_RotatedRefreshToken(t *testing.T) {
	srv := tokenServer(t, http.StatusOK,
		`{"access_token":"new-access","refresh_token":"rotated","token_type":"Bearer","expires_in":3600}`)
	r := newRefresher(t, srv)

	tok, err := r.Refresh(context.Background(), "old-refresh")
	require.NoError(t, err)
	assert.Equal(t, "rotated", tok.RefreshToken)
}

func TestRefresh_InvalidGrant(t *testing.T) {
	srv := tokenServer(t, http.StatusBadRequest,
		`{"error":"invalid_grant","error_description":"Refresh token revoked"}`)
	r := newRefresher(t, srv)

	_, err := r.Refresh(context.Background(), "old-refresh")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ports.ErrSpotifyReauthRequired))
}

func TestRefresh_ServerError(t *testing.T) {
	srv := tokenServer(t, http.StatusBadGateway, `{"error":"server_error"}`)
	r := newRefresher(t, srv)

	_, err := r.Refresh(context.Background(), "old-refresh")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ports.ErrSpotifyReauthRequired))
}

func TestRefresh_EmptyToken(t *testing.T) {
	r, err := NewTokenRefresher(Config{ClientID: "c", ClientSecret: "s"})
	require.NoError(t, err)

	_, err = r.Refresh(context.Background(), "")
	assert.ErrorIs(t, err, ports.ErrSpotifyReauthRequired)
}

func TestNewTokenRefresher_Validation(t *testing.T) {
	_, err := NewTokenRefresher(Config{ClientSecret: "s"})
	require.Error(t, err)
	_, err = NewTokenRefresher(Config{ClientID: "c"})
	require.Error(t, err)
}
