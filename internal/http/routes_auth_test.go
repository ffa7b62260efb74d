package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/laxenta/laxenta-web/internal/domain/auth"
	"github.com/laxenta/laxenta-web/internal/mocks"
	memauth "github.com/laxenta/laxenta-web/internal/mocks/auth"
	"github.com/laxenta/laxenta-web/internal/service"
	"github.com/laxenta/laxenta-web/internal/testutil"
)

func TestLogout_FetchCaller(t *testing.T) {
	u := testutil.NewUser("u1").WithSpotifySession("s1").WithSpotifySession("s2").Build()
	env := newRouterEnv(t, u)
	cookie := env.login(t, "u1", "s1")

	rec := env.do(envRequest{
		Method: http.MethodPost,
		Target: "/logout",
		Cookie: cookie,
		Header: map[string]string{"Accept": "application/json"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	cleared := findCookie(rec.Result().Cookies(), DefaultSessionCookie)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Equal(t, -1, cleared.MaxAge)

	_, err := env.sessions.Get(context.Background(), "s1")
	require.Error(t, err)

	stored, err := env.users.GetByDiscordID(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, stored.FindSession("s1").IsActive)
	assert.False(t, stored.FindSession("s1").HasSpotify())
	assert.True(t, stored.FindSession("s2").HasSpotify())

	body := env.page(t, "/", cookie)
	assert.Contains(t, body, `id="login-discord"`)
}

func TestLogout_BrowserRedirects(t *testing.T) {
	env := newRouterEnv(t)

	rec := env.do(envRequest{Method: http.MethodPost, Target: "/logout"})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestLogout_RejectsOffsiteReturn(t *testing.T) {
	env := newRouterEnv(t)

	rec := env.do(envRequest{Method: http.MethodPost, Target: "/logout?returnTo=https://evil.example.com"})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestLogout_GetNotAllowed(t *testing.T) {
	env := newRouterEnv(t)

	rec := env.do(envRequest{Target: "/logout"})

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestVerify(t *testing.T) {
	u := testutil.NewUser("u1").WithUsername("mika").WithSpotifySession("s1").WithSession("s2").Build()
	env := newRouterEnv(t, u)

	t.Run("anonymous", func(t *testing.T) {
		rec := env.do(envRequest{Target: "/api/auth/verify"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"valid":false}`, rec.Body.String())
	})

	t.Run("linked session", func(t *testing.T) {
		rec := env.do(envRequest{Target: "/api/auth/verify", Cookie: env.login(t, "u1", "s1")})
		require.Equal(t, http.StatusOK, rec.Code)

		var got verifyResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.True(t, got.Valid)
		require.NotNil(t, got.User)
		assert.Equal(t, "u1", got.User.DiscordID)
		assert.Equal(t, "mika", got.User.Username)
		assert.True(t, got.User.AuthStatus.Discord)
		assert.True(t, got.User.AuthStatus.Spotify)
	})

	t.Run("unlinked session", func(t *testing.T) {
		rec := env.do(envRequest{Target: "/api/auth/verify", Cookie: env.login(t, "u1", "s2")})
		require.Equal(t, http.StatusOK, rec.Code)

		var got verifyResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.True(t, got.Valid)
		require.NotNil(t, got.User)
		assert.False(t, got.User.AuthStatus.Spotify)
	})
}

func TestSpotifyDisconnectRoute(t *testing.T) {
	u := testutil.NewUser("u1").WithSpotifySession("s1").WithSpotifySession("s2").Build()
	env := newRouterEnv(t, u)
	cookie := env.login(t, "u1", "s1")

	rec := env.do(envRequest{Method: http.MethodPost, Target: "/api/spotify/disconnect", Cookie: cookie})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	stored, err := env.users.GetByDiscordID(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, stored.FindSession("s1").HasSpotify())
	assert.True(t, stored.FindSession("s2").HasSpotify())

	body := env.page(t, "/", cookie)
	assert.Contains(t, body, `id="connect-spotify"`)
	assert.NotContains(t, body, `data-action="disconnect-spotify"`)
}

func TestSpotifyDisconnectRoute_SessionUnknownToDirectory(t *testing.T) {
	u := testutil.NewUser("u1").WithSpotifySession("other").Build()
	env := newRouterEnv(t, u)

	rec := env.do(envRequest{Method: http.MethodPost, Target: "/api/spotify/disconnect", Cookie: env.login(t, "u1", "s1")})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}

func TestSpotifyRefreshRoute_HandlerNotFoundKeepsBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessions := memauth.NewMemorySessionStore()
	dir := memauth.NewMemoryUserDirectory()
	authSvc, err := service.NewAuthService(service.AuthServiceOptions{Sessions: sessions, Users: dir})
	require.NoError(t, err)
	spotifySvc, err := service.NewSpotifyService(service.SpotifyServiceOptions{
		Users:     dir,
		Refresher: mocks.NewMockTokenRefresher(ctrl),
	})
	require.NoError(t, err)
	require.NoError(t, sessions.Save(context.Background(), domainauth.Session{
		ID: "s1", UserID: "ghost", CreatedAt: time.Now(), ExpiresAt: time.Now().Add(time.Hour),
	}))

	h := NewRouter(RouterServices{Auth: authSvc, Spotify: spotifySvc})
	req := httptest.NewRequest(http.MethodPost, "/api/spotify/refresh", nil)
	req.AddCookie(&http.Cookie{Name: DefaultSessionCookie, Value: "s1"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not_found"}`, rec.Body.String())
}

func TestSpotifyRoutesRequireAuth(t *testing.T) {
	env := newRouterEnv(t)

	for _, target := range []string{"/api/spotify/disconnect", "/api/spotify/refresh"} {
		rec := env.do(envRequest{Method: http.MethodPost, Target: target})
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
		assert.Contains(t, rec.Body.String(), `"error":"authentication_required"`, target)
	}
}

func TestSpotifyRefreshRoute_NotConfigured(t *testing.T) {
	u := testutil.NewUser("u1").WithSpotifySession("s1").Build()
	env := newRouterEnv(t, u)

	rec := env.do(envRequest{Method: http.MethodPost, Target: "/api/spotify/refresh", Cookie: env.login(t, "u1", "s1")})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"spotify_unavailable"`)
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}
