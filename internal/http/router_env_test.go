package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/laxenta/laxenta-web/internal/adapters/discord"
	redisadapter "github.com/laxenta/laxenta-web/internal/adapters/redis"
	domainauth "github.com/laxenta/laxenta-web/internal/domain/auth"
	"github.com/laxenta/laxenta-web/internal/domain/model"
	memauth "github.com/laxenta/laxenta-web/internal/mocks/auth"
	"github.com/laxenta/laxenta-web/internal/service"
	"github.com/laxenta/laxenta-web/internal/testutil"
)

var renderTime = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

// routerEnv is a fully wired router backed by in-memory sessions and users
// and a miniredis instance for the bot counters.
type routerEnv struct {
	handler  http.Handler
	users    *memauth.MemoryUserDirectory
	sessions *memauth.MemorySessionStore
	stats    *redisadapter.BotStatsStore
	redis    *miniredis.Miniredis
}

func newRouterEnv(t *testing.T, users ...*model.User) *routerEnv {
	t.Helper()
	SkipIfNoTemplates(t)

	mr, client := testutil.SetupMiniRedis(t)
	stats, err := redisadapter.NewBotStatsStore(client, redisadapter.BotStatsStoreOptions{
		StatsKey:      "bot:stats",
		NowPlayingKey: "bot:now_playing",
	})
	require.NoError(t, err)

	dir := memauth.NewMemoryUserDirectory(users...)
	sessions := memauth.NewMemorySessionStore()

	authSvc, err := service.NewAuthService(service.AuthServiceOptions{Sessions: sessions, Users: dir})
	require.NoError(t, err)
	landingSvc, err := service.NewLandingService(service.LandingServiceOptions{
		Users:      dir,
		Stats:      stats,
		NowPlaying: stats,
		Profile:    discord.StaticProfile{Name: "Laxenta", AvatarURL: "https://cdn.example.com/bot.png"},
	})
	require.NoError(t, err)
	spotifySvc, err := service.NewSpotifyService(service.SpotifyServiceOptions{Users: dir})
	require.NoError(t, err)

	h := NewRouter(RouterServices{
		Auth:    authSvc,
		Landing: landingSvc,
		Spotify: spotifySvc,
		Bot: BotInfo{
			Name:       "Laxenta",
			AvatarURL:  "https://cdn.example.com/bot.png",
			ClientID:   "123456789",
			SupportURL: "https://discord.gg/example",
		},
		TemplateFS: os.DirFS(TemplatePathFromTest),
		Clock:      func() time.Time { return renderTime },
	})

	return &routerEnv{handler: h, users: dir, sessions: sessions, stats: stats, redis: mr}
}

// login stores a live web session for the user and returns its cookie.
func (e *routerEnv) login(t *testing.T, userID, sessionID string) *http.Cookie {
	t.Helper()
	err := e.sessions.Save(context.Background(), domainauth.Session{
		ID:        sessionID,
		UserID:    userID,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	return &http.Cookie{Name: DefaultSessionCookie, Value: sessionID}
}

type envRequest struct {
	Method string
	Target string
	Cookie *http.Cookie
	Header map[string]string
}

func (e *routerEnv) do(req envRequest) *httptest.ResponseRecorder {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	r := httptest.NewRequest(method, req.Target, nil)
	if req.Cookie != nil {
		r.AddCookie(req.Cookie)
	}
	for k, v := range req.Header {
		r.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, r)
	return rec
}

func (e *routerEnv) page(t *testing.T, target string, cookie *http.Cookie) string {
	t.Helper()
	rec := e.do(envRequest{Target: target, Cookie: cookie, Header: map[string]string{"Accept": "text/html"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return rec.Body.String()
}
