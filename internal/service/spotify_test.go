package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/laxenta/laxenta-web/internal/domain/model"
	"github.com/laxenta/laxenta-web/internal/mocks"
	memmocks "github.com/laxenta/laxenta-web/internal/mocks/auth"
	"github.com/laxenta/laxenta-web/internal/ports"
	"github.com/laxenta/laxenta-web/internal/testutil"
)

func TestSpotifyService_Disconnect_OnlyCurrentSession(t *testing.T) {
	users := memmocks.NewMemoryUserDirectory(
		testutil.NewUser("u1").WithSpotifySession("a").WithSpotifySession("b").Build(),
	)
	svc, err := NewSpotifyService(SpotifyServiceOptions{Users: users})
	require.NoError(t, err)
	ctx := context.Background()

	sess := testSession("a", "u1")
	require.NoError(t, svc.Disconnect(ctx, &sess))

	u, err := users.GetByDiscordID(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, model.SpotifyLinked(u, "a"))
	assert.True(t, model.SpotifyLinked(u, "b"))
}

func TestSpotifyService_Disconnect_UnknownSessionSucceeds(t *testing.T) {
	users := memmocks.NewMemoryUserDirectory(testutil.NewUser("u1").WithSpotifySession("other").Build())
	svc, err := NewSpotifyService(SpotifyServiceOptions{Users: users})
	require.NoError(t, err)
	ctx := context.Background()

	sess := testSession("s1", "u1")
	require.NoError(t, svc.Disconnect(ctx, &sess))

	gone := testSession("s1", "missing-user")
	require.NoError(t, svc.Disconnect(ctx, &gone))

	u, err := users.GetByDiscordID(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, model.SpotifyLinked(u, "other"))
}

func TestSpotifyService_Disconnect_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserDirectory(ctrl)
	users.EXPECT().ClearSpotify(gomock.Any(), "u1", "a").Return(errors.New("db down"))

	svc, err := NewSpotifyService(SpotifyServiceOptions{Users: users})
	require.NoError(t, err)

	sess := testSession("a", "u1")
	require.Error(t, svc.Disconnect(context.Background(), &sess))
	assert.ErrorIs(t, svc.Disconnect(context.Background(), nil), ErrNoSession)
}

func TestSpotifyService_Refresh(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := memmocks.NewMemoryUserDirectory(testutil.NewUser("u1").WithSpotifySession("a").Build())
	refresher := mocks.NewMockTokenRefresher(ctrl)

	expires := testutil.TestTime().Add(time.Hour)
	refresher.EXPECT().
		Refresh(gomock.Any(), "refresh-a").
		Return(model.SpotifyToken{AccessToken: "fresh", ExpiresAt: expires}, nil)

	svc, err := NewSpotifyService(SpotifyServiceOptions{Users: users, Refresher: refresher})
	require.NoError(t, err)
	ctx := context.Background()

	sess := testSession("a", "u1")
	tok, err := svc.Refresh(ctx, &sess)
	require.NoError(t, err)
	assert.Equal(t, "fresh", tok.AccessToken)

	u, err := users.GetByDiscordID(ctx, "u1")
	require.NoError(t, err)
	link := u.FindSession("a").Spotify
	assert.Equal(t, "fresh", link.AccessToken)
	assert.Equal(t, "refresh-a", link.RefreshToken)
	assert.Equal(t, expires, link.ExpiresAt)
}

func TestSpotifyService_Refresh_NotLinked(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := memmocks.NewMemoryUserDirectory(testutil.NewUser("u1").WithSession("a").WithSpotifySession("b").Build())
	svc, err := NewSpotifyService(SpotifyServiceOptions{
		Users:     users,
		Refresher: mocks.NewMockTokenRefresher(ctrl),
	})
	require.NoError(t, err)

	sess := testSession("a", "u1")
	_, err = svc.Refresh(context.Background(), &sess)
	assert.ErrorIs(t, err, ErrSpotifyNotLinked)

	missing := testSession("zzz", "u1")
	_, err = svc.Refresh(context.Background(), &missing)
	assert.ErrorIs(t, err, ErrSpotifyNotLinked)
}

func TestSpotifyService_Refresh_Rejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := memmocks.NewMemoryUserDirectory(testutil.NewUser("u1").WithSpotifySession("a").Build())
	refresher := mocks.NewMockTokenRefresher(ctrl)
	refresher.EXPECT().
		Refresh(gomock.Any(), "refresh-a").
		Return(model.SpotifyToken{}, fmt.Errorf("%w: invalid_grant", ports.ErrSpotifyReauthRequired))

	svc, err := NewSpotifyService(SpotifyServiceOptions{Users: users, Refresher: refresher})
	require.NoError(t, err)
	ctx := context.Background()

	sess := testSession("a", "u1")
	_, err = svc.Refresh(ctx, &sess)
	assert.ErrorIs(t, err, ports.ErrSpotifyReauthRequired)

	u, err := users.GetByDiscordID(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, u.FindSession("a").Spotify.NeedsReconnect)
}

func TestSpotifyService_Refresh_TransientError(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserDirectory(ctrl)
	refresher := mocks.NewMockTokenRefresher(ctrl)

	users.EXPECT().GetByDiscordID(gomock.Any(), "u1").
		Return(testutil.NewUser("u1").WithSpotifySession("a").Build(), nil)
	refresher.EXPECT().Refresh(gomock.Any(), "refresh-a").Return(model.SpotifyToken{}, errors.New("timeout"))
	users.EXPECT().MarkSpotifyReconnect(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	users.EXPECT().UpdateSpotifyToken(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	svc, err := NewSpotifyService(SpotifyServiceOptions{Users: users, Refresher: refresher})
	require.NoError(t, err)

	sess := testSession("a", "u1")
	_, err = svc.Refresh(context.Background(), &sess)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrSpotifyReauthRequired)
}

func TestSpotifyService_Refresh_Unconfigured(t *testing.T) {
	svc, err := NewSpotifyService(SpotifyServiceOptions{Users: memmocks.NewMemoryUserDirectory()})
	require.NoError(t, err)

	sess := testSession("a", "u1")
	_, err = svc.Refresh(context.Background(), &sess)
	assert.ErrorIs(t, err, ErrSpotifyUnavailable)
}
