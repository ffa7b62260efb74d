package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laxenta/laxenta-web/internal/domain/model"
	apperrors "github.com/laxenta/laxenta-web/internal/errors"
	"github.com/laxenta/laxenta-web/internal/testutil"
)

func seedUser(t *testing.T, repo *UserRepo, u *model.User) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, u))
	for _, s := range u.Sessions {
		require.NoError(t, repo.AddSession(ctx, u.DiscordID, s))
	}
}

func TestUserRepo_GetByDiscordID(t *testing.T) {
	testutil.SkipIfNoTestDB(t)
	db := testutil.SetupTestDB(t)
	repo := NewUserRepoWithTimeProvider(db, NewFixedTimeProvider(testutil.TestTime()))
	ctx := context.Background()

	u := testutil.NewUser("1001").
		WithUsername("melody").
		WithAvatar("abc123").
		WithSession("sess-a").
		WithSpotifySession("sess-b").
		Build()
	u.Sessions[1].CreatedAt = testutil.TestTime().Add(time.Minute)
	seedUser(t, repo, u)

	got, err := repo.GetByDiscordID(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, "melody", got.Username)
	assert.Equal(t, "abc123", got.AvatarHash)
	require.Len(t, got.Sessions, 2)
	assert.Equal(t, "sess-a", got.Sessions[0].SessionID)
	assert.Nil(t, got.Sessions[0].Spotify)
	require.NotNil(t, got.Sessions[1].Spotify)
	assert.Equal(t, "access-sess-b", got.Sessions[1].Spotify.AccessToken)

	assert.False(t, model.SpotifyLinked(got, "sess-a"))
	assert.True(t, model.SpotifyLinked(got, "sess-b"))
}

func TestUserRepo_GetByDiscordID_NotFound(t *testing.T) {
	testutil.SkipIfNoTestDB(t)
	db := testutil.SetupTestDB(t)
	repo := NewUserRepo(db)

	_, err := repo.GetByDiscordID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = repo.GetByDiscordID(context.Background(), "")
	assert.True(t, apperrors.IsValidation(err))
}

func TestUserRepo_ClearSpotify_ScopedToSession(t *testing.T) {
	testutil.SkipIfNoTestDB(t)
	db := testutil.SetupTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	seedUser(t, repo, testutil.NewUser("1002").
		WithSpotifySession("sess-a").
		WithSpotifySession("sess-b").
		Build())

	require.NoError(t, repo.ClearSpotify(ctx, "1002", "sess-a"))

	got, err := repo.GetByDiscordID(ctx, "1002")
	require.NoError(t, err)
	assert.False(t, model.SpotifyLinked(got, "sess-a"))
	assert.True(t, model.SpotifyLinked(got, "sess-b"))
}

func TestUserRepo_DeactivateSession(t *testing.T) {
	testutil.SkipIfNoTestDB(t)
	db := testutil.SetupTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	seedUser(t, repo, testutil.NewUser("1003").WithSpotifySession("sess-a").Build())

	require.NoError(t, repo.DeactivateSession(ctx, "1003", "sess-a"))

	got, err := repo.GetByDiscordID(ctx, "1003")
	require.NoError(t, err)
	require.Len(t, got.Sessions, 1)
	assert.False(t, got.Sessions[0].IsActive)
	assert.Nil(t, got.Sessions[0].Spotify)

	err = repo.DeactivateSession(ctx, "1003", "nope")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUserRepo_UpdateSpotifyToken(t *testing.T) {
	testutil.SkipIfNoTestDB(t)
	db := testutil.SetupTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	seedUser(t, repo, testutil.NewUser("1004").WithSpotifySession("sess-a").Build())
	require.NoError(t, repo.MarkSpotifyReconnect(ctx, "1004", "sess-a"))

	expires := testutil.TestTime().Add(2 * time.Hour)
	require.NoError(t, repo.UpdateSpotifyToken(ctx, "1004", "sess-a", model.SpotifyToken{
		AccessToken: "fresh",
		ExpiresAt:   expires,
	}))

	got, err := repo.GetByDiscordID(ctx, "1004")
	require.NoError(t, err)
	link := got.Sessions[0].Spotify
	require.NotNil(t, link)
	assert.Equal(t, "fresh", link.AccessToken)
	assert.Equal(t, "refresh-sess-a", link.RefreshToken, "empty refresh token keeps the stored one")
	assert.True(t, link.ExpiresAt.Equal(expires))
	assert.False(t, link.NeedsReconnect)
}

func TestUserRepo_MarkSpotifyReconnect(t *testing.T) {
	testutil.SkipIfNoTestDB(t)
	db := testutil.SetupTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	seedUser(t, repo, testutil.NewUser("1005").WithSpotifySession("sess-a").Build())
	require.NoError(t, repo.MarkSpotifyReconnect(ctx, "1005", "sess-a"))

	got, err := repo.GetByDiscordID(ctx, "1005")
	require.NoError(t, err)
	require.NotNil(t, got.Sessions[0].Spotify)
	assert.True(t, got.Sessions[0].Spotify.NeedsReconnect)

	err = repo.MarkSpotifyReconnect(ctx, "someone-else", "sess-a")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUserRepo_Validation(t *testing.T) {
	repo := NewUserRepo(nil)
	ctx := context.Background()

	assert.True(t, apperrors.IsValidation(repo.Upsert(ctx, nil)))
	assert.True(t, apperrors.IsValidation(repo.AddSession(ctx, "1", model.UserSession{})))
	assert.True(t, apperrors.IsValidation(repo.ClearSpotify(ctx, "", "s")))
	assert.True(t, apperrors.IsValidation(repo.UpdateSpotifyToken(ctx, "1", "s", model.SpotifyToken{})))
}

func TestToSession_NoSpotifyColumns(t *testing.T) {
	s := toSession(sessionRow{SessionID: "x", IsActive: true})
	assert.Nil(t, s.Spotify)
	assert.False(t, s.HasSpotify())
}
