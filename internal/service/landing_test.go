package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/laxenta/laxenta-web/internal/domain/model"
	apperrors "github.com/laxenta/laxenta-web/internal/errors"
	"github.com/laxenta/laxenta-web/internal/mocks"
	"github.com/laxenta/laxenta-web/internal/testutil"
)

var fallbackProfile = model.BotProfile{Name: "Laxenta", AvatarURL: model.DefaultAvatarURL}

type landingMocks struct {
	users      *mocks.MockUserDirectory
	stats      *mocks.MockStatsSource
	nowPlaying *mocks.MockNowPlayingSource
	profile    *mocks.MockBotProfileSource
}

func newLandingFixture(t *testing.T) (*LandingService, landingMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := landingMocks{
		users:      mocks.NewMockUserDirectory(ctrl),
		stats:      mocks.NewMockStatsSource(ctrl),
		nowPlaying: mocks.NewMockNowPlayingSource(ctrl),
		profile:    mocks.NewMockBotProfileSource(ctrl),
	}
	svc, err := NewLandingService(LandingServiceOptions{
		Users:      m.users,
		Stats:      m.stats,
		NowPlaying: m.nowPlaying,
		Profile:    m.profile,
	})
	require.NoError(t, err)
	return svc, m
}

func TestLandingService_Build_Authenticated(t *testing.T) {
	svc, m := newLandingFixture(t)
	user := testutil.NewUser("u1").WithSpotifySession("s1").Build()
	track := model.Track{Title: "Song", GuildName: "Guild"}

	m.users.EXPECT().GetByDiscordID(gomock.Any(), "u1").Return(user, nil)
	m.stats.EXPECT().Stats(gomock.Any()).Return(model.BotStats{Servers: 42, Users: 1000, SongsPlayed: 5000}, nil)
	m.nowPlaying.EXPECT().NowPlaying(gomock.Any(), 1).Return([]model.Track{track}, nil)
	m.profile.EXPECT().Profile(gomock.Any()).Return(model.BotProfile{ID: "9", Name: "Laxenta Music"}, nil)

	sess := testSession("s1", "u1")
	data := svc.Build(context.Background(), &sess, fallbackProfile)

	assert.True(t, data.Authenticated())
	assert.Same(t, user, data.User)
	require.NotNil(t, data.Stats)
	assert.Equal(t, int64(42), data.Stats.Servers)
	assert.Equal(t, []model.Track{track}, data.NowPlaying)
	assert.Equal(t, "Laxenta Music", data.Profile.Name)
	assert.Equal(t, fallbackProfile.AvatarURL, data.Profile.AvatarURL)
}

func TestLandingService_Build_Anonymous(t *testing.T) {
	svc, m := newLandingFixture(t)

	m.stats.EXPECT().Stats(gomock.Any()).Return(model.BotStats{}, nil)
	m.nowPlaying.EXPECT().NowPlaying(gomock.Any(), 1).Return(nil, nil)
	m.profile.EXPECT().Profile(gomock.Any()).Return(fallbackProfile, nil)

	data := svc.Build(context.Background(), nil, fallbackProfile)

	assert.False(t, data.Authenticated())
	assert.Nil(t, data.User)
	assert.Empty(t, data.NowPlaying)
}

func TestLandingService_Build_Degrades(t *testing.T) {
	svc, m := newLandingFixture(t)

	m.users.EXPECT().GetByDiscordID(gomock.Any(), "u1").Return(nil, errors.New("db down"))
	m.stats.EXPECT().Stats(gomock.Any()).Return(model.BotStats{}, errors.New("redis down"))
	m.nowPlaying.EXPECT().NowPlaying(gomock.Any(), 1).Return(nil, errors.New("redis down"))
	m.profile.EXPECT().Profile(gomock.Any()).Return(model.BotProfile{}, errors.New("discord down"))

	sess := testSession("s1", "u1")
	data := svc.Build(context.Background(), &sess, fallbackProfile)

	assert.False(t, data.Authenticated())
	assert.Nil(t, data.Stats)
	assert.Empty(t, data.NowPlaying)
	assert.Equal(t, fallbackProfile, data.Profile)
}

func TestLandingService_Build_UnknownUserIsAnonymous(t *testing.T) {
	svc, m := newLandingFixture(t)

	m.users.EXPECT().GetByDiscordID(gomock.Any(), "ghost").Return(nil, apperrors.NotFoundf("user ghost not found"))
	m.stats.EXPECT().Stats(gomock.Any()).Return(model.BotStats{}, nil)
	m.nowPlaying.EXPECT().NowPlaying(gomock.Any(), 1).Return(nil, nil)
	m.profile.EXPECT().Profile(gomock.Any()).Return(fallbackProfile, nil)

	sess := testSession("s1", "ghost")
	data := svc.Build(context.Background(), &sess, fallbackProfile)
	assert.False(t, data.Authenticated())
	assert.Nil(t, data.Session)
}

func TestNewLandingService_RequiresSources(t *testing.T) {
	_, err := NewLandingService(LandingServiceOptions{})
	require.Error(t, err)
}
