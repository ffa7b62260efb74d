package landing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laxenta/laxenta-web/internal/domain/model"
	"github.com/laxenta/laxenta-web/internal/testutil"
)

func baseInput() Input {
	return Input{
		BotName:     "Laxenta",
		BotAvatar:   "https://cdn.example/avatar.png",
		ClientID:    "123456",
		SupportURL:  "https://discord.gg/9emnU25HaY",
		OriginalURL: "/",
		Now:         time.Date(2031, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func labels(m *AccountMenu) []string {
	if m == nil {
		return nil
	}
	out := make([]string, 0, len(m.Items))
	for _, it := range m.Items {
		out = append(out, it.Label)
	}
	return out
}

func TestBuild_Anonymous(t *testing.T) {
	in := baseInput()
	in.OriginalURL = "/?tab=music&x=1"

	v := Build(in)

	assert.False(t, v.IsAuthenticated)
	assert.True(t, v.Nav.ShowLogin)
	assert.Equal(t, "/auth/discord?returnTo=%2F%3Ftab%3Dmusic%26x%3D1", v.Nav.LoginURL)
	assert.False(t, v.Nav.ShowDashboard)
	assert.False(t, v.Nav.ShowConnectSpotify)
	assert.Nil(t, v.AccountMenu)
	assert.Nil(t, v.User)
	assert.False(t, v.SpotifyLinked)
}

func TestBuild_AnonymousIgnoresStrayUser(t *testing.T) {
	in := baseInput()
	in.User = testutil.NewUser("u1").WithSpotifySession("s1").Build()
	in.SessionID = "s1"

	v := Build(in)
	assert.False(t, v.IsAuthenticated)
	assert.False(t, v.SpotifyLinked)
	assert.Nil(t, v.AccountMenu)
}

func TestBuild_AuthenticatedWithoutSpotify(t *testing.T) {
	in := baseInput()
	in.IsAuthenticated = true
	in.User = testutil.NewUser("u1").WithUsername("melody").WithSession("s1").Build()
	in.SessionID = "s1"
	in.OriginalURL = "/home"

	v := Build(in)

	assert.True(t, v.IsAuthenticated)
	assert.False(t, v.SpotifyLinked)
	assert.False(t, v.Nav.ShowLogin)
	assert.True(t, v.Nav.ShowDashboard)
	assert.True(t, v.Nav.ShowConnectSpotify)
	assert.Equal(t, "/auth/spotify?returnTo=%2Fhome", v.Nav.ConnectSpotifyURL)
	assert.Equal(t, []string{"Dashboard", "Profile", "Logout"}, labels(v.AccountMenu))
	require.NotNil(t, v.User)
	assert.Equal(t, "melody", v.User.Username)
	assert.Equal(t, model.DefaultAvatarURL, v.User.AvatarURL)
}

func TestBuild_AuthenticatedWithSpotify(t *testing.T) {
	in := baseInput()
	in.IsAuthenticated = true
	in.User = testutil.NewUser("u1").WithAvatar("hash").WithSpotifySession("s1").Build()
	in.SessionID = "s1"

	v := Build(in)

	assert.True(t, v.SpotifyLinked)
	assert.True(t, v.Nav.ShowDashboard)
	assert.False(t, v.Nav.ShowConnectSpotify)
	assert.Empty(t, v.Nav.ConnectSpotifyURL)
	assert.Equal(t,
		[]string{"Dashboard", "Profile", "Spotify Settings", "Disconnect Spotify", "Logout"},
		labels(v.AccountMenu))
	assert.Equal(t, "https://cdn.discordapp.com/avatars/u1/hash.png", v.User.AvatarURL)
}

func TestBuild_NavAndMenuAgree(t *testing.T) {
	user := testutil.NewUser("u1").WithSpotifySession("a").WithSession("b").Build()

	for _, sid := range []string{"a", "b", "missing", ""} {
		in := baseInput()
		in.IsAuthenticated = true
		in.User = user
		in.SessionID = sid

		v := Build(in)
		hasDisconnect := false
		for _, it := range v.AccountMenu.Items {
			if it.Action == ActionDisconnectSpotify {
				hasDisconnect = true
			}
		}
		assert.NotEqual(t, v.Nav.ShowConnectSpotify, hasDisconnect, "session %q", sid)
		assert.Equal(t, model.SpotifyLinked(user, sid), hasDisconnect, "session %q", sid)
	}
}

func TestBuild_OtherSessionDoesNotLeak(t *testing.T) {
	in := baseInput()
	in.IsAuthenticated = true
	in.User = testutil.NewUser("u1").WithSpotifySession("a").WithSession("b").Build()
	in.SessionID = "b"

	v := Build(in)
	assert.False(t, v.SpotifyLinked)
	assert.True(t, v.Nav.ShowConnectSpotify)
}

func TestBuild_MenuActions(t *testing.T) {
	in := baseInput()
	in.IsAuthenticated = true
	in.User = testutil.NewUser("u1").WithSpotifySession("s1").Build()
	in.SessionID = "s1"

	for _, it := range Build(in).AccountMenu.Items {
		assert.True(t, (it.Href == "") != (it.Action == ""), "item %q must have exactly one of Href/Action", it.Label)
	}
}

func TestBuild_Stats(t *testing.T) {
	in := baseInput()
	assert.Equal(t, model.BotStats{}, Build(in).Stats, "absent stats render as zeros")

	in.Stats = &model.BotStats{Servers: 42, Users: 1000, SongsPlayed: 5000}
	assert.Equal(t, model.BotStats{Servers: 42, Users: 1000, SongsPlayed: 5000}, Build(in).Stats)
}

func TestBuild_NowPlaying(t *testing.T) {
	in := baseInput()
	assert.Nil(t, Build(in).NowPlaying)

	in.NowPlaying = []model.Track{}
	assert.Nil(t, Build(in).NowPlaying)

	in.NowPlaying = []model.Track{
		{Title: "First", Thumbnail: "https://i.example/1.jpg", GuildName: "Guild One", Author: "A"},
		{Title: "Second", Thumbnail: "https://i.example/2.jpg", GuildName: "Guild Two"},
	}
	np := Build(in).NowPlaying
	require.NotNil(t, np)
	assert.Equal(t, NowPlaying{Title: "First", Thumbnail: "https://i.example/1.jpg", GuildName: "Guild One"}, *np)
}

func TestBuild_YearFromInjectedTime(t *testing.T) {
	in := baseInput()
	assert.Equal(t, 2031, Build(in).Year)
}

func TestBuild_Bot(t *testing.T) {
	v := Build(baseInput())
	assert.Equal(t, "Laxenta", v.Bot.Name)
	assert.Equal(t, "https://cdn.example/avatar.png", v.Bot.AvatarURL)
	assert.Equal(t,
		"https://discord.com/oauth2/authorize?client_id=123456&permissions=1118435113046&scope=bot%20applications.commands",
		v.Bot.InviteURL)
	assert.Equal(t, PageHome, v.CurrentPage)
}

func TestBuildError(t *testing.T) {
	in := baseInput()
	in.IsAuthenticated = true
	in.User = testutil.NewUser("u1").WithSpotifySession("s1").Build()
	in.SessionID = "s1"

	v := BuildError(in, "Something broke")
	assert.Equal(t, PageError, v.CurrentPage)
	assert.Equal(t, "Something broke", v.ErrorMessage)
	assert.Equal(t, "Error | Laxenta", v.Title)
	assert.True(t, v.SpotifyLinked)
	assert.NotNil(t, v.AccountMenu)
}

func TestLayoutData(t *testing.T) {
	v := Build(baseInput())
	assert.Equal(t, "Laxenta", v.LayoutData().Title)
}
