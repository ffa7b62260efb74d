package discord

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laxenta/laxenta-web/internal/domain/model"
)

type fakeFetcher struct {
	calls atomic.Int32
	user  *discordgo.User
	err   error
	gate  chan struct{}
}

func (f *fakeFetcher) User(userID string, _ ...discordgo.RequestOption) (*discordgo.User, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	if userID != "@me" {
		return nil, errors.New("unexpected user id " + userID)
	}
	return f.user, f.err
}

var fallback = model.BotProfile{Name: "Laxenta", AvatarURL: model.DefaultAvatarURL}

func newSource(t *testing.T, f UserFetcher, now func() time.Time) *ProfileSource {
	t.Helper()
	src, err := NewProfileSource(ProfileSourceOptions{
		Fetcher:  f,
		Fallback: fallback,
		TTL:      time.Minute,
		Now:      now,
	})
	require.NoError(t, err)
	return src
}

func TestProfile_FetchesAndCaches(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	f := &fakeFetcher{user: &discordgo.User{ID: "42", Username: "laxenta", Avatar: "hash"}}
	src := newSource(t, f, func() time.Time { return now })

	prof, err := src.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "42", prof.ID)
	assert.Equal(t, "laxenta", prof.Name)
	assert.Contains(t, prof.AvatarURL, "avatars/42/hash")

	_, err = src.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), f.calls.Load())

	now = now.Add(2 * time.Minute)
	_, err = src.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), f.calls.Load())
}

func TestProfile_PrefersGlobalName(t *testing.T) {
	f := &fakeFetcher{user: &discordgo.User{ID: "42", Username: "laxenta_bot", GlobalName: "Laxenta Music"}}
	src := newSource(t, f, nil)

	prof, err := src.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Laxenta Music", prof.Name)
	assert.Equal(t, fallback.AvatarURL, prof.AvatarURL, "no avatar hash keeps the configured avatar")
}

func TestProfile_FallbackOnError(t *testing.T) {
	f := &fakeFetcher{err: errors.New("401 unauthorized")}
	src := newSource(t, f, nil)

	prof, err := src.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fallback, prof)
}

func TestProfile_ServesStaleOnError(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	f := &fakeFetcher{user: &discordgo.User{ID: "42", Username: "laxenta"}}
	src := newSource(t, f, func() time.Time { return now })

	_, err := src.Profile(context.Background())
	require.NoError(t, err)

	f.err = errors.New("discord down")
	f.user = nil
	now = now.Add(time.Hour)

	prof, err := src.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "laxenta", prof.Name)
}

func TestProfile_ConcurrentMissesShareFetch(t *testing.T) {
	f := &fakeFetcher{
		user: &discordgo.User{ID: "42", Username: "laxenta"},
		gate: make(chan struct{}),
	}
	src := newSource(t, f, nil)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			prof, err := src.Profile(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "laxenta", prof.Name)
		}()
	}

	require.Eventually(t, func() bool { return f.calls.Load() >= 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(f.gate)
	wg.Wait()

	assert.Equal(t, int32(1), f.calls.Load())
}

func TestNewProfileSource_Validation(t *testing.T) {
	_, err := NewProfileSource(ProfileSourceOptions{TTL: time.Minute})
	require.Error(t, err)

	_, err = NewProfileSource(ProfileSourceOptions{Fetcher: &fakeFetcher{}})
	require.Error(t, err)
}

func TestNewSessionFetcher(t *testing.T) {
	_, err := NewSessionFetcher("")
	require.Error(t, err)

	s, err := NewSessionFetcher("token")
	require.NoError(t, err)
	assert.Equal(t, "Bot token", s.Token)
}

func TestStaticProfile(t *testing.T) {
	prof, err := StaticProfile(fallback).Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fallback, prof)
}
