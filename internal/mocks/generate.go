// Package mocks provides gomock implementations of the ports used by the web services.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	users := mocks.NewMockUserDirectory(ctrl)
//	users.EXPECT().GetByDiscordID(gomock.Any(), "1234").Return(user, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_store_mock.go github.com/laxenta/laxenta-web/internal/ports SessionStore
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_directory_mock.go github.com/laxenta/laxenta-web/internal/ports UserDirectory

// Bot-published data and identity.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=stats_source_mock.go github.com/laxenta/laxenta-web/internal/ports StatsSource
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=now_playing_source_mock.go github.com/laxenta/laxenta-web/internal/ports NowPlayingSource
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=bot_profile_source_mock.go github.com/laxenta/laxenta-web/internal/ports BotProfileSource

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=token_refresher_mock.go github.com/laxenta/laxenta-web/internal/ports TokenRefresher
