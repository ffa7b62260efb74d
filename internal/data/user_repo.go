package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/laxenta/laxenta-web/internal/data/pgxutil"
	"github.com/laxenta/laxenta-web/internal/domain/model"
	apperrors "github.com/laxenta/laxenta-web/internal/errors"
	"github.com/laxenta/laxenta-web/internal/ports"
)

var _ ports.UserDirectory = (*UserRepo)(nil)

// UserRepo provides database operations for users and their login sessions.
type UserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserRepo creates a new UserRepo with real time provider.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewUserRepoWithTimeProvider creates a new UserRepo with a custom time provider (useful for tests).
func NewUserRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *UserRepo {
	return &UserRepo{DB: db, timeProvider: tp}
}

type userRow struct {
	DiscordID string    `db:"discord_id"`
	Username  string    `db:"username"`
	Email     *string   `db:"email"`
	Avatar    *string   `db:"avatar"`
	CreatedAt time.Time `db:"created_at"`
	LastLogin time.Time `db:"last_login"`
}

type sessionRow struct {
	SessionID             string     `db:"session_id"`
	IP                    *string    `db:"ip"`
	IsActive              bool       `db:"is_active"`
	CreatedAt             time.Time  `db:"created_at"`
	LastActive            time.Time  `db:"last_active"`
	SpotifyAccessToken    *string    `db:"spotify_access_token"`
	SpotifyRefreshToken   *string    `db:"spotify_refresh_token"`
	SpotifyExpiresAt      *time.Time `db:"spotify_expires_at"`
	SpotifyProfileID      *string    `db:"spotify_profile_id"`
	SpotifyDisplayName    *string    `db:"spotify_display_name"`
	SpotifyNeedsReconnect bool       `db:"spotify_needs_reconnect"`
}

const (
	userGetQuery = `
		SELECT discord_id, username, email, avatar, created_at, last_login
		FROM users WHERE discord_id = $1`

	userSessionsQuery = `
		SELECT session_id, ip, is_active, created_at, last_active,
		       spotify_access_token, spotify_refresh_token, spotify_expires_at,
		       spotify_profile_id, spotify_display_name, spotify_needs_reconnect
		FROM user_sessions
		WHERE discord_id = $1
		ORDER BY created_at ASC, session_id ASC`
)

// GetByDiscordID loads a user and all of their sessions, oldest first.
func (r *UserRepo) GetByDiscordID(ctx context.Context, discordID string) (*model.User, error) {
	if discordID == "" {
		return nil, apperrors.Validation("discord id is required")
	}

	var (
		u        userRow
		sessions []sessionRow
	)
	// One snapshot for both reads so a concurrent logout cannot split them.
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Opts: pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly},
		Fn: func(tx pgx.Tx) error {
			rows, err := tx.Query(ctx, userGetQuery, discordID)
			if err != nil {
				return err
			}
			u, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[userRow])
			if err != nil {
				return err
			}

			rows, err = tx.Query(ctx, userSessionsQuery, discordID)
			if err != nil {
				return err
			}
			sessions, err = pgx.CollectRows(rows, pgx.RowToStructByName[sessionRow])
			return err
		},
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("user %s not found", discordID)
		}
		return nil, fmt.Errorf("get user %s: %w", discordID, apperrors.MapDBError(err))
	}

	return toUser(u, sessions), nil
}

// Upsert inserts the user or refreshes their profile fields and last login.
func (r *UserRepo) Upsert(ctx context.Context, u *model.User) error {
	if u == nil || u.DiscordID == "" {
		return apperrors.Validation("user with discord id is required")
	}
	now := r.timeProvider.Now().UTC()
	return r.exec(ctx, `
		INSERT INTO users (discord_id, username, email, avatar, created_at, last_login)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (discord_id) DO UPDATE SET
			username = EXCLUDED.username,
			email = EXCLUDED.email,
			avatar = EXCLUDED.avatar,
			last_login = EXCLUDED.last_login`,
		u.DiscordID, u.Username, nullable(u.Email), nullable(u.AvatarHash), now,
	)
}

// AddSession records a new login session for an existing user.
func (r *UserRepo) AddSession(ctx context.Context, discordID string, s model.UserSession) error {
	if s.SessionID == "" {
		return apperrors.Validation("session id is required")
	}
	created := s.CreatedAt
	if created.IsZero() {
		created = r.timeProvider.Now().UTC()
	}
	lastActive := s.LastActive
	if lastActive.IsZero() {
		lastActive = created
	}

	var (
		access, refresh, profileID, displayName *string
		expires                                 *time.Time
		reconnect                               bool
	)
	if l := s.Spotify; l != nil {
		access, refresh = nullable(l.AccessToken), nullable(l.RefreshToken)
		profileID, displayName = nullable(l.ProfileID), nullable(l.DisplayName)
		if !l.ExpiresAt.IsZero() {
			exp := l.ExpiresAt.UTC()
			expires = &exp
		}
		reconnect = l.NeedsReconnect
	}

	return r.exec(ctx, `
		INSERT INTO user_sessions (
			session_id, discord_id, ip, is_active, created_at, last_active,
			spotify_access_token, spotify_refresh_token, spotify_expires_at,
			spotify_profile_id, spotify_display_name, spotify_needs_reconnect
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		s.SessionID, discordID, nullable(s.IP), s.IsActive, created, lastActive,
		access, refresh, expires, profileID, displayName, reconnect,
	)
}

// ClearSpotify removes the Spotify link from one session.
func (r *UserRepo) ClearSpotify(ctx context.Context, discordID, sessionID string) error {
	return r.updateSession(ctx, sessionUpdate{
		discordID: discordID,
		sessionID: sessionID,
		set:       clearSpotifyColumns,
	})
}

// DeactivateSession marks one session inactive and drops its Spotify link.
func (r *UserRepo) DeactivateSession(ctx context.Context, discordID, sessionID string) error {
	return r.updateSession(ctx, sessionUpdate{
		discordID: discordID,
		sessionID: sessionID,
		set:       "is_active = FALSE, " + clearSpotifyColumns,
	})
}

// UpdateSpotifyToken stores refreshed tokens on one session. An empty refresh
// token keeps the stored one.
func (r *UserRepo) UpdateSpotifyToken(
	ctx context.Context,
	discordID, sessionID string,
	tok model.SpotifyToken,
) error {
	if tok.AccessToken == "" {
		return apperrors.Validation("access token is required")
	}
	return r.updateSession(ctx, sessionUpdate{
		discordID: discordID,
		sessionID: sessionID,
		set: `spotify_access_token = $3,
			spotify_refresh_token = COALESCE($4, spotify_refresh_token),
			spotify_expires_at = $5,
			spotify_needs_reconnect = FALSE`,
		args: []any{tok.AccessToken, nullable(tok.RefreshToken), tok.ExpiresAt.UTC()},
	})
}

// MarkSpotifyReconnect flags one session's Spotify link as needing re-authorization.
func (r *UserRepo) MarkSpotifyReconnect(ctx context.Context, discordID, sessionID string) error {
	return r.updateSession(ctx, sessionUpdate{
		discordID: discordID,
		sessionID: sessionID,
		set:       "spotify_needs_reconnect = TRUE",
	})
}

const clearSpotifyColumns = `spotify_access_token = NULL,
	spotify_refresh_token = NULL,
	spotify_expires_at = NULL,
	spotify_profile_id = NULL,
	spotify_display_name = NULL,
	spotify_needs_reconnect = FALSE`

// sessionUpdate scopes an UPDATE to one (discord_id, session_id) row.
// Extra args are numbered from $3.
type sessionUpdate struct {
	discordID string
	sessionID string
	set       string
	args      []any
}

func (r *UserRepo) updateSession(ctx context.Context, u sessionUpdate) error {
	if u.discordID == "" || u.sessionID == "" {
		return apperrors.Validation("discord id and session id are required")
	}

	now := r.timeProvider.Now().UTC()
	query := "UPDATE user_sessions SET " + u.set +
		", last_active = GREATEST(last_active, $" + fmt.Sprint(len(u.args)+3) + ")" +
		" WHERE discord_id = $1 AND session_id = $2"
	args := append([]any{u.discordID, u.sessionID}, u.args...)
	args = append(args, now)

	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, query, args...)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("update session %s: %w", u.sessionID, apperrors.MapDBError(err))
	}
	if affected == 0 {
		return apperrors.NotFoundf("session %s not found for user %s", u.sessionID, u.discordID)
	}
	return nil
}

func (r *UserRepo) exec(ctx context.Context, query string, args ...any) error {
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, query, args...)
		return err
	})
	return apperrors.MapDBError(err)
}

func toUser(u userRow, sessions []sessionRow) *model.User {
	out := &model.User{
		DiscordID:  u.DiscordID,
		Username:   u.Username,
		Email:      deref(u.Email),
		AvatarHash: deref(u.Avatar),
		CreatedAt:  u.CreatedAt,
		LastLogin:  u.LastLogin,
		Sessions:   make([]model.UserSession, 0, len(sessions)),
	}
	for _, s := range sessions {
		out.Sessions = append(out.Sessions, toSession(s))
	}
	return out
}

func toSession(s sessionRow) model.UserSession {
	out := model.UserSession{
		SessionID:  s.SessionID,
		IP:         deref(s.IP),
		IsActive:   s.IsActive,
		CreatedAt:  s.CreatedAt,
		LastActive: s.LastActive,
	}
	if s.SpotifyAccessToken == nil && s.SpotifyRefreshToken == nil {
		return out
	}
	link := &model.SpotifyLink{
		AccessToken:    deref(s.SpotifyAccessToken),
		RefreshToken:   deref(s.SpotifyRefreshToken),
		ProfileID:      deref(s.SpotifyProfileID),
		DisplayName:    deref(s.SpotifyDisplayName),
		NeedsReconnect: s.SpotifyNeedsReconnect,
	}
	if s.SpotifyExpiresAt != nil {
		link.ExpiresAt = *s.SpotifyExpiresAt
	}
	out.Spotify = link
	return out
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
