// Package landing turns per-request landing data into the view rendered by
// the landing and error templates. Everything here is pure.
package landing

import (
	"fmt"
	"net/url"
	"time"

	"github.com/laxenta/laxenta-web/internal/domain/model"
	"github.com/laxenta/laxenta-web/internal/http/ui/viewmodel"
)

// Permissions requested when the bot is invited to a guild.
const invitePermissions = "1118435113046"

// Page identifiers.
const (
	PageHome  = "home"
	PageError = "error"
)

// Menu actions handled by client-side script instead of plain navigation.
const (
	ActionLogout            = "logout"
	ActionDisconnectSpotify = "disconnect-spotify"
)

// Input is everything a single render needs. User must be nil unless
// IsAuthenticated is true.
type Input struct {
	BotName         string
	BotAvatar       string
	ClientID        string
	SupportURL      string
	IsAuthenticated bool
	User            *model.User
	SessionID       string
	OriginalURL     string
	Stats           *model.BotStats // nil renders zeros
	NowPlaying      []model.Track
	Now             time.Time
}

// Nav holds the navbar affordances.
type Nav struct {
	ShowLogin          bool
	LoginURL           string
	ShowDashboard      bool
	ShowConnectSpotify bool
	ConnectSpotifyURL  string
}

// MenuItem is one entry of the account menu. Exactly one of Href or Action is set.
type MenuItem struct {
	Label  string
	Href   string
	Action string
}

// AccountMenu is shown only to signed-in users.
type AccountMenu struct {
	Items []MenuItem
}

// NowPlaying is the single track shown in the now-playing block.
type NowPlaying struct {
	Title     string
	Thumbnail string
	GuildName string
}

// View is the data passed to the templates.
type View struct {
	viewmodel.Layout
	SpotifyLinked bool
	Nav           Nav
	AccountMenu   *AccountMenu
	Stats         model.BotStats
	NowPlaying    *NowPlaying
	ErrorMessage  string
}

// LayoutData implements viewmodel.LayoutProvider.
func (v *View) LayoutData() *viewmodel.Layout { return &v.Layout }

// InviteURL builds the bot invite link for a Discord application id.
func InviteURL(clientID string) string {
	return fmt.Sprintf(
		"https://discord.com/oauth2/authorize?client_id=%s&permissions=%s&scope=bot%%20applications.commands",
		url.QueryEscape(clientID), invitePermissions,
	)
}

// Build computes the landing page view.
func Build(in Input) View {
	return build(in, PageHome)
}

// BuildError computes the error page view. It shares the navbar and footer
// of the landing page.
func BuildError(in Input, message string) View {
	v := build(in, PageError)
	v.Title = "Error | " + v.Bot.Name
	v.ErrorMessage = message
	return v
}

func build(in Input, page string) View {
	authed := in.IsAuthenticated && in.User != nil
	// Computed once and shared by the navbar and the account menu.
	linked := authed && model.SpotifyLinked(in.User, in.SessionID)

	v := View{
		Layout: viewmodel.Layout{
			Title:           in.BotName,
			CurrentPage:     page,
			IsAuthenticated: authed,
			Bot: viewmodel.Bot{
				Name:       in.BotName,
				AvatarURL:  in.BotAvatar,
				InviteURL:  InviteURL(in.ClientID),
				SupportURL: in.SupportURL,
			},
			Year: in.Now.Year(),
		},
		SpotifyLinked: linked,
		Nav:           buildNav(authed, linked, in.OriginalURL),
		NowPlaying:    firstTrack(in.NowPlaying),
	}
	if in.Stats != nil {
		v.Stats = *in.Stats
	}
	if authed {
		v.User = &viewmodel.User{Username: in.User.Username, AvatarURL: in.User.AvatarURL()}
		v.AccountMenu = buildAccountMenu(linked)
	}
	return v
}

func buildNav(authed, linked bool, originalURL string) Nav {
	returnTo := url.QueryEscape(originalURL)
	if !authed {
		return Nav{ShowLogin: true, LoginURL: "/auth/discord?returnTo=" + returnTo}
	}
	nav := Nav{ShowDashboard: true}
	if !linked {
		nav.ShowConnectSpotify = true
		nav.ConnectSpotifyURL = "/auth/spotify?returnTo=" + returnTo
	}
	return nav
}

func buildAccountMenu(linked bool) *AccountMenu {
	items := []MenuItem{
		{Label: "Dashboard", Href: "/dashboard"},
		{Label: "Profile", Href: "/profile"},
	}
	if linked {
		items = append(items,
			MenuItem{Label: "Spotify Settings", Href: "/spotify"},
			MenuItem{Label: "Disconnect Spotify", Action: ActionDisconnectSpotify},
		)
	}
	items = append(items, MenuItem{Label: "Logout", Action: ActionLogout})
	return &AccountMenu{Items: items}
}

func firstTrack(tracks []model.Track) *NowPlaying {
	if len(tracks) == 0 {
		return nil
	}
	t := tracks[0]
	return &NowPlaying{Title: t.Title, Thumbnail: t.Thumbnail, GuildName: t.GuildName}
}
