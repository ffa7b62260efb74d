package viewmodel

// User represents the signed-in Discord user exposed to templates.
type User struct {
	Username  string
	AvatarURL string
}

// Bot describes the bot identity shown in the page chrome.
type Bot struct {
	Name       string
	AvatarURL  string
	InviteURL  string
	SupportURL string
}

// Layout captures shared chrome metadata (titles, navigation state, auth flags).
type Layout struct {
	Title           string
	CurrentPage     string
	IsAuthenticated bool
	User            *User
	Bot             Bot
	Year            int
}

// LayoutProvider exposes layout metadata for renderer utilities.
type LayoutProvider interface {
	LayoutData() *Layout
}
