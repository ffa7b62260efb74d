package config

// SpotifyConfig contains the Spotify application credentials used for token refresh.
type SpotifyConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL" envDefault:"http://localhost:8080/auth/spotify/callback"`
}

// Enabled reports whether credentials are configured.
func (s SpotifyConfig) Enabled() bool {
	return s.ClientID != "" && s.ClientSecret != ""
}
