package config

// Config holds all configuration for the application.
type Config struct {
	DBName             string
	Port               string
	LogLevel           string
	CORSAllowedOrigins []string
	Slack              SlackConfig
	Turso              TursoConfig
	ProjectID          string
}
type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// SlackEnabled reports whether publish announcements can be posted to Slack.
func (c Config) SlackEnabled() bool {
	return c.Slack.Token != "" && c.Slack.ChannelID != ""
}
