package driving

// SettingsService manages the generation API key and source settings.
type SettingsService interface {
	// APIKey returns the stored generation API key, or "" if unset.
	APIKey() string

	// SetAPIKey stores the generation API key.
	SetAPIKey(key string) error

	// RemoveAPIKey deletes the stored key.
	RemoveAPIKey() error

	// SourceBaseURL returns the configured document source endpoint.
	SourceBaseURL() string

	// SetSourceBaseURL stores the document source endpoint.
	SetSourceBaseURL(url string) error

	// SourceAPIKey returns the optional document source bearer token.
	SourceAPIKey() string

	// SetSourceAPIKey stores the document source bearer token.
	SetSourceAPIKey(key string) error
}
