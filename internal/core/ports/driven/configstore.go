package driven

// ConfigStore persists tool configuration and the generation API key.
// It is a small synchronous key-value store kept separate from the
// annotation storage engine.
type ConfigStore interface {
	// GetString retrieves a string value, or "" if unset.
	GetString(key string) string

	// Set stores a value and persists it immediately.
	Set(key string, value any) error

	// Delete removes a key and persists the change.
	Delete(key string) error
}
