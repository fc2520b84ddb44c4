package services

import (
	"fmt"

	"github.com/charislam/metrick/internal/core/domain"
	"github.com/charislam/metrick/internal/core/ports/driven"
	"github.com/charislam/metrick/internal/core/ports/driving"
)

// Configuration keys used in the config store.
const (
	keyAPIKey        = "openai.api_key"
	keySourceBaseURL = "source.base_url"
	keySourceAPIKey  = "source.api_key"
)

var _ driving.SettingsService = (*SettingsService)(nil)

// SettingsService manages the generation API key and document source
// settings on top of a ConfigStore.
type SettingsService struct {
	config driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(config driven.ConfigStore) *SettingsService {
	return &SettingsService{config: config}
}

// APIKey returns the stored generation API key, or "" if unset.
func (s *SettingsService) APIKey() string {
	return s.config.GetString(keyAPIKey)
}

// SetAPIKey stores the generation API key.
func (s *SettingsService) SetAPIKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: API key is empty", domain.ErrInvalidInput)
	}
	return s.config.Set(keyAPIKey, key)
}

// RemoveAPIKey deletes the stored key.
func (s *SettingsService) RemoveAPIKey() error {
	return s.config.Delete(keyAPIKey)
}

// SourceBaseURL returns the configured document source endpoint.
func (s *SettingsService) SourceBaseURL() string {
	return s.config.GetString(keySourceBaseURL)
}

// SetSourceBaseURL stores the document source endpoint.
func (s *SettingsService) SetSourceBaseURL(url string) error {
	if url == "" {
		return fmt.Errorf("%w: source URL is empty", domain.ErrInvalidInput)
	}
	return s.config.Set(keySourceBaseURL, url)
}

// SourceAPIKey returns the optional document source bearer token.
func (s *SettingsService) SourceAPIKey() string {
	return s.config.GetString(keySourceAPIKey)
}

// SetSourceAPIKey stores the document source bearer token. An empty
// key clears it.
func (s *SettingsService) SetSourceAPIKey(key string) error {
	if key == "" {
		return s.config.Delete(keySourceAPIKey)
	}
	return s.config.Set(keySourceAPIKey, key)
}
