package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charislam/metrick/internal/core/domain"
)

func TestSettingsService_APIKey(t *testing.T) {
	svc := NewSettingsService(memConfig{})

	assert.Empty(t, svc.APIKey())

	require.NoError(t, svc.SetAPIKey("sk-test-123"))
	assert.Equal(t, "sk-test-123", svc.APIKey())

	require.NoError(t, svc.RemoveAPIKey())
	assert.Empty(t, svc.APIKey())
}

func TestSettingsService_RejectsEmptyValues(t *testing.T) {
	svc := NewSettingsService(memConfig{})

	assert.ErrorIs(t, svc.SetAPIKey(""), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.SetSourceBaseURL(""), domain.ErrInvalidInput)
}

func TestSettingsService_SourceBaseURL(t *testing.T) {
	svc := NewSettingsService(memConfig{})

	require.NoError(t, svc.SetSourceBaseURL("https://docs.example.com/api"))
	assert.Equal(t, "https://docs.example.com/api", svc.SourceBaseURL())
}

func TestSettingsService_SourceAPIKey(t *testing.T) {
	svc := NewSettingsService(memConfig{})

	require.NoError(t, svc.SetSourceAPIKey("token-1"))
	assert.Equal(t, "token-1", svc.SourceAPIKey())

	// Empty key clears.
	require.NoError(t, svc.SetSourceAPIKey(""))
	assert.Empty(t, svc.SourceAPIKey())
}
