package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *TokenManager {
	return NewTokenManager(TokenConfig{
		Secret:     "test-secret",
		Issuer:     "projecthub-test",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	})
}

func TestTokenManager_RoundTrip(t *testing.T) {
	m := newTestManager()

	access, err := m.IssueAccessToken(42)
	require.NoError(t, err)
	refresh, err := m.IssueRefreshToken(42)
	require.NoError(t, err)

	id, err := m.Verify(access, false)
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	id, err = m.Verify(refresh, true)
	require.NoError(t, err)
	assert.Equal(t, 42, id)
}

func TestTokenManager_RejectsWrongType(t *testing.T) {
	m := newTestManager()

	access, err := m.IssueAccessToken(1)
	require.NoError(t, err)
	refresh, err := m.IssueRefreshToken(1)
	require.NoError(t, err)

	_, err = m.Verify(access, true)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Verify(refresh, false)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Expired(t *testing.T) {
	m := newTestManager()
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := m.IssueAccessToken(7)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Verify(token, false)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenManager_InvalidInputs(t *testing.T) {
	m := newTestManager()
	other := NewTokenManager(TokenConfig{Secret: "other", AccessTTL: time.Hour, RefreshTTL: time.Hour})
	foreign, err := other.IssueAccessToken(1)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"wrong secret", foreign},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Verify(tt.token, false)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"missing", "", ""},
		{"bearer", "Bearer abc.def", "abc.def"},
		{"lowercase scheme", "bearer abc", "abc"},
		{"wrong scheme", "Basic abc", ""},
		{"no token", "Bearer", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, ExtractToken(req))
		})
	}
}
