package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword(t *testing.T) {
	h, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", h)
	assert.True(t, VerifyPassword("s3cret", h))
	assert.False(t, VerifyPassword("wrong", h))

	_, err = HashPassword("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestVerifyPassword_Legacy(t *testing.T) {
	assert.True(t, VerifyPassword("pw", "plain:pw"))
	assert.False(t, VerifyPassword("px", "plain:pw"))
	assert.False(t, VerifyPassword("", "plain:"))
	assert.False(t, VerifyPassword("pw", "not-a-hash"))
}

func TestSessionManager(t *testing.T) {
	m, err := NewSessionManager("secret", time.Hour)
	require.NoError(t, err)

	tok, err := m.Issue(RoleDoctor, "42", "Dr. Rao")
	require.NoError(t, err)

	c, err := m.Parse(tok, RoleDoctor)
	require.NoError(t, err)
	assert.Equal(t, "42", c.Subject)
	assert.Equal(t, "Dr. Rao", c.Name)

	_, err = m.Parse(tok, RoleAdmin)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, _ := NewSessionManager("other", time.Hour)
	_, err = other.Parse(tok, RoleDoctor)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionManager_Expired(t *testing.T) {
	m, err := NewSessionManager("secret", time.Minute)
	require.NoError(t, err)
	base := time.Now()
	m.now = func() time.Time { return base }
	tok, err := m.Issue(RoleReception, "reception", "")
	require.NoError(t, err)

	m.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, err = m.Parse(tok, RoleReception)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewSessionManager_NoSecret(t *testing.T) {
	_, err := NewSessionManager("", 0)
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestShareSigner_Plain(t *testing.T) {
	s := NewShareSigner("")
	tok, err := s.Token(7)
	require.NoError(t, err)
	assert.Equal(t, "plain:7", tok)

	id, err := s.DispenseID(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	_, err = s.DispenseID("plain:x")
	assert.ErrorIs(t, err, ErrMalformedShareToken)
	_, err = s.DispenseID("7")
	assert.ErrorIs(t, err, ErrMalformedShareToken)
}

func TestShareSigner_Signed(t *testing.T) {
	s := NewShareSigner("k1")
	tok, err := s.Token(12)
	require.NoError(t, err)

	id, err := s.DispenseID(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	_, err = NewShareSigner("k2").DispenseID(tok)
	assert.ErrorIs(t, err, ErrBadSignature)
	_, err = s.DispenseID("plain:12")
	assert.ErrorIs(t, err, ErrBadSignature)
}
