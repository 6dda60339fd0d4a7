package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuth(t *testing.T) *AuthService {
	return NewAuthService(newTestDB(t), zap.NewNop(), "test-secret", time.Hour)
}

func TestCreateUserValidation(t *testing.T) {
	svc := newAuth(t)

	_, err := svc.CreateUser("not-an-email", "secret123", "")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.CreateUser("@example.com", "secret123", "")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.CreateUser("admin@example.com", "short", "")
	assert.ErrorIs(t, err, ErrWeakPassword)

	user, err := svc.CreateUser("Admin@Example.com ", "secret123", "Admin")
	require.NoError(t, err)
	// E-Mail wird normalisiert gespeichert.
	assert.Equal(t, "admin@example.com", user.Email)
	assert.NotEmpty(t, user.UID)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	_, err = svc.CreateUser("admin@example.com", "secret123", "")
	assert.ErrorIs(t, err, ErrEmailInUse)
}

func TestSignInAndVerify(t *testing.T) {
	svc := newAuth(t)
	_, err := svc.CreateUser("admin@example.com", "secret123", "Admin")
	require.NoError(t, err)

	// Unbekannte E-Mail und falsches Passwort liefern denselben Fehler.
	_, err = svc.SignIn("nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.SignIn("admin@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	session, err := svc.SignIn("admin@example.com", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)
	assert.Equal(t, "admin@example.com", session.User.Email)

	uid, email, err := svc.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.UID, uid)
	assert.Equal(t, "admin@example.com", email)

	_, _, err = svc.Verify("garbage.token.value")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	issuer := newAuth(t)
	_, err := issuer.CreateUser("admin@example.com", "secret123", "")
	require.NoError(t, err)
	session, err := issuer.SignIn("admin@example.com", "secret123")
	require.NoError(t, err)

	other := NewAuthService(issuer.DB, zap.NewNop(), "other-secret", time.Hour)
	_, _, err = other.Verify(session.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestOnSessionChange(t *testing.T) {
	svc := newAuth(t)
	_, err := svc.CreateUser("admin@example.com", "secret123", "")
	require.NoError(t, err)

	var seen []*Session
	unsubscribe := svc.OnSessionChange(func(s *Session) {
		seen = append(seen, s)
	})

	// Sofortige Zustellung des aktuellen Zustands (nil vor dem Login).
	require.Len(t, seen, 1)
	assert.Nil(t, seen[0])

	session, err := svc.SignIn("admin@example.com", "secret123")
	require.NoError(t, err)
	require.Len(t, seen, 2)
	assert.Equal(t, session, seen[1])

	svc.SignOut()
	require.Len(t, seen, 3)
	assert.Nil(t, seen[2])

	unsubscribe()
	_, err = svc.SignIn("admin@example.com", "secret123")
	require.NoError(t, err)
	assert.Len(t, seen, 3)
}

func TestUpdateProfile(t *testing.T) {
	svc := newAuth(t)
	user, err := svc.CreateUser("admin@example.com", "secret123", "Old Name")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateProfile(user.UID, "New Name"))

	session, err := svc.SignIn("admin@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "New Name", session.User.DisplayName)
}
