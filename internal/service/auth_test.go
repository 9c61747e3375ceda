package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/fittrack/internal/model"
	"github.com/templui/fittrack/internal/validation"
)

func TestRegisterAndLogin(t *testing.T) {
	s := newServices(t, 10)
	ctx := context.Background()

	user, err := s.auth.Register(ctx, "  Ana@Example.com ", "deadlift-99", "Ana")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, model.RoleUser, user.Role)

	layout, err := s.dashboard.Layout(user.ID)
	require.NoError(t, err)
	assert.Len(t, layout, len(model.DefaultLayout(user.ID)))

	_, err = s.auth.Register(ctx, "ana@example.com", "deadlift-99", "Ana again")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	loggedIn, err := s.auth.Login("ANA@example.com", "deadlift-99")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	_, err = s.auth.Login("ana@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.auth.Login("nobody@example.com", "deadlift-99")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	s := newServices(t, 10)

	_, err := s.auth.Register(context.Background(), "not-an-email", "deadlift-99", "Ana")
	verr, ok := validation.As(err)
	require.True(t, ok)
	assert.Equal(t, "email", verr.Field)

	_, err = s.auth.Register(context.Background(), "ana@example.com", "short", "Ana")
	verr, ok = validation.As(err)
	require.True(t, ok)
	assert.Equal(t, "password", verr.Field)
}

func TestSessionToken(t *testing.T) {
	s := newServices(t, 10)
	user, err := s.auth.Register(context.Background(), "ana@example.com", "deadlift-99", "Ana")
	require.NoError(t, err)

	token, expiresAt, err := s.auth.GenerateJWT(user)
	require.NoError(t, err)
	assert.False(t, expiresAt.IsZero())

	authed, err := s.auth.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)

	_, err = s.auth.Authenticate(token + "x")
	assert.Error(t, err)
}

func TestPasswordReset(t *testing.T) {
	s := newServices(t, 10)
	ctx := context.Background()

	user, err := s.auth.Register(ctx, "ana@example.com", "deadlift-99", "Ana")
	require.NoError(t, err)

	require.NoError(t, s.auth.ForgotPassword(ctx, "nobody@example.com"))
	require.NoError(t, s.auth.ForgotPassword(ctx, "ana@example.com"))

	var token string
	require.NoError(t, s.conn.Get(&token, s.conn.Rebind(`SELECT token FROM tokens WHERE user_id = ?`), user.ID))

	assert.ErrorIs(t, s.auth.ResetPassword("bogus", "new-password-1"), ErrInvalidToken)
	require.NoError(t, s.auth.ResetPassword(token, "new-password-1"))
	assert.ErrorIs(t, s.auth.ResetPassword(token, "new-password-2"), ErrInvalidToken)

	_, err = s.auth.Login("ana@example.com", "deadlift-99")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.auth.Login("ana@example.com", "new-password-1")
	assert.NoError(t, err)
}
