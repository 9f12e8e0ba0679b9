package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidegames-golf/sidegames/logger"
)

type authFixture struct {
	svc         *authService
	users       *fakeUserRepo
	profiles    *fakeProfileRepo
	revocations *fakeRevocations
	mail        *fakeMailer
	tokens      TokenIssuer
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:       newFakeUserRepo(),
		profiles:    newFakeProfileRepo(),
		revocations: &fakeRevocations{},
		mail:        newFakeMailer(),
		tokens:      NewJWTIssuer("test-secret", time.Hour),
	}
	f.svc = NewAuthService(&fakeTx{}, f.users, f.profiles, f.tokens, f.revocations, f.mail, time.Hour, logger.Discard()).(*authService)
	return f
}

func (f *authFixture) signUp(t *testing.T) *AuthResult {
	t.Helper()
	res, err := f.svc.SignUp(context.Background(), SignUpInput{
		Email:       "  Pat@Example.com ",
		Password:    "Birdie2024",
		DisplayName: "Pat",
	})
	require.NoError(t, err)
	return res
}

func TestSignUp(t *testing.T) {
	f := newAuthFixture()
	res := f.signUp(t)

	require.NotNil(t, res.User)
	assert.Equal(t, "pat@example.com", res.User.Email)
	assert.Equal(t, "Pat", res.User.DisplayName)
	assert.Nil(t, res.User.EmailConfirmedAt)

	claims, err := f.tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)

	assert.Contains(t, f.profiles.profiles, res.User.ID, "profile is created with the user")
	assert.NotEmpty(t, f.mail.verifications["pat@example.com"], "verification email is sent")

	_, err = f.svc.SignUp(context.Background(), SignUpInput{Email: "pat@example.com", Password: "Birdie2024", DisplayName: "Pat"})
	assert.ErrorIs(t, err, ErrUserEmailConflict)
}

func TestSignUpValidation(t *testing.T) {
	f := newAuthFixture()
	_, err := f.svc.SignUp(context.Background(), SignUpInput{Email: "not-an-email", Password: "short", DisplayName: "P"})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 3)
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "password")
	assert.Contains(t, verr.Fields, "display_name")
	assert.Empty(t, f.users.users)
}

func TestSignUpSurvivesMailFailure(t *testing.T) {
	f := newAuthFixture()
	f.mail.err = errors.New("smtp down")
	res := f.signUp(t)
	assert.NotEmpty(t, res.Token)
}

func TestLogin(t *testing.T) {
	f := newAuthFixture()
	f.signUp(t)

	_, err := f.svc.Login(context.Background(), LoginInput{Email: "pat@example.com", Password: "Wrong1234"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "Birdie2024"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	res, err := f.svc.Login(context.Background(), LoginInput{Email: "PAT@example.com", Password: "Birdie2024"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.NotNil(t, res.User.LastSignInAt)
	assert.Equal(t, "Pat", res.User.DisplayName)
}

func TestLogout(t *testing.T) {
	f := newAuthFixture()
	res := f.signUp(t)
	claims, err := f.tokens.Parse(res.Token)
	require.NoError(t, err)

	warning, err := f.svc.Logout(context.Background(), *claims)
	require.NoError(t, err)
	assert.Empty(t, warning)
	assert.Contains(t, f.revocations.revoked, claims.ID)
}

func TestLogoutWhenRevocationStoreIsDown(t *testing.T) {
	f := newAuthFixture()
	f.revocations.err = errors.New("connection refused")
	res := f.signUp(t)
	claims, err := f.tokens.Parse(res.Token)
	require.NoError(t, err)

	warning, err := f.svc.Logout(context.Background(), *claims)
	require.NoError(t, err, "logout still succeeds")
	assert.Equal(t, LogoutWarning, warning)
}

func TestSession(t *testing.T) {
	f := newAuthFixture()
	res := f.signUp(t)

	session, err := f.svc.Session(context.Background(), res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pat", session.DisplayName)

	_, err = f.svc.Session(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestConfirmEmail(t *testing.T) {
	f := newAuthFixture()
	res := f.signUp(t)
	token := f.mail.verifications["pat@example.com"]

	assert.ErrorIs(t, f.svc.ConfirmEmail(context.Background(), "bogus"), ErrInvalidToken)
	require.NoError(t, f.svc.ConfirmEmail(context.Background(), token))

	session, err := f.svc.Session(context.Background(), res.User.ID)
	require.NoError(t, err)
	assert.NotNil(t, session.EmailConfirmedAt)
}

func TestUpdatePassword(t *testing.T) {
	f := newAuthFixture()
	res := f.signUp(t)

	err := f.svc.UpdatePassword(context.Background(), res.User.ID, UpdatePasswordInput{CurrentPassword: "nope", NewPassword: "Eagle2025"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = f.svc.UpdatePassword(context.Background(), res.User.ID, UpdatePasswordInput{CurrentPassword: "Birdie2024", NewPassword: "eagle"})
	assert.ErrorIs(t, err, ErrValidationFailed)

	require.NoError(t, f.svc.UpdatePassword(context.Background(), res.User.ID, UpdatePasswordInput{CurrentPassword: "Birdie2024", NewPassword: "Eagle2025"}))
	_, err = f.svc.Login(context.Background(), LoginInput{Email: "pat@example.com", Password: "Eagle2025"})
	assert.NoError(t, err)
}

func TestPasswordReset(t *testing.T) {
	f := newAuthFixture()
	f.signUp(t)

	require.NoError(t, f.svc.RequestPasswordReset(context.Background(), "ghost@example.com"), "unknown email is not revealed")
	assert.Empty(t, f.mail.resets)

	require.NoError(t, f.svc.RequestPasswordReset(context.Background(), "pat@example.com"))
	token := f.mail.resets["pat@example.com"]
	require.NotEmpty(t, token)

	assert.ErrorIs(t, f.svc.ResetPassword(context.Background(), ResetPasswordInput{Token: "bogus", NewPassword: "Eagle2025"}), ErrInvalidToken)

	require.NoError(t, f.svc.ResetPassword(context.Background(), ResetPasswordInput{Token: token, NewPassword: "Eagle2025"}))
	_, err := f.svc.Login(context.Background(), LoginInput{Email: "pat@example.com", Password: "Eagle2025"})
	assert.NoError(t, err)

	assert.ErrorIs(t, f.svc.ResetPassword(context.Background(), ResetPasswordInput{Token: token, NewPassword: "Albatross1"}), ErrInvalidToken,
		"reset token is single use")
}

func TestPasswordResetExpired(t *testing.T) {
	f := newAuthFixture()
	f.signUp(t)
	require.NoError(t, f.svc.RequestPasswordReset(context.Background(), "pat@example.com"))
	token := f.mail.resets["pat@example.com"]

	f.svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	err := f.svc.ResetPassword(context.Background(), ResetPasswordInput{Token: token, NewPassword: "Eagle2025"})
	assert.ErrorIs(t, err, ErrResetTokenExpired)
}

func TestJWTIssuer(t *testing.T) {
	issuer := NewJWTIssuer("secret-a", time.Hour)
	userID := uuid.New()

	token, issued, err := issuer.Issue(userID)
	require.NoError(t, err)

	parsed, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, userID, parsed.UserID)
	assert.Equal(t, issued.ID, parsed.ID)
	assert.Equal(t, issued.ExpiresAt.Unix(), parsed.ExpiresAt.Unix())

	_, err = NewJWTIssuer("secret-b", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewJWTIssuer("secret-a", time.Hour).(*jwtIssuer)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, err := expired.Issue(userID)
	require.NoError(t, err)
	_, err = issuer.Parse(old)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
