package services

import (
	"context"
	"testing"
	"time"

	"github.com/gnbf/badminton-registry/models"
	"github.com/gnbf/badminton-registry/repositories/memory"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-0123456789"

func newTestAuth() (*authService, *memory.Store) {
	store := memory.NewStore()
	svc := NewAuthService(store.Users(), AuthConfig{
		Secret:    testSecret,
		AccessTTL: time.Hour,
		ResetTTL:  30 * time.Minute,
	}).(*authService)
	return svc, store
}

func TestRegisterRoles(t *testing.T) {
	svc, _ := newTestAuth()
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Email: " Ana@GNBF.ge ", Password: "password1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ana@gnbf.ge", user.Email)
	assert.Equal(t, models.RoleViewer, user.Role)
	assert.NotEqual(t, "password1", user.PasswordHash)

	_, err = svc.Register(ctx, RegisterInput{Email: "ed@gnbf.ge", Password: "password1", Role: models.RoleEditor}, nil)
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	editor := &Claims{UserID: 2, Role: models.RoleEditor}
	_, err = svc.Register(ctx, RegisterInput{Email: "ed@gnbf.ge", Password: "password1", Role: models.RoleAdmin}, editor)
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	admin := &Claims{UserID: 1, Role: models.RoleAdmin}
	created, err := svc.Register(ctx, RegisterInput{Email: "ed@gnbf.ge", Password: "password1", Role: models.RoleEditor}, admin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleEditor, created.Role)

	_, err = svc.Register(ctx, RegisterInput{Email: "ANA@gnbf.ge", Password: "password2"}, nil)
	assert.ErrorIs(t, err, ErrUserEmailConflict)
}

func TestLoginAndParse(t *testing.T) {
	svc, _ := newTestAuth()
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Email: "ana@gnbf.ge", Password: "password1"}, nil)
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, LoginInput{Email: "ana@gnbf.ge", Password: "nope"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(ctx, LoginInput{Email: "who@gnbf.ge", Password: "password1"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("success", func(t *testing.T) {
		user, token, err := svc.Login(ctx, LoginInput{Email: "ANA@gnbf.ge", Password: "password1"})
		require.NoError(t, err)
		assert.Empty(t, user.PasswordHash)

		claims, err := svc.ParseAccessToken(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, models.RoleViewer, claims.Role)
		assert.Equal(t, "ana@gnbf.ge", claims.Email())
	})

	t.Run("expired token", func(t *testing.T) {
		svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		defer func() { svc.now = time.Now }()
		_, token, err := svc.Login(ctx, LoginInput{Email: "ana@gnbf.ge", Password: "password1"})
		require.NoError(t, err)
		_, err = svc.ParseAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestParseAccessTokenRejectsForeignTokens(t *testing.T) {
	svc, _ := newTestAuth()

	sign := func(secret string, method jwt.SigningMethod, claims jwt.Claims) string {
		token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return token
	}
	valid := Claims{UserID: 1, Role: models.RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}

	_, err := svc.ParseAccessToken(sign("other-secret", jwt.SigningMethodHS256, valid))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ParseAccessToken(sign(testSecret, jwt.SigningMethodHS512, valid))
	assert.ErrorIs(t, err, ErrInvalidToken)

	badRole := valid
	badRole.Role = "owner"
	_, err = svc.ParseAccessToken(sign(testSecret, jwt.SigningMethodHS256, badRole))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ParseAccessToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	claims, err := svc.ParseAccessToken(sign(testSecret, jwt.SigningMethodHS256, valid))
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestPasswordReset(t *testing.T) {
	svc, _ := newTestAuth()
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Email: "ana@gnbf.ge", Password: "password1"}, nil)
	require.NoError(t, err)

	unknown, err := svc.ForgotPassword(ctx, "nobody@gnbf.ge")
	require.NoError(t, err)
	assert.Empty(t, unknown)

	token, err := svc.ForgotPassword(ctx, "ana@gnbf.ge")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	_, err = svc.ParseAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken, "reset tokens must not authenticate")

	assert.ErrorIs(t, svc.ResetPassword(ctx, ResetPasswordInput{Token: "garbage", NewPassword: "password2"}), ErrInvalidResetToken)

	require.NoError(t, svc.ResetPassword(ctx, ResetPasswordInput{Token: token, NewPassword: "password2"}))

	_, _, err = svc.Login(ctx, LoginInput{Email: "ana@gnbf.ge", Password: "password1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, LoginInput{Email: "ana@gnbf.ge", Password: "password2"})
	require.NoError(t, err)

	err = svc.ResetPassword(ctx, ResetPasswordInput{Token: token, NewPassword: "password3"})
	assert.ErrorIs(t, err, ErrInvalidResetToken, "a used token is spent")
}

func TestAccessTokenCannotResetPassword(t *testing.T) {
	svc, _ := newTestAuth()
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Email: "ana@gnbf.ge", Password: "password1"}, nil)
	require.NoError(t, err)
	_, token, err := svc.Login(ctx, LoginInput{Email: "ana@gnbf.ge", Password: "password1"})
	require.NoError(t, err)

	err = svc.ResetPassword(ctx, ResetPasswordInput{Token: token, NewPassword: "password2"})
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestAuth()
	ctx := context.Background()
	user, err := svc.Register(ctx, RegisterInput{Email: "ana@gnbf.ge", Password: "password1"}, nil)
	require.NoError(t, err)
	reset, err := svc.ForgotPassword(ctx, "ana@gnbf.ge")
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, user.ID, ChangePasswordInput{CurrentPassword: "wrong-one", NewPassword: "password2"})
	assert.ErrorIs(t, err, ErrIncorrectPassword)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, ChangePasswordInput{CurrentPassword: "password1", NewPassword: "password2"}))
	_, _, err = svc.Login(ctx, LoginInput{Email: "ana@gnbf.ge", Password: "password1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, LoginInput{Email: "ana@gnbf.ge", Password: "password2"})
	require.NoError(t, err)

	err = svc.ResetPassword(ctx, ResetPasswordInput{Token: reset, NewPassword: "password3"})
	assert.ErrorIs(t, err, ErrInvalidResetToken, "changing the password spends pending reset tokens")

	err = svc.ChangePassword(ctx, 4242, ChangePasswordInput{CurrentPassword: "password2", NewPassword: "password3"})
	assert.ErrorIs(t, err, ErrInvalidToken)
}
