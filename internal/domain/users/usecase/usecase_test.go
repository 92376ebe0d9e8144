package usecase

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/mfigueiredo/storefront-api/internal/domain/users"
	"github.com/mfigueiredo/storefront-api/internal/domain/users/repository"
	"github.com/mfigueiredo/storefront-api/pkg/constant"
	"github.com/mfigueiredo/storefront-api/pkg/jwt"
	"github.com/mfigueiredo/storefront-api/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestUsecase(t *testing.T) (*Usecase, *repository.User, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&users.User{}))

	repo := repository.NewUser(db)
	tokens := jwt.NewService(jwt.Config{SecretKey: "test-secret"})
	return NewUsecase(repo, tokens), repo, db
}

func registerTestUser(t *testing.T, uc *Usecase, email string) *users.RegisterResponse {
	t.Helper()
	result, err := uc.Register(context.Background(), users.RegisterRequest{
		Name:     "Alice",
		Email:    email,
		Password: "s3cret-password",
	})
	require.NoError(t, err)
	return result
}

func requireAPIError(t *testing.T, err error, code int, message string) {
	t.Helper()
	var apiErr *response.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, code, apiErr.Code)
	assert.Equal(t, message, apiErr.Message)
}

func TestRegister(t *testing.T) {
	uc, repo, _ := newTestUsecase(t)
	ctx := context.Background()

	result := registerTestUser(t, uc, "alice@example.com")
	assert.True(t, strings.HasPrefix(result.ID, "user_"))
	assert.Equal(t, "Alice", result.Name)
	assert.Equal(t, "alice@example.com", result.Email)

	stored, err := repo.FindUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, constant.RoleRegular, stored.Role)
	assert.NotEqual(t, "s3cret-password", stored.Password)
	assert.NotEmpty(t, stored.RefreshToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	uc, _, _ := newTestUsecase(t)
	registerTestUser(t, uc, "alice@example.com")

	_, err := uc.Register(context.Background(), users.RegisterRequest{
		Name:     "Impostor",
		Email:    "alice@example.com",
		Password: "other-password",
	})
	requireAPIError(t, err, http.StatusConflict, "email_already_registered")
}

func TestLogin(t *testing.T) {
	uc, _, _ := newTestUsecase(t)
	registerTestUser(t, uc, "alice@example.com")

	result, err := uc.Login(context.Background(), users.LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cret-password",
	})
	require.NoError(t, err)
	assert.Equal(t, "bearer", result.TokenType)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.ExpiresIn)
	assert.Equal(t, "alice@example.com", result.User.Email)
	assert.NotEmpty(t, result.User.RefreshToken)

	claims, err := uc.VerifyAccessToken(context.Background(), result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Subject)
	assert.Equal(t, constant.RoleRegular, claims.Role)
}

func TestLoginUnknownUser(t *testing.T) {
	uc, _, _ := newTestUsecase(t)

	_, err := uc.Login(context.Background(), users.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	requireAPIError(t, err, http.StatusNotFound, "user_not_found")
}

func TestLoginWrongPassword(t *testing.T) {
	uc, _, _ := newTestUsecase(t)
	registerTestUser(t, uc, "alice@example.com")

	_, err := uc.Login(context.Background(), users.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	requireAPIError(t, err, http.StatusUnauthorized, "invalid_credentials")
}

func TestVerifyAccessToken(t *testing.T) {
	uc, _, _ := newTestUsecase(t)
	registerTestUser(t, uc, "alice@example.com")

	login, err := uc.Login(context.Background(), users.LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cret-password",
	})
	require.NoError(t, err)

	// Verification performs no writes, so repeating it gives the same result.
	for i := 0; i < 2; i++ {
		claims, err := uc.VerifyAccessToken(context.Background(), login.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", claims.Subject)
	}
}

func TestVerifyAccessTokenRejectsGarbage(t *testing.T) {
	uc, _, _ := newTestUsecase(t)

	_, err := uc.VerifyAccessToken(context.Background(), "not-a-token")
	requireAPIError(t, err, http.StatusUnauthorized, "invalid_token")
}

func TestVerifyAccessTokenRejectsRefreshToken(t *testing.T) {
	uc, repo, _ := newTestUsecase(t)
	registerTestUser(t, uc, "alice@example.com")

	stored, err := repo.FindUserByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)

	_, err = uc.VerifyAccessToken(context.Background(), stored.RefreshToken)
	requireAPIError(t, err, http.StatusUnauthorized, "invalid_token")
}

func TestVerifyAccessTokenRejectsDeletedUser(t *testing.T) {
	uc, _, db := newTestUsecase(t)
	registerTestUser(t, uc, "alice@example.com")

	login, err := uc.Login(context.Background(), users.LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cret-password",
	})
	require.NoError(t, err)

	require.NoError(t, db.Where("email = ?", "alice@example.com").Delete(&users.User{}).Error)

	_, err = uc.VerifyAccessToken(context.Background(), login.AccessToken)
	requireAPIError(t, err, http.StatusUnauthorized, "invalid_token")
}

func TestRotateRefreshToken(t *testing.T) {
	uc, repo, _ := newTestUsecase(t)
	registerTestUser(t, uc, "alice@example.com")

	stored, err := repo.FindUserByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	original := stored.RefreshToken

	result, err := uc.RotateRefreshToken(context.Background(), original)
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.NotEqual(t, original, result.RefreshToken)

	// The new access token is immediately usable.
	claims, err := uc.VerifyAccessToken(context.Background(), result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Subject)

	// The new refresh token replaced the stored one.
	stored, err = repo.FindUserByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, result.RefreshToken, stored.RefreshToken)
}

func TestRotateRefreshTokenIsSingleUse(t *testing.T) {
	uc, repo, _ := newTestUsecase(t)
	registerTestUser(t, uc, "alice@example.com")

	stored, err := repo.FindUserByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	original := stored.RefreshToken

	first, err := uc.RotateRefreshToken(context.Background(), original)
	require.NoError(t, err)

	// Replaying the consumed token must fail even though its signature and
	// expiry are still valid.
	_, err = uc.RotateRefreshToken(context.Background(), original)
	requireAPIError(t, err, http.StatusUnauthorized, "invalid_refresh_token")

	// The token from the successful rotation keeps working.
	_, err = uc.RotateRefreshToken(context.Background(), first.RefreshToken)
	require.NoError(t, err)
}

func TestRotateRefreshTokenRejectsAccessToken(t *testing.T) {
	uc, _, _ := newTestUsecase(t)
	registerTestUser(t, uc, "alice@example.com")

	login, err := uc.Login(context.Background(), users.LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cret-password",
	})
	require.NoError(t, err)

	_, err = uc.RotateRefreshToken(context.Background(), login.AccessToken)
	requireAPIError(t, err, http.StatusUnauthorized, "invalid_token")
}

func TestRotateRefreshTokenWithBearerPrefix(t *testing.T) {
	uc, repo, _ := newTestUsecase(t)
	registerTestUser(t, uc, "alice@example.com")

	stored, err := repo.FindUserByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)

	_, err = uc.RotateRefreshToken(context.Background(), "Bearer "+stored.RefreshToken)
	require.NoError(t, err)
}
