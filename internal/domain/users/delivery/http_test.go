package delivery

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/mfigueiredo/storefront-api/internal/domain/users"
	"github.com/mfigueiredo/storefront-api/internal/domain/users/repository"
	"github.com/mfigueiredo/storefront-api/internal/domain/users/usecase"
	"github.com/mfigueiredo/storefront-api/pkg/jwt"
	customValidator "github.com/mfigueiredo/storefront-api/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&users.User{}))

	tokens := jwt.NewService(jwt.Config{SecretKey: "test-secret"})
	handler := NewHandler(usecase.NewUsecase(repository.NewUser(db), tokens))

	e := echo.New()
	e.Validator = customValidator.New()
	e.POST("/auth/register", handler.Register)
	e.POST("/auth/login", handler.Login)
	e.POST("/auth/refresh-token", handler.RefreshToken)
	return e
}

func doJSON(e *echo.Echo, method, path, body, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

const registerBody = `{
	"name": "Alice",
	"email": "alice@example.com",
	"password": "s3cret-password",
	"password_confirmation": "s3cret-password"
}`

func TestRegisterEndpoint(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/auth/register", registerBody, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Status string `json:"status"`
		Data   struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.True(t, strings.HasPrefix(body.Data.ID, "user_"))
	assert.Equal(t, "alice@example.com", body.Data.Email)
	// The password hash must never leave the server.
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRegisterEndpointDuplicate(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/auth/register", registerBody, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(e, http.MethodPost, "/auth/register", registerBody, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "email_already_registered")
}

func TestRegisterEndpointPasswordMismatch(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/auth/register", `{
		"name": "Alice",
		"email": "alice@example.com",
		"password": "s3cret-password",
		"password_confirmation": "different"
	}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_failed")
}

func TestLoginEndpoint(t *testing.T) {
	e := newTestServer(t)
	doJSON(e, http.MethodPost, "/auth/register", registerBody, "")

	rec := doJSON(e, http.MethodPost, "/auth/login", `{
		"email": "alice@example.com",
		"password": "s3cret-password"
	}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data users.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "bearer", body.Data.TokenType)
	assert.NotEmpty(t, body.Data.AccessToken)
	assert.NotEmpty(t, body.Data.User.RefreshToken)
}

func TestLoginEndpointWrongPassword(t *testing.T) {
	e := newTestServer(t)
	doJSON(e, http.MethodPost, "/auth/register", registerBody, "")

	rec := doJSON(e, http.MethodPost, "/auth/login", `{
		"email": "alice@example.com",
		"password": "wrong-password"
	}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_credentials")
}

func TestRefreshTokenEndpoint(t *testing.T) {
	e := newTestServer(t)
	doJSON(e, http.MethodPost, "/auth/register", registerBody, "")

	login := doJSON(e, http.MethodPost, "/auth/login", `{
		"email": "alice@example.com",
		"password": "s3cret-password"
	}`, "")
	require.Equal(t, http.StatusOK, login.Code)

	var loginBody struct {
		Data users.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &loginBody))
	refreshToken := loginBody.Data.User.RefreshToken

	rec := doJSON(e, http.MethodPost, "/auth/refresh-token", "", "Bearer "+refreshToken)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data users.RefreshTokenResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Data.AccessToken)
	assert.NotEqual(t, refreshToken, body.Data.RefreshToken)

	// The consumed token is rejected on replay.
	rec = doJSON(e, http.MethodPost, "/auth/refresh-token", "", "Bearer "+refreshToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_refresh_token")
}

func TestRefreshTokenEndpointMissingHeader(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/auth/refresh-token", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
