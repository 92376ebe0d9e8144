package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/mfigueiredo/storefront-api/pkg/constant"
	"github.com/mfigueiredo/storefront-api/pkg/jwt"
	"github.com/mfigueiredo/storefront-api/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubVerifier accepts exactly one token and returns fixed claims for it.
type stubVerifier struct {
	token  string
	claims *jwt.Claims
}

func (v *stubVerifier) VerifyAccessToken(_ context.Context, token string) (*jwt.Claims, error) {
	if token == v.token {
		return v.claims, nil
	}
	return nil, response.Unauthorized("invalid_token")
}

func newAuthTestContext(t *testing.T, authorization string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func adminClaims() *jwt.Claims {
	return &jwt.Claims{
		TokenKind: constant.TokenKindAccess,
		Role:      constant.RoleAdmin,
	}
}

func TestAuthenticate(t *testing.T) {
	claims := adminClaims()
	claims.Subject = "alice@example.com"
	verifier := &stubVerifier{token: "Bearer good-token", claims: claims}

	c, rec := newAuthTestContext(t, "Bearer good-token")
	err := Authenticate(verifier)(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	email, ok := GetUserEmailFromContext(c)
	assert.True(t, ok)
	assert.Equal(t, "alice@example.com", email)
	assert.Equal(t, constant.RoleAdmin, c.Get(string(constant.CtxKeyUserRole)))
}

func TestAuthenticateMissingToken(t *testing.T) {
	verifier := &stubVerifier{token: "Bearer good-token", claims: adminClaims()}

	c, rec := newAuthTestContext(t, "")
	err := Authenticate(verifier)(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateBadToken(t *testing.T) {
	verifier := &stubVerifier{token: "Bearer good-token", claims: adminClaims()}

	c, rec := newAuthTestContext(t, "Bearer bad-token")
	err := Authenticate(verifier)(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminOnly(t *testing.T) {
	c, rec := newAuthTestContext(t, "")
	c.Set(string(constant.CtxKeyUserRole), constant.RoleAdmin)

	err := AdminOnly()(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminOnlyRejectsRegularRole(t *testing.T) {
	c, rec := newAuthTestContext(t, "")
	c.Set(string(constant.CtxKeyUserRole), constant.RoleRegular)

	err := AdminOnly()(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminOnlyRejectsMissingRole(t *testing.T) {
	c, rec := newAuthTestContext(t, "")

	err := AdminOnly()(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
