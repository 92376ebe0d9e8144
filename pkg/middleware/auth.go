package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/mfigueiredo/storefront-api/pkg/constant"
	"github.com/mfigueiredo/storefront-api/pkg/jwt"
	"github.com/mfigueiredo/storefront-api/pkg/response"
)

// AccessTokenVerifier checks a bearer token and resolves it to live claims.
// It is a pure read and safe for concurrent use.
type AccessTokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (*jwt.Claims, error)
}

// Authenticate guards protected routes. On success the subject email and
// role are stored in the echo context for downstream handlers.
func Authenticate(verifier AccessTokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := c.Request().Header.Get(echo.HeaderAuthorization)
			if token == "" {
				return response.Error(c, 401, "unauthorized", "missing authorization token")
			}

			claims, err := verifier.VerifyAccessToken(c.Request().Context(), token)
			if err != nil {
				var apiErr *response.APIError
				if e, ok := err.(*response.APIError); ok {
					apiErr = e
					return response.Error(c, apiErr.Code, apiErr.Message, apiErr.Details)
				}
				return response.Error(c, 401, "unauthorized", nil)
			}

			c.Set(string(constant.CtxKeyUserEmail), claims.Subject)
			c.Set(string(constant.CtxKeyUserRole), claims.Role)
			return next(c)
		}
	}
}

// GetUserEmailFromContext extracts the authenticated user's email from the
// echo context.
func GetUserEmailFromContext(c echo.Context) (string, bool) {
	email, ok := c.Get(string(constant.CtxKeyUserEmail)).(string)
	return email, ok && email != ""
}
