package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v4"
	"github.com/mfigueiredo/storefront-api/pkg/constant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService(Config{SecretKey: "test-secret"})
}

func TestIssueAndDecodeAccessToken(t *testing.T) {
	svc := newTestService()

	token, expiresAt, err := svc.IssueAccessToken("alice@example.com", constant.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().UTC().Add(DefaultAccessTokenTTL), expiresAt, 5*time.Second)

	claims, err := svc.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Subject)
	assert.Equal(t, constant.TokenKindAccess, claims.TokenKind)
	assert.Equal(t, constant.RoleAdmin, claims.Role)
}

func TestIssueAndDecodeRefreshToken(t *testing.T) {
	svc := newTestService()

	token, expiresAt, err := svc.IssueRefreshToken("alice@example.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().Add(DefaultRefreshTokenTTL), expiresAt, 5*time.Second)

	claims, err := svc.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Subject)
	assert.Equal(t, constant.TokenKindRefresh, claims.TokenKind)
	assert.Empty(t, claims.Role)
}

func TestDecodeWithBearerPrefix(t *testing.T) {
	svc := newTestService()

	token, _, err := svc.IssueAccessToken("alice@example.com", constant.RoleRegular)
	require.NoError(t, err)

	claims, err := svc.Decode("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Subject)
}

func TestDecodeExpiredToken(t *testing.T) {
	svc := NewService(Config{
		SecretKey:      "test-secret",
		AccessTokenTTL: -time.Minute,
	})

	token, _, err := svc.IssueAccessToken("alice@example.com", constant.RoleRegular)
	require.NoError(t, err)

	_, err = svc.Decode(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDecodeTamperedToken(t *testing.T) {
	svc := newTestService()
	other := NewService(Config{SecretKey: "different-secret"})

	token, _, err := other.IssueAccessToken("alice@example.com", constant.RoleRegular)
	require.NoError(t, err)

	_, err = svc.Decode(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Decode("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDecodeRejectsUnsignedToken(t *testing.T) {
	svc := newTestService()

	unsigned := gojwt.NewWithClaims(gojwt.SigningMethodNone, Claims{
		TokenKind: constant.TokenKindAccess,
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   "alice@example.com",
			ExpiresAt: gojwt.NewNumericDate(time.Now().UTC().Add(time.Hour)),
		},
	})
	token, err := unsigned.SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Decode(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssueRequiresSubjectAndKey(t *testing.T) {
	svc := newTestService()
	_, _, err := svc.IssueAccessToken("", constant.RoleRegular)
	assert.Error(t, err)

	keyless := NewService(Config{})
	_, _, err = keyless.IssueAccessToken("alice@example.com", constant.RoleRegular)
	assert.Error(t, err)
}

func TestStripBearerPrefix(t *testing.T) {
	assert.Equal(t, "abc", StripBearerPrefix("Bearer abc"))
	assert.Equal(t, "abc", StripBearerPrefix("bearer abc"))
	assert.Equal(t, "abc", StripBearerPrefix("abc"))
	assert.Equal(t, "", StripBearerPrefix(""))
}
