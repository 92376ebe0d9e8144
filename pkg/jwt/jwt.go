package jwt

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/mfigueiredo/storefront-api/pkg/constant"
	"github.com/segmentio/ksuid"
)

// ErrInvalidToken is the single error returned for any decode failure:
// bad signature, malformed token or past expiry. Callers must not be able
// to tell those cases apart.
var ErrInvalidToken = errors.New("invalid token")

const (
	DefaultAccessTokenTTL  = 30 * time.Minute
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour
)

// Claims are the claims carried by both access and refresh tokens. The
// subject is the user's email; TokenKind distinguishes the two kinds.
type Claims struct {
	TokenKind string `json:"token_type"`
	Role      string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Config is passed explicitly into NewService at startup; the service never
// reads signing material from ambient globals.
type Config struct {
	SecretKey       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type Service struct {
	signatureKey []byte
	accessTTL    time.Duration
	refreshTTL   time.Duration
}

func NewService(cfg Config) *Service {
	accessTTL := cfg.AccessTokenTTL
	if accessTTL == 0 {
		accessTTL = DefaultAccessTokenTTL
	}
	refreshTTL := cfg.RefreshTokenTTL
	if refreshTTL == 0 {
		refreshTTL = DefaultRefreshTokenTTL
	}
	return &Service{
		signatureKey: []byte(cfg.SecretKey),
		accessTTL:    accessTTL,
		refreshTTL:   refreshTTL,
	}
}

// IssueAccessToken signs a short-lived bearer token for the given user. The
// role is baked into the token; role changes only take effect on the next
// login or refresh.
func (s *Service) IssueAccessToken(email, role string) (string, time.Time, error) {
	return s.issue(email, constant.TokenKindAccess, role, s.accessTTL)
}

// IssueRefreshToken signs a long-lived token used only to obtain new tokens.
func (s *Service) IssueRefreshToken(email string) (string, time.Time, error) {
	return s.issue(email, constant.TokenKindRefresh, "", s.refreshTTL)
}

func (s *Service) issue(email, kind, role string, ttl time.Duration) (string, time.Time, error) {
	if email == "" {
		return "", time.Time{}, errors.New("subject cannot be empty")
	}
	if len(s.signatureKey) == 0 {
		return "", time.Time{}, errors.New("signature key cannot be empty")
	}

	// All expiry arithmetic is done in UTC.
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)

	claims := Claims{
		TokenKind: kind,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			// The unique ID makes tokens issued within the same second
			// distinct, so a rotated refresh token never equals its
			// predecessor.
			ID:        ksuid.New().String(),
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signatureKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Decode verifies the signature and expiry of a token and returns its
// claims. Every failure mode collapses to ErrInvalidToken.
func (s *Service) Decode(tokenStr string) (*Claims, error) {
	tokenStr = StripBearerPrefix(tokenStr)

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("invalid signing method")
		}
		return s.signatureKey, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// StripBearerPrefix removes an optional "Bearer " scheme from an
// Authorization header value.
func StripBearerPrefix(tokenStr string) string {
	if len(tokenStr) > 7 && strings.EqualFold(tokenStr[:7], "Bearer ") {
		return tokenStr[7:]
	}
	return tokenStr
}
