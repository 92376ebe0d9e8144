package usecase

import (
	"context"
	"time"

	"github.com/mfigueiredo/storefront-api/internal/domain/users"
	"github.com/mfigueiredo/storefront-api/internal/platform/database"
	"github.com/mfigueiredo/storefront-api/pkg/constant"
	"github.com/mfigueiredo/storefront-api/pkg/jwt"
	"github.com/mfigueiredo/storefront-api/pkg/password"
	"github.com/mfigueiredo/storefront-api/pkg/response"
	"github.com/segmentio/ksuid"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user users.User) error
	FindUserByEmail(ctx context.Context, email string) (*users.User, error)
	RotateRefreshToken(ctx context.Context, email, presented, next string) (bool, error)
}

type Usecase struct {
	repo   UserRepository
	tokens *jwt.Service
}

func NewUsecase(repo UserRepository, tokens *jwt.Service) *Usecase {
	return &Usecase{
		repo:   repo,
		tokens: tokens,
	}
}

// Register creates a regular user with a hashed password and an initial
// refresh token, written as a single row. Duplicate emails abort the whole
// write.
func (u Usecase) Register(ctx context.Context, payload users.RegisterRequest) (*users.RegisterResponse, error) {
	existing, err := u.repo.FindUserByEmail(ctx, payload.Email)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if existing != nil {
		return nil, response.Conflict("email_already_registered")
	}

	hashed, err := password.Hash(payload.Password)
	if err != nil {
		return nil, response.InternalServerError(err)
	}

	refreshToken, _, err := u.tokens.IssueRefreshToken(payload.Email)
	if err != nil {
		return nil, response.InternalServerError(err)
	}

	user := users.User{
		ID:           "user_" + ksuid.New().String(),
		Name:         payload.Name,
		Email:        payload.Email,
		Password:     hashed,
		Role:         constant.RoleRegular,
		RefreshToken: refreshToken,
	}

	if err := u.repo.CreateUser(ctx, user); err != nil {
		// The unique index catches the race the pre-check cannot.
		if database.IsDuplicateKeyErr(err) {
			return nil, response.Conflict("email_already_registered")
		}
		return nil, response.InternalServerError(err)
	}

	return &users.RegisterResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}, nil
}

// Login verifies the credentials and issues a fresh access token. The
// refresh token returned is the one currently stored for the user; it is
// not reissued on login.
func (u Usecase) Login(ctx context.Context, payload users.LoginRequest) (*users.LoginResponse, error) {
	user, err := u.repo.FindUserByEmail(ctx, payload.Email)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if user == nil {
		return nil, response.NotFound("user_not_found")
	}

	if !password.Verify(user.Password, payload.Password) {
		return nil, response.Unauthorized("invalid_credentials")
	}

	accessToken, expiresAt, err := u.tokens.IssueAccessToken(user.Email, user.Role)
	if err != nil {
		return nil, response.InternalServerError(err)
	}

	return &users.LoginResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   expiresAt.Format(time.RFC3339),
		User: users.UserProfile{
			ID:           user.ID,
			Name:         user.Name,
			Email:        user.Email,
			Role:         user.Role,
			RefreshToken: user.RefreshToken,
		},
	}, nil
}

// VerifyAccessToken decodes a bearer token and confirms the subject still
// resolves to a user, so tokens of deleted users stop working before their
// signed expiry. It performs no writes and is safe for concurrent calls.
func (u Usecase) VerifyAccessToken(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := u.tokens.Decode(token)
	if err != nil {
		return nil, response.Unauthorized("invalid_token")
	}

	if claims.TokenKind != constant.TokenKindAccess {
		return nil, response.Unauthorized("invalid_token")
	}

	user, err := u.repo.FindUserByEmail(ctx, claims.Subject)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if user == nil {
		return nil, response.Unauthorized("invalid_token")
	}

	return claims, nil
}

// RotateRefreshToken exchanges a valid, current refresh token for a new
// access/refresh pair. Rotation is single-use: the new refresh token is
// persisted with a compare-and-set against the presented value, so a
// concurrent attempt with the same token loses and gets 401.
func (u Usecase) RotateRefreshToken(ctx context.Context, token string) (*users.RefreshTokenResponse, error) {
	token = jwt.StripBearerPrefix(token)

	claims, err := u.tokens.Decode(token)
	if err != nil {
		return nil, response.Unauthorized("invalid_token")
	}

	if claims.TokenKind != constant.TokenKindRefresh {
		return nil, response.Unauthorized("invalid_token")
	}

	user, err := u.repo.FindUserByEmail(ctx, claims.Subject)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if user == nil {
		return nil, response.NotFound("user_not_found")
	}

	accessToken, accessExpiresAt, err := u.tokens.IssueAccessToken(user.Email, user.Role)
	if err != nil {
		return nil, response.InternalServerError(err)
	}

	refreshToken, refreshExpiresAt, err := u.tokens.IssueRefreshToken(user.Email)
	if err != nil {
		return nil, response.InternalServerError(err)
	}

	rotated, err := u.repo.RotateRefreshToken(ctx, user.Email, token, refreshToken)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if !rotated {
		// Stale token: superseded by an earlier rotation.
		return nil, response.Unauthorized("invalid_refresh_token")
	}

	return &users.RefreshTokenResponse{
		AccessToken:      accessToken,
		AccessExpiresIn:  accessExpiresAt.Format(time.RFC3339),
		RefreshToken:     refreshToken,
		RefreshExpiresIn: refreshExpiresAt.Format(time.RFC3339),
	}, nil
}
