package repository

import (
	"context"
	"errors"

	"github.com/mfigueiredo/storefront-api/internal/domain/users"
	"gorm.io/gorm"
)

type User struct {
	db *gorm.DB
}

func NewUser(db *gorm.DB) *User {
	return &User{db: db}
}

func (u User) CreateUser(ctx context.Context, user users.User) error {
	return u.db.WithContext(ctx).Create(&user).Error
}

func (u User) FindUserByEmail(ctx context.Context, email string) (*users.User, error) {
	var user users.User
	err := u.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (u User) FindUserByID(ctx context.Context, id string) (*users.User, error) {
	var user users.User
	err := u.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// RotateRefreshToken swaps the stored refresh token for next in a single
// conditional update. It reports false when the presented token no longer
// matches the stored value, so only the first of two concurrent rotation
// attempts with the same token can succeed.
func (u User) RotateRefreshToken(ctx context.Context, email, presented, next string) (bool, error) {
	res := u.db.WithContext(ctx).Model(&users.User{}).
		Where("email = ? AND refresh_token = ?", email, presented).
		Update("refresh_token", next)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
