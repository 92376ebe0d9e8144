package users

import "time"

// User is an authenticating identity. RefreshToken always holds the single
// currently valid refresh token; presenting any previous value fails even
// while its signature is still good.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(40)"`
	Name         string    `json:"name" gorm:"type:varchar(100);not null"`
	Email        string    `json:"email" gorm:"type:varchar(191);uniqueIndex;not null"`
	Password     string    `json:"-" gorm:"type:varchar(100);not null"`
	Role         string    `json:"role" gorm:"type:varchar(20);not null"`
	RefreshToken string    `json:"-" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

type RegisterRequest struct {
	Name                 string `json:"name" validate:"required,min=3,max=100"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=6"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

type RegisterResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   string      `json:"expires_in"`
	User        UserProfile `json:"user"`
}

// UserProfile is the public view of a user. The login response carries the
// stored refresh token here, mirroring the login contract.
type UserProfile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

type RefreshTokenResponse struct {
	AccessToken      string `json:"access_token"`
	AccessExpiresIn  string `json:"access_expires_in"`
	RefreshToken     string `json:"refresh_token"`
	RefreshExpiresIn string `json:"refresh_expires_in"`
}
