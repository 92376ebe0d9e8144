package clients

import "time"

// Client is a purchaser, distinct from an authenticating user.
type Client struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(40)"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	Email     string    `json:"email" gorm:"type:varchar(191);uniqueIndex;not null"`
	CPF       string    `json:"cpf" gorm:"column:cpf;type:varchar(11);uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Client) TableName() string {
	return "clients"
}

type ClientRequest struct {
	Name  string `json:"name" validate:"required,min=3,max=100"`
	Email string `json:"email" validate:"required,email"`
	CPF   string `json:"cpf" validate:"required,len=11,numeric"`
}

type ClientView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	CPF   string `json:"cpf"`
}

// ListFilter narrows client listing; empty fields match everything.
type ListFilter struct {
	Name  string
	Email string
}
