package repository

import (
	"context"
	"errors"

	"github.com/mfigueiredo/storefront-api/internal/domain/clients"
	"gorm.io/gorm"
)

type Client struct {
	db *gorm.DB
}

func NewClient(db *gorm.DB) *Client {
	return &Client{db: db}
}

func (r Client) CreateClient(ctx context.Context, client clients.Client) error {
	return r.db.WithContext(ctx).Create(&client).Error
}

func (r Client) FindClientByID(ctx context.Context, id string) (*clients.Client, error) {
	var client clients.Client
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

func (r Client) FindAllClients(ctx context.Context, filter clients.ListFilter) ([]clients.Client, error) {
	query := r.db.WithContext(ctx).Model(&clients.Client{})

	if filter.Name != "" {
		query = query.Where("name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.Email != "" {
		query = query.Where("email = ?", filter.Email)
	}

	var result []clients.Client
	if err := query.Order("created_at").Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateClient replaces the mutable fields wholesale.
func (r Client) UpdateClient(ctx context.Context, client *clients.Client) error {
	return r.db.WithContext(ctx).Model(client).
		Select("name", "email", "cpf").
		Updates(map[string]interface{}{
			"name":  client.Name,
			"email": client.Email,
			"cpf":   client.CPF,
		}).Error
}

func (r Client) DeleteClient(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&clients.Client{}).Error
}
