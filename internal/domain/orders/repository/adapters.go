package repository

import (
	"context"

	clientRepo "github.com/mfigueiredo/storefront-api/internal/domain/clients/repository"
	"github.com/mfigueiredo/storefront-api/internal/domain/orders"
	productRepo "github.com/mfigueiredo/storefront-api/internal/domain/products/repository"
)

// ClientRepositoryAdapter adapts the client repository to the narrow
// lookup the order usecase needs.
type ClientRepositoryAdapter struct {
	repo *clientRepo.Client
}

func NewClientRepositoryAdapter(repo *clientRepo.Client) *ClientRepositoryAdapter {
	return &ClientRepositoryAdapter{repo: repo}
}

func (a *ClientRepositoryAdapter) FindClientByID(ctx context.Context, id string) (*orders.ClientRef, error) {
	client, err := a.repo.FindClientByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, nil
	}
	return &orders.ClientRef{
		ID:    client.ID,
		Name:  client.Name,
		Email: client.Email,
	}, nil
}

// ProductRepositoryAdapter adapts the product repository to the order
// usecase's price lookup.
type ProductRepositoryAdapter struct {
	repo *productRepo.Product
}

func NewProductRepositoryAdapter(repo *productRepo.Product) *ProductRepositoryAdapter {
	return &ProductRepositoryAdapter{repo: repo}
}

func (a *ProductRepositoryAdapter) FindProductByID(ctx context.Context, id string) (*orders.ProductRef, error) {
	product, err := a.repo.FindProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return &orders.ProductRef{
		ID:    product.ID,
		Name:  product.Name,
		Price: product.Price,
	}, nil
}
