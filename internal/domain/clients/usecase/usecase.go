package usecase

import (
	"context"

	"github.com/mfigueiredo/storefront-api/internal/domain/clients"
	"github.com/mfigueiredo/storefront-api/internal/platform/database"
	"github.com/mfigueiredo/storefront-api/pkg/response"
	"github.com/segmentio/ksuid"
)

type ClientRepository interface {
	CreateClient(ctx context.Context, client clients.Client) error
	FindClientByID(ctx context.Context, id string) (*clients.Client, error)
	FindAllClients(ctx context.Context, filter clients.ListFilter) ([]clients.Client, error)
	UpdateClient(ctx context.Context, client *clients.Client) error
	DeleteClient(ctx context.Context, id string) error
}

type Usecase struct {
	repo ClientRepository
}

func NewUsecase(repo ClientRepository) *Usecase {
	return &Usecase{repo: repo}
}

func (u Usecase) CreateClient(ctx context.Context, payload clients.ClientRequest) (*clients.ClientView, error) {
	client := clients.Client{
		ID:    "cli_" + ksuid.New().String(),
		Name:  payload.Name,
		Email: payload.Email,
		CPF:   payload.CPF,
	}

	if err := u.repo.CreateClient(ctx, client); err != nil {
		if database.IsDuplicateKeyErr(err) {
			return nil, response.Conflict("email_or_cpf_already_registered")
		}
		return nil, response.InternalServerError(err)
	}

	return toView(&client), nil
}

func (u Usecase) GetClient(ctx context.Context, id string) (*clients.ClientView, error) {
	client, err := u.repo.FindClientByID(ctx, id)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if client == nil {
		return nil, response.NotFound("client_not_found")
	}
	return toView(client), nil
}

func (u Usecase) ListClients(ctx context.Context, filter clients.ListFilter) ([]clients.ClientView, error) {
	list, err := u.repo.FindAllClients(ctx, filter)
	if err != nil {
		return nil, response.InternalServerError(err)
	}

	views := make([]clients.ClientView, len(list))
	for i := range list {
		views[i] = *toView(&list[i])
	}
	return views, nil
}

// UpdateClient has full-replace semantics: every mutable field is written
// from the payload.
func (u Usecase) UpdateClient(ctx context.Context, id string, payload clients.ClientRequest) (*clients.ClientView, error) {
	client, err := u.repo.FindClientByID(ctx, id)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if client == nil {
		return nil, response.NotFound("client_not_found")
	}

	client.Name = payload.Name
	client.Email = payload.Email
	client.CPF = payload.CPF

	if err := u.repo.UpdateClient(ctx, client); err != nil {
		if database.IsDuplicateKeyErr(err) {
			return nil, response.Conflict("email_or_cpf_already_registered")
		}
		return nil, response.InternalServerError(err)
	}

	return toView(client), nil
}

func (u Usecase) DeleteClient(ctx context.Context, id string) error {
	client, err := u.repo.FindClientByID(ctx, id)
	if err != nil {
		return response.InternalServerError(err)
	}
	if client == nil {
		return response.NotFound("client_not_found")
	}
	if err := u.repo.DeleteClient(ctx, id); err != nil {
		return response.InternalServerError(err)
	}
	return nil
}

func toView(c *clients.Client) *clients.ClientView {
	return &clients.ClientView{
		ID:    c.ID,
		Name:  c.Name,
		Email: c.Email,
		CPF:   c.CPF,
	}
}
