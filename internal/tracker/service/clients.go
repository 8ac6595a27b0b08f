package service

import (
	"context"
	"time"

	"github.com/thistracker/thistracker-backend/internal/apperr"
	"github.com/thistracker/thistracker-backend/internal/tracker/domain"
)

// ClientWithProjects bundles a client with the projects referencing it.
type ClientWithProjects struct {
	Client   domain.Client    `json:"client"`
	Projects []domain.Project `json:"projects"`
}

// GetClients returns all clients.
func (s *DataService) GetClients(ctx context.Context) ([]domain.Client, error) {
	return s.store.Clients(ctx)
}

// GetClient returns one client by id.
func (s *DataService) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	clients, err := s.store.Clients(ctx)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		if clients[i].ID == id {
			return &clients[i], nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "Client not found")
}

// CreateClient creates a new client.
func (s *DataService) CreateClient(ctx context.Context, form domain.ClientForm) (*domain.Client, error) {
	if form.Name == "" {
		return nil, apperr.New(apperr.ValidationFailed, "Client name is required")
	}

	now := time.Now().UTC()
	client := domain.Client{
		ID:        newID(),
		Name:      form.Name,
		Email:     form.Email,
		Phone:     form.Phone,
		Address:   form.Address,
		Notes:     form.Notes,
		CreatedAt: now,
		UpdatedAt: now,
		IsActive:  true,
	}

	clients, err := s.store.Clients(ctx)
	if err != nil {
		return nil, err
	}
	clients = append(clients, client)
	if err := s.store.SaveClients(ctx, clients); err != nil {
		return nil, err
	}
	return &client, nil
}

// UpdateClient applies a partial update to an existing client.
func (s *DataService) UpdateClient(ctx context.Context, id string, patch domain.ClientPatch) (*domain.Client, error) {
	clients, err := s.store.Clients(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range clients {
		if clients[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, apperr.New(apperr.NotFound, "Client not found")
	}

	client := clients[idx]
	if patch.Name != nil {
		client.Name = *patch.Name
	}
	if patch.Email != nil {
		client.Email = *patch.Email
	}
	if patch.Phone != nil {
		client.Phone = *patch.Phone
	}
	if patch.Address != nil {
		client.Address = *patch.Address
	}
	if patch.Notes != nil {
		client.Notes = *patch.Notes
	}
	client.UpdatedAt = time.Now().UTC()

	clients[idx] = client
	if err := s.store.SaveClients(ctx, clients); err != nil {
		return nil, err
	}
	return &client, nil
}

// DeleteClient removes a client. Projects that reference it are left in
// place; there is no cascade.
func (s *DataService) DeleteClient(ctx context.Context, id string) error {
	clients, err := s.store.Clients(ctx)
	if err != nil {
		return err
	}
	kept := clients[:0]
	for _, c := range clients {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	return s.store.SaveClients(ctx, kept)
}

// GetClientWithProjects returns a client together with its projects.
func (s *DataService) GetClientWithProjects(ctx context.Context, id string) (*ClientWithProjects, error) {
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	projects, err := s.GetProjects(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ClientWithProjects{Client: *client, Projects: projects}, nil
}
