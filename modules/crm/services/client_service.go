package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/renovaplan/renova/modules/crm/domain/aggregates/client"
	"github.com/renovaplan/renova/pkg/eventbus"
)

type ClientService struct {
	repo      client.Repository
	publisher eventbus.EventBus
}

func NewClientService(repo client.Repository, publisher eventbus.EventBus) *ClientService {
	return &ClientService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *ClientService) GetPaginated(ctx context.Context, params *client.FindParams) ([]client.Client, int64, error) {
	return s.repo.GetPaginated(ctx, params)
}

func (s *ClientService) GetByID(ctx context.Context, id uuid.UUID) (client.Client, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ClientService) GetByBirthdayMonth(ctx context.Context, month time.Month) ([]client.Client, error) {
	return s.repo.GetByBirthdayMonth(ctx, month)
}

func (s *ClientService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *ClientService) Create(ctx context.Context, entity client.Client) (client.Client, error) {
	created, err := s.repo.Create(ctx, entity)
	if err != nil {
		return client.Client{}, err
	}
	s.publisher.Publish(&client.CreatedEvent{Result: created})
	return created, nil
}

func (s *ClientService) Update(ctx context.Context, entity client.Client) (client.Client, error) {
	updated, err := s.repo.Update(ctx, entity)
	if err != nil {
		return client.Client{}, err
	}
	s.publisher.Publish(&client.UpdatedEvent{Result: updated})
	return updated, nil
}

func (s *ClientService) Delete(ctx context.Context, id uuid.UUID) error {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publisher.Publish(&client.DeletedEvent{Result: entity})
	return nil
}
