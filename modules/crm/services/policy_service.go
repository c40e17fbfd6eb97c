package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/renovaplan/renova/modules/crm/domain/aggregates/policy"
	"github.com/renovaplan/renova/pkg/eventbus"
)

type PolicyService struct {
	repo      policy.Repository
	publisher eventbus.EventBus
}

func NewPolicyService(repo policy.Repository, publisher eventbus.EventBus) *PolicyService {
	return &PolicyService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *PolicyService) GetPaginated(ctx context.Context, params *policy.FindParams) ([]policy.WithClient, int64, error) {
	return s.repo.GetPaginated(ctx, params)
}

func (s *PolicyService) GetByID(ctx context.Context, id uuid.UUID) (policy.Policy, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PolicyService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *PolicyService) Create(ctx context.Context, entity policy.Policy) (policy.Policy, error) {
	created, err := s.repo.Create(ctx, entity)
	if err != nil {
		return policy.Policy{}, err
	}
	s.publisher.Publish(&policy.CreatedEvent{Result: created})
	return created, nil
}

func (s *PolicyService) Update(ctx context.Context, entity policy.Policy) (policy.Policy, error) {
	updated, err := s.repo.Update(ctx, entity)
	if err != nil {
		return policy.Policy{}, err
	}
	s.publisher.Publish(&policy.UpdatedEvent{Result: updated})
	return updated, nil
}

func (s *PolicyService) Delete(ctx context.Context, id uuid.UUID) error {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publisher.Publish(&policy.DeletedEvent{Result: entity})
	return nil
}
