package services

import (
	"context"

	"github.com/renovaplan/renova/modules/crm/domain/aggregates/client"
	"github.com/renovaplan/renova/modules/crm/domain/aggregates/policy"
	"github.com/renovaplan/renova/pkg/composables"
)

// DangerZoneService backs the destructive maintenance operations. Its routes
// run under the transaction middleware, so a failure rolls back everything.
type DangerZoneService struct {
	clients  client.Repository
	policies policy.Repository
}

func NewDangerZoneService(clients client.Repository, policies policy.Repository) *DangerZoneService {
	return &DangerZoneService{
		clients:  clients,
		policies: policies,
	}
}

// ClearAll wipes every policy and client.
func (s *DangerZoneService) ClearAll(ctx context.Context) error {
	composables.UseLogger(ctx).Warn("clearing all clients and policies")

	if err := s.policies.DeleteAll(ctx); err != nil {
		return err
	}
	return s.clients.DeleteAll(ctx)
}
