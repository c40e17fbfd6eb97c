package policy

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/renovaplan/renova/modules/crm/domain/aggregates/client"
)

var ErrNotFound = errors.New("policy not found")

type FindParams struct {
	Status   Status
	ClientID uuid.UUID
	DueFrom  *time.Time
	DueTo    *time.Time
	Limit    int
	Offset   int
}

// WithClient pairs a policy with its owning client, already resolved by the
// repository. Client is zero-valued when the reference is orphaned.
type WithClient struct {
	Policy
	Client client.Client
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]WithClient, int64, error)
	// GetAllWithClient returns up to limit policies with their owning clients
	// attached, the snapshot the import deduplicator works against.
	GetAllWithClient(ctx context.Context, limit int) ([]WithClient, error)
	GetByID(ctx context.Context, id uuid.UUID) (Policy, error)
	Create(ctx context.Context, p Policy) (Policy, error)
	// CreateMany returns the created policies in submission order.
	CreateMany(ctx context.Context, policies []Policy) ([]Policy, error)
	Update(ctx context.Context, p Policy) (Policy, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status Status) (int64, error)
}
