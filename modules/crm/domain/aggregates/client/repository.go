package client

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("client not found")

type FindParams struct {
	Q      string
	Limit  int
	Offset int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]Client, int64, error)
	GetAll(ctx context.Context, limit int) ([]Client, error)
	GetByID(ctx context.Context, id uuid.UUID) (Client, error)
	// GetByBirthdayMonth returns clients whose birthday falls in the given
	// month, regardless of year.
	GetByBirthdayMonth(ctx context.Context, month time.Month) ([]Client, error)
	Create(ctx context.Context, c Client) (Client, error)
	// CreateMany returns the created clients in submission order.
	CreateMany(ctx context.Context, clients []Client) ([]Client, error)
	Update(ctx context.Context, c Client) (Client, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}
