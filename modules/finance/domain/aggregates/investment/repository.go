package investment

import (
	"context"

	"github.com/google/uuid"
)

type FindParams struct {
	OwnerID uuid.UUID
	Status  Status
	Limit   int
	Offset  int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Investment, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]Investment, int64, error)
	ListByStatus(ctx context.Context, status Status) ([]Investment, error)
	Create(ctx context.Context, inv Investment) (Investment, error)
	// Update persists the aggregate only if the stored version still
	// matches inv.Version(); a stale version yields ErrVersionConflict.
	Update(ctx context.Context, inv Investment) (Investment, error)
}
