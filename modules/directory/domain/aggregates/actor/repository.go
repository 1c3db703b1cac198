package actor

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("actor not found")
	ErrEmailTaken = errors.New("email already registered")
)

type FindParams struct {
	Tier   Tier
	Q      string
	Limit  int
	Offset int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Actor, error)
	GetByEmail(ctx context.Context, email string) (Actor, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]Actor, int64, error)
	Create(ctx context.Context, a Actor) (Actor, error)
	Update(ctx context.Context, a Actor) (Actor, error)
}
