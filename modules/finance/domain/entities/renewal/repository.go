package renewal

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Append(ctx context.Context, rec Record) (Record, error)
	ListByInvestment(ctx context.Context, investmentID uuid.UUID) ([]Record, error)
}
