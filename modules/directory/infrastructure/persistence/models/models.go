package models

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Actor struct {
	ID            pgtype.UUID
	DisplayName   string
	Email         string
	Tier          string
	AdvisorID     pgtype.UUID
	OfficeID      pgtype.UUID
	DistributorID pgtype.UUID
	CreatedAt     pgtype.Timestamptz
	UpdatedAt     pgtype.Timestamptz
}
