package models

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Investment struct {
	ID                     pgtype.UUID
	OwnerID                pgtype.UUID
	Amount                 pgtype.Numeric
	CommitmentPeriod       int32
	LiquidityClass         string
	MonthlyRate            pgtype.Numeric
	PaymentDate            pgtype.Timestamptz
	ReceiptRef             pgtype.Text
	Status                 string
	RenewalCount           int32
	OriginalInvestmentDate pgtype.Timestamptz
	CurrentCycleStartDate  pgtype.Timestamptz
	Version                int64
	CreatedAt              pgtype.Timestamptz
	UpdatedAt              pgtype.Timestamptz
}

type RateCardEntry struct {
	ID               pgtype.UUID
	Tier             string
	CommitmentPeriod int32
	LiquidityClass   string
	ConditionIDs     []string
	MonthlyRate      pgtype.Numeric
	CreatedAt        pgtype.Timestamptz
}

type RenewalRecord struct {
	ID             pgtype.UUID
	InvestmentID   pgtype.UUID
	Action         string
	PerformedBy    pgtype.UUID
	PriorPeriod    int32
	PriorLiquidity string
	PriorRate      pgtype.Numeric
	PriorExpiry    pgtype.Timestamptz
	NewPeriod      int32
	NewLiquidity   string
	NewRate        pgtype.Numeric
	NewExpiry      pgtype.Timestamptz
	CreatedAt      pgtype.Timestamptz
}
