package renewal

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vestaclub/vesta/modules/finance/domain/aggregates/investment"
)

var ErrNotFound = errors.New("renewal record not found")

type Action string

const (
	ActionRenew             Action = "renew"
	ActionRenewWithNewRules Action = "renewWithNewRules"
	ActionSuggestIncrease   Action = "suggestIncrease"
)

func ParseAction(v string) (Action, error) {
	switch Action(v) {
	case ActionRenew:
		return ActionRenew, nil
	case ActionRenewWithNewRules:
		return ActionRenewWithNewRules, nil
	case ActionSuggestIncrease:
		return ActionSuggestIncrease, nil
	default:
		return "", fmt.Errorf("unknown renewal action %q", v)
	}
}

// Record is an append-only audit line capturing the terms before and
// after a renewal. Records are never updated or deleted.
type Record struct {
	id             uuid.UUID
	investmentID   uuid.UUID
	action         Action
	performedBy    uuid.UUID
	priorPeriod    int
	priorLiquidity investment.LiquidityClass
	priorRate      decimal.Decimal
	priorExpiry    *time.Time
	newPeriod      int
	newLiquidity   investment.LiquidityClass
	newRate        decimal.Decimal
	newExpiry      *time.Time
	createdAt      time.Time
}

func New(
	investmentID uuid.UUID,
	action Action,
	performedBy uuid.UUID,
	prior, renewed investment.Investment,
) Record {
	rec := Record{
		investmentID:   investmentID,
		action:         action,
		performedBy:    performedBy,
		priorPeriod:    prior.CommitmentPeriod(),
		priorLiquidity: prior.LiquidityClass(),
		priorRate:      prior.MonthlyRate(),
		newPeriod:      renewed.CommitmentPeriod(),
		newLiquidity:   renewed.LiquidityClass(),
		newRate:        renewed.MonthlyRate(),
	}
	if exp, ok := prior.MaturityDate(); ok {
		rec.priorExpiry = &exp
	}
	if exp, ok := renewed.MaturityDate(); ok {
		rec.newExpiry = &exp
	}
	return rec
}

func Hydrate(
	id uuid.UUID,
	investmentID uuid.UUID,
	action Action,
	performedBy uuid.UUID,
	priorPeriod int,
	priorLiquidity investment.LiquidityClass,
	priorRate decimal.Decimal,
	priorExpiry *time.Time,
	newPeriod int,
	newLiquidity investment.LiquidityClass,
	newRate decimal.Decimal,
	newExpiry *time.Time,
	createdAt time.Time,
) Record {
	return Record{
		id:             id,
		investmentID:   investmentID,
		action:         action,
		performedBy:    performedBy,
		priorPeriod:    priorPeriod,
		priorLiquidity: priorLiquidity,
		priorRate:      priorRate,
		priorExpiry:    priorExpiry,
		newPeriod:      newPeriod,
		newLiquidity:   newLiquidity,
		newRate:        newRate,
		newExpiry:      newExpiry,
		createdAt:      createdAt,
	}
}

func (r Record) ID() uuid.UUID { return r.id }
func (r Record) InvestmentID() uuid.UUID { return r.investmentID }
func (r Record) Action() Action { return r.action }
func (r Record) PerformedBy() uuid.UUID { return r.performedBy }
func (r Record) PriorPeriod() int { return r.priorPeriod }
func (r Record) PriorLiquidity() investment.LiquidityClass { return r.priorLiquidity }
func (r Record) PriorRate() decimal.Decimal { return r.priorRate }
func (r Record) PriorExpiry() *time.Time { return r.priorExpiry }
func (r Record) NewPeriod() int { return r.newPeriod }
func (r Record) NewLiquidity() investment.LiquidityClass { return r.newLiquidity }
func (r Record) NewRate() decimal.Decimal { return r.newRate }
func (r Record) NewExpiry() *time.Time { return r.newExpiry }
func (r Record) CreatedAt() time.Time { return r.createdAt }
