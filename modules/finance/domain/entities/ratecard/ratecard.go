package ratecard

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vestaclub/vesta/modules/directory/domain/aggregates/actor"
	"github.com/vestaclub/vesta/modules/finance/domain/aggregates/investment"
)

var ErrNotFound = errors.New("rate card entry not found")

// Entry binds a monthly rate to a tier, commitment period and liquidity
// class. Condition-scoped entries additionally carry promotional
// condition ids and take priority over plain entries when any of their
// conditions is in play.
type Entry struct {
	id               uuid.UUID
	tier             actor.Tier
	commitmentPeriod int
	liquidityClass   investment.LiquidityClass
	conditionIDs     []string
	monthlyRate      decimal.Decimal
	createdAt        time.Time
}

func New(tier actor.Tier, commitmentPeriod int, liquidityClass investment.LiquidityClass, conditionIDs []string, monthlyRate decimal.Decimal) Entry {
	return Entry{
		tier:             tier,
		commitmentPeriod: commitmentPeriod,
		liquidityClass:   liquidityClass,
		conditionIDs:     conditionIDs,
		monthlyRate:      monthlyRate,
	}
}

func Hydrate(
	id uuid.UUID,
	tier actor.Tier,
	commitmentPeriod int,
	liquidityClass investment.LiquidityClass,
	conditionIDs []string,
	monthlyRate decimal.Decimal,
	createdAt time.Time,
) Entry {
	return Entry{
		id:               id,
		tier:             tier,
		commitmentPeriod: commitmentPeriod,
		liquidityClass:   liquidityClass,
		conditionIDs:     conditionIDs,
		monthlyRate:      monthlyRate,
		createdAt:        createdAt,
	}
}

func (e Entry) ID() uuid.UUID { return e.id }
func (e Entry) Tier() actor.Tier { return e.tier }
func (e Entry) CommitmentPeriod() int { return e.commitmentPeriod }
func (e Entry) LiquidityClass() investment.LiquidityClass { return e.liquidityClass }
func (e Entry) ConditionIDs() []string { return e.conditionIDs }
func (e Entry) MonthlyRate() decimal.Decimal { return e.monthlyRate }
func (e Entry) CreatedAt() time.Time { return e.createdAt }

func (e Entry) IsConditionScoped() bool { return len(e.conditionIDs) > 0 }
