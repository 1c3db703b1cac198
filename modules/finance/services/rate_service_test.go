package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vestaclub/vesta/modules/directory/domain/aggregates/actor"
	"github.com/vestaclub/vesta/modules/finance/domain/aggregates/investment"
	"github.com/vestaclub/vesta/modules/finance/domain/entities/ratecard"
	"github.com/vestaclub/vesta/modules/finance/services"
)

type fakeRateCardRepo struct {
	plain  map[string]ratecard.Entry
	scoped []ratecard.Entry
}

func plainKey(tier actor.Tier, period int, liquidity investment.LiquidityClass) string {
	return fmt.Sprintf("%s|%s|%d", tier, liquidity, period)
}

func (r *fakeRateCardRepo) FindByTerms(_ context.Context, tier actor.Tier, period int, liquidity investment.LiquidityClass) (ratecard.Entry, error) {
	entry, ok := r.plain[plainKey(tier, period, liquidity)]
	if !ok {
		return ratecard.Entry{}, ratecard.ErrNotFound
	}
	return entry, nil
}

func (r *fakeRateCardRepo) FindConditionScoped(_ context.Context, period int, liquidity investment.LiquidityClass) ([]ratecard.Entry, error) {
	out := make([]ratecard.Entry, 0)
	for _, entry := range r.scoped {
		if entry.CommitmentPeriod() == period && entry.LiquidityClass() == liquidity {
			out = append(out, entry)
		}
	}
	return out, nil
}

func rate(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func TestRateService_PlainLookup(t *testing.T) {
	repo := &fakeRateCardRepo{plain: map[string]ratecard.Entry{
		plainKey(actor.TierInvestor, 12, investment.LiquidityMonthly): ratecard.New(
			actor.TierInvestor, 12, investment.LiquidityMonthly, nil, rate("0.018"),
		),
	}}
	svc := services.NewRateService(repo)

	got, err := svc.Resolve(context.Background(), services.RateQuery{
		Tier:             actor.TierInvestor,
		CommitmentPeriod: 12,
		LiquidityClass:   investment.LiquidityMonthly,
		Default:          rate("0.02"),
	})
	require.NoError(t, err)
	assert.True(t, rate("0.018").Equal(got))
}

func TestRateService_ConditionScopedBeatsPlain(t *testing.T) {
	repo := &fakeRateCardRepo{
		plain: map[string]ratecard.Entry{
			plainKey(actor.TierInvestor, 12, investment.LiquidityMonthly): ratecard.New(
				actor.TierInvestor, 12, investment.LiquidityMonthly, nil, rate("0.018"),
			),
		},
		scoped: []ratecard.Entry{
			ratecard.New(actor.TierInvestor, 12, investment.LiquidityMonthly, []string{"promo-a"}, rate("0.025")),
		},
	}
	svc := services.NewRateService(repo)

	got, err := svc.Resolve(context.Background(), services.RateQuery{
		Tier:             actor.TierInvestor,
		CommitmentPeriod: 12,
		LiquidityClass:   investment.LiquidityMonthly,
		ConditionIDs:     []string{"promo-a"},
		Default:          rate("0.02"),
	})
	require.NoError(t, err)
	assert.True(t, rate("0.025").Equal(got))
}

func TestRateService_LargestOverlapWins(t *testing.T) {
	repo := &fakeRateCardRepo{scoped: []ratecard.Entry{
		ratecard.New(actor.TierInvestor, 12, investment.LiquidityMonthly, []string{"promo-a"}, rate("0.021")),
		ratecard.New(actor.TierInvestor, 12, investment.LiquidityMonthly, []string{"promo-a", "promo-b"}, rate("0.026")),
	}}
	svc := services.NewRateService(repo)

	got, err := svc.Resolve(context.Background(), services.RateQuery{
		Tier:             actor.TierInvestor,
		CommitmentPeriod: 12,
		LiquidityClass:   investment.LiquidityMonthly,
		ConditionIDs:     []string{"promo-a", "promo-b", "promo-c"},
		Default:          rate("0.02"),
	})
	require.NoError(t, err)
	assert.True(t, rate("0.026").Equal(got))
}

func TestRateService_TieBreaksByStorageOrder(t *testing.T) {
	repo := &fakeRateCardRepo{scoped: []ratecard.Entry{
		ratecard.New(actor.TierInvestor, 12, investment.LiquidityMonthly, []string{"promo-a"}, rate("0.021")),
		ratecard.New(actor.TierInvestor, 12, investment.LiquidityMonthly, []string{"promo-a"}, rate("0.030")),
	}}
	svc := services.NewRateService(repo)

	got, err := svc.Resolve(context.Background(), services.RateQuery{
		Tier:             actor.TierInvestor,
		CommitmentPeriod: 12,
		LiquidityClass:   investment.LiquidityMonthly,
		ConditionIDs:     []string{"promo-a"},
		Default:          rate("0.02"),
	})
	require.NoError(t, err)
	assert.True(t, rate("0.021").Equal(got))
}

func TestRateService_DefaultFallback(t *testing.T) {
	svc := services.NewRateService(&fakeRateCardRepo{})

	q := services.RateQuery{
		Tier:             actor.TierInvestor,
		CommitmentPeriod: 36,
		LiquidityClass:   investment.LiquidityTriennial,
		ConditionIDs:     []string{"promo-x"},
		Default:          rate("0.02"),
	}
	got, err := svc.Resolve(context.Background(), q)
	require.NoError(t, err)
	assert.True(t, rate("0.02").Equal(got))

	// Deterministic: identical inputs resolve identically.
	again, err := svc.Resolve(context.Background(), q)
	require.NoError(t, err)
	assert.True(t, got.Equal(again))
}
