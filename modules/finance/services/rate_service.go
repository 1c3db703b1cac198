package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/vestaclub/vesta/modules/directory/domain/aggregates/actor"
	"github.com/vestaclub/vesta/modules/finance/domain/aggregates/investment"
	"github.com/vestaclub/vesta/modules/finance/domain/entities/ratecard"
	"github.com/vestaclub/vesta/pkg/composables"
	"github.com/vestaclub/vesta/pkg/metrics"
)

// RateQuery names the dimensions a rate lookup runs on. ConditionIDs are
// promotional conditions attached to the investment being priced.
type RateQuery struct {
	Tier             actor.Tier
	CommitmentPeriod int
	LiquidityClass   investment.LiquidityClass
	ConditionIDs     []string
	Default          decimal.Decimal
}

type RateService struct {
	rates ratecard.Repository
}

func NewRateService(rates ratecard.Repository) *RateService {
	return &RateService{rates: rates}
}

// Resolve picks a monthly rate by strict priority: a condition-scoped
// entry overlapping the query's condition ids (largest overlap wins,
// ties broken by storage order), then the plain entry for the exact
// terms, then the caller-supplied default. The fallback is logged and
// counted; a silent default would hide rate card gaps indefinitely.
func (s *RateService) Resolve(ctx context.Context, q RateQuery) (decimal.Decimal, error) {
	if len(q.ConditionIDs) > 0 {
		scoped, err := s.rates.FindConditionScoped(ctx, q.CommitmentPeriod, q.LiquidityClass)
		if err != nil {
			return decimal.Zero, err
		}
		if entry, ok := bestConditionMatch(scoped, q.ConditionIDs); ok {
			return entry.MonthlyRate(), nil
		}
	}

	entry, err := s.rates.FindByTerms(ctx, q.Tier, q.CommitmentPeriod, q.LiquidityClass)
	if err == nil {
		return entry.MonthlyRate(), nil
	}
	if !errors.Is(err, ratecard.ErrNotFound) {
		return decimal.Zero, err
	}

	composables.UseLogger(ctx).WithFields(logrus.Fields{
		"tier":              q.Tier,
		"commitment_period": q.CommitmentPeriod,
		"liquidity_class":   q.LiquidityClass,
		"default_rate":      q.Default.String(),
	}).Warn("no rate card entry matched, using default rate")
	metrics.RateFallbacks.Inc()
	return q.Default, nil
}

// bestConditionMatch scans entries in order and keeps the one whose
// condition set overlaps the query's ids the most. Order matters for
// ties, so entries must arrive in stable storage order.
func bestConditionMatch(entries []ratecard.Entry, conditionIDs []string) (ratecard.Entry, bool) {
	given := make(map[string]struct{}, len(conditionIDs))
	for _, id := range conditionIDs {
		given[id] = struct{}{}
	}

	var best ratecard.Entry
	bestOverlap := 0
	for _, entry := range entries {
		overlap := 0
		for _, id := range entry.ConditionIDs() {
			if _, ok := given[id]; ok {
				overlap++
			}
		}
		if overlap > bestOverlap {
			best = entry
			bestOverlap = overlap
		}
	}
	return best, bestOverlap > 0
}
