package ratecard

import (
	"context"

	"github.com/vestaclub/vesta/modules/directory/domain/aggregates/actor"
	"github.com/vestaclub/vesta/modules/finance/domain/aggregates/investment"
)

// Repository is a read-only lookup; rate cards are seeded by operations,
// not edited through the portal.
type Repository interface {
	// FindByTerms returns the plain (condition-free) entry for the
	// exact tier, period and liquidity combination.
	FindByTerms(ctx context.Context, tier actor.Tier, commitmentPeriod int, liquidityClass investment.LiquidityClass) (Entry, error)
	// FindConditionScoped returns every condition-scoped entry for the
	// period and liquidity combination, in stable storage order.
	FindConditionScoped(ctx context.Context, commitmentPeriod int, liquidityClass investment.LiquidityClass) ([]Entry, error)
}
