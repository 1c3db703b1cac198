package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vestaclub/vesta/modules/finance/domain/aggregates/investment"
	"github.com/vestaclub/vesta/modules/finance/domain/entities/renewal"
	"github.com/vestaclub/vesta/pkg/composables"
	"github.com/vestaclub/vesta/pkg/metrics"
	"github.com/vestaclub/vesta/pkg/serrors"
)

// RenewParams carries the optional inputs of a renewal. Which fields are
// required depends on the action.
type RenewParams struct {
	NewCommitmentPeriod *int
	NewLiquidityClass   *string
	AdditionalAmount    *string
	ConditionIDs        []string
}

// RenewResult reports a renewal outcome. Warnings signal partial success:
// the investment mutated but a secondary write failed.
type RenewResult struct {
	Investment    investment.Investment
	Record        *renewal.Record
	NewInvestment *investment.Investment
	Warnings      []string
}

// Renew executes one of the three renewal actions. The primary mutation
// and the history append are separate writes on purpose: history is an
// audit trail, and losing one line must not roll back a renewal the
// investor already agreed to. A failed append surfaces as a warning.
func (s *InvestmentService) Renew(ctx context.Context, id uuid.UUID, action renewal.Action, params RenewParams) (RenewResult, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return RenewResult{}, err
	}
	inv, err := s.load(ctx, id)
	if err != nil {
		return RenewResult{}, err
	}
	if err := s.authorize(ctx, caller, inv.OwnerID()); err != nil {
		return RenewResult{}, err
	}

	prior := inv
	now := s.clock.Now()
	var renewed investment.Investment
	var additional decimal.Decimal

	switch action {
	case renewal.ActionRenew:
		renewed, err = inv.Renew(now)
		if err != nil {
			return RenewResult{}, errInvalidTransition.Wrap(err)
		}

	case renewal.ActionRenewWithNewRules:
		renewed, err = s.renewWithNewRules(ctx, inv, now, params)
		if err != nil {
			return RenewResult{}, err
		}

	case renewal.ActionSuggestIncrease:
		renewed, additional, err = s.suggestIncrease(inv, now, params)
		if err != nil {
			return RenewResult{}, err
		}

	default:
		return RenewResult{}, serrors.Validation("FINANCE_UNKNOWN_ACTION", "unknown renewal action")
	}

	updated, err := s.update(ctx, renewed)
	if err != nil {
		return RenewResult{}, err
	}
	result := RenewResult{Investment: updated}

	// The increase position opens only once the primary mutation has
	// landed; a stale-version rejection never leaves a pending orphan.
	if action == renewal.ActionSuggestIncrease {
		created, err := s.investments.Create(ctx, updated.NewIncrease(additional, now))
		if err != nil {
			composables.UseLogger(ctx).WithError(err).WithField("investment_id", id.String()).
				Error("renewal succeeded but the increase position could not be opened")
			result.Warnings = append(result.Warnings, "renewal applied, but the additional investment could not be created")
		} else {
			s.publisher.Publish(&InvestmentCreatedEvent{Investment: created})
			result.NewInvestment = &created
		}
	}

	appended, err := s.renewals.Append(ctx, renewal.New(id, action, caller.ID(), prior, updated))
	if err != nil {
		metrics.RenewalHistoryWriteFailures.Inc()
		composables.UseLogger(ctx).WithError(err).WithField("investment_id", id.String()).
			Error("renewal succeeded but history append failed")
		result.Warnings = append(result.Warnings, "renewal applied, but the history record could not be saved")
	} else {
		result.Record = &appended
	}

	s.publisher.Publish(&InvestmentRenewedEvent{Action: action, Investment: updated})
	s.notify(ctx, updated.OwnerID(), "investment_renewed", map[string]string{
		"investment_id": updated.ID().String(),
		"action":        string(action),
	})
	return result, nil
}

// renewWithNewRules renegotiates terms; both the period and the liquidity
// class are mandatory, and the rate is resolved fresh for the new terms.
func (s *InvestmentService) renewWithNewRules(ctx context.Context, inv investment.Investment, now time.Time, params RenewParams) (investment.Investment, error) {
	if params.NewCommitmentPeriod == nil || params.NewLiquidityClass == nil {
		return investment.Investment{}, serrors.Validation("FINANCE_MISSING_NEW_TERMS", "new commitment period and liquidity class are required")
	}
	period, err := investment.ParseCommitmentPeriod(*params.NewCommitmentPeriod)
	if err != nil {
		return investment.Investment{}, serrors.Validation("FINANCE_BAD_PERIOD", err.Error())
	}
	liquidity, err := investment.ParseLiquidityClass(*params.NewLiquidityClass)
	if err != nil {
		return investment.Investment{}, serrors.Validation("FINANCE_BAD_LIQUIDITY", err.Error())
	}

	owner, err := s.directory.GetByID(ctx, inv.OwnerID())
	if err != nil {
		return investment.Investment{}, err
	}
	rate, err := s.rates.Resolve(ctx, RateQuery{
		Tier:             owner.Tier(),
		CommitmentPeriod: period,
		LiquidityClass:   liquidity,
		ConditionIDs:     params.ConditionIDs,
		Default:          s.defaultRate,
	})
	if err != nil {
		return investment.Investment{}, err
	}

	renewed, err := inv.RenewWithTerms(now, period, liquidity, rate)
	if err != nil {
		return investment.Investment{}, errInvalidTransition.Wrap(err)
	}
	return renewed, nil
}

// suggestIncrease renews the original under its current terms and vets the
// additional amount. The second, pending position is opened by the caller
// after the renewal persists; it inherits the original's terms and rate
// and goes through the normal approval flow once its payment lands.
func (s *InvestmentService) suggestIncrease(inv investment.Investment, now time.Time, params RenewParams) (investment.Investment, decimal.Decimal, error) {
	if params.AdditionalAmount == nil {
		return investment.Investment{}, decimal.Decimal{}, serrors.Validation("FINANCE_MISSING_AMOUNT", "additional amount is required")
	}
	amount, err := decimal.NewFromString(*params.AdditionalAmount)
	if err != nil || !amount.IsPositive() {
		return investment.Investment{}, decimal.Decimal{}, serrors.Validation("FINANCE_BAD_AMOUNT", "additional amount must be a positive decimal")
	}

	renewed, err := inv.Renew(now)
	if err != nil {
		return investment.Investment{}, decimal.Decimal{}, errInvalidTransition.Wrap(err)
	}
	return renewed, amount, nil
}
