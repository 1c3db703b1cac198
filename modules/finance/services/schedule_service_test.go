package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vestaclub/vesta/modules/finance/domain/aggregates/investment"
	"github.com/vestaclub/vesta/modules/finance/services"
)

func storedActive(repo *fakeInvestmentRepo, paymentDate time.Time, period int) investment.Investment {
	id := uuid.New()
	pd := paymentDate
	cycle := paymentDate
	inv := investment.Hydrate(
		id,
		uuid.New(),
		decimal.RequireFromString("10000"),
		period,
		investment.LiquidityMonthly,
		decimal.RequireFromString("0.02"),
		&pd,
		"RCPT-1",
		investment.StatusActive,
		0,
		paymentDate,
		&cycle,
		0,
		paymentDate,
		paymentDate,
	)
	repo.byID[id] = inv
	return inv
}

func newScheduleService(repo *fakeInvestmentRepo) *services.ScheduleService {
	return services.NewScheduleService(repo, clockwork.NewFakeClockAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), services.ScheduleConfig{})
}

func TestCheckRenewalWindow(t *testing.T) {
	repo := newFakeInvestmentRepo()
	// Expires 2024-01-01; window runs 2023-11-27 through 2024-01-06.
	inWindow := storedActive(repo, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 12)
	// Expires 2024-06-01; nowhere near the window.
	storedActive(repo, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), 12)
	svc := newScheduleService(repo)

	t.Run("inside window before expiry", func(t *testing.T) {
		due, err := svc.CheckRenewalWindow(context.Background(), time.Date(2023, 12, 10, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.Len(t, due, 1)
		assert.Equal(t, inWindow.ID(), due[0].ID())
	})

	t.Run("matured investments stay listed inside the window", func(t *testing.T) {
		due, err := svc.CheckRenewalWindow(context.Background(), time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.Len(t, due, 1)
		assert.True(t, due[0].IsMatured(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("outside window", func(t *testing.T) {
		due, err := svc.CheckRenewalWindow(context.Background(), time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Empty(t, due)
	})
}

func TestCheckAccrualGateCrossed(t *testing.T) {
	repo := newFakeInvestmentRepo()
	// Gate = payment + 60d = 2024-03-01.
	fresh := storedActive(repo, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 12)
	// Gate crossed months ago.
	storedActive(repo, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 12)
	svc := newScheduleService(repo)

	t.Run("crossed within lookback", func(t *testing.T) {
		crossed, err := svc.CheckAccrualGateCrossed(context.Background(), time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.Len(t, crossed, 1)
		assert.Equal(t, fresh.ID(), crossed[0].ID())
	})

	t.Run("not yet crossed", func(t *testing.T) {
		crossed, err := svc.CheckAccrualGateCrossed(context.Background(), time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Empty(t, crossed)
	})

	t.Run("crossing older than lookback is not re-announced", func(t *testing.T) {
		crossed, err := svc.CheckAccrualGateCrossed(context.Background(), time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Empty(t, crossed)
	})
}

func TestCheckFixedPayoutDay(t *testing.T) {
	repo := newFakeInvestmentRepo()
	// Gate long past: earning.
	earning := storedActive(repo, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 36)
	// Gate not reached by the payout day below.
	storedActive(repo, time.Date(2024, 8, 20, 0, 0, 0, 0, time.UTC), 12)
	svc := newScheduleService(repo)

	t.Run("fifth business day", func(t *testing.T) {
		// September 2024: Mon 2 ... Fri 6 is the fifth business day.
		result, err := svc.CheckFixedPayoutDay(context.Background(), time.Date(2024, 9, 6, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.True(t, result.IsPayoutDay)
		require.Len(t, result.Investments, 1)
		assert.Equal(t, earning.ID(), result.Investments[0].ID())
	})

	t.Run("other business day", func(t *testing.T) {
		result, err := svc.CheckFixedPayoutDay(context.Background(), time.Date(2024, 9, 9, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.False(t, result.IsPayoutDay)
		assert.Empty(t, result.Investments)
	})

	t.Run("weekend", func(t *testing.T) {
		result, err := svc.CheckFixedPayoutDay(context.Background(), time.Date(2024, 9, 7, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.False(t, result.IsPayoutDay)
	})
}
