package investment_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vestaclub/vesta/modules/finance/domain/aggregates/investment"
)

func activeInvestment(t *testing.T, amount, rate string, period int, liquidity investment.LiquidityClass, paymentDate time.Time) investment.Investment {
	t.Helper()
	inv := investment.New(uuid.New(), decimal.RequireFromString(amount), period, liquidity, paymentDate)
	approved, err := inv.Approve("RCPT-1", paymentDate, decimal.RequireFromString(rate))
	require.NoError(t, err)
	return approved
}

func TestAccruedDividends_ZeroBeforeGate(t *testing.T) {
	paymentDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	inv := activeInvestment(t, "10000", "0.02", 12, investment.LiquidityMonthly, paymentDate)

	gate, ok := inv.AccrualGate()
	require.True(t, ok)
	assert.Equal(t, paymentDate.AddDate(0, 0, 60), gate)

	assert.True(t, inv.AccruedDividends(paymentDate.AddDate(0, 0, 59)).IsZero())
	// The gate is where counting starts, not where the first month lands.
	assert.True(t, inv.AccruedDividends(gate).IsZero())
	assert.True(t, inv.AccruedDividends(gate.AddDate(0, 0, 29)).IsZero())
}

func TestAccruedDividends_MonthlySimpleInterest(t *testing.T) {
	paymentDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	inv := activeInvestment(t, "10000", "0.02", 12, investment.LiquidityMonthly, paymentDate)

	// Day 90: one full 30-day period past the gate.
	asOf := paymentDate.AddDate(0, 0, 90)
	assert.True(t, decimal.RequireFromString("200").Equal(inv.AccruedDividends(asOf)), "got %s", inv.AccruedDividends(asOf))

	// 59 days past the gate still floors to one period.
	asOf = paymentDate.AddDate(0, 0, 119)
	assert.True(t, decimal.RequireFromString("200").Equal(inv.AccruedDividends(asOf)))

	asOf = paymentDate.AddDate(0, 0, 120)
	assert.True(t, decimal.RequireFromString("400").Equal(inv.AccruedDividends(asOf)))
}

func TestAccruedDividends_CompoundForRetainedClasses(t *testing.T) {
	paymentDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	inv := activeInvestment(t, "10000", "0.02", 12, investment.LiquidityAnnual, paymentDate)

	// Three periods: 10000 * (1.02^3 - 1) = 612.08
	asOf := paymentDate.AddDate(0, 0, 60+90)
	assert.True(t, decimal.RequireFromString("612.08").Equal(inv.AccruedDividends(asOf)), "got %s", inv.AccruedDividends(asOf))
}

func TestElapsedAccrualMonths(t *testing.T) {
	paymentDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	inv := activeInvestment(t, "5000", "0.015", 6, investment.LiquiditySemiannual, paymentDate)

	assert.Equal(t, 0, inv.ElapsedAccrualMonths(paymentDate))
	assert.Equal(t, 0, inv.ElapsedAccrualMonths(paymentDate.AddDate(0, 0, 89)))
	assert.Equal(t, 1, inv.ElapsedAccrualMonths(paymentDate.AddDate(0, 0, 90)))
	assert.Equal(t, 4, inv.ElapsedAccrualMonths(paymentDate.AddDate(0, 0, 60+120)))
}

func TestCommissionForWindow(t *testing.T) {
	paymentDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	inv := activeInvestment(t, "3000", "0.02", 12, investment.LiquidityMonthly, paymentDate)
	gate, _ := inv.AccrualGate()

	t.Run("window entirely before gate", func(t *testing.T) {
		got := inv.CommissionForWindow(gate.AddDate(0, 0, -40), gate.AddDate(0, 0, -10))
		assert.True(t, got.IsZero())
	})

	t.Run("gate inside window prorates by days", func(t *testing.T) {
		got := inv.CommissionForWindow(gate.AddDate(0, 0, -15), gate.AddDate(0, 0, 15))
		want := decimal.RequireFromString("30") // 3000 * 0.02 * 15/30
		assert.True(t, want.Equal(got), "got %s", got)
	})

	t.Run("window past gate earns a full period", func(t *testing.T) {
		got := inv.CommissionForWindow(gate.AddDate(0, 0, 30), gate.AddDate(0, 0, 60))
		want := decimal.RequireFromString("60")
		assert.True(t, want.Equal(got), "got %s", got)
	})
}

func TestAccruedDividends_NotApproved(t *testing.T) {
	inv := investment.New(uuid.New(), decimal.RequireFromString("10000"), 12, investment.LiquidityMonthly, time.Now())
	_, ok := inv.AccrualGate()
	assert.False(t, ok)
	assert.True(t, inv.AccruedDividends(time.Now().AddDate(1, 0, 0)).IsZero())
}
