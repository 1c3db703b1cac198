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

func TestApprove(t *testing.T) {
	submitted := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	inv := investment.New(uuid.New(), decimal.RequireFromString("10000"), 12, investment.LiquidityMonthly, submitted)
	require.Equal(t, investment.StatusPending, inv.Status())

	// Backdated to when the transfer actually landed.
	paymentDate := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	approved, err := inv.Approve("RCPT-42", paymentDate, decimal.RequireFromString("0.02"))
	require.NoError(t, err)

	assert.Equal(t, investment.StatusActive, approved.Status())
	assert.Equal(t, "RCPT-42", approved.ReceiptRef())
	require.NotNil(t, approved.PaymentDate())
	assert.Equal(t, paymentDate, *approved.PaymentDate())
	assert.True(t, decimal.RequireFromString("0.02").Equal(approved.MonthlyRate()))

	maturity, ok := approved.MaturityDate()
	require.True(t, ok)
	assert.Equal(t, paymentDate.AddDate(0, 12, 0), maturity)
	assert.False(t, approved.IsMatured(maturity.AddDate(0, 0, -1)))
	assert.True(t, approved.IsMatured(maturity))

	_, err = approved.Approve("RCPT-43", paymentDate, decimal.Zero)
	assert.ErrorIs(t, err, investment.ErrInvalidTransition)
}

func TestApprove_KeepsExistingRate(t *testing.T) {
	paymentDate := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	inv := activeInvestment(t, "10000", "0.025", 12, investment.LiquidityMonthly, paymentDate)
	assert.True(t, decimal.RequireFromString("0.025").Equal(inv.MonthlyRate()))
}

func TestWithdraw(t *testing.T) {
	paymentDate := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	inv := activeInvestment(t, "10000", "0.02", 12, investment.LiquidityMonthly, paymentDate)

	withdrawn, err := inv.Withdraw()
	require.NoError(t, err)
	assert.Equal(t, investment.StatusWithdrawn, withdrawn.Status())

	// Withdrawn is terminal.
	_, err = withdrawn.Withdraw()
	assert.ErrorIs(t, err, investment.ErrInvalidTransition)
	_, err = withdrawn.Renew(time.Now())
	assert.ErrorIs(t, err, investment.ErrInvalidTransition)

	pending := investment.New(uuid.New(), decimal.RequireFromString("500"), 6, investment.LiquidityAnnual, time.Now())
	_, err = pending.Withdraw()
	assert.ErrorIs(t, err, investment.ErrInvalidTransition)
}

func TestRenew_ResetsCycle(t *testing.T) {
	paymentDate := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	inv := activeInvestment(t, "10000", "0.02", 12, investment.LiquidityMonthly, paymentDate)
	original := inv.OriginalInvestmentDate()

	now := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	renewed, err := inv.Renew(now)
	require.NoError(t, err)

	assert.Equal(t, 1, renewed.RenewalCount())
	require.NotNil(t, renewed.PaymentDate())
	assert.Equal(t, now, *renewed.PaymentDate())
	require.NotNil(t, renewed.CurrentCycleStartDate())
	assert.Equal(t, now, *renewed.CurrentCycleStartDate())
	// Terms and provenance survive a plain renewal.
	assert.Equal(t, 12, renewed.CommitmentPeriod())
	assert.Equal(t, original, renewed.OriginalInvestmentDate())

	maturity, ok := renewed.MaturityDate()
	require.True(t, ok)
	assert.Equal(t, now.AddDate(0, 12, 0), maturity)
}

func TestRenewWithTerms(t *testing.T) {
	paymentDate := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	inv := activeInvestment(t, "10000", "0.02", 12, investment.LiquidityMonthly, paymentDate)

	now := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	renewed, err := inv.RenewWithTerms(now, 24, investment.LiquidityAnnual, decimal.RequireFromString("0.023"))
	require.NoError(t, err)

	assert.Equal(t, 24, renewed.CommitmentPeriod())
	assert.Equal(t, investment.LiquidityAnnual, renewed.LiquidityClass())
	assert.True(t, decimal.RequireFromString("0.023").Equal(renewed.MonthlyRate()))
	assert.Equal(t, 1, renewed.RenewalCount())
}

func TestNewIncrease_InheritsTermsAndRate(t *testing.T) {
	paymentDate := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	inv := activeInvestment(t, "10000", "0.025", 24, investment.LiquidityAnnual, paymentDate)

	now := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	child := inv.NewIncrease(decimal.RequireFromString("2500"), now)

	assert.Equal(t, investment.StatusPending, child.Status())
	assert.Equal(t, inv.OwnerID(), child.OwnerID())
	assert.Equal(t, 24, child.CommitmentPeriod())
	assert.Equal(t, investment.LiquidityAnnual, child.LiquidityClass())
	assert.True(t, decimal.RequireFromString("2500").Equal(child.Amount()))
	assert.True(t, inv.MonthlyRate().Equal(child.MonthlyRate()))

	// Approval keeps the inherited default instead of the resolver's value.
	approved, err := child.Approve("RCPT-7", now, decimal.RequireFromString("0.03"))
	require.NoError(t, err)
	assert.True(t, inv.MonthlyRate().Equal(approved.MonthlyRate()))
}

func TestParseCommitmentPeriod(t *testing.T) {
	for _, months := range []int{6, 12, 18, 24, 36} {
		got, err := investment.ParseCommitmentPeriod(months)
		require.NoError(t, err)
		assert.Equal(t, months, got)
	}
	_, err := investment.ParseCommitmentPeriod(9)
	assert.Error(t, err)
}

func TestParseLiquidityClass(t *testing.T) {
	got, err := investment.ParseLiquidityClass(" Monthly ")
	require.NoError(t, err)
	assert.Equal(t, investment.LiquidityMonthly, got)

	_, err = investment.ParseLiquidityClass("weekly")
	assert.Error(t, err)
}
