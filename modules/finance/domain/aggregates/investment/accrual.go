package investment

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// AccrualDelayDays is the grace period after the payment date before
	// any dividend accrues.
	AccrualDelayDays = 60
	// DaysPerMonth is the fixed month length used for accrual; calendar
	// month boundaries are deliberately ignored.
	DaysPerMonth = 30
)

var one = decimal.NewFromInt(1)

// AccrualGate returns the date from which dividends start accruing,
// payment date + 60 days. The second return is false before approval.
func (i Investment) AccrualGate() (time.Time, bool) {
	if i.paymentDate == nil {
		return time.Time{}, false
	}
	return i.paymentDate.AddDate(0, 0, AccrualDelayDays), true
}

// ElapsedAccrualMonths counts whole 30-day periods between the accrual
// gate and asOf. Zero before the gate.
func (i Investment) ElapsedAccrualMonths(asOf time.Time) int {
	gate, ok := i.AccrualGate()
	if !ok || asOf.Before(gate) {
		return 0
	}
	days := int(asOf.Sub(gate).Hours() / 24)
	return days / DaysPerMonth
}

// AccruedDividends computes total earned dividends as of the given
// instant. Monthly liquidity pays out every period and accrues simple
// interest, amount * rate * months; the longer classes retain dividends
// and compound, amount * ((1+rate)^months - 1). Always computed fresh,
// never persisted.
func (i Investment) AccruedDividends(asOf time.Time) decimal.Decimal {
	months := i.ElapsedAccrualMonths(asOf)
	if months == 0 {
		return decimal.Zero
	}
	if i.liquidityClass == LiquidityMonthly {
		return i.amount.Mul(i.monthlyRate).Mul(decimal.NewFromInt(int64(months)))
	}
	growth := one.Add(i.monthlyRate).Pow(decimal.NewFromInt(int64(months)))
	return i.amount.Mul(growth.Sub(one))
}

// MonthlyCommission is the dividend earned over one full 30-day period.
func (i Investment) MonthlyCommission() decimal.Decimal {
	return i.amount.Mul(i.monthlyRate)
}

// CommissionForWindow prorates a reporting window against the accrual
// gate: nothing before the gate, a day-fraction of one period when the
// gate falls inside the window, a full period's commission otherwise.
func (i Investment) CommissionForWindow(windowStart, windowEnd time.Time) decimal.Decimal {
	gate, ok := i.AccrualGate()
	if !ok || windowEnd.Before(gate) {
		return decimal.Zero
	}
	if gate.Before(windowStart) {
		return i.MonthlyCommission()
	}
	days := int(windowEnd.Sub(gate).Hours() / 24)
	if days > DaysPerMonth {
		days = DaysPerMonth
	}
	fraction := decimal.NewFromInt(int64(days)).Div(decimal.NewFromInt(DaysPerMonth))
	return i.MonthlyCommission().Mul(fraction)
}
