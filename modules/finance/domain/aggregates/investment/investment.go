package investment

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusWithdrawn Status = "withdrawn"
)

// LiquidityClass governs the payout cadence and whether accrual is simple
// (monthly) or compound (everything else).
type LiquidityClass string

const (
	LiquidityMonthly    LiquidityClass = "monthly"
	LiquiditySemiannual LiquidityClass = "semiannual"
	LiquidityAnnual     LiquidityClass = "annual"
	LiquidityBiennial   LiquidityClass = "biennial"
	LiquidityTriennial  LiquidityClass = "triennial"
)

func ParseLiquidityClass(v string) (LiquidityClass, error) {
	switch LiquidityClass(strings.TrimSpace(strings.ToLower(v))) {
	case LiquidityMonthly:
		return LiquidityMonthly, nil
	case LiquiditySemiannual:
		return LiquiditySemiannual, nil
	case LiquidityAnnual:
		return LiquidityAnnual, nil
	case LiquidityBiennial:
		return LiquidityBiennial, nil
	case LiquidityTriennial:
		return LiquidityTriennial, nil
	default:
		return "", fmt.Errorf("unknown liquidity class %q", v)
	}
}

// CommitmentPeriods is the enumerated set of contract durations in months.
var CommitmentPeriods = []int{6, 12, 18, 24, 36}

func ParseCommitmentPeriod(months int) (int, error) {
	for _, p := range CommitmentPeriods {
		if p == months {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unsupported commitment period %d months", months)
}

// Investment is a single capital contribution. Maturity is derived from
// paymentDate + commitmentPeriod and never stored: an investment stays
// "active" past maturity until a human renews or withdraws it.
type Investment struct {
	id                     uuid.UUID
	ownerID                uuid.UUID
	amount                 decimal.Decimal
	commitmentPeriod       int
	liquidityClass         LiquidityClass
	monthlyRate            decimal.Decimal
	paymentDate            *time.Time
	receiptRef             string
	status                 Status
	renewalCount           int
	originalInvestmentDate time.Time
	currentCycleStartDate  *time.Time
	version                int64
	createdAt              time.Time
	updatedAt              time.Time
}

func New(ownerID uuid.UUID, amount decimal.Decimal, commitmentPeriod int, liquidityClass LiquidityClass, submittedAt time.Time) Investment {
	return Investment{
		ownerID:                ownerID,
		amount:                 amount,
		commitmentPeriod:       commitmentPeriod,
		liquidityClass:         liquidityClass,
		status:                 StatusPending,
		originalInvestmentDate: submittedAt,
	}
}

// NewIncrease opens a pending position for additional capital under the
// current terms. The inherited rate is a default: approval overwrites it
// only while zero, so it stands unless renegotiated.
func (i Investment) NewIncrease(amount decimal.Decimal, submittedAt time.Time) Investment {
	out := New(i.ownerID, amount, i.commitmentPeriod, i.liquidityClass, submittedAt)
	out.monthlyRate = i.monthlyRate
	return out
}

func Hydrate(
	id uuid.UUID,
	ownerID uuid.UUID,
	amount decimal.Decimal,
	commitmentPeriod int,
	liquidityClass LiquidityClass,
	monthlyRate decimal.Decimal,
	paymentDate *time.Time,
	receiptRef string,
	status Status,
	renewalCount int,
	originalInvestmentDate time.Time,
	currentCycleStartDate *time.Time,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) Investment {
	return Investment{
		id:                     id,
		ownerID:                ownerID,
		amount:                 amount,
		commitmentPeriod:       commitmentPeriod,
		liquidityClass:         liquidityClass,
		monthlyRate:            monthlyRate,
		paymentDate:            paymentDate,
		receiptRef:             receiptRef,
		status:                 status,
		renewalCount:           renewalCount,
		originalInvestmentDate: originalInvestmentDate,
		currentCycleStartDate:  currentCycleStartDate,
		version:                version,
		createdAt:              createdAt,
		updatedAt:              updatedAt,
	}
}

func (i Investment) ID() uuid.UUID { return i.id }
func (i Investment) OwnerID() uuid.UUID { return i.ownerID }
func (i Investment) Amount() decimal.Decimal { return i.amount }
func (i Investment) CommitmentPeriod() int { return i.commitmentPeriod }
func (i Investment) LiquidityClass() LiquidityClass { return i.liquidityClass }
func (i Investment) MonthlyRate() decimal.Decimal { return i.monthlyRate }
func (i Investment) PaymentDate() *time.Time { return i.paymentDate }
func (i Investment) ReceiptRef() string { return i.receiptRef }
func (i Investment) Status() Status { return i.status }
func (i Investment) RenewalCount() int { return i.renewalCount }
func (i Investment) OriginalInvestmentDate() time.Time { return i.originalInvestmentDate }
func (i Investment) CurrentCycleStartDate() *time.Time { return i.currentCycleStartDate }
func (i Investment) Version() int64 { return i.version }
func (i Investment) CreatedAt() time.Time { return i.createdAt }
func (i Investment) UpdatedAt() time.Time { return i.updatedAt }

// MaturityDate derives the contract end from the accrual clock. The second
// return is false until a payment date is set.
func (i Investment) MaturityDate() (time.Time, bool) {
	if i.paymentDate == nil {
		return time.Time{}, false
	}
	return i.paymentDate.AddDate(0, i.commitmentPeriod, 0), true
}

// IsMatured is a derived, non-exclusive flag: a matured investment keeps
// accruing and stays renewable.
func (i Investment) IsMatured(now time.Time) bool {
	maturity, ok := i.MaturityDate()
	if !ok {
		return false
	}
	return !now.Before(maturity)
}

// Approve moves a pending investment to active. The payment date may be
// backdated; it becomes the accrual clock origin. rate is frozen into
// monthlyRate unless one was already set.
func (i Investment) Approve(receiptRef string, paymentDate time.Time, rate decimal.Decimal) (Investment, error) {
	if i.status != StatusPending {
		return Investment{}, ErrInvalidTransition
	}
	out := i
	out.status = StatusActive
	out.receiptRef = receiptRef
	out.paymentDate = &paymentDate
	cycleStart := paymentDate
	out.currentCycleStartDate = &cycleStart
	if out.monthlyRate.IsZero() {
		out.monthlyRate = rate
	}
	return out, nil
}

// Withdraw closes an active investment. Irreversible; nothing transitions
// out of withdrawn.
func (i Investment) Withdraw() (Investment, error) {
	if i.status != StatusActive {
		return Investment{}, ErrInvalidTransition
	}
	out := i
	out.status = StatusWithdrawn
	return out, nil
}

// Renew starts a new cycle under the same terms.
func (i Investment) Renew(now time.Time) (Investment, error) {
	if i.status != StatusActive {
		return Investment{}, ErrInvalidTransition
	}
	out := i
	out.paymentDate = &now
	cycleStart := now
	out.currentCycleStartDate = &cycleStart
	out.renewalCount++
	return out, nil
}

// RenewWithTerms starts a new cycle under renegotiated terms with a freshly
// resolved rate.
func (i Investment) RenewWithTerms(now time.Time, commitmentPeriod int, liquidityClass LiquidityClass, rate decimal.Decimal) (Investment, error) {
	if i.status != StatusActive {
		return Investment{}, ErrInvalidTransition
	}
	out := i
	out.commitmentPeriod = commitmentPeriod
	out.liquidityClass = liquidityClass
	out.monthlyRate = rate
	out.paymentDate = &now
	cycleStart := now
	out.currentCycleStartDate = &cycleStart
	out.renewalCount++
	return out, nil
}
