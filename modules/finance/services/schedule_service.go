package services

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/vestaclub/vesta/modules/finance/domain/aggregates/investment"
)

// ScheduleConfig tunes the pull-based checks. Zero values fall back to
// the contractual defaults.
type ScheduleConfig struct {
	RenewalWindowBefore int
	RenewalWindowAfter  int
	AccrualGateLookback time.Duration
	PayoutBusinessDay   int
}

func (c ScheduleConfig) withDefaults() ScheduleConfig {
	if c.RenewalWindowBefore == 0 {
		c.RenewalWindowBefore = 35
	}
	if c.RenewalWindowAfter == 0 {
		c.RenewalWindowAfter = 5
	}
	if c.AccrualGateLookback == 0 {
		c.AccrualGateLookback = 7 * 24 * time.Hour
	}
	if c.PayoutBusinessDay == 0 {
		c.PayoutBusinessDay = 5
	}
	return c
}

// ScheduleService answers "what is due right now" questions for an
// external scheduler. It holds no timers and persists no check state:
// every answer is recomputed from current investment data, so a check
// can be re-run or replayed for any instant.
type ScheduleService struct {
	investments investment.Repository
	clock       clockwork.Clock
	config      ScheduleConfig
}

func NewScheduleService(investments investment.Repository, clock clockwork.Clock, config ScheduleConfig) *ScheduleService {
	return &ScheduleService{
		investments: investments,
		clock:       clock,
		config:      config.withDefaults(),
	}
}

// CheckRenewalWindow lists active investments whose maturity falls within
// the renewal window around now: from 35 days before expiry to 5 days
// after. Matured investments stay listed until the window closes or
// someone acts on them.
func (s *ScheduleService) CheckRenewalWindow(ctx context.Context, now time.Time) ([]investment.Investment, error) {
	if now.IsZero() {
		now = s.clock.Now()
	}
	active, err := s.investments.ListByStatus(ctx, investment.StatusActive)
	if err != nil {
		return nil, err
	}

	due := make([]investment.Investment, 0)
	for _, inv := range active {
		expiry, ok := inv.MaturityDate()
		if !ok {
			continue
		}
		windowStart := expiry.AddDate(0, 0, -s.config.RenewalWindowBefore)
		windowEnd := expiry.AddDate(0, 0, s.config.RenewalWindowAfter)
		if !now.Before(windowStart) && !now.After(windowEnd) {
			due = append(due, inv)
		}
	}
	return due, nil
}

// CheckAccrualGateCrossed lists active investments whose 60-day accrual
// gate was crossed within the lookback period ending at now. The
// lookback keeps a weekly scheduler from re-announcing old crossings.
func (s *ScheduleService) CheckAccrualGateCrossed(ctx context.Context, now time.Time) ([]investment.Investment, error) {
	if now.IsZero() {
		now = s.clock.Now()
	}
	active, err := s.investments.ListByStatus(ctx, investment.StatusActive)
	if err != nil {
		return nil, err
	}

	since := now.Add(-s.config.AccrualGateLookback)
	crossed := make([]investment.Investment, 0)
	for _, inv := range active {
		gate, ok := inv.AccrualGate()
		if !ok {
			continue
		}
		if gate.After(since) && !gate.After(now) {
			crossed = append(crossed, inv)
		}
	}
	return crossed, nil
}

// PayoutDayResult reports whether now is the monthly payout day and, if
// so, which investments are past their accrual gate and earning.
type PayoutDayResult struct {
	IsPayoutDay bool
	Investments []investment.Investment
}

// CheckFixedPayoutDay fires on the fifth business day of each month,
// the day monthly dividends are wired out.
func (s *ScheduleService) CheckFixedPayoutDay(ctx context.Context, now time.Time) (PayoutDayResult, error) {
	if now.IsZero() {
		now = s.clock.Now()
	}
	if businessDayOfMonth(now) != s.config.PayoutBusinessDay {
		return PayoutDayResult{}, nil
	}

	active, err := s.investments.ListByStatus(ctx, investment.StatusActive)
	if err != nil {
		return PayoutDayResult{}, err
	}
	earning := make([]investment.Investment, 0)
	for _, inv := range active {
		gate, ok := inv.AccrualGate()
		if !ok || now.Before(gate) {
			continue
		}
		earning = append(earning, inv)
	}
	return PayoutDayResult{IsPayoutDay: true, Investments: earning}, nil
}

// businessDayOfMonth returns which business day of its month t is, or 0
// when t falls on a weekend. Weekends only; public holidays are handled
// upstream by whoever triggers the check.
func businessDayOfMonth(t time.Time) int {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return 0
	}
	count := 0
	for d := 1; d <= t.Day(); d++ {
		day := time.Date(t.Year(), t.Month(), d, 0, 0, 0, 0, t.Location())
		if day.Weekday() != time.Saturday && day.Weekday() != time.Sunday {
			count++
		}
	}
	return count
}
