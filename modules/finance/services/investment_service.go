package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"

	"github.com/vestaclub/vesta/modules/directory/domain/aggregates/actor"
	directoryservices "github.com/vestaclub/vesta/modules/directory/services"
	"github.com/vestaclub/vesta/modules/finance/domain/aggregates/investment"
	"github.com/vestaclub/vesta/modules/finance/domain/entities/renewal"
	"github.com/vestaclub/vesta/pkg/composables"
	"github.com/vestaclub/vesta/pkg/eventbus"
	"github.com/vestaclub/vesta/pkg/metrics"
	"github.com/vestaclub/vesta/pkg/notify"
	"github.com/vestaclub/vesta/pkg/serrors"
)

var (
	errNotFound          = serrors.NotFound("FINANCE_NOT_FOUND", "investment not found")
	errAccessDenied      = serrors.Authorization("FINANCE_ACCESS_DENIED", "not allowed to act on this investment")
	errAdminOnly         = serrors.Authorization("FINANCE_ADMIN_ONLY", "only administrators perform this operation")
	errStaleVersion      = serrors.Conflict("FINANCE_STALE_VERSION", "investment was modified concurrently, retry")
	errInvalidTransition = serrors.Conflict("FINANCE_INVALID_TRANSITION", "investment state does not permit this operation")
)

type InvestmentCreatedEvent struct {
	Investment investment.Investment
}

type InvestmentApprovedEvent struct {
	Investment investment.Investment
}

type InvestmentWithdrawnEvent struct {
	Investment investment.Investment
}

type InvestmentRenewedEvent struct {
	Action     renewal.Action
	Investment investment.Investment
}

type InvestmentService struct {
	investments investment.Repository
	renewals    renewal.Repository
	rates       *RateService
	directory   actor.Repository
	access      *directoryservices.AccessService
	publisher   eventbus.EventBus
	dispatcher  notify.Dispatcher
	clock       clockwork.Clock
	defaultRate decimal.Decimal
}

func NewInvestmentService(
	investments investment.Repository,
	renewals renewal.Repository,
	rates *RateService,
	directory actor.Repository,
	access *directoryservices.AccessService,
	publisher eventbus.EventBus,
	dispatcher notify.Dispatcher,
	clock clockwork.Clock,
	defaultRate decimal.Decimal,
) *InvestmentService {
	s := &InvestmentService{
		investments: investments,
		renewals:    renewals,
		rates:       rates,
		directory:   directory,
		access:      access,
		publisher:   publisher,
		dispatcher:  dispatcher,
		clock:       clock,
		defaultRate: defaultRate,
	}
	publisher.Subscribe(s.onCreated)
	publisher.Subscribe(s.onApproved)
	publisher.Subscribe(s.onWithdrawn)
	publisher.Subscribe(s.onRenewed)
	return s
}

// Lifecycle counters ride the event bus, so any publisher of these
// events is counted, not just the service methods below.
func (s *InvestmentService) onCreated(*InvestmentCreatedEvent) {
	metrics.InvestmentsSubmitted.Inc()
}

func (s *InvestmentService) onApproved(*InvestmentApprovedEvent) {
	metrics.InvestmentsApproved.Inc()
}

func (s *InvestmentService) onWithdrawn(*InvestmentWithdrawnEvent) {
	metrics.InvestmentsWithdrawn.Inc()
}

func (s *InvestmentService) onRenewed(e *InvestmentRenewedEvent) {
	metrics.RenewalsProcessed.WithLabelValues(string(e.Action)).Inc()
}

// caller resolves the verified actor id on the context to a directory
// profile. Every operation goes through here; there is no anonymous path.
func (s *InvestmentService) caller(ctx context.Context) (actor.Actor, error) {
	actorID, err := composables.UseActorID(ctx)
	if err != nil {
		return actor.Actor{}, serrors.Authentication("AUTH_NO_ACTOR", "no verified actor").Wrap(err)
	}
	caller, err := s.directory.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, actor.ErrNotFound) {
			return actor.Actor{}, serrors.Authentication("AUTH_UNKNOWN_ACTOR", "unknown actor")
		}
		return actor.Actor{}, err
	}
	return caller, nil
}

func (s *InvestmentService) authorize(ctx context.Context, caller actor.Actor, ownerID uuid.UUID) error {
	allowed, err := s.access.CanAccess(ctx, caller, ownerID)
	if err != nil {
		return err
	}
	if !allowed {
		return errAccessDenied
	}
	return nil
}

func (s *InvestmentService) Create(ctx context.Context, dto *investment.CreateDTO) (investment.Investment, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return investment.Investment{}, err
	}
	if dto == nil {
		return investment.Investment{}, serrors.Validation("FINANCE_MISSING_DTO", "missing dto")
	}
	dto.Normalize()

	ownerID, err := uuid.Parse(dto.OwnerID)
	if err != nil {
		return investment.Investment{}, serrors.Validation("FINANCE_BAD_OWNER_ID", "invalid owner id")
	}
	amount, err := decimal.NewFromString(dto.Amount)
	if err != nil || !amount.IsPositive() {
		return investment.Investment{}, serrors.Validation("FINANCE_BAD_AMOUNT", "amount must be a positive decimal")
	}
	period, err := investment.ParseCommitmentPeriod(dto.CommitmentPeriod)
	if err != nil {
		return investment.Investment{}, serrors.Validation("FINANCE_BAD_PERIOD", err.Error())
	}
	liquidity, err := investment.ParseLiquidityClass(dto.LiquidityClass)
	if err != nil {
		return investment.Investment{}, serrors.Validation("FINANCE_BAD_LIQUIDITY", err.Error())
	}

	owner, err := s.directory.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, actor.ErrNotFound) {
			return investment.Investment{}, serrors.Validation("FINANCE_UNKNOWN_OWNER", "owner not found in directory")
		}
		return investment.Investment{}, err
	}
	if owner.Tier() != actor.TierInvestor {
		return investment.Investment{}, serrors.Validation("FINANCE_OWNER_NOT_INVESTOR", "investments belong to investors")
	}
	if err := s.authorize(ctx, caller, ownerID); err != nil {
		return investment.Investment{}, err
	}

	created, err := s.investments.Create(ctx, investment.New(ownerID, amount, period, liquidity, s.clock.Now()))
	if err != nil {
		return investment.Investment{}, err
	}
	s.publisher.Publish(&InvestmentCreatedEvent{Investment: created})
	s.notify(ctx, ownerID, "investment_submitted", map[string]string{
		"investment_id": created.ID().String(),
		"amount":        created.Amount().String(),
	})
	return created, nil
}

func (s *InvestmentService) GetByID(ctx context.Context, id uuid.UUID) (investment.Investment, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return investment.Investment{}, err
	}
	inv, err := s.load(ctx, id)
	if err != nil {
		return investment.Investment{}, err
	}
	if err := s.authorize(ctx, caller, inv.OwnerID()); err != nil {
		return investment.Investment{}, err
	}
	return inv, nil
}

func (s *InvestmentService) GetPaginated(ctx context.Context, params *investment.FindParams) ([]investment.Investment, int64, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return nil, 0, err
	}
	if params == nil {
		params = &investment.FindParams{}
	}
	if params.OwnerID == uuid.Nil {
		if caller.Tier() != actor.TierAdmin {
			return nil, 0, errAdminOnly
		}
	} else if err := s.authorize(ctx, caller, params.OwnerID); err != nil {
		return nil, 0, err
	}
	return s.investments.GetPaginated(ctx, params)
}

// History returns the append-only renewal trail of an investment.
func (s *InvestmentService) History(ctx context.Context, id uuid.UUID) ([]renewal.Record, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	inv, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, caller, inv.OwnerID()); err != nil {
		return nil, err
	}
	return s.renewals.ListByInvestment(ctx, id)
}

// Approve confirms payment receipt and activates the investment. The
// payment date may be backdated to when the funds actually arrived. The
// rate is resolved against the owner's tier unless already frozen.
func (s *InvestmentService) Approve(ctx context.Context, id uuid.UUID, receiptRef string, paymentDate time.Time, conditionIDs []string) (investment.Investment, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return investment.Investment{}, err
	}
	if caller.Tier() != actor.TierAdmin {
		return investment.Investment{}, errAdminOnly
	}
	if receiptRef == "" {
		return investment.Investment{}, serrors.Validation("FINANCE_MISSING_RECEIPT", "receipt reference is required")
	}
	if paymentDate.IsZero() {
		return investment.Investment{}, serrors.Validation("FINANCE_MISSING_PAYMENT_DATE", "payment date is required")
	}
	if paymentDate.After(s.clock.Now()) {
		return investment.Investment{}, serrors.Validation("FINANCE_FUTURE_PAYMENT_DATE", "payment date cannot be in the future")
	}

	inv, err := s.load(ctx, id)
	if err != nil {
		return investment.Investment{}, err
	}
	owner, err := s.directory.GetByID(ctx, inv.OwnerID())
	if err != nil {
		return investment.Investment{}, err
	}
	rate, err := s.rates.Resolve(ctx, RateQuery{
		Tier:             owner.Tier(),
		CommitmentPeriod: inv.CommitmentPeriod(),
		LiquidityClass:   inv.LiquidityClass(),
		ConditionIDs:     conditionIDs,
		Default:          s.defaultRate,
	})
	if err != nil {
		return investment.Investment{}, err
	}

	approved, err := inv.Approve(receiptRef, paymentDate, rate)
	if err != nil {
		return investment.Investment{}, errInvalidTransition.Wrap(err)
	}
	updated, err := s.update(ctx, approved)
	if err != nil {
		return investment.Investment{}, err
	}

	s.publisher.Publish(&InvestmentApprovedEvent{Investment: updated})
	s.notify(ctx, updated.OwnerID(), "investment_approved", map[string]string{
		"investment_id": updated.ID().String(),
		"payment_date":  paymentDate.Format(time.DateOnly),
	})
	return updated, nil
}

// Withdraw closes an active investment after the off-portal withdrawal
// request has been approved.
func (s *InvestmentService) Withdraw(ctx context.Context, id uuid.UUID) (investment.Investment, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return investment.Investment{}, err
	}
	if caller.Tier() != actor.TierAdmin {
		return investment.Investment{}, errAdminOnly
	}

	inv, err := s.load(ctx, id)
	if err != nil {
		return investment.Investment{}, err
	}
	withdrawn, err := inv.Withdraw()
	if err != nil {
		return investment.Investment{}, errInvalidTransition.Wrap(err)
	}
	updated, err := s.update(ctx, withdrawn)
	if err != nil {
		return investment.Investment{}, err
	}

	s.publisher.Publish(&InvestmentWithdrawnEvent{Investment: updated})
	s.notify(ctx, updated.OwnerID(), "investment_withdrawn", map[string]string{
		"investment_id": updated.ID().String(),
	})
	return updated, nil
}

// DividendReport is a point-in-time accrual snapshot, always recomputed.
type DividendReport struct {
	InvestmentID uuid.UUID
	AsOf         time.Time
	Months       int
	Accrued      decimal.Decimal
	GateDate     *time.Time
}

func (s *InvestmentService) AccruedDividends(ctx context.Context, id uuid.UUID, asOf time.Time) (DividendReport, error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return DividendReport{}, err
	}
	inv, err := s.load(ctx, id)
	if err != nil {
		return DividendReport{}, err
	}
	if err := s.authorize(ctx, caller, inv.OwnerID()); err != nil {
		return DividendReport{}, err
	}

	if asOf.IsZero() {
		asOf = s.clock.Now()
	}
	report := DividendReport{
		InvestmentID: id,
		AsOf:         asOf,
		Months:       inv.ElapsedAccrualMonths(asOf),
		Accrued:      inv.AccruedDividends(asOf),
	}
	if gate, ok := inv.AccrualGate(); ok {
		report.GateDate = &gate
	}
	return report, nil
}

func (s *InvestmentService) load(ctx context.Context, id uuid.UUID) (investment.Investment, error) {
	inv, err := s.investments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, investment.ErrNotFound) {
			return investment.Investment{}, errNotFound
		}
		return investment.Investment{}, err
	}
	return inv, nil
}

func (s *InvestmentService) update(ctx context.Context, inv investment.Investment) (investment.Investment, error) {
	updated, err := s.investments.Update(ctx, inv)
	if err != nil {
		if errors.Is(err, investment.ErrVersionConflict) {
			return investment.Investment{}, errStaleVersion
		}
		return investment.Investment{}, err
	}
	return updated, nil
}

// notify is fire-and-forget: delivery failures are logged and never fail
// the operation that triggered them.
func (s *InvestmentService) notify(ctx context.Context, recipient uuid.UUID, event string, payload map[string]string) {
	if err := s.dispatcher.Dispatch(ctx, notify.Notification{
		RecipientID: recipient,
		Event:       event,
		Payload:     payload,
	}); err != nil {
		composables.UseLogger(ctx).WithError(err).WithField("event", event).
			Warn("notification dispatch failed")
	}
}
