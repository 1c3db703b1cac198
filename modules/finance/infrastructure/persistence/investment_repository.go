package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vestaclub/vesta/modules/finance/domain/aggregates/investment"
	"github.com/vestaclub/vesta/modules/finance/infrastructure/persistence/models"
	"github.com/vestaclub/vesta/pkg/composables"
)

const (
	investmentColumns = `id, owner_id, amount, commitment_period, liquidity_class, monthly_rate,
		payment_date, receipt_ref, status, renewal_count, original_investment_date,
		current_cycle_start_date, version, created_at, updated_at`

	selectInvestmentByID = `SELECT ` + investmentColumns + ` FROM investments WHERE id = $1`

	selectInvestmentsByStatus = `SELECT ` + investmentColumns + ` FROM investments WHERE status = $1 ORDER BY created_at`

	insertInvestment = `
		INSERT INTO investments (owner_id, amount, commitment_period, liquidity_class,
			monthly_rate, status, original_investment_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + investmentColumns

	// The version predicate makes lost updates impossible: a stale writer
	// matches zero rows instead of silently overwriting.
	updateInvestment = `
		UPDATE investments
		SET amount = $3, commitment_period = $4, liquidity_class = $5, monthly_rate = $6,
		    payment_date = $7, receipt_ref = $8, status = $9, renewal_count = $10,
		    current_cycle_start_date = $11, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $2
		RETURNING ` + investmentColumns
)

type InvestmentRepository struct{}

func NewInvestmentRepository() investment.Repository {
	return &InvestmentRepository{}
}

func (r *InvestmentRepository) GetByID(ctx context.Context, id uuid.UUID) (investment.Investment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return investment.Investment{}, err
	}

	row := tx.QueryRow(ctx, selectInvestmentByID, pgUUID(id))
	return scanInvestment(row)
}

func (r *InvestmentRepository) GetPaginated(ctx context.Context, params *investment.FindParams) ([]investment.Investment, int64, error) {
	if params == nil {
		params = &investment.FindParams{}
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	where := []string{"1 = 1"}
	args := []any{}
	if params.OwnerID != uuid.Nil {
		args = append(args, pgUUID(params.OwnerID))
		where = append(where, fmt.Sprintf("owner_id = $%d", len(args)))
	}
	if params.Status != "" {
		args = append(args, string(params.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	whereClause := strings.Join(where, " AND ")

	var total int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM investments WHERE `+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, gerrors.Wrap(err, "count investments")
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(
		`SELECT %s FROM investments WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		investmentColumns, whereClause, len(args)-1, len(args),
	)
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, gerrors.Wrap(err, "list investments")
	}
	defer rows.Close()

	out := make([]investment.Investment, 0, limit)
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, inv)
	}
	return out, total, rows.Err()
}

func (r *InvestmentRepository) ListByStatus(ctx context.Context, status investment.Status) ([]investment.Investment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, selectInvestmentsByStatus, string(status))
	if err != nil {
		return nil, gerrors.Wrap(err, "list investments by status")
	}
	defer rows.Close()

	out := make([]investment.Investment, 0)
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *InvestmentRepository) Create(ctx context.Context, inv investment.Investment) (investment.Investment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return investment.Investment{}, err
	}

	row := tx.QueryRow(ctx, insertInvestment,
		pgUUID(inv.OwnerID()),
		pgNumeric(inv.Amount()),
		int32(inv.CommitmentPeriod()),
		string(inv.LiquidityClass()),
		pgNumeric(inv.MonthlyRate()),
		string(inv.Status()),
		inv.OriginalInvestmentDate(),
	)
	created, err := scanInvestment(row)
	if err != nil {
		return investment.Investment{}, gerrors.Wrap(err, "create investment")
	}
	return created, nil
}

func (r *InvestmentRepository) Update(ctx context.Context, inv investment.Investment) (investment.Investment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return investment.Investment{}, err
	}

	row := tx.QueryRow(ctx, updateInvestment,
		pgUUID(inv.ID()),
		inv.Version(),
		pgNumeric(inv.Amount()),
		int32(inv.CommitmentPeriod()),
		string(inv.LiquidityClass()),
		pgNumeric(inv.MonthlyRate()),
		pgOptionalTime(inv.PaymentDate()),
		pgOptionalText(inv.ReceiptRef()),
		string(inv.Status()),
		int32(inv.RenewalCount()),
		pgOptionalTime(inv.CurrentCycleStartDate()),
	)
	updated, err := scanInvestment(row)
	if err != nil {
		if errors.Is(err, investment.ErrNotFound) {
			return investment.Investment{}, investment.ErrVersionConflict
		}
		return investment.Investment{}, err
	}
	return updated, nil
}

func scanInvestment(row pgx.Row) (investment.Investment, error) {
	var m models.Investment
	err := row.Scan(
		&m.ID,
		&m.OwnerID,
		&m.Amount,
		&m.CommitmentPeriod,
		&m.LiquidityClass,
		&m.MonthlyRate,
		&m.PaymentDate,
		&m.ReceiptRef,
		&m.Status,
		&m.RenewalCount,
		&m.OriginalInvestmentDate,
		&m.CurrentCycleStartDate,
		&m.Version,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return investment.Investment{}, investment.ErrNotFound
		}
		return investment.Investment{}, err
	}
	return toDomainInvestment(m), nil
}

func toDomainInvestment(m models.Investment) investment.Investment {
	return investment.Hydrate(
		uuidFromPg(m.ID),
		uuidFromPg(m.OwnerID),
		decimalFromPg(m.Amount),
		int(m.CommitmentPeriod),
		investment.LiquidityClass(m.LiquidityClass),
		decimalFromPg(m.MonthlyRate),
		optionalTimeFromPg(m.PaymentDate),
		m.ReceiptRef.String,
		investment.Status(m.Status),
		int(m.RenewalCount),
		m.OriginalInvestmentDate.Time,
		optionalTimeFromPg(m.CurrentCycleStartDate),
		m.Version,
		m.CreatedAt.Time,
		m.UpdatedAt.Time,
	)
}
