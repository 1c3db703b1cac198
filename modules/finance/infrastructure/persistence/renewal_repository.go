package persistence

import (
	"context"
	"errors"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vestaclub/vesta/modules/finance/domain/aggregates/investment"
	"github.com/vestaclub/vesta/modules/finance/domain/entities/renewal"
	"github.com/vestaclub/vesta/modules/finance/infrastructure/persistence/models"
	"github.com/vestaclub/vesta/pkg/composables"
)

const (
	renewalColumns = `id, investment_id, action, performed_by, prior_period, prior_liquidity,
		prior_rate, prior_expiry, new_period, new_liquidity, new_rate, new_expiry, created_at`

	insertRenewalRecord = `
		INSERT INTO renewal_records (investment_id, action, performed_by, prior_period,
			prior_liquidity, prior_rate, prior_expiry, new_period, new_liquidity,
			new_rate, new_expiry)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + renewalColumns

	selectRenewalsByInvestment = `
		SELECT ` + renewalColumns + `
		FROM renewal_records
		WHERE investment_id = $1
		ORDER BY created_at`
)

// RenewalRepository only ever inserts and reads; the table has no update
// or delete path.
type RenewalRepository struct{}

func NewRenewalRepository() renewal.Repository {
	return &RenewalRepository{}
}

func (r *RenewalRepository) Append(ctx context.Context, rec renewal.Record) (renewal.Record, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return renewal.Record{}, err
	}

	row := tx.QueryRow(ctx, insertRenewalRecord,
		pgUUID(rec.InvestmentID()),
		string(rec.Action()),
		pgUUID(rec.PerformedBy()),
		int32(rec.PriorPeriod()),
		string(rec.PriorLiquidity()),
		pgNumeric(rec.PriorRate()),
		pgOptionalTime(rec.PriorExpiry()),
		int32(rec.NewPeriod()),
		string(rec.NewLiquidity()),
		pgNumeric(rec.NewRate()),
		pgOptionalTime(rec.NewExpiry()),
	)
	appended, err := scanRenewalRecord(row)
	if err != nil {
		return renewal.Record{}, gerrors.Wrap(err, "append renewal record")
	}
	return appended, nil
}

func (r *RenewalRepository) ListByInvestment(ctx context.Context, investmentID uuid.UUID) ([]renewal.Record, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, selectRenewalsByInvestment, pgUUID(investmentID))
	if err != nil {
		return nil, gerrors.Wrap(err, "list renewal records")
	}
	defer rows.Close()

	out := make([]renewal.Record, 0)
	for rows.Next() {
		rec, err := scanRenewalRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanRenewalRecord(row pgx.Row) (renewal.Record, error) {
	var m models.RenewalRecord
	err := row.Scan(
		&m.ID,
		&m.InvestmentID,
		&m.Action,
		&m.PerformedBy,
		&m.PriorPeriod,
		&m.PriorLiquidity,
		&m.PriorRate,
		&m.PriorExpiry,
		&m.NewPeriod,
		&m.NewLiquidity,
		&m.NewRate,
		&m.NewExpiry,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return renewal.Record{}, renewal.ErrNotFound
		}
		return renewal.Record{}, err
	}
	return renewal.Hydrate(
		uuidFromPg(m.ID),
		uuidFromPg(m.InvestmentID),
		renewal.Action(m.Action),
		uuidFromPg(m.PerformedBy),
		int(m.PriorPeriod),
		investment.LiquidityClass(m.PriorLiquidity),
		decimalFromPg(m.PriorRate),
		optionalTimeFromPg(m.PriorExpiry),
		int(m.NewPeriod),
		investment.LiquidityClass(m.NewLiquidity),
		decimalFromPg(m.NewRate),
		optionalTimeFromPg(m.NewExpiry),
		m.CreatedAt.Time,
	), nil
}
