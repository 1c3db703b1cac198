package persistence

import (
	"context"
	"errors"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/vestaclub/vesta/modules/directory/domain/aggregates/actor"
	"github.com/vestaclub/vesta/modules/finance/domain/aggregates/investment"
	"github.com/vestaclub/vesta/modules/finance/domain/entities/ratecard"
	"github.com/vestaclub/vesta/modules/finance/infrastructure/persistence/models"
	"github.com/vestaclub/vesta/pkg/composables"
)

const (
	rateCardColumns = `id, tier, commitment_period, liquidity_class, condition_ids, monthly_rate, created_at`

	selectRateByTerms = `
		SELECT ` + rateCardColumns + `
		FROM rate_card_entries
		WHERE tier = $1 AND commitment_period = $2 AND liquidity_class = $3
		  AND cardinality(condition_ids) = 0
		ORDER BY created_at
		LIMIT 1`

	// Stable ordering matters: the resolver breaks overlap ties by the
	// first entry it sees.
	selectConditionScoped = `
		SELECT ` + rateCardColumns + `
		FROM rate_card_entries
		WHERE commitment_period = $1 AND liquidity_class = $2
		  AND cardinality(condition_ids) > 0
		ORDER BY created_at, id`
)

type RateCardRepository struct{}

func NewRateCardRepository() ratecard.Repository {
	return &RateCardRepository{}
}

func (r *RateCardRepository) FindByTerms(ctx context.Context, tier actor.Tier, commitmentPeriod int, liquidityClass investment.LiquidityClass) (ratecard.Entry, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return ratecard.Entry{}, err
	}

	row := tx.QueryRow(ctx, selectRateByTerms, string(tier), int32(commitmentPeriod), string(liquidityClass))
	return scanRateCardEntry(row)
}

func (r *RateCardRepository) FindConditionScoped(ctx context.Context, commitmentPeriod int, liquidityClass investment.LiquidityClass) ([]ratecard.Entry, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, selectConditionScoped, int32(commitmentPeriod), string(liquidityClass))
	if err != nil {
		return nil, gerrors.Wrap(err, "list condition-scoped rates")
	}
	defer rows.Close()

	out := make([]ratecard.Entry, 0)
	for rows.Next() {
		entry, err := scanRateCardEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

func scanRateCardEntry(row pgx.Row) (ratecard.Entry, error) {
	var m models.RateCardEntry
	err := row.Scan(
		&m.ID,
		&m.Tier,
		&m.CommitmentPeriod,
		&m.LiquidityClass,
		&m.ConditionIDs,
		&m.MonthlyRate,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ratecard.Entry{}, ratecard.ErrNotFound
		}
		return ratecard.Entry{}, err
	}
	return ratecard.Hydrate(
		uuidFromPg(m.ID),
		actor.Tier(m.Tier),
		int(m.CommitmentPeriod),
		investment.LiquidityClass(m.LiquidityClass),
		m.ConditionIDs,
		decimalFromPg(m.MonthlyRate),
		m.CreatedAt.Time,
	), nil
}
