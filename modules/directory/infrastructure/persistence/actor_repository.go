package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vestaclub/vesta/modules/directory/domain/aggregates/actor"
	"github.com/vestaclub/vesta/modules/directory/infrastructure/persistence/models"
	"github.com/vestaclub/vesta/pkg/composables"
)

const (
	actorColumns = `id, display_name, email, tier, advisor_id, office_id, distributor_id, created_at, updated_at`

	selectActorByID    = `SELECT ` + actorColumns + ` FROM actors WHERE id = $1`
	selectActorByEmail = `SELECT ` + actorColumns + ` FROM actors WHERE email = $1`

	insertActor = `
		INSERT INTO actors (display_name, email, tier, advisor_id, office_id, distributor_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + actorColumns

	updateActor = `
		UPDATE actors
		SET display_name = $2, email = $3, tier = $4,
		    advisor_id = $5, office_id = $6, distributor_id = $7,
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + actorColumns
)

type ActorRepository struct{}

func NewActorRepository() actor.Repository {
	return &ActorRepository{}
}

func (r *ActorRepository) GetByID(ctx context.Context, id uuid.UUID) (actor.Actor, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return actor.Actor{}, err
	}

	row := tx.QueryRow(ctx, selectActorByID, pgUUID(id))
	return scanActor(row)
}

func (r *ActorRepository) GetByEmail(ctx context.Context, email string) (actor.Actor, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return actor.Actor{}, err
	}

	row := tx.QueryRow(ctx, selectActorByEmail, strings.TrimSpace(strings.ToLower(email)))
	return scanActor(row)
}

func (r *ActorRepository) GetPaginated(ctx context.Context, params *actor.FindParams) ([]actor.Actor, int64, error) {
	if params == nil {
		params = &actor.FindParams{}
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
	if params.Tier != "" {
		args = append(args, string(params.Tier))
		where = append(where, fmt.Sprintf("tier = $%d", len(args)))
	}
	if q := strings.TrimSpace(params.Q); q != "" {
		args = append(args, "%"+q+"%")
		where = append(where, fmt.Sprintf("(display_name ILIKE $%d OR email ILIKE $%d)", len(args), len(args)))
	}
	whereClause := strings.Join(where, " AND ")

	var total int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM actors WHERE `+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, gerrors.Wrap(err, "count actors")
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(
		`SELECT %s FROM actors WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		actorColumns, whereClause, len(args)-1, len(args),
	)
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, gerrors.Wrap(err, "list actors")
	}
	defer rows.Close()

	out := make([]actor.Actor, 0, limit)
	for rows.Next() {
		a, err := scanActor(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

func (r *ActorRepository) Create(ctx context.Context, a actor.Actor) (actor.Actor, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return actor.Actor{}, err
	}

	row := tx.QueryRow(ctx, insertActor,
		a.DisplayName(),
		a.Email(),
		string(a.Tier()),
		pgOptionalUUID(a.AdvisorID()),
		pgOptionalUUID(a.OfficeID()),
		pgOptionalUUID(a.DistributorID()),
	)
	created, err := scanActor(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return actor.Actor{}, actor.ErrEmailTaken
		}
		return actor.Actor{}, gerrors.Wrap(err, "create actor")
	}
	return created, nil
}

func (r *ActorRepository) Update(ctx context.Context, a actor.Actor) (actor.Actor, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return actor.Actor{}, err
	}

	row := tx.QueryRow(ctx, updateActor,
		pgUUID(a.ID()),
		a.DisplayName(),
		a.Email(),
		string(a.Tier()),
		pgOptionalUUID(a.AdvisorID()),
		pgOptionalUUID(a.OfficeID()),
		pgOptionalUUID(a.DistributorID()),
	)
	updated, err := scanActor(row)
	if err != nil {
		return actor.Actor{}, err
	}
	return updated, nil
}

func scanActor(row pgx.Row) (actor.Actor, error) {
	var m models.Actor
	err := row.Scan(
		&m.ID,
		&m.DisplayName,
		&m.Email,
		&m.Tier,
		&m.AdvisorID,
		&m.OfficeID,
		&m.DistributorID,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return actor.Actor{}, actor.ErrNotFound
		}
		return actor.Actor{}, err
	}
	return toDomainActor(m), nil
}

func toDomainActor(m models.Actor) actor.Actor {
	return actor.Hydrate(
		uuidFromPg(m.ID),
		m.DisplayName,
		m.Email,
		actor.Tier(m.Tier),
		optionalUUIDFromPg(m.AdvisorID),
		optionalUUIDFromPg(m.OfficeID),
		optionalUUIDFromPg(m.DistributorID),
		m.CreatedAt.Time,
		m.UpdatedAt.Time,
	)
}

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func pgOptionalUUID(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}

func uuidFromPg(v pgtype.UUID) uuid.UUID {
	if !v.Valid {
		return uuid.Nil
	}
	return v.Bytes
}

func optionalUUIDFromPg(v pgtype.UUID) *uuid.UUID {
	if !v.Valid {
		return nil
	}
	id := uuid.UUID(v.Bytes)
	return &id
}
