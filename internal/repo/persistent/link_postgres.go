package persistent

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/carvisapp/carvis-backend/internal/entity"
	"github.com/carvisapp/carvis-backend/pkg/postgres"
	"github.com/carvisapp/carvis-backend/pkg/types/errs"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	// Table
	linksTable = "shareable_links"

	// Columns
	linkReferenceColumn  = "reference"
	linkCarIDColumn      = "car_id"
	linkRecipientColumn  = "recipient_name"
	linkVisitCountColumn = "visit_count"
)

// Audit columns shared by every table.
const (
	createdAtColumn = "created_at"
	createdByColumn = "created_by"
	updatedAtColumn = "updated_at"
	updatedByColumn = "updated_by"
)

type LinkRepo struct {
	*postgres.Postgres
}

func NewLinkRepo(pg *postgres.Postgres) *LinkRepo {
	return &LinkRepo{pg}
}

func (r *LinkRepo) Create(ctx context.Context, link *entity.ShareableLink) error {
	sql, args, err := r.Builder.
		Insert(linksTable).
		Columns(
			linkReferenceColumn,
			linkCarIDColumn,
			linkRecipientColumn,
			linkVisitCountColumn,
			createdAtColumn,
			createdByColumn,
			updatedAtColumn,
			updatedByColumn,
		).
		Values(
			link.Reference,
			link.CarID,
			link.RecipientName,
			link.VisitCount,
			link.CreatedAt,
			link.CreatedBy,
			link.UpdatedAt,
			link.UpdatedBy,
		).ToSql()
	if err != nil {
		return fmt.Errorf("LinkRepo - Create - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	_, err = executor.Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("LinkRepo - Create - reference=%s: %w", link.Reference, errs.ErrReferenceTaken)
		}

		return fmt.Errorf("LinkRepo - Create - executor.Exec: %w", err)
	}

	return nil
}

func (r *LinkRepo) GetByReference(ctx context.Context, reference string) (*entity.ShareableLink, error) {
	sql, args, err := r.selectLinks().
		Where(squirrel.Eq{linkReferenceColumn: reference}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("LinkRepo - GetByReference - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	var link entity.ShareableLink
	err = executor.QueryRow(ctx, sql, args...).Scan(
		&link.Reference,
		&link.CarID,
		&link.RecipientName,
		&link.VisitCount,
		&link.CreatedAt,
		&link.CreatedBy,
		&link.UpdatedAt,
		&link.UpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("LinkRepo - GetByReference - reference=%s: %w", reference, errs.ErrRecordNotFound)
		}

		return nil, fmt.Errorf("LinkRepo - GetByReference - executor.QueryRow.Scan: %w", err)
	}

	return &link, nil
}

func (r *LinkRepo) ListByCar(ctx context.Context, carID uuid.UUID) ([]*entity.ShareableLink, error) {
	sql, args, err := r.selectLinks().
		Where(squirrel.Eq{linkCarIDColumn: carID}).
		OrderBy(createdAtColumn + " ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("LinkRepo - ListByCar - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	rows, err := executor.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("LinkRepo - ListByCar - executor.Query: %w", err)
	}
	defer rows.Close()

	var links []*entity.ShareableLink
	for rows.Next() {
		var link entity.ShareableLink
		err = rows.Scan(
			&link.Reference,
			&link.CarID,
			&link.RecipientName,
			&link.VisitCount,
			&link.CreatedAt,
			&link.CreatedBy,
			&link.UpdatedAt,
			&link.UpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("LinkRepo - ListByCar - rows.Scan: %w", err)
		}
		links = append(links, &link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("LinkRepo - ListByCar - rows.Err: %w", err)
	}

	return links, nil
}

func (r *LinkRepo) Update(ctx context.Context, link *entity.ShareableLink) error {
	sql, args, err := r.Builder.
		Update(linksTable).
		Set(linkVisitCountColumn, link.VisitCount).
		Set(linkRecipientColumn, link.RecipientName).
		Set(updatedAtColumn, link.UpdatedAt).
		Set(updatedByColumn, link.UpdatedBy).
		Where(squirrel.Eq{linkReferenceColumn: link.Reference}).
		ToSql()
	if err != nil {
		return fmt.Errorf("LinkRepo - Update - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	tag, err := executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("LinkRepo - Update - executor.Exec: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("LinkRepo - Update - reference=%s: %w", link.Reference, errs.ErrRecordNotFound)
	}

	return nil
}

func (r *LinkRepo) Delete(ctx context.Context, reference string) error {
	sql, args, err := r.Builder.
		Delete(linksTable).
		Where(squirrel.Eq{linkReferenceColumn: reference}).
		ToSql()
	if err != nil {
		return fmt.Errorf("LinkRepo - Delete - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	tag, err := executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("LinkRepo - Delete - executor.Exec: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("LinkRepo - Delete - reference=%s: %w", reference, errs.ErrRecordNotFound)
	}

	return nil
}

// DeleteByCar removes every link of a car. Zero affected rows is fine
// here; the car-deleted cascade redelivers.
func (r *LinkRepo) DeleteByCar(ctx context.Context, carID uuid.UUID) error {
	sql, args, err := r.Builder.
		Delete(linksTable).
		Where(squirrel.Eq{linkCarIDColumn: carID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("LinkRepo - DeleteByCar - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	_, err = executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("LinkRepo - DeleteByCar - executor.Exec: %w", err)
	}

	return nil
}

func (r *LinkRepo) selectLinks() squirrel.SelectBuilder {
	return r.Builder.
		Select(
			linkReferenceColumn,
			linkCarIDColumn,
			linkRecipientColumn,
			linkVisitCountColumn,
			createdAtColumn,
			createdByColumn,
			updatedAtColumn,
			updatedByColumn,
		).
		From(linksTable)
}
