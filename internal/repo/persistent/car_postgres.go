package persistent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/carvisapp/carvis-backend/internal/entity"
	"github.com/carvisapp/carvis-backend/pkg/postgres"
	"github.com/carvisapp/carvis-backend/pkg/types/errs"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	// Table
	carsTable = "cars"

	// Columns
	carIDColumn       = "id"
	carBrandColumn    = "brand"
	carModelColumn    = "model"
	carMileageColumn  = "mileage"
	carPriceColumn    = "price"
	carImageIDsColumn = "image_ids"
)

type CarRepo struct {
	*postgres.Postgres
}

func NewCarRepo(pg *postgres.Postgres) *CarRepo {
	return &CarRepo{pg}
}

func (r *CarRepo) Create(ctx context.Context, car *entity.Car) error {
	imageIDs, err := json.Marshal(car.ImageIDs)
	if err != nil {
		return fmt.Errorf("CarRepo - Create - json.Marshal: %w", err)
	}

	sql, args, err := r.Builder.
		Insert(carsTable).
		Columns(
			carIDColumn,
			carBrandColumn,
			carModelColumn,
			carMileageColumn,
			carPriceColumn,
			carImageIDsColumn,
			createdAtColumn,
			createdByColumn,
			updatedAtColumn,
			updatedByColumn,
		).
		Values(
			car.ID,
			car.Brand,
			car.Model,
			car.Mileage,
			car.Price,
			imageIDs,
			car.CreatedAt,
			car.CreatedBy,
			car.UpdatedAt,
			car.UpdatedBy,
		).ToSql()
	if err != nil {
		return fmt.Errorf("CarRepo - Create - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	_, err = executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("CarRepo - Create - executor.Exec: %w", err)
	}

	return nil
}

func (r *CarRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Car, error) {
	sql, args, err := r.Builder.
		Select(
			carIDColumn,
			carBrandColumn,
			carModelColumn,
			carMileageColumn,
			carPriceColumn,
			carImageIDsColumn,
			createdAtColumn,
			createdByColumn,
			updatedAtColumn,
			updatedByColumn,
		).
		From(carsTable).
		Where(squirrel.Eq{carIDColumn: id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("CarRepo - GetByID - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	var (
		car      entity.Car
		imageIDs []byte
	)
	err = executor.QueryRow(ctx, sql, args...).Scan(
		&car.ID,
		&car.Brand,
		&car.Model,
		&car.Mileage,
		&car.Price,
		&imageIDs,
		&car.CreatedAt,
		&car.CreatedBy,
		&car.UpdatedAt,
		&car.UpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("CarRepo - GetByID - id=%s: %w", id, errs.ErrRecordNotFound)
		}

		return nil, fmt.Errorf("CarRepo - GetByID - executor.QueryRow.Scan: %w", err)
	}

	if err = json.Unmarshal(imageIDs, &car.ImageIDs); err != nil {
		return nil, fmt.Errorf("CarRepo - GetByID - json.Unmarshal: %w", err)
	}

	return &car, nil
}

func (r *CarRepo) Update(ctx context.Context, car *entity.Car) error {
	imageIDs, err := json.Marshal(car.ImageIDs)
	if err != nil {
		return fmt.Errorf("CarRepo - Update - json.Marshal: %w", err)
	}

	sql, args, err := r.Builder.
		Update(carsTable).
		Set(carBrandColumn, car.Brand).
		Set(carModelColumn, car.Model).
		Set(carMileageColumn, car.Mileage).
		Set(carPriceColumn, car.Price).
		Set(carImageIDsColumn, imageIDs).
		Set(updatedAtColumn, car.UpdatedAt).
		Set(updatedByColumn, car.UpdatedBy).
		Where(squirrel.Eq{carIDColumn: car.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("CarRepo - Update - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	tag, err := executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("CarRepo - Update - executor.Exec: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("CarRepo - Update - id=%s: %w", car.ID, errs.ErrRecordNotFound)
	}

	return nil
}

func (r *CarRepo) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := r.Builder.
		Delete(carsTable).
		Where(squirrel.Eq{carIDColumn: id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("CarRepo - Delete - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	tag, err := executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("CarRepo - Delete - executor.Exec: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("CarRepo - Delete - id=%s: %w", id, errs.ErrRecordNotFound)
	}

	return nil
}
