package persistent

import (
	"context"
	"fmt"

	"github.com/carvisapp/carvis-backend/internal/entity"
	"github.com/carvisapp/carvis-backend/pkg/postgres"
)

const (
	// Table
	newUsersTable = "new_users"

	// Columns
	userIDColumn    = "id"
	userEmailColumn = "email"
	userNameColumn  = "name"
)

type UserRepo struct {
	*postgres.Postgres
}

func NewUserRepo(pg *postgres.Postgres) *UserRepo {
	return &UserRepo{pg}
}

// Save upserts so a redelivered USER_SIGNUP event lands on the same row.
func (r *UserRepo) Save(ctx context.Context, user *entity.NewUser) error {
	sql, args, err := r.Builder.
		Insert(newUsersTable).
		Columns(
			userIDColumn,
			userEmailColumn,
			userNameColumn,
			createdAtColumn,
			createdByColumn,
			updatedAtColumn,
			updatedByColumn,
		).
		Values(
			user.ID,
			user.Email,
			user.Name,
			user.CreatedAt,
			user.CreatedBy,
			user.UpdatedAt,
			user.UpdatedBy,
		).
		Suffix(fmt.Sprintf(
			"ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s",
			userIDColumn,
			userEmailColumn, userEmailColumn,
			userNameColumn, userNameColumn,
			updatedAtColumn, updatedAtColumn,
			updatedByColumn, updatedByColumn,
		)).
		ToSql()
	if err != nil {
		return fmt.Errorf("UserRepo - Save - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	_, err = executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("UserRepo - Save - executor.Exec: %w", err)
	}

	return nil
}
