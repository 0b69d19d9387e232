package postgres

import (
	"context"
	"errors"
	"fmt"
	"gw-currency-trader/internal/custom_err"
	"gw-currency-trader/internal/models"
	"gw-currency-trader/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserRepository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, user *models.User) (*models.User, error)

	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type PgUserRepository struct {
	db Querier
}

func NewUserRepository(db Querier) UserRepository {
	return &PgUserRepository{db: db}
}

func (r *PgUserRepository) CreateTx(ctx context.Context, tx pgx.Tx, user *models.User) (*models.User, error) {
	const op = "storage.CreateUser"

	created := *user
	err := tx.QueryRow(
		ctx,
		storage.CreateUserQuery,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Phone,
	).Scan(&created.CreatedAt)
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return nil, custom_err.ErrEmailExists
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &created, nil
}

func (r *PgUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "storage.GetUserByID"

	user, err := scanUser(r.db.QueryRow(ctx, storage.GetUserByIDQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"

	user, err := scanUser(r.db.QueryRow(ctx, storage.GetUserByEmailQuery, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
