package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByPhone(ctx context.Context, phone string) (*User, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, u *User) error {
	const query = `
		INSERT INTO public.users (name, email, password_hash, phone, is_admin, is_guest)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query, u.Name, u.Email, u.PasswordHash, u.Phone, u.IsAdmin, u.IsGuest).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			if pgErr.ConstraintName == "users_phone_key" {
				return ErrPhoneAlreadyUsed
			}
			return ErrEmailAlreadyUsed
		}
		return fmt.Errorf("create user failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.getByField(ctx, "id", id)
}

func (r *pgxRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getByField(ctx, "email", email)
}

func (r *pgxRepository) GetByPhone(ctx context.Context, phone string) (*User, error) {
	return r.getByField(ctx, "phone", phone)
}

func (r *pgxRepository) getByField(ctx context.Context, field, value string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT id, name, email, password_hash, phone, is_admin, is_guest, created_at
		FROM public.users
		WHERE %s = $1
	`, field)

	row := r.pool.QueryRow(ctx, query, value)

	var u User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone, &u.IsAdmin, &u.IsGuest, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by %s failed: %w", field, err)
	}
	return &u, nil
}
