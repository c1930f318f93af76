package repo

import (
	"context"

	dom "accounts/internal/domain"

	"github.com/jackc/pgx/v5"
)

// DB is the subset of pgxpool.Pool the repositories need. Kept narrow so
// tests can substitute a mock pool.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepo provides user persistence.
type UserRepo interface {
	Create(ctx context.Context, name, email, passwordHash string) (dom.User, error)
	GetByID(ctx context.Context, id int64) (dom.User, error)
	GetByEmail(ctx context.Context, email string) (dom.User, error)
	Update(ctx context.Context, u dom.User) (dom.User, error)
}

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db DB
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db DB) *PGUserRepo {
	return &PGUserRepo{db: db}
}

// Create inserts a new user and returns it. A duplicate email surfaces as a
// unique-violation error from the users_email_key index.
func (r *PGUserRepo) Create(ctx context.Context, name, email, passwordHash string) (dom.User, error) {
	query := `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, name, email, password_hash, created_at, updated_at`
	var u dom.User
	err := r.db.QueryRow(ctx, query, name, email, passwordHash).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

// GetByID returns the user by primary key.
func (r *PGUserRepo) GetByID(ctx context.Context, id int64) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRow(ctx,
		`SELECT id, name, email, password_hash, created_at, updated_at FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByEmail returns the user by email. Emails compare case-sensitively,
// exactly as stored.
func (r *PGUserRepo) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRow(ctx,
		`SELECT id, name, email, password_hash, created_at, updated_at FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Update persists name, email, password hash and updated_at for the user.
func (r *PGUserRepo) Update(ctx context.Context, u dom.User) (dom.User, error) {
	query := `
		UPDATE users
		SET name = $2, email = $3, password_hash = $4, updated_at = $5
		WHERE id = $1
		RETURNING id, name, email, password_hash, created_at, updated_at`
	var out dom.User
	err := r.db.QueryRow(ctx, query, u.ID, u.Name, u.Email, u.PasswordHash, u.UpdatedAt).Scan(
		&out.ID, &out.Name, &out.Email, &out.PasswordHash, &out.CreatedAt, &out.UpdatedAt,
	)
	return out, err
}
