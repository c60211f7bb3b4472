package postgres

import (
	"context"
	"database/sql"
	"errors"

	"busbook/internal/domain"
	"busbook/internal/repository"
)

// ProfileRepository is a PostgreSQL implementation of repository.ProfileRepository.
type ProfileRepository struct {
	q Querier
}

// NewProfileRepository creates a new PostgreSQL profile repository.
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{q: db}
}

const profileColumns = `id, name, email, mobile, age, gender, role, password_hash, created_at`

// GetByID retrieves a profile by ID.
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	return r.getOne(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
}

// GetByEmail retrieves a profile by email.
func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	return r.getOne(ctx, `SELECT `+profileColumns+` FROM profiles WHERE LOWER(email) = LOWER($1)`, email)
}

func (r *ProfileRepository) getOne(ctx context.Context, query, arg string) (*domain.Profile, error) {
	var p domain.Profile
	var mobile, gender sql.NullString
	var age sql.NullInt32

	err := r.q.QueryRowContext(ctx, query, arg).Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&mobile,
		&age,
		&gender,
		&p.Role,
		&p.PasswordHash,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	p.Mobile = mobile.String
	p.Gender = gender.String
	p.Age = int(age.Int32)

	return &p, nil
}

// Ensure ProfileRepository implements repository.ProfileRepository.
var _ repository.ProfileRepository = (*ProfileRepository)(nil)
