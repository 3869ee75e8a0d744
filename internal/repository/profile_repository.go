package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// ProfileRepository resolves users to roles.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.UserProfile) error
	GetByUserID(ctx context.Context, userID string) (*domain.UserProfile, error)
	List(ctx context.Context) ([]domain.UserProfile, error)
	Delete(ctx context.Context, userID string) error
}

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository returns a Postgres-backed implementation.
func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepository{pool: pool}
}

const selectProfile = `
        SELECT p.user_id, p.role, p.created_at, u.username, u.email, u.created_at, u.updated_at
        FROM user_profiles p JOIN users u ON u.id = p.user_id`

func (r *profileRepository) Create(ctx context.Context, profile *domain.UserProfile) error {
	const query = `
        INSERT INTO user_profiles (user_id, role)
        VALUES ($1, $2)
        RETURNING created_at`
	if err := r.pool.QueryRow(ctx, query, profile.UserID, profile.Role).Scan(&profile.CreatedAt); err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	row := r.pool.QueryRow(ctx, selectProfile+` WHERE p.user_id=$1`, userID)
	return scanProfile(row)
}

func (r *profileRepository) List(ctx context.Context) ([]domain.UserProfile, error) {
	rows, err := r.pool.Query(ctx, selectProfile+` ORDER BY u.username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.UserProfile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *profile)
	}
	return result, rows.Err()
}

func (r *profileRepository) Delete(ctx context.Context, userID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM user_profiles WHERE user_id=$1`, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanProfile(row pgx.Row) (*domain.UserProfile, error) {
	var (
		profile domain.UserProfile
		user    domain.User
	)
	if err := row.Scan(
		&profile.UserID,
		&profile.Role,
		&profile.CreatedAt,
		&user.Username,
		&user.Email,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	user.ID = profile.UserID
	profile.User = &user
	return &profile, nil
}
