package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/circularis/backend/internal/app/models"
	"github.com/circularis/backend/internal/pkg/apperrors"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and returns its id
func (r *UserRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	query := `
		INSERT INTO users (full_name, email, password, phone, profile_photo_url, role, is_active, ranking_points)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		user.FullName,
		user.Email,
		user.Password,
		user.Phone,
		user.ProfilePhotoURL,
		user.Role,
		user.IsActive,
		user.RankingPoints,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	return user.ID, nil
}

// FindByID retrieves a user by id
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, full_name, email, password, phone, profile_photo_url, role, is_active, ranking_points, created_at
		FROM users
		WHERE id = $1
	`

	var user models.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.Password,
		&user.Phone,
		&user.ProfilePhotoURL,
		&user.Role,
		&user.IsActive,
		&user.RankingPoints,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	return &user, nil
}

// FindByEmail retrieves a user by email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, full_name, email, password, phone, profile_photo_url, role, is_active, ranking_points, created_at
		FROM users
		WHERE email = $1
	`

	var user models.User
	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.Password,
		&user.Phone,
		&user.ProfilePhotoURL,
		&user.Role,
		&user.IsActive,
		&user.RankingPoints,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user by email: %w", err)
	}

	return &user, nil
}

// ExistsByID reports whether a user row exists
func (r *UserRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking user existence: %w", err)
	}
	return exists, nil
}

// GetAll retrieves users with optional active filter
func (r *UserRepository) GetAll(ctx context.Context, active *bool, limit, offset int) ([]*models.User, error) {
	queryBuilder := squirrel.Select(
		"id", "full_name", "email", "password", "phone", "profile_photo_url",
		"role", "is_active", "ranking_points", "created_at",
	).
		From("users").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar)

	if active != nil {
		queryBuilder = queryBuilder.Where("is_active = ?", *active)
	}

	sql, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.ID,
			&user.FullName,
			&user.Email,
			&user.Password,
			&user.Phone,
			&user.ProfilePhotoURL,
			&user.Role,
			&user.IsActive,
			&user.RankingPoints,
			&user.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, &user)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, nil
}

// Update applies the non-nil fields of the patch to the user row
func (r *UserRepository) Update(ctx context.Context, id int64, fullName, phone, photoURL *string) error {
	queryBuilder := squirrel.Update("users").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	set := false
	if fullName != nil {
		queryBuilder = queryBuilder.Set("full_name", *fullName)
		set = true
	}
	if phone != nil {
		queryBuilder = queryBuilder.Set("phone", *phone)
		set = true
	}
	if photoURL != nil {
		queryBuilder = queryBuilder.Set("profile_photo_url", *photoURL)
		set = true
	}

	if !set {
		return apperrors.ErrEmptyUpdate
	}

	sql, args, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// Deactivate flips the is_active flag to false
func (r *UserRepository) Deactivate(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `UPDATE users SET is_active = false WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deactivating user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}
