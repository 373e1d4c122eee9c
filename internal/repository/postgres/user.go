package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/domain"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/repository"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/database"
	apperrors "github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/errors"
)

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	db database.DBTX
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (email, password_hash, full_name, phone, role, is_active, avatar_key, activation_code, code_expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	ctx, end := database.TraceQuery(ctx, "CreateUser", query)
	err := r.db.QueryRow(ctx, query,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.Phone,
		user.Role,
		user.IsActive,
		user.AvatarKey,
		user.ActivationCode,
		user.CodeExpiresAt,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)
	end(err)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("user", "email", user.Email)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := userSelect + ` WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "GetUser", query)
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("user", id)
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := userSelect + ` WHERE email = $1`

	ctx, end := database.TraceQuery(ctx, "GetUserByEmail", query)
	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundMsg(fmt.Sprintf("user with email %q not found", email))
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	return user, nil
}

// List retrieves one page of users ordered by ascending id.
func (r *UserRepository) List(ctx context.Context, page repository.Page) ([]domain.User, int, error) {
	query := `
		SELECT id, email, password_hash, full_name, phone, role, is_active, avatar_key, activation_code, code_expires_at, created_at, updated_at,
			count(*) OVER() AS total_count
		FROM users
		ORDER BY id ASC
		LIMIT $1 OFFSET $2`

	ctx, end := database.TraceQuery(ctx, "ListUsers", query)
	rows, err := r.db.Query(ctx, query, page.Limit, page.Offset)
	if err != nil {
		end(err)
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var (
		users      []domain.User
		totalCount int
	)

	for rows.Next() {
		var u domain.User
		if err := rows.Scan(
			&u.ID,
			&u.Email,
			&u.PasswordHash,
			&u.FullName,
			&u.Phone,
			&u.Role,
			&u.IsActive,
			&u.AvatarKey,
			&u.ActivationCode,
			&u.CodeExpiresAt,
			&u.CreatedAt,
			&u.UpdatedAt,
			&totalCount,
		); err != nil {
			end(err)
			return nil, 0, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		end(err)
		return nil, 0, fmt.Errorf("iterate user rows: %w", err)
	}
	end(nil)

	if users == nil {
		users = []domain.User{}
	}

	return users, totalCount, nil
}

// Update updates all mutable fields of an existing user.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET email = $1, password_hash = $2, full_name = $3, phone = $4, role = $5, is_active = $6, avatar_key = $7, activation_code = $8, code_expires_at = $9, updated_at = $10
		WHERE id = $11`

	user.UpdatedAt = time.Now().UTC()

	ctx, end := database.TraceQuery(ctx, "UpdateUser", query)
	ct, err := r.db.Exec(ctx, query,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.Phone,
		user.Role,
		user.IsActive,
		user.AvatarKey,
		user.ActivationCode,
		user.CodeExpiresAt,
		user.UpdatedAt,
		user.ID,
	)
	end(err)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("user", "email", user.Email)
		}
		return fmt.Errorf("update user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", user.ID)
	}

	return nil
}

// Delete removes a user by ID.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM users WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "DeleteUser", query)
	ct, err := r.db.Exec(ctx, query, id)
	end(err)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", id)
	}

	return nil
}

const userSelect = `
	SELECT id, email, password_hash, full_name, phone, role, is_active, avatar_key, activation_code, code_expires_at, created_at, updated_at
	FROM users`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FullName,
		&u.Phone,
		&u.Role,
		&u.IsActive,
		&u.AvatarKey,
		&u.ActivationCode,
		&u.CodeExpiresAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
