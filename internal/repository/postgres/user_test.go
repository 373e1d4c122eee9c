package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/domain"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/repository"
	apperrors "github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/errors"
)

var userColumns = []string{
	"id", "email", "password_hash", "full_name", "phone", "role", "is_active",
	"avatar_key", "activation_code", "code_expires_at", "created_at", "updated_at",
}

var userColumnsWithCount = append(append([]string{}, userColumns...), "total_count")

func sampleUser() domain.User {
	expiry := now.Add(15 * time.Minute)
	return domain.User{
		ID:             7,
		Email:          "a@example.com",
		PasswordHash:   "$2a$10$hash",
		FullName:       "Nguyen Van A",
		Phone:          "0900000001",
		Role:           domain.RoleUser,
		IsActive:       false,
		ActivationCode: "123456",
		CodeExpiresAt:  &expiry,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func userRow(u domain.User) []any {
	return []any{
		u.ID, u.Email, u.PasswordHash, u.FullName, u.Phone, u.Role, u.IsActive,
		u.AvatarKey, u.ActivationCode, u.CodeExpiresAt, u.CreatedAt, u.UpdatedAt,
	}
}

func TestUserRepository_Create_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewUserRepository(mock)

	u := sampleUser()
	u.ID = 0

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(
			u.Email, u.PasswordHash, u.FullName, u.Phone, u.Role, u.IsActive,
			u.AvatarKey, u.ActivationCode, u.CodeExpiresAt,
			pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	err := repo.Create(context.Background(), &u)
	require.NoError(t, err)
	assert.Equal(t, int64(7), u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewUserRepository(mock)

	u := sampleUser()
	u.ID = 0

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(
			u.Email, u.PasswordHash, u.FullName, u.Phone, u.Role, u.IsActive,
			u.AvatarKey, u.ActivationCode, u.CodeExpiresAt,
			pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnError(errors.New("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"))

	err := repo.Create(context.Background(), &u)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewUserRepository(mock)

	u := sampleUser()
	mock.ExpectQuery("SELECT .+ FROM users WHERE email").
		WithArgs(u.Email).
		WillReturnRows(pgxmock.NewRows(userColumns).AddRow(userRow(u)...))

	result, err := repo.GetByEmail(context.Background(), u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, result.ID)
	assert.Equal(t, u.Email, result.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewUserRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM users WHERE email").
		WithArgs("missing@example.com").
		WillReturnError(pgx.ErrNoRows)

	result, err := repo.GetByEmail(context.Background(), "missing@example.com")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_List_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewUserRepository(mock)

	u := sampleUser()
	row := append(userRow(u), 1)

	mock.ExpectQuery("SELECT .+ FROM users").
		WithArgs(10, 0).
		WillReturnRows(pgxmock.NewRows(userColumnsWithCount).AddRow(row...))

	users, total, err := repo.List(context.Background(), repository.Page{Limit: 10, Offset: 0})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewUserRepository(mock)

	u := sampleUser()
	u.IsActive = true
	u.ActivationCode = ""
	u.CodeExpiresAt = nil

	mock.ExpectExec("UPDATE users").
		WithArgs(
			u.Email, u.PasswordHash, u.FullName, u.Phone, u.Role, u.IsActive,
			u.AvatarKey, u.ActivationCode, u.CodeExpiresAt,
			pgxmock.AnyArg(), u.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Update(context.Background(), &u)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewUserRepository(mock)

	mock.ExpectExec("DELETE FROM users").
		WithArgs(int64(999)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), 999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
