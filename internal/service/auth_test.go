package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/auth"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/domain"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/media"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/storage"
	apperrors "github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/errors"
)

func newTestAuthService(t *testing.T) (*AuthService, *mockUserRepository, *auth.JWTManager) {
	t.Helper()

	users := new(mockUserRepository)
	jwt := auth.NewJWTManager("test-secret", "shop-api-test", 15*time.Minute, 24*time.Hour)
	logger := newTestLogger()
	rewriter := media.NewRewriter(storage.NewMemoryStorage("http://cdn.test/media"), logger)

	return NewAuthService(users, jwt, newTestEvents(), rewriter, logger), users, jwt
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func activeUser(t *testing.T) *domain.User {
	return &domain.User{
		ID:           7,
		Email:        "a@example.com",
		PasswordHash: hashPassword(t, "s3cret-pw"),
		FullName:     "Nguyen Van A",
		Role:         domain.RoleUser,
		IsActive:     true,
	}
}

func TestAuthService_Signup_Success(t *testing.T) {
	svc, users, _ := newTestAuthService(t)

	users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.User).ID = 7
		}).
		Return(nil)

	user, err := svc.Signup(context.Background(), SignupInput{
		Email:    "a@example.com",
		Password: "s3cret-pw",
		FullName: "Nguyen Van A",
		Phone:    "0900000001",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.False(t, user.IsActive)
	assert.Len(t, user.ActivationCode, 6)
	require.NotNil(t, user.CodeExpiresAt)
	assert.True(t, user.CodeExpiresAt.After(time.Now().UTC()))

	// The stored hash verifies against the plaintext and is not the plaintext.
	assert.NotEqual(t, "s3cret-pw", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pw")))
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	svc, users, _ := newTestAuthService(t)

	users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Return(apperrors.AlreadyExists("user", "email", "a@example.com"))

	user, err := svc.Signup(context.Background(), SignupInput{Email: "a@example.com", Password: "s3cret-pw"})
	assert.Nil(t, user)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, users, jwt := newTestAuthService(t)

	users.On("GetByEmail", mock.Anything, "a@example.com").Return(activeUser(t), nil)

	pair, user, err := svc.Login(context.Background(), "a@example.com", "s3cret-pw")
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := jwt.Validate(pair.AccessToken, auth.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, domain.RoleUser, claims.Role)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, users, _ := newTestAuthService(t)

	users.On("GetByEmail", mock.Anything, "a@example.com").Return(activeUser(t), nil)

	pair, user, err := svc.Login(context.Background(), "a@example.com", "wrong-pw")
	assert.Nil(t, pair)
	assert.Nil(t, user)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, users, _ := newTestAuthService(t)

	users.On("GetByEmail", mock.Anything, "ghost@example.com").
		Return(nil, apperrors.NotFoundMsg("user not found"))

	// Unknown email and wrong password are indistinguishable to the caller.
	pair, user, err := svc.Login(context.Background(), "ghost@example.com", "s3cret-pw")
	assert.Nil(t, pair)
	assert.Nil(t, user)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthService_Login_InactiveAccount(t *testing.T) {
	svc, users, _ := newTestAuthService(t)

	user := activeUser(t)
	user.IsActive = false
	users.On("GetByEmail", mock.Anything, "a@example.com").Return(user, nil)

	pair, _, err := svc.Login(context.Background(), "a@example.com", "s3cret-pw")
	assert.Nil(t, pair)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestAuthService_Refresh_Success(t *testing.T) {
	svc, users, jwt := newTestAuthService(t)

	pair, err := jwt.GeneratePair(7, "a@example.com", domain.RoleUser)
	require.NoError(t, err)

	users.On("GetByID", mock.Anything, int64(7)).Return(activeUser(t), nil)

	fresh, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	svc, _, jwt := newTestAuthService(t)

	pair, err := jwt.GeneratePair(7, "a@example.com", domain.RoleUser)
	require.NoError(t, err)

	fresh, err := svc.Refresh(context.Background(), pair.AccessToken)
	assert.Nil(t, fresh)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthService_CheckCode_ActivatesUser(t *testing.T) {
	svc, users, _ := newTestAuthService(t)

	user := activeUser(t)
	user.IsActive = false
	user.ActivationCode = "123456"
	user.CodeExpiresAt = timePtr(time.Now().UTC().Add(10 * time.Minute))

	users.On("GetByEmail", mock.Anything, "a@example.com").Return(user, nil)
	users.On("Update", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	err := svc.CheckCode(context.Background(), "a@example.com", "123456")
	require.NoError(t, err)

	assert.True(t, user.IsActive)
	assert.Empty(t, user.ActivationCode)
	assert.Nil(t, user.CodeExpiresAt)
	users.AssertExpectations(t)
}

func TestAuthService_CheckCode_WrongCode(t *testing.T) {
	svc, users, _ := newTestAuthService(t)

	user := activeUser(t)
	user.IsActive = false
	user.ActivationCode = "123456"
	user.CodeExpiresAt = timePtr(time.Now().UTC().Add(10 * time.Minute))
	users.On("GetByEmail", mock.Anything, "a@example.com").Return(user, nil)

	err := svc.CheckCode(context.Background(), "a@example.com", "654321")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAuthService_CheckCode_ExpiredCode(t *testing.T) {
	svc, users, _ := newTestAuthService(t)

	user := activeUser(t)
	user.IsActive = false
	user.ActivationCode = "123456"
	user.CodeExpiresAt = timePtr(time.Now().UTC().Add(-time.Minute))
	users.On("GetByEmail", mock.Anything, "a@example.com").Return(user, nil)

	err := svc.CheckCode(context.Background(), "a@example.com", "123456")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestAuthService_CheckCode_AlreadyActive(t *testing.T) {
	svc, users, _ := newTestAuthService(t)

	users.On("GetByEmail", mock.Anything, "a@example.com").Return(activeUser(t), nil)

	err := svc.CheckCode(context.Background(), "a@example.com", "123456")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestAuthService_RetryActive_ReissuesCode(t *testing.T) {
	svc, users, _ := newTestAuthService(t)

	user := activeUser(t)
	user.IsActive = false
	users.On("GetByEmail", mock.Anything, "a@example.com").Return(user, nil)
	users.On("Update", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	err := svc.RetryActive(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Len(t, user.ActivationCode, 6)
	require.NotNil(t, user.CodeExpiresAt)
}

func TestAuthService_ResetPassword_Success(t *testing.T) {
	svc, users, _ := newTestAuthService(t)

	user := activeUser(t)
	user.ActivationCode = "123456"
	user.CodeExpiresAt = timePtr(time.Now().UTC().Add(10 * time.Minute))
	users.On("GetByEmail", mock.Anything, "a@example.com").Return(user, nil)
	users.On("Update", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	err := svc.ResetPassword(context.Background(), "a@example.com", "123456", "new-pw-123")
	require.NoError(t, err)

	assert.Empty(t, user.ActivationCode)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("new-pw-123")))
}

func TestAuthService_ChangePassword_Success(t *testing.T) {
	svc, users, _ := newTestAuthService(t)

	user := activeUser(t)
	users.On("GetByID", mock.Anything, int64(7)).Return(user, nil)
	users.On("Update", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	err := svc.ChangePassword(context.Background(), 7, "s3cret-pw", "new-pw-123")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("new-pw-123")))
}

func TestAuthService_ChangePassword_WrongCurrent(t *testing.T) {
	svc, users, _ := newTestAuthService(t)

	users.On("GetByID", mock.Anything, int64(7)).Return(activeUser(t), nil)

	err := svc.ChangePassword(context.Background(), 7, "wrong-pw", "new-pw-123")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAuthService_Profile_ResolvesAvatarURL(t *testing.T) {
	svc, users, _ := newTestAuthService(t)

	user := activeUser(t)
	user.AvatarKey = "user/7/avatar.jpg"
	users.On("GetByID", mock.Anything, int64(7)).Return(user, nil)

	profile, err := svc.Profile(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "http://cdn.test/media/user/7/avatar.jpg", profile.AvatarURL)
}
