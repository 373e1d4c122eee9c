package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/auth"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/domain"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/event"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/media"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/repository"
	apperrors "github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/errors"
)

const (
	bcryptCost         = 12
	activationCodeTTL  = 15 * time.Minute
	activationCodeSize = 6
)

// AuthService handles registration, activation, and credential flows.
type AuthService struct {
	users    repository.UserRepository
	jwt      *auth.JWTManager
	events   *event.Producer
	rewriter *media.Rewriter
	logger   *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(users repository.UserRepository, jwt *auth.JWTManager, events *event.Producer, rewriter *media.Rewriter, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwt:      jwt,
		events:   events,
		rewriter: rewriter,
		logger:   logger,
	}
}

// SignupInput holds the data for registering a new account.
type SignupInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
}

// Signup registers a new inactive account with a fresh activation code. The
// code is delivered out of band.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	code, err := generateActivationCode()
	if err != nil {
		return nil, fmt.Errorf("generate activation code: %w", err)
	}

	expiresAt := time.Now().UTC().Add(activationCodeTTL)
	user := &domain.User{
		Email:          input.Email,
		PasswordHash:   string(hash),
		FullName:       input.FullName,
		Phone:          input.Phone,
		Role:           domain.RoleUser,
		IsActive:       false,
		ActivationCode: code,
		CodeExpiresAt:  &expiresAt,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.events.UserRegistered(ctx, user.ID, user.Email)

	s.logger.InfoContext(ctx, "user signed up",
		slog.Int64("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// Login verifies credentials and issues a token pair. Inactive accounts are
// rejected with a named state so the client can offer re-activation.
func (s *AuthService) Login(ctx context.Context, email, password string) (*auth.TokenPair, *domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, apperrors.Unauthorized("invalid email or password")
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, apperrors.Unauthorized("invalid email or password")
	}

	if !user.IsActive {
		return nil, nil, apperrors.Forbidden("account is not activated")
	}

	pair, err := s.jwt.GeneratePair(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.Int64("user_id", user.ID),
	)

	return pair, user, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.jwt.Validate(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !user.IsActive {
		return nil, apperrors.Forbidden("account is not activated")
	}

	return s.jwt.GeneratePair(user.ID, user.Email, user.Role)
}

// CheckCode activates an account when the code matches and has not expired.
func (s *AuthService) CheckCode(ctx context.Context, email, code string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	if user.IsActive {
		return apperrors.Conflict("account is already active")
	}

	if err := s.verifyCode(user, code); err != nil {
		return err
	}

	user.IsActive = true
	user.ActivationCode = ""
	user.CodeExpiresAt = nil

	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("activate user: %w", err)
	}

	s.events.UserActivated(ctx, user.ID)

	s.logger.InfoContext(ctx, "user activated",
		slog.Int64("user_id", user.ID),
	)

	return nil
}

// RetryActive re-issues the activation code for an inactive account.
func (s *AuthService) RetryActive(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	if user.IsActive {
		return apperrors.Conflict("account is already active")
	}

	if err := s.issueCode(ctx, user); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "activation code re-issued",
		slog.Int64("user_id", user.ID),
	)

	return nil
}

// RetryPassword issues a password reset code, delivered out of band.
func (s *AuthService) RetryPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	if err := s.issueCode(ctx, user); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "password reset code issued",
		slog.Int64("user_id", user.ID),
	)

	return nil
}

// ResetPassword completes the reset flow: the code from RetryPassword plus
// the new password.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	if err := s.verifyCode(user, code); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = string(hash)
	user.ActivationCode = ""
	user.CodeExpiresAt = nil

	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	s.logger.InfoContext(ctx, "password reset",
		slog.Int64("user_id", user.ID),
	)

	return nil
}

// ChangePassword updates the password for an authenticated user after
// verifying the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return apperrors.Unauthorized("current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = string(hash)

	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	s.logger.InfoContext(ctx, "password changed",
		slog.Int64("user_id", userID),
	)

	return nil
}

// Profile returns the authenticated user's account with the avatar URL
// resolved.
func (s *AuthService) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	user.AvatarURL = s.rewriter.RewriteURL(ctx, user.AvatarKey)

	return user, nil
}

func (s *AuthService) issueCode(ctx context.Context, user *domain.User) error {
	code, err := generateActivationCode()
	if err != nil {
		return fmt.Errorf("generate activation code: %w", err)
	}

	expiresAt := time.Now().UTC().Add(activationCodeTTL)
	user.ActivationCode = code
	user.CodeExpiresAt = &expiresAt

	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("store activation code: %w", err)
	}

	return nil
}

func (s *AuthService) verifyCode(user *domain.User, code string) error {
	if user.ActivationCode == "" || user.ActivationCode != code {
		return apperrors.InvalidInput("invalid activation code")
	}
	if user.CodeExpiresAt == nil || time.Now().UTC().After(*user.CodeExpiresAt) {
		return apperrors.InvalidInput("activation code has expired")
	}
	return nil
}

func generateActivationCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < activationCodeSize; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%0*d", activationCodeSize, n), nil
}
