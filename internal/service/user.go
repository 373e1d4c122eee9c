package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/domain"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/media"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/repository"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/internal/storage"
	apperrors "github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/errors"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/pagination"
)

// UserService handles admin user management and profile updates.
type UserService struct {
	users    repository.UserRepository
	storage  storage.Storage
	rewriter *media.Rewriter
	logger   *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(users repository.UserRepository, st storage.Storage, rewriter *media.Rewriter, logger *slog.Logger) *UserService {
	return &UserService{
		users:    users,
		storage:  st,
		rewriter: rewriter,
		logger:   logger,
	}
}

// Get retrieves a user by id with the avatar URL resolved.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	user.AvatarURL = s.rewriter.RewriteURL(ctx, user.AvatarKey)

	return user, nil
}

// List retrieves one page of users with avatar URLs resolved.
func (s *UserService) List(ctx context.Context, params pagination.Params) ([]domain.User, int, error) {
	users, total, err := s.users.List(ctx, repository.Page{Limit: params.PerPage, Offset: params.Offset})
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	for i := range users {
		users[i].AvatarURL = s.rewriter.RewriteURL(ctx, users[i].AvatarKey)
	}

	return users, total, nil
}

// UpdateProfileInput holds the partial-update fields for a user profile.
// Nil fields are left unchanged.
type UpdateProfileInput struct {
	FullName *string
	Phone    *string
}

// UpdateProfile applies a partial update to the user's profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	user.AvatarURL = s.rewriter.RewriteURL(ctx, user.AvatarKey)

	s.logger.InfoContext(ctx, "user profile updated",
		slog.Int64("user_id", userID),
	)

	return user, nil
}

// UpdateRoleInput holds the admin-only role and activation toggles.
type UpdateRoleInput struct {
	Role     *string
	IsActive *bool
}

// UpdateRole applies role or activation changes to a user (admin only,
// enforced at the route).
func (s *UserService) UpdateRole(ctx context.Context, userID int64, input UpdateRoleInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if input.Role != nil {
		if !domain.IsValidRole(*input.Role) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("invalid role %q", *input.Role))
		}
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.InfoContext(ctx, "user role updated",
		slog.Int64("user_id", userID),
		slog.String("role", user.Role),
	)

	return user, nil
}

// UploadAvatar stores a new avatar object and points the user at it. The old
// object is removed afterwards on a best effort basis.
func (s *UserService) UploadAvatar(ctx context.Context, userID int64, contentType string, body io.Reader) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	key := fmt.Sprintf("avatars/%d/%s", userID, uuid.New().String())
	if err := s.storage.Upload(ctx, key, contentType, body); err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}

	oldKey := user.AvatarKey
	user.AvatarKey = key

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	if oldKey != "" {
		if err := s.storage.Delete(ctx, []string{oldKey}); err != nil {
			s.logger.WarnContext(ctx, "failed to delete old avatar",
				slog.Int64("user_id", userID),
				slog.String("storage_key", oldKey),
				slog.String("error", err.Error()),
			)
		}
	}

	user.AvatarURL = s.rewriter.RewriteURL(ctx, user.AvatarKey)

	s.logger.InfoContext(ctx, "avatar uploaded",
		slog.Int64("user_id", userID),
	)

	return user, nil
}

// Delete removes a user account (admin only, enforced at the route).
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.logger.InfoContext(ctx, "user deleted",
		slog.Int64("user_id", id),
	)

	return nil
}
