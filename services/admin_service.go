package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/gnbf/badminton-registry/models"
	"github.com/gnbf/badminton-registry/repositories"
	"github.com/gnbf/badminton-registry/validation"
)

const (
	defaultUserPageSize = 20
	maxUserPageSize     = 100
)

// AdminUserService manages accounts. Every method expects an admin caller;
// the router enforces that before the call.
type AdminUserService interface {
	ListUsers(ctx context.Context, filter models.UserFilter) (*models.UserListResponse, error)
	ChangeRole(ctx context.Context, actor *Claims, userID int, role models.UserRole) (*models.User, error)
	DeleteUser(ctx context.Context, actor *Claims, userID int) error
}

type adminUserService struct {
	userRepo repositories.UserRepository
}

func NewAdminUserService(userRepo repositories.UserRepository) AdminUserService {
	return &adminUserService{userRepo: userRepo}
}

func (s *adminUserService) ListUsers(ctx context.Context, filter models.UserFilter) (*models.UserListResponse, error) {
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, validation.Field("role", "must be one of: viewer, editor, admin")
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	filter.Limit = ClampLimit(filter.Limit, defaultUserPageSize, maxUserPageSize)

	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return &models.UserListResponse{
		Users:      users,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// ChangeRole refuses to touch the caller's own account so the last admin
// cannot lock everyone out.
func (s *adminUserService) ChangeRole(ctx context.Context, actor *Claims, userID int, role models.UserRole) (*models.User, error) {
	if !role.Valid() {
		return nil, validation.Field("role", "must be one of: viewer, editor, admin")
	}
	if actor == nil || actor.UserID == userID {
		return nil, ErrForbiddenOperation
	}

	if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to change role of user %d: %w", userID, err)
	}
	return s.userRepo.GetByID(ctx, userID)
}

func (s *adminUserService) DeleteUser(ctx context.Context, actor *Claims, userID int) error {
	if actor == nil || actor.UserID == userID {
		return ErrForbiddenOperation
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user %d: %w", userID, err)
	}
	return nil
}
