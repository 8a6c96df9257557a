package service

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	apperrors "broadcast-tool-backend/internal/common/errors"
	"broadcast-tool-backend/internal/common/validation"
	"broadcast-tool-backend/internal/features/user/models"
	"broadcast-tool-backend/internal/features/user/repository"
)

type UserService interface {
	GetUser(ctx context.Context, id int64) (*models.UserResponse, error)
	GetUserModel(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.UserResponse, error)
	CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.UserResponse, error)
	UpdateUser(ctx context.Context, id int64, req *models.UpdateUserRequest) (*models.UserResponse, error)
	UpdateUserRole(ctx context.Context, id int64, role string) error
	UpdateUserStatus(ctx context.Context, id int64, status string) error
	DeleteUser(ctx context.Context, id int64) error
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) GetUser(ctx context.Context, id int64) (*models.UserResponse, error) {
	user, err := s.GetUserModel(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

func (s *userService) GetUserModel(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return nil, apperrors.NewUserNotFoundError(id)
		}
		return nil, apperrors.NewDatabaseError("get user", err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]*models.UserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list users", err)
	}

	responses := make([]*models.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, user.ToResponse())
	}
	return responses, nil
}

func (s *userService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.UserResponse, error) {
	if err := validation.ValidateEmail(req.Email); err != nil {
		return nil, apperrors.NewValidationError("email", err.Error())
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.NewValidationError("password", err.Error())
	}
	if err := validation.ValidateFullName(req.FullName); err != nil {
		return nil, apperrors.NewValidationError("full_name", err.Error())
	}
	if err := validation.ValidateRole(req.Role); err != nil {
		return nil, apperrors.NewValidationError("role", err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to hash password")
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         req.Role,
		Status:       models.StatusActive,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if err == repository.ErrEmailTaken {
			return nil, apperrors.New(apperrors.ErrCodeEmailTaken, "Email already registered").
				WithDetail("email", req.Email)
		}
		return nil, apperrors.NewDatabaseError("create user", err)
	}

	return user.ToResponse(), nil
}

func (s *userService) UpdateUser(ctx context.Context, id int64, req *models.UpdateUserRequest) (*models.UserResponse, error) {
	user, err := s.GetUserModel(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != "" {
		if err := validation.ValidateEmail(req.Email); err != nil {
			return nil, apperrors.NewValidationError("email", err.Error())
		}
		user.Email = req.Email
	}
	if req.FullName != "" {
		if err := validation.ValidateFullName(req.FullName); err != nil {
			return nil, apperrors.NewValidationError("full_name", err.Error())
		}
		user.FullName = req.FullName
	}
	if req.Password != "" {
		if err := validation.ValidatePassword(req.Password); err != nil {
			return nil, apperrors.NewValidationError("password", err.Error())
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to hash password")
		}
		user.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if err == repository.ErrEmailTaken {
			return nil, apperrors.New(apperrors.ErrCodeEmailTaken, "Email already registered").
				WithDetail("email", req.Email)
		}
		return nil, apperrors.NewDatabaseError("update user", err)
	}

	return user.ToResponse(), nil
}

func (s *userService) UpdateUserRole(ctx context.Context, id int64, role string) error {
	if err := validation.ValidateRole(role); err != nil {
		return apperrors.NewValidationError("role", err.Error())
	}

	user, err := s.GetUserModel(ctx, id)
	if err != nil {
		return err
	}

	// Demoting the only remaining admin would lock everyone out of the
	// admin dashboard. Non-active admins are not in the count, so touching
	// them cannot reduce it.
	if user.Role == models.RoleAdmin && user.Status == models.StatusActive && role != models.RoleAdmin {
		if err := s.ensureNotLastAdmin(ctx); err != nil {
			return err
		}
	}

	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		return apperrors.NewDatabaseError("update role", err)
	}

	return nil
}

func (s *userService) UpdateUserStatus(ctx context.Context, id int64, status string) error {
	if err := validation.ValidateStatus(status); err != nil {
		return apperrors.NewValidationError("status", err.Error())
	}

	user, err := s.GetUserModel(ctx, id)
	if err != nil {
		return err
	}

	if user.Role == models.RoleAdmin && user.Status == models.StatusActive && status != models.StatusActive {
		if err := s.ensureNotLastAdmin(ctx); err != nil {
			return err
		}
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return apperrors.NewDatabaseError("update status", err)
	}

	return nil
}

func (s *userService) DeleteUser(ctx context.Context, id int64) error {
	user, err := s.GetUserModel(ctx, id)
	if err != nil {
		return err
	}

	if user.Role == models.RoleAdmin && user.Status == models.StatusActive {
		if err := s.ensureNotLastAdmin(ctx); err != nil {
			return err
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.NewDatabaseError("delete user", err)
	}

	return nil
}

func (s *userService) ensureNotLastAdmin(ctx context.Context) error {
	count, err := s.repo.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return apperrors.NewDatabaseError("count admins", err)
	}
	if count <= 1 {
		return apperrors.New(apperrors.ErrCodeLastAdmin, "Cannot remove the last active admin")
	}
	return nil
}
