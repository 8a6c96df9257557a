package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "broadcast-tool-backend/internal/common/errors"
	"broadcast-tool-backend/internal/features/user/models"
	"broadcast-tool-backend/internal/features/user/repository"
)

// memoryRepository is an in-memory UserRepository for service tests.
type memoryRepository struct {
	users  map[int64]*models.User
	nextID int64
}

func newMemoryRepository(users ...*models.User) *memoryRepository {
	r := &memoryRepository{users: make(map[int64]*models.User), nextID: 1}
	for _, u := range users {
		if u.ID >= r.nextID {
			r.nextID = u.ID + 1
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *memoryRepository) Create(ctx context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *memoryRepository) List(ctx context.Context) ([]*models.User, error) {
	out := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memoryRepository) Update(ctx context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memoryRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *memoryRepository) UpdateRole(ctx context.Context, id int64, role string) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (r *memoryRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Status = status
	return nil
}

func (r *memoryRepository) LinkTelegram(ctx context.Context, id int64, telegramID int64, telegramUsername string) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.TelegramID = telegramID
	u.TelegramUsername = telegramUsername
	return nil
}

func (r *memoryRepository) CountByRole(ctx context.Context, role string) (int, error) {
	count := 0
	for _, u := range r.users {
		if u.Role == role && u.Status == models.StatusActive {
			count++
		}
	}
	return count, nil
}

func admin(id int64, email string) *models.User {
	return &models.User{ID: id, Email: email, Role: models.RoleAdmin, Status: models.StatusActive}
}

func assertCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
}

func TestCreateUserHashesPassword(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewUserService(repo)

	resp, err := svc.CreateUser(context.Background(), &models.CreateUserRequest{
		Email:    "ops@example.com",
		Password: "super-secret",
		FullName: "Stream Ops",
		Role:     models.RoleOperator,
	})
	require.NoError(t, err)

	stored := repo.users[resp.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "super-secret", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("super-secret")))
	assert.Equal(t, models.StatusActive, stored.Status)
}

func TestCreateUserValidation(t *testing.T) {
	svc := NewUserService(newMemoryRepository())

	tests := []struct {
		name string
		req  *models.CreateUserRequest
	}{
		{"bad email", &models.CreateUserRequest{Email: "nope", Password: "super-secret", FullName: "X", Role: "user"}},
		{"short password", &models.CreateUserRequest{Email: "a@b.co", Password: "short", FullName: "X", Role: "user"}},
		{"empty name", &models.CreateUserRequest{Email: "a@b.co", Password: "super-secret", FullName: " ", Role: "user"}},
		{"unknown role", &models.CreateUserRequest{Email: "a@b.co", Password: "super-secret", FullName: "X", Role: "root"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateUser(context.Background(), tt.req)
			assertCode(t, err, apperrors.ErrCodeValidation)
		})
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	repo := newMemoryRepository(&models.User{ID: 1, Email: "ops@example.com", Role: models.RoleUser, Status: models.StatusActive})
	svc := NewUserService(repo)

	_, err := svc.CreateUser(context.Background(), &models.CreateUserRequest{
		Email:    "ops@example.com",
		Password: "super-secret",
		FullName: "Dup",
		Role:     models.RoleUser,
	})
	assertCode(t, err, apperrors.ErrCodeEmailTaken)
}

func TestGetUserNotFound(t *testing.T) {
	svc := NewUserService(newMemoryRepository())

	_, err := svc.GetUser(context.Background(), 404)
	assertCode(t, err, apperrors.ErrCodeUserNotFound)
}

func TestUpdateUserPartialFields(t *testing.T) {
	repo := newMemoryRepository(&models.User{
		ID: 1, Email: "old@example.com", FullName: "Old Name",
		Role: models.RoleUser, Status: models.StatusActive,
	})
	svc := NewUserService(repo)

	resp, err := svc.UpdateUser(context.Background(), 1, &models.UpdateUserRequest{FullName: "New Name"})
	require.NoError(t, err)

	assert.Equal(t, "New Name", resp.FullName)
	assert.Equal(t, "old@example.com", resp.Email, "untouched fields keep their values")
}

func TestDemoteLastAdminRejected(t *testing.T) {
	repo := newMemoryRepository(admin(1, "root@example.com"))
	svc := NewUserService(repo)

	err := svc.UpdateUserRole(context.Background(), 1, models.RoleOperator)
	assertCode(t, err, apperrors.ErrCodeLastAdmin)
	assert.Equal(t, models.RoleAdmin, repo.users[1].Role)
}

func TestDemoteAdminWithAnotherRemaining(t *testing.T) {
	repo := newMemoryRepository(admin(1, "root@example.com"), admin(2, "second@example.com"))
	svc := NewUserService(repo)

	require.NoError(t, svc.UpdateUserRole(context.Background(), 1, models.RoleOperator))
	assert.Equal(t, models.RoleOperator, repo.users[1].Role)
}

func TestPromoteDoesNotTriggerLastAdminGuard(t *testing.T) {
	repo := newMemoryRepository(
		admin(1, "root@example.com"),
		&models.User{ID: 2, Email: "user@example.com", Role: models.RoleUser, Status: models.StatusActive},
	)
	svc := NewUserService(repo)

	require.NoError(t, svc.UpdateUserRole(context.Background(), 2, models.RoleAdmin))
}

func TestDeactivateLastAdminRejected(t *testing.T) {
	repo := newMemoryRepository(admin(1, "root@example.com"))
	svc := NewUserService(repo)

	err := svc.UpdateUserStatus(context.Background(), 1, models.StatusInactive)
	assertCode(t, err, apperrors.ErrCodeLastAdmin)
}

func TestBanNonAdminAllowed(t *testing.T) {
	repo := newMemoryRepository(
		admin(1, "root@example.com"),
		&models.User{ID: 2, Email: "user@example.com", Role: models.RoleUser, Status: models.StatusActive},
	)
	svc := NewUserService(repo)

	require.NoError(t, svc.UpdateUserStatus(context.Background(), 2, models.StatusBanned))
	assert.Equal(t, models.StatusBanned, repo.users[2].Status)
}

func TestDeleteLastAdminRejected(t *testing.T) {
	repo := newMemoryRepository(admin(1, "root@example.com"))
	svc := NewUserService(repo)

	err := svc.DeleteUser(context.Background(), 1)
	assertCode(t, err, apperrors.ErrCodeLastAdmin)
	assert.Contains(t, repo.users, int64(1))
}

func TestDeleteAdminWithAnotherRemaining(t *testing.T) {
	repo := newMemoryRepository(admin(1, "root@example.com"), admin(2, "second@example.com"))
	svc := NewUserService(repo)

	require.NoError(t, svc.DeleteUser(context.Background(), 1))
	assert.NotContains(t, repo.users, int64(1))
}

func TestDeleteBannedAdminWithOneActiveRemaining(t *testing.T) {
	// A banned admin is not part of the active count, so removing it must
	// not trip the last-admin guard.
	banned := admin(2, "former@example.com")
	banned.Status = models.StatusBanned
	repo := newMemoryRepository(admin(1, "root@example.com"), banned)
	svc := NewUserService(repo)

	require.NoError(t, svc.DeleteUser(context.Background(), 2))
	assert.NotContains(t, repo.users, int64(2))
}

func TestDemoteBannedAdminAllowed(t *testing.T) {
	banned := admin(2, "former@example.com")
	banned.Status = models.StatusBanned
	repo := newMemoryRepository(admin(1, "root@example.com"), banned)
	svc := NewUserService(repo)

	require.NoError(t, svc.UpdateUserRole(context.Background(), 2, models.RoleUser))
	assert.Equal(t, models.RoleUser, repo.users[2].Role)
}

func TestListUsersOmitsPasswordHash(t *testing.T) {
	repo := newMemoryRepository(&models.User{
		ID: 1, Email: "ops@example.com", PasswordHash: "$2a$10$abc",
		Role: models.RoleUser, Status: models.StatusActive,
	})
	svc := NewUserService(repo)

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "ops@example.com", users[0].Email)
}
