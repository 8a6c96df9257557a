package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	apperrors "broadcast-tool-backend/internal/common/errors"
	"broadcast-tool-backend/internal/common/middleware"
	"broadcast-tool-backend/internal/features/auth/models"
	usermodels "broadcast-tool-backend/internal/features/user/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubAuthService accepts any bearer token and resolves it to fixed claims.
type stubAuthService struct {
	claims *models.Claims
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*models.TokenResponse, *usermodels.UserResponse, error) {
	return nil, nil, apperrors.New(apperrors.ErrCodeBadCredentials, "Invalid email or password")
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	return nil, apperrors.New(apperrors.ErrCodeTokenInvalid, "Invalid refresh token")
}

func (s *stubAuthService) Logout(ctx context.Context, refreshToken string) error {
	return nil
}

func (s *stubAuthService) ParseAccessToken(tokenString string) (*models.Claims, error) {
	if s.claims == nil {
		return nil, apperrors.New(apperrors.ErrCodeTokenInvalid, "Invalid token")
	}
	return s.claims, nil
}

func (s *stubAuthService) LinkTelegram(ctx context.Context, userID int64, initData string) (*usermodels.UserResponse, error) {
	return &usermodels.UserResponse{ID: userID}, nil
}

// stubUserService serves one fixed account for the status middleware.
type stubUserService struct {
	user *usermodels.UserResponse
}

func (s *stubUserService) GetUser(ctx context.Context, id int64) (*usermodels.UserResponse, error) {
	return s.user, nil
}

func (s *stubUserService) GetUserModel(ctx context.Context, id int64) (*usermodels.User, error) {
	return nil, apperrors.NewUserNotFoundError(id)
}

func (s *stubUserService) ListUsers(ctx context.Context) ([]*usermodels.UserResponse, error) {
	return nil, nil
}

func (s *stubUserService) CreateUser(ctx context.Context, req *usermodels.CreateUserRequest) (*usermodels.UserResponse, error) {
	return nil, nil
}

func (s *stubUserService) UpdateUser(ctx context.Context, id int64, req *usermodels.UpdateUserRequest) (*usermodels.UserResponse, error) {
	return nil, nil
}

func (s *stubUserService) UpdateUserRole(ctx context.Context, id int64, role string) error {
	return nil
}

func (s *stubUserService) UpdateUserStatus(ctx context.Context, id int64, status string) error {
	return nil
}

func (s *stubUserService) DeleteUser(ctx context.Context, id int64) error {
	return nil
}

func setupRouter(status string) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())

	claims := &models.Claims{UserID: 42, Email: "ops@example.com", Role: usermodels.RoleOperator}
	user := &usermodels.UserResponse{ID: 42, Email: "ops@example.com", Role: usermodels.RoleOperator, Status: status}

	NewAuthHandler(&stubAuthService{claims: claims}, &stubUserService{user: user}).
		RegisterRoutes(router.Group("/api"))
	return router
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer test-token")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestMeAllowsActiveAccount(t *testing.T) {
	rec := doRequest(setupRouter(usermodels.StatusActive), http.MethodGet, "/api/auth/me", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":42`)
}

func TestMeRejectsBannedAccount(t *testing.T) {
	rec := doRequest(setupRouter(usermodels.StatusBanned), http.MethodGet, "/api/auth/me", "")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), string(apperrors.ErrCodeUserBanned))
}

func TestMeRejectsInactiveAccount(t *testing.T) {
	rec := doRequest(setupRouter(usermodels.StatusInactive), http.MethodGet, "/api/auth/me", "")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), string(apperrors.ErrCodeUserInactive))
}

func TestLinkTelegramRejectsBannedAccount(t *testing.T) {
	rec := doRequest(setupRouter(usermodels.StatusBanned),
		http.MethodPost, "/api/auth/telegram/link", `{"init_data":"query_id=x"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLogoutStaysOpenForBannedAccount(t *testing.T) {
	// A banned account must still be able to revoke its refresh token.
	rec := doRequest(setupRouter(usermodels.StatusBanned),
		http.MethodPost, "/api/auth/logout", `{"refresh_token":"tok"}`)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
