package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "broadcast-tool-backend/internal/common/errors"
	"broadcast-tool-backend/internal/features/auth/models"
	usermodels "broadcast-tool-backend/internal/features/user/models"
	userrepo "broadcast-tool-backend/internal/features/user/repository"
)

const testSecret = "test-secret-used-only-in-tests-0123456789"

// stubUsers serves a single account by email and id.
type stubUsers struct {
	user *usermodels.User
}

func (s *stubUsers) GetByEmail(ctx context.Context, email string) (*usermodels.User, error) {
	if s.user != nil && s.user.Email == email {
		cp := *s.user
		return &cp, nil
	}
	return nil, userrepo.ErrUserNotFound
}

func (s *stubUsers) GetByID(ctx context.Context, id int64) (*usermodels.User, error) {
	if s.user != nil && s.user.ID == id {
		cp := *s.user
		return &cp, nil
	}
	return nil, userrepo.ErrUserNotFound
}

func (s *stubUsers) Create(ctx context.Context, user *usermodels.User) error { return nil }
func (s *stubUsers) List(ctx context.Context) ([]*usermodels.User, error)    { return nil, nil }
func (s *stubUsers) Update(ctx context.Context, user *usermodels.User) error { return nil }
func (s *stubUsers) Delete(ctx context.Context, id int64) error              { return nil }
func (s *stubUsers) UpdateRole(ctx context.Context, id int64, role string) error {
	return nil
}
func (s *stubUsers) UpdateStatus(ctx context.Context, id int64, status string) error {
	return nil
}
func (s *stubUsers) LinkTelegram(ctx context.Context, id int64, telegramID int64, telegramUsername string) error {
	return nil
}
func (s *stubUsers) CountByRole(ctx context.Context, role string) (int, error) { return 0, nil }

func deadRedis() *goredis.Client {
	return goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
}

func newTestService(user *usermodels.User) AuthService {
	return NewAuthService(&stubUsers{user: user}, deadRedis(), testSecret, "", 15*time.Minute, 30*24*time.Hour)
}

func activeUser(password string) *usermodels.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return &usermodels.User{
		ID:           1,
		Email:        "ops@example.com",
		PasswordHash: string(hash),
		Role:         usermodels.RoleOperator,
		Status:       usermodels.StatusActive,
	}
}

func assertCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestService(nil)

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever1")
	assertCode(t, err, apperrors.ErrCodeBadCredentials)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(activeUser("right-password"))

	_, _, err := svc.Login(context.Background(), "ops@example.com", "wrong-password")
	assertCode(t, err, apperrors.ErrCodeBadCredentials)
}

func TestLoginErrorsDoNotRevealWhichEmailsExist(t *testing.T) {
	svc := newTestService(activeUser("right-password"))

	_, _, unknownErr := svc.Login(context.Background(), "nobody@example.com", "whatever1")
	_, _, wrongErr := svc.Login(context.Background(), "ops@example.com", "wrong-password")

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestLoginBannedAccount(t *testing.T) {
	user := activeUser("right-password")
	user.Status = usermodels.StatusBanned
	svc := newTestService(user)

	_, _, err := svc.Login(context.Background(), "ops@example.com", "right-password")
	assertCode(t, err, apperrors.ErrCodeUserBanned)
}

func TestLoginInactiveAccount(t *testing.T) {
	user := activeUser("right-password")
	user.Status = usermodels.StatusInactive
	svc := newTestService(user)

	_, _, err := svc.Login(context.Background(), "ops@example.com", "right-password")
	assertCode(t, err, apperrors.ErrCodeUserInactive)
}

func signToken(t *testing.T, secret string, claims *models.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func testClaims(expiresAt time.Time) *models.Claims {
	return &models.Claims{
		UserID: 42,
		Email:  "ops@example.com",
		Role:   usermodels.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
}

func TestParseAccessToken(t *testing.T) {
	svc := newTestService(nil)
	token := signToken(t, testSecret, testClaims(time.Now().Add(15*time.Minute)))

	claims, err := svc.ParseAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "ops@example.com", claims.Email)
	assert.Equal(t, usermodels.RoleAdmin, claims.Role)
}

func TestParseAccessTokenExpired(t *testing.T) {
	svc := newTestService(nil)
	token := signToken(t, testSecret, testClaims(time.Now().Add(-time.Minute)))

	_, err := svc.ParseAccessToken(token)
	assertCode(t, err, apperrors.ErrCodeTokenExpired)
}

func TestParseAccessTokenWrongSecret(t *testing.T) {
	svc := newTestService(nil)
	token := signToken(t, "some-other-secret-entirely-0987654321", testClaims(time.Now().Add(15*time.Minute)))

	_, err := svc.ParseAccessToken(token)
	assertCode(t, err, apperrors.ErrCodeTokenInvalid)
}

func TestParseAccessTokenRejectsUnsignedToken(t *testing.T) {
	svc := newTestService(nil)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, testClaims(time.Now().Add(15*time.Minute))).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, parseErr := svc.ParseAccessToken(unsigned)
	assertCode(t, parseErr, apperrors.ErrCodeTokenInvalid)
}

func TestParseAccessTokenGarbage(t *testing.T) {
	svc := newTestService(nil)

	_, err := svc.ParseAccessToken("not.a.token")
	assertCode(t, err, apperrors.ErrCodeTokenInvalid)
}

func TestLinkTelegramWithoutBotToken(t *testing.T) {
	svc := newTestService(activeUser("right-password"))

	_, err := svc.LinkTelegram(context.Background(), 1, "query_id=abc")
	assertCode(t, err, apperrors.ErrCodeTelegramAPI)
}
