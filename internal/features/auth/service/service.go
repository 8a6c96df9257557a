package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	initdata "github.com/telegram-mini-apps/init-data-golang"
	"golang.org/x/crypto/bcrypt"

	apperrors "broadcast-tool-backend/internal/common/errors"
	"broadcast-tool-backend/internal/features/auth/models"
	usermodels "broadcast-tool-backend/internal/features/user/models"
	userrepo "broadcast-tool-backend/internal/features/user/repository"
)

const refreshKeyPrefix = "auth:refresh:"

type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.TokenResponse, *usermodels.UserResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	ParseAccessToken(tokenString string) (*models.Claims, error)
	LinkTelegram(ctx context.Context, userID int64, initData string) (*usermodels.UserResponse, error)
}

type authService struct {
	users           userrepo.UserRepository
	redis           *goredis.Client
	secret          []byte
	botToken        string
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

func NewAuthService(users userrepo.UserRepository, redis *goredis.Client, secret, botToken string, accessTTL, refreshTTL time.Duration) AuthService {
	return &authService{
		users:           users,
		redis:           redis,
		secret:          []byte(secret),
		botToken:        botToken,
		accessTokenTTL:  accessTTL,
		refreshTokenTTL: refreshTTL,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.TokenResponse, *usermodels.UserResponse, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == userrepo.ErrUserNotFound {
			// Same error as a wrong password so login does not leak
			// which emails exist.
			return nil, nil, apperrors.New(apperrors.ErrCodeBadCredentials, "Invalid email or password")
		}
		return nil, nil, apperrors.NewDatabaseError("login lookup", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, apperrors.New(apperrors.ErrCodeBadCredentials, "Invalid email or password")
	}

	switch user.Status {
	case usermodels.StatusBanned:
		return nil, nil, apperrors.New(apperrors.ErrCodeUserBanned, "Account has been banned")
	case usermodels.StatusInactive:
		return nil, nil, apperrors.New(apperrors.ErrCodeUserInactive, "Account is inactive")
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return tokens, user.ToResponse(), nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	key := refreshKeyPrefix + refreshToken

	userIDStr, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		if err == goredis.Nil {
			return nil, apperrors.New(apperrors.ErrCodeTokenInvalid, "Refresh token is invalid or expired")
		}
		return nil, apperrors.NewCacheError("refresh token lookup", err)
	}

	// Rotate: a refresh token is single-use.
	if err := s.redis.Del(ctx, key).Err(); err != nil {
		return nil, apperrors.NewCacheError("refresh token rotation", err)
	}

	var userID int64
	if _, err := fmt.Sscanf(userIDStr, "%d", &userID); err != nil {
		return nil, apperrors.New(apperrors.ErrCodeTokenInvalid, "Malformed refresh token record")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == userrepo.ErrUserNotFound {
			return nil, apperrors.New(apperrors.ErrCodeTokenInvalid, "Account no longer exists")
		}
		return nil, apperrors.NewDatabaseError("refresh lookup", err)
	}

	if user.Status != usermodels.StatusActive {
		return nil, apperrors.New(apperrors.ErrCodeUserInactive, "Account is not active")
	}

	return s.issueTokens(ctx, user)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.redis.Del(ctx, refreshKeyPrefix+refreshToken).Err(); err != nil {
		return apperrors.NewCacheError("logout", err)
	}
	return nil
}

func (s *authService) ParseAccessToken(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.New(apperrors.ErrCodeTokenExpired, "Access token expired")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeTokenInvalid, "Invalid access token")
	}
	if !token.Valid {
		return nil, apperrors.New(apperrors.ErrCodeTokenInvalid, "Invalid access token")
	}

	return claims, nil
}

func (s *authService) LinkTelegram(ctx context.Context, userID int64, rawInitData string) (*usermodels.UserResponse, error) {
	if s.botToken == "" {
		return nil, apperrors.New(apperrors.ErrCodeTelegramAPI, "Telegram linking is not configured")
	}

	if err := initdata.Validate(rawInitData, s.botToken, time.Hour); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInvalidUserData, "Invalid Telegram init data")
	}

	parsed, err := initdata.Parse(rawInitData)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInvalidUserData, "Failed to parse Telegram init data")
	}

	if err := s.users.LinkTelegram(ctx, userID, parsed.User.ID, parsed.User.Username); err != nil {
		if err == userrepo.ErrUserNotFound {
			return nil, apperrors.NewUserNotFoundError(userID)
		}
		return nil, apperrors.NewDatabaseError("link telegram", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("link telegram reload", err)
	}

	return user.ToResponse(), nil
}

func (s *authService) issueTokens(ctx context.Context, user *usermodels.User) (*models.TokenResponse, error) {
	now := time.Now()

	claims := &models.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to sign access token")
	}

	refreshToken := uuid.New().String()
	key := refreshKeyPrefix + refreshToken
	if err := s.redis.Set(ctx, key, fmt.Sprintf("%d", user.ID), s.refreshTokenTTL).Err(); err != nil {
		return nil, apperrors.NewCacheError("store refresh token", err)
	}

	return &models.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.accessTokenTTL.Seconds()),
	}, nil
}
