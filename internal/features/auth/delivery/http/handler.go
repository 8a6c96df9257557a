package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"broadcast-tool-backend/internal/common/middleware"
	"broadcast-tool-backend/internal/features/auth/models"
	"broadcast-tool-backend/internal/features/auth/service"
	userservice "broadcast-tool-backend/internal/features/user/service"
)

type AuthHandler struct {
	service     service.AuthService
	userService userservice.UserService
}

func NewAuthHandler(svc service.AuthService, userSvc userservice.UserService) *AuthHandler {
	return &AuthHandler{
		service:     svc,
		userService: userSvc,
	}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/login", h.login)
		auth.POST("/refresh", h.refresh)
	}

	authorized := router.Group("/auth")
	authorized.Use(middleware.Authenticate(h.service))
	{
		// Logout stays reachable for banned accounts so their refresh
		// tokens can still be revoked.
		authorized.POST("/logout", h.logout)

		active := authorized.Group("")
		active.Use(middleware.CheckAccountStatus(h.userService))
		{
			active.GET("/me", h.me)
			active.POST("/telegram/link", h.linkTelegram)
		}
	}
}

// @Summary Log in
// @Description Exchange email and password for an access/refresh token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body models.LoginRequest true "Login credentials"
// @Success 200 {object} models.LoginResponse "Token pair and account"
// @Failure 401 {object} middleware.ErrorResponse "Invalid credentials"
// @Failure 403 {object} middleware.ErrorResponse "Account banned or inactive"
// @Router /auth/login [post]
func (h *AuthHandler) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, user, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{
		Tokens: tokens,
		User:   user,
	})
}

// @Summary Refresh tokens
// @Description Rotate a refresh token into a new access/refresh token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param token body models.RefreshRequest true "Refresh token"
// @Success 200 {object} models.TokenResponse "New token pair"
// @Failure 401 {object} middleware.ErrorResponse "Invalid or expired refresh token"
// @Router /auth/refresh [post]
func (h *AuthHandler) refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// @Summary Log out
// @Description Revoke the supplied refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param token body models.RefreshRequest true "Refresh token to revoke"
// @Success 204 "Logged out"
// @Router /auth/logout [post]
func (h *AuthHandler) logout(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Current user
// @Description Return the authenticated account, used by the dashboard to pick the role view
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserResponse "Account data"
// @Failure 401 {object} middleware.ErrorResponse "Unauthorized"
// @Failure 403 {object} middleware.ErrorResponse "Account banned or inactive"
// @Router /auth/me [get]
func (h *AuthHandler) me(c *gin.Context) {
	userID := c.GetInt64("user_id")

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Link Telegram account
// @Description Validate Telegram Mini App init data and bind the Telegram identity to the current account
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param init_data body models.TelegramLinkRequest true "Telegram init data"
// @Success 200 {object} models.UserResponse "Updated account"
// @Failure 400 {object} middleware.ErrorResponse "Invalid init data"
// @Failure 403 {object} middleware.ErrorResponse "Account banned or inactive"
// @Router /auth/telegram/link [post]
func (h *AuthHandler) linkTelegram(c *gin.Context) {
	var req models.TelegramLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.LinkTelegram(c.Request.Context(), c.GetInt64("user_id"), req.InitData)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
