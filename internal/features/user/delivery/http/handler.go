package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"broadcast-tool-backend/internal/common/middleware"
	"broadcast-tool-backend/internal/features/user/models"
	"broadcast-tool-backend/internal/features/user/service"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterRoutes mounts user administration under the authenticated group.
// Everything here is admin-only.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/admin/users")
	users.Use(middleware.RequireRole(models.RoleAdmin))
	{
		users.GET("", h.listUsers)
		users.POST("", h.createUser)
		users.GET("/:id", h.getUser)
		users.PUT("/:id", h.updateUser)
		users.DELETE("/:id", h.deleteUser)
		users.PUT("/:id/role", h.updateUserRole)
		users.PUT("/:id/status", h.updateUserStatus)
	}
}

// @Summary List users
// @Description List all accounts (admin only)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.UserResponse "Accounts"
// @Failure 403 {object} middleware.ErrorResponse "Forbidden"
// @Router /admin/users [get]
func (h *UserHandler) listUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// @Summary Create user
// @Description Create a new account (admin only)
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body models.CreateUserRequest true "New account"
// @Success 201 {object} models.UserResponse "Created account"
// @Failure 409 {object} middleware.ErrorResponse "Email already registered"
// @Router /admin/users [post]
func (h *UserHandler) createUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), &req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// @Summary Get user
// @Description Get one account by ID (admin only)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.UserResponse "Account"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Router /admin/users/{id} [get]
func (h *UserHandler) getUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Update user
// @Description Update account profile fields (admin only)
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param user body models.UpdateUserRequest true "Profile changes"
// @Success 200 {object} models.UserResponse "Updated account"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Router /admin/users/{id} [put]
func (h *UserHandler) updateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.UpdateUser(c.Request.Context(), id, &req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Delete user
// @Description Delete an account (admin only). The last active admin cannot be deleted.
// @Tags users
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204 "Deleted"
// @Failure 409 {object} middleware.ErrorResponse "Last admin"
// @Router /admin/users/{id} [delete]
func (h *UserHandler) deleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Update user role
// @Description Change an account role (admin only). Demoting the last active admin is rejected.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param role body models.RoleUpdate true "New role"
// @Success 200 {object} models.UserResponse "Updated account"
// @Failure 409 {object} middleware.ErrorResponse "Last admin"
// @Router /admin/users/{id}/role [put]
func (h *UserHandler) updateUserRole(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.RoleUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.UpdateUserRole(c.Request.Context(), id, req.Role); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Update user status
// @Description Change an account status (admin only)
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param status body models.StatusUpdate true "New status"
// @Success 200 {object} models.UserResponse "Updated account"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Router /admin/users/{id}/status [put]
func (h *UserHandler) updateUserStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.StatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.UpdateUserStatus(c.Request.Context(), id, req.Status); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return 0, false
	}
	return id, true
}
