package models

import "time"

// Roles understood by the dashboard routing.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
	RoleUser     = "user"
)

// Account statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusBanned   = "banned"
)

// User is the full account model stored in Postgres.
// @Description Full account model
type User struct {
	ID               int64     `json:"id" example:"42"`
	Email            string    `json:"email" example:"admin@example.com"`
	PasswordHash     string    `json:"-"`
	FullName         string    `json:"full_name" example:"Jane Doe"`
	Role             string    `json:"role" example:"operator" enums:"admin,operator,user"`
	Status           string    `json:"status" example:"active" enums:"active,inactive,banned"`
	TelegramID       int64     `json:"telegram_id,omitempty" example:"123456789"`
	TelegramUsername string    `json:"telegram_username,omitempty" example:"janedoe"`
	CreatedAt        time.Time `json:"created_at" example:"2024-03-15T14:30:00Z"`
	UpdatedAt        time.Time `json:"updated_at" example:"2024-03-15T14:30:00Z"`
}

// UserResponse is the public account view returned by the API.
// @Description Public account information
type UserResponse struct {
	ID               int64  `json:"id" example:"42"`
	Email            string `json:"email" example:"admin@example.com"`
	FullName         string `json:"full_name" example:"Jane Doe"`
	Role             string `json:"role" example:"operator" enums:"admin,operator,user"`
	Status           string `json:"status" example:"active" enums:"active,inactive,banned"`
	TelegramID       int64  `json:"telegram_id,omitempty" example:"123456789"`
	TelegramUsername string `json:"telegram_username,omitempty" example:"janedoe"`
}

// CreateUserRequest is the admin payload for creating an account.
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// UpdateUserRequest is the admin payload for editing an account profile.
type UpdateUserRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

// RoleUpdate is the payload for changing an account role.
type RoleUpdate struct {
	Role string `json:"role" binding:"required" example:"operator"`
}

// StatusUpdate is the payload for changing an account status.
type StatusUpdate struct {
	Status string `json:"status" binding:"required" example:"banned"`
}

// ToResponse converts the stored model to its public view.
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:               u.ID,
		Email:            u.Email,
		FullName:         u.FullName,
		Role:             u.Role,
		Status:           u.Status,
		TelegramID:       u.TelegramID,
		TelegramUsername: u.TelegramUsername,
	}
}
