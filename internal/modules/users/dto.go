package users

import "tourism/internal/domain"

type CreateUserRequest struct {
	Username string          `json:"username" binding:"required" validate:"required,min=3,max=50"`
	Email    string          `json:"email" binding:"required" validate:"required,email"`
	Password string          `json:"password" binding:"required" validate:"required,min=6"`
	FullName string          `json:"full_name"`
	Role     domain.UserRole `json:"role"`
}

// UpdateUserRequest is a partial edit made by an admin.
type UpdateUserRequest struct {
	Username *string          `json:"username"`
	Email    *string          `json:"email"`
	FullName *string          `json:"full_name"`
	Role     *domain.UserRole `json:"role"`
	IsActive *bool            `json:"isActive"`
	Password *string          `json:"password"`
}

type UserListResponse struct {
	Users []domain.User `json:"users"`
	Count int           `json:"count"`
}
