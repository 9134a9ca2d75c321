package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/fairgrounds/registration-service/internal/domain"
	"github.com/fairgrounds/registration-service/internal/repository"
	"github.com/fairgrounds/registration-service/internal/service"
)

// CreateUserRequest payload for new accounts.
type CreateUserRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

func (req *CreateUserRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required, validation.Length(8, 128)),
		validation.Field(&req.Role, validation.Required, validation.In(domain.RoleAdmin, domain.RoleModerator)),
	)
}

// ToInput maps the request onto the service input type.
func (req *CreateUserRequest) ToInput() service.UserCreateInput {
	return service.UserCreateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	}
}

// UpdateUserRequest payload for partial account updates.
type UpdateUserRequest struct {
	Name     *string      `json:"name,omitempty"`
	Email    *string      `json:"email,omitempty"`
	Role     *domain.Role `json:"role,omitempty"`
	IsActive *bool        `json:"isActive,omitempty"`
	Password *string      `json:"password,omitempty"`
}

func (req *UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Length(1, 100)),
		validation.Field(&req.Email, is.Email),
		validation.Field(&req.Role, validation.In(domain.RoleAdmin, domain.RoleModerator)),
		validation.Field(&req.Password, validation.Length(8, 128)),
	)
}

// ToInput maps the request onto the service input type.
func (req *UpdateUserRequest) ToInput() service.UserUpdateInput {
	return service.UserUpdateInput{
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		IsActive: req.IsActive,
		Password: req.Password,
	}
}

// UserResponse is the account representation. The password hash never
// leaves the service.
type UserResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	IsActive  bool        `json:"isActive"`
	LastLogin *time.Time  `json:"lastLogin,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// FromUser builds the response representation.
func FromUser(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		IsActive:  user.IsActive,
		LastLogin: user.LastLogin,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// UserListResponse wraps a page of accounts.
type UserListResponse struct {
	Users      []UserResponse  `json:"users"`
	Pagination repository.Page `json:"pagination"`
}

// FromUsers builds a list response.
func FromUsers(users []domain.User, page repository.Page) UserListResponse {
	items := make([]UserResponse, 0, len(users))
	for i := range users {
		items = append(items, FromUser(&users[i]))
	}
	return UserListResponse{Users: items, Pagination: page}
}
