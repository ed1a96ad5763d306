package dto

import "time"

// CreateUserRequest entrada para crear un usuario en la empresa del caller (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Email    string   `json:"email" validate:"required,email,max=200"`
	Password string   `json:"password" validate:"required,min=8,max=72"`
	Name     string   `json:"name" validate:"required,min=1,max=200"`
	Roles    []string `json:"roles" validate:"required,min=1,dive,oneof=admin employee"`
}

// UpdateUserRequest entrada para actualizar un usuario. Campos nil no se modifican.
type UpdateUserRequest struct {
	Name     *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Password *string  `json:"password" validate:"omitempty,min=8,max=72"`
	Roles    []string `json:"roles" validate:"omitempty,min=1,dive,oneof=admin employee"`
	IsActive *bool    `json:"isActive"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"companyId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Roles     []string  `json:"roles"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

// ProfileResponse usuario autenticado y su empresa.
type ProfileResponse struct {
	User    UserResponse    `json:"user"`
	Company CompanyResponse `json:"company"`
}
