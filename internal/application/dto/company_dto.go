package dto

import "time"

// CreateCompanyRequest alta de una empresa junto con su primer administrador.
type CreateCompanyRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=200"`
	LegalID       string `json:"legalId" validate:"required,min=3,max=50"`
	AdminName     string `json:"adminName" validate:"required,min=1,max=200"`
	AdminEmail    string `json:"adminEmail" validate:"required,email,max=200"`
	AdminPassword string `json:"adminPassword" validate:"required,min=8,max=72"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	LegalID   string    `json:"legalId"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateCompanyResponse empresa creada y su administrador.
type CreateCompanyResponse struct {
	Company CompanyResponse `json:"company"`
	Admin   UserResponse    `json:"admin"`
}
