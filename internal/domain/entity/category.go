package entity

import "time"

// Category representa una categoría de productos de una empresa.
type Category struct {
	ID        string
	CompanyID string
	Name      string // único por empresa entre categorías activas
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
