package entity

import "time"

// Company representa una organización/tenant del sistema.
// Una empresa inactiva bloquea el login y toda operación de sus usuarios.
type Company struct {
	ID        string
	Name      string
	LegalID   string // identificación legal (NIT, RUT...), única en la plataforma
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
