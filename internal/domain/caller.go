package domain

import "slices"

// Caller es la identidad autenticada que origina una operación.
// Se construye una sola vez a partir del token y se pasa explícitamente a cada caso de uso;
// CompanyID es la única fuente del tenant para lecturas, escrituras y altas.
type Caller struct {
	UserID    string
	CompanyID string
	Roles     []string
}

// NewCaller copia los roles para que el valor no comparta estado con quien lo construye.
func NewCaller(userID, companyID string, roles []string) Caller {
	return Caller{UserID: userID, CompanyID: companyID, Roles: slices.Clone(roles)}
}

// HasRole indica si el caller tiene el rol dado.
func (c Caller) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// HasAnyRole indica si el caller tiene alguno de los roles dados.
func (c Caller) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if c.HasRole(r) {
			return true
		}
	}
	return false
}

// Valid indica si la identidad tiene usuario y empresa.
func (c Caller) Valid() bool {
	return c.UserID != "" && c.CompanyID != ""
}
