package usecase

import (
	"strings"

	"github.com/google/uuid"
)

// sameID compara dos identificadores como UUID, sin distinguir mayúsculas.
func sameID(a, b string) bool {
	ua, errA := uuid.Parse(a)
	ub, errB := uuid.Parse(b)
	if errA != nil || errB != nil {
		return strings.EqualFold(a, b)
	}
	return ua == ub
}
