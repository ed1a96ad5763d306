package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/erp-saas-api/internal/domain/repository"
)

// CompanyStatusService informa si una empresa está activa.
// Es el único punto que consulta el estado en cada request; el resultado se cachea.
type CompanyStatusService struct {
	companyRepo repository.CompanyRepository
	cache       CompanyStatusCache
}

// NewCompanyStatusService construye el servicio. cache puede ser nil.
func NewCompanyStatusService(companyRepo repository.CompanyRepository, cache CompanyStatusCache) *CompanyStatusService {
	return &CompanyStatusService{companyRepo: companyRepo, cache: cache}
}

// IsCompanyActive devuelve false (sin error) si la empresa no existe o está inactiva.
// Devuelve error solo ante fallos de infraestructura (DB caída, timeout, etc.).
func (s *CompanyStatusService) IsCompanyActive(ctx context.Context, companyID string) (bool, error) {
	if companyID == "" {
		return false, fmt.Errorf("company status: companyID es obligatorio")
	}
	if s.cache != nil {
		if active, ok := s.cache.Get(companyID); ok {
			return active, nil
		}
	}
	active, err := s.companyRepo.IsActive(ctx, companyID)
	if err != nil {
		return false, err
	}
	if s.cache != nil {
		s.cache.Set(companyID, active)
	}
	return active, nil
}
