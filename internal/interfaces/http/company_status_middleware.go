package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/erp-saas-api/internal/application/dto"
	"github.com/rs/zerolog/log"
)

// companyChecker es el contrato mínimo que necesita el middleware para verificar la empresa.
// Lo implementa *usecase.CompanyStatusService.
type companyChecker interface {
	IsCompanyActive(ctx context.Context, companyID string) (bool, error)
}

// RequireActiveCompany corta la petición si la empresa del token fue desactivada.
// Debe usarse DESPUÉS de AuthMiddleware (necesita LocalCompanyID).
//
// Comportamiento:
//   - 401 si no hay company_id en el contexto.
//   - 503 ante fallo de infraestructura al consultar el estado.
//   - 403 COMPANY_INACTIVE si la empresa no existe o está inactiva.
func RequireActiveCompany(checker companyChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID := GetCompanyID(c)
		if companyID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "company_id no encontrado en el token",
			})
		}

		active, err := checker.IsCompanyActive(c.Context(), companyID)
		if err != nil {
			log.Error().Err(err).Str("company_id", companyID).Msg("verificar estado de empresa")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "COMPANY_CHECK_FAILED",
				Message: "no se pudo verificar la empresa, intente más tarde",
			})
		}
		if !active {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "COMPANY_INACTIVE",
				Message: "la empresa está inactiva",
			})
		}
		return c.Next()
	}
}
