package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/erp-saas-api/internal/application/dto"
	"github.com/jhoicas/erp-saas-api/internal/application/usecase"
)

// SuperAdminHandler administra las empresas de la plataforma (super-admin).
type SuperAdminHandler struct {
	uc *usecase.CompanyUseCase
}

// NewSuperAdminHandler construye el handler.
func NewSuperAdminHandler(uc *usecase.CompanyUseCase) *SuperAdminHandler {
	return &SuperAdminHandler{uc: uc}
}

// CreateCompany godoc
// @Summary      Crear empresa con su administrador
// @Tags         super-admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCompanyRequest  true  "Empresa y administrador"
// @Success      201   {object}  dto.CreateCompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/super-admin/companies [post]
func (h *SuperAdminHandler) CreateCompany(c *fiber.Ctx) error {
	var in dto.CreateCompanyRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.Context(), GetCaller(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListCompanies godoc
// @Summary      Listar empresas
// @Tags         super-admin
// @Security     Bearer
// @Produce      json
// @Param        page   query  int  false  "Página (default 1)"
// @Param        limit  query  int  false  "Tamaño de página (default 20, max 100)"
// @Success      200  {object}  dto.Paginated[dto.CompanyResponse]
// @Router       /api/super-admin/companies [get]
func (h *SuperAdminHandler) ListCompanies(c *fiber.Ctx) error {
	var page dto.PageQuery
	if ok, err := bindQuery(c, &page); !ok {
		return err
	}
	out, err := h.uc.List(c.Context(), GetCaller(c), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ToggleCompany godoc
// @Summary      Activar o desactivar una empresa
// @Description  Una empresa inactiva no puede iniciar sesión ni usar la API.
// @Tags         super-admin
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.CompanyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/super-admin/companies/{id}/toggle [patch]
func (h *SuperAdminHandler) ToggleCompany(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c)
	}
	out, err := h.uc.Toggle(c.Context(), GetCaller(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
