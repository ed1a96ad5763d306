package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/erp-saas-api/internal/application/dto"
	"github.com/jhoicas/erp-saas-api/internal/application/orders"
)

// OrderHandler maneja ventas y su ciclo de cancelación.
type OrderHandler struct {
	uc *orders.OrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *orders.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden de venta
// @Description  Descuenta stock de forma atómica y congela el precio de cada línea.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Líneas de la orden"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateOrder(c.Context(), GetCaller(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar órdenes
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status              query  string  false  "completed | cancelled"
// @Param        cancellationStatus  query  string  false  "none | pending | approved | rejected"
// @Param        paymentMethod       query  string  false  "cash | card | transfer"
// @Param        sortBy              query  string  false  "createdAt | total"
// @Param        order               query  string  false  "asc | desc"
// @Param        page                query  int     false  "Página (default 1)"
// @Param        limit               query  int     false  "Tamaño de página (default 20, max 100)"
// @Success      200  {object}  dto.Paginated[dto.OrderResponse]
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var q dto.OrderListQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	out, err := h.uc.ListOrders(c.Context(), GetCaller(c), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PendingCancellations godoc
// @Summary      Solicitudes de cancelación pendientes
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.OrderResponse
// @Router       /api/orders/cancellation-requests [get]
func (h *OrderHandler) PendingCancellations(c *fiber.Ctx) error {
	out, err := h.uc.ListPendingCancellations(c.Context(), GetCaller(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden por ID
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c)
	}
	out, err := h.uc.GetOrder(c.Context(), GetCaller(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar orden (admin)
// @Description  Devuelve el stock de todas las líneas. Una orden ya cancelada responde 400.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c)
	}
	out, err := h.uc.CancelOrder(c.Context(), GetCaller(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RequestCancellation godoc
// @Summary      Solicitar cancelación
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID de la orden"
// @Param        body  body  dto.RequestCancellationRequest  true  "Motivo"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/request-cancellation [post]
func (h *OrderHandler) RequestCancellation(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c)
	}
	var in dto.RequestCancellationRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.RequestCancellation(c.Context(), GetCaller(c), id, in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ResolveCancellation godoc
// @Summary      Aprobar o rechazar una solicitud de cancelación (admin)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID de la orden"
// @Param        body  body  dto.ResolveCancellationRequest  true  "approved"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/resolve-cancellation [post]
func (h *OrderHandler) ResolveCancellation(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c)
	}
	var in dto.ResolveCancellationRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.ResolveCancellation(c.Context(), GetCaller(c), id, *in.Approved)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
