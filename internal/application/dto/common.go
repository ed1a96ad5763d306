package dto

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// PageQuery paginación por número de página para listados.
type PageQuery struct {
	Page  int `query:"page" validate:"omitempty,min=1"`
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

// Normalize aplica valores por defecto si Page/Limit son cero o están fuera de rango.
func (p *PageQuery) Normalize() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = defaultPageLimit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
}

// Offset devuelve el desplazamiento SQL de la página.
func (p PageQuery) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageMeta metadatos de página en respuestas.
type PageMeta struct {
	Total    int `json:"total"`
	Page     int `json:"page"`
	LastPage int `json:"lastPage"`
}

// NewPageMeta calcula LastPage = ceil(total/limit); 0 cuando no hay resultados.
func NewPageMeta(total, page, limit int) PageMeta {
	last := 0
	if limit > 0 {
		last = (total + limit - 1) / limit
	}
	return PageMeta{Total: total, Page: page, LastPage: last}
}

// Paginated respuesta de listado paginado.
type Paginated[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

// FieldError detalle de validación de un campo.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
