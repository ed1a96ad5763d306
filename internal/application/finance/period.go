package finance

import (
	"fmt"
	"time"

	"github.com/jhoicas/erp-saas-api/internal/application/dto"
	"github.com/jhoicas/erp-saas-api/internal/domain"
	"github.com/jhoicas/erp-saas-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// ParsePeriod convierte las fechas YYYY-MM-DD en un período inclusivo.
// Un extremo vacío queda sin límite; end se lleva al último microsegundo del día (precisión de timestamptz).
func ParsePeriod(startStr, endStr string, loc *time.Location) (repository.Period, dto.PeriodDTO, error) {
	if loc == nil {
		loc = time.Local
	}
	var period repository.Period
	var out dto.PeriodDTO

	if startStr != "" {
		start, err := time.ParseInLocation(dateLayout, startStr, loc)
		if err != nil {
			return period, out, fmt.Errorf("%w: startDate inválido", domain.ErrInvalidInput)
		}
		period.Start = &start
		out.StartDate = startStr
	}
	if endStr != "" {
		end, err := time.ParseInLocation(dateLayout, endStr, loc)
		if err != nil {
			return period, out, fmt.Errorf("%w: endDate inválido", domain.ErrInvalidInput)
		}
		end = end.AddDate(0, 0, 1).Add(-time.Microsecond) // inclusive hasta el final del día
		period.End = &end
		out.EndDate = endStr
	}
	if period.Start != nil && period.End != nil && period.Start.After(*period.End) {
		return repository.Period{}, dto.PeriodDTO{}, fmt.Errorf("%w: startDate no puede ser posterior a endDate", domain.ErrInvalidInput)
	}
	return period, out, nil
}
