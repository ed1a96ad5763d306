package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense representa un gasto registrado por la empresa.
type Expense struct {
	ID          string
	CompanyID   string
	Description string
	Amount      decimal.Decimal
	Category    string
	Date        time.Time
	CreatedAt   time.Time
}
