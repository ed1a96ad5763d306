package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// productRow fila del catálogo a importar.
type productRow struct {
	SKU      string
	Name     string
	Price    decimal.Decimal
	Stock    int
	MinStock int
	Category string
}

// readProductsCSV lee un catálogo exportado desde Excel: separador ';', codificación Windows-1252
// y encabezado sku;nombre;precio;stock;stock_minimo;categoria. El precio admite coma decimal.
func readProductsCSV(r io.Reader) ([]productRow, error) {
	cr := csv.NewReader(transform.NewReader(r, charmap.Windows1252.NewDecoder()))
	cr.Comma = ';'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	if len(header) < 4 {
		return nil, errors.New("encabezado incompleto: se esperan al menos sku;nombre;precio;stock")
	}

	var rows []productRow
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if len(rec) < 4 || strings.TrimSpace(rec[0]) == "" {
			continue
		}
		row, err := parseProductRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseProductRecord(rec []string) (productRow, error) {
	price, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(rec[2]), ",", "."))
	if err != nil {
		return productRow{}, fmt.Errorf("precio %q inválido", rec[2])
	}
	stock, err := strconv.Atoi(strings.TrimSpace(rec[3]))
	if err != nil {
		return productRow{}, fmt.Errorf("stock %q inválido", rec[3])
	}
	row := productRow{
		SKU:   strings.TrimSpace(rec[0]),
		Name:  strings.TrimSpace(rec[1]),
		Price: price,
		Stock: stock,
	}
	if len(rec) > 4 && strings.TrimSpace(rec[4]) != "" {
		if row.MinStock, err = strconv.Atoi(strings.TrimSpace(rec[4])); err != nil {
			return productRow{}, fmt.Errorf("stock_minimo %q inválido", rec[4])
		}
	}
	if len(rec) > 5 {
		row.Category = strings.TrimSpace(rec[5])
	}
	return row, nil
}
