// Package pdf genera el reporte financiero de una empresa en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + identificación │ Período + fecha emisión  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Ingresos | Órdenes | Ticket | Gastos | Utilidad    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Top productos (# | Producto | Unid. | Ingreso | %)   │
//	│  TABLA: Ingresos por categoría                               │
//	│  TABLA: Gastos por categoría                                 │
//	│  TABLA: Serie diaria                                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/erp-saas-api/internal/application/finance"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorLight   = &props.Color{Red: 235, Green: 241, Blue: 247}
)

var _ finance.ReportGenerator = (*MarotoReportGenerator)(nil)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa finance.ReportGenerator usando Maroto v2.
type MarotoReportGenerator struct {
	printer *message.Printer
}

// NewMarotoReportGenerator construye el generador. Los montos se formatean con separadores en español.
func NewMarotoReportGenerator() *MarotoReportGenerator {
	return &MarotoReportGenerator{printer: message.NewPrinter(language.Spanish)}
}

// GenerateFinanceReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateFinanceReport(ctx context.Context, data finance.ReportData) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte financiero", true).
		WithAuthor(data.CompanyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.summaryRows(data)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("PRODUCTOS MÁS VENDIDOS"))
	m.AddRows(tableHeader([]string{"#", "Producto", "Unid.", "Ingreso", "%"}, []int{1, 5, 2, 3, 1}))
	if len(data.TopProducts) == 0 {
		m.AddRows(emptyRow())
	}
	for _, p := range data.TopProducts {
		name := p.ProductName
		if p.SKU != "" {
			name = p.SKU + " · " + name
		}
		m.AddRows(tableRow([]string{
			fmt.Sprint(p.Rank), name, fmt.Sprint(p.UnitsSold), g.money(p.Revenue), p.RevenuePct.StringFixed(1),
		}, []int{1, 5, 2, 3, 1}))
	}

	m.AddRows(sectionTitle("INGRESOS POR CATEGORÍA"))
	m.AddRows(tableHeader([]string{"Categoría", "Unid.", "Ingreso", "%"}, []int{6, 2, 3, 1}))
	if len(data.Categories) == 0 {
		m.AddRows(emptyRow())
	}
	for _, c := range data.Categories {
		m.AddRows(tableRow([]string{
			c.CategoryName, fmt.Sprint(c.UnitsSold), g.money(c.Revenue), c.RevenuePct.StringFixed(1),
		}, []int{6, 2, 3, 1}))
	}

	m.AddRows(sectionTitle("GASTOS POR CATEGORÍA"))
	m.AddRows(tableHeader([]string{"Categoría", "Registros", "Total"}, []int{7, 2, 3}))
	if len(data.Expenses) == 0 {
		m.AddRows(emptyRow())
	}
	for _, e := range data.Expenses {
		m.AddRows(tableRow([]string{e.Category, fmt.Sprint(e.Count), g.money(e.Total)}, []int{7, 2, 3}))
	}

	m.AddRows(sectionTitle("VENTAS POR DÍA"))
	m.AddRows(tableHeader([]string{"Fecha", "Órdenes", "Ingreso"}, []int{5, 3, 4}))
	if len(data.History) == 0 {
		m.AddRows(emptyRow())
	}
	for _, d := range data.History {
		m.AddRows(tableRow([]string{d.Date, fmt.Sprint(d.OrderCount), g.money(d.Revenue)}, []int{5, 3, 4}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: empresa + identificación (izq) y período + fecha de emisión (der).
func headerRow(data finance.ReportData) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(data.CompanyName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("ID: "+nonEmpty(data.LegalID, "N/D"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("REPORTE FINANCIERO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(periodLabel(data), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 7,
			}),
			text.New("Emitido: "+data.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// summaryRows: una tarjeta por indicador del resumen.
func (g *MarotoReportGenerator) summaryRows(data finance.ReportData) []core.Row {
	s := data.Summary
	card := func(label, value string, size int) core.Col {
		return col.New(size).Add(
			text.New(label, props.Text{Size: 7, Align: align.Center, Color: colorGray, Top: 2}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Center, Color: colorPrimary, Top: 7}),
		)
	}
	return []core.Row{
		row.New(16).Add(
			card("Ingresos", g.money(s.TotalRevenue), 3),
			card("Órdenes", fmt.Sprint(s.OrderCount), 2),
			card("Ticket promedio", g.money(s.AverageTicket), 2),
			card("Gastos", g.money(s.TotalExpenses), 2),
			card("Utilidad neta", g.money(s.NetProfit), 3),
		),
	}
}

func sectionTitle(title string) core.Row {
	return row.New(9).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 4}),
	))
}

// tableHeader: cabecera con fondo claro. La primera columna va a la izquierda, el resto a la derecha.
func tableHeader(labels []string, sizes []int) core.Row {
	cols := make([]core.Col, 0, len(labels))
	for i, label := range labels {
		cols = append(cols, col.New(sizes[i]).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: columnAlign(i, len(labels)), Top: 1.5, Left: 1, Right: 1,
		})))
	}
	return row.New(7).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorLight})
}

func tableRow(values []string, sizes []int) core.Row {
	cols := make([]core.Col, 0, len(values))
	for i, v := range values {
		cols = append(cols, col.New(sizes[i]).Add(text.New(v, props.Text{
			Size: 8, Align: columnAlign(i, len(values)), Top: 1, Left: 1, Right: 1,
		})))
	}
	return row.New(6).Add(cols...)
}

func emptyRow() core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New("Sin datos en el período", props.Text{Size: 8, Color: colorGray, Top: 1, Left: 1}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func columnAlign(i, n int) align.Type {
	if i == 0 && n > 1 {
		return align.Left
	}
	if i == 1 && n == 5 {
		return align.Left // nombre de producto
	}
	return align.Right
}

func periodLabel(data finance.ReportData) string {
	start := nonEmpty(data.Period.StartDate, "inicio")
	end := nonEmpty(data.Period.EndDate, "hoy")
	return start + " a " + end
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// money formatea con separadores de miles y dos decimales, ej. "$1.234.567,50".
func (g *MarotoReportGenerator) money(d decimal.Decimal) string {
	return g.printer.Sprintf("$%.2f", d.Round(2).InexactFloat64())
}
