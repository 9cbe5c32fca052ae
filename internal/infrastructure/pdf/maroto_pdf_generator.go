// Package pdf renderiza los reportes de negocio en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tienda + tipo de reporte │ Periodo + generado       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  INDICADORES: etiqueta / valor (2 por fila)                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: columnas del reporte                                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL                                                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

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

	"github.com/jhoicas/pos-insights-api/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

const gridSize = 12 // columnas de la grilla de Maroto

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa analytics.ReportPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	storeName string
}

// NewMarotoPDFGenerator construye el generador. storeName se imprime en la cabecera.
func NewMarotoPDFGenerator(storeName string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{storeName: nonEmpty(storeName, "POS")}
}

// GenerateReportPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateReportPDF(_ context.Context, report *dto.ReportDTO) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("pdf: reporte nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(reportTitle(report), true).
		WithAuthor(g.storeName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.storeName, report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(metricRows(report.Metrics)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	cols := report.Table.Columns
	if len(cols) > 0 {
		m.AddRows(tableHeaderRow(cols))
		m.AddRows(tableRows(cols, report.Table.Rows)...)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(report))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: tienda + título (izq) y periodo + fecha de generación (der).
func headerRow(storeName string, r *dto.ReportDTO) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(storeName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(reportTitle(r), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(strings.ToUpper(r.Period), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(r.From.Format("2006-01-02")+" to "+r.To.Format("2006-01-02"), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 7,
			}),
			text.New("Generated: "+r.GeneratedAt.Format("2006-01-02 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// metricRows: dos indicadores por fila.
func metricRows(metrics []dto.ReportMetricDTO) []core.Row {
	rows := make([]core.Row, 0, (len(metrics)+1)/2)
	for i := 0; i < len(metrics); i += 2 {
		r := row.New(8)
		for _, mt := range metrics[i:min(i+2, len(metrics))] {
			r.Add(
				col.New(3).Add(text.New(mt.Label+":", props.Text{
					Style: fontstyle.Bold, Size: 9, Top: 2, Left: 1,
				})),
				col.New(3).Add(text.New(mt.Value, props.Text{
					Size: 9, Top: 2, Align: align.Right, Right: 4,
				})),
			)
		}
		rows = append(rows, r)
	}
	return rows
}

// tableHeaderRow: cabecera de la tabla con fondo azul.
func tableHeaderRow(columns []string) core.Row {
	widths := columnWidths(len(columns))
	r := row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
	for i, w := range widths {
		r.Add(col.New(w).Add(text.New(columns[i], props.Text{
			Style: fontstyle.Bold, Size: 8, Align: cellAlign(i),
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return r
}

// tableRows: una fila por registro; las celdas que faltan quedan vacías.
// Más de 12 columnas se recortan a la grilla.
func tableRows(columns []string, data [][]string) []core.Row {
	widths := columnWidths(len(columns))
	rows := make([]core.Row, 0, len(data))
	for _, cells := range data {
		r := row.New(7)
		for i, w := range widths {
			value := ""
			if i < len(cells) {
				value = cells[i]
			}
			r.Add(col.New(w).Add(text.New(value, props.Text{
				Size: 8, Align: cellAlign(i), Top: 1, Left: 1, Right: 1,
			})))
		}
		rows = append(rows, r)
	}
	return rows
}

// totalRow: total del reporte alineado a la derecha.
func totalRow(r *dto.ReportDTO) core.Row {
	label := "TOTAL:"
	if r.Type == "inventory" {
		label = "STOCK VALUE:"
	}
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New("$"+r.Total.StringFixed(2), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func reportTitle(r *dto.ReportDTO) string {
	if r.Type == "" {
		return "Report"
	}
	return strings.ToUpper(r.Type[:1]) + r.Type[1:] + " report"
}

// columnWidths reparte la grilla entre n columnas; la primera se queda con el resto.
func columnWidths(n int) []int {
	if n <= 0 {
		return nil
	}
	n = min(n, gridSize)
	base := gridSize / n
	widths := make([]int, n)
	for i := range widths {
		widths[i] = base
	}
	widths[0] += gridSize - base*n
	return widths
}

// cellAlign: primera columna a la izquierda, el resto (cifras) a la derecha.
func cellAlign(i int) align.Type {
	if i == 0 {
		return align.Left
	}
	return align.Right
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
