package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportRequest parámetros de GET /api/reports.
type ReportRequest struct {
	Type   string `query:"type"`
	Period string `query:"period"`
}

// ReportMetricDTO indicador de cabecera del reporte (etiqueta + valor ya formateado).
type ReportMetricDTO struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ReportTableDTO tabla del reporte; cada fila tiene tantas celdas como Columns.
type ReportTableDTO struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// ReportDTO resumen de un reporte de negocio para un periodo.
// Total suma las ventas del periodo; en type=inventory es el valor del stock actual
// a precio de venta y el periodo solo se informa.
type ReportDTO struct {
	Type        string            `json:"type"`
	Period      string            `json:"period"`
	From        time.Time         `json:"from"`
	To          time.Time         `json:"to"`
	GeneratedAt time.Time         `json:"generated_at"`
	Total       decimal.Decimal   `json:"total"`
	Metrics     []ReportMetricDTO `json:"metrics"`
	Table       ReportTableDTO    `json:"table"`
}
