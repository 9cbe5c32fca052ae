// Package analytics contiene los casos de uso de reportes de negocio
// (ventas, productos, clientes e inventario) y su exportación a PDF.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/pos-insights-api/internal/application/dto"
	"github.com/jhoicas/pos-insights-api/internal/domain"
	"github.com/jhoicas/pos-insights-api/internal/domain/entity"
	"github.com/jhoicas/pos-insights-api/internal/domain/inventory"
	"github.com/jhoicas/pos-insights-api/internal/domain/repository"
)

// Tipos de reporte.
const (
	ReportSales     = "sales"
	ReportProducts  = "products"
	ReportCustomers = "customers"
	ReportInventory = "inventory"
)

// Periodos de reporte.
const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

const maxReportRows = 100 // filas de detalle en el reporte de ventas

// ReportPDFGenerator puerto de salida para la exportación a PDF.
type ReportPDFGenerator interface {
	GenerateReportPDF(ctx context.Context, report *dto.ReportDTO) ([]byte, error)
}

// ReportUseCase genera los reportes a partir del catálogo (consultas read-only).
type ReportUseCase struct {
	sales      repository.SaleRepository
	products   repository.ProductRepository
	customers  repository.CustomerRepository
	thresholds inventory.Thresholds
	pdf        ReportPDFGenerator
	now        func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	customers repository.CustomerRepository,
	thresholds inventory.Thresholds,
	pdf ReportPDFGenerator,
) *ReportUseCase {
	return &ReportUseCase{
		sales:      sales,
		products:   products,
		customers:  customers,
		thresholds: thresholds,
		pdf:        pdf,
		now:        time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *ReportUseCase) WithClock(now func() time.Time) *ReportUseCase {
	uc.now = now
	return uc
}

// PeriodRange rango [from, to] del periodo. today empieza a medianoche en la zona de now.
func PeriodRange(period string, now time.Time) (time.Time, time.Time, error) {
	switch period {
	case PeriodToday:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), now, nil
	case PeriodWeek:
		return now.AddDate(0, 0, -7), now, nil
	case PeriodMonth:
		return now.AddDate(0, 0, -30), now, nil
	case PeriodYear:
		return now.AddDate(0, 0, -365), now, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: period %q no soportado", domain.ErrInvalidInput, period)
	}
}

// GenerateReport arma el reporte. type y period vacíos toman sales y today.
func (uc *ReportUseCase) GenerateReport(ctx context.Context, reportType, period string) (*dto.ReportDTO, error) {
	if reportType == "" {
		reportType = ReportSales
	}
	if period == "" {
		period = PeriodToday
	}
	now := uc.now()
	from, to, err := PeriodRange(period, now)
	if err != nil {
		return nil, err
	}
	report := &dto.ReportDTO{Type: reportType, Period: period, From: from, To: to, GeneratedAt: now}

	switch reportType {
	case ReportSales:
		err = uc.salesReport(ctx, report)
	case ReportProducts:
		err = uc.productsReport(ctx, report)
	case ReportCustomers:
		err = uc.customersReport(ctx, report)
	case ReportInventory:
		err = uc.inventoryReport(ctx, report)
	default:
		return nil, fmt.Errorf("%w: type %q no soportado", domain.ErrInvalidInput, reportType)
	}
	if err != nil {
		return nil, err
	}
	return report, nil
}

// ReportPDF genera el reporte y lo renderiza. Devuelve los bytes y el nombre de archivo sugerido.
func (uc *ReportUseCase) ReportPDF(ctx context.Context, reportType, period string) ([]byte, string, error) {
	report, err := uc.GenerateReport(ctx, reportType, period)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.pdf.GenerateReportPDF(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generar pdf: %w", err)
	}
	filename := fmt.Sprintf("report-%s-%s-%s.pdf", report.Type, report.Period, report.GeneratedAt.Format("20060102"))
	return pdf, filename, nil
}

// ── Reportes ──────────────────────────────────────────────────────────────────

func (uc *ReportUseCase) salesReport(ctx context.Context, r *dto.ReportDTO) error {
	sales, names, err := uc.salesWithNames(ctx, r.From, r.To)
	if err != nil {
		return err
	}

	revenue, tax := decimal.Zero, decimal.Zero
	walkIns := 0
	rows := make([][]string, 0, min(len(sales), maxReportRows))
	for _, s := range sales {
		revenue = revenue.Add(s.Total)
		tax = tax.Add(s.Tax)
		customer := "Walk-in"
		if s.IsWalkIn() {
			walkIns++
		} else if name, ok := names[s.CustomerID]; ok {
			customer = name
		} else {
			customer = s.CustomerID
		}
		if len(rows) < maxReportRows {
			rows = append(rows, []string{
				s.SaleNumber,
				s.CreatedAt.Format("2006-01-02 15:04"),
				customer,
				strconv.Itoa(units(s)),
				s.PaymentMethod,
				money(s.Total),
			})
		}
	}

	r.Total = revenue
	r.Metrics = []dto.ReportMetricDTO{
		{Label: "Sales", Value: strconv.Itoa(len(sales))},
		{Label: "Revenue", Value: money(revenue)},
		{Label: "Tax collected", Value: money(tax)},
		{Label: "Average ticket", Value: money(average(revenue, len(sales)))},
		{Label: "Walk-in sales", Value: strconv.Itoa(walkIns)},
	}
	r.Table = dto.ReportTableDTO{
		Columns: []string{"Sale", "Date", "Customer", "Items", "Payment", "Total"},
		Rows:    rows,
	}
	return nil
}

type productLine struct {
	name, category string
	units          int
	revenue        decimal.Decimal
}

func (uc *ReportUseCase) productsReport(ctx context.Context, r *dto.ReportDTO) error {
	sales, err := uc.sales.ListBetween(ctx, r.From, r.To)
	if err != nil {
		return upstream("listar ventas del periodo", err)
	}

	byID := make(map[string]*productLine)
	order := make([]*productLine, 0)
	unitsByCategory := make(map[string]int)
	var categories []string
	totalUnits := 0
	revenue := decimal.Zero
	for _, s := range sales {
		for _, it := range s.Items {
			pl, ok := byID[it.ProductID]
			if !ok {
				pl = &productLine{name: it.ProductID, revenue: decimal.Zero}
				if it.Product != nil {
					pl.name, pl.category = it.Product.Name, it.Product.Category
				}
				byID[it.ProductID] = pl
				order = append(order, pl)
			}
			pl.units += it.Quantity
			pl.revenue = pl.revenue.Add(it.Total)
			if pl.category != "" {
				if _, seen := unitsByCategory[pl.category]; !seen {
					categories = append(categories, pl.category)
				}
				unitsByCategory[pl.category] += it.Quantity
			}
			totalUnits += it.Quantity
			revenue = revenue.Add(it.Total)
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		if c := order[i].revenue.Cmp(order[j].revenue); c != 0 {
			return c > 0
		}
		return order[i].name < order[j].name
	})
	rows := make([][]string, 0, len(order))
	for _, pl := range order {
		rows = append(rows, []string{pl.name, orDash(pl.category), strconv.Itoa(pl.units), money(pl.revenue)})
	}

	topCategory := "-"
	best := 0
	for _, c := range categories {
		if unitsByCategory[c] > best {
			topCategory, best = c, unitsByCategory[c]
		}
	}

	r.Total = revenue
	r.Metrics = []dto.ReportMetricDTO{
		{Label: "Products sold", Value: strconv.Itoa(len(order))},
		{Label: "Units sold", Value: strconv.Itoa(totalUnits)},
		{Label: "Revenue", Value: money(revenue)},
		{Label: "Top category", Value: topCategory},
	}
	r.Table = dto.ReportTableDTO{Columns: []string{"Product", "Category", "Units", "Revenue"}, Rows: rows}
	return nil
}

type customerLine struct {
	name  string
	sales int
	spent decimal.Decimal
	last  time.Time
}

func (uc *ReportUseCase) customersReport(ctx context.Context, r *dto.ReportDTO) error {
	sales, names, err := uc.salesWithNames(ctx, r.From, r.To)
	if err != nil {
		return err
	}

	byID := make(map[string]*customerLine)
	lines := make([]*customerLine, 0)
	revenue, walkInRevenue := decimal.Zero, decimal.Zero
	walkIns := 0
	for _, s := range sales {
		revenue = revenue.Add(s.Total)
		if s.IsWalkIn() {
			walkIns++
			walkInRevenue = walkInRevenue.Add(s.Total)
			continue
		}
		cl, ok := byID[s.CustomerID]
		if !ok {
			cl = &customerLine{name: s.CustomerID, spent: decimal.Zero}
			if name, found := names[s.CustomerID]; found {
				cl.name = name
			}
			byID[s.CustomerID] = cl
			lines = append(lines, cl)
		}
		cl.sales++
		cl.spent = cl.spent.Add(s.Total)
		if s.CreatedAt.After(cl.last) {
			cl.last = s.CreatedAt
		}
	}

	sort.SliceStable(lines, func(i, j int) bool {
		if c := lines[i].spent.Cmp(lines[j].spent); c != 0 {
			return c > 0
		}
		return lines[i].name < lines[j].name
	})
	rows := make([][]string, 0, len(lines))
	for _, cl := range lines {
		rows = append(rows, []string{cl.name, strconv.Itoa(cl.sales), money(cl.spent), cl.last.Format("2006-01-02")})
	}

	r.Total = revenue
	r.Metrics = []dto.ReportMetricDTO{
		{Label: "Active customers", Value: strconv.Itoa(len(lines))},
		{Label: "Registered revenue", Value: money(revenue.Sub(walkInRevenue))},
		{Label: "Walk-in sales", Value: strconv.Itoa(walkIns)},
		{Label: "Walk-in revenue", Value: money(walkInRevenue)},
	}
	r.Table = dto.ReportTableDTO{Columns: []string{"Customer", "Sales", "Spent", "Last purchase"}, Rows: rows}
	return nil
}

func (uc *ReportUseCase) inventoryReport(ctx context.Context, r *dto.ReportDTO) error {
	list, err := uc.products.List(ctx, repository.ProductFilter{ActiveOnly: true})
	if err != nil {
		return upstream("listar productos", err)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Stock < list[j].Stock })

	value := decimal.Zero
	totalUnits, low, out := 0, 0, 0
	rows := make([][]string, 0, len(list))
	for _, p := range list {
		stockValue := p.Price.Mul(decimal.NewFromInt(int64(p.Stock)))
		value = value.Add(stockValue)
		totalUnits += p.Stock
		level := inventory.Classify(p.Stock, uc.thresholds)
		if level == inventory.LevelOut {
			out++
		}
		if p.IsLowStock() {
			low++
		}
		rows = append(rows, []string{
			p.Name, p.Category, strconv.Itoa(p.Stock), strconv.Itoa(p.MinStock), string(level), money(stockValue),
		})
	}

	r.Total = value
	r.Metrics = []dto.ReportMetricDTO{
		{Label: "Products", Value: strconv.Itoa(len(list))},
		{Label: "Units in stock", Value: strconv.Itoa(totalUnits)},
		{Label: "Stock value", Value: money(value)},
		{Label: "Low stock", Value: strconv.Itoa(low)},
		{Label: "Out of stock", Value: strconv.Itoa(out)},
	}
	r.Table = dto.ReportTableDTO{
		Columns: []string{"Product", "Category", "Stock", "Min", "Level", "Value"},
		Rows:    rows,
	}
	return nil
}

// salesWithNames ventas del rango y nombres de clientes por ID, consultados en paralelo.
func (uc *ReportUseCase) salesWithNames(ctx context.Context, from, to time.Time) ([]*entity.Sale, map[string]string, error) {
	var (
		sales     []*entity.Sale
		customers []*entity.Customer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if sales, err = uc.sales.ListBetween(gctx, from, to); err != nil {
			return upstream("listar ventas del periodo", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if customers, err = uc.customers.List(gctx, "", 0, 0); err != nil {
			return upstream("listar clientes", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	names := make(map[string]string, len(customers))
	for _, c := range customers {
		names[c.ID] = c.Name
	}
	return sales, names, nil
}

func upstream(op string, err error) error {
	return fmt.Errorf("reporte: %s: %w: %w", op, domain.ErrUpstreamUnavailable, err)
}

func units(s *entity.Sale) int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

func average(total decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(n)))
}

func money(d decimal.Decimal) string { return "$" + d.StringFixed(2) }

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
