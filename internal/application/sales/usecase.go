// Package sales registra ventas de caja de forma transaccional.
package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-insights-api/internal/application/dto"
	"github.com/jhoicas/pos-insights-api/internal/domain"
	"github.com/jhoicas/pos-insights-api/internal/domain/entity"
	"github.com/jhoicas/pos-insights-api/internal/domain/repository"
	"github.com/jhoicas/pos-insights-api/pkg/logger"
)

var hundred = decimal.NewFromInt(100)

// SaleUseCase crea y lista ventas.
type SaleUseCase struct {
	txRunner TxRunner
	sales    repository.SaleRepository
	taxRate  decimal.Decimal // porcentaje, p. ej. 10
	log      *logger.Logger
	now      func() time.Time
}

// NewSaleUseCase construye el caso de uso. taxRatePercent se aplica a las líneas sin impuesto explícito.
func NewSaleUseCase(txRunner TxRunner, sales repository.SaleRepository, taxRatePercent decimal.Decimal, log *logger.Logger) *SaleUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &SaleUseCase{
		txRunner: txRunner,
		sales:    sales,
		taxRate:  taxRatePercent,
		log:      log.Component("sales"),
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *SaleUseCase) WithClock(now func() time.Time) *SaleUseCase {
	uc.now = now
	return uc
}

func validate(in dto.CreateSaleRequest) error {
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: la venta necesita al menos un ítem", domain.ErrInvalidInput)
	}
	switch in.PaymentMethod {
	case "", entity.PaymentCash, entity.PaymentCard, entity.PaymentTransfer:
	default:
		return fmt.Errorf("%w: payment_method %q no soportado", domain.ErrInvalidInput, in.PaymentMethod)
	}
	if in.Discount.IsNegative() {
		return fmt.Errorf("%w: discount negativo", domain.ErrInvalidInput)
	}
	for i, it := range in.Items {
		if it.ProductID == "" {
			return fmt.Errorf("%w: items[%d].product_id es obligatorio", domain.ErrInvalidInput, i)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: items[%d].quantity debe ser positivo", domain.ErrInvalidInput, i)
		}
		if it.Discount.IsNegative() || (it.UnitPrice != nil && it.UnitPrice.IsNegative()) || (it.Tax != nil && it.Tax.IsNegative()) {
			return fmt.Errorf("%w: items[%d] con importes negativos", domain.ErrInvalidInput, i)
		}
	}
	return nil
}

// CreateSale valida la venta y, en una sola transacción, descuenta stock, guarda la venta
// y actualiza los totales del cliente (si no es de paso).
func (uc *SaleUseCase) CreateSale(ctx context.Context, in dto.CreateSaleRequest) (*dto.SaleDTO, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	now := uc.now()
	sale := &entity.Sale{
		ID:            uuid.New().String(),
		SaleNumber:    fmt.Sprintf("SALE-%d", now.UnixMilli()),
		CustomerID:    in.CustomerID,
		Discount:      in.Discount,
		PaymentMethod: in.PaymentMethod,
		CreatedAt:     now,
	}
	if sale.PaymentMethod == "" {
		sale.PaymentMethod = entity.PaymentCash
	}

	err := uc.txRunner.RunSale(ctx, func(
		products repository.ProductRepository,
		customers repository.CustomerRepository,
		sales repository.SaleRepository,
	) error {
		if !sale.IsWalkIn() {
			c, err := customers.GetByID(ctx, sale.CustomerID)
			if err != nil {
				return fmt.Errorf("obtener cliente: %w: %w", domain.ErrUpstreamUnavailable, err)
			}
			if c == nil {
				return fmt.Errorf("cliente %s: %w", sale.CustomerID, domain.ErrNotFound)
			}
		}

		subtotal, tax := decimal.Zero, decimal.Zero
		sale.Items = make([]entity.SaleItem, 0, len(in.Items))
		for i, it := range in.Items {
			p, err := products.GetByID(ctx, it.ProductID)
			if err != nil {
				return fmt.Errorf("obtener producto: %w: %w", domain.ErrUpstreamUnavailable, err)
			}
			if p == nil {
				return fmt.Errorf("producto %s: %w", it.ProductID, domain.ErrNotFound)
			}
			if !p.Active {
				return fmt.Errorf("%w: producto %s inactivo", domain.ErrInvalidInput, p.ID)
			}

			item, err := uc.buildItem(sale.ID, p, it)
			if err != nil {
				return fmt.Errorf("items[%d]: %w", i, err)
			}
			if err := products.DecrementStock(ctx, p.ID, it.Quantity); err != nil {
				return fmt.Errorf("producto %s: %w", p.ID, err)
			}
			subtotal = subtotal.Add(item.Total.Sub(item.Tax))
			tax = tax.Add(item.Tax)
			sale.Items = append(sale.Items, item)
		}

		sale.Subtotal, sale.Tax = subtotal, tax
		sale.Total = subtotal.Add(tax).Sub(sale.Discount)
		if sale.Total.IsNegative() {
			return fmt.Errorf("%w: el descuento supera el total", domain.ErrInvalidInput)
		}

		if err := sales.Create(ctx, sale); err != nil {
			return fmt.Errorf("guardar venta: %w: %w", domain.ErrUpstreamUnavailable, err)
		}
		if !sale.IsWalkIn() {
			return customers.RecordVisit(ctx, sale.CustomerID, sale.Total, now)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("crear venta: %w", err)
	}

	uc.log.Info().Str("sale_number", sale.SaleNumber).Str("total", sale.Total.StringFixed(2)).
		Int("items", len(sale.Items)).Msg("venta registrada")
	out := dto.NewSaleDTO(sale)
	return &out, nil
}

func (uc *SaleUseCase) buildItem(saleID string, p *entity.Product, it dto.CreateSaleItemRequest) (entity.SaleItem, error) {
	unitPrice := p.Price
	if it.UnitPrice != nil {
		unitPrice = *it.UnitPrice
	}
	net := unitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))).Sub(it.Discount)
	if net.IsNegative() {
		return entity.SaleItem{}, fmt.Errorf("%w: el descuento supera el importe de la línea", domain.ErrInvalidInput)
	}
	lineTax := net.Mul(uc.taxRate).Div(hundred).Round(2)
	if it.Tax != nil {
		lineTax = *it.Tax
	}
	product := *p
	return entity.SaleItem{
		ID:        uuid.New().String(),
		SaleID:    saleID,
		ProductID: p.ID,
		Product:   &product,
		Quantity:  it.Quantity,
		UnitPrice: unitPrice,
		Discount:  it.Discount,
		Tax:       lineTax,
		Total:     net.Add(lineTax),
	}, nil
}

// ListSales ventas más recientes primero.
func (uc *SaleUseCase) ListSales(ctx context.Context, page dto.PageRequest) ([]dto.SaleDTO, error) {
	page.DefaultPage()
	list, err := uc.sales.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar ventas: %w: %w", domain.ErrUpstreamUnavailable, err)
	}
	return dto.NewSaleDTOs(list), nil
}
