package memory

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-insights-api/internal/domain/entity"
)

type demoProduct struct {
	name, category string
	price          string
	stock, min     int
}

var demoCatalog = []demoProduct{
	{"Samsung 18650 Battery", "Batteries", "12.99", 40, 10},
	{"Sony VTC6 18650 Battery", "Batteries", "14.99", 8, 10},
	{"510 Thread Battery", "Batteries", "19.99", 25, 5},
	{"Molicel P28A Battery", "Batteries", "13.49", 0, 5},
	{"Aspire Nautilus Coil", "Coils", "3.99", 120, 20},
	{"SMOK Nord Coil", "Coils", "4.49", 60, 20},
	{"Vaporesso GTX Coil", "Coils", "4.99", 14, 15},
	{"Naked Lava Flow", "E-Liquids", "21.99", 18, 6},
	{"Pachamama Mint Leaf", "E-Liquids", "19.99", 30, 6},
	{"Juice Head Peach Pear", "E-Liquids", "18.99", 3, 6},
	{"Uwell Crown Tank", "Tanks", "34.99", 9, 3},
	{"Geekvape Zeus Tank", "Tanks", "39.99", 12, 3},
	{"Voopoo Drag Mod", "Mods", "69.99", 6, 2},
	{"Vape Pen Starter Kit", "Kits", "29.99", 22, 5},
	{"Lost Vape Orion Kit", "Kits", "49.99", 0, 2},
}

type demoCustomer struct {
	name, email, phone, address string
}

var demoCustomers = []demoCustomer{
	{"John Smith", "john.smith@example.com", "204-555-0101", "123 Main St, Winnipeg, MB"},
	{"Sarah Johnson", "sarah.j@example.com", "204-555-0102", "456 Oak Ave, Winnipeg, MB"},
	{"Mike Wilson", "mike.wilson@example.com", "204-555-0103", "789 Elm St, Winnipeg, MB"},
}

// demoSales [cliente (-1 = de paso), días atrás, índices de producto...]
var demoSales = [][]int{
	{0, 40, 0, 4},
	{0, 30, 0, 4, 7},
	{0, 20, 0, 5},
	{1, 25, 13, 7},
	{1, 16, 8, 4},
	{1, 3, 8},
	{2, 10, 11, 6},
	{-1, 5, 1, 9},
	{-1, 2, 5, 6, 10},
	{2, 1, 2},
}

// NewDemoStore construye un store poblado con un catálogo de tienda de vapeo,
// tres clientes y un historial de ventas relativo a now. IDs deterministas.
func NewDemoStore(now time.Time) *Store {
	s := NewStore()
	taxRate := decimal.NewFromFloat(0.1)

	for i, d := range demoCatalog {
		price := decimal.RequireFromString(d.price)
		created := now.AddDate(0, 0, -90+i)
		s.products[productID(i)] = entity.Product{
			ID:        productID(i),
			Name:      d.name,
			SKU:       fmt.Sprintf("SKU-%04d", i+1),
			Category:  d.category,
			Price:     price,
			Cost:      decimal.NewNullDecimal(price.Mul(decimal.NewFromFloat(0.6)).Round(2)),
			Stock:     d.stock,
			MinStock:  d.min,
			Active:    true,
			Unit:      "unit",
			CreatedAt: created,
			UpdatedAt: created,
		}
	}

	for i, d := range demoCustomers {
		created := now.AddDate(0, -6, 0)
		s.customers[customerID(i)] = entity.Customer{
			ID:         customerID(i),
			Name:       d.name,
			Email:      d.email,
			Phone:      d.phone,
			Address:    d.address,
			TotalSpent: decimal.Zero,
			CreatedAt:  created,
			UpdatedAt:  created,
		}
	}

	for n, row := range demoSales {
		at := now.AddDate(0, 0, -row[1])
		sale := entity.Sale{
			ID:            fmt.Sprintf("sale-%03d", n+1),
			SaleNumber:    fmt.Sprintf("SALE-DEMO-%03d", n+1),
			PaymentMethod: entity.PaymentCard,
			CreatedAt:     at,
			Discount:      decimal.Zero,
		}
		if row[0] >= 0 {
			sale.CustomerID = customerID(row[0])
		}
		subtotal, tax := decimal.Zero, decimal.Zero
		for j, pi := range row[2:] {
			p := s.products[productID(pi)]
			lineTax := p.Price.Mul(taxRate).Round(2)
			sale.Items = append(sale.Items, entity.SaleItem{
				ID:        fmt.Sprintf("%s-%d", sale.ID, j+1),
				SaleID:    sale.ID,
				ProductID: p.ID,
				Quantity:  1,
				UnitPrice: p.Price,
				Discount:  decimal.Zero,
				Tax:       lineTax,
				Total:     p.Price.Add(lineTax),
			})
			subtotal = subtotal.Add(p.Price)
			tax = tax.Add(lineTax)
		}
		sale.Subtotal, sale.Tax = subtotal, tax
		sale.Total = subtotal.Add(tax)
		s.sales = append(s.sales, sale)

		if !sale.IsWalkIn() {
			c := s.customers[sale.CustomerID]
			c.TotalSpent = c.TotalSpent.Add(sale.Total)
			c.VisitCount++
			if c.LastVisit == nil || at.After(*c.LastVisit) {
				visit := at
				c.LastVisit = &visit
			}
			s.customers[sale.CustomerID] = c
		}
	}
	return s
}

func productID(i int) string  { return fmt.Sprintf("prod-%03d", i+1) }
func customerID(i int) string { return fmt.Sprintf("cust-%03d", i+1) }
