// Package assistant traduce frases libres del operador del POS en acciones
// estructuradas. El intérprete local es una cascada ordenada de reglas; un
// proveedor LLM opcional puede sustituirlo, con vuelta automática a la cascada.
package assistant

import (
	"context"

	"github.com/jhoicas/pos-insights-api/internal/application/dto"
)

// Acciones que entiende la interfaz del POS.
const (
	ActionShowLowStock      = "show_low_stock"
	ActionCreateSale        = "create_sale"
	ActionSearchProduct     = "search_product"
	ActionSearchCustomer    = "search_customer"
	ActionCustomerHistory   = "customer_history"
	ActionRecommendAll      = "recommend_all"
	ActionRecommendProducts = "recommend_products"
	ActionGenerateReport    = "generate_report"
	ActionNavigate          = "navigate"
	ActionAddProduct        = "add_product"
	ActionAddCustomer       = "add_customer"
	ActionUpdateStock       = "update_stock"
)

var knownActions = map[string]bool{
	ActionShowLowStock:      true,
	ActionCreateSale:        true,
	ActionSearchProduct:     true,
	ActionSearchCustomer:    true,
	ActionCustomerHistory:   true,
	ActionRecommendAll:      true,
	ActionRecommendProducts: true,
	ActionGenerateReport:    true,
	ActionNavigate:          true,
	ActionAddProduct:        true,
	ActionAddCustomer:       true,
	ActionUpdateStock:       true,
}

// IsKnownAction indica si la interfaz sabe ejecutar la acción.
func IsKnownAction(action string) bool { return knownActions[action] }

// Interpreter convierte una frase en acciones. No guarda estado entre llamadas.
type Interpreter interface {
	Interpret(ctx context.Context, message string, hints map[string]any) (*dto.AssistantResponse, error)
}

// SourceLocal identifica respuestas de la cascada de patrones.
const SourceLocal = "local"

// HelpText respuesta por defecto cuando ninguna regla aplica.
const HelpText = `I can help you with:

**Sales & Products:**
• "Sell Battery 18650 to John Smith" - Complete a sale
• "Find Samsung batteries" - Search products
• "Recommend products for Sarah" - Get recommendations

**Inventory Management:**
• "Show me low stock items" - View products running low
• "Show inventory" - View all products
• "Add new product" - Create product entry

**Customer Management:**
• "Show purchase history for John Smith" - View transactions
• "Show me purchase history for customer Sarah" - View all purchases
• "Add new customer named Mike Wilson" - Create customer
• "Search customer Sarah" - Find customer details

**Reports & Analytics:**
• "Generate sales report for this week" - Create reports
• "Product analytics for this month" - View trends

**Navigation:**
• "Show inventory" - Manage products
• "Open customers" - View customer list
• "Go to reports" - See analytics

What would you like to do?`
