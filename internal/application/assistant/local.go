package assistant

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/pos-insights-api/internal/application/dto"
)

// utterance frase normalizada. Las comprobaciones de palabras clave usan lower;
// las extracciones se hacen sobre raw para conservar mayúsculas ("Samsung", "Sarah").
type utterance struct {
	raw   string
	lower string
}

func newUtterance(s string) utterance {
	s = norm.NFC.String(s)
	s = strings.Join(strings.Fields(s), " ")
	s = strings.TrimSpace(strings.TrimRight(s, ".!?"))
	return utterance{raw: s, lower: cases.Lower(language.Und).String(s)}
}

// has indica si la frase contiene alguna de las palabras (en minúsculas).
func (u utterance) has(words ...string) bool {
	for _, w := range words {
		if strings.Contains(u.lower, w) {
			return true
		}
	}
	return false
}

// submatch primer grupo de re sobre raw, sin espacios; "" si no coincide.
func (u utterance) submatch(re *regexp.Regexp, group int) (string, bool) {
	m := re.FindStringSubmatch(u.raw)
	if m == nil || group >= len(m) {
		return "", false
	}
	return strings.TrimSpace(m[group]), true
}

// rule par (predicado, manejador). build puede declinar devolviendo false, y
// entonces la cascada sigue con la siguiente regla.
type rule struct {
	name    string
	applies func(u utterance) bool
	build   func(u utterance) (*dto.AssistantResponse, bool)
}

var (
	saleCustomerFirstRe = regexp.MustCompile(`(?i)sell(?:ing)?\s+(?:to|for)\s+([\p{L}\s]+?)\s+(?:a\s+|an\s+|some\s+)?(.+?)$`)
	saleProductFirstRe  = regexp.MustCompile(`(?i)sell(?:ing)?\s+(?:a\s+|an\s+|some\s+)?(.+?)\s+(?:to|for)\s+([\p{L}\s]+?)$`)
	saleToRe            = regexp.MustCompile(`(?i)sell(?:ing)?\s+(?:to|for)\s+([\p{L}\s]+?)(?:\s+a\s|\s+some\s|$)`)
	saleForCustomerRe   = regexp.MustCompile(`(?i)(?:for|to)\s+customer\s+([\p{L}\s]+?)(?:\s+|$)`)
	saleProductRe       = regexp.MustCompile(`(?i)sell(?:ing)?\s+(?:a\s+|some\s+)?(.+?)(?:\s+to|\s+for customer|$)`)

	searchProductRe  = regexp.MustCompile(`(?i)(?:find|search(?:\s+for)?|look for|show me)\s+(.+?)(?:\s+in\b|\s+for\b|$)`)
	searchCustomerRe = regexp.MustCompile(`(?i)(?:find|search(?:\s+for)?|look for|show me)\s+(?:customer\s+)?(.+?)$`)
	customerPrefixRe = regexp.MustCompile(`(?i)^customer\s+`)

	historyRe     = regexp.MustCompile(`(?i)\b(?:for|of|customer)\s+(?:customer\s+)?(.+?)(?:\s+history|\s+transaction|$)`)
	recommendRe   = regexp.MustCompile(`(?i)\b(?:for|customer)\s+(?:customer\s+)?(.+?)$`)
	addCustomerRe = regexp.MustCompile(`(?i)(?:add|new|create)\s+customer\s+(?:named|called)?\s*(.+?)$`)
)

var (
	productKeywords = []string{"battery", "batteries", "coil", "mod", "tank", "juice", "product", "item"}
	historyKeywords = []string{"history", "purchase history", "previous purchases", "bought before", "transaction"}
	addProduct      = []string{"add product", "new product", "create product"}
	addCustomer     = []string{"add customer", "new customer", "create customer"}
)

// rules orden de evaluación; la primera que aplica y no declina gana.
var rules = []rule{
	{
		name:    "low_stock",
		applies: func(u utterance) bool { return u.has("low stock", "running low", "out of stock", "low inventory") },
		build: func(utterance) (*dto.AssistantResponse, bool) {
			return single(ActionShowLowStock, map[string]any{}, "Showing low stock items",
				"I'll show you all products that are running low on stock so you can reorder them."), true
		},
	},
	{
		name:    "create_sale",
		applies: func(u utterance) bool { return u.has("sell", "sale for", "checkout") },
		build:   buildSale,
	},
	{
		name: "search",
		applies: func(u utterance) bool {
			// "show me purchase history for customer X" es historial, no búsqueda.
			return u.has("find", "search", "look for", "show me") && !u.has(historyKeywords...)
		},
		build: buildSearch,
	},
	{
		name:    "customer_history",
		applies: func(u utterance) bool { return u.has(historyKeywords...) },
		build:   buildHistory,
	},
	{
		name:    "recommend",
		applies: func(u utterance) bool { return u.has("recommend", "suggest", "what should") },
		build:   buildRecommend,
	},
	{
		name:    "report",
		applies: func(u utterance) bool { return u.has("report", "analytics", "sales data") },
		build:   buildReport,
	},
	{
		name: "navigate",
		applies: func(u utterance) bool {
			return !u.has(addProduct...) && !u.has(addCustomer...)
		},
		build: buildNavigate,
	},
	{
		name:    "add_product",
		applies: func(u utterance) bool { return u.has(addProduct...) },
		build: func(utterance) (*dto.AssistantResponse, bool) {
			return single(ActionAddProduct, map[string]any{}, "Opening product creation form",
				"I'll open the inventory page where you can add a new product to your catalog."), true
		},
	},
	{
		name:    "add_customer",
		applies: func(u utterance) bool { return u.has(addCustomer...) },
		build: func(u utterance) (*dto.AssistantResponse, bool) {
			name, _ := u.submatch(addCustomerRe, 1)
			explanation := "I'll open the customers page where you can add a new customer."
			if name != "" {
				explanation = fmt.Sprintf("I'll help you add a new customer named %q.", name)
			}
			return single(ActionAddCustomer, map[string]any{"name": name}, "Opening customer creation form", explanation), true
		},
	},
}

// LocalInterpreter cascada determinista de reglas. Nunca falla.
type LocalInterpreter struct{}

// NewLocalInterpreter construye el intérprete por patrones.
func NewLocalInterpreter() *LocalInterpreter { return &LocalInterpreter{} }

// Interpret evalúa las reglas en orden. Sin coincidencias devuelve cero acciones y el texto de ayuda.
func (LocalInterpreter) Interpret(_ context.Context, message string, _ map[string]any) (*dto.AssistantResponse, error) {
	u := newUtterance(message)
	for _, r := range rules {
		if !r.applies(u) {
			continue
		}
		if resp, ok := r.build(u); ok {
			resp.Source = SourceLocal
			return resp, nil
		}
	}
	return &dto.AssistantResponse{Actions: []dto.AssistantAction{}, Explanation: HelpText, Source: SourceLocal}, nil
}

// RuleNames orden de las reglas (diagnóstico y tests).
func RuleNames() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	return names
}

func single(action string, params map[string]any, message, explanation string) *dto.AssistantResponse {
	return &dto.AssistantResponse{
		Actions:     []dto.AssistantAction{{Action: action, Params: params, Message: message}},
		Explanation: explanation,
	}
}

// optional convierte "" en nil para que el JSON lleve null.
func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func buildSale(u utterance) (*dto.AssistantResponse, bool) {
	var product, customer string
	if m := saleCustomerFirstRe.FindStringSubmatch(u.raw); m != nil {
		customer, product = strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	} else if m := saleProductFirstRe.FindStringSubmatch(u.raw); m != nil {
		product, customer = strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	} else {
		to, toOK := u.submatch(saleToRe, 1)
		if toOK {
			customer = to
		} else if c, ok := u.submatch(saleForCustomerRe, 1); ok {
			customer = c
		}
		if !toOK {
			product, _ = u.submatch(saleProductRe, 1)
		}
	}
	if product == "" && customer == "" {
		return nil, false
	}

	message := "Opening sales page"
	explanation := "I'll help you complete this sale."
	if customer != "" {
		message += " for " + customer
		explanation += fmt.Sprintf(" Looking up %s's profile and recommendations.", customer)
	}
	if product != "" {
		message += " with " + product
		explanation += fmt.Sprintf(" Adding %s to cart.", product)
	}
	return single(ActionCreateSale, map[string]any{
		"productQuery":  optional(product),
		"customerQuery": optional(customer),
	}, message, explanation), true
}

func buildSearch(u utterance) (*dto.AssistantResponse, bool) {
	isCustomer := u.has("customer")
	if u.has(productKeywords...) && !isCustomer {
		term, ok := u.submatch(searchProductRe, 1)
		if !ok {
			words := strings.Fields(u.raw)
			term = strings.Join(words[min(1, len(words)):], " ")
		}
		return single(ActionSearchProduct, map[string]any{"query": term}, "Searching for: "+term,
			fmt.Sprintf("I'll search for %q in your inventory and show you the results on the sales page.", term)), true
	}
	if isCustomer {
		name, _ := u.submatch(searchCustomerRe, 1)
		name = customerPrefixRe.ReplaceAllString(name, "")
		return single(ActionSearchCustomer, map[string]any{"query": name}, "Searching for customer: "+name,
			fmt.Sprintf("I'll search for customer %q and show you their purchase history and details.", name)), true
	}
	return nil, false
}

func buildHistory(u utterance) (*dto.AssistantResponse, bool) {
	name, _ := u.submatch(historyRe, 1)
	if name == "" {
		return single(ActionCustomerHistory, map[string]any{"customerQuery": ""}, "Opening customer histories",
			"I'll open the customers page where you can view purchase histories and transaction details."), true
	}
	return single(ActionCustomerHistory, map[string]any{"customerQuery": name}, "Viewing purchase history for "+name,
		fmt.Sprintf("I'll show you all transactions and purchase history for %s.", name)), true
}

func buildRecommend(u utterance) (*dto.AssistantResponse, bool) {
	if u.has("all customer", "every customer", "all recommendation") {
		return single(ActionRecommendAll, map[string]any{}, "Generating recommendations for all customers",
			"I'll generate personalized product recommendations for all your customers based on their purchase history."), true
	}
	if !u.has("customer", "for") {
		return nil, false
	}
	name, _ := u.submatch(recommendRe, 1)
	explanation := "I'll help you find product recommendations. Let me open the customers page to see purchase patterns."
	if name != "" {
		explanation = fmt.Sprintf("I'll analyze %s's purchase history and recommend products they might like.", name)
	}
	return single(ActionRecommendProducts, map[string]any{"customerQuery": name}, "Generating product recommendations", explanation), true
}

func buildReport(u utterance) (*dto.AssistantResponse, bool) {
	reportType := "sales"
	if u.has("inventory", "stock") {
		reportType = "inventory"
	}
	if u.has("customer") {
		reportType = "customers"
	}
	if u.has("product") {
		reportType = "products"
	}

	period := "today"
	switch {
	case u.has("today"):
	case u.has("week", "7 day"):
		period = "week"
	case u.has("month", "30 day"):
		period = "month"
	case u.has("year"):
		period = "year"
	}

	return single(ActionGenerateReport, map[string]any{"type": reportType, "period": period},
		fmt.Sprintf("Generating %s report for %s", reportType, period),
		fmt.Sprintf("I'll generate a detailed %s report for %s with charts and insights.", reportType, period)), true
}

func buildNavigate(u utterance) (*dto.AssistantResponse, bool) {
	switch {
	case u.has("inventor", "product list", "all products"):
		return single(ActionNavigate, map[string]any{"page": "inventory"}, "Opening inventory page",
			"I'll take you to the inventory page where you can manage your products and stock levels."), true
	case u.has("customer", "client"):
		return single(ActionNavigate, map[string]any{"page": "customers"}, "Opening customers page",
			"I'll take you to the customers page where you can view purchase histories and manage customer information."), true
	case u.has("setting", "configure"):
		return single(ActionNavigate, map[string]any{"page": "settings"}, "Opening settings page",
			"I'll take you to the settings page where you can configure your business details."), true
	}
	return nil, false
}
