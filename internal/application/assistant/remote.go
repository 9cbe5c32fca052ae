package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jhoicas/pos-insights-api/internal/application/dto"
	"github.com/jhoicas/pos-insights-api/internal/application/ports"
	"github.com/jhoicas/pos-insights-api/internal/domain"
)

// SystemPrompt instrucción fija enviada al proveedor remoto.
const SystemPrompt = `You are an AI assistant for a POS (Point of Sale) system for a vape shop. You help users navigate and perform tasks like:
- Making sales/processing transactions
- Managing inventory (view stock, add products, update quantities, low stock alerts)
- Managing customers (view history, add customers, search customers, recommendations)
- Generating reports (sales reports, inventory reports, customer analytics)
- Configuring settings

When a user makes a request, analyze what they want to do and return structured actions in JSON format.

Available actions:
- navigate: { "action": "navigate", "params": { "page": "sales" | "inventory" | "customers" | "reports" | "settings" } }
- create_sale: { "action": "create_sale", "params": { "productQuery": string | null, "customerQuery": string | null } }
- add_product: { "action": "add_product", "params": { "name"?, "price"?, "stock"?, "category"? } }
- update_stock: { "action": "update_stock", "params": { "productId", "quantity", "type": "in" | "out" | "adjustment" } }
- search_product: { "action": "search_product", "params": { "query": string } }
- search_customer: { "action": "search_customer", "params": { "query": string } }
- customer_history: { "action": "customer_history", "params": { "customerQuery": string } }
- recommend_products: { "action": "recommend_products", "params": { "customerQuery": string } }
- recommend_all: { "action": "recommend_all", "params": {} }
- add_customer: { "action": "add_customer", "params": { "name", "email"?, "phone"? } }
- generate_report: { "action": "generate_report", "params": { "type": "sales" | "inventory" | "customers" | "products", "period": "today" | "week" | "month" | "year" } }
- show_low_stock: { "action": "show_low_stock", "params": {} }

Always respond with ONLY valid JSON in this format:
{
  "actions": [
    { "action": "action_name", "params": {...}, "message": "explanation for user" }
  ],
  "explanation": "Overall explanation of what you'll do"
}

If you need more information, return an empty actions list and ask a clarifying question in "explanation".`

// Errores de validación de la respuesta remota.
var (
	ErrMalformedReply = errors.New("respuesta del modelo no es JSON válido")
	ErrUnknownAction  = errors.New("acción desconocida en la respuesta del modelo")
)

// RemoteInterpreter delega la frase completa a un LLM y valida estrictamente su JSON.
type RemoteInterpreter struct {
	llm     ports.LLMService
	timeout time.Duration
}

// NewRemoteInterpreter construye el intérprete remoto. timeout <= 0 usa 10 s.
func NewRemoteInterpreter(llm ports.LLMService, timeout time.Duration) *RemoteInterpreter {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RemoteInterpreter{llm: llm, timeout: timeout}
}

type remoteReply struct {
	Actions     *[]dto.AssistantAction `json:"actions"`
	Explanation string                 `json:"explanation"`
}

// Interpret llama al proveedor con timeout propio. Cualquier fallo se devuelve como
// error envolviendo domain.ErrUpstreamUnavailable.
func (r *RemoteInterpreter) Interpret(ctx context.Context, message string, hints map[string]any) (*dto.AssistantResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	user := message
	if len(hints) > 0 {
		if raw, err := json.Marshal(hints); err == nil {
			user = fmt.Sprintf("%s\n\nContext: %s", message, raw)
		}
	}

	text, err := r.llm.Complete(ctx, SystemPrompt, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", r.llm.Name(), domain.ErrUpstreamUnavailable, err)
	}

	resp, err := ParseReply(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", r.llm.Name(), domain.ErrUpstreamUnavailable, err)
	}
	resp.Source = r.llm.Name()
	return resp, nil
}

// ParseReply extrae y valida el objeto JSON de la respuesta del modelo.
// Exige la clave "actions" y que todas las acciones sean conocidas.
func ParseReply(text string) (*dto.AssistantResponse, error) {
	clean := extractJSON(text)
	if clean == "" {
		return nil, ErrMalformedReply
	}

	var reply remoteReply
	if err := json.Unmarshal([]byte(clean), &reply); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedReply, err)
	}
	if reply.Actions == nil {
		return nil, fmt.Errorf("%w: falta \"actions\"", ErrMalformedReply)
	}

	actions := *reply.Actions
	for i := range actions {
		if !IsKnownAction(actions[i].Action) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAction, actions[i].Action)
		}
		if actions[i].Params == nil {
			actions[i].Params = map[string]any{}
		}
	}
	if len(actions) == 0 && strings.TrimSpace(reply.Explanation) == "" {
		return nil, fmt.Errorf("%w: sin acciones ni explicación", ErrMalformedReply)
	}
	return &dto.AssistantResponse{Actions: actions, Explanation: reply.Explanation}, nil
}

// jsonBlockRe captura desde el primer '{' hasta el último '}'.
var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// extractJSON quita bloques markdown (```json … ```) y devuelve el primer objeto JSON del texto.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		if end := strings.LastIndex(after, "```"); end != -1 {
			after = after[:end]
		}
		text = strings.TrimSpace(after)
	}
	if strings.HasPrefix(text, "{") {
		return text
	}
	return strings.TrimSpace(jsonBlockRe.FindString(text))
}
