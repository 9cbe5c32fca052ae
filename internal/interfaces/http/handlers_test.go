package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-insights-api/internal/application/analytics"
	"github.com/jhoicas/pos-insights-api/internal/application/assistant"
	"github.com/jhoicas/pos-insights-api/internal/application/dto"
	"github.com/jhoicas/pos-insights-api/internal/application/recommendation"
	"github.com/jhoicas/pos-insights-api/internal/application/sales"
	"github.com/jhoicas/pos-insights-api/internal/application/usecase"
	"github.com/jhoicas/pos-insights-api/internal/domain/inventory"
	"github.com/jhoicas/pos-insights-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/pos-insights-api/internal/infrastructure/pdf"
	"github.com/jhoicas/pos-insights-api/internal/infrastructure/ratelimit"
	httpRouter "github.com/jhoicas/pos-insights-api/internal/interfaces/http"
	"github.com/jhoicas/pos-insights-api/pkg/config"
	"github.com/jhoicas/pos-insights-api/pkg/logger"
)

func newApp(t *testing.T, assistantRate string) *fiber.App {
	t.Helper()
	store := memory.NewDemoStore(time.Now())
	log := logger.Nop()

	deps := httpRouter.RouterDeps{
		ProductUC:  usecase.NewProductUseCase(store.Products(), inventory.DefaultThresholds),
		CustomerUC: usecase.NewCustomerUseCase(store.Customers(), store.Sales()),
		SaleUC:     sales.NewSaleUseCase(store, store.Sales(), decimal.NewFromInt(10), log),
		RecommendationUC: recommendation.NewRecommendationUseCase(
			store.Customers(), store.Sales(), store.Products(), recommendation.DefaultTuning(), log),
		ReportUC: analytics.NewReportUseCase(
			store.Sales(), store.Products(), store.Customers(), inventory.DefaultThresholds,
			infrapdf.NewMarotoPDFGenerator("Test Store")),
		AssistantUC: assistant.NewAssistantUseCase(nil, 0, log),
		Log:         log,
	}
	if assistantRate != "" {
		l, err := ratelimit.New(context.Background(), assistantRate, config.RedisConfig{})
		require.NoError(t, err)
		t.Cleanup(func() { _ = l.Close() })
		deps.AssistantLimiter = l.Limiter
	}

	app := fiber.New()
	httpRouter.Router(app, deps)
	return app
}

func do(t *testing.T, app *fiber.App, method, target string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestProducts(t *testing.T) {
	app := newApp(t, "")

	t.Run("low stock", func(t *testing.T) {
		resp := do(t, app, http.MethodGet, "/api/products/low-stock", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		out := decode[dto.LowStockResponse](t, resp)
		assert.Equal(t, 5, out.Count)
		require.NotEmpty(t, out.Items)
		assert.Equal(t, "out", out.Items[0].Level)
	})

	t.Run("search", func(t *testing.T) {
		resp := do(t, app, http.MethodGet, "/api/products?q=coil", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		out := decode[dto.ProductListResponse](t, resp)
		assert.Equal(t, 3, out.Count)
	})

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		out := decode[dto.ErrorResponse](t, resp)
		assert.Equal(t, "INVALID_BODY", out.Code)
	})
}

func TestCustomers(t *testing.T) {
	app := newApp(t, "")

	resp := do(t, app, http.MethodGet, "/api/customers?q=smith", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.CustomerListResponse](t, resp)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "John Smith", list.Items[0].Name)
	assert.Equal(t, 20, list.Page.Limit)

	resp = do(t, app, http.MethodGet, "/api/customers/cust-999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	out := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "NOT_FOUND", out.Code)
}

func TestRecommendations(t *testing.T) {
	app := newApp(t, "")

	t.Run("unknown customer keeps an empty list", func(t *testing.T) {
		resp := do(t, app, http.MethodGet, "/api/customers/cust-999/recommendations", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		out := decode[map[string]any](t, resp)
		assert.Equal(t, []any{}, out["recommendations"])
		assert.Equal(t, "NOT_FOUND", out["code"])
	})

	t.Run("known customer", func(t *testing.T) {
		resp := do(t, app, http.MethodGet, "/api/customers/cust-001/recommendations", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		out := decode[dto.CustomerRecommendationsDTO](t, resp)
		assert.Equal(t, "John Smith", out.Customer.Name)
		assert.NotNil(t, out.Recommendations)
	})

	t.Run("all customers", func(t *testing.T) {
		resp := do(t, app, http.MethodGet, "/api/recommendations", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		out := decode[dto.AllRecommendationsDTO](t, resp)
		assert.Equal(t, 3, out.Count)
	})
}

func TestSales_InsufficientStock(t *testing.T) {
	app := newApp(t, "")

	resp := do(t, app, http.MethodPost, "/api/sales", dto.CreateSaleRequest{
		PaymentMethod: "cash",
		Items:         []dto.CreateSaleItemRequest{{ProductID: "prod-004", Quantity: 1}},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	out := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INSUFFICIENT_STOCK", out.Code)
}

func TestSales_Create(t *testing.T) {
	app := newApp(t, "")

	resp := do(t, app, http.MethodPost, "/api/sales", dto.CreateSaleRequest{
		CustomerID: "cust-002",
		Items:      []dto.CreateSaleItemRequest{{ProductID: "prod-001", Quantity: 2}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decode[dto.SaleDTO](t, resp)
	assert.Equal(t, "cash", out.PaymentMethod)
	assert.True(t, decimal.RequireFromString("28.58").Equal(out.Total), out.Total.String())
}

func TestReports(t *testing.T) {
	app := newApp(t, "")

	t.Run("unknown type", func(t *testing.T) {
		resp := do(t, app, http.MethodGet, "/api/reports?type=payroll", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("inventory json", func(t *testing.T) {
		resp := do(t, app, http.MethodGet, "/api/reports?type=inventory", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		out := decode[dto.ReportDTO](t, resp)
		assert.Equal(t, "inventory", out.Type)
		assert.Len(t, out.Table.Rows, 15)
	})

	t.Run("pdf download", func(t *testing.T) {
		resp := do(t, app, http.MethodGet, "/api/reports/pdf?type=inventory&period=week", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "report-inventory-week-")
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(body, []byte("%PDF-")))
	})
}

func TestAssistant(t *testing.T) {
	app := newApp(t, "")

	t.Run("local cascade", func(t *testing.T) {
		resp := do(t, app, http.MethodPost, "/api/ai/interpret", dto.AssistantRequest{Message: "show me low stock items"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		out := decode[dto.AssistantResponse](t, resp)
		require.Len(t, out.Actions, 1)
		assert.Equal(t, assistant.ActionShowLowStock, out.Actions[0].Action)
		assert.Equal(t, "local", out.Source)
	})

	t.Run("empty message", func(t *testing.T) {
		resp := do(t, app, http.MethodPost, "/api/ai/interpret", dto.AssistantRequest{Message: "   "})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		out := decode[map[string]any](t, resp)
		assert.Equal(t, []any{}, out["actions"])
		assert.Equal(t, "VALIDATION", out["code"])
	})
}

func TestAssistant_RateLimited(t *testing.T) {
	app := newApp(t, "1-M")
	body := dto.AssistantRequest{Message: "show me low stock items"}

	first := do(t, app, http.MethodPost, "/api/ai/interpret", body)
	assert.Equal(t, http.StatusOK, first.StatusCode)
	assert.Equal(t, "0", first.Header.Get("X-RateLimit-Remaining"))

	second := do(t, app, http.MethodPost, "/api/ai/interpret", body)
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
	out := decode[dto.ErrorResponse](t, second)
	assert.Equal(t, "RATE_LIMITED", out.Code)

	// El límite solo aplica al asistente.
	other := do(t, app, http.MethodGet, "/api/products/low-stock", nil)
	assert.Equal(t, http.StatusOK, other.StatusCode)
}
