package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-insights-api/internal/application/dto"
	"github.com/jhoicas/pos-insights-api/internal/application/recommendation"
)

// RecommendationHandler expone las recomendaciones y el análisis de compras por cliente.
type RecommendationHandler struct {
	uc *recommendation.RecommendationUseCase
}

// NewRecommendationHandler construye el handler.
func NewRecommendationHandler(uc *recommendation.RecommendationUseCase) *RecommendationHandler {
	return &RecommendationHandler{uc: uc}
}

// ForCustomer godoc
// @Summary      Recomendaciones para un cliente
// @Description  Combina reposición, novedades en categorías favoritas y lo que compran clientes similares.
// @Tags         recommendations
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.CustomerRecommendationsDTO
// @Failure      404  {object}  dto.RecommendationErrorResponse
// @Failure      503  {object}  dto.RecommendationErrorResponse
// @Router       /api/customers/{id}/recommendations [get]
func (h *RecommendationHandler) ForCustomer(c *fiber.Ctx) error {
	out, err := h.uc.GetRecommendations(c.UserContext(), c.Params("id"))
	if err != nil {
		return recommendationError(c, err)
	}
	return c.JSON(out)
}

// Insights godoc
// @Summary      Historial y métricas de compra de un cliente
// @Tags         recommendations
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.CustomerInsightsDTO
// @Failure      404  {object}  dto.RecommendationErrorResponse
// @Router       /api/customers/{id}/insights [get]
func (h *RecommendationHandler) Insights(c *fiber.Ctx) error {
	out, err := h.uc.GetCustomerInsights(c.UserContext(), c.Params("id"))
	if err != nil {
		return recommendationError(c, err)
	}
	return c.JSON(out)
}

// All godoc
// @Summary      Recomendaciones para todos los clientes
// @Tags         recommendations
// @Produce      json
// @Success      200  {object}  dto.AllRecommendationsDTO
// @Failure      503  {object}  dto.RecommendationErrorResponse
// @Router       /api/recommendations [get]
func (h *RecommendationHandler) All(c *fiber.Ctx) error {
	list, err := h.uc.RecommendAll(c.UserContext())
	if err != nil {
		return recommendationError(c, err)
	}
	return c.JSON(dto.AllRecommendationsDTO{Customers: list, Count: len(list)})
}

func recommendationError(c *fiber.Ctx, err error) error {
	status, body := errorResponse(err)
	return c.Status(status).JSON(dto.RecommendationErrorResponse{
		ErrorResponse:   body,
		Recommendations: []dto.ProductDTO{},
	})
}
