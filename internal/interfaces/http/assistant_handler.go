package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-insights-api/internal/application/assistant"
	"github.com/jhoicas/pos-insights-api/internal/application/dto"
)

// AssistantHandler traduce frases en lenguaje natural a acciones del POS.
type AssistantHandler struct {
	uc *assistant.AssistantUseCase
}

// NewAssistantHandler construye el handler.
func NewAssistantHandler(uc *assistant.AssistantUseCase) *AssistantHandler {
	return &AssistantHandler{uc: uc}
}

// Interpret godoc
// @Summary      Interpretar comando del asistente
// @Description  Devuelve las acciones que la interfaz debe ejecutar. Si el proveedor de IA falla
// @Description  responde la cascada local de patrones. Sin coincidencias: actions vacío y texto de ayuda.
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AssistantRequest  true  "message (obligatorio) y context (opcional)"
// @Success      200   {object}  dto.AssistantResponse
// @Failure      400   {object}  dto.AssistantErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/ai/interpret [post]
func (h *AssistantHandler) Interpret(c *fiber.Ctx) error {
	var req dto.AssistantRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.AssistantErrorResponse{
			ErrorResponse: dto.ErrorResponse{
				Code: "INVALID_BODY", Message: "cuerpo inválido",
				Explanation: "Sorry, I couldn't read that request.",
			},
			Actions: []dto.AssistantAction{},
		})
	}

	out, err := h.uc.Interpret(c.UserContext(), req)
	if err != nil {
		status, body := errorResponse(err)
		if status >= fiber.StatusInternalServerError {
			body.Explanation = "Sorry, I encountered an error. The system is working but could not process your request."
		}
		return c.Status(status).JSON(dto.AssistantErrorResponse{ErrorResponse: body, Actions: []dto.AssistantAction{}})
	}
	return c.JSON(out)
}
