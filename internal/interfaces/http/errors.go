package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-insights-api/internal/application/dto"
	"github.com/jhoicas/pos-insights-api/internal/domain"
)

// errorResponse traduce un error de dominio a status HTTP y cuerpo de error.
// Explanation es el texto para el usuario final del POS.
func errorResponse(err error) (int, dto.ErrorResponse) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{
			Code: "NOT_FOUND", Message: err.Error(),
			Explanation: "The requested record was not found.",
		}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{
			Code: "VALIDATION", Message: err.Error(),
			Explanation: "The request is missing data or has invalid values.",
		}
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, dto.ErrorResponse{
			Code: "INSUFFICIENT_STOCK", Message: err.Error(),
			Explanation: "There is not enough stock to complete the sale.",
		}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{
			Code: "DUPLICATE", Message: err.Error(),
			Explanation: "A record with the same identifier already exists.",
		}
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return fiber.StatusServiceUnavailable, dto.ErrorResponse{
			Code: "UPSTREAM_UNAVAILABLE", Message: err.Error(),
			Explanation: "The service is temporarily unavailable. Please try again.",
		}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{
			Code: "INTERNAL", Message: err.Error(),
			Explanation: "Something went wrong while processing the request.",
		}
	}
}

func writeError(c *fiber.Ctx, err error) error {
	status, body := errorResponse(err)
	return c.Status(status).JSON(body)
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Code: "INVALID_BODY", Message: "cuerpo inválido",
		Explanation: "The request body could not be read.",
	})
}

func invalidQuery(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Code: "INVALID_QUERY", Message: "parámetros de consulta inválidos",
		Explanation: "The query parameters could not be read.",
	})
}
