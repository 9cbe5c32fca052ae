package assistant

import (
	"context"

	"github.com/jhoicas/pos-insights-api/internal/application/dto"
	"github.com/jhoicas/pos-insights-api/pkg/logger"
)

// FallbackInterpreter usa primary y, si falla por cualquier motivo, responde con
// fallback. Nunca mezcla resultados de ambos.
type FallbackInterpreter struct {
	primary  Interpreter
	fallback Interpreter
	log      *logger.Logger
}

// NewFallbackInterpreter compone los dos intérpretes.
func NewFallbackInterpreter(primary, fallback Interpreter, log *logger.Logger) *FallbackInterpreter {
	if log == nil {
		log = logger.Nop()
	}
	return &FallbackInterpreter{primary: primary, fallback: fallback, log: log.Component("assistant")}
}

func (f *FallbackInterpreter) Interpret(ctx context.Context, message string, hints map[string]any) (*dto.AssistantResponse, error) {
	resp, err := f.primary.Interpret(ctx, message, hints)
	if err == nil {
		return resp, nil
	}
	f.log.Warn().Err(err).Msg("intérprete remoto falló, usando cascada local")
	return f.fallback.Interpret(ctx, message, hints)
}
