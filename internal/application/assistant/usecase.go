package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/pos-insights-api/internal/application/dto"
	"github.com/jhoicas/pos-insights-api/internal/application/ports"
	"github.com/jhoicas/pos-insights-api/internal/domain"
	"github.com/jhoicas/pos-insights-api/pkg/logger"
)

// maxMessageLen límite de la frase aceptada (runas).
const maxMessageLen = 1000

// AssistantUseCase punto de entrada del asistente de comandos.
type AssistantUseCase struct {
	interpreter Interpreter
}

// NewAssistantUseCase construye el caso de uso. Con llm nil solo se usa la cascada local;
// con llm, el proveedor remoto con vuelta automática a la cascada.
func NewAssistantUseCase(llm ports.LLMService, timeout time.Duration, log *logger.Logger) *AssistantUseCase {
	local := NewLocalInterpreter()
	if llm == nil {
		return &AssistantUseCase{interpreter: local}
	}
	remote := NewRemoteInterpreter(llm, timeout)
	return &AssistantUseCase{interpreter: NewFallbackInterpreter(remote, local, log)}
}

// NewAssistantUseCaseWith usa un intérprete ya compuesto.
func NewAssistantUseCaseWith(interpreter Interpreter) *AssistantUseCase {
	return &AssistantUseCase{interpreter: interpreter}
}

// Interpret valida la frase y la interpreta.
func (uc *AssistantUseCase) Interpret(ctx context.Context, req dto.AssistantRequest) (*dto.AssistantResponse, error) {
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return nil, fmt.Errorf("%w: message es obligatorio", domain.ErrInvalidInput)
	}
	if len([]rune(msg)) > maxMessageLen {
		return nil, fmt.Errorf("%w: message supera %d caracteres", domain.ErrInvalidInput, maxMessageLen)
	}
	resp, err := uc.interpreter.Interpret(ctx, msg, req.Context)
	if err != nil {
		return nil, fmt.Errorf("interpretar: %w", err)
	}
	return resp, nil
}
