package ports

import "context"

// LLMService puerto de salida hacia un modelo de lenguaje remoto.
// Los adaptadores (Anthropic, Gemini, OpenAI) solo transportan texto: la
// validación del JSON devuelto es responsabilidad del caso de uso.
type LLMService interface {
	// Complete envía el prompt de sistema y el mensaje del usuario y devuelve el
	// texto crudo del modelo. El contexto debe llevar un timeout.
	Complete(ctx context.Context, system, user string) (string, error)
	// Name identifica al proveedor en logs y respuestas.
	Name() string
}
