package dto

// AssistantRequest entrada de POST /api/ai/interpret.
// Context es opaco: se reenvía al proveedor remoto tal cual.
type AssistantRequest struct {
	Message string         `json:"message"`
	Context map[string]any `json:"context,omitempty"`
}

// AssistantAction intención estructurada que la interfaz del POS ejecuta.
type AssistantAction struct {
	Action  string         `json:"action"`
	Params  map[string]any `json:"params"`
	Message string         `json:"message,omitempty"`
}

// AssistantResponse acciones interpretadas y el texto para el usuario.
type AssistantResponse struct {
	Actions     []AssistantAction `json:"actions"`
	Explanation string            `json:"explanation"`
	Source      string            `json:"source,omitempty"` // local | anthropic | gemini | openai
}

// AssistantErrorResponse error del asistente: nunca devuelve acciones parciales.
type AssistantErrorResponse struct {
	ErrorResponse
	Actions []AssistantAction `json:"actions"`
}
