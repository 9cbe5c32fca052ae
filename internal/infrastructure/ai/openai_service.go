package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jhoicas/pos-insights-api/internal/application/ports"
)

var _ ports.LLMService = (*OpenAIService)(nil)

const openAIChatURL = "https://api.openai.com/v1/chat/completions"

// OpenAIService adaptador de LLMService sobre Chat Completions con response_format json_object.
type OpenAIService struct {
	apiKey string
	model  string
	opts   options
}

// NewOpenAIService construye el adaptador. model suele ser "gpt-4o-mini".
func NewOpenAIService(apiKey, model string, opts ...Option) *OpenAIService {
	return &OpenAIService{
		apiKey: apiKey,
		model:  model,
		opts:   buildOptions(openAIChatURL, opts),
	}
}

type openAIRequest struct {
	Model          string          `json:"model"`
	Messages       []openAIMessage `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Temperature float32 `json:"temperature"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *OpenAIService) Name() string { return "openai" }

// Complete devuelve el contenido del primer choice.
func (s *OpenAIService) Complete(ctx context.Context, system, user string) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("AI: OPENAI_API_KEY no configurado")
	}

	payload := openAIRequest{
		Model: s.model,
		Messages: []openAIMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.2,
	}
	payload.ResponseFormat.Type = "json_object"

	raw, status, err := postJSON(ctx, s.opts.httpClient, s.opts.baseURL, map[string]string{
		"Authorization": "Bearer " + s.apiKey,
	}, payload)
	if err != nil {
		return "", err
	}

	var resp openAIResponse
	if status != http.StatusOK {
		if jsonErr := json.Unmarshal(raw, &resp); jsonErr == nil && resp.Error != nil {
			return "", fmt.Errorf("AI: OpenAI error (%s): %s", resp.Error.Type, resp.Error.Message)
		}
		return "", fmt.Errorf("AI: OpenAI HTTP %d", status)
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("AI: deserializar respuesta OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("AI: OpenAI devolvió respuesta vacía")
	}
	return resp.Choices[0].Message.Content, nil
}
