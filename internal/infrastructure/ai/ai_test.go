package ai_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-insights-api/internal/infrastructure/ai"
)

func TestAnthropicService_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.NotEmpty(t, r.Header.Get("anthropic-version"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "system prompt", body["system"])

		_, _ = io.WriteString(w, `{"content":[{"type":"text","text":"{\"actions\":[]"},{"type":"text","text":",\"explanation\":\"hi\"}"}]}`)
	}))
	defer srv.Close()

	svc := ai.NewAnthropicService("test-key", "claude-3-5-haiku-latest", ai.WithBaseURL(srv.URL))
	text, err := svc.Complete(context.Background(), "system prompt", "hola")
	require.NoError(t, err)
	assert.Equal(t, `{"actions":[],"explanation":"hi"}`, text)
}

func TestAnthropicService_ErrorAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"type":"authentication_error","message":"invalid x-api-key"}}`)
	}))
	defer srv.Close()

	svc := ai.NewAnthropicService("bad", "m", ai.WithBaseURL(srv.URL))
	_, err := svc.Complete(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authentication_error")
}

func TestGeminiService_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/gemini-1.5-flash:generateContent"))
		assert.Equal(t, "g-key", r.URL.Query().Get("key"))
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":" {\"actions\":[],\"explanation\":\"ok\"} "}]}}]}`)
	}))
	defer srv.Close()

	svc := ai.NewGeminiService("g-key", "gemini-1.5-flash", ai.WithBaseURL(srv.URL))
	text, err := svc.Complete(context.Background(), "s", "u")
	require.NoError(t, err)
	assert.Equal(t, `{"actions":[],"explanation":"ok"}`, text)
}

func TestGeminiService_SinCandidatos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"candidates":[]}`)
	}))
	defer srv.Close()

	_, err := ai.NewGeminiService("k", "m", ai.WithBaseURL(srv.URL)).Complete(context.Background(), "s", "u")
	assert.Error(t, err)
}

func TestOpenAIService_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer o-key", r.Header.Get("Authorization"))

		var body struct {
			Messages []struct {
				Role string `json:"role"`
			} `json:"messages"`
			ResponseFormat struct {
				Type string `json:"type"`
			} `json:"response_format"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if assert.Len(t, body.Messages, 2) {
			assert.Equal(t, "system", body.Messages[0].Role)
		}
		assert.Equal(t, "json_object", body.ResponseFormat.Type)

		_, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"{\"actions\":[]}"}}]}`)
	}))
	defer srv.Close()

	text, err := ai.NewOpenAIService("o-key", "gpt-4o-mini", ai.WithBaseURL(srv.URL)).Complete(context.Background(), "s", "u")
	require.NoError(t, err)
	assert.Equal(t, `{"actions":[]}`, text)
}

func TestSinAPIKey(t *testing.T) {
	ctx := context.Background()
	_, err := ai.NewAnthropicService("", "m").Complete(ctx, "s", "u")
	assert.Error(t, err)
	_, err = ai.NewGeminiService("", "m").Complete(ctx, "s", "u")
	assert.Error(t, err)
	_, err = ai.NewOpenAIService("", "m").Complete(ctx, "s", "u")
	assert.Error(t, err)
}

func TestNewProvider(t *testing.T) {
	p, err := ai.NewProvider(ai.ProviderConfig{})
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = ai.NewProvider(ai.ProviderConfig{Provider: "anthropic"})
	require.NoError(t, err)
	assert.Nil(t, p, "sin API key no hay proveedor")

	p, err = ai.NewProvider(ai.ProviderConfig{Provider: "gemini", GeminiAPIKey: "k", GeminiModel: "m"})
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "gemini", p.Name())

	_, err = ai.NewProvider(ai.ProviderConfig{Provider: "llama"})
	assert.Error(t, err)
}
