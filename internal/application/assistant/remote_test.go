package assistant_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-insights-api/internal/application/assistant"
	"github.com/jhoicas/pos-insights-api/internal/application/dto"
	"github.com/jhoicas/pos-insights-api/internal/domain"
)

type fakeLLM struct {
	reply   string
	err     error
	block   bool
	calls   int
	lastMsg string
}

func (f *fakeLLM) Name() string { return "fake" }

func (f *fakeLLM) Complete(ctx context.Context, system, user string) (string, error) {
	f.calls++
	f.lastMsg = user
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

func TestRemoteInterpreter_RespuestaValida(t *testing.T) {
	llm := &fakeLLM{reply: `{"actions":[{"action":"search_product","params":{"query":"coils"},"message":"Searching"}],"explanation":"Searching coils"}`}
	r := assistant.NewRemoteInterpreter(llm, time.Second)

	resp, err := r.Interpret(context.Background(), "find coils", map[string]any{"page": "sales"})
	require.NoError(t, err)

	require.Len(t, resp.Actions, 1)
	assert.Equal(t, "search_product", resp.Actions[0].Action)
	assert.Equal(t, "coils", resp.Actions[0].Params["query"])
	assert.Equal(t, "fake", resp.Source)
	assert.Contains(t, llm.lastMsg, `"page":"sales"`)
}

func TestParseReply(t *testing.T) {
	t.Run("markdown", func(t *testing.T) {
		resp, err := assistant.ParseReply("Sure!\n```json\n{\"actions\":[{\"action\":\"show_low_stock\"}],\"explanation\":\"ok\"}\n```")
		require.NoError(t, err)
		require.Len(t, resp.Actions, 1)
		assert.Equal(t, map[string]any{}, resp.Actions[0].Params)
	})
	t.Run("pregunta aclaratoria", func(t *testing.T) {
		resp, err := assistant.ParseReply(`{"actions":[],"explanation":"Which customer?"}`)
		require.NoError(t, err)
		assert.Empty(t, resp.Actions)
	})
	t.Run("sin actions", func(t *testing.T) {
		_, err := assistant.ParseReply(`{"explanation":"hi"}`)
		assert.ErrorIs(t, err, assistant.ErrMalformedReply)
	})
	t.Run("vacía", func(t *testing.T) {
		_, err := assistant.ParseReply(`{"actions":[],"explanation":""}`)
		assert.ErrorIs(t, err, assistant.ErrMalformedReply)
	})
	t.Run("no json", func(t *testing.T) {
		_, err := assistant.ParseReply("I cannot help with that")
		assert.ErrorIs(t, err, assistant.ErrMalformedReply)
	})
	t.Run("acción desconocida", func(t *testing.T) {
		_, err := assistant.ParseReply(`{"actions":[{"action":"delete_everything","params":{}}],"explanation":"x"}`)
		assert.ErrorIs(t, err, assistant.ErrUnknownAction)
	})
}

func TestFallbackInterpreter(t *testing.T) {
	cases := []struct {
		name string
		llm  *fakeLLM
	}{
		{"error de red", &fakeLLM{err: errors.New("dial tcp: connection refused")}},
		{"json roto", &fakeLLM{reply: `{"actions": [`}},
		{"acción desconocida", &fakeLLM{reply: `{"actions":[{"action":"fly"}],"explanation":"x"}`}},
		{"timeout", &fakeLLM{block: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			remote := assistant.NewRemoteInterpreter(tc.llm, 20*time.Millisecond)
			interp := assistant.NewFallbackInterpreter(remote, assistant.NewLocalInterpreter(), nil)

			resp, err := interp.Interpret(context.Background(), "show me low stock items", nil)
			require.NoError(t, err)

			assert.Equal(t, 1, tc.llm.calls)
			assert.Equal(t, assistant.SourceLocal, resp.Source)
			require.Len(t, resp.Actions, 1)
			assert.Equal(t, assistant.ActionShowLowStock, resp.Actions[0].Action)
		})
	}
}

func TestRemoteInterpreter_ErrorEsUpstream(t *testing.T) {
	r := assistant.NewRemoteInterpreter(&fakeLLM{err: errors.New("HTTP 503")}, time.Second)
	_, err := r.Interpret(context.Background(), "hola", nil)
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestAssistantUseCase(t *testing.T) {
	uc := assistant.NewAssistantUseCase(nil, 0, nil)

	_, err := uc.Interpret(context.Background(), dto.AssistantRequest{Message: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	resp, err := uc.Interpret(context.Background(), dto.AssistantRequest{Message: "find Samsung batteries"})
	require.NoError(t, err)
	assert.Equal(t, "Samsung batteries", resp.Actions[0].Params["query"])
}

func TestAssistantUseCase_ConProveedorRemoto(t *testing.T) {
	llm := &fakeLLM{reply: `{"actions":[{"action":"recommend_all","params":{}}],"explanation":"On it"}`}
	uc := assistant.NewAssistantUseCase(llm, time.Second, nil)

	resp, err := uc.Interpret(context.Background(), dto.AssistantRequest{Message: "xyz"})
	require.NoError(t, err)
	assert.Equal(t, "fake", resp.Source)
	assert.Equal(t, assistant.ActionRecommendAll, resp.Actions[0].Action)
}
