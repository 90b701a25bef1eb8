package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gatewayRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

func newGateway(t *testing.T, status int, content string, seen *gatewayRequest) *Generator {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if seen != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			io.WriteString(w, `{"error":{"message":"upstream says no"}}`)
			return
		}
		body, _ := json.Marshal(content)
		fmt.Fprintf(w, `{"id":"cmpl-1","object":"chat.completion","created":1700000000,"model":"google/gemini-2.5-flash","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":%s}}]}`, body)
	}))
	t.Cleanup(srv.Close)
	return NewGenerator(Config{BaseUrl: srv.URL, ApiKey: "test-key"})
}

func TestGenerateThinking(t *testing.T) {
	var seen gatewayRequest
	g := newGateway(t, http.StatusOK, "🤖 RSI=28 → Buying SOL at $142.3", &seen)

	res, err := g.Generate(context.Background(), Request{Type: TypeThinking})
	require.NoError(t, err)
	assert.Equal(t, "🤖 RSI=28 → Buying SOL at $142.3", res)

	assert.Equal(t, DefaultModel, seen.Model)
	assert.Equal(t, 0.8, seen.Temperature)
	require.Len(t, seen.Messages, 2)
	assert.Equal(t, "system", seen.Messages[0].Role)
	assert.Equal(t, ThinkingSystemPrompt, seen.Messages[0].Content)
	assert.Contains(t, seen.Messages[1].Content, DefaultMarketData)
	assert.Contains(t, seen.Messages[1].Content, DefaultStrategy)
	assert.Nil(t, seen.ResponseFormat)
}

func TestGenerateStrategyStructured(t *testing.T) {
	var seen gatewayRequest
	g := newGateway(t, http.StatusOK, `{"Classification":"Momentum Trading"}`, &seen)

	res, err := g.Generate(context.Background(), Request{Type: TypeStrategy, Prompt: "buy breakouts, ride trends"})
	require.NoError(t, err)
	assert.Equal(t, "Momentum Trading", res)
	require.NotNil(t, seen.ResponseFormat)
	assert.Equal(t, "json_schema", seen.ResponseFormat.Type)
	assert.Contains(t, seen.Messages[1].Content, `"buy breakouts, ride trends"`)
}

func TestGenerateStrategyPlainText(t *testing.T) {
	g := newGateway(t, http.StatusOK, `"Conservative DCA"`, nil)
	res, err := g.Generate(context.Background(), Request{Type: TypeStrategy, Prompt: "buy every week"})
	require.NoError(t, err)
	assert.Equal(t, "Conservative DCA", res)
}

func TestGenerateErrors(t *testing.T) {
	for _, tc := range []struct {
		status int
		want   error
	}{
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusPaymentRequired, ErrQuotaExhausted},
	} {
		g := newGateway(t, tc.status, "", nil)
		_, err := g.Generate(context.Background(), Request{Type: TypePerformance, Prompt: "scalper"})
		assert.ErrorIs(t, err, tc.want)
	}

	g := newGateway(t, http.StatusInternalServerError, "", nil)
	_, err := g.Generate(context.Background(), Request{Type: TypePerformance})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRateLimited)
	assert.Contains(t, err.Error(), "500")
}

func TestGenerateWithoutKey(t *testing.T) {
	g := NewGenerator(Config{})
	assert.False(t, g.Enabled())

	_, err := g.Generate(context.Background(), Request{Type: TypeThinking})
	assert.ErrorIs(t, err, ErrMissingApiKey)

	_, err = g.Generate(context.Background(), Request{Type: "poetry"})
	assert.ErrorIs(t, err, ErrUnknownType)
}
