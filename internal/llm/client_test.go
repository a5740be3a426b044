package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/plat-style/internal/style"
)

type capturedRequest struct {
	Model          string  `json:"model"`
	Temperature    float32 `json:"temperature"`
	MaxTokens      int     `json:"max_tokens"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func fakeOpenAI(t *testing.T, status int, body string, got *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		if got != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func completion(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]string{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
	})
	return string(b)
}

func TestGenerateSendsContract(t *testing.T) {
	var got capturedRequest
	srv := fakeOpenAI(t, http.StatusOK, completion(`{"water":"#111111","land":"#222222"}`), &got)

	c := New(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1", Temperature: 0.7})
	raw, err := c.Generate(context.Background(), "sunset desert", style.Overrides{style.Labels: "#000000"})
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.Equal(t, 300, got.MaxTokens)
	assert.InDelta(t, 0.7, got.Temperature, 1e-6)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Contains(t, got.Messages[0].Content, "ONLY valid JSON")
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "Prompt: sunset desert\nOverrides: {\"labels\":\"#000000\"}\nReturn the JSON only.", got.Messages[1].Content)

	s := style.Normalize(raw, style.Overrides{style.Labels: "#000000"})
	assert.Equal(t, style.Style{
		Name: "AI style", Water: "#111111", Land: "#222222",
		Roads: "#ff85c1", Buildings: "#f0e5ff", Labels: "#000000",
	}, s)
}

func TestGenerateNoChoicesIsAbsent(t *testing.T) {
	srv := fakeOpenAI(t, http.StatusOK, `{"id":"x","object":"chat.completion","choices":[]}`, nil)

	raw, err := New(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1"}).Generate(context.Background(), "x", nil)
	require.NoError(t, err)
	assert.Equal(t, style.Absent, raw)
}

func TestGenerateTransportFailure(t *testing.T) {
	srv := fakeOpenAI(t, http.StatusInternalServerError, `{"error":{"message":"upstream down","type":"server_error"}}`, nil)

	_, err := New(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1"}).Generate(context.Background(), "x", nil)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "chat completion"))
}

func TestGenerateMissingKey(t *testing.T) {
	_, err := New(Config{}).Generate(context.Background(), "x", nil)
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestBuildUserMessageNilOverrides(t *testing.T) {
	assert.Equal(t, "Prompt: calm\nOverrides: {}\nReturn the JSON only.", buildUserMessage("calm", nil))
}
