package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amanihq/amani-backend/config"
)

func newTestAIService(t *testing.T, handler http.HandlerFunc) *AIService {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewAIService(&config.Config{
		AIAPIKey: "test-key",
		AIAPIURL: server.URL,
		AIModel:  "test-model",
	})
	require.NoError(t, err)
	return svc
}

func completionResponse(content string) string {
	resp := chatResponse{}
	resp.Choices = append(resp.Choices, struct {
		Message Message `json:"message"`
	}{Message: Message{Role: "assistant", Content: content}})
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestNewAIServiceRequiresKey(t *testing.T) {
	t.Setenv("AI_API_KEY_FILE", "")

	_, err := NewAIService(&config.Config{AIAPIURL: "http://localhost", AIModel: "m"})
	assert.Error(t, err)
}

func TestGenerateResponse(t *testing.T) {
	var captured chatRequest
	svc := newTestAIService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionResponse("Hello there")))
	})

	reply, err := svc.GenerateResponse(context.Background(),
		[]Message{{Role: "user", Content: "Hi"}}, "")
	require.NoError(t, err)
	assert.Equal(t, "Hello there", reply)

	require.NotEmpty(t, captured.Messages)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "test-model", captured.Model)
}

func TestGenerateResponseIncludesContextBlock(t *testing.T) {
	var captured chatRequest
	svc := newTestAIService(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(completionResponse("ok")))
	})

	_, err := svc.GenerateResponse(context.Background(),
		[]Message{{Role: "user", Content: "How much soda is left?"}},
		"Soda: 12 units")
	require.NoError(t, err)

	require.NotEmpty(t, captured.Messages)
	assert.Contains(t, captured.Messages[0].Content, "Soda: 12 units")
}

func TestGenerateResponseEmptyChoices(t *testing.T) {
	svc := newTestAIService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	reply, err := svc.GenerateResponse(context.Background(),
		[]Message{{Role: "user", Content: "Hi"}}, "")
	require.NoError(t, err)
	assert.Contains(t, reply, "I'm sorry")
}

func TestGenerateResponseProviderError(t *testing.T) {
	svc := newTestAIService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := svc.GenerateResponse(context.Background(),
		[]Message{{Role: "user", Content: "Hi"}}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGenerateTitle(t *testing.T) {
	svc := newTestAIService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(completionResponse(`"Drink Stock Question"`)))
	})

	title := svc.GenerateTitle(context.Background(), "How many beers are left at the main bar?")
	assert.Equal(t, "Drink Stock Question", title)
}

func TestGenerateTitleFallsBackToSnippet(t *testing.T) {
	svc := newTestAIService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	})

	long := strings.Repeat("a", 80)
	title := svc.GenerateTitle(context.Background(), long)
	assert.Len(t, title, 50)

	assert.Equal(t, "New Conversation", svc.GenerateTitle(context.Background(), "   "))
}
