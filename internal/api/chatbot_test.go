package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amanihq/amani-backend/config"
	"github.com/amanihq/amani-backend/internal/service"
)

func setupChatEnv(t *testing.T, reply string) *testEnv {
	env := setupTestEnv(t)

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"choices":[{"message":{"role":"assistant","content":%q}}]}`, reply)
	}))
	t.Cleanup(provider.Close)

	ai, err := service.NewAIService(&config.Config{
		AIAPIKey: "test-key",
		AIAPIURL: provider.URL,
		AIModel:  "test-model",
	})
	require.NoError(t, err)

	dashboard := service.NewDashboardService(env.db, time.UTC)
	chat := service.NewChatService(env.db, ai, nil, dashboard, env.clock)

	router := gin.New()
	v1 := router.Group("/api/v1")
	NewChatHandler(chat).RegisterRoutes(v1)
	env.router = router
	return env
}

func TestChatSendMessage(t *testing.T) {
	env := setupChatEnv(t, "The main bar has plenty of soda.")

	w := env.request(t, http.MethodPost, "/api/v1/chat", map[string]interface{}{
		"message": "How much soda is left?",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var reply struct {
		ConversationID uint   `json:"conversation_id"`
		SessionID      string `json:"session_id"`
		Message        string `json:"message"`
	}
	decodeBody(t, w, &reply)
	assert.NotZero(t, reply.ConversationID)
	assert.NotEmpty(t, reply.SessionID)
	assert.Equal(t, "The main bar has plenty of soda.", reply.Message)
}

func TestChatSendMessageEmptyBody(t *testing.T) {
	env := setupChatEnv(t, "hi")

	w := env.request(t, http.MethodPost, "/api/v1/chat", map[string]interface{}{
		"message": "",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatConversationFlow(t *testing.T) {
	env := setupChatEnv(t, "Happy to help.")

	w := env.request(t, http.MethodPost, "/api/v1/chat", map[string]interface{}{
		"message": "Hello",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var reply struct {
		ConversationID uint   `json:"conversation_id"`
		SessionID      string `json:"session_id"`
	}
	decodeBody(t, w, &reply)

	// Listing requires the session
	w = env.request(t, http.MethodGet,
		"/api/v1/chat/conversations?session_id="+reply.SessionID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"conversations"`)

	w = env.request(t, http.MethodGet, "/api/v1/chat/conversations", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// History honors the session guard
	w = env.request(t, http.MethodGet,
		fmt.Sprintf("/api/v1/chat/conversations/%d?session_id=%s", reply.ConversationID, reply.SessionID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hello")

	w = env.request(t, http.MethodGet,
		fmt.Sprintf("/api/v1/chat/conversations/%d?session_id=other", reply.ConversationID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestChatHistoryNotFound(t *testing.T) {
	env := setupChatEnv(t, "hi")

	w := env.request(t, http.MethodGet, "/api/v1/chat/conversations/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
