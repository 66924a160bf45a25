package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/amanihq/amani-backend/internal/service"
)

// ChatHandler exposes the public conference-assistant endpoints.
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler creates a new ChatHandler instance.
func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// RegisterRoutes wires the chat endpoints onto the router group.
func (h *ChatHandler) RegisterRoutes(router *gin.RouterGroup) {
	chat := router.Group("/chat")
	{
		chat.POST("", h.SendMessage)
		chat.GET("/conversations", h.ListConversations)
		chat.GET("/conversations/:id", h.GetHistory)
	}
}

type chatMessageRequest struct {
	Message        string `json:"message"`
	ConversationID *uint  `json:"conversation_id"`
	SessionID      string `json:"session_id"`
}

// SendMessage submits a user message and returns the assistant reply.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req chatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.chat.SendMessage(c.Request.Context(), req.ConversationID, req.SessionID, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

// ListConversations returns the latest conversations for a session.
func (h *ChatHandler) ListConversations(c *gin.Context) {
	conversations, err := h.chat.ListConversations(c.Request.Context(), c.Query("session_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

// GetHistory returns the full message history of one conversation.
func (h *ChatHandler) GetHistory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return
	}

	history, err := h.chat.History(c.Request.Context(), uint(id), c.Query("session_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
