package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/amanihq/amani-backend/internal/models"
)

const (
	chatContextKey = "amani:chat:context"
	chatContextTTL = time.Minute

	// Low-stock cutoff for the assistant's context; tighter than the
	// dashboard threshold so the bot only mentions real shortages.
	chatLowStockThreshold = 30
)

// ChatReply is the response to one chatbot exchange.
type ChatReply struct {
	ConversationID uint   `json:"conversation_id"`
	SessionID      string `json:"session_id,omitempty"`
	Title          string `json:"title"`
	Message        string `json:"message"`
}

// ConversationSummary lists a conversation without its messages.
type ConversationSummary struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConversationHistory is a conversation with its full message list.
type ConversationHistory struct {
	ConversationID uint                 `json:"conversation_id"`
	Title          string               `json:"title"`
	Messages       []models.ChatMessage `json:"messages"`
}

// ChatService stores chatbot conversations and produces assistant replies
// grounded in live system data.
type ChatService struct {
	db        *gorm.DB
	ai        *AIService
	redis     *redis.Client
	dashboard *DashboardService
	clock     Clock
}

// NewChatService creates a new ChatService instance. The Redis client may be
// nil; the context block is then rebuilt on every request.
func NewChatService(db *gorm.DB, ai *AIService, redisClient *redis.Client, dashboard *DashboardService, clock Clock) *ChatService {
	return &ChatService{db: db, ai: ai, redis: redisClient, dashboard: dashboard, clock: clock}
}

// SendMessage appends the user message to the conversation (creating one
// when conversationID is nil), asks the assistant for a reply, stores it, and
// auto-titles the conversation after the first exchange.
func (s *ChatService) SendMessage(ctx context.Context, conversationID *uint, sessionID, message string) (*ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", ErrInvalidRequest)
	}

	var conversation models.Conversation
	if conversationID != nil {
		if err := s.db.WithContext(ctx).First(&conversation, *conversationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrConversationNotFound
			}
			return nil, err
		}
		if sessionID != "" && conversation.SessionID != "" && conversation.SessionID != sessionID {
			return nil, ErrSessionMismatch
		}
	} else {
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
		conversation = models.Conversation{Title: "New Conversation", SessionID: sessionID}
		if err := s.db.WithContext(ctx).Create(&conversation).Error; err != nil {
			return nil, err
		}
	}

	if err := s.db.WithContext(ctx).Create(&models.ChatMessage{
		ConversationID: conversation.ID,
		Role:           models.RoleUser,
		Content:        message,
	}).Error; err != nil {
		return nil, err
	}

	var stored []models.ChatMessage
	if err := s.db.WithContext(ctx).
		Where("conversation_id = ? AND role <> ?", conversation.ID, models.RoleSystem).
		Order("created_at, id").
		Find(&stored).Error; err != nil {
		return nil, err
	}

	history := make([]Message, len(stored))
	for i, m := range stored {
		history[i] = Message{Role: m.Role, Content: m.Content}
	}

	contextBlock, err := s.systemContext(ctx)
	if err != nil {
		// A context-block failure should not take the chatbot down.
		contextBlock = ""
	}

	reply, err := s.ai.GenerateResponse(ctx, history, contextBlock)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&models.ChatMessage{
		ConversationID: conversation.ID,
		Role:           models.RoleAssistant,
		Content:        reply,
	}).Error; err != nil {
		return nil, err
	}

	// First exchange complete: user message plus assistant reply.
	if len(stored) == 1 {
		conversation.Title = s.ai.GenerateTitle(ctx, message)
	}
	if err := s.db.WithContext(ctx).Save(&conversation).Error; err != nil {
		return nil, err
	}

	return &ChatReply{
		ConversationID: conversation.ID,
		SessionID:      conversation.SessionID,
		Title:          conversation.Title,
		Message:        reply,
	}, nil
}

// History returns the full message list of a conversation, enforcing the
// session guard when the conversation was created with one.
func (s *ChatService) History(ctx context.Context, conversationID uint, sessionID string) (*ConversationHistory, error) {
	var conversation models.Conversation
	if err := s.db.WithContext(ctx).First(&conversation, conversationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	if sessionID != "" && conversation.SessionID != "" && conversation.SessionID != sessionID {
		return nil, ErrSessionMismatch
	}

	var messages []models.ChatMessage
	if err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at, id").
		Find(&messages).Error; err != nil {
		return nil, err
	}

	return &ConversationHistory{
		ConversationID: conversation.ID,
		Title:          conversation.Title,
		Messages:       messages,
	}, nil
}

// ListConversations returns the latest conversations for a session.
func (s *ChatService) ListConversations(ctx context.Context, sessionID string) ([]ConversationSummary, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session_id is required", ErrInvalidRequest)
	}

	var conversations []models.Conversation
	if err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("updated_at DESC").
		Limit(20).
		Find(&conversations).Error; err != nil {
		return nil, err
	}

	summaries := make([]ConversationSummary, len(conversations))
	for i, c := range conversations {
		summaries[i] = ConversationSummary{
			ID:        c.ID,
			Title:     c.Title,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		}
	}
	return summaries, nil
}

// systemContext assembles the live system-data block for the assistant.
// The rendered block is cached briefly in Redis so chat bursts do not
// re-aggregate the database.
func (s *ChatService) systemContext(ctx context.Context) (string, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, chatContextKey).Result(); err == nil {
			return cached, nil
		}
	}

	now := s.clock.Now()
	stats, err := s.dashboard.Stats(now)
	if err != nil {
		return "", err
	}

	var inventory []models.DrinkType
	if err := s.db.WithContext(ctx).Order("name").Find(&inventory).Error; err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SYSTEM DATA SNAPSHOT (Generated: %s)\n\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "=== OVERVIEW ===\n")
	fmt.Fprintf(&b, "- Total registered users: %d\n", stats.TotalUsers)
	fmt.Fprintf(&b, "- Total drink types: %d\n", stats.TotalDrinkTypes)
	fmt.Fprintf(&b, "- Drink transactions recorded: %d\n", stats.TotalTransactions)
	fmt.Fprintf(&b, "- Meals consumed today: %d\n\n", stats.MealsToday)

	b.WriteString("=== DRINK INVENTORY ===\n")
	if len(inventory) == 0 {
		b.WriteString("No drinks in inventory\n")
	}
	for _, d := range inventory {
		fmt.Fprintf(&b, "%s: %d units\n", d.Name, d.AvailableQuantity)
	}

	b.WriteString("\n=== LOW STOCK ALERTS ===\n")
	lowStock := 0
	for _, d := range inventory {
		if d.AvailableQuantity < chatLowStockThreshold {
			fmt.Fprintf(&b, "%s: %d units\n", d.Name, d.AvailableQuantity)
			lowStock++
		}
	}
	if lowStock == 0 {
		b.WriteString("All drinks adequately stocked\n")
	}

	b.WriteString("\n=== RECENT ACTIVITY ===\n")
	if len(stats.RecentTransactions) == 0 {
		b.WriteString("No recent activity\n")
	}
	for _, t := range stats.RecentTransactions {
		fmt.Fprintf(&b, "%s ordered %dx %s at %s\n", t.UserName, t.Quantity, t.DrinkName, t.ServingPoint)
	}

	b.WriteString("\nYou can answer questions about user meal allowances, drink inventory " +
		"and stock levels, transaction history, consumption logs, and system statistics.\n")

	block := b.String()
	if s.redis != nil {
		_ = s.redis.Set(ctx, chatContextKey, block, chatContextTTL).Err()
	}
	return block, nil
}
