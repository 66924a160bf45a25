package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/amanihq/amani-backend/config"
)

const defaultSystemPrompt = "You are Amani, a helpful assistant supporting a district conference. " +
	"Answer questions accurately, concisely, and with a professional tone."

// Message is one chat turn in the OpenAI-compatible wire format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AIService talks to an OpenAI-compatible chat-completions endpoint
// (Groq by default; any provider exposing the same surface works).
type AIService struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
}

// NewAIService creates a new AIService instance. The API key comes from the
// configuration or, failing that, from a secret file named by AI_API_KEY_FILE.
func NewAIService(cfg *config.Config) (*AIService, error) {
	apiKey := cfg.AIAPIKey
	if apiKey == "" {
		if keyFile := os.Getenv("AI_API_KEY_FILE"); keyFile != "" {
			data, err := os.ReadFile(keyFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read API key file: %w", err)
			}
			apiKey = strings.TrimSpace(string(data))
		}
	}
	if apiKey == "" {
		return nil, fmt.Errorf("AI_API_KEY or AI_API_KEY_FILE must be set")
	}

	return &AIService{
		apiKey: apiKey,
		apiURL: cfg.AIAPIURL,
		model:  cfg.AIModel,
		client: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// GenerateResponse asks the model for a reply to the conversation so far.
// contextBlock, when non-empty, is appended to the system prompt so the
// assistant can answer from live system data.
func (s *AIService) GenerateResponse(ctx context.Context, history []Message, contextBlock string) (string, error) {
	system := defaultSystemPrompt
	if contextBlock != "" {
		system += "\n\nCONVERSATION CONTEXT (use when relevant):\n" +
			strings.TrimSpace(contextBlock) +
			"\nIf the context is unrelated, answer using your general reasoning.\n"
	}

	messages := append([]Message{{Role: "system", Content: system}}, history...)

	content, err := s.complete(ctx, chatRequest{
		Model:       s.model,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   1024,
	})
	if err != nil {
		return "", err
	}
	if content == "" {
		return "I'm sorry, I don't have a response at the moment.", nil
	}
	return content, nil
}

// GenerateTitle produces a short conversation title from the first user
// message, falling back to a snippet of the message itself.
func (s *AIService) GenerateTitle(ctx context.Context, firstUserMessage string) string {
	trimmed := strings.TrimSpace(firstUserMessage)
	if trimmed == "" {
		return "New Conversation"
	}

	title, err := s.complete(ctx, chatRequest{
		Model: s.model,
		Messages: []Message{
			{Role: "system", Content: "Generate a concise (max 6 words) conversation title. " +
				"Return ONLY the title text without punctuation or quotation marks."},
			{Role: "user", Content: trimmed},
		},
		Temperature: 0.5,
		MaxTokens:   20,
	})
	if err != nil || strings.TrimSpace(title) == "" {
		log.Printf("Title generation failed, using message snippet: %v", err)
		title = strings.SplitN(trimmed, "\n", 2)[0]
		if len(title) > 50 {
			title = title[:50]
		}
	}

	title = strings.Trim(strings.TrimSpace(title), `"'`)
	if title == "" {
		return "New Conversation"
	}
	return title
}

func (s *AIService) complete(ctx context.Context, reqBody chatRequest) (string, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("AI provider request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", nil
	}
	return parsed.Choices[0].Message.Content, nil
}
