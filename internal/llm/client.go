package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/charantamarapu/llama4aibot/internal/conversation"
	"github.com/charantamarapu/llama4aibot/internal/models"
)

// Options configure the completion client.
type Options struct {
	URL          string
	APIKey       string
	Model        string
	SystemPrompt string
	MaxTokens    int
	Timeout      time.Duration
}

// Client turns a user's question into a model-generated answer, keeping the
// user's bounded history in the store. One outbound call per Ask, no retries.
type Client struct {
	http   *resty.Client
	opts   Options
	store  *conversation.Store
	logger *zap.Logger
}

func New(opts Options, store *conversation.Store, logger *zap.Logger) *Client {
	return &Client{
		http:   resty.New().SetTimeout(opts.Timeout),
		opts:   opts,
		store:  store,
		logger: logger,
	}
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []models.Turn `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Ask records the question in the user's history, sends the system prompt
// plus a snapshot of that history to the completion endpoint and, on
// success, records and returns the answer. On failure the question stays in
// history but no assistant turn is appended, so the next successful call
// still has correct context.
func (c *Client) Ask(ctx context.Context, userID int64, question string) (string, *Error) {
	c.store.Append(userID, models.RoleUser, question)

	// The system prompt is injected per request, never stored.
	messages := make([]models.Turn, 0, conversation.MaxTurns+1)
	messages = append(messages, models.Turn{Role: models.RoleSystem, Content: c.opts.SystemPrompt})
	messages = append(messages, c.store.History(userID)...)

	requestID := uuid.NewString()
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.opts.APIKey).
		SetHeader("Content-Type", "application/json").
		SetBody(chatRequest{Model: c.opts.Model, Messages: messages, MaxTokens: c.opts.MaxTokens}).
		Post(c.opts.URL)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.logger.Warn("completion request timed out",
				zap.String("request_id", requestID),
				zap.Int64("user_id", userID),
				zap.Duration("timeout", c.opts.Timeout))
			return "", &Error{Kind: KindTimeout, Message: "Request timeout. Please try again."}
		}
		c.logger.Error("completion request failed",
			zap.String("request_id", requestID),
			zap.Int64("user_id", userID),
			zap.Error(err))
		return "", &Error{Kind: KindTransport, Message: fmt.Sprintf("API request failed: %v", err)}
	}

	if resp.IsError() {
		c.logger.Error("completion endpoint returned error status",
			zap.String("request_id", requestID),
			zap.Int64("user_id", userID),
			zap.Int("status", resp.StatusCode()))
		return "", &Error{Kind: KindTransport, Message: fmt.Sprintf("API request failed: status %s", resp.Status())}
	}

	answer, perr := parseCompletion(resp.Body())
	if perr != nil {
		c.logger.Error("completion response rejected",
			zap.String("request_id", requestID),
			zap.Int64("user_id", userID),
			zap.String("kind", perr.Kind.String()))
		return "", perr
	}

	c.store.Append(userID, models.RoleAssistant, answer)
	return answer, nil
}

// parseCompletion extracts the first choice's message content from a 2xx
// response body.
func parseCompletion(body []byte) (string, *Error) {
	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &Error{Kind: KindUnknown, Message: fmt.Sprintf("Error: %v", err)}
	}
	if len(parsed.Choices) == 0 {
		return "", &Error{Kind: KindMalformed, Message: "Unexpected API response"}
	}
	return parsed.Choices[0].Message.Content, nil
}
