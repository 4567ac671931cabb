package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// maxMessageChars keeps outbound text safely under the Bot API's 4096
// character limit.
const maxMessageChars = 3900

// Client is a minimal Telegram Bot API client.
type Client struct {
	http *resty.Client
}

// NewClient creates a client for the given bot API base URL
// (e.g. "https://api.telegram.org/bot<token>"). The timeout must exceed the
// long-poll timeout passed to GetUpdates.
func NewClient(apiBase string, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().SetBaseURL(apiBase).SetTimeout(timeout),
	}
}

type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from,omitempty"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text,omitempty"`
}

type User struct {
	ID int64 `json:"id"`
}

type Chat struct {
	ID int64 `json:"id"`
}

// apiResponse is the generic Bot API response wrapper.
type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description,omitempty"`
}

type getUpdatesRequest struct {
	Offset  int64 `json:"offset"`
	Timeout int   `json:"timeout"`
}

type keyButton struct {
	Text string `json:"text"`
}

type replyKeyboard struct {
	Keyboard       [][]keyButton `json:"keyboard"`
	ResizeKeyboard bool          `json:"resize_keyboard"`
}

type sendMessageRequest struct {
	ChatID      int64          `json:"chat_id"`
	Text        string         `json:"text"`
	ReplyMarkup *replyKeyboard `json:"reply_markup,omitempty"`
}

type deleteMessageRequest struct {
	ChatID    int64 `json:"chat_id"`
	MessageID int64 `json:"message_id"`
}

func (c *Client) call(ctx context.Context, method string, payload, out any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post("/" + method)
	if err != nil {
		return fmt.Errorf("telegram %s request failed: %w", method, err)
	}

	var wrapper apiResponse
	if err := json.Unmarshal(resp.Body(), &wrapper); err != nil {
		return fmt.Errorf("telegram %s: parsing response: %w", method, err)
	}
	if !wrapper.OK {
		return fmt.Errorf("telegram %s: api error: %s", method, wrapper.Description)
	}
	if out != nil && len(wrapper.Result) > 0 {
		if err := json.Unmarshal(wrapper.Result, out); err != nil {
			return fmt.Errorf("telegram %s: parsing result: %w", method, err)
		}
	}
	return nil
}

// GetUpdates long-polls the getUpdates API for up to timeoutSecs seconds.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeoutSecs int) ([]Update, error) {
	var updates []Update
	err := c.call(ctx, "getUpdates", getUpdatesRequest{Offset: offset, Timeout: timeoutSecs}, &updates)
	if err != nil {
		return nil, err
	}
	return updates, nil
}

// SendMessage sends a text message and returns the sent message's id.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) (int64, error) {
	return c.send(ctx, sendMessageRequest{ChatID: chatID, Text: truncate(text, maxMessageChars)})
}

// SendMessageWithKeyboard sends a text message with a persistent reply
// keyboard; each element of rows becomes one row of buttons.
func (c *Client) SendMessageWithKeyboard(ctx context.Context, chatID int64, text string, rows [][]string) (int64, error) {
	kb := &replyKeyboard{ResizeKeyboard: true}
	for _, row := range rows {
		buttons := make([]keyButton, len(row))
		for i, label := range row {
			buttons[i] = keyButton{Text: label}
		}
		kb.Keyboard = append(kb.Keyboard, buttons)
	}
	return c.send(ctx, sendMessageRequest{ChatID: chatID, Text: truncate(text, maxMessageChars), ReplyMarkup: kb})
}

func (c *Client) send(ctx context.Context, req sendMessageRequest) (int64, error) {
	var sent Message
	if err := c.call(ctx, "sendMessage", req, &sent); err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// DeleteMessage removes a previously sent message. Telegram rejects deletes
// of old or foreign messages; callers treat failures as best effort.
func (c *Client) DeleteMessage(ctx context.Context, chatID, messageID int64) error {
	return c.call(ctx, "deleteMessage", deleteMessageRequest{ChatID: chatID, MessageID: messageID}, nil)
}

func truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}
