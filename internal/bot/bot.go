package bot

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/charantamarapu/llama4aibot/internal/conversation"
	"github.com/charantamarapu/llama4aibot/internal/llm"
	"github.com/charantamarapu/llama4aibot/internal/telegram"
)

const (
	clearButton     = "🗑️ Clear Chat"
	clearedReply    = "✓ Chat cleared!"
	processingReply = "⌛ Processing..."

	welcomeReply = "🙏 Namaste!\n\nWelcome to Sanskrit Bot!\n\nDirect connection to Llama model.\nType any question to chat!"
)

// Transport is the slice of the Telegram client the dispatcher needs.
type Transport interface {
	GetUpdates(ctx context.Context, offset int64, timeoutSecs int) ([]telegram.Update, error)
	SendMessage(ctx context.Context, chatID int64, text string) (int64, error)
	SendMessageWithKeyboard(ctx context.Context, chatID int64, text string, rows [][]string) (int64, error)
	DeleteMessage(ctx context.Context, chatID, messageID int64) error
}

// Asker produces an answer for a user's question.
type Asker interface {
	Ask(ctx context.Context, userID int64, question string) (string, *llm.Error)
}

// Bot polls the transport for updates and dispatches each message.
type Bot struct {
	transport   Transport
	llm         Asker
	store       *conversation.Store
	pollTimeout int
	logger      *zap.Logger
}

func New(transport Transport, asker Asker, store *conversation.Store, pollTimeoutSecs int, logger *zap.Logger) *Bot {
	return &Bot{
		transport:   transport,
		llm:         asker,
		store:       store,
		pollTimeout: pollTimeoutSecs,
		logger:      logger,
	}
}

// Run polls for updates until ctx is cancelled. Each message is handled in
// its own goroutine so one user's model call never blocks another's.
func (b *Bot) Run(ctx context.Context) {
	var offset int64
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		updates, err := b.transport.GetUpdates(ctx, offset, b.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			b.logger.Warn("getUpdates failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			if u.Message == nil || u.Message.Text == "" {
				continue
			}
			msg := *u.Message
			go b.handleMessage(ctx, msg)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg telegram.Message) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("message handler panicked",
				zap.Any("panic", r),
				zap.Int64("chat_id", msg.Chat.ID))
		}
	}()

	userID := msg.Chat.ID
	if msg.From != nil {
		userID = msg.From.ID
	}

	switch msg.Text {
	case "/start":
		b.handleStart(ctx, msg)
	case clearButton:
		b.handleClear(ctx, msg, userID)
	default:
		b.handleQuestion(ctx, msg, userID)
	}
}

func (b *Bot) handleStart(ctx context.Context, msg telegram.Message) {
	_, err := b.transport.SendMessageWithKeyboard(ctx, msg.Chat.ID, welcomeReply, [][]string{{clearButton}})
	if err != nil {
		b.logger.Error("failed to send welcome", zap.Error(err), zap.Int64("chat_id", msg.Chat.ID))
	}
}

func (b *Bot) handleClear(ctx context.Context, msg telegram.Message, userID int64) {
	b.store.Clear(userID)
	if _, err := b.transport.SendMessage(ctx, msg.Chat.ID, clearedReply); err != nil {
		b.logger.Error("failed to confirm clear", zap.Error(err), zap.Int64("chat_id", msg.Chat.ID))
	}
	// Remove the button press itself; not all chats allow it.
	_ = b.transport.DeleteMessage(ctx, msg.Chat.ID, msg.MessageID)
}

func (b *Bot) handleQuestion(ctx context.Context, msg telegram.Message, userID int64) {
	placeholderID, err := b.transport.SendMessage(ctx, msg.Chat.ID, processingReply)
	if err != nil {
		b.logger.Warn("failed to send placeholder", zap.Error(err), zap.Int64("chat_id", msg.Chat.ID))
	}

	reply, askErr := b.llm.Ask(ctx, userID, msg.Text)
	if askErr != nil {
		b.logger.Warn("ask failed",
			zap.String("kind", askErr.Kind.String()),
			zap.Int64("user_id", userID))
		reply = askErr.Message
	}

	if placeholderID != 0 {
		_ = b.transport.DeleteMessage(ctx, msg.Chat.ID, placeholderID)
	}
	if _, err := b.transport.SendMessage(ctx, msg.Chat.ID, reply); err != nil {
		b.logger.Error("failed to send reply", zap.Error(err), zap.Int64("chat_id", msg.Chat.ID))
	}
}
