package telegram

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vadimtrunov/StreamShelf/internal/browse"
	"github.com/vadimtrunov/StreamShelf/internal/core"
)

// sender is the subset of the Bot API used to reply to users.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot is the Telegram frontend for StreamShelf.
// It implements the core.Frontend interface.
type Bot struct {
	api      *tgbotapi.BotAPI
	out      sender
	source   core.CatalogSource
	myList   *browse.MyList
	sessions *sessionManager
	logger   *slog.Logger
}

// compile-time check.
var _ core.Frontend = (*Bot)(nil)

// New creates a new Telegram Bot backed by source. myList may be nil.
func New(token string, allowedUserIDs []int64, source core.CatalogSource, myList *browse.MyList, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	b := newBot(api, source, myList, allowedUserIDs, logger)
	b.api = api
	return b, nil
}

func newBot(out sender, source core.CatalogSource, myList *browse.MyList, allowedUserIDs []int64, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		out:      out,
		source:   source,
		myList:   myList,
		sessions: newSessionManager(allowedUserIDs),
		logger:   logger,
	}
}

// Name returns the frontend name.
func (b *Bot) Name() string { return "telegram" }

// Start starts the long-polling loop. It blocks until ctx is canceled.
func (b *Bot) Start(ctx context.Context) error {
	if b.api == nil {
		return fmt.Errorf("telegram bot not connected")
	}

	b.logger.Info("telegram bot started",
		slog.String("username", b.api.Self.UserName),
		slog.String("source", b.source.Name()),
	)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info("telegram bot stopped")
			return nil

		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

// handleUpdate dispatches an incoming Telegram update.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

// session returns the browsing session for a user, creating it on first use.
func (b *Bot) session(userID int64) *browse.Session {
	return b.sessions.getOrCreate(userID, func() *browse.Session {
		return browse.NewSession(b.source, b.logger.With(slog.Int64("user_id", userID)))
	})
}
