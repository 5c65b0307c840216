package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vadimtrunov/StreamShelf/internal/browse"
	"github.com/vadimtrunov/StreamShelf/internal/core"
	"github.com/vadimtrunov/StreamShelf/internal/metadata/tmdb"
)

const (
	unauthorizedMsg = "Sorry, you are not authorized to use this bot."
	errorMsg        = "An error occurred while processing your request. Please try again."
	notFoundMsg     = "That title is no longer available."
	clearedMsg      = "Selection and search cleared."
	searchUsageMsg  = "Usage: /search <title>. You can also just send the title."
	unknownCmdMsg   = "Unknown command. Send /start to see what I can do."
	emptyListMsg    = "Your list is empty. Saved movies and shows appear here."

	welcomeMsg = `Welcome to StreamShelf! Browse the movie catalog:
/popular - popular right now
/toprated - best rated of all time
/nowplaying - in theaters
/upcoming - coming soon
/genres - list genres
/featured - today's featured title
/mylist [title] - your saved titles, or search them
/search <title> - search by title (or just send the title)
/clear - clear your selection`
)

// commandCategories maps bot commands onto catalog listings.
var commandCategories = map[string]browse.Category{
	"popular":    browse.Popular,
	"toprated":   browse.TopRated,
	"nowplaying": browse.NowPlaying,
	"upcoming":   browse.Upcoming,
}

// handleMessage processes an incoming text message.
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}
	userID := msg.From.ID
	chatID := msg.Chat.ID

	b.logger.Debug("received message",
		slog.Int64("user_id", userID),
	)

	if !b.sessions.isAllowed(userID) {
		b.sendText(chatID, unauthorizedMsg)
		return
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	cmd, args, isCmd := parseCommand(text)
	if !isCmd {
		b.search(ctx, chatID, userID, text)
		return
	}

	if category, ok := commandCategories[cmd]; ok {
		b.listCategory(ctx, chatID, category)
		return
	}

	switch cmd {
	case "start", "help":
		b.sessions.reset(userID)
		b.sendText(chatID, welcomeMsg)
	case "genres":
		b.listGenres(ctx, chatID)
	case "featured":
		b.sendFeatured(ctx, chatID, userID)
	case "mylist":
		b.sendMyList(chatID, args)
	case "search":
		if args == "" {
			b.sendText(chatID, searchUsageMsg)
			return
		}
		b.search(ctx, chatID, userID, args)
	case "clear":
		s := b.session(userID)
		s.Clear()
		s.ResetSearch()
		b.sendText(chatID, clearedMsg)
	default:
		b.sendText(chatID, unknownCmdMsg)
	}
}

// handleCallback processes inline keyboard callback queries.
func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.From == nil || cq.Message == nil || cq.Message.Chat == nil {
		return
	}
	userID := cq.From.ID
	chatID := cq.Message.Chat.ID

	b.logger.Debug("received callback",
		slog.Int64("user_id", userID),
		slog.String("data", cq.Data),
	)

	// Acknowledge the callback immediately.
	if _, err := b.out.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		b.logger.Debug("callback ack failed", slog.String("error", err.Error()))
	}

	if !b.sessions.isAllowed(userID) {
		return
	}

	id, ok := parseSelection(cq.Data)
	if !ok {
		return
	}

	b.typing(chatID)

	s := b.session(userID)
	item, err := s.SelectByID(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		// Saved shows are not served by the movie catalog.
		if saved, ok := b.savedItem(id); ok {
			s.Select(saved)
			item, err = saved, nil
		}
	}
	if err != nil {
		b.reportError(chatID, "select item", err)
		return
	}
	b.sendDetail(ctx, chatID, item)
}

// savedItem looks id up in the saved list.
func (b *Bot) savedItem(id int) (core.CatalogItem, bool) {
	for _, item := range b.myList.Items() {
		if item.ID == id {
			return item, true
		}
	}
	return core.CatalogItem{}, false
}

// sendFeatured selects the featured title and sends its detail.
func (b *Bot) sendFeatured(ctx context.Context, chatID, userID int64) {
	b.typing(chatID)

	item, err := browse.Featured(ctx, b.source)
	if err != nil {
		b.reportError(chatID, "featured", err)
		return
	}
	b.session(userID).Select(item)
	b.sendDetail(ctx, chatID, item)
}

// sendMyList sends one list per saved shelf, or the saved titles matching query.
func (b *Bot) sendMyList(chatID int64, query string) {
	if query != "" {
		results, err := b.myList.Search(query)
		if err != nil {
			b.sendText(chatID, searchUsageMsg)
			return
		}
		b.sendList(chatID, fmt.Sprintf("My List results for %q", strings.TrimSpace(query)), results)
		return
	}

	if b.myList.Empty() {
		b.sendText(chatID, emptyListMsg)
		return
	}
	for _, shelf := range b.myList.Shelves() {
		b.sendList(chatID, shelf.Title, shelf.Items)
	}
}

func (b *Bot) listCategory(ctx context.Context, chatID int64, category browse.Category) {
	b.typing(chatID)

	page, err := category.Fetch(ctx, b.source, 1)
	if err != nil {
		b.reportError(chatID, "list "+string(category), err)
		return
	}
	b.sendList(chatID, category.Title(), page.Results)
}

func (b *Bot) search(ctx context.Context, chatID, userID int64, query string) {
	b.typing(chatID)

	results, err := b.session(userID).Search(ctx, query)
	switch {
	case errors.Is(err, browse.ErrSuperseded):
		// A newer search from the same user owns the reply.
		return
	case errors.Is(err, core.ErrInvalidArgument):
		b.sendText(chatID, searchUsageMsg)
		return
	case err != nil:
		b.reportError(chatID, "search", err)
		return
	}

	b.sendList(chatID, fmt.Sprintf("Results for %q", strings.TrimSpace(query)), results)
}

func (b *Bot) listGenres(ctx context.Context, chatID int64) {
	genres, err := b.source.Genres(ctx)
	if err != nil {
		b.reportError(chatID, "list genres", err)
		return
	}

	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, "• "+EscapeMdV2(g.Name))
	}
	b.sendMarkdown(chatID, FormatBold("Genres")+"\n\n"+strings.Join(names, "\n"), nil)
}

// sendList sends a numbered list with one selection button per item.
func (b *Bot) sendList(chatID int64, heading string, items []core.CatalogItem) {
	b.sendMarkdown(chatID, FormatItemList(heading, items), BuildSelectionKeyboard(items))
}

// sendDetail sends the poster with a MarkdownV2 caption, or the caption alone
// when the item has no poster.
func (b *Bot) sendDetail(ctx context.Context, chatID int64, item core.CatalogItem) {
	var names []string
	if genres, err := b.source.Genres(ctx); err == nil {
		names = core.GenreNames(item.GenreIDs, genres)
	}
	caption := FormatItemCaption(item, names)

	if strings.TrimSpace(item.PosterPath) == "" {
		b.sendMarkdown(chatID, caption, nil)
		return
	}

	url := tmdb.PosterURL(item.PosterPath)
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(url))
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeMarkdownV2
	if _, err := b.out.Send(photo); err != nil {
		b.logger.Debug("failed to send poster",
			slog.String("url", url),
			slog.String("error", err.Error()),
		)
		b.sendMarkdown(chatID, caption, nil)
	}
}

// sendMarkdown sends a MarkdownV2 message, falling back to plain text.
func (b *Bot) sendMarkdown(chatID int64, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	if kb != nil {
		msg.ReplyMarkup = kb
	}
	if _, err := b.out.Send(msg); err != nil {
		b.logger.Warn("failed to send markdown, retrying plain",
			slog.String("error", err.Error()),
		)
		plain := tgbotapi.NewMessage(chatID, text)
		if kb != nil {
			plain.ReplyMarkup = kb
		}
		if _, err := b.out.Send(plain); err != nil {
			b.logger.Error("failed to send message",
				slog.Int64("chat_id", chatID),
				slog.String("error", err.Error()),
			)
		}
	}
}

// sendText sends a plain text message (no parse mode).
func (b *Bot) sendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.out.Send(msg); err != nil {
		b.logger.Error("failed to send message",
			slog.Int64("chat_id", chatID),
			slog.String("error", err.Error()),
		)
	}
}

// typing shows the typing indicator.
func (b *Bot) typing(chatID int64) {
	b.out.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)) //nolint:errcheck // best-effort typing indicator
}

// reportError logs err and sends the user a short message.
func (b *Bot) reportError(chatID int64, op string, err error) {
	if errors.Is(err, core.ErrNotFound) {
		b.sendText(chatID, notFoundMsg)
		return
	}
	b.logger.Error("catalog request failed",
		slog.String("op", op),
		slog.Int64("chat_id", chatID),
		slog.String("error", err.Error()),
	)
	b.sendText(chatID, errorMsg)
}
