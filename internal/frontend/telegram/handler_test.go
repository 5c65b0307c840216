package telegram

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vadimtrunov/StreamShelf/internal/core"
	"github.com/vadimtrunov/StreamShelf/internal/fixture"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeSender records everything the bot sends.
type fakeSender struct {
	mu        sync.Mutex
	sent      []tgbotapi.Chattable
	requests  []tgbotapi.Chattable
	failPhoto bool
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := c.(tgbotapi.PhotoConfig); ok && f.failPhoto {
		return tgbotapi.Message{}, errors.New("wrong file identifier")
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) messages() []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.MessageConfig
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeSender) photos() []tgbotapi.PhotoConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.PhotoConfig
	for _, c := range f.sent {
		if p, ok := c.(tgbotapi.PhotoConfig); ok {
			out = append(out, p)
		}
	}
	return out
}

func newTestBot(t *testing.T, allowed ...int64) (*Bot, *fakeSender) {
	t.Helper()
	lib, err := fixture.Load()
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	out := &fakeSender{}
	return newBot(out, lib.MovieSource(), lib.MyList(), allowed, discardLogger), out
}

func textMessage(userID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID},
		Chat: &tgbotapi.Chat{ID: userID},
		Text: text,
	}
}

func callback(userID int64, data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:      "cb-1",
		From:    &tgbotapi.User{ID: userID},
		Message: &tgbotapi.Message{MessageID: 9, Chat: &tgbotapi.Chat{ID: userID}},
		Data:    data,
	}
}

func lastMessage(t *testing.T, out *fakeSender) tgbotapi.MessageConfig {
	t.Helper()
	msgs := out.messages()
	if len(msgs) == 0 {
		t.Fatal("expected a message to be sent")
	}
	return msgs[len(msgs)-1]
}

func TestHandleMessage_Unauthorized(t *testing.T) {
	b, out := newTestBot(t, 100)

	b.handleMessage(context.Background(), textMessage(200, "/popular"))

	if got := lastMessage(t, out).Text; got != unauthorizedMsg {
		t.Errorf("expected unauthorized reply, got %q", got)
	}
}

func TestHandleMessage_Start(t *testing.T) {
	b, out := newTestBot(t)

	b.handleMessage(context.Background(), textMessage(1, "/start"))

	if got := lastMessage(t, out).Text; !strings.Contains(got, "/popular") {
		t.Errorf("expected command list, got %q", got)
	}
}

func TestHandleMessage_Listing(t *testing.T) {
	b, out := newTestBot(t)

	b.handleMessage(context.Background(), textMessage(1, "/toprated"))

	msg := lastMessage(t, out)
	if msg.ParseMode != tgbotapi.ModeMarkdownV2 {
		t.Errorf("parse mode = %q", msg.ParseMode)
	}
	if !strings.HasPrefix(msg.Text, "*Top Rated*") {
		t.Errorf("unexpected heading: %q", msg.Text)
	}
	if !strings.Contains(msg.Text, "1\\. The Godfather") {
		t.Errorf("expected The Godfather first: %q", msg.Text)
	}
	kb, ok := msg.ReplyMarkup.(*tgbotapi.InlineKeyboardMarkup)
	if !ok || len(kb.InlineKeyboard) == 0 {
		t.Fatalf("expected inline keyboard, got %T", msg.ReplyMarkup)
	}
}

func TestHandleMessage_PlainTextSearches(t *testing.T) {
	b, out := newTestBot(t)

	b.handleMessage(context.Background(), textMessage(1, "batman"))

	msg := lastMessage(t, out)
	if !strings.Contains(msg.Text, "The Dark Knight") {
		t.Errorf("expected search hit, got %q", msg.Text)
	}
	if got := b.session(1).Query(); got != "batman" {
		t.Errorf("session query = %q", got)
	}
}

func TestHandleMessage_SearchCommand(t *testing.T) {
	b, out := newTestBot(t)

	b.handleMessage(context.Background(), textMessage(1, "/search"))
	if got := lastMessage(t, out).Text; got != searchUsageMsg {
		t.Errorf("expected usage, got %q", got)
	}

	b.handleMessage(context.Background(), textMessage(1, "/search zzzz"))
	if got := lastMessage(t, out).Text; !strings.Contains(got, "Nothing found") {
		t.Errorf("expected empty notice, got %q", got)
	}
}

func TestHandleMessage_Genres(t *testing.T) {
	b, out := newTestBot(t)

	b.handleMessage(context.Background(), textMessage(1, "/genres"))

	if got := lastMessage(t, out).Text; !strings.Contains(got, "• Action") {
		t.Errorf("expected genre list, got %q", got)
	}
}

func TestHandleMessage_UnknownCommand(t *testing.T) {
	b, out := newTestBot(t)

	b.handleMessage(context.Background(), textMessage(1, "/download 42"))

	if got := lastMessage(t, out).Text; got != unknownCmdMsg {
		t.Errorf("expected unknown command reply, got %q", got)
	}
}

func TestHandleCallback_SelectsItem(t *testing.T) {
	b, out := newTestBot(t)

	b.handleCallback(context.Background(), callback(1, "sel:1"))

	photos := out.photos()
	if len(photos) != 1 {
		t.Fatalf("expected 1 poster, got %d", len(photos))
	}
	if !strings.HasPrefix(photos[0].Caption, "*The Dark Knight \\(2008\\)*") {
		t.Errorf("unexpected caption: %q", photos[0].Caption)
	}
	if photos[0].ParseMode != tgbotapi.ModeMarkdownV2 {
		t.Errorf("parse mode = %q", photos[0].ParseMode)
	}

	item, ok := b.session(1).Selected()
	if !ok || item.ID != 1 {
		t.Errorf("expected item 1 selected, got %+v (%v)", item, ok)
	}
	if len(out.requests) == 0 {
		t.Error("expected callback to be acknowledged")
	}
}

func TestHandleCallback_PosterFailureFallsBack(t *testing.T) {
	b, out := newTestBot(t)
	out.failPhoto = true

	b.handleCallback(context.Background(), callback(1, "sel:1"))

	if got := lastMessage(t, out).Text; !strings.Contains(got, "The Dark Knight") {
		t.Errorf("expected caption as text, got %q", got)
	}
}

func TestHandleCallback_NotFound(t *testing.T) {
	b, out := newTestBot(t)

	b.handleCallback(context.Background(), callback(1, "sel:4242"))

	if got := lastMessage(t, out).Text; got != notFoundMsg {
		t.Errorf("expected not found reply, got %q", got)
	}
	if _, ok := b.session(1).Selected(); ok {
		t.Error("expected no selection")
	}
}

func TestHandleCallback_IgnoresForeignData(t *testing.T) {
	b, out := newTestBot(t)

	b.handleCallback(context.Background(), callback(1, "page:2"))

	if len(out.messages())+len(out.photos()) != 0 {
		t.Error("expected no reply for unknown callback data")
	}
}

func TestHandleMessage_Clear(t *testing.T) {
	b, out := newTestBot(t)
	ctx := context.Background()

	b.handleCallback(ctx, callback(1, "sel:2"))
	b.handleMessage(ctx, textMessage(1, "batman"))
	b.handleMessage(ctx, textMessage(1, "/clear"))

	if got := lastMessage(t, out).Text; got != clearedMsg {
		t.Errorf("expected cleared reply, got %q", got)
	}
	s := b.session(1)
	if _, ok := s.Selected(); ok {
		t.Error("expected selection cleared")
	}
	if s.Query() != "" || len(s.Results()) != 0 {
		t.Error("expected search state cleared")
	}
}

func TestReportError_UpstreamFailure(t *testing.T) {
	b, out := newTestBot(t)

	b.reportError(1, "list popular", &core.TransportError{Op: "popular", Err: errors.New("timeout")})

	if got := lastMessage(t, out).Text; got != errorMsg {
		t.Errorf("expected generic error reply, got %q", got)
	}
}

func TestHandleMessage_MyList(t *testing.T) {
	b, out := newTestBot(t)

	b.handleMessage(context.Background(), textMessage(1, "/mylist"))

	msgs := out.messages()
	if len(msgs) != 3 {
		t.Fatalf("expected one message per shelf, got %d", len(msgs))
	}
	for i, heading := range []string{"Continue Watching", "My Movies", "My TV Shows"} {
		if !strings.Contains(msgs[i].Text, heading) {
			t.Errorf("message %d = %q, want heading %q", i, msgs[i].Text, heading)
		}
		if msgs[i].ReplyMarkup == nil {
			t.Errorf("message %d has no selection keyboard", i)
		}
	}
}

func TestHandleMessage_MyListSearch(t *testing.T) {
	b, out := newTestBot(t)

	b.handleMessage(context.Background(), textMessage(1, "/mylist dark"))

	got := lastMessage(t, out).Text
	if !strings.Contains(got, "The Dark Knight") || strings.Contains(got, "Inception") {
		t.Errorf("unexpected results: %q", got)
	}

	b.handleMessage(context.Background(), textMessage(1, "/mylist zzz"))
	if got := lastMessage(t, out).Text; !strings.Contains(got, "Nothing found") {
		t.Errorf("expected empty result, got %q", got)
	}
}

func TestHandleMessage_MyListEmpty(t *testing.T) {
	lib, err := fixture.Load()
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	out := &fakeSender{}
	b := newBot(out, lib.MovieSource(), nil, nil, discardLogger)

	b.handleMessage(context.Background(), textMessage(1, "/mylist"))

	if got := lastMessage(t, out).Text; got != emptyListMsg {
		t.Errorf("expected empty list reply, got %q", got)
	}
}

func TestHandleMessage_Featured(t *testing.T) {
	b, out := newTestBot(t)

	b.handleMessage(context.Background(), textMessage(1, "/featured"))

	photos := out.photos()
	if len(photos) != 1 || !strings.Contains(photos[0].Caption, "The Dark Knight") {
		t.Fatalf("expected featured poster, got %+v", photos)
	}
	if item, ok := b.session(1).Selected(); !ok || item.ID != 1 {
		t.Errorf("featured title should be selected, got %+v %v", item, ok)
	}
}

func TestHandleCallback_SelectsSavedShow(t *testing.T) {
	b, out := newTestBot(t)

	b.handleCallback(context.Background(), callback(1, "sel:101"))

	item, ok := b.session(1).Selected()
	if !ok || item.ID != 101 {
		t.Fatalf("selected = %+v, %v; want saved show 101", item, ok)
	}
	photos := out.photos()
	if len(photos) != 1 || !strings.Contains(photos[0].Caption, "Stranger Things") {
		t.Errorf("expected Stranger Things poster, got %+v", photos)
	}
}
