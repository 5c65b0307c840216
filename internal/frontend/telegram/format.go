package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vadimtrunov/StreamShelf/internal/core"
)

const (
	callbackPrefix = "sel:" // prefix for selection callback data

	maxListItems     = 10  // items shown per listing message
	maxButtonLabel   = 30  // max characters in inline keyboard button label
	maxOverviewChars = 700 // keeps captions under Telegram's 1024 char limit
)

// mdV2Replacer escapes special characters for Telegram MarkdownV2.
var mdV2Replacer = strings.NewReplacer(
	`\`, `\\`,
	"_", "\\_",
	"*", "\\*",
	"[", "\\[",
	"]", "\\]",
	"(", "\\(",
	")", "\\)",
	"~", "\\~",
	"`", "\\`",
	">", "\\>",
	"#", "\\#",
	"+", "\\+",
	"-", "\\-",
	"=", "\\=",
	"|", "\\|",
	"{", "\\{",
	"}", "\\}",
	".", "\\.",
	"!", "\\!",
)

// EscapeMdV2 escapes a string for safe use in Telegram MarkdownV2.
func EscapeMdV2(s string) string {
	return mdV2Replacer.Replace(s)
}

// FormatBold returns MarkdownV2 bold text.
func FormatBold(s string) string {
	return "*" + EscapeMdV2(s) + "*"
}

// FormatItalic returns MarkdownV2 italic text.
func FormatItalic(s string) string {
	return "_" + EscapeMdV2(s) + "_"
}

// titleWithYear renders "Title (2008)", or just the title when the year is unknown.
func titleWithYear(item core.CatalogItem) string {
	if year := item.ReleaseYear(); year > 0 {
		return fmt.Sprintf("%s (%d)", item.Title, year)
	}
	return item.Title
}

// FormatItemList renders a numbered MarkdownV2 list under a bold heading.
// At most maxListItems entries are shown.
func FormatItemList(heading string, items []core.CatalogItem) string {
	var sb strings.Builder
	sb.WriteString(FormatBold(heading))
	sb.WriteString("\n\n")

	if len(items) == 0 {
		sb.WriteString(FormatItalic("Nothing found."))
		return sb.String()
	}

	for i, item := range visibleItems(items) {
		fmt.Fprintf(&sb, "%d\\. %s ⭐ %s\n", i+1, EscapeMdV2(titleWithYear(item)), EscapeMdV2(item.Rating()))
	}
	if len(items) > maxListItems {
		sb.WriteString(FormatItalic(fmt.Sprintf("…and %d more", len(items)-maxListItems)))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatItemCaption renders the detail caption for a selected item.
func FormatItemCaption(item core.CatalogItem, genreNames []string) string {
	var sb strings.Builder
	sb.WriteString(FormatBold(titleWithYear(item)))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "⭐ %s %s", EscapeMdV2(item.Rating()), EscapeMdV2(fmt.Sprintf("(%d votes)", item.VoteCount)))

	if len(genreNames) > 0 {
		sb.WriteString("\n")
		sb.WriteString(FormatItalic(strings.Join(genreNames, ", ")))
	}
	if item.ReleaseDate != "" {
		sb.WriteString("\n")
		sb.WriteString(EscapeMdV2("Released: " + item.ReleaseDate))
	}
	if overview := strings.TrimSpace(item.Overview); overview != "" {
		sb.WriteString("\n\n")
		sb.WriteString(EscapeMdV2(truncate(overview, maxOverviewChars)))
	}
	return sb.String()
}

// BuildSelectionKeyboard builds one inline button per visible item. Pressing a
// button sends "sel:<id>". Returns nil when there is nothing to select.
func BuildSelectionKeyboard(items []core.CatalogItem) *tgbotapi.InlineKeyboardMarkup {
	if len(items) == 0 {
		return nil
	}

	// Rows of 1 each (cleaner on mobile).
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, item := range visibleItems(items) {
		label := truncate(fmt.Sprintf("%d. %s", i+1, item.Title), maxButtonLabel)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, callbackPrefix+strconv.Itoa(item.ID)),
		))
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// parseSelection extracts the item ID from "sel:<id>" callback data.
func parseSelection(data string) (int, bool) {
	raw, ok := strings.CutPrefix(data, callbackPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parseCommand splits "/search@shelfbot dark knight" into ("search", "dark knight").
// ok is false for text that is not a command.
func parseCommand(text string) (cmd, args string, ok bool) {
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	head, rest, _ := strings.Cut(text[1:], " ")
	head, _, _ = strings.Cut(head, "@")
	return strings.ToLower(head), strings.TrimSpace(rest), true
}

func visibleItems(items []core.CatalogItem) []core.CatalogItem {
	if len(items) > maxListItems {
		return items[:maxListItems]
	}
	return items
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n-1])) + "…"
}
