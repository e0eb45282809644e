package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/homerelay/homerelay/internal/core"
)

const (
	unauthorizedMsg  = "Sorry, you are not authorized to use this bot."
	notConfiguredMsg = "No external services are configured yet. Set up Jellyseerr, Radarr or Sonarr first."
	emptySectionsMsg = "Nothing to show right now. The services may be unreachable."
	helpMsg          = "Commands:\n/home - all home sections\n/discover - discover and requests\n/requests - your requests\n/help - this message"

	requestPrefix = "req:" // callback data prefix for request buttons

	maxButtonLabel = 30 // max characters in inline keyboard button label
)

// handleMessage processes an incoming text message.
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID

	b.logger.Debug("received message",
		slog.Int64("user_id", userID),
	)

	if !b.access.isAllowed(userID) {
		b.sendText(chatID, unauthorizedMsg)
		return
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	switch text {
	case "/start":
		b.sendText(chatID, "Welcome to HomeRelay! Browse your media services right here.\n\n"+helpMsg)
	case "/help":
		b.sendText(chatID, helpMsg)
	case "/home":
		b.sendSections(ctx, chatID, b.loader.LoadHomeSections)
	case "/discover":
		b.sendSections(ctx, chatID, b.loader.LoadDiscoverSections)
	case "/requests":
		b.sendSections(ctx, chatID, func(ctx context.Context) []core.Section {
			return filterSections(b.loader.LoadHomeSections(ctx), core.SectionMyRequests)
		})
	default:
		b.sendText(chatID, helpMsg)
	}
}

// handleCallback processes inline keyboard callback queries. The only
// callbacks the bot emits are request buttons with data "req:<type>:<id>".
func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	userID := cq.From.ID
	chatID := cq.Message.Chat.ID

	b.logger.Debug("received callback",
		slog.Int64("user_id", userID),
		slog.String("data", cq.Data),
	)

	// Acknowledge the callback immediately.
	callback := tgbotapi.NewCallback(cq.ID, "")
	b.api.Send(callback) //nolint:errcheck // best-effort ack

	if !b.access.isAllowed(userID) {
		return
	}

	item, ok := parseRequestCallback(cq.Data)
	if !ok {
		return
	}

	typing := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	b.api.Send(typing) //nolint:errcheck // best-effort typing indicator

	if b.loader.RequestItem(ctx, item) {
		b.sendText(chatID, "Request submitted.")
	} else {
		b.sendText(chatID, "Could not submit the request. Please try again later.")
	}
}

// parseRequestCallback decodes "req:<type>:<id>" callback data into the
// minimal item the loader needs for a request.
func parseRequestCallback(data string) (core.SectionItem, bool) {
	if !strings.HasPrefix(data, requestPrefix) {
		return core.SectionItem{}, false
	}
	parts := strings.SplitN(strings.TrimPrefix(data, requestPrefix), ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return core.SectionItem{}, false
	}
	return core.SectionItem{
		MediaType: core.MediaType(parts[0]),
		ID:        parts[1],
	}, true
}

// requestCallbackData encodes an item into request button callback data.
func requestCallbackData(item core.SectionItem) string {
	return fmt.Sprintf("%s%s:%s", requestPrefix, item.MediaType, item.ID)
}

// sendSections loads sections and sends one message per section.
func (b *Bot) sendSections(ctx context.Context, chatID int64, load func(context.Context) []core.Section) {
	if !b.loader.IsConfigured() {
		b.sendText(chatID, notConfiguredMsg)
		return
	}

	typing := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	b.api.Send(typing) //nolint:errcheck

	sections := load(ctx)
	if len(sections) == 0 {
		b.sendText(chatID, emptySectionsMsg)
		return
	}

	for _, section := range sections {
		b.sendSection(chatID, section)
	}
}

// sendSection sends one section as a MarkdownV2 message with request
// buttons for every requestable item and watch links for matched ones.
func (b *Bot) sendSection(chatID int64, section core.Section) {
	msg := tgbotapi.NewMessage(chatID, formatSection(section))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	if kb := b.buildSectionKeyboard(section); kb != nil {
		msg.ReplyMarkup = kb
	}

	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warn("failed to send markdown, retrying plain",
			slog.String("error", err.Error()),
		)
		b.sendText(chatID, plainSection(section))
	}
}

// buildSectionKeyboard builds the inline keyboard for a section: a request
// button per requestable item and a watch button per item already matched
// on the media server. Returns nil when there is nothing actionable.
func (b *Bot) buildSectionKeyboard(section core.Section) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, item := range section.Items {
		label := item.Name
		if len(label) > maxButtonLabel {
			label = label[:maxButtonLabel] + "…"
		}

		switch {
		case item.Requestable:
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Request "+label, requestCallbackData(item)),
			))
		case item.LibraryID != "" && b.media != nil:
			link := b.media.WatchLink(item.LibraryID)
			if link == "" {
				continue
			}
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL("Watch "+label, link),
			))
		}
	}

	if len(rows) == 0 {
		return nil
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// sendText sends a plain text message (no parse mode).
func (b *Bot) sendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("failed to send message",
			slog.Int64("chat_id", chatID),
			slog.String("error", err.Error()),
		)
	}
}

// filterSections keeps only sections of the wanted type.
func filterSections(sections []core.Section, want core.SectionType) []core.Section {
	var out []core.Section
	for _, s := range sections {
		if s.Type == want {
			out = append(out, s)
		}
	}
	return out
}
