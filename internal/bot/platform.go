package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"daily-routine/internal/notify"
)

const telegramRecipientPrefix = "tg-"

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Platform delivers notifications as chat messages. Private chat ids equal
// user ids, so a tg-<id> profile is reachable without extra lookups. Other
// profiles go to the fallback platform.
type Platform struct {
	api      sender
	fallback notify.Platform
}

func NewPlatform(api *tgbotapi.BotAPI, fallback notify.Platform) *Platform {
	return newPlatform(api, fallback)
}

func newPlatform(api sender, fallback notify.Platform) *Platform {
	if fallback == nil {
		fallback = notify.LogPlatform{}
	}
	return &Platform{api: api, fallback: fallback}
}

// recipientChatID extracts the chat id from a tg-<id> profile key.
func recipientChatID(recipient string) (int64, bool) {
	raw, ok := strings.CutPrefix(recipient, telegramRecipientPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Status is true for chats: the user started the bot, which is the consent.
func (p *Platform) Status(ctx context.Context, recipient string) (bool, error) {
	if _, ok := recipientChatID(recipient); ok {
		return true, nil
	}
	return p.fallback.Status(ctx, recipient)
}

func (p *Platform) RequestPermission(ctx context.Context, recipient string) (bool, error) {
	if _, ok := recipientChatID(recipient); ok {
		return true, nil
	}
	return p.fallback.RequestPermission(ctx, recipient)
}

func (p *Platform) Deliver(ctx context.Context, recipient string, n notify.Notification) error {
	chatID, ok := recipientChatID(recipient)
	if !ok {
		return p.fallback.Deliver(ctx, recipient, n)
	}
	msg := tgbotapi.NewMessage(chatID, formatNotification(n))
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := p.api.Send(msg); err != nil {
		return fmt.Errorf("send notification to %d: %w", chatID, err)
	}
	return nil
}

func formatNotification(n notify.Notification) string {
	title := escape(n.Title)
	if n.Icon != "" {
		title = n.Icon + " " + title
	}
	return fmt.Sprintf("<b>%s</b>\n%s", title, escape(n.Body))
}
