package telegram

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"aura/internal/adapters/config"
	"aura/internal/domain/news"
	"aura/pkg/errors"
	"aura/pkg/logger"
)

// Notifier posts critical-news alerts to a Telegram chat. Delivery
// failures are logged and never escalate to the pipeline.
type Notifier struct {
	api     *tgbotapi.BotAPI
	chatID  int64
	enabled bool
	log     *logger.Logger
}

// NewNotifier creates a Telegram alert notifier. With a missing token the
// notifier stays disabled and every send becomes a no-op.
func NewNotifier(cfg config.TelegramConfig) (*Notifier, error) {
	log := logger.Get().With("component", "telegram_notifier")

	if !cfg.Enabled || cfg.BotToken == "" {
		log.Info("Telegram alerts disabled")
		return &Notifier{enabled: false, log: log}, nil
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create telegram bot")
	}

	log.Infof("Telegram alerts authorized on account %s", api.Self.UserName)

	return &Notifier{
		api:     api,
		chatID:  cfg.ChatID,
		enabled: true,
		log:     log,
	}, nil
}

// NotifyCritical posts an alert for one critical record. Errors are logged
// only; a failed alert must not disturb the ingestion cycle.
func (n *Notifier) NotifyCritical(record news.Record) {
	if !n.enabled {
		return
	}

	msg := tgbotapi.NewMessage(n.chatID, formatCriticalAlert(record))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true

	if _, err := n.api.Send(msg); err != nil {
		n.log.Errorw("Failed to deliver critical alert",
			"title", record.Title,
			"country", record.Country,
			"error", err,
		)
		return
	}

	n.log.Infow("Critical alert delivered", "country", record.Country, "title", record.Title)
}

// formatCriticalAlert renders the Markdown alert body
func formatCriticalAlert(record news.Record) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("*CRITICAL NEWS* (%s)\n\n", record.Category))
	sb.WriteString(record.Title + "\n\n")
	sb.WriteString(fmt.Sprintf("Score: %.2f\n", record.SentimentScore))
	sb.WriteString(fmt.Sprintf("Country: %s\n", strings.ToUpper(record.Country)))

	if published, err := time.Parse(time.RFC3339, record.PublishedAt); err == nil {
		sb.WriteString(fmt.Sprintf("Published: %s\n", humanize.Time(published)))
	}

	sb.WriteString(fmt.Sprintf("[Link](%s)", record.URL))
	return sb.String()
}
