// Package notify pushes high-scoring jobs and run status to Telegram.
package notify

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-jobfit-automation/internal/models"
)

// sender is the part of *tgbotapi.BotAPI the bot uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api    sender
	chatID int64
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &Bot{
		api:    api,
		chatID: chatID,
	}, nil
}

var markdownReplacer = strings.NewReplacer(
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
	")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
	"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
	"}", "\\}", ".", "\\.", "!", "\\!",
)

// EscapeMarkdown escapes text for Telegram MarkdownV2.
func EscapeMarkdown(text string) string {
	return markdownReplacer.Replace(text)
}

// FormatJob renders a scored job as a MarkdownV2 message.
func FormatJob(job models.Job) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔥 *%s*\n", EscapeMarkdown(job.Title))
	fmt.Fprintf(&b, "🏢 %s\n", EscapeMarkdown(orNA(job.Company)))
	if job.Salary != "" {
		fmt.Fprintf(&b, "💰 %s\n", EscapeMarkdown(job.Salary))
	}
	fmt.Fprintf(&b, "📍 %s\n", EscapeMarkdown(orNA(job.Location)))
	if job.PostedAt != "" {
		fmt.Fprintf(&b, "📅 %s\n", EscapeMarkdown(job.PostedAt))
	}
	if job.Score != nil {
		fmt.Fprintf(&b, "🤖 Match Score: %s\n", EscapeMarkdown(fmt.Sprintf("%d/100", *job.Score)))
	}
	if job.ScoreAnalysis != "" {
		fmt.Fprintf(&b, "📝 %s\n", EscapeMarkdown(truncate(job.ScoreAnalysis, 600)))
	}
	fmt.Fprintf(&b, "🔖 Source: %s", EscapeMarkdown(orNA(job.Source)))
	return b.String()
}

// SendJob posts a scored job with a button to the posting.
func (b *Bot) SendJob(ctx context.Context, job models.Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(b.chatID, FormatJob(job))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	if job.URL != "" {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL("🔗 View Job", job.URL),
			),
		)
	}

	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send job %s: %w", job.ID, err)
	}
	return nil
}

func (b *Bot) SendError(err error) error {
	msg := tgbotapi.NewMessage(b.chatID, fmt.Sprintf("❌ Error: %v", err))
	_, sendErr := b.api.Send(msg)
	return sendErr
}

func (b *Bot) SendStatus(message string) error {
	msg := tgbotapi.NewMessage(b.chatID, "ℹ️ "+message)
	_, err := b.api.Send(msg)
	return err
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
