package telegram

import (
	"fmt"
	"strings"
	"time"

	"go-hiring-harvester/internal/harvest"
	"go-hiring-harvester/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxPreview is how many addresses a summary lists before truncating.
const maxPreview = 10

type Bot struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:    api,
		chatID: chatID,
	}, nil
}

func escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
		")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
		"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
		"}", "\\}", ".", "\\.", "!", "\\!",
	)
	return replacer.Replace(text)
}

// FormatSummary renders a finished run as a MarkdownV2 message.
func FormatSummary(result *models.HarvestResult, report harvest.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🔎 *%s*\n", escapeMarkdown(result.TargetPosition))
	fmt.Fprintf(&sb, "🧭 %s\n", escapeMarkdown(result.SearchExpression))
	fmt.Fprintf(&sb, "📦 %d posts, %d unique addresses\n", len(result.Posts), len(result.AllContactAddresses))
	fmt.Fprintf(&sb, "⏱️ %s after %s \\(%d iterations, %d skipped\\)\n",
		escapeMarkdown(string(report.Reason)), escapeMarkdown(report.Elapsed.Round(time.Second).String()), report.Iterations, report.Skipped)

	for i, addr := range result.AllContactAddresses {
		if i == maxPreview {
			fmt.Fprintf(&sb, "… and %d more\n", len(result.AllContactAddresses)-maxPreview)
			break
		}
		fmt.Fprintf(&sb, "📧 `%s`\n", escapeMarkdown(addr))
	}
	fmt.Fprintf(&sb, "🔖 Run: %s", escapeMarkdown(result.RunID))
	return sb.String()
}

// StartedMessage announces a harvest before the browser starts.
func StartedMessage(position, expression string) string {
	return fmt.Sprintf("🚀 Harvest started for %s: %s", position, expression)
}

func (b *Bot) SendStarted(position, expression string) error {
	return b.SendStatus(StartedMessage(position, expression))
}

func (b *Bot) SendSummary(result *models.HarvestResult, report harvest.Report) error {
	msg := tgbotapi.NewMessage(b.chatID, FormatSummary(result, report))
	msg.ParseMode = "MarkdownV2"
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) SendError(err error) error {
	msg := tgbotapi.NewMessage(b.chatID, fmt.Sprintf("❌ Error: %v", err))
	_, sendErr := b.api.Send(msg)
	return sendErr
}

func (b *Bot) SendStatus(message string) error {
	msg := tgbotapi.NewMessage(b.chatID, statusText(message))
	_, err := b.api.Send(msg)
	return err
}

func statusText(message string) string {
	return "ℹ️ " + message
}
