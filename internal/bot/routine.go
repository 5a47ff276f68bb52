package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"daily-routine/internal/analyzer"
	"daily-routine/internal/report"
	"daily-routine/internal/service"
)

func (b *Bot) handleTemplates(chatID int64) error {
	catalog := b.deps.Templates.Catalog()

	var builder strings.Builder
	builder.WriteString("🗂 <b>Routine templates</b>\n")
	for _, t := range catalog.Templates {
		builder.WriteString(fmt.Sprintf("%s <b>%s</b> · <code>/template %s</code>\n   %s\n", t.Icon, escape(t.Name), escape(t.ID), escape(t.Description)))
	}
	builder.WriteString("\n🎨 <b>Activity themes</b>\n")
	for _, theme := range catalog.Themes {
		builder.WriteString(fmt.Sprintf("• %s · <code>/activities %s</code>\n", escape(theme.Name), escape(strings.ToLower(theme.Name))))
	}
	builder.WriteString("\nPick several activities at once with /pick Yoga; Reading")
	return b.sendText(chatID, builder.String())
}

func (b *Bot) handleApplyTemplate(ctx context.Context, chatID int64, owner, args string) error {
	if args == "" {
		return b.sendText(chatID, "Usage: /template morning. See /templates for the list.")
	}
	added, err := b.deps.Templates.ApplyTemplate(ctx, owner, args)
	if errors.Is(err, service.ErrUnknownTemplate) {
		return b.sendText(chatID, "No such template. See /templates.")
	}
	if err != nil {
		return b.sendError(chatID, "apply the template", err)
	}
	log.Printf("[info] template applied id=%s owner=%s added=%d", args, owner, len(added))
	if err := b.sendText(chatID, fmt.Sprintf("✨ Added %d tasks to your routine.", len(added))); err != nil {
		return err
	}
	return b.sendTaskList(ctx, chatID, owner)
}

func (b *Bot) handleActivities(chatID int64, args string) error {
	if args == "" {
		return b.sendText(chatID, "Usage: /activities fitness. See /templates for the themes.")
	}
	theme, ok := b.deps.Templates.Catalog().Theme(args)
	if !ok {
		return b.sendText(chatID, "No such theme. See /templates.")
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("🎨 <b>%s</b>\n", escape(theme.Name)))
	for _, a := range theme.Activities {
		builder.WriteString(fmt.Sprintf("%s %s %s, %d min · %s\n", a.Icon, a.Time, escape(a.Name), a.Duration, categoryLabel(a.Category)))
	}
	if len(theme.Activities) > 0 {
		builder.WriteString("\nAdd some with /pick " + escape(theme.Activities[0].Name))
	}
	return b.sendText(chatID, builder.String())
}

func (b *Bot) handlePick(ctx context.Context, chatID int64, owner, args string) error {
	names := splitList(args)
	if len(names) == 0 {
		return b.sendText(chatID, "Usage: /pick Yoga; Reading; Meditation")
	}
	added, err := b.deps.Templates.ApplyActivities(ctx, owner, names)
	if err != nil {
		return b.sendError(chatID, "add the activities", err)
	}
	if len(added) == 0 {
		return b.sendText(chatID, "None of those activities are in the catalog. See /activities.")
	}
	if err := b.sendText(chatID, fmt.Sprintf("✨ Added %d of %d activities.", len(added), len(names))); err != nil {
		return err
	}
	return b.sendTaskList(ctx, chatID, owner)
}

func (b *Bot) handleAnalyze(ctx context.Context, chatID int64, owner string) error {
	if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		log.Printf("chat action: %v", err)
	}
	res, err := b.deps.Tasks.Analyze(ctx, owner)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return b.sendError(chatID, "analyze the routine", err)
	}
	return b.sendText(chatID, formatAnalysis(res))
}

func (b *Bot) handleApplySuggestion(ctx context.Context, chatID int64, owner, args string) error {
	state, res := b.deps.Tasks.AnalysisState(owner)
	if state != analyzer.Ready || len(res.Activities) == 0 {
		return b.sendText(chatID, "No suggestions yet. Run /analyze first.")
	}
	idx, err := parsePosition(args, len(res.Activities))
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Pick a suggestion number from 1 to %d.", len(res.Activities)))
	}
	task, err := b.deps.Tasks.ApplySuggestion(ctx, owner, res.Activities[idx].Name)
	if err != nil {
		return b.sendError(chatID, "add the suggestion", err)
	}
	if err := b.sendText(chatID, fmt.Sprintf("%s «%s» added at %s. Adjust it with /time.", task.Icon, escape(task.Name), task.Time)); err != nil {
		return err
	}
	return b.sendTaskList(ctx, chatID, owner)
}

func (b *Bot) handleStats(ctx context.Context, chatID int64, owner string) error {
	summary, err := b.deps.Tasks.Summary(ctx, owner)
	if err != nil {
		return b.sendError(chatID, "load stats", err)
	}
	if summary.Total == 0 {
		return b.sendText(chatID, "No tasks yet, so no stats. Add some with /newtask.")
	}
	return b.sendText(chatID, formatSummary(summary))
}

// handleReport sends today's export as a text document.
func (b *Bot) handleReport(ctx context.Context, chatID int64, owner string) error {
	day := time.Now().In(b.deps.Location)
	text, err := b.deps.Reports.Daily(ctx, owner, day)
	if err != nil {
		return b.sendError(chatID, "build the report", err)
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: report.Filename(day), Bytes: []byte(text)})
	doc.Caption = "📋 Daily Routine Report"
	_, err = b.api.Send(doc)
	return err
}
