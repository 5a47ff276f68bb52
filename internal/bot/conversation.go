package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"daily-routine/internal/model"
)

func (b *Bot) startNewTaskConversation(msg *tgbotapi.Message) error {
	log.Printf("[info] start new task conversation user=%d", msg.From.ID)
	b.clearConfirmation(msg.From.ID)
	b.setConversation(msg.From.ID, &conversationState{
		stage: stageName,
		input: model.TaskInput{
			Category: model.CategoryPersonal,
			Priority: model.PriorityMedium,
			Repeat:   model.RepeatDaily,
			Goal:     1,
		},
	})
	return b.sendWithReplyMarkup(msg.Chat.ID, "🆕 New routine task.\n<b>Step 1:</b> what is it called?", cancelKeyboard())
}

func (b *Bot) handleConversation(ctx context.Context, msg *tgbotapi.Message) error {
	state := b.getConversation(msg.From.ID)
	if state == nil {
		return nil
	}

	text := strings.TrimSpace(msg.Text)
	switch state.stage {
	case stageName:
		if text == "" {
			return b.sendWithReplyMarkup(msg.Chat.ID, "The name cannot be empty.", cancelKeyboard())
		}
		state.input.Name = text
		state.stage = stageTime
		return b.sendWithReplyMarkup(msg.Chat.ID, "⏰ <b>Step 2:</b> at what time? Use <code>07:30</code>.", cancelKeyboard())
	case stageTime:
		if !model.IsClock(text) {
			return b.sendWithReplyMarkup(msg.Chat.ID, "I cannot read that time. Use <code>HH:MM</code>, for example <code>18:45</code>.", cancelKeyboard())
		}
		state.input.Time = text
		state.stage = stageCategory
		return b.sendWithReplyMarkup(msg.Chat.ID, "🏷 <b>Step 3:</b> pick a category.", categoryKeyboard())
	case stageCategory:
		if !isSkipInput(text) {
			category, err := model.ParseCategory(stripIcon(text))
			if err != nil {
				return b.sendWithReplyMarkup(msg.Chat.ID, "Pick one of the categories below.", categoryKeyboard())
			}
			state.input.Category = category
		}
		state.input.Icon = state.input.Category.Icon()
		state.stage = stagePriority
		return b.sendWithReplyMarkup(msg.Chat.ID, "🚦 <b>Step 4:</b> how important is it?", priorityKeyboard())
	case stagePriority:
		if !isSkipInput(text) {
			priority, err := model.ParsePriority(stripIcon(text))
			if err != nil {
				return b.sendWithReplyMarkup(msg.Chat.ID, "Choose low, medium or high.", priorityKeyboard())
			}
			state.input.Priority = priority
		}
		state.stage = stageRepeat
		return b.sendWithReplyMarkup(msg.Chat.ID, "🔁 <b>Step 5:</b> how often does it repeat?", repeatKeyboard())
	case stageRepeat:
		if !isSkipInput(text) {
			repeat, err := model.ParseRepeat(text)
			if err != nil {
				return b.sendWithReplyMarkup(msg.Chat.ID, "Pick one of the repeat options below.", repeatKeyboard())
			}
			state.input.Repeat = repeat
		}
		state.stage = stageDuration
		return b.sendWithReplyMarkup(msg.Chat.ID, "⏳ <b>Step 6:</b> how many minutes does it take? (or «Skip»)", skipKeyboard())
	case stageDuration:
		if !isSkipInput(text) {
			minutes, err := strconv.Atoi(text)
			if err != nil || minutes < 0 || minutes > 24*60 {
				return b.sendWithReplyMarkup(msg.Chat.ID, "Duration must be a number of minutes between 0 and 1440.", skipKeyboard())
			}
			state.input.Duration = minutes
		}
		err := b.finishTaskCreation(ctx, msg.From, state.input, msg.Chat.ID)
		b.clearConversation(msg.From.ID)
		return err
	default:
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "Input was reset. Try again with /newtask.")
	}
}

func (b *Bot) finishTaskCreation(ctx context.Context, from *tgbotapi.User, input model.TaskInput, chatID int64) error {
	user, err := b.ensureUser(ctx, from)
	if err != nil {
		return err
	}
	owner := user.ProfileKey()

	task, err := b.deps.Tasks.Add(ctx, owner, input)
	if err != nil {
		return b.sendTextWithRemove(chatID, fmt.Sprintf("Could not save the task: %s", escape(err.Error())))
	}

	log.Printf("[info] task created id=%s owner=%s", task.ID, owner)

	var summary strings.Builder
	summary.WriteString("✅ <b>Task saved</b>\n")
	summary.WriteString(fmt.Sprintf("• <b>Name:</b> %s %s\n", task.Icon, escape(normalizeTitle(task.Name))))
	summary.WriteString(fmt.Sprintf("• <b>Time:</b> %s\n", task.Time))
	summary.WriteString(fmt.Sprintf("• <b>Category:</b> %s\n", categoryLabel(task.Category)))
	summary.WriteString(fmt.Sprintf("• <b>Priority:</b> %s %s\n", task.Priority.Marker(), task.Priority))
	if label := task.Repeat.Label(); label != "" {
		summary.WriteString(fmt.Sprintf("• <b>Repeats:</b> %s\n", label))
	}
	if task.Duration > 0 {
		summary.WriteString(fmt.Sprintf("• <b>Duration:</b> %d min\n", task.Duration))
	}

	if err := b.sendTextWithRemove(chatID, strings.TrimSpace(summary.String())); err != nil {
		return err
	}
	return b.sendTaskList(ctx, chatID, owner)
}
