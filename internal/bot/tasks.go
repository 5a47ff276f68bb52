package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"daily-routine/internal/model"
)

func (b *Bot) sendTaskList(ctx context.Context, chatID int64, owner string) error {
	tasks, err := b.deps.Tasks.List(ctx, owner)
	if err != nil {
		return b.sendError(chatID, "load tasks", err)
	}
	if len(tasks) == 0 {
		return b.sendText(chatID, "Your routine is empty. Add a task with /newtask or start from /templates.")
	}

	done := 0
	for _, task := range tasks {
		if task.Completed {
			done++
		}
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("📋 <b>Today's routine</b> · %d/%d done\n", done, len(tasks)))
	builder.WriteString("Tap a button to toggle a task or remove it.\n\n")

	var buttons [][]tgbotapi.InlineKeyboardButton
	for i, task := range tasks {
		builder.WriteString(formatTaskLine(i+1, task))
		mark := "✅"
		if task.Completed {
			mark = "↩️"
		}
		buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%s %d · %s", mark, i+1, shortTitle(task.Name, 24)), cbTogglePrefix+task.ID),
			tgbotapi.NewInlineKeyboardButtonData("🗑", cbDeletePrefix+task.ID),
		))
	}

	msg := tgbotapi.NewMessage(chatID, strings.TrimSpace(builder.String()))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err = b.api.Send(msg)
	return err
}

// taskAt resolves a number from the /tasks list to the task shown there.
func (b *Bot) taskAt(ctx context.Context, owner, raw string) (model.Task, error) {
	tasks, err := b.deps.Tasks.List(ctx, owner)
	if err != nil {
		return model.Task{}, err
	}
	idx, err := parsePosition(raw, len(tasks))
	if err != nil {
		return model.Task{}, err
	}
	return tasks[idx], nil
}

// replyTaskLookup answers a failed taskAt and reports whether it did.
func (b *Bot) replyTaskLookup(chatID int64, usage string, err error) (bool, error) {
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, errNoPosition):
		return true, b.sendText(chatID, "Usage: "+usage)
	case errors.Is(err, errBadPosition):
		return true, b.sendText(chatID, "No task with that number. Check /tasks.")
	default:
		return true, b.sendError(chatID, "load tasks", err)
	}
}

func (b *Bot) handleDone(ctx context.Context, chatID int64, owner, args string) error {
	task, err := b.taskAt(ctx, owner, args)
	if handled, err := b.replyTaskLookup(chatID, "/done 2", err); handled {
		return err
	}
	return b.toggleTaskAndRefresh(ctx, chatID, owner, task.ID)
}

func (b *Bot) toggleTaskAndRefresh(ctx context.Context, chatID int64, owner, taskID string) error {
	task, ok, err := b.deps.Tasks.Toggle(ctx, owner, taskID)
	if err != nil {
		return b.sendError(chatID, "update the task", err)
	}
	if !ok {
		return b.sendText(chatID, "Task not found or already removed.")
	}

	log.Printf("[info] task toggled id=%s owner=%s completed=%t", task.ID, owner, task.Completed)
	var info string
	if task.Completed {
		info = fmt.Sprintf("✅ «%s» done. Streak: 🔥 %d", escape(normalizeTitle(task.Name)), task.Streak)
	} else {
		info = fmt.Sprintf("↩️ «%s» marked as not done.", escape(normalizeTitle(task.Name)))
	}
	if err := b.sendText(chatID, info); err != nil {
		return err
	}
	return b.sendTaskList(ctx, chatID, owner)
}

func (b *Bot) handleDelete(ctx context.Context, userID, chatID int64, owner, args string) error {
	task, err := b.taskAt(ctx, owner, args)
	if handled, err := b.replyTaskLookup(chatID, "/delete 2", err); handled {
		return err
	}
	return b.askDeleteConfirmation(chatID, userID, task)
}

func (b *Bot) askDeleteConfirmation(chatID, userID int64, task model.Task) error {
	b.clearConversation(userID)
	b.setConfirmation(userID, confirmationRequest{taskID: task.ID, name: task.Name})
	text := fmt.Sprintf("Remove «%s» at %s from your routine?", escape(normalizeTitle(task.Name)), task.Time)
	return b.sendWithReplyMarkup(chatID, text, confirmKeyboard())
}

func (b *Bot) handleConfirmationResponse(ctx context.Context, msg *tgbotapi.Message, req confirmationRequest) error {
	text := strings.TrimSpace(msg.Text)
	switch {
	case isConfirmInput(text):
		b.clearConfirmation(msg.From.ID)
		user, err := b.ensureUser(ctx, msg.From)
		if err != nil {
			return err
		}
		return b.deleteTaskAndRefresh(ctx, msg.Chat.ID, user.ProfileKey(), req)
	case isCancelInput(text):
		b.clearConfirmation(msg.From.ID)
		return b.sendTextWithRemove(msg.Chat.ID, "Nothing was removed.")
	default:
		return b.sendWithReplyMarkup(msg.Chat.ID, "Confirm or cancel the removal.", confirmKeyboard())
	}
}

func (b *Bot) deleteTaskAndRefresh(ctx context.Context, chatID int64, owner string, req confirmationRequest) error {
	ok, err := b.deps.Tasks.Delete(ctx, owner, req.taskID)
	if err != nil {
		return b.sendTextWithRemove(chatID, fmt.Sprintf("Error: %s", escape(err.Error())))
	}
	if !ok {
		return b.sendTextWithRemove(chatID, "Task not found or already removed.")
	}

	log.Printf("[info] task deleted id=%s owner=%s", req.taskID, owner)
	if err := b.sendTextWithRemove(chatID, fmt.Sprintf("🗑 «%s» removed.", escape(normalizeTitle(req.name)))); err != nil {
		return err
	}
	return b.sendTaskList(ctx, chatID, owner)
}

// handleMove takes two numbers from the /tasks list and moves the first task
// to the stored position of the second.
func (b *Bot) handleMove(ctx context.Context, chatID int64, owner, args string) error {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return b.sendText(chatID, "Usage: /move 3 1")
	}
	shown, err := b.deps.Tasks.List(ctx, owner)
	if err != nil {
		return b.sendError(chatID, "load tasks", err)
	}
	from, errFrom := parsePosition(fields[0], len(shown))
	to, errTo := parsePosition(fields[1], len(shown))
	if errFrom != nil || errTo != nil {
		return b.sendText(chatID, "No task with that number. Check /tasks.")
	}

	stored, err := b.deps.Tasks.Tasks(ctx, owner)
	if err != nil {
		return b.sendError(chatID, "load tasks", err)
	}
	ok, err := b.deps.Tasks.Reorder(ctx, owner, indexOf(stored, shown[from].ID), indexOf(stored, shown[to].ID))
	if err != nil {
		return b.sendError(chatID, "reorder tasks", err)
	}
	if !ok {
		return b.sendText(chatID, "The list changed in the meantime. Check /tasks and try again.")
	}
	return b.sendTaskList(ctx, chatID, owner)
}

func indexOf(tasks []model.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (b *Bot) handleRename(ctx context.Context, chatID int64, owner, args string) error {
	pos, name, _ := strings.Cut(args, " ")
	name = strings.TrimSpace(name)
	if name == "" {
		return b.sendText(chatID, "Usage: /rename 2 Evening walk")
	}
	return b.editTask(ctx, chatID, owner, pos, "/rename 2 Evening walk", func(in *model.TaskInput) {
		in.Name = name
	})
}

func (b *Bot) handleTime(ctx context.Context, chatID int64, owner, args string) error {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return b.sendText(chatID, "Usage: /time 2 18:30")
	}
	if !model.IsClock(fields[1]) {
		return b.sendText(chatID, "Time must look like <code>HH:MM</code>.")
	}
	return b.editTask(ctx, chatID, owner, fields[0], "/time 2 18:30", func(in *model.TaskInput) {
		in.Time = fields[1]
	})
}

func (b *Bot) editTask(ctx context.Context, chatID int64, owner, pos, usage string, change func(*model.TaskInput)) error {
	task, err := b.taskAt(ctx, owner, pos)
	if handled, err := b.replyTaskLookup(chatID, usage, err); handled {
		return err
	}
	in := task.Input()
	change(&in)
	updated, ok, err := b.deps.Tasks.Update(ctx, owner, task.ID, in)
	if err != nil {
		return b.sendError(chatID, "update the task", err)
	}
	if !ok {
		return b.sendText(chatID, "Task not found or already removed.")
	}
	log.Printf("[info] task edited id=%s owner=%s", updated.ID, owner)
	return b.sendTaskList(ctx, chatID, owner)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil {
		return nil
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Printf("callback ack: %v", err)
	}

	user, err := b.ensureUser(ctx, cb.From)
	if err != nil {
		return err
	}
	owner := user.ProfileKey()
	chatID := cb.Message.Chat.ID
	data := cb.Data

	switch {
	case strings.HasPrefix(data, cbTogglePrefix):
		log.Printf("[info] callback toggle user=%d task=%s", cb.From.ID, strings.TrimPrefix(data, cbTogglePrefix))
		return b.toggleTaskAndRefresh(ctx, chatID, owner, strings.TrimPrefix(data, cbTogglePrefix))
	case strings.HasPrefix(data, cbDeletePrefix):
		log.Printf("[info] callback delete request user=%d task=%s", cb.From.ID, strings.TrimPrefix(data, cbDeletePrefix))
		task, ok, err := b.deps.Tasks.Get(ctx, owner, strings.TrimPrefix(data, cbDeletePrefix))
		if err != nil {
			return b.sendError(chatID, "load the task", err)
		}
		if !ok {
			return b.sendText(chatID, "Task not found or already removed.")
		}
		return b.askDeleteConfirmation(chatID, cb.From.ID, task)
	default:
		return nil
	}
}
