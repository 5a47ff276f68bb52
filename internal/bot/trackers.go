package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"daily-routine/internal/model"
)

func (b *Bot) today() string {
	return b.deps.Trackers.Today()
}

// handleToday shows every tracker of the current day in one message.
func (b *Bot) handleToday(ctx context.Context, chatID int64, owner string) error {
	date := b.today()
	trackers := b.deps.Trackers

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("📅 <b>%s</b>\n\n", date))

	if focus, found, err := trackers.Focus(ctx, owner, date); err != nil {
		return b.sendError(chatID, "load the focus", err)
	} else if found {
		mark := "🎯"
		if focus.Completed {
			mark = "✅"
		}
		builder.WriteString(fmt.Sprintf("%s Focus: %s\n", mark, escape(focus.Task)))
	} else {
		builder.WriteString("🎯 Focus: not set, use /focus\n")
	}

	if mood, found, err := trackers.MoodFor(ctx, owner, date); err != nil {
		return b.sendError(chatID, "load the mood", err)
	} else if found {
		builder.WriteString(fmt.Sprintf("%s Mood: %s\n", mood.Emoji, mood.Mood))
	} else {
		builder.WriteString("🙂 Mood: not tracked, use /mood\n")
	}

	water, err := trackers.Water(ctx, owner, date)
	if err != nil {
		return b.sendError(chatID, "load water intake", err)
	}
	builder.WriteString(fmt.Sprintf("💧 Water: %d/%d %s\n", water.Amount, water.Goal, waterBar(water)))

	health, err := trackers.Health(ctx, owner, date)
	if err != nil {
		return b.sendError(chatID, "load health data", err)
	}
	builder.WriteString(fmt.Sprintf("👟 Steps: %d\n", health.Steps))
	if health.Sleep.Bedtime != "" || health.Sleep.Wakeup != "" {
		builder.WriteString(fmt.Sprintf("😴 Sleep: %s to %s, quality %d/10\n", health.Sleep.Bedtime, health.Sleep.Wakeup, health.Sleep.Quality))
	}
	for _, meal := range []struct{ label, text string }{
		{"Breakfast", health.Meals.Breakfast},
		{"Lunch", health.Meals.Lunch},
		{"Dinner", health.Meals.Dinner},
		{"Snacks", health.Meals.Snacks},
	} {
		if meal.text != "" {
			builder.WriteString(fmt.Sprintf("🍽 %s: %s\n", meal.label, escape(meal.text)))
		}
	}

	if entry, found, err := trackers.JournalFor(ctx, owner, date); err != nil {
		return b.sendError(chatID, "load the journal", err)
	} else if found {
		builder.WriteString(fmt.Sprintf("\n📓 %s", escape(entry.Content)))
	}

	return b.sendText(chatID, strings.TrimSpace(builder.String()))
}

func (b *Bot) handleMood(ctx context.Context, chatID int64, owner, args string) error {
	raw, notes, _ := strings.Cut(args, " ")
	if raw == "" {
		mood, found, err := b.deps.Trackers.MoodFor(ctx, owner, b.today())
		if err != nil {
			return b.sendError(chatID, "load the mood", err)
		}
		if !found {
			return b.sendText(chatID, "How do you feel? /mood excellent, good, okay, poor or terrible, plus optional notes.")
		}
		return b.sendText(chatID, fmt.Sprintf("%s Today's mood: %s %s", mood.Emoji, mood.Mood, escape(mood.Notes)))
	}

	kind, err := model.ParseMoodKind(raw)
	if err != nil {
		return b.sendText(chatID, "Pick one of: excellent, good, okay, poor, terrible.")
	}
	mood, err := b.deps.Trackers.SaveMood(ctx, owner, b.today(), kind, strings.TrimSpace(notes))
	if err != nil {
		return b.sendError(chatID, "save the mood", err)
	}
	return b.sendText(chatID, fmt.Sprintf("%s Mood saved: %s", mood.Emoji, mood.Mood))
}

func (b *Bot) handleJournal(ctx context.Context, chatID int64, owner, args string) error {
	if args == "" {
		entry, found, err := b.deps.Trackers.JournalFor(ctx, owner, b.today())
		if err != nil {
			return b.sendError(chatID, "load the journal", err)
		}
		if !found {
			return b.sendText(chatID, "Nothing written today. Use /journal followed by your thoughts.")
		}
		return b.sendText(chatID, "📓 <b>Today's journal</b>\n"+escape(entry.Content))
	}

	if _, err := b.deps.Trackers.SaveJournal(ctx, owner, b.today(), args); err != nil {
		return b.sendError(chatID, "save the journal", err)
	}
	return b.sendText(chatID, "📓 Journal saved.")
}

func (b *Bot) handleWater(ctx context.Context, chatID int64, owner, args string) error {
	var (
		water model.WaterIntake
		err   error
	)
	if args == "" {
		water, err = b.deps.Trackers.Water(ctx, owner, b.today())
	} else {
		delta, perr := parseWaterDelta(args)
		if perr != nil {
			return b.sendText(chatID, "Usage: /water + or /water -")
		}
		water, err = b.deps.Trackers.AdjustWater(ctx, owner, b.today(), delta)
	}
	if err != nil {
		return b.sendError(chatID, "update water intake", err)
	}

	text := fmt.Sprintf("💧 %d/%d glasses\n%s", water.Amount, water.Goal, waterBar(water))
	if water.Amount >= water.Goal {
		text += "\n🎉 Daily goal reached!"
	}
	return b.sendText(chatID, text)
}

func (b *Bot) handleMeal(ctx context.Context, chatID int64, owner, args string) error {
	which, text, _ := strings.Cut(args, " ")
	text = strings.TrimSpace(text)
	if text == "" {
		return b.sendText(chatID, "Usage: /meal breakfast oatmeal with berries")
	}

	var set func(*model.Meals)
	switch strings.ToLower(which) {
	case "breakfast":
		set = func(m *model.Meals) { m.Breakfast = text }
	case "lunch":
		set = func(m *model.Meals) { m.Lunch = text }
	case "dinner":
		set = func(m *model.Meals) { m.Dinner = text }
	case "snack", "snacks":
		set = func(m *model.Meals) { m.Snacks = text }
	default:
		return b.sendText(chatID, "Meal must be breakfast, lunch, dinner or snacks.")
	}

	if _, err := b.deps.Trackers.UpdateHealth(ctx, owner, b.today(), func(h *model.HealthSnapshot) { set(&h.Meals) }); err != nil {
		return b.sendError(chatID, "save the meal", err)
	}
	return b.sendText(chatID, "🍽 Meal saved.")
}

func (b *Bot) handleSleep(ctx context.Context, chatID int64, owner, args string) error {
	fields := strings.Fields(args)
	if len(fields) != 3 {
		return b.sendText(chatID, "Usage: /sleep 23:00 07:00 8")
	}
	if !model.IsClock(fields[0]) || !model.IsClock(fields[1]) {
		return b.sendText(chatID, "Bedtime and wake-up must look like <code>HH:MM</code>.")
	}
	quality, err := strconv.Atoi(fields[2])
	if err != nil || quality < 1 || quality > 10 {
		return b.sendText(chatID, "Sleep quality must be a number from 1 to 10.")
	}

	_, err = b.deps.Trackers.UpdateHealth(ctx, owner, b.today(), func(h *model.HealthSnapshot) {
		h.Sleep.Bedtime = fields[0]
		h.Sleep.Wakeup = fields[1]
		h.Sleep.Quality = quality
	})
	if err != nil {
		return b.sendError(chatID, "save sleep", err)
	}
	return b.sendText(chatID, fmt.Sprintf("😴 Sleep saved: %s to %s, quality %d/10.", fields[0], fields[1], quality))
}

func (b *Bot) handleSteps(ctx context.Context, chatID int64, owner, args string) error {
	steps, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil || steps < 0 {
		return b.sendText(chatID, "Usage: /steps 8500")
	}
	if _, err := b.deps.Trackers.UpdateHealth(ctx, owner, b.today(), func(h *model.HealthSnapshot) { h.Steps = steps }); err != nil {
		return b.sendError(chatID, "save steps", err)
	}
	return b.sendText(chatID, fmt.Sprintf("👟 %d steps saved.", steps))
}

func (b *Bot) handleFocus(ctx context.Context, chatID int64, owner, args string) error {
	if args == "" {
		focus, found, err := b.deps.Trackers.Focus(ctx, owner, b.today())
		if err != nil {
			return b.sendError(chatID, "load the focus", err)
		}
		if !found {
			return b.sendText(chatID, "What is the one thing for today? /focus Finish the report")
		}
		status := "in progress"
		if focus.Completed {
			status = "done ✅"
		}
		return b.sendText(chatID, fmt.Sprintf("🎯 <b>%s</b> · %s", escape(focus.Task), status))
	}

	focus, err := b.deps.Trackers.SetFocus(ctx, owner, b.today(), args)
	if err != nil {
		return b.sendError(chatID, "set the focus", err)
	}
	return b.sendText(chatID, fmt.Sprintf("🎯 Today's focus: <b>%s</b>. Mark it with /focusdone.", escape(focus.Task)))
}

func (b *Bot) handleFocusDone(ctx context.Context, chatID int64, owner string) error {
	focus, ok, err := b.deps.Trackers.ToggleFocus(ctx, owner, b.today())
	if err != nil {
		return b.sendError(chatID, "update the focus", err)
	}
	if !ok {
		return b.sendText(chatID, "No focus set for today. Use /focus first.")
	}
	if focus.Completed {
		return b.sendText(chatID, fmt.Sprintf("🏆 Focus done: %s", escape(focus.Task)))
	}
	return b.sendText(chatID, fmt.Sprintf("↩️ Focus reopened: %s", escape(focus.Task)))
}

func (b *Bot) handleNotify(ctx context.Context, chatID int64, owner, args string) error {
	switch strings.ToLower(args) {
	case "":
		settings, err := b.deps.Trackers.Settings(ctx, owner)
		if err != nil {
			return b.sendError(chatID, "load settings", err)
		}
		return b.sendText(chatID, formatSettings(settings))
	case "test":
		settings, err := b.deps.Trackers.Settings(ctx, owner)
		if err != nil {
			return b.sendError(chatID, "load settings", err)
		}
		if !settings.Enabled || !b.deps.Notifier.Granted(ctx, owner) {
			return b.sendText(chatID, "Notifications are off. Turn them on with /notify on.")
		}
		b.deps.Notifier.ShowTest(ctx, owner)
		return nil
	}

	enable, err := parseOnOff(args)
	if err != nil {
		return b.sendText(chatID, "Usage: /notify on, /notify off or /notify test")
	}
	settings, granted, err := b.deps.Trackers.EnableNotifications(ctx, owner, enable)
	if err != nil {
		return b.sendError(chatID, "update settings", err)
	}
	if enable && !granted {
		return b.sendText(chatID, "Notification permission was denied.")
	}
	return b.sendText(chatID, formatSettings(settings))
}

func (b *Bot) handleRemind(ctx context.Context, chatID int64, owner, args string) error {
	minutes, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil || minutes < 1 || minutes > 60 {
		return b.sendText(chatID, "Usage: /remind 15 (1 to 60 minutes before a task)")
	}
	settings, err := b.deps.Trackers.UpdateSettings(ctx, owner, func(s *model.NotificationSettings) {
		s.ReminderMinutes = minutes
	})
	if err != nil {
		return b.sendError(chatID, "update settings", err)
	}
	return b.sendText(chatID, formatSettings(settings))
}

func (b *Bot) handleReminderToggle(ctx context.Context, chatID int64, owner, args string) error {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return b.sendText(chatID, "Usage: /reminders tasks off")
	}
	value, err := parseOnOff(fields[1])
	if err != nil {
		return b.sendText(chatID, "Usage: /reminders tasks off")
	}

	var set func(*model.NotificationSettings)
	switch strings.ToLower(fields[0]) {
	case "tasks", "task":
		set = func(s *model.NotificationSettings) { s.TaskReminders = value }
	case "streak", "streaks":
		set = func(s *model.NotificationSettings) { s.StreakReminders = value }
	case "motivation":
		set = func(s *model.NotificationSettings) { s.DailyMotivation = value }
	default:
		return b.sendText(chatID, "Choose tasks, streak or motivation.")
	}

	settings, err := b.deps.Trackers.UpdateSettings(ctx, owner, set)
	if err != nil {
		return b.sendError(chatID, "update settings", err)
	}
	return b.sendText(chatID, formatSettings(settings))
}
