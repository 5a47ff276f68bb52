package bot

import (
	"errors"
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"daily-routine/internal/analyzer"
	"daily-routine/internal/model"
	"daily-routine/internal/routine"
)

var (
	errNoPosition  = errors.New("task number is missing")
	errBadPosition = errors.New("task number must be a number from the /tasks list")
)

func isSkipInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == "-" || value == strings.ToLower(btnSkip) || value == "skip"
}

func isConfirmInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnConfirm) || value == "confirm" || value == "yes"
}

func isCancelInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancel) || value == "cancel" || value == "no"
}

func isCancelDialogInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancelDialog) || value == "stop input"
}

func escape(s string) string {
	return html.EscapeString(s)
}

func normalizeTitle(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	runes := []rune(value)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func shortTitle(title string, maxLen int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	clean = normalizeTitle(clean)
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func categoryLabel(c model.Category) string {
	return fmt.Sprintf("%s %s", c.Icon(), escape(string(c)))
}

// stripIcon drops a leading emoji token such as the one on keyboard buttons.
func stripIcon(text string) string {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return strings.TrimSpace(text)
	}
	for _, r := range fields[0] {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return strings.TrimSpace(text)
		}
	}
	return strings.Join(fields[1:], " ")
}

// parsePosition turns a 1-based list number into an index below n.
func parsePosition(raw string, n int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errNoPosition
	}
	pos, err := strconv.Atoi(raw)
	if err != nil || pos < 1 || pos > n {
		return 0, errBadPosition
	}
	return pos - 1, nil
}

func parseOnOff(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "yes", "true", "1":
		return true, nil
	case "off", "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", raw)
	}
}

// parseWaterDelta reads "+" or "-" (also "+1" and "-1"), one glass each way.
func parseWaterDelta(raw string) (int, error) {
	switch strings.TrimSpace(raw) {
	case "", "+", "+1", "1":
		return 1, nil
	case "-", "-1":
		return -1, nil
	}
	return 0, fmt.Errorf("expected + or -, got %q", raw)
}

// splitList splits "a; b, c" into trimmed non-empty items.
func splitList(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == ';' || r == ',' })
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}

func formatTaskLine(pos int, task model.Task) string {
	var b strings.Builder
	mark := "⬜"
	if task.Completed {
		mark = "✅"
	}
	b.WriteString(fmt.Sprintf("%s <b>%d.</b> %s %s %s", mark, pos, task.Time, task.Icon, escape(normalizeTitle(task.Name))))
	if task.Streak > 0 {
		b.WriteString(fmt.Sprintf(" · 🔥 %d", task.Streak))
	}
	b.WriteByte('\n')

	details := []string{task.Priority.Marker() + " " + categoryLabel(task.Category)}
	if task.Duration > 0 {
		details = append(details, fmt.Sprintf("%d min", task.Duration))
	}
	if label := task.Repeat.Label(); label != "" {
		details = append(details, label)
	}
	b.WriteString("   " + strings.Join(details, " · ") + "\n")
	if task.Notes != "" {
		b.WriteString(fmt.Sprintf("   📝 %s\n", escape(task.Notes)))
	}
	return b.String()
}

func formatSummary(s routine.Summary) string {
	var b strings.Builder
	b.WriteString("📊 <b>Routine stats</b>\n")
	b.WriteString(fmt.Sprintf("• Completed: %d of %d (%d%%)\n", s.Completed, s.Total, s.CompletionPercent))
	b.WriteString(fmt.Sprintf("• Longest streak: %d\n", s.LongestStreak))
	b.WriteString(fmt.Sprintf("• Average streak: %.1f\n", s.AverageStreak))
	if s.TotalDuration > 0 {
		b.WriteString(fmt.Sprintf("• Planned time: %d h %d min\n", s.TotalDuration/60, s.TotalDuration%60))
	}
	b.WriteString(fmt.Sprintf("• Morning %d · Afternoon %d · Evening %d\n", s.TimeOfDay.Morning, s.TimeOfDay.Afternoon, s.TimeOfDay.Evening))

	if len(s.ByCategory) > 0 {
		categories := make([]model.Category, 0, len(s.ByCategory))
		for c := range s.ByCategory {
			categories = append(categories, c)
		}
		sort.Slice(categories, func(i, j int) bool {
			if s.ByCategory[categories[i]] != s.ByCategory[categories[j]] {
				return s.ByCategory[categories[i]] > s.ByCategory[categories[j]]
			}
			return categories[i] < categories[j]
		})
		b.WriteString("\n<b>By category</b>\n")
		for _, c := range categories {
			b.WriteString(fmt.Sprintf("%s: %d\n", categoryLabel(c), s.ByCategory[c]))
		}
	}
	return strings.TrimSpace(b.String())
}

func formatAnalysis(res analyzer.Result) string {
	var b strings.Builder
	b.WriteString("🧠 <b>Routine analysis</b>\n")
	if len(res.Activities) > 0 {
		b.WriteString("\n<b>Suggested activities</b> (add with /apply &lt;n&gt;)\n")
		for i, s := range res.Activities {
			b.WriteString(fmt.Sprintf("%d. %s %s, %d min · %s\n", i+1, s.Time, escape(s.Name), s.Duration, categoryLabel(s.Category)))
		}
	}
	if len(res.Improvements) > 0 {
		b.WriteString("\n<b>Improvements</b>\n")
		for _, line := range res.Improvements {
			b.WriteString("• " + escape(line) + "\n")
		}
	}
	if len(res.ScheduleNotes) > 0 {
		b.WriteString("\n<b>Schedule</b>\n")
		for _, line := range res.ScheduleNotes {
			b.WriteString("• " + escape(line) + "\n")
		}
	}
	if len(res.Activities)+len(res.Improvements)+len(res.ScheduleNotes) == 0 {
		b.WriteString("Your routine looks balanced. Nothing to suggest.")
	}
	return strings.TrimSpace(b.String())
}

// waterBar draws one drop per glass drunk and a blank per glass left.
func waterBar(w model.WaterIntake) string {
	filled := min(w.Amount, w.Goal)
	return strings.Repeat("💧", filled) + strings.Repeat("▫️", w.Goal-filled)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func formatSettings(s model.NotificationSettings) string {
	return fmt.Sprintf("🔔 <b>Notifications</b> %s\n"+
		"• Task reminders: %s (%d min before)\n"+
		"• Streak reminders: %s\n"+
		"• Daily motivation: %s",
		onOff(s.Enabled), onOff(s.TaskReminders), s.ReminderMinutes, onOff(s.StreakReminders), onOff(s.DailyMotivation))
}
