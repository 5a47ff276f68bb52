// Package report renders the plain-text daily routine export.
package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"daily-routine/internal/model"
)

// DateLayout is how the report header prints the day.
const DateLayout = "Monday, January 2, 2006"

// Report is the data of one day's export, already gathered.
type Report struct {
	Date    time.Time
	Tasks   []model.Task
	Mood    *model.Mood
	Journal *model.JournalEntry
}

// Filename is the suggested download name for the export of day.
func Filename(day time.Time) string {
	return fmt.Sprintf("daily-routine-%s.txt", model.DateOf(day))
}

// Format renders r. Tasks are listed in the order given.
func Format(r Report) string {
	completed := 0
	for _, t := range r.Tasks {
		if t.Completed {
			completed++
		}
	}
	percent := 0
	if len(r.Tasks) > 0 {
		percent = int(math.Round(float64(completed) / float64(len(r.Tasks)) * 100))
	}

	var b strings.Builder
	b.WriteString("DAILY ROUTINE REPORT\n")
	fmt.Fprintf(&b, "Date: %s\n\n", r.Date.Format(DateLayout))

	b.WriteString("DAILY PROGRESS\n")
	fmt.Fprintf(&b, "Completion Rate: %d%%\n", percent)
	fmt.Fprintf(&b, "Completed Tasks: %d/%d\n\n", completed, len(r.Tasks))

	if r.Mood != nil {
		b.WriteString("MOOD TRACKER\n")
		fmt.Fprintf(&b, "Today's Mood: %s %s\n", r.Mood.Emoji, r.Mood.Mood)
		if r.Mood.Notes != "" {
			fmt.Fprintf(&b, "Notes: %s\n", r.Mood.Notes)
		}
		b.WriteString("\n")
	}

	b.WriteString("TASKS\n")
	for _, t := range r.Tasks {
		status := "○"
		if t.Completed {
			status = "✓"
		}
		fmt.Fprintf(&b, "%s %s (%s) - %s\n", status, t.Name, t.Time, t.Category)
	}
	b.WriteString("\n")

	if r.Journal != nil {
		b.WriteString("DAILY JOURNAL\n")
		fmt.Fprintf(&b, "%s\n\n", r.Journal.Content)
	}

	return b.String()
}
