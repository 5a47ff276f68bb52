// Package analyzer produces advisory suggestions from a routine's tasks using
// fixed time and category heuristics.
package analyzer

import (
	"fmt"
	"sort"

	"daily-routine/internal/model"
)

const (
	napMinGap  = 120
	napMaxGap  = 240
	longTask   = 60
	earlyStart = "08:00"
	lateEnd    = "22:00"
	noon       = "12:00"
	evening    = "17:00"
)

// Suggestion is an activity the routine could gain.
type Suggestion struct {
	Name     string         `json:"name"`
	Time     string         `json:"time"`
	Duration int            `json:"duration"`
	Category model.Category `json:"category"`
}

func (s Suggestion) String() string {
	return fmt.Sprintf("%s at %s (%d min)", s.Name, s.Time, s.Duration)
}

// Result holds the three independent advice lists in the order the checks ran.
type Result struct {
	Activities    []Suggestion `json:"activities"`
	Improvements  []string     `json:"improvements"`
	ScheduleNotes []string     `json:"scheduleNotes"`
}

type gap struct {
	start, end string
	minutes    int
}

// Analyze runs every check over tasks. It does not modify tasks.
func Analyze(tasks []model.Task) Result {
	res := Result{
		Activities:    []Suggestion{},
		Improvements:  []string{},
		ScheduleNotes: []string{},
	}

	var morning, afternoon, night int
	for _, t := range tasks {
		switch {
		case t.Time < noon:
			morning++
		case t.Time < evening:
			afternoon++
		default:
			night++
		}
	}

	gaps := findGaps(tasks)
	for _, g := range gaps {
		if g.minutes >= napMinGap && g.minutes < napMaxGap {
			res.Activities = append(res.Activities, Suggestion{
				Name:     "Power Nap",
				Time:     g.start,
				Duration: g.minutes / 2,
				Category: model.CategoryRelax,
			})
		}
	}

	if morning == 0 {
		res.Activities = append(res.Activities, Suggestion{Name: "Morning Meditation", Time: "07:00", Duration: 15, Category: model.CategoryHealth})
	}
	if afternoon == 0 {
		res.Activities = append(res.Activities, Suggestion{Name: "Afternoon Walk", Time: "14:00", Duration: 20, Category: model.CategoryHealth})
	}
	if night == 0 {
		res.Activities = append(res.Activities, Suggestion{Name: "Evening Reflection", Time: "20:00", Duration: 15, Category: model.CategoryPersonal})
	}

	categories := make(map[model.Category]struct{})
	for _, t := range tasks {
		categories[t.Category] = struct{}{}
	}
	if len(categories) < 3 {
		res.Improvements = append(res.Improvements, fmt.Sprintf(
			"Add variety: your routine covers %d of %d categories. Mix in activities from other areas of life.",
			len(categories), len(model.Categories)))
	}

	if largest, ok := largestGap(gaps); ok && largest.minutes >= napMinGap {
		res.ScheduleNotes = append(res.ScheduleNotes, fmt.Sprintf(
			"You have a %d-hour free block between %s and %s. Use it for focused work or a longer activity.",
			largest.minutes/60, largest.start, largest.end))
	}

	long := 0
	early, late := false, false
	for _, t := range tasks {
		if t.Duration > longTask {
			long++
		}
		if t.Time < earlyStart {
			early = true
		}
		if t.Time > lateEnd {
			late = true
		}
	}
	if long > 2 {
		res.Improvements = append(res.Improvements, "Several tasks run longer than an hour. Add short breaks between them.")
	}
	if !early {
		res.Improvements = append(res.Improvements, "Nothing starts before 08:00. Starting a little earlier leaves room for a calmer morning.")
	}
	if late {
		res.Improvements = append(res.Improvements, "Some tasks are scheduled after 22:00. Move them earlier to protect your sleep.")
	}

	return res
}

// findGaps returns the gaps between consecutive tasks sorted by time. Tasks
// with an unreadable time are left out.
func findGaps(tasks []model.Task) []gap {
	type timed struct {
		clock   string
		minutes int
	}
	var sorted []timed
	for _, t := range tasks {
		m, err := model.ClockMinutes(t.Time)
		if err != nil {
			continue
		}
		sorted = append(sorted, timed{clock: t.Time, minutes: m})
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].minutes < sorted[j].minutes })

	var gaps []gap
	for i := 1; i < len(sorted); i++ {
		gaps = append(gaps, gap{
			start:   sorted[i-1].clock,
			end:     sorted[i].clock,
			minutes: sorted[i].minutes - sorted[i-1].minutes,
		})
	}
	return gaps
}

// largestGap picks the first of the longest gaps.
func largestGap(gaps []gap) (gap, bool) {
	if len(gaps) == 0 {
		return gap{}, false
	}
	best := gaps[0]
	for _, g := range gaps[1:] {
		if g.minutes > best.minutes {
			best = g
		}
	}
	return best, true
}
