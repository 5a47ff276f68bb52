package routine

import (
	"math"
	"strconv"

	"daily-routine/internal/model"
)

// TimeOfDay counts tasks by the hour they start.
type TimeOfDay struct {
	Morning   int `json:"morning"`
	Afternoon int `json:"afternoon"`
	Evening   int `json:"evening"`
}

// Summary is the analytics view over a task collection.
type Summary struct {
	Total             int                    `json:"totalTasks"`
	Completed         int                    `json:"completedTasks"`
	CompletionPercent int                    `json:"completionPercent"`
	CompletionRate    float64                `json:"completionRate"`
	LongestStreak     int                    `json:"longestStreak"`
	AverageStreak     float64                `json:"averageStreak"`
	TotalDuration     int                    `json:"totalDuration"`
	ByCategory        map[model.Category]int `json:"byCategory"`
	ByPriority        map[model.Priority]int `json:"byPriority"`
	TimeOfDay         TimeOfDay              `json:"timeOfDay"`
}

func (s *Store) Summary() Summary {
	return Summarize(s.tasks)
}

// Summarize computes analytics for tasks. Hours before 12 count as morning,
// before 18 as afternoon, the rest as evening.
func Summarize(tasks []model.Task) Summary {
	sum := Summary{
		Total:      len(tasks),
		ByCategory: make(map[model.Category]int),
		ByPriority: make(map[model.Priority]int),
	}
	streaks := 0
	for _, t := range tasks {
		if t.Completed {
			sum.Completed++
		}
		streaks += t.Streak
		if t.Streak > sum.LongestStreak {
			sum.LongestStreak = t.Streak
		}
		sum.TotalDuration += t.Duration
		sum.ByCategory[t.Category]++
		sum.ByPriority[t.Priority]++

		switch hour := taskHour(t.Time); {
		case hour < 12:
			sum.TimeOfDay.Morning++
		case hour < 18:
			sum.TimeOfDay.Afternoon++
		default:
			sum.TimeOfDay.Evening++
		}
	}
	if sum.Total > 0 {
		sum.CompletionRate = float64(sum.Completed) / float64(sum.Total) * 100
		sum.AverageStreak = float64(streaks) / float64(sum.Total)
	}
	sum.CompletionPercent = int(math.Round(sum.CompletionRate))
	return sum
}

func taskHour(clock string) int {
	if len(clock) < 2 {
		return 0
	}
	hour, err := strconv.Atoi(clock[:2])
	if err != nil {
		return 0
	}
	return hour
}
