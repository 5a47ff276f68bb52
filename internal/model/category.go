package model

import (
	"fmt"
	"strings"
)

// Category groups tasks by area of life.
type Category string

const (
	CategoryHealth   Category = "Health"
	CategoryWork     Category = "Work"
	CategoryPersonal Category = "Personal"
	CategoryRelax    Category = "Relax"
	CategoryLearning Category = "Learning"
	CategorySocial   Category = "Social"
	CategoryStudy    Category = "Study"
	CategoryFamily   Category = "Family"
	CategoryFinance  Category = "Finance"
	CategoryMisc     Category = "Misc"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryHealth, CategoryWork, CategoryPersonal, CategoryRelax, CategoryLearning,
	CategorySocial, CategoryStudy, CategoryFamily, CategoryFinance, CategoryMisc,
}

func (c Category) Valid() bool {
	switch c {
	case CategoryHealth, CategoryWork, CategoryPersonal, CategoryRelax, CategoryLearning,
		CategorySocial, CategoryStudy, CategoryFamily, CategoryFinance, CategoryMisc:
		return true
	default:
		return false
	}
}

// Icon returns the badge shown next to the category name.
func (c Category) Icon() string {
	switch c {
	case CategoryHealth:
		return "🩺"
	case CategoryWork:
		return "💼"
	case CategoryPersonal:
		return "🧩"
	case CategoryRelax:
		return "🌿"
	case CategoryLearning:
		return "💡"
	case CategorySocial:
		return "🤝"
	case CategoryStudy:
		return "🎓"
	case CategoryFamily:
		return "🏡"
	case CategoryFinance:
		return "💰"
	case CategoryMisc:
		return "🏷️"
	default:
		return "📁"
	}
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCategory matches a category name case-insensitively.
func ParseCategory(raw string) (Category, error) {
	value := strings.TrimSpace(raw)
	for _, c := range Categories {
		if strings.EqualFold(string(c), value) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", raw)
}

// Priority is the importance of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Marker is a colored dot used in task lists.
func (p Priority) Marker() string {
	switch p {
	case PriorityLow:
		return "🟢"
	case PriorityMedium:
		return "🟡"
	case PriorityHigh:
		return "🔴"
	default:
		return "⚪"
	}
}

func (p *Priority) UnmarshalText(text []byte) error {
	parsed, err := ParsePriority(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func ParsePriority(raw string) (Priority, error) {
	value := Priority(strings.ToLower(strings.TrimSpace(raw)))
	if !value.Valid() {
		return "", fmt.Errorf("unknown priority %q", raw)
	}
	return value, nil
}

// Repeat describes how often a task comes back.
type Repeat string

const (
	RepeatDaily    Repeat = "daily"
	RepeatWeekly   Repeat = "weekly"
	RepeatWeekdays Repeat = "weekdays"
	RepeatWeekends Repeat = "weekends"
	RepeatCustom   Repeat = "custom"
	RepeatNone     Repeat = "none"
)

var Repeats = []Repeat{RepeatDaily, RepeatWeekly, RepeatWeekdays, RepeatWeekends, RepeatCustom, RepeatNone}

func (r Repeat) Valid() bool {
	switch r {
	case RepeatDaily, RepeatWeekly, RepeatWeekdays, RepeatWeekends, RepeatCustom, RepeatNone:
		return true
	default:
		return false
	}
}

// Label is the human text for the repeat policy; empty for none.
func (r Repeat) Label() string {
	switch r {
	case RepeatDaily:
		return "every day"
	case RepeatWeekly:
		return "every week"
	case RepeatWeekdays:
		return "on weekdays"
	case RepeatWeekends:
		return "on weekends"
	case RepeatCustom:
		return "custom"
	case RepeatNone:
		return ""
	default:
		return ""
	}
}

func (r *Repeat) UnmarshalText(text []byte) error {
	parsed, err := ParseRepeat(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func ParseRepeat(raw string) (Repeat, error) {
	value := Repeat(strings.ToLower(strings.TrimSpace(raw)))
	if !value.Valid() {
		return "", fmt.Errorf("unknown repeat option %q", raw)
	}
	return value, nil
}
